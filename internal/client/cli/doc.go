// Package cli provides the interactive arena command-line client.
//
// It wires configuration, the local sqlite store, the REST API client, the
// realtime channel and the application services into an interactive REPL.
// Typical flow: restore the persisted session, open the realtime channel if
// signed in, and execute user commands.
//
// Key features:
//   - Sign in with a Google ID token, sign out, delete account
//   - Profile viewing and completion
//   - Player list with challenge eligibility
//   - Leaderboard (overall, gender-filtered, weekly)
//   - Sending, accepting and rejecting challenges
//   - Notification feed kept live via server push
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
