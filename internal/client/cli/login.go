package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/services"
)

// getSimpleText and getSecret are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getSecret = GetSecret

// Login prompts for a Google ID token (obtained out of band, e.g. via the
// OAuth playground) and signs in. The resulting session state decides what
// happens next: an incomplete profile triggers the profile prompts, a fresh
// account the onboarding confirmation.
func (a *App) Login(ctx context.Context) error {
	idToken, err := getSecret("Paste Google ID token", os.Stdout)
	if err != nil {
		return err
	}

	st, err := a.session.SignIn(ctx, idToken)
	if err != nil {
		fmt.Println("Sign-in failed:", err)
		return err
	}

	fmt.Println("Signed in.")
	switch st {
	case services.StateIncompleteProfile:
		fmt.Println("Your profile is missing required fields; use 'update' to fill them in.")
	case services.StateOnboarding:
		fmt.Println("Welcome! Use 'onboard' once you have had a look around.")
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.SignOut(ctx); err != nil {
		fmt.Println("Sign-out error:", err)
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

// DeleteAccount permanently removes the account after an explicit
// confirmation prompt.
func (a *App) DeleteAccount(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "This permanently deletes your account. Type 'yes' to confirm", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		fmt.Println("Aborted.")
		return nil
	}

	if err := a.session.DeleteAccount(ctx); err != nil {
		fmt.Println("Delete failed:", err)
		return err
	}
	fmt.Println("Account deleted.")
	return nil
}
