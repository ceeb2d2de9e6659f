// Package api implements the REST transport for the arena backend: bearer
// token injection, response-envelope decoding, and a single refresh-and-retry
// cycle on token expiry.
package api

import "context"

// Client is the request surface the services are built on. Do issues an
// authenticated call; DoPublic skips the bearer token (login, refresh).
//
// body is JSON-encoded when non-nil; the envelope's data field is decoded
// into out when out is non-nil.
type Client interface {
	Do(ctx context.Context, method, endpoint string, body any, out any) error
	DoPublic(ctx context.Context, method, endpoint string, body any, out any) error
}
