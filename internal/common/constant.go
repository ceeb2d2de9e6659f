// Package common contains shared constants used across client components.
package common

const (
	// AuthorizationHeaderName is the HTTP header carrying the access token.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix prefixes the access token in the Authorization header.
	BearerPrefix = "Bearer "
)
