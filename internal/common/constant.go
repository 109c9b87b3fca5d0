// Package common contains shared constants and sentinel errors used across
// assistant components.
package common

const (
	// AuthorizationHeaderName carries the bearer token on inbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token in the Authorization header.
	BearerPrefix = "Bearer "

	// TokenType is reported to clients alongside the access token.
	TokenType = "bearer"
)
