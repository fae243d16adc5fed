package common

const (
	// AuthorizationHeaderName carries the ID token on inbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token inside the Authorization header.
	BearerPrefix = "Bearer "

	// RoleClaim is the custom claim that holds the caller's role.
	RoleClaim = "role"
)
