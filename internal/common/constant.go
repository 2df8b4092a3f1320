package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix must open the Authorization header value, case-sensitive and
// including the trailing space.
const BearerPrefix = "Bearer "

// Route paths of the public HTTP surface.
const (
	SignUpPath = "/app/sign-up"
	LoginPath  = "/app/login"
)
