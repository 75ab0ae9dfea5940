package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the exact scheme prefix required in the Authorization header.
const BearerPrefix = "Bearer "
