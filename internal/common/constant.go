package common

// AuthorizationHeaderName is the HTTP header carrying the bearer credential.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the authorization scheme expected in the header value.
// Matching is case-insensitive per RFC 7235.
const BearerScheme = "Bearer"
