package model

// Auth error codes returned to clients alongside 401 responses. Token
// issuance belongs to the external identity provider; we only validate.
const (
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeTokenInvalid = "TOKEN_INVALID"
)
