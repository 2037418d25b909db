package auth

// Identity is the verified, request-scoped representation of the caller,
// derived from a validated token. The admin flag is re-resolved against
// the current user record on every request, never trusted from claims.
type Identity struct {
	ID      string
	Email   string
	IsAdmin bool
}
