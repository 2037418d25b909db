package auth

import (
	"fmt"

	"github.com/alexedwards/argon2id"
)

// PasswordHasher wraps argon2id with a fixed set of parameters.
// Every Hash call embeds a fresh random salt, so hashing the same
// plaintext twice yields different digests.
type PasswordHasher struct {
	params *argon2id.Params
}

func NewPasswordHasher() PasswordHasher {
	return PasswordHasher{
		params: argon2id.DefaultParams,
	}
}

func (h PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := argon2id.CreateHash(plaintext, h.params)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return digest, nil
}

// Verify reports whether plaintext matches the digest. The comparison
// is constant-time. A mismatch is a false result, not an error; an
// error means the digest itself could not be decoded.
func (h PasswordHasher) Verify(plaintext, digest string) (bool, error) {
	match, err := argon2id.ComparePasswordAndHash(plaintext, digest)
	if err != nil {
		return false, fmt.Errorf("failed to compare password: %w", err)
	}
	return match, nil
}
