package domain

import (
	"github.com/alexedwards/argon2id"
)

// PasswordHasher wraps argon2id hashing for user accounts and room
// passwords. Hashing is CPU-bound and runs on the request goroutine,
// off the accept loop.
type PasswordHasher struct {
	params *argon2id.Params
}

func NewPasswordHasher(time, memory, keyLength, saltLength uint32, parallelism uint8) *PasswordHasher {
	return &PasswordHasher{
		params: &argon2id.Params{
			Memory:      memory,
			Iterations:  time,
			Parallelism: parallelism,
			SaltLength:  saltLength,
			KeyLength:   keyLength,
		},
	}
}

// NewDefaultPasswordHasher uses the argon2id library defaults.
func NewDefaultPasswordHasher() *PasswordHasher {
	return &PasswordHasher{params: argon2id.DefaultParams}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	return argon2id.CreateHash(password, h.params)
}

// Verify reports whether plain matches the stored hash.
func (h *PasswordHasher) Verify(plain, hash string) (bool, error) {
	return argon2id.ComparePasswordAndHash(plain, hash)
}
