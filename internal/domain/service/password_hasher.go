// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (e.g., bcrypt), keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	// The returned hash is complete; nothing observes a partially hashed credential.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a hash to see if they match.
	// Malformed hashes simply fail the check, they never panic or error.
	Check(password, hash string) bool

	// ValidatePasswordStrength checks a candidate password against the configured policy.
	ValidatePasswordStrength(password string) error
}
