package auth

import (
	"crypto/subtle"
	"strings"
)

// hashedPrefixes are the bcrypt version markers a stored hash may start with
var hashedPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// CredentialKind tells how a stored password value is encoded
type CredentialKind int

const (
	CredentialEmpty CredentialKind = iota
	CredentialLegacy
	CredentialHashed
)

func (k CredentialKind) String() string {
	switch k {
	case CredentialLegacy:
		return "legacy"
	case CredentialHashed:
		return "hashed"
	default:
		return "empty"
	}
}

// Credential is a stored password value tagged with its encoding.
// Legacy values predate hashing and are compared by equality; they are
// only ever read, never written.
type Credential struct {
	Kind  CredentialKind
	Value string
}

// ParseCredential detects the encoding of a stored password by its prefix
func ParseCredential(stored string) Credential {
	if strings.TrimSpace(stored) == "" {
		return Credential{Kind: CredentialEmpty}
	}
	if IsHashed(stored) {
		return Credential{Kind: CredentialHashed, Value: stored}
	}
	return Credential{Kind: CredentialLegacy, Value: stored}
}

// IsHashed reports whether value carries a recognized hash prefix
func IsHashed(value string) bool {
	for _, prefix := range hashedPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// Matches checks plain against the credential, dispatching on its kind
func (c Credential) Matches(verifier PasswordVerifier, plain string) bool {
	switch c.Kind {
	case CredentialHashed:
		return verifier.Verify(plain, c.Value)
	case CredentialLegacy:
		return subtle.ConstantTimeCompare([]byte(c.Value), []byte(plain)) == 1
	default:
		return false
	}
}

// PasswordMatches is shorthand for ParseCredential(stored).Matches(verifier, plain)
func PasswordMatches(verifier PasswordVerifier, plain, stored string) bool {
	return ParseCredential(stored).Matches(verifier, plain)
}

// HashForStorage returns the value to persist for a password write.
// Values that are already hashed pass through; everything else is hashed.
func HashForStorage(verifier PasswordVerifier, plain string) (string, error) {
	trimmed := strings.TrimSpace(plain)
	if IsHashed(trimmed) {
		return trimmed, nil
	}
	return verifier.Hash(trimmed)
}
