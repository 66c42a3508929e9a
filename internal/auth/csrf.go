package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
)

const csrfTokenBytes = 32

// GenerateCSRFToken creates a cryptographically random token. One token is
// stored per session and reused until the session itself resets.
func GenerateCSRFToken() (string, error) {
	randomBytes := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(randomBytes), nil
}

// VerifyCSRFToken compares a submitted token against the session's token.
// It fails closed: no session token, empty candidate, or any mismatch is
// false. The comparison is constant time regardless of where the tokens
// differ.
func VerifyCSRFToken(sessionToken *string, candidate string) bool {
	if sessionToken == nil || *sessionToken == "" || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*sessionToken), []byte(candidate)) == 1
}
