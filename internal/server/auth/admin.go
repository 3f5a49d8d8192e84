package auth

import "crypto/subtle"

// AdminGate checks the single shared administrator password.
type AdminGate struct {
	secret []byte
}

func NewAdminGate(secret string) *AdminGate {
	return &AdminGate{secret: []byte(secret)}
}

// Check reports whether candidate equals the configured secret. An empty
// secret never matches.
func (g *AdminGate) Check(candidate string) bool {
	if len(g.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(g.secret, []byte(candidate)) == 1
}
