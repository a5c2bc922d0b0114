package billing

import (
	"crypto/subtle"
)

// Authenticator verifies that an inbound webhook genuinely originates from
// the configured provider. The shared-secret token may arrive in the payload
// body or as a query parameter, depending on how the webhook URL was
// registered.
type Authenticator struct {
	secret  string
	devMode bool
}

// NewAuthenticator builds an Authenticator. With an empty secret verification
// only succeeds in development mode; production fails closed.
func NewAuthenticator(secret string, devMode bool) Authenticator {
	return Authenticator{secret: secret, devMode: devMode}
}

// Verify reports whether either token placement matches the shared secret.
// Comparisons are constant-time.
func (a Authenticator) Verify(bodyToken, queryToken string) bool {
	if a.secret == "" {
		return a.devMode
	}
	return tokenEqual(bodyToken, a.secret) || tokenEqual(queryToken, a.secret)
}

func tokenEqual(token, secret string) bool {
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}
