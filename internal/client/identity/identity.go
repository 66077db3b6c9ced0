// Package identity adapts the external identity provider: it yields a stable
// identity string and whether a user is signed in.
package identity

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrSignedOut = errors.New("signed out")

// Provider is what the rest of the client needs from the identity provider.
type Provider interface {
	// Identity returns the stable subject and whether it is signed in.
	Identity() (string, bool)
}

// Static is a fixed identity, for tests and offline use.
type Static string

func (s Static) Identity() (string, bool) {
	return string(s), s != ""
}

// TokenProvider holds an HS256-signed ID token issued by the identity
// provider. The token's sub claim is the identity.
type TokenProvider struct {
	secret []byte
	now    func() time.Time

	mu      sync.RWMutex
	raw     string
	subject string
	expires time.Time
}

func NewTokenProvider(secret []byte) *TokenProvider {
	return &TokenProvider{secret: secret, now: time.Now}
}

// SetToken verifies raw and makes it the current token.
func (p *TokenProvider) SetToken(raw string) error {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("identity token: %w", err)
	}
	if claims.Subject == "" {
		return fmt.Errorf("identity token: empty subject")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.raw, p.subject, p.expires = raw, claims.Subject, claims.ExpiresAt.Time
	return nil
}

// SignOut forgets the token.
func (p *TokenProvider) SignOut() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.raw, p.subject, p.expires = "", "", time.Time{}
}

func (p *TokenProvider) Identity() (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.subject == "" || !p.now().Before(p.expires) {
		return p.subject, false
	}
	return p.subject, true
}

// Token returns the raw token for the transport. It fails once the token
// has expired.
func (p *TokenProvider) Token() (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.raw == "" {
		return "", nil
	}
	if !p.now().Before(p.expires) {
		return "", ErrSignedOut
	}
	return p.raw, nil
}

// Issue signs a token for subject valid for ttl. Development and tests use it
// in place of the real provider.
func Issue(secret []byte, subject string, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
