// Package clerk verifies identity-provider session tokens and provides the gin guards
// that resolve them to users and companies.
package clerk

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"jobportal_backend/internal/platform/config"
)

var (
	// ErrNotConfigured is returned by Verify when no verification key is configured.
	ErrNotConfigured = errors.New("clerk: verification key not configured")
	// ErrInvalidToken wraps every signature, expiry, or claim failure.
	ErrInvalidToken = errors.New("clerk: invalid session token")
)

// Leeway tolerated on exp/nbf/iat checks.
const Leeway = 5 * time.Second

// Claims are the session token claims the API relies on.
type Claims struct {
	OrgID           string    `json:"org_id,omitempty"`
	Org             *OrgClaim `json:"o,omitempty"`
	Name            string    `json:"name,omitempty"`
	Email           string    `json:"email,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`
	AuthorizedParty string    `json:"azp,omitempty"`
	jwt.RegisteredClaims
}

// OrgClaim is the compact organization claim of v2 session tokens.
type OrgClaim struct {
	ID string `json:"id"`
}

// UserID returns the identity-provider user id.
func (c *Claims) UserID() string {
	return c.Subject
}

// OrganizationID returns the active organization id, or "" when the session has none.
func (c *Claims) OrganizationID() string {
	if c.OrgID != "" {
		return c.OrgID
	}
	if c.Org != nil {
		return c.Org.ID
	}
	return ""
}

// Verifier checks RS256 session tokens against the instance public key.
type Verifier struct {
	key     *rsa.PublicKey
	parties map[string]struct{}
	parser  *jwt.Parser
}

// NewVerifier builds a Verifier from cfg. An empty key yields a Verifier that rejects
// every token with ErrNotConfigured.
func NewVerifier(cfg config.ClerkConfig) (*Verifier, error) {
	v := &Verifier{
		parties: make(map[string]struct{}, len(cfg.AuthorizedParties)),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithLeeway(Leeway),
			jwt.WithExpirationRequired(),
		),
	}
	for _, p := range cfg.AuthorizedParties {
		if p = strings.TrimSpace(p); p != "" {
			v.parties[p] = struct{}{}
		}
	}

	pem := strings.TrimSpace(cfg.JWTKey)
	if pem == "" {
		return v, nil
	}
	// Keys pasted into a single env line usually carry literal \n sequences.
	pem = strings.ReplaceAll(pem, `\n`, "\n")
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
	if err != nil {
		return nil, fmt.Errorf("parse clerk public key: %w", err)
	}
	v.key = key
	return v, nil
}

// Configured reports whether a verification key is present.
func (v *Verifier) Configured() bool {
	return v.key != nil
}

// Verify parses and validates token and returns its claims.
func (v *Verifier) Verify(token string) (*Claims, error) {
	if v.key == nil {
		return nil, ErrNotConfigured
	}

	claims := &Claims{}
	parsed, err := v.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if len(v.parties) > 0 && claims.AuthorizedParty != "" {
		if _, ok := v.parties[claims.AuthorizedParty]; !ok {
			return nil, fmt.Errorf("%w: unauthorized party %q", ErrInvalidToken, claims.AuthorizedParty)
		}
	}
	return claims, nil
}
