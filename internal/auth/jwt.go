package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "seedgate"

// ErrNoSecret is returned when signing without a configured secret.
var ErrNoSecret = errors.New("auth: signing secret is not configured")

type claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// JWTResolver resolves identities from HS256 bearer tokens in the
// Authorization header.
type JWTResolver struct {
	secret []byte
	now    func() time.Time
}

// NewJWTResolver returns a resolver verifying tokens signed with secret. An
// empty secret resolves nothing.
func NewJWTResolver(secret string) *JWTResolver {
	return &JWTResolver{secret: []byte(secret), now: time.Now}
}

// Resolve implements Resolver.
func (j *JWTResolver) Resolve(r *http.Request) (Identity, bool) {
	if len(j.secret) == 0 {
		return Identity{}, false
	}

	raw, ok := bearerToken(r)
	if !ok {
		return Identity{}, false
	}

	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil || strings.TrimSpace(c.Subject) == "" {
		return Identity{}, false
	}

	return Identity{Subject: c.Subject, Role: c.Role}, true
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Issuer mints tokens accepted by a JWTResolver sharing the same secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer whose tokens expire after ttl.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for subject with the given role.
func (i *Issuer) Issue(subject, role string) (string, error) {
	if len(i.secret) == 0 {
		return "", ErrNoSecret
	}
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("auth: subject is required")
	}

	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Role: role,
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
