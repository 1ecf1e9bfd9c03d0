// Package identity verifies bearer tokens issued by the account service.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/clock"

	"github.com/golang-jwt/jwt/v5"
)

var ErrSecretIsRequired = errors.New("jwt secret is required")

// Claims carry the account state next to the standard claims. Subject is the owner id.
type Claims struct {
	jwt.RegisteredClaims
	Active bool `json:"active"`
	Locked bool `json:"locked"`
}

// JWTProvider is a ports.IdentityProvider for HS256 tokens signed with a shared secret.
type JWTProvider struct {
	secret []byte
	clock  clock.Clock
	parser *jwt.Parser
}

// NewJWTProvider creates an HS256 provider. An empty secret is rejected.
func NewJWTProvider(secret string, clk clock.Clock) (*JWTProvider, error) {
	if secret == "" {
		return nil, ErrSecretIsRequired
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &JWTProvider{
		secret: []byte(secret),
		clock:  clk,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(clk.Now),
		),
	}, nil
}

func (p *JWTProvider) Authenticate(_ context.Context, token string) (ports.Principal, error) {
	if token == "" {
		return ports.Principal{}, ports.ErrUnauthenticated
	}

	var claims Claims
	if _, err := p.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	}); err != nil {
		return ports.Principal{}, fmt.Errorf("%w: %w", ports.ErrUnauthenticated, err)
	}

	ownerID, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return ports.Principal{}, fmt.Errorf("%w: subject: %w", ports.ErrUnauthenticated, err)
	}

	return ports.Principal{
		OwnerID:  ownerID,
		IsActive: claims.Active,
		IsLocked: claims.Locked,
	}, nil
}

// Issue signs a token for ownerID valid for ttl. Used by tests and local tooling.
func (p *JWTProvider) Issue(ownerID kernel.UUID, active, locked bool, ttl time.Duration) (string, error) {
	now := p.clock.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ownerID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Active: active,
		Locked: locked,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}
