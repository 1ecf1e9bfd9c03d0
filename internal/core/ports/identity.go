package ports

import (
	"context"
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrAccountDisabled = errors.New("account is inactive or locked")
)

// Principal is the verified caller of a request.
type Principal struct {
	OwnerID  kernel.UUID
	IsActive bool
	IsLocked bool
}

// CanAct reports whether the principal may use the API.
func (p Principal) CanAct() bool {
	return p.IsActive && !p.IsLocked && p.OwnerID.Validate() == nil
}

// IdentityProvider verifies a bearer token.
// It returns ErrUnauthenticated for missing, malformed or expired tokens.
type IdentityProvider interface {
	Authenticate(ctx context.Context, token string) (Principal, error)
}
