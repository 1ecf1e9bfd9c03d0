package http

import (
	"reflect"
	"strings"

	"parceltrack/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

// BearerAuth resolves the caller from the Authorization header.
// A missing or bad token yields 401; an inactive or locked account yields 403.
func BearerAuth(identities ports.IdentityProvider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				return ports.ErrUnauthenticated
			}

			principal, err := identities.Authenticate(c.Request().Context(), strings.TrimSpace(token))
			if err != nil {
				return err
			}
			if !principal.CanAct() {
				return ports.ErrAccountDisabled
			}

			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

func principalFrom(c echo.Context) (ports.Principal, error) {
	p, ok := c.Get(principalKey).(ports.Principal)
	if !ok {
		return ports.Principal{}, ports.ErrUnauthenticated
	}
	return p, nil
}

// BodyValidator checks request DTOs against their validate tags.
// Field errors are reported by their JSON names.
type BodyValidator struct {
	validate *validator.Validate
}

// NewBodyValidator creates a validator reporting fields by their json names.
func NewBodyValidator() *BodyValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &BodyValidator{validate: v}
}

func (b *BodyValidator) Validate(i any) error {
	return b.validate.Struct(i)
}
