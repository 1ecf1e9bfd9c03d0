package http

import (
	"errors"
	"net/http"
	"strings"

	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Error is the body of every failed response.
type Error struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// ErrorHandler renders handler errors as Error bodies.
// Only 5xx responses are logged.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	logger = logger.With(zap.String("component", "http"))

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		body := toError(err)
		if body.Code >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Int("status", body.Code),
				zap.Error(err))
		}

		if writeErr := c.JSON(body.Code, body); writeErr != nil {
			logger.Warn("write error response", zap.Error(writeErr))
		}
	}
}

func toError(err error) Error {
	var (
		contractErr *contractError
		fieldErrs   validator.ValidationErrors
		echoErr     *echo.HTTPError
	)

	switch {
	case errors.As(err, &contractErr):
		return Error{Code: http.StatusBadRequest, Message: "request does not match the api contract", Details: contractErr.details}
	case errors.As(err, &fieldErrs):
		return Error{Code: http.StatusBadRequest, Message: "request is invalid", Details: fieldNames(fieldErrs)}
	case errs.IsValidation(err):
		return Error{Code: http.StatusBadRequest, Message: err.Error(), Details: paramNames(err)}
	case errors.Is(err, ports.ErrUnauthenticated):
		return Error{Code: http.StatusUnauthorized, Message: "authentication required"}
	case errors.Is(err, ports.ErrAccountDisabled):
		return Error{Code: http.StatusForbidden, Message: ports.ErrAccountDisabled.Error()}
	case errors.Is(err, errs.ErrObjectNotFound):
		return Error{Code: http.StatusNotFound, Message: err.Error()}
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrInvalidState),
		errors.Is(err, errs.ErrVersionIsInvalid),
		errors.Is(err, errs.ErrObjectAlreadyExist):
		return Error{Code: http.StatusConflict, Message: err.Error()}
	case errors.Is(err, errs.ErrStorageFailure):
		return Error{Code: http.StatusServiceUnavailable, Message: "storage is unavailable, retry later"}
	case errors.As(err, &echoErr):
		return Error{Code: echoErr.Code, Message: strings.ToLower(http.StatusText(echoErr.Code))}
	default:
		return Error{Code: http.StatusInternalServerError, Message: "internal error"}
	}
}

// paramNames lists the fields named by the validation errors joined in err.
func paramNames(err error) []string {
	var out []string
	walk(err, func(e error) {
		switch v := e.(type) {
		case *errs.ValueIsRequiredError:
			out = append(out, v.ParamName)
		case *errs.ValueIsInvalidError:
			out = append(out, v.ParamName)
		case *errs.ValueIsOutOfRangeError:
			out = append(out, v.ParamName)
		}
	})
	return out
}

func walk(err error, visit func(error)) {
	if err == nil {
		return
	}
	visit(err)
	switch u := err.(type) { //nolint:errorlint // walking the tree by hand
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			walk(e, visit)
		}
	case interface{ Unwrap() error }:
		walk(u.Unwrap(), visit)
	}
}

func fieldNames(fe validator.ValidationErrors) []string {
	out := make([]string, 0, len(fe))
	for _, e := range fe {
		ns := e.Namespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		out = append(out, ns)
	}
	return out
}
