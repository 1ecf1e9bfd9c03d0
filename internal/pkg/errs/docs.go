// Package errs provides the error kinds shared by the parcel tracking service.
//
// Every kind follows the same shape: a sentinel (ErrValueIsRequired, ...),
// a struct carrying details, constructors with and without a cause, an
// Error method and an Unwrap method so callers classify with errors.Is.
//
// Kinds and how the HTTP layer surfaces them:
//   - ValueIsRequired, ValueIsInvalid, ValueIsOutOfRange: validation, 400
//   - ObjectNotFound: 404
//   - InvalidTransition, InvalidState, VersionIsInvalid, ObjectAlreadyExist: 409
//   - StorageFailure: 503, safe to retry for reads only
package errs
