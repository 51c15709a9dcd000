// Package errs holds the error types shared by the domain, the use cases and
// the adapters.
//
// Validation:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError
//
// Lookup and state:
//   - ObjectNotFoundError
//   - ConflictError: the current state forbids the change (already resolved,
//     wrong status, duplicate external reference)
//   - BlockedError: manual release refused; lists the items still awaiting
//     an up-sell decision
//
// Outbound calls:
//   - ExternalServiceError: label provider and other collaborators
//
// Every type has a sentinel (ErrValueIsRequired, ErrConflict, ...) that it
// unwraps to, so callers classify with errors.Is and read details with
// errors.As. An underlying cause, if any, is kept in the Cause field.
package errs
