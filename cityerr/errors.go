// Package cityerr defines the error kinds shared by every stage of the
// street-network generator.
//
// Error policy:
//   - Callers MUST use errors.Is against the sentinels below to branch on
//     kind; sentinels are never stringified with parameters baked in.
//   - Call sites attach context with fmt.Errorf("...: %w", Err...).
//   - All three kinds are fatal to the current generation run: no retries
//     are attempted inside the core. The caller may restart with a
//     different seed.
package cityerr

import "errors"

// ErrInvalidArgument reports a malformed input: a curve without exactly
// four control points, a sample count below 2, an empty probe set where a
// non-empty one is required, or ArcLengthToT called on a zero-length curve.
var ErrInvalidArgument = errors.New("cityerr: invalid argument")

// ErrPreconditionViolated reports that a street segment failed to produce
// exactly one intersection with an intersection-area boundary. It signals
// an upstream geometry inconsistency and is never recoverable in place.
var ErrPreconditionViolated = errors.New("cityerr: precondition violated")

// ErrOutOfDomain reports a curve parameter t passed outside [t1, t2].
var ErrOutOfDomain = errors.New("cityerr: value out of domain")
