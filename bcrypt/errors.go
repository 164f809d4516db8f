package bcrypt

import "errors"

// Sentinel errors returned by this package.
//
// Use [errors.Is] for comparisons:
//
//	_, err := bcrypt.HashPassword(pw, stored)
//	if errors.Is(err, bcrypt.ErrMalformedHash) {
//	    // stored record is structurally invalid
//	}
var (
	// ErrInvalidCost is returned when a requested work factor lies
	// outside [MinCost, MaxCost].  Out-of-range costs are rejected, never
	// clamped: silently weakening (or exploding) the work factor is worse
	// than failing loudly.
	ErrInvalidCost = errors.New("bcrypt: cost outside allowed range")

	// ErrInvalidVersion is returned by [GenerateSaltVersion] when the
	// version tag is not one of "2", "2a", "2b", "2x", "2y".
	ErrInvalidVersion = errors.New("bcrypt: unknown version tag")

	// ErrMalformedHash is returned when a salt or hash string fails
	// structural validation: wrong length, unrecognised version tag,
	// non-two-digit or out-of-range cost, or characters outside the
	// bcrypt base64 alphabet.
	ErrMalformedHash = errors.New("bcrypt: malformed hash string")

	// ErrEntropySource is returned by [GenerateSalt] when the supplied
	// random source fails before yielding 16 bytes.  The source's own
	// error is wrapped alongside and remains reachable via [errors.Is] /
	// [errors.As].
	ErrEntropySource = errors.New("bcrypt: entropy source failure")
)
