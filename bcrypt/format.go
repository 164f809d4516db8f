package bcrypt

import (
	"fmt"
	"strings"
)

const (
	majorVersion = '2'

	// encodedSaltLen is the length of a base64-encoded 16-byte salt.
	encodedSaltLen = 22
	// encodedDigestLen is the length of a base64-encoded 23-byte digest.
	encodedDigestLen = 31

	rawSaltLen   = 16
	rawDigestLen = 23
)

// minorVersions are the recognised minor version tags.  2a, 2b and 2y
// are algorithmically identical for correctly encoded input; 2x marks
// records from the buggy crypt_blowfish key expansion and is accepted
// read-only for legacy stores.
const minorVersions = "abxy"

// record is one parsed bcrypt salt or hash string.  The salt and digest
// are kept in their encoded form so that a parsed record re-serialises
// byte-for-byte; decoding happens on demand when the raw bytes feed the
// key schedule.
type record struct {
	minor  byte // 0 for the bare "$2$" version
	cost   int
	salt   []byte // encodedSaltLen characters
	digest []byte // encodedDigestLen characters, or nil for a salt-only record
}

// version returns the record's version tag ("2", "2a", ...).
func (r *record) version() string {
	if r.minor == 0 {
		return string(majorVersion)
	}
	return string([]byte{majorVersion, r.minor})
}

// String serialises the record canonically:
//
//	$<version>$<2-digit cost>$<salt><digest>
//
// A parsed record always reproduces its input string exactly.
func (r *record) String() string {
	var b strings.Builder
	b.Grow(7 + len(r.salt) + len(r.digest))
	b.WriteByte('$')
	b.WriteString(r.version())
	b.WriteByte('$')
	b.WriteByte('0' + byte(r.cost/10))
	b.WriteByte('0' + byte(r.cost%10))
	b.WriteByte('$')
	b.Write(r.salt)
	b.Write(r.digest)
	return b.String()
}

// parseRecord parses a bcrypt salt or full hash string.  The layout is
// fixed and validated strictly:
//
//	$<2|2a|2b|2x|2y>$<cc>$<22 salt chars>[<31 digest chars>]
//
// cc must be exactly two ASCII digits in [04, 31]; salt and digest must
// consist solely of bcrypt base64 alphabet characters and decode to 16
// and 23 bytes respectively.  Anything else is ErrMalformedHash.
func parseRecord(s string) (*record, error) {
	rest, minor, err := parseVersion(s)
	if err != nil {
		return nil, err
	}

	cost, rest, err := parseCost(rest)
	if err != nil {
		return nil, err
	}

	var saltPart, digestPart string
	switch len(rest) {
	case encodedSaltLen:
		saltPart = rest
	case encodedSaltLen + encodedDigestLen:
		saltPart, digestPart = rest[:encodedSaltLen], rest[encodedSaltLen:]
	default:
		return nil, fmt.Errorf("%w: salt/digest section has length %d, want %d or %d",
			ErrMalformedHash, len(rest), encodedSaltLen, encodedSaltLen+encodedDigestLen)
	}

	if raw, err := base64Decode([]byte(saltPart)); err != nil || len(raw) != rawSaltLen {
		return nil, fmt.Errorf("%w: invalid salt encoding", ErrMalformedHash)
	}
	if digestPart != "" {
		if raw, err := base64Decode([]byte(digestPart)); err != nil || len(raw) != rawDigestLen {
			return nil, fmt.Errorf("%w: invalid digest encoding", ErrMalformedHash)
		}
	}

	r := &record{
		minor: minor,
		cost:  cost,
		salt:  []byte(saltPart),
	}
	if digestPart != "" {
		r.digest = []byte(digestPart)
	}
	return r, nil
}

// parseVersion consumes "$<version>$" and returns the remainder.
func parseVersion(s string) (rest string, minor byte, err error) {
	if len(s) < 4 || s[0] != '$' || s[1] != majorVersion {
		return "", 0, fmt.Errorf("%w: missing \"$2\" prefix", ErrMalformedHash)
	}
	if s[2] == '$' {
		return s[3:], 0, nil
	}
	if !strings.ContainsRune(minorVersions, rune(s[2])) || s[3] != '$' {
		return "", 0, fmt.Errorf("%w: unrecognised version tag", ErrMalformedHash)
	}
	return s[4:], s[2], nil
}

// parseCost consumes "<cc>$" — exactly two ASCII digits plus the
// delimiter — and range-checks the cost.
func parseCost(s string) (cost int, rest string, err error) {
	if len(s) < 3 || !isDigit(s[0]) || !isDigit(s[1]) || s[2] != '$' {
		return 0, "", fmt.Errorf("%w: cost must be exactly two digits", ErrMalformedHash)
	}
	cost = int(s[0]-'0')*10 + int(s[1]-'0')
	if cost < MinCost || cost > MaxCost {
		return 0, "", fmt.Errorf("%w: cost %02d outside [%d, %d]",
			ErrMalformedHash, cost, MinCost, MaxCost)
	}
	return cost, s[3:], nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
