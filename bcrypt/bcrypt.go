package bcrypt

import (
	"crypto/subtle"
	"fmt"
	"io"

	"github.com/hasbyte1/go-hashing/blowfish"
)

const (
	// MinCost is the lowest allowed work factor.  2^4 key-schedule
	// rounds is the algorithmic floor; anything below is rejected.
	MinCost = 4
	// MaxCost is the highest allowed work factor.  2^31 rounds takes
	// years on current hardware, but the format allows it.
	MaxCost = 31
	// DefaultCost is a sensible work factor for interactive logins.
	DefaultCost = 10
)

// DefaultVersion is the version tag stamped on freshly generated salts.
// "2b" is the current OpenBSD default; [HashPassword] preserves whatever
// tag an existing record carries, so interoperating with "$2a$" or
// "$2y$" stores requires no configuration.
const DefaultVersion = "2b"

// maxKeyLen caps the password key material fed to Eksblowfish.  The key
// is the password plus a terminating zero byte, truncated to this many
// bytes, so bytes past the 72nd never influence the hash.
const maxKeyLen = 72

// magicPlaintext is the constant block bcrypt encrypts 64 times with
// the password-derived cipher to produce the digest.
var magicPlaintext = []byte("OrpheanBeholderScryDoubt")

// GenerateSalt draws 16 bytes from random and returns an encoded salt
// record such as "$2b$12$wvP8UjPHgAYBzwfSmBCcYu" carrying the given
// cost.  random must be a cryptographically secure source; crypto/rand's
// Reader is the usual choice.  Exactly 16 bytes are consumed per call
// and never reused.
//
// Returns [ErrInvalidCost] if cost is outside [MinCost, MaxCost] and
// [ErrEntropySource] if random fails.
func GenerateSalt(cost int, random io.Reader) (string, error) {
	return GenerateSaltVersion(DefaultVersion, cost, random)
}

// GenerateSaltVersion is GenerateSalt with an explicit version tag, for
// callers interoperating with stores that expect "$2a$" or "$2y$"
// records.  version must be one of "2", "2a", "2b", "2x", "2y".
func GenerateSaltVersion(version string, cost int, random io.Reader) (string, error) {
	minor, err := minorFromVersion(version)
	if err != nil {
		return "", err
	}
	if cost < MinCost || cost > MaxCost {
		return "", fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidCost, cost, MinCost, MaxCost)
	}

	raw := make([]byte, rawSaltLen)
	if _, err := io.ReadFull(random, raw); err != nil {
		return "", fmt.Errorf("%w: reading %d salt bytes: %w", ErrEntropySource, rawSaltLen, err)
	}

	r := &record{minor: minor, cost: cost, salt: base64Encode(raw)}
	return r.String(), nil
}

// HashPassword hashes password with the salt, cost, and version taken
// from saltOrHash, which may be a salt-only record (as produced by
// [GenerateSalt]) or a full hash record (whose digest portion is
// ignored).  The result is the canonical 59- or 60-character bcrypt
// string.
//
// password is treated as opaque bytes; at most its first 72 bytes are
// keyed (see the package documentation).  Returns [ErrMalformedHash] if
// saltOrHash does not parse.
func HashPassword(password []byte, saltOrHash string) (string, error) {
	r, err := parseRecord(saltOrHash)
	if err != nil {
		return "", err
	}
	digest, err := hashDigest(password, r.cost, r.salt)
	if err != nil {
		return "", err
	}
	r.digest = digest
	return r.String(), nil
}

// VerifyPassword reports whether password matches the bcrypt record
// hash.  A wrong password is (false, nil), not an error; only a
// structurally invalid record yields [ErrMalformedHash].
//
// The comparison runs in constant time over the full re-serialised
// record, so the number of byte operations does not depend on where a
// mismatch occurs.
func VerifyPassword(password []byte, hash string) (bool, error) {
	r, err := parseRecord(hash)
	if err != nil {
		return false, err
	}
	if r.digest == nil {
		return false, fmt.Errorf("%w: record has no digest to verify against", ErrMalformedHash)
	}
	digest, err := hashDigest(password, r.cost, r.salt)
	if err != nil {
		return false, err
	}
	computed := &record{minor: r.minor, cost: r.cost, salt: r.salt, digest: digest}
	return subtle.ConstantTimeCompare([]byte(computed.String()), []byte(hash)) == 1, nil
}

// Cost returns the work factor encoded in a bcrypt salt or hash record.
func Cost(saltOrHash string) (int, error) {
	r, err := parseRecord(saltOrHash)
	if err != nil {
		return 0, err
	}
	return r.cost, nil
}

// Version returns the version tag ("2", "2a", "2b", "2x", or "2y")
// encoded in a bcrypt salt or hash record.
func Version(saltOrHash string) (string, error) {
	r, err := parseRecord(saltOrHash)
	if err != nil {
		return "", err
	}
	return r.version(), nil
}

// hashDigest runs the bcrypt core: Eksblowfish setup followed by 64
// encryptions of the magic plaintext.  encodedSalt is the 22-character
// encoded salt; the returned digest is the 31-character encoded form of
// the first 23 ciphertext bytes (the historical encoding drops the last
// byte, and interoperability demands we do too).
func hashDigest(password []byte, cost int, encodedSalt []byte) ([]byte, error) {
	c, err := expensiveBlowfishSetup(password, uint(cost), encodedSalt)
	if err != nil {
		return nil, err
	}

	ciphertext := make([]byte, len(magicPlaintext))
	copy(ciphertext, magicPlaintext)
	for i := 0; i < len(ciphertext); i += blowfish.BlockSize {
		block := ciphertext[i : i+blowfish.BlockSize]
		for j := 0; j < 64; j++ {
			c.Encrypt(block, block)
		}
	}
	return base64Encode(ciphertext[:rawDigestLen]), nil
}

// expensiveBlowfishSetup performs the Eksblowfish key schedule: one
// salted expansion keyed by the password, then 2^cost alternating plain
// expansions keyed by the password and the salt.  The loop has no early
// exit — its fixed cost is the point of the algorithm.
func expensiveBlowfishSetup(password []byte, cost uint, encodedSalt []byte) (*blowfish.Cipher, error) {
	salt, err := base64Decode(encodedSalt)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid salt encoding", ErrMalformedHash)
	}

	// The key is the password plus a terminating zero byte, truncated
	// to 72 bytes.  A >=72-byte password therefore contributes exactly
	// its first 72 bytes and no terminator.
	key := make([]byte, 0, maxKeyLen+1)
	key = append(key, password...)
	key = append(key, 0)
	if len(key) > maxKeyLen {
		key = key[:maxKeyLen]
	}

	c, err := blowfish.NewSaltedCipher(key, salt)
	if err != nil {
		return nil, err
	}
	var i, rounds uint64
	rounds = 1 << cost
	for i = 0; i < rounds; i++ {
		blowfish.ExpandKey(key, c)
		blowfish.ExpandKey(salt, c)
	}
	return c, nil
}

// minorFromVersion maps a version tag to its minor byte (0 for "2").
func minorFromVersion(version string) (byte, error) {
	switch version {
	case "2":
		return 0, nil
	case "2a", "2b", "2x", "2y":
		return version[1], nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}
}
