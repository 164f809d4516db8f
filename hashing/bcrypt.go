package hashing

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/hasbyte1/go-hashing/bcrypt"
)

const (
	// DefaultBcryptCost is the recommended work factor for bcrypt.
	// At cost 12, hashing takes approximately 250 ms on a modern server
	// CPU, which satisfies OWASP ASVS Level 1 (≥ 10) and Level 2 (≥ 12).
	//
	// Increase this value as hardware improves; aim to keep hashing time
	// between 100 ms and 500 ms for your deployment environment.
	DefaultBcryptCost = 12
)

// BcryptOptions configures a [BcryptHasher].
type BcryptOptions struct {
	// Cost is the bcrypt work factor (logarithmic).
	// Valid range: [bcrypt.MinCost (4), bcrypt.MaxCost (31)].
	// Default: [DefaultBcryptCost] (12).
	Cost int

	// Version is the version tag stamped on new hashes.  One of "2",
	// "2a", "2b", "2x", "2y".  Default: [bcrypt.DefaultVersion] ("2b").
	// Verification accepts every tag regardless of this setting.
	Version string

	// Rand is the entropy source for salt generation.  Default:
	// crypto/rand.Reader.  Override only in tests or on platforms with a
	// dedicated hardware source.
	Rand io.Reader
}

// DefaultBcryptOptions returns BcryptOptions with [DefaultBcryptCost]
// and the package defaults for version and entropy source.
func DefaultBcryptOptions() BcryptOptions {
	return BcryptOptions{Cost: DefaultBcryptCost}
}

// BcryptHasher hashes passwords with this module's native bcrypt
// engine.  A fresh 128-bit salt is generated per hash, so callers never
// manage salts explicitly.
//
// # When to use bcrypt vs Argon2id
//
// Bcrypt is the battle-tested choice with the widest ecosystem support.
// Prefer [Argon2Hasher] with [DriverArgon2id] for new systems — its
// tunable memory cost makes GPU/ASIC attacks significantly more
// expensive.
//
// Security note: bcrypt keys at most the first 72 bytes of a password.
// If longer passwords must remain distinguishable, pre-hash them or use
// an Argon2 driver.
//
// # Thread safety
//
// BcryptHasher is immutable after construction and safe for concurrent
// use.
type BcryptHasher struct {
	cost    int
	version string
	rand    io.Reader
}

// NewBcryptHasher constructs a BcryptHasher with the provided options.
// Returns [ErrInvalidOption] if Cost is outside
// [bcrypt.MinCost, bcrypt.MaxCost] or Version is unrecognised.
func NewBcryptHasher(opts BcryptOptions) (*BcryptHasher, error) {
	if opts.Cost < bcrypt.MinCost || opts.Cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: bcrypt cost %d must be in [%d, %d]",
			ErrInvalidOption, opts.Cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	version := opts.Version
	if version == "" {
		version = bcrypt.DefaultVersion
	}
	switch version {
	case "2", "2a", "2b", "2x", "2y":
	default:
		return nil, fmt.Errorf("%w: unknown bcrypt version %q", ErrInvalidOption, version)
	}
	source := opts.Rand
	if source == nil {
		source = rand.Reader
	}
	return &BcryptHasher{cost: opts.Cost, version: version, rand: source}, nil
}

// Driver returns [DriverBcrypt].
func (h *BcryptHasher) Driver() DriverName { return DriverBcrypt }

// Cost returns the configured bcrypt work factor.
func (h *BcryptHasher) Cost() int { return h.cost }

// Version returns the version tag stamped on new hashes.
func (h *BcryptHasher) Version() string { return h.version }

// Make hashes password with bcrypt and returns the modular crypt record
// (e.g. "$2b$12$...").  A fresh 128-bit random salt is drawn from the
// configured entropy source for every call.
func (h *BcryptHasher) Make(password string) (string, error) {
	salt, err := bcrypt.GenerateSaltVersion(h.version, h.cost, h.rand)
	if err != nil {
		return "", fmt.Errorf("hashing: bcrypt: generating salt: %w", err)
	}
	hash, err := bcrypt.HashPassword([]byte(password), salt)
	if err != nil {
		return "", fmt.Errorf("hashing: bcrypt: hashing password: %w", err)
	}
	return hash, nil
}

// Check verifies that password matches the bcrypt record hash.
// Returns (false, nil) on mismatch; a mismatch is never an error.
func (h *BcryptHasher) Check(password, hash string) (bool, error) {
	if !h.looksLikeBcrypt(hash) {
		return false, fmt.Errorf("%w: hash does not appear to be bcrypt", ErrAlgorithmMismatch)
	}
	ok, err := bcrypt.VerifyPassword([]byte(password), hash)
	if errors.Is(err, bcrypt.ErrMalformedHash) {
		return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	if err != nil {
		return false, fmt.Errorf("hashing: bcrypt: %w", err)
	}
	return ok, nil
}

// NeedsRehash returns true when the work factor or version tag encoded
// in hash differs from the hasher's configuration.  A lower stored cost
// means the hash is weaker than current policy; a differing version tag
// means the record predates the configured format and is rewritten on
// next login.
func (h *BcryptHasher) NeedsRehash(hash string) (bool, error) {
	if !h.looksLikeBcrypt(hash) {
		return false, fmt.Errorf("%w: hash does not appear to be bcrypt", ErrAlgorithmMismatch)
	}
	cost, err := bcrypt.Cost(hash)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	version, err := bcrypt.Version(hash)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	return cost != h.cost || version != h.version, nil
}

// Info extracts the work factor and version tag from a bcrypt record.
//
// Returned [HashInfo].Params:
//   - "cost"    → int
//   - "version" → string
func (h *BcryptHasher) Info(hash string) (HashInfo, error) {
	if !h.looksLikeBcrypt(hash) {
		return HashInfo{}, fmt.Errorf("%w: hash does not appear to be bcrypt", ErrAlgorithmMismatch)
	}
	cost, err := bcrypt.Cost(hash)
	if err != nil {
		return HashInfo{}, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	version, err := bcrypt.Version(hash)
	if err != nil {
		return HashInfo{}, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	return HashInfo{
		Driver: DriverBcrypt,
		Params: map[string]any{"cost": cost, "version": version},
	}, nil
}

// looksLikeBcrypt returns true if hash has a recognised bcrypt prefix.
func (h *BcryptHasher) looksLikeBcrypt(hash string) bool {
	d, ok := DetectDriver(hash)
	return ok && d == DriverBcrypt
}
