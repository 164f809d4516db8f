package hashing_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/hasbyte1/go-hashing/hashing"
)

// fastArgon2Opts returns deliberately weak Argon2 parameters so the
// test suite stays fast.  Never use these in production.
func fastArgon2Opts() hashing.Argon2Options {
	return hashing.Argon2Options{
		Memory:  8 * 1024, // 8 MiB
		Time:    1,
		Threads: 1,
		KeyLen:  32,
		SaltLen: 16,
	}
}

func newTestArgon2Hasher(t *testing.T, variant hashing.DriverName) *hashing.Argon2Hasher {
	t.Helper()
	h, err := hashing.NewArgon2Hasher(variant, fastArgon2Opts())
	if err != nil {
		t.Fatalf("NewArgon2Hasher(%s): %v", variant, err)
	}
	return h
}

// ──────────────────────────────────────────────────────────────────────────────
// Constructor
// ──────────────────────────────────────────────────────────────────────────────

func TestNewArgon2Hasher_Variants(t *testing.T) {
	for _, variant := range []hashing.DriverName{hashing.DriverArgon2i, hashing.DriverArgon2id} {
		h, err := hashing.NewArgon2Hasher(variant, fastArgon2Opts())
		if err != nil {
			t.Fatalf("variant %s: %v", variant, err)
		}
		if h.Driver() != variant {
			t.Errorf("Driver() = %q, want %q", h.Driver(), variant)
		}
	}
}

func TestNewArgon2Hasher_RejectsNonArgon2Variant(t *testing.T) {
	for _, variant := range []hashing.DriverName{hashing.DriverBcrypt, "argon2d", ""} {
		_, err := hashing.NewArgon2Hasher(variant, fastArgon2Opts())
		if !errors.Is(err, hashing.ErrInvalidOption) {
			t.Errorf("variant %q: expected ErrInvalidOption, got %v", variant, err)
		}
	}
}

func TestNewArgon2Hasher_InvalidOptions(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*hashing.Argon2Options)
	}{
		{"zero time", func(o *hashing.Argon2Options) { o.Time = 0 }},
		{"zero threads", func(o *hashing.Argon2Options) { o.Threads = 0 }},
		{"memory below 8×threads", func(o *hashing.Argon2Options) { o.Memory = 7; o.Threads = 1 }},
		{"tiny key", func(o *hashing.Argon2Options) { o.KeyLen = 3 }},
		{"short salt", func(o *hashing.Argon2Options) { o.SaltLen = 7 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := fastArgon2Opts()
			tc.mutate(&opts)
			_, err := hashing.NewArgon2Hasher(hashing.DriverArgon2id, opts)
			if !errors.Is(err, hashing.ErrInvalidOption) {
				t.Errorf("expected ErrInvalidOption, got %v", err)
			}
		})
	}
}

func TestDefaultArgon2Options(t *testing.T) {
	opts := hashing.DefaultArgon2Options()
	if opts.Memory != hashing.DefaultArgon2Memory || opts.Time != hashing.DefaultArgon2Time ||
		opts.Threads != hashing.DefaultArgon2Threads || opts.KeyLen != hashing.DefaultArgon2KeyLen ||
		opts.SaltLen != hashing.DefaultArgon2SaltLen {
		t.Errorf("DefaultArgon2Options() = %+v", opts)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Make / Check
// ──────────────────────────────────────────────────────────────────────────────

func TestArgon2Hasher_MakeAndCheck(t *testing.T) {
	for _, variant := range []hashing.DriverName{hashing.DriverArgon2i, hashing.DriverArgon2id} {
		h := newTestArgon2Hasher(t, variant)

		hash, err := h.Make("correct-horse-battery-staple")
		if err != nil {
			t.Fatalf("%s: Make: %v", variant, err)
		}
		if !strings.HasPrefix(hash, "$"+string(variant)+"$v=19$") {
			t.Errorf("%s: hash = %q, wrong PHC prefix", variant, hash)
		}

		ok, err := h.Check("correct-horse-battery-staple", hash)
		if err != nil || !ok {
			t.Errorf("%s: Check correct = (%v, %v), want (true, nil)", variant, ok, err)
		}
		ok, err = h.Check("incorrect-horse", hash)
		if err != nil || ok {
			t.Errorf("%s: Check wrong = (%v, %v), want (false, nil)", variant, ok, err)
		}
	}
}

func TestArgon2Hasher_Make_UniqueSalts(t *testing.T) {
	h := newTestArgon2Hasher(t, hashing.DriverArgon2id)
	h1, _ := h.Make("same")
	h2, _ := h.Make("same")
	if h1 == h2 {
		t.Error("two Make calls produced identical hashes")
	}
}

func TestArgon2Hasher_Check_VariantMismatch(t *testing.T) {
	idH := newTestArgon2Hasher(t, hashing.DriverArgon2id)
	iH := newTestArgon2Hasher(t, hashing.DriverArgon2i)

	hash, _ := idH.Make("pw")
	_, err := iH.Check("pw", hash)
	if !errors.Is(err, hashing.ErrAlgorithmMismatch) {
		t.Errorf("expected ErrAlgorithmMismatch, got %v", err)
	}
}

func TestArgon2Hasher_Check_ParamsReadFromHash(t *testing.T) {
	// Verification must keep working after the hasher's options change.
	old := newTestArgon2Hasher(t, hashing.DriverArgon2id)
	hash, _ := old.Make("pw")

	opts := fastArgon2Opts()
	opts.Time = 2
	current, _ := hashing.NewArgon2Hasher(hashing.DriverArgon2id, opts)
	ok, err := current.Check("pw", hash)
	if err != nil || !ok {
		t.Errorf("Check with changed options = (%v, %v), want (true, nil)", ok, err)
	}
}

func TestArgon2Hasher_Check_MalformedHash(t *testing.T) {
	h := newTestArgon2Hasher(t, hashing.DriverArgon2id)
	for _, s := range []string{
		"",
		"garbage",
		"$argon2id$v=19$m=8192,t=1$short$segments",
		"$argon2id$v=x$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA",
	} {
		if _, err := h.Check("pw", s); !errors.Is(err, hashing.ErrInvalidHash) {
			t.Errorf("Check(%q): got %v, want ErrInvalidHash", s, err)
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// NeedsRehash / Info
// ──────────────────────────────────────────────────────────────────────────────

func TestArgon2Hasher_NeedsRehash(t *testing.T) {
	h := newTestArgon2Hasher(t, hashing.DriverArgon2id)
	hash, _ := h.Make("pw")

	needs, err := h.NeedsRehash(hash)
	if err != nil || needs {
		t.Errorf("NeedsRehash under same options = (%v, %v), want (false, nil)", needs, err)
	}

	opts := fastArgon2Opts()
	opts.Memory *= 2
	stronger, _ := hashing.NewArgon2Hasher(hashing.DriverArgon2id, opts)
	needs, err = stronger.NeedsRehash(hash)
	if err != nil || !needs {
		t.Errorf("NeedsRehash under stronger options = (%v, %v), want (true, nil)", needs, err)
	}
}

func TestArgon2Hasher_Info(t *testing.T) {
	h := newTestArgon2Hasher(t, hashing.DriverArgon2id)
	hash, _ := h.Make("inspect-me")

	info, err := h.Info(hash)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Driver != hashing.DriverArgon2id {
		t.Errorf("Driver = %q, want argon2id", info.Driver)
	}
	if m, _ := info.Params["memory"].(uint32); m != fastArgon2Opts().Memory {
		t.Errorf("memory = %v, want %d", info.Params["memory"], fastArgon2Opts().Memory)
	}
	if v, _ := info.Params["version"].(int); v != 19 {
		t.Errorf("version = %v, want 19", info.Params["version"])
	}
}

func TestArgon2Hasher_SatisfiesHasherInterface(t *testing.T) {
	var _ hashing.Hasher = newTestArgon2Hasher(t, hashing.DriverArgon2i)
}
