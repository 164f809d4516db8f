package bcrypt_test

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hasbyte1/go-hashing/bcrypt"
)

// testCost keeps the suite fast; production code uses higher factors.
const testCost = bcrypt.MinCost

// ──────────────────────────────────────────────────────────────────────────────
// Known-answer vectors
// ──────────────────────────────────────────────────────────────────────────────

// Published bcrypt vectors (the openwall/jBCrypt set) plus low-cost
// vectors covering the "2b", "2y", and bare "2" tags.
var knownVectors = []struct {
	password string
	salt     string
	want     string
}{
	{"", "$2a$06$DCq7YPn5Rq63x1Lad4cll.",
		"$2a$06$DCq7YPn5Rq63x1Lad4cll.TV4S6ytwfsfvkgY8jIucDrjc8deX1s."},
	{"a", "$2a$06$m0CrhHm10qJ3lXRY.5zDGO",
		"$2a$06$m0CrhHm10qJ3lXRY.5zDGO3rS2KdeeWLuGmsfGlMfOxih58VYVfxe"},
	{"abc", "$2a$06$If6bvum7DFjUnE9p2uDeDu",
		"$2a$06$If6bvum7DFjUnE9p2uDeDu0YHzrHM6tf.iqN8.yx.jNN1ILEf7h0i"},
	{"abcdefghijklmnopqrstuvwxyz", "$2a$06$.rCVZVOThsIa97pEDOxvGu",
		"$2a$06$.rCVZVOThsIa97pEDOxvGuRRgzG64bvtJ0938xuqzv18d3ZpQhstC"},
	{"~!@#$%^&*()      ~!@#$%^&*()PNBFRD", "$2a$06$fPIsBO8qRqkjj273rfaOI.",
		"$2a$06$fPIsBO8qRqkjj273rfaOI.HtSV9jLDpTbZn782DC6/t7qT67P6FfO"},
	{"allmine", "$2a$10$XajjQvNhvvRt5GSeFk1xFe",
		"$2a$10$XajjQvNhvvRt5GSeFk1xFeyqRrsxkhBkUiQeg0dt.wU1qD4aFDcga"},
	{"correct horse battery staple", "$2b$04$..CA.uOD/eaGAOmJB.yMBu",
		"$2b$04$..CA.uOD/eaGAOmJB.yMBuaOWmnNUFfwORoH..MfuhEhaBiFsYEfG"},
	{"hunter2", "$2y$05$WUHhXETkX0fnYkrqZU3ta.",
		"$2y$05$WUHhXETkX0fnYkrqZU3ta.eemkuQemn7SY87OGuTL3Q9E2fmmrey6"},
	{"hunter2", "$2$05$WUHhXETkX0fnYkrqZU3ta.",
		"$2$05$WUHhXETkX0fnYkrqZU3ta.eemkuQemn7SY87OGuTL3Q9E2fmmrey6"},
}

func TestHashPassword_KnownVectors(t *testing.T) {
	for _, v := range knownVectors {
		got, err := bcrypt.HashPassword([]byte(v.password), v.salt)
		if err != nil {
			t.Fatalf("HashPassword(%q, %q): %v", v.password, v.salt, err)
		}
		if got != v.want {
			t.Errorf("HashPassword(%q, %q)\n got %q\nwant %q", v.password, v.salt, got, v.want)
		}
	}
}

func TestHashPassword_AcceptsFullHashAsSalt(t *testing.T) {
	// Re-hashing against a stored record must reuse its salt and
	// reproduce it exactly — this is what verification relies on.
	for _, v := range knownVectors[:3] {
		got, err := bcrypt.HashPassword([]byte(v.password), v.want)
		if err != nil {
			t.Fatalf("HashPassword(%q, full hash): %v", v.password, err)
		}
		if got != v.want {
			t.Errorf("re-hash of %q: got %q, want %q", v.password, got, v.want)
		}
	}
}

func TestVerifyPassword_KnownVectors(t *testing.T) {
	for _, v := range knownVectors {
		ok, err := bcrypt.VerifyPassword([]byte(v.password), v.want)
		if err != nil {
			t.Fatalf("VerifyPassword(%q): %v", v.password, err)
		}
		if !ok {
			t.Errorf("VerifyPassword(%q, %q) = false, want true", v.password, v.want)
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Generate / hash / verify round trip
// ──────────────────────────────────────────────────────────────────────────────

func TestRoundTrip(t *testing.T) {
	passwords := []string{"", "a", "hunter2", "päßwörd ✓", strings.Repeat("long", 30)}
	for _, pw := range passwords {
		salt, err := bcrypt.GenerateSalt(testCost, rand.Reader)
		if err != nil {
			t.Fatalf("GenerateSalt: %v", err)
		}
		hash, err := bcrypt.HashPassword([]byte(pw), salt)
		if err != nil {
			t.Fatalf("HashPassword(%q): %v", pw, err)
		}
		if len(hash) != 60 {
			t.Errorf("hash of %q has length %d, want 60", pw, len(hash))
		}
		if !strings.HasPrefix(hash, salt) {
			t.Errorf("hash %q does not extend its salt record %q", hash, salt)
		}
		ok, err := bcrypt.VerifyPassword([]byte(pw), hash)
		if err != nil || !ok {
			t.Errorf("VerifyPassword(%q) = (%v, %v), want (true, nil)", pw, ok, err)
		}
	}
}

func TestVerifyPassword_Mismatch(t *testing.T) {
	salt, _ := bcrypt.GenerateSalt(testCost, rand.Reader)
	hash, err := bcrypt.HashPassword([]byte("right"), salt)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	// A mismatch is a normal false result, never an error.
	ok, err := bcrypt.VerifyPassword([]byte("wrong"), hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Error("wrong password verified")
	}
}

func TestVerifyPassword_SingleByteAlterations(t *testing.T) {
	password := []byte("a moderately long password")
	salt, _ := bcrypt.GenerateSalt(testCost, rand.Reader)
	hash, err := bcrypt.HashPassword(password, salt)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	for i := range password {
		altered := bytes.Clone(password)
		altered[i] ^= 0x01
		ok, err := bcrypt.VerifyPassword(altered, hash)
		if err != nil {
			t.Fatalf("VerifyPassword altered byte %d: %v", i, err)
		}
		if ok {
			t.Errorf("password altered at byte %d still verified", i)
		}
	}
}

func TestVerifyPassword_SaltOnlyRecordIsError(t *testing.T) {
	salt, _ := bcrypt.GenerateSalt(testCost, rand.Reader)
	_, err := bcrypt.VerifyPassword([]byte("pw"), salt)
	if !errors.Is(err, bcrypt.ErrMalformedHash) {
		t.Errorf("verify against digestless record: got %v, want ErrMalformedHash", err)
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	for _, s := range []string{"", "not-a-hash", "$2a$99$short"} {
		_, err := bcrypt.VerifyPassword([]byte("pw"), s)
		if !errors.Is(err, bcrypt.ErrMalformedHash) {
			t.Errorf("VerifyPassword(%q): got %v, want ErrMalformedHash", s, err)
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Truncation at 72 bytes
// ──────────────────────────────────────────────────────────────────────────────

func TestHashPassword_TruncatesAt72Bytes(t *testing.T) {
	salt, _ := bcrypt.GenerateSalt(testCost, rand.Reader)

	base := strings.Repeat("x", 72)
	h1, err := bcrypt.HashPassword([]byte(base+"AAA"), salt)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := bcrypt.HashPassword([]byte(base+"BBB"), salt)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h1 != h2 {
		t.Error("passwords sharing their first 72 bytes must hash identically")
	}

	// The 72nd byte itself still matters.
	prefix := strings.Repeat("x", 71)
	h3, _ := bcrypt.HashPassword([]byte(prefix+"A"), salt)
	h4, _ := bcrypt.HashPassword([]byte(prefix+"B"), salt)
	if h3 == h4 {
		t.Error("passwords differing at byte 72 must hash differently")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Salt generation
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateSalt_Format(t *testing.T) {
	salt, err := bcrypt.GenerateSalt(12, rand.Reader)
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	if !strings.HasPrefix(salt, "$2b$12$") {
		t.Errorf("salt = %q, want $2b$12$ prefix", salt)
	}
	if len(salt) != 29 {
		t.Errorf("salt record length = %d, want 29", len(salt))
	}
	cost, err := bcrypt.Cost(salt)
	if err != nil || cost != 12 {
		t.Errorf("Cost(salt) = (%d, %v), want (12, nil)", cost, err)
	}
}

func TestGenerateSalt_Deterministic(t *testing.T) {
	var raw [16]byte
	for i := range raw {
		raw[i] = byte(i)
	}
	salt, err := bcrypt.GenerateSalt(10, bytes.NewReader(raw[:]))
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	if salt != "$2b$10$..CA.uOD/eaGAOmJB.yMBu" {
		t.Errorf("salt = %q, want %q", salt, "$2b$10$..CA.uOD/eaGAOmJB.yMBu")
	}
}

func TestGenerateSalt_CostBounds(t *testing.T) {
	for _, cost := range []int{bcrypt.MinCost, bcrypt.MaxCost} {
		salt, err := bcrypt.GenerateSalt(cost, rand.Reader)
		if err != nil {
			t.Errorf("cost %d: %v", cost, err)
		}
		want := fmt.Sprintf("$2b$%02d$", cost)
		if !strings.HasPrefix(salt, want) {
			t.Errorf("cost %d: salt = %q, want %s prefix", cost, salt, want)
		}
	}
	for _, cost := range []int{-1, 0, 3, 32, 99} {
		_, err := bcrypt.GenerateSalt(cost, rand.Reader)
		if !errors.Is(err, bcrypt.ErrInvalidCost) {
			t.Errorf("cost %d: got %v, want ErrInvalidCost", cost, err)
		}
	}
}

func TestGenerateSaltVersion(t *testing.T) {
	for _, version := range []string{"2", "2a", "2b", "2x", "2y"} {
		salt, err := bcrypt.GenerateSaltVersion(version, testCost, rand.Reader)
		if err != nil {
			t.Fatalf("version %q: %v", version, err)
		}
		got, err := bcrypt.Version(salt)
		if err != nil || got != version {
			t.Errorf("Version(%q) = (%q, %v), want (%q, nil)", salt, got, err, version)
		}
	}
	for _, version := range []string{"", "2c", "3", "2aa", "$2a$"} {
		_, err := bcrypt.GenerateSaltVersion(version, testCost, rand.Reader)
		if !errors.Is(err, bcrypt.ErrInvalidVersion) {
			t.Errorf("version %q: got %v, want ErrInvalidVersion", version, err)
		}
	}
}

// failingReader errors after a fixed number of bytes.
type failingReader struct{ n int }

func (f *failingReader) Read(p []byte) (int, error) {
	if f.n <= 0 {
		return 0, errExhausted
	}
	n := min(f.n, len(p))
	f.n -= n
	return n, nil
}

var errExhausted = errors.New("entropy pool exhausted")

func TestGenerateSalt_EntropyFailure(t *testing.T) {
	for _, available := range []int{0, 7, 15} {
		_, err := bcrypt.GenerateSalt(testCost, &failingReader{n: available})
		if !errors.Is(err, bcrypt.ErrEntropySource) {
			t.Errorf("%d bytes available: got %v, want ErrEntropySource", available, err)
		}
		if !errors.Is(err, errExhausted) {
			t.Errorf("%d bytes available: source error not wrapped: %v", available, err)
		}
	}
}

func TestGenerateSalt_Unique(t *testing.T) {
	a, _ := bcrypt.GenerateSalt(testCost, rand.Reader)
	b, _ := bcrypt.GenerateSalt(testCost, rand.Reader)
	if a == b {
		t.Error("two generated salts are identical")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Inspection helpers and version behaviour
// ──────────────────────────────────────────────────────────────────────────────

func TestCostAndVersion(t *testing.T) {
	hash := "$2a$10$XajjQvNhvvRt5GSeFk1xFeyqRrsxkhBkUiQeg0dt.wU1qD4aFDcga"
	cost, err := bcrypt.Cost(hash)
	if err != nil || cost != 10 {
		t.Errorf("Cost = (%d, %v), want (10, nil)", cost, err)
	}
	version, err := bcrypt.Version(hash)
	if err != nil || version != "2a" {
		t.Errorf("Version = (%q, %v), want (2a, nil)", version, err)
	}
	if _, err := bcrypt.Cost("garbage"); !errors.Is(err, bcrypt.ErrMalformedHash) {
		t.Errorf("Cost(garbage): got %v, want ErrMalformedHash", err)
	}
}

func TestVersionTagDoesNotAffectDigest(t *testing.T) {
	// 2a, 2b and 2y run the identical algorithm; only the tag differs.
	const suffix = "$05$WUHhXETkX0fnYkrqZU3ta."
	var digests []string
	for _, version := range []string{"2a", "2b", "2y"} {
		hash, err := bcrypt.HashPassword([]byte("hunter2"), "$"+version+suffix)
		if err != nil {
			t.Fatalf("version %s: %v", version, err)
		}
		if !strings.HasPrefix(hash, "$"+version+"$") {
			t.Errorf("version %s not preserved in %q", version, hash)
		}
		digests = append(digests, hash[len(hash)-31:])
	}
	if digests[0] != digests[1] || digests[1] != digests[2] {
		t.Errorf("digests differ across version tags: %q", digests)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Determinism, concurrency, cost scaling
// ──────────────────────────────────────────────────────────────────────────────

func TestHashPassword_Deterministic(t *testing.T) {
	salt, _ := bcrypt.GenerateSalt(testCost, rand.Reader)
	h1, _ := bcrypt.HashPassword([]byte("pw"), salt)
	h2, _ := bcrypt.HashPassword([]byte("pw"), salt)
	if h1 != h2 {
		t.Error("same (password, salt) produced different hashes")
	}
}

func TestHashPassword_Concurrent(t *testing.T) {
	// Each call owns its cipher state; parallel invocations must not
	// interfere.
	salt, _ := bcrypt.GenerateSalt(testCost, rand.Reader)
	want, err := bcrypt.HashPassword([]byte("pw"), salt)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	results := make(chan string, 16)
	for i := 0; i < 16; i++ {
		go func() {
			h, _ := bcrypt.HashPassword([]byte("pw"), salt)
			results <- h
		}()
	}
	for i := 0; i < 16; i++ {
		if got := <-results; got != want {
			t.Fatalf("concurrent hash = %q, want %q", got, want)
		}
	}
}

func TestCostScaling(t *testing.T) {
	if testing.Short() {
		t.Skip("timing-sensitive; skipped in short mode")
	}
	salt, _ := bcrypt.GenerateSalt(bcrypt.MinCost, rand.Reader)
	elapsed := func(cost int) time.Duration {
		s := fmt.Sprintf("$2b$%02d$%s", cost, salt[7:])
		start := time.Now()
		if _, err := bcrypt.HashPassword([]byte("pw"), s); err != nil {
			t.Fatalf("cost %d: %v", cost, err)
		}
		return time.Since(start)
	}
	elapsed(5) // warm up
	low := elapsed(5)
	high := elapsed(8)
	// 2^3 = 8x the key-schedule work; demand only >2x to stay robust on
	// noisy machines.
	if high < 2*low {
		t.Errorf("cost 8 took %v, cost 5 took %v; expected clear scaling", high, low)
	}
}
