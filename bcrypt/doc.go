// Package bcrypt implements the bcrypt adaptive password-hashing scheme
// of Provos and Mazières from scratch, including the Eksblowfish
// ("expensive key schedule" Blowfish) key setup it is built on.
//
// # Algorithm
//
// A bcrypt hash is produced in three steps:
//
//  1. Eksblowfish setup: a salted Blowfish key schedule is derived from
//     the password and a 16-byte random salt, then re-derived 2^cost
//     times, alternating the password and the salt as key material.
//     The cost exponent is the operator's knob: every increment doubles
//     the wall-clock work, for hashing and for attackers alike.
//  2. The 24-byte constant "OrpheanBeholderScryDoubt" is encrypted 64
//     times in place with the resulting cipher.
//  3. Salt and ciphertext are encoded with bcrypt's own base64 alphabet
//     into the modular crypt record "$2b$12$<22 salt chars><31 digest chars>".
//
// The record is self-describing — version, cost, and salt travel with
// the digest — so verification needs no external configuration.
//
// # Usage
//
//	salt, err := bcrypt.GenerateSalt(bcrypt.DefaultCost, rand.Reader)
//	hash, err := bcrypt.HashPassword([]byte(password), salt)
//	ok, err := bcrypt.VerifyPassword([]byte(password), hash)
//
// Records produced by other bcrypt implementations ($2$, $2a$, $2b$,
// $2x$, $2y$) are accepted; the scheme is byte-for-byte compatible with
// the OpenBSD original for all correctly encoded inputs.
//
// # Limits
//
// Passwords are keyed through at most 72 bytes (a terminating zero byte
// is appended first, so passwords shorter than 72 bytes contribute all
// their bytes plus the terminator).  Bytes past the 72nd are never
// examined.  Callers who need longer effective passwords should pre-hash
// or use an Argon2 scheme instead.
//
// Every call builds its own ~4 KiB cipher state and shares nothing, so
// all functions are safe for concurrent use.
package bcrypt
