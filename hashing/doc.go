// Package hashing provides extensible password hashing behind a single
// driver interface.
//
// # Architecture
//
// The central abstraction is the [Hasher] interface.  Two driver
// families ship with this package:
//
//   - [BcryptHasher] — bcrypt, backed by this module's own native
//     implementation (the bcrypt and blowfish packages); widest
//     ecosystem compatibility.
//   - [Argon2Hasher] — Argon2i or Argon2id (variant chosen at
//     construction); memory-hard and recommended for new systems.
//
// Both implement [Hasher], so callers can depend on the interface
// rather than a concrete type.
//
// The [Manager] is a named driver registry and dispatcher.  Register
// one or more [Hasher] implementations, designate a default driver,
// then delegate all hashing operations through the [Manager].
//
// # Quick start
//
//	m, err := hashing.NewDefaultManager() // argon2id default, all drivers registered
//	if err != nil { log.Fatal(err) }
//
//	hash, _ := m.Make("my-secret-password")
//	ok, _ := m.Check("my-secret-password", hash) // true
//
// # Security defaults
//
//   - bcrypt:  cost 12 (≈ 250 ms on modern hardware; exceeds OWASP minimum of 10).
//   - Argon2id: m=64 MiB, t=3 iterations, p=2 threads, 32-byte key.
//     Exceeds OWASP ASVS Level 2 (m≥19 MiB, t≥2, p≥1).
//
// # Cross-driver migration
//
// Call [Manager.NeedsRehash] on every successful login.  It returns
// true when the stored hash was produced by a different driver or with
// weaker parameters than the current default.  Re-hash and persist
// immediately:
//
//	ok, _ := m.CheckWithDetect(password, storedHash)
//	if ok {
//	    if needs, _ := m.NeedsRehash(storedHash); needs {
//	        newHash, _ := m.Make(password)
//	        persist(userID, newHash)
//	    }
//	}
//
// # Hash formats
//
// bcrypt hashes use the modular crypt record produced by the bcrypt
// package:
//
//	$2b$12$<22-char salt><31-char digest>
//
// Argon2 hashes use the PHC string format:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<base64-salt>$<base64-hash>
//
// Both formats are self-contained, so no external configuration is
// needed to verify a previously produced hash.
package hashing
