// Package blowfish implements Bruce Schneier's Blowfish block cipher.
//
// Blowfish is a 16-round Feistel cipher with a 64-bit block size and a
// key-dependent key schedule (an 18-word P-array plus four 256-entry
// substitution boxes, all derived from the hexadecimal digits of pi).
//
// The package exists primarily to serve the bcrypt password-hashing
// scheme in the sibling bcrypt package, which needs direct access to
// the key schedule ([ExpandKey], [NewSaltedCipher]).  For general
// purpose encryption of new data, prefer a modern AEAD cipher.
package blowfish

import "strconv"

// BlockSize is the Blowfish block size in bytes.
const BlockSize = 8

// A Cipher is an instance of Blowfish encryption using a particular key
// schedule.  Each Cipher owns its P-array and S-boxes outright; nothing
// is shared, so distinct Cipher values may be used concurrently.
type Cipher struct {
	p              [18]uint32
	s0, s1, s2, s3 [256]uint32
}

// KeySizeError records an invalid Blowfish key length.
type KeySizeError int

func (k KeySizeError) Error() string {
	return "blowfish: invalid key size " + strconv.Itoa(int(k))
}

// NewCipher creates and returns a Cipher keyed with the given key.
// The key must be between 1 and 56 bytes.
func NewCipher(key []byte) (*Cipher, error) {
	if k := len(key); k < 1 || k > 56 {
		return nil, KeySizeError(k)
	}
	var c Cipher
	initCipher(&c)
	ExpandKey(key, &c)
	return &c, nil
}

// NewSaltedCipher creates and returns a Cipher that folds salt into its
// key schedule.  For most purposes NewCipher is sufficient; the salted
// variant exists for bcrypt, whose key may also exceed the usual 56-byte
// limit.  salt must not be empty.
func NewSaltedCipher(key, salt []byte) (*Cipher, error) {
	if len(salt) == 0 {
		return NewCipher(key)
	}
	if len(key) < 1 {
		return nil, KeySizeError(len(key))
	}
	var c Cipher
	initCipher(&c)
	expandKeyWithSalt(key, salt, &c)
	return &c, nil
}

// BlockSize returns the Blowfish block size, 8 bytes.  It satisfies the
// cipher.Block interface from crypto/cipher.
func (c *Cipher) BlockSize() int { return BlockSize }

// Encrypt encrypts the 8-byte block src and stores the result in dst.
// dst and src may overlap.  Note that running Encrypt over consecutive
// blocks of a larger message is raw ECB; use a chaining mode for that.
func (c *Cipher) Encrypt(dst, src []byte) {
	l := uint32(src[0])<<24 | uint32(src[1])<<16 | uint32(src[2])<<8 | uint32(src[3])
	r := uint32(src[4])<<24 | uint32(src[5])<<16 | uint32(src[6])<<8 | uint32(src[7])
	l, r = encryptBlock(l, r, c)
	dst[0], dst[1], dst[2], dst[3] = byte(l>>24), byte(l>>16), byte(l>>8), byte(l)
	dst[4], dst[5], dst[6], dst[7] = byte(r>>24), byte(r>>16), byte(r>>8), byte(r)
}

// Decrypt decrypts the 8-byte block src and stores the result in dst.
// dst and src may overlap.
func (c *Cipher) Decrypt(dst, src []byte) {
	l := uint32(src[0])<<24 | uint32(src[1])<<16 | uint32(src[2])<<8 | uint32(src[3])
	r := uint32(src[4])<<24 | uint32(src[5])<<16 | uint32(src[6])<<8 | uint32(src[7])
	l, r = decryptBlock(l, r, c)
	dst[0], dst[1], dst[2], dst[3] = byte(l>>24), byte(l>>16), byte(l>>8), byte(l)
	dst[4], dst[5], dst[6], dst[7] = byte(r>>24), byte(r>>16), byte(r>>8), byte(r)
}

// initCipher copies the default pi tables into c.  The package-level
// tables themselves are read-only.
func initCipher(c *Cipher) {
	copy(c.p[:], p[:])
	copy(c.s0[:], s0[:])
	copy(c.s1[:], s1[:])
	copy(c.s2[:], s2[:])
	copy(c.s3[:], s3[:])
}
