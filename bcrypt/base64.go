package bcrypt

import "encoding/base64"

// alphabet is bcrypt's own base64 alphabet.  It predates RFC 4648 and
// shares neither ordering nor symbols with the standard one: "." and "/"
// replace "+" and "/", and the alphabet starts with punctuation rather
// than uppercase letters.
const alphabet = "./ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// bcEncoding packs 3 bytes into 4 alphabet characters with no padding:
// 16 salt bytes become 22 characters, the 23 encoded digest bytes become
// 31 characters.
var bcEncoding = base64.NewEncoding(alphabet).WithPadding(base64.NoPadding)

// base64Encode encodes src into bcrypt's base64 alphabet.
func base64Encode(src []byte) []byte {
	dst := make([]byte, bcEncoding.EncodedLen(len(src)))
	bcEncoding.Encode(dst, src)
	return dst
}

// base64Decode decodes src from bcrypt's base64 alphabet.  Characters
// outside the alphabet are rejected.
func base64Decode(src []byte) ([]byte, error) {
	dst := make([]byte, bcEncoding.DecodedLen(len(src)))
	n, err := bcEncoding.Decode(dst, src)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}
