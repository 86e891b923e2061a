package crypto

import (
	"crypto/rand"
	"math/big"
)

// ShareCodeAlphabet leaves out characters that are easy to misread when a
// code is copied by hand (0/O/o, 1/l/I).
const ShareCodeAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateShareCode returns n characters drawn uniformly from
// ShareCodeAlphabet.
func GenerateShareCode(n int) string {
	return RandomString(ShareCodeAlphabet, n)
}

// RandomString panics if alphabet is empty or the system random source fails.
func RandomString(alphabet string, n int) string {
	size := big.NewInt(int64(len(alphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, size)
		if err != nil {
			panic(err)
		}

		b[i] = alphabet[idx.Int64()]
	}

	return string(b)
}
