package shred

import (
	"crypto/aes"
	"crypto/cipher"
	cryptoRand "crypto/rand"
	"io"

	"github.com/pkg/errors"
)

// randomStream generates the content of random passes.
//
// It is the AES-256 CTR keystream under a key and IV taken
// from a seed reader, keyed afresh for every file.
//
// A stream is not safe for concurrent use, each worker owns
// its own stream.
type randomStream struct {
	inner cipher.Stream
}

// newRandomStream keys a new stream from seed.
func newRandomStream(seed io.Reader) (*randomStream, error) {
	var key [32]byte // AES-256
	if _, err := io.ReadFull(seed, key[:]); err != nil {
		return nil, errors.Wrap(err, "read stream key")
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(seed, iv); err != nil {
		return nil, errors.Wrap(err, "read stream iv")
	}
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, errors.Wrap(err, "create stream cipher")
	}
	return &randomStream{inner: cipher.NewCTR(block, iv)}, nil
}

// defaultRandomSource keys every stream from crypto/rand.
func defaultRandomSource() (io.Reader, error) {
	return newRandomStream(cryptoRand.Reader)
}

func (s *randomStream) Read(b []byte) (int, error) {
	clear(b)
	s.inner.XORKeyStream(b, b)
	return len(b), nil
}
