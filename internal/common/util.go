package common

import (
	"fmt"
	"io"
)

// ReadRandBytes fills a new slice of n bytes from r. A short read is reported
// as ErrEntropySource; there is no fallback source.
func ReadRandBytes(r io.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropySource, err)
	}
	return b, nil
}

// WipeByteArray overwrites b with zeros. Nil is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
