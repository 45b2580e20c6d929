// Package shortvec implements the compact-u16 length prefix used throughout
// the transaction wire format.
package shortvec

import (
	"io"
	"math"

	"github.com/pkg/errors"
)

// maxEncodedLen is the number of bytes needed to hold math.MaxUint16.
const maxEncodedLen = 3

// EncodeLen writes length as a compact-u16 into w, returning the number of
// bytes written. Lengths above math.MaxUint16 cannot be represented.
func EncodeLen(w io.Writer, length int) (int, error) {
	if length < 0 || length > math.MaxUint16 {
		return 0, errors.Errorf("length %d out of range [0, %d]", length, math.MaxUint16)
	}

	var buf [maxEncodedLen]byte
	n := 0
	for {
		buf[n] = byte(length & 0x7f)
		length >>= 7
		if length == 0 {
			n++
			break
		}

		buf[n] |= 0x80
		n++
	}

	return w.Write(buf[:n])
}

// DecodeLen reads a compact-u16 from r. At most three bytes are consumed.
func DecodeLen(r io.Reader) (int, error) {
	var b [1]byte
	var val int

	for i := 0; i < maxEncodedLen; i++ {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, errors.Wrap(err, "failed to read length byte")
		}

		val |= int(b[0]&0x7f) << (i * 7)
		if b[0]&0x80 == 0 {
			if val > math.MaxUint16 {
				return 0, errors.Errorf("decoded length %d exceeds %d", val, math.MaxUint16)
			}
			return val, nil
		}
	}

	return 0, errors.Errorf("length prefix longer than %d bytes", maxEncodedLen)
}
