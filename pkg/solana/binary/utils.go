// Package binary holds the offset-tracking little-endian helpers shared by the
// on-chain program packages.
//
// Put helpers assume dst was sized by the caller. Get helpers for fixed-size
// values assume the caller validated the buffer length up front; the length
// prefixed helpers validate against the remaining buffer themselves.
package binary

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrShortBuffer is returned when a length prefix points past the end of the
// source buffer.
var ErrShortBuffer = errors.New("buffer too short")

func PutKey32(dst []byte, src []byte, offset *int) {
	copy(dst[*offset:*offset+ed25519.PublicKeySize], src)
	*offset += ed25519.PublicKeySize
}

func PutUint8(dst []byte, v uint8, offset *int) {
	dst[*offset] = v
	*offset += 1
}

func PutUint32(dst []byte, v uint32, offset *int) {
	binary.LittleEndian.PutUint32(dst[*offset:], v)
	*offset += 4
}

func PutUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst[*offset:], v)
	*offset += 8
}

func PutBytes(dst []byte, v []byte, offset *int) {
	copy(dst[*offset:], v)
	*offset += len(v)
}

// PutLengthPrefixed writes a u32 length followed by v.
func PutLengthPrefixed(dst []byte, v []byte, offset *int) {
	PutUint32(dst, uint32(len(v)), offset)
	PutBytes(dst, v, offset)
}

func GetKey32(src []byte, dst *ed25519.PublicKey, offset *int) {
	*dst = make([]byte, ed25519.PublicKeySize)
	copy(*dst, src[*offset:])
	*offset += ed25519.PublicKeySize
}

func GetUint8(src []byte, dst *uint8, offset *int) {
	*dst = src[*offset]
	*offset += 1
}

func GetUint32(src []byte, dst *uint32, offset *int) {
	*dst = binary.LittleEndian.Uint32(src[*offset:])
	*offset += 4
}

func GetUint64(src []byte, dst *uint64, offset *int) {
	*dst = binary.LittleEndian.Uint64(src[*offset:])
	*offset += 8
}

// GetLengthPrefixed reads a u32 length followed by that many bytes. The
// returned slice is a copy.
func GetLengthPrefixed(src []byte, dst *[]byte, offset *int) error {
	if len(src)-*offset < 4 {
		return errors.Wrapf(ErrShortBuffer, "length prefix at offset %d", *offset)
	}

	var length uint32
	GetUint32(src, &length, offset)

	if uint64(len(src)-*offset) < uint64(length) {
		return errors.Wrapf(ErrShortBuffer, "%d bytes declared at offset %d, %d remain", length, *offset, len(src)-*offset)
	}

	*dst = make([]byte, length)
	copy(*dst, src[*offset:])
	*offset += int(length)
	return nil
}
