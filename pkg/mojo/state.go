package mojo

import (
	"github.com/pkg/errors"
)

// State is a caller-defined, fixed-size value stored in a state account.
type State interface {
	// Size is the number of bytes Marshal produces and Unmarshal consumes.
	Size() int
	Marshal() []byte
	// Unmarshal decodes exactly Size bytes.
	Unmarshal(data []byte) error
}

// RawState is a State over an opaque byte buffer of a fixed length.
type RawState struct {
	Data []byte
}

// NewRawState returns a zeroed RawState of size bytes.
func NewRawState(size int) *RawState {
	return &RawState{Data: make([]byte, size)}
}

func (s *RawState) Size() int {
	return len(s.Data)
}

func (s *RawState) Marshal() []byte {
	res := make([]byte, len(s.Data))
	copy(res, s.Data)
	return res
}

func (s *RawState) Unmarshal(data []byte) error {
	if len(data) != len(s.Data) {
		return errors.Wrapf(ErrSerialization, "expected %d bytes, got %d", len(s.Data), len(data))
	}
	copy(s.Data, data)
	return nil
}

// decodeState fills dst from the leading dst.Size() bytes of account data.
// Accounts may be larger than the state they hold.
func decodeState(data []byte, dst State) error {
	size := dst.Size()
	if len(data) < size {
		return errors.Wrapf(ErrSerialization, "account data is %d bytes, state requires %d", len(data), size)
	}
	return dst.Unmarshal(data[:size])
}

// encodeState marshals s and checks it against its declared size.
func encodeState(s State) ([]byte, error) {
	data := s.Marshal()
	if len(data) != s.Size() {
		return nil, errors.Wrapf(ErrSerialization, "state marshalled to %d bytes, declared %d", len(data), s.Size())
	}
	return data, nil
}
