package mojo

import (
	"github.com/pkg/errors"

	"github.com/code-payments/mojo-sdk/pkg/solana/binary"
)

const (
	SeedHashSize = 32

	InstructionHeaderSize = (1 + // discriminator
		SeedHashSize + // seed
		8) // payload length
)

// SeedHash identifies the account an instruction targets.
type SeedHash [SeedHashSize]byte

// InstructionData is the decoded form of the world program's instruction
// envelope.
type InstructionData struct {
	Type    InstructionType
	Seed    SeedHash
	Payload []byte
}

// EncodeInstructionData serializes the envelope. The returned buffer is exactly
// InstructionHeaderSize+len(payload) bytes.
func EncodeInstructionData(t InstructionType, seed SeedHash, payload []byte) []byte {
	var offset int

	data := make([]byte, InstructionHeaderSize+len(payload))

	putInstructionType(data, t, &offset)
	binary.PutBytes(data, seed[:], &offset)
	binary.PutUint64(data, uint64(len(payload)), &offset)
	binary.PutBytes(data, payload, &offset)

	return data
}

// Marshal is shorthand for EncodeInstructionData.
func (d *InstructionData) Marshal() []byte {
	return EncodeInstructionData(d.Type, d.Seed, d.Payload)
}

// DecodeInstructionData parses an envelope, rejecting buffers whose declared
// payload length disagrees with the trailing byte count.
func DecodeInstructionData(data []byte) (*InstructionData, error) {
	if len(data) < InstructionHeaderSize {
		return nil, errors.Wrapf(ErrSerialization, "instruction data is %d bytes, header requires %d", len(data), InstructionHeaderSize)
	}

	t, err := ParseInstructionType(data[0])
	if err != nil {
		return nil, err
	}

	var res InstructionData
	res.Type = t

	offset := 1
	copy(res.Seed[:], data[offset:offset+SeedHashSize])
	offset += SeedHashSize

	var payloadLen uint64
	binary.GetUint64(data, &payloadLen, &offset)

	remaining := uint64(len(data) - offset)
	if payloadLen != remaining {
		return nil, errors.Wrapf(ErrSerialization, "payload length field is %d, %d bytes follow", payloadLen, remaining)
	}

	res.Payload = make([]byte, remaining)
	copy(res.Payload, data[offset:])

	return &res, nil
}
