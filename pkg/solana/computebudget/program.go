package compute_budget

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/mojo-sdk/pkg/solana"
	"github.com/code-payments/mojo-sdk/pkg/solana/binary"
)

// ComputeBudget111111111111111111111111111111
var ProgramKey = ed25519.PublicKey{3, 6, 70, 111, 229, 33, 23, 50, 255, 236, 173, 186, 114, 195, 155, 231, 188, 140, 229, 187, 197, 247, 18, 107, 44, 67, 155, 58, 64, 0, 0, 0}

const (
	commandSetComputeUnitLimit uint8 = 2
	commandSetComputeUnitPrice uint8 = 3
)

// SetComputeUnitLimit caps the compute units a transaction may consume.
func SetComputeUnitLimit(limit uint32) solana.Instruction {
	var offset int
	data := make([]byte, 1+4)
	binary.PutUint8(data, commandSetComputeUnitLimit, &offset)
	binary.PutUint32(data, limit, &offset)

	return solana.NewInstruction(ProgramKey, data)
}

// SetComputeUnitPrice sets the priority fee, in micro-lamports per compute unit.
func SetComputeUnitPrice(microLamports uint64) solana.Instruction {
	var offset int
	data := make([]byte, 1+8)
	binary.PutUint8(data, commandSetComputeUnitPrice, &offset)
	binary.PutUint64(data, microLamports, &offset)

	return solana.NewInstruction(ProgramKey, data)
}

// Budget is an optional compute budget prepended to a transaction. Zero values
// leave the cluster defaults in place.
type Budget struct {
	UnitLimit uint32
	UnitPrice uint64
}

// Instructions returns the compute budget instructions for b, if any.
func (b Budget) Instructions() []solana.Instruction {
	var ixns []solana.Instruction
	if b.UnitLimit > 0 {
		ixns = append(ixns, SetComputeUnitLimit(b.UnitLimit))
	}
	if b.UnitPrice > 0 {
		ixns = append(ixns, SetComputeUnitPrice(b.UnitPrice))
	}
	return ixns
}

func ParseSetComputeUnitLimitIxnData(data []byte) (uint32, error) {
	if len(data) != 5 {
		return 0, errors.Errorf("invalid length: %d", len(data))
	}
	if data[0] != commandSetComputeUnitLimit {
		return 0, errors.Errorf("unexpected command: %d", data[0])
	}

	var offset = 1
	var limit uint32
	binary.GetUint32(data, &limit, &offset)
	return limit, nil
}

func ParseSetComputeUnitPriceIxnData(data []byte) (uint64, error) {
	if len(data) != 9 {
		return 0, errors.Errorf("invalid length: %d", len(data))
	}
	if data[0] != commandSetComputeUnitPrice {
		return 0, errors.Errorf("unexpected command: %d", data[0])
	}

	var offset = 1
	var price uint64
	binary.GetUint64(data, &price, &offset)
	return price, nil
}
