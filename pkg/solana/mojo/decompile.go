package mojo

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/mojo-sdk/pkg/solana"
)

// DecompiledInstruction is a world program instruction recovered from a
// compiled transaction message.
type DecompiledInstruction struct {
	InstructionData

	Accounts []solana.AccountMeta
}

// DecompileInstruction extracts the world program instruction at index.
func DecompileInstruction(program ed25519.PublicKey, m solana.Message, index int) (*DecompiledInstruction, error) {
	if index < 0 || index >= len(m.Instructions) {
		return nil, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]

	if int(i.ProgramIndex) >= len(m.Accounts) {
		return nil, errors.Errorf("program index %d out of range", i.ProgramIndex)
	}
	if !bytes.Equal(m.Accounts[i.ProgramIndex], program) {
		return nil, errors.New("instruction is not for the world program")
	}

	decoded, err := DecodeInstructionData(i.Data)
	if err != nil {
		return nil, err
	}

	accounts := make([]solana.AccountMeta, len(i.Accounts))
	for j, accountIndex := range i.Accounts {
		if int(accountIndex) >= len(m.Accounts) {
			return nil, errors.Errorf("account index %d out of range", accountIndex)
		}
		accounts[j] = solana.AccountMeta{
			PublicKey:  m.Accounts[accountIndex],
			IsSigner:   m.IsSigner(int(accountIndex)),
			IsWritable: m.IsWritable(int(accountIndex)),
		}
	}

	return &DecompiledInstruction{
		InstructionData: *decoded,
		Accounts:        accounts,
	}, nil
}
