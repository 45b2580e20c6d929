package mojo

import "github.com/pkg/errors"

type InstructionType uint8

const (
	InstructionTypeCreateAccount InstructionType = iota
	InstructionTypeDelegateAccount
	InstructionTypeCommit
	InstructionTypeUpdateDelegatedAccount
	InstructionTypeUndelegateAccount

	numInstructionTypes
)

func (t InstructionType) String() string {
	switch t {
	case InstructionTypeCreateAccount:
		return "create_account"
	case InstructionTypeDelegateAccount:
		return "delegate_account"
	case InstructionTypeCommit:
		return "commit"
	case InstructionTypeUpdateDelegatedAccount:
		return "update_delegated_account"
	case InstructionTypeUndelegateAccount:
		return "undelegate_account"
	}
	return "unknown"
}

// IsValid reports whether t is a known discriminator.
func (t InstructionType) IsValid() bool {
	return t < numInstructionTypes
}

// ParseInstructionType converts a raw discriminator byte.
func ParseInstructionType(b byte) (InstructionType, error) {
	t := InstructionType(b)
	if !t.IsValid() {
		return 0, errors.Wrapf(ErrUnknownInstruction, "discriminator %d", b)
	}
	return t, nil
}

func putInstructionType(dst []byte, v InstructionType, offset *int) {
	dst[*offset] = uint8(v)
	*offset += 1
}
