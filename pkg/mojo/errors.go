package mojo

import (
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	mojo_program "github.com/code-payments/mojo-sdk/pkg/solana/mojo"
)

var (
	// ErrInvalidLifecycleTransition is returned when an operation is not valid
	// for an account's current delegation state. No instruction is produced.
	ErrInvalidLifecycleTransition = errors.New("invalid delegation lifecycle transition")

	// ErrTransport wraps every failure that originates in the RPC transport.
	ErrTransport = errors.New("transport failure")

	// ErrAccountNotFound is returned when a read targets an account that does
	// not exist on the requested layer.
	ErrAccountNotFound = errors.New("account not found")

	// Re-exported from the program package.
	ErrSerialization      = mojo_program.ErrSerialization
	ErrAddressDerivation  = mojo_program.ErrAddressDerivation
	ErrUnknownInstruction = mojo_program.ErrUnknownInstruction
)

// Error carries the context of a failed operation: which instruction was being
// produced, against which account and in which lifecycle state.
type Error struct {
	Instruction mojo_program.InstructionType
	Address     []byte
	State       DelegationState
	Err         error
}

func newError(ixn mojo_program.InstructionType, address []byte, state DelegationState, err error) *Error {
	return &Error{
		Instruction: ixn,
		Address:     address,
		State:       state,
		Err:         err,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf(
		"%s on %s (%s): %v",
		e.Instruction,
		base58.Encode(e.Address),
		e.State,
		e.Err,
	)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Cause satisfies github.com/pkg/errors.Cause.
func (e *Error) Cause() error {
	return e.Err
}
