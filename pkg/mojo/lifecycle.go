package mojo

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/mojo-sdk/pkg/solana"
	"github.com/code-payments/mojo-sdk/pkg/solana/delegation"
	mojo_program "github.com/code-payments/mojo-sdk/pkg/solana/mojo"
)

// DelegationState is where write authority over an account currently lives.
type DelegationState uint8

const (
	// Undelegated accounts are owned by the world program on the base layer.
	Undelegated DelegationState = iota
	// Delegating accounts have a submitted delegate instruction that has not
	// been confirmed.
	Delegating
	// Delegated accounts are written on the ephemeral layer.
	Delegated
	// Undelegating accounts have a submitted undelegate instruction that has
	// not been confirmed.
	Undelegating
)

func (s DelegationState) String() string {
	switch s {
	case Undelegated:
		return "undelegated"
	case Delegating:
		return "delegating"
	case Delegated:
		return "delegated"
	case Undelegating:
		return "undelegating"
	}
	return "unknown"
}

// DelegatedAccount tracks one world program account through the delegation
// lifecycle:
//
//	Undelegated -> Delegating -> Delegated -> Undelegating -> Undelegated
//
// A pending transition whose transaction is known not to have landed is
// rolled back with AbortDelegation or AbortUndelegation.
//
// The value is held by the caller and advanced as instructions are produced
// and confirmed. Nothing is queried from the chain. Each method checks its
// precondition before encoding anything and leaves the state untouched on
// failure.
//
// A DelegatedAccount is not safe for concurrent use.
type DelegatedAccount struct {
	Address ed25519.PublicKey
	Seed    mojo_program.SeedHash
	Owner   ed25519.PublicKey

	state DelegationState
	env   *Environment
}

// NewDelegatedAccount returns an Undelegated account for address.
func NewDelegatedAccount(env *Environment, address, owner ed25519.PublicKey, seed mojo_program.SeedHash) *DelegatedAccount {
	return &DelegatedAccount{
		Address: address,
		Seed:    seed,
		Owner:   owner,
		env:     env,
	}
}

// RestoreDelegatedAccount resumes tracking an account whose state the caller
// already knows, for example after a restart.
func RestoreDelegatedAccount(env *Environment, address, owner ed25519.PublicKey, seed mojo_program.SeedHash, state DelegationState) *DelegatedAccount {
	a := NewDelegatedAccount(env, address, owner, seed)
	a.state = state
	return a
}

func (a *DelegatedAccount) State() DelegationState {
	return a.state
}

// Delegate produces the DelegateAccount instruction and moves the account to
// Delegating. The initial payload is staged in the delegation buffer.
func (a *DelegatedAccount) Delegate(payer ed25519.PublicKey, payload []byte) (solana.Instruction, error) {
	if err := a.require(mojo_program.InstructionTypeDelegateAccount, Undelegated); err != nil {
		return solana.Instruction{}, err
	}

	side, err := delegation.GetSideAccounts(&delegation.GetSideAccountAddressArgs{
		Program:          a.env.DelegationProgram,
		DelegatedAccount: a.Address,
	})
	if err != nil {
		return solana.Instruction{}, a.fail(mojo_program.InstructionTypeDelegateAccount, errors.Wrapf(ErrAddressDerivation, "%v", err))
	}

	ixn := mojo_program.NewDelegateAccountInstruction(
		a.env.WorldProgram,
		&mojo_program.DelegateAccountInstructionAccounts{
			Payer:              payer,
			Account:            a.Address,
			OwningProgram:      a.env.WorldProgram,
			Buffer:             side.Buffer,
			DelegationRecord:   side.DelegationRecord,
			DelegationMetadata: side.DelegationMetadata,
			SystemProgram:      a.env.SystemProgram,
			DelegationProgram:  a.env.DelegationProgram,
			Validator:          a.env.Validator,
		},
		&mojo_program.DelegateAccountInstructionArgs{
			Seed:    a.Seed,
			Payload: payload,
		},
	)

	a.state = Delegating
	return ixn, nil
}

// ConfirmDelegated acknowledges that the ephemeral layer now owns the account.
func (a *DelegatedAccount) ConfirmDelegated() error {
	if err := a.require(mojo_program.InstructionTypeDelegateAccount, Delegating); err != nil {
		return err
	}
	a.state = Delegated
	return nil
}

// AbortDelegation returns a Delegating account to Undelegated, for when the
// delegate transaction failed and the base layer still owns the account.
func (a *DelegatedAccount) AbortDelegation() error {
	if err := a.require(mojo_program.InstructionTypeDelegateAccount, Delegating); err != nil {
		return err
	}
	a.state = Undelegated
	return nil
}

// Write produces the write variant that matches the account's state: the
// base layer shape while Undelegated and the ephemeral shape while Delegated.
// It also returns the layer the instruction must be submitted to.
func (a *DelegatedAccount) Write(payer ed25519.PublicKey, payload []byte) (solana.Instruction, Layer, error) {
	args := &mojo_program.UpdateDelegatedAccountInstructionArgs{
		Seed:    a.Seed,
		Payload: payload,
	}

	switch a.state {
	case Undelegated:
		return mojo_program.NewUpdateAccountInstruction(
			a.env.WorldProgram,
			&mojo_program.UpdateAccountInstructionAccounts{
				Payer:   payer,
				Account: a.Address,
			},
			args,
		), LayerBase, nil
	case Delegated:
		return mojo_program.NewUpdateDelegatedAccountInstruction(
			a.env.WorldProgram,
			&mojo_program.UpdateDelegatedAccountInstructionAccounts{
				Payer:        payer,
				Account:      a.Address,
				MagicContext: a.env.MagicContext,
				MagicProgram: a.env.MagicProgram,
			},
			args,
		), LayerEphemeral, nil
	}

	return solana.Instruction{}, 0, a.fail(mojo_program.InstructionTypeUpdateDelegatedAccount, ErrInvalidLifecycleTransition)
}

// Commit produces a Commit instruction. The account stays Delegated.
func (a *DelegatedAccount) Commit(payer ed25519.PublicKey) (solana.Instruction, error) {
	if err := a.require(mojo_program.InstructionTypeCommit, Delegated); err != nil {
		return solana.Instruction{}, err
	}

	return mojo_program.NewCommitInstruction(
		a.env.WorldProgram,
		&mojo_program.CommitInstructionAccounts{
			Payer:        payer,
			Account:      a.Address,
			MagicContext: a.env.MagicContext,
			MagicProgram: a.env.MagicProgram,
		},
		&mojo_program.CommitInstructionArgs{
			Seed: a.Seed,
		},
	), nil
}

// Undelegate produces the UndelegateAccount instruction and moves the account
// to Undelegating.
func (a *DelegatedAccount) Undelegate(payer ed25519.PublicKey) (solana.Instruction, error) {
	if err := a.require(mojo_program.InstructionTypeUndelegateAccount, Delegated); err != nil {
		return solana.Instruction{}, err
	}

	ixn := mojo_program.NewUndelegateAccountInstruction(
		a.env.WorldProgram,
		&mojo_program.UndelegateAccountInstructionAccounts{
			Payer:        payer,
			Account:      a.Address,
			MagicContext: a.env.MagicContext,
			MagicProgram: a.env.MagicProgram,
		},
		&mojo_program.UndelegateAccountInstructionArgs{
			Seed: a.Seed,
		},
	)

	a.state = Undelegating
	return ixn, nil
}

// ConfirmUndelegated acknowledges that the base layer owns the account again.
func (a *DelegatedAccount) ConfirmUndelegated() error {
	if err := a.require(mojo_program.InstructionTypeUndelegateAccount, Undelegating); err != nil {
		return err
	}
	a.state = Undelegated
	return nil
}

// AbortUndelegation returns an Undelegating account to Delegated, for when the
// undelegate transaction failed and the ephemeral layer still owns the
// account.
func (a *DelegatedAccount) AbortUndelegation() error {
	if err := a.require(mojo_program.InstructionTypeUndelegateAccount, Undelegating); err != nil {
		return err
	}
	a.state = Delegated
	return nil
}

func (a *DelegatedAccount) require(ixn mojo_program.InstructionType, expected DelegationState) error {
	if a.state != expected {
		return a.fail(ixn, errors.Wrapf(ErrInvalidLifecycleTransition, "expected %s", expected))
	}
	return nil
}

func (a *DelegatedAccount) fail(ixn mojo_program.InstructionType, err error) error {
	return newError(ixn, a.Address, a.state, err)
}
