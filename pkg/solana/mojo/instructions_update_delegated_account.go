package mojo

import (
	"crypto/ed25519"

	"github.com/code-payments/mojo-sdk/pkg/solana"
)

type UpdateDelegatedAccountInstructionArgs struct {
	Seed    SeedHash
	Payload []byte
}

// UpdateAccountInstructionAccounts is the base layer write shape, used while
// the account is not delegated.
type UpdateAccountInstructionAccounts struct {
	Payer   ed25519.PublicKey
	Account ed25519.PublicKey
}

// NewUpdateAccountInstruction overwrites an undelegated account on the base
// layer.
func NewUpdateAccountInstruction(
	program ed25519.PublicKey,
	accounts *UpdateAccountInstructionAccounts,
	args *UpdateDelegatedAccountInstructionArgs,
) solana.Instruction {
	return solana.Instruction{
		Program: program,

		// Instruction args
		Data: EncodeInstructionData(InstructionTypeUpdateDelegatedAccount, args.Seed, args.Payload),

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Payer,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Account,
				IsWritable: true,
				IsSigner:   false,
			},
		},
	}
}

// UpdateDelegatedAccountInstructionAccounts is the ephemeral layer write shape.
type UpdateDelegatedAccountInstructionAccounts struct {
	Payer        ed25519.PublicKey
	Account      ed25519.PublicKey
	MagicContext ed25519.PublicKey
	MagicProgram ed25519.PublicKey
}

// NewUpdateDelegatedAccountInstruction overwrites a delegated account on the
// ephemeral layer.
func NewUpdateDelegatedAccountInstruction(
	program ed25519.PublicKey,
	accounts *UpdateDelegatedAccountInstructionAccounts,
	args *UpdateDelegatedAccountInstructionArgs,
) solana.Instruction {
	return solana.Instruction{
		Program: program,

		// Instruction args
		Data: EncodeInstructionData(InstructionTypeUpdateDelegatedAccount, args.Seed, args.Payload),

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Payer,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Account,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.MagicContext,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.MagicProgram,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}
