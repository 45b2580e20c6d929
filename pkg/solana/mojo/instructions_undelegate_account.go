package mojo

import (
	"crypto/ed25519"

	"github.com/code-payments/mojo-sdk/pkg/solana"
)

type UndelegateAccountInstructionArgs struct {
	Seed SeedHash
}

type UndelegateAccountInstructionAccounts struct {
	Payer        ed25519.PublicKey
	Account      ed25519.PublicKey
	MagicContext ed25519.PublicKey
	MagicProgram ed25519.PublicKey
}

// NewUndelegateAccountInstruction commits the final ephemeral state and returns
// write authority to the base layer.
func NewUndelegateAccountInstruction(
	program ed25519.PublicKey,
	accounts *UndelegateAccountInstructionAccounts,
	args *UndelegateAccountInstructionArgs,
) solana.Instruction {
	return solana.Instruction{
		Program: program,

		// Instruction args
		Data: EncodeInstructionData(InstructionTypeUndelegateAccount, args.Seed, nil),

		// Instruction accounts
		Accounts: scheduleCommitAccounts(accounts.Payer, accounts.Account, accounts.MagicContext, accounts.MagicProgram),
	}
}
