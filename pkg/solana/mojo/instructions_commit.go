package mojo

import (
	"crypto/ed25519"

	"github.com/code-payments/mojo-sdk/pkg/solana"
)

type CommitInstructionArgs struct {
	Seed SeedHash
}

type CommitInstructionAccounts struct {
	Payer        ed25519.PublicKey
	Account      ed25519.PublicKey
	MagicContext ed25519.PublicKey
	MagicProgram ed25519.PublicKey
}

// NewCommitInstruction schedules a commit of the delegated account's ephemeral
// state back to the base layer. Write authority stays with the ephemeral layer.
func NewCommitInstruction(
	program ed25519.PublicKey,
	accounts *CommitInstructionAccounts,
	args *CommitInstructionArgs,
) solana.Instruction {
	return solana.Instruction{
		Program: program,

		// Instruction args
		Data: EncodeInstructionData(InstructionTypeCommit, args.Seed, nil),

		// Instruction accounts
		Accounts: scheduleCommitAccounts(accounts.Payer, accounts.Account, accounts.MagicContext, accounts.MagicProgram),
	}
}

// scheduleCommitAccounts is the account shape shared by commit and undelegate.
// The magic context is written when a commit is queued.
func scheduleCommitAccounts(payer, account, magicContext, magicProgram ed25519.PublicKey) []solana.AccountMeta {
	return []solana.AccountMeta{
		{
			PublicKey:  payer,
			IsWritable: true,
			IsSigner:   true,
		},
		{
			PublicKey:  account,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  magicContext,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  magicProgram,
			IsWritable: false,
			IsSigner:   false,
		},
	}
}
