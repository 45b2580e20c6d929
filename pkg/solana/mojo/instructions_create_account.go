package mojo

import (
	"crypto/ed25519"

	"github.com/code-payments/mojo-sdk/pkg/solana"
	"github.com/code-payments/mojo-sdk/pkg/solana/system"
)

type CreateAccountInstructionArgs struct {
	Seed    SeedHash
	Payload []byte
}

// CreateAccountInstructionAccounts are the accounts CreateAccount touches.
// SystemProgram and RentSysvar default to the cluster-wide identifiers when
// nil.
type CreateAccountInstructionAccounts struct {
	Payer         ed25519.PublicKey
	NewAccount    ed25519.PublicKey
	SystemProgram ed25519.PublicKey
	RentSysvar    ed25519.PublicKey
}

// NewCreateAccountInstruction allocates the account derived from Seed and
// initializes it with Payload.
func NewCreateAccountInstruction(
	program ed25519.PublicKey,
	accounts *CreateAccountInstructionAccounts,
	args *CreateAccountInstructionArgs,
) solana.Instruction {
	return solana.Instruction{
		Program: program,

		// Instruction args
		Data: EncodeInstructionData(InstructionTypeCreateAccount, args.Seed, args.Payload),

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Payer,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.NewAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  orDefault(accounts.SystemProgram, system.ProgramKey),
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  orDefault(accounts.RentSysvar, system.RentSysVar),
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}

func orDefault(key, fallback ed25519.PublicKey) ed25519.PublicKey {
	if len(key) == 0 {
		return fallback
	}
	return key
}
