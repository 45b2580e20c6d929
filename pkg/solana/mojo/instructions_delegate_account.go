package mojo

import (
	"crypto/ed25519"

	"github.com/code-payments/mojo-sdk/pkg/solana"
	"github.com/code-payments/mojo-sdk/pkg/solana/system"
)

type DelegateAccountInstructionArgs struct {
	Seed    SeedHash
	Payload []byte
}

// DelegateAccountInstructionAccounts lists every account the delegation
// handshake touches. The side accounts are derived with the delegation package.
// SystemProgram defaults to the cluster-wide identifier when nil.
type DelegateAccountInstructionAccounts struct {
	Payer              ed25519.PublicKey
	Account            ed25519.PublicKey
	OwningProgram      ed25519.PublicKey
	Buffer             ed25519.PublicKey
	DelegationRecord   ed25519.PublicKey
	DelegationMetadata ed25519.PublicKey
	SystemProgram      ed25519.PublicKey
	DelegationProgram  ed25519.PublicKey
	Validator          ed25519.PublicKey
}

// NewDelegateAccountInstruction hands write authority over an account to the
// ephemeral layer. Every account after the payer is writable, including the
// program accounts.
func NewDelegateAccountInstruction(
	program ed25519.PublicKey,
	accounts *DelegateAccountInstructionAccounts,
	args *DelegateAccountInstructionArgs,
) solana.Instruction {
	return solana.Instruction{
		Program: program,

		// Instruction args
		Data: EncodeInstructionData(InstructionTypeDelegateAccount, args.Seed, args.Payload),

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
				PublicKey:  accounts.OwningProgram,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Buffer,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.DelegationRecord,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.DelegationMetadata,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  orDefault(accounts.SystemProgram, system.ProgramKey),
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.DelegationProgram,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Validator,
				IsWritable: true,
				IsSigner:   false,
			},
		},
	}
}
