package delegation

import (
	"crypto/ed25519"

	"github.com/code-payments/mojo-sdk/pkg/solana"
)

var (
	DelegationPrefix         = []byte("delegation")
	DelegationMetadataPrefix = []byte("delegation-metadata")
	BufferPrefix             = []byte("buffer")
	StateDiffPrefix          = []byte("state-diff")
	CommitStateRecordPrefix  = []byte("commit-state-record")
)

// GetSideAccountAddressArgs identifies a delegated account. Program defaults to
// PROGRAM_ID when unset.
type GetSideAccountAddressArgs struct {
	Program          ed25519.PublicKey
	DelegatedAccount ed25519.PublicKey
}

func (args *GetSideAccountAddressArgs) program() ed25519.PublicKey {
	if len(args.Program) == 0 {
		return PROGRAM_ID
	}
	return args.Program
}

// GetBufferAddress derives the account that temporarily holds the delegated
// account's data during the handshake.
func GetBufferAddress(args *GetSideAccountAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		args.program(),
		BufferPrefix,
		args.DelegatedAccount,
	)
}

func GetDelegationRecordAddress(args *GetSideAccountAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		args.program(),
		DelegationPrefix,
		args.DelegatedAccount,
	)
}

func GetDelegationMetadataAddress(args *GetSideAccountAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		args.program(),
		DelegationMetadataPrefix,
		args.DelegatedAccount,
	)
}

func GetStateDiffAddress(args *GetSideAccountAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		args.program(),
		StateDiffPrefix,
		args.DelegatedAccount,
	)
}

func GetCommitStateRecordAddress(args *GetSideAccountAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		args.program(),
		CommitStateRecordPrefix,
		args.DelegatedAccount,
	)
}

// SideAccounts are the delegation program accounts tied to one delegated
// account.
type SideAccounts struct {
	Buffer             ed25519.PublicKey
	DelegationRecord   ed25519.PublicKey
	DelegationMetadata ed25519.PublicKey
	StateDiff          ed25519.PublicKey
	CommitStateRecord  ed25519.PublicKey
}

// GetSideAccounts derives every side account for a delegated account.
func GetSideAccounts(args *GetSideAccountAddressArgs) (*SideAccounts, error) {
	var res SideAccounts
	var err error

	for _, d := range []struct {
		dst    *ed25519.PublicKey
		derive func(*GetSideAccountAddressArgs) (ed25519.PublicKey, uint8, error)
	}{
		{&res.Buffer, GetBufferAddress},
		{&res.DelegationRecord, GetDelegationRecordAddress},
		{&res.DelegationMetadata, GetDelegationMetadataAddress},
		{&res.StateDiff, GetStateDiffAddress},
		{&res.CommitStateRecord, GetCommitStateRecordAddress},
	} {
		*d.dst, _, err = d.derive(args)
		if err != nil {
			return nil, err
		}
	}

	return &res, nil
}
