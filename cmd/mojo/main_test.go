package main

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/mojo-sdk/pkg/solana"
	"github.com/code-payments/mojo-sdk/pkg/solana/delegation"
	mojo_program "github.com/code-payments/mojo-sdk/pkg/solana/mojo"
)

func testKey(b byte) ed25519.PublicKey {
	seed := make([]byte, ed25519.SeedSize)
	seed[0] = b
	return ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
}

func run(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out

	err := app.Run(append([]string{"mojo", "--network", "localnet"}, args...))
	return out.String(), err
}

// field returns the value printed after "<name>:" in command output.
func field(t *testing.T, out, name string) string {
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, name+":") {
			return strings.TrimSpace(strings.TrimPrefix(line, name+":"))
		}
	}
	require.Failf(t, "missing field", "%s not found in %q", name, out)
	return ""
}

func TestDeriveWorld(t *testing.T) {
	owner := testKey(1)

	out, err := run(t, "derive", "world", "--owner", base58.Encode(owner), "--name", "arena")
	require.NoError(t, err)

	expected, bump, err := mojo_program.GetWorldAddress(&mojo_program.GetWorldAddressArgs{
		Program: mojo_program.DefaultProgramID,
		Owner:   owner,
		Name:    "arena",
	})
	require.NoError(t, err)

	assert.Equal(t, base58.Encode(expected), field(t, out, "address"))
	assert.Equal(t, strconv.Itoa(int(bump)), field(t, out, "bump"))
}

func TestDeriveWorld_NetworkFlagKeepsOverrides(t *testing.T) {
	program := testKey(9)
	t.Setenv("MOJO_WORLD_PROGRAM_ID", base58.Encode(program))

	owner := testKey(1)
	out, err := run(t, "derive", "world", "--owner", base58.Encode(owner), "--name", "arena")
	require.NoError(t, err)

	expected, _, err := mojo_program.GetWorldAddress(&mojo_program.GetWorldAddressArgs{
		Program: program,
		Owner:   owner,
		Name:    "arena",
	})
	require.NoError(t, err)
	assert.Equal(t, base58.Encode(expected), field(t, out, "address"))
}

func TestDeriveState(t *testing.T) {
	owner := testKey(1)
	world := testKey(2)

	out, err := run(t, "derive", "state",
		"--owner", base58.Encode(owner),
		"--world", base58.Encode(world),
		"--name", "score",
	)
	require.NoError(t, err)

	expected, _, err := mojo_program.GetStateAddress(&mojo_program.GetStateAddressArgs{
		Program: mojo_program.DefaultProgramID,
		World:   world,
		Owner:   owner,
		Name:    "score",
	})
	require.NoError(t, err)
	assert.Equal(t, base58.Encode(expected), field(t, out, "address"))

	seed := mojo_program.StateSeedHash(world, "score", owner)
	assert.Equal(t, hex.EncodeToString(seed[:]), field(t, out, "seed"))
}

func TestDeriveDelegation(t *testing.T) {
	account := testKey(3)

	out, err := run(t, "derive", "delegation", "--account", base58.Encode(account))
	require.NoError(t, err)

	side, err := delegation.GetSideAccounts(&delegation.GetSideAccountAddressArgs{DelegatedAccount: account})
	require.NoError(t, err)

	assert.Equal(t, base58.Encode(side.Buffer), field(t, out, "buffer"))
	assert.Equal(t, base58.Encode(side.DelegationRecord), field(t, out, "delegation_record"))
	assert.Equal(t, base58.Encode(side.CommitStateRecord), field(t, out, "commit_state_record"))
}

func TestDerive_InvalidKey(t *testing.T) {
	_, err := run(t, "derive", "world", "--owner", "not-a-key", "--name", "arena")
	assert.Error(t, err)

	_, err = run(t, "derive", "world", "--owner", base58.Encode([]byte{1, 2, 3}), "--name", "arena")
	assert.Error(t, err)

	_, err = run(t, "derive", "world", "--name", "arena")
	assert.Error(t, err)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	payer := testKey(1)
	world := testKey(2)

	out, err := run(t, "encode", "create",
		"--payer", base58.Encode(payer),
		"--world", base58.Encode(world),
		"--name", "score",
		"--payload", "0a0b",
	)
	require.NoError(t, err)
	assert.Equal(t, base58.Encode(mojo_program.DefaultProgramID), field(t, out, "program"))
	assert.Equal(t, "base", field(t, out, "layer"))

	data := field(t, out, "data")
	out, err = run(t, "decode", "instruction", data)
	require.NoError(t, err)

	seed := mojo_program.StateSeedHash(world, "score", payer)
	assert.Equal(t, mojo_program.InstructionTypeCreateAccount.String(), field(t, out, "type"))
	assert.Equal(t, hex.EncodeToString(seed[:]), field(t, out, "seed"))
	assert.Equal(t, "0a0b", field(t, out, "payload"))
}

func TestEncode_CreateWorldRejectsPayload(t *testing.T) {
	_, err := run(t, "encode", "create",
		"--payer", base58.Encode(testKey(1)),
		"--name", "arena",
		"--payload", "00",
	)
	assert.Error(t, err)
}

func TestEncode_Write(t *testing.T) {
	payer := base58.Encode(testKey(1))
	world := base58.Encode(testKey(2))

	out, err := run(t, "encode", "write", "--payer", payer, "--world", world, "--name", "score", "--payload", "ff")
	require.NoError(t, err)
	assert.Equal(t, "base", field(t, out, "layer"))
	assert.NotContains(t, out, "  2:")

	out, err = run(t, "encode", "write", "--payer", payer, "--world", world, "--name", "score", "--payload", "ff", "--delegated")
	require.NoError(t, err)
	assert.Equal(t, "ephemeral", field(t, out, "layer"))
	assert.Contains(t, out, base58.Encode(delegation.MAGIC_CONTEXT_ID))
	assert.Contains(t, out, "  3:")
}

func TestEncode_LifecycleCommands(t *testing.T) {
	payer := base58.Encode(testKey(1))
	world := base58.Encode(testKey(2))

	for _, tc := range []struct {
		cmd string
		typ mojo_program.InstructionType
	}{
		{"delegate", mojo_program.InstructionTypeDelegateAccount},
		{"commit", mojo_program.InstructionTypeCommit},
		{"undelegate", mojo_program.InstructionTypeUndelegateAccount},
	} {
		out, err := run(t, "encode", tc.cmd, "--payer", payer, "--world", world, "--name", "score")
		require.NoError(t, err, tc.cmd)

		decoded, err := run(t, "decode", "instruction", field(t, out, "data"))
		require.NoError(t, err, tc.cmd)
		assert.Equal(t, tc.typ.String(), field(t, decoded, "type"), tc.cmd)
	}
}

func TestDecodeTransaction(t *testing.T) {
	payer := testKey(1)
	seed := mojo_program.WorldSeedHash(payer, "arena")
	address, _, err := mojo_program.GetAddressForSeed(mojo_program.DefaultProgramID, seed, payer)
	require.NoError(t, err)

	ixn := mojo_program.NewCreateAccountInstruction(
		mojo_program.DefaultProgramID,
		&mojo_program.CreateAccountInstructionAccounts{
			Payer:      payer,
			NewAccount: address,
		},
		&mojo_program.CreateAccountInstructionArgs{
			Seed:    seed,
			Payload: []byte{7},
		},
	)
	txn := solana.NewTransaction(payer, ixn)

	out, err := run(t, "decode", "transaction", hex.EncodeToString(txn.Marshal()))
	require.NoError(t, err)
	assert.Contains(t, out, "instruction 0: "+mojo_program.InstructionTypeCreateAccount.String())
	assert.Contains(t, out, base58.Encode(address)+"(w)")

	_, err = run(t, "decode", "transaction", "zz")
	assert.Error(t, err)
}

func TestDecodeWorld(t *testing.T) {
	owner := testKey(1)
	record := &mojo_program.WorldAccountRecord{
		Creator: owner,
		Seed:    mojo_program.WorldSeedHash(owner, "arena"),
	}
	account := &mojo_program.WorldAccount{
		Owner: owner,
		Name:  "arena",
		Data:  record.Marshal(),
	}

	out, err := run(t, "decode", "world", hex.EncodeToString(account.Marshal()))
	require.NoError(t, err)
	assert.Contains(t, out, account.String())
	assert.Contains(t, out, record.String())

	_, err = run(t, "decode", "world", "zz")
	assert.Error(t, err)
}
