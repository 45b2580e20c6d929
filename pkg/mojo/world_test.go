package mojo

import (
	"context"
	"crypto/ed25519"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mojo_program "github.com/code-payments/mojo-sdk/pkg/solana/mojo"
)

// score is a fixed-size state used by the tests.
type score struct {
	Points uint64
	Level  uint32
}

func (s *score) Size() int { return 12 }

func (s *score) Marshal() []byte {
	b := make([]byte, 12)
	binary.LittleEndian.PutUint64(b, s.Points)
	binary.LittleEndian.PutUint32(b[8:], s.Level)
	return b
}

func (s *score) Unmarshal(b []byte) error {
	if len(b) != 12 {
		return ErrSerialization
	}
	s.Points = binary.LittleEndian.Uint64(b)
	s.Level = binary.LittleEndian.Uint32(b[8:])
	return nil
}

func TestWorld_CreateWorld(t *testing.T) {
	env := testEnvironment(t)
	transport := newMemoryTransport()
	w := NewWorld(env, transport)

	payer := testSigner(t, 1)
	owner := payer.Public().(ed25519.PublicKey)

	address, _, err := w.CreateWorld(context.Background(), payer, "arena")
	require.NoError(t, err)

	expected, _, err := mojo_program.GetWorldAddress(&mojo_program.GetWorldAddressArgs{
		Program: env.WorldProgram,
		Owner:   owner,
		Name:    "arena",
	})
	require.NoError(t, err)
	assert.Equal(t, expected, address)

	require.Len(t, transport.submissions, 1)
	sub := transport.submissions[0]
	assert.Equal(t, LayerBase, sub.layer)
	require.Len(t, sub.instructions, 1)

	ixn := sub.instructions[0]
	require.Len(t, ixn.Accounts, 4)
	assert.Equal(t, owner, ixn.Accounts[0].PublicKey)
	assert.Equal(t, address, ixn.Accounts[1].PublicKey)
	assert.Equal(t, env.SystemProgram, ixn.Accounts[2].PublicKey)
	assert.Equal(t, env.RentSysvar, ixn.Accounts[3].PublicKey)

	require.Len(t, ixn.Data, mojo_program.InstructionHeaderSize+mojo_program.WorldAccountRecordSize)
	decoded, err := mojo_program.DecodeInstructionData(ixn.Data)
	require.NoError(t, err)
	assert.Equal(t, mojo_program.InstructionTypeCreateAccount, decoded.Type)
	assert.Equal(t, mojo_program.WorldSeedHash(owner, "arena"), decoded.Seed)

	var record mojo_program.WorldAccountRecord
	require.NoError(t, record.Unmarshal(decoded.Payload))
	assert.Equal(t, owner, record.Creator)
	assert.Equal(t, decoded.Seed, record.Seed)

	// The record round trips through a read.
	transport.setAccount(LayerBase, address, decoded.Payload)
	read, err := w.ReadWorld(context.Background(), address)
	require.NoError(t, err)
	assert.Equal(t, record, *read)
}

func TestWorld_UsesConfiguredSystemAccounts(t *testing.T) {
	env := testEnvironment(t)
	env.SystemProgram = testPublicKey(20)
	env.RentSysvar = testPublicKey(21)

	transport := newMemoryTransport()
	w := NewWorld(env, transport)
	payer := testSigner(t, 1)

	_, _, err := w.CreateWorld(context.Background(), payer, "arena")
	require.NoError(t, err)
	_, err = w.CreateState(context.Background(), payer, testPublicKey(1), "score", &score{})
	require.NoError(t, err)

	require.Len(t, transport.submissions, 3)
	for _, i := range []int{0, 1} {
		ixn := transport.submissions[i].instructions[0]
		assert.Equal(t, env.SystemProgram, ixn.Accounts[2].PublicKey)
		assert.Equal(t, env.RentSysvar, ixn.Accounts[3].PublicKey)
	}

	delegate := transport.submissions[2].instructions[0]
	assert.EqualValues(t, mojo_program.InstructionTypeDelegateAccount, delegate.Data[0])
	assert.Equal(t, env.SystemProgram, delegate.Accounts[6].PublicKey)
}

func TestWorld_StateLifecycle(t *testing.T) {
	env := testEnvironment(t)
	transport := newMemoryTransport()
	w := NewWorld(env, transport)
	ctx := context.Background()

	payer := testSigner(t, 1)
	owner := payer.Public().(ed25519.PublicKey)

	world, _, err := w.WorldAddress(owner, "arena")
	require.NoError(t, err)

	account, err := w.CreateState(ctx, payer, world, "score", &score{Points: 1})
	require.NoError(t, err)
	assert.Equal(t, Delegated, account.State())

	expectedAddress, _, err := mojo_program.GetStateAddress(&mojo_program.GetStateAddressArgs{
		Program: env.WorldProgram,
		World:   world,
		Owner:   owner,
		Name:    "score",
	})
	require.NoError(t, err)
	assert.Equal(t, expectedAddress, account.Address)

	require.Len(t, transport.submissions, 2)
	assert.Equal(t, LayerBase, transport.submissions[0].layer)
	assert.Equal(t, LayerBase, transport.submissions[1].layer)
	assert.EqualValues(t, mojo_program.InstructionTypeCreateAccount, transport.submissions[0].instructions[0].Data[0])
	assert.EqualValues(t, mojo_program.InstructionTypeDelegateAccount, transport.submissions[1].instructions[0].Data[0])

	_, err = w.WriteState(ctx, payer, account, &score{Points: 10, Level: 2})
	require.NoError(t, err)
	_, err = w.CommitState(ctx, payer, account)
	require.NoError(t, err)
	_, err = w.UndelegateState(ctx, payer, account)
	require.NoError(t, err)
	assert.Equal(t, Undelegated, account.State())

	_, err = w.WriteState(ctx, payer, account, &score{Points: 11})
	require.NoError(t, err)

	require.Len(t, transport.submissions, 6)
	for i, expected := range []struct {
		typ   mojo_program.InstructionType
		layer Layer
	}{
		{mojo_program.InstructionTypeUpdateDelegatedAccount, LayerEphemeral},
		{mojo_program.InstructionTypeCommit, LayerEphemeral},
		{mojo_program.InstructionTypeUndelegateAccount, LayerEphemeral},
		{mojo_program.InstructionTypeUpdateDelegatedAccount, LayerBase},
	} {
		sub := transport.submissions[2+i]
		assert.Equal(t, expected.layer, sub.layer, "submission %d", 2+i)
		assert.EqualValues(t, expected.typ, sub.instructions[0].Data[0], "submission %d", 2+i)
	}

	decoded, err := mojo_program.DecodeInstructionData(transport.submissions[2].instructions[0].Data)
	require.NoError(t, err)
	assert.Equal(t, (&score{Points: 10, Level: 2}).Marshal(), decoded.Payload)
}

func TestWorld_CreateState_DelegateFailure(t *testing.T) {
	transport := newMemoryTransport()
	transport.submitErrs = []error{nil, ErrTransport}
	w := NewWorld(testEnvironment(t), transport)

	payer := testSigner(t, 1)
	account, err := w.CreateState(context.Background(), payer, testPublicKey(1), "score", &score{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))

	require.NotNil(t, account)
	assert.Equal(t, Delegating, account.State())

	var mojoErr *Error
	require.True(t, errors.As(err, &mojoErr))
	assert.Equal(t, mojo_program.InstructionTypeDelegateAccount, mojoErr.Instruction)
	assert.Equal(t, account.Address, ed25519.PublicKey(mojoErr.Address))

	// Retrying from the pending state is rejected until it is rolled back.
	_, err = w.DelegateState(context.Background(), payer, account, &score{Points: 1})
	assert.True(t, errors.Is(err, ErrInvalidLifecycleTransition))
	assert.Len(t, transport.submissions, 2)

	require.NoError(t, account.AbortDelegation())
	_, err = w.DelegateState(context.Background(), payer, account, &score{Points: 1})
	require.NoError(t, err)
	assert.Equal(t, Delegated, account.State())

	require.Len(t, transport.submissions, 3)
	retry := transport.submissions[2]
	assert.Equal(t, LayerBase, retry.layer)
	require.Len(t, retry.instructions, 1)
	assert.EqualValues(t, mojo_program.InstructionTypeDelegateAccount, retry.instructions[0].Data[0])
	assert.Equal(t, account.Address, retry.instructions[0].Accounts[1].PublicKey)
}

func TestWorld_CreateState_CreateFailure(t *testing.T) {
	transport := newMemoryTransport()
	transport.submitErrs = []error{ErrTransport}
	w := NewWorld(testEnvironment(t), transport)

	account, err := w.CreateState(context.Background(), testSigner(t, 1), testPublicKey(1), "score", &score{})
	assert.True(t, errors.Is(err, ErrTransport))
	assert.Nil(t, account)
	assert.Len(t, transport.submissions, 1)
}

func TestWorld_InvalidTransitionSubmitsNothing(t *testing.T) {
	env := testEnvironment(t)
	transport := newMemoryTransport()
	w := NewWorld(env, transport)
	payer := testSigner(t, 1)

	account := RestoreDelegatedAccount(env, testPublicKey(1), payer.Public().(ed25519.PublicKey), mojo_program.SeedHash{}, Delegating)

	_, err := w.WriteState(context.Background(), payer, account, &score{})
	assert.True(t, errors.Is(err, ErrInvalidLifecycleTransition))
	_, err = w.CommitState(context.Background(), payer, account)
	assert.True(t, errors.Is(err, ErrInvalidLifecycleTransition))
	_, err = w.UndelegateState(context.Background(), payer, account)
	assert.True(t, errors.Is(err, ErrInvalidLifecycleTransition))

	assert.Empty(t, transport.submissions)
	assert.Equal(t, Delegating, account.State())
}

func TestWorld_UndelegateFailureKeepsUndelegating(t *testing.T) {
	env := testEnvironment(t)
	transport := newMemoryTransport()
	transport.submitErrs = []error{ErrTransport}
	w := NewWorld(env, transport)
	payer := testSigner(t, 1)

	account := RestoreDelegatedAccount(env, testPublicKey(1), payer.Public().(ed25519.PublicKey), mojo_program.SeedHash{}, Delegated)

	_, err := w.UndelegateState(context.Background(), payer, account)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.Equal(t, Undelegating, account.State())

	_, err = w.UndelegateState(context.Background(), payer, account)
	assert.True(t, errors.Is(err, ErrInvalidLifecycleTransition))

	require.NoError(t, account.AbortUndelegation())
	_, err = w.UndelegateState(context.Background(), payer, account)
	require.NoError(t, err)
	assert.Equal(t, Undelegated, account.State())

	require.Len(t, transport.submissions, 2)
	assert.Equal(t, LayerEphemeral, transport.submissions[1].layer)
}

func TestWorld_ReadState(t *testing.T) {
	transport := newMemoryTransport()
	w := NewWorld(testEnvironment(t), transport)
	address := testPublicKey(1)

	var dst score
	err := w.ReadState(context.Background(), address, LayerEphemeral, &dst)
	assert.True(t, errors.Is(err, ErrAccountNotFound))

	transport.setAccount(LayerEphemeral, address, []byte{1, 2, 3})
	err = w.ReadState(context.Background(), address, LayerEphemeral, &dst)
	assert.True(t, errors.Is(err, ErrSerialization))

	// Trailing account bytes beyond the state are ignored.
	data := append((&score{Points: 42, Level: 7}).Marshal(), 0xff, 0xff)
	transport.setAccount(LayerEphemeral, address, data)
	require.NoError(t, w.ReadState(context.Background(), address, LayerEphemeral, &dst))
	assert.Equal(t, score{Points: 42, Level: 7}, dst)

	raw := NewRawState(4)
	require.NoError(t, w.ReadState(context.Background(), address, LayerEphemeral, raw))
	assert.Equal(t, data[:4], raw.Data)

	// Layers are independent.
	err = w.ReadState(context.Background(), address, LayerBase, &dst)
	assert.True(t, errors.Is(err, ErrAccountNotFound))
}

func TestWorld_ReadWorldStates(t *testing.T) {
	transport := newMemoryTransport()
	w := NewWorld(testEnvironment(t), transport)

	owner := testPublicKey(1)
	world := testPublicKey(2)

	var names []string
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("player-%d", i)
		names = append(names, name)

		address, _, err := w.StateAddress(world, owner, name)
		require.NoError(t, err)
		transport.setAccount(LayerEphemeral, address, (&score{Points: uint64(i)}).Marshal())
	}

	states, err := w.ReadWorldStates(context.Background(), world, owner, names, func(string) State { return &score{} })
	require.NoError(t, err)
	require.Len(t, states, len(names))
	for i, name := range names {
		assert.EqualValues(t, i, states[name].(*score).Points)
	}

	_, err = w.ReadWorldStates(context.Background(), world, owner, append(names, "missing"), func(string) State { return &score{} })
	assert.True(t, errors.Is(err, ErrAccountNotFound))
}

func TestWorld_AddressCache(t *testing.T) {
	env := testEnvironment(t)
	owner := testPublicKey(1)

	cached := NewWorld(env, newMemoryTransport())
	require.NotNil(t, cached.addresses)

	env.AddressCacheSize = 0
	uncached := NewWorld(env, newMemoryTransport())
	assert.Nil(t, uncached.addresses)

	for i := 0; i < 2; i++ {
		a, seedA, err := cached.WorldAddress(owner, "arena")
		require.NoError(t, err)
		b, seedB, err := uncached.WorldAddress(owner, "arena")
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.Equal(t, seedA, seedB)
	}
	assert.Equal(t, 1, cached.addresses.Len())
}

func TestWorld_WriteStateRejectsBadState(t *testing.T) {
	env := testEnvironment(t)
	transport := newMemoryTransport()
	w := NewWorld(env, transport)
	payer := testSigner(t, 1)

	account := NewDelegatedAccount(env, testPublicKey(1), payer.Public().(ed25519.PublicKey), mojo_program.SeedHash{})
	_, err := w.WriteState(context.Background(), payer, account, badState{})
	assert.True(t, errors.Is(err, ErrSerialization))
	assert.Empty(t, transport.submissions)
}

type badState struct{}

func (badState) Size() int { return 4 }

func (badState) Marshal() []byte { return []byte{1} }

func (badState) Unmarshal(_ []byte) error { return nil }
