package mojo

import (
	"crypto/ed25519"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/mojo-sdk/pkg/solana"
)

func TestWorldSeedHash(t *testing.T) {
	owner := testKey(1)

	expected := sha256.Sum256(append([]byte("worldarena"), owner...))
	actual := WorldSeedHash(owner, "arena")
	assert.EqualValues(t, expected, actual)
	assert.Equal(t, actual, WorldSeedHash(owner, "arena"))
}

func TestStateSeedHash(t *testing.T) {
	owner := testKey(1)
	world := testKey(2)

	var preimage []byte
	preimage = append(preimage, "state"...)
	preimage = append(preimage, world...)
	preimage = append(preimage, "score"...)
	preimage = append(preimage, owner...)

	expected := sha256.Sum256(preimage)
	assert.EqualValues(t, expected, StateSeedHash(world, "score", owner))
}

func TestSeedHash_SingleByteSensitivity(t *testing.T) {
	owner := testKey(1)
	world := testKey(2)

	base := WorldSeedHash(owner, "arena")
	assert.NotEqual(t, base, WorldSeedHash(owner, "arenb"))

	for i := range owner {
		flipped := make(ed25519.PublicKey, len(owner))
		copy(flipped, owner)
		flipped[i] ^= 0x01
		assert.NotEqual(t, base, WorldSeedHash(flipped, "arena"), "byte %d", i)
	}

	stateBase := StateSeedHash(world, "score", owner)
	assert.NotEqual(t, stateBase, StateSeedHash(world, "scorf", owner))
	assert.NotEqual(t, stateBase, StateSeedHash(owner, "score", world))

	// Domain tags separate worlds and states built from the same bytes.
	assert.NotEqual(t, HashSeeds(WorldPrefix, []byte("x"), owner), HashSeeds(StatePrefix, []byte("x"), owner))
}

func TestGetWorldAddress(t *testing.T) {
	owner := testKey(1)

	address, bump, err := GetWorldAddress(&GetWorldAddressArgs{
		Program: DefaultProgramID,
		Owner:   owner,
		Name:    "arena",
	})
	require.NoError(t, err)
	require.Len(t, address, ed25519.PublicKeySize)

	seed := WorldSeedHash(owner, "arena")
	expected, expectedBump, err := solana.FindProgramAddressAndBump(DefaultProgramID, seed[:], owner)
	require.NoError(t, err)
	assert.Equal(t, expected, address)
	assert.Equal(t, expectedBump, bump)

	again, againBump, err := GetWorldAddress(&GetWorldAddressArgs{
		Program: DefaultProgramID,
		Owner:   owner,
		Name:    "arena",
	})
	require.NoError(t, err)
	assert.Equal(t, address, again)
	assert.Equal(t, bump, againBump)

	// The derived address is off curve, and the exact bump reproduces it.
	direct, err := solana.CreateProgramAddress(DefaultProgramID, seed[:], owner, []byte{bump})
	require.NoError(t, err)
	assert.Equal(t, address, direct)

	other, _, err := GetWorldAddress(&GetWorldAddressArgs{
		Program: testKey(9),
		Owner:   owner,
		Name:    "arena",
	})
	require.NoError(t, err)
	assert.NotEqual(t, address, other)
}

func TestGetStateAddress(t *testing.T) {
	owner := testKey(1)

	world, _, err := GetWorldAddress(&GetWorldAddressArgs{
		Program: DefaultProgramID,
		Owner:   owner,
		Name:    "arena",
	})
	require.NoError(t, err)

	state, _, err := GetStateAddress(&GetStateAddressArgs{
		Program: DefaultProgramID,
		World:   world,
		Owner:   owner,
		Name:    "arena",
	})
	require.NoError(t, err)
	assert.NotEqual(t, world, state)

	seed := StateSeedHash(world, "arena", owner)
	expected, _, err := GetAddressForSeed(DefaultProgramID, seed, owner)
	require.NoError(t, err)
	assert.Equal(t, expected, state)
}

func testKey(i byte) ed25519.PublicKey {
	h := sha256.Sum256([]byte{'k', i})
	return h[:]
}
