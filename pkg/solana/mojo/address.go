package mojo

import (
	"crypto/ed25519"
	"crypto/sha256"

	"github.com/pkg/errors"

	"github.com/code-payments/mojo-sdk/pkg/solana"
)

var (
	WorldPrefix = []byte("world")
	StatePrefix = []byte("state")
)

// HashSeeds hashes a domain tag followed by every chunk, in order.
func HashSeeds(tag []byte, chunks ...[]byte) SeedHash {
	h := sha256.New()
	h.Write(tag)
	for _, chunk := range chunks {
		h.Write(chunk)
	}

	var res SeedHash
	copy(res[:], h.Sum(nil))
	return res
}

// WorldSeedHash is sha256("world" | name | owner).
func WorldSeedHash(owner ed25519.PublicKey, name string) SeedHash {
	return HashSeeds(WorldPrefix, []byte(name), owner)
}

// StateSeedHash is sha256("state" | world | name | owner).
func StateSeedHash(world ed25519.PublicKey, name string, owner ed25519.PublicKey) SeedHash {
	return HashSeeds(StatePrefix, world, []byte(name), owner)
}

type GetWorldAddressArgs struct {
	Program ed25519.PublicKey
	Owner   ed25519.PublicKey
	Name    string
}

func GetWorldAddress(args *GetWorldAddressArgs) (ed25519.PublicKey, uint8, error) {
	seed := WorldSeedHash(args.Owner, args.Name)
	return GetAddressForSeed(args.Program, seed, args.Owner)
}

type GetStateAddressArgs struct {
	Program ed25519.PublicKey
	World   ed25519.PublicKey
	Owner   ed25519.PublicKey
	Name    string
}

func GetStateAddress(args *GetStateAddressArgs) (ed25519.PublicKey, uint8, error) {
	seed := StateSeedHash(args.World, args.Name, args.Owner)
	return GetAddressForSeed(args.Program, seed, args.Owner)
}

// GetAddressForSeed derives the account the world program creates for a seed
// hash on behalf of owner.
func GetAddressForSeed(program ed25519.PublicKey, seed SeedHash, owner ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	address, bump, err := solana.FindProgramAddressAndBump(program, seed[:], owner)
	if err != nil {
		return nil, 0, errors.Wrapf(ErrAddressDerivation, "%v", err)
	}
	return address, bump, nil
}
