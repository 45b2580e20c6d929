package mojo

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

var (
	// ErrSerialization is returned when instruction or account bytes are
	// malformed, truncated or inconsistent with their length fields.
	ErrSerialization = errors.New("invalid serialized data")

	// ErrAddressDerivation is returned when no program derived address exists
	// for a set of seeds.
	ErrAddressDerivation = errors.New("unable to derive program address")

	// ErrUnknownInstruction is returned when a discriminator is outside the
	// known instruction set. It is also an ErrSerialization.
	ErrUnknownInstruction = errors.WithMessage(ErrSerialization, "unknown instruction discriminator")
)

// DefaultProgramID is the world program deployed on the public clusters. Every
// builder and deriver takes the program explicitly so that local deployments
// can substitute their own.
var DefaultProgramID = ed25519.PublicKey(mustBase58Decode("MojoState1111111111111111111111111111111111"))

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	if len(decoded) != ed25519.PublicKeySize {
		panic("invalid public key length")
	}
	return decoded
}
