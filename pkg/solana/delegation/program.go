package delegation

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
)

var (
	// PROGRAM_ID takes ownership of delegated accounts on the base layer.
	PROGRAM_ID = ed25519.PublicKey(mustBase58Decode("DELeGGvXpWV2fqJUhqcF5ZSYMS4JTLjteaAMARRSaeSh"))

	// MAGIC_PROGRAM_ID schedules commits on the ephemeral layer.
	MAGIC_PROGRAM_ID = ed25519.PublicKey(mustBase58Decode("Magic11111111111111111111111111111111111111"))

	// MAGIC_CONTEXT_ID is the ephemeral layer account that queues pending
	// commits.
	MAGIC_CONTEXT_ID = ed25519.PublicKey(mustBase58Decode("MagicContext1111111111111111111111111111111"))
)

// Ephemeral layer validators that delegated accounts can be assigned to.
var (
	ValidatorAsia  = ed25519.PublicKey(mustBase58Decode("MAS1Dt9qreoRMQ14YQuhg8UTZMMzDdKhmkZMECCzk57"))
	ValidatorUS    = ed25519.PublicKey(mustBase58Decode("MUS3hc9TCw4cGC12vHNoYcCGzJG1txjgQLZWVoeNHNd"))
	ValidatorEU    = ed25519.PublicKey(mustBase58Decode("MEUGGrYPxKk17hCr7wpT6s8dtNokZj5U2L57vjYMS8e"))
	ValidatorLocal = ed25519.PublicKey(mustBase58Decode("mAGicPQYBMvcYveUZA5F5UNNwyHvfYh5xkLS2Fr1mev"))
)

// DefaultValidator is used when no validator is configured.
var DefaultValidator = ValidatorAsia

// Ephemeral layer RPC endpoints.
const (
	EphemeralEndpointDevnet   = "https://devnet.magicblock.app"
	EphemeralEndpointMainnet  = "https://as.magicblock.app"
	EphemeralEndpointLocalnet = "http://127.0.0.1:7799"
)

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
