package mojo

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/code-payments/mojo-sdk/pkg/solana"
)

type submission struct {
	payer        ed25519.PublicKey
	instructions []solana.Instruction
	layer        Layer
}

// memoryTransport records submissions and serves reads from an in-memory
// account map.
type memoryTransport struct {
	mu          sync.Mutex
	submissions []submission
	accounts    map[Layer]map[string][]byte

	// submitErrs are returned, in order, by successive Submit calls.
	submitErrs []error
	readErr    error
}

func newMemoryTransport() *memoryTransport {
	return &memoryTransport{
		accounts: map[Layer]map[string][]byte{
			LayerBase:      {},
			LayerEphemeral: {},
		},
	}
}

func (t *memoryTransport) Submit(_ context.Context, signer ed25519.PrivateKey, instructions []solana.Instruction, layer Layer) (solana.Signature, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.submissions = append(t.submissions, submission{
		payer:        signer.Public().(ed25519.PublicKey),
		instructions: instructions,
		layer:        layer,
	})

	var sig solana.Signature
	sig[0] = byte(len(t.submissions))

	if len(t.submitErrs) > 0 {
		err := t.submitErrs[0]
		t.submitErrs = t.submitErrs[1:]
		if err != nil {
			return sig, err
		}
	}
	return sig, nil
}

func (t *memoryTransport) ReadAccountBytes(_ context.Context, address ed25519.PublicKey, layer Layer) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.readErr != nil {
		return nil, t.readErr
	}

	data, ok := t.accounts[layer][string(address)]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return data, nil
}

func (t *memoryTransport) setAccount(layer Layer, address ed25519.PublicKey, data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.accounts[layer][string(address)] = data
}

func testEnvironment(t *testing.T) *Environment {
	env, err := NewEnvironment(NetworkDevnet)
	require.NoError(t, err)
	return env
}

func testSigner(t *testing.T, i byte) ed25519.PrivateKey {
	seed := sha256.Sum256([]byte{'s', i})
	return ed25519.NewKeyFromSeed(seed[:])
}

func testPublicKey(i byte) ed25519.PublicKey {
	h := sha256.Sum256([]byte{'p', i})
	return h[:]
}
