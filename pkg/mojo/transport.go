package mojo

import (
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/mojo-sdk/pkg/rate"
	"github.com/code-payments/mojo-sdk/pkg/solana"
)

// Layer selects which ledger a transaction or read is sent to.
type Layer uint8

const (
	// LayerBase is the durable host ledger.
	LayerBase Layer = iota
	// LayerEphemeral is the low-latency execution layer that owns delegated
	// accounts.
	LayerEphemeral
)

func (l Layer) String() string {
	switch l {
	case LayerBase:
		return "base"
	case LayerEphemeral:
		return "ephemeral"
	}
	return "unknown"
}

// Transport submits signed instructions and reads raw account bytes. It is
// the only component that performs I/O.
type Transport interface {
	// Submit signs the instructions as a single transaction paid for by
	// signer, sends it to layer and waits for the configured commitment.
	Submit(ctx context.Context, signer ed25519.PrivateKey, instructions []solana.Instruction, layer Layer) (solana.Signature, error)

	// ReadAccountBytes returns the data of an account, or ErrAccountNotFound.
	ReadAccountBytes(ctx context.Context, address ed25519.PublicKey, layer Layer) ([]byte, error)
}

// RPCTransport is a Transport over the JSON-RPC API of both layers.
type RPCTransport struct {
	log *logrus.Entry

	base       solana.Client
	ephemeral  solana.Client
	limiter    rate.Limiter
	commitment solana.Commitment
	budget     []solana.Instruction
}

// NewRPCTransport connects to the endpoints in env.
func NewRPCTransport(env *Environment) *RPCTransport {
	return NewRPCTransportWithClients(
		env,
		solana.New(env.BaseRPCEndpoint),
		solana.New(env.EphemeralRPCEndpoint),
	)
}

// NewRPCTransportWithClients uses the provided clients instead of dialing the
// endpoints in env.
func NewRPCTransportWithClients(env *Environment, base, ephemeral solana.Client) *RPCTransport {
	var limiter rate.Limiter = rate.NoLimiter{}
	if env.RPCRateLimit > 0 {
		limiter = rate.NewLocalRateLimiter(env.RPCRateLimit, int(env.RPCRateLimit))
	}

	return &RPCTransport{
		log:        logrus.StandardLogger().WithField("type", "mojo/transport"),
		base:       base,
		ephemeral:  ephemeral,
		limiter:    limiter,
		commitment: env.Commitment,
		budget:     env.Budget.Instructions(),
	}
}

// client returns the client for layer once the layer's rate limit permits a
// call.
func (t *RPCTransport) client(ctx context.Context, layer Layer) (solana.Client, error) {
	var client solana.Client
	switch layer {
	case LayerBase:
		client = t.base
	case LayerEphemeral:
		client = t.ephemeral
	default:
		return nil, errors.Wrapf(ErrTransport, "unknown layer: %d", layer)
	}

	if err := t.limiter.Wait(ctx, layer.String()); err != nil {
		return nil, wrapTransportError(err, "rate limited")
	}
	return client, nil
}

// Submit implements Transport.Submit.
func (t *RPCTransport) Submit(ctx context.Context, signer ed25519.PrivateKey, instructions []solana.Instruction, layer Layer) (solana.Signature, error) {
	log := t.log.WithFields(logrus.Fields{
		"method": "Submit",
		"layer":  layer.String(),
	})

	client, err := t.client(ctx, layer)
	if err != nil {
		return solana.Signature{}, err
	}

	payer := signer.Public().(ed25519.PublicKey)

	ixns := make([]solana.Instruction, 0, len(t.budget)+len(instructions))
	ixns = append(ixns, t.budget...)
	ixns = append(ixns, instructions...)

	txn := solana.NewTransaction(payer, ixns...)

	blockhash, err := client.GetLatestBlockhash(ctx)
	if err != nil {
		log.WithError(err).Warn("failure getting recent blockhash")
		return solana.Signature{}, wrapTransportError(err, "failed to get recent blockhash")
	}
	txn.SetBlockhash(blockhash)

	if err := txn.Sign(signer); err != nil {
		return solana.Signature{}, errors.Wrap(err, "failed to sign transaction")
	}

	if size := len(txn.Marshal()); size > solana.MaxTransactionSize {
		return solana.Signature{}, errors.Errorf("transaction is %d bytes, max is %d", size, solana.MaxTransactionSize)
	}

	sig, err := client.SubmitTransaction(ctx, txn, t.commitment)
	log = log.WithField("signature", base58.Encode(sig[:]))
	if err != nil {
		log.WithError(err).Warn("failure submitting transaction")
		return sig, wrapTransportError(err, "failed to submit transaction")
	}

	status, err := client.GetSignatureStatus(ctx, sig, t.commitment)
	if err != nil {
		log.WithError(err).Warn("failure confirming transaction")
		return sig, wrapTransportError(err, "failed to confirm transaction")
	}

	log.WithField("slot", status.Slot).Debug("transaction confirmed")
	return sig, nil
}

// ReadAccountBytes implements Transport.ReadAccountBytes.
func (t *RPCTransport) ReadAccountBytes(ctx context.Context, address ed25519.PublicKey, layer Layer) ([]byte, error) {
	client, err := t.client(ctx, layer)
	if err != nil {
		return nil, err
	}

	info, err := client.GetAccountInfo(ctx, address, t.commitment)
	if err == solana.ErrNoAccountInfo {
		return nil, errors.Wrapf(ErrAccountNotFound, "%s on %s layer", base58.Encode(address), layer)
	} else if err != nil {
		t.log.WithError(err).WithFields(logrus.Fields{
			"method":  "ReadAccountBytes",
			"layer":   layer.String(),
			"address": base58.Encode(address),
		}).Warn("failure getting account info")
		return nil, wrapTransportError(err, "failed to get account info")
	}

	return info.Data, nil
}

// transportError keeps the underlying cause reachable next to ErrTransport,
// so callers can inspect a *solana.TransactionError as well.
type transportError struct {
	msg   string
	cause error
}

func wrapTransportError(err error, msg string) error {
	return &transportError{msg: msg, cause: err}
}

func (e *transportError) Error() string {
	return e.msg + ": " + ErrTransport.Error() + ": " + e.cause.Error()
}

func (e *transportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *transportError) Unwrap() error {
	return e.cause
}

func (e *transportError) Cause() error {
	return e.cause
}
