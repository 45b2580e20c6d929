package mojo

import (
	"context"
	"crypto/ed25519"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/code-payments/mojo-sdk/pkg/cache"
	"github.com/code-payments/mojo-sdk/pkg/solana"
	mojo_program "github.com/code-payments/mojo-sdk/pkg/solana/mojo"
	"github.com/code-payments/mojo-sdk/pkg/sync"
)

const (
	accountLockStripes = 64

	// maxConcurrentReads bounds the fan-out of ReadWorldStates.
	maxConcurrentReads = 8
)

// World creates, writes and reads world program accounts through a
// Transport. Operations on the same account address are serialized.
type World struct {
	log       *logrus.Entry
	env       *Environment
	transport Transport

	addresses cache.Cache
	locks     *sync.StripedLock
}

// NewWorld returns a World client for env.
func NewWorld(env *Environment, transport Transport) *World {
	w := &World{
		log:       logrus.StandardLogger().WithField("type", "mojo/world"),
		env:       env,
		transport: transport,
		locks:     sync.NewStripedLock(accountLockStripes),
	}
	if env.AddressCacheSize > 0 {
		w.addresses = cache.New(env.AddressCacheSize)
	}
	return w
}

// WorldAddress returns the world account address and seed for owner's world
// called name.
func (w *World) WorldAddress(owner ed25519.PublicKey, name string) (ed25519.PublicKey, mojo_program.SeedHash, error) {
	seed := mojo_program.WorldSeedHash(owner, name)
	address, err := w.addressForSeed(seed, owner)
	return address, seed, err
}

// StateAddress returns the state account address and seed for a named state
// within world.
func (w *World) StateAddress(world, owner ed25519.PublicKey, name string) (ed25519.PublicKey, mojo_program.SeedHash, error) {
	seed := mojo_program.StateSeedHash(world, name, owner)
	address, err := w.addressForSeed(seed, owner)
	return address, seed, err
}

func (w *World) addressForSeed(seed mojo_program.SeedHash, owner ed25519.PublicKey) (ed25519.PublicKey, error) {
	var key string
	if w.addresses != nil {
		key = string(seed[:]) + string(owner)
		if cached, ok := w.addresses.Retrieve(key); ok {
			return cached.(ed25519.PublicKey), nil
		}
	}

	address, _, err := mojo_program.GetAddressForSeed(w.env.WorldProgram, seed, owner)
	if err != nil {
		return nil, err
	}

	if w.addresses != nil {
		w.addresses.Insert(key, address, 1)
	}
	return address, nil
}

// CreateWorld creates the world account for payer and name on the base layer.
// The account is initialized with a WorldAccountRecord.
func (w *World) CreateWorld(ctx context.Context, payer ed25519.PrivateKey, name string) (ed25519.PublicKey, solana.Signature, error) {
	owner := payer.Public().(ed25519.PublicKey)

	log := w.log.WithFields(logrus.Fields{
		"method": "CreateWorld",
		"owner":  base58.Encode(owner),
		"name":   name,
	})

	address, seed, err := w.WorldAddress(owner, name)
	if err != nil {
		return nil, solana.Signature{}, newError(mojo_program.InstructionTypeCreateAccount, nil, Undelegated, err)
	}
	log = log.WithField("address", base58.Encode(address))

	record := &mojo_program.WorldAccountRecord{
		Creator: owner,
		Seed:    seed,
	}

	ixn := mojo_program.NewCreateAccountInstruction(
		w.env.WorldProgram,
		&mojo_program.CreateAccountInstructionAccounts{
			Payer:         owner,
			NewAccount:    address,
			SystemProgram: w.env.SystemProgram,
			RentSysvar:    w.env.RentSysvar,
		},
		&mojo_program.CreateAccountInstructionArgs{
			Seed:    seed,
			Payload: record.Marshal(),
		},
	)

	unlock := w.locks.Lock(address)
	defer unlock()

	sig, err := w.transport.Submit(ctx, payer, []solana.Instruction{ixn}, LayerBase)
	if err != nil {
		log.WithError(err).Warn("failure creating world")
		return address, sig, newError(mojo_program.InstructionTypeCreateAccount, address, Undelegated, err)
	}

	log.Debug("world created")
	return address, sig, nil
}

// CreateState creates a state account within world, initialized with initial,
// and delegates it to the ephemeral layer. Both steps run on the base layer.
//
// On success the returned account is Delegated. If the delegation step fails,
// the returned account is non-nil and left Delegating. Once the caller knows
// the delegate transaction did not land, AbortDelegation followed by
// DelegateState retries it without re-creating the account.
func (w *World) CreateState(ctx context.Context, payer ed25519.PrivateKey, world ed25519.PublicKey, name string, initial State) (*DelegatedAccount, error) {
	owner := payer.Public().(ed25519.PublicKey)

	log := w.log.WithFields(logrus.Fields{
		"method": "CreateState",
		"owner":  base58.Encode(owner),
		"world":  base58.Encode(world),
		"name":   name,
	})

	address, seed, err := w.StateAddress(world, owner, name)
	if err != nil {
		return nil, newError(mojo_program.InstructionTypeCreateAccount, nil, Undelegated, err)
	}
	log = log.WithField("address", base58.Encode(address))

	payload, err := encodeState(initial)
	if err != nil {
		return nil, newError(mojo_program.InstructionTypeCreateAccount, address, Undelegated, err)
	}

	unlock := w.locks.Lock(address)
	defer unlock()

	create := mojo_program.NewCreateAccountInstruction(
		w.env.WorldProgram,
		&mojo_program.CreateAccountInstructionAccounts{
			Payer:         owner,
			NewAccount:    address,
			SystemProgram: w.env.SystemProgram,
			RentSysvar:    w.env.RentSysvar,
		},
		&mojo_program.CreateAccountInstructionArgs{
			Seed:    seed,
			Payload: payload,
		},
	)
	if _, err := w.transport.Submit(ctx, payer, []solana.Instruction{create}, LayerBase); err != nil {
		log.WithError(err).Warn("failure creating state account")
		return nil, newError(mojo_program.InstructionTypeCreateAccount, address, Undelegated, err)
	}

	account := NewDelegatedAccount(w.env, address, owner, seed)
	if _, err := w.delegate(ctx, payer, account, payload); err != nil {
		return account, err
	}

	log.Debug("state created and delegated")
	return account, nil
}

// DelegateState hands an Undelegated account to the ephemeral layer, staging
// initial as its delegated contents. On success the account is Delegated. If
// submission fails the account stays Delegating.
func (w *World) DelegateState(ctx context.Context, payer ed25519.PrivateKey, account *DelegatedAccount, initial State) (solana.Signature, error) {
	unlock := w.locks.Lock(account.Address)
	defer unlock()

	payload, err := encodeState(initial)
	if err != nil {
		return solana.Signature{}, newError(mojo_program.InstructionTypeDelegateAccount, account.Address, account.State(), err)
	}
	return w.delegate(ctx, payer, account, payload)
}

// delegate submits DelegateAccount for account. The caller holds the account's
// lock.
func (w *World) delegate(ctx context.Context, payer ed25519.PrivateKey, account *DelegatedAccount, payload []byte) (solana.Signature, error) {
	ixn, err := account.Delegate(payer.Public().(ed25519.PublicKey), payload)
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := w.transport.Submit(ctx, payer, []solana.Instruction{ixn}, LayerBase)
	if err != nil {
		w.log.WithError(err).WithFields(logrus.Fields{
			"method":  "DelegateState",
			"address": base58.Encode(account.Address),
		}).Warn("failure delegating state account")
		return sig, newError(mojo_program.InstructionTypeDelegateAccount, account.Address, account.State(), err)
	}
	if err := account.ConfirmDelegated(); err != nil {
		return sig, err
	}
	return sig, nil
}

// WriteState overwrites the account with state. Delegated accounts are
// written on the ephemeral layer and undelegated accounts on the base layer.
// Accounts in transition are rejected with ErrInvalidLifecycleTransition.
func (w *World) WriteState(ctx context.Context, payer ed25519.PrivateKey, account *DelegatedAccount, state State) (solana.Signature, error) {
	unlock := w.locks.Lock(account.Address)
	defer unlock()

	payload, err := encodeState(state)
	if err != nil {
		return solana.Signature{}, newError(mojo_program.InstructionTypeUpdateDelegatedAccount, account.Address, account.State(), err)
	}

	ixn, layer, err := account.Write(payer.Public().(ed25519.PublicKey), payload)
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := w.transport.Submit(ctx, payer, []solana.Instruction{ixn}, layer)
	if err != nil {
		w.log.WithError(err).WithFields(logrus.Fields{
			"method":  "WriteState",
			"address": base58.Encode(account.Address),
			"layer":   layer.String(),
		}).Warn("failure writing state")
		return sig, newError(mojo_program.InstructionTypeUpdateDelegatedAccount, account.Address, account.State(), err)
	}
	return sig, nil
}

// CommitState schedules a commit of a delegated account's ephemeral state to
// the base layer. The account remains delegated.
func (w *World) CommitState(ctx context.Context, payer ed25519.PrivateKey, account *DelegatedAccount) (solana.Signature, error) {
	unlock := w.locks.Lock(account.Address)
	defer unlock()

	ixn, err := account.Commit(payer.Public().(ed25519.PublicKey))
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := w.transport.Submit(ctx, payer, []solana.Instruction{ixn}, LayerEphemeral)
	if err != nil {
		w.log.WithError(err).WithFields(logrus.Fields{
			"method":  "CommitState",
			"address": base58.Encode(account.Address),
		}).Warn("failure committing state")
		return sig, newError(mojo_program.InstructionTypeCommit, account.Address, account.State(), err)
	}
	return sig, nil
}

// UndelegateState commits the final ephemeral state and returns the account
// to the base layer. On success the account is Undelegated. If submission
// fails the account stays Undelegating; AbortUndelegation makes it Delegated
// again so the call can be retried.
func (w *World) UndelegateState(ctx context.Context, payer ed25519.PrivateKey, account *DelegatedAccount) (solana.Signature, error) {
	unlock := w.locks.Lock(account.Address)
	defer unlock()

	ixn, err := account.Undelegate(payer.Public().(ed25519.PublicKey))
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := w.transport.Submit(ctx, payer, []solana.Instruction{ixn}, LayerEphemeral)
	if err != nil {
		w.log.WithError(err).WithFields(logrus.Fields{
			"method":  "UndelegateState",
			"address": base58.Encode(account.Address),
		}).Warn("failure undelegating state")
		return sig, newError(mojo_program.InstructionTypeUndelegateAccount, account.Address, account.State(), err)
	}

	if err := account.ConfirmUndelegated(); err != nil {
		return sig, err
	}
	return sig, nil
}

// ReadState decodes the state held at address on layer into dst. Accounts
// larger than dst are accepted and only the leading bytes are decoded.
func (w *World) ReadState(ctx context.Context, address ed25519.PublicKey, layer Layer, dst State) error {
	data, err := w.transport.ReadAccountBytes(ctx, address, layer)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", base58.Encode(address))
	}
	return decodeState(data, dst)
}

// ReadWorld reads the record a world account was created with.
func (w *World) ReadWorld(ctx context.Context, address ed25519.PublicKey) (*mojo_program.WorldAccountRecord, error) {
	data, err := w.transport.ReadAccountBytes(ctx, address, LayerBase)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", base58.Encode(address))
	}

	var record mojo_program.WorldAccountRecord
	if err := record.Unmarshal(data); err != nil {
		return nil, err
	}
	return &record, nil
}

// ReadWorldStates reads several named states of owner's world from the
// ephemeral layer concurrently. newState returns an empty State for a name.
// The first failure cancels the remaining reads.
func (w *World) ReadWorldStates(
	ctx context.Context,
	world, owner ed25519.PublicKey,
	names []string,
	newState func(name string) State,
) (map[string]State, error) {
	addresses := make([]ed25519.PublicKey, len(names))
	for i, name := range names {
		address, _, err := w.StateAddress(world, owner, name)
		if err != nil {
			return nil, errors.Wrapf(err, "state %q", name)
		}
		addresses[i] = address
	}

	results := make([]State, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)

	for i, name := range names {
		i, name, address := i, name, addresses[i]

		g.Go(func() error {
			dst := newState(name)
			if err := w.ReadState(ctx, address, LayerEphemeral, dst); err != nil {
				return errors.Wrapf(err, "state %q", name)
			}
			results[i] = dst
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		w.log.WithError(err).WithFields(logrus.Fields{
			"method": "ReadWorldStates",
			"world":  base58.Encode(world),
			"names":  strings.Join(names, ","),
		}).Warn("failure reading world states")
		return nil, err
	}

	res := make(map[string]State, len(names))
	for i, name := range names {
		res[name] = results[i]
	}
	return res, nil
}
