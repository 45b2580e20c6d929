package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/code-payments/mojo-sdk/pkg/mojo"
	"github.com/code-payments/mojo-sdk/pkg/solana"
	mojo_program "github.com/code-payments/mojo-sdk/pkg/solana/mojo"
)

var encodeCmd = &cli.Command{
	Name:  "encode",
	Usage: "Print an encoded world program instruction",
	Subcommands: []*cli.Command{
		encodeCreateCmd,
		encodeDelegateCmd,
		encodeWriteCmd,
		encodeCommitCmd,
		encodeUndelegateCmd,
	},
}

// stateFlags identify a state account by its payer/owner, world and name.
func stateFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		keyFlag("payer", "fee payer and account owner"),
		keyFlag("world", "world account"),
		nameFlag(),
	}, extra...)
}

// stateAccount resolves the state account named by the command's flags and
// places it in the given lifecycle state.
func stateAccount(cctx *cli.Context, env *mojo.Environment, state mojo.DelegationState) (*mojo.DelegatedAccount, error) {
	payer, err := publicKeyArg(cctx, "payer")
	if err != nil {
		return nil, err
	}
	world, err := publicKeyArg(cctx, "world")
	if err != nil {
		return nil, err
	}

	seed := mojo_program.StateSeedHash(world, cctx.String("name"), payer)
	address, _, err := mojo_program.GetAddressForSeed(env.WorldProgram, seed, payer)
	if err != nil {
		return nil, err
	}

	return mojo.RestoreDelegatedAccount(env, address, payer, seed, state), nil
}

var encodeCreateCmd = &cli.Command{
	Name:  "create",
	Usage: "Encode CreateAccount for a world, or for a state when --world is set",
	Flags: []cli.Flag{
		keyFlag("payer", "fee payer and account owner"),
		nameFlag(),
		&cli.StringFlag{
			Name:  "world",
			Usage: "world account (base58); creates a state account when set",
		},
		payloadFlag(),
	},
	Action: func(cctx *cli.Context) error {
		env, err := loadEnvironment(cctx)
		if err != nil {
			return err
		}

		payer, err := publicKeyArg(cctx, "payer")
		if err != nil {
			return err
		}
		payload, err := payloadArg(cctx)
		if err != nil {
			return err
		}

		var seed mojo_program.SeedHash
		if cctx.IsSet("world") {
			world, err := publicKeyArg(cctx, "world")
			if err != nil {
				return err
			}
			seed = mojo_program.StateSeedHash(world, cctx.String("name"), payer)
		} else {
			if len(payload) > 0 {
				return errors.New("--payload is only valid for state accounts")
			}
			seed = mojo_program.WorldSeedHash(payer, cctx.String("name"))
			record := &mojo_program.WorldAccountRecord{Creator: payer, Seed: seed}
			payload = record.Marshal()
		}

		address, _, err := mojo_program.GetAddressForSeed(env.WorldProgram, seed, payer)
		if err != nil {
			return err
		}

		ixn := mojo_program.NewCreateAccountInstruction(
			env.WorldProgram,
			&mojo_program.CreateAccountInstructionAccounts{
				Payer:         payer,
				NewAccount:    address,
				SystemProgram: env.SystemProgram,
				RentSysvar:    env.RentSysvar,
			},
			&mojo_program.CreateAccountInstructionArgs{
				Seed:    seed,
				Payload: payload,
			},
		)
		printInstruction(cctx.App.Writer, ixn, mojo.LayerBase)
		return nil
	},
}

var encodeDelegateCmd = &cli.Command{
	Name:  "delegate",
	Usage: "Encode DelegateAccount for a state account",
	Flags: stateFlags(payloadFlag()),
	Action: func(cctx *cli.Context) error {
		env, err := loadEnvironment(cctx)
		if err != nil {
			return err
		}
		account, err := stateAccount(cctx, env, mojo.Undelegated)
		if err != nil {
			return err
		}
		payload, err := payloadArg(cctx)
		if err != nil {
			return err
		}

		ixn, err := account.Delegate(account.Owner, payload)
		if err != nil {
			return err
		}
		printInstruction(cctx.App.Writer, ixn, mojo.LayerBase)
		return nil
	},
}

var encodeWriteCmd = &cli.Command{
	Name:  "write",
	Usage: "Encode UpdateDelegatedAccount for a state account",
	Flags: stateFlags(
		payloadFlag(),
		&cli.BoolFlag{
			Name:  "delegated",
			Usage: "encode the ephemeral layer variant",
		},
	),
	Action: func(cctx *cli.Context) error {
		env, err := loadEnvironment(cctx)
		if err != nil {
			return err
		}

		state := mojo.Undelegated
		if cctx.Bool("delegated") {
			state = mojo.Delegated
		}

		account, err := stateAccount(cctx, env, state)
		if err != nil {
			return err
		}
		payload, err := payloadArg(cctx)
		if err != nil {
			return err
		}

		ixn, layer, err := account.Write(account.Owner, payload)
		if err != nil {
			return err
		}
		printInstruction(cctx.App.Writer, ixn, layer)
		return nil
	},
}

var encodeCommitCmd = &cli.Command{
	Name:  "commit",
	Usage: "Encode Commit for a delegated state account",
	Flags: stateFlags(),
	Action: func(cctx *cli.Context) error {
		env, err := loadEnvironment(cctx)
		if err != nil {
			return err
		}
		account, err := stateAccount(cctx, env, mojo.Delegated)
		if err != nil {
			return err
		}

		ixn, err := account.Commit(account.Owner)
		if err != nil {
			return err
		}
		printInstruction(cctx.App.Writer, ixn, mojo.LayerEphemeral)
		return nil
	},
}

var encodeUndelegateCmd = &cli.Command{
	Name:  "undelegate",
	Usage: "Encode UndelegateAccount for a delegated state account",
	Flags: stateFlags(),
	Action: func(cctx *cli.Context) error {
		env, err := loadEnvironment(cctx)
		if err != nil {
			return err
		}
		account, err := stateAccount(cctx, env, mojo.Delegated)
		if err != nil {
			return err
		}

		ixn, err := account.Undelegate(account.Owner)
		if err != nil {
			return err
		}
		printInstruction(cctx.App.Writer, ixn, mojo.LayerEphemeral)
		return nil
	},
}

func printInstruction(w io.Writer, ixn solana.Instruction, layer mojo.Layer) {
	fmt.Fprintf(w, "program: %s\n", base58.Encode(ixn.Program))
	fmt.Fprintf(w, "layer:   %s\n", layer)
	fmt.Fprintln(w, "accounts:")
	for i, account := range ixn.Accounts {
		fmt.Fprintf(w, "  %d: %s\n", i, account)
	}
	fmt.Fprintf(w, "data:    %s\n", hex.EncodeToString(ixn.Data))
}
