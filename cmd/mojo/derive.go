package main

import (
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/urfave/cli/v2"

	"github.com/code-payments/mojo-sdk/pkg/solana/delegation"
	mojo_program "github.com/code-payments/mojo-sdk/pkg/solana/mojo"
)

var deriveCmd = &cli.Command{
	Name:  "derive",
	Usage: "Print derived account addresses",
	Subcommands: []*cli.Command{
		deriveWorldCmd,
		deriveStateCmd,
		deriveDelegationCmd,
	},
}

var deriveWorldCmd = &cli.Command{
	Name:  "world",
	Usage: "Derive a world account address",
	Flags: []cli.Flag{
		keyFlag("owner", "world owner"),
		nameFlag(),
	},
	Action: func(cctx *cli.Context) error {
		env, err := loadEnvironment(cctx)
		if err != nil {
			return err
		}

		owner, err := publicKeyArg(cctx, "owner")
		if err != nil {
			return err
		}

		seed := mojo_program.WorldSeedHash(owner, cctx.String("name"))
		address, bump, err := mojo_program.GetAddressForSeed(env.WorldProgram, seed, owner)
		if err != nil {
			return err
		}

		w := cctx.App.Writer
		fmt.Fprintf(w, "address: %s\n", base58.Encode(address))
		fmt.Fprintf(w, "bump:    %d\n", bump)
		fmt.Fprintf(w, "seed:    %x\n", seed[:])
		return nil
	},
}

var deriveStateCmd = &cli.Command{
	Name:  "state",
	Usage: "Derive a state account address",
	Flags: []cli.Flag{
		keyFlag("owner", "state owner"),
		keyFlag("world", "world account"),
		nameFlag(),
	},
	Action: func(cctx *cli.Context) error {
		env, err := loadEnvironment(cctx)
		if err != nil {
			return err
		}

		owner, err := publicKeyArg(cctx, "owner")
		if err != nil {
			return err
		}
		world, err := publicKeyArg(cctx, "world")
		if err != nil {
			return err
		}

		seed := mojo_program.StateSeedHash(world, cctx.String("name"), owner)
		address, bump, err := mojo_program.GetAddressForSeed(env.WorldProgram, seed, owner)
		if err != nil {
			return err
		}

		w := cctx.App.Writer
		fmt.Fprintf(w, "address: %s\n", base58.Encode(address))
		fmt.Fprintf(w, "bump:    %d\n", bump)
		fmt.Fprintf(w, "seed:    %x\n", seed[:])
		return nil
	},
}

var deriveDelegationCmd = &cli.Command{
	Name:  "delegation",
	Usage: "Derive the delegation side accounts of a delegated account",
	Flags: []cli.Flag{
		keyFlag("account", "delegated account"),
	},
	Action: func(cctx *cli.Context) error {
		env, err := loadEnvironment(cctx)
		if err != nil {
			return err
		}

		account, err := publicKeyArg(cctx, "account")
		if err != nil {
			return err
		}

		side, err := delegation.GetSideAccounts(&delegation.GetSideAccountAddressArgs{
			Program:          env.DelegationProgram,
			DelegatedAccount: account,
		})
		if err != nil {
			return err
		}

		w := cctx.App.Writer
		fmt.Fprintf(w, "buffer:              %s\n", base58.Encode(side.Buffer))
		fmt.Fprintf(w, "delegation_record:   %s\n", base58.Encode(side.DelegationRecord))
		fmt.Fprintf(w, "delegation_metadata: %s\n", base58.Encode(side.DelegationMetadata))
		fmt.Fprintf(w, "state_diff:          %s\n", base58.Encode(side.StateDiff))
		fmt.Fprintf(w, "commit_state_record: %s\n", base58.Encode(side.CommitStateRecord))
		return nil
	},
}
