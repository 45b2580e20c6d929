package main

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/code-payments/mojo-sdk/pkg/solana"
	mojo_program "github.com/code-payments/mojo-sdk/pkg/solana/mojo"
)

var decodeCmd = &cli.Command{
	Name:  "decode",
	Usage: "Decode world program instructions and accounts",
	Subcommands: []*cli.Command{
		decodeInstructionCmd,
		decodeTransactionCmd,
		decodeWorldCmd,
	},
}

func hexArg(cctx *cli.Context) ([]byte, error) {
	if cctx.NArg() != 1 {
		return nil, errors.New("expected a single hex encoded argument")
	}
	decoded, err := hex.DecodeString(cctx.Args().First())
	if err != nil {
		return nil, errors.Wrap(err, "invalid hex")
	}
	return decoded, nil
}

var decodeInstructionCmd = &cli.Command{
	Name:      "instruction",
	Usage:     "Decode instruction data",
	ArgsUsage: "<hex>",
	Action: func(cctx *cli.Context) error {
		data, err := hexArg(cctx)
		if err != nil {
			return err
		}

		decoded, err := mojo_program.DecodeInstructionData(data)
		if err != nil {
			return err
		}

		w := cctx.App.Writer
		fmt.Fprintf(w, "type:    %s\n", decoded.Type)
		fmt.Fprintf(w, "seed:    %x\n", decoded.Seed[:])
		fmt.Fprintf(w, "payload: %x\n", decoded.Payload)
		return nil
	},
}

var decodeTransactionCmd = &cli.Command{
	Name:      "transaction",
	Usage:     "Decode every world program instruction in a serialized transaction",
	ArgsUsage: "<hex>",
	Action: func(cctx *cli.Context) error {
		env, err := loadEnvironment(cctx)
		if err != nil {
			return err
		}

		data, err := hexArg(cctx)
		if err != nil {
			return err
		}

		var txn solana.Transaction
		if err := txn.Unmarshal(data); err != nil {
			return errors.Wrap(err, "invalid transaction")
		}

		w := cctx.App.Writer
		var found int
		for i, compiled := range txn.Message.Instructions {
			if int(compiled.ProgramIndex) >= len(txn.Message.Accounts) {
				return errors.Errorf("instruction %d: program index out of range", i)
			}
			if !bytes.Equal(txn.Message.Accounts[compiled.ProgramIndex], env.WorldProgram) {
				continue
			}

			decoded, err := mojo_program.DecompileInstruction(env.WorldProgram, txn.Message, i)
			if err != nil {
				return errors.Wrapf(err, "instruction %d", i)
			}

			found++
			fmt.Fprintf(w, "instruction %d: %s seed=%x payload=%x\n", i, decoded.Type, decoded.Seed[:], decoded.Payload)
			for j, account := range decoded.Accounts {
				fmt.Fprintf(w, "  %d: %s\n", j, account)
			}
		}

		if found == 0 {
			return errors.New("no world program instructions found")
		}
		return nil
	},
}

var decodeWorldCmd = &cli.Command{
	Name:      "world",
	Usage:     "Decode world account data",
	ArgsUsage: "<hex>",
	Action: func(cctx *cli.Context) error {
		data, err := hexArg(cctx)
		if err != nil {
			return err
		}

		var account mojo_program.WorldAccount
		if err := account.Unmarshal(data); err != nil {
			return err
		}
		fmt.Fprintln(cctx.App.Writer, account.String())

		var record mojo_program.WorldAccountRecord
		if err := record.Unmarshal(account.Data); err == nil {
			fmt.Fprintln(cctx.App.Writer, record.String())
		}
		return nil
	},
}
