package main

import (
	"crypto/ed25519"
	"encoding/hex"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func keyFlag(name, usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     name,
		Usage:    usage + " (base58)",
		Required: true,
	}
}

func nameFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "name",
		Usage:    "world or state name",
		Required: true,
	}
}

func payloadFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "payload",
		Usage: "hex encoded payload",
	}
}

func publicKeyArg(cctx *cli.Context, name string) (ed25519.PublicKey, error) {
	decoded, err := base58.Decode(cctx.String(name))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid --%s", name)
	}
	if len(decoded) != ed25519.PublicKeySize {
		return nil, errors.Errorf("invalid --%s: expected %d bytes, got %d", name, ed25519.PublicKeySize, len(decoded))
	}
	return decoded, nil
}

func payloadArg(cctx *cli.Context) ([]byte, error) {
	payload, err := hex.DecodeString(cctx.String("payload"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid --payload")
	}
	return payload, nil
}
