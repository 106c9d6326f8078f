package main

import (
	"fmt"

	"github.com/tdex-network/tdex-signer/pkg/wallet"
	"github.com/urfave/cli/v2"
)

var genseed = cli.Command{
	Name:  "genseed",
	Usage: "generate a mnemonic seed",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "entropy-size",
			Usage: "the size in bits of the mnemonic entropy, a multiple of 32 between 128 and 256",
			Value: 256,
		},
	},
	Action: genSeedAction,
}

func genSeedAction(ctx *cli.Context) error {
	mnemonic, err := wallet.NewMnemonic(wallet.NewMnemonicOpts{
		EntropySize: ctx.Int("entropy-size"),
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(mnemonic)

	return nil
}
