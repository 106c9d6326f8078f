package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/tdex-network/tdex-signer/internal/infrastructure/entropy"
	"github.com/tdex-network/tdex-signer/pkg/wallet"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

var initseed = cli.Command{
	Name:  "init",
	Usage: "encrypt the mnemonic of the signer and store it in the daemon datadir",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "password",
			Usage: "the password used to encrypt the mnemonic, prompted if missing",
		},
		&cli.StringFlag{
			Name:  "mnemonic",
			Usage: "the mnemonic seed of the signer, a new one is generated if missing",
		},
		&cli.StringFlag{
			Name:  "datadir",
			Usage: "the datadir of signerd",
			Value: btcutil.AppDataDir("tdex-signer", false),
		},
	},
	Action: initSeedAction,
}

func initSeedAction(ctx *cli.Context) error {
	datadir := ctx.String("datadir")
	if len(datadir) <= 0 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	mnemonic := ctx.String("mnemonic")
	generated := len(mnemonic) <= 0
	if generated {
		var err error
		if mnemonic, err = wallet.NewMnemonic(wallet.NewMnemonicOpts{}); err != nil {
			return err
		}
	}
	if !wallet.IsMnemonicValid(mnemonic) {
		return wallet.ErrInvalidMnemonic
	}

	password := ctx.String("password")
	if len(password) <= 0 {
		var err error
		if password, err = readPassword(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(datadir, os.ModeDir|0755); err != nil {
		return err
	}
	seedPath := filepath.Join(datadir, entropy.SeedFilename)
	if err := entropy.WriteSeedFile(seedPath, mnemonic, password); err != nil {
		return err
	}

	if generated {
		fmt.Println()
		fmt.Println("Write down the mnemonic of the signer:")
		fmt.Println(mnemonic)
	}
	fmt.Println()
	fmt.Printf("Seed stored in %s\n", seedPath)
	return nil
}

func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("missing password")
	}

	fmt.Print("password: ")
	password, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	fmt.Print("confirm password: ")
	confirm, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}

	if string(password) != string(confirm) {
		return "", errors.New("passwords do not match")
	}
	if len(password) <= 0 {
		return "", errors.New("missing password")
	}
	return string(password), nil
}
