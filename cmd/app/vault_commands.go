package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/filevault/cmd/app/commands"
	"github.com/allisson/filevault/internal/app"
	"github.com/allisson/filevault/internal/config"
)

func accountFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "account",
		Aliases:  []string{"a"},
		Required: true,
		Usage:    "Account whose vault is used",
	}
}

func getVaultCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "encrypt-file",
			Usage: "Encrypt a local file into the vault's object store",
			Flags: []cli.Flag{
				accountFlag(),
				&cli.StringFlag{
					Name:     "file",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "File to encrypt",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				vault, err := container.VaultUseCase()
				if err != nil {
					return err
				}
				files, err := container.FileUseCase()
				if err != nil {
					return err
				}

				password, err := commands.ReadPassword("Vault password: ")
				if err != nil {
					return err
				}

				return commands.RunEncryptFile(
					ctx,
					vault,
					files,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("account"),
					password,
					cmd.String("file"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "decrypt-file",
			Usage: "Decrypt an object from the vault's object store",
			Flags: []cli.Flag{
				accountFlag(),
				&cli.StringFlag{
					Name:     "object-id",
					Required: true,
					Usage:    "Object ID printed by encrypt-file",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Value:   "-",
					Usage:   "Destination file ('-' writes to stdout)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				vault, err := container.VaultUseCase()
				if err != nil {
					return err
				}
				files, err := container.FileUseCase()
				if err != nil {
					return err
				}

				password, err := commands.ReadPassword("Vault password: ")
				if err != nil {
					return err
				}

				return commands.RunDecryptFile(
					ctx,
					vault,
					files,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("account"),
					password,
					cmd.String("object-id"),
					cmd.String("output"),
				)
			},
		},
	}
}
