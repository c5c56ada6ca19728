package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/filevault/cmd/app/commands"
	"github.com/allisson/filevault/internal/app"
	"github.com/allisson/filevault/internal/config"
	cryptoService "github.com/allisson/filevault/internal/crypto/service"
)

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-keypair",
			Usage: "Generate an RSA-OAEP key pair for exchanging short secrets",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateKeyPair(
					ctx,
					container.KeyExchangeUseCase(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "hash-token",
			Usage: "Hash an API bearer token for API_TOKEN_HASH",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "token",
					Aliases: []string{"t"},
					Usage:   "Token to hash (omit to generate one)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunHashToken(
					cryptoService.NewTokenService(),
					commands.DefaultIO().Writer,
					cmd.String("token"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "checksum",
			Usage: "Print the SHA-256 checksum of a file",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "file",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "File to hash ('-' reads stdin)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				tuple := commands.DefaultIO()
				return commands.RunChecksum(tuple.Reader, tuple.Writer, cmd.String("file"))
			},
		},
	}
}
