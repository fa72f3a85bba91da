// @title                       audiovault API
// @version                     1.0
// @description                 Multi-user audio library: uploads, playlists and cascading deletes.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"fmt"
	"os"

	_ "audiovault/docs"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "audiovault",
		Usage: "Multi-user audio library backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Directory holding config.yml",
				Value:   "configs",
				Sources: cli.EnvVars("AUDIOVAULT_CONFIG_DIR"),
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:  "seed",
				Usage: "Create bootstrap users from a YAML file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "file",
						Usage: "Users file; defaults to bootstrap.users_file",
					},
				},
				Action: seed,
			},
			{
				Name:   "sweep",
				Usage:  "Remove blobs and folders the database no longer references",
				Action: sweep,
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "audiovault:", err)
		os.Exit(1)
	}
}
