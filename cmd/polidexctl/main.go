// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Command polidexctl queries the record store from a terminal, using the
// same configuration and caches as the server.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"polidex/internal/app"
	"polidex/internal/config"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	// Logs go to stderr so stdout stays valid JSON.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	e := &env{out: os.Stdout, in: os.Stdin}
	cliApp := newCLIApp(e)

	var services *app.Services
	cliApp.Before = func(c *cli.Context) error {
		services, err = app.Open(c.Context, cfg)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		e.catalog = services.Catalog
		e.flush = services.FlushCaches
		return nil
	}
	cliApp.After = func(c *cli.Context) error {
		if services != nil {
			services.Close()
		}
		return nil
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
