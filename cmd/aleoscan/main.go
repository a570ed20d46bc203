// Copyright 2025 The aleoscan Authors
// This file is part of aleoscan.
//
// aleoscan is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// aleoscan is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with aleoscan. If not, see <http://www.gnu.org/licenses/>.

// aleoscan is the explorer-core command line tool: it maintains the local
// program database, verifies submitted source against on-chain bytecode and
// answers similarity queries.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/aleoscan/aleoscan/log"
)

var (
	app = &cli.App{
		Name:    "aleoscan",
		Usage:   "the aleoscan explorer core tool",
		Version: version,
		Flags: []cli.Flag{
			configFileFlag,
			dataDirFlag,
			dbEngineFlag,
			cacheFlag,
			verbosityFlag,
		},
		Commands: []*cli.Command{
			verifyCommand,
			similarCommand,
			programsCommand,
			ingestCommand,
		},
		Before: func(ctx *cli.Context) error {
			return setupLogging(ctx)
		},
	}

	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	dataDirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "Data directory for the program database",
	}
	dbEngineFlag = &cli.StringFlag{
		Name:  "db.engine",
		Usage: `Backing database implementation to use ("leveldb" or "pebble")`,
	}
	cacheFlag = &cli.IntFlag{
		Name:  "cache",
		Usage: "Megabytes of memory allocated to database caching",
		Value: 128,
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: 3,
	}
)

const version = "1.0.0"

func setupLogging(ctx *cli.Context) error {
	useColor := isatty.IsTerminal(os.Stderr.Fd()) && os.Getenv("TERM") != "dumb"
	level := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, level, useColor)
	log.SetDefault(log.NewLogger(handler))
	return nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
