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

package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"

	"github.com/aleoscan/aleoscan/core/rawdb"
	"github.com/aleoscan/aleoscan/core/types"
	"github.com/aleoscan/aleoscan/progdb"
)

// config collects the tool's settings. Flags override file values.
type config struct {
	DataDir  string
	DBEngine string
	Cache    int
	Handles  int
	Builtins []string
}

func defaultConfig() config {
	return config{
		Cache:    128,
		Handles:  512,
		Builtins: []string{"credits.aleo"},
	}
}

// tomlSettings ensures that TOML keys use the same names as Go struct fields
// and that unknown keys surface as errors instead of being dropped silently.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		id := fmt.Sprintf("%s.%s", rt.String(), field)
		return fmt.Errorf("field '%s' is not defined in %s", field, id)
	},
}

func loadConfig(file string, cfg *config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(f).Decode(cfg)
	// Add file name to errors that have a line number.
	var decodeErr *toml.LineError
	if errors.As(err, &decodeErr) {
		err = fmt.Errorf("%v, %s", decodeErr, file)
	}
	return err
}

// makeConfig assembles the effective configuration from the defaults, the
// optional TOML file and the command line, in ascending priority.
func makeConfig(ctx *cli.Context) (config, error) {
	cfg := defaultConfig()
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}
	if ctx.IsSet(dataDirFlag.Name) {
		cfg.DataDir = ctx.String(dataDirFlag.Name)
	}
	if ctx.IsSet(dbEngineFlag.Name) {
		cfg.DBEngine = ctx.String(dbEngineFlag.Name)
	}
	if ctx.IsSet(cacheFlag.Name) {
		cfg.Cache = ctx.Int(cacheFlag.Name)
	}
	for _, builtin := range cfg.Builtins {
		if err := types.ProgramID(builtin).Validate(); err != nil {
			return cfg, fmt.Errorf("invalid builtin %q: %w", builtin, err)
		}
	}
	return cfg, nil
}

// openDatabase opens the program database named by the configuration.
func openDatabase(cfg config, readonly bool) (progdb.KeyValueStore, error) {
	if cfg.DataDir == "" {
		return nil, errors.New("no data directory configured (--datadir)")
	}
	return rawdb.Open(rawdb.OpenOptions{
		Type:      cfg.DBEngine,
		Directory: cfg.DataDir,
		Cache:     cfg.Cache,
		Handles:   cfg.Handles,
		ReadOnly:  readonly,
	})
}
