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
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/aleoscan/aleoscan/core/verify"
)

// toolchainCompiler drives the external language compiler. Each compilation
// gets a scratch project directory with the submitted source as the main
// program and the resolved imports alongside it, then runs the toolchain's
// build command and reads back the produced bytecode.
type toolchainCompiler struct {
	bin string // compiler binary, resolved from PATH when bare
}

func newToolchainCompiler(bin string) verify.Compiler {
	return &toolchainCompiler{bin: bin}
}

func (c *toolchainCompiler) Compile(ctx context.Context, source string, name string, imports []verify.ImportSource) ([]byte, error) {
	dir, err := os.MkdirTemp("", "aleoscan-build-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	if err := os.WriteFile(filepath.Join(dir, "main.leo"), []byte(source), 0600); err != nil {
		return nil, err
	}
	importDir := filepath.Join(dir, "imports")
	if err := os.Mkdir(importDir, 0700); err != nil {
		return nil, err
	}
	for _, imp := range imports {
		if err := os.WriteFile(filepath.Join(importDir, imp.Name+".leo"), []byte(imp.Source), 0600); err != nil {
			return nil, err
		}
	}
	cmd := exec.CommandContext(ctx, c.bin, "build", "--name", name, "--path", dir)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// The toolchain's diagnostic goes through as the compile error
		// message; the verifier bounds it before storage.
		if stderr.Len() > 0 {
			return nil, errors.New(stderr.String())
		}
		return nil, fmt.Errorf("compiler failed: %w", err)
	}
	out, err := os.ReadFile(filepath.Join(dir, "build", "main.aleo"))
	if err != nil {
		return nil, fmt.Errorf("compiler produced no output: %w", err)
	}
	return out, nil
}
