// Copyright 2025 The aleoscan Authors
// This file is part of the aleoscan library.
//
// The aleoscan library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The aleoscan library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the aleoscan library. If not, see <http://www.gnu.org/licenses/>.

// Package verify proves that submitted source code corresponds to a
// program's on-chain bytecode. Acceptance requires the compiled output to be
// byte-identical to the chain record; there is no fuzzy matching.
package verify

import (
	"context"

	"github.com/aleoscan/aleoscan/core/types"
)

// ImportSource pairs an import's bare name with its source text. Order
// matters: the compiler consumes imports positionally in declaration order.
type ImportSource struct {
	Name   string
	Source string
}

// Compiler abstracts the external language toolchain. Implementations may
// shell out to a real compiler; tests substitute a deterministic fake. The
// compiler is treated as an untrusted input producer, in particular its
// error messages are bounded before storage.
type Compiler interface {
	// Compile builds the given source under the bare program name with the
	// resolved import closure, returning canonical bytecode. A returned
	// error's text is the compiler's human-readable diagnostic.
	Compile(ctx context.Context, source string, name string, imports []ImportSource) ([]byte, error)
}

// ChainReader provides read access to the chain-indexed program records.
type ChainReader interface {
	// Program returns the on-chain record for the given id, or nil if the
	// program is unknown.
	Program(id types.ProgramID) *types.Program
}
