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

package verify

import (
	"errors"
	"fmt"

	"github.com/aleoscan/aleoscan/core/types"
)

// The closed set of verification outcomes surfaced to callers. Anything else
// coming out of this package is a programming error.
var (
	// ErrNotFound is returned when the program id is unknown on chain.
	ErrNotFound = errors.New("program not found")

	// ErrBytecodeMismatch is returned when the submitted source compiled
	// cleanly but to different bytecode than recorded on chain. Definitive:
	// the same source will always recompile to the same result.
	ErrBytecodeMismatch = errors.New("compiled bytecode does not match chain record")

	// ErrAlreadyCommitted is returned when a different source is submitted
	// for a program whose record is already committed.
	ErrAlreadyCommitted = errors.New("source already committed")
)

// MissingImportError is returned when a non-built-in import has no verified
// source yet. Imports must be verified before their dependents.
type MissingImportError struct {
	Import types.ProgramID
}

func (e *MissingImportError) Error() string {
	return fmt.Sprintf("missing import source: %s", e.Import)
}

// CyclicImportError is returned when the import walk revisits a program
// already on the current resolution path. The chain never records such a
// graph, so hitting one means the local index is corrupt.
type CyclicImportError struct {
	Import types.ProgramID
}

func (e *CyclicImportError) Error() string {
	return fmt.Sprintf("cyclic import: %s", e.Import)
}

// CompileError is returned when the compiler rejected the submitted source.
// Message is sanitized and bounded before it reaches storage or display.
type CompileError struct {
	Message string
}

func (e *CompileError) Error() string {
	return "compile failed: " + e.Message
}
