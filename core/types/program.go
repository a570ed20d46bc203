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

// Package types contains data types related to the program catalog.
package types

import (
	"errors"
	"fmt"
	"strings"
)

// ProgramSuffix is the namespace suffix carried by every deployed program id.
const ProgramSuffix = ".aleo"

var (
	// ErrInvalidProgramID is returned when a program id does not carry the
	// network namespace suffix.
	ErrInvalidProgramID = errors.New("invalid program id")
)

// ProgramID is the globally unique, case-sensitive identifier of a deployed
// program. It is immutable once assigned on chain.
type ProgramID string

// Name returns the bare program name, i.e. the id without its namespace
// suffix. The compiler expects the bare name, not the full id.
func (id ProgramID) Name() string {
	return strings.TrimSuffix(string(id), ProgramSuffix)
}

// Validate checks that the id is non-empty and namespaced.
func (id ProgramID) Validate() error {
	if len(id) <= len(ProgramSuffix) || !strings.HasSuffix(string(id), ProgramSuffix) {
		return fmt.Errorf("%w: %q", ErrInvalidProgramID, id)
	}
	return nil
}

// String implements the fmt.Stringer interface.
func (id ProgramID) String() string {
	return string(id)
}

// Program is the on-chain record of a deployed program as seen by the
// explorer. The bytecode is the canonical compiled representation written by
// the chain indexer; this package never mutates it.
type Program struct {
	ID       ProgramID   `json:"id"`
	Bytecode []byte      `json:"bytecode"`
	Imports  []ProgramID `json:"imports,omitempty"`
	Builtin  bool        `json:"builtin,omitempty"`

	// Height is the block height the deployment was confirmed at. Zero for
	// built-in programs, which exist from genesis.
	Height uint64 `json:"height,omitempty"`
}

// SourceRecord binds a verified source text to a program id. At most one
// record exists per program; creation is a one-time transition and there is
// no update or delete path.
type SourceRecord struct {
	ID     ProgramID `json:"id"`
	Source string    `json:"source"`

	// CommittedAt is the unix timestamp of the winning commit.
	CommittedAt uint64 `json:"committedAt"`
}
