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
	"github.com/aleoscan/aleoscan/core/rawdb"
	"github.com/aleoscan/aleoscan/core/types"
	"github.com/aleoscan/aleoscan/progdb"
)

// dbChainReader serves chain records out of the local raw database.
type dbChainReader struct {
	db progdb.KeyValueReader
}

// NewChainReader creates a ChainReader over the locally indexed chain data.
func NewChainReader(db progdb.KeyValueReader) ChainReader {
	return &dbChainReader{db: db}
}

func (r *dbChainReader) Program(id types.ProgramID) *types.Program {
	return rawdb.ReadProgram(r.db, id)
}
