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
	"testing"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/aleoscan/aleoscan/core/rawdb"
	"github.com/aleoscan/aleoscan/core/source"
	"github.com/aleoscan/aleoscan/core/types"
)

// The compiler consumes imports positionally, so resolution must hand them
// over in declaration order, not alphabetical or map order.
func TestResolveDeclarationOrder(t *testing.T) {
	db := rawdb.NewMemoryDatabase()
	store := source.NewStore(db)
	chain := NewChainReader(db)

	for _, dep := range []types.ProgramID{"zeta.aleo", "alpha.aleo", "mid.aleo"} {
		rawdb.WriteProgram(db, &types.Program{ID: dep, Bytecode: []byte("bc")})
		store.TryCommit(dep, "source of "+string(dep))
	}
	rawdb.WriteProgram(db, &types.Program{
		ID:       "app.aleo",
		Bytecode: []byte("bc"),
		Imports:  []types.ProgramID{"zeta.aleo", "credits.aleo", "alpha.aleo", "mid.aleo"},
	})
	resolver := NewResolver(chain, store, nil)
	imports, err := resolver.Resolve("app.aleo")
	if err != nil {
		t.Fatalf("resolution failed: %v", err)
	}
	want := []string{"zeta", "credits", "alpha", "mid"}
	if len(imports) != len(want) {
		t.Fatalf("closure size mismatch: have %d, want %d", len(imports), len(want))
	}
	for i, imp := range imports {
		if imp.Name != want[i] {
			t.Fatalf("import %d: have %q, want %q", i, imp.Name, want[i])
		}
		if imp.Source == "" {
			t.Fatalf("import %d has empty source", i)
		}
	}
	// The built-in resolves to a stub, not a committed record.
	if imports[1].Source != builtinStub("credits.aleo") {
		t.Fatalf("builtin stub mismatch: %q", imports[1].Source)
	}
}

func TestResolveUnknownProgram(t *testing.T) {
	db := rawdb.NewMemoryDatabase()
	resolver := NewResolver(NewChainReader(db), source.NewStore(db), nil)
	if _, err := resolver.Resolve("ghost.aleo"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown program error: have %v, want %v", err, ErrNotFound)
	}
}

// A custom built-in set overrides the default exemptions.
func TestResolveCustomBuiltins(t *testing.T) {
	db := rawdb.NewMemoryDatabase()
	store := source.NewStore(db)
	chain := NewChainReader(db)

	rawdb.WriteProgram(db, &types.Program{
		ID:       "app.aleo",
		Bytecode: []byte("bc"),
		Imports:  []types.ProgramID{"stdlib.aleo"},
	})
	strict := NewResolver(chain, store, mapset.NewSet[types.ProgramID]())
	var merr *MissingImportError
	if _, err := strict.Resolve("app.aleo"); !errors.As(err, &merr) {
		t.Fatalf("strict resolution error: have %v, want MissingImportError", err)
	}
	lenient := NewResolver(chain, store, mapset.NewSet[types.ProgramID]("stdlib.aleo"))
	imports, err := lenient.Resolve("app.aleo")
	if err != nil {
		t.Fatalf("lenient resolution failed: %v", err)
	}
	if len(imports) != 1 || imports[0].Source != builtinStub("stdlib.aleo") {
		t.Fatalf("stub closure mismatch: %v", imports)
	}
}

// Deep missing dependencies fail resolution up front: the direct import has
// source, but its own import does not.
func TestResolveTransitiveMissing(t *testing.T) {
	db := rawdb.NewMemoryDatabase()
	store := source.NewStore(db)
	chain := NewChainReader(db)

	rawdb.WriteProgram(db, &types.Program{ID: "leaf.aleo", Bytecode: []byte("bc")})
	rawdb.WriteProgram(db, &types.Program{
		ID:       "mid.aleo",
		Bytecode: []byte("bc"),
		Imports:  []types.ProgramID{"leaf.aleo"},
	})
	rawdb.WriteProgram(db, &types.Program{
		ID:       "app.aleo",
		Bytecode: []byte("bc"),
		Imports:  []types.ProgramID{"mid.aleo"},
	})
	store.TryCommit("mid.aleo", "mid source")

	resolver := NewResolver(chain, store, nil)
	var merr *MissingImportError
	if _, err := resolver.Resolve("app.aleo"); !errors.As(err, &merr) || merr.Import != "leaf.aleo" {
		t.Fatalf("transitive resolution error: have %v", err)
	}
}
