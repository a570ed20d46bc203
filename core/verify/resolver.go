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
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/aleoscan/aleoscan/core/source"
	"github.com/aleoscan/aleoscan/core/types"
)

// DefaultBuiltins is the fixed set of programs shipped with the network.
// Built-ins are import leaves: they need no verified source and resolve to a
// canonical stub instead.
var DefaultBuiltins = mapset.NewSet[types.ProgramID]("credits.aleo")

// Resolver assembles the import closure a compilation needs. It performs
// only reads and is safe for concurrent use.
type Resolver struct {
	chain    ChainReader
	sources  *source.Store
	builtins mapset.Set[types.ProgramID]
}

// NewResolver creates an import resolver over the given chain index and
// source registry. A nil builtin set selects DefaultBuiltins.
func NewResolver(chain ChainReader, sources *source.Store, builtins mapset.Set[types.ProgramID]) *Resolver {
	if builtins == nil {
		builtins = DefaultBuiltins
	}
	return &Resolver{chain: chain, sources: sources, builtins: builtins}
}

// Resolve returns the import sources for a program in declaration order.
// The compiler only consumes the direct imports, but the full transitive
// graph is walked so an unverified or cyclic dependency deep in the tree
// fails resolution up front instead of surfacing as a compile error.
func (r *Resolver) Resolve(id types.ProgramID) ([]ImportSource, error) {
	program := r.chain.Program(id)
	if program == nil {
		return nil, ErrNotFound
	}
	path := mapset.NewThreadUnsafeSet(id)
	if err := r.verifyClosure(program, path); err != nil {
		return nil, err
	}
	imports := make([]ImportSource, 0, len(program.Imports))
	for _, imp := range program.Imports {
		text, err := r.importSource(imp)
		if err != nil {
			return nil, err
		}
		imports = append(imports, ImportSource{Name: imp.Name(), Source: text})
	}
	return imports, nil
}

// verifyClosure walks the transitive import graph depth-first, checking that
// every non-built-in dependency has verified source and that the walk never
// revisits a program on the current path.
func (r *Resolver) verifyClosure(program *types.Program, path mapset.Set[types.ProgramID]) error {
	for _, imp := range program.Imports {
		if r.builtins.Contains(imp) {
			continue
		}
		if path.Contains(imp) {
			return &CyclicImportError{Import: imp}
		}
		if !r.sources.Has(imp) {
			return &MissingImportError{Import: imp}
		}
		dep := r.chain.Program(imp)
		if dep == nil {
			// Source is committed but the chain record vanished; the local
			// index is inconsistent.
			return fmt.Errorf("import %s: %w", imp, ErrNotFound)
		}
		path.Add(imp)
		if err := r.verifyClosure(dep, path); err != nil {
			return err
		}
		path.Remove(imp)
	}
	return nil
}

// importSource returns the source text to hand the compiler for one import.
func (r *Resolver) importSource(id types.ProgramID) (string, error) {
	if r.builtins.Contains(id) {
		return builtinStub(id), nil
	}
	text, ok := r.sources.Get(id)
	if !ok {
		return "", &MissingImportError{Import: id}
	}
	return text, nil
}

// builtinStub produces the canonical placeholder source for a built-in
// import. The compiler only needs the declaration to exist.
func builtinStub(id types.ProgramID) string {
	return fmt.Sprintf("program %s;\n", id)
}
