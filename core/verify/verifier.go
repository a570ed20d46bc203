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
	"bytes"
	"context"
	"strings"
	"unicode"

	"golang.org/x/crypto/sha3"
	"golang.org/x/sync/singleflight"

	"github.com/aleoscan/aleoscan/core/source"
	"github.com/aleoscan/aleoscan/core/types"
	"github.com/aleoscan/aleoscan/log"
)

// maxCompileMessage bounds stored compiler diagnostics, in runes. Longer
// messages are cut and marked, so hostile compiler output cannot blow up
// storage or rendering.
const (
	maxCompileMessage = 255
	trimmedMarker     = "[trimmed]"
)

// Status tracks a submission through the verification lifecycle.
type Status int

const (
	Unverified Status = iota
	Compiling
	Accepted
	Rejected
	Committed
)

func (s Status) String() string {
	switch s {
	case Unverified:
		return "unverified"
	case Compiling:
		return "compiling"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Committed:
		return "committed"
	default:
		return "unknown"
	}
}

// Result reports the outcome of a verification request.
type Result struct {
	ID       types.ProgramID
	Status   Status
	Bytecode []byte              // compiled output, set when compilation succeeded
	Commit   source.CommitStatus // meaningful when Status == Committed
}

// Verifier runs the full source verification pipeline: resolve imports,
// compile, compare against the chain record byte for byte, and commit the
// winning source. Identical concurrent requests are collapsed into one run;
// requests differing in program or source proceed independently.
type Verifier struct {
	chain    ChainReader
	compiler Compiler
	resolver *Resolver
	store    *source.Store

	inflight singleflight.Group
	log      log.Logger
}

// NewVerifier wires a verifier from its dependencies.
func NewVerifier(chain ChainReader, compiler Compiler, resolver *Resolver, store *source.Store) *Verifier {
	return &Verifier{
		chain:    chain,
		compiler: compiler,
		resolver: resolver,
		store:    store,
		log:      log.New("module", "verify"),
	}
}

// Verify checks that source compiles to the exact bytecode recorded on chain
// for the program, committing it on success. Resubmitting already committed
// source is a no-op success; submitting different source for a committed
// program fails with ErrAlreadyCommitted. Rejections have no side effects
// and may be retried with changed input.
func (v *Verifier) Verify(ctx context.Context, id types.ProgramID, text string) (*Result, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	type outcome struct {
		result *Result
		err    error
	}
	// Only identical submissions share a run. The key covers the source
	// text: a caller submitting different source for the same program must
	// get its own verdict, not the verdict of whoever got there first. The
	// commit race between such runs is resolved by the store.
	val, _, _ := v.inflight.Do(inflightKey(id, text), func() (interface{}, error) {
		result, err := v.run(ctx, id, text)
		return outcome{result, err}, nil
	})
	out := val.(outcome)
	return out.result, out.err
}

// inflightKey derives the deduplication key for a submission. Source text
// can be large, so the key carries a digest of it rather than the text.
func inflightKey(id types.ProgramID, text string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(id))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return string(h.Sum(nil))
}

func (v *Verifier) run(ctx context.Context, id types.ProgramID, text string) (*Result, error) {
	program := v.chain.Program(id)
	if program == nil {
		return nil, ErrNotFound
	}
	// Fast path for resubmission of the committed source.
	if committed, ok := v.store.Get(id); ok {
		if committed == text {
			v.log.Debug("Source resubmitted", "id", id)
			return &Result{ID: id, Status: Committed, Commit: source.AlreadyCommitted}, nil
		}
		return nil, ErrAlreadyCommitted
	}
	imports, err := v.resolver.Resolve(id)
	if err != nil {
		return nil, err
	}
	// Compilation can be slow and must not hold the commit lock: a hostile
	// submission stalling the compiler cannot block unrelated commits.
	v.log.Debug("Compiling submitted source", "id", id, "imports", len(imports))
	compiled, err := v.compiler.Compile(ctx, text, id.Name(), imports)
	if err != nil {
		return nil, &CompileError{Message: boundMessage(err.Error())}
	}
	if !bytes.Equal(compiled, program.Bytecode) {
		v.log.Debug("Bytecode mismatch", "id", id, "have", len(compiled), "want", len(program.Bytecode))
		return nil, ErrBytecodeMismatch
	}
	result := &Result{ID: id, Status: Accepted, Bytecode: compiled}

	// The store resolves the commit race; losing it is still success as
	// long as the winning record holds the same source.
	result.Commit, err = v.store.TryCommit(id, text)
	if err != nil {
		return nil, err
	}
	if result.Commit == source.AlreadyCommitted {
		if committed, _ := v.store.Get(id); committed != text {
			return nil, ErrAlreadyCommitted
		}
	}
	result.Status = Committed
	v.log.Info("Source verified", "id", id, "bytecode", len(compiled), "commit", result.Commit)
	return result, nil
}

// boundMessage sanitizes a compiler diagnostic and bounds its length.
// Sanitizing runs first so the truncation marker cannot be corrupted by
// stripped characters shifting the cut point.
func boundMessage(msg string) string {
	msg = sanitizeMessage(msg)
	runes := []rune(msg)
	if len(runes) <= maxCompileMessage {
		return msg
	}
	return string(runes[:maxCompileMessage]) + trimmedMarker
}

// sanitizeMessage strips control and other non-printable characters from
// untrusted compiler output, keeping newlines as spaces.
func sanitizeMessage(msg string) string {
	var b strings.Builder
	b.Grow(len(msg))
	for _, r := range msg {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(' ')
		case unicode.IsPrint(r):
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
