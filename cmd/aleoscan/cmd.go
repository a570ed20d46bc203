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
	"encoding/json"
	"fmt"
	"os"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/urfave/cli/v2"

	"github.com/aleoscan/aleoscan/core/rawdb"
	"github.com/aleoscan/aleoscan/core/similarity"
	"github.com/aleoscan/aleoscan/core/source"
	"github.com/aleoscan/aleoscan/core/types"
	"github.com/aleoscan/aleoscan/core/verify"
	"github.com/aleoscan/aleoscan/log"
)

// pageSize is how many programs a listing page holds.
const pageSize = 50

var (
	idFlag = &cli.StringFlag{
		Name:     "id",
		Usage:    "Program id to operate on",
		Required: true,
	}
	sourceFlag = &cli.StringFlag{
		Name:     "source",
		Usage:    "File containing the source text to verify",
		Required: true,
	}
	compilerFlag = &cli.StringFlag{
		Name:  "compiler",
		Usage: "Compiler binary to build submissions with",
		Value: "leo",
	}
	pageFlag = &cli.IntFlag{
		Name:  "page",
		Usage: "Listing page, starting at 1",
		Value: 1,
	}
	noHelloworldFlag = &cli.BoolFlag{
		Name:  "no-helloworld",
		Usage: "Hide unmodified copies of the hello-world template",
	}

	verifyCommand = &cli.Command{
		Name:      "verify",
		Usage:     "Verify submitted source against a program's on-chain bytecode",
		ArgsUsage: " ",
		Flags:     []cli.Flag{idFlag, sourceFlag, compilerFlag},
		Action:    runVerify,
		Description: `
Compiles the source file together with its resolved import closure and
accepts it only if the output is byte-identical to the bytecode recorded on
chain. Accepted source is committed permanently; a program's first accepted
submission wins.`,
	}
	similarCommand = &cli.Command{
		Name:      "similar",
		Usage:     "List programs structurally similar to the given one",
		ArgsUsage: " ",
		Flags:     []cli.Flag{idFlag, pageFlag},
		Action:    runSimilar,
	}
	programsCommand = &cli.Command{
		Name:      "programs",
		Usage:     "List indexed programs in ingestion order",
		ArgsUsage: " ",
		Flags:     []cli.Flag{pageFlag, noHelloworldFlag},
		Action:    runPrograms,
	}
	ingestCommand = &cli.Command{
		Name:      "ingest",
		Usage:     "Load a program dump into the local database",
		ArgsUsage: "<dump.json>",
		Action:    runIngest,
		Description: `
Stands in for the chain indexer: reads a JSON dump of program records,
stores them and registers each program in the similarity index under its
structural feature hash.`,
	}
)

func runVerify(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg, false)
	if err != nil {
		return err
	}
	defer db.Close()

	text, err := os.ReadFile(ctx.String(sourceFlag.Name))
	if err != nil {
		return err
	}
	var (
		id       = types.ProgramID(ctx.String(idFlag.Name))
		store    = source.NewStore(db)
		chain    = verify.NewChainReader(db)
		builtins = mapset.NewSet[types.ProgramID]()
	)
	for _, builtin := range cfg.Builtins {
		builtins.Add(types.ProgramID(builtin))
	}
	resolver := verify.NewResolver(chain, store, builtins)
	compiler := newToolchainCompiler(ctx.String(compilerFlag.Name))
	verifier := verify.NewVerifier(chain, compiler, resolver, store)

	result, err := verifier.Verify(ctx.Context, id, string(text))
	if err != nil {
		return err
	}
	switch result.Commit {
	case source.Committed:
		fmt.Println("verified and committed")
	case source.AlreadyCommitted:
		fmt.Println("verified, source was already committed")
	}
	return nil
}

func runSimilar(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg, true)
	if err != nil {
		return err
	}
	defer db.Close()

	var (
		id    = types.ProgramID(ctx.String(idFlag.Name))
		page  = ctx.Int(pageFlag.Name)
		index = similarity.NewIndex(db)
	)
	if page < 1 {
		return fmt.Errorf("invalid page %d", page)
	}
	hash, ok := index.FeatureHashOf(id)
	if !ok {
		return fmt.Errorf("program %s is not indexed", id)
	}
	var (
		total  = index.Count(hash)
		offset = uint64(page-1) * pageSize
	)
	fmt.Printf("%d similar programs (hash %s)\n", total, hash.TerminalString())
	for _, member := range index.Page(hash, offset, pageSize) {
		fmt.Println(member)
	}
	return nil
}

func runPrograms(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg, true)
	if err != nil {
		return err
	}
	defer db.Close()

	page := ctx.Int(pageFlag.Name)
	if page < 1 {
		return fmt.Errorf("invalid page %d", page)
	}
	var (
		skip  func(types.ProgramID) bool
		total = rawdb.ReadCatalogCount(db)
	)
	if ctx.Bool(noHelloworldFlag.Name) {
		helloworld := similarity.Compute([]byte(similarity.HelloworldTemplate))
		index := similarity.NewIndex(db)
		skip = func(id types.ProgramID) bool {
			hash, ok := index.FeatureHashOf(id)
			return ok && hash == helloworld
		}
		total = rawdb.ReadCatalogCountExcluding(db, helloworld)
	}
	offset := uint64(page-1) * pageSize
	for _, id := range rawdb.ReadCatalogRange(db, offset, pageSize, skip) {
		fmt.Printf("%-40s calls=%d\n", id, rawdb.ReadProgramCalledTimes(db, id))
	}
	fmt.Printf("%d programs\n", total)
	return nil
}

// dumpRecord is one entry of the ingestion dump.
type dumpRecord struct {
	ID          types.ProgramID   `json:"id"`
	Bytecode    string            `json:"bytecode"`
	Imports     []types.ProgramID `json:"imports"`
	Builtin     bool              `json:"builtin"`
	Height      uint64            `json:"height"`
	CalledTimes uint64            `json:"called_times"`
}

func runIngest(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("usage: %s ingest <dump.json>", ctx.App.Name)
	}
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg, false)
	if err != nil {
		return err
	}
	defer db.Close()

	blob, err := os.ReadFile(ctx.Args().First())
	if err != nil {
		return err
	}
	var records []dumpRecord
	if err := json.Unmarshal(blob, &records); err != nil {
		return fmt.Errorf("invalid dump: %w", err)
	}
	index := similarity.NewIndex(db)
	for _, rec := range records {
		if err := rec.ID.Validate(); err != nil {
			return err
		}
		if rawdb.HasProgram(db, rec.ID) {
			log.Debug("Skipping known program", "id", rec.ID)
			continue
		}
		rawdb.WriteProgram(db, &types.Program{
			ID:       rec.ID,
			Bytecode: []byte(rec.Bytecode),
			Imports:  rec.Imports,
			Builtin:  rec.Builtin,
			Height:   rec.Height,
		})
		if rec.CalledTimes > 0 {
			rawdb.WriteProgramCalledTimes(db, rec.ID, rec.CalledTimes)
		}
		rawdb.AppendCatalogEntry(db, rec.ID)
		index.Record(rec.ID, similarity.Compute([]byte(rec.Bytecode)))
		log.Info("Ingested program", "id", rec.ID, "imports", len(rec.Imports))
	}
	log.Info("Ingestion done", "programs", len(records), "indexed", rawdb.ReadCatalogCount(db))
	return nil
}
