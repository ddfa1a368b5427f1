// Copyright 2025 vexec Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"time"

	"github.com/pingcap/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vexecdb/vexec/config"
	"github.com/vexecdb/vexec/executor"
	"github.com/vexecdb/vexec/types"
	"github.com/vexecdb/vexec/util/chunk"
	"github.com/vexecdb/vexec/util/logutil"
	"github.com/vexecdb/vexec/util/memory"
)

const (
	flagN        = "n"
	flagDesc     = "desc"
	flagOffset   = "offset"
	flagLimit    = "limit"
	flagKeysOnly = "keys-only"
	flagQuiet    = "quiet"
)

// NewTopNCommand builds the topn subcommand.
func NewTopNCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topn",
		Short: "Keep the best N rows of the generated input",
		Args:  cobra.NoArgs,
		RunE:  runTopNCommand,
	}
	cmd.Flags().Int(flagN, 100, "How many rows to keep")
	cmd.Flags().Bool(flagDesc, false, "Prefer smaller keys instead of larger ones")
	cmd.Flags().Uint64(flagOffset, 0, "Ranked rows to skip before printing")
	cmd.Flags().Uint64(flagLimit, 0, "Ranked rows to print after the offset, 0 means all")
	cmd.Flags().Bool(flagKeysOnly, false, "Project only the key column")
	cmd.Flags().Bool(flagQuiet, false, "Skip printing the result rows")
	return cmd
}

func runTopNCommand(cmd *cobra.Command, _ []string) error {
	if err := Init(cmd); err != nil {
		return err
	}
	n, err := cmd.Flags().GetInt(flagN)
	if err != nil {
		return errors.Trace(err)
	}
	desc, err := cmd.Flags().GetBool(flagDesc)
	if err != nil {
		return errors.Trace(err)
	}
	offset, err := cmd.Flags().GetUint64(flagOffset)
	if err != nil {
		return errors.Trace(err)
	}
	limit, err := cmd.Flags().GetUint64(flagLimit)
	if err != nil {
		return errors.Trace(err)
	}
	keysOnly, err := cmd.Flags().GetBool(flagKeysOnly)
	if err != nil {
		return errors.Trace(err)
	}
	quiet, err := cmd.Flags().GetBool(flagQuiet)
	if err != nil {
		return errors.Trace(err)
	}

	cfg := config.GetGlobalConfig()
	quota, err := cfg.MemQuotaBytes()
	if err != nil {
		return errors.Trace(err)
	}
	data, err := genInput(cmd)
	if err != nil {
		return err
	}

	scan := executor.NewListScanExec(data, cfg.InitChunkSize, cfg.MaxChunkSize)
	fields := scan.Schema()
	projections := executor.ColumnsProjection(fields)
	if keysOnly {
		projections = []executor.Projection{executor.NewColumnProjection(0, fields[0])}
	}
	topn, err := executor.NewTopNExec(scan, n, 0, types.KeyComparator(fields[0], desc), projections, quota)
	if err != nil {
		return errors.Trace(err)
	}
	var root executor.Executor = topn
	if offset > 0 || limit > 0 {
		count := limit
		if count == 0 {
			count = uint64(n)
		}
		root = executor.NewLimitExec(topn, offset, count)
	}

	ctx := cmd.Context()
	if err := root.Open(ctx); err != nil {
		return errors.Trace(err)
	}
	tracker := memory.NewTracker(memory.LabelForPipeline, -1)
	topn.MemTracker().AttachTo(tracker)

	start := time.Now()
	req := executor.NewFirstChunk(root)
	outFields := executor.RetTypes(root)
	total := 0
	for {
		if err := executor.Next(ctx, root, req); err != nil {
			_ = root.Close()
			return errors.Trace(err)
		}
		if req.NumRows() == 0 {
			break
		}
		total += req.NumRows()
		if !quiet {
			it := chunk.NewIterator4Chunk(req)
			for row := it.Begin(); row != it.End(); row = it.Next() {
				cmd.Println(formatRow(row, outFields))
			}
		}
	}
	elapsed := time.Since(start)
	if err := root.Close(); err != nil {
		return errors.Trace(err)
	}

	logutil.BgLogger().Info("top-n run finished",
		zap.Int("rows", total),
		zap.Duration("elapsed", elapsed),
		zap.String("peak", memory.FormatBytes(tracker.MaxConsumed())),
		zap.String("stats", topn.RuntimeStats().String()))
	cmd.Printf("kept %d rows in %v, peak retained %s\n",
		total, elapsed, memory.FormatBytes(tracker.MaxConsumed()))
	return nil
}
