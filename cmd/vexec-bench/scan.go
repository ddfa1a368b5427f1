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
	"github.com/vexecdb/vexec/util/logutil"
	"github.com/vexecdb/vexec/util/memory"
)

const flagCount = "count"

// NewScanCommand builds the scan subcommand.
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Stream the generated input and report the read rate",
		Args:  cobra.NoArgs,
		RunE:  runScanCommand,
	}
	cmd.Flags().Uint64(flagOffset, 0, "Rows to skip")
	cmd.Flags().Uint64(flagCount, 0, "Rows to read after the offset, 0 means all")
	return cmd
}

func runScanCommand(cmd *cobra.Command, _ []string) error {
	if err := Init(cmd); err != nil {
		return err
	}
	offset, err := cmd.Flags().GetUint64(flagOffset)
	if err != nil {
		return errors.Trace(err)
	}
	count, err := cmd.Flags().GetUint64(flagCount)
	if err != nil {
		return errors.Trace(err)
	}

	cfg := config.GetGlobalConfig()
	data, err := genInput(cmd)
	if err != nil {
		return err
	}

	scan := executor.NewListScanExec(data, cfg.InitChunkSize, cfg.MaxChunkSize)
	var root executor.Executor = scan
	if offset > 0 || count > 0 {
		if count == 0 {
			count = uint64(data.Len())
		}
		root = executor.NewLimitExec(scan, offset, count)
	}

	ctx := cmd.Context()
	if err := root.Open(ctx); err != nil {
		return errors.Trace(err)
	}

	start := time.Now()
	req := executor.NewFirstChunk(root)
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
	}
	elapsed := time.Since(start)

	listBytes := data.GetMemTracker().BytesConsumed()
	if err := root.Close(); err != nil {
		return errors.Trace(err)
	}

	logutil.BgLogger().Info("scan run finished",
		zap.Int("rows", total),
		zap.Duration("elapsed", elapsed),
		zap.String("list", memory.FormatBytes(listBytes)))
	cmd.Printf("scanned %d rows in %v (%s of chunks)\n",
		total, elapsed, memory.FormatBytes(listBytes))
	return nil
}
