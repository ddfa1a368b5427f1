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
	"fmt"
	"math/rand"
	"strings"

	"github.com/pingcap/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vexecdb/vexec/config"
	"github.com/vexecdb/vexec/metrics"
	"github.com/vexecdb/vexec/types"
	"github.com/vexecdb/vexec/util/chunk"
	"github.com/vexecdb/vexec/util/logutil"
)

const (
	// FlagConfig is the name of the config file flag.
	FlagConfig = "config"
	// FlagLogLevel is the name of log-level flag.
	FlagLogLevel = "log-level"
	// FlagLogFormat is the name of log-format flag.
	FlagLogFormat = "log-format"
	// FlagMemQuota is the name of mem-quota flag.
	FlagMemQuota = "mem-quota"
	// FlagRows is the name of rows flag.
	FlagRows = "rows"
	// FlagSeed is the name of seed flag.
	FlagSeed = "seed"
)

// DefineCommonFlags defines the flags shared by all subcommands.
func DefineCommonFlags(flags *pflag.FlagSet) {
	flags.String(FlagConfig, "", "Set the configuration file path")
	flags.StringP(FlagLogLevel, "L", "", "Set the log level, overriding the config file")
	flags.String(FlagLogFormat, "", "Set the log format, overriding the config file")
	flags.String(FlagMemQuota, "", "Set the memory quota of one run, overriding the config file")
	flags.Int(FlagRows, 100000, "Number of input rows to generate")
	flags.Int64(FlagSeed, 1, "Seed of the input generator")
}

// Init loads the configuration, applies flag overrides and initializes
// the logger. Every subcommand runs it first.
func Init(cmd *cobra.Command) error {
	cfg := config.GetGlobalConfig()
	confFile, err := cmd.Flags().GetString(FlagConfig)
	if err != nil {
		return errors.Trace(err)
	}
	if confFile != "" {
		if err := cfg.Load(confFile); err != nil {
			return errors.Trace(err)
		}
	}
	if level, err := cmd.Flags().GetString(FlagLogLevel); err == nil && level != "" {
		cfg.Log.Level = level
	}
	if format, err := cmd.Flags().GetString(FlagLogFormat); err == nil && format != "" {
		cfg.Log.Format = format
	}
	if quota, err := cmd.Flags().GetString(FlagMemQuota); err == nil && quota != "" {
		cfg.MemQuota = quota
	}
	if err := cfg.Valid(); err != nil {
		return errors.Trace(err)
	}
	if err := logutil.InitLogger(cfg.Log.ToLogConfig()); err != nil {
		return errors.Trace(err)
	}
	metrics.RegisterMetrics()
	return nil
}

var inputFields = []*types.FieldType{
	types.NewFieldType(types.KindInt64),
	types.NewFieldType(types.KindString),
}

// genInput generates the benchmark input: rows of a random int64 key
// and a string payload, stored in a chunk list.
func genInput(cmd *cobra.Command) (*chunk.List, error) {
	rows, err := cmd.Flags().GetInt(FlagRows)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if rows < 0 {
		return nil, errors.Errorf("rows %d must be non-negative", rows)
	}
	seed, err := cmd.Flags().GetInt64(FlagSeed)
	if err != nil {
		return nil, errors.Trace(err)
	}

	cfg := config.GetGlobalConfig()
	l := chunk.NewList(inputFields, cfg.InitChunkSize, cfg.MaxChunkSize)
	r := rand.New(rand.NewSource(seed))
	buf := chunk.NewChunkWithCapacity(inputFields, 1)
	for i := 0; i < rows; i++ {
		buf.Reset()
		buf.AppendInt64(0, r.Int63n(int64(rows)*10+1))
		buf.AppendString(1, fmt.Sprintf("row-%d", i))
		l.AppendRow(buf.GetRow(0))
	}
	return l, nil
}

// formatRow renders one result row, tab separated.
func formatRow(row chunk.Row, fields []*types.FieldType) string {
	var sb strings.Builder
	for i, ft := range fields {
		if i > 0 {
			sb.WriteByte('\t')
		}
		d := row.GetDatum(i, ft)
		sb.WriteString(d.String())
	}
	return sb.String()
}
