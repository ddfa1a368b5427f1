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

package logutil

import (
	"context"
	"testing"

	"github.com/pingcap/log"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLogger(t *testing.T) {
	conf := NewLogConfig(DefaultLogLevel, DefaultLogFormat, EmptyFileLogConfig, false)
	require.NoError(t, InitLogger(conf))
	require.Equal(t, zap.InfoLevel, log.GetLevel())

	bad := NewLogConfig("not-a-level", DefaultLogFormat, EmptyFileLogConfig, false)
	require.Error(t, InitLogger(bad))
}

func TestSetLevel(t *testing.T) {
	conf := NewLogConfig(DefaultLogLevel, DefaultLogFormat, EmptyFileLogConfig, false)
	require.NoError(t, InitLogger(conf))

	require.NoError(t, SetLevel("warn"))
	require.Equal(t, zap.WarnLevel, log.GetLevel())
	require.NoError(t, SetLevel("debug"))
	require.Equal(t, zap.DebugLevel, log.GetLevel())
	require.Error(t, SetLevel("chatty"))
}

func TestContextLogger(t *testing.T) {
	require.NotNil(t, BgLogger())
	require.Same(t, BgLogger(), Logger(context.Background()))

	custom := zap.NewExample()
	ctx := WithLogger(context.Background(), custom)
	require.Same(t, custom, Logger(ctx))
}

func TestNewFileLogConfig(t *testing.T) {
	cfg := NewFileLogConfig(100)
	require.Equal(t, 100, cfg.MaxSize)
}
