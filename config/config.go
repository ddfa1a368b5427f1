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

package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/docker/go-units"
	"github.com/pingcap/errors"

	"github.com/vexecdb/vexec/util/logutil"
)

// Config contains configuration options.
type Config struct {
	// InitChunkSize is the row capacity new chunks start with.
	InitChunkSize int `toml:"init-chunk-size" json:"init-chunk-size"`
	// MaxChunkSize is the row count chunks grow to.
	MaxChunkSize int `toml:"max-chunk-size" json:"max-chunk-size"`
	// MemQuota bounds the memory of one top-n run. It accepts human
	// readable sizes such as "64MiB".
	MemQuota string `toml:"mem-quota" json:"mem-quota"`

	Log Log `toml:"log" json:"log"`
}

// Log is the log section of config.
type Log struct {
	// Log level.
	Level string `toml:"level" json:"level"`
	// Log format, one of json or text.
	Format string `toml:"format" json:"format"`
	// Disable automatic timestamps in output.
	DisableTimestamp bool `toml:"disable-timestamp" json:"disable-timestamp"`
	// File log config.
	File logutil.FileLogConfig `toml:"file" json:"file"`
}

var defaultConf = Config{
	InitChunkSize: 32,
	MaxChunkSize:  1024,
	MemQuota:      "1GiB",
	Log: Log{
		Level:  "info",
		Format: "text",
	},
}

var globalConf = defaultConf

// NewConfig creates a new config instance with default value.
func NewConfig() *Config {
	conf := defaultConf
	return &conf
}

// GetGlobalConfig returns the global configuration for this process.
// It should store configuration from command line and configuration
// file. Other parts of the system read the global configuration
// through this function.
func GetGlobalConfig() *Config {
	return &globalConf
}

// Load loads config options from a toml file. Unrecognized options are
// rejected rather than silently dropped.
func (c *Config) Load(confFile string) error {
	metaData, err := toml.DecodeFile(confFile, c)
	if err != nil {
		return errors.Trace(err)
	}
	if undecoded := metaData.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return errors.Errorf("config file %s contained unknown configuration options: %s",
			confFile, strings.Join(keys, ", "))
	}
	return nil
}

// Valid checks whether the config is sane.
func (c *Config) Valid() error {
	if c.MaxChunkSize <= 0 {
		return errors.Errorf("max-chunk-size %d must be positive", c.MaxChunkSize)
	}
	if c.InitChunkSize <= 0 || c.InitChunkSize > c.MaxChunkSize {
		return errors.Errorf("init-chunk-size %d must be in (0, max-chunk-size %d]",
			c.InitChunkSize, c.MaxChunkSize)
	}
	if _, err := c.MemQuotaBytes(); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// MemQuotaBytes parses MemQuota into a byte count.
func (c *Config) MemQuotaBytes() (int64, error) {
	n, err := units.RAMInBytes(c.MemQuota)
	if err != nil {
		return 0, errors.Annotatef(err, "mem-quota %q", c.MemQuota)
	}
	if n < 0 {
		return 0, errors.Errorf("mem-quota %q is negative", c.MemQuota)
	}
	return n, nil
}

// ToLogConfig converts *Log to *logutil.LogConfig.
func (l *Log) ToLogConfig() *logutil.LogConfig {
	return logutil.NewLogConfig(l.Level, l.Format, l.File, l.DisableTimestamp)
}
