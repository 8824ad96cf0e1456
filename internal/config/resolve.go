package config

import (
	"github.com/zx06/keytar/internal/errors"
)

// Resolve 合并 format / log_level：CLI > ENV > Config > 默认值。
func Resolve(opts Options) (Resolved, *errors.XError) {
	cfg, cfgPath, xe := LoadConfig(opts)
	if xe != nil {
		return Resolved{}, xe
	}

	// --format > KEYTAR_FORMAT > format > auto
	format := "auto"
	if cfg.Format != "" {
		format = cfg.Format
	}
	if opts.EnvFormat != "" {
		format = opts.EnvFormat
	}
	if opts.CLIFormatSet {
		format = opts.CLIFormat
	}

	// --log-level > KEYTAR_LOG_LEVEL > log_level > warn
	level := "warn"
	if cfg.LogLevel != "" {
		level = cfg.LogLevel
	}
	if opts.EnvLogLevel != "" {
		level = opts.EnvLogLevel
	}
	if opts.CLILogLevelSet {
		level = opts.CLILogLevel
	}

	return Resolved{ConfigPath: cfgPath, Format: format, LogLevel: level, File: cfg}, nil
}
