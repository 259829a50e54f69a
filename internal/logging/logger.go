// Package logging builds the zap logger used by the CLI.
//
// Diagnostics always go to the writer handed in (stderr in practice) so they
// never mix with text or JSON results on stdout. The engine itself never logs.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels for the -v flag count.
const (
	VerbosityQuiet = 0 // no flags: warnings and errors only
	VerbosityInfo  = 1 // -v: + progress (files loaded, groups built)
	VerbosityDebug = 2 // -vv: + per-item placements and timing
)

// VerbosityToLevel maps a -v count to a zap level.
//
//	0     -> WarnLevel
//	1     -> InfoLevel
//	2+    -> DebugLevel
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityQuiet:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// New returns a sugared logger writing to w at the level for verbosity.
// jsonOutput selects zap's JSON encoder; otherwise a console encoder without
// timestamps is used so output is stable across runs.
func New(w io.Writer, verbosity int, jsonOutput bool) *zap.SugaredLogger {
	var encCfg zapcore.EncoderConfig
	if jsonOutput {
		encCfg = zap.NewProductionEncoderConfig()
	} else {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	encCfg.StacktraceKey = ""

	var enc zapcore.Encoder
	if jsonOutput {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), VerbosityToLevel(verbosity))
	return zap.New(core).Sugar()
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
