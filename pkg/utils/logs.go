package utils

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var engineLog bool
var serverLog bool

type LogConfig struct {
	Level  string    // debug, info, warn or error
	Format string    // text or json
	Engine bool      // Log every engine run (and iteration at debug level)
	Server bool      // Log API and queue requests
	Output io.Writer // Defaults to stderr
}

// InitLog installs the process wide logger and toggles the verbose channels
func InitLog(cfg LogConfig) *slog.Logger {
	engineLog = cfg.Engine
	serverLog = cfg.Server
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// EngineLogger returns the logger handed to PageRank engines: discarding
// unless engine logging is enabled
func EngineLogger() *slog.Logger {
	if !engineLog {
		return slog.New(slog.DiscardHandler)
	}
	return slog.Default().With("component", "engine")
}

func ServerLog(format string, v ...any) {
	if serverLog {
		slog.Info(fmt.Sprintf(format, v...), "component", "server")
	}
}

func EngineLog(role string, format string, v ...any) {
	if engineLog {
		slog.Info(fmt.Sprintf(format, v...), "component", role)
	}
}

func WarnLog(role string, format string, v ...any) {
	slog.Warn(fmt.Sprintf(format, v...), "component", role)
}
