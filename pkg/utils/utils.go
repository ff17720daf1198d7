package utils

import (
	"fmt"
	"log/slog"
	"os"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// FailOnError logs and exits when err is not nil; only for main setup
func FailOnError(format string, err error, v ...any) {
	if err != nil {
		slog.Error(fmt.Sprintf(format, v...), "error", err)
		os.Exit(1)
	}
}

const runIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewRunID returns a short random identifier for benchmark runs and jobs
func NewRunID() string {
	return gonanoid.MustGenerate(runIDAlphabet, 12)
}
