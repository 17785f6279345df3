package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/vertextoedge/magpi-downloader/internal/domain"
	"github.com/vertextoedge/magpi-downloader/internal/logger"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(reportError(logger.GetZapLogger(), os.Stderr, err))
	}
}

// reportError reports a command error and returns the process exit status.
// Range validation errors go through the logger, which is ready by then;
// setup errors may precede it and go to w.
func reportError(log *zap.Logger, w io.Writer, err error) int {
	code := exitCode(err)
	if code == 2 {
		log.Error("invalid issue range", zap.Error(err))
		log.Sync()
		return code
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return code
}

// exitCode maps a command error to the process exit status
func exitCode(err error) int {
	if domain.IsValidationError(err) {
		return 2
	}
	return 1
}
