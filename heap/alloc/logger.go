package alloc

import (
	"io"
	"log/slog"
	"os"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func defaultLogger() *slog.Logger {
	if logAlloc {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return discardLogger
}
