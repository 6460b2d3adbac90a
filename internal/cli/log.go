package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// newLogger creates a timestamped logger filtered at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the attached logger, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// slogFromContext exposes the command logger as a *slog.Logger so the
// simulation core logs through the same sink.
func slogFromContext(ctx context.Context) *slog.Logger {
	return slog.New(loggerFromContext(ctx))
}
