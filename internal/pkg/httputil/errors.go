package httputil

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bissquit/userdesk/internal/pkg/ctxlog"
)

// ErrorMapping binds a sentinel error to a response status.
// Message overrides the text sent to the client; empty means err.Error()
// of the sentinel, never of the wrapped chain.
type ErrorMapping struct {
	Error   error
	Status  int
	Message string
}

func (m ErrorMapping) message() string {
	if m.Message != "" {
		return m.Message
	}
	return m.Error.Error()
}

// HandleError writes the first mapping err matches. Anything unmapped is
// logged with the request logger and answered with 500.
func HandleError(ctx context.Context, w http.ResponseWriter, err error, mappings []ErrorMapping) {
	logger := ctxlog.FromContext(ctx)

	for _, m := range mappings {
		if !errors.Is(err, m.Error) {
			continue
		}
		logger.LogAttrs(ctx, slog.LevelDebug, "request rejected",
			slog.Int("status", m.Status),
			slog.String("error", err.Error()),
		)
		Error(w, m.Status, m.message())
		return
	}

	logger.LogAttrs(ctx, slog.LevelError, "internal error", slog.String("error", err.Error()))
	Error(w, http.StatusInternalServerError, "internal error")
}
