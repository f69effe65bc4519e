package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/mcoot/rps-matchmaker/internal/api/apierr"
)

// Recovery turns a panic in a handler into a 500 error envelope
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := Wrap(w)
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						slog.Any("error", err),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					)

					if !wrapped.WroteHeader() {
						apierr.WriteError(wrapped, apierr.NewInternalError())
					}
				}
			}()

			next.ServeHTTP(wrapped, r)
		})
	}
}
