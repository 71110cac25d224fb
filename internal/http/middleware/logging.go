package middleware

import (
	"log/slog"
	"net/http"

	sloghttp "github.com/samber/slog-http"
)

// Logging writes one access log line per request. Client errors are logged
// at WARN and server errors at ERROR.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return sloghttp.NewWithConfig(logger, sloghttp.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithUserAgent:    true,
		Filters: []sloghttp.Filter{
			sloghttp.IgnorePath(MetricsPath, "/healthz"),
		},
	})
}
