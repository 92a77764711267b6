package errreport

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
)

// flushTimeout bounds how long Flush waits for queued events.
const flushTimeout = 2 * time.Second

// Options configures the Sentry client.
type Options struct {
	// DSN is the Sentry project DSN. Empty disables reporting.
	DSN string

	// Environment tags every event, e.g. "production".
	Environment string

	// Release is the application version.
	Release string
}

// Init configures the global Sentry hub. It returns false when reporting is
// disabled, either because the DSN is empty or because it is malformed.
func Init(opts Options, logger *slog.Logger) bool {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.DSN == "" {
		logger.Debug("sentry disabled: no DSN configured")
		return false
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         opts.DSN,
		Environment: opts.Environment,
		Release:     opts.Release,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			// Client addresses are personal data.
			event.User = sentry.User{}
			return event
		},
	})
	if err != nil {
		logger.Warn("sentry init failed, error reporting disabled", "error", err)
		return false
	}

	logger.Debug("sentry initialized", "environment", opts.Environment)
	return true
}

// Flush waits briefly for queued events to be sent.
func Flush() {
	sentry.Flush(flushTimeout)
}

// CaptureError reports err with the given tags. A nil err is ignored.
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// ErrPanic wraps values recovered by Recover.
var ErrPanic = errors.New("panic")

// Recover is HTTP middleware that turns a panic into a 500 response and
// reports it. The handler's logger records the stack.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				logger.Error("panic in handler",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", fmt.Sprint(v),
					"stack", string(debug.Stack()),
				)

				hub := sentry.GetHubFromContext(r.Context())
				if hub == nil {
					hub = sentry.CurrentHub().Clone()
				}
				hub.WithScope(func(scope *sentry.Scope) {
					scope.SetTag("endpoint", r.URL.Path)
					scope.SetTag("method", r.Method)
					scope.SetLevel(sentry.LevelFatal)
					hub.CaptureException(fmt.Errorf("%w: %v", ErrPanic, v))
				})

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"internal server error"}` + "\n"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
