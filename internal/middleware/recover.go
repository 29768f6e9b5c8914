package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/radif/uploads/internal/response"
)

// Recoverer is the last-resort boundary: a panic anywhere below it is logged
// with its stack and answered with a generic 500. A response that already
// started is left as is.
func Recoverer(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww, ok := w.(chiMiddleware.WrapResponseWriter)
			if !ok {
				ww = chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			}

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					// net/http uses this to abort a response silently.
					panic(rec)
				}
				log.ErrorContext(r.Context(), "unhandled panic",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"status_sent", ww.Status(),
					"stack", string(debug.Stack()),
				)
				if ww.Status() != 0 {
					return
				}
				response.InternalError(ww, "Something broke!")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
