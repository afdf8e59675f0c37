package middleware

import (
	"net/http"
	"runtime/debug"

	"barbs-dog-rescue/internal/platform/logger"
)

// Recover reemplaza a chimw.Recoverer para loguear el panic con nuestro logger
// (incluye request_id si RequestLogger corrió antes).
func Recover(log logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.FromContext(r.Context(), log).Error("panic recovered", map[string]any{
					"panic": rec,
					"stack": string(debug.Stack()),
				})

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"code":"internal","message":"internal server error"}` + "\n"))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
