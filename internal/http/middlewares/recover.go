package middlewares

import (
	"net/http"

	httpx "github.com/dropDatabas3/pki2fa/internal/http"
	"github.com/dropDatabas3/pki2fa/internal/observability/logger"
)

// WithRecover captura panics y devuelve un error 500 en lugar de crashear.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log := logger.From(r.Context())
					log.Error("panic recovered",
						logger.Op("recover"),
						logger.Any("panic", rec),
					)
					httpx.WriteError(w, http.StatusInternalServerError, httpx.MsgInternalError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
