// Package router arma el chi.Router del servicio con su cadena de middlewares.
package router

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	httpx "github.com/dropDatabas3/pki2fa/internal/http"
	"github.com/dropDatabas3/pki2fa/internal/http/handlers"
	"github.com/dropDatabas3/pki2fa/internal/http/middlewares"
	"github.com/dropDatabas3/pki2fa/internal/security/keys"
	"github.com/dropDatabas3/pki2fa/internal/seed"
)

// Options agrupa las dependencias inyectadas a los handlers.
type Options struct {
	Keys  *keys.KeyPair
	Seeds *seed.Store
	// Ventana TOTP en pasos (±window)
	Window int
	// Handler de /metrics; nil => ruta no expuesta
	Metrics stdhttp.Handler
}

// New construye el router completo del servicio.
func New(opts Options) stdhttp.Handler {
	r := chi.NewRouter()

	handlers.RegisterHealth(r)
	handlers.NewSeedHandler(opts.Keys, opts.Seeds).Register(r)
	handlers.NewTOTPHandler(opts.Seeds, opts.Window).Register(r)

	if opts.Metrics != nil {
		r.Method(stdhttp.MethodGet, "/metrics", opts.Metrics)
	}

	return middlewares.Chain(r,
		middlewares.WithRequestID(),
		middlewares.WithLogging(),
		middlewares.WithRecover(),
		httpx.WithMetrics(),
	)
}
