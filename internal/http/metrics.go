package http

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	metricsOnce sync.Once
	metricsErr  error

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        *prometheus.GaugeVec

	// Métricas de dominio
	seedDecryptionsTotal   *prometheus.CounterVec
	codesGeneratedTotal    prometheus.Counter
	codeVerificationsTotal *prometheus.CounterVec
)

// RegisterMetrics inicializa las métricas y devuelve el handler para /metrics.
// Registrar dos veces no falla: la inicialización es once.
func RegisterMetrics(registry prometheus.Registerer) (http.Handler, error) {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	metricsOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		httpInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests en vuelo por método y ruta",
		}, []string{"method", "path"})

		seedDecryptionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seed_decryptions_total",
			Help: "Intentos de descifrado de seed por resultado",
		}, []string{"result"}) // result: ok|failed

		codesGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "twofa_codes_generated_total",
			Help: "Códigos 2FA generados vía API",
		})

		codeVerificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "twofa_verifications_total",
			Help: "Verificaciones de códigos 2FA por resultado",
		}, []string{"valid"}) // valid: true|false

		for _, c := range []prometheus.Collector{
			httpRequestsTotal, httpRequestDuration, httpInflight,
			seedDecryptionsTotal, codesGeneratedTotal, codeVerificationsTotal,
		} {
			if err := registerCollector(registry, c); err != nil {
				metricsErr = err
				return
			}
		}
	})
	if metricsErr != nil {
		return nil, metricsErr
	}

	return promhttp.Handler(), nil
}

func registerCollector(r prometheus.Registerer, c prometheus.Collector) error {
	if err := r.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

// ObserveSeedDecryption registra un intento de POST /decrypt-seed.
func ObserveSeedDecryption(ok bool) {
	if seedDecryptionsTotal == nil {
		return
	}
	result := "failed"
	if ok {
		result = "ok"
	}
	seedDecryptionsTotal.WithLabelValues(result).Inc()
}

// ObserveCodeGenerated registra un GET /generate-2fa exitoso.
func ObserveCodeGenerated() {
	if codesGeneratedTotal != nil {
		codesGeneratedTotal.Inc()
	}
}

// ObserveVerification registra el resultado de un POST /verify-2fa.
func ObserveVerification(valid bool) {
	if codeVerificationsTotal != nil {
		codeVerificationsTotal.WithLabelValues(strconv.FormatBool(valid)).Inc()
	}
}

// metricsRecorder captura el status para las métricas HTTP.
type metricsRecorder struct {
	http.ResponseWriter
	status int
}

func (m *metricsRecorder) WriteHeader(code int) {
	if m.status == 0 {
		m.status = code
	}
	m.ResponseWriter.WriteHeader(code)
}

func (m *metricsRecorder) Write(b []byte) (int, error) {
	if m.status == 0 {
		m.status = http.StatusOK
	}
	return m.ResponseWriter.Write(b)
}

// WithMetrics instrumenta cada request con counter/histograma/inflight.
// Path cardinality acotada: las rutas del servicio son fijas.
func WithMetrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if httpRequestsTotal == nil {
				next.ServeHTTP(w, r)
				return
			}
			method, path := r.Method, r.URL.Path
			httpInflight.WithLabelValues(method, path).Inc()
			defer httpInflight.WithLabelValues(method, path).Dec()

			start := time.Now()
			rec := &metricsRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
			httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		})
	}
}
