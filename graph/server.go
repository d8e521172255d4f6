package graph

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/google/uuid"
	graphql "github.com/graph-gophers/graphql-go"
	graphqlRelay "github.com/graph-gophers/graphql-go/relay"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ridoystarlord/bakery/entities"
)

// Options configures NewHandler.
type Options struct {
	Store  *entities.Store
	Logger *zap.Logger
	// Registry receives the HTTP metrics and is exposed on /metrics. When
	// nil a private registry is used.
	Registry   *prometheus.Registry
	SchemaOpts []graphql.SchemaOpt
}

// NewHandler routes
//
//	POST /graphql  query execution
//	GET  /graphql  GraphQL playground
//	GET  /health   plain "OK"
//	GET  /metrics  Prometheus exposition
func NewHandler(opts Options) (http.Handler, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	schema, err := NewSchema(opts.Store, log.Named("graphql"), opts.SchemaOpts...)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("POST /graphql", &graphqlRelay.Handler{Schema: schema})
	mux.Handle("GET /graphql", playground.Handler("Bakery GraphQL", "/graphql"))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return withRequestLog(log.Named("http"), newHTTPMetrics(reg), mux), nil
}

type httpMetrics struct {
	requests *prometheus.CounterVec
}

func newHTTPMetrics(reg prometheus.Registerer) *httpMetrics {
	m := &httpMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bakery",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served, by method, route and status code.",
		}, []string{"method", "path", "code"}),
	}
	reg.MustRegister(m.requests)
	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// routeLabel returns the path of the mux pattern that served r, so the
// label set stays bounded no matter which paths clients request.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}
	if _, path, ok := strings.Cut(r.Pattern, " "); ok {
		return path
	}
	return r.Pattern
}

// withRequestLog tags every request with an X-Request-ID, counts it and
// logs it once it has been served.
func withRequestLog(log *zap.Logger, m *httpMetrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		m.requests.WithLabelValues(r.Method, routeLabel(r), strconv.Itoa(rec.status)).Inc()
		log.Info("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}
