package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/svgo"
	"github.com/aretw0/svgo/pkg/domain"
	"github.com/aretw0/svgo/pkg/plugins"
	"github.com/aretw0/svgo/pkg/ports"
	"github.com/aretw0/svgo/pkg/registry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMaxBodySize caps the size of an uploaded document.
const DefaultMaxBodySize = 10 << 20

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

// OptimizeParams are the query parameters of POST /optimize.
type OptimizeParams struct {
	Pretty    *bool `json:"pretty,omitempty"`
	Precision *int  `json:"precision,omitempty"`
	Multipass *bool `json:"multipass,omitempty"`
}

// OptimizeResponse is the body returned by POST /optimize.
type OptimizeResponse struct {
	Data          string `json:"data"`
	OriginalSize  int    `json:"originalSize"`
	OptimizedSize int    `json:"optimizedSize"`
	Cached        bool   `json:"cached"`
}

// PluginInfo describes one registered plugin.
type PluginInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
}

// Server serves the optimizer over HTTP.
type Server struct {
	registry    *registry.Registry
	cache       ports.ResultCache
	base        []svgo.Option
	logger      *slog.Logger
	metrics     *metrics
	gatherer    prometheus.Gatherer
	maxBodySize int64
	apiVersion  string
}

// Option configures a Server.
type Option func(*Server)

// WithRegistry sets the plugin registry used for every request.
func WithRegistry(r *registry.Registry) Option {
	return func(s *Server) {
		s.registry = r
	}
}

// WithCache enables result caching.
func WithCache(c ports.ResultCache) Option {
	return func(s *Server) {
		s.cache = c
	}
}

// WithOptimizerOptions sets options applied before the per-request query
// parameters.
func WithOptimizerOptions(opts ...svgo.Option) Option {
	return func(s *Server) {
		s.base = append(s.base, opts...)
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxBodySize overrides DefaultMaxBodySize.
func WithMaxBodySize(n int64) Option {
	return func(s *Server) {
		s.maxBodySize = n
	}
}

// NewServer builds a Server. It fails if the embedded OpenAPI document does
// not validate.
func NewServer(opts ...Option) (*Server, error) {
	s := &Server{maxBodySize: DefaultMaxBodySize}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = plugins.NewRegistry()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	swagger, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	s.apiVersion = swagger.Info.Version

	reg := prometheus.NewRegistry()
	s.metrics = newMetrics(reg)
	s.gatherer = reg
	return s, nil
}

// NewHandler creates the HTTP handler for the optimizer.
func NewHandler(opts ...Option) (http.Handler, error) {
	s, err := NewServer(opts...)
	if err != nil {
		return nil, err
	}
	return s.Handler(), nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Post("/optimize", s.Optimize)
	r.Get("/plugins", s.ListPlugins)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type requestIDKey struct{}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestID returns the id assigned to the request carrying ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func bindOptimizeParams(r *http.Request) (OptimizeParams, error) {
	var params OptimizeParams
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "pretty", query, &params.Pretty); err != nil {
		return params, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "precision", query, &params.Precision); err != nil {
		return params, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "multipass", query, &params.Multipass); err != nil {
		return params, err
	}
	if params.Precision != nil && (*params.Precision < 0 || *params.Precision > 20) {
		return params, fmt.Errorf("precision must be between 0 and 20, got %d", *params.Precision)
	}
	return params, nil
}

// options turns params into optimizer options and the settings that key the
// cache.
func (s *Server) options(params OptimizeParams) ([]svgo.Option, []string) {
	opts := slices.Clone(s.base)
	opts = append(opts, svgo.WithRegistry(s.registry))
	settings := []string{svgo.Version}

	if params.Pretty != nil {
		opts = append(opts, svgo.WithPretty(*params.Pretty))
		settings = append(settings, "pretty="+strconv.FormatBool(*params.Pretty))
	}
	if params.Precision != nil {
		opts = append(opts, svgo.WithFloatPrecision(*params.Precision))
		settings = append(settings, "precision="+strconv.Itoa(*params.Precision))
	}
	if params.Multipass != nil {
		opts = append(opts, svgo.WithMultipass(*params.Multipass))
		settings = append(settings, "multipass="+strconv.FormatBool(*params.Multipass))
	}
	return opts, settings
}

// Optimize handles the POST /optimize request.
func (s *Server) Optimize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := s.logger.With("request_id", RequestID(r.Context()))
	status := "error"
	defer func() {
		s.metrics.optimizations.WithLabelValues(status).Inc()
		s.metrics.duration.Observe(time.Since(start).Seconds())
	}()

	params, err := bindOptimizeParams(r)
	if err != nil {
		status = "rejected"
		http.Error(w, fmt.Sprintf("Invalid query parameter: %v", err), http.StatusBadRequest)
		logger.Warn("Optimize: invalid query", "err", err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodySize))
	if err != nil {
		status = "rejected"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		logger.Warn("Optimize: invalid request body", "err", err)
		return
	}
	input := string(body)
	s.metrics.bytes.WithLabelValues("in").Add(float64(len(body)))

	opts, settings := s.options(params)
	key := ports.CacheKey(input, settings...)

	resp := OptimizeResponse{OriginalSize: len(input)}
	if data, ok := s.lookup(r.Context(), logger, key); ok {
		resp.Data = data
		resp.Cached = true
	} else {
		out, err := svgo.Optimize(input, opts...)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidSVG) {
				status = "rejected"
				http.Error(w, err.Error(), http.StatusBadRequest)
				logger.Warn("Optimize: invalid svg", "err", err)
				return
			}
			http.Error(w, fmt.Sprintf("Optimize error: %v", err), http.StatusInternalServerError)
			logger.Error("Optimize failed", "err", err)
			return
		}
		resp.Data = out.Data
		s.store(r.Context(), logger, key, out.Data)
	}
	resp.OptimizedSize = len(resp.Data)

	status = "ok"
	if resp.Cached {
		status = "cached"
	}
	s.metrics.bytes.WithLabelValues("out").Add(float64(resp.OptimizedSize))
	logger.Debug("Optimize", "in", resp.OriginalSize, "out", resp.OptimizedSize, "cached", resp.Cached)

	writeJSON(w, logger, resp)
}

func (s *Server) lookup(ctx context.Context, logger *slog.Logger, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Warn("Cache lookup failed", "err", err)
		}
		return "", false
	}
	return data, true
}

func (s *Server) store(ctx context.Context, logger *slog.Logger, key, data string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		logger.Warn("Cache store failed", "err", err)
	}
}

// ListPlugins handles the GET /plugins request.
func (s *Server) ListPlugins(w http.ResponseWriter, r *http.Request) {
	list := s.registry.List()
	resp := make([]PluginInfo, 0, len(list))
	for _, p := range list {
		resp = append(resp, PluginInfo{
			Name:        p.Name,
			Description: p.Description,
			Default:     slices.Contains(plugins.DefaultPreset, p.Name),
		})
	}
	writeJSON(w, s.logger, resp)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{
		"app":         "svgo-http",
		"version":     strings.TrimSpace(svgo.Version),
		"api_version": s.apiVersion,
	})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "err", err)
	}
}
