// Package ioserver provides the JSON query API of the catalog.
package ioserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	dscat "github.com/ncpp/dscat/pkg"
	"github.com/ncpp/dscat/pkg/config"
	"github.com/ncpp/dscat/pkg/errcode"
	"github.com/ncpp/dscat/pkg/query"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server answers catalog queries over HTTP.
type Server struct {
	engine   query.Engine
	cfg      config.ServerConfig
	cache    *cache.Cache
	registry *prometheus.Registry
	metrics  *metrics
	router   chi.Router
	enc      gnfmt.GNjson
}

// cached is a rendered response.
type cached struct {
	status int
	body   []byte
}

// New creates a Server with its own metrics registry.
func New(e query.Engine, cfg config.ServerConfig) (*Server, error) {
	reg := prometheus.NewRegistry()
	m, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}
	ttl := time.Duration(cfg.CacheMinutes) * time.Minute
	res := &Server{
		engine:   e,
		cfg:      cfg,
		cache:    cache.New(ttl, 0),
		registry: reg,
		metrics:  m,
	}
	res.router = res.routes()
	return res, nil
}

// Handler returns the router of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "If-None-Match"},
		ExposedHeaders: []string{"ETag"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	r.Get("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}).ServeHTTP)
	r.Route("/api", func(r chi.Router) {
		r.Get("/variables", s.variables)
		r.Get("/packages", s.packages)
	})
	return r
}

// Run listens on the configured port until ctx is cancelled, then shuts
// the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return StartError(addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve answers requests on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	slog.Info("Server started", "addr", ln.Addr().String())

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return StartError(ln.Addr().String(), err)
		case <-ticker.C:
			s.cache.DeleteExpired()
		case <-ctx.Done():
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutCtx); err != nil {
				return err
			}
			<-errCh
			slog.Info("Server stopped")
			return nil
		}
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.write(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": dscat.Version,
	})
}

func (s *Server) variables(w http.ResponseWriter, r *http.Request) {
	s.serveQuery(w, r, "variables", func(ctx context.Context) (any, string, error) {
		f, err := fieldFilter(r.URL.Query())
		if err != nil {
			return nil, "", badRequest(err)
		}
		res, err := s.engine.ResolveVariableOrIndex(ctx, f)
		if err != nil {
			return nil, "", err
		}
		return res, string(res.Status), nil
	})
}

func (s *Server) packages(w http.ResponseWriter, r *http.Request) {
	s.serveQuery(w, r, "packages", func(ctx context.Context) (any, string, error) {
		f, err := packageFilter(r.URL.Query())
		if err != nil {
			return nil, "", badRequest(err)
		}
		res, err := s.engine.ResolvePackage(ctx, f)
		if err != nil {
			return nil, "", err
		}
		return res, string(res.Status), nil
	})
}

// serveQuery answers from cache when possible. The cache key is a UUIDv5
// of the path with sorted query parameters and doubles as ETag.
func (s *Server) serveQuery(
	w http.ResponseWriter,
	r *http.Request,
	endpoint string,
	resolve func(context.Context) (any, string, error),
) {
	key := gnuuid.New(r.URL.Path + "?" + r.URL.Query().Encode()).String()
	etag := `"` + key + `"`

	if v, ok := s.cache.Get(key); ok {
		s.metrics.cacheHits.WithLabelValues(endpoint).Inc()
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		c := v.(cached)
		w.Header().Set("ETag", etag)
		s.writeRaw(w, c.status, c.body)
		return
	}

	start := time.Now()
	res, outcome, err := resolve(r.Context())
	s.metrics.duration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	status := http.StatusOK
	var body any = res
	if err != nil {
		status, outcome = errorStatus(err)
		body = map[string]string{"error": errorMessage(err)}
		if status == http.StatusInternalServerError {
			slog.Error("Query failed", "endpoint", endpoint, "error", err)
		}
	}
	s.metrics.queries.WithLabelValues(endpoint, outcome).Inc()

	data, err := s.enc.Encode(body)
	if err != nil {
		slog.Error("Cannot encode response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if s.cfg.CacheMinutes > 0 &&
		(status == http.StatusOK || status == http.StatusNotFound) {
		s.cache.SetDefault(key, cached{status: status, body: data})
		w.Header().Set("ETag", etag)
	}
	s.writeRaw(w, status, data)
}

func (s *Server) write(w http.ResponseWriter, status int, v any) {
	data, err := s.enc.Encode(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	s.writeRaw(w, status, data)
}

func (s *Server) writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

type argumentError struct{ err error }

func (e argumentError) Error() string { return e.err.Error() }

func badRequest(err error) error { return argumentError{err: err} }

func errorStatus(err error) (int, string) {
	var argErr argumentError
	if errors.As(err, &argErr) {
		return http.StatusBadRequest, outcomeBadRequest
	}
	switch errcode.Code(err) {
	case errcode.QueryNoResultError:
		return http.StatusNotFound, outcomeNoResult
	case errcode.QueryArgumentError:
		return http.StatusBadRequest, outcomeBadRequest
	default:
		return http.StatusInternalServerError, outcomeError
	}
}

func errorMessage(err error) string {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) && gnErr.Err != nil {
		return gnErr.Err.Error()
	}
	return err.Error()
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Info("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
