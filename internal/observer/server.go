package observer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/magefree/mage-rules-go/internal/metrics"
)

// Config configures the observer server.
type Config struct {
	Address        string
	AllowedOrigins []string
	// MaxUpdatesPerSecond caps the snapshots written to each observer.
	// Zero or less means unlimited.
	MaxUpdatesPerSecond float64
	// MaxClients of zero means unlimited.
	MaxClients int
}

func (c Config) updateLimit() rate.Limit {
	if c.MaxUpdatesPerSecond <= 0 {
		return rate.Inf
	}
	return rate.Limit(c.MaxUpdatesPerSecond)
}

// RouterConfig holds the dependencies of the HTTP router.
type RouterConfig struct {
	Feed           *Feed
	Hub            *Hub
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter builds the observer HTTP API:
//
//	GET /healthz    liveness
//	GET /snapshot   latest snapshot as JSON
//	GET /board.png  latest snapshot rendered as an image
//	GET /ws         websocket stream of snapshots
//	GET /metrics    Prometheus metrics
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Get("/snapshot", func(w http.ResponseWriter, r *http.Request) {
		snap, ok := cfg.Feed.Latest()
		if !ok {
			http.Error(w, "no snapshot yet", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snap); err != nil {
			logger.Warn("failed to write snapshot", zap.Error(err))
		}
	})

	r.Get("/board.png", func(w http.ResponseWriter, r *http.Request) {
		snap, ok := cfg.Feed.Latest()
		if !ok {
			http.Error(w, "no snapshot yet", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		if err := RenderBoard(w, snap); err != nil {
			logger.Warn("failed to render board", zap.Error(err))
		}
	})

	if cfg.Hub != nil {
		r.Get("/ws", cfg.Hub.HandleWebSocket)
	}
	r.Handle("/metrics", metrics.Handler())

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

// Server serves the observer API for one game.
type Server struct {
	cfg    Config
	hub    *Hub
	http   *http.Server
	logger *zap.Logger
}

// NewServer wires a hub and router around feed.
func NewServer(cfg Config, feed *Feed, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	hub := NewHub(feed, cfg, logger)
	return &Server{
		cfg:    cfg,
		hub:    hub,
		logger: logger,
		http: &http.Server{
			Addr: cfg.Address,
			Handler: NewRouter(RouterConfig{
				Feed:           feed,
				Hub:            hub,
				AllowedOrigins: cfg.AllowedOrigins,
				Logger:         logger,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go s.hub.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("observer server listening", zap.String("address", s.cfg.Address))
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("observer server stopped")
	return nil
}
