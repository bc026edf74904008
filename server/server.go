package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/bloomscroll/bloomscroll/pkg/config"
	"github.com/bloomscroll/bloomscroll/pkg/curation"
	"github.com/bloomscroll/bloomscroll/pkg/db"
	"github.com/bloomscroll/bloomscroll/pkg/domain"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/database.go -pkg mocks -skip-ensure -fmt goimports . Database
//go:generate moq -out mocks/feed.go -pkg mocks -skip-ensure -fmt goimports . FeedService
//go:generate moq -out mocks/scheduler.go -pkg mocks -skip-ensure -fmt goimports . Scheduler

// Server represents HTTP server instance
type Server struct {
	config    ConfigProvider
	db        Database
	feed      FeedService
	scheduler Scheduler
	version   string
	debug     bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Database interface for server operations
type Database interface {
	CreateInteraction(ctx context.Context, interaction *domain.Interaction) error
	GetRecentCardIDs(ctx context.Context, userID string, limit int) ([]int64, error)
	CountInteractions(ctx context.Context, userID string) (int64, error)
	GetCardStats(ctx context.Context) (*db.CardStats, error)
}

// FeedService computes curated feed pages
type FeedService interface {
	ComputeFeedPage(ctx context.Context, req curation.FeedRequest) (*domain.FeedPage, error)
	DailyLimit() int
}

// Scheduler interface for on-demand operations
type Scheduler interface {
	IngestNow(ctx context.Context, name string) error
	EmbedNow(ctx context.Context) error
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetCurationConfig() config.CurationConfig
}

// New initializes a new server instance
func New(cfg ConfigProvider, database Database, feed FeedService, scheduler Scheduler, version string, debug bool) *Server {
	s := &Server{
		config:    cfg,
		db:        database,
		feed:      feed,
		scheduler: scheduler,
		version:   version,
		debug:     debug,
		router:    routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:         listen,
		Handler:      s.router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("bloomscroll", "bloomscroll", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /feed", s.feedHandler)
		r.HandleFunc("POST /interactions", s.createInteractionHandler)
		r.HandleFunc("GET /interactions/{user}/recent", s.recentInteractionsHandler)
		r.HandleFunc("POST /ingest", s.ingestHandler)
		r.HandleFunc("POST /ingest/{source}", s.ingestHandler)
		r.HandleFunc("POST /embed", s.embedHandler)
		r.HandleFunc("GET /status", s.statusHandler)
	})
}

// statusHandler returns server status with card counts and embedding coverage
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}

	if stats, err := s.db.GetCardStats(r.Context()); err == nil {
		coverage := 0.0
		if stats.Total > 0 {
			coverage = float64(stats.Embedded) / float64(stats.Total)
		}
		status["cards"] = map[string]interface{}{
			"total":    stats.Total,
			"embedded": stats.Embedded,
			"coverage": coverage,
		}
	} else {
		log.Printf("[WARN] failed to get card stats: %v", err)
	}

	RenderJSON(w, r, http.StatusOK, status)
}

// RenderJSON sends JSON response
func RenderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// RenderError sends error response as JSON
func RenderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	RenderJSON(w, r, code, map[string]string{"error": errMsg})
}
