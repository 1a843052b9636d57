// Package server exposes the parser over HTTP.
package server

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/teranos/chartparse/am"
	"github.com/teranos/chartparse/logger"
	"github.com/teranos/chartparse/pulse/budget"
	"github.com/teranos/chartparse/syn/engine"
)

// ShutdownTimeout bounds how long Start waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// ServerState tracks the lifecycle of a Server.
type ServerState int32

const (
	ServerStateStarting ServerState = iota
	ServerStateRunning
	ServerStateDraining
	ServerStateStopped
)

// Server is the HTTP API for the parser.
type Server struct {
	router  chi.Router
	engine  *engine.Engine
	limiter *budget.Limiter
	origins []string
	logger  *zap.SugaredLogger

	state atomic.Int32
}

// New creates the server and its routes. Parses are limited to
// cfg.Server.ParsesPerMinute.
func New(eng *engine.Engine, cfg *am.Config) *Server {
	s := &Server{
		engine:  eng,
		limiter: budget.NewLimiter(cfg.Server.ParsesPerMinute),
		origins: cfg.GetServerAllowedOrigins(),
		logger:  logger.ComponentLogger("server"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(s.corsMiddleware)

	r.Get("/health", s.HandleHealth)
	r.Get("/metrics", s.HandleMetrics)

	r.Post("/parse", s.HandleParse)
	r.Get("/grammar/rules", s.HandleGrammarRules)

	r.Get("/runs", s.HandleRuns)
	r.Get("/runs/{id}", s.HandleRun)

	s.router = r
}
