package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"

	"pitch-engine/engine"
	"pitch-engine/models"
	"pitch-engine/storage"
)

// PitchStore is the persistence the server reads from and the engine writes to
type PitchStore interface {
	engine.Store
	GetRun(ctx context.Context, runID string) (*storage.Run, error)
	LoadPitches(ctx context.Context, gameID string) ([]models.PitchState, error)
	Ping(ctx context.Context) error
}

type Server struct {
	pool       *pgxpool.Pool
	store      PitchStore
	router     *mux.Router
	httpServer *http.Server
	config     *Config
	engine     *engine.Engine
	cache      *ResultCache
	metrics    *Metrics
	done       chan struct{}
}

func NewServer(config *Config) (*Server, error) {
	var pool *pgxpool.Pool
	var store PitchStore

	if config.StoreEnabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		db, err := storage.NewPool(ctx, config.PoolConfig())
		if err != nil {
			return nil, err
		}

		pgStore := storage.NewPostgresStore(db)
		if err := pgStore.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}

		pool = db
		store = pgStore
	} else {
		log.Printf("STORE_ENABLED=false, reduced games are kept in memory only")
		store = storage.NewMemoryStore()
	}

	s := newServer(config, store, pool)
	go s.cleanupRuns(time.Hour)
	return s, nil
}

// newServer wires a server around an existing store
func newServer(config *Config, store PitchStore, pool *pgxpool.Pool) *Server {
	metrics := NewMetrics()
	s := &Server{
		pool:    pool,
		store:   store,
		config:  config,
		router:  mux.NewRouter(),
		engine:  engine.NewEngine(store, config.Workers),
		cache:   NewResultCache(config.CacheSize, config.CacheTTL, metrics),
		metrics: metrics,
		done:    make(chan struct{}),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.HandleFunc("/health", s.healthHandler).Methods("GET")
	s.router.HandleFunc("/metrics", s.handleMetrics).Methods("GET")

	// API version prefix
	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Reduction endpoints
	api.HandleFunc("/reduce", s.reduceHandler).Methods("POST")
	api.HandleFunc("/runs", s.createRunHandler).Methods("POST")
	api.HandleFunc("/runs/{id}/status", s.runStatusHandler).Methods("GET")

	// Stored results
	api.HandleFunc("/games/{id}/pitches", s.gamePitchesHandler).Methods("GET")

	// Apply middleware
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.recoveryMiddleware)
}

// handler returns the router wrapped with CORS and compression
func (s *Server) handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         86400,
	})

	return c.Handler(handlers.CompressHandler(s.router))
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // Longer timeout for large games
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting Pitch Engine on port %s with %d workers",
		s.config.Port, s.config.Workers)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down Pitch Engine...")

	close(s.done)

	// Shutdown HTTP server
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}

	// Let in-flight runs finish writing before the pool goes away
	finished := make(chan struct{})
	go func() {
		s.engine.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-ctx.Done():
		log.Printf("Shutdown deadline reached with runs still in progress")
	}

	// Close database connection
	if s.pool != nil {
		s.pool.Close()
	}

	return err
}

// cleanupRuns periodically drops finished runs from memory
func (s *Server) cleanupRuns(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.engine.CleanupOldRuns(s.config.RunRetention)
		case <-s.done:
			return
		}
	}
}

// Middleware
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a custom response writer to capture status code
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(lrw, r)

		duration := time.Since(start)
		s.metrics.IncrementRequests()
		s.metrics.AddResponseTime(duration)
		if lrw.statusCode >= http.StatusInternalServerError {
			s.metrics.IncrementErrors()
		}
		log.Printf("%s %s %d %v", r.Method, r.RequestURI, lrw.statusCode, duration)
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Panic recovered: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Helper types and functions
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func main() {
	config, err := NewConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	server, err := NewServer(config)
	if err != nil {
		log.Fatal("Failed to create server:", err)
	}

	// Graceful shutdown
	idle := make(chan struct{})
	go func() {
		defer close(idle)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatal("Server shutdown failed:", err)
		}
		log.Println("Server shutdown complete")
	}()

	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server failed to start:", err)
	}
	<-idle
}
