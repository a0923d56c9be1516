package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/cors"

	"github.com/mnohosten/laura-stem/pkg/auth"
	"github.com/mnohosten/laura-stem/pkg/cache"
	"github.com/mnohosten/laura-stem/pkg/compare"
	"github.com/mnohosten/laura-stem/pkg/compression"
	"github.com/mnohosten/laura-stem/pkg/corpus"
	gql "github.com/mnohosten/laura-stem/pkg/graphql"
	"github.com/mnohosten/laura-stem/pkg/metrics"
	"github.com/mnohosten/laura-stem/pkg/server/handlers"
	"github.com/mnohosten/laura-stem/pkg/stemmer"
	"github.com/mnohosten/laura-stem/pkg/text"
)

// CorpusFile is the name of the corpus database inside DataDir
const CorpusFile = "corpus.db"

// Server is the HTTP front end of the stemming service
type Server struct {
	config       *Config
	logger       *slog.Logger
	router       *chi.Mux
	httpSrv      *http.Server
	tlsConfig    *tls.Config
	startTime    time.Time
	analyzer     *text.Analyzer
	store        *corpus.Store
	comparer     *compare.Comparer
	watcher      *text.StopWordWatcher
	keys         *auth.KeyStore
	metrics      *metrics.Collector
	promExporter *metrics.PrometheusExporter
	streams      *handlers.StreamManager

	ready    chan struct{}
	addr     net.Addr
	shutdown sync.Once
}

// New creates a new HTTP server instance
func New(config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := config.Logger
	if logger == nil {
		logger = config.NewLogger(os.Stderr)
	}

	srv := &Server{
		config:    config,
		logger:    logger,
		router:    chi.NewRouter(),
		startTime: time.Now(),
		analyzer:  newAnalyzer(config),
		keys:      auth.NewKeyStore(),
		metrics:   metrics.NewCollector(),
		streams:   handlers.NewStreamManager(config.Heartbeat),
		ready:     make(chan struct{}),
	}
	srv.promExporter = metrics.NewPrometheusExporter(srv.metrics)

	if err := srv.open(); err != nil {
		srv.closeResources()
		return nil, err
	}

	srv.setupMiddleware()
	srv.setupRoutes()

	if config.EnableGraphQL {
		if err := srv.setupGraphQLRoutes(); err != nil {
			srv.closeResources()
			return nil, fmt.Errorf("failed to setup GraphQL routes: %w", err)
		}
	}

	srv.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      srv.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
		TLSConfig:    srv.tlsConfig,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return srv, nil
}

// open loads the optional collaborators named in the config.
func (s *Server) open() error {
	cfg := s.config

	for _, key := range cfg.APIKeys {
		role, _ := auth.ParseRole(key.Role)
		if err := s.keys.AddKey(key.Name, key.Secret, role); err != nil {
			return fmt.Errorf("failed to add api key %s: %w", key.Name, err)
		}
	}

	if cfg.StopWordsFile != "" {
		watcher, err := text.WatchStopWords(s.analyzer, cfg.StopWordsFile, s.logger)
		if err != nil {
			return fmt.Errorf("failed to load stop words: %w", err)
		}
		s.watcher = watcher
	}

	if cfg.DataDir != "" {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		algo, _ := compression.ParseAlgorithm(cfg.Compression)
		compressionConfig := compression.DefaultConfig()
		compressionConfig.Algorithm = algo

		store, err := corpus.Open(filepath.Join(cfg.DataDir, CorpusFile), &corpus.Options{
			Compression: compressionConfig,
			Analyzer:    s.analyzer,
			Logger:      s.logger,
		})
		if err != nil {
			return err
		}
		s.store = store
	}

	if cfg.EnableCompare {
		comparer, err := compare.NewComparer()
		if err != nil {
			return fmt.Errorf("failed to load comparison stemmers: %w", err)
		}
		s.comparer = comparer
	}

	if cfg.EnableTLS {
		tlsConfig, err := LoadTLSConfig(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return err
		}
		s.tlsConfig = tlsConfig
	}
	return nil
}

// setupMiddleware configures the middleware shared by every route
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)

	if s.config.EnableLogging {
		s.router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger:  slog.NewLogLogger(s.logger.Handler(), slog.LevelInfo),
			NoColor: true,
		}))
	}

	if s.config.EnableCORS {
		s.router.Use(cors.New(cors.Options{
			AllowedOrigins: s.config.AllowedOrigins,
			AllowedMethods: s.config.AllowedMethods,
			AllowedHeaders: s.config.AllowedHeaders,
			MaxAge:         86400,
		}).Handler)
	}
}

// setupRoutes configures HTTP routes
func (s *Server) setupRoutes() {
	var batch *stemmer.BatchOptions
	if s.config.BatchWorkers > 0 {
		batch = stemmer.DefaultBatchOptions()
		batch.Workers = s.config.BatchWorkers
	}

	h := handlers.New(handlers.Options{
		Analyzer:       s.analyzer,
		Store:          s.store,
		Comparer:       s.comparer,
		Metrics:        s.metrics,
		Batch:          batch,
		MaxBatchWords:  s.config.MaxBatchWords,
		MaxRequestSize: s.config.MaxRequestSize,
		Logger:         s.logger,
	})

	read := s.keys.Middleware(auth.PermissionRead)
	write := s.keys.Middleware(auth.PermissionWrite)

	// Websocket upgrades must not be wrapped by gzip or the timeout handler.
	s.router.With(read).Get("/_ws/stem", h.HandleStream(s.streams))

	s.router.Group(func(r chi.Router) {
		if s.config.EnableGzip {
			r.Use(func(next http.Handler) http.Handler { return gzhttp.GzipHandler(next) })
		}
		r.Use(s.requestSizeLimitMiddleware)
		if s.config.RequestTimeout > 0 {
			r.Use(middleware.Timeout(s.config.RequestTimeout))
		}

		// Public
		r.Get("/_health", h.Health(s.startTime))
		r.Get("/_metrics", s.handlePrometheusMetrics)

		r.With(s.keys.Middleware(auth.PermissionViewStats)).Get("/_stats", h.Stats)
		r.With(s.keys.Middleware(auth.PermissionManageKeys)).Mount("/_keys", s.keys.Routes())

		r.Group(func(r chi.Router) {
			r.Use(read)

			r.Get("/_stem/{word}", h.StemWord)
			r.Post("/_stem", h.StemBatch)
			r.Post("/_correct", h.Correct)
			r.Get("/_corrections", h.Corrections)
			r.Post("/_analyze", h.Analyze)
			r.Get("/_compare/{word}", h.Compare)
			r.Post("/_vectorize", h.Vectorize)

			r.Get("/_docs", h.ListDocuments)
			r.Get("/_docs/_vectors", h.DocumentVectors)
			r.Get("/_docs/{id}", h.GetDocument)
			r.Post("/_search", h.Search)
		})

		r.Group(func(r chi.Router) {
			r.Use(write)

			r.Post("/_docs", h.AddDocument)
			r.Delete("/_docs/{id}", h.DeleteDocument)
		})
	})
}

// setupGraphQLRoutes configures GraphQL routes
func (s *Server) setupGraphQLRoutes() error {
	graphqlHandler, err := gql.NewHandler(gql.Services{
		Analyzer: s.analyzer,
		Store:    s.store,
		Comparer: s.comparer,
	})
	if err != nil {
		return err
	}

	// Mutations run through the same endpoint, so it needs write access.
	s.router.With(s.requestSizeLimitMiddleware, s.keys.Middleware(auth.PermissionWrite)).Handle("/graphql", graphqlHandler)
	s.router.Get("/graphiql", gql.GraphiQLHandler())

	s.logger.Info("GraphQL API enabled", "endpoint", "/graphql", "playground", "/graphiql")
	return nil
}

// requestSizeLimitMiddleware limits request body size
func (s *Server) requestSizeLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxRequestSize)
		next.ServeHTTP(w, r)
	})
}

// handlePrometheusMetrics handles the Prometheus metrics endpoint
func (s *Server) handlePrometheusMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	if err := s.promExporter.WriteMetrics(w); err != nil {
		http.Error(w, fmt.Sprintf("Error writing metrics: %v", err), http.StatusInternalServerError)
		return
	}
}

func newAnalyzer(config *Config) *text.Analyzer {
	opts := []text.Option{text.WithCorrections(config.Corrections)}
	if config.StemCacheSize > 0 {
		opts = append(opts, text.WithStemCache(cache.NewSharded[string](config.StemCacheSize, 16)))
	}
	return text.NewAnalyzer(opts...)
}

// Router returns the root handler
func (s *Server) Router() http.Handler {
	return s.router
}

// Metrics returns the metrics collector
func (s *Server) Metrics() *metrics.Collector {
	return s.metrics
}

// Keys returns the API key store
func (s *Server) Keys() *auth.KeyStore {
	return s.keys
}

// Addr blocks until the server listens and returns its address
func (s *Server) Addr() net.Addr {
	<-s.ready
	return s.addr
}

// Start runs the server until SIGINT or SIGTERM
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is cancelled or the listener fails, then shuts down
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpSrv.Addr)
	if err != nil {
		s.closeResources()
		return fmt.Errorf("failed to listen: %w", err)
	}
	if s.tlsConfig != nil {
		ln = tls.NewListener(ln, s.tlsConfig)
	}
	s.addr = ln.Addr()
	close(s.ready)

	protocol, wsProtocol := "http", "ws"
	if s.tlsConfig != nil {
		protocol, wsProtocol = "https", "wss"
	}
	s.logger.Info("laura-stem server starting",
		"url", fmt.Sprintf("%s://%s", protocol, s.addr),
		"websocket", fmt.Sprintf("%s://%s/_ws/stem", wsProtocol, s.addr),
		"data_dir", s.config.DataDir,
		"api_keys", s.keys.Len(),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		s.closeResources()
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown requested", "reason", context.Cause(ctx))
		return s.Shutdown()
	}
}

// Shutdown gracefully stops the HTTP server and closes the corpus. It is safe
// to call more than once.
func (s *Server) Shutdown() error {
	var err error
	s.shutdown.Do(func() {
		s.logger.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if shutdownErr := s.httpSrv.Shutdown(ctx); shutdownErr != nil {
			s.logger.Error("server shutdown error", "error", shutdownErr)
		}
		err = s.closeResources()

		s.logger.Info("server shutdown complete")
	})
	return err
}

func (s *Server) closeResources() error {
	s.streams.Close()
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			s.logger.Warn("error closing stop word watcher", "error", err)
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error("corpus close error", "error", err)
			return err
		}
	}
	return nil
}
