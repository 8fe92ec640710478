package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"taxi-booking/internal/auth-service/adapters/driven/db"
	"taxi-booking/internal/auth-service/adapters/driver/myhttp/handle"
	"taxi-booking/internal/auth-service/adapters/driver/myhttp/middleware"
	"taxi-booking/internal/auth-service/core/service"
	"taxi-booking/internal/common/jwtauth"
	"taxi-booking/internal/config"
	"taxi-booking/internal/database"
	"taxi-booking/internal/metrics"
	"taxi-booking/internal/mylogger"

	"github.com/prometheus/client_golang/prometheus"
)

const WaitTime = 10

type Server struct {
	mux     *http.ServeMux
	cfg     *config.Config
	srv     *http.Server
	mylog   mylogger.Logger
	db      *database.DB
	limiter *middleware.RateLimiter
	reg     *prometheus.Registry
	migrate func(databaseURL string) error
	ctx     context.Context
	mu      sync.Mutex
}

func NewServer(ctx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	return &Server{
		ctx:     ctx,
		cfg:     cfg,
		mylog:   mylog,
		mux:     http.NewServeMux(),
		reg:     prometheus.NewRegistry(),
		migrate: database.RunMigrations,
	}
}

// Run initializes routes and starts listening. It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	if s.cfg.DB.MigrateOnStart {
		if err := s.migrate(s.cfg.DB.URL()); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		mylog.Info("Database migrations completed")
	}

	db, err := database.Start(s.ctx, s.cfg.DB, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	mylog.Info("Successful database connection")

	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%v", s.cfg.Srv.AuthServicePort),
		Handler:           s.mux,
		ReadHeaderTimeout: WaitTime * time.Second,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.AuthServicePort)

	mylog.Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.limiter != nil {
		s.limiter.Stop()
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Info("Database closed")
	}

	s.mylog.Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Configure wires the store, the engine and the handlers onto the mux.
func (s *Server) Configure() {
	userStore := db.NewUserStore(s.db)
	authService := service.NewAuthService(userStore, s.mylog)

	collector := metrics.NewCollector(s.reg)
	tokens := jwtauth.NewManager(s.cfg.App.JwtSecret, s.cfg.App.TokenTTL)
	authHandler := handle.NewAuthHandler(authService, tokens, collector, s.mylog)

	authMiddleware := jwtauth.NewAuthMiddleware(tokens)
	s.limiter = middleware.NewRateLimiter(s.cfg.App.LoginPerMinute, s.cfg.App.LoginBurst, s.mylog)

	s.mux.Handle("POST /auth/login", s.limiter.Wrap(authHandler.Login()))
	s.mux.Handle("POST /auth/register", s.limiter.Wrap(authHandler.Register()))
	s.mux.Handle("GET /auth/profile", authMiddleware.Wrap(authHandler.GetProfile()))
	s.mux.Handle("PATCH /auth/profile", authMiddleware.Wrap(authHandler.UpdateProfile()))

	s.mux.Handle("GET /metrics", metrics.Handler(s.reg))
}
