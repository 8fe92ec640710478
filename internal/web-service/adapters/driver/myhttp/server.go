package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"taxi-booking/internal/common/jwtauth"
	"taxi-booking/internal/common/rabbitmq"
	"taxi-booking/internal/config"
	"taxi-booking/internal/database"
	"taxi-booking/internal/metrics"
	"taxi-booking/internal/mylogger"
	"taxi-booking/internal/web-service/adapters/driven/bm"
	"taxi-booking/internal/web-service/adapters/driven/db"
	"taxi-booking/internal/web-service/adapters/driver/myhttp/effects"
	"taxi-booking/internal/web-service/adapters/driver/myhttp/handle"
	"taxi-booking/internal/web-service/adapters/driver/myhttp/ws"
	"taxi-booking/internal/web-service/core/service"

	"github.com/prometheus/client_golang/prometheus"
)

const WaitTime = 10

type Server struct {
	cfg       *config.Config
	srv       *http.Server
	mylog     mylogger.Logger
	db        *database.DB
	mb        *rabbitmq.RabbitMQ
	deliverer *effects.Dispatcher
	reg       *prometheus.Registry
	migrate   func(databaseURL string) error
	ctx       context.Context
	appCtx    context.Context
	mu        sync.Mutex
}

func NewServer(ctx, appCtx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	return &Server{
		ctx:     ctx,
		appCtx:  appCtx,
		cfg:     cfg,
		mylog:   mylog,
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

	// Initialize database connection
	store, err := database.Start(s.ctx, s.cfg.DB, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = store
	mylog.Info("Successful database connection")

	// Initialize RabbitMQ connection
	mb, err := rabbitmq.New(s.appCtx, s.cfg.RabbitMq, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.mb = mb
	mylog.Info("Successful message broker connection")

	handler := s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%v", s.cfg.Srv.WebServicePort),
		Handler:           handler,
		ReadHeaderTimeout: WaitTime * time.Second,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.WebServicePort)

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

	// pending notifications still need the broker
	if s.deliverer != nil {
		s.deliverer.Wait()
	}

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Error("Failed to close rabbitmq", err)
		}
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

// Configure builds the repositories, services and handlers.
func (s *Server) Configure() http.Handler {
	// Repositories
	driverRepo := db.NewDriverRepo(s.db)
	notifier := bm.NewNotifier(s.mb)

	// services
	driverService := service.NewDriverService(driverRepo, s.mylog)

	collector := metrics.NewCollector(s.reg)
	dispatcher := ws.NewDispatcher(s.ctx, s.mylog)
	s.deliverer = effects.NewDispatcher(notifier, dispatcher, collector, s.mylog, s.cfg.App.NotifyAsync)

	// handlers
	driverHandler := handle.NewDriverHandler(driverService, s.deliverer, collector, s.mylog)

	tokens := jwtauth.NewManager(s.cfg.App.JwtSecret, s.cfg.App.TokenTTL)
	authMiddleware := jwtauth.NewAuthMiddleware(tokens)

	return NewRouter(driverHandler, dispatcher, authMiddleware, s.reg)
}
