package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"taxi-booking/internal/common/rabbitmq"
	"taxi-booking/internal/config"
	"taxi-booking/internal/email-service/adapters/driven/smtp"
	"taxi-booking/internal/email-service/adapters/driver/consumer"
	"taxi-booking/internal/email-service/core/service"
	"taxi-booking/internal/metrics"
	"taxi-booking/internal/mylogger"

	"github.com/prometheus/client_golang/prometheus"
)

const WaitTime = 10

// Server runs the email consumers and serves their metrics.
type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	srv    *http.Server
	mylog  mylogger.Logger
	mb     *rabbitmq.RabbitMQ
	reg    *prometheus.Registry
	ctx    context.Context
	appCtx context.Context
	mu     sync.Mutex
	wg     sync.WaitGroup
}

func NewServer(ctx, appCtx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	return &Server{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		mylog:  mylog,
		mux:    http.NewServeMux(),
		reg:    prometheus.NewRegistry(),
	}
}

// Run connects to the broker, starts the consumers and listens for metric
// scrapes. It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	mb, err := rabbitmq.New(s.appCtx, s.cfg.RabbitMq, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.mb = mb
	mylog.Info("Successful message broker connection")

	sender, err := smtp.NewSender(s.cfg.SMTP)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector(s.reg)
	emailService := service.NewEmailService(sender, collector, s.mylog)

	worker := consumer.New(s.ctx, &s.wg, s.mylog, s.mb, emailService, s.cfg.App.EmailWorkers)
	if err := worker.Run(); err != nil {
		return fmt.Errorf("failed to start email consumer: %w", err)
	}
	mylog.Info("Email consumers started", "workers", s.cfg.App.EmailWorkers)

	s.mux.Handle("GET /metrics", metrics.Handler(s.reg))

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%v", s.cfg.Srv.EmailServicePort),
		Handler:           s.mux,
		ReadHeaderTimeout: WaitTime * time.Second,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.EmailServicePort)

	mylog.Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Info("Shutting down email service...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	// workers exit once ctx is done
	s.wg.Wait()

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Error("Failed to close rabbitmq", err)
			return fmt.Errorf("rabbitmq close: %w", err)
		}
	}

	s.mylog.Info("Email service shut down gracefully")
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
