// Package httpapi is the HTTP surface of the server: device enrolment, guest
// check-in and the messaging webhook.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/guestwifi/internal/common"
	"github.com/dmitrijs2005/guestwifi/internal/logging"
	"github.com/dmitrijs2005/guestwifi/internal/server/metrics"
	"github.com/dmitrijs2005/guestwifi/internal/server/reconcile"
	"github.com/dmitrijs2005/guestwifi/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type DeviceService interface {
	Get(ctx context.Context, serial string) (reconcile.DeviceState, error)
	Enroll(ctx context.Context, serial, email string) error
	Unenroll(ctx context.Context, serial, email string) error
}

type CheckInService interface {
	CheckIn(ctx context.Context, in services.CheckIn) error
}

type WebhookService interface {
	Handle(ctx context.Context, body []byte, signature string) error
}

type Options struct {
	Devices  DeviceService
	CheckIns CheckInService
	Webhooks WebhookService
	Logger   logging.Logger

	// JWTSecret, when set, requires a bearer token on the device endpoints.
	JWTSecret string

	// Metrics and Gatherer are optional; with a Gatherer /metrics is served.
	Metrics  metrics.Emitter
	Gatherer prometheus.Gatherer
}

type Server struct {
	opts     Options
	log      logging.Logger
	router   *mux.Router
	validate *validator.Validate
}

func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logging.Nop{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}
	s := &Server{
		opts:     opts,
		log:      opts.Logger.With("module", "httpapi"),
		router:   mux.NewRouter(),
		validate: newValidator(),
	}
	s.setupRoutes()
	return s
}

// Handler returns the complete handler chain.
func (s *Server) Handler() http.Handler {
	return s.recoverer(cors(s.router))
}

func (s *Server) setupRoutes() {
	s.router.Use(metrics.Middleware(s.opts.Metrics))

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if s.opts.Gatherer != nil {
		s.router.Handle("/metrics", metrics.Handler(s.opts.Gatherer)).Methods(http.MethodGet)
	}

	s.router.Handle("/devices", s.authenticate(http.HandlerFunc(s.handleEnroll))).Methods(http.MethodPost)
	s.router.Handle("/devices", s.authenticate(http.HandlerFunc(s.handleUnenroll))).Methods(http.MethodDelete)
	s.router.Handle("/devices/{serial}", s.authenticate(http.HandlerFunc(s.handleGetDevice))).Methods(http.MethodGet)

	s.router.HandleFunc("/users", s.handleCheckIn).Methods(http.MethodPost)
	s.router.HandleFunc("/webhooks/webex", s.handleWebhook).Methods(http.MethodPost)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(r.Context(), w, errRouteNotFound)
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Title: "Method not allowed", InvalidParams: []common.InvalidParam{}})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	listen, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.log.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error(shutdownCtx, "HTTP server shutdown failed", "error", err)
		}
	}()

	s.log.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
