// Package server wires the configured stores, upstream clients and services
// into the HTTP server and runs it until a termination signal arrives.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrijs2005/guestwifi/internal/httpx"
	"github.com/dmitrijs2005/guestwifi/internal/logging"
	"github.com/dmitrijs2005/guestwifi/internal/server/awsx"
	"github.com/dmitrijs2005/guestwifi/internal/server/clients"
	"github.com/dmitrijs2005/guestwifi/internal/server/config"
	"github.com/dmitrijs2005/guestwifi/internal/server/events"
	"github.com/dmitrijs2005/guestwifi/internal/server/httpapi"
	"github.com/dmitrijs2005/guestwifi/internal/server/metrics"
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/guestwifi/internal/server/secrets"
	"github.com/dmitrijs2005/guestwifi/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	events events.Publisher
	server *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	repos, err := repomanager.New(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	provider, err := newSecretsProvider(ctx, c)
	if err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("secrets init error: %w", err)
	}

	var emitter metrics.Emitter = metrics.Nop{}
	var gatherer prometheus.Gatherer
	if c.MetricsEnabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		emitter = metrics.NewPrometheusEmitter(registry)
		gatherer = registry
	}

	var publisher events.Publisher = events.Nop{}
	if c.NATSURL != "" {
		p, err := events.Connect(c.NATSURL, c.NATSSubjectPrefix, nats.Name("guestwifi"))
		if err != nil {
			_ = repos.Close()
			return nil, err
		}
		publisher = p
	}

	doer := httpx.NewRetryDoer(&http.Client{Timeout: c.RequestTimeout}, c.MaxAttempts, metrics.RetryObserver(emitter))
	factory := clients.NewSecretFactory(provider, clients.FactoryOptions{
		MerakiKeyName:  c.MerakiAPIKeyParam,
		WebexTokenName: c.WebexTokenParam,
		MerakiBaseURL:  c.MerakiBaseURL,
		WebexBaseURL:   c.WebexBaseURL,
		Doer:           doer,
	})

	deps := services.Deps{
		Repos:   repos,
		Clients: factory,
		Config:  c,
		Events:  publisher,
		Metrics: emitter,
		Logger:  logger,
	}

	srv := httpapi.NewServer(httpapi.Options{
		Devices:   services.NewDeviceService(deps),
		CheckIns:  services.NewCheckInService(deps),
		Webhooks:  services.NewWebhookService(deps),
		Logger:    logger,
		JWTSecret: c.JWTSecret,
		Metrics:   emitter,
		Gatherer:  gatherer,
	})

	return &App{config: c, logger: logger, repos: repos, events: publisher, server: srv}, nil
}

// newSecretsProvider returns the source of upstream credentials. The
// static backend serves the configured values under the parameter names.
func newSecretsProvider(ctx context.Context, c *config.Config) (secrets.Provider, error) {
	switch c.SecretsBackend {
	case config.SecretsSSM:
		awsCfg, err := awsx.LoadConfig(ctx, c)
		if err != nil {
			return nil, err
		}
		return secrets.NewSSMProvider(awsx.NewSSMClient(awsCfg, c.AWSEndpoint)), nil
	default:
		return secrets.Static{
			c.MerakiAPIKeyParam: c.MerakiAPIKey,
			c.WebexTokenParam:   c.WebexToken,
		}, nil
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx, app.config.HTTPAddr); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "store", app.config.StoreBackend)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(context.Background())
}

func (app *App) close(ctx context.Context) {
	app.events.Close()
	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "store close failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
