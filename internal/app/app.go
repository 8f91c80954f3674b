// Package app wires the PayU notification receiver together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"payupl/config"
	"payupl/internal/external/kafka"
	"payupl/internal/payu"
	"payupl/internal/receiver"
	"payupl/internal/webhook"
	"payupl/pkg/health"
	"payupl/pkg/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// App holds the wired service. Build it with New and start it with Run.
type App struct {
	cfg    config.Config
	logger *slog.Logger
	server *http.Server
	client *payu.Client

	closers []func() error
}

// New builds the service from cfg without starting anything.
func New(cfg config.Config, l *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: l}

	processor, err := webhook.NewProcessor(cfg.SecondKey,
		webhook.WithSink(webhook.NewSlogSink(l)),
		webhook.WithSignatureHeader(cfg.WebhookSignatureHeader),
	)
	if err != nil {
		return nil, fmt.Errorf("app - New - webhook.NewProcessor: %w", err)
	}

	registry := health.NewRegistry()

	var dispatcher receiver.Dispatcher
	switch cfg.WebhookMode {
	case config.WebhookModeKafka:
		l.Info("Webhook mode: kafka",
			slog.Any("brokers", cfg.KafkaBrokers),
			slog.String("topic", cfg.KafkaNotificationsTopic),
		)
		publisher := kafka.NewPublisher(l, cfg.KafkaBrokers, cfg.KafkaNotificationsTopic)
		a.closers = append(a.closers, publisher.Close)
		registry.Register(health.NewKafkaChecker(cfg.KafkaBrokers, cfg.KafkaNotificationsTopic))
		dispatcher = receiver.NewPublishDispatcher(publisher)
	default:
		l.Info("Webhook mode: log")
		dispatcher = receiver.NewLogDispatcher(l)
	}

	if cfg.HasAPICredentials() {
		client, err := payu.NewClient(payu.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			BaseURL:      cfg.BaseURL,
			Environment:  cfg.Environment,
			OpenTimeout:  cfg.OpenTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			Retry:        payu.DefaultRetryConfig(),
			Locale:       cfg.Locale,
			Logger:       l,
		})
		if err != nil {
			return nil, fmt.Errorf("app - New - payu.NewClient: %w", err)
		}
		a.client = client
		registry.Register(tokenChecker(client))

		if cfg.AutoCapture {
			dispatcher = receiver.NewCaptureDispatcher(dispatcher, client, l)
		}
	}

	handler := receiver.NewHandler(processor, dispatcher, receiver.NewDeduplicator(cfg.WebhookDedupTTL), l)

	gin.SetMode(gin.ReleaseMode)
	engine := receiver.NewEngine()
	receiver.NewRouter(cfg.WebhookPath, handler, registry).SetUp(engine)

	a.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

// tokenChecker reports down until the first OAuth token arrives.
func tokenChecker(c *payu.Client) health.Checker {
	return health.CheckerFunc{
		Label: "payu_oauth",
		Fn: func(context.Context) health.Result {
			if c.AccessToken() == "" {
				return health.Down("no access token yet")
			}
			return health.Up()
		},
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("PayU webhook receiver started",
			slog.Int("port", a.cfg.Port),
			slog.String("path", a.cfg.WebhookPath),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("Shutting down PayU webhook receiver")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	if a.client != nil {
		g.Go(func() error {
			return a.client.KeepTokenFresh(ctx, payu.GrantTypeClientCredentials)
		})
	}

	err := g.Wait()
	a.logger.Info("PayU webhook receiver stopped")
	return err
}

func (a *App) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Error("Failed to close resource", slog.String("error", err.Error()))
		}
	}
}

// Run sets up logging from cfg and serves until ctx is done.
func Run(ctx context.Context, cfg config.Config) error {
	l := logger.Setup(logger.Options{
		Level:   cfg.LogLevel,
		Console: cfg.LogFormat == "console",
	})

	a, err := New(cfg, l)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}
