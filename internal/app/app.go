package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"NewsIntake/internal/config"
	"NewsIntake/internal/infrastructure/docai"
	"NewsIntake/internal/infrastructure/gcs"
	"NewsIntake/internal/infrastructure/gemini"
	"NewsIntake/internal/infrastructure/office"
	"NewsIntake/internal/infrastructure/sanity"
	"NewsIntake/internal/logging"
	"NewsIntake/internal/metrics"
	"NewsIntake/internal/notify"
	"NewsIntake/internal/ports"
	"NewsIntake/internal/server"
	"NewsIntake/internal/usecase"
)

// Application wires configuration into the pipeline and the HTTP surface.
type Application struct {
	cfg     config.Config
	logger  *slog.Logger
	router  http.Handler
	cleanup []func()
}

// New builds a runnable application instance. All clients are constructed
// here and injected; nothing holds package-level state.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	metrics.Init("news-intake", "1.0")

	store := sanity.NewClient(cfg.ContentStore)
	storage := gcs.NewStorage(cfg.Storage)
	processor := docai.NewClient(cfg.DocAI, cfg.Storage.Token)
	converter := office.NewConverter()

	// Absence of the generator credential is mock mode, not an error.
	var generator ports.TextGenerator
	if cfg.Generator.APIKey != "" {
		generator = gemini.NewClient(cfg.Generator)
	}

	var cleanup []func()
	channels := make([]ports.NotifyChannel, 0, 3)
	if cfg.Notifications.Slack.WebhookURL != "" {
		channels = append(channels, notify.NewSlackChannel(cfg.Notifications.Slack.WebhookURL))
	}
	if cfg.Notifications.Email.Host != "" && cfg.Notifications.Email.To != "" {
		channels = append(channels, notify.NewEmailChannel(cfg.Notifications.Email))
	}
	if cfg.Notifications.NATS.URL != "" {
		natsChannel, err := notify.NewNATSChannel(cfg.Notifications.NATS.URL, cfg.Notifications.NATS.Subject)
		if err != nil {
			baseLogger.Warn("nats channel disabled", "error", err)
		} else {
			channels = append(channels, natsChannel)
			cleanup = append(cleanup, natsChannel.Close)
		}
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Store:     store,
		Archiver:  usecase.NewArchiver(storage, nil, baseLogger.With("component", "archiver")),
		Extractor: usecase.NewRouter(converter, processor, storage, nil, baseLogger.With("component", "extractor")),
		Drafter:   usecase.NewDraftGenerator(generator, cfg.Generator.SystemPrompt, cfg.Generator.MaxInputChars, baseLogger.With("component", "drafter")),
		Notifier:  notify.NewFanout(baseLogger.With("component", "notifier"), channels...),
		BaseURL:   cfg.Server.BaseURL,
		Logger:    baseLogger.With("component", "pipeline"),
	})

	handler := server.NewHandler(pipeline, baseLogger.With("component", "server"))

	return &Application{
		cfg:     cfg,
		logger:  baseLogger,
		router:  server.NewRouter(handler),
		cleanup: cleanup,
	}
}

// Run serves the intake API until the context is cancelled, then shuts
// down gracefully.
func (a *Application) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    a.cfg.Server.Addr,
		Handler: a.router,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("intake server listening", "addr", a.cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("shutdown incomplete", "error", err)
		}
	}

	for _, fn := range a.cleanup {
		fn()
	}
	return nil
}
