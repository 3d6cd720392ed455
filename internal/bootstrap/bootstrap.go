// Package bootstrap provides dependency initialization for the Artisan API.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/artisanstudio/artisan-api/internal/chat"
	"github.com/artisanstudio/artisan-api/internal/config"
	"github.com/artisanstudio/artisan-api/internal/dalle"
	"github.com/artisanstudio/artisan-api/internal/generation"
	"github.com/artisanstudio/artisan-api/internal/job"
	"github.com/artisanstudio/artisan-api/internal/provider"
	"github.com/artisanstudio/artisan-api/internal/sora"
	"github.com/artisanstudio/artisan-api/internal/storage"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	Service *generation.Service
	// Providers maps media kind to the active backend name, "demo" when
	// credentials for that kind are absent.
	Providers map[string]string
	// MediaDir is set when local storage is active, for static file serving.
	MediaDir string
}

// NewDependencies creates and initializes all dependencies for the
// application. Each generation backend is wired only when its credentials
// are configured; the service runs the rest in demo mode.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Providers: map[string]string{
			"image":        generation.ProviderDemo,
			"video":        generation.ProviderDemo,
			"presentation": generation.ProviderDemo,
		},
	}

	store, err := initStorage(cfg, logger, deps)
	if err != nil {
		return nil, err
	}

	opts := []generation.Option{
		generation.WithPollInterval(cfg.PollInterval()),
		generation.WithMaxPollAttempts(cfg.MaxPollAttempts),
	}

	if cfg.DalleEnabled() {
		client, err := dalle.NewClient(cfg.DalleEndpoint, cfg.DalleAPIKey,
			dalle.WithDeployment(cfg.DalleDeployment),
		)
		if err != nil {
			return nil, fmt.Errorf("create DALL-E client: %w", err)
		}
		adapter := provider.NewDalleAdapter(client)
		opts = append(opts, generation.WithImageProvider(adapter))
		deps.Providers["image"] = adapter.Name()
		logger.Info("image provider configured", slog.String("provider", adapter.Name()))
	}

	if cfg.SoraEnabled() {
		client, err := sora.NewClient(cfg.SoraEndpoint, cfg.SoraAPIKey)
		if err != nil {
			return nil, fmt.Errorf("create Sora client: %w", err)
		}
		adapter := provider.NewSoraAdapter(client)
		opts = append(opts, generation.WithVideoProvider(adapter))
		deps.Providers["video"] = adapter.Name()
		logger.Info("video provider configured", slog.String("provider", adapter.Name()))
	}

	if cfg.ChatEnabled() {
		client, err := chat.NewClient(cfg.ChatEndpoint, cfg.ChatAPIKey, cfg.ChatDeployment)
		if err != nil {
			return nil, fmt.Errorf("create chat client: %w", err)
		}
		opts = append(opts, generation.WithDeckBuilder(generation.NewChatDeckBuilder(client, logger)))
		deps.Providers["presentation"] = cfg.ChatDeployment
		logger.Info("presentation provider configured", slog.String("deployment", cfg.ChatDeployment))
	}

	repo := job.NewMemoryRepository()
	deps.Service = generation.NewService(repo, store, logger, opts...)
	return deps, nil
}

// initStorage creates the appropriate storage backend based on configuration.
func initStorage(cfg *config.Config, logger *slog.Logger, deps *Dependencies) (storage.Storage, error) {
	if cfg.S3Enabled() {
		s3Store, err := storage.NewS3Storage(storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 storage configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStorage(cfg.MediaDir)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	deps.MediaDir = localStore.MediaDir()
	logger.Info("local storage configured",
		slog.String("media_dir", localStore.MediaDir()),
	)
	return localStore, nil
}
