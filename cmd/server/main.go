package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"melodex/internal/config"
	apphttp "melodex/internal/http"
	"melodex/internal/repository/sqlite"
	"melodex/internal/service"
	"melodex/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	musicRepo := sqlite.NewMusicRepository(db)
	favoriteRepo := sqlite.NewFavoriteRepository(db)
	offlineRepo := sqlite.NewOfflineRepository(db)
	playlistRepo := sqlite.NewPlaylistRepository(db)
	biometricRepo := sqlite.NewBiometricRepository(db)

	inits := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"user", userRepo.Init},
		{"music", musicRepo.Init},
		{"favorite", favoriteRepo.Init},
		{"offline", offlineRepo.Init},
		{"playlist", playlistRepo.Init},
		{"biometric", biometricRepo.Init},
	}
	for _, init := range inits {
		if err := init.fn(ctx); err != nil {
			logger.Fatalf("init %s repository: %v", init.name, err)
		}
	}

	storageSvc, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	userService := service.NewUserService(userRepo)
	oauthService := service.NewOAuthService(userRepo)
	musicService := service.NewMusicService(musicRepo, userRepo, storageSvc, service.BlobOptions{
		Bucket:    cfg.Storage.Bucket,
		KeyPrefix: cfg.Storage.KeyPrefix,
	})
	favoriteService := service.NewFavoriteService(favoriteRepo, userRepo, musicRepo)
	offlineService := service.NewOfflineService(offlineRepo, userRepo, musicRepo)
	playlistService := service.NewPlaylistService(playlistRepo, userRepo, musicRepo)
	biometricService := service.NewBiometricService(biometricRepo, userRepo)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		userService,
		oauthService,
		musicService,
		favoriteService,
		offlineService,
		playlistService,
		biometricService,
		storageSvc,
		cfg.Storage.Bucket,
		apphttp.AuthOptions{
			Secret:   cfg.Auth.JWTSecret,
			TokenTTL: time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute,
		},
		apphttp.OAuthProviders{
			Google: apphttp.OAuthProviderConfig{
				ClientID:     cfg.OAuth.Google.ClientID,
				ClientSecret: cfg.OAuth.Google.ClientSecret,
				RedirectURL:  cfg.OAuth.Google.RedirectURL,
			},
			GitHub: apphttp.OAuthProviderConfig{
				ClientID:     cfg.OAuth.GitHub.ClientID,
				ClientSecret: cfg.OAuth.GitHub.ClientSecret,
				RedirectURL:  cfg.OAuth.GitHub.RedirectURL,
			},
		},
	)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

// buildStorage returns nil when no bucket is configured; audio then stays
// inline in the database.
func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Bucket == "" {
		logger.Info("no storage bucket configured, keeping audio inline")
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}
