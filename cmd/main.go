package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpctx "github.com/dtroode/places-server/internal/api/http/context"
	"github.com/dtroode/places-server/internal/api/http/router"
	httpServer "github.com/dtroode/places-server/internal/api/http/server"
	"github.com/dtroode/places-server/internal/config"
	"github.com/dtroode/places-server/internal/geocode"
	"github.com/dtroode/places-server/internal/logger"
	"github.com/dtroode/places-server/internal/model"
	"github.com/dtroode/places-server/internal/monitoring"
	"github.com/dtroode/places-server/internal/repository/postgres"
	"github.com/dtroode/places-server/internal/security"
	"github.com/dtroode/places-server/internal/server"
	"github.com/dtroode/places-server/internal/service"
	"github.com/dtroode/places-server/internal/storage/local"
	storage "github.com/dtroode/places-server/internal/storage/minio"
	"github.com/dtroode/places-server/internal/token"
	"github.com/dtroode/places-server/internal/upload"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	images, err := newImageStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize image store", "error", err, "driver", cfg.StorageDriver)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.New(registry)

	userRepo := postgres.NewUserRepository(db)
	placeRepo := postgres.NewPlaceRepository(db)
	transactor := postgres.NewTransactor(db)
	geocoder, err := geocode.NewGoogle(cfg.Geocoder.BaseURL, cfg.Geocoder.APIKey, cfg.Geocoder.Timeout)
	if err != nil {
		logger.Fatal("failed to initialize geocoder", "error", err)
	}
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.AccessTTL)

	tokenService := service.NewTokenService(tokenManager, logger)
	authService := service.NewAuth(userRepo, security.NewBcryptHasher(security.DefaultCost), images, tokenService, logger)
	userService := service.NewUser(userRepo, logger)
	placeService := service.NewPlace(placeRepo, userRepo, transactor, geocoder, images, metrics, logger)

	routerCfg := router.Config{
		PlaceService:   placeService,
		AuthService:    authService,
		UserService:    userService,
		TokenService:   tokenService,
		Uploader:       upload.NewImages(images, cfg.UploadMaxBytes),
		Images:         images,
		DB:             db,
		ContextManager: httpctx.NewManager(),
		Metrics:        metrics,
		AllowedOrigin:  cfg.HTTP.AllowedOrigin,
		MaxImageBytes:  cfg.UploadMaxBytes,
		Logger:         logger,
	}
	if cfg.HTTP.Metrics {
		routerCfg.Gatherer = registry
	}
	apiServer := httpServer.NewHTTPServer(router.New(routerCfg).Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(apiServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", apiServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func newImageStore(ctx context.Context, cfg *config.Config) (model.ImageStore, error) {
	if cfg.StorageDriver == config.StorageDriverLocal {
		store, err := local.NewStore(cfg.LocalStorage)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	client, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
