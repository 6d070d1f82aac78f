package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/api"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/bus"
	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/example/storefront/internal/infrastructure/kvstore"
	"github.com/example/storefront/internal/infrastructure/remote"
	"github.com/example/storefront/internal/logger"
	"github.com/example/storefront/internal/notification"
	"github.com/example/storefront/internal/store"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("JWT_SECRET must be at least 32 characters long")
	}

	kv := openKV(ctx, cfg, log)

	opts := []store.Option{store.WithLogger(log)}

	switch cfg.RemoteBackend {
	case "http":
		opts = append(opts, store.WithRemote(
			remote.NewHTTPBin(cfg.RemoteBinURL, cfg.RemoteBinID, cfg.RemoteMasterKey)))
		log.Info("remote document store enabled", zap.String("backend", "http"))
	case "dynamo":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			log.Fatal("failed to load AWS config", zap.Error(err))
		}
		client := dynamodb.NewFromConfig(awsCfg)
		opts = append(opts, store.WithRemote(
			remote.NewDynamoDocument(client, cfg.DynamoTable, cfg.DynamoDocID)))
		log.Info("remote document store enabled",
			zap.String("backend", "dynamo"), zap.String("table", cfg.DynamoTable))
	case "none", "":
		log.Info("remote document store disabled, local-only mode")
	default:
		log.Fatal("unknown REMOTE_BACKEND", zap.String("backend", cfg.RemoteBackend))
	}

	var producer *kafka.Producer
	if cfg.RelayEnabled() {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		opts = append(opts, store.WithRelay(producer))
		log.Info("change relay enabled",
			zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	svc := store.NewService(kv, bus.New(), opts...)
	cartSvc := cart.NewService(kv, log)

	// Hydrate from the remote document before serving, best-effort.
	if _, err := svc.FetchAllData(ctx); err != nil {
		log.Warn("initial remote fetch failed, serving local state", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret, 24*time.Hour)
	dirOpts := []auth.DirectoryOption{auth.WithDirectoryLogger(log)}
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		dirOpts = append(dirOpts, auth.WithMasterAdmin(cfg.AdminEmail, cfg.AdminPassword))
	}
	directory := auth.NewDirectory(kv, dirOpts...)

	var wg sync.WaitGroup
	if cfg.RelayEnabled() {
		consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, "api-"+svc.Origin(), log)
		defer consumer.Close()

		handler := notification.NewHandler(svc, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Consume(ctx, handler.HandleSignal); err != nil && ctx.Err() == nil {
				log.Error("change signal consumer stopped", zap.Error(err))
			}
		}()
	}

	handlers := api.NewHandlers(svc, cartSvc)
	authHandlers := api.NewAuthHandlers(directory, jwtService)
	router := api.NewRouter(handlers, authHandlers, jwtService, log)

	server := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	go func() {
		log.Info("server started", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown incomplete", zap.Error(err))
	}

	// Push the final local state so other clients pick it up on next fetch.
	svc.SyncToCloud(shutdownCtx)

	wg.Wait()
}

func openKV(ctx context.Context, cfg *config.Config, log *zap.Logger) kvstore.Store {
	switch cfg.KVBackend {
	case "memory":
		log.Info("using in-memory store, state is lost on restart")
		return kvstore.NewMemory()
	case "file":
		kv, err := kvstore.NewFile(cfg.KVFileDir)
		if err != nil {
			log.Fatal("failed to open file store", zap.Error(err))
		}
		log.Info("using file store", zap.String("dir", cfg.KVFileDir))
		return kv
	case "postgres":
		db, err := kvstore.ConnectPostgres(cfg.DBURL)
		if err != nil {
			log.Fatal("failed to connect to PostgreSQL", zap.Error(err))
		}
		kv := kvstore.NewPostgres(db)
		if err := kv.EnsureSchema(ctx); err != nil {
			log.Fatal("failed to prepare kv_entries table", zap.Error(err))
		}
		log.Info("using PostgreSQL store")
		return kv
	case "redis":
		log.Info("using Redis store", zap.String("addr", cfg.RedisAddr))
		return kvstore.NewRedis(cfg.RedisAddr)
	default:
		log.Fatal("unknown KV_BACKEND", zap.String("backend", cfg.KVBackend))
		return nil
	}
}
