package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/bus"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/example/storefront/internal/infrastructure/kvstore"
	"github.com/example/storefront/internal/infrastructure/remote"
	"github.com/example/storefront/internal/logger"
	"github.com/example/storefront/internal/notification"
	"github.com/example/storefront/internal/store"
)

// syncd keeps a local replica in step with the shared remote document.
// It listens for change signals on the relay topic and re-fetches the
// full document whenever another client announces a mutation.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	if !cfg.RelayEnabled() {
		log.Fatal("KAFKA_BROKERS and KAFKA_TOPIC are required")
	}

	var remoteStore store.RemoteStore
	switch cfg.RemoteBackend {
	case "http":
		remoteStore = remote.NewHTTPBin(cfg.RemoteBinURL, cfg.RemoteBinID, cfg.RemoteMasterKey)
	case "dynamo":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			log.Fatal("failed to load AWS config", zap.Error(err))
		}
		remoteStore = remote.NewDynamoDocument(
			dynamodb.NewFromConfig(awsCfg), cfg.DynamoTable, cfg.DynamoDocID)
	default:
		log.Fatal("REMOTE_BACKEND must be http or dynamo",
			zap.String("backend", cfg.RemoteBackend))
	}

	kv := openKV(ctx, cfg, log)

	svc := store.NewService(kv, bus.New(),
		store.WithRemote(remoteStore),
		store.WithLogger(log))

	if _, err := svc.FetchAllData(ctx); err != nil {
		log.Warn("initial fetch failed", zap.Error(err))
	}

	handler := notification.NewHandler(svc, log)
	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, "syncd", log)
	defer consumer.Close()

	go func() {
		log.Info("listening for change signals",
			zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
		if err := consumer.Consume(ctx, handler.HandleSignal); err != nil && ctx.Err() == nil {
			log.Error("consumer stopped", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	cancel()
}

func openKV(ctx context.Context, cfg *config.Config, log *zap.Logger) kvstore.Store {
	switch cfg.KVBackend {
	case "memory":
		return kvstore.NewMemory()
	case "file":
		kv, err := kvstore.NewFile(cfg.KVFileDir)
		if err != nil {
			log.Fatal("failed to open file store", zap.Error(err))
		}
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
		return kv
	case "redis":
		return kvstore.NewRedis(cfg.RedisAddr)
	default:
		log.Fatal("unknown KV_BACKEND", zap.String("backend", cfg.KVBackend))
		return nil
	}
}
