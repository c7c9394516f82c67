package main

import (
	"context"
	"errors"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"finanalyzer/worker/cache"
	"finanalyzer/worker/config"
	"finanalyzer/worker/extract"
	"finanalyzer/worker/kafka"
	"finanalyzer/worker/llm"
	"finanalyzer/worker/pool"
	"finanalyzer/worker/repository"
	"finanalyzer/worker/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		cancel()
		logger.Fatal("failed to ping redis", zap.Error(err))
	}
	cancel()

	client, err := newLLMClient(cfg)
	if err != nil {
		logger.Fatal("failed to create llm client", zap.Error(err))
	}

	extractor := extract.New(extract.Config{
		Pdftotext: cfg.Pdftotext,
		Tesseract: cfg.Tesseract,
		Lang:      cfg.OCRLang,
	}, logger)

	crew, err := service.NewFinancialCrew(client, extractor, cfg.LLMTemperature, cfg.LLMMaxTokens, logger)
	if err != nil {
		logger.Fatal("failed to build crew", zap.Error(err))
	}

	repo := repository.NewPostgresRepo(db)
	statusCache := cache.NewStatusCache(redisClient)
	processor := service.NewProcessor(repo, statusCache, crew, logger)

	consumer, err := kafka.NewConsumer(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaGroupID, logger)
	if err != nil {
		logger.Fatal("failed to create kafka consumer", zap.Error(err))
	}
	defer consumer.Close()

	workerPool := pool.NewWorkerPool(cfg.WorkerCount, logger)

	logger.Info("worker service started",
		zap.String("topic", cfg.KafkaTopic),
		zap.String("group", cfg.KafkaGroupID),
		zap.Int("workers", cfg.WorkerCount),
		zap.String("llm_provider", cfg.LLMProvider),
		zap.String("llm_model", client.GetModel()),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			// Consume returns when a rebalance happens; loop until the
			// context is cancelled.
			if err := consumer.Consume(gctx, cfg.KafkaTopic, func(msgCtx context.Context, msg *kafka.JobMessage) error {
				workerPool.Submit(msgCtx, msg, processor.Process)
				return nil
			}); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
			if gctx.Err() != nil {
				return nil
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("consumer stopped", zap.Error(err))
	}

	workerPool.Wait()
	logger.Info("worker service stopped")
}

func newLLMClient(cfg *config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "anthropic":
		return llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL, cfg.LLMModel)
	default:
		return llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.LLMModel)
	}
}
