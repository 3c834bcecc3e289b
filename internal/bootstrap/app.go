package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"askdata/internal/ai"
	"askdata/internal/analysis"
	appsvc "askdata/internal/app"
	"askdata/internal/assistant"
	"askdata/internal/cache"
	"askdata/internal/config"
	"askdata/internal/model"
	"askdata/internal/platform/database"
	rabbitmqClient "askdata/internal/platform/rabbitmq"
	redisClient "askdata/internal/platform/redis"
	"askdata/internal/repository"
	"askdata/internal/repository/memory"
	"askdata/internal/worker"
)

const (
	AssistantModeFixture   = "fixture"
	AssistantModeDelegated = "delegated"
)

type Services struct {
	Auth        *appsvc.AuthService
	Datasets    *appsvc.DatasetService
	Ledger      *appsvc.Ledger
	Chat        *appsvc.ChatService
	Marketplace *appsvc.MarketplaceService
	Stats       *appsvc.StatsService
}

type App struct {
	Config         *config.Config
	DB             *gorm.DB
	Redis          *redis.Client
	MQConn         *amqp.Connection
	AnalysisWorker *worker.AnalysisWorker

	Stores        repository.Stores
	DemoUser      *model.User
	Analysis      *analysis.Service
	Services      Services
	AssistantMode string

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	return NewWithConfig(ctx, cfg)
}

// NewWithConfig wires every component from cfg. Redis and RabbitMQ are only
// dialed when enabled; the store defaults to the in-memory arena.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg, StartedAt: time.Now()}

	if err := app.openStore(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	demo, err := repository.SeedDemoData(app.Stores)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("seed demo data failed: %w", err)
	}
	app.DemoUser = demo

	var messageCache appsvc.MessageCache
	if cfg.Redis.Enabled {
		redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.Redis = redisCli
		messageCache = cache.NewMessageCache(
			redisCli,
			time.Duration(cfg.Redis.HistoryTTLSeconds)*time.Second,
			time.Duration(cfg.Redis.HistoryDirtyTTLSeconds)*time.Second,
		)
	}

	chat := ai.ChatConfig{BaseURL: cfg.LLM.BaseURL, APIKey: cfg.LLM.APIKey, Model: cfg.LLM.Model}
	client := ai.NewOpenAICompatibleClient()

	var analyzer analysis.Analyzer = analysis.LocalAnalyzer{}
	app.AssistantMode = AssistantModeFixture
	if chat.Enabled() {
		analyzer = analysis.NewLLMAnalyzer(client, chat)
		app.AssistantMode = AssistantModeDelegated
	}
	app.Analysis = analysis.NewService(app.Stores.Datasets, app.Stores.DataContents, analyzer)

	analysisTimeout := time.Duration(cfg.Store.AnalysisTimeoutSeconds) * time.Second
	var dispatcher analysis.Dispatcher = analysis.NewInlineDispatcher(app.Analysis, analysisTimeout)
	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.MQConn = mqConn

		app.AnalysisWorker = worker.NewAnalysisWorker(mqConn, app.Analysis, cfg.RabbitMQ.AnalysisQueue, analysisTimeout)
		if err := app.AnalysisWorker.Start(ctx); err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("start analysis worker failed: %w", err)
		}
		publisher := rabbitmqClient.NewAnalysisPublisher(mqConn, cfg.RabbitMQ.AnalysisQueue)
		dispatcher = analysis.NewQueueDispatcher(publisher, dispatcher)
	}

	synthesizer := assistant.New(assistant.Options{
		Chat:        chat,
		StepTimeout: time.Duration(cfg.LLM.StepTimeoutSeconds) * time.Second,
		MaxRetries:  cfg.LLM.MaxRetries,
		SampleChars: cfg.LLM.SampleChars,
	}, client)

	stores := app.Stores
	ledger := appsvc.NewLedger(stores.Conversations, stores.Messages, stores.Datasets, messageCache)
	app.Services = Services{
		Auth: appsvc.NewAuthService(
			stores.Users,
			cfg.Auth.JWTSecret,
			time.Duration(cfg.Auth.JWTExpireMinute)*time.Minute,
		),
		Datasets: appsvc.NewDatasetService(stores.Datasets, stores.DataContents, dispatcher),
		Ledger:   ledger,
		Chat: appsvc.NewChatService(
			ledger,
			stores.Conversations,
			stores.DataContents,
			synthesizer,
			time.Duration(cfg.LLM.RequestTimeoutSeconds)*time.Second,
		),
		Marketplace: appsvc.NewMarketplaceService(stores.Marketplace, stores.Datasets),
		Stats:       appsvc.NewStatsService(stores.Datasets, stores.Conversations, stores.Messages),
	}

	log.Printf("bootstrap: store=%s assistant=%s redis=%v rabbitmq=%v",
		cfg.Store.Driver, app.AssistantMode, app.Redis != nil, app.MQConn != nil)
	return app, nil
}

func (a *App) openStore(ctx context.Context) error {
	if a.Config.Store.Driver == config.StoreMemory {
		a.Stores = memory.NewStore().Stores()
		return nil
	}

	db, err := database.Open(ctx, a.Config.Store.Driver, a.Config.StoreDSN())
	if err != nil {
		return err
	}
	a.DB = db
	if err := repository.AutoMigrate(db); err != nil {
		return err
	}
	a.Stores = repository.NewGormStores(db)
	return nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.AnalysisWorker != nil {
		a.AnalysisWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
