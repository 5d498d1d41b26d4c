package app

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finbot/internal/catalog"
	"finbot/internal/closer"
	"finbot/internal/config"
	"finbot/internal/config/env"
	"finbot/internal/dialog"
	"finbot/internal/events"
	"finbot/internal/handlers"
	"finbot/internal/metrics"
	"finbot/internal/repository"
	"finbot/internal/services"
	"finbot/internal/state"
)

type ServiceProvider struct {
	botConfig     config.BotConfig
	storageConfig config.StorageConfig
	amqpConfig    config.AMQPConfig
	opsConfig     config.OpsConfig
	catalogConfig config.CatalogConfig

	store repository.ExpenseStore

	cat       *catalog.Catalog
	publisher events.Publisher

	// Services
	aggregationService *services.AggregationService
	reportService      *services.ReportService

	// Dialog
	sessionManager *state.Manager
	machine        *dialog.Machine

	// Handlers
	botHandler *handlers.BotHandler

	// Ops
	opsServer *metrics.Server

	// Bot
	bot *tgbotapi.BotAPI
}

func NewServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (s *ServiceProvider) BotConfig() config.BotConfig {
	if s.botConfig == nil {
		botConfig, err := env.NewBotConfig()
		if err != nil {
			log.Fatalf("failed to get bot config: %v", err)
		}
		s.botConfig = botConfig
	}
	return s.botConfig
}

func (s *ServiceProvider) StorageConfig() config.StorageConfig {
	if s.storageConfig == nil {
		storageConfig, err := env.NewStorageConfig()
		if err != nil {
			log.Fatalf("failed to get storage config: %v", err)
		}
		s.storageConfig = storageConfig
	}
	return s.storageConfig
}

func (s *ServiceProvider) AMQPConfig() config.AMQPConfig {
	if s.amqpConfig == nil {
		amqpConfig, err := env.NewAMQPConfig()
		if err != nil {
			log.Fatalf("failed to get amqp config: %v", err)
		}
		s.amqpConfig = amqpConfig
	}
	return s.amqpConfig
}

func (s *ServiceProvider) OpsConfig() config.OpsConfig {
	if s.opsConfig == nil {
		opsConfig, err := env.NewOpsConfig()
		if err != nil {
			log.Fatalf("failed to get ops config: %v", err)
		}
		s.opsConfig = opsConfig
	}
	return s.opsConfig
}

func (s *ServiceProvider) CatalogConfig() config.CatalogConfig {
	if s.catalogConfig == nil {
		catalogConfig, err := env.NewCatalogConfig()
		if err != nil {
			log.Fatalf("failed to get catalog config: %v", err)
		}
		s.catalogConfig = catalogConfig
	}
	return s.catalogConfig
}

func (s *ServiceProvider) Catalog() *catalog.Catalog {
	if s.cat == nil {
		path := s.CatalogConfig().Path()
		if path == "" {
			s.cat = catalog.Default()
			return s.cat
		}

		cat, err := catalog.LoadFile(path)
		if err != nil {
			log.Fatalf("failed to load category catalog: %v", err)
		}
		log.Printf("✅ Category catalog loaded from %s (%d categories)", path, cat.Len())
		s.cat = cat
	}
	return s.cat
}

func (s *ServiceProvider) ExpenseStore(ctx context.Context) repository.ExpenseStore {
	if s.store == nil {
		// конфиг Postgres резолвится только если выбран этот бекенд
		store, err := repository.NewStore(ctx, s.StorageConfig(), env.NewPGConfig)
		if err != nil {
			log.Fatalf("failed to init expense store: %v", err)
		}
		closer.Add(store.Close)
		log.Printf("✅ Expense store ready (backend: %s)", s.StorageConfig().Backend())
		s.store = store
	}
	return s.store
}

func (s *ServiceProvider) Publisher() events.Publisher {
	if s.publisher == nil {
		if !s.AMQPConfig().Enabled() {
			s.publisher = events.NoopPublisher{}
			return s.publisher
		}

		publisher, err := events.NewAMQPPublisher(
			s.AMQPConfig().URL(),
			s.AMQPConfig().Exchange(),
			s.AMQPConfig().Queue(),
		)
		if err != nil {
			log.Fatalf("failed to connect to AMQP: %v", err)
		}
		closer.Add(publisher.Close)
		log.Println("✅ Connected to AMQP broker")
		s.publisher = publisher
	}
	return s.publisher
}

func (s *ServiceProvider) SessionManager() *state.Manager {
	if s.sessionManager == nil {
		s.sessionManager = state.NewManager()
	}
	return s.sessionManager
}

func (s *ServiceProvider) Machine(ctx context.Context) *dialog.Machine {
	if s.machine == nil {
		s.machine = dialog.NewMachine(
			s.SessionManager(),
			s.ExpenseStore(ctx),
			s.Catalog(),
			s.Publisher(),
		)
	}
	return s.machine
}

func (s *ServiceProvider) AggregationService(ctx context.Context) *services.AggregationService {
	if s.aggregationService == nil {
		s.aggregationService = services.NewAggregationService(s.ExpenseStore(ctx), s.Catalog())
	}
	return s.aggregationService
}

func (s *ServiceProvider) ReportService(ctx context.Context) *services.ReportService {
	if s.reportService == nil {
		s.reportService = services.NewReportService(s.AggregationService(ctx), s.ExpenseStore(ctx))
	}
	return s.reportService
}

func (s *ServiceProvider) OpsServer() *metrics.Server {
	if s.opsServer == nil {
		s.opsServer = metrics.NewServer(s.OpsConfig().Address())
		closer.Add(s.opsServer.Close)
	}
	return s.opsServer
}

func (s *ServiceProvider) TelegramBot(ctx context.Context) (*tgbotapi.BotAPI, error) {
	if s.bot == nil {
		bot, err := tgbotapi.NewBotAPI(s.BotConfig().Token())
		if err != nil {
			return nil, err
		}
		bot.Debug = s.BotConfig().Debug()
		log.Printf("✅ Bot authorized: @%s\n", bot.Self.UserName)
		s.bot = bot
	}
	return s.bot, nil
}

func (s *ServiceProvider) BotHandler(ctx context.Context) *handlers.BotHandler {
	if s.botHandler == nil {
		s.botHandler = handlers.NewBotHandler(
			s.bot,
			s.Machine(ctx),
			s.ReportService(ctx),
		)
	}
	return s.botHandler
}
