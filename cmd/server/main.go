package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"handoverhub/internal/ai"
	"handoverhub/internal/config"
	"handoverhub/internal/document"
	httpadapter "handoverhub/internal/interfaces/http"
	"handoverhub/internal/notify"
	"handoverhub/internal/report"
	"handoverhub/internal/repository"
	"handoverhub/internal/service"
	"handoverhub/internal/storage"
	"handoverhub/internal/worker"
	"handoverhub/pkg/database"
	"handoverhub/pkg/utils"
)

func main() {
	// Load .env if present; real env vars win.
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting handover hub",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.Storage.DocumentDir, 0755); err != nil {
		logger.Fatal("Failed to create document directory", zap.Error(err))
	}

	// Repositories
	handoverRepo := repository.NewHandoverRepository(db.DB, logger)
	taskRepo := repository.NewTaskRepository(db.DB, logger)
	noteRepo := repository.NewNoteRepository(db.DB, logger)
	insightRepo := repository.NewInsightRepository(db.DB, logger)
	templateRepo := repository.NewTemplateRepository(db.DB, logger)
	helpRepo := repository.NewHelpRequestRepository(db.DB, logger)
	documentRepo := repository.NewDocumentRepository(db.DB, logger)
	activityRepo := repository.NewActivityRepository(db.DB, logger)
	userRepo := repository.NewUserRepository(db.DB, logger)

	// Notifications are optional; without a token the noop sink is used.
	var notifier notify.Notifier = notify.NoopNotifier{}
	if cfg.Slack.Token != "" {
		notifier = notify.NewSlackNotifier(cfg.Slack.Token, cfg.Slack.Channel, logger)
		logger.Info("Slack notifications enabled", zap.String("channel", cfg.Slack.Channel))
	}

	advisor := ai.NewAdvisor(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.Temperature, logger)
	store := storage.NewLocalDocumentStore(cfg.Storage.DocumentDir, logger)
	extractor := document.NewPDFExtractor(0, logger)
	exporter := report.NewExcelExporter(logger)

	// Services
	handoverSvc := service.NewHandoverService(db, handoverRepo, taskRepo, activityRepo, logger)
	taskSvc := service.NewTaskService(db, taskRepo, noteRepo, insightRepo, handoverSvc, logger)
	templateSvc := service.NewTemplateService(db, templateRepo, taskRepo, handoverSvc, logger)
	helpSvc := service.NewHelpService(db, helpRepo, handoverSvc, taskRepo, notifier, logger)
	reportSvc := service.NewReportService(handoverRepo, helpRepo, exporter, logger)
	documentSvc := service.NewDocumentService(db, documentRepo, handoverSvc, store, extractor, cfg.Storage.MaxUploadSize, logger)
	insightSvc := service.NewInsightService(advisor, handoverRepo, taskRepo, documentRepo, logger)
	userSvc := service.NewUserService(userRepo, logger)

	// Background workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workers := worker.NewManager(logger)
	if cfg.Sweep.Enabled {
		sweeper, err := worker.NewSweeper(handoverRepo, notifier, cfg.Sweep.Schedule, logger)
		if err != nil {
			logger.Fatal("Invalid sweep schedule", zap.Error(err))
		}
		workers.Register(sweeper)
	}
	if err := workers.StartAll(ctx); err != nil {
		logger.Fatal("Failed to start workers", zap.Error(err))
	}

	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, httpadapter.Services{
		Handovers: handoverSvc,
		Tasks:     taskSvc,
		Templates: templateSvc,
		Help:      helpSvc,
		Reports:   reportSvc,
		Documents: documentSvc,
		Insights:  insightSvc,
		Users:     userSvc,
	}, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down...")
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", zap.Error(err))
		}
	}

	cancel()
	workers.StopAll()
	if err := server.Stop(); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
