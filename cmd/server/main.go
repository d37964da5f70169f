package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salesfeed/internal/config"
	"salesfeed/internal/handler"
	"salesfeed/internal/repository/postgres"
	"salesfeed/internal/router"
	"salesfeed/internal/service"
	s3storage "salesfeed/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	workspaceRepo := postgres.NewWorkspaceRepo(db)
	reportRepo := postgres.NewSalesReportRepo(db)
	lineRepo := postgres.NewSalesLineRepo(db)
	productRepo := postgres.NewProductRepo(db)
	allyRepo := postgres.NewAllyRepo(db)
	mappingRepo := postgres.NewProductMappingRepo(db)
	categoryRepo := postgres.NewCategoryRepo(db)
	summaryRepo := postgres.NewSummaryRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize services
	processor := service.NewReportProcessor(
		reportRepo, lineRepo, productRepo, allyRepo,
		mappingRepo, categoryRepo, summaryRepo,
		s3Client, cfg.Pipeline.BatchLimit,
	)
	reportSvc := service.NewReportService(
		reportRepo, lineRepo, productRepo, mappingRepo, workspaceRepo,
		s3Client, processor, &cfg.S3, &cfg.Pipeline,
	)
	workspaceSvc := service.NewWorkspaceService(workspaceRepo)
	summarySvc := service.NewSummaryService(summaryRepo)

	// Initialize handlers
	workspaceH := handler.NewWorkspaceHandler(workspaceSvc)
	reportH := handler.NewReportHandler(reportSvc)
	summaryH := handler.NewSummaryHandler(summarySvc)
	healthH := handler.NewHealthHandler(db)

	// Recovery worker re-dispatches reports stranded in uploaded
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := service.NewRecoveryWorker(reportRepo, processor, service.RecoveryConfig{
		PollInterval: time.Duration(cfg.Recovery.PollIntervalSecs) * time.Second,
		StaleAfter:   time.Duration(cfg.Recovery.StaleAfterSecs) * time.Second,
		Concurrency:  cfg.Recovery.Concurrency,
	})
	go worker.Start(ctx)

	// Setup router
	r := router.Setup(workspaceH, reportH, summaryH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
