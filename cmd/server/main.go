package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/rmarban/invoicedesk/internal/assembler"
	"github.com/rmarban/invoicedesk/internal/clients"
	"github.com/rmarban/invoicedesk/internal/config"
	"github.com/rmarban/invoicedesk/internal/converter"
	httpserver "github.com/rmarban/invoicedesk/internal/interfaces/http"
	"github.com/rmarban/invoicedesk/internal/ledger"
	"github.com/rmarban/invoicedesk/internal/report"
	"github.com/rmarban/invoicedesk/pkg/database"
	"github.com/rmarban/invoicedesk/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	// Load .env overrides before viper reads the environment
	gotenv.Load()

	cfg, err := config.Load(*configPath)
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

	logger.Info("Starting invoice desk",
		zap.Int("port", cfg.Server.Port),
		zap.String("clients_path", cfg.Storage.ClientsPath),
		zap.String("invoices_db", cfg.Storage.InvoicesDBPath))

	db, err := database.New(database.Config{
		Path:            cfg.Storage.InvoicesDBPath,
		MaxOpenConns:    cfg.Storage.MaxOpenConns,
		MaxIdleConns:    cfg.Storage.MaxIdleConns,
		ConnMaxLifetime: cfg.Storage.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	invoiceLedger := ledger.New(db.DB, logger)
	if err := invoiceLedger.Initialize(); err != nil {
		logger.Fatal("Failed to initialize invoice ledger", zap.Error(err))
	}

	clientStore := clients.NewStore(cfg.Storage.ClientsPath, logger)

	if err := os.MkdirAll(cfg.Invoice.OutputDir, 0755); err != nil {
		logger.Fatal("Failed to create output directory", zap.Error(err))
	}

	pdfConverter := converter.NewLibreOffice(cfg.Converter.Binary, cfg.Converter.Timeout, logger)
	invoiceAssembler := assembler.New(
		cfg.Invoice.TemplatePath,
		"",
		cfg.Business,
		pdfConverter,
		invoiceLedger,
		logger,
	)
	exporter := report.NewExcelExporter(logger)

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, clientStore, invoiceLedger, invoiceAssembler, exporter, cfg.Invoice.OutputDir, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("Server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown failed", zap.Error(err))
		}
	}
}
