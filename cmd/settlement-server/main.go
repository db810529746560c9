package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/claim-settlement/internal/logging"
	"github.com/iwvelando/claim-settlement/internal/server"
	"github.com/iwvelando/claim-settlement/internal/settlement"
	"github.com/iwvelando/claim-settlement/internal/store"
	"github.com/iwvelando/claim-settlement/pkg/catalog"
	"github.com/iwvelando/claim-settlement/pkg/constants"
	"go.uber.org/zap"
)

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	version := flag.String("version", "dev", "version reported by the API")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	cat, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		logger.Fatal("failed to load damage catalog",
			zap.String("op", "main"),
			zap.String("path", cfg.Catalog.Path),
			zap.Error(err),
		)
	}

	st, err := store.Open(cfg.Store, logger)
	if err != nil {
		logger.Fatal("failed to open settlement store",
			zap.String("op", "main"),
			zap.String("driver", cfg.Store.Driver),
			zap.Error(err),
		)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("failed to close settlement store",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}()

	handler := server.NewHandler(logger, server.Dependencies{
		Engine:   settlement.NewEngine(logger),
		Store:    st,
		Catalog:  cat,
		Features: cfg.Features,
		Clock:    settlement.SystemClock,
	}, cfg.RequestSizeBytes(), *version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting settlement API",
		zap.String("op", "main"),
		zap.String("address", cfg.Address),
		zap.String("store", cfg.Store.Driver),
		zap.Bool("settlementCalculator", cfg.Features.SettlementCalculator),
	)

	if err := server.Run(ctx, logger, cfg.Address, handler); err != nil {
		logger.Error("settlement API failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
		os.Exit(1)
	}
}
