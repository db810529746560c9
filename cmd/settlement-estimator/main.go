package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/claim-settlement/internal/config"
	"github.com/iwvelando/claim-settlement/internal/logging"
	"github.com/iwvelando/claim-settlement/internal/settlement"
	"github.com/iwvelando/claim-settlement/internal/store"
	"github.com/iwvelando/claim-settlement/pkg/constants"
	"github.com/iwvelando/claim-settlement/pkg/datetime"
	"github.com/iwvelando/claim-settlement/pkg/output"
	"github.com/iwvelando/claim-settlement/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to calculation file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	asOf := flag.String("as-of", "", "fixed calculation date (2006-01-02 or 2006-01-02T15:04:05Z); defaults to now")
	save := flag.Bool("save", false, "save the result to the configured store")
	history := flag.String("history", "", "print the saved settlements of this claim instead of calculating")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := logging.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if !conf.Features.SettlementCalculator {
		logger.Fatal("the settlement calculator is disabled in this configuration",
			zap.String("op", "main"),
		)
	}

	ctx := context.Background()

	if *history != "" {
		st := openStore(logger, conf.Store)
		defer closeStore(logger, st)

		records, err := st.ListForClaim(ctx, *history)
		if err != nil {
			logger.Fatal("failed to list saved settlements",
				zap.String("op", "main"),
				zap.String("claimID", *history),
				zap.Error(err),
			)
		}
		if err := output.WriteHistory(os.Stdout, outputFormat, *history, records); err != nil {
			logger.Fatal("failed to write history",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		return
	}

	cat, err := conf.LoadCatalog()
	if err != nil {
		logger.Fatal("failed to load damage catalog",
			zap.String("op", "main"),
			zap.String("path", conf.Catalog.Path),
			zap.Error(err),
		)
	}

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration(cat)
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	clock := settlement.SystemClock
	if *asOf != "" {
		calculationDate, err := datetime.ParseCalculationDate(*asOf)
		if err != nil {
			logger.Fatal("failed to parse calculation date",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		clock = settlement.FixedClock(calculationDate)
	}

	policy, entries, adjustments := conf.ToInputs(cat)

	engine := settlement.NewEngine(logger)
	result, err := engine.Compute(policy, entries, adjustments, conf.Claim.ID, clock)
	if err != nil {
		var validationErr *settlement.ValidationError
		if errors.As(err, &validationErr) {
			logger.Fatal("invalid settlement input",
				zap.String("op", "main"),
				zap.String("field", validationErr.Field),
				zap.String("reason", validationErr.Reason),
			)
		}
		logger.Fatal("failed to compute settlement",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if *save {
		st := openStore(logger, conf.Store)
		defer closeStore(logger, st)

		id, err := st.Save(ctx, result)
		if err != nil {
			logger.Fatal("failed to save settlement",
				zap.String("op", "main"),
				zap.Bool("retryable", store.Retryable(err)),
				zap.Error(err),
			)
		}
		logger.Info("settlement saved",
			zap.String("op", "main"),
			zap.String("id", id),
			zap.String("claimID", result.ClaimID),
		)
	}

	// Handle output.
	if err := output.Write(os.Stdout, outputFormat, result); err != nil {
		logger.Fatal("failed to write result",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

func openStore(logger *zap.Logger, cfg store.Config) store.Store {
	if !cfg.Persistent() {
		logger.Warn("settlement store is in memory; saved results are lost when this command exits",
			zap.String("op", "main"),
			zap.String("driver", cfg.Driver),
		)
	}
	st, err := store.Open(cfg, logger)
	if err != nil {
		logger.Fatal("failed to open settlement store",
			zap.String("op", "main"),
			zap.String("driver", cfg.Driver),
			zap.Error(err),
		)
	}
	return st
}

func closeStore(logger *zap.Logger, st store.Store) {
	if err := st.Close(); err != nil {
		logger.Warn("failed to close settlement store",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
