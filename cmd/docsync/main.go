package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aleister1102/docsync/internal/config"
	"github.com/aleister1102/docsync/internal/credentials"
	"github.com/aleister1102/docsync/internal/elastic"
	"github.com/aleister1102/docsync/internal/history"
	"github.com/aleister1102/docsync/internal/logger"
	"github.com/aleister1102/docsync/internal/orchestrator"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("[FATAL] Main: %v", err)
	}
}

func run() error {
	flags := ParseFlags()

	mode, err := orchestrator.ParseMode(flags.Mode)
	if err != nil {
		return err
	}

	if err := config.LoadEnvFile(flags.EnvFile); err != nil {
		return fmt.Errorf("could not load env file: %w", err)
	}

	bootstrap := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile, bootstrap)
	if err != nil {
		return fmt.Errorf("could not load global config using path '%s': %w", flags.GlobalConfigFile, err)
	}
	if err := config.ValidateConfig(gCfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	runID := uuid.NewString()
	appLogger, err := logger.NewWithRunID(gCfg.LogConfig, runID)
	if err != nil {
		return fmt.Errorf("could not initialize logger: %w", err)
	}
	defer func() {
		if closeErr := appLogger.Close(); closeErr != nil {
			log.Printf("[WARN] Main: failed to close log files: %v", closeErr)
		}
	}()
	zLogger := *appLogger.GetZerolog()
	zLogger.Info().Str("mode", string(mode)).Msg("docsync starting")

	token, err := credentials.ReadToken(gCfg.ElasticServiceTokenFile, zLogger)
	if err != nil {
		zLogger.Error().Err(err).Msg("Could not read engine credentials")
		return err
	}

	client, err := elastic.NewClient(gCfg.EngineConfig.ToElasticConfig(gCfg.ElasticHost, token), zLogger)
	if err != nil {
		zLogger.Error().Err(err).Msg("Could not create engine client")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !client.Ping(ctx) {
		zLogger.Error().Str("host", gCfg.ElasticHost).Msg("Search engine is not reachable")
		return fmt.Errorf("search engine at %s is not reachable", gCfg.ElasticHost)
	}

	var recorder orchestrator.RunRecorder
	if gCfg.HistoryConfig.Enabled {
		db, err := history.NewDB(gCfg.HistoryConfig.SQLiteDBPath, zLogger)
		if err != nil {
			zLogger.Error().Err(err).Msg("Could not open run history database")
			return err
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				zLogger.Warn().Err(closeErr).Msg("Failed to close run history database")
			}
		}()
		recorder = db
	}

	orch := orchestrator.NewOrchestrator(gCfg, client, recorder, runID, zLogger)
	summary, err := orch.Run(ctx, mode)
	if summary != nil {
		zLogger.Info().Msg(summary.String())
	}
	if err != nil {
		zLogger.Error().Err(err).Msg("docsync finished with errors")
		return err
	}

	zLogger.Info().Msg("docsync finished")
	return nil
}
