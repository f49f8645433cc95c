// Package main is the entry point for the iam-audit application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/thirukguru/iam-audit/model"
	"github.com/thirukguru/iam-audit/service/config"
	"github.com/thirukguru/iam-audit/service/flag"
	"github.com/thirukguru/iam-audit/service/storage"
	"github.com/thirukguru/iam-audit/shared/banner"
	"github.com/thirukguru/iam-audit/shared/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "db", "history":
			return runStorageCommand(os.Args[1], os.Args[2:])
		}
	}

	flagService := flag.NewService()
	flags, err := flagService.GetParsedFlags()
	if err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	log, err := logger.New(flags.LogLevel, flags.LogFormat, os.Stderr)
	if err != nil {
		return err
	}

	flags, err = mergeConfigFile(config.NewService(), flags, log)
	if err != nil {
		return err
	}

	versionInfo := model.VersionInfo{Version: version, Commit: commit, Date: date}

	if flags.Version {
		return runAudit(context.Background(), flags, versionInfo, log, nil)
	}

	if flags.Output == "" || flags.Output == "table" {
		banner.DrawBannerTitle()
	}

	var storageService storage.Service
	if flags.Store {
		storageService, err = storage.NewService(flags.DBPath)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer storageService.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runAudit(ctx, flags, versionInfo, log, storageService)
}

// mergeConfigFile applies --config-path values to flags not given explicitly.
func mergeConfigFile(svc config.Service, flags model.Flags, log logrus.FieldLogger) (model.Flags, error) {
	if flags.ConfigPath == "" {
		return flags, nil
	}
	cfg, err := svc.Load(flags.ConfigPath)
	if err != nil {
		return flags, fmt.Errorf("failed to load config file: %w", err)
	}
	log.WithField("path", flags.ConfigPath).Debug("config file loaded")
	return svc.Apply(cfg, flags), nil
}
