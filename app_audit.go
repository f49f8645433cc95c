package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/thirukguru/iam-audit/model"
	awsconfig "github.com/thirukguru/iam-audit/service/aws_config"
	"github.com/thirukguru/iam-audit/service/iam"
	"github.com/thirukguru/iam-audit/service/orchestrator"
	"github.com/thirukguru/iam-audit/service/organizations"
	"github.com/thirukguru/iam-audit/service/output"
	"github.com/thirukguru/iam-audit/service/storage"
	awssts "github.com/thirukguru/iam-audit/service/sts"
	"github.com/thirukguru/iam-audit/shared/spinner"
)

func runAudit(ctx context.Context, flags model.Flags, versionInfo model.VersionInfo, log *logrus.Logger, storageService storage.Service) error {
	outputService, err := output.NewService(flags.Output, flags.OutputFile)
	if err != nil {
		return err
	}

	if !flags.Version {
		spinner.StartSpinner("Auditing IAM users...")
		defer spinner.StopSpinner()
	}

	orchestratorService := orchestrator.NewService(newDependencies(outputService, storageService, versionInfo, log))

	if err := orchestratorService.Orchestrate(ctx, flags); err != nil {
		return fmt.Errorf("iam audit failed: %w", err)
	}
	return nil
}

func newDependencies(outputService output.Service, storageService storage.Service, versionInfo model.VersionInfo, log logrus.FieldLogger) orchestrator.Dependencies {
	return orchestrator.Dependencies{
		AWSConfig:        awsconfig.NewService(),
		NewSTS:           awssts.NewService,
		NewIAM:           iam.NewService,
		NewOrganizations: organizations.NewService,
		Output:           outputService,
		Storage:          storageService,
		VersionInfo:      versionInfo,
		Logger:           log,
	}
}
