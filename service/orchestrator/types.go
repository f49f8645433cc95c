package orchestrator

import (
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/sirupsen/logrus"
	"github.com/thirukguru/iam-audit/model"
	awsconfig "github.com/thirukguru/iam-audit/service/aws_config"
	"github.com/thirukguru/iam-audit/service/iam"
	"github.com/thirukguru/iam-audit/service/organizations"
	"github.com/thirukguru/iam-audit/service/output"
	"github.com/thirukguru/iam-audit/service/storage"
	awssts "github.com/thirukguru/iam-audit/service/sts"
)

// Dependencies wires the orchestrator. Constructors take an aws.Config so
// member accounts of an org scan get clients bound to their own credentials.
type Dependencies struct {
	AWSConfig        awsconfig.Service
	NewSTS           func(aws.Config) awssts.Service
	NewIAM           func(aws.Config, iam.Options) iam.Service
	NewOrganizations func(aws.Config) organizations.Service
	Output           output.Service
	// Storage is optional; runs are persisted only with --store.
	Storage     storage.Service
	VersionInfo model.VersionInfo
	Logger      logrus.FieldLogger

	// Out receives the version text. Defaults to stdout.
	Out io.Writer
	// WriteReportFile writes the CSV artifact. Defaults to csvoutput.WriteReportFile.
	WriteReportFile func(path string, inputs []model.RenderAuditInput, inactiveDays int, org bool) error
	Now             func() time.Time
	NewRunID        func() string
	// Progress receives spinner messages. Defaults to spinner.UpdateSpinner.
	Progress func(message string)
}

type service struct {
	awsConfig        awsconfig.Service
	newSTS           func(aws.Config) awssts.Service
	newIAM           func(aws.Config, iam.Options) iam.Service
	newOrganizations func(aws.Config) organizations.Service
	outputService    output.Service
	storageService   storage.Service
	versionInfo      model.VersionInfo
	log              logrus.FieldLogger
	out              io.Writer
	writeReportFile  func(path string, inputs []model.RenderAuditInput, inactiveDays int, org bool) error
	now              func() time.Time
	newRunID         func() string
	progress         func(message string)
}

// Service is the interface for orchestrator service.
type Service interface {
	Orchestrate(ctx context.Context, flags model.Flags) error
}
