// Package orchestrator coordinates collection, auditing, rendering and persistence.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/thirukguru/iam-audit/model"
	"github.com/thirukguru/iam-audit/service/audit"
	awsconfig "github.com/thirukguru/iam-audit/service/aws_config"
	"github.com/thirukguru/iam-audit/service/iam"
	"github.com/thirukguru/iam-audit/service/organizations"
	"github.com/thirukguru/iam-audit/service/output"
	csvoutput "github.com/thirukguru/iam-audit/shared/csv_output"
	"github.com/thirukguru/iam-audit/shared/spinner"
	"golang.org/x/sync/errgroup"
)

// unknownAccount labels a run whose caller identity could not be resolved.
const unknownAccount = "unknown"

// NewService creates a new orchestrator service.
func NewService(deps Dependencies) Service {
	s := &service{
		awsConfig:        deps.AWSConfig,
		newSTS:           deps.NewSTS,
		newIAM:           deps.NewIAM,
		newOrganizations: deps.NewOrganizations,
		outputService:    deps.Output,
		storageService:   deps.Storage,
		versionInfo:      deps.VersionInfo,
		log:              deps.Logger,
		out:              deps.Out,
		writeReportFile:  deps.WriteReportFile,
		now:              deps.Now,
		newRunID:         deps.NewRunID,
		progress:         deps.Progress,
	}
	if s.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.log = l
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.writeReportFile == nil {
		s.writeReportFile = csvoutput.WriteReportFile
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newRunID == nil {
		s.newRunID = uuid.NewString
	}
	if s.progress == nil {
		s.progress = spinner.UpdateSpinner
	}
	return s
}

func (s *service) Orchestrate(ctx context.Context, flags model.Flags) error {
	if flags.Version {
		return s.versionWorkflow()
	}
	return s.auditWorkflow(ctx, flags)
}

func (s *service) versionWorkflow() error {
	s.outputService.StopSpinner()

	fmt.Fprintf(s.out, "iam-audit version %s\n", s.versionInfo.Version)
	fmt.Fprintf(s.out, "commit: %s\n", s.versionInfo.Commit)
	fmt.Fprintf(s.out, "built at: %s\n", s.versionInfo.Date)

	return nil
}

func (s *service) auditWorkflow(ctx context.Context, flags model.Flags) error {
	startedAt := s.now()

	s.progress("Loading AWS configuration...")
	baseCfg, err := s.awsConfig.GetAWSCfg(ctx, awsconfig.Options{
		Region:      flags.Region,
		Profile:     flags.Profile,
		MaxAttempts: flags.MaxAttempts,
	})
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	callerAccount := s.callerAccountID(ctx, baseCfg)

	var (
		inputs   []model.RenderAuditInput
		failures []model.OrgFailure
	)
	if flags.OrgScan {
		inputs, failures, err = s.orgWorkflow(ctx, flags, baseCfg, callerAccount)
	} else {
		var input model.RenderAuditInput
		input, err = s.auditAccount(ctx, flags, baseCfg, callerAccount, "")
		inputs = []model.RenderAuditInput{input}
	}
	if err != nil {
		s.outputService.StopSpinner()
		return err
	}

	inactiveDays := inactiveDaysOf(flags)
	if err := s.outputService.Render(output.RenderInput{
		Accounts:     inputs,
		Failures:     failures,
		InactiveDays: inactiveDays,
		GeneratedAt:  startedAt,
		Org:          flags.OrgScan,
	}); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if path := strings.TrimSpace(flags.ReportFile); path != "" && len(inputs) > 0 {
		if err := s.writeReportFile(path, inputs, inactiveDays, flags.OrgScan); err != nil {
			return err
		}
		s.log.WithField("path", path).Info("CSV report written")
		if s.outputService.Format() == output.FormatTable {
			fmt.Fprintf(s.out, "\nIAM Audit Report saved to %s\n", path)
		}
	}

	if err := s.persistRunsIfEnabled(ctx, flags, inputs, s.now().Sub(startedAt)); err != nil {
		return err
	}

	if flags.OrgScan && len(inputs) == 0 && len(failures) > 0 {
		return fmt.Errorf("all %d organization accounts failed", len(failures))
	}
	return nil
}

// callerAccountID resolves the audited account. Failure only loses the label.
func (s *service) callerAccountID(ctx context.Context, cfg aws.Config) string {
	if s.newSTS == nil {
		return unknownAccount
	}
	id, err := s.newSTS(cfg).GetAccountID(ctx)
	if err != nil {
		s.log.WithField("operation", "GetCallerIdentity").WithError(err).Warn("unable to resolve caller account")
		return unknownAccount
	}
	return id
}

// auditAccount runs enumeration, collection and evaluation for one account.
func (s *service) auditAccount(ctx context.Context, flags model.Flags, cfg aws.Config, accountID, accountName string) (model.RenderAuditInput, error) {
	log := s.log.WithField("account_id", accountID)
	iamService := s.newIAM(cfg, iam.Options{
		IncludeAttachedDocuments: flags.IncludeAttachedDocuments,
		ExcludeUsers:             flags.ExcludeUsers,
		MaxParallel:              flags.MaxParallel,
		Logger:                   log,
	})
	auditor := audit.NewService(audit.Options{
		AdminPolicyName: flags.AdminPolicyName,
		InactiveDays:    flags.InactiveDays,
		MaxParallel:     flags.MaxParallel,
		Logger:          log,
	})

	s.progress(fmt.Sprintf("Listing IAM users in %s...", accountID))
	accounts, err := iamService.ListAccounts(ctx)
	if err != nil {
		return model.RenderAuditInput{}, fmt.Errorf("failed to list IAM users in account %s: %w", accountID, err)
	}

	s.progress(fmt.Sprintf("Collecting data for %d users in %s...", len(accounts), accountID))
	collected, err := iamService.CollectAll(ctx, accounts, flags.MaxParallel)
	if err != nil {
		return model.RenderAuditInput{}, fmt.Errorf("failed to collect IAM data in account %s: %w", accountID, err)
	}

	records, err := auditor.AuditAll(ctx, collected, s.now())
	if err != nil {
		return model.RenderAuditInput{}, err
	}
	log.WithField("users", len(records)).Debug("account audited")

	return model.RenderAuditInput{
		AccountID:   accountID,
		AccountName: accountName,
		GeneratedAt: s.now(),
		Report:      audit.BuildReportWithThreshold(records, auditor.InactiveDays()),
	}, nil
}

// orgWorkflow audits every active member account. Results keep organization order.
func (s *service) orgWorkflow(ctx context.Context, flags model.Flags, baseCfg aws.Config, callerAccount string) ([]model.RenderAuditInput, []model.OrgFailure, error) {
	s.progress("Listing organization accounts...")
	accounts, err := s.newOrganizations(baseCfg).ListActiveAccounts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list organization accounts: %w", err)
	}
	s.log.WithField("accounts", len(accounts)).Info("organization accounts discovered")

	results := make([]*model.RenderAuditInput, len(accounts))
	errs := make([]error, len(accounts))

	limit := flags.MaxParallel
	if limit <= 0 {
		limit = audit.DefaultMaxParallel
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, acct := range accounts {
		g.Go(func() error {
			input, err := s.auditMember(gctx, flags, baseCfg, callerAccount, acct)
			if err != nil {
				if !flags.BestEffort {
					return fmt.Errorf("account %s: %w", acct.ID, err)
				}
				s.log.WithFields(logrus.Fields{
					"account_id": acct.ID,
					"operation":  "AuditAccount",
				}).WithError(err).Error("account audit failed, continuing")
				errs[i] = err
				return nil
			}
			results[i] = &input
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		inputs   []model.RenderAuditInput
		failures []model.OrgFailure
	)
	for i, acct := range accounts {
		if errs[i] != nil {
			failures = append(failures, model.OrgFailure{AccountID: acct.ID, Name: acct.Name, Error: errs[i].Error()})
			continue
		}
		if results[i] != nil {
			inputs = append(inputs, *results[i])
		}
	}
	return inputs, failures, nil
}

func (s *service) auditMember(ctx context.Context, flags model.Flags, baseCfg aws.Config, callerAccount string, acct organizations.Account) (model.RenderAuditInput, error) {
	if err := ctx.Err(); err != nil {
		return model.RenderAuditInput{}, err
	}

	cfg := baseCfg
	// The management account is audited with the caller's own credentials.
	if acct.ID != callerAccount {
		var err error
		cfg, err = s.awsConfig.ForAccount(ctx, baseCfg, awsconfig.AssumeRoleInput{
			AccountID:  acct.ID,
			RoleName:   flags.OrgRoleName,
			ExternalID: flags.ExternalID,
		})
		if err != nil {
			if isRetryableError(err) {
				return model.RenderAuditInput{}, fmt.Errorf("assume role throttled, retry later: %w", err)
			}
			return model.RenderAuditInput{}, err
		}
	}
	return s.auditAccount(ctx, flags, cfg, acct.ID, acct.Name)
}

func inactiveDaysOf(flags model.Flags) int {
	if flags.InactiveDays > 0 {
		return flags.InactiveDays
	}
	return audit.DefaultInactiveDays
}

var retryableCodes = []string{
	"Throttling",
	"ThrottlingException",
	"RequestLimitExceeded",
	"TooManyRequestsException",
	"RequestThrottled",
	"ServiceUnavailable",
}

// isRetryableError reports whether err carries a throttling or availability code.
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	code := iam.ErrorCode(err)
	for _, c := range retryableCodes {
		if code == c {
			return true
		}
	}
	msg := err.Error()
	for _, c := range retryableCodes {
		if strings.Contains(msg, c) {
			return true
		}
	}
	return false
}
