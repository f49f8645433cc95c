// Package awsconfig loads AWS configuration for the audited and member accounts.
package awsconfig

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// IAM is global; STS and IAM clients need some region to resolve endpoints.
const fallbackRegion = "us-east-1"

// loadSharedConfigProfile is a variable to allow mocking in tests.
var loadSharedConfigProfile = config.LoadSharedConfigProfile

// NewService creates a new AWS configuration service.
func NewService() Service {
	return &service{}
}

// GetAWSCfg loads the base configuration. Profiles that assume a role with MFA
// prompt for the token on stdin before returning.
func (s *service) GetAWSCfg(ctx context.Context, opts Options) (aws.Config, error) {
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	if opts.Profile != "" {
		sharedCfg, err := loadSharedConfigProfile(ctx, opts.Profile)
		if err == nil && sharedCfg.RoleARN != "" && sharedCfg.MFASerial != "" {
			return s.loadConfigWithManualMFA(ctx, opts, maxAttempts)
		}
	}

	loadOpts := []func(*config.LoadOptions) error{
		withRetries(maxAttempts),
		config.WithAssumeRoleCredentialOptions(func(o *stscreds.AssumeRoleOptions) {
			o.TokenProvider = stscreds.StdinTokenProvider
		}),
	}
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load AWS config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = fallbackRegion
	}

	if cfg.Credentials != nil {
		if _, err := cfg.Credentials.Retrieve(ctx); err != nil {
			return aws.Config{}, fmt.Errorf("failed to retrieve credentials: %w", err)
		}
	}

	return cfg, nil
}

// ForAccount returns a copy of base whose credentials assume the named role in
// another account of the organization.
func (s *service) ForAccount(ctx context.Context, base aws.Config, in AssumeRoleInput) (aws.Config, error) {
	if in.AccountID == "" || in.RoleName == "" {
		return aws.Config{}, fmt.Errorf("assume role requires account id and role name")
	}

	sessionName := in.SessionName
	if sessionName == "" {
		sessionName = "iam-audit"
	}

	provider := stscreds.NewAssumeRoleProvider(sts.NewFromConfig(base), RoleARN(in.AccountID, in.RoleName), func(o *stscreds.AssumeRoleOptions) {
		o.RoleSessionName = sessionName
		if in.ExternalID != "" {
			o.ExternalID = aws.String(in.ExternalID)
		}
	})

	cfg := base.Copy()
	cfg.Credentials = aws.NewCredentialsCache(provider)

	if _, err := cfg.Credentials.Retrieve(ctx); err != nil {
		return aws.Config{}, fmt.Errorf("assume role in account %s: %w", in.AccountID, err)
	}
	return cfg, nil
}

// RoleARN builds the ARN of a role in the given account.
func RoleARN(accountID, roleName string) string {
	return fmt.Sprintf("arn:aws:iam::%s:role/%s", accountID, roleName)
}

func withRetries(maxAttempts int) func(*config.LoadOptions) error {
	return config.WithRetryer(func() aws.Retryer {
		return retry.AddWithMaxAttempts(retry.NewStandard(), maxAttempts)
	})
}

// loadConfigWithManualMFA assumes the profile's role with an MFA token read from
// stdin, using the source profile's credentials for the STS call.
func (s *service) loadConfigWithManualMFA(ctx context.Context, opts Options, maxAttempts int) (aws.Config, error) {
	sharedCfg, err := loadSharedConfigProfile(ctx, opts.Profile)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load shared config profile: %w", err)
	}
	if sharedCfg.RoleARN == "" || sharedCfg.MFASerial == "" {
		return aws.Config{}, fmt.Errorf("profile %s missing role_arn or mfa_serial", opts.Profile)
	}

	sourceProfile := sharedCfg.SourceProfileName
	if sourceProfile == "" {
		sourceProfile = "default"
	}

	region := firstNonEmpty(opts.Region, sharedCfg.Region, fallbackRegion)

	baseCfg, err := config.LoadDefaultConfig(ctx,
		config.WithSharedConfigProfile(sourceProfile),
		config.WithRegion(region),
		withRetries(maxAttempts),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load source profile config: %w", err)
	}

	provider := stscreds.NewAssumeRoleProvider(sts.NewFromConfig(baseCfg), sharedCfg.RoleARN, func(o *stscreds.AssumeRoleOptions) {
		o.SerialNumber = aws.String(sharedCfg.MFASerial)
		o.TokenProvider = stscreds.StdinTokenProvider
	})

	finalCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(aws.NewCredentialsCache(provider)),
		config.WithRegion(region),
		withRetries(maxAttempts),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load final config with mfa: %w", err)
	}

	// Prompt for the token now, before any spinner starts.
	if _, err := finalCfg.Credentials.Retrieve(ctx); err != nil {
		return aws.Config{}, fmt.Errorf("failed to retrieve credentials (MFA might have failed): %w", err)
	}

	return finalCfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
