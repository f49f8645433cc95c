package awsconfig

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// DefaultMaxAttempts bounds SDK retries on throttled IAM calls.
const DefaultMaxAttempts = 5

// Options controls how the base AWS configuration is loaded.
type Options struct {
	Region      string
	Profile     string
	MaxAttempts int
}

// AssumeRoleInput describes the role used to reach a member account.
type AssumeRoleInput struct {
	AccountID   string
	RoleName    string
	ExternalID  string
	SessionName string
}

type service struct{}

// Service is the interface for AWS configuration service.
type Service interface {
	GetAWSCfg(ctx context.Context, opts Options) (aws.Config, error)
	ForAccount(ctx context.Context, base aws.Config, in AssumeRoleInput) (aws.Config, error)
}
