// Package awssts resolves the identity of the audited account.
package awssts

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// NewService creates a new STS service.
func NewService(awsconfig aws.Config) Service {
	return NewServiceWithClient(sts.NewFromConfig(awsconfig))
}

// NewServiceWithClient wraps an existing STS client.
func NewServiceWithClient(client STSClientAPI) Service {
	return &service{client: client}
}

func (s *service) GetCallerIdentity(ctx context.Context) (*sts.GetCallerIdentityOutput, error) {
	return s.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
}

// GetAccountID returns the account id of the calling credentials.
func (s *service) GetAccountID(ctx context.Context) (string, error) {
	out, err := s.GetCallerIdentity(ctx)
	if err != nil {
		return "", fmt.Errorf("get caller identity: %w", err)
	}
	if out == nil || aws.ToString(out.Account) == "" {
		return "", errors.New("caller identity returned no account id")
	}
	return aws.ToString(out.Account), nil
}
