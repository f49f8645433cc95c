// Package iam collects IAM user data for the auditor.
package iam

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/sirupsen/logrus"
	"github.com/thirukguru/iam-audit/service/audit"
	"github.com/thirukguru/iam-audit/service/policy"
)

// IAMClientAPI is the subset of the IAM client used by the service.
type IAMClientAPI interface {
	ListUsers(ctx context.Context, params *iam.ListUsersInput, optFns ...func(*iam.Options)) (*iam.ListUsersOutput, error)
	ListMFADevices(ctx context.Context, params *iam.ListMFADevicesInput, optFns ...func(*iam.Options)) (*iam.ListMFADevicesOutput, error)
	ListAttachedUserPolicies(ctx context.Context, params *iam.ListAttachedUserPoliciesInput, optFns ...func(*iam.Options)) (*iam.ListAttachedUserPoliciesOutput, error)
	ListUserPolicies(ctx context.Context, params *iam.ListUserPoliciesInput, optFns ...func(*iam.Options)) (*iam.ListUserPoliciesOutput, error)
	GetUserPolicy(ctx context.Context, params *iam.GetUserPolicyInput, optFns ...func(*iam.Options)) (*iam.GetUserPolicyOutput, error)
	ListAccessKeys(ctx context.Context, params *iam.ListAccessKeysInput, optFns ...func(*iam.Options)) (*iam.ListAccessKeysOutput, error)
	GetAccessKeyLastUsed(ctx context.Context, params *iam.GetAccessKeyLastUsedInput, optFns ...func(*iam.Options)) (*iam.GetAccessKeyLastUsedOutput, error)
	GetPolicy(ctx context.Context, params *iam.GetPolicyInput, optFns ...func(*iam.Options)) (*iam.GetPolicyOutput, error)
	GetPolicyVersion(ctx context.Context, params *iam.GetPolicyVersionInput, optFns ...func(*iam.Options)) (*iam.GetPolicyVersionOutput, error)
}

// Options configures data collection.
type Options struct {
	// IncludeAttachedDocuments also fetches the default version of each attached policy.
	IncludeAttachedDocuments bool
	ExcludeUsers             []string
	MaxParallel              int
	Logger                   logrus.FieldLogger
}

type service struct {
	client          IAMClientAPI
	includeAttached bool
	exclude         map[string]struct{}
	maxParallel     int
	log             logrus.FieldLogger
}

// Service is the interface for IAM data collection.
type Service interface {
	ListAccounts(ctx context.Context) ([]audit.Account, error)
	ListMFADevices(ctx context.Context, userName string) ([]audit.MFADevice, error)
	ListAttachedPolicies(ctx context.Context, userName string) ([]audit.AttachedPolicy, error)
	ListInlinePolicyNames(ctx context.Context, userName string) ([]string, error)
	GetInlinePolicyDocument(ctx context.Context, userName, policyName string) (policy.Document, error)
	GetAttachedPolicyDocument(ctx context.Context, attached audit.AttachedPolicy) (policy.Document, error)
	ListAccessKeys(ctx context.Context, userName string) audit.Credentials
	CollectAccount(ctx context.Context, account audit.Account) audit.AccountInput
	CollectAll(ctx context.Context, accounts []audit.Account, maxParallel int) ([]audit.AccountInput, error)
}
