package iam

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/smithy-go"
	"github.com/sirupsen/logrus"
	"github.com/thirukguru/iam-audit/service/audit"
	"github.com/thirukguru/iam-audit/service/policy"
	"golang.org/x/sync/errgroup"
)

// NewService creates a new IAM collection service.
func NewService(cfg aws.Config, opts Options) Service {
	return NewServiceWithClient(iam.NewFromConfig(cfg), opts)
}

// NewServiceWithClient wraps an existing IAM client.
func NewServiceWithClient(client IAMClientAPI, opts Options) Service {
	s := &service{
		client:          client,
		includeAttached: opts.IncludeAttachedDocuments,
		exclude:         make(map[string]struct{}, len(opts.ExcludeUsers)),
		maxParallel:     opts.MaxParallel,
		log:             opts.Logger,
	}
	for _, u := range opts.ExcludeUsers {
		if u = strings.TrimSpace(u); u != "" {
			s.exclude[u] = struct{}{}
		}
	}
	if s.maxParallel <= 0 {
		s.maxParallel = audit.DefaultMaxParallel
	}
	if s.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		s.log = l
	}
	return s
}

// ListAccounts enumerates IAM users in API order, skipping excluded names.
func (s *service) ListAccounts(ctx context.Context) ([]audit.Account, error) {
	var accounts []audit.Account

	paginator := iam.NewListUsersPaginator(s.client, &iam.ListUsersInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing IAM users: %w", err)
		}
		for _, user := range page.Users {
			name := aws.ToString(user.UserName)
			if _, skip := s.exclude[name]; skip {
				s.log.WithField("user", name).Debug("user excluded")
				continue
			}
			accounts = append(accounts, audit.Account{
				Name:       name,
				ARN:        aws.ToString(user.Arn),
				CreateDate: user.CreateDate,
			})
		}
	}

	return accounts, nil
}

func (s *service) ListMFADevices(ctx context.Context, userName string) ([]audit.MFADevice, error) {
	var devices []audit.MFADevice

	paginator := iam.NewListMFADevicesPaginator(s.client, &iam.ListMFADevicesInput{UserName: aws.String(userName)})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, d := range page.MFADevices {
			devices = append(devices, audit.MFADevice{SerialNumber: aws.ToString(d.SerialNumber)})
		}
	}

	return devices, nil
}

func (s *service) ListAttachedPolicies(ctx context.Context, userName string) ([]audit.AttachedPolicy, error) {
	var policies []audit.AttachedPolicy

	paginator := iam.NewListAttachedUserPoliciesPaginator(s.client, &iam.ListAttachedUserPoliciesInput{UserName: aws.String(userName)})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range page.AttachedPolicies {
			policies = append(policies, audit.AttachedPolicy{
				Name: aws.ToString(p.PolicyName),
				ARN:  aws.ToString(p.PolicyArn),
			})
		}
	}

	return policies, nil
}

func (s *service) ListInlinePolicyNames(ctx context.Context, userName string) ([]string, error) {
	var names []string

	paginator := iam.NewListUserPoliciesPaginator(s.client, &iam.ListUserPoliciesInput{UserName: aws.String(userName)})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		names = append(names, page.PolicyNames...)
	}

	return names, nil
}

// GetInlinePolicyDocument fetches and parses one inline user policy.
func (s *service) GetInlinePolicyDocument(ctx context.Context, userName, policyName string) (policy.Document, error) {
	out, err := s.client.GetUserPolicy(ctx, &iam.GetUserPolicyInput{
		UserName:   aws.String(userName),
		PolicyName: aws.String(policyName),
	})
	if err != nil {
		return policy.Document{}, err
	}
	return policy.ParseDocument(policyName, policy.SourceInline, aws.ToString(out.PolicyDocument))
}

// GetAttachedPolicyDocument fetches and parses the default version of a managed policy.
func (s *service) GetAttachedPolicyDocument(ctx context.Context, attached audit.AttachedPolicy) (policy.Document, error) {
	pol, err := s.client.GetPolicy(ctx, &iam.GetPolicyInput{PolicyArn: aws.String(attached.ARN)})
	if err != nil {
		return policy.Document{}, err
	}
	if pol.Policy == nil || pol.Policy.DefaultVersionId == nil {
		return policy.Document{}, fmt.Errorf("policy %s has no default version", attached.ARN)
	}

	version, err := s.client.GetPolicyVersion(ctx, &iam.GetPolicyVersionInput{
		PolicyArn: aws.String(attached.ARN),
		VersionId: pol.Policy.DefaultVersionId,
	})
	if err != nil {
		return policy.Document{}, err
	}
	if version.PolicyVersion == nil {
		return policy.Document{}, fmt.Errorf("policy %s returned no version", attached.ARN)
	}

	return policy.ParseDocument(attached.Name, policy.SourceAttached, aws.ToString(version.PolicyVersion.Document))
}

// ListAccessKeys returns the user's keys with their last-used dates. On failure
// the keys resolved so far are returned together with the error.
func (s *service) ListAccessKeys(ctx context.Context, userName string) audit.Credentials {
	var creds audit.Credentials

	paginator := iam.NewListAccessKeysPaginator(s.client, &iam.ListAccessKeysInput{UserName: aws.String(userName)})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			creds.Err = fmt.Errorf("listing access keys: %w", err)
			return creds
		}
		for _, meta := range page.AccessKeyMetadata {
			last, err := s.client.GetAccessKeyLastUsed(ctx, &iam.GetAccessKeyLastUsedInput{AccessKeyId: meta.AccessKeyId})
			if err != nil {
				creds.Err = fmt.Errorf("last used for key %s: %w", aws.ToString(meta.AccessKeyId), err)
				return creds
			}

			key := audit.AccessKey{
				ID:     aws.ToString(meta.AccessKeyId),
				Status: string(meta.Status),
			}
			if last.AccessKeyLastUsed != nil {
				key.LastUsedDate = last.AccessKeyLastUsed.LastUsedDate
			}
			creds.Keys = append(creds.Keys, key)
		}
	}

	return creds
}

// CollectAccount gathers everything the auditor needs for one user. Failures
// on individual dimensions are logged and leave that dimension empty.
func (s *service) CollectAccount(ctx context.Context, account audit.Account) audit.AccountInput {
	input := audit.AccountInput{Account: account}
	user := account.Name

	devices, err := s.ListMFADevices(ctx, user)
	s.logFailure(user, "ListMFADevices", err)
	input.MFADevices = devices

	attached, err := s.ListAttachedPolicies(ctx, user)
	s.logFailure(user, "ListAttachedUserPolicies", err)
	input.AttachedPolicies = attached

	names, err := s.ListInlinePolicyNames(ctx, user)
	s.logFailure(user, "ListUserPolicies", err)
	for _, name := range names {
		doc, err := s.GetInlinePolicyDocument(ctx, user, name)
		if err != nil {
			s.logFailure(user, "GetUserPolicy", fmt.Errorf("policy %s: %w", name, err))
			continue
		}
		input.PolicyDocuments = append(input.PolicyDocuments, doc)
	}

	if s.includeAttached {
		for _, p := range attached {
			doc, err := s.GetAttachedPolicyDocument(ctx, p)
			if err != nil {
				s.logFailure(user, "GetPolicyVersion", fmt.Errorf("policy %s: %w", p.Name, err))
				continue
			}
			input.PolicyDocuments = append(input.PolicyDocuments, doc)
		}
	}

	input.Credentials = s.ListAccessKeys(ctx, user)

	return input
}

// CollectAll collects accounts concurrently and returns inputs in account order.
func (s *service) CollectAll(ctx context.Context, accounts []audit.Account, maxParallel int) ([]audit.AccountInput, error) {
	if maxParallel <= 0 {
		maxParallel = s.maxParallel
	}

	inputs := make([]audit.AccountInput, len(accounts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i := range accounts {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			inputs[i] = s.CollectAccount(gctx, accounts[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("collecting IAM data: %w", err)
	}
	return inputs, nil
}

func (s *service) logFailure(user, operation string, err error) {
	if err == nil {
		return
	}
	entry := s.log.WithFields(logrus.Fields{"user": user, "operation": operation})
	if IsNoSuchEntity(err) {
		entry.Debug("entity not found, treating as empty")
		return
	}
	entry.WithError(err).Warn("IAM call failed")
}

// IsNoSuchEntity reports whether err is an IAM NoSuchEntity error.
func IsNoSuchEntity(err error) bool {
	return ErrorCode(err) == "NoSuchEntity"
}

// ErrorCode extracts the AWS API error code, or "" when err is not an API error.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
