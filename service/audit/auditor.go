package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/thirukguru/iam-audit/service/policy"
	"golang.org/x/sync/errgroup"
)

// AuditAccount composes the evaluators into one risk record.
func (s *service) AuditAccount(input AccountInput, now time.Time) RiskRecord {
	inactive, label := EvaluateInactivity(input.Credentials, now, s.inactiveDays)

	record := RiskRecord{
		Username:                  input.Account.Name,
		MFAEnabled:                HasMFA(input.MFADevices),
		HasAdminAccess:            HasAdminAccess(input.AttachedPolicies, s.adminPolicyName),
		HasWildcardPolicy:         policy.HasWildcardPolicy(input.PolicyDocuments),
		LastUsedLabel:             label,
		IsInactive:                inactive,
		CredentialDataUnavailable: input.Credentials.Err != nil && !inactive,
	}

	if record.CredentialDataUnavailable {
		s.log.WithFields(logrus.Fields{
			"user":      record.Username,
			"operation": "EvaluateInactivity",
		}).WithError(input.Credentials.Err).Warn("access key data unavailable, reporting as no keys")
	}

	s.log.WithField("user", record.Username).Infof(
		"Checked %s → MFA: %s, Admin: %s, Wildcard: %s, Inactive: %s",
		record.Username,
		FormatBool(record.MFAEnabled),
		FormatBool(record.HasAdminAccess),
		FormatBool(record.HasWildcardPolicy),
		FormatBool(record.IsInactive),
	)

	return record
}

// AuditAll audits inputs concurrently and returns records in input order.
func (s *service) AuditAll(ctx context.Context, inputs []AccountInput, now time.Time) ([]RiskRecord, error) {
	records := make([]RiskRecord, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)

	for i := range inputs {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i] = s.AuditAccount(inputs[i], now)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("auditing accounts: %w", err)
	}
	return records, nil
}

// InactiveDays returns the configured inactivity threshold.
func (s *service) InactiveDays() int {
	return s.inactiveDays
}
