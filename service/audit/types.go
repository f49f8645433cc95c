// Package audit classifies IAM user accounts into risk records.
package audit

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/thirukguru/iam-audit/service/policy"
)

// Defaults applied when Options leaves a field empty.
const (
	DefaultAdminPolicyName = "AdministratorAccess"
	DefaultInactiveDays    = 90
	DefaultMaxParallel     = 3
)

// Last-used labels that are not dates.
const (
	LabelActive = "Active"
	LabelNoKeys = "No Keys"
)

// Account identifies one IAM user. ARN and CreateDate are display only.
type Account struct {
	Name       string
	ARN        string
	CreateDate *time.Time
}

// AttachedPolicy is a managed policy attached to a user.
type AttachedPolicy struct {
	Name string
	ARN  string
}

// MFADevice is a registered MFA device.
type MFADevice struct {
	SerialNumber string
}

// AccessKey is an access key with its last-used timestamp (nil when never used).
type AccessKey struct {
	ID           string
	Status       string
	LastUsedDate *time.Time
}

// Credentials carries the keys fetched for a user. Err is set when key metadata
// could not be retrieved completely; Keys then holds what was fetched before the failure.
type Credentials struct {
	Keys []AccessKey
	Err  error
}

// AccountInput is everything the auditor needs to classify one account.
type AccountInput struct {
	Account          Account
	MFADevices       []MFADevice
	AttachedPolicies []AttachedPolicy
	PolicyDocuments  []policy.Document
	Credentials      Credentials
}

// RiskRecord is the verdict for one account.
type RiskRecord struct {
	Username          string `json:"username"`
	MFAEnabled        bool   `json:"mfa_enabled"`
	HasAdminAccess    bool   `json:"admin_access"`
	HasWildcardPolicy bool   `json:"wildcard_policy"`
	LastUsedLabel     string `json:"last_used"`
	IsInactive        bool   `json:"inactive"`

	// CredentialDataUnavailable separates "No Keys" caused by a lookup failure
	// from a user that genuinely has no keys.
	CredentialDataUnavailable bool `json:"credential_data_unavailable,omitempty"`
}

// Risks lists the risk names that apply to the record.
func (r RiskRecord) Risks() []string {
	var risks []string
	if !r.MFAEnabled {
		risks = append(risks, "no_mfa")
	}
	if r.HasAdminAccess {
		risks = append(risks, "admin_access")
	}
	if r.HasWildcardPolicy {
		risks = append(risks, "wildcard_policy")
	}
	if r.IsInactive {
		risks = append(risks, "inactive")
	}
	return risks
}

// IsRisky reports whether any risk applies.
func (r RiskRecord) IsRisky() bool {
	return len(r.Risks()) > 0
}

// Options configures the auditor.
type Options struct {
	AdminPolicyName string
	InactiveDays    int
	MaxParallel     int
	Logger          logrus.FieldLogger
}

// Service is the interface for account auditing.
type Service interface {
	AuditAccount(input AccountInput, now time.Time) RiskRecord
	AuditAll(ctx context.Context, inputs []AccountInput, now time.Time) ([]RiskRecord, error)
	InactiveDays() int
}

type service struct {
	adminPolicyName string
	inactiveDays    int
	maxParallel     int
	log             logrus.FieldLogger
}

// NewService creates a new auditor, filling unset options with defaults.
func NewService(opts Options) Service {
	s := &service{
		adminPolicyName: opts.AdminPolicyName,
		inactiveDays:    opts.InactiveDays,
		maxParallel:     opts.MaxParallel,
		log:             opts.Logger,
	}
	if s.adminPolicyName == "" {
		s.adminPolicyName = DefaultAdminPolicyName
	}
	if s.inactiveDays <= 0 {
		s.inactiveDays = DefaultInactiveDays
	}
	if s.maxParallel <= 0 {
		s.maxParallel = DefaultMaxParallel
	}
	if s.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		s.log = l
	}
	return s
}
