package model

import (
	"time"

	"github.com/thirukguru/iam-audit/service/audit"
)

// RenderAuditInput is one audited account handed to the output service.
type RenderAuditInput struct {
	AccountID   string
	AccountName string
	GeneratedAt time.Time
	Report      audit.Report
}

// AuditReportJSON is the JSON shape of one account's audit.
type AuditReportJSON struct {
	AccountID   string             `json:"account_id"`
	AccountName string             `json:"account_name,omitempty"`
	GeneratedAt string             `json:"generated_at"`
	Header      []string           `json:"header"`
	Summary     audit.Summary      `json:"summary"`
	Records     []audit.RiskRecord `json:"records"`
}

// OrgFailure records a member account that could not be audited.
type OrgFailure struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name,omitempty"`
	Error     string `json:"error"`
}

// ToJSON converts a render input into its JSON shape.
func (in RenderAuditInput) ToJSON() AuditReportJSON {
	records := in.Report.Records
	if records == nil {
		records = []audit.RiskRecord{}
	}
	return AuditReportJSON{
		AccountID:   in.AccountID,
		AccountName: in.AccountName,
		GeneratedAt: in.GeneratedAt.UTC().Format(time.RFC3339),
		Header:      in.Report.Header,
		Summary:     in.Report.Summary,
		Records:     records,
	}
}

// OrgAuditJSON is the JSON shape of an organization-wide audit.
type OrgAuditJSON struct {
	GeneratedAt string            `json:"generated_at"`
	Accounts    []AuditReportJSON `json:"accounts"`
	Failures    []OrgFailure      `json:"failures,omitempty"`
}
