package audit

import "fmt"

// Summary counts records per risk.
type Summary struct {
	TotalUsers       int `json:"total_users"`
	WithoutMFA       int `json:"without_mfa"`
	AdminAccess      int `json:"admin_access"`
	WildcardPolicy   int `json:"wildcard_policy"`
	Inactive         int `json:"inactive"`
	RiskyUsers       int `json:"risky_users"`
	CredentialErrors int `json:"credential_errors"`
}

// Report is the tabular audit result in enumeration order.
type Report struct {
	Header  []string     `json:"header"`
	Records []RiskRecord `json:"records"`
	Summary Summary      `json:"summary"`
}

// ReportBuilder accumulates records in the order they are added.
type ReportBuilder struct {
	inactiveDays int
	records      []RiskRecord
}

// NewReportBuilder creates a builder whose header names the inactivity threshold.
func NewReportBuilder(inactiveDays int) *ReportBuilder {
	if inactiveDays <= 0 {
		inactiveDays = DefaultInactiveDays
	}
	return &ReportBuilder{inactiveDays: inactiveDays}
}

// Add appends a record. No deduplication or filtering happens here.
func (b *ReportBuilder) Add(record RiskRecord) {
	b.records = append(b.records, record)
}

// Records returns a copy of the accumulated records.
func (b *ReportBuilder) Records() []RiskRecord {
	out := make([]RiskRecord, len(b.records))
	copy(out, b.records)
	return out
}

// Header returns the fixed report columns.
func (b *ReportBuilder) Header() []string {
	return Header(b.inactiveDays)
}

// Rows renders every record as strings in header order.
func (b *ReportBuilder) Rows() [][]string {
	rows := make([][]string, 0, len(b.records))
	for _, r := range b.records {
		rows = append(rows, Row(r))
	}
	return rows
}

// Build freezes the builder into a Report.
func (b *ReportBuilder) Build() Report {
	records := b.Records()
	return Report{
		Header:  b.Header(),
		Records: records,
		Summary: Summarize(records),
	}
}

// BuildReport builds a report with the default threshold in the header.
func BuildReport(records []RiskRecord) Report {
	return BuildReportWithThreshold(records, DefaultInactiveDays)
}

// BuildReportWithThreshold builds a report naming inactiveDays in the header.
func BuildReportWithThreshold(records []RiskRecord, inactiveDays int) Report {
	b := NewReportBuilder(inactiveDays)
	for _, r := range records {
		b.Add(r)
	}
	return b.Build()
}

// Rows renders the report records as strings.
func (r Report) Rows() [][]string {
	rows := make([][]string, 0, len(r.Records))
	for _, rec := range r.Records {
		rows = append(rows, Row(rec))
	}
	return rows
}

// Header returns the report columns for the given threshold.
func Header(inactiveDays int) []string {
	return []string{
		"Username",
		"MFA Enabled",
		"Admin Access",
		"Wildcard Policy",
		"Last Used",
		fmt.Sprintf("Inactive >%d days", inactiveDays),
	}
}

// Row renders one record in header order.
func Row(r RiskRecord) []string {
	return []string{
		r.Username,
		FormatBool(r.MFAEnabled),
		FormatBool(r.HasAdminAccess),
		FormatBool(r.HasWildcardPolicy),
		r.LastUsedLabel,
		FormatBool(r.IsInactive),
	}
}

// FormatBool renders booleans as True/False.
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// Summarize counts risks across records.
func Summarize(records []RiskRecord) Summary {
	s := Summary{TotalUsers: len(records)}
	for _, r := range records {
		if !r.MFAEnabled {
			s.WithoutMFA++
		}
		if r.HasAdminAccess {
			s.AdminAccess++
		}
		if r.HasWildcardPolicy {
			s.WildcardPolicy++
		}
		if r.IsInactive {
			s.Inactive++
		}
		if r.IsRisky() {
			s.RiskyUsers++
		}
		if r.CredentialDataUnavailable {
			s.CredentialErrors++
		}
	}
	return s
}
