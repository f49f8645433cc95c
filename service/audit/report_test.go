package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportBuilderKeepsOrderAndDuplicates(t *testing.T) {
	b := NewReportBuilder(0)
	b.Add(RiskRecord{Username: "zed", MFAEnabled: true, LastUsedLabel: LabelActive})
	b.Add(RiskRecord{Username: "amy", HasAdminAccess: true, LastUsedLabel: LabelNoKeys})
	b.Add(RiskRecord{Username: "zed", MFAEnabled: true, LastUsedLabel: LabelActive})

	assert.Equal(t, []string{"Username", "MFA Enabled", "Admin Access", "Wildcard Policy", "Last Used", "Inactive >90 days"}, b.Header())
	assert.Equal(t, [][]string{
		{"zed", "True", "False", "False", "Active", "False"},
		{"amy", "False", "True", "False", "No Keys", "False"},
		{"zed", "True", "False", "False", "Active", "False"},
	}, b.Rows())

	records := b.Records()
	records[0].Username = "mutated"
	assert.Equal(t, "zed", b.Records()[0].Username)
}

func TestBuildReport(t *testing.T) {
	records := []RiskRecord{
		{Username: "a", MFAEnabled: false, HasAdminAccess: true, LastUsedLabel: "2023-01-02", IsInactive: true},
		{Username: "b", MFAEnabled: true, HasWildcardPolicy: true, LastUsedLabel: LabelActive},
		{Username: "c", MFAEnabled: true, LastUsedLabel: LabelNoKeys, CredentialDataUnavailable: true},
	}

	report := BuildReport(records)
	assert.Equal(t, "Inactive >90 days", report.Header[5])
	assert.Equal(t, records, report.Records)
	assert.Equal(t, []string{"a", "False", "True", "False", "2023-01-02", "True"}, report.Rows()[0])
	assert.Equal(t, Summary{
		TotalUsers:       3,
		WithoutMFA:       1,
		AdminAccess:      1,
		WildcardPolicy:   1,
		Inactive:         1,
		RiskyUsers:       2,
		CredentialErrors: 1,
	}, report.Summary)

	custom := BuildReportWithThreshold(records, 45)
	assert.Equal(t, "Inactive >45 days", custom.Header[5])
}

func TestBuildReportEmpty(t *testing.T) {
	report := BuildReport(nil)
	assert.Empty(t, report.Records)
	assert.Empty(t, report.Rows())
	assert.Equal(t, 0, report.Summary.TotalUsers)
}
