package csvoutput

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirukguru/iam-audit/model"
	"github.com/thirukguru/iam-audit/service/audit"
)

func sampleReport() audit.Report {
	return audit.BuildReport([]audit.RiskRecord{
		{Username: "alice", HasAdminAccess: true, HasWildcardPolicy: true, LastUsedLabel: audit.LabelActive},
		{Username: "bob", MFAEnabled: true, LastUsedLabel: "2023-11-02", IsInactive: true},
	})
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, sampleReport()))

	assert.Equal(t,
		"Username,MFA Enabled,Admin Access,Wildcard Policy,Last Used,Inactive >90 days\n"+
			"alice,False,True,True,Active,False\n"+
			"bob,True,False,False,2023-11-02,True\n",
		buf.String())
}

func TestWriteOrgReport(t *testing.T) {
	var buf bytes.Buffer
	err := WriteOrgReport(&buf, []model.RenderAuditInput{
		{AccountID: "111", Report: sampleReport()},
		{AccountID: "222", Report: audit.BuildReport(nil)},
	}, 90)
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Account ID", rows[0][0])
	assert.Equal(t, []string{"111", "bob", "True", "False", "False", "2023-11-02", "True"}, rows[2])
}

func TestWriteReportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "iam_audit_report.csv")
	require.NoError(t, WriteReportFile(path, []model.RenderAuditInput{{AccountID: "111", Report: sampleReport()}}, 90, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "alice,False,True,True,Active,False")
	assert.NotContains(t, string(data), "Account ID")
}

func TestWriteChoosesLayout(t *testing.T) {
	one := []model.RenderAuditInput{{AccountID: "111", Report: sampleReport()}}

	tests := []struct {
		name   string
		inputs []model.RenderAuditInput
		org    bool
		header string
	}{
		{name: "single account", inputs: one, header: "Username"},
		{name: "org scan with one account", inputs: one, org: true, header: "Account ID"},
		{name: "several accounts", inputs: append(one, model.RenderAuditInput{AccountID: "222"}), header: "Account ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, tt.inputs, 90, tt.org))
			rows, err := csv.NewReader(&buf).ReadAll()
			require.NoError(t, err)
			assert.Equal(t, tt.header, rows[0][0])
		})
	}
}

func TestWriteReportFileOrgSingleAccount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "org.csv")
	require.NoError(t, WriteReportFile(path, []model.RenderAuditInput{{AccountID: "111", Report: sampleReport()}}, 90, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Account ID,Username")
	assert.Contains(t, string(data), "111,alice,False,True,True,Active,False")
}
