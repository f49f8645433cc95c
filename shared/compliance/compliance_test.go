package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thirukguru/iam-audit/service/audit"
)

func TestEveryRiskHasControls(t *testing.T) {
	record := audit.RiskRecord{HasAdminAccess: true, HasWildcardPolicy: true, IsInactive: true}
	for _, risk := range record.Risks() {
		assert.NotEmpty(t, GetCISControls(risk), risk)
	}
}

func TestGetComplianceIDs(t *testing.T) {
	assert.Equal(t, []string{"CIS 1.10", "NIST IA-2", "PCI-DSS 8.3"}, GetComplianceIDs("no_mfa"))
	assert.Equal(t, []string{"CIS 1.12", "CIS 1.14"}, GetCISControls("inactive"))
	assert.Nil(t, GetComplianceIDs("unknown"))
	assert.Nil(t, GetCISControls("unknown"))
}

func TestFindings(t *testing.T) {
	findings := Findings(audit.Summary{TotalUsers: 5, WithoutMFA: 2, Inactive: 1})
	assert.Len(t, findings, 2)
	assert.Equal(t, "no_mfa", findings[0].Risk)
	assert.Equal(t, 2, findings[0].Users)
	assert.Equal(t, "inactive", findings[1].Risk)

	assert.Empty(t, Findings(audit.Summary{TotalUsers: 3}))
}
