// Package compliance maps audit risks to CIS Benchmark and other framework controls.
package compliance

import "github.com/thirukguru/iam-audit/service/audit"

// Control is one framework control.
type Control struct {
	ID        string
	Title     string
	Framework string // "CIS", "NIST", "PCI-DSS"
}

// RiskCompliance maps RiskRecord.Risks() names to controls.
// CIS AWS Foundations Benchmark v1.5.0.
var RiskCompliance = map[string][]Control{
	"no_mfa": {
		{ID: "CIS 1.10", Title: "Ensure multi-factor authentication is enabled for all IAM users that have a console password", Framework: "CIS"},
		{ID: "NIST IA-2", Title: "Identification and Authentication", Framework: "NIST"},
		{ID: "PCI-DSS 8.3", Title: "Incorporate two-factor authentication", Framework: "PCI-DSS"},
	},
	"admin_access": {
		{ID: "CIS 1.16", Title: "Ensure IAM policies that allow full *:* administrative privileges are not attached", Framework: "CIS"},
		{ID: "NIST AC-6", Title: "Least Privilege", Framework: "NIST"},
	},
	"wildcard_policy": {
		{ID: "CIS 1.16", Title: "Ensure IAM policies that allow full *:* administrative privileges are not attached", Framework: "CIS"},
		{ID: "CIS 1.15", Title: "Ensure IAM users receive permissions only through groups", Framework: "CIS"},
		{ID: "NIST AC-6", Title: "Least Privilege", Framework: "NIST"},
	},
	"inactive": {
		{ID: "CIS 1.12", Title: "Ensure credentials unused for 45 days or greater are disabled", Framework: "CIS"},
		{ID: "CIS 1.14", Title: "Ensure access keys are rotated every 90 days or less", Framework: "CIS"},
		{ID: "PCI-DSS 8.1.4", Title: "Remove/disable inactive user accounts within 90 days", Framework: "PCI-DSS"},
	},
}

// riskOrder is the display order of risks.
var riskOrder = []string{"no_mfa", "admin_access", "wildcard_policy", "inactive"}

// Finding is a risk present in a report with its affected user count.
type Finding struct {
	Risk     string
	Users    int
	Controls []Control
}

// GetComplianceIDs returns a list of compliance IDs for a given risk
func GetComplianceIDs(risk string) []string {
	controls, ok := RiskCompliance[risk]
	if !ok {
		return nil
	}

	ids := make([]string, 0, len(controls))
	for _, c := range controls {
		ids = append(ids, c.ID)
	}
	return ids
}

// GetCISControls returns only CIS controls for a given risk
func GetCISControls(risk string) []string {
	controls, ok := RiskCompliance[risk]
	if !ok {
		return nil
	}

	ids := make([]string, 0)
	for _, c := range controls {
		if c.Framework == "CIS" {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Findings lists the risks with at least one affected user.
func Findings(s audit.Summary) []Finding {
	counts := map[string]int{
		"no_mfa":          s.WithoutMFA,
		"admin_access":    s.AdminAccess,
		"wildcard_policy": s.WildcardPolicy,
		"inactive":        s.Inactive,
	}
	var out []Finding
	for _, risk := range riskOrder {
		if counts[risk] == 0 {
			continue
		}
		out = append(out, Finding{Risk: risk, Users: counts[risk], Controls: RiskCompliance[risk]})
	}
	return out
}
