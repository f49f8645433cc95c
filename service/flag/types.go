package flag

import "github.com/thirukguru/iam-audit/model"

// Defaults for flags that other layers also fall back to.
const (
	DefaultOutput      = "table"
	DefaultReportFile  = "iam_audit_report.csv"
	DefaultOrgRoleName = "OrganizationAccountAccessRole"
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
)

type service struct{}

// Service is the interface for CLI flag service.
type Service interface {
	GetParsedFlags() (model.Flags, error)
}
