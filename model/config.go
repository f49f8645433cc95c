package model

// AuditConfig is the optional config file. Pointer fields distinguish "unset"
// from a zero value so only present keys override defaults.
type AuditConfig struct {
	AdminPolicyName          *string  `yaml:"admin_policy_name" toml:"admin_policy_name" json:"admin_policy_name"`
	InactiveDays             *int     `yaml:"inactive_days" toml:"inactive_days" json:"inactive_days"`
	MaxParallel              *int     `yaml:"max_parallel" toml:"max_parallel" json:"max_parallel"`
	IncludeAttachedDocuments *bool    `yaml:"include_attached_documents" toml:"include_attached_documents" json:"include_attached_documents"`
	ReportFile               *string  `yaml:"report_file" toml:"report_file" json:"report_file"`
	ExcludeUsers             []string `yaml:"exclude_users" toml:"exclude_users" json:"exclude_users"`
	OrgRoleName              *string  `yaml:"org_role_name" toml:"org_role_name" json:"org_role_name"`
	ExternalID               *string  `yaml:"external_id" toml:"external_id" json:"external_id"`
}
