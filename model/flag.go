package model

// Flags represents the command line flags.
type Flags struct {
	Profile     string
	Region      string
	MaxAttempts int

	OrgScan     bool
	OrgRoleName string
	ExternalID  string
	BestEffort  bool

	Version    bool
	Output     string
	OutputFile string
	ReportFile string

	AdminPolicyName          string
	InactiveDays             int
	MaxParallel              int
	IncludeAttachedDocuments bool
	ExcludeUsers             []string

	Store  bool
	DBPath string

	ConfigPath string
	LogLevel   string
	LogFormat  string

	// Changed holds the names of flags set explicitly on the command line.
	Changed map[string]bool
}

// IsSet reports whether the named flag was given on the command line.
func (f Flags) IsSet(name string) bool {
	return f.Changed[name]
}
