// Package flag parses the iam-audit command line.
package flag

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/thirukguru/iam-audit/model"
	"github.com/thirukguru/iam-audit/service/audit"
	awsconfig "github.com/thirukguru/iam-audit/service/aws_config"
)

// NewService creates a new flag service.
func NewService() Service {
	return &service{}
}

// GetParsedFlags parses and returns the command-line flags.
func (s *service) GetParsedFlags() (model.Flags, error) {
	profile := pflag.StringP("profile", "p", "", "AWS profile to use")
	region := pflag.StringP("region", "r", "", "AWS region for API endpoints (IAM is global)")
	maxAttempts := pflag.Int("max-attempts", awsconfig.DefaultMaxAttempts, "Maximum attempts per AWS API call")
	orgScan := pflag.Bool("org-scan", false, "Audit every active organization account (management account required)")
	orgRoleName := pflag.String("org-role-name", DefaultOrgRoleName, "Role assumed in member accounts during --org-scan")
	externalID := pflag.String("external-id", "", "External ID used when assuming the member account role")
	bestEffort := pflag.Bool("best-effort", false, "Continue an org scan past failing accounts")
	version := pflag.BoolP("version", "v", false, "Show version information")
	output := pflag.StringP("output", "o", DefaultOutput, "Output format (table, json, csv, html or pdf)")
	outputFile := pflag.StringP("output-file", "f", "", "Output file path (required for html and pdf)")
	reportFile := pflag.String("report-file", DefaultReportFile, "CSV report written after each audit (empty disables)")
	adminPolicy := pflag.String("admin-policy-name", audit.DefaultAdminPolicyName, "Attached policy name treated as full administrator")
	inactiveDays := pflag.Int("inactive-days", audit.DefaultInactiveDays, "Days without key use before a user counts as inactive")
	maxParallel := pflag.Int("max-parallel", audit.DefaultMaxParallel, "Maximum users (or org accounts) processed concurrently")
	includeAttached := pflag.Bool("include-attached-documents", false, "Also evaluate attached managed policy documents for wildcards")
	excludeUsers := pflag.String("exclude-users", "", "Comma-separated IAM user names to skip")
	store := pflag.Bool("store", false, "Persist audit results in local SQLite database")
	dbPath := pflag.String("db-path", "", "Custom SQLite database path (default ~/.iam-audit/history.db)")
	configPath := pflag.String("config-path", "", "Path to iam-audit config file (yaml, toml or json)")
	logLevel := pflag.String("log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")
	logFormat := pflag.String("log-format", DefaultLogFormat, "Log format (text or json)")

	pflag.Parse()

	if *inactiveDays < 1 {
		return model.Flags{}, fmt.Errorf("--inactive-days must be at least 1")
	}
	if *maxParallel < 1 {
		return model.Flags{}, fmt.Errorf("--max-parallel must be at least 1")
	}

	changed := make(map[string]bool)
	pflag.Visit(func(f *pflag.Flag) {
		changed[f.Name] = true
	})

	flags := model.Flags{
		Profile:                  *profile,
		Region:                   *region,
		MaxAttempts:              *maxAttempts,
		OrgScan:                  *orgScan,
		OrgRoleName:              *orgRoleName,
		ExternalID:               *externalID,
		BestEffort:               *bestEffort,
		Version:                  *version,
		Output:                   strings.ToLower(*output),
		OutputFile:               *outputFile,
		ReportFile:               *reportFile,
		AdminPolicyName:          *adminPolicy,
		InactiveDays:             *inactiveDays,
		MaxParallel:              *maxParallel,
		IncludeAttachedDocuments: *includeAttached,
		ExcludeUsers:             SplitList(*excludeUsers),
		Store:                    *store,
		DBPath:                   *dbPath,
		ConfigPath:               *configPath,
		LogLevel:                 *logLevel,
		LogFormat:                *logFormat,
		Changed:                  changed,
	}

	return flags, nil
}

// SplitList splits a comma-separated value, dropping blanks.
func SplitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
