package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/thirukguru/iam-audit/model"
	"gopkg.in/yaml.v3"
)

// NewService creates a new config file service.
func NewService() Service {
	return &service{}
}

// Load reads a TOML, YAML or JSON config file chosen by extension.
func (s *service) Load(path string) (*model.AuditConfig, error) {
	ext := strings.ToLower(filepath.Ext(path))

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg model.AuditConfig
	switch ext {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if cfg.InactiveDays != nil && *cfg.InactiveDays < 1 {
		return nil, fmt.Errorf("inactive_days must be at least 1")
	}
	if cfg.MaxParallel != nil && *cfg.MaxParallel < 1 {
		return nil, fmt.Errorf("max_parallel must be at least 1")
	}

	return &cfg, nil
}

// Apply copies file values into flags that were not set on the command line.
func (s *service) Apply(cfg *model.AuditConfig, flags model.Flags) model.Flags {
	if cfg == nil {
		return flags
	}

	if cfg.AdminPolicyName != nil && !flags.IsSet("admin-policy-name") {
		flags.AdminPolicyName = *cfg.AdminPolicyName
	}
	if cfg.InactiveDays != nil && !flags.IsSet("inactive-days") {
		flags.InactiveDays = *cfg.InactiveDays
	}
	if cfg.MaxParallel != nil && !flags.IsSet("max-parallel") {
		flags.MaxParallel = *cfg.MaxParallel
	}
	if cfg.IncludeAttachedDocuments != nil && !flags.IsSet("include-attached-documents") {
		flags.IncludeAttachedDocuments = *cfg.IncludeAttachedDocuments
	}
	if cfg.ReportFile != nil && !flags.IsSet("report-file") {
		flags.ReportFile = *cfg.ReportFile
	}
	if len(cfg.ExcludeUsers) > 0 && !flags.IsSet("exclude-users") {
		flags.ExcludeUsers = append([]string(nil), cfg.ExcludeUsers...)
	}
	if cfg.OrgRoleName != nil && !flags.IsSet("org-role-name") {
		flags.OrgRoleName = *cfg.OrgRoleName
	}
	if cfg.ExternalID != nil && !flags.IsSet("external-id") {
		flags.ExternalID = *cfg.ExternalID
	}

	return flags
}
