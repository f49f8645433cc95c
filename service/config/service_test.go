package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirukguru/iam-audit/model"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{
			name: "yaml",
			file: "audit.yaml",
			body: "admin_policy_name: BreakGlass\ninactive_days: 45\nmax_parallel: 6\ninclude_attached_documents: true\nexclude_users:\n  - ci-bot\n",
		},
		{
			name: "toml",
			file: "audit.toml",
			body: "admin_policy_name = \"BreakGlass\"\ninactive_days = 45\nmax_parallel = 6\ninclude_attached_documents = true\nexclude_users = [\"ci-bot\"]\n",
		},
		{
			name: "json",
			file: "audit.json",
			body: `{"admin_policy_name":"BreakGlass","inactive_days":45,"max_parallel":6,"include_attached_documents":true,"exclude_users":["ci-bot"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewService().Load(writeConfig(t, tt.file, tt.body))
			require.NoError(t, err)
			require.NotNil(t, cfg.AdminPolicyName)
			assert.Equal(t, "BreakGlass", *cfg.AdminPolicyName)
			require.NotNil(t, cfg.InactiveDays)
			assert.Equal(t, 45, *cfg.InactiveDays)
			require.NotNil(t, cfg.MaxParallel)
			assert.Equal(t, 6, *cfg.MaxParallel)
			require.NotNil(t, cfg.IncludeAttachedDocuments)
			assert.True(t, *cfg.IncludeAttachedDocuments)
			assert.Equal(t, []string{"ci-bot"}, cfg.ExcludeUsers)
			assert.Nil(t, cfg.ReportFile)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	svc := NewService()

	_, err := svc.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = svc.Load(t.TempDir())
	require.Error(t, err)

	_, err = svc.Load(writeConfig(t, "audit.ini", "x=1"))
	require.ErrorContains(t, err, "unsupported config file format")

	_, err = svc.Load(writeConfig(t, "audit.json", `{"max_parallel":0}`))
	require.ErrorContains(t, err, "max_parallel")

	_, err = svc.Load(writeConfig(t, "audit.yaml", "inactive_days: 0\n"))
	require.ErrorContains(t, err, "inactive_days must be at least 1")
}

func TestApplyRespectsExplicitFlags(t *testing.T) {
	name := "BreakGlass"
	days := 30
	report := ""
	role := "AuditRole"
	cfg := &model.AuditConfig{
		AdminPolicyName: &name,
		InactiveDays:    &days,
		ReportFile:      &report,
		OrgRoleName:     &role,
		ExcludeUsers:    []string{"svc"},
	}

	flags := model.Flags{
		AdminPolicyName: "AdministratorAccess",
		InactiveDays:    120,
		ReportFile:      "iam_audit_report.csv",
		OrgRoleName:     "OrganizationAccountAccessRole",
		Changed:         map[string]bool{"inactive-days": true},
	}

	got := NewService().Apply(cfg, flags)
	assert.Equal(t, "BreakGlass", got.AdminPolicyName)
	assert.Equal(t, 120, got.InactiveDays)
	assert.Equal(t, "", got.ReportFile)
	assert.Equal(t, "AuditRole", got.OrgRoleName)
	assert.Equal(t, []string{"svc"}, got.ExcludeUsers)

	assert.Equal(t, flags, NewService().Apply(nil, flags))
}
