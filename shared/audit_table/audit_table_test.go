package audittable

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"
	"github.com/thirukguru/iam-audit/model"
	"github.com/thirukguru/iam-audit/service/audit"
)

func TestDrawAuditTable(t *testing.T) {
	text.DisableColors()
	defer text.EnableColors()

	report := audit.BuildReport([]audit.RiskRecord{
		{Username: "alice", HasAdminAccess: true, HasWildcardPolicy: true, LastUsedLabel: audit.LabelActive},
		{Username: "bob", MFAEnabled: true, LastUsedLabel: audit.LabelNoKeys, CredentialDataUnavailable: true},
	})

	var buf bytes.Buffer
	DrawAuditTable(&buf, model.RenderAuditInput{AccountID: "123456789012", AccountName: "prod", Report: report})
	out := buf.String()

	assert.Contains(t, out, "123456789012 (prod)")
	assert.Contains(t, out, "Inactive >90 days")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "No Keys (?)")
	assert.Contains(t, out, "Access key data unavailable for 1 user(s)")
	assert.Contains(t, out, "admin_access: CIS 1.16")
}

func TestDrawAuditTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	DrawAuditTable(&buf, model.RenderAuditInput{AccountID: "1", Report: audit.BuildReport(nil)})
	assert.Contains(t, buf.String(), "No IAM users found.")
}

func TestDrawOrgFailures(t *testing.T) {
	var buf bytes.Buffer
	DrawOrgFailures(&buf, nil)
	assert.Empty(t, buf.String())

	DrawOrgFailures(&buf, []model.OrgFailure{{AccountID: "222", Name: "dev", Error: "AccessDenied"}})
	assert.Contains(t, buf.String(), "AccessDenied")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééééééé...", truncate("éééééééééééé", 10))
	assert.Equal(t, "éééé", truncate("éééé", 4))
}

func TestDrawOrgFailuresMultiByteError(t *testing.T) {
	text.DisableColors()
	defer text.EnableColors()

	msg := strings.Repeat("é", 100)
	var buf bytes.Buffer
	DrawOrgFailures(&buf, []model.OrgFailure{{AccountID: "222", Error: msg}})

	out := buf.String()
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, strings.Repeat("é", 77)+"...")
}
