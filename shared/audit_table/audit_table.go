// Package audittable renders audit reports as console tables.
package audittable

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/thirukguru/iam-audit/model"
	"github.com/thirukguru/iam-audit/service/audit"
	"github.com/thirukguru/iam-audit/shared/compliance"
)

const maxUsernameWidth = 40

// DrawAuditTable writes one account's records followed by a risk summary.
func DrawAuditTable(w io.Writer, input model.RenderAuditInput) {
	title := input.AccountID
	if input.AccountName != "" {
		title = fmt.Sprintf("%s (%s)", input.AccountID, input.AccountName)
	}
	fmt.Fprintf(w, "\n🔑 IAM User Audit - Account: %s\n", title)

	if len(input.Report.Records) == 0 {
		fmt.Fprintln(w, text.FgYellow.Sprint("\nNo IAM users found."))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	header := table.Row{}
	for _, h := range input.Report.Header {
		header = append(header, h)
	}
	t.AppendHeader(header)

	for _, r := range input.Report.Records {
		t.AppendRow(table.Row{
			truncate(r.Username, maxUsernameWidth),
			colorize(audit.FormatBool(r.MFAEnabled), !r.MFAEnabled),
			colorize(audit.FormatBool(r.HasAdminAccess), r.HasAdminAccess),
			colorize(audit.FormatBool(r.HasWildcardPolicy), r.HasWildcardPolicy),
			formatLastUsed(r),
			colorize(audit.FormatBool(r.IsInactive), r.IsInactive),
		})
	}

	t.SetStyle(table.StyleRounded)
	// Keep the report's column names as written.
	t.Style().Format.Header = text.FormatDefault
	t.Render()

	drawSummary(w, input.Report.Summary)
}

// DrawOrgFailures lists member accounts that could not be audited.
func DrawOrgFailures(w io.Writer, failures []model.OrgFailure) {
	if len(failures) == 0 {
		return
	}
	fmt.Fprintln(w, "\n"+text.FgRed.Sprint("⚠️ Accounts not audited"))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Account", "Name", "Error"})
	for _, f := range failures {
		t.AppendRow(table.Row{f.AccountID, f.Name, truncate(f.Error, 80)})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func drawSummary(w io.Writer, s audit.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Users", "Without MFA", "Admin", "Wildcard", "Inactive", "At Risk"})
	t.AppendRow(table.Row{s.TotalUsers, s.WithoutMFA, s.AdminAccess, s.WildcardPolicy, s.Inactive, s.RiskyUsers})
	t.SetStyle(table.StyleRounded)
	t.Render()

	if s.CredentialErrors > 0 {
		fmt.Fprintln(w, text.FgYellow.Sprintf("Access key data unavailable for %d user(s); reported as \"%s\".", s.CredentialErrors, audit.LabelNoKeys))
	}
	if s.RiskyUsers == 0 {
		fmt.Fprintln(w, text.FgGreen.Sprint("✅ No risky IAM users found!"))
		return
	}
	for _, f := range compliance.Findings(s) {
		fmt.Fprintf(w, "  %s: %s\n", f.Risk, strings.Join(compliance.GetCISControls(f.Risk), ", "))
	}
}

func formatLastUsed(r audit.RiskRecord) string {
	switch {
	case r.IsInactive:
		return text.FgRed.Sprint(r.LastUsedLabel)
	case r.CredentialDataUnavailable:
		return text.FgYellow.Sprint(r.LastUsedLabel + " (?)")
	default:
		return r.LastUsedLabel
	}
}

func colorize(value string, risky bool) string {
	if risky {
		return text.FgRed.Sprint(value)
	}
	return text.FgGreen.Sprint(value)
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return text.Trim(s, maxLen-3) + "..."
}
