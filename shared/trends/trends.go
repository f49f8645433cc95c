// Package trends renders stored audit history as tables.
package trends

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/thirukguru/iam-audit/service/storage"
)

// RenderRunsTable prints the recent run summaries.
func RenderRunsTable(w io.Writer, runs []storage.RunSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Run", "Account", "Timestamp", "Users", "No MFA", "Admin", "Wildcard", "Inactive", "Risky", "Cred Errors"})
	for _, r := range runs {
		account := r.AccountID
		if r.AccountName != "" {
			account = fmt.Sprintf("%s (%s)", r.AccountID, r.AccountName)
		}
		t.AppendRow(table.Row{
			r.RunID, account, r.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			r.Summary.TotalUsers, r.Summary.WithoutMFA, r.Summary.AdminAccess,
			r.Summary.WildcardPolicy, r.Summary.Inactive, r.Summary.RiskyUsers, r.Summary.CredentialErrors,
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// RenderTrendTable prints an ASCII table of trend data.
func RenderTrendTable(w io.Writer, points []storage.TrendPoint) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Account", "Date", "Users", "No MFA", "Admin", "Wildcard", "Inactive", "Risky"})
	for _, p := range points {
		t.AppendRow(table.Row{p.AccountID, p.Date, p.TotalUsers, p.WithoutMFA, p.AdminAccess, p.WildcardPolicy, p.Inactive, p.RiskyUsers})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// RenderComparisonTable prints which users changed risk status between two runs.
func RenderComparisonTable(w io.Writer, cmp *storage.RunComparison) {
	if cmp == nil {
		fmt.Fprintln(w, "No comparison data available")
		return
	}
	fmt.Fprintf(w, "\nRun Comparison for %s (%d -> %d)\n", cmp.AccountID, cmp.RunID1, cmp.RunID2)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Newly Risky", "No Longer Risky", "Risk Changed", "Still Risky", "Added", "Removed"})
	t.AppendRow(table.Row{len(cmp.NewlyRisky), len(cmp.NoLongerRisky), len(cmp.Changed), cmp.StillRisky, len(cmp.AddedUsers), len(cmp.RemovedUsers)})
	t.SetStyle(table.StyleRounded)
	t.Render()

	var changes []table.Row
	for _, c := range cmp.NewlyRisky {
		changes = append(changes, table.Row{c.Username, "newly risky", joinRisks(c.Before), joinRisks(c.After)})
	}
	for _, c := range cmp.NoLongerRisky {
		changes = append(changes, table.Row{c.Username, "no longer risky", joinRisks(c.Before), joinRisks(c.After)})
	}
	for _, c := range cmp.Changed {
		changes = append(changes, table.Row{c.Username, "changed", joinRisks(c.Before), joinRisks(c.After)})
	}
	if len(changes) == 0 {
		return
	}

	d := table.NewWriter()
	d.SetOutputMirror(w)
	d.AppendHeader(table.Row{"User", "Status", "Before", "After"})
	d.AppendRows(changes)
	d.SetStyle(table.StyleRounded)
	d.Render()
}

func joinRisks(risks []string) string {
	if len(risks) == 0 {
		return "-"
	}
	return strings.Join(risks, ", ")
}
