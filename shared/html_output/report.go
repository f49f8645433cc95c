// Package htmloutput renders audit reports as a self-contained HTML page.
package htmloutput

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thirukguru/iam-audit/model"
	"github.com/thirukguru/iam-audit/service/audit"
	"github.com/thirukguru/iam-audit/shared/compliance"
)

// ReportData is the template model.
type ReportData struct {
	Title       string
	GeneratedAt string
	Accounts    []AccountSection
	Failures    []model.OrgFailure
}

// AccountSection is one audited account.
type AccountSection struct {
	AccountID   string
	AccountName string
	Header      []string
	Summary     audit.Summary
	Rows        [][]Cell
	Compliance  []ComplianceRow
}

// ComplianceRow lists the controls behind one risk present in the account.
type ComplianceRow struct {
	Risk     string
	Users    int
	Controls string
}

// Cell is a rendered value with its CSS class.
type Cell struct {
	Value string
	Class string
}

var reportTemplate = template.Must(template.New("report").Parse(htmlTemplate))

// BuildReportData converts render inputs into the template model.
func BuildReportData(inputs []model.RenderAuditInput, failures []model.OrgFailure, generatedAt time.Time) ReportData {
	data := ReportData{
		GeneratedAt: generatedAt.UTC().Format("2006-01-02 15:04:05 MST"),
		Failures:    failures,
	}

	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.AccountID)
		data.Accounts = append(data.Accounts, AccountSection{
			AccountID:   in.AccountID,
			AccountName: in.AccountName,
			Header:      in.Report.Header,
			Summary:     in.Report.Summary,
			Rows:        cells(in.Report.Records),
			Compliance:  complianceRows(in.Report.Summary),
		})
	}
	data.Title = strings.Join(ids, ", ")
	if len(ids) > 3 {
		data.Title = fmt.Sprintf("%d accounts", len(ids))
	}
	return data
}

// GenerateHTMLReport executes the template.
func GenerateHTMLReport(data ReportData) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// WriteHTMLReport renders data into outputPath, creating its directory.
func WriteHTMLReport(outputPath string, data ReportData) error {
	html, err := GenerateHTMLReport(data)
	if err != nil {
		return fmt.Errorf("failed to generate HTML report: %w", err)
	}
	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}
	return nil
}

func cells(records []audit.RiskRecord) [][]Cell {
	rows := make([][]Cell, 0, len(records))
	for _, r := range records {
		last := Cell{Value: r.LastUsedLabel}
		switch {
		case r.IsInactive:
			last.Class = "risk"
		case r.CredentialDataUnavailable:
			last.Class = "warn"
		}
		rows = append(rows, []Cell{
			{Value: r.Username},
			boolCell(r.MFAEnabled, !r.MFAEnabled),
			boolCell(r.HasAdminAccess, r.HasAdminAccess),
			boolCell(r.HasWildcardPolicy, r.HasWildcardPolicy),
			last,
			boolCell(r.IsInactive, r.IsInactive),
		})
	}
	return rows
}

func boolCell(v, risky bool) Cell {
	class := "ok"
	if risky {
		class = "risk"
	}
	return Cell{Value: audit.FormatBool(v), Class: class}
}

func complianceRows(s audit.Summary) []ComplianceRow {
	var rows []ComplianceRow
	for _, f := range compliance.Findings(s) {
		rows = append(rows, ComplianceRow{
			Risk:     f.Risk,
			Users:    f.Users,
			Controls: strings.Join(compliance.GetComplianceIDs(f.Risk), ", "),
		})
	}
	return rows
}
