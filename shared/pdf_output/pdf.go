// Package pdfoutput renders audit reports as a landscape A4 PDF.
package pdfoutput

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/thirukguru/iam-audit/model"
	"github.com/thirukguru/iam-audit/service/audit"
)

var (
	headerFill = [3]int{35, 47, 62}
	riskText   = [3]int{192, 0, 0}
	okText     = [3]int{0, 128, 0}
	bodyText   = [3]int{40, 40, 40}
)

// Column widths in mm; they add up to the printable width of landscape A4.
var columnWidths = []float64{87, 32, 32, 36, 40, 40}

// Write renders the PDF to w.
func Write(w io.Writer, inputs []model.RenderAuditInput, failures []model.OrgFailure, generatedAt time.Time) error {
	pdf := build(inputs, failures, generatedAt)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}

// WriteFile renders the PDF into path, creating its directory.
func WriteFile(path string, inputs []model.RenderAuditInput, failures []model.OrgFailure, generatedAt time.Time) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	pdf := build(inputs, failures, generatedAt)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF %s: %w", path, err)
	}
	return nil
}

func build(inputs []model.RenderAuditInput, failures []model.OrgFailure, generatedAt time.Time) *gofpdf.Fpdf {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	stamp := generatedAt.UTC().Format("2006-01-02 15:04 MST")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 8, "iam-audit report generated "+stamp, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	if len(inputs) == 0 {
		pdf.AddPage()
		pdf.SetFont("Arial", "", 11)
		pdf.Cell(0, 10, "No accounts audited.")
	}

	for _, in := range inputs {
		pdf.AddPage()
		title := "Account " + in.AccountID
		if in.AccountName != "" {
			title += " (" + in.AccountName + ")"
		}
		pdf.SetFont("Arial", "B", 14)
		pdf.SetTextColor(bodyText[0], bodyText[1], bodyText[2])
		pdf.CellFormat(0, 10, tr("IAM User Audit - "+title), "", 1, "L", false, 0, "")

		s := in.Report.Summary
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, fmt.Sprintf("Users: %d   Without MFA: %d   Admin: %d   Wildcard: %d   Inactive: %d   At risk: %d",
			s.TotalUsers, s.WithoutMFA, s.AdminAccess, s.WildcardPolicy, s.Inactive, s.RiskyUsers), "", 1, "L", false, 0, "")
		pdf.Ln(3)

		drawHeader(pdf, in.Report.Header)
		pdf.SetFont("Arial", "", 9)
		for _, r := range in.Report.Records {
			if pdf.GetY() > 185 {
				pdf.AddPage()
				drawHeader(pdf, in.Report.Header)
				pdf.SetFont("Arial", "", 9)
			}
			drawRecord(pdf, tr, r)
		}
	}

	if len(failures) > 0 {
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(riskText[0], riskText[1], riskText[2])
		pdf.CellFormat(0, 10, "Accounts not audited", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(bodyText[0], bodyText[1], bodyText[2])
		for _, f := range failures {
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s %s: %s", f.AccountID, f.Name, f.Error)), "", "L", false)
		}
	}

	return pdf
}

func drawHeader(pdf *gofpdf.Fpdf, header []string) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
	pdf.SetTextColor(255, 255, 255)
	for i, h := range header {
		pdf.CellFormat(columnWidths[i%len(columnWidths)], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(bodyText[0], bodyText[1], bodyText[2])
}

func drawRecord(pdf *gofpdf.Fpdf, tr func(string) string, r audit.RiskRecord) {
	cells := []struct {
		value string
		risky bool
		plain bool
	}{
		{value: r.Username, plain: true},
		{value: audit.FormatBool(r.MFAEnabled), risky: !r.MFAEnabled},
		{value: audit.FormatBool(r.HasAdminAccess), risky: r.HasAdminAccess},
		{value: audit.FormatBool(r.HasWildcardPolicy), risky: r.HasWildcardPolicy},
		{value: r.LastUsedLabel, risky: r.IsInactive, plain: !r.IsInactive},
		{value: audit.FormatBool(r.IsInactive), risky: r.IsInactive},
	}

	for i, c := range cells {
		switch {
		case c.risky:
			pdf.SetTextColor(riskText[0], riskText[1], riskText[2])
		case c.plain:
			pdf.SetTextColor(bodyText[0], bodyText[1], bodyText[2])
		default:
			pdf.SetTextColor(okText[0], okText[1], okText[2])
		}
		pdf.CellFormat(columnWidths[i], 7, tr(c.value), "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(bodyText[0], bodyText[1], bodyText[2])
}
