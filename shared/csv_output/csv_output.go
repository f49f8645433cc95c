// Package csvoutput writes audit reports as CSV.
package csvoutput

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/thirukguru/iam-audit/model"
	"github.com/thirukguru/iam-audit/service/audit"
)

// WriteReport writes the report header and one row per record.
func WriteReport(w io.Writer, report audit.Report) error {
	return write(w, report.Header, report.Rows())
}

// WriteOrgReport writes several accounts into one table, prefixed with the account id.
func WriteOrgReport(w io.Writer, inputs []model.RenderAuditInput, inactiveDays int) error {
	header := append([]string{"Account ID"}, audit.Header(inactiveDays)...)

	var rows [][]string
	for _, in := range inputs {
		for _, row := range in.Report.Rows() {
			rows = append(rows, append([]string{in.AccountID}, row...))
		}
	}
	return write(w, header, rows)
}

// Write picks the layout: org scans always carry the account id column, a
// single-account audit uses the plain report.
func Write(w io.Writer, inputs []model.RenderAuditInput, inactiveDays int, org bool) error {
	if !org && len(inputs) == 1 {
		return WriteReport(w, inputs[0].Report)
	}
	return WriteOrgReport(w, inputs, inactiveDays)
}

// WriteReportFile writes the CSV artifact for the given inputs.
func WriteReportFile(path string, inputs []model.RenderAuditInput, inactiveDays int, org bool) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV report: %w", err)
	}

	err = Write(f, inputs, inactiveDays, org)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write CSV report %s: %w", path, err)
	}
	return nil
}

func write(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
