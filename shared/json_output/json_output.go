// Package jsonoutput renders audit reports as JSON.
package jsonoutput

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/thirukguru/iam-audit/model"
)

// WriteAuditJSON writes one account's report.
func WriteAuditJSON(w io.Writer, input model.RenderAuditInput) error {
	return writeJSON(w, input.ToJSON())
}

// WriteOrgAuditJSON writes every audited account plus the accounts that failed.
func WriteOrgAuditJSON(w io.Writer, inputs []model.RenderAuditInput, failures []model.OrgFailure, generatedAt time.Time) error {
	return writeJSON(w, BuildOrgReport(inputs, failures, generatedAt))
}

// BuildOrgReport builds the organization JSON model.
func BuildOrgReport(inputs []model.RenderAuditInput, failures []model.OrgFailure, generatedAt time.Time) model.OrgAuditJSON {
	out := model.OrgAuditJSON{
		GeneratedAt: generatedAt.UTC().Format(time.RFC3339),
		Accounts:    make([]model.AuditReportJSON, 0, len(inputs)),
		Failures:    failures,
	}
	for _, in := range inputs {
		out.Accounts = append(out.Accounts, in.ToJSON())
	}
	return out
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
