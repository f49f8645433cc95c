package output

import (
	"io"
	"time"

	"github.com/thirukguru/iam-audit/model"
	audittable "github.com/thirukguru/iam-audit/shared/audit_table"
	csvoutput "github.com/thirukguru/iam-audit/shared/csv_output"
	htmloutput "github.com/thirukguru/iam-audit/shared/html_output"
	jsonoutput "github.com/thirukguru/iam-audit/shared/json_output"
	pdfoutput "github.com/thirukguru/iam-audit/shared/pdf_output"
	"github.com/thirukguru/iam-audit/shared/spinner"
)

// Format represents the output format type
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatHTML  Format = "html"
	FormatPDF   Format = "pdf"
)

// Renderer defines the interface for drawing reports
type Renderer interface {
	DrawAuditTable(w io.Writer, input model.RenderAuditInput)
	DrawOrgFailures(w io.Writer, failures []model.OrgFailure)
	OutputAuditJSON(w io.Writer, input model.RenderAuditInput) error
	OutputOrgJSON(w io.Writer, inputs []model.RenderAuditInput, failures []model.OrgFailure, generatedAt time.Time) error
	OutputCSV(w io.Writer, inputs []model.RenderAuditInput, inactiveDays int, org bool) error
	OutputHTML(path string, inputs []model.RenderAuditInput, failures []model.OrgFailure, generatedAt time.Time) error
	OutputPDF(path string, inputs []model.RenderAuditInput, failures []model.OrgFailure, generatedAt time.Time) error
	StopSpinner()
}

type realRenderer struct{}

func (r *realRenderer) DrawAuditTable(w io.Writer, input model.RenderAuditInput) {
	audittable.DrawAuditTable(w, input)
}

func (r *realRenderer) DrawOrgFailures(w io.Writer, failures []model.OrgFailure) {
	audittable.DrawOrgFailures(w, failures)
}

func (r *realRenderer) OutputAuditJSON(w io.Writer, input model.RenderAuditInput) error {
	return jsonoutput.WriteAuditJSON(w, input)
}

func (r *realRenderer) OutputOrgJSON(w io.Writer, inputs []model.RenderAuditInput, failures []model.OrgFailure, generatedAt time.Time) error {
	return jsonoutput.WriteOrgAuditJSON(w, inputs, failures, generatedAt)
}

func (r *realRenderer) OutputCSV(w io.Writer, inputs []model.RenderAuditInput, inactiveDays int, org bool) error {
	return csvoutput.Write(w, inputs, inactiveDays, org)
}

func (r *realRenderer) OutputHTML(path string, inputs []model.RenderAuditInput, failures []model.OrgFailure, generatedAt time.Time) error {
	return htmloutput.WriteHTMLReport(path, htmloutput.BuildReportData(inputs, failures, generatedAt))
}

func (r *realRenderer) OutputPDF(path string, inputs []model.RenderAuditInput, failures []model.OrgFailure, generatedAt time.Time) error {
	return pdfoutput.WriteFile(path, inputs, failures, generatedAt)
}

func (r *realRenderer) StopSpinner() {
	spinner.StopSpinner()
}

// service is the internal implementation
type service struct {
	format     Format
	outputFile string
	out        io.Writer
	renderer   Renderer
}

// RenderInput is everything one audit invocation hands to the output layer.
type RenderInput struct {
	Accounts     []model.RenderAuditInput
	Failures     []model.OrgFailure
	InactiveDays int
	GeneratedAt  time.Time
	// Org renders the organization layout even for a single account.
	Org bool
}

// Service defines the interface for output operations
type Service interface {
	Format() Format
	Render(input RenderInput) error
	StopSpinner()
}
