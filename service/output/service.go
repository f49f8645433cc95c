// Package output provides a service for rendering audit results.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(format string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(format))); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatCSV, FormatHTML, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use table, json, csv, html or pdf)", format)
	}
}

// NewService creates a new output service with the specified format.
// html and pdf are file artifacts and need outputFile.
func NewService(format, outputFile string) (Service, error) {
	svc, err := newService(format, outputFile, os.Stdout, &realRenderer{})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func newService(format, outputFile string, out io.Writer, renderer Renderer) (*service, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if (f == FormatHTML || f == FormatPDF) && strings.TrimSpace(outputFile) == "" {
		return nil, fmt.Errorf("--output-file is required for %s output", f)
	}
	return &service{
		format:     f,
		outputFile: outputFile,
		out:        out,
		renderer:   renderer,
	}, nil
}

func (s *service) Format() Format {
	return s.format
}

func (s *service) Render(input RenderInput) error {
	s.renderer.StopSpinner()

	switch s.format {
	case FormatHTML:
		if err := s.renderer.OutputHTML(s.outputFile, input.Accounts, input.Failures, input.GeneratedAt); err != nil {
			return fmt.Errorf("failed to write html report: %w", err)
		}
		fmt.Fprintf(s.out, "HTML report written to %s\n", s.outputFile)
		return nil
	case FormatPDF:
		if err := s.renderer.OutputPDF(s.outputFile, input.Accounts, input.Failures, input.GeneratedAt); err != nil {
			return fmt.Errorf("failed to write pdf report: %w", err)
		}
		fmt.Fprintf(s.out, "PDF report written to %s\n", s.outputFile)
		return nil
	}

	w, closeFn, err := s.writer()
	if err != nil {
		return err
	}
	defer closeFn()

	switch s.format {
	case FormatJSON:
		if !input.Org && len(input.Accounts) == 1 {
			return s.renderer.OutputAuditJSON(w, input.Accounts[0])
		}
		return s.renderer.OutputOrgJSON(w, input.Accounts, input.Failures, input.GeneratedAt)
	case FormatCSV:
		return s.renderer.OutputCSV(w, input.Accounts, input.InactiveDays, input.Org)
	default:
		for _, account := range input.Accounts {
			s.renderer.DrawAuditTable(w, account)
		}
		if len(input.Failures) > 0 {
			s.renderer.DrawOrgFailures(w, input.Failures)
		}
		return nil
	}
}

// writer returns stdout, or the output file when one was given.
func (s *service) writer() (io.Writer, func(), error) {
	if strings.TrimSpace(s.outputFile) == "" {
		return s.out, func() {}, nil
	}
	f, err := os.Create(s.outputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func (s *service) StopSpinner() {
	s.renderer.StopSpinner()
}
