package output

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirukguru/iam-audit/model"
	"github.com/thirukguru/iam-audit/service/audit"
)

type fakeRenderer struct {
	calls        []string
	htmlPath     string
	csvInputs    int
	csvOrg       bool
	stopSpinners int
}

func (f *fakeRenderer) DrawAuditTable(w io.Writer, input model.RenderAuditInput) {
	f.calls = append(f.calls, "table:"+input.AccountID)
	_, _ = io.WriteString(w, "table "+input.AccountID+"\n")
}

func (f *fakeRenderer) DrawOrgFailures(io.Writer, []model.OrgFailure) {
	f.calls = append(f.calls, "failures")
}

func (f *fakeRenderer) OutputAuditJSON(w io.Writer, input model.RenderAuditInput) error {
	f.calls = append(f.calls, "json:"+input.AccountID)
	_, err := io.WriteString(w, "{}")
	return err
}

func (f *fakeRenderer) OutputOrgJSON(io.Writer, []model.RenderAuditInput, []model.OrgFailure, time.Time) error {
	f.calls = append(f.calls, "orgjson")
	return nil
}

func (f *fakeRenderer) OutputCSV(_ io.Writer, inputs []model.RenderAuditInput, _ int, org bool) error {
	f.calls = append(f.calls, "csv")
	f.csvOrg = org
	f.csvInputs = len(inputs)
	return nil
}

func (f *fakeRenderer) OutputHTML(path string, _ []model.RenderAuditInput, _ []model.OrgFailure, _ time.Time) error {
	f.calls = append(f.calls, "html")
	f.htmlPath = path
	return nil
}

func (f *fakeRenderer) OutputPDF(string, []model.RenderAuditInput, []model.OrgFailure, time.Time) error {
	f.calls = append(f.calls, "pdf")
	return nil
}

func (f *fakeRenderer) StopSpinner() {
	f.stopSpinners++
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"TABLE", FormatTable, false},
		{"json", FormatJSON, false},
		{" csv ", FormatCSV, false},
		{"html", FormatHTML, false},
		{"pdf", FormatPDF, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewServiceRequiresFileForArtifacts(t *testing.T) {
	_, err := NewService("html", "")
	assert.Error(t, err)
	_, err = NewService("pdf", " ")
	assert.Error(t, err)

	svc, err := NewService("json", "")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, svc.Format())
}

func TestRenderTableInOrder(t *testing.T) {
	var buf bytes.Buffer
	r := &fakeRenderer{}
	svc, err := newService("table", "", &buf, r)
	require.NoError(t, err)

	err = svc.Render(RenderInput{
		Accounts: []model.RenderAuditInput{{AccountID: "2"}, {AccountID: "1"}},
		Failures: []model.OrgFailure{{AccountID: "3", Error: "denied"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"table:2", "table:1", "failures"}, r.calls)
	assert.Equal(t, 1, r.stopSpinners)
	assert.Equal(t, "table 2\ntable 1\n", buf.String())
}

func TestRenderJSONSingleVersusOrg(t *testing.T) {
	var buf bytes.Buffer
	r := &fakeRenderer{}
	svc, err := newService("json", "", &buf, r)
	require.NoError(t, err)

	require.NoError(t, svc.Render(RenderInput{Accounts: []model.RenderAuditInput{{AccountID: "1"}}}))
	require.NoError(t, svc.Render(RenderInput{Accounts: []model.RenderAuditInput{{AccountID: "1"}}, Org: true}))
	assert.Equal(t, []string{"json:1", "orgjson"}, r.calls)
}

func TestRenderToFileAndCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	r := &fakeRenderer{}
	svc, err := newService("json", path, io.Discard, r)
	require.NoError(t, err)

	require.NoError(t, svc.Render(RenderInput{Accounts: []model.RenderAuditInput{{AccountID: "1"}}}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	csvSvc, err := newService("csv", "", io.Discard, r)
	require.NoError(t, err)
	require.NoError(t, csvSvc.Render(RenderInput{Accounts: []model.RenderAuditInput{{}, {}}}))
	assert.Equal(t, 2, r.csvInputs)
	assert.False(t, r.csvOrg)

	require.NoError(t, csvSvc.Render(RenderInput{Accounts: []model.RenderAuditInput{{AccountID: "1"}}, Org: true}))
	assert.Equal(t, 1, r.csvInputs)
	assert.True(t, r.csvOrg)
}

func TestRenderCSVOrgWithOneAccount(t *testing.T) {
	var buf bytes.Buffer
	svc, err := newService("csv", "", &buf, &realRenderer{})
	require.NoError(t, err)

	input := model.RenderAuditInput{AccountID: "222222222222", Report: audit.BuildReport([]audit.RiskRecord{
		{Username: "deployer", MFAEnabled: true, LastUsedLabel: audit.LabelActive},
	})}
	require.NoError(t, svc.Render(RenderInput{Accounts: []model.RenderAuditInput{input}, InactiveDays: 90, Org: true}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Account ID,Username,"))
	assert.Equal(t, "222222222222,deployer,True,False,False,Active,False", lines[1])
}

func TestRenderHTMLAnnouncesPath(t *testing.T) {
	var buf bytes.Buffer
	r := &fakeRenderer{}
	svc, err := newService("html", "report.html", &buf, r)
	require.NoError(t, err)

	require.NoError(t, svc.Render(RenderInput{}))
	assert.Equal(t, "report.html", r.htmlPath)
	assert.Contains(t, buf.String(), "HTML report written to report.html")
}
