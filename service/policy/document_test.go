package policy

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantStmts  int
		wantAction []string
		wantErr    bool
	}{
		{
			name:       "url encoded list",
			input:      url.QueryEscape(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Action":"s3:GetObject","Resource":"*"}]}`),
			wantStmts:  1,
			wantAction: []string{"s3:GetObject"},
		},
		{
			name:       "plain json with action list",
			input:      `{"Statement":[{"Effect":"Allow","Action":["ec2:Describe*","s3:List*"],"Resource":"arn:aws:s3:::b"}]}`,
			wantStmts:  1,
			wantAction: []string{"ec2:Describe*", "s3:List*"},
		},
		{
			name:       "single statement object",
			input:      `{"Statement":{"Effect":"Deny","Action":"iam:*","Resource":"*"}}`,
			wantStmts:  1,
			wantAction: []string{"iam:*"},
		},
		{
			name:      "missing statement",
			input:     `{"Version":"2012-10-17"}`,
			wantStmts: 0,
		},
		{
			name:       "non object statements skipped",
			input:      `{"Statement":["junk",42,{"Effect":"Allow","Action":"*","Resource":"x"}]}`,
			wantStmts:  1,
			wantAction: []string{"*"},
		},
		{
			name:    "not json",
			input:   "%7Bbroken",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument("p", SourceInline, tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "p", doc.Name)
			assert.Equal(t, SourceInline, doc.Source)
			require.Len(t, doc.Statements, tt.wantStmts)
			if tt.wantStmts > 0 {
				assert.Equal(t, tt.wantAction, doc.Statements[0].Actions())
			}
		})
	}
}

func TestStatementNormalizesMixedLists(t *testing.T) {
	stmt := Statement{
		Effect:   EffectAllow,
		Action:   []interface{}{"s3:GetObject", 7, nil, "*"},
		Resource: nil,
	}
	assert.Equal(t, []string{"s3:GetObject", "*"}, stmt.Actions())
	assert.Empty(t, stmt.Resources())
}
