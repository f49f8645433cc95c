package policy

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// ParseDocument decodes a policy document as returned by IAM (URL-encoded JSON).
// Plain JSON is accepted as well. Statements that are not JSON objects are
// dropped; a missing Statement yields an empty document.
func ParseDocument(name string, source Source, encoded string) (Document, error) {
	decoded := encoded
	if unescaped, err := url.QueryUnescape(encoded); err == nil {
		decoded = unescaped
	}

	var raw struct {
		Version   string          `json:"Version"`
		Statement json.RawMessage `json:"Statement"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(decoded)), &raw); err != nil {
		return Document{}, fmt.Errorf("parsing policy document %q: %w", name, err)
	}

	return Document{
		Name:       name,
		Source:     source,
		Version:    raw.Version,
		Statements: decodeStatements(raw.Statement),
	}, nil
}

// decodeStatements accepts either a list of statements or a single statement object.
func decodeStatements(raw json.RawMessage) []Statement {
	if len(raw) == 0 {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		items = []json.RawMessage{raw}
	}

	stmts := make([]Statement, 0, len(items))
	for _, item := range items {
		var fields map[string]interface{}
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			continue
		}
		stmts = append(stmts, statementFromFields(fields))
	}

	return stmts
}

func statementFromFields(fields map[string]interface{}) Statement {
	var stmt Statement
	if sid, ok := fields["Sid"].(string); ok {
		stmt.Sid = sid
	}
	if effect, ok := fields["Effect"].(string); ok {
		stmt.Effect = effect
	}
	stmt.Action = fields["Action"]
	stmt.Resource = fields["Resource"]
	return stmt
}
