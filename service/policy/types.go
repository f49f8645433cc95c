// Package policy parses identity policy documents and classifies their statements.
package policy

// Statement effects and the literal wildcard.
const (
	EffectAllow = "Allow"
	EffectDeny  = "Deny"
	Wildcard    = "*"
)

// Source identifies where a policy document came from.
type Source string

const (
	SourceInline   Source = "inline"
	SourceAttached Source = "attached"
)

// Statement is a single permission statement. Action and Resource keep the raw
// JSON shape (string or list) and are read through Actions and Resources.
type Statement struct {
	Sid      string
	Effect   string
	Action   interface{}
	Resource interface{}
}

// Actions returns the statement actions as a list.
func (s Statement) Actions() []string {
	return normalizeStringOrSlice(s.Action)
}

// Resources returns the statement resources as a list.
func (s Statement) Resources() []string {
	return normalizeStringOrSlice(s.Resource)
}

// Document is an ordered set of statements attached to one identity.
type Document struct {
	Name       string
	Source     Source
	Version    string
	Statements []Statement
}

func normalizeStringOrSlice(v interface{}) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []string:
		return val
	case []interface{}:
		var result []string
		for _, item := range val {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	}
	return nil
}
