package policy

// IsOverPermissive reports whether a statement grants unrestricted access.
//
// The check groups as (Allow AND Action is "*") OR (Resource is "*"), so the
// resource branch fires regardless of effect: a Deny statement scoped to every
// resource is flagged too. A list matches when any element is the literal "*".
// Statements with a missing or unknown effect only match on the resource branch.
func IsOverPermissive(stmt Statement) bool {
	if stmt.Effect == EffectAllow && containsWildcard(stmt.Actions()) {
		return true
	}
	return containsWildcard(stmt.Resources())
}

// HasWildcardPolicy reports whether any statement of any document is over-permissive.
func HasWildcardPolicy(docs []Document) bool {
	for _, doc := range docs {
		for _, stmt := range doc.Statements {
			if IsOverPermissive(stmt) {
				return true
			}
		}
	}
	return false
}

func containsWildcard(values []string) bool {
	for _, v := range values {
		if v == Wildcard {
			return true
		}
	}
	return false
}
