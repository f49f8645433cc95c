package audit

import "time"

// HasMFA reports whether at least one MFA device is registered.
func HasMFA(devices []MFADevice) bool {
	return len(devices) > 0
}

// HasAdminAccess reports whether a policy with exactly adminPolicyName is attached.
// The comparison is case-sensitive.
func HasAdminAccess(policies []AttachedPolicy, adminPolicyName string) bool {
	for _, p := range policies {
		if p.Name == adminPolicyName {
			return true
		}
	}
	return false
}

// EvaluateInactivity returns whether the credentials are inactive and the
// last-used label.
//
// The first key unused for more than thresholdDays whole days wins and is
// labelled with its last-used date. Keys fetched before a lookup failure are
// still checked; otherwise a failure reads as "No Keys". Keys that exist but were
// never used are reported as "Active".
func EvaluateInactivity(creds Credentials, now time.Time, thresholdDays int) (bool, string) {
	for _, key := range creds.Keys {
		if key.LastUsedDate == nil {
			continue
		}
		days := int(now.Sub(*key.LastUsedDate) / (24 * time.Hour))
		if days > thresholdDays {
			return true, key.LastUsedDate.UTC().Format("2006-01-02")
		}
	}

	if creds.Err != nil || len(creds.Keys) == 0 {
		return false, LabelNoKeys
	}
	return false, LabelActive
}
