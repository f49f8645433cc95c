package audit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) *time.Time {
	t := testNow.Add(-time.Duration(d) * 24 * time.Hour)
	return &t
}

func TestHasMFA(t *testing.T) {
	assert.False(t, HasMFA(nil))
	assert.False(t, HasMFA([]MFADevice{}))
	assert.True(t, HasMFA([]MFADevice{{SerialNumber: "arn:aws:iam::1:mfa/alice"}}))
	assert.True(t, HasMFA([]MFADevice{{}, {}}))
}

func TestHasAdminAccess(t *testing.T) {
	tests := []struct {
		name     string
		policies []AttachedPolicy
		want     bool
	}{
		{"exact name", []AttachedPolicy{{Name: "ReadOnlyAccess"}, {Name: "AdministratorAccess"}}, true},
		{"case differs", []AttachedPolicy{{Name: "administratoraccess"}}, false},
		{"similar name", []AttachedPolicy{{Name: "AdministratorAccess-Amplify"}}, false},
		{"none", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasAdminAccess(tt.policies, DefaultAdminPolicyName))
		})
	}

	assert.True(t, HasAdminAccess([]AttachedPolicy{{Name: "BreakGlass"}}, "BreakGlass"))
}

func TestEvaluateInactivity(t *testing.T) {
	tests := []struct {
		name         string
		creds        Credentials
		wantInactive bool
		wantLabel    string
	}{
		{
			name:         "used 91 days ago",
			creds:        Credentials{Keys: []AccessKey{{ID: "k1", LastUsedDate: daysAgo(91)}}},
			wantInactive: true,
			wantLabel:    "2024-03-31",
		},
		{
			name:      "used exactly 90 days ago",
			creds:     Credentials{Keys: []AccessKey{{ID: "k1", LastUsedDate: daysAgo(90)}}},
			wantLabel: LabelActive,
		},
		{
			name:      "used 10 days ago",
			creds:     Credentials{Keys: []AccessKey{{ID: "k1", LastUsedDate: daysAgo(10)}}},
			wantLabel: LabelActive,
		},
		{
			name:      "no keys",
			creds:     Credentials{},
			wantLabel: LabelNoKeys,
		},
		{
			name:         "first stale key wins",
			creds:        Credentials{Keys: []AccessKey{{ID: "k1", LastUsedDate: daysAgo(100)}, {ID: "k2", LastUsedDate: daysAgo(200)}}},
			wantInactive: true,
			wantLabel:    "2024-03-22",
		},
		{
			name:         "recent key before stale key",
			creds:        Credentials{Keys: []AccessKey{{ID: "k1", LastUsedDate: daysAgo(5)}, {ID: "k2", LastUsedDate: daysAgo(120)}}},
			wantInactive: true,
			wantLabel:    "2024-03-02",
		},
		{
			name:      "keys never used",
			creds:     Credentials{Keys: []AccessKey{{ID: "k1"}, {ID: "k2"}}},
			wantLabel: LabelActive,
		},
		{
			name:      "lookup failed",
			creds:     Credentials{Err: errors.New("AccessDenied")},
			wantLabel: LabelNoKeys,
		},
		{
			name:      "lookup failed after recent key",
			creds:     Credentials{Keys: []AccessKey{{ID: "k1", LastUsedDate: daysAgo(3)}}, Err: errors.New("throttled")},
			wantLabel: LabelNoKeys,
		},
		{
			name:         "lookup failed after stale key",
			creds:        Credentials{Keys: []AccessKey{{ID: "k1", LastUsedDate: daysAgo(95)}}, Err: errors.New("throttled")},
			wantInactive: true,
			wantLabel:    "2024-03-27",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inactive, label := EvaluateInactivity(tt.creds, testNow, DefaultInactiveDays)
			assert.Equal(t, tt.wantInactive, inactive)
			assert.Equal(t, tt.wantLabel, label)
		})
	}
}

func TestEvaluateInactivityCustomThreshold(t *testing.T) {
	creds := Credentials{Keys: []AccessKey{{ID: "k1", LastUsedDate: daysAgo(31)}}}

	inactive, _ := EvaluateInactivity(creds, testNow, 30)
	assert.True(t, inactive)

	inactive, label := EvaluateInactivity(creds, testNow, 31)
	assert.False(t, inactive)
	assert.Equal(t, LabelActive, label)
}
