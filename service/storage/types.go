package storage

import (
	"context"
	"time"

	"github.com/thirukguru/iam-audit/service/audit"
)

// Service defines persistence and history queries for audit runs.
type Service interface {
	SaveRun(ctx context.Context, input SaveRunInput) (int64, error)
	GetRun(runID int64) (*RunSummary, error)
	GetRecentRuns(accountID string, limit int) ([]RunSummary, error)
	ListRecords(runID int64) ([]audit.RiskRecord, error)
	CompareRuns(runID1, runID2 int64) (*RunComparison, error)
	GetTrends(accountID string, days int) ([]TrendPoint, error)
	Vacuum(ctx context.Context) error
	Reindex(ctx context.Context) error
	PurgeOlderThan(ctx context.Context, days int) (int64, error)
	Close() error
}

// SaveRunInput is the payload saved for one audited account.
type SaveRunInput struct {
	RunUUID      string
	AccountID    string
	AccountName  string
	Timestamp    time.Time
	Duration     time.Duration
	InactiveDays int
	Version      string
	Profile      string
	FlagsJSON    string
	Records      []audit.RiskRecord
}

// RunSummary is the stored metadata of one run.
type RunSummary struct {
	RunID        int64         `json:"run_id"`
	RunUUID      string        `json:"run_uuid"`
	AccountID    string        `json:"account_id"`
	AccountName  string        `json:"account_name,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`
	InactiveDays int           `json:"inactive_days"`
	Summary      audit.Summary `json:"summary"`
	Version      string        `json:"version"`
}

// TrendPoint is a daily aggregate of risk counts.
type TrendPoint struct {
	AccountID      string `json:"account_id"`
	Date           string `json:"date"`
	TotalUsers     int    `json:"total_users"`
	WithoutMFA     int    `json:"without_mfa"`
	AdminAccess    int    `json:"admin_access"`
	WildcardPolicy int    `json:"wildcard_policy"`
	Inactive       int    `json:"inactive"`
	RiskyUsers     int    `json:"risky_users"`
}

// UserChange is one user's risk list in the two compared runs.
type UserChange struct {
	Username string   `json:"username"`
	Before   []string `json:"before,omitempty"`
	After    []string `json:"after,omitempty"`
}

// RunComparison lists users whose risk status changed between two runs.
type RunComparison struct {
	AccountID     string       `json:"account_id"`
	RunID1        int64        `json:"run_id_1"`
	RunID2        int64        `json:"run_id_2"`
	NewlyRisky    []UserChange `json:"newly_risky"`
	NoLongerRisky []UserChange `json:"no_longer_risky"`
	Changed       []UserChange `json:"changed"`
	StillRisky    int          `json:"still_risky"`
	AddedUsers    []string     `json:"added_users"`
	RemovedUsers  []string     `json:"removed_users"`
}
