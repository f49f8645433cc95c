// Package storage persists audit runs in a local SQLite database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/thirukguru/iam-audit/service/audit"
	_ "modernc.org/sqlite"
)

const (
	defaultDBPath   = "~/.iam-audit/history.db"
	timestampLayout = "2006-01-02 15:04:05"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// ErrAccountMismatch is returned when two compared runs audited different accounts.
var ErrAccountMismatch = errors.New("runs belong to different accounts")

// NewService creates a SQLite-backed storage service.
func NewService(dbPath string) (Service, error) {
	resolved, err := resolvePath(dbPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaV1); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &service{db: db}, nil
}

type service struct {
	db *sql.DB
}

func resolvePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		p = defaultDBPath
	}
	if strings.HasPrefix(p, "~/") || p == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home dir: %w", err)
		}
		if p == "~" {
			p = home
		} else {
			p = filepath.Join(home, p[2:])
		}
	}
	return filepath.Clean(p), nil
}

// SaveRun stores the run and its records in one transaction.
func (s *service) SaveRun(ctx context.Context, input SaveRunInput) (runID int64, err error) {
	if input.AccountID == "" {
		return 0, errors.New("account id is required")
	}
	if input.RunUUID == "" {
		return 0, errors.New("run uuid is required")
	}
	if input.Timestamp.IsZero() {
		input.Timestamp = time.Now()
	}
	if input.InactiveDays <= 0 {
		input.InactiveDays = audit.DefaultInactiveDays
	}
	summary := audit.Summarize(input.Records)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (
			run_uuid, account_id, account_name, run_timestamp, duration_ms, inactive_days,
			total_users, without_mfa, admin_access, wildcard_policy, inactive, risky_users,
			credential_errors, cli_version, run_profile, run_flags
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, input.RunUUID, input.AccountID, input.AccountName, input.Timestamp.UTC().Format(timestampLayout),
		input.Duration.Milliseconds(), input.InactiveDays,
		summary.TotalUsers, summary.WithoutMFA, summary.AdminAccess, summary.WildcardPolicy,
		summary.Inactive, summary.RiskyUsers, summary.CredentialErrors,
		input.Version, input.Profile, input.FlagsJSON)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO account_records (
			run_id, position, username, mfa_enabled, admin_access, wildcard_policy,
			last_used, inactive, credential_data_unavailable
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, r := range input.Records {
		if _, err = stmt.ExecContext(ctx, runID, i, r.Username, r.MFAEnabled, r.HasAdminAccess,
			r.HasWildcardPolicy, r.LastUsedLabel, r.IsInactive, r.CredentialDataUnavailable); err != nil {
			return 0, fmt.Errorf("insert record %s: %w", r.Username, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

const runColumns = `
	run_id, run_uuid, account_id, COALESCE(account_name, ''), run_timestamp, inactive_days,
	total_users, without_mfa, admin_access, wildcard_policy, inactive, risky_users,
	credential_errors, COALESCE(cli_version, '')`

func scanRun(row interface{ Scan(...any) error }) (RunSummary, error) {
	var r RunSummary
	err := row.Scan(&r.RunID, &r.RunUUID, &r.AccountID, &r.AccountName, &r.Timestamp, &r.InactiveDays,
		&r.Summary.TotalUsers, &r.Summary.WithoutMFA, &r.Summary.AdminAccess, &r.Summary.WildcardPolicy,
		&r.Summary.Inactive, &r.Summary.RiskyUsers, &r.Summary.CredentialErrors, &r.Version)
	return r, err
}

func (s *service) GetRun(runID int64) (*RunSummary, error) {
	r, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id=?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *service) GetRecentRuns(accountID string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT ` + runColumns + ` FROM runs`
	args := []any{}
	if accountID != "" {
		query += " WHERE account_id=?"
		args = append(args, accountID)
	}
	query += " ORDER BY run_timestamp DESC, run_id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ListRecords returns a run's records in their original report order.
func (s *service) ListRecords(runID int64) ([]audit.RiskRecord, error) {
	rows, err := s.db.Query(`
		SELECT username, mfa_enabled, admin_access, wildcard_policy, last_used, inactive, credential_data_unavailable
		FROM account_records WHERE run_id=? ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []audit.RiskRecord{}
	for rows.Next() {
		var r audit.RiskRecord
		if err := rows.Scan(&r.Username, &r.MFAEnabled, &r.HasAdminAccess, &r.HasWildcardPolicy,
			&r.LastUsedLabel, &r.IsInactive, &r.CredentialDataUnavailable); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CompareRuns diffs the per-user risks of two runs of the same account;
// runID1 is the older one.
func (s *service) CompareRuns(runID1, runID2 int64) (*RunComparison, error) {
	run1, err := s.GetRun(runID1)
	if err != nil {
		return nil, err
	}
	run2, err := s.GetRun(runID2)
	if err != nil {
		return nil, err
	}
	if run1.AccountID != run2.AccountID {
		return nil, fmt.Errorf("%w: run %d is %s, run %d is %s",
			ErrAccountMismatch, runID1, run1.AccountID, runID2, run2.AccountID)
	}
	first, err := s.ListRecords(runID1)
	if err != nil {
		return nil, err
	}
	second, err := s.ListRecords(runID2)
	if err != nil {
		return nil, err
	}

	before := make(map[string][]string, len(first))
	for _, r := range first {
		before[r.Username] = r.Risks()
	}
	after := make(map[string][]string, len(second))
	for _, r := range second {
		after[r.Username] = r.Risks()
	}

	cmp := &RunComparison{AccountID: run1.AccountID, RunID1: runID1, RunID2: runID2}
	for user, now := range after {
		was, existed := before[user]
		if !existed {
			cmp.AddedUsers = append(cmp.AddedUsers, user)
		}
		switch {
		case len(was) == 0 && len(now) > 0:
			cmp.NewlyRisky = append(cmp.NewlyRisky, UserChange{Username: user, Before: was, After: now})
		case len(was) > 0 && len(now) == 0:
			cmp.NoLongerRisky = append(cmp.NoLongerRisky, UserChange{Username: user, Before: was})
		case len(was) > 0 && len(now) > 0:
			cmp.StillRisky++
			if !slices.Equal(was, now) {
				cmp.Changed = append(cmp.Changed, UserChange{Username: user, Before: was, After: now})
			}
		}
	}
	for user, was := range before {
		if _, ok := after[user]; ok {
			continue
		}
		cmp.RemovedUsers = append(cmp.RemovedUsers, user)
		if len(was) > 0 {
			cmp.NoLongerRisky = append(cmp.NoLongerRisky, UserChange{Username: user, Before: was})
		}
	}

	sortChanges(cmp.NewlyRisky)
	sortChanges(cmp.NoLongerRisky)
	sortChanges(cmp.Changed)
	sort.Strings(cmp.AddedUsers)
	sort.Strings(cmp.RemovedUsers)
	return cmp, nil
}

func sortChanges(changes []UserChange) {
	sort.Slice(changes, func(i, j int) bool { return changes[i].Username < changes[j].Username })
}

// GetTrends returns per-day maxima of each risk count.
func (s *service) GetTrends(accountID string, days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = 30
	}
	query := `
		SELECT
			account_id,
			DATE(run_timestamp) AS day,
			MAX(total_users),
			MAX(without_mfa),
			MAX(admin_access),
			MAX(wildcard_policy),
			MAX(inactive),
			MAX(risky_users)
		FROM runs
		WHERE run_timestamp >= DATETIME('now', ?)
	`
	args := []any{fmt.Sprintf("-%d day", days)}
	if accountID != "" {
		query += " AND account_id=?"
		args = append(args, accountID)
	}
	query += " GROUP BY account_id, DATE(run_timestamp) ORDER BY day ASC, account_id ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []TrendPoint{}
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.AccountID, &p.Date, &p.TotalUsers, &p.WithoutMFA, &p.AdminAccess,
			&p.WildcardPolicy, &p.Inactive, &p.RiskyUsers); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *service) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

func (s *service) Reindex(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "REINDEX")
	return err
}

// PurgeOlderThan deletes runs (and their records) older than days.
func (s *service) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, errors.New("days must be > 0")
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM runs WHERE run_timestamp < DATETIME('now', ?)
	`, fmt.Sprintf("-%d day", days))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *service) Close() error {
	return s.db.Close()
}
