package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/thirukguru/iam-audit/model"
	"github.com/thirukguru/iam-audit/service/audit"
	"github.com/thirukguru/iam-audit/service/storage"
	audittable "github.com/thirukguru/iam-audit/shared/audit_table"
	"github.com/thirukguru/iam-audit/shared/trends"
)

func runStorageCommand(cmd string, args []string) error {
	switch cmd {
	case "db":
		return runDBCommand(args)
	case "history":
		return runHistoryCommand(args)
	default:
		return fmt.Errorf("unsupported command: %s", cmd)
	}
}

func runDBCommand(args []string) error {
	fs := pflag.NewFlagSet("db", pflag.ContinueOnError)
	dbPath := fs.String("db-path", "", "SQLite database path")
	olderThan := fs.Int("older-than", 90, "Purge runs older than N days")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: iam-audit db <vacuum|reindex|purge> [--db-path ...]")
	}

	store, err := storage.NewService(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	return dbWorkflow(context.Background(), store, os.Stdout, rest[0], *olderThan)
}

func dbWorkflow(ctx context.Context, store storage.Service, w io.Writer, sub string, olderThan int) error {
	switch sub {
	case "vacuum":
		return store.Vacuum(ctx)
	case "reindex":
		return store.Reindex(ctx)
	case "purge":
		count, err := store.PurgeOlderThan(ctx, olderThan)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Purged %d runs\n", count)
		return nil
	default:
		return fmt.Errorf("unsupported db command: %s", sub)
	}
}

type historyOptions struct {
	AccountID  string
	Limit      int
	Days       int
	ExportJSON string
	ExportCSV  string
}

func runHistoryCommand(args []string) error {
	fs := pflag.NewFlagSet("history", pflag.ContinueOnError)
	dbPath := fs.String("db-path", "", "SQLite database path")
	opts := historyOptions{}
	fs.StringVar(&opts.AccountID, "account-id", "", "AWS account ID filter")
	fs.IntVar(&opts.Limit, "limit", 20, "Number of runs to list")
	fs.IntVar(&opts.Days, "days", 30, "Trend window in days")
	fs.StringVar(&opts.ExportJSON, "export-json", "", "Write trend points to a JSON file")
	fs.StringVar(&opts.ExportCSV, "export-csv", "", "Write trend points to a CSV file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: iam-audit history <list|show|compare|trends>")
	}

	store, err := storage.NewService(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	return historyWorkflow(store, os.Stdout, rest, opts)
}

func historyWorkflow(store storage.Service, w io.Writer, rest []string, opts historyOptions) error {
	switch sub := rest[0]; sub {
	case "list":
		runs, err := store.GetRecentRuns(opts.AccountID, opts.Limit)
		if err != nil {
			return err
		}
		trends.RenderRunsTable(w, runs)
		return nil
	case "show":
		if len(rest) < 2 {
			return fmt.Errorf("usage: iam-audit history show <run-id>")
		}
		runID, err := strconv.ParseInt(rest[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run id %q: %w", rest[1], err)
		}
		return showRun(store, w, runID)
	case "compare":
		return compareRuns(store, w, rest[1:], opts.AccountID)
	case "trends":
		return runTrendWorkflow(store, w, opts)
	default:
		return fmt.Errorf("unsupported history command: %s", sub)
	}
}

// showRun redraws a stored run with the same table as a live audit.
func showRun(store storage.Service, w io.Writer, runID int64) error {
	run, err := store.GetRun(runID)
	if err != nil {
		return err
	}
	records, err := store.ListRecords(runID)
	if err != nil {
		return err
	}
	audittable.DrawAuditTable(w, model.RenderAuditInput{
		AccountID:   run.AccountID,
		AccountName: run.AccountName,
		GeneratedAt: run.Timestamp,
		Report:      audit.BuildReportWithThreshold(records, run.InactiveDays),
	})
	return nil
}

// compareRuns diffs two runs, defaulting to the latest two for the account.
// Without an account the account of the newest stored run is used.
func compareRuns(store storage.Service, w io.Writer, ids []string, accountID string) error {
	var older, newer int64
	switch len(ids) {
	case 0:
		if accountID == "" {
			latest, err := store.GetRecentRuns("", 1)
			if err != nil {
				return err
			}
			if len(latest) == 0 {
				return fmt.Errorf("need at least two stored runs to compare, found 0")
			}
			accountID = latest[0].AccountID
		}
		runs, err := store.GetRecentRuns(accountID, 2)
		if err != nil {
			return err
		}
		if len(runs) < 2 {
			return fmt.Errorf("need at least two stored runs to compare, found %d", len(runs))
		}
		older, newer = runs[1].RunID, runs[0].RunID
	case 2:
		var err error
		if older, err = strconv.ParseInt(ids[0], 10, 64); err != nil {
			return fmt.Errorf("invalid run id %q: %w", ids[0], err)
		}
		if newer, err = strconv.ParseInt(ids[1], 10, 64); err != nil {
			return fmt.Errorf("invalid run id %q: %w", ids[1], err)
		}
	default:
		return fmt.Errorf("usage: iam-audit history compare [<run-a> <run-b>]")
	}

	cmp, err := store.CompareRuns(older, newer)
	if err != nil {
		return err
	}
	trends.RenderComparisonTable(w, cmp)
	return nil
}

func runTrendWorkflow(store storage.Service, w io.Writer, opts historyOptions) error {
	points, err := store.GetTrends(opts.AccountID, opts.Days)
	if err != nil {
		return err
	}
	trends.RenderTrendTable(w, points)

	if strings.TrimSpace(opts.ExportJSON) != "" {
		b, err := json.MarshalIndent(points, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.ExportJSON, b, 0o644); err != nil {
			return err
		}
	}
	if strings.TrimSpace(opts.ExportCSV) != "" {
		f, err := os.Create(opts.ExportCSV)
		if err != nil {
			return err
		}
		defer f.Close()
		cw := csv.NewWriter(f)
		_ = cw.Write([]string{"account_id", "date", "total_users", "without_mfa", "admin_access", "wildcard_policy", "inactive", "risky_users"})
		for _, p := range points {
			_ = cw.Write([]string{
				p.AccountID, p.Date, strconv.Itoa(p.TotalUsers), strconv.Itoa(p.WithoutMFA),
				strconv.Itoa(p.AdminAccess), strconv.Itoa(p.WildcardPolicy), strconv.Itoa(p.Inactive), strconv.Itoa(p.RiskyUsers),
			})
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
	}

	return nil
}
