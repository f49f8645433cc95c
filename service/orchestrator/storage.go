package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/thirukguru/iam-audit/model"
	"github.com/thirukguru/iam-audit/service/storage"
)

func (s *service) persistRunsIfEnabled(ctx context.Context, flags model.Flags, inputs []model.RenderAuditInput, duration time.Duration) error {
	if s.storageService == nil || !flags.Store {
		return nil
	}

	flagsJSON, _ := json.Marshal(flags)
	for _, in := range inputs {
		runID, err := s.storageService.SaveRun(ctx, storage.SaveRunInput{
			RunUUID:      s.newRunID(),
			AccountID:    in.AccountID,
			AccountName:  in.AccountName,
			Timestamp:    in.GeneratedAt,
			Duration:     duration,
			InactiveDays: inactiveDaysOf(flags),
			Version:      s.versionInfo.Version,
			Profile:      flags.Profile,
			FlagsJSON:    string(flagsJSON),
			Records:      in.Report.Records,
		})
		if err != nil {
			return fmt.Errorf("failed to persist run for account %s: %w", in.AccountID, err)
		}
		s.log.WithFields(logrus.Fields{
			"account_id": in.AccountID,
			"run_id":     runID,
		}).Info("audit run stored")
	}
	return nil
}
