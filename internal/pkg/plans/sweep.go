package plans

import (
	"context"
	"errors"
	"fmt"

	"github.com/cardboardhq/cardboard/app/models"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// SweepSummary reports what a single sweep run did. The sweep itself never
// fails its caller; per-user problems end up in the counters and the log.
type SweepSummary struct {
	Scanned          int
	Expired          int
	Downgraded       int
	SkippedNoDefault int
	Failed           int
}

// CheckExpiredPlans scans every active ledger record, derives its expiry
// from the start date plus the plan duration and downgrades expired users
// to the catalog's default plan. Each user is processed independently: one
// failure is logged and counted but never aborts the rest of the run, and
// re-running immediately is a no-op for everything already handled.
//
// Cancelling the context stops the scan between users. A user is either
// fully transitioned or untouched, never half-done.
func (s *Service) CheckExpiredPlans(ctx context.Context) SweepSummary {
	var summary SweepSummary

	records, err := s.repo.ListActiveHistory()
	if err != nil {
		log.Errorf("[PlanSweep] failed to enumerate active plan records: %v", err)
		return summary
	}

	loggedNoDefault := false
	for _, record := range records {
		select {
		case <-ctx.Done():
			log.Warnf("[PlanSweep] cancelled after %d of %d records", summary.Scanned, len(records))
			return summary
		default:
		}

		summary.Scanned++

		plan, err := s.repo.GetPlan(record.PlanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Should not happen: plans are never hard-deleted while
				// history references them.
				log.Errorf("[PlanSweep] %v: record %d references missing plan %d", ErrIntegrity, record.ID, record.PlanID)
			} else {
				log.Errorf("[PlanSweep] failed to load plan %d for record %d: %v", record.PlanID, record.ID, err)
			}
			summary.Failed++
			continue
		}

		expiresAt, expires := record.ExpiresAt(plan)
		if !expires || !expiresAt.Before(s.now()) {
			continue
		}
		summary.Expired++

		defaultPlan, err := s.repo.GetDefaultPlan()
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Non-fatal operational condition: without a fallback the
				// user stays on the expired record until an administrator
				// defines a default plan.
				if !loggedNoDefault {
					log.Warnf("[PlanSweep] %v: expired records left unprocessed", ErrNoDefaultPlan)
					loggedNoDefault = true
				}
				summary.SkippedNoDefault++
				continue
			}
			log.Errorf("[PlanSweep] failed to resolve default plan: %v", err)
			summary.Failed++
			continue
		}

		if err := s.expireUser(record.UserID, record.ID, defaultPlan); err != nil {
			log.Errorf("[PlanSweep] failed to downgrade user %d: %v", record.UserID, err)
			summary.Failed++
			continue
		}
		summary.Downgraded++
	}

	log.Infof("[PlanSweep] completed: scanned=%d expired=%d downgraded=%d skipped_no_default=%d failed=%d",
		summary.Scanned, summary.Expired, summary.Downgraded, summary.SkippedNoDefault, summary.Failed)
	return summary
}

// expireUser closes the expired record and opens a fresh one on the default
// plan, under the same per-user lock as manual assignments. The record is
// re-read under the lock: if a concurrent assignment replaced it since
// enumeration the downgrade no longer applies and nothing is written.
func (s *Service) expireUser(userID, recordID uint, defaultPlan *models.Plan) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	current, err := s.repo.GetActiveHistory(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("re-read active record: %w", err)
	}
	if current.ID != recordID {
		// Superseded by a manual assignment after enumeration.
		return nil
	}

	_, err = s.transition(userID, defaultPlan, models.PLAN_STATUS_EXPIRED, models.ReasonPlanExpired, models.ReasonRevertDefault)
	return err
}
