package plans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cardboardhq/cardboard/app/models"
	"gorm.io/gorm"
)

// Service is the plan lifecycle and entitlement engine. It owns every
// mutation of the plan ledger and of the user's denormalized plan pointer:
// manual assignments, sweep-driven downgrades and the read-side queries
// other parts of the app use to gate features.
type Service struct {
	repo  Repository
	locks *userLocker
	now   func() time.Time
}

// NewService creates an engine from an injected repository.
func NewService(repo Repository) *Service {
	return NewServiceWithClock(repo, time.Now)
}

// NewServiceWithClock creates an engine with an injected clock. The sweep
// and all ledger timestamps go through it, so expiry behavior is testable
// without waiting on the wall clock.
func NewServiceWithClock(repo Repository, now func() time.Time) *Service {
	return &Service{
		repo:  repo,
		locks: newUserLocker(),
		now:   now,
	}
}

// NewServiceFromDB creates an engine from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// AssignPlan moves a user onto a plan: the previous active ledger record is
// closed as cancelled, a new active record is opened with the caller's
// reason and the user's plan pointer is updated. The three steps run under
// the user's transition lock so a concurrent assignment or sweep on the
// same user can never observe or produce two active records.
//
// Retired plans are assignable on purpose; administrators may still place a
// user on a deactivated tier. The plan id just has to resolve.
func (s *Service) AssignPlan(ctx context.Context, userID, planID uint, reason string) (*models.User, error) {
	_ = ctx
	if userID == 0 || planID == 0 {
		return nil, ErrInvalidInput
	}

	plan, err := s.repo.GetPlan(planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	if _, err := s.repo.GetUser(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if reason == "" {
		reason = models.ReasonPlanUpdated
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	return s.transition(userID, plan, models.PLAN_STATUS_CANCELLED, models.ReasonPlanChange, reason)
}

// transition performs the close/open/pointer-update triple. Callers must
// hold the user's transition lock. Closing when no active record exists is
// a no-op: the conditional ledger close simply affects zero rows.
func (s *Service) transition(userID uint, next *models.Plan, closeStatus, closeReason, openReason string) (*models.User, error) {
	now := s.now()

	if _, err := s.repo.CloseActiveHistory(userID, now, closeStatus, closeReason); err != nil {
		return nil, fmt.Errorf("close active plan history: %w", err)
	}

	history := &models.PlanHistory{
		UserID:    userID,
		PlanID:    next.ID,
		StartDate: now,
		Status:    models.PLAN_STATUS_ACTIVE,
		Reason:    openReason,
	}
	if err := s.repo.CreateHistory(history); err != nil {
		return nil, fmt.Errorf("open plan history: %w", err)
	}

	if err := s.repo.UpdateUserPlanPointer(userID, next.ID); err != nil {
		return nil, fmt.Errorf("update plan pointer: %w", err)
	}

	return s.repo.GetUser(userID)
}

// CurrentPlan resolves the user's denormalized plan pointer. A nil plan
// with nil error means the user was never assigned one. A pointer at a
// missing plan is a data-integrity anomaly and surfaces as ErrIntegrity
// rather than being silently treated as "no plan".
func (s *Service) CurrentPlan(ctx context.Context, userID uint) (*models.Plan, error) {
	_ = ctx
	user, err := s.repo.GetUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.PlanID == nil {
		return nil, nil
	}

	plan, err := s.repo.GetPlan(*user.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d points at missing plan %d", ErrIntegrity, userID, *user.PlanID)
		}
		return nil, err
	}
	return plan, nil
}

// History returns the user's full audit trail, newest start first.
func (s *Service) History(ctx context.Context, userID uint) ([]models.PlanHistory, error) {
	_ = ctx
	if _, err := s.repo.GetUser(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.repo.ListHistoryByUser(userID)
}

// HasFeature reports whether the user's current plan carries the feature
// flag. A user without a plan gets the most restrictive answer: false.
// Lookup failures also answer false so quota gates fail closed.
func (s *Service) HasFeature(ctx context.Context, userID uint, feature string) bool {
	plan, err := s.CurrentPlan(ctx, userID)
	if err != nil || plan == nil {
		return false
	}
	return plan.HasFeature(feature)
}
