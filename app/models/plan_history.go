package models

import (
	"time"
)

const (
	PLAN_STATUS_ACTIVE    = "active"
	PLAN_STATUS_EXPIRED   = "expired"
	PLAN_STATUS_CANCELLED = "cancelled"
)

// Fixed transition reasons written by the entitlement engine. The close
// reason on a manual change is distinct from the sweep's expiry reason so
// the ledger records why each assignment ended.
const (
	ReasonPlanChange    = "plan change"
	ReasonPlanUpdated   = "plan updated"
	ReasonPlanExpired   = "plan expired"
	ReasonRevertDefault = "returned to default plan after expiry"
)

// PlanHistory is one entry in the append-only audit ledger of plan
// assignments. A record is created on every assignment and mutated exactly
// once afterwards, to close it out with an end date and a terminal status.
// Records are never deleted.
type PlanHistory struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index" json:"user_id"`
	PlanID    uint       `gorm:"index" json:"plan_id"`
	Plan      Plan       `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `gorm:"default:null" json:"end_date"`
	Status    string     `gorm:"type:varchar(20);default:'active';index" json:"status" validate:"oneof=active expired cancelled"`
	Reason    string     `gorm:"type:varchar(255)" json:"reason" validate:"required"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActive reports whether this is the user's current assignment.
func (h *PlanHistory) IsActive() bool {
	return h.Status == PLAN_STATUS_ACTIVE
}

// ExpiresAt computes when this assignment lapses. Expiry is derived, not
// stored: start date plus the plan duration in days. The second return is
// false for non-expiring plans.
func (h *PlanHistory) ExpiresAt(plan *Plan) (time.Time, bool) {
	if plan == nil || plan.IsNonExpiring() {
		return time.Time{}, false
	}
	return h.StartDate.AddDate(0, 0, plan.DurationDays), true
}
