package plans

import "errors"

// Error taxonomy for the entitlement engine. Controllers map these onto
// HTTP statuses; the sweep logs them and keeps going.
var (
	ErrInvalidInput      = errors.New("missing required assignment fields")
	ErrUserNotFound      = errors.New("user not found")
	ErrPlanNotFound      = errors.New("plan not found")
	ErrDuplicatePlanName = errors.New("plan name already exists")
	ErrNoDefaultPlan     = errors.New("no default plan configured")

	// ErrIntegrity flags state that should be impossible: an active ledger
	// record pointing at a missing plan, or a user plan pointer that
	// disagrees with the ledger.
	ErrIntegrity = errors.New("plan data integrity anomaly")
)
