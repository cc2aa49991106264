package repository

import (
	"github.com/cardboardhq/cardboard/app/models"
	"gorm.io/gorm"
)

// planRepository implements the PlanRepository interface
type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository instance
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

// Create inserts a new catalog entry. When the plan is marked default, any
// previously default plan loses the flag in the same transaction so the
// catalog never holds two defaults.
func (r *planRepository) Create(plan *models.Plan) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if plan.IsDefault {
			if err := clearDefaultFlag(tx, 0); err != nil {
				return err
			}
		}
		return tx.Create(plan).Error
	})
}

// Update saves changes to a catalog entry, keeping the single-default rule.
func (r *planRepository) Update(plan *models.Plan) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if plan.IsDefault {
			if err := clearDefaultFlag(tx, plan.ID); err != nil {
				return err
			}
		}
		return tx.Save(plan).Error
	})
}

func clearDefaultFlag(tx *gorm.DB, exceptID uint) error {
	q := tx.Model(&models.Plan{}).Where("is_default = ?", true)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	return q.Update("is_default", false).Error
}

// GetByID retrieves a plan by its ID
func (r *planRepository) GetByID(id uint) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.First(&plan, id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetByName retrieves a plan by its unique name
func (r *planRepository) GetByName(name string) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.Where("name = ?", name).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetDefault returns the catalog's fallback plan, if one is configured.
func (r *planRepository) GetDefault() (*models.Plan, error) {
	var plan models.Plan
	err := r.db.Where("is_default = ?", true).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListActive returns catalog entries available for new assignments
func (r *planRepository) ListActive() ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.Where("is_active = ?", true).Order("price ASC").Find(&plans).Error
	return plans, err
}

// List returns every catalog entry, retired plans included
func (r *planRepository) List() ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.Order("price ASC").Find(&plans).Error
	return plans, err
}

// Deactivate retires a plan from new assignments without deleting it.
// History keeps referencing retired plans.
func (r *planRepository) Deactivate(id uint) error {
	return r.db.Model(&models.Plan{}).Where("id = ?", id).
		Update("is_active", false).Error
}
