package repository

import (
	"time"

	"github.com/cardboardhq/cardboard/app/models"
	"gorm.io/gorm"
)

// planHistoryRepository implements the PlanHistoryRepository interface
type planHistoryRepository struct {
	db *gorm.DB
}

// NewPlanHistoryRepository creates a new plan history repository instance
func NewPlanHistoryRepository(db *gorm.DB) PlanHistoryRepository {
	return &planHistoryRepository{db: db}
}

// Create appends a ledger entry
func (r *planHistoryRepository) Create(history *models.PlanHistory) error {
	return r.db.Create(history).Error
}

// GetActiveByUser returns the user's single active ledger entry
func (r *planHistoryRepository) GetActiveByUser(userID uint) (*models.PlanHistory, error) {
	var history models.PlanHistory
	err := r.db.Where("user_id = ? AND status = ?", userID, models.PLAN_STATUS_ACTIVE).
		First(&history).Error
	if err != nil {
		return nil, err
	}
	return &history, nil
}

// ListActive returns every active ledger entry across all users
func (r *planHistoryRepository) ListActive() ([]models.PlanHistory, error) {
	var histories []models.PlanHistory
	err := r.db.Where("status = ?", models.PLAN_STATUS_ACTIVE).Find(&histories).Error
	return histories, err
}

// ListByUser returns a user's full audit trail, newest start first
func (r *planHistoryRepository) ListByUser(userID uint) ([]models.PlanHistory, error) {
	var histories []models.PlanHistory
	err := r.db.Preload("Plan").Where("user_id = ?", userID).
		Order("start_date DESC").Find(&histories).Error
	return histories, err
}

// CloseActive terminates the user's active entry. The status guard in the
// WHERE clause makes the close conditional: when another transition already
// closed the record, zero rows are affected and the close is a no-op. The
// returned count lets callers distinguish the two cases.
func (r *planHistoryRepository) CloseActive(userID uint, endDate time.Time, status, reason string) (int64, error) {
	tx := r.db.Model(&models.PlanHistory{}).
		Where("user_id = ? AND status = ?", userID, models.PLAN_STATUS_ACTIVE).
		Updates(map[string]interface{}{
			"end_date": endDate,
			"status":   status,
			"reason":   reason,
		})
	return tx.RowsAffected, tx.Error
}
