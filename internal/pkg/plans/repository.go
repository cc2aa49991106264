package plans

import (
	"time"

	"github.com/cardboardhq/cardboard/app/models"
	"github.com/cardboardhq/cardboard/app/repository"
	"gorm.io/gorm"
)

// Repository is the narrow store surface the entitlement engine needs. All
// coordination between concurrent transitions happens through this store;
// the engine keeps no other shared mutable state.
type Repository interface {
	GetUser(id uint) (*models.User, error)
	UpdateUserPlanPointer(userID uint, planID uint) error

	GetPlan(id uint) (*models.Plan, error)
	GetDefaultPlan() (*models.Plan, error)

	CreateHistory(history *models.PlanHistory) error
	GetActiveHistory(userID uint) (*models.PlanHistory, error)
	ListActiveHistory() ([]models.PlanHistory, error)
	ListHistoryByUser(userID uint) ([]models.PlanHistory, error)
	CloseActiveHistory(userID uint, endDate time.Time, status, reason string) (int64, error)
}

type gormRepository struct {
	users  repository.UserRepository
	plans  repository.PlanRepository
	ledger repository.PlanHistoryRepository
}

// NewRepository creates an engine repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	repos := repository.NewRepositories(db)
	return &gormRepository{
		users:  repos.User,
		plans:  repos.Plan,
		ledger: repos.PlanHistory,
	}
}

func (r *gormRepository) GetUser(id uint) (*models.User, error) {
	return r.users.GetByID(id)
}

func (r *gormRepository) UpdateUserPlanPointer(userID uint, planID uint) error {
	return r.users.UpdatePlanPointer(userID, planID)
}

func (r *gormRepository) GetPlan(id uint) (*models.Plan, error) {
	return r.plans.GetByID(id)
}

func (r *gormRepository) GetDefaultPlan() (*models.Plan, error) {
	return r.plans.GetDefault()
}

func (r *gormRepository) CreateHistory(history *models.PlanHistory) error {
	return r.ledger.Create(history)
}

func (r *gormRepository) GetActiveHistory(userID uint) (*models.PlanHistory, error) {
	return r.ledger.GetActiveByUser(userID)
}

func (r *gormRepository) ListActiveHistory() ([]models.PlanHistory, error) {
	return r.ledger.ListActive()
}

func (r *gormRepository) ListHistoryByUser(userID uint) ([]models.PlanHistory, error) {
	return r.ledger.ListByUser(userID)
}

func (r *gormRepository) CloseActiveHistory(userID uint, endDate time.Time, status, reason string) (int64, error) {
	return r.ledger.CloseActive(userID, endDate, status, reason)
}
