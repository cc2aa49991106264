package repository

import (
	"time"

	"github.com/cardboardhq/cardboard/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAuthTokenHash(hash string) (*models.User, error)
	Update(user *models.User) error
	UpdatePlanPointer(userID uint, planID uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// PlanRepository defines the interface for plan catalog operations
type PlanRepository interface {
	Create(plan *models.Plan) error
	Update(plan *models.Plan) error
	GetByID(id uint) (*models.Plan, error)
	GetByName(name string) (*models.Plan, error)
	GetDefault() (*models.Plan, error)
	ListActive() ([]models.Plan, error)
	List() ([]models.Plan, error)
	Deactivate(id uint) error
}

// PlanHistoryRepository defines the interface for the plan audit ledger.
// Entries are appended and closed, never deleted.
type PlanHistoryRepository interface {
	Create(history *models.PlanHistory) error
	GetActiveByUser(userID uint) (*models.PlanHistory, error)
	ListActive() ([]models.PlanHistory, error)
	ListByUser(userID uint) ([]models.PlanHistory, error)
	CloseActive(userID uint, endDate time.Time, status, reason string) (int64, error)
}

// ListRepository defines the interface for list-related database operations
type ListRepository interface {
	Create(list *models.List) error
	GetByID(id uint) (*models.List, error)
	GetByUserID(userID uint) ([]models.List, error)
	GetByNameAndUser(name string, userID uint) (*models.List, error)
	Update(list *models.List) error
	Delete(id uint) error
	CountByUserID(userID uint) (int64, error)
}

// CardRepository defines the interface for card-related database operations
type CardRepository interface {
	Create(card *models.Card) error
	GetByID(id uint) (*models.Card, error)
	GetByUUID(uuid string) (*models.Card, error)
	GetByListID(listID uint) ([]models.Card, error)
	Update(card *models.Card) error
	Delete(id uint) error
	CountByListID(listID uint) (int64, error)
}

// CommentRepository defines the interface for comment-related database operations
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id uint) (*models.Comment, error)
	GetByCardID(cardID uint) ([]models.Comment, error)
	Delete(id uint) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User        UserRepository
	Plan        PlanRepository
	PlanHistory PlanHistoryRepository
	List        ListRepository
	Card        CardRepository
	Comment     CommentRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Plan:        NewPlanRepository(db),
		PlanHistory: NewPlanHistoryRepository(db),
		List:        NewListRepository(db),
		Card:        NewCardRepository(db),
		Comment:     NewCommentRepository(db),
	}
}
