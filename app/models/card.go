package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CARD_STATUS_TODO  = "todo"
	CARD_STATUS_DOING = "doing"
	CARD_STATUS_DONE  = "done"

	CARD_PRIORITY_LOW    = "low"
	CARD_PRIORITY_MEDIUM = "medium"
	CARD_PRIORITY_HIGH   = "high"
)

// OrgPointsPerCompletedCard is awarded to the card owner when a card
// transitions into the done status.
const OrgPointsPerCompletedCard = 10

// Card is a task card inside a list. The UUID is the public identifier
// exposed over the API; the numeric ID stays internal.
type Card struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UUID        string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	ListID      uint           `gorm:"index" json:"list_id"`
	UserID      uint           `gorm:"index" json:"user_id"`
	AssigneeID  *uint          `gorm:"index;default:null" json:"assignee_id"`
	Title       string         `gorm:"type:varchar(150)" json:"title" validate:"required,min=1,max=150"`
	Description string         `gorm:"type:text" json:"description" validate:"max=5000"`
	Status      string         `gorm:"type:varchar(20);default:'todo'" json:"status" validate:"oneof=todo doing done"`
	Priority    string         `gorm:"type:varchar(20);default:'medium'" json:"priority" validate:"oneof=low medium high"`
	DueDate     *time.Time     `gorm:"type:timestamp;default:null" json:"due_date"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Card) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

// NewCard builds a card with defaults applied and a fresh public UUID.
func NewCard(listID, userID uint, title, description string) *Card {
	return &Card{
		UUID:        uuid.New().String(),
		ListID:      listID,
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      CARD_STATUS_TODO,
		Priority:    CARD_PRIORITY_MEDIUM,
	}
}

// IsDone reports whether the card reached the done status.
func (c *Card) IsDone() bool {
	return c.Status == CARD_STATUS_DONE
}
