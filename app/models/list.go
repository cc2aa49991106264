package models

import (
	"errors"
	"regexp"
	"time"

	"gorm.io/gorm"
)

const (
	MinListNameLength = 3
	MaxListNameLength = 50

	// DefaultListLimit caps how many lists a user may create unless their
	// plan carries the unlimited_lists feature.
	DefaultListLimit = 10

	FeatureUnlimitedLists = "unlimited_lists"
)

var listNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-_]+$`)

var (
	ErrListNameLength  = errors.New("list name must be between 3 and 50 characters")
	ErrListNameCharset = errors.New("list name contains invalid characters")
)

// List is a board column owned by a single user. Cards hang off lists.
type List struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index" json:"user_id"`
	Name      string         `gorm:"type:varchar(50)" json:"name"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidateListName enforces the list naming rules: length bounds and a
// restricted character set.
func ValidateListName(name string) error {
	if len(name) < MinListNameLength || len(name) > MaxListNameLength {
		return ErrListNameLength
	}
	if !listNamePattern.MatchString(name) {
		return ErrListNameCharset
	}
	return nil
}
