package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Plans with a duration at or above this value never expire. The seeded
// default plan uses 9999 days, which the sweep treats as open-ended.
const NonExpiringDurationDays = 3650

const DefaultPlanDurationDays = 30

// FeatureList stores a plan's feature flags as a JSON array column.
type FeatureList []string

func (f FeatureList) Value() (driver.Value, error) {
	if f == nil {
		f = FeatureList{}
	}
	return json.Marshal(f)
}

func (f *FeatureList) Scan(value interface{}) error {
	if value == nil {
		*f = FeatureList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return fmt.Errorf("unsupported column type %T for FeatureList", value)
	}
}

// Contains reports whether the feature flag is part of the list.
func (f FeatureList) Contains(name string) bool {
	for _, feature := range f {
		if feature == name {
			return true
		}
	}
	return false
}

// Plan is a catalog entry describing a subscription tier. Plans are created
// and edited by administrators and soft-deactivated, never hard-deleted,
// because plan history keeps referencing them.
type Plan struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Name         string      `gorm:"uniqueIndex;type:varchar(100)" json:"name" validate:"required,min=2,max=100"`
	Price        float64     `gorm:"type:decimal(10,2)" json:"price" validate:"gte=0"`
	Features     FeatureList `gorm:"type:json" json:"features"`
	DurationDays int         `gorm:"default:30" json:"duration_days" validate:"gt=0"`
	IsDefault    bool        `gorm:"default:false" json:"is_default"`
	IsActive     bool        `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Plan) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// HasFeature reports whether the plan carries the given feature flag.
func (p *Plan) HasFeature(name string) bool {
	return p.Features.Contains(name)
}

// IsNonExpiring reports whether assignments of this plan never expire.
func (p *Plan) IsNonExpiring() bool {
	return p.DurationDays >= NonExpiringDurationDays
}
