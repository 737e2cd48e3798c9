package models

import (
	"time"

	"github.com/google/uuid"
)

// Skill is one entry of the skills section, ordered within its category.
type Skill struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"type:text;not null;uniqueIndex"`
	Level     string    `json:"level" gorm:"type:text;not null"`
	Category  string    `json:"category" gorm:"type:text;not null"`
	Icon      *string   `json:"icon,omitempty" gorm:"type:text"`
	Order     int       `json:"order" gorm:"column:sort_order;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Skill) TableName() string {
	return "skills"
}
