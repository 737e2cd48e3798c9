package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactMessage is a message left through the public contact form.
type ContactMessage struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	Email     string    `json:"email" gorm:"type:text;not null"`
	Subject   *string   `json:"subject,omitempty" gorm:"type:text"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	IsRead    bool      `json:"isRead" gorm:"column:is_read;not null"`
	Read      bool      `json:"read" gorm:"column:read;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}

// Seen treats the legacy read column as a synonym of is_read.
func (c ContactMessage) Seen() bool {
	return c.IsRead || c.Read
}
