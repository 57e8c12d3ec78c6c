package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PersonalAccessToken backs an issued bearer token. Deleting the row revokes the token.
type PersonalAccessToken struct {
	ID         uuid.UUID  `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Name       string     `gorm:"type:varchar(100)" json:"name"`
	ExpiresAt  time.Time  `gorm:"not null;index" json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Hook Before Create untuk generate UUID otomatis
func (t *PersonalAccessToken) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

func (t *PersonalAccessToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
