package model

import (
	"time"
)

// BaseModel handles the numeric ID, timestamps and the audit trail of the acting user.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Audit User Tracking (0 = system)
	CreatedBy uint `json:"created_by,omitempty"`
	UpdatedBy uint `json:"updated_by,omitempty"`
}

// GetID exposes the primary key to generic repositories.
func (b BaseModel) GetID() uint {
	return b.ID
}

// Stamp records the acting user on the audit columns.
func (b *BaseModel) Stamp(userID uint, creating bool) {
	if creating {
		b.CreatedBy = userID
	}
	b.UpdatedBy = userID
}
