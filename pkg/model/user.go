package model

import "time"

// User is an admin account. Platform admins have no tenant.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64" json:"username"`
	PasswordHash string    `json:"-"`
	TenantID     string    `gorm:"size:64" json:"tenantId,omitempty"` // empty for platform admins
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}
