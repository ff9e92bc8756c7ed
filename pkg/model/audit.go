package model

import "time"

// AuditEntry captures a write against the navigation configuration.
type AuditEntry struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TenantID  string    `gorm:"size:64;index" json:"tenantId,omitempty"`
	Actor     string    `gorm:"size:64" json:"actor"`
	Action    string    `gorm:"size:64" json:"action"`
	Target    string    `gorm:"size:128" json:"target"`
	Detail    string    `gorm:"type:text" json:"detail,omitempty"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
}
