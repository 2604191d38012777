package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit action constants
const (
	AuditActionCreate  = "CREATE"
	AuditActionUpdate  = "UPDATE"
	AuditActionApprove = "APPROVE"
	AuditActionReject  = "REJECT"
)

// Audit resource types
const (
	ResourceRequest     = "REQUEST"
	ResourceApproval    = "APPROVAL"
	ResourceTransaction = "TRANSACTION"
	ResourceInventory   = "INVENTORY"
	ResourcePatient     = "PATIENT"
	ResourceRoom        = "ROOM"
	ResourceUser        = "USER"
)

// Audit severity levels
const (
	SeverityInfo     = "INFO"
	SeverityWarning  = "WARNING"
	SeverityCritical = "CRITICAL"
)

// AuditLog tracks who did what to which resource. Failures writing audit
// entries outside a settlement transaction must not abort the primary
// operation.
type AuditLog struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User         *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action       string     `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType string     `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   string     `gorm:"type:varchar(50);index" json:"resource_id"`
	Description  string     `gorm:"type:text;not null" json:"description"`
	OldValues    string     `gorm:"type:jsonb" json:"old_values"`
	NewValues    string     `gorm:"type:jsonb" json:"new_values"`
	Severity     string     `gorm:"type:varchar(20);not null;default:'INFO'" json:"severity"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
}
