package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestType enum constants
const (
	RequestTypeTransaction = "TRANSACTION"
	RequestTypeInventory   = "INVENTORY"
	RequestTypeProcurement = "PROCUREMENT"
)

// TransactionSubtype enum constants (TRANSACTION requests only)
const (
	SubtypeRevenue          = "REVENUE"
	SubtypeExpense          = "EXPENSE"
	SubtypeCapitalInjection = "CAPITAL_INJECTION"
)

// RequestStatus constants
const (
	RequestPending  = "PENDING"
	RequestApproved = "APPROVED"
	RequestRejected = "REJECTED"
)

// Priority constants
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// Request represents a spending/inventory/procurement request awaiting
// its approval chain. Status is mutated only by the approval engine.
type Request struct {
	ID                 uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestCode        string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"request_code"` // REQ-YYYYMMDD-NNN
	RequestType        string          `gorm:"type:varchar(20);not null;index" json:"request_type"`       // TRANSACTION, INVENTORY, PROCUREMENT
	TransactionSubtype *string         `gorm:"type:varchar(30)" json:"transaction_subtype"`               // REVENUE, EXPENSE, CAPITAL_INJECTION
	RequesterUserID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"requester_user_id"`
	Requester          *User           `gorm:"foreignKey:RequesterUserID" json:"requester,omitempty"`
	ExpenseCategoryID  *uuid.UUID      `gorm:"type:uuid" json:"expense_category_id"`
	ExpenseCategory    *TransactionCategory `gorm:"foreignKey:ExpenseCategoryID" json:"expense_category,omitempty"`
	Amount             decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description        string          `gorm:"type:text;not null" json:"description"`
	Justification      string          `gorm:"type:text" json:"justification"`
	Status             string          `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Priority           string          `gorm:"type:varchar(10);not null;default:'MEDIUM'" json:"priority"`
	NeededByDate       *time.Time      `gorm:"type:date" json:"needed_by_date"`
	Items              []RequestItem   `gorm:"foreignKey:RequestID" json:"items"`
	Approvals          []Approval      `gorm:"foreignKey:RequestID" json:"approvals"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// RequestItem is a line item owned by one Request. Quantity is signed:
// negative means stock OUT, positive means stock IN / procured.
type RequestItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"request_id"`
	InventoryItemID *uuid.UUID      `gorm:"type:uuid;index" json:"inventory_item_id"`
	ItemName        string          `gorm:"type:varchar(255);not null" json:"item_name"`
	Quantity        int             `gorm:"type:int;not null" json:"quantity"`
	Unit            string          `gorm:"type:varchar(50);not null" json:"unit"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_price"`
	Specifications  string          `gorm:"type:text" json:"specifications"`
}

// ApprovalStatus constants
const (
	ApprovalPending  = "PENDING"
	ApprovalApproved = "APPROVED"
	ApprovalRejected = "REJECTED"
)

// Approval action constants
const (
	ActionApprove = "APPROVE"
	ActionReject  = "REJECT"
)

// Role names recognized by the approval engine. RoleOwner bypasses
// per-level role matching.
const (
	RoleBendahara  = "BENDAHARA"
	RoleSekretaris = "SEKRETARIS"
	RoleKetua      = "KETUA"
	RoleOwner      = "owner"
)

// Approval is one required sign-off within a Request's chain. Levels per
// request form a contiguous ascending sequence; level k+1 may only be
// resolved once level k is APPROVED.
type Approval struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"request_id"`
	Request        *Request   `gorm:"foreignKey:RequestID" json:"request,omitempty"`
	ApprovalLevel  int        `gorm:"type:int;not null" json:"approval_level"`
	RoleName       string     `gorm:"type:varchar(50);not null;index" json:"role_name"`
	ApproverUserID *uuid.UUID `gorm:"type:uuid" json:"approver_user_id"` // nullable until acted on
	Approver       *User      `gorm:"foreignKey:ApproverUserID" json:"approver,omitempty"`
	Status         string     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Comments       string     `gorm:"type:text" json:"comments"`
	TimeoutAt      *time.Time `json:"timeout_at"` // stamped at creation, not enforced
	ApprovedAt     *time.Time `json:"approved_at"`
	CreatedAt      time.Time  `json:"created_at"`
}
