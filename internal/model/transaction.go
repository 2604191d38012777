package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType enum constants
const (
	TxTypeCapitalInjection = "CAPITAL_INJECTION"
	TxTypeRevenue          = "REVENUE"
	TxTypeExpense          = "EXPENSE"
)

// TransactionCategory is read-mostly reference data (FOOD, MEDICAL_SUPPLIES,
// SALARIES, OPERATIONAL, UTILITIES...).
type TransactionCategory struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Type        string    `gorm:"type:varchar(20);not null" json:"type"` // REVENUE, EXPENSE
	Code        string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
}

// Transaction is an append-only ledger entry, created by settlement or
// direct bookkeeping.
type Transaction struct {
	ID              uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TransactionCode string               `gorm:"type:varchar(50);uniqueIndex;not null" json:"transaction_code"` // TRX-YYYYMMDD-NNN
	TransactionType string               `gorm:"type:varchar(30);not null;index" json:"transaction_type"`
	CategoryID      *uuid.UUID           `gorm:"type:uuid;index" json:"category_id"` // nullable for capital injections
	Category        *TransactionCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Amount          decimal.Decimal      `gorm:"type:decimal(15,2);not null" json:"amount"`
	TransactionDate time.Time            `gorm:"type:date;not null" json:"transaction_date"`
	ReferenceType   string               `gorm:"type:varchar(30)" json:"reference_type"` // REQUEST, ...
	ReferenceID     *uuid.UUID           `gorm:"type:uuid;index" json:"reference_id"`
	Description     string               `gorm:"type:text" json:"description"`
	CreatedByUserID uuid.UUID            `gorm:"type:uuid;not null" json:"created_by_user_id"`
	Creator         *User                `gorm:"foreignKey:CreatedByUserID" json:"creator,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}
