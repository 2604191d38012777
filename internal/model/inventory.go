package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is a catalog entry with running stock level and
// weighted-average unit cost. Never deleted; deactivated instead.
type InventoryItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemCode        string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"item_code"` // INV-YYYYMMDD-NNN
	Name            string          `gorm:"type:varchar(255);not null" json:"name"`
	Category        string          `gorm:"type:varchar(100);not null;index" json:"category"` // MEDICAL_SUPPLIES, FOOD, GENERAL...
	Unit            string          `gorm:"type:varchar(50);not null" json:"unit"`            // pcs, box, kg, liter
	Description     string          `gorm:"type:text" json:"description"`
	QuantityOnHand  int             `gorm:"type:int;not null;default:0" json:"quantity_on_hand"`
	MinimumStock    int             `gorm:"type:int;not null;default:0" json:"minimum_stock"`
	AverageUnitCost decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"average_unit_cost"`
	IsActive        bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// MovementType enum constants
const (
	MovementIn         = "IN"
	MovementOut        = "OUT"
	MovementAdjustment = "ADJUSTMENT"
)

// Reference types linking movements/transactions back to their origin
const (
	RefTypeRequest = "REQUEST"
)

// InventoryMovement is an append-only stock ledger entry. Quantity keeps
// its sign: OUT movements store negative quantity.
type InventoryMovement struct {
	ID                uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InventoryItemID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"inventory_item_id"`
	InventoryItem     *InventoryItem   `gorm:"foreignKey:InventoryItemID" json:"inventory_item,omitempty"`
	MovementType      string           `gorm:"type:varchar(20);not null" json:"movement_type"` // IN, OUT, ADJUSTMENT
	Quantity          int              `gorm:"type:int;not null" json:"quantity"`
	UnitCost          *decimal.Decimal `gorm:"type:decimal(15,2)" json:"unit_cost"` // for IN movements
	ReferenceType     string           `gorm:"type:varchar(30)" json:"reference_type"`
	ReferenceID       *uuid.UUID       `gorm:"type:uuid;index" json:"reference_id"`
	PerformedByUserID uuid.UUID        `gorm:"type:uuid;not null" json:"performed_by_user_id"`
	Notes             string           `gorm:"type:text" json:"notes"`
	MovementDate      time.Time        `gorm:"not null" json:"movement_date"`
	CreatedAt         time.Time        `json:"created_at"`
}
