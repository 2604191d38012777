package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RoomType constants
const (
	RoomTypeVIP      = "VIP"
	RoomTypeStandard = "STANDARD"
	RoomTypeICU      = "ICU"
)

// RoomStatus constants
const (
	RoomAvailable   = "AVAILABLE"
	RoomOccupied    = "OCCUPIED"
	RoomMaintenance = "MAINTENANCE"
)

// Room is a bookable unit with a nightly base rate.
type Room struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RoomNumber  string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"room_number"`
	RoomType    string          `gorm:"type:varchar(20);not null" json:"room_type"`
	Capacity    int             `gorm:"type:int;not null;default:1" json:"capacity"`
	BaseRate    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"base_rate"`
	Status      string          `gorm:"type:varchar(20);not null;default:'AVAILABLE'" json:"status"`
	Description string          `gorm:"type:text" json:"description"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
	Facilities  []Facility      `gorm:"many2many:room_facilities;" json:"facilities"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Facility is an add-on (AC, TV, oxygen...) with an additional price.
type Facility struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name            string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	AdditionalPrice decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"additional_price"`
	Description     string          `gorm:"type:text" json:"description"`
	IsActive        bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
}
