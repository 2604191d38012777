package model

import (
	"time"

	"github.com/google/uuid"
)

// Gender constants
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

// Patient holds the registration record for one patient.
type Patient struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PatientCode      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"patient_code"` // PAT-YYYYMMDD-NNN
	Name             string    `gorm:"type:varchar(255);not null" json:"name"`
	BirthDate        time.Time `gorm:"type:date;not null" json:"birth_date"`
	Gender           string    `gorm:"type:varchar(10);not null" json:"gender"`
	Address          string    `gorm:"type:text" json:"address"`
	Phone            string    `gorm:"type:varchar(30)" json:"phone"`
	EmergencyContact string    `gorm:"type:varchar(255)" json:"emergency_contact"`
	EmergencyPhone   string    `gorm:"type:varchar(30)" json:"emergency_phone"`
	MedicalNotes     string    `gorm:"type:text" json:"medical_notes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
