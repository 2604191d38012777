package repository

import (
	"context"

	"yayasan-backend/internal/model"

	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	List(ctx context.Context, search string) ([]model.Patient, error)
	NextCode(ctx context.Context) (string, error)
}

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	return GetDB(ctx, r.db).Create(patient).Error
}

func (r *patientRepository) List(ctx context.Context, search string) ([]model.Patient, error) {
	db := GetDB(ctx, r.db).Model(&model.Patient{})
	if search != "" {
		like := "%" + search + "%"
		db = db.Where("name ILIKE ? OR patient_code ILIKE ? OR phone ILIKE ?", like, like, like)
	}

	var patients []model.Patient
	if err := db.Order("created_at DESC").Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *patientRepository) NextCode(ctx context.Context) (string, error) {
	return nextDailyCode(GetDB(ctx, r.db), &model.Patient{}, "patient_code", "PAT")
}
