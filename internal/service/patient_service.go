package service

import (
	"context"
	"fmt"
	"time"

	"yayasan-backend/internal/model"
	"yayasan-backend/internal/repository"

	"github.com/google/uuid"
)

type CreatePatientRequest struct {
	Name             string `json:"name" binding:"required"`
	BirthDate        string `json:"birthDate" binding:"required"`
	Gender           string `json:"gender" binding:"required,oneof=MALE FEMALE OTHER"`
	Address          string `json:"address"`
	Phone            string `json:"phone"`
	EmergencyContact string `json:"emergencyContact"`
	EmergencyPhone   string `json:"emergencyPhone"`
	MedicalNotes     string `json:"medicalNotes"`
}

type PatientService interface {
	Create(ctx context.Context, userID string, req CreatePatientRequest) (*model.Patient, error)
	List(ctx context.Context, search string) ([]model.Patient, error)
}

type patientService struct {
	patientRepo repository.PatientRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewPatientService(
	patientRepo repository.PatientRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) PatientService {
	return &patientService{
		patientRepo: patientRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

func (s *patientService) Create(ctx context.Context, userID string, req CreatePatientRequest) (*model.Patient, error) {
	creatorID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid birth date, expected YYYY-MM-DD", ErrValidation)
	}
	if birthDate.After(time.Now()) {
		return nil, fmt.Errorf("%w: birth date cannot be in the future", ErrValidation)
	}

	patient := &model.Patient{
		Name:             req.Name,
		BirthDate:        birthDate,
		Gender:           req.Gender,
		Address:          req.Address,
		Phone:            req.Phone,
		EmergencyContact: req.EmergencyContact,
		EmergencyPhone:   req.EmergencyPhone,
		MedicalNotes:     req.MedicalNotes,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		code, codeErr := s.patientRepo.NextCode(txCtx)
		if codeErr != nil {
			return fmt.Errorf("failed to generate patient code: %w", codeErr)
		}
		patient.PatientCode = code

		if createErr := s.patientRepo.Create(txCtx, patient); createErr != nil {
			return fmt.Errorf("failed to register patient: %w", createErr)
		}

		logAudit(txCtx, s.auditRepo, &model.AuditLog{
			UserID:       &creatorID,
			Action:       model.AuditActionCreate,
			ResourceType: model.ResourcePatient,
			ResourceID:   patient.ID.String(),
			Description:  fmt.Sprintf("Patient %s registered", patient.PatientCode),
			Severity:     model.SeverityInfo,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return patient, nil
}

func (s *patientService) List(ctx context.Context, search string) ([]model.Patient, error) {
	patients, err := s.patientRepo.List(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patients: %w", err)
	}
	if patients == nil {
		patients = []model.Patient{}
	}
	return patients, nil
}
