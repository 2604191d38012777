package service

import (
	"context"
	"fmt"
	"log"

	"yayasan-backend/internal/model"
	"yayasan-backend/internal/repository"
)

// logAudit writes one entry to the audit sink. The sink is fire-and-forget:
// a write failure is logged and never aborts the operation it records.
func logAudit(ctx context.Context, repo repository.AuditRepository, entry *model.AuditLog) {
	if err := repo.Log(ctx, entry); err != nil {
		log.Printf("WARNING: failed to write audit log: %v", err)
	}
}

type AuditService interface {
	List(ctx context.Context, filter repository.AuditFilter, page, limit int) ([]model.AuditLog, int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) List(ctx context.Context, filter repository.AuditFilter, page, limit int) ([]model.AuditLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	logs, total, err := s.auditRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, total, nil
}
