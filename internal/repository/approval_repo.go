package repository

import (
	"context"

	"yayasan-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApprovalRepository interface {
	CreateBatch(ctx context.Context, approvals []model.Approval) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Approval, error)
	Update(ctx context.Context, appr *model.Approval) error
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]model.Approval, error)
	FindByRequestAndLevel(ctx context.Context, requestID uuid.UUID, level int) (*model.Approval, error)
	ListPendingByRole(ctx context.Context, roleName string) ([]model.Approval, error)
	ListApprovedLevel1RequestIDs(ctx context.Context, requestIDs []uuid.UUID) ([]uuid.UUID, error)
	ListPendingDetailed(ctx context.Context, roleName string, level *int, requestIDs []uuid.UUID) ([]model.Approval, error)
}

type approvalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) ApprovalRepository {
	return &approvalRepository{db: db}
}

func (r *approvalRepository) CreateBatch(ctx context.Context, approvals []model.Approval) error {
	if len(approvals) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&approvals).Error
}

func (r *approvalRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Approval, error) {
	var appr model.Approval
	if err := GetDB(ctx, r.db).First(&appr, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &appr, nil
}

func (r *approvalRepository) Update(ctx context.Context, appr *model.Approval) error {
	return GetDB(ctx, r.db).Save(appr).Error
}

func (r *approvalRepository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]model.Approval, error) {
	var approvals []model.Approval
	err := GetDB(ctx, r.db).
		Where("request_id = ?", requestID).
		Order("approval_level ASC").
		Find(&approvals).Error
	if err != nil {
		return nil, err
	}
	return approvals, nil
}

func (r *approvalRepository) FindByRequestAndLevel(ctx context.Context, requestID uuid.UUID, level int) (*model.Approval, error) {
	var appr model.Approval
	err := GetDB(ctx, r.db).
		Where("request_id = ? AND approval_level = ?", requestID, level).
		First(&appr).Error
	if err != nil {
		return nil, err
	}
	return &appr, nil
}

func (r *approvalRepository) ListPendingByRole(ctx context.Context, roleName string) ([]model.Approval, error) {
	var approvals []model.Approval
	err := GetDB(ctx, r.db).
		Where("role_name = ? AND status = ?", roleName, model.ApprovalPending).
		Find(&approvals).Error
	if err != nil {
		return nil, err
	}
	return approvals, nil
}

// ListApprovedLevel1RequestIDs returns, out of the given request ids, those
// whose level-1 approval is already APPROVED.
func (r *approvalRepository) ListApprovedLevel1RequestIDs(ctx context.Context, requestIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	err := GetDB(ctx, r.db).Model(&model.Approval{}).
		Where("request_id IN ? AND approval_level = ? AND status = ?", requestIDs, 1, model.ApprovalApproved).
		Pluck("request_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListPendingDetailed fetches pending approvals for a role with the parent
// request, its category and requester preloaded. level and requestIDs
// narrow the result when non-nil/non-empty.
func (r *approvalRepository) ListPendingDetailed(ctx context.Context, roleName string, level *int, requestIDs []uuid.UUID) ([]model.Approval, error) {
	query := GetDB(ctx, r.db).
		Preload("Request").
		Preload("Request.ExpenseCategory").
		Preload("Request.Requester").
		Where("role_name = ? AND status = ?", roleName, model.ApprovalPending)

	if level != nil {
		query = query.Where("approval_level = ?", *level)
	}
	if len(requestIDs) > 0 {
		query = query.Where("request_id IN ?", requestIDs)
	}

	var approvals []model.Approval
	if err := query.Order("created_at ASC").Find(&approvals).Error; err != nil {
		return nil, err
	}
	return approvals, nil
}
