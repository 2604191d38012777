package repository

import (
	"context"

	"yayasan-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestRepository interface {
	Create(ctx context.Context, req *model.Request) error
	CreateItems(ctx context.Context, items []model.RequestItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Request, error)
	ListItems(ctx context.Context, requestID uuid.UUID) ([]model.RequestItem, error)
	ListItemsForRequests(ctx context.Context, requestIDs []uuid.UUID) ([]model.RequestItem, error)
	ListByRequester(ctx context.Context, userID uuid.UUID) ([]model.Request, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	NextCode(ctx context.Context) (string, error)
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, req *model.Request) error {
	return GetDB(ctx, r.db).Omit("Items", "Approvals").Create(req).Error
}

func (r *requestRepository) CreateItems(ctx context.Context, items []model.RequestItem) error {
	if len(items) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&items).Error
}

func (r *requestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Request, error) {
	var req model.Request
	if err := GetDB(ctx, r.db).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) ListItems(ctx context.Context, requestID uuid.UUID) ([]model.RequestItem, error) {
	var items []model.RequestItem
	if err := GetDB(ctx, r.db).Where("request_id = ?", requestID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *requestRepository) ListItemsForRequests(ctx context.Context, requestIDs []uuid.UUID) ([]model.RequestItem, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}
	var items []model.RequestItem
	if err := GetDB(ctx, r.db).Where("request_id IN ?", requestIDs).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *requestRepository) ListByRequester(ctx context.Context, userID uuid.UUID) ([]model.Request, error) {
	var requests []model.Request
	err := GetDB(ctx, r.db).
		Preload("ExpenseCategory").
		Preload("Requester").
		Preload("Items").
		Preload("Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("approval_level ASC")
		}).
		Preload("Approvals.Approver").
		Where("requester_user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.Request{}).Where("id = ?", id).Update("status", status).Error
}

func (r *requestRepository) NextCode(ctx context.Context) (string, error) {
	return nextDailyCode(GetDB(ctx, r.db), &model.Request{}, "request_code", "REQ")
}
