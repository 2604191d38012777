package service

import (
	"context"
	"fmt"

	"yayasan-backend/internal/model"
	"yayasan-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateRoomRequest struct {
	RoomNumber  string `json:"roomNumber" binding:"required"`
	RoomType    string `json:"roomType" binding:"required,oneof=VIP STANDARD ICU"`
	Capacity    int    `json:"capacity"`
	BaseRate    string `json:"baseRate" binding:"required"`
	Description string `json:"description"`
}

type RoomStatsResponse struct {
	ByStatus []repository.RoomStatusStat `json:"byStatus"`
	Total    int                         `json:"total"`
}

type RoomService interface {
	Create(ctx context.Context, userID string, req CreateRoomRequest) (*model.Room, error)
	List(ctx context.Context, filter repository.RoomFilter) ([]model.Room, error)
	Stats(ctx context.Context) (*RoomStatsResponse, error)
}

type roomService struct {
	roomRepo  repository.RoomRepository
	auditRepo repository.AuditRepository
}

func NewRoomService(roomRepo repository.RoomRepository, auditRepo repository.AuditRepository) RoomService {
	return &roomService{roomRepo: roomRepo, auditRepo: auditRepo}
}

func (s *roomService) Create(ctx context.Context, userID string, req CreateRoomRequest) (*model.Room, error) {
	creatorID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	baseRate, err := decimal.NewFromString(req.BaseRate)
	if err != nil || baseRate.IsNegative() {
		return nil, fmt.Errorf("%w: invalid base rate", ErrValidation)
	}

	capacity := req.Capacity
	if capacity <= 0 {
		capacity = 1
	}

	room := &model.Room{
		RoomNumber:  req.RoomNumber,
		RoomType:    req.RoomType,
		Capacity:    capacity,
		BaseRate:    baseRate,
		Status:      model.RoomAvailable,
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	logAudit(ctx, s.auditRepo, &model.AuditLog{
		UserID:       &creatorID,
		Action:       model.AuditActionCreate,
		ResourceType: model.ResourceRoom,
		ResourceID:   room.ID.String(),
		Description:  fmt.Sprintf("Room %s (%s) created", room.RoomNumber, room.RoomType),
		Severity:     model.SeverityInfo,
	})

	return room, nil
}

func (s *roomService) List(ctx context.Context, filter repository.RoomFilter) ([]model.Room, error) {
	rooms, err := s.roomRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rooms: %w", err)
	}
	if rooms == nil {
		rooms = []model.Room{}
	}
	return rooms, nil
}

func (s *roomService) Stats(ctx context.Context) (*RoomStatsResponse, error) {
	stats, err := s.roomRepo.StatusStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate room statuses: %w", err)
	}
	total := 0
	for _, stat := range stats {
		total += stat.Count
	}
	if stats == nil {
		stats = []repository.RoomStatusStat{}
	}
	return &RoomStatsResponse{ByStatus: stats, Total: total}, nil
}
