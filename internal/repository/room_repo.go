package repository

import (
	"context"

	"yayasan-backend/internal/model"

	"gorm.io/gorm"
)

// RoomFilter narrows room listings.
type RoomFilter struct {
	RoomType string
	Status   string
	IsActive *bool
	Search   string
}

// RoomStatusStat counts active rooms per status.
type RoomStatusStat struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	List(ctx context.Context, filter RoomFilter) ([]model.Room, error)
	StatusStats(ctx context.Context) ([]RoomStatusStat, error)
}

type roomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *model.Room) error {
	return GetDB(ctx, r.db).Create(room).Error
}

func (r *roomRepository) List(ctx context.Context, filter RoomFilter) ([]model.Room, error) {
	db := GetDB(ctx, r.db).Model(&model.Room{}).Preload("Facilities")

	if filter.RoomType != "" && filter.RoomType != "all" {
		db = db.Where("room_type = ?", filter.RoomType)
	}
	if filter.Status != "" && filter.Status != "all" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		db = db.Where("room_number ILIKE ? OR description ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	var rooms []model.Room
	if err := db.Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepository) StatusStats(ctx context.Context) ([]RoomStatusStat, error) {
	var stats []RoomStatusStat
	err := GetDB(ctx, r.db).Model(&model.Room{}).
		Select("status, COUNT(*)::int AS count").
		Where("is_active = ?", true).
		Group("status").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
