package repository

import (
	"context"

	"yayasan-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryFilter narrows inventory catalog listings.
type InventoryFilter struct {
	Category string
	IsActive *bool
	LowStock bool
	Search   string
}

// CategoryStat aggregates active stock per category.
type CategoryStat struct {
	Category   string `json:"category"`
	Count      int    `json:"count"`
	TotalValue string `json:"total_value"`
}

type InventoryRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	Update(ctx context.Context, item *model.InventoryItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error)
	FindByItemCode(ctx context.Context, code string) (*model.InventoryItem, error)
	List(ctx context.Context, filter InventoryFilter) ([]model.InventoryItem, error)
	CategoryStats(ctx context.Context) ([]CategoryStat, error)
	CountLowStock(ctx context.Context) (int64, error)
	CreateMovement(ctx context.Context, movement *model.InventoryMovement) error
	NextItemCode(ctx context.Context) (string, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *model.InventoryItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *inventoryRepository) Update(ctx context.Context, item *model.InventoryItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *inventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDForUpdate locks the row for the remainder of the transaction so
// concurrent settlements cannot interleave stock/cost updates.
func (r *inventoryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) FindByItemCode(ctx context.Context, code string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := GetDB(ctx, r.db).Where("item_code = ?", code).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) List(ctx context.Context, filter InventoryFilter) ([]model.InventoryItem, error) {
	db := GetDB(ctx, r.db).Model(&model.InventoryItem{})

	if filter.Category != "" && filter.Category != "all" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if filter.LowStock {
		db = db.Where("quantity_on_hand < minimum_stock")
	}
	if filter.Search != "" {
		db = db.Where("item_code ILIKE ? OR name ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	var items []model.InventoryItem
	if err := db.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	var stats []CategoryStat
	err := GetDB(ctx, r.db).Model(&model.InventoryItem{}).
		Select("category, COUNT(*)::int AS count, COALESCE(CAST(SUM(quantity_on_hand * average_unit_cost) AS TEXT), '0') AS total_value").
		Where("is_active = ?", true).
		Group("category").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *inventoryRepository) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.InventoryItem{}).
		Where("is_active = ? AND quantity_on_hand < minimum_stock", true).
		Count(&count).Error
	return count, err
}

func (r *inventoryRepository) CreateMovement(ctx context.Context, movement *model.InventoryMovement) error {
	return GetDB(ctx, r.db).Create(movement).Error
}

func (r *inventoryRepository) NextItemCode(ctx context.Context) (string, error) {
	return nextDailyCode(GetDB(ctx, r.db), &model.InventoryItem{}, "item_code", "INV")
}
