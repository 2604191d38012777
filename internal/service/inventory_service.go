package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yayasan-backend/internal/model"
	"yayasan-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateInventoryItemRequest struct {
	Name            string  `json:"name" binding:"required"`
	Category        string  `json:"category" binding:"required"`
	Unit            string  `json:"unit" binding:"required"`
	QuantityOnHand  int     `json:"quantityOnHand"`
	MinimumStock    int     `json:"minimumStock"`
	AverageUnitCost string  `json:"averageUnitCost"`
	Description     *string `json:"description"`
}

type UpdateInventoryItemRequest struct {
	Name         *string `json:"name"`
	Category     *string `json:"category"`
	Unit         *string `json:"unit"`
	MinimumStock *int    `json:"minimumStock"`
	Description  *string `json:"description"`
	IsActive     *bool   `json:"isActive"`
}

type InventoryStatsResponse struct {
	Categories    []repository.CategoryStat `json:"categories"`
	LowStockCount int64                     `json:"lowStockCount"`
}

type InventoryService interface {
	Create(ctx context.Context, userID string, req CreateInventoryItemRequest) (*model.InventoryItem, error)
	Update(ctx context.Context, itemID string, req UpdateInventoryItemRequest) (*model.InventoryItem, error)
	Get(ctx context.Context, itemID string) (*model.InventoryItem, error)
	List(ctx context.Context, filter repository.InventoryFilter) ([]model.InventoryItem, error)
	Stats(ctx context.Context) (*InventoryStatsResponse, error)
}

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
}

func NewInventoryService(
	inventoryRepo repository.InventoryRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
	}
}

// Create registers a catalog item directly, outside the request workflow.
// Non-zero opening stock is recorded as an ADJUSTMENT movement so the
// movement log stays consistent with quantity on hand.
func (s *inventoryService) Create(ctx context.Context, userID string, req CreateInventoryItemRequest) (*model.InventoryItem, error) {
	creatorID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	avgCost := decimal.Zero
	if req.AverageUnitCost != "" {
		avgCost, err = decimal.NewFromString(req.AverageUnitCost)
		if err != nil || avgCost.IsNegative() {
			return nil, fmt.Errorf("%w: invalid average unit cost", ErrValidation)
		}
	}
	if req.QuantityOnHand < 0 {
		return nil, fmt.Errorf("%w: opening quantity cannot be negative", ErrValidation)
	}
	if req.MinimumStock < 0 {
		return nil, fmt.Errorf("%w: minimum stock cannot be negative", ErrValidation)
	}

	item := &model.InventoryItem{
		Name:            req.Name,
		Category:        req.Category,
		Unit:            req.Unit,
		QuantityOnHand:  req.QuantityOnHand,
		MinimumStock:    req.MinimumStock,
		AverageUnitCost: avgCost,
		IsActive:        true,
	}
	if req.Description != nil {
		item.Description = *req.Description
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		code, codeErr := s.inventoryRepo.NextItemCode(txCtx)
		if codeErr != nil {
			return fmt.Errorf("failed to generate item code: %w", codeErr)
		}
		item.ItemCode = code

		if createErr := s.inventoryRepo.Create(txCtx, item); createErr != nil {
			return fmt.Errorf("failed to create inventory item: %w", createErr)
		}

		if req.QuantityOnHand > 0 {
			cost := avgCost
			movement := &model.InventoryMovement{
				InventoryItemID:   item.ID,
				MovementType:      model.MovementAdjustment,
				Quantity:          req.QuantityOnHand,
				UnitCost:          &cost,
				PerformedByUserID: creatorID,
				Notes:             "Opening stock",
				MovementDate:      time.Now(),
			}
			if mvErr := s.inventoryRepo.CreateMovement(txCtx, movement); mvErr != nil {
				return fmt.Errorf("failed to record opening stock: %w", mvErr)
			}
		}

		logAudit(txCtx, s.auditRepo, &model.AuditLog{
			UserID:       &creatorID,
			Action:       model.AuditActionCreate,
			ResourceType: model.ResourceInventory,
			ResourceID:   item.ID.String(),
			Description:  fmt.Sprintf("Inventory item %s (%s) created", item.Name, item.ItemCode),
			Severity:     model.SeverityInfo,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (s *inventoryService) Update(ctx context.Context, itemID string, req UpdateInventoryItemRequest) (*model.InventoryItem, error) {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid item id", ErrValidation)
	}

	item, err := s.inventoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: inventory item not found", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load inventory item: %w", err)
	}

	// Quantity and average cost are owned by the settlement engine and
	// cannot be edited here.
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.MinimumStock != nil {
		if *req.MinimumStock < 0 {
			return nil, fmt.Errorf("%w: minimum stock cannot be negative", ErrValidation)
		}
		item.MinimumStock = *req.MinimumStock
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := s.inventoryRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}
	return item, nil
}

func (s *inventoryService) Get(ctx context.Context, itemID string) (*model.InventoryItem, error) {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid item id", ErrValidation)
	}
	item, err := s.inventoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: inventory item not found", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load inventory item: %w", err)
	}
	return item, nil
}

func (s *inventoryService) List(ctx context.Context, filter repository.InventoryFilter) ([]model.InventoryItem, error) {
	items, err := s.inventoryRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory: %w", err)
	}
	if items == nil {
		items = []model.InventoryItem{}
	}
	return items, nil
}

func (s *inventoryService) Stats(ctx context.Context) (*InventoryStatsResponse, error) {
	categories, err := s.inventoryRepo.CategoryStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}
	lowStock, err := s.inventoryRepo.CountLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count low stock: %w", err)
	}
	if categories == nil {
		categories = []repository.CategoryStat{}
	}
	return &InventoryStatsResponse{Categories: categories, LowStockCount: lowStock}, nil
}
