package service

import (
	"context"

	"yayasan-backend/internal/model"
	"yayasan-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// passthroughTxManager runs the unit of work directly, without a database.
type passthroughTxManager struct{}

func (passthroughTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Create(ctx context.Context, req *model.Request) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRequestRepository) CreateItems(ctx context.Context, items []model.RequestItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Request), args.Error(1)
}

func (m *MockRequestRepository) ListItems(ctx context.Context, requestID uuid.UUID) ([]model.RequestItem, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RequestItem), args.Error(1)
}

func (m *MockRequestRepository) ListItemsForRequests(ctx context.Context, requestIDs []uuid.UUID) ([]model.RequestItem, error) {
	args := m.Called(ctx, requestIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RequestItem), args.Error(1)
}

func (m *MockRequestRepository) ListByRequester(ctx context.Context, userID uuid.UUID) ([]model.Request, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Request), args.Error(1)
}

func (m *MockRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockRequestRepository) NextCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockApprovalRepository struct {
	mock.Mock
}

func (m *MockApprovalRepository) CreateBatch(ctx context.Context, approvals []model.Approval) error {
	args := m.Called(ctx, approvals)
	return args.Error(0)
}

func (m *MockApprovalRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Approval, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Approval), args.Error(1)
}

func (m *MockApprovalRepository) Update(ctx context.Context, appr *model.Approval) error {
	args := m.Called(ctx, appr)
	return args.Error(0)
}

func (m *MockApprovalRepository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]model.Approval, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Approval), args.Error(1)
}

func (m *MockApprovalRepository) FindByRequestAndLevel(ctx context.Context, requestID uuid.UUID, level int) (*model.Approval, error) {
	args := m.Called(ctx, requestID, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Approval), args.Error(1)
}

func (m *MockApprovalRepository) ListPendingByRole(ctx context.Context, roleName string) ([]model.Approval, error) {
	args := m.Called(ctx, roleName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Approval), args.Error(1)
}

func (m *MockApprovalRepository) ListApprovedLevel1RequestIDs(ctx context.Context, requestIDs []uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, requestIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockApprovalRepository) ListPendingDetailed(ctx context.Context, roleName string, level *int, requestIDs []uuid.UUID) ([]model.Approval, error) {
	args := m.Called(ctx, roleName, level, requestIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Approval), args.Error(1)
}

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Create(ctx context.Context, item *model.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) Update(ctx context.Context, item *model.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) FindByItemCode(ctx context.Context, code string) (*model.InventoryItem, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) List(ctx context.Context, filter repository.InventoryFilter) ([]model.InventoryItem, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) CategoryStats(ctx context.Context) ([]repository.CategoryStat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CategoryStat), args.Error(1)
}

func (m *MockInventoryRepository) CountLowStock(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryRepository) CreateMovement(ctx context.Context, movement *model.InventoryMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockInventoryRepository) NextItemCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, trx *model.Transaction) error {
	args := m.Called(ctx, trx)
	return args.Error(0)
}

func (m *MockTransactionRepository) List(ctx context.Context, filter repository.TransactionFilter) ([]model.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) NextCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockTransactionRepository) ExpenseTotalsByCategory(ctx context.Context, month, category string) ([]repository.ExpenseTotal, error) {
	args := m.Called(ctx, month, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ExpenseTotal), args.Error(1)
}

func (m *MockTransactionRepository) ExpenseTotalsByMonth(ctx context.Context, category string) ([]repository.ExpenseTotal, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ExpenseTotal), args.Error(1)
}

func (m *MockTransactionRepository) ExpenseMonths(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) List(ctx context.Context, filter repository.AuditFilter, page, limit int) ([]model.AuditLog, int64, error) {
	args := m.Called(ctx, filter, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.AuditLog), args.Get(1).(int64), args.Error(2)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.TransactionCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TransactionCategory), args.Error(1)
}

func (m *MockCategoryRepository) ListActive(ctx context.Context) ([]model.TransactionCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TransactionCategory), args.Error(1)
}

func (m *MockCategoryRepository) ListByType(ctx context.Context, categoryType string) ([]model.TransactionCategory, error) {
	args := m.Called(ctx, categoryType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TransactionCategory), args.Error(1)
}
