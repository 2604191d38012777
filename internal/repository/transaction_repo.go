package repository

import (
	"context"
	"time"

	"yayasan-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionFilter narrows ledger listings.
type TransactionFilter struct {
	Type       string
	CategoryID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	Search     string
}

// ExpenseTotal is one aggregation bucket for the dashboard chart.
type ExpenseTotal struct {
	Bucket string `json:"bucket"` // category name or YYYY-MM
	Total  string `json:"total"`
}

type TransactionRepository interface {
	Create(ctx context.Context, trx *model.Transaction) error
	List(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	NextCode(ctx context.Context) (string, error)
	ExpenseTotalsByCategory(ctx context.Context, month, category string) ([]ExpenseTotal, error)
	ExpenseTotalsByMonth(ctx context.Context, category string) ([]ExpenseTotal, error)
	ExpenseMonths(ctx context.Context) ([]string, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, trx *model.Transaction) error {
	return GetDB(ctx, r.db).Create(trx).Error
}

func (r *transactionRepository) List(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error) {
	db := GetDB(ctx, r.db).Model(&model.Transaction{}).
		Preload("Category").
		Preload("Creator")

	if filter.Type != "" {
		db = db.Where("transaction_type = ?", filter.Type)
	}
	if filter.CategoryID != nil {
		db = db.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.StartDate != nil {
		db = db.Where("transaction_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		db = db.Where("transaction_date <= ?", *filter.EndDate)
	}
	if filter.Search != "" {
		db = db.Where("transaction_code ILIKE ? OR description ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	var transactions []model.Transaction
	err := db.Order("transaction_date DESC, created_at DESC").Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *transactionRepository) NextCode(ctx context.Context) (string, error) {
	return nextDailyCode(GetDB(ctx, r.db), &model.Transaction{}, "transaction_code", "TRX")
}

func (r *transactionRepository) ExpenseTotalsByCategory(ctx context.Context, month, category string) ([]ExpenseTotal, error) {
	db := r.expenseBase(ctx, month, category)

	var totals []ExpenseTotal
	err := db.
		Select("COALESCE(transaction_categories.name, 'UNCATEGORIZED') AS bucket, CAST(SUM(transactions.amount) AS TEXT) AS total").
		Group("transaction_categories.name").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *transactionRepository) ExpenseTotalsByMonth(ctx context.Context, category string) ([]ExpenseTotal, error) {
	db := r.expenseBase(ctx, "", category)

	var totals []ExpenseTotal
	err := db.
		Select("TO_CHAR(transactions.transaction_date, 'YYYY-MM') AS bucket, CAST(SUM(transactions.amount) AS TEXT) AS total").
		Group("TO_CHAR(transactions.transaction_date, 'YYYY-MM')").
		Order("bucket ASC").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *transactionRepository) ExpenseMonths(ctx context.Context) ([]string, error) {
	var months []string
	err := GetDB(ctx, r.db).Model(&model.Transaction{}).
		Where("transaction_type = ?", model.TxTypeExpense).
		Select("TO_CHAR(transaction_date, 'YYYY-MM')").
		Group("TO_CHAR(transaction_date, 'YYYY-MM')").
		Order("TO_CHAR(transaction_date, 'YYYY-MM') DESC").
		Pluck("TO_CHAR(transaction_date, 'YYYY-MM')", &months).Error
	if err != nil {
		return nil, err
	}
	return months, nil
}

func (r *transactionRepository) expenseBase(ctx context.Context, month, category string) *gorm.DB {
	db := GetDB(ctx, r.db).Model(&model.Transaction{}).
		Joins("LEFT JOIN transaction_categories ON transaction_categories.id = transactions.category_id").
		Where("transactions.transaction_type = ?", model.TxTypeExpense)

	if month != "" {
		db = db.Where("TO_CHAR(transactions.transaction_date, 'YYYY-MM') = ?", month)
	}
	if category != "" {
		db = db.Where("transaction_categories.name = ?", category)
	}
	return db
}
