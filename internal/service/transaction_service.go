package service

import (
	"context"
	"fmt"

	"yayasan-backend/internal/model"
	"yayasan-backend/internal/repository"
)

type TransactionService interface {
	List(ctx context.Context, filter repository.TransactionFilter) ([]model.Transaction, error)
	ListCategories(ctx context.Context, categoryType string) ([]model.TransactionCategory, error)
}

type transactionService struct {
	transactionRepo repository.TransactionRepository
	categoryRepo    repository.CategoryRepository
}

func NewTransactionService(
	transactionRepo repository.TransactionRepository,
	categoryRepo repository.CategoryRepository,
) TransactionService {
	return &transactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
	}
}

// List returns ledger entries. Transactions are created only by the
// settlement engine, so there is no create path here.
func (s *transactionService) List(ctx context.Context, filter repository.TransactionFilter) ([]model.Transaction, error) {
	if filter.Type != "" {
		switch filter.Type {
		case model.TxTypeCapitalInjection, model.TxTypeRevenue, model.TxTypeExpense:
		default:
			return nil, fmt.Errorf("%w: invalid transaction type", ErrValidation)
		}
	}

	transactions, err := s.transactionRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	if transactions == nil {
		transactions = []model.Transaction{}
	}
	return transactions, nil
}

func (s *transactionService) ListCategories(ctx context.Context, categoryType string) ([]model.TransactionCategory, error) {
	var categories []model.TransactionCategory
	var err error
	if categoryType != "" {
		categories, err = s.categoryRepo.ListByType(ctx, categoryType)
	} else {
		categories, err = s.categoryRepo.ListActive(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	if categories == nil {
		categories = []model.TransactionCategory{}
	}
	return categories, nil
}
