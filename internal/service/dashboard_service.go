package service

import (
	"context"
	"fmt"

	"yayasan-backend/internal/repository"
)

// ExpenseChartResponse feeds the expense breakdown chart: totals per
// bucket plus the list of months that have expense data.
type ExpenseChartResponse struct {
	GroupBy string                    `json:"groupBy"`
	Data    []repository.ExpenseTotal `json:"data"`
	Months  []string                  `json:"months"`
}

type DashboardService interface {
	ExpenseChart(ctx context.Context, groupBy, month, category string) (*ExpenseChartResponse, error)
}

type dashboardService struct {
	transactionRepo repository.TransactionRepository
}

func NewDashboardService(transactionRepo repository.TransactionRepository) DashboardService {
	return &dashboardService{transactionRepo: transactionRepo}
}

func (s *dashboardService) ExpenseChart(ctx context.Context, groupBy, month, category string) (*ExpenseChartResponse, error) {
	if groupBy == "" {
		groupBy = "category"
	}

	var data []repository.ExpenseTotal
	var err error
	switch groupBy {
	case "category":
		data, err = s.transactionRepo.ExpenseTotalsByCategory(ctx, month, category)
	case "month":
		data, err = s.transactionRepo.ExpenseTotalsByMonth(ctx, category)
	default:
		return nil, fmt.Errorf("%w: groupBy must be category or month", ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate expenses: %w", err)
	}

	months, err := s.transactionRepo.ExpenseMonths(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense months: %w", err)
	}

	if data == nil {
		data = []repository.ExpenseTotal{}
	}
	if months == nil {
		months = []string{}
	}
	return &ExpenseChartResponse{GroupBy: groupBy, Data: data, Months: months}, nil
}
