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

// approvalTimeout is stamped onto each seeded approval so queues can
// surface overdue sign-offs. Expiry itself is not enforced.
const approvalTimeout = 7 * 24 * time.Hour

type CreateRequestItem struct {
	InventoryItemID *string `json:"inventoryItemId"`
	ItemName        string  `json:"itemName" binding:"required"`
	Quantity        int     `json:"quantity" binding:"required"`
	Unit            string  `json:"unit" binding:"required"`
	UnitPrice       string  `json:"unitPrice" binding:"required"`
	Specifications  string  `json:"specifications"`
}

type CreateRequestRequest struct {
	RequestType        string  `json:"requestType" binding:"required,oneof=TRANSACTION INVENTORY PROCUREMENT"`
	TransactionSubtype *string `json:"transactionSubtype"`
	CategoryID         *string `json:"categoryId"`
	Amount             string  `json:"amount"`
	Description        string  `json:"description" binding:"required"`
	Justification      string  `json:"justification"`
	Priority           string  `json:"priority"`
	NeededByDate       *string `json:"neededByDate"`
	// INVENTORY requests: one stock movement against an existing item.
	InventoryItemID *string `json:"inventoryItemId"`
	MovementType    string  `json:"movementType"`
	Quantity        int     `json:"quantity"`
	// PROCUREMENT requests: the purchase lines.
	Items []CreateRequestItem `json:"items"`
}

type RequestService interface {
	Create(ctx context.Context, requesterID string, req CreateRequestRequest) (*model.Request, error)
	ListMine(ctx context.Context, requesterID string) ([]model.Request, error)
	Get(ctx context.Context, userID, role, requestID string) (*model.Request, error)
}

type requestService struct {
	requestRepo   repository.RequestRepository
	approvalRepo  repository.ApprovalRepository
	inventoryRepo repository.InventoryRepository
	categoryRepo  repository.CategoryRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
}

func NewRequestService(
	requestRepo repository.RequestRepository,
	approvalRepo repository.ApprovalRepository,
	inventoryRepo repository.InventoryRepository,
	categoryRepo repository.CategoryRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) RequestService {
	return &requestService{
		requestRepo:   requestRepo,
		approvalRepo:  approvalRepo,
		inventoryRepo: inventoryRepo,
		categoryRepo:  categoryRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
	}
}

// approvalChainFor returns the (level, role) sign-off sequence a request
// type requires. TRANSACTION money movements need the treasurer first and
// the chairperson second; stock and procurement need only the chairperson.
func approvalChainFor(requestType string) []model.Approval {
	switch requestType {
	case model.RequestTypeTransaction:
		return []model.Approval{
			{ApprovalLevel: 1, RoleName: model.RoleBendahara, Status: model.ApprovalPending},
			{ApprovalLevel: 2, RoleName: model.RoleKetua, Status: model.ApprovalPending},
		}
	case model.RequestTypeInventory, model.RequestTypeProcurement:
		return []model.Approval{
			{ApprovalLevel: 1, RoleName: model.RoleKetua, Status: model.ApprovalPending},
		}
	default:
		return nil
	}
}

func (s *requestService) Create(ctx context.Context, requesterID string, req CreateRequestRequest) (*model.Request, error) {
	userID, err := uuid.Parse(requesterID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	// Amount is optional; a submission without one books as zero (stock
	// movements in particular carry no monetary amount of their own).
	amount := decimal.Zero
	if req.Amount != "" {
		parsed, parseErr := decimal.NewFromString(req.Amount)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: invalid amount", ErrValidation)
		}
		if parsed.IsNegative() {
			return nil, fmt.Errorf("%w: amount cannot be negative", ErrValidation)
		}
		amount = parsed
	}

	if req.RequestType == model.RequestTypeTransaction && req.TransactionSubtype != nil {
		switch *req.TransactionSubtype {
		case model.SubtypeRevenue, model.SubtypeExpense, model.SubtypeCapitalInjection:
		default:
			return nil, fmt.Errorf("%w: invalid transaction subtype", ErrValidation)
		}
	}

	priority := req.Priority
	switch priority {
	case "":
		priority = model.PriorityMedium
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh, model.PriorityUrgent:
	default:
		return nil, fmt.Errorf("%w: invalid priority", ErrValidation)
	}

	var categoryID *uuid.UUID
	if req.CategoryID != nil && *req.CategoryID != "" {
		parsed, parseErr := uuid.Parse(*req.CategoryID)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: invalid category id", ErrValidation)
		}
		if _, catErr := s.categoryRepo.FindByID(ctx, parsed); catErr != nil {
			if errors.Is(catErr, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: category not found", ErrValidation)
			}
			return nil, fmt.Errorf("failed to load category: %w", catErr)
		}
		categoryID = &parsed
	}

	var neededBy *time.Time
	if req.NeededByDate != nil && *req.NeededByDate != "" {
		date, dateErr := time.Parse("2006-01-02", *req.NeededByDate)
		if dateErr != nil {
			return nil, fmt.Errorf("%w: invalid needed-by date, expected YYYY-MM-DD", ErrValidation)
		}
		neededBy = &date
	}

	var items []model.RequestItem
	switch req.RequestType {
	case model.RequestTypeInventory:
		items, err = s.buildInventoryItem(ctx, req)
		if err != nil {
			return nil, err
		}
	case model.RequestTypeProcurement:
		if len(req.Items) == 0 {
			return nil, fmt.Errorf("%w: PROCUREMENT requests require at least one item", ErrValidation)
		}
		items, err = buildProcurementItems(req.Items)
		if err != nil {
			return nil, err
		}
	}

	request := &model.Request{
		RequestType:        req.RequestType,
		TransactionSubtype: req.TransactionSubtype,
		RequesterUserID:    userID,
		ExpenseCategoryID:  categoryID,
		Amount:             amount,
		Description:        req.Description,
		Justification:      req.Justification,
		Status:             model.RequestPending,
		Priority:           priority,
		NeededByDate:       neededBy,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		code, codeErr := s.requestRepo.NextCode(txCtx)
		if codeErr != nil {
			return fmt.Errorf("failed to generate request code: %w", codeErr)
		}
		request.RequestCode = code

		if createErr := s.requestRepo.Create(txCtx, request); createErr != nil {
			return fmt.Errorf("failed to create request: %w", createErr)
		}

		for i := range items {
			items[i].RequestID = request.ID
		}
		if itemErr := s.requestRepo.CreateItems(txCtx, items); itemErr != nil {
			return fmt.Errorf("failed to create request items: %w", itemErr)
		}

		timeout := time.Now().Add(approvalTimeout)
		chain := approvalChainFor(request.RequestType)
		for i := range chain {
			chain[i].RequestID = request.ID
			t := timeout
			chain[i].TimeoutAt = &t
		}
		if chainErr := s.approvalRepo.CreateBatch(txCtx, chain); chainErr != nil {
			return fmt.Errorf("failed to seed approval chain: %w", chainErr)
		}

		logAudit(txCtx, s.auditRepo, &model.AuditLog{
			UserID:       &userID,
			Action:       model.AuditActionCreate,
			ResourceType: model.ResourceRequest,
			ResourceID:   request.ID.String(),
			Description:  fmt.Sprintf("Request %s (%s) submitted", request.RequestCode, request.RequestType),
			Severity:     model.SeverityInfo,
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	request.Items = items
	return request, nil
}

// buildInventoryItem synthesizes the single line item of an INVENTORY
// request from the referenced catalog entry: unit and unit price are
// snapshotted at submission time, and the stored quantity keeps a sign
// matching the movement direction.
func (s *requestService) buildInventoryItem(ctx context.Context, req CreateRequestRequest) ([]model.RequestItem, error) {
	if req.InventoryItemID == nil || *req.InventoryItemID == "" {
		return nil, fmt.Errorf("%w: inventoryItemId is required for INVENTORY requests", ErrValidation)
	}
	if req.MovementType != model.MovementIn && req.MovementType != model.MovementOut {
		return nil, fmt.Errorf("%w: movementType must be IN or OUT", ErrValidation)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	invID, err := uuid.Parse(*req.InventoryItemID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid inventory item id", ErrValidation)
	}

	item, err := s.inventoryRepo.FindByID(ctx, invID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: inventory item not found", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load inventory item: %w", err)
	}

	quantity := req.Quantity
	if req.MovementType == model.MovementOut {
		quantity = -quantity
	}

	unitPrice := item.AverageUnitCost
	return []model.RequestItem{
		{
			InventoryItemID: &invID,
			ItemName:        item.Name,
			Quantity:        quantity,
			Unit:            item.Unit,
			UnitPrice:       unitPrice,
			TotalPrice:      unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
			Specifications:  "Movement Type: " + req.MovementType,
		},
	}, nil
}

func buildProcurementItems(in []CreateRequestItem) ([]model.RequestItem, error) {
	items := make([]model.RequestItem, 0, len(in))
	for i, line := range in {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %d quantity must be positive", ErrValidation, i+1)
		}
		unitPrice, err := decimal.NewFromString(line.UnitPrice)
		if err != nil || unitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: item %d has an invalid unit price", ErrValidation, i+1)
		}

		item := model.RequestItem{
			ItemName:       line.ItemName,
			Quantity:       line.Quantity,
			Unit:           line.Unit,
			UnitPrice:      unitPrice,
			TotalPrice:     unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
			Specifications: line.Specifications,
		}
		if line.InventoryItemID != nil && *line.InventoryItemID != "" {
			invID, parseErr := uuid.Parse(*line.InventoryItemID)
			if parseErr != nil {
				return nil, fmt.Errorf("%w: item %d has an invalid inventory item id", ErrValidation, i+1)
			}
			item.InventoryItemID = &invID
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *requestService) ListMine(ctx context.Context, requesterID string) ([]model.Request, error) {
	userID, err := uuid.Parse(requesterID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}
	requests, err := s.requestRepo.ListByRequester(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requests: %w", err)
	}
	if requests == nil {
		requests = []model.Request{}
	}
	return requests, nil
}

// Get returns a single request. Requesters see their own submissions;
// approver roles and the owner see everything.
func (s *requestService) Get(ctx context.Context, userID, role, requestID string) (*model.Request, error) {
	id, err := uuid.Parse(requestID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid request id", ErrValidation)
	}

	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: request not found", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load request: %w", err)
	}

	privileged := role == model.RoleBendahara || role == model.RoleSekretaris ||
		role == model.RoleKetua || role == model.RoleOwner
	if !privileged && request.RequesterUserID.String() != userID {
		return nil, fmt.Errorf("%w: you do not have access to this request", ErrForbidden)
	}

	items, err := s.requestRepo.ListItems(ctx, request.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load request items: %w", err)
	}
	approvals, err := s.approvalRepo.ListByRequest(ctx, request.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load approvals: %w", err)
	}
	request.Items = items
	request.Approvals = approvals

	return request, nil
}
