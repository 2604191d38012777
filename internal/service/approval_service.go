package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"yayasan-backend/internal/model"
	"yayasan-backend/internal/repository"
	ws "yayasan-backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type DecideApprovalRequest struct {
	ApprovalID string `json:"approvalId" binding:"required"`
	Action     string `json:"action" binding:"required,oneof=APPROVE REJECT"`
	Comments   string `json:"comments"`
}

type ApprovalItemResponse struct {
	ID              string  `json:"id"`
	RequestID       string  `json:"requestId"`
	InventoryItemID *string `json:"inventoryItemId"`
	ItemName        string  `json:"itemName"`
	Quantity        int     `json:"quantity"`
	Unit            string  `json:"unit"`
	UnitPrice       string  `json:"unitPrice"`
	TotalPrice      string  `json:"totalPrice"`
	Specifications  string  `json:"specifications"`
}

// PendingApprovalResponse flattens an approval with its parent request,
// category, requester and line items for the approver's queue.
type PendingApprovalResponse struct {
	ApprovalID         string                 `json:"approvalId"`
	ApprovalLevel      int                    `json:"approvalLevel"`
	RoleName           string                 `json:"roleName"`
	ApprovalStatus     string                 `json:"approvalStatus"`
	Comments           string                 `json:"comments"`
	TimeoutAt          *string                `json:"timeoutAt"`
	CreatedAt          string                 `json:"createdAt"`
	RequestID          string                 `json:"requestId"`
	RequestCode        string                 `json:"requestCode"`
	RequestType        string                 `json:"requestType"`
	TransactionSubtype *string                `json:"transactionSubtype"`
	Amount             string                 `json:"amount"`
	Description        string                 `json:"description"`
	Justification      string                 `json:"justification"`
	RequestStatus      string                 `json:"requestStatus"`
	Priority           string                 `json:"priority"`
	NeededByDate       *string                `json:"neededByDate"`
	RequestCreatedAt   string                 `json:"requestCreatedAt"`
	CategoryName       string                 `json:"categoryName"`
	RequesterName      string                 `json:"requesterName"`
	RequesterEmail     string                 `json:"requesterEmail"`
	Items              []ApprovalItemResponse `json:"items"`
}

// --- Interface ---

type ApprovalService interface {
	ListPending(ctx context.Context, role string) ([]PendingApprovalResponse, error)
	Decide(ctx context.Context, userID, role string, req DecideApprovalRequest) (string, error)
}

type approvalService struct {
	approvalRepo    repository.ApprovalRepository
	requestRepo     repository.RequestRepository
	inventoryRepo   repository.InventoryRepository
	transactionRepo repository.TransactionRepository
	auditRepo       repository.AuditRepository
	txManager       repository.TransactionManager
	hub             *ws.Hub
}

func NewApprovalService(
	approvalRepo repository.ApprovalRepository,
	requestRepo repository.RequestRepository,
	inventoryRepo repository.InventoryRepository,
	transactionRepo repository.TransactionRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) ApprovalService {
	return &approvalService{
		approvalRepo:    approvalRepo,
		requestRepo:     requestRepo,
		inventoryRepo:   inventoryRepo,
		transactionRepo: transactionRepo,
		auditRepo:       auditRepo,
		txManager:       txManager,
		hub:             hub,
	}
}

// canAct reports whether a principal holding role may act on an approval
// requiring requiredRole. The owner super-role bypasses the match.
func canAct(role, requiredRole string) bool {
	return role == requiredRole || role == model.RoleOwner
}

// --- Read contract ---

func (s *approvalService) ListPending(ctx context.Context, role string) ([]PendingApprovalResponse, error) {
	var approvals []model.Approval
	var err error

	switch role {
	case model.RoleBendahara, model.RoleSekretaris:
		level := 1
		approvals, err = s.approvalRepo.ListPendingDetailed(ctx, role, &level, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch pending approvals: %w", err)
		}

	case model.RoleKetua, model.RoleOwner:
		// KETUA approvals sit at level 1 (INVENTORY/PROCUREMENT, no
		// prerequisite) or level 2 (TRANSACTION, gated on level 1).
		pending, listErr := s.approvalRepo.ListPendingByRole(ctx, model.RoleKetua)
		if listErr != nil {
			return nil, fmt.Errorf("failed to fetch pending approvals: %w", listErr)
		}

		var eligibleRequestIDs []uuid.UUID
		var level2RequestIDs []uuid.UUID
		for _, appr := range pending {
			if appr.ApprovalLevel == 1 {
				eligibleRequestIDs = append(eligibleRequestIDs, appr.RequestID)
			} else if appr.ApprovalLevel == 2 {
				level2RequestIDs = append(level2RequestIDs, appr.RequestID)
			}
		}

		if len(level2RequestIDs) > 0 {
			unlocked, unlockErr := s.approvalRepo.ListApprovedLevel1RequestIDs(ctx, level2RequestIDs)
			if unlockErr != nil {
				return nil, fmt.Errorf("failed to resolve level 1 states: %w", unlockErr)
			}
			eligibleRequestIDs = append(eligibleRequestIDs, unlocked...)
		}

		if len(eligibleRequestIDs) == 0 {
			return []PendingApprovalResponse{}, nil
		}

		approvals, err = s.approvalRepo.ListPendingDetailed(ctx, model.RoleKetua, nil, eligibleRequestIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch pending approvals: %w", err)
		}

	default:
		// Other roles have no approval duties.
		return []PendingApprovalResponse{}, nil
	}

	requestIDs := make([]uuid.UUID, 0, len(approvals))
	for _, appr := range approvals {
		requestIDs = append(requestIDs, appr.RequestID)
	}

	items, err := s.requestRepo.ListItemsForRequests(ctx, requestIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch request items: %w", err)
	}

	itemsByRequest := make(map[uuid.UUID][]model.RequestItem)
	for _, item := range items {
		itemsByRequest[item.RequestID] = append(itemsByRequest[item.RequestID], item)
	}

	result := make([]PendingApprovalResponse, 0, len(approvals))
	for _, appr := range approvals {
		result = append(result, toPendingResponse(appr, itemsByRequest[appr.RequestID]))
	}

	return result, nil
}

// --- Write contract ---

// Decide resolves one pending approval. The approval update, the request
// status transition and any settlement side effects run in a single
// database transaction: a settlement failure rolls everything back.
func (s *approvalService) Decide(ctx context.Context, userID, role string, req DecideApprovalRequest) (string, error) {
	approvalID, err := uuid.Parse(req.ApprovalID)
	if err != nil {
		return "", fmt.Errorf("%w: invalid approval id", ErrValidation)
	}

	approverID, err := uuid.Parse(userID)
	if err != nil {
		return "", fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	if req.Action != model.ActionApprove && req.Action != model.ActionReject {
		return "", fmt.Errorf("%w: invalid action", ErrValidation)
	}

	var finalStatus string
	var requestCode string
	var requestID uuid.UUID

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		appr, findErr := s.approvalRepo.FindByID(txCtx, approvalID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: approval not found", ErrNotFound)
			}
			return fmt.Errorf("failed to load approval: %w", findErr)
		}

		if !canAct(role, appr.RoleName) {
			return fmt.Errorf("%w: you do not have permission to approve this request", ErrForbidden)
		}

		if appr.Status != model.ApprovalPending {
			return fmt.Errorf("%w: this approval has already been processed", ErrAlreadyProcessed)
		}

		if appr.ApprovalLevel == 2 {
			level1, siblingErr := s.approvalRepo.FindByRequestAndLevel(txCtx, appr.RequestID, 1)
			if siblingErr != nil || level1.Status != model.ApprovalApproved {
				return ErrLevelIncomplete
			}
		}

		now := time.Now()
		if req.Action == model.ActionApprove {
			appr.Status = model.ApprovalApproved
		} else {
			appr.Status = model.ApprovalRejected
		}
		appr.ApproverUserID = &approverID
		appr.ApprovedAt = &now
		appr.Comments = req.Comments

		if saveErr := s.approvalRepo.Update(txCtx, appr); saveErr != nil {
			return fmt.Errorf("failed to update approval: %w", saveErr)
		}
		requestID = appr.RequestID

		if req.Action == model.ActionReject {
			// A single rejection is final for the whole request; no
			// settlement runs.
			request, reqErr := s.requestRepo.FindByID(txCtx, appr.RequestID)
			if reqErr != nil {
				return fmt.Errorf("request not found: %w", reqErr)
			}
			if updErr := s.requestRepo.UpdateStatus(txCtx, request.ID, model.RequestRejected); updErr != nil {
				return fmt.Errorf("failed to update request status: %w", updErr)
			}
			finalStatus = model.RequestRejected
			requestCode = request.RequestCode
			s.auditDecision(txCtx, appr, approverID, model.AuditActionReject, req.Comments)
			return nil
		}

		siblings, chainErr := s.approvalRepo.ListByRequest(txCtx, appr.RequestID)
		if chainErr != nil {
			return fmt.Errorf("failed to load approval chain: %w", chainErr)
		}

		allApproved := true
		for _, sibling := range siblings {
			if sibling.Status != model.ApprovalApproved {
				allApproved = false
				break
			}
		}

		if allApproved {
			request, reqErr := s.requestRepo.FindByID(txCtx, appr.RequestID)
			if reqErr != nil {
				return fmt.Errorf("request not found: %w", reqErr)
			}

			if updErr := s.requestRepo.UpdateStatus(txCtx, request.ID, model.RequestApproved); updErr != nil {
				return fmt.Errorf("failed to update request status: %w", updErr)
			}

			if settleErr := s.settle(txCtx, request, approverID); settleErr != nil {
				return fmt.Errorf("failed to settle request: %w", settleErr)
			}

			finalStatus = model.RequestApproved
			requestCode = request.RequestCode
		}

		s.auditDecision(txCtx, appr, approverID, model.AuditActionApprove, req.Comments)
		return nil
	})

	if err != nil {
		return "", err
	}

	if finalStatus != "" {
		s.broadcast("request_status_changed", map[string]interface{}{
			"request_id":   requestID.String(),
			"request_code": requestCode,
			"status":       finalStatus,
		})
	}

	if req.Action == model.ActionApprove {
		return "Request approved successfully", nil
	}
	return "Request rejected successfully", nil
}

// --- Settlement ---

// settle executes the post-approval business effects for a fully approved
// request. Runs inside the decision transaction; invoked exactly once per
// request because re-processing a resolved approval is rejected upstream.
func (s *approvalService) settle(ctx context.Context, request *model.Request, approverID uuid.UUID) error {
	switch request.RequestType {
	case model.RequestTypeTransaction:
		return s.settleTransaction(ctx, request, approverID)
	case model.RequestTypeInventory:
		return s.settleInventory(ctx, request, approverID)
	case model.RequestTypeProcurement:
		return s.settleProcurement(ctx, request, approverID)
	default:
		return fmt.Errorf("unknown request type: %s", request.RequestType)
	}
}

// ledgerTypeForSubtype maps a TRANSACTION request subtype to the ledger
// transaction type. Anything unrecognized, including nil, books as EXPENSE.
func ledgerTypeForSubtype(subtype *string) string {
	if subtype == nil {
		return model.TxTypeExpense
	}
	switch *subtype {
	case model.SubtypeRevenue:
		return model.TxTypeRevenue
	case model.SubtypeCapitalInjection:
		return model.TxTypeCapitalInjection
	default:
		return model.TxTypeExpense
	}
}

func (s *approvalService) settleTransaction(ctx context.Context, request *model.Request, approverID uuid.UUID) error {
	code, err := s.transactionRepo.NextCode(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate transaction code: %w", err)
	}

	requestID := request.ID
	trx := model.Transaction{
		TransactionCode: code,
		TransactionType: ledgerTypeForSubtype(request.TransactionSubtype),
		CategoryID:      request.ExpenseCategoryID,
		Amount:          request.Amount,
		TransactionDate: time.Now(),
		ReferenceType:   model.RefTypeRequest,
		ReferenceID:     &requestID,
		Description:     request.Description,
		CreatedByUserID: approverID,
	}

	if err := s.transactionRepo.Create(ctx, &trx); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (s *approvalService) settleInventory(ctx context.Context, request *model.Request, approverID uuid.UUID) error {
	items, err := s.requestRepo.ListItems(ctx, request.ID)
	if err != nil {
		return fmt.Errorf("failed to load request items: %w", err)
	}

	requestID := request.ID
	for _, item := range items {
		if item.InventoryItemID == nil {
			continue
		}

		movementType := model.MovementIn
		if item.Quantity < 0 {
			movementType = model.MovementOut
		}

		unitCost := item.UnitPrice
		movement := model.InventoryMovement{
			InventoryItemID:   *item.InventoryItemID,
			MovementType:      movementType,
			Quantity:          item.Quantity, // signed, negative for OUT
			UnitCost:          &unitCost,
			ReferenceType:     model.RefTypeRequest,
			ReferenceID:       &requestID,
			PerformedByUserID: approverID,
			Notes:             request.Description,
			MovementDate:      time.Now(),
		}
		if err := s.inventoryRepo.CreateMovement(ctx, &movement); err != nil {
			return fmt.Errorf("failed to record inventory movement: %w", err)
		}

		invItem, lockErr := s.inventoryRepo.FindByIDForUpdate(ctx, *item.InventoryItemID)
		if lockErr != nil {
			return fmt.Errorf("inventory item not found: %w", lockErr)
		}

		invItem.QuantityOnHand += item.Quantity
		if err := s.inventoryRepo.Update(ctx, invItem); err != nil {
			return fmt.Errorf("failed to update stock for %s: %w", invItem.Name, err)
		}
	}

	return nil
}

func (s *approvalService) settleProcurement(ctx context.Context, request *model.Request, approverID uuid.UUID) error {
	code, err := s.transactionRepo.NextCode(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate transaction code: %w", err)
	}

	requestID := request.ID
	trx := model.Transaction{
		TransactionCode: code,
		TransactionType: model.TxTypeExpense,
		CategoryID:      request.ExpenseCategoryID,
		Amount:          request.Amount,
		TransactionDate: time.Now(),
		ReferenceType:   model.RefTypeRequest,
		ReferenceID:     &requestID,
		Description:     "Pengadaan: " + request.Description,
		CreatedByUserID: approverID,
	}
	if err := s.transactionRepo.Create(ctx, &trx); err != nil {
		return fmt.Errorf("failed to create procurement transaction: %w", err)
	}

	items, err := s.requestRepo.ListItems(ctx, request.ID)
	if err != nil {
		return fmt.Errorf("failed to load request items: %w", err)
	}

	for _, item := range items {
		targetID := item.InventoryItemID

		// Unlisted procured items enter the catalog automatically.
		if targetID == nil {
			itemCode, codeErr := s.inventoryRepo.NextItemCode(ctx)
			if codeErr != nil {
				return fmt.Errorf("failed to generate item code: %w", codeErr)
			}

			newItem := model.InventoryItem{
				ItemCode:        itemCode,
				Name:            item.ItemName,
				Category:        categoryFromSpecifications(item.Specifications),
				Unit:            item.Unit,
				QuantityOnHand:  0, // set by the movement below
				MinimumStock:    0,
				AverageUnitCost: item.UnitPrice,
				IsActive:        true,
			}
			if createErr := s.inventoryRepo.Create(ctx, &newItem); createErr != nil {
				return fmt.Errorf("failed to create inventory item %s: %w", item.ItemName, createErr)
			}
			targetID = &newItem.ID
		}

		unitCost := item.UnitPrice
		movement := model.InventoryMovement{
			InventoryItemID:   *targetID,
			MovementType:      model.MovementIn,
			Quantity:          item.Quantity,
			UnitCost:          &unitCost,
			ReferenceType:     model.RefTypeRequest,
			ReferenceID:       &requestID,
			PerformedByUserID: approverID,
			Notes:             "Procurement: " + item.ItemName,
			MovementDate:      time.Now(),
		}
		if err := s.inventoryRepo.CreateMovement(ctx, &movement); err != nil {
			return fmt.Errorf("failed to record inventory movement: %w", err)
		}

		invItem, lockErr := s.inventoryRepo.FindByIDForUpdate(ctx, *targetID)
		if lockErr != nil {
			return fmt.Errorf("inventory item not found: %w", lockErr)
		}

		invItem.AverageUnitCost = weightedAverageCost(invItem.QuantityOnHand, invItem.AverageUnitCost, item.Quantity, item.UnitPrice)
		invItem.QuantityOnHand += item.Quantity

		if err := s.inventoryRepo.Update(ctx, invItem); err != nil {
			return fmt.Errorf("failed to update stock for %s: %w", invItem.Name, err)
		}
	}

	return nil
}

// weightedAverageCost blends the existing stock value with an incoming lot.
// An empty stock takes the incoming price as-is.
func weightedAverageCost(oldQty int, oldAvg decimal.Decimal, incomingQty int, incomingPrice decimal.Decimal) decimal.Decimal {
	if oldQty == 0 {
		return incomingPrice
	}
	newQty := oldQty + incomingQty
	if newQty == 0 {
		return oldAvg
	}
	oldValue := decimal.NewFromInt(int64(oldQty)).Mul(oldAvg)
	incomingValue := decimal.NewFromInt(int64(incomingQty)).Mul(incomingPrice)
	return oldValue.Add(incomingValue).Div(decimal.NewFromInt(int64(newQty)))
}

var categoryPattern = regexp.MustCompile(`category:(\w+)`)

// categoryFromSpecifications extracts a "category:WORD" hint from free-text
// item specifications, defaulting to GENERAL.
func categoryFromSpecifications(specs string) string {
	if match := categoryPattern.FindStringSubmatch(specs); match != nil {
		return match[1]
	}
	return "GENERAL"
}

// --- Helpers ---

func (s *approvalService) auditDecision(ctx context.Context, appr *model.Approval, approverID uuid.UUID, action, comments string) {
	details, _ := json.Marshal(map[string]interface{}{
		"approval_level": appr.ApprovalLevel,
		"role_name":      appr.RoleName,
		"request_id":     appr.RequestID.String(),
		"comments":       comments,
	})
	logAudit(ctx, s.auditRepo, &model.AuditLog{
		UserID:       &approverID,
		Action:       action,
		ResourceType: model.ResourceApproval,
		ResourceID:   appr.ID.String(),
		Description:  fmt.Sprintf("Approval level %d (%s) resolved: %s", appr.ApprovalLevel, appr.RoleName, action),
		NewValues:    string(details),
		Severity:     model.SeverityInfo,
	})
}

func (s *approvalService) broadcast(event string, data map[string]interface{}) {
	if s.hub == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"event": event,
		"data":  data,
	})
	select {
	case s.hub.Broadcast <- payload:
	default:
	}
}

func toPendingResponse(appr model.Approval, items []model.RequestItem) PendingApprovalResponse {
	resp := PendingApprovalResponse{
		ApprovalID:     appr.ID.String(),
		ApprovalLevel:  appr.ApprovalLevel,
		RoleName:       appr.RoleName,
		ApprovalStatus: appr.Status,
		Comments:       appr.Comments,
		CreatedAt:      appr.CreatedAt.Format(time.RFC3339),
		RequestID:      appr.RequestID.String(),
		Items:          make([]ApprovalItemResponse, 0, len(items)),
	}

	if appr.TimeoutAt != nil {
		t := appr.TimeoutAt.Format(time.RFC3339)
		resp.TimeoutAt = &t
	}

	if req := appr.Request; req != nil {
		resp.RequestCode = req.RequestCode
		resp.RequestType = req.RequestType
		resp.TransactionSubtype = req.TransactionSubtype
		resp.Amount = req.Amount.StringFixed(2)
		resp.Description = req.Description
		resp.Justification = req.Justification
		resp.RequestStatus = req.Status
		resp.Priority = req.Priority
		resp.RequestCreatedAt = req.CreatedAt.Format(time.RFC3339)
		if req.NeededByDate != nil {
			d := req.NeededByDate.Format("2006-01-02")
			resp.NeededByDate = &d
		}
		if req.ExpenseCategory != nil {
			resp.CategoryName = req.ExpenseCategory.Name
		}
		if req.Requester != nil {
			resp.RequesterName = req.Requester.Name
			resp.RequesterEmail = req.Requester.Email
		}
	}

	for _, item := range items {
		itemResp := ApprovalItemResponse{
			ID:             item.ID.String(),
			RequestID:      item.RequestID.String(),
			ItemName:       item.ItemName,
			Quantity:       item.Quantity,
			Unit:           item.Unit,
			UnitPrice:      item.UnitPrice.StringFixed(2),
			TotalPrice:     item.TotalPrice.StringFixed(2),
			Specifications: item.Specifications,
		}
		if item.InventoryItemID != nil {
			id := item.InventoryItemID.String()
			itemResp.InventoryItemID = &id
		}
		resp.Items = append(resp.Items, itemResp)
	}

	return resp
}
