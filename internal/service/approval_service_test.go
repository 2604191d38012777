package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"yayasan-backend/internal/model"
	ws "yayasan-backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type approvalServiceMocks struct {
	approvalRepo    *MockApprovalRepository
	requestRepo     *MockRequestRepository
	inventoryRepo   *MockInventoryRepository
	transactionRepo *MockTransactionRepository
	auditRepo       *MockAuditRepository
}

func newTestApprovalService() (ApprovalService, *approvalServiceMocks) {
	m := &approvalServiceMocks{
		approvalRepo:    new(MockApprovalRepository),
		requestRepo:     new(MockRequestRepository),
		inventoryRepo:   new(MockInventoryRepository),
		transactionRepo: new(MockTransactionRepository),
		auditRepo:       new(MockAuditRepository),
	}
	svc := NewApprovalService(m.approvalRepo, m.requestRepo, m.inventoryRepo, m.transactionRepo, m.auditRepo, passthroughTxManager{}, nil)
	return svc, m
}

func TestCanAct(t *testing.T) {
	assert.True(t, canAct(model.RoleBendahara, model.RoleBendahara))
	assert.True(t, canAct(model.RoleOwner, model.RoleBendahara))
	assert.True(t, canAct(model.RoleOwner, model.RoleKetua))
	assert.False(t, canAct(model.RoleBendahara, model.RoleKetua))
	assert.False(t, canAct(model.RoleSekretaris, model.RoleBendahara))
	assert.False(t, canAct("", model.RoleKetua))
}

func TestCategoryFromSpecifications(t *testing.T) {
	assert.Equal(t, "MEDICAL_SUPPLIES", categoryFromSpecifications("sterile, category:MEDICAL_SUPPLIES, box of 100"))
	assert.Equal(t, "FOOD", categoryFromSpecifications("category:FOOD"))
	assert.Equal(t, "GENERAL", categoryFromSpecifications("no hint here"))
	assert.Equal(t, "GENERAL", categoryFromSpecifications(""))
}

func TestWeightedAverageCost(t *testing.T) {
	// (10*100 + 10*200) / 20 = 150
	avg := weightedAverageCost(10, decimal.NewFromInt(100), 10, decimal.NewFromInt(200))
	assert.True(t, avg.Equal(decimal.NewFromInt(150)), "got %s", avg)

	// empty stock takes the incoming price
	avg = weightedAverageCost(0, decimal.NewFromInt(999), 5, decimal.NewFromInt(40))
	assert.True(t, avg.Equal(decimal.NewFromInt(40)), "got %s", avg)

	// (3*10 + 1*50) / 4 = 20
	avg = weightedAverageCost(3, decimal.NewFromInt(10), 1, decimal.NewFromInt(50))
	assert.True(t, avg.Equal(decimal.NewFromInt(20)), "got %s", avg)
}

func TestLedgerTypeForSubtype(t *testing.T) {
	revenue := model.SubtypeRevenue
	capital := model.SubtypeCapitalInjection
	expense := model.SubtypeExpense
	unknown := "SOMETHING_ELSE"

	assert.Equal(t, model.TxTypeRevenue, ledgerTypeForSubtype(&revenue))
	assert.Equal(t, model.TxTypeCapitalInjection, ledgerTypeForSubtype(&capital))
	assert.Equal(t, model.TxTypeExpense, ledgerTypeForSubtype(&expense))
	assert.Equal(t, model.TxTypeExpense, ledgerTypeForSubtype(&unknown))
	assert.Equal(t, model.TxTypeExpense, ledgerTypeForSubtype(nil))
}

func TestDecideApprovalNotFound(t *testing.T) {
	svc, m := newTestApprovalService()
	approvalID := uuid.New()

	m.approvalRepo.On("FindByID", mock.Anything, approvalID).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Decide(context.Background(), uuid.New().String(), model.RoleKetua, DecideApprovalRequest{
		ApprovalID: approvalID.String(),
		Action:     model.ActionApprove,
	})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecideInvalidAction(t *testing.T) {
	svc, _ := newTestApprovalService()

	_, err := svc.Decide(context.Background(), uuid.New().String(), model.RoleKetua, DecideApprovalRequest{
		ApprovalID: uuid.New().String(),
		Action:     "MAYBE",
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestDecideRoleMismatch(t *testing.T) {
	svc, m := newTestApprovalService()
	approvalID := uuid.New()

	m.approvalRepo.On("FindByID", mock.Anything, approvalID).Return(&model.Approval{
		ID:            approvalID,
		RequestID:     uuid.New(),
		ApprovalLevel: 1,
		RoleName:      model.RoleKetua,
		Status:        model.ApprovalPending,
	}, nil)

	_, err := svc.Decide(context.Background(), uuid.New().String(), model.RoleBendahara, DecideApprovalRequest{
		ApprovalID: approvalID.String(),
		Action:     model.ActionApprove,
	})

	assert.ErrorIs(t, err, ErrForbidden)
	m.approvalRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDecideAlreadyProcessed(t *testing.T) {
	svc, m := newTestApprovalService()
	approvalID := uuid.New()

	m.approvalRepo.On("FindByID", mock.Anything, approvalID).Return(&model.Approval{
		ID:            approvalID,
		RequestID:     uuid.New(),
		ApprovalLevel: 1,
		RoleName:      model.RoleBendahara,
		Status:        model.ApprovalApproved,
	}, nil)

	_, err := svc.Decide(context.Background(), uuid.New().String(), model.RoleBendahara, DecideApprovalRequest{
		ApprovalID: approvalID.String(),
		Action:     model.ActionApprove,
	})

	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestDecideLevel2RequiresLevel1(t *testing.T) {
	svc, m := newTestApprovalService()
	approvalID := uuid.New()
	requestID := uuid.New()

	m.approvalRepo.On("FindByID", mock.Anything, approvalID).Return(&model.Approval{
		ID:            approvalID,
		RequestID:     requestID,
		ApprovalLevel: 2,
		RoleName:      model.RoleKetua,
		Status:        model.ApprovalPending,
	}, nil)
	m.approvalRepo.On("FindByRequestAndLevel", mock.Anything, requestID, 1).Return(&model.Approval{
		RequestID:     requestID,
		ApprovalLevel: 1,
		RoleName:      model.RoleBendahara,
		Status:        model.ApprovalPending,
	}, nil)

	_, err := svc.Decide(context.Background(), uuid.New().String(), model.RoleKetua, DecideApprovalRequest{
		ApprovalID: approvalID.String(),
		Action:     model.ActionApprove,
	})

	assert.ErrorIs(t, err, ErrLevelIncomplete)
	m.approvalRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDecideRejectShortCircuits(t *testing.T) {
	svc, m := newTestApprovalService()
	approvalID := uuid.New()
	requestID := uuid.New()
	approverID := uuid.New()

	m.approvalRepo.On("FindByID", mock.Anything, approvalID).Return(&model.Approval{
		ID:            approvalID,
		RequestID:     requestID,
		ApprovalLevel: 1,
		RoleName:      model.RoleBendahara,
		Status:        model.ApprovalPending,
	}, nil)
	m.approvalRepo.On("Update", mock.Anything, mock.MatchedBy(func(a *model.Approval) bool {
		return a.Status == model.ApprovalRejected && a.ApproverUserID != nil && *a.ApproverUserID == approverID
	})).Return(nil).Once()
	m.requestRepo.On("FindByID", mock.Anything, requestID).Return(&model.Request{
		ID:          requestID,
		RequestCode: "REQ-20250901-004",
		RequestType: model.RequestTypeTransaction,
		Status:      model.RequestPending,
	}, nil).Once()
	m.requestRepo.On("UpdateStatus", mock.Anything, requestID, model.RequestRejected).Return(nil).Once()
	m.auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil).Once()

	message, err := svc.Decide(context.Background(), approverID.String(), model.RoleBendahara, DecideApprovalRequest{
		ApprovalID: approvalID.String(),
		Action:     model.ActionReject,
		Comments:   "insufficient justification",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Request rejected successfully", message)
	m.approvalRepo.AssertNotCalled(t, "ListByRequest", mock.Anything, mock.Anything)
	m.requestRepo.AssertExpectations(t)
	m.auditRepo.AssertExpectations(t)
}

func TestDecideRejectToleratesAuditFailure(t *testing.T) {
	// The audit sink is fire-and-forget: a failing write must not roll
	// back the decision itself.
	svc, m := newTestApprovalService()
	approvalID := uuid.New()
	requestID := uuid.New()
	approverID := uuid.New()

	m.approvalRepo.On("FindByID", mock.Anything, approvalID).Return(&model.Approval{
		ID:            approvalID,
		RequestID:     requestID,
		ApprovalLevel: 1,
		RoleName:      model.RoleBendahara,
		Status:        model.ApprovalPending,
	}, nil)
	m.approvalRepo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
	m.requestRepo.On("FindByID", mock.Anything, requestID).Return(&model.Request{
		ID:          requestID,
		RequestCode: "REQ-20250901-005",
		Status:      model.RequestPending,
	}, nil).Once()
	m.requestRepo.On("UpdateStatus", mock.Anything, requestID, model.RequestRejected).Return(nil).Once()
	m.auditRepo.On("Log", mock.Anything, mock.Anything).Return(errors.New("sink down")).Once()

	message, err := svc.Decide(context.Background(), approverID.String(), model.RoleBendahara, DecideApprovalRequest{
		ApprovalID: approvalID.String(),
		Action:     model.ActionReject,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Request rejected successfully", message)
	m.requestRepo.AssertExpectations(t)
}

func TestDecideRejectBroadcastsRequestCode(t *testing.T) {
	m := &approvalServiceMocks{
		approvalRepo:    new(MockApprovalRepository),
		requestRepo:     new(MockRequestRepository),
		inventoryRepo:   new(MockInventoryRepository),
		transactionRepo: new(MockTransactionRepository),
		auditRepo:       new(MockAuditRepository),
	}
	hub := ws.NewHub()
	svc := NewApprovalService(m.approvalRepo, m.requestRepo, m.inventoryRepo, m.transactionRepo, m.auditRepo, passthroughTxManager{}, hub)

	approvalID := uuid.New()
	requestID := uuid.New()

	m.approvalRepo.On("FindByID", mock.Anything, approvalID).Return(&model.Approval{
		ID:            approvalID,
		RequestID:     requestID,
		ApprovalLevel: 1,
		RoleName:      model.RoleBendahara,
		Status:        model.ApprovalPending,
	}, nil)
	m.approvalRepo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
	m.requestRepo.On("FindByID", mock.Anything, requestID).Return(&model.Request{
		ID:          requestID,
		RequestCode: "REQ-20250901-006",
		Status:      model.RequestPending,
	}, nil).Once()
	m.requestRepo.On("UpdateStatus", mock.Anything, requestID, model.RequestRejected).Return(nil).Once()
	m.auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := svc.Decide(context.Background(), uuid.New().String(), model.RoleBendahara, DecideApprovalRequest{
		ApprovalID: approvalID.String(),
		Action:     model.ActionReject,
	})
	assert.NoError(t, err)

	select {
	case payload := <-hub.Broadcast:
		var msg struct {
			Event string            `json:"event"`
			Data  map[string]string `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(payload, &msg))
		assert.Equal(t, "request_status_changed", msg.Event)
		assert.Equal(t, requestID.String(), msg.Data["request_id"])
		assert.Equal(t, "REQ-20250901-006", msg.Data["request_code"])
		assert.Equal(t, model.RequestRejected, msg.Data["status"])
	default:
		t.Fatal("expected a status broadcast")
	}
}

func TestDecideApproveIntermediateLevel(t *testing.T) {
	svc, m := newTestApprovalService()
	approvalID := uuid.New()
	requestID := uuid.New()
	approverID := uuid.New()

	m.approvalRepo.On("FindByID", mock.Anything, approvalID).Return(&model.Approval{
		ID:            approvalID,
		RequestID:     requestID,
		ApprovalLevel: 1,
		RoleName:      model.RoleBendahara,
		Status:        model.ApprovalPending,
	}, nil)
	m.approvalRepo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
	// level 2 still pending, so the request stays PENDING and nothing settles
	m.approvalRepo.On("ListByRequest", mock.Anything, requestID).Return([]model.Approval{
		{RequestID: requestID, ApprovalLevel: 1, Status: model.ApprovalApproved},
		{RequestID: requestID, ApprovalLevel: 2, Status: model.ApprovalPending},
	}, nil).Once()
	m.auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil).Once()

	message, err := svc.Decide(context.Background(), approverID.String(), model.RoleBendahara, DecideApprovalRequest{
		ApprovalID: approvalID.String(),
		Action:     model.ActionApprove,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Request approved successfully", message)
	m.requestRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	m.transactionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDecideFinalApproveTransactionSettles(t *testing.T) {
	svc, m := newTestApprovalService()
	approvalID := uuid.New()
	requestID := uuid.New()
	approverID := uuid.New()
	subtype := model.SubtypeRevenue

	m.approvalRepo.On("FindByID", mock.Anything, approvalID).Return(&model.Approval{
		ID:            approvalID,
		RequestID:     requestID,
		ApprovalLevel: 2,
		RoleName:      model.RoleKetua,
		Status:        model.ApprovalPending,
	}, nil)
	m.approvalRepo.On("FindByRequestAndLevel", mock.Anything, requestID, 1).Return(&model.Approval{
		RequestID:     requestID,
		ApprovalLevel: 1,
		Status:        model.ApprovalApproved,
	}, nil)
	m.approvalRepo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
	m.approvalRepo.On("ListByRequest", mock.Anything, requestID).Return([]model.Approval{
		{RequestID: requestID, ApprovalLevel: 1, Status: model.ApprovalApproved},
		{RequestID: requestID, ApprovalLevel: 2, Status: model.ApprovalApproved},
	}, nil).Once()
	m.requestRepo.On("FindByID", mock.Anything, requestID).Return(&model.Request{
		ID:                 requestID,
		RequestCode:        "REQ-20250901-001",
		RequestType:        model.RequestTypeTransaction,
		TransactionSubtype: &subtype,
		Amount:             decimal.NewFromInt(5000000),
		Description:        "Donation intake",
		Status:             model.RequestPending,
	}, nil).Once()
	m.requestRepo.On("UpdateStatus", mock.Anything, requestID, model.RequestApproved).Return(nil).Once()
	m.transactionRepo.On("NextCode", mock.Anything).Return("TRX-20250901-001", nil).Once()
	m.transactionRepo.On("Create", mock.Anything, mock.MatchedBy(func(trx *model.Transaction) bool {
		return trx.TransactionCode == "TRX-20250901-001" &&
			trx.TransactionType == model.TxTypeRevenue &&
			trx.Amount.Equal(decimal.NewFromInt(5000000)) &&
			trx.ReferenceType == model.RefTypeRequest &&
			trx.ReferenceID != nil && *trx.ReferenceID == requestID &&
			trx.CreatedByUserID == approverID
	})).Return(nil).Once()
	m.auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := svc.Decide(context.Background(), approverID.String(), model.RoleKetua, DecideApprovalRequest{
		ApprovalID: approvalID.String(),
		Action:     model.ActionApprove,
	})

	assert.NoError(t, err)
	m.transactionRepo.AssertExpectations(t)
	m.requestRepo.AssertExpectations(t)
}

func TestDecideFinalApproveInventorySettles(t *testing.T) {
	svc, m := newTestApprovalService()
	approvalID := uuid.New()
	requestID := uuid.New()
	approverID := uuid.New()
	itemID := uuid.New()

	m.approvalRepo.On("FindByID", mock.Anything, approvalID).Return(&model.Approval{
		ID:            approvalID,
		RequestID:     requestID,
		ApprovalLevel: 1,
		RoleName:      model.RoleKetua,
		Status:        model.ApprovalPending,
	}, nil)
	m.approvalRepo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
	m.approvalRepo.On("ListByRequest", mock.Anything, requestID).Return([]model.Approval{
		{RequestID: requestID, ApprovalLevel: 1, Status: model.ApprovalApproved},
	}, nil).Once()
	m.requestRepo.On("FindByID", mock.Anything, requestID).Return(&model.Request{
		ID:          requestID,
		RequestType: model.RequestTypeInventory,
		Amount:      decimal.NewFromInt(450000),
		Description: "Ward restock",
		Status:      model.RequestPending,
	}, nil).Once()
	m.requestRepo.On("UpdateStatus", mock.Anything, requestID, model.RequestApproved).Return(nil).Once()
	m.requestRepo.On("ListItems", mock.Anything, requestID).Return([]model.RequestItem{
		{
			RequestID:       requestID,
			InventoryItemID: &itemID,
			ItemName:        "Surgical gloves",
			Quantity:        -30,
			Unit:            "box",
			UnitPrice:       decimal.NewFromInt(15000),
		},
	}, nil).Once()
	m.inventoryRepo.On("CreateMovement", mock.Anything, mock.MatchedBy(func(mv *model.InventoryMovement) bool {
		return mv.InventoryItemID == itemID &&
			mv.MovementType == model.MovementOut &&
			mv.Quantity == -30 &&
			mv.PerformedByUserID == approverID
	})).Return(nil).Once()
	m.inventoryRepo.On("FindByIDForUpdate", mock.Anything, itemID).Return(&model.InventoryItem{
		ID:             itemID,
		Name:           "Surgical gloves",
		QuantityOnHand: 100,
	}, nil).Once()
	m.inventoryRepo.On("Update", mock.Anything, mock.MatchedBy(func(item *model.InventoryItem) bool {
		return item.QuantityOnHand == 70
	})).Return(nil).Once()
	m.auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := svc.Decide(context.Background(), approverID.String(), model.RoleKetua, DecideApprovalRequest{
		ApprovalID: approvalID.String(),
		Action:     model.ActionApprove,
	})

	assert.NoError(t, err)
	m.inventoryRepo.AssertExpectations(t)
}

func TestDecideFinalApproveProcurementCreatesItem(t *testing.T) {
	svc, m := newTestApprovalService()
	approvalID := uuid.New()
	requestID := uuid.New()
	approverID := uuid.New()
	newItemID := uuid.New()

	m.approvalRepo.On("FindByID", mock.Anything, approvalID).Return(&model.Approval{
		ID:            approvalID,
		RequestID:     requestID,
		ApprovalLevel: 1,
		RoleName:      model.RoleKetua,
		Status:        model.ApprovalPending,
	}, nil)
	m.approvalRepo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
	m.approvalRepo.On("ListByRequest", mock.Anything, requestID).Return([]model.Approval{
		{RequestID: requestID, ApprovalLevel: 1, Status: model.ApprovalApproved},
	}, nil).Once()
	m.requestRepo.On("FindByID", mock.Anything, requestID).Return(&model.Request{
		ID:          requestID,
		RequestType: model.RequestTypeProcurement,
		Amount:      decimal.NewFromInt(2000000),
		Description: "IV pump purchase",
		Status:      model.RequestPending,
	}, nil).Once()
	m.requestRepo.On("UpdateStatus", mock.Anything, requestID, model.RequestApproved).Return(nil).Once()

	// Procurement books an expense transaction with the Pengadaan prefix.
	m.transactionRepo.On("NextCode", mock.Anything).Return("TRX-20250901-002", nil).Once()
	m.transactionRepo.On("Create", mock.Anything, mock.MatchedBy(func(trx *model.Transaction) bool {
		return trx.TransactionType == model.TxTypeExpense &&
			trx.Description == "Pengadaan: IV pump purchase"
	})).Return(nil).Once()

	m.requestRepo.On("ListItems", mock.Anything, requestID).Return([]model.RequestItem{
		{
			RequestID:      requestID,
			ItemName:       "IV pump",
			Quantity:       10,
			Unit:           "unit",
			UnitPrice:      decimal.NewFromInt(200000),
			Specifications: "dual channel, category:MEDICAL_SUPPLIES",
		},
	}, nil).Once()

	m.inventoryRepo.On("NextItemCode", mock.Anything).Return("INV-20250901-001", nil).Once()
	m.inventoryRepo.On("Create", mock.Anything, mock.MatchedBy(func(item *model.InventoryItem) bool {
		return item.Name == "IV pump" &&
			item.Category == "MEDICAL_SUPPLIES" &&
			item.ItemCode == "INV-20250901-001" &&
			item.QuantityOnHand == 0 &&
			item.AverageUnitCost.Equal(decimal.NewFromInt(200000)) &&
			item.IsActive
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.InventoryItem).ID = newItemID
	}).Return(nil).Once()
	m.inventoryRepo.On("CreateMovement", mock.Anything, mock.MatchedBy(func(mv *model.InventoryMovement) bool {
		return mv.InventoryItemID == newItemID &&
			mv.MovementType == model.MovementIn &&
			mv.Quantity == 10 &&
			mv.Notes == "Procurement: IV pump"
	})).Return(nil).Once()
	m.inventoryRepo.On("FindByIDForUpdate", mock.Anything, newItemID).Return(&model.InventoryItem{
		ID:              newItemID,
		Name:            "IV pump",
		QuantityOnHand:  0,
		AverageUnitCost: decimal.NewFromInt(200000),
	}, nil).Once()
	m.inventoryRepo.On("Update", mock.Anything, mock.MatchedBy(func(item *model.InventoryItem) bool {
		return item.QuantityOnHand == 10 &&
			item.AverageUnitCost.Equal(decimal.NewFromInt(200000))
	})).Return(nil).Once()
	m.auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := svc.Decide(context.Background(), approverID.String(), model.RoleKetua, DecideApprovalRequest{
		ApprovalID: approvalID.String(),
		Action:     model.ActionApprove,
	})

	assert.NoError(t, err)
	m.inventoryRepo.AssertExpectations(t)
	m.transactionRepo.AssertExpectations(t)
}

func TestDecideProcurementBlendsExistingCost(t *testing.T) {
	svc, m := newTestApprovalService()
	approvalID := uuid.New()
	requestID := uuid.New()
	approverID := uuid.New()
	itemID := uuid.New()

	m.approvalRepo.On("FindByID", mock.Anything, approvalID).Return(&model.Approval{
		ID:            approvalID,
		RequestID:     requestID,
		ApprovalLevel: 1,
		RoleName:      model.RoleKetua,
		Status:        model.ApprovalPending,
	}, nil)
	m.approvalRepo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
	m.approvalRepo.On("ListByRequest", mock.Anything, requestID).Return([]model.Approval{
		{RequestID: requestID, ApprovalLevel: 1, Status: model.ApprovalApproved},
	}, nil).Once()
	m.requestRepo.On("FindByID", mock.Anything, requestID).Return(&model.Request{
		ID:          requestID,
		RequestType: model.RequestTypeProcurement,
		Amount:      decimal.NewFromInt(2000000),
		Description: "Glove restock",
		Status:      model.RequestPending,
	}, nil).Once()
	m.requestRepo.On("UpdateStatus", mock.Anything, requestID, model.RequestApproved).Return(nil).Once()
	m.transactionRepo.On("NextCode", mock.Anything).Return("TRX-20250901-003", nil).Once()
	m.transactionRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	m.requestRepo.On("ListItems", mock.Anything, requestID).Return([]model.RequestItem{
		{
			RequestID:       requestID,
			InventoryItemID: &itemID,
			ItemName:        "Surgical gloves",
			Quantity:        10,
			Unit:            "box",
			UnitPrice:       decimal.NewFromInt(200),
		},
	}, nil).Once()
	m.inventoryRepo.On("CreateMovement", mock.Anything, mock.Anything).Return(nil).Once()
	m.inventoryRepo.On("FindByIDForUpdate", mock.Anything, itemID).Return(&model.InventoryItem{
		ID:              itemID,
		Name:            "Surgical gloves",
		QuantityOnHand:  10,
		AverageUnitCost: decimal.NewFromInt(100),
	}, nil).Once()
	// (10*100 + 10*200) / 20 = 150
	m.inventoryRepo.On("Update", mock.Anything, mock.MatchedBy(func(item *model.InventoryItem) bool {
		return item.QuantityOnHand == 20 &&
			item.AverageUnitCost.Equal(decimal.NewFromInt(150))
	})).Return(nil).Once()
	m.auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := svc.Decide(context.Background(), approverID.String(), model.RoleKetua, DecideApprovalRequest{
		ApprovalID: approvalID.String(),
		Action:     model.ActionApprove,
	})

	assert.NoError(t, err)
	m.inventoryRepo.AssertExpectations(t)
}

func TestDecideOwnerBypassesRoleMatch(t *testing.T) {
	svc, m := newTestApprovalService()
	approvalID := uuid.New()
	requestID := uuid.New()
	approverID := uuid.New()

	m.approvalRepo.On("FindByID", mock.Anything, approvalID).Return(&model.Approval{
		ID:            approvalID,
		RequestID:     requestID,
		ApprovalLevel: 1,
		RoleName:      model.RoleBendahara,
		Status:        model.ApprovalPending,
	}, nil)
	m.approvalRepo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
	m.requestRepo.On("FindByID", mock.Anything, requestID).Return(&model.Request{
		ID:          requestID,
		RequestCode: "REQ-20250901-009",
		Status:      model.RequestPending,
	}, nil).Once()
	m.requestRepo.On("UpdateStatus", mock.Anything, requestID, model.RequestRejected).Return(nil).Once()
	m.auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := svc.Decide(context.Background(), approverID.String(), model.RoleOwner, DecideApprovalRequest{
		ApprovalID: approvalID.String(),
		Action:     model.ActionReject,
	})

	assert.NoError(t, err)
}

func TestDecideSettlementFailureAborts(t *testing.T) {
	svc, m := newTestApprovalService()
	approvalID := uuid.New()
	requestID := uuid.New()
	subtype := model.SubtypeExpense

	m.approvalRepo.On("FindByID", mock.Anything, approvalID).Return(&model.Approval{
		ID:            approvalID,
		RequestID:     requestID,
		ApprovalLevel: 1,
		RoleName:      model.RoleKetua,
		Status:        model.ApprovalPending,
	}, nil)
	m.approvalRepo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
	m.approvalRepo.On("ListByRequest", mock.Anything, requestID).Return([]model.Approval{
		{RequestID: requestID, ApprovalLevel: 1, Status: model.ApprovalApproved},
	}, nil).Once()
	m.requestRepo.On("FindByID", mock.Anything, requestID).Return(&model.Request{
		ID:                 requestID,
		RequestType:        model.RequestTypeTransaction,
		TransactionSubtype: &subtype,
		Amount:             decimal.NewFromInt(100),
		Status:             model.RequestPending,
	}, nil).Once()
	m.requestRepo.On("UpdateStatus", mock.Anything, requestID, model.RequestApproved).Return(nil).Once()
	m.transactionRepo.On("NextCode", mock.Anything).Return("", errors.New("lock timeout")).Once()

	_, err := svc.Decide(context.Background(), uuid.New().String(), model.RoleKetua, DecideApprovalRequest{
		ApprovalID: approvalID.String(),
		Action:     model.ActionApprove,
	})

	assert.Error(t, err)
	m.transactionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListPendingBendahara(t *testing.T) {
	svc, m := newTestApprovalService()
	requestID := uuid.New()

	m.approvalRepo.On("ListPendingDetailed", mock.Anything, model.RoleBendahara, mock.MatchedBy(func(level *int) bool {
		return level != nil && *level == 1
	}), mock.Anything).Return([]model.Approval{
		{
			ID:            uuid.New(),
			RequestID:     requestID,
			ApprovalLevel: 1,
			RoleName:      model.RoleBendahara,
			Status:        model.ApprovalPending,
			Request: &model.Request{
				ID:          requestID,
				RequestCode: "REQ-20250901-001",
				RequestType: model.RequestTypeTransaction,
				Amount:      decimal.NewFromInt(750000),
				Status:      model.RequestPending,
				Priority:    model.PriorityHigh,
			},
		},
	}, nil).Once()
	m.requestRepo.On("ListItemsForRequests", mock.Anything, []uuid.UUID{requestID}).Return([]model.RequestItem{}, nil).Once()

	result, err := svc.ListPending(context.Background(), model.RoleBendahara)

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, "REQ-20250901-001", result[0].RequestCode)
	assert.Equal(t, 1, result[0].ApprovalLevel)
	assert.Equal(t, "750000.00", result[0].Amount)
}

func TestListPendingOtherRoleEmpty(t *testing.T) {
	svc, m := newTestApprovalService()

	result, err := svc.ListPending(context.Background(), "STAFF")

	assert.NoError(t, err)
	assert.Empty(t, result)
	m.approvalRepo.AssertNotCalled(t, "ListPendingDetailed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListPendingKetuaGatesLevel2(t *testing.T) {
	svc, m := newTestApprovalService()
	reqLevel1 := uuid.New() // INVENTORY request: KETUA at level 1, always eligible
	reqUnlocked := uuid.New()
	reqLocked := uuid.New()

	m.approvalRepo.On("ListPendingByRole", mock.Anything, model.RoleKetua).Return([]model.Approval{
		{RequestID: reqLevel1, ApprovalLevel: 1, RoleName: model.RoleKetua, Status: model.ApprovalPending},
		{RequestID: reqUnlocked, ApprovalLevel: 2, RoleName: model.RoleKetua, Status: model.ApprovalPending},
		{RequestID: reqLocked, ApprovalLevel: 2, RoleName: model.RoleKetua, Status: model.ApprovalPending},
	}, nil).Once()
	// only reqUnlocked has its level 1 approved
	m.approvalRepo.On("ListApprovedLevel1RequestIDs", mock.Anything, []uuid.UUID{reqUnlocked, reqLocked}).
		Return([]uuid.UUID{reqUnlocked}, nil).Once()
	m.approvalRepo.On("ListPendingDetailed", mock.Anything, model.RoleKetua, (*int)(nil), []uuid.UUID{reqLevel1, reqUnlocked}).
		Return([]model.Approval{
			{ID: uuid.New(), RequestID: reqLevel1, ApprovalLevel: 1, RoleName: model.RoleKetua, Status: model.ApprovalPending},
			{ID: uuid.New(), RequestID: reqUnlocked, ApprovalLevel: 2, RoleName: model.RoleKetua, Status: model.ApprovalPending},
		}, nil).Once()
	m.requestRepo.On("ListItemsForRequests", mock.Anything, []uuid.UUID{reqLevel1, reqUnlocked}).
		Return([]model.RequestItem{}, nil).Once()

	result, err := svc.ListPending(context.Background(), model.RoleKetua)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	m.approvalRepo.AssertExpectations(t)
}

func TestListPendingKetuaAllLevel2Locked(t *testing.T) {
	svc, m := newTestApprovalService()
	reqLocked := uuid.New()

	m.approvalRepo.On("ListPendingByRole", mock.Anything, model.RoleKetua).Return([]model.Approval{
		{RequestID: reqLocked, ApprovalLevel: 2, RoleName: model.RoleKetua, Status: model.ApprovalPending},
	}, nil).Once()
	m.approvalRepo.On("ListApprovedLevel1RequestIDs", mock.Anything, []uuid.UUID{reqLocked}).
		Return([]uuid.UUID{}, nil).Once()

	result, err := svc.ListPending(context.Background(), model.RoleKetua)

	assert.NoError(t, err)
	assert.Empty(t, result)
	m.approvalRepo.AssertNotCalled(t, "ListPendingDetailed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
