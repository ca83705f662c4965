package handler

import (
	"strconv"

	"creator-payout-ledger/internal/adapter/http/dto"
	"creator-payout-ledger/internal/adapter/http/middleware"
	"creator-payout-ledger/internal/core/domain"
	"creator-payout-ledger/internal/core/ports"
	"creator-payout-ledger/pkg/apperror"
	"creator-payout-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

const defaultCurrency = "usd"

// WithdrawalHandler handles the creator-facing balance and withdrawal endpoints.
type WithdrawalHandler struct {
	withdrawalSvc ports.WithdrawalService
	balanceSvc    ports.BalanceService
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(withdrawalSvc ports.WithdrawalService, balanceSvc ports.BalanceService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalSvc: withdrawalSvc, balanceSvc: balanceSvc}
}

// GetBalance handles GET /api/v1/balance.
func (h *WithdrawalHandler) GetBalance(c *gin.Context) {
	creatorID := c.GetString(middleware.CtxCreatorID)
	if creatorID == "" {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	balance, err := h.balanceSvc.GetBalance(c.Request.Context(), creatorID, domain.AccountTypeCreator)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		CreatorID: creatorID,
		Balance:   balance,
		Currency:  defaultCurrency,
	})
}

// Initiate handles POST /api/v1/withdrawals.
func (h *WithdrawalHandler) Initiate(c *gin.Context) {
	creatorID := c.GetString(middleware.CtxCreatorID)
	if creatorID == "" {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	w, err := h.withdrawalSvc.InitiateWithdrawal(c.Request.Context(), ports.WithdrawalRequest{
		CreatorID: creatorID,
		Amount:    req.Amount,
		Method:    domain.WithdrawalMethod(req.Method),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewWithdrawalResponse(w))
}

// List handles GET /api/v1/withdrawals.
func (h *WithdrawalHandler) List(c *gin.Context) {
	creatorID := c.GetString(middleware.CtxCreatorID)
	if creatorID == "" {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	withdrawals, err := h.withdrawalSvc.ListWithdrawals(c.Request.Context(), creatorID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.WithdrawalResponse, 0, len(withdrawals))
	for i := range withdrawals {
		items = append(items, dto.NewWithdrawalResponse(&withdrawals[i]))
	}
	response.OK(c, gin.H{"items": items})
}
