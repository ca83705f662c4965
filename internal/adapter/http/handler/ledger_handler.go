package handler

import (
	"math"
	"strconv"

	"creator-payout-ledger/internal/adapter/http/dto"
	"creator-payout-ledger/internal/core/ports"
	"creator-payout-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// LedgerHandler serves read-only ledger history to internal services.
type LedgerHandler struct {
	reportingSvc ports.ReportingService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(reportingSvc ports.ReportingService) *LedgerHandler {
	return &LedgerHandler{reportingSvc: reportingSvc}
}

// ListTransactions handles GET /api/v1/accounts/:account_id/transactions.
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	accountID := c.Param("account_id")

	account, err := h.reportingSvc.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	params := ports.BalanceTransactionListParams{
		UserID:   accountID,
		Page:     page,
		PageSize: pageSize,
	}
	if r := c.Query("reason"); r != "" {
		params.Reason = &r
	}

	txns, total, err := h.reportingSvc.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.BalanceTransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, dto.NewBalanceTransactionResponse(&txns[i]))
	}

	response.OK(c, dto.TransactionListResponse{
		AccountID:  account.ID,
		Balance:    account.Balance,
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	})
}
