package handler

import (
	"net/http"

	"creator-payout-ledger/internal/adapter/http/dto"
	"creator-payout-ledger/internal/core/ports"
	"creator-payout-ledger/pkg/apperror"
	"creator-payout-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SettlementHandler handles the service-facing settlement endpoints.
type SettlementHandler struct {
	settlementSvc ports.SettlementService
	log           zerolog.Logger
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementSvc ports.SettlementService, log zerolog.Logger) *SettlementHandler {
	return &SettlementHandler{settlementSvc: settlementSvc, log: log}
}

// Settle handles POST /api/v1/settlements.
// 201 when a payment was settled now, 200 for duplicates and skips.
func (h *SettlementHandler) Settle(c *gin.Context) {
	var req dto.SettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	settlementReq, err := req.ToPort()
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.settlementSvc.SettlePayment(c.Request.Context(), settlementReq)
	if err != nil {
		if result != nil && result.Payment != nil {
			h.log.Warn().Err(err).
				Str("submission_id", settlementReq.Submission.ID).
				Str("payment_id", result.Payment.ID.String()).
				Msg("settlement request failed")
		}
		response.Error(c, err)
		return
	}

	status := http.StatusCreated
	if result.Duplicate || result.Skipped {
		status = http.StatusOK
	}
	response.JSON(c, status, dto.NewSettlementResponse(result))
}

// ListPayments handles GET /api/v1/settlements/:submission_id.
func (h *SettlementHandler) ListPayments(c *gin.Context) {
	submissionID := c.Param("submission_id")
	if submissionID == "" {
		response.Error(c, apperror.Validation("submission_id is required"))
		return
	}

	payments, err := h.settlementSvc.ListPayments(c.Request.Context(), submissionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]*dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, dto.NewPaymentResponse(&payments[i]))
	}
	response.OK(c, gin.H{
		"submission_id": submissionID,
		"payments":      items,
	})
}
