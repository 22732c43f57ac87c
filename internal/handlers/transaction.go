package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/paylane/ledger-service/internal/models"
	"github.com/paylane/ledger-service/internal/money"
	"github.com/paylane/ledger-service/internal/repositories"
	"github.com/paylane/ledger-service/internal/services/transfer"
	"github.com/paylane/ledger-service/internal/utils/pagination"
	"github.com/paylane/ledger-service/internal/utils/response"
)

type TransactionHandler struct {
	svc    transfer.Service
	logger *zap.Logger
}

func NewTransactionHandler(svc transfer.Service, logger *zap.Logger) *TransactionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionHandler{svc: svc, logger: logger}
}

// Submit handles POST /api/transactions. The amount arrives as a decimal
// string and the idempotency key as a required header.
func (h *TransactionHandler) Submit(c *fiber.Ctx) error {
	var input struct {
		ReceiverID  uint   `json:"receiver_id"`
		Amount      string `json:"amount"`
		Type        string `json:"type"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	key := c.Get("Idempotency-Key")
	if key == "" {
		return response.BadRequest(c, "Idempotency-Key header is required")
	}

	amount, err := money.Parse(input.Amount)
	if err != nil {
		return response.BadRequest(c, "Invalid amount: "+err.Error())
	}

	senderID := c.Locals("userID").(uint)
	rec, err := h.svc.Submit(c.Context(), transfer.SubmitRequest{
		SenderID:       senderID,
		ReceiverID:     input.ReceiverID,
		Amount:         amount,
		Type:           input.Type,
		Description:    input.Description,
		IdempotencyKey: key,
	})
	if err != nil {
		return h.renderError(c, err)
	}
	return response.Created(c, "Transaction completed", rec.View())
}

// Get handles GET /api/transactions/:id. Participants only.
func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	rec, err := h.svc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return h.renderError(c, err)
	}
	userID := c.Locals("userID").(uint)
	if rec.SenderID != userID && rec.ReceiverID != userID {
		return response.NotFound(c, "Transaction not found")
	}
	return response.Success(c, "Transaction retrieved", rec.View())
}

// History handles GET /api/transactions/user/:userID.
func (h *TransactionHandler) History(c *fiber.Ctx) error {
	requested, err := strconv.ParseUint(c.Params("userID"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}
	if uint(requested) != c.Locals("userID").(uint) {
		return response.Error(c, fiber.StatusForbidden, "Cannot view another user's transactions")
	}

	p := pagination.ParseFromRequest(c)
	records, total, err := h.svc.GetByParticipant(c.Context(), uint(requested), p.Limit, p.Offset)
	if err != nil {
		h.logger.Error("transaction history lookup failed", zap.Uint("user_id", uint(requested)), zap.Error(err))
		return response.ServerError(c, "Failed to retrieve transactions")
	}

	views := make([]models.TransferRecordView, len(records))
	for i := range records {
		views[i] = records[i].View()
	}
	return c.JSON(fiber.Map{
		"transactions": views,
		"page":         p.Page,
		"limit":        p.Limit,
		"total":        total,
	})
}

// Reverse handles POST /api/transactions/:id/reverse.
func (h *TransactionHandler) Reverse(c *fiber.Ctx) error {
	rec, err := h.svc.Reverse(c.Context(), c.Params("id"))
	if err != nil {
		return h.renderError(c, err)
	}
	return response.Success(c, "Transaction reversed", rec.View())
}

func (h *TransactionHandler) renderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, transfer.ErrInvalidAmount),
		errors.Is(err, transfer.ErrSelfTransfer),
		errors.Is(err, transfer.ErrInvalidType),
		errors.Is(err, transfer.ErrMissingIdempotencyKey),
		errors.Is(err, transfer.ErrInsufficientFunds):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, transfer.ErrSenderNotFound),
		errors.Is(err, transfer.ErrReceiverNotFound),
		errors.Is(err, repositories.ErrRecordNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, transfer.ErrDuplicateInFlight),
		errors.Is(err, transfer.ErrNotReversible):
		return response.Conflict(c, err.Error())
	case errors.Is(err, transfer.ErrRemoteUnavailable):
		return response.ServiceUnavailable(c, "Wallet service unavailable, try again later")
	case errors.Is(err, transfer.ErrReconciliationRequired):
		// The caller must not retry: money state needs operator review.
		h.logger.Error("request ended in reconciliation-required state", zap.Error(err))
		return response.ErrorWithCode(c, fiber.StatusInternalServerError,
			"COMPENSATION_FAILED", "Transaction could not be completed or rolled back; support has been alerted")
	default:
		h.logger.Error("transaction request failed", zap.Error(err))
		return response.ServerError(c, "Internal server error")
	}
}
