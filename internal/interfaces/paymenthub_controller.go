package interfaces

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"pesacore/internal/domain"
	"pesacore/internal/usecase"
)

const (
	HeaderTransactionID = "X-Transaction-Id"
	HeaderExternalID    = "X-External-Id"
)

type (
	VerificationResponse struct {
		TransactionID     string `json:"transactionId"`
		PartyLookupFailed bool   `json:"partyLookupFailed"`
	}

	ConfirmationResponse struct {
		TransactionID    string `json:"transactionId"`
		ExternalID       string `json:"externalId"`
		SettlementFailed bool   `json:"settlementFailed"`
	}

	ErrorResponse struct {
		Stage domain.Stage `json:"stage,omitempty"`
		Error string       `json:"error"`
	}
)

type PaymentHubController struct {
	verification *usecase.VerificationPipeline
	settlement   *usecase.SettlementPipeline
	publisher    domain.OutcomePublisher
	metrics      *usecase.PipelineMetrics
}

func NewPaymentHubController(
	verification *usecase.VerificationPipeline,
	settlement *usecase.SettlementPipeline,
	publisher domain.OutcomePublisher,
	metrics *usecase.PipelineMetrics,
) *PaymentHubController {
	return &PaymentHubController{
		verification: verification,
		settlement:   settlement,
		publisher:    publisher,
		metrics:      metrics,
	}
}

func (h *PaymentHubController) RegisterRoutes(app *fiber.App) {
	app.Post("/api/paymentHub/Verification", h.HandleVerification)
	app.Post("/api/paymentHub/Confirmation", h.HandleConfirmation)
	app.Get("/health", h.HandleHealthCheck)
}

func (h *PaymentHubController) HandleVerification(c *fiber.Ctx) error {
	req, err := domain.ParseChannelRequest(c.Body())
	if err != nil {
		return writeError(c, err)
	}

	var tc domain.TransactionContext
	if id := c.Get(HeaderTransactionID); id != "" {
		tc, err = h.verification.Run(c.UserContext(), req, domain.NewTransactionContext(id))
	} else {
		tc, err = h.verification.Start(c.UserContext(), req)
	}
	if err != nil {
		return writeError(c, err)
	}

	h.publish(c.UserContext(), tc.Outcome(domain.PhaseVerification, time.Now().UTC()))

	return c.JSON(VerificationResponse{
		TransactionID:     tc.TransactionID(),
		PartyLookupFailed: tc.PartyLookupFailed(),
	})
}

func (h *PaymentHubController) HandleConfirmation(c *fiber.Ctx) error {
	externalID := c.Get(HeaderExternalID)
	if err := h.settlement.CheckReference(externalID); err != nil {
		return writeError(c, err)
	}

	req, err := domain.ParseChannelRequest(c.Body())
	if err != nil {
		return writeError(c, err)
	}

	var tc domain.TransactionContext
	if id := c.Get(HeaderTransactionID); id != "" {
		tc, err = h.settlement.Run(c.UserContext(), req, domain.NewTransactionContext(id).WithExternalID(externalID))
	} else {
		tc, err = h.settlement.Start(c.UserContext(), req, externalID)
	}
	if err != nil {
		return writeError(c, err)
	}

	h.publish(c.UserContext(), tc.Outcome(domain.PhaseSettlement, time.Now().UTC()))

	return c.JSON(ConfirmationResponse{
		TransactionID:    tc.TransactionID(),
		ExternalID:       tc.ExternalID(),
		SettlementFailed: tc.SettlementFailed(),
	})
}

func (h *PaymentHubController) HandleHealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"phases": h.metrics.Snapshot(),
	})
}

// publish never changes the response: the outcome is already decided.
func (h *PaymentHubController) publish(ctx context.Context, outcome domain.Outcome) {
	if err := h.publisher.PublishOutcome(ctx, outcome); err != nil {
		slog.Warn("failed to publish outcome", "transactionId", outcome.TransactionID, "phase", outcome.Phase, "err", err)
	}
}

func writeError(c *fiber.Ctx, err error) error {
	res := ErrorResponse{Error: err.Error()}
	if stage, ok := domain.StageOf(err); ok {
		res.Stage = stage
	}
	return c.Status(statusFor(err)).JSON(res)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMalformedRequest), errors.Is(err, domain.ErrMissingReference):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrMalformedResponse):
		return fiber.StatusBadGateway
	case errors.Is(err, domain.ErrTransactionID):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
