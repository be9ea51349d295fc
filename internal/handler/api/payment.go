package api

import (
	"log/slog"
	"net/http"

	reqdto "lounge-booking/internal/handler/dto/request"
	resdto "lounge-booking/internal/handler/dto/response"
	"lounge-booking/internal/handler/httperr"
	"lounge-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	triggers commands.PaymentTriggers
	logger   *slog.Logger
}

func NewPaymentHandler(triggers commands.PaymentTriggers, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{triggers: triggers, logger: logger}
}

// @Summary Stash checkout payload
// @Description Store the booking payload for a gateway order and return it as order notes
// @Tags payments
// @Accept json
// @Produce json
// @Param request body reqdto.CheckoutRequest true "Checkout request"
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 400 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/checkout [post]
func (h *PaymentHandler) Checkout(c *gin.Context) {
	var req reqdto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", gin.H{
			"required": []string{"order_id", "booking_data"},
		})
		return
	}

	res, err := h.triggers.StashCheckout(c.Request.Context(), req.OrderID, req.BookingData)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.CheckoutResponse{OK: true, OrderID: res.OrderID, Notes: res.Notes})
}

// @Summary Payment webhook
// @Description Gateway notification. Terminal outcomes answer 200 so the gateway stops retrying; storage failures answer 500 so it redelivers.
// @Tags payments
// @Accept json
// @Produce json
// @Param X-Razorpay-Signature header string true "HMAC of the raw body"
// @Success 200 {object} resdto.WebhookResponse
// @Failure 400 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/payments/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var req reqdto.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid webhook body", nil)
		return
	}

	res, err := h.triggers.HandleWebhook(c.Request.Context(), req.ToEvent())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Webhook processing failed", nil)
		return
	}

	if res.Outcome == commands.OutcomeRejected {
		h.logger.Warn("webhook payment rejected by verification", slog.String("event", req.Event))
	}
	c.JSON(http.StatusOK, resdto.WebhookResponse{OK: true, Outcome: res.Outcome})
}

// @Summary Browser payment return
// @Description Commit the booking after the checkout page receives the gateway response
// @Tags payments
// @Accept json
// @Produce json
// @Param request body reqdto.PaymentReturnRequest true "Gateway response plus booking data"
// @Success 201 {object} resdto.CommitResponse
// @Success 200 {object} resdto.CommitResponse "already committed"
// @Failure 400 {object} httperr.Response
// @Failure 402 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/payments/return [post]
func (h *PaymentHandler) Return(c *gin.Context) {
	var req reqdto.PaymentReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", gin.H{
			"required": []string{"razorpay_payment_id", "razorpay_order_id", "razorpay_signature"},
		})
		return
	}

	res, err := h.triggers.HandleBrowserReturn(c.Request.Context(), req.ToBrowserReturn())
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	resp, err := resdto.FromCommitResult(res)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	status := http.StatusCreated
	if res.AlreadyCommitted {
		status = http.StatusOK
	}
	c.JSON(status, resp)
}
