package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"lounge-booking/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

const (
	WebhookSignatureHeader = "X-Razorpay-Signature"
	maxWebhookBodyBytes    = 1 << 20
)

var errBadWebhookSignature = errors.New("webhook signature mismatch")

type SignatureVerifier interface {
	Valid(body []byte, signature string) bool
}

// RequireWebhookSignature checks the gateway HMAC over the raw body and puts the
// body back for binding.
func RequireWebhookSignature(v SignatureVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Unreadable webhook body", nil)
			return
		}
		if !v.Valid(body, c.GetHeader(WebhookSignatureHeader)) {
			httperr.AbortWithError(c, http.StatusBadRequest, errBadWebhookSignature, "Invalid webhook signature", nil)
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Next()
	}
}
