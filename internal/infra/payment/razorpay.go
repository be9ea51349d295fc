package payment

import (
	"context"

	"lounge-booking/internal/domain/booking"
	"lounge-booking/internal/pkg/config"
	"lounge-booking/internal/pkg/errs"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

var (
	ErrSignatureMismatch = errs.New("payment signature mismatch")
	ErrOrderMismatch     = errs.New("payment belongs to a different order")
)

// PaymentFetcher is the slice of the gateway client the verifier needs.
type PaymentFetcher interface {
	Fetch(paymentID string, queryParams map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// RazorpayVerifier checks a payment reference against the gateway. With a checkout
// signature it verifies the HMAC locally; without one (webhook path) it fetches the
// payment and requires a captured or authorized status for the same order.
type RazorpayVerifier struct {
	payments  PaymentFetcher
	keySecret string
}

func NewRazorpayVerifier(cfg config.PaymentConfig) *RazorpayVerifier {
	client := razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	return NewRazorpayVerifierWithFetcher(client.Payment, cfg.KeySecret)
}

func NewRazorpayVerifierWithFetcher(payments PaymentFetcher, keySecret string) *RazorpayVerifier {
	return &RazorpayVerifier{payments: payments, keySecret: keySecret}
}

func (v *RazorpayVerifier) Verify(ctx context.Context, ref booking.PaymentRef) (bool, error) {
	if err := ref.Validate(); err != nil {
		return false, err
	}

	// without an order there is nothing to tie the payment to this checkout
	if ref.OrderID == "" {
		return false, nil
	}

	if ref.Signature != "" {
		params := map[string]interface{}{
			"razorpay_order_id":   ref.OrderID,
			"razorpay_payment_id": ref.PaymentID,
		}
		if !utils.VerifyPaymentSignature(params, ref.Signature, v.keySecret) {
			return false, ErrSignatureMismatch
		}
		return true, nil
	}

	// the SDK takes no context; honour cancellation around the blocking call
	type result struct {
		body map[string]interface{}
		err  error
	}
	done := make(chan result, 1)
	go func() {
		body, err := v.payments.Fetch(ref.PaymentID, nil, nil)
		done <- result{body: body, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return false, errs.Wrap(ctx.Err(), "payment fetch")
	case res = <-done:
	}
	if res.err != nil {
		return false, errs.Wrap(res.err, "payment fetch")
	}

	status, _ := res.body["status"].(string)
	if status != "captured" && status != "authorized" {
		return false, nil
	}
	if orderID, _ := res.body["order_id"].(string); orderID != ref.OrderID {
		return false, ErrOrderMismatch
	}
	return true, nil
}

// WebhookVerifier checks the X-Razorpay-Signature header over the raw request body.
type WebhookVerifier struct {
	secret string
}

func NewWebhookVerifier(cfg config.PaymentConfig) *WebhookVerifier {
	return &WebhookVerifier{secret: cfg.WebhookSecret}
}

func (w *WebhookVerifier) Valid(body []byte, signature string) bool {
	if signature == "" || w.secret == "" {
		return false
	}
	return utils.VerifyWebhookSignature(string(body), signature, w.secret)
}
