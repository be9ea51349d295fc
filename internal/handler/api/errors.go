package api

import (
	"errors"
	"net/http"

	"lounge-booking/internal/handler/httperr"
	"lounge-booking/internal/pkg/errs"
	"lounge-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

const slotTakenSupportMessage = "Your payment was received but the selected slot was taken by another customer. " +
	"Please contact lounge staff with your payment id for a refund or a new slot."

// abortWithUseCaseError maps the usecase error taxonomy onto HTTP statuses.
func abortWithUseCaseError(c *gin.Context, err error) {
	var validation *queries.ValidationError
	var notFound *queries.StationNotFoundError

	switch {
	case errors.As(err, &validation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, validation.Reason, gin.H{
			"required": validation.Required,
			"received": validation.Received,
		})
	case errors.As(err, &notFound):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Station not found", gin.H{
			"unmatched":          notFound.Unmatched,
			"available_stations": notFound.Catalog,
		})
	case errs.Is(err, errs.ErrPaymentInvalid):
		httperr.AbortWithError(c, http.StatusPaymentRequired, err, "Payment could not be verified", nil)
	case errs.Is(err, errs.ErrSlotNoLongerAvailable):
		httperr.AbortWithError(c, http.StatusConflict, err, "Slot no longer available", gin.H{
			"support": slotTakenSupportMessage,
		})
	case errs.Is(err, errs.ErrValidation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
	case errs.Is(err, errs.ErrInvalidPayload):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking data", nil)
	case errs.Is(err, errs.ErrStorage):
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Temporarily unavailable, please retry", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
