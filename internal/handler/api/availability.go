package api

import (
	"net/http"

	reqdto "lounge-booking/internal/handler/dto/request"
	resdto "lounge-booking/internal/handler/dto/response"
	"lounge-booking/internal/handler/httperr"
	"lounge-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	q queries.AvailabilityQueries
}

func NewAvailabilityHandler(q queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{q: q}
}

// @Summary Check availability
// @Description Report per-station availability for one slot. station_id accepts ids, names, an array or a comma-separated list.
// @Tags availability
// @Accept json
// @Produce json
// @Param request body reqdto.AvailabilityRequest true "Availability request"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/availability [post]
func (h *AvailabilityHandler) Check(c *gin.Context) {
	var req reqdto.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", gin.H{
			"required": queries.RequiredAvailabilityFields,
		})
		return
	}

	result, err := h.q.CheckAvailability(c.Request.Context(), req.ToQuery())
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	resp, err := resdto.FromAvailabilityResult(result)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}
