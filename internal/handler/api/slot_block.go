package api

import (
	"net/http"

	reqdto "lounge-booking/internal/handler/dto/request"
	resdto "lounge-booking/internal/handler/dto/response"
	"lounge-booking/internal/handler/httperr"
	"lounge-booking/internal/usecase/commands"
	"lounge-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type SlotBlockHandler struct {
	cmds commands.SlotBlockCommands
}

func NewSlotBlockHandler(cmds commands.SlotBlockCommands) *SlotBlockHandler {
	return &SlotBlockHandler{cmds: cmds}
}

// @Summary Hold a slot during checkout
// @Description Create temporary holds on every requested station. Holds expire on their own.
// @Tags slot-blocks
// @Accept json
// @Produce json
// @Param request body reqdto.CreateSlotBlockRequest true "Slot block request"
// @Success 201 {object} resdto.SlotBlockResponse
// @Failure 400 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/slot-blocks [post]
func (h *SlotBlockHandler) Create(c *gin.Context) {
	var req reqdto.CreateSlotBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", gin.H{
			"required": queries.RequiredAvailabilityFields,
		})
		return
	}

	result, err := h.cmds.CreateBlock(c.Request.Context(), req.ToParams())
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	resp, err := resdto.FromCreateBlockResult(result)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary Release slot holds
// @Description Release unconfirmed holds, e.g. when the checkout is abandoned
// @Tags slot-blocks
// @Accept json
// @Produce json
// @Param request body reqdto.ReleaseSlotBlocksRequest true "Block ids"
// @Success 200 {object} resdto.ReleaseResponse
// @Failure 400 {object} httperr.Response
// @Router /api/slot-blocks [delete]
func (h *SlotBlockHandler) Release(c *gin.Context) {
	var req reqdto.ReleaseSlotBlocksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", gin.H{
			"required": []string{"block_ids"},
		})
		return
	}

	n, err := h.cmds.ReleaseBlocks(c.Request.Context(), req.BlockIDs)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.ReleaseResponse{OK: true, Released: n})
}
