package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/abhinavmishra97/ai-call-processing-service/src/models"
	"github.com/abhinavmishra97/ai-call-processing-service/src/schemas"
	"github.com/abhinavmishra97/ai-call-processing-service/src/service"
	"github.com/abhinavmishra97/ai-call-processing-service/src/utils"

	"github.com/gin-gonic/gin"
)

// CallController exposes the end-of-call and call read endpoints.
type CallController struct {
	Service *service.CallService
}

func NewCallController(svc *service.CallService) *CallController {
	return &CallController{
		Service: svc,
	}
}

// @Summary End a call
// @Description Signals end-of-call and schedules background AI processing. Repeat signals are idempotent and report already_completed.
// @Tags calls
// @Produce json
// @Param call_id path string true "Call ID"
// @Success 200 {object} schemas.EndCallResponse
// @Failure 404 {object} schemas.ErrorResponse
// @Failure 500 {object} schemas.ErrorResponse
// @Router /v1/call/{call_id}/end [post]
func (cc *CallController) EndCall(ctx *gin.Context) {
	callID := ctx.Param("call_id")
	instance := "/v1/call/" + callID + "/end"

	outcome, err := cc.Service.EndCall(ctx.Request.Context(), callID)
	if err != nil {
		if errors.Is(err, models.ErrCallNotFound) {
			utils.SendError(ctx, schemas.NewNotFoundError(
				fmt.Sprintf("call with ID %s not found", callID),
				instance,
			))
			return
		}
		slog.Error("End-of-call signal failed", "call_id", callID, "error", err)
		utils.SendError(ctx, schemas.NewInternalError("failed to end call", instance))
		return
	}

	ctx.JSON(http.StatusOK, schemas.EndCallResponse{
		Status: outcome.Status,
		State:  string(outcome.State),
	})
}

// @Summary Get a call
// @Description Returns the call snapshot, including the asynchronous processing outcome once available.
// @Tags calls
// @Produce json
// @Param call_id path string true "Call ID"
// @Success 200 {object} schemas.CallResponse
// @Failure 404 {object} schemas.ErrorResponse
// @Failure 500 {object} schemas.ErrorResponse
// @Router /v1/call/{call_id} [get]
func (cc *CallController) GetCall(ctx *gin.Context) {
	callID := ctx.Param("call_id")
	instance := "/v1/call/" + callID

	call, err := cc.Service.GetCall(ctx.Request.Context(), callID)
	if err != nil {
		if errors.Is(err, models.ErrCallNotFound) {
			utils.SendError(ctx, schemas.NewNotFoundError(
				fmt.Sprintf("call with ID %s not found", callID),
				instance,
			))
			return
		}
		slog.Error("Failed to fetch call", "call_id", callID, "error", err)
		utils.SendError(ctx, schemas.NewInternalError("failed to fetch call", instance))
		return
	}

	ctx.JSON(http.StatusOK, schemas.CallResponse{
		CallID:       call.CallID,
		Status:       string(call.Status),
		LastSequence: call.LastSequence,
		Transcript:   call.Transcript,
		Sentiment:    call.Sentiment,
		CreatedAt:    call.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    call.UpdatedAt.Format(time.RFC3339),
	})
}
