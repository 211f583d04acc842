package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/abhinavmishra97/ai-call-processing-service/src/models"
	"github.com/abhinavmishra97/ai-call-processing-service/src/schemas"
	"github.com/abhinavmishra97/ai-call-processing-service/src/service"
	"github.com/abhinavmishra97/ai-call-processing-service/src/utils"

	"github.com/gin-gonic/gin"
)

// StreamController exposes the packet ingestion endpoint.
type StreamController struct {
	Ingestor *service.PacketIngestor
}

func NewStreamController(ingestor *service.PacketIngestor) *StreamController {
	return &StreamController{
		Ingestor: ingestor,
	}
}

// @Summary Ingest a call packet
// @Description Accepts one streamed packet for a call, creating the call on its first packet. Out-of-order packets are accepted and logged, never rejected.
// @Tags calls
// @Accept json
// @Produce json
// @Param call_id path string true "Call ID"
// @Param PacketPayload body schemas.PacketPayload true "Packet Payload"
// @Success 202 {object} schemas.IngestResponse
// @Failure 400 {object} schemas.ErrorResponse
// @Failure 500 {object} schemas.ErrorResponse
// @Router /v1/call/stream/{call_id} [post]
func (sc *StreamController) IngestPacket(ctx *gin.Context) {
	callID := ctx.Param("call_id")
	instance := "/v1/call/stream/" + callID

	var payload schemas.PacketPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		utils.SendError(ctx, schemas.NewBadRequestError(
			"invalid packet payload: "+err.Error(),
			instance,
		))
		return
	}

	err := sc.Ingestor.Ingest(ctx.Request.Context(), callID, *payload.Sequence, payload.Data, payload.Timestamp)
	if err != nil {
		// Only true internal inconsistencies surface here; ordering issues
		// and creation races are absorbed by the ingestor.
		if errors.Is(err, models.ErrRegistryInconsistent) {
			utils.SendError(ctx, schemas.NewInternalError(err.Error(), instance))
			return
		}
		slog.Error("Packet ingestion failed",
			"call_id", callID,
			"sequence", *payload.Sequence,
			"error", err)
		utils.SendError(ctx, schemas.NewInternalError("failed to store packet", instance))
		return
	}

	ctx.JSON(http.StatusAccepted, schemas.IngestResponse{Status: "accepted"})
}
