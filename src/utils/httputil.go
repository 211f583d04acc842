package utils

import (
	"log/slog"

	"github.com/abhinavmishra97/ai-call-processing-service/src/schemas"

	"github.com/gin-gonic/gin"
)

// SendError writes an RFC 7807 error response and logs it.
func SendError(ctx *gin.Context, errResp *schemas.ErrorResponse) {
	ctx.JSON(errResp.Status, errResp)
	slog.Error("Request failed",
		"status", errResp.Status,
		"detail", errResp.Detail,
		"instance", errResp.Instance)
}
