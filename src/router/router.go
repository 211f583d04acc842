package router

import (
	"net/http"

	"github.com/abhinavmishra97/ai-call-processing-service/src/controller"
	"github.com/abhinavmishra97/ai-call-processing-service/src/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Router struct {
	Logger           *logrus.Logger
	StreamController *controller.StreamController
	CallController   *controller.CallController
}

// SetUpRouter sets up the router for the call processing service.
// It creates a new gin.Engine, wires the controllers and routes,
// and returns the router.
func (r Router) SetUpRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(r.Logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	{
		v1.POST("/call/stream/:call_id", r.StreamController.IngestPacket)
		v1.POST("/call/:call_id/end", r.CallController.EndCall)
		v1.GET("/call/:call_id", r.CallController.GetCall)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
