package api

import (
	"github.com/gin-gonic/gin"
)

// UserHeader carries the caller's identity. Authentication happens in front
// of the service; requests without the header run as DefaultUser.
const (
	UserHeader  = "X-User-ID"
	DefaultUser = "anonymous"
)

// AuthMiddleware sets "userID" in the context from UserHeader.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(UserHeader)
		if userID == "" {
			userID = DefaultUser
		}
		c.Set("userID", userID)
		c.Next()
	}
}

// RegisterRoutes registers all the routes for the job service.
func RegisterRoutes(router *gin.Engine, api *API) {
	router.GET("/status", api.StatusHandler)

	v1 := router.Group("/api/v1")
	v1.Use(AuthMiddleware())
	{
		jobs := v1.Group("/jobs")
		jobs.POST("", api.SubmitJobHandler)
		jobs.GET("", api.ListJobsHandler)
		jobs.GET("/:id", api.GetJobHandler)

		v1.GET("/motifsets/:ws/:obj/:ver", api.GetMotifSetHandler)
		v1.POST("/sequencesets", api.ImportSequenceSetHandler)
	}

	ws := router.Group("/ws")
	ws.Use(AuthMiddleware())
	{
		ws.GET("/subscribe", api.WebSocketHandler)
	}
}
