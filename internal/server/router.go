// Package server assembles the HTTP router for the DRE budget API.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"drebuilder/internal/handlers"
	"drebuilder/internal/middleware"
	"drebuilder/internal/services"

	_ "drebuilder/internal/docs" // Import swagger docs
)

// Services bundles what the router needs to serve requests.
type Services struct {
	Sessions services.SessionServicer
	Budget   services.BudgetServicer
	Activity services.ActivityServicer
}

// NewRouter builds the Gin engine with middleware and every API route.
func NewRouter(svc Services) *gin.Engine {
	sessionHandler := handlers.NewSessionHandler(svc.Sessions)
	budgetHandler := handlers.NewBudgetHandler(svc.Budget)
	subtotalHandler := handlers.NewSubtotalHandler(svc.Budget)
	reportHandler := handlers.NewReportHandler(svc.Budget, svc.Activity)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	v1.POST("/sessions", sessionHandler.CreateSession)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.SessionAuthMiddleware())

	protected.GET("/sessions/current", sessionHandler.GetCurrentSession)
	protected.DELETE("/sessions/current", sessionHandler.EndSession)

	budget := protected.Group("/budget")
	budget.GET("", budgetHandler.GetBudget)
	budget.GET("/totals", budgetHandler.GetTotals)
	budget.GET("/report", reportHandler.GetReport)
	budget.GET("/activity", reportHandler.GetActivity)

	items := budget.Group("/items")
	items.POST("", budgetHandler.AddRootItem)
	items.PATCH("/:id", budgetHandler.RenameItem)
	items.DELETE("/:id", budgetHandler.DeleteItem)
	items.POST("/:id/children", budgetHandler.AddChildItem)
	items.PUT("/:id/values/:month", budgetHandler.SetItemValue)
	items.POST("/:id/toggle-expanded", budgetHandler.ToggleItemExpanded)
	items.POST("/:id/toggle-sign", budgetHandler.ToggleItemSign)
	items.POST("/:id/move", budgetHandler.MoveItem)

	subtotals := budget.Group("/subtotals")
	subtotals.POST("", subtotalHandler.CreateSubtotal)
	subtotals.GET("", subtotalHandler.GetSubtotals)
	subtotals.GET("/:id", subtotalHandler.GetSubtotal)
	subtotals.DELETE("/:id", subtotalHandler.DeleteSubtotal)
	subtotals.POST("/:id/toggle-visibility", subtotalHandler.ToggleSubtotalVisibility)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
