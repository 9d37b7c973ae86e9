package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hummingbird-Tech-Studio/ketone/internal/service"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	cycleService service.CycleService,
	planService service.PlanService,
	templateService service.PlanTemplateService,
) {

	authHandler := NewAuthHandler(authService)
	cycleHandler := NewCycleHandler(cycleService)
	planHandler := NewPlanHandler(planService)
	templateHandler := NewTemplateHandler(templateService)

	authMiddleware := AuthMiddleware(jwtSecret)
	router.Use(RequestIDMiddleware())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	v1 := router.Group("/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := v1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex()})
		})

		// --- Cycle Routes ---
		cycleGroup := protected.Group("/cycles")
		{
			cycleGroup.POST("", cycleHandler.StartCycle)
			cycleGroup.GET("", cycleHandler.ListCycles)
			cycleGroup.GET("/active", cycleHandler.GetActiveCycle)
			cycleGroup.GET("/:id", cycleHandler.GetCycle)
			cycleGroup.PATCH("/:id", cycleHandler.UpdateCycle)
			cycleGroup.POST("/:id/complete", cycleHandler.CompleteCycle)
		}

		// --- Plan Routes ---
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("", planHandler.CreatePlan)
			planGroup.GET("", planHandler.ListPlans)
			planGroup.GET("/active", planHandler.GetActivePlan)
			planGroup.GET("/:id", planHandler.GetPlan)
			planGroup.GET("/:id/periods/:order", planHandler.GetPlanPeriod)
			planGroup.PATCH("/:id", planHandler.UpdatePlan)
			planGroup.PUT("/:id/periods", planHandler.UpdatePlanPeriods)
			planGroup.POST("/:id/cancel", planHandler.CancelPlan)
			planGroup.POST("/:id/complete", planHandler.CompletePlan)
		}

		// --- Template Routes ---
		templateGroup := protected.Group("/plan-templates")
		{
			templateGroup.POST("", templateHandler.CreateTemplate)
			templateGroup.GET("", templateHandler.ListTemplates)
			templateGroup.GET("/:id", templateHandler.GetTemplate)
			templateGroup.PATCH("/:id", templateHandler.UpdateTemplate)
			templateGroup.DELETE("/:id", templateHandler.DeleteTemplate)
			templateGroup.POST("/:id/duplicate", templateHandler.DuplicateTemplate)
			templateGroup.POST("/:id/apply", templateHandler.ApplyTemplate)
		}
	}
}
