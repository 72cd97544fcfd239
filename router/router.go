package router

import (
	"time"

	"github.com/Shr3y4sm/SpendSmart/api"
	"github.com/Shr3y4sm/SpendSmart/config"
	_ "github.com/Shr3y4sm/SpendSmart/docs"
	"github.com/Shr3y4sm/SpendSmart/middleware"
	"github.com/Shr3y4sm/SpendSmart/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Services holds the shared service layer injected into the handlers.
type Services struct {
	Alerts      *service.BudgetAlertService
	Categorizer *service.Categorizer
	Insights    *service.InsightsGenerator
}

// SetupRouter wires all routes.
func SetupRouter(cfg *config.Config, svcs *Services) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	r.Use(CORSMiddleware())

	authHandler := api.NewAuthHandler(cfg)
	expenseHandler := api.NewExpenseHandler(svcs.Alerts)
	budgetHandler := api.NewBudgetHandler()
	statsHandler := api.NewStatsHandler()
	categorizeHandler := api.NewCategorizeHandler(svcs.Categorizer)
	insightsHandler := api.NewInsightsHandler(svcs.Insights)
	exportHandler := api.NewExportHandler()

	// auth routes, no session required
	authLimit := middleware.LoginRateLimit(10, time.Minute)
	r.POST("/register", authLimit, authHandler.Register)
	r.POST("/login", authLimit, authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.POST("/logout", authHandler.Logout)

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health check
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// category list, no session required
	r.GET("/api/categories", expenseHandler.GetCategories)

	// session-protected API
	authorized := r.Group("/api")
	authorized.Use(middleware.SessionAuth())
	{
		authorized.GET("/profile", authHandler.Profile)

		expenses := authorized.Group("/expenses")
		{
			expenses.POST("", expenseHandler.Create)
			expenses.GET("", expenseHandler.List)
			expenses.GET("/:id", expenseHandler.Get)
			expenses.PUT("/:id", expenseHandler.Update)
			expenses.DELETE("/:id", expenseHandler.Delete)
		}

		budget := authorized.Group("/budget")
		{
			budget.GET("", budgetHandler.Get)
			budget.POST("", budgetHandler.Set)
			budget.GET("/status", budgetHandler.Status)
		}

		authorized.GET("/stats", statsHandler.GetStats)
		authorized.GET("/visualization/data", statsHandler.GetVisualizationData)

		authorized.POST("/categorize", categorizeHandler.Categorize)
		authorized.POST("/categorize/suggestions", categorizeHandler.Suggestions)

		authorized.GET("/insights", insightsHandler.GetInsights)
		authorized.GET("/insights/trends", insightsHandler.GetTrends)

		export := authorized.Group("/export")
		{
			export.GET("/csv", exportHandler.ExportCSV)
			export.GET("/json", exportHandler.ExportJSON)
			export.GET("/excel", exportHandler.ExportExcel)
		}
	}

	return r
}

// CORSMiddleware allows cross-origin requests with cookies.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
