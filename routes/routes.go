package routes

import (
	"net/http"
	"time"

	"github.com/jabezgenics-alt/ezzo-sales/handlers"
	"github.com/jabezgenics-alt/ezzo-sales/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers account endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Register)
		api.POST("/login", hb.Login)

		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.POST("/logout", hb.Logout)
	}
}

// RegisterEnquiryRoutes sets up the customer conversation endpoints.
func RegisterEnquiryRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/enquiries")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.POST("", hb.CreateEnquiry)
		api.GET("", hb.ListMyEnquiries)
		api.GET("/:id", hb.GetEnquiry)
		api.GET("/:id/messages", hb.EnquiryMessages)
		api.POST("/:id/answer", hb.AnswerEnquiry)
		api.GET("/:id/draft", hb.PreviewDraft)
		api.POST("/:id/submit", hb.SubmitQuote)
	}
}

// RegisterAdminRoutes sets up quote review and configuration endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo), middleware.AdminOnly())

		// Quote lifecycle.
		api.GET("/quotes/pending", hb.ListPendingQuotes)
		api.GET("/quotes", hb.ListQuotes)
		api.GET("/quotes/:id", hb.GetQuote)
		api.PATCH("/quotes/:id", hb.EditQuote)
		api.POST("/quotes/:id/approve", hb.ApproveQuote)
		api.POST("/quotes/:id/reject", hb.RejectQuote)
		api.POST("/quotes/:id/send", hb.SendQuoteToCustomer)
		api.GET("/quotes/:id/audit", hb.QuoteAuditTrail)

		// Decision tree management.
		api.POST("/trees", hb.CreateTree)
		api.GET("/trees", hb.ListTrees)
		api.GET("/trees/:id", hb.GetTree)
		api.PUT("/trees/:id", hb.UpdateTree)
		api.DELETE("/trees/:id", hb.DeleteTree)

		// Catalog management.
		api.POST("/chunks", hb.CreateChunk)
		api.GET("/chunks", hb.ListChunks)
		api.GET("/chunks/:id", hb.GetChunk)
		api.DELETE("/chunks/:id", hb.DeleteChunk)

		// Business rule management.
		api.POST("/rules", hb.CreateRule)
		api.GET("/rules", hb.ListRules)
		api.GET("/rules/:id", hb.GetRule)
		api.PUT("/rules/:id", hb.UpdateRule)
		api.DELETE("/rules/:id", hb.DeleteRule)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Ezzo"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterEnquiryRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
