package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"medlink-backend/internal/domains/user"
	"medlink-backend/internal/shared/middleware"
	"medlink-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.CORS(c.Config.App.FrontendURL),
	)

	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupCustomerRoutes(v1, c)
		setupPharmacyRoutes(v1, c)
		setupMedicineRoutes(v1, c)
		setupReviewRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", c.AuthHandler.Signup)
		auth.POST("/verify-email", c.AuthHandler.VerifyEmail)
		auth.POST("/login", c.AuthHandler.Login)
		auth.POST("/refresh", c.AuthHandler.RefreshToken)
		auth.POST("/logout", c.AuthHandler.Logout)
		auth.POST("/forgot-password", c.AuthHandler.ForgotPassword)
		auth.POST("/reset-password", c.AuthHandler.ResetPassword)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users")
	users.Use(middleware.Auth(c.Store))
	{
		users.GET("/me", c.UserHandler.Me)
	}
}

// ========================================
// CUSTOMER ROUTES
// ========================================
func setupCustomerRoutes(v1 *gin.RouterGroup, c *container.Container) {
	customers := v1.Group("/customers")
	customers.Use(middleware.Auth(c.Store), middleware.RequireRole(user.RoleCustomer))
	{
		customers.GET("/profile", c.CustomerHandler.GetProfile)
		customers.PUT("/profile", c.CustomerHandler.SetProfile)
		customers.GET("/recommendations", c.CustomerHandler.Recommendations)
	}
}

// ========================================
// PHARMACY ROUTES
// ========================================
func setupPharmacyRoutes(v1 *gin.RouterGroup, c *container.Container) {
	pharmacies := v1.Group("/pharmacies")
	pharmacies.Use(middleware.Auth(c.Store))
	{
		// Discovery, any authenticated role
		pharmacies.POST("/find", c.PharmacyHandler.Find)
		pharmacies.GET("/:id", c.PharmacyHandler.GetPharmacy)
		pharmacies.GET("/:id/medicines", c.PharmacyHandler.GetMedicines)

		// Pharmacist-only management
		pharmacist := pharmacies.Group("")
		pharmacist.Use(middleware.RequireRole(user.RolePharmacist))
		{
			pharmacist.GET("/profile", c.PharmacyHandler.GetProfile)
			pharmacist.PUT("/profile", c.PharmacyHandler.SetProfile)
			pharmacist.POST("/medicines", c.PharmacyHandler.AddMedicine)
			pharmacist.PUT("/medicines/:id", c.PharmacyHandler.UpdateMedicine)
			pharmacist.DELETE("/medicines", c.PharmacyHandler.DeleteMedicines)
		}
	}
}

// ========================================
// MEDICINE ROUTES
// ========================================
func setupMedicineRoutes(v1 *gin.RouterGroup, c *container.Container) {
	medicines := v1.Group("/medicines")
	medicines.Use(middleware.Auth(c.Store))
	{
		medicines.GET("/:id", c.PharmacyHandler.GetMedicine)
		medicines.POST("/search", c.PharmacyHandler.SearchMedicines)
		medicines.POST("/ai-lookup", c.PharmacyHandler.SuggestMedicines)
	}
}

// ========================================
// REVIEW ROUTES
// ========================================
func setupReviewRoutes(v1 *gin.RouterGroup, c *container.Container) {
	reviews := v1.Group("/reviews")
	reviews.Use(middleware.Auth(c.Store), middleware.RequireRole(user.RoleCustomer))
	{
		reviews.POST("", c.ReviewHandler.WriteReview)
		reviews.GET("", c.ReviewHandler.ListReviews)
		reviews.DELETE("/:id", c.ReviewHandler.DeleteReview)
		reviews.POST("/medicines", c.ReviewHandler.WriteMedicineReview)
		reviews.GET("/medicines", c.ReviewHandler.ListMedicineReviews)
		reviews.DELETE("/medicines", c.ReviewHandler.DeleteMedicineReviews)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"services":  gin.H{},
		}
		services := gin.H{}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
		} else if err := appCtx.DB.Pool.Ping(ctx); err != nil {
			dbStatus = "unreachable"
		}
		services["database"] = dbStatus

		redisStatus := "ok"
		if appCtx.RedisClient == nil {
			redisStatus = "disconnected"
		} else if err := appCtx.RedisClient.Ping(ctx).Err(); err != nil {
			redisStatus = "unreachable"
		}
		services["redis"] = redisStatus

		health["services"] = services
		status := http.StatusOK
		if dbStatus != "ok" || redisStatus != "ok" {
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, health)
	}
}
