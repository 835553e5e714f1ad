package router

import (
	"github.com/gin-gonic/gin"
	"github.com/hjkwon/paymap-backend/config"
	"github.com/hjkwon/paymap-backend/internal/app/controller"
	"github.com/hjkwon/paymap-backend/internal/middleware"
	"github.com/hjkwon/paymap-backend/internal/websocket"
)

type Router struct {
	authController         *controller.AuthController
	storeController        *controller.StoreController
	verificationController *controller.VerificationController
	commentController      *controller.CommentController
	adminController        *controller.AdminController
	uploadController       *controller.UploadController
	authMiddleware         *middleware.AuthMiddleware
	hub                    *websocket.Hub
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	storeController *controller.StoreController,
	verificationController *controller.VerificationController,
	commentController *controller.CommentController,
	adminController *controller.AdminController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	hub *websocket.Hub,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		storeController:        storeController,
		verificationController: verificationController,
		commentController:      commentController,
		adminController:        adminController,
		uploadController:       uploadController,
		authMiddleware:         authMiddleware,
		hub:                    hub,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "PAYMAP API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
		}

		stores := v1.Group("/stores")
		{
			stores.GET("", r.storeController.ListStores)
			stores.GET("/check-duplicate", r.storeController.CheckDuplicate)
			stores.GET("/me", r.authMiddleware.Authenticate(), r.storeController.MyStores)
			stores.GET("/:id", r.storeController.GetStoreByID)
			stores.POST("", r.authMiddleware.Authenticate(), r.storeController.CreateStore)
			stores.DELETE("/:id", r.authMiddleware.Authenticate(), r.storeController.DeleteStore)

			stores.GET("/:id/verifications", r.verificationController.ListByStore)
			stores.POST("/:id/verifications",
				r.authMiddleware.Authenticate(),
				r.verificationController.Create,
			)

			stores.GET("/:id/comments", r.commentController.ListByStore)
			stores.POST("/:id/comments",
				r.authMiddleware.Authenticate(),
				r.commentController.Create,
			)
		}

		verifications := v1.Group("/verifications")
		verifications.Use(r.authMiddleware.Authenticate())
		{
			verifications.GET("/me", r.verificationController.MyVerifications)
			verifications.DELETE("/:id", r.verificationController.Delete)
		}

		comments := v1.Group("/comments")
		comments.Use(r.authMiddleware.Authenticate())
		{
			comments.PUT("/:id", r.commentController.Update)
			comments.DELETE("/:id", r.commentController.Delete)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/stats", r.adminController.GetStats)
			admin.GET("/users", r.adminController.ListUsers)
			admin.PUT("/users/:id/trust-level", r.adminController.UpdateUserTrustLevel)
			admin.PUT("/users/:id/role", r.adminController.UpdateUserRole)
			admin.GET("/stores", r.adminController.ListStores)
			admin.PUT("/stores/:id/status", r.adminController.UpdateStoreStatus)
			admin.DELETE("/stores/:id", r.adminController.DeleteStore)
			admin.GET("/verifications", r.adminController.ListVerifications)
			admin.GET("/comments", r.adminController.ListComments)
		}

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		{
			upload.POST("/image", r.uploadController.GeneratePresignedURL)
		}

		v1.GET("/ws", r.authMiddleware.Authenticate(), func(c *gin.Context) {
			userID, _ := middleware.GetUserID(c)
			websocket.ServeWS(r.hub, userID)(c)
		})
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
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
