package routes

import (
	"container-tracker/controllers/auth"
	"container-tracker/controllers/container"
	"container-tracker/controllers/user"
	"container-tracker/logger"
	"container-tracker/middleware"
	userModel "container-tracker/models/user"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	asyncLogger := logger.NewAsyncLogger(db)
	authController := auth.NewAuthController(db, asyncLogger)
	containerController := container.NewContainerController(db, asyncLogger)
	userController := user.NewUserController(db, asyncLogger)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api")
	api.Post("/auth/login", authController.Login)

	api.Get("/container-types", containerController.Types)

	/*=============================================================================
	| Auth Routes
	===============================================================================*/
	authGroup := api.Group("/auth").Use(middleware.IsAuthenticated())
	authGroup.Get("/verify", authController.Verify)
	authGroup.Get("/profile", authController.Profile)
	authGroup.Put("/profile", authController.UpdateProfile)
	authGroup.Post("/change-password", authController.ChangePassword)
	authGroup.Post("/logout", authController.Logout)

	/*=============================================================================
	| Container Routes
	===============================================================================*/
	containerGroup := api.Group("/containers")
	containerGroup.Get("/", containerController.Index)
	containerGroup.Get("/stats/overview", containerController.Stats)
	containerGroup.Get("/:id", containerController.Show)

	containerGroup.Post("/", middleware.IsAuthenticated(), containerController.Store)
	containerGroup.Put("/:id", middleware.IsAuthenticated(), containerController.Update)
	containerGroup.Delete("/:id", middleware.IsAuthenticated(), containerController.Destroy)

	/*=============================================================================
	| User Management Routes (admin only)
	===============================================================================*/
	userGroup := api.Group("/users").
		Use(middleware.IsAuthenticated()).
		Use(middleware.RequireRole(userModel.RoleAdmin))
	userGroup.Get("/", userController.Index)
	userGroup.Get("/:id", userController.Show)
	userGroup.Get("/:id/activity", userController.Activity)
	userGroup.Post("/", userController.Store)
	userGroup.Put("/:id", userController.Update)
	userGroup.Put("/:id/password", userController.SetPassword)
	userGroup.Delete("/:id", userController.Destroy)
}
