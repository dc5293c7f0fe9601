package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/bazaar/internal/handlers"
	"github.com/example/bazaar/internal/identity"
	"github.com/example/bazaar/internal/middleware"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, svc *identity.Service, guard *middleware.Guard) {
	authHandler := handlers.NewAuthHandler(svc)
	storeHandler := handlers.NewStoreHandler(db)
	productHandler := handlers.NewProductHandler(db)
	categoryHandler := handlers.NewCategoryHandler(db)

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("/register", authHandler.Register)
	users.Post("/verify-otp", authHandler.VerifyOTP)
	users.Post("/resend-otp", authHandler.ResendOTP)
	users.Post("/login", authHandler.Login)
	users.Post("/forgot-password", authHandler.ForgotPassword)
	users.Post("/reset-password", authHandler.ResetPassword)

	stores := api.Group("/stores")
	stores.Post("/", storeHandler.CreateStore)
	stores.Get("/", storeHandler.ListStores)
	stores.Get("/:id", storeHandler.GetStore)
	stores.Put("/:id", guard.StoreAdmin(), storeHandler.UpdateStore)
	stores.Delete("/:id", guard.PlatformAdmin(), storeHandler.DeleteStore)

	products := api.Group("/products")
	products.Post("/", productHandler.CreateProduct)
	products.Get("/", productHandler.ListProducts)
	products.Get("/storeId/:id", productHandler.ListStoreProducts)
	products.Get("/:id", productHandler.GetProduct)
	products.Put("/:id", guard.StoreOrPlatformAdmin(), productHandler.UpdateProduct)
	products.Delete("/:id", guard.StoreOrPlatformAdmin(), productHandler.DeleteProduct)

	categories := api.Group("/category")
	categories.Post("/", guard.StoreOrPlatformAdmin(), categoryHandler.CreateCategory)
	categories.Get("/", categoryHandler.ListCategories)
	categories.Get("/:id", guard.StoreOrPlatformAdmin(), categoryHandler.GetCategory)
	categories.Put("/:id", guard.StoreOrPlatformAdmin(), categoryHandler.UpdateCategory)
	categories.Delete("/:id", guard.StoreOrPlatformAdmin(), categoryHandler.DeleteCategory)
}
