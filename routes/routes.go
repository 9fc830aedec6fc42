package routes

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	controller "minicrm/controllers"
	"minicrm/delivery"
	"minicrm/middleware"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	controller.InitGoogleOAuth()

	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints (no authentication required)
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)
	auth.Post("/refresh", controller.RefreshToken)

	// Google OAuth routes
	auth.Get("/google", controller.GoogleOAuth)
	auth.Get("/google/callback", controller.GoogleOAuthCallback)

	// Protected auth endpoints (require valid JWT)
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Get("/me", controller.GetCurrentUser)
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB) {
	// One reconciler shared by the send and receipt paths
	reconciler := delivery.NewReconciler(
		delivery.NewGormStore(db),
		delivery.NewSimulatedVendor(time.Now().UnixNano()),
		nil,
	)

	campaignController := controller.NewCampaignController(db, log.New(os.Stdout, "CAMPAIGN: ", log.LstdFlags), reconciler)
	customerController := controller.NewCustomerController(db, log.New(os.Stdout, "CUSTOMER: ", log.LstdFlags))
	orderController := controller.NewOrderController(db, log.New(os.Stdout, "ORDER: ", log.LstdFlags))
	deliveryController := controller.NewDeliveryController(db, log.New(os.Stdout, "DELIVERY: ", log.LstdFlags), reconciler)

	// API group with versioning and protection
	api := app.Group("/api/v1", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Campaign routes
	campaign := api.Group("/campaigns")
	campaign.Post("/", campaignController.CreateCampaign)
	campaign.Get("/history", campaignController.GetCampaignHistory)
	campaign.Post("/:id/send", campaignController.SendCampaign)

	// Customer routes
	customer := api.Group("/customers")
	customer.Post("/", customerController.CreateCustomer)
	customer.Get("/", customerController.GetCustomers)
	customer.Get("/:id", customerController.GetCustomer)
	customer.Put("/:id", customerController.UpdateCustomer)
	customer.Delete("/:id", customerController.DeleteCustomer)
	customer.Post("/:id/visit", customerController.RecordCustomerVisit)

	// Order routes
	order := api.Group("/orders")
	order.Post("/", orderController.CreateOrder)
	order.Get("/", orderController.GetOrders)
	order.Get("/:id", orderController.GetOrder)
	order.Put("/:id", orderController.UpdateOrder)
	order.Delete("/:id", orderController.DeleteOrder)

	// Vendor callback: unauthenticated in some deployments, so it sits
	// outside the protected group behind a rate limiter.
	app.Post("/delivery-receipt", middleware.ReceiptRateLimiter(), deliveryController.DeliveryReceipt)
}

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAuthRoutes(app, db)
	SetupAPIRoutes(app, db)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
