package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/hafizsameer11/colala-api-sub004/internal/config"
	"github.com/hafizsameer11/colala-api-sub004/internal/events"
	"github.com/hafizsameer11/colala-api-sub004/internal/handlers"
	"github.com/hafizsameer11/colala-api-sub004/internal/middleware"
	"github.com/hafizsameer11/colala-api-sub004/internal/models"
	"github.com/hafizsameer11/colala-api-sub004/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, publisher *events.Publisher) {
	notifications := services.NewNotificationService(db)
	escrow := services.NewEscrowService(db)
	checkout := services.NewCheckoutService(db, cfg.PlatformFeePercent, notifications, publisher)
	sellerOrders := services.NewSellerOrderService(db, notifications, publisher)
	payment := services.NewPaymentService(db, escrow, notifications, publisher)
	disputes := services.NewDisputeService(db, escrow, notifications, publisher)
	admin := services.NewAdminService(db, escrow, notifications)
	boosts := services.NewBoostService(db)

	authHandler := handlers.NewAuthHandler(db, cfg)
	cartHandler := handlers.NewCartHandler(db)
	checkoutHandler := handlers.NewCheckoutHandler(checkout)
	orderHandler := handlers.NewOrderHandler(db, payment)
	sellerOrderHandler := handlers.NewSellerOrderHandler(sellerOrders)
	paymentHandler := handlers.NewPaymentHandler(payment)
	escrowHandler := handlers.NewEscrowHandler(escrow)
	disputeHandler := handlers.NewDisputeHandler(disputes)
	adminHandler := handlers.NewAdminHandler(admin, disputes)
	boostHandler := handlers.NewBoostHandler(boosts)
	storeHandler := handlers.NewStoreHandler(db)
	productHandler := handlers.NewProductHandler(db)
	profileHandler := handlers.NewProfileHandler(db)
	notificationHandler := handlers.NewNotificationHandler(notifications)
	walletHandler := handlers.NewWalletHandler(db)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "success", "message": "ok"})
	})

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)

	// Public catalog
	api.Get("/products", productHandler.List)
	api.Get("/products/:id", productHandler.Get)
	api.Get("/stores/:id", storeHandler.GetStore)

	// Boost telemetry is unauthenticated fire-and-forget ingestion.
	api.Post("/boosts/:id/events", boostHandler.RecordEvent)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)
	protected.Get("/profile/addresses", profileHandler.ListAddresses)
	protected.Post("/profile/addresses", profileHandler.CreateAddress)
	protected.Put("/profile/addresses/:id", profileHandler.UpdateAddress)
	protected.Delete("/profile/addresses/:id", profileHandler.DeleteAddress)

	protected.Get("/cart", cartHandler.GetCart)
	protected.Post("/cart/items", cartHandler.AddItem)
	protected.Put("/cart/items/:id", cartHandler.UpdateItem)
	protected.Delete("/cart/items/:id", cartHandler.RemoveItem)

	protected.Post("/checkout/preview", checkoutHandler.Preview)
	protected.Post("/checkout/place", checkoutHandler.Place)

	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Post("/orders/:id/confirm-delivered", orderHandler.ConfirmDelivered)

	protected.Post("/payment/confirmation", paymentHandler.Confirmation)

	protected.Get("/escrow", escrowHandler.List)
	protected.Get("/escrow/history", escrowHandler.History)

	protected.Post("/dispute", disputeHandler.Open)
	protected.Get("/dispute", disputeHandler.List)
	protected.Get("/dispute/:id", disputeHandler.Get)

	protected.Get("/notifications", notificationHandler.List)
	protected.Post("/notifications/:id/read", notificationHandler.MarkRead)

	protected.Get("/wallet", walletHandler.GetWallet)
	protected.Get("/wallet/transactions", walletHandler.ListTransactions)

	// Seller routes
	seller := protected.Group("/seller", middleware.RequireRole(models.RoleSeller, models.RoleAdmin))
	seller.Post("/store", storeHandler.CreateStore)
	seller.Get("/store", storeHandler.GetMyStore)
	seller.Put("/store", storeHandler.UpdateStore)
	seller.Post("/store/delivery-pricings", storeHandler.CreateDeliveryPricing)
	seller.Delete("/store/delivery-pricings/:id", storeHandler.DeleteDeliveryPricing)

	seller.Post("/products", productHandler.Create)
	seller.Put("/products/:id", productHandler.Update)
	seller.Delete("/products/:id", productHandler.Delete)
	seller.Post("/products/:id/variants", productHandler.CreateVariant)

	seller.Get("/orders", sellerOrderHandler.List)
	seller.Get("/orders/:id", sellerOrderHandler.Get)
	seller.Post("/orders/:id/accept", sellerOrderHandler.Accept)
	seller.Post("/orders/:id/reject", sellerOrderHandler.Reject)

	protected.Post("/boosts", middleware.RequireRole(models.RoleSeller), boostHandler.Create)
	protected.Get("/boosts", middleware.RequireRole(models.RoleSeller), boostHandler.List)
	protected.Get("/boosts/:id", middleware.RequireRole(models.RoleSeller), boostHandler.Get)
	protected.Put("/boosts/:id/status", middleware.RequireRole(models.RoleSeller), boostHandler.SetStatus)

	// Admin routes
	adminGroup := protected.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	adminGroup.Post("/disputes/:id/resolve", adminHandler.ResolveDispute)
	adminGroup.Post("/orders/:id/cancel", adminHandler.CancelStoreOrder)
}
