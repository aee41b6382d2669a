package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/bazario/internal/config"
	"github.com/example/bazario/internal/handlers"
	"github.com/example/bazario/internal/middleware"
	"github.com/example/bazario/internal/otp"
	"github.com/example/bazario/internal/repository"
	"github.com/example/bazario/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, registry *otp.Registry) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramChatID)
	smsService := services.NewSMSService(cfg.SMSGatewayURL, cfg.SMSAPIKey)
	otpService := otp.NewService(db, smsService)

	timingRepo := repository.NewTimingRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	authHandler := handlers.NewAuthHandler(db, cfg, registry, otpService)
	profileHandler := handlers.NewProfileHandler(db)
	timingHandler := handlers.NewTimingHandler(timingRepo, telegramService)
	productHandler := handlers.NewProductHandler(productRepo)
	orderHandler := handlers.NewOrderHandler(orderRepo, telegramService)
	analyticsHandler := handlers.NewAnalyticsHandler(db)
	commissionHandler := handlers.NewCommissionHandler(db, cfg)
	offerHandler := handlers.NewOfferHandler(db)

	api := app.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/otp/send", authHandler.SendOTP)
	auth.Post("/otp/resend", authHandler.ResendOTP)
	auth.Post("/otp/verify", authHandler.VerifyOTP)
	auth.Post("/login", authHandler.Login)
	auth.Post("/check-phone", authHandler.CheckPhone)
	auth.Post("/logout", authHandler.Logout)

	// Everything below requires a logged-in store owner
	protected := api.Group("/", middleware.AuthMiddleware(cfg))

	store := protected.Group("/store")
	store.Get("/profile", profileHandler.GetProfile)
	store.Put("/profile", profileHandler.UpdateProfile)

	timings := store.Group("/timings")
	timings.Get("/", timingHandler.GetTimings)
	timings.Put("/", timingHandler.UpdateTimings)
	timings.Post("/bulk", timingHandler.BulkEdit)
	timings.Patch("/:id/toggle", timingHandler.ToggleDay)

	store.Get("/status", timingHandler.StoreStatus)
	store.Post("/holidays", timingHandler.SetHoliday)
	store.Get("/holidays", timingHandler.ListHolidays)

	products := protected.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Post("/", productHandler.CreateProduct)
	products.Get("/:id", productHandler.GetProduct)
	products.Put("/:id", productHandler.UpdateProduct)
	products.Patch("/:id/toggle", productHandler.ToggleProduct)
	products.Delete("/:id", productHandler.DeleteProduct)

	orders := protected.Group("/orders")
	orders.Get("/", orderHandler.ListOrders)
	orders.Get("/stats", orderHandler.Stats)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Patch("/:id/status", orderHandler.UpdateStatus)

	analytics := protected.Group("/analytics")
	analytics.Get("/dashboard", analyticsHandler.Dashboard)
	analytics.Get("/revenue", analyticsHandler.RevenueSeries)

	protected.Get("/commission/summary", commissionHandler.Summary)

	offers := protected.Group("/offers")
	offers.Get("/", offerHandler.ListOffers)
	offers.Post("/", offerHandler.CreateOffer)
	offers.Put("/:id", offerHandler.UpdateOffer)
	offers.Patch("/:id/toggle", offerHandler.ToggleOffer)
	offers.Delete("/:id", offerHandler.DeleteOffer)
}
