package main

import (
	"log"
	"time"

	"ecommerce_api/internal/config"
	"ecommerce_api/internal/database"
	"ecommerce_api/internal/handlers"
	"ecommerce_api/internal/redis"
	"ecommerce_api/internal/repository"
	"ecommerce_api/internal/services"
	"ecommerce_api/internal/token"
	"ecommerce_api/pkg/mpesa"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis catalog cache; the API serves from the database
	// alone when the cache is unavailable.
	cache, err := redis.Initialize(cfg.RedisURL, time.Duration(cfg.CacheTTL)*time.Second)
	if err != nil {
		log.Printf("Warning: Redis unavailable, catalog caching disabled: %v", err)
		cache = nil
	}

	// Initialize M-Pesa client
	mpesaClient := mpesa.NewClient(
		cfg.MpesaBaseURL,
		cfg.MpesaConsumerKey,
		cfg.MpesaConsumerSecret,
		cfg.MpesaShortCode,
		cfg.MpesaPasskey,
		cfg.MpesaCallbackURL,
	)

	// Initialize store and token maker
	store := repository.NewStore(db)
	tokens := token.NewMaker(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)

	// Initialize services
	authService := services.NewAuthService(store, tokens)
	catalogService := services.NewCatalogService(store, cache)
	cartService := services.NewCartService(store)
	orderService := services.NewOrderService(store)
	paymentService := services.NewPaymentService(store, mpesaClient)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	router := handlers.NewRouter(tokens, authHandler, productHandler, cartHandler, orderHandler, paymentHandler)

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
