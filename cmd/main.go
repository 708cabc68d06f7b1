package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"storefront-service/internal/api"
	"storefront-service/internal/config"
	"storefront-service/internal/consumer"
	"storefront-service/internal/pesapal"
	"storefront-service/internal/repository"
	"storefront-service/internal/service"
	"storefront-service/migrations"
)

func connectDB(host, port, user, pass, dbname string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB %s", dbname)
				return db, nil
			}
		}
		log.Printf("Retry %d: Failed to connect to DB %s (%s:%s): %v", i+1, dbname, host, port, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s at %s:%s after retries: %v", dbname, host, port, err)
}

func main() {
	db, err := connectDB(
		config.Getenv("DB_HOST", "localhost"),
		config.Getenv("DB_PORT", "3306"),
		config.Getenv("DB_USER", "root"),
		config.Getenv("DB_PASS", ""),
		config.Getenv("DB_NAME", "storefront"),
	)
	if err != nil {
		panic(err)
	}

	if err := migrations.AutoMigrate(3, db); err != nil {
		log.Fatalf("Failed to migrate tables: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: config.Getenv("REDIS_ADDR", "localhost:6379"),
	})

	kafkaWriter := config.NewKafkaWriter(config.OrderTopic)

	gateway := pesapal.NewClient(pesapal.Config{
		BaseURL:        config.Getenv("PESAPAL_BASE_URL", "https://pay.pesapal.com/v3"),
		ConsumerKey:    config.Getenv("PESAPAL_CONSUMER_KEY", ""),
		ConsumerSecret: config.Getenv("PESAPAL_CONSUMER_SECRET", ""),
		CallbackURL:    config.Getenv("CALLBACK_URL", "http://localhost:8080/api/payment/callback"),
		CancelURL:      config.Getenv("CANCEL_URL", "http://localhost:8080/api/payment/cancel"),
		NotificationID: config.Getenv("PESAPAL_IPN_ID", ""),
	})

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	userService := service.NewUserService(userRepo, rdb, config.JWTSecret())
	productService := service.NewProductService(productRepo, rdb)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, kafkaWriter)
	checkoutService := service.NewCheckoutService(cartRepo, productRepo, orderRepo, paymentRepo, gateway, kafkaWriter)
	paymentService := service.NewPaymentService(paymentRepo, orderRepo, gateway, kafkaWriter)

	authHandler := api.NewAuthHandler(userService)
	productHandler := api.NewProductHandler(productService)
	cartHandler := api.NewCartHandler(cartService)
	orderHandler := api.NewOrderHandler(orderService)
	checkoutHandler := api.NewCheckoutHandler(checkoutService)
	paymentHandler := api.NewPaymentHandler(paymentService)

	go consumer.New(productService).Start(context.Background())

	if err := productService.PreWarmCache(context.Background()); err != nil {
		log.Printf("Cache pre-warm failed: %v", err)
	}

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(20),
				Burst:     40,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	jwtConfig := echojwt.Config{
		SigningKey: config.JWTSecret(),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(service.JwtCustomClaims)
		},
	}
	auth := echojwt.WithConfig(jwtConfig)

	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)
	e.GET("/api/auth/session", authHandler.Session, auth)
	e.POST("/api/auth/logout", authHandler.Logout, auth)

	e.GET("/api/products", productHandler.ListProducts)
	e.GET("/api/products/:id", productHandler.GetProduct)
	e.POST("/api/products", productHandler.CreateProduct, auth, api.RequireAdmin)
	e.PUT("/api/products/:id", productHandler.UpdateProduct, auth, api.RequireAdmin)
	e.DELETE("/api/products/:id", productHandler.DeleteProduct, auth, api.RequireAdmin)

	e.POST("/api/cart", cartHandler.AddItem, auth)
	e.GET("/api/cart", cartHandler.GetCart, auth)
	e.DELETE("/api/cart/:productID", cartHandler.RemoveItem, auth)
	e.DELETE("/api/cart", cartHandler.ClearCart, auth)

	e.POST("/api/checkout", checkoutHandler.Checkout, auth)

	e.GET("/api/orders", orderHandler.ListOrders, auth)
	e.GET("/api/orders/:id", orderHandler.GetOrder, auth)
	e.PUT("/api/orders/:id/status", orderHandler.AdvanceStatus, auth, api.RequireAdmin)

	e.GET("/api/payment/transaction-status/:orderTrackingId", paymentHandler.TransactionStatus)
	e.Any("/api/payment/ipn-listener", paymentHandler.IPNListener)
	e.GET("/api/payment/callback", paymentHandler.Callback)
	e.GET("/api/payment/cancel", paymentHandler.Cancel)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "storefront-service",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	e.Logger.Fatal(e.Start(":" + config.Getenv("PORT", "8080")))
}
