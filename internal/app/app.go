package app

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	_ "bijou/docs"
	"bijou/internal/config"
	"bijou/internal/database"
	"bijou/internal/handlers"
	"bijou/internal/metrics"
	"bijou/internal/middleware"
	"bijou/internal/pdf"
	"bijou/internal/repositories"
	"bijou/internal/routes"
	"bijou/internal/services"
	"bijou/internal/utils"
)

func Run() {
	cfg := config.LoadConfig()

	if cfg.Security.JWTSecret != "" {
		middleware.JWTKey = []byte(cfg.Security.JWTSecret)
	}

	// === DB ===
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()
	if err := database.RunMigrations(cfg.Database.DSN); err != nil {
		log.Fatal("Ошибка миграций: ", err)
	}

	// === Redis (pending signups) ===
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// === Meilisearch ===
	meili := meilisearch.New(cfg.Meili.URL, meilisearch.WithAPIKey(cfg.Meili.APIKey))

	// === Metrics ===
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// === Repos ===
	accountRepo := repositories.NewAccountRepository(db)
	signupStore := repositories.NewSignupStore(rdb, 15*time.Minute)
	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	wishlistRepo := repositories.NewWishlistRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	deliveryRepo := repositories.NewDeliveryRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	inquiryRepo := repositories.NewInquiryRepository(db)
	noticeRepo := repositories.NewNoticeRepository(db)
	dashboardRepo := repositories.NewDashboardRepository(db)

	// === Services ===
	authService := services.NewAuthService()
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	var pwned services.BreachChecker
	if cfg.Pwned.Enabled {
		pwned = utils.NewPwnedClient(time.Duration(cfg.Pwned.TimeoutSec) * time.Second)
	}
	signupService := services.NewSignupService(signupStore, accountRepo, emailService, authService, pwned, collector)

	searchService := services.NewSearchService(meili, cfg.Meili.ProductIndex, productRepo, collector)
	if err := searchService.InitIndex(); err != nil {
		log.Printf("[app] search index init failed: %v", err)
	}

	categoryService := services.NewCategoryService(categoryRepo)
	productService := services.NewProductService(productRepo, noticeRepo, searchService)
	cartService := services.NewCartService(cartRepo, productRepo)
	wishlistService := services.NewWishlistService(wishlistRepo, productRepo)
	deliveryService := services.NewDeliveryService(deliveryRepo)

	tossClient := utils.NewTossClient(cfg.Toss.SecretKey, cfg.Toss.DryRun)
	tgToken := cfg.Telegram.BotToken
	if cfg.Telegram.DryRun {
		tgToken = "" // сервис уходит в no-op, алерты только в логах
	}
	telegramService := services.NewTelegramService(tgToken, cfg.Telegram.OpsChatID)
	orderService := services.NewOrderService(
		orderRepo, productRepo, cartService, deliveryRepo, accountRepo,
		tossClient, emailService, telegramService, collector,
		cfg.Toss.SuccessURL, cfg.Toss.FailURL,
	)

	reviewService := services.NewReviewService(reviewRepo, orderRepo, productRepo, searchService)
	inquiryService := services.NewInquiryService(inquiryRepo)
	noticeService := services.NewNoticeService(noticeRepo)
	dashboardService := services.NewDashboardService(dashboardRepo, accountRepo)

	// PDF квитанции (шрифт с корейскими глифами)
	receiptGen := pdf.NewReceiptGenerator("./files", "assets/fonts/NotoSansKR-Regular.ttf")

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(accountRepo, authService, cartService)
	signupHandler := handlers.NewSignupHandler(signupService)
	productHandler := handlers.NewProductHandler(productService, categoryService, searchService)
	searchHandler := handlers.NewSearchHandler(searchService)
	cartHandler := handlers.NewCartHandler(cartService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	orderHandler := handlers.NewOrderHandler(orderService, receiptGen)
	deliveryHandler := handlers.NewDeliveryHandler(deliveryService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	inquiryHandler := handlers.NewInquiryHandler(inquiryService)
	noticeHandler := handlers.NewNoticeHandler(noticeService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/metrics", gin.WrapH(metrics.Handler(registry)))

	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer limiter.Stop()

	routes.SetupRoutes(
		router,
		limiter,
		authHandler,
		signupHandler,
		productHandler,
		searchHandler,
		cartHandler,
		wishlistHandler,
		orderHandler,
		deliveryHandler,
		reviewHandler,
		inquiryHandler,
		noticeHandler,
		categoryHandler,
		dashboardHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
