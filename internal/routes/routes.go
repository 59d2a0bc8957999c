package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"bijou/internal/authz"
	"bijou/internal/handlers"
	"bijou/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	limiter *middleware.RateLimiter,
	authHandler *handlers.AuthHandler,
	signupHandler *handlers.SignupHandler,
	productHandler *handlers.ProductHandler,
	searchHandler *handlers.SearchHandler,
	cartHandler *handlers.CartHandler,
	wishlistHandler *handlers.WishlistHandler,
	orderHandler *handlers.OrderHandler,
	deliveryHandler *handlers.DeliveryHandler,
	reviewHandler *handlers.ReviewHandler,
	inquiryHandler *handlers.InquiryHandler,
	noticeHandler *handlers.NoticeHandler,
	categoryHandler *handlers.CategoryHandler,
	dashboardHandler *handlers.DashboardHandler,
) *gin.Engine {

	// ---- public
	r.POST("/login", limiter.Middleware(), authHandler.Login)
	r.POST("/refresh", authHandler.RefreshToken)

	signup := r.Group("/signup")
	{
		signup.POST("/send-code", limiter.Middleware(), signupHandler.SendCode)
		signup.POST("/verify-code", signupHandler.VerifyCode)
		signup.POST("/complete", signupHandler.Complete)
	}

	r.GET("/home", productHandler.Home)
	r.GET("/categories", productHandler.ListCategories)
	r.GET("/categories/:slug/products", productHandler.ListByCategory)
	r.GET("/products/:id", productHandler.Detail)
	r.GET("/products/:id/reviews", reviewHandler.ListByProduct)
	r.GET("/search", searchHandler.Search)
	r.GET("/search/autocomplete", searchHandler.Autocomplete)
	r.GET("/notices", noticeHandler.ListNotices)
	r.GET("/banners", noticeHandler.ListBanners)

	// корзина доступна и гостям (сессионная кука)
	cart := r.Group("/cart", middleware.OptionalAuth())
	{
		cart.GET("", cartHandler.Get)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items/:itemId", cartHandler.UpdateItem)
		cart.DELETE("/items/:itemId", cartHandler.RemoveItem)
		cart.DELETE("", cartHandler.Clear)
	}

	// Toss redirect-ручки: приходят без нашего токена
	r.GET("/payments/toss/success", orderHandler.TossSuccess)
	r.GET("/payments/toss/fail", orderHandler.TossFail)

	// ---- protected
	auth := r.Group("", middleware.AuthMiddleware())

	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me)

	wishlist := auth.Group("/wishlist")
	{
		wishlist.GET("", wishlistHandler.Get)
		wishlist.POST("/items", wishlistHandler.AddItem)
		wishlist.DELETE("/items/:itemId", wishlistHandler.RemoveItem)
	}

	orders := auth.Group("/orders")
	{
		orders.POST("/prepare", orderHandler.Prepare)
		orders.POST("/checkout", orderHandler.CheckoutCart)
		orders.GET("", orderHandler.List)
		orders.GET("/:id", orderHandler.Get)
		orders.GET("/:id/receipt", orderHandler.Receipt)
	}

	deliveries := auth.Group("/deliveries")
	{
		deliveries.POST("", deliveryHandler.Create)
		deliveries.GET("", deliveryHandler.List)
		deliveries.PUT("/:id", deliveryHandler.Update)
		deliveries.DELETE("/:id", deliveryHandler.Delete)
		deliveries.POST("/:id/default", deliveryHandler.SetDefault)
	}

	reviews := auth.Group("/reviews")
	{
		reviews.POST("", reviewHandler.Create)
		reviews.PUT("/:id", reviewHandler.Update)
		reviews.DELETE("/:id", reviewHandler.Delete)
		reviews.POST("/:id/helpful", reviewHandler.MarkHelpful)
	}

	inquiries := auth.Group("/inquiries")
	{
		inquiries.POST("", inquiryHandler.Create)
		inquiries.GET("", inquiryHandler.ListMine)
		inquiries.GET("/:id", inquiryHandler.Get)
		inquiries.POST("/:id/messages", inquiryHandler.AddFollowUp)
	}

	// ---- admin (OWNER / MANAGER)
	admin := auth.Group("/admin", middleware.RequireRoles(authz.RoleOwner, authz.RoleManager))
	{
		admin.GET("/dashboard", dashboardHandler.Get)

		admin.POST("/products", productHandler.Create)
		admin.PUT("/products/:id", productHandler.Update)
		admin.DELETE("/products/:id", productHandler.Delete)
		admin.POST("/products/:id/options", productHandler.AddOption)
		admin.POST("/products/:id/images", productHandler.AddImage)
		admin.POST("/search/reindex", productHandler.Reindex)

		admin.POST("/categories", categoryHandler.Create)
		admin.PUT("/categories/:id", categoryHandler.Update)
		admin.DELETE("/categories/:id", categoryHandler.Delete)

		admin.POST("/orders/:id/status", orderHandler.UpdateStatus)
		admin.POST("/orders/:id/tracking", orderHandler.SetTracking)

		admin.GET("/inquiries", inquiryHandler.ListByStatus)
		admin.POST("/inquiries/:id/answer", inquiryHandler.Answer)
		admin.POST("/inquiries/:id/close", inquiryHandler.Close)

		admin.POST("/notices", noticeHandler.CreateNotice)
		admin.PUT("/notices/:id", noticeHandler.UpdateNotice)
		admin.DELETE("/notices/:id", noticeHandler.DeleteNotice)
		admin.POST("/banners", noticeHandler.CreateBanner)
		admin.PUT("/banners/:id", noticeHandler.UpdateBanner)
		admin.DELETE("/banners/:id", noticeHandler.DeleteBanner)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
