package routes

import (
	"github.com/Longchamps99/list-app-sub001/internal/analytics"
	"github.com/Longchamps99/list-app-sub001/internal/config"
	"github.com/Longchamps99/list-app-sub001/internal/enrich"
	"github.com/Longchamps99/list-app-sub001/internal/handlers"
	"github.com/Longchamps99/list-app-sub001/internal/mail"
	"github.com/Longchamps99/list-app-sub001/internal/middleware"
	"github.com/Longchamps99/list-app-sub001/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, cfg *config.Config) *gin.Engine {
	router := gin.New()

	router.Use(middleware.LoggerMiddleware())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))

	limiters := middleware.NewRateLimiters()

	analyticsClient := analytics.New(cfg.Analytics)
	mailer := mail.New(cfg.Mail)
	enrichClient := enrich.New(cfg.Enrich)

	tagger := services.NewTagger()
	tagService := services.NewTagService(db)
	shareService := services.NewShareService(db)
	rankService := services.NewRankService(db)
	authService := services.NewAuthService(db, mailer)
	itemService := services.NewItemService(db, tagService, shareService, tagger, analyticsClient)
	listService := services.NewListService(db, tagService, shareService)
	importService := services.NewImportService(db, tagService, tagger, rankService, analyticsClient)

	authHandler := handlers.NewAuthHandler(authService, cfg)
	itemHandler := handlers.NewItemHandler(itemService, importService, enrichClient, analyticsClient)
	listHandler := handlers.NewListHandler(listService, analyticsClient)
	tagHandler := handlers.NewTagHandler(tagService)
	shareHandler := handlers.NewShareHandler(shareService, cfg)
	rankHandler := handlers.NewRankHandler(rankService)

	api := router.Group("/api")

	public := api.Group("")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", middleware.RateLimitMiddleware(limiters.Auth), authHandler.Register)
			auth.POST("/login", middleware.RateLimitMiddleware(limiters.Auth), authHandler.Login)
			auth.POST("/password-reset", middleware.RateLimitMiddleware(limiters.Email), authHandler.RequestPasswordReset)
			auth.POST("/password-reset/confirm", middleware.RateLimitMiddleware(limiters.Auth), authHandler.ConfirmPasswordReset)
			auth.POST("/verify/request", middleware.RateLimitMiddleware(limiters.Email), authHandler.RequestVerification)
			auth.POST("/verify/confirm", middleware.RateLimitMiddleware(limiters.Auth), authHandler.ConfirmVerification)
		}

		// 匿名分享令牌兑换，失败一律 404
		public.GET("/public/:token", shareHandler.RedeemToken)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(db, cfg))
	protected.Use(middleware.RateLimitMiddleware(limiters.General))
	{
		user := protected.Group("/auth")
		{
			user.GET("/me", authHandler.GetMe)
			user.DELETE("/me", authHandler.DeleteMe)
		}

		items := protected.Group("/items")
		{
			items.GET("", itemHandler.GetItems)
			items.POST("", itemHandler.CreateItem)
			items.GET("/shared", itemHandler.GetSharedWithMe)
			items.GET("/stats", itemHandler.GetUserStats)
			items.GET("/enrich", middleware.RateLimitMiddleware(limiters.Enrich), itemHandler.Enrich)
			items.POST("/import", itemHandler.ImportItems)

			items.POST("/:id/shares", shareHandler.ShareItem)
			items.DELETE("/:id/shares", shareHandler.UnshareItem)
			items.POST("/:id/token", shareHandler.CreateItemToken)
			items.POST("/:id/check", itemHandler.SetChecked)

			items.GET("/:id", itemHandler.GetItem)
			items.PATCH("/:id", itemHandler.UpdateItem)
			items.DELETE("/:id", itemHandler.DeleteItem)
		}

		lists := protected.Group("/lists")
		{
			lists.GET("", listHandler.GetLists)
			lists.POST("", listHandler.CreateList)
			lists.POST("/resolve", listHandler.ResolveSmartList)
			lists.GET("/preview", listHandler.Preview)
			lists.GET("/counts", listHandler.Counts)

			lists.POST("/:id/shares", shareHandler.ShareList)
			lists.DELETE("/:id/shares", shareHandler.UnshareList)
			lists.POST("/:id/token", shareHandler.CreateListToken)
			lists.POST("/:id/items/:itemId", listHandler.AddItem)
			lists.DELETE("/:id/items/:itemId", listHandler.RemoveItem)

			lists.GET("/:id", listHandler.GetList)
			lists.PATCH("/:id", listHandler.UpdateList)
			lists.DELETE("/:id", listHandler.DeleteList)
		}

		tags := protected.Group("/tags")
		{
			tags.GET("", tagHandler.GetTags)
		}

		ranks := protected.Group("/ranks")
		{
			ranks.GET("/:contextId", rankHandler.GetOrdered)
			ranks.PUT("/:contextId", rankHandler.Reorder)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "服务运行正常",
		})
	})

	return router
}
