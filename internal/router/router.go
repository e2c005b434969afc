package router

import (
	"time"

	"tavolo/config"
	"tavolo/internal/handler"
	"tavolo/internal/middleware"
	"tavolo/internal/repository"
	"tavolo/internal/service"
	"tavolo/internal/ws"
	"tavolo/pkg/cloudinary"
	"tavolo/pkg/logger"
	"tavolo/pkg/mailchimp"
	"tavolo/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, rdb *redis.Client, cloud cloudinary.Client, mailer service.Mailer, log *zap.Logger) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	var limiter middleware.Limiter
	if rdb != nil {
		limiter = middleware.NewRedisRateLimiter(rdb, 100, time.Minute)
	} else {
		limiter = middleware.NewInMemoryRateLimiter(100, time.Minute)
	}
	r.Use(middleware.RateLimit(limiter))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	privateDiningRepo := repository.NewPrivateDiningRepository(db)
	promoRepo := repository.NewPromoRepository(db)
	giftCardRepo := repository.NewGiftCardRepository(db)
	rewardRepo := repository.NewRewardRepository(db)
	posRepo := repository.NewPosRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	cartRepo := repository.NewCartRepository(db)
	newsletterRepo := repository.NewNewsletterRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	eventRepo := repository.NewEventRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	tenantRepo := repository.NewTenantRepository(db)

	ordersHub := ws.NewHub()

	// Services
	auditSvc := service.NewAuditService(auditRepo, log)
	authSvc := service.NewAuthService(cfg, userRepo)
	templateSvc := service.NewTemplateService(templateRepo, rdb, log)
	promoSvc := service.NewPromoService(promoRepo)
	loyaltySvc := service.NewLoyaltyService(db, userRepo, rewardRepo)
	giftCardSvc := service.NewGiftCardService(giftCardRepo, templateSvc, mailer, auditSvc, log)
	posSvc := service.NewPosSyncService(posRepo, cfg.Pos, log)
	reminderSvc := service.NewReminderService(cartRepo, reservationRepo, templateSvc, mailer, auditSvc, log)
	paymentSvc := service.NewPaymentService(cfg, orderRepo, giftCardRepo, subscriptionRepo, auditSvc, log)
	mcClient := mailchimp.New(cfg.Mailchimp.APIKey, cfg.Mailchimp.ServerPrefix, cfg.Mailchimp.ListID)
	newsletterSvc := service.NewNewsletterService(newsletterRepo, mcClient, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, userRepo, auditSvc, log)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc, auditSvc)
	userHandler := handler.NewUserHandler(userRepo, loyaltySvc, auditSvc, log)
	orderHandler := handler.NewOrderHandler(db, orderRepo, menuRepo, promoSvc, giftCardSvc, loyaltySvc, posSvc, paymentSvc, auditSvc, ordersHub, log)
	reservationHandler := handler.NewReservationHandler(reservationRepo, templateSvc, mailer, auditSvc, log)
	privateDiningHandler := handler.NewPrivateDiningHandler(privateDiningRepo, templateSvc, mailer, auditSvc, log)
	promoHandler := handler.NewPromoHandler(promoRepo, promoSvc, auditSvc, log)
	giftCardHandler := handler.NewGiftCardHandler(giftCardRepo, giftCardSvc, paymentSvc, log)
	rewardHandler := handler.NewRewardHandler(rewardRepo, loyaltySvc, auditSvc, log)
	posHandler := handler.NewPosHandler(posRepo, orderRepo, posSvc, log)
	auditHandler := handler.NewAuditHandler(auditRepo, log)
	jobHandler := handler.NewJobHandler(reminderSvc, auditRepo, posRepo, rewardRepo, log)
	newsletterHandler := handler.NewNewsletterHandler(newsletterRepo, newsletterSvc, log)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionRepo, paymentSvc, log)
	stripeWebhookHandler := handler.NewStripeWebhookHandler(paymentSvc, log)
	templateHandler := handler.NewTemplateHandler(templateRepo, templateSvc, log)
	menuHandler := handler.NewMenuHandler(menuRepo, log)
	eventHandler := handler.NewEventHandler(eventRepo, log)
	reviewHandler := handler.NewReviewHandler(reviewRepo, log)
	tenantHandler := handler.NewTenantHandler(tenantRepo, log)
	cartHandler := handler.NewCartHandler(cartRepo, log)
	uploadHandler := handler.NewUploadHandler(cloud)

	authMw := middleware.AuthRequired(&cfg.JWT)
	staffMw := middleware.RequireRole("ADMIN", "STAFF")
	adminMw := middleware.RequireRole("ADMIN")

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		api.GET("/me", authMw, authHandler.Me)
		api.GET("/me/points", authMw, userHandler.MyPoints)
		api.GET("/me/redemptions", authMw, rewardHandler.MyRedemptions)

		// Public storefront
		api.GET("/menu", menuHandler.List)
		api.GET("/menu/:id", menuHandler.Get)
		api.GET("/events", eventHandler.List)
		api.GET("/events/:id", eventHandler.Get)
		api.GET("/reviews", reviewHandler.ListApproved)
		api.POST("/reviews", reviewHandler.Create)
		api.GET("/franchises", tenantHandler.ListFranchises)
		api.GET("/locations", tenantHandler.ListLocations)
		api.GET("/rewards", rewardHandler.List)

		api.POST("/reservations", reservationHandler.Create)
		api.POST("/private-dining", privateDiningHandler.Create)

		api.POST("/orders", orderHandler.Create)
		api.GET("/orders/:id", orderHandler.Get)
		api.POST("/orders/:id/checkout", orderHandler.Checkout)

		api.POST("/carts", cartHandler.Create)
		api.PUT("/carts/:id", cartHandler.Update)
		api.DELETE("/carts/:id", cartHandler.Delete)

		api.POST("/promos/validate", promoHandler.Validate)
		api.POST("/promos/redeem", promoHandler.Redeem)

		api.POST("/gift-cards", giftCardHandler.Create)
		api.POST("/gift-cards/redeem", giftCardHandler.Redeem)
		api.GET("/gift-cards/balance", giftCardHandler.Balance)

		api.POST("/newsletter/subscribe", newsletterHandler.Subscribe)
		api.POST("/newsletter/unsubscribe", newsletterHandler.Unsubscribe)

		api.POST("/rewards/:id/redeem", authMw, rewardHandler.Redeem)

		sub := api.Group("/subscriptions")
		sub.Use(authMw)
		{
			sub.POST("/checkout", subscriptionHandler.Checkout)
			sub.GET("/me", subscriptionHandler.Mine)
			sub.GET("/invoices", subscriptionHandler.Invoices)
		}

		api.POST("/webhooks/stripe", stripeWebhookHandler.Handle)

		// Staff dashboard
		staff := api.Group("/staff")
		staff.Use(authMw, staffMw)
		{
			staff.GET("/orders", orderHandler.List)
			staff.GET("/orders/live", orderHandler.Live)
			staff.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
			staff.GET("/reservations", reservationHandler.List)
			staff.GET("/reservations/:id", reservationHandler.Get)
			staff.PATCH("/reservations/:id/status", reservationHandler.UpdateStatus)
			staff.GET("/private-dining", privateDiningHandler.List)
			staff.GET("/private-dining/:id", privateDiningHandler.Get)
			staff.PATCH("/private-dining/:id/status", privateDiningHandler.UpdateStatus)
			staff.POST("/pos/sync-order", posHandler.SyncOrder)
			staff.POST("/pos/retry-sync/:id", posHandler.RetrySync)
			staff.GET("/pos/syncs", posHandler.List)
			staff.GET("/pos/stats", posHandler.Stats)
		}

		// Admin
		admin := api.Group("/admin")
		admin.Use(authMw, adminMw)
		{
			admin.GET("/users", userHandler.List)
			admin.GET("/users/stats", userHandler.Stats)
			admin.GET("/users/:id", userHandler.Get)
			admin.PATCH("/users/:id", userHandler.Update)
			admin.DELETE("/users/:id", userHandler.Delete)
			admin.POST("/users/:id/points", userHandler.AdjustPoints)
			admin.GET("/users/:id/points", userHandler.PointsHistory)

			admin.DELETE("/reservations/:id", reservationHandler.Delete)

			admin.GET("/promos", promoHandler.List)
			admin.POST("/promos", promoHandler.Create)
			admin.PATCH("/promos/:id", promoHandler.Update)
			admin.DELETE("/promos/:id", promoHandler.Delete)
			admin.GET("/promos/usage-stats", promoHandler.UsageStats)

			admin.GET("/gift-cards", giftCardHandler.List)

			admin.POST("/rewards", rewardHandler.Create)
			admin.PATCH("/rewards/:id", rewardHandler.Update)
			admin.DELETE("/rewards/:id", rewardHandler.Delete)

			admin.GET("/audit-logs", auditHandler.List)

			admin.GET("/newsletter", newsletterHandler.List)
			admin.GET("/subscriptions", subscriptionHandler.List)

			admin.GET("/templates", templateHandler.List)
			admin.POST("/templates", templateHandler.Create)
			admin.PATCH("/templates/:id", templateHandler.Update)
			admin.DELETE("/templates/:id", templateHandler.Delete)
			admin.POST("/templates/preview", templateHandler.Preview)

			admin.POST("/menu", menuHandler.Create)
			admin.PATCH("/menu/:id", menuHandler.Update)
			admin.DELETE("/menu/:id", menuHandler.Delete)
			admin.POST("/uploads/menu-image", uploadHandler.UploadMenuImage)

			admin.POST("/events", eventHandler.Create)
			admin.PATCH("/events/:id", eventHandler.Update)
			admin.DELETE("/events/:id", eventHandler.Delete)

			admin.GET("/reviews", reviewHandler.List)
			admin.PATCH("/reviews/:id/status", reviewHandler.Moderate)
			admin.DELETE("/reviews/:id", reviewHandler.Delete)

			admin.POST("/franchises", tenantHandler.CreateFranchise)
			admin.GET("/franchises/:id", tenantHandler.GetFranchise)
			admin.POST("/locations", tenantHandler.CreateLocation)
		}

		// Cron-style jobs. Protected like admin routes; an external scheduler
		// authenticates with a service account token.
		jobs := api.Group("/jobs")
		jobs.Use(authMw, adminMw)
		{
			jobs.POST("/abandoned-carts", jobHandler.AbandonedCarts)
			jobs.POST("/reservation-reminders", jobHandler.ReservationReminders)
			jobs.POST("/cleanup/audit-logs", jobHandler.CleanupAuditLogs)
			jobs.POST("/cleanup/pos-logs", jobHandler.CleanupPosLogs)
			jobs.POST("/cleanup/reward-redemptions", jobHandler.CleanupRewardRedemptions)
		}

		api.GET("/ws/orders", ws.UpgradeOrdersWS(&cfg.JWT, ordersHub))
	}

	return r
}
