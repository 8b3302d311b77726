package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"learnhub/internal/config"
	"learnhub/internal/handlers"
	"learnhub/internal/middleware"
	"learnhub/internal/repositories/mongodb"
	"learnhub/internal/services"
	"learnhub/pkg/cache"
	"learnhub/pkg/database"
	"learnhub/pkg/logger"
	"learnhub/pkg/oauth"
	"learnhub/pkg/payment"
	"learnhub/pkg/push"
	"learnhub/pkg/sms"
	"learnhub/pkg/storage"
	"learnhub/pkg/websocket"
	"learnhub/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  cfg.App.LogLevel,
		Format: cfg.App.LogFormat,
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer db.Close()

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(indexCtx); err != nil {
		cancelIndexes()
		log.WithError(err).Fatal("Failed to ensure indexes")
	}
	cancelIndexes()

	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisCache.Close()

	gateway := buildPaymentGateway(cfg, log)
	storageProvider := buildStorageProvider(cfg, log)
	smsProvider := buildSMSProvider(cfg, log)
	pushProvider := buildPushProvider(cfg, log)
	googleOAuth := oauth.NewGoogleProvider(
		cfg.OAuth.Google.ClientID,
		cfg.OAuth.Google.ClientSecret,
		cfg.OAuth.Google.RedirectURL,
	)

	// Repositories
	couponRepo := mongodb.NewCouponRepository(db.Database, redisCache)
	usageRepo := mongodb.NewCouponUsageRepository(db.Database)
	payoutRepo := mongodb.NewPayoutRepository(db.Database)
	watchTimeRepo := mongodb.NewWatchTimeRepository(db.Database)
	txnRepo := mongodb.NewTransactionRepository(db.Database)
	subRepo := mongodb.NewSubscriptionRepository(db.Database)
	courseRepo := mongodb.NewCourseRepository(db.Database, redisCache)
	userRepo := mongodb.NewUserRepository(db.Database, redisCache)
	configRepo := mongodb.NewPlatformConfigRepository(db.Database)

	// Services
	clock := services.NewRealClock()
	configService := services.NewPlatformConfigService(configRepo, clock, log)
	revenueService := services.NewRevenueService()
	notificationService := services.NewNotificationService(userRepo, smsProvider, pushProvider, log)
	couponService := services.NewCouponService(couponRepo, usageRepo, clock, log)
	payoutService := services.NewPayoutService(payoutRepo, watchTimeRepo, revenueService, configService, notificationService, clock, log)
	paymentService := services.NewPaymentService(txnRepo, subRepo, courseRepo, couponService, gateway, notificationService, clock, log)
	watchTimeService := services.NewWatchTimeService(watchTimeRepo, courseRepo, clock, log)
	courseService := services.NewCourseService(courseRepo, storageProvider, log)
	subscriptionService := services.NewSubscriptionService(subRepo, clock, log)
	authService := services.NewAuthService(userRepo, googleOAuth, cfg.Security.JWTSecret, log)

	// Realtime progress ticks feed the same watch-time pipeline as REST.
	wsHandler := websocket.NewHandler(func(studentID primitive.ObjectID, courseID string, minutes float64) {
		id, err := primitive.ObjectIDFromHex(courseID)
		if err != nil {
			log.WithField("course_id", courseID).Warn("Progress tick with invalid course ID")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := watchTimeService.RecordProgress(ctx, studentID, id, int64(minutes)); err != nil {
			log.WithError(err).WithUserID(studentID).Warn("Failed to record realtime progress")
		}
	})

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, log)
	couponHandler := handlers.NewCouponHandler(couponService, log)
	payoutHandler := handlers.NewPayoutHandler(payoutService, log)
	paymentHandler := handlers.NewPaymentHandler(paymentService, log)
	courseHandler := handlers.NewCourseHandler(courseService, log)
	watchTimeHandler := handlers.NewWatchTimeHandler(watchTimeService, log)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, log)
	adminHandler := handlers.NewAdminHandler(configService, log)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(log))

	jwtSecret := cfg.Security.JWTSecret
	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1, authHandler, jwtSecret)
		routes.SetupCouponRoutes(v1, couponHandler, jwtSecret)
		routes.SetupPayoutRoutes(v1, payoutHandler, jwtSecret)
		routes.SetupPaymentRoutes(v1, paymentHandler, jwtSecret)
		routes.SetupCourseRoutes(v1, courseHandler, watchTimeHandler, jwtSecret)
		routes.SetupWatchTimeRoutes(v1, watchTimeHandler, jwtSecret)
		routes.SetupSubscriptionRoutes(v1, subscriptionHandler, jwtSecret)
		routes.SetupAdminRoutes(v1, adminHandler, jwtSecret)
		routes.SetupWebSocketRoutes(v1, wsHandler, jwtSecret)
	}

	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		if err := db.Ping(); err != nil {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"status":  http.StatusText(status),
			"version": cfg.App.Version,
		})
	})

	// Hourly sweep flips subscriptions past their expiry.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go expirySweep(sweepCtx, subscriptionService, log)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.App.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}
}

func buildPaymentGateway(cfg *config.Config, log *logger.Logger) payment.GatewayProvider {
	switch cfg.Payment.DefaultProvider {
	case "stripe":
		return payment.NewStripeProvider(
			cfg.Payment.Stripe.SecretKey,
			cfg.Payment.Stripe.PublishableKey,
			cfg.Payment.Stripe.WebhookSecret,
		)
	case "razorpay":
		return payment.NewRazorpayProvider(
			cfg.Payment.Razorpay.KeyID,
			cfg.Payment.Razorpay.KeySecret,
			cfg.Payment.Razorpay.WebhookSecret,
		)
	default:
		log.WithField("provider", cfg.Payment.DefaultProvider).Fatal("Unknown payment provider")
		return nil
	}
}

func buildStorageProvider(cfg *config.Config, log *logger.Logger) storage.Provider {
	switch cfg.Storage.Provider {
	case "aws":
		provider, err := storage.NewAWSS3Storage(cfg.Storage.AWS.Region, cfg.Storage.AWS.Bucket, cfg.Storage.AWS.CDNDomain)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize S3 storage")
		}
		return provider
	case "gcp":
		provider, err := storage.NewGCPStorage(cfg.Storage.GCP.Bucket, cfg.Storage.GCP.CredentialsFile, cfg.Storage.GCP.CDNDomain)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize GCS storage")
		}
		return provider
	default:
		provider, err := storage.NewLocalStorage(cfg.Storage.Local.BasePath, cfg.Storage.Local.BaseURL)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize local storage")
		}
		return provider
	}
}

func buildSMSProvider(cfg *config.Config, log *logger.Logger) sms.Provider {
	switch cfg.SMS.Provider {
	case "aws":
		provider, err := sms.NewAWSSNSProvider(cfg.SMS.AWS.Region)
		if err != nil {
			log.WithError(err).Warn("SNS unavailable, SMS notifications disabled")
			return nil
		}
		return provider
	case "twilio":
		if cfg.SMS.Twilio.AccountSID == "" {
			log.Warn("Twilio not configured, SMS notifications disabled")
			return nil
		}
		return sms.NewTwilioProvider(cfg.SMS.Twilio.AccountSID, cfg.SMS.Twilio.AuthToken, cfg.SMS.Twilio.FromNumber)
	default:
		return nil
	}
}

func buildPushProvider(cfg *config.Config, log *logger.Logger) push.Provider {
	switch cfg.Push.Provider {
	case "apns":
		provider, err := push.NewAPNSProvider(
			cfg.Push.APNS.KeyFile,
			cfg.Push.APNS.KeyID,
			cfg.Push.APNS.TeamID,
			cfg.Push.APNS.BundleID,
			cfg.Push.APNS.Production,
		)
		if err != nil {
			log.WithError(err).Warn("APNS unavailable, push notifications disabled")
			return nil
		}
		return provider
	case "fcm":
		if cfg.Push.FCM.Credentials == "" {
			log.Warn("FCM not configured, push notifications disabled")
			return nil
		}
		provider, err := push.NewFCMProvider(cfg.Push.FCM.Credentials)
		if err != nil {
			log.WithError(err).Warn("FCM unavailable, push notifications disabled")
			return nil
		}
		return provider
	default:
		return nil
	}
}

func expirySweep(ctx context.Context, subscriptions services.SubscriptionService, log *logger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, time.Minute)
			expired, err := subscriptions.ExpireDueSubscriptions(sweepCtx)
			cancel()
			if err != nil {
				log.WithError(err).Error("Subscription expiry sweep failed")
			} else if expired > 0 {
				log.WithField("expired", expired).Info("Subscriptions expired")
			}
		}
	}
}
