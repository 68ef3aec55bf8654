// File: bondigoo/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bondigoo/config"
	"bondigoo/cron"
	"bondigoo/database"
	calendarRepo "bondigoo/database/repository/calendar"
	deviceRepo "bondigoo/database/repository/device"
	notificationRepo "bondigoo/database/repository/notification"
	rescheduleRepo "bondigoo/database/repository/reschedule"
	sessionRepo "bondigoo/database/repository/session"
	"bondigoo/handlers"
	"bondigoo/models"
	"bondigoo/routes"
	"bondigoo/services/booking"
	"bondigoo/services/notification"
	"bondigoo/services/tasks"
	"bondigoo/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.FirebaseInit()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	calRepo := calendarRepo.NewMongoCalendarRepo()
	if err := calRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure calendar indexes: %v", err)
	}
	sessRepo := sessionRepo.NewMongoSessionRepo()
	resRepo := rescheduleRepo.NewMongoRescheduleRepo()
	devRepo := deviceRepo.NewMongoDeviceRepo()
	notifRepo := notificationRepo.NewMongoNotificationRepo()

	// services.
	notificationService := notification.NewDefaultNotificationService(devRepo, notifRepo, logger)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer asynqClient.Close()
	reminderScheduler := tasks.NewAsynqReminderScheduler(asynqClient)

	exempt := make(map[string]bool, len(config.AppConfig.ExemptSessionTypes))
	for _, st := range config.AppConfig.ExemptSessionTypes {
		exempt[st] = true
	}

	engine := &booking.DefaultLifecycleEngine{
		Calendar:    calRepo,
		Sessions:    sessRepo,
		Reschedules: resRepo,
		Pricing: &booking.FlatRatePricing{
			HourlyRate: config.AppConfig.DefaultHourlyRate,
			Currency:   config.AppConfig.DefaultCurrency,
		},
		Policy: &booking.DefaultPolicyEngine{
			Defaults: models.PolicyDocument{
				MinCancelNoticeHours:     config.AppConfig.MinCancelNoticeHours,
				MinRescheduleNoticeHours: config.AppConfig.MinRescheduleNoticeHours,
				FullRefundNoticeHours:    config.AppConfig.FullRefundNoticeHours,
				PartialRefundRate:        config.AppConfig.PartialRefundRate,
			},
		},
		Gateway:   booking.NewStripeGateway(logger),
		Notifier:  notificationService,
		Reminders: reminderScheduler,
		Cache:     utils.GetCacheClient(),
		Retry: calendarRepo.RetryPolicy{
			MaxAttempts: config.AppConfig.CalendarRetryMaxAttempts,
			Backoff:     time.Duration(config.AppConfig.CalendarRetryBackoffMS) * time.Millisecond,
		},
		ExemptSessionTypes: exempt,
		Logger:             logger,
	}

	bookingHandler := handlers.NewBookingHandler(engine)
	deviceHandler := handlers.NewDeviceHandler(devRepo)
	notificationHandler := handlers.NewNotificationHandler(notifRepo)

	routes.RegisterRoutes(router, bookingHandler, deviceHandler, notificationHandler)

	// Background reminder worker.
	go cron.InitReminderWorker(calRepo, notificationService)

	reminderRedis := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer reminderRedis.Close()
	utils.StartHealthMonitor(utils.GetCacheClient(), reminderRedis, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
