package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwalitptl/clinic-api/internal/config"
	"github.com/jwalitptl/clinic-api/internal/email"
	appointmentHandler "github.com/jwalitptl/clinic-api/internal/handler/appointment"
	dashboardHandler "github.com/jwalitptl/clinic-api/internal/handler/dashboard"
	doctorHandler "github.com/jwalitptl/clinic-api/internal/handler/doctor"
	healthHandler "github.com/jwalitptl/clinic-api/internal/handler/health"
	userHandler "github.com/jwalitptl/clinic-api/internal/handler/user"
	"github.com/jwalitptl/clinic-api/internal/middleware"
	"github.com/jwalitptl/clinic-api/internal/repository/postgres"
	"github.com/jwalitptl/clinic-api/internal/router"
	authService "github.com/jwalitptl/clinic-api/internal/service/auth"
	"github.com/jwalitptl/clinic-api/internal/service/booking"
	doctorService "github.com/jwalitptl/clinic-api/internal/service/doctor"
	"github.com/jwalitptl/clinic-api/internal/service/report"
	userService "github.com/jwalitptl/clinic-api/internal/service/user"
	"github.com/jwalitptl/clinic-api/pkg/auth"
	"github.com/jwalitptl/clinic-api/pkg/logger"
	messagingredis "github.com/jwalitptl/clinic-api/pkg/messaging/redis"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
	"github.com/jwalitptl/clinic-api/pkg/payment"
	"github.com/jwalitptl/clinic-api/pkg/security"
	"github.com/jwalitptl/clinic-api/pkg/worker"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(&logger.Config{
		Level:      parseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     cfg.Log.Pretty,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	appointmentRepo := postgres.NewAppointmentRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	userRepo := postgres.NewUserRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	m := metrics.New("clinic_api")

	gateway := payment.NewClient(payment.Config{
		URL:        cfg.Payment.URL,
		MerchantID: cfg.Payment.MerchantID,
		APIUserID:  cfg.Payment.APIUserID,
		APIKey:     cfg.Payment.APIKey,
		Timeout:    cfg.Payment.Timeout,
	})

	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:      cfg.JWT.Secret,
		ExpiryHours: cfg.JWT.ExpiryHours,
	})

	bookingOpts := []booking.Option{booking.WithMetrics(m)}
	if cfg.Email.Enabled {
		emailSvc := email.NewService(email.Config{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
		})
		bookingOpts = append(bookingOpts, booking.WithEmail(emailSvc))
	}

	bookingSvc := booking.NewService(appointmentRepo, doctorRepo, userRepo, gateway, log, cfg.Payment.ChargeAmount, bookingOpts...)
	reportSvc := report.NewService(appointmentRepo, doctorRepo, log, report.WithMetrics(m))
	authSvc := authService.NewService(userRepo, hasher, jwtSvc)
	doctorSvc := doctorService.NewService(doctorRepo, userRepo, hasher)
	userSvc := userService.NewService(userRepo)

	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	r := router.NewRouter(
		log,
		authMiddleware,
		appointmentHandler.NewHandler(bookingSvc, reportSvc),
		dashboardHandler.NewHandler(reportSvc),
		doctorHandler.NewHandler(doctorSvc),
		userHandler.NewHandler(userSvc, authSvc),
		healthHandler.NewHandler(db),
		router.Config{
			RateLimitRPS: cfg.Server.RateLimit,
			RateBurst:    cfg.Server.RateBurst,
			CORS:         middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The outbox processor is optional: without redis the API still books,
	// events just stay pending.
	if cfg.Redis.URL != "" {
		broker, err := messagingredis.NewRedisBroker(messagingredis.Config{URL: cfg.Redis.URL}, log)
		if err != nil {
			log.Error(err, "redis unavailable, outbox events will stay pending")
		} else {
			processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{}, log, m)
			go processor.Start(ctx)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "graceful shutdown failed")
	}
}

func parseLevel(level string) logger.Level {
	switch level {
	case "debug":
		return logger.DebugLevel
	case "warn":
		return logger.WarnLevel
	case "error":
		return logger.ErrorLevel
	default:
		return logger.InfoLevel
	}
}
