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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/config"
	appointmentHandler "github.com/NextGenGk/ayursutra-docter-portal/internal/handler/appointment"
	authHandler "github.com/NextGenGk/ayursutra-docter-portal/internal/handler/auth"
	caregiverHandler "github.com/NextGenGk/ayursutra-docter-portal/internal/handler/caregiver"
	dashboardHandler "github.com/NextGenGk/ayursutra-docter-portal/internal/handler/dashboard"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/handler/health"
	patientHandler "github.com/NextGenGk/ayursutra-docter-portal/internal/handler/patient"
	promhandler "github.com/NextGenGk/ayursutra-docter-portal/internal/handler/prometheus"
	receiptHandler "github.com/NextGenGk/ayursutra-docter-portal/internal/handler/receipt"
	settingsHandler "github.com/NextGenGk/ayursutra-docter-portal/internal/handler/settings"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/middleware"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/repository/postgres"
	redisrepo "github.com/NextGenGk/ayursutra-docter-portal/internal/repository/redis"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/router"
	appointmentService "github.com/NextGenGk/ayursutra-docter-portal/internal/service/appointment"
	authService "github.com/NextGenGk/ayursutra-docter-portal/internal/service/auth"
	caregiverService "github.com/NextGenGk/ayursutra-docter-portal/internal/service/caregiver"
	dashboardService "github.com/NextGenGk/ayursutra-docter-portal/internal/service/dashboard"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/service/identity"
	patientService "github.com/NextGenGk/ayursutra-docter-portal/internal/service/patient"
	receiptService "github.com/NextGenGk/ayursutra-docter-portal/internal/service/receipt"
	settingsService "github.com/NextGenGk/ayursutra-docter-portal/internal/service/settings"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/auth"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/event"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/logger"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/messaging/redis"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/metrics"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/security"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/validator"
)

const metricsNamespace = "portal"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.SetGlobal(logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     cfg.Log.Pretty,
	}))

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	redisClient, err := redis.NewClient(ctx, redis.Config{
		URL:        cfg.Redis.URL,
		MaxRetries: cfg.Redis.MaxRetries,
		PoolSize:   cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	broker := redis.NewRedisBroker(redisClient, &log.Logger)
	defer broker.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(metricsNamespace, reg)
	httpMetrics := promhandler.New(metricsNamespace, reg)

	sandbox, _ := cfg.Demo.SandboxDoctor()
	loc, _ := cfg.Appointments.Location()
	v := validator.New()

	// Repositories
	base := postgres.NewBaseRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	doctorRepo := postgres.NewDoctorRepository(base)
	userRepo := postgres.NewUserRepository(base)
	caregiverRepo := postgres.NewCaregiverRepository(db)
	financeRepo := postgres.NewFinanceRepository(db)
	tokenRepo := redisrepo.NewTokenRepository(redisClient)

	// Services
	events := event.NewService(broker, appMetrics)
	authSvc := authService.NewService(userRepo, tokenRepo,
		auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiry()),
		security.NewBcryptHasher(0), v)
	identitySvc := identity.NewService(doctorRepo, identity.DemoConfig{
		Enabled:       cfg.Demo.Enabled,
		SandboxDoctor: sandbox,
	})
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, events, appMetrics, v,
		appointmentService.Config{
			StrictTransitions: cfg.Appointments.StrictTransitions,
			Location:          loc,
		})
	dashboardSvc := dashboardService.NewService(appointmentRepo, loc)
	patientSvc := patientService.NewService(patientRepo)
	receiptSvc := receiptService.NewService(appointmentRepo, financeRepo, model.ReceiptSource(cfg.Receipts.Source))
	settingsSvc := settingsService.NewService(doctorRepo, v)
	caregiverSvc := caregiverService.NewService(caregiverRepo)

	authenticator := middleware.NewAuthenticator(authSvc, identitySvc, appMetrics)

	r := router.NewRouter(authenticator, httpMetrics, router.Handlers{
		Health: health.NewHandler(map[string]health.Pinger{
			"database": db,
			"redis":    redis.Pinger{Client: redisClient},
		}, httpMetrics.Handler()),
		Auth:        authHandler.NewHandler(authSvc, authenticator.RequireAuth(), identitySvc),
		Caregiver:   caregiverHandler.NewHandler(caregiverSvc),
		Appointment: appointmentHandler.NewHandler(appointmentSvc, loc),
		Dashboard:   dashboardHandler.NewHandler(dashboardSvc),
		Patient:     patientHandler.NewHandler(patientSvc),
		Receipt:     receiptHandler.NewHandler(receiptSvc),
		Settings:    settingsHandler.NewHandler(settingsSvc),
	}, router.RouterConfig{
		RateLimit:  cfg.RateLimit.RequestsPerSecond,
		RateBurst:  cfg.RateLimit.Burst,
		CORSConfig: middleware.DefaultCORSConfig(cfg.CORS.AllowedOrigins),
		Timeout:    cfg.Server.Timeout(),
	})
	r.Setup()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).
			Bool("demo", cfg.Demo.Enabled).
			Bool("strict_transitions", cfg.Appointments.StrictTransitions).
			Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
