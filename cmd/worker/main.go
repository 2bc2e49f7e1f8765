package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/config"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/email"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/repository/postgres"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/worker"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/event"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/logger"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/messaging"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/messaging/redis"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/metrics"
)

const healthAddr = ":8081"

func setupHealthCheck(reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: healthAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("health check server failed")
			os.Exit(1)
		}
	}()
	return srv
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	l := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     cfg.Log.Pretty,
	})
	logger.SetGlobal(l.WithFields(map[string]interface{}{"component": "worker"}))

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
	m := metrics.NewMetrics("portal_worker", reg)
	loc, _ := cfg.Appointments.Location()

	mailer := email.NewSMTPService(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	notifier := worker.NewNotifier(postgres.NewPatientRepository(db), mailer, m, loc)

	if cfg.Reminders.Enabled {
		reminder := worker.NewReminder(postgres.NewAppointmentRepository(db), mailer, m, loc, worker.ReminderConfig{
			Lead:     cfg.Reminders.Lead(),
			Interval: cfg.Reminders.Interval(),
		})
		scheduler, err := reminder.Schedule(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start reminders")
		}
		defer scheduler.Stop()
	}

	consumer := messaging.NewConsumer(broker, func(payload []byte, err error) {
		log.Error().Err(err).Int("payload_bytes", len(payload)).Msg("failed to handle appointment event")
	})

	healthSrv := setupHealthCheck(reg)

	log.Info().Str("channel", event.AppointmentChannel).Msg("worker started")
	if err := consumer.Run(ctx, event.AppointmentChannel, notifier.Handle); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("consumer stopped")
	}

	log.Info().Msg("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = healthSrv.Shutdown(shutdownCtx)
}
