// cmd/dashboard-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"station-dashboard/internal/audit"
	"station-dashboard/internal/broadcast"
	"station-dashboard/internal/common/auth"
	awsx "station-dashboard/internal/common/aws"
	"station-dashboard/internal/common/config"
	"station-dashboard/internal/common/database"
	apperrors "station-dashboard/internal/common/errors"
	httpx "station-dashboard/internal/common/http"
	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/common/observability"
	"station-dashboard/internal/fanout"
	"station-dashboard/internal/realtime"
	"station-dashboard/internal/repository"
	"station-dashboard/internal/segmentation"
	"station-dashboard/internal/server"
	"station-dashboard/internal/verification"

	rv "station-dashboard/internal/handlers/admin/review-verification"
	ai "station-dashboard/internal/handlers/adverts/ad-interaction"
	ss "station-dashboard/internal/handlers/auth/session"
	be "station-dashboard/internal/handlers/communication/broadcast-email"
	ms "station-dashboard/internal/handlers/managers/manager-station"
	rs "station-dashboard/internal/handlers/managers/register-station"
	sn "station-dashboard/internal/handlers/notifications/send-notification"
	lp "station-dashboard/internal/handlers/prices/live-prices"
	as "station-dashboard/internal/handlers/settings/app-settings"
	su "station-dashboard/internal/handlers/users/search-users"
	up "station-dashboard/internal/handlers/verification/upload-photo"
	vs "station-dashboard/internal/handlers/verification/verification-status"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func must[T any](v T, err error) func(zapLog *zap.Logger, what string) T {
	return func(zapLog *zap.Logger, what string) T {
		if err != nil {
			zapLog.Fatal(what+" init failed", zap.Error(err))
		}
		return v
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting dashboard api...", zap.String("environment", cfg.App.Environment))

	obs, err := observability.New(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint)
	if err != nil {
		zapLog.Warn("observability init failed, continuing without exporters", zap.Error(err))
		obs = observability.NewNoop()
	}
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- AWS ---
	awsCfg := must(awsx.LoadConfig(ctx, cfg.Integrations.AWS.Region))(zapLog, "AWS config")
	objects := awsx.NewObjectStore(awsx.NewS3Client(awsCfg), cfg.Integrations.AWS.S3.Bucket, cfg.Integrations.AWS.S3.PublicBaseURL)

	var sender broadcast.Sender
	switch cfg.Broadcast.Provider {
	case "smtp":
		sender = broadcast.NewSMTPSender(cfg.Integrations)
	default:
		sender = broadcast.NewSESSender(awsx.NewSESClient(awsCfg))
	}
	zapLog.Info("Email provider selected", zap.String("provider", sender.Name()))

	var fanoutOpts []fanout.Option
	if cfg.Notifications.Announce && cfg.Integrations.AWS.SNS.Enabled {
		fanoutOpts = append(fanoutOpts, fanout.WithAnnouncer(
			fanout.NewSNSAnnouncer(awsx.NewSNSClient(awsCfg), cfg.Integrations.AWS.SNS.TopicARN),
		))
	}

	// --- Repositories and services ---
	profiles := repository.NewProfileRepository(pg.DB)
	managers := repository.NewManagerRepository(pg.DB)
	stations := repository.NewStationRepository(pg.DB)
	settings := repository.NewSettingsRepository(pg.DB)
	adverts := repository.NewAdAnalyticsRepository(pg.DB)
	notifications := repository.NewNotificationRepository(pg.DB, cfg.Notifications.InsertChunkSize)

	auditor := audit.NewRecorder(repository.NewAuditRepository(pg.DB), log)
	resolver := segmentation.NewResolver(profiles, log)
	dispatcher := fanout.NewDispatcher(notifications, log, fanoutOpts...)
	broadcaster := broadcast.NewDispatcher(sender, broadcast.Options{
		From:          cfg.Broadcast.Sender(),
		Footer:        cfg.Broadcast.Footer,
		MaxRecipients: cfg.Broadcast.MaxRecipients,
	}, log)
	verifier := verification.NewService(managers, objects, auditor, verification.Config{
		ObjectPrefix:        cfg.Verification.ObjectPrefix,
		PollIntervalSeconds: cfg.Verification.PollIntervalSeconds,
	}, log)

	sessions := auth.NewSessionManager(
		auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience),
		auth.NewRedisSessionStore(rdb.Client, cfg.Auth.SessionPrefix),
		profiles,
		log,
	)

	hub := realtime.NewHub()
	if cfg.Realtime.Enabled {
		sub := realtime.NewRedisSubscriber(rdb.Client, cfg.Realtime.Channel, log)
		go func() {
			if err := sub.Subscribe(ctx, hub.Consume); err != nil {
				zapLog.Error("Price change subscription stopped", zap.Error(err))
			}
		}()
	}

	// --- Handlers ---
	sendNotification := must(sn.NewHandler(sn.HandlerOptions{
		AppConfig: cfg, Resolver: resolver, Dispatcher: dispatcher, Auditor: auditor, Observability: obs, Logger: log,
	}))(zapLog, sn.Endpoint)
	broadcastEmail := must(be.NewHandler(be.HandlerOptions{
		AppConfig: cfg, Broadcaster: broadcaster, Auditor: auditor, Observability: obs, Logger: log,
	}))(zapLog, be.Endpoint)
	searchUsers := must(su.NewHandler(su.HandlerOptions{Directory: profiles, Logger: log}))(zapLog, su.Endpoint)
	appSettings := must(as.NewHandler(as.HandlerOptions{AppConfig: cfg, Store: settings, Auditor: auditor, Logger: log}))(zapLog, as.Endpoint)
	adInteraction := must(ai.NewHandler(ai.HandlerOptions{Store: adverts, Logger: log}))(zapLog, ai.Endpoint)
	session := must(ss.NewHandler(ss.HandlerOptions{AppConfig: cfg, Lifecycle: sessions, Logger: log}))(zapLog, ss.Endpoint)
	registerStation := must(rs.NewHandler(rs.HandlerOptions{Managers: managers, Stations: stations, Logger: log}))(zapLog, rs.Endpoint)
	uploadPhoto := must(up.NewHandler(up.HandlerOptions{AppConfig: cfg, Uploader: verifier, Logger: log}))(zapLog, up.Endpoint)
	verificationStatus := must(vs.NewHandler(vs.HandlerOptions{AppConfig: cfg, Reader: verifier, Logger: log}))(zapLog, vs.Endpoint)
	review := must(rv.NewHandler(rv.HandlerOptions{Reviewer: verifier, Logger: log}))(zapLog, rv.Endpoint)
	livePrices := must(lp.NewHandler(lp.HandlerOptions{Hub: hub, Logger: log}))(zapLog, lp.Endpoint)

	errs := apperrors.NewErrorHandler(log)
	backendClient := httpx.NewClient(config.GetDuration(cfg.Integrations.Backend.PingTimeout))

	checks := []server.Check{
		{Name: "postgres", Run: pg.Ping},
		{Name: "redis", Run: rdb.Ping},
	}
	if url := cfg.Integrations.Backend.HealthURL; url != "" {
		checks = append(checks, server.Check{Name: "backend", Run: func(ctx context.Context) error {
			return backendClient.Ping(ctx, url)
		}})
	}

	router := server.NewRouter(server.RouterOptions{
		Routes: server.Routes{
			SendNotification:   sendNotification,
			BroadcastEmail:     broadcastEmail,
			SearchUsers:        searchUsers,
			GetSettings:        appSettings.Get,
			PostSettings:       appSettings.Post,
			AdInteraction:      adInteraction,
			SessionInit:        session.Init,
			SessionRefresh:     session.Refresh,
			SignOut:            session.SignOut,
			RegisterStation:    registerStation,
			UploadPhoto:        uploadPhoto,
			VerificationStatus: verificationStatus,
			ManagerStation:     ms.NewHandler(managers, stations, log),
			ListVerifications:  review.List,
			DecideVerification: review.Decide,
			LivePrices:         livePrices,
		},
		Gates:         server.NewGates(sessions, verifier, cfg.Auth.CookieName, errs, log),
		PageGate:      server.NewPageGate(managers, errs, log),
		StaticDir:     cfg.Server.StaticDir,
		ReadyChecks:   checks,
		Observability: obs,
		Logger:        log,
	})

	srv := &http.Server{
		Addr:        cfg.Server.Address,
		Handler:     router,
		ReadTimeout: config.GetDuration(cfg.Server.ReadTimeout),
		// live price streams clear their own write deadline
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, draining requests...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Dashboard api stopped gracefully")
}
