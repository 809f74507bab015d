package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"vetpoint/backend/internal/config"
	"vetpoint/backend/internal/events"
	"vetpoint/backend/internal/identity"
	"vetpoint/backend/internal/notify"
	"vetpoint/backend/internal/service/appointments"
	"vetpoint/backend/internal/service/auth"
	"vetpoint/backend/internal/service/directory"
	"vetpoint/backend/internal/service/pets"
	"vetpoint/backend/internal/store/postgres"
	httpTransport "vetpoint/backend/internal/transport/http"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With(
		slog.String("service", "vetpoint-server"),
	)
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})).With(
		slog.String("service", "vetpoint-server"),
	)
	slog.SetDefault(log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTPHost, cfg.HTTPPort)
	log.Info("starting", slog.String("http_addr", addr), slog.String("log_level", cfg.LogLevel))

	if cfg.JWTSecret == "" {
		log.Error("VETPOINT_JWT_SECRET is required")
		os.Exit(1)
	}

	log.Info("connecting to database", databaseLogArgs(cfg.DatabaseURL)...)
	db, err := postgres.Open(cfg.DatabaseURL, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		args := append([]any{slog.Any("err", err)}, databaseLogArgs(cfg.DatabaseURL)...)
		log.Error("database connection failed", args...)
		os.Exit(1)
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			log.Warn("database close failed", slog.Any("err", err))
		}
	}()

	appointmentRepo := postgres.NewAppointmentRepo(db)
	userRepo := postgres.NewUserRepo(db)
	petRepo := postgres.NewPetRepo(db)
	clinicRepo := postgres.NewClinicRepo(db)
	vetRepo := postgres.NewVeterinarianRepo(db)
	deviceRepo := postgres.NewPushDeviceRepo(db)

	bus := events.NewBus(log)
	tokens := identity.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	verifier := identity.NewTokenInfoVerifier(nil)

	authSvc := auth.NewService(userRepo, tokens, verifier, log)
	petSvc := pets.NewService(petRepo, log)
	directorySvc := directory.NewService(clinicRepo, vetRepo, userRepo, log)
	appointmentSvc := appointments.NewService(appointmentRepo, petRepo, userRepo, clinicRepo, vetRepo, bus, log)

	if cfg.OneSignalAppID != "" && cfg.OneSignalAPIKey != "" {
		sender := notify.NewOneSignalClient(cfg.OneSignalAppID, cfg.OneSignalAPIKey)
		dispatcher := notify.NewDispatcher(sender, deviceRepo, vetRepo, bus, log)
		dispatcher.Start()
		defer dispatcher.Stop()
	} else {
		log.Warn("onesignal credentials missing; push notifications disabled")
	}

	router := httpTransport.NewRouter(httpTransport.RouterConfig{
		Tokens:         tokens,
		Auth:           httpTransport.NewAuthHandler(authSvc, log),
		Pets:           httpTransport.NewPetsHandler(petSvc, log),
		Directory:      httpTransport.NewDirectoryHandler(directorySvc, log),
		Appointments:   httpTransport.NewAppointmentsHandler(appointmentSvc, log),
		Devices:        httpTransport.NewDevicesHandler(deviceRepo, log),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	log.Info("http server started", slog.String("http_addr", addr))

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn("http graceful shutdown failed; forcing close", slog.Any("err", err))
			_ = server.Close()
		} else {
			log.Info("http server stopped")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Error("http server stopped with error", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func databaseLogArgs(databaseURL string) []any {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return []any{slog.String("db_url", "invalid")}
	}
	name := strings.TrimPrefix(u.Path, "/")
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "default"
	}
	if host == "" {
		host = "unknown"
	}
	if name == "" {
		name = "unknown"
	}
	return []any{
		slog.String("db_host", host),
		slog.String("db_port", port),
		slog.String("db_name", name),
	}
}
