package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/servicedesk/helpdesk-backend-go/internal/config"
	appHTTP "github.com/servicedesk/helpdesk-backend-go/internal/handler/http"
	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/cron"
	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/database"
	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/jwt"
	"github.com/servicedesk/helpdesk-backend-go/internal/repository/postgresql"
	businessUnitService "github.com/servicedesk/helpdesk-backend-go/internal/service/businessunit"
	outshiftService "github.com/servicedesk/helpdesk-backend-go/internal/service/outshift"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       parseLogLevel(cfg.App.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "helpdesk-reporting"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: cfg.Database.MaxConns})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	transactor := postgresql.NewTransactor(db)
	activityRepo := postgresql.NewOutshiftRepository(db)
	businessUnitRepo := postgresql.NewBusinessUnitRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	outshiftSvc := outshiftService.NewOutshiftService(activityRepo, businessUnitRepo, transactor, outshiftService.Config{
		Location:     cfg.Report.Location,
		TicketBucket: cfg.Report.TicketBucket,
		Workers:      cfg.Report.Workers,
		DefaultDays:  cfg.Report.DefaultDays,
	})
	businessUnitSvc := businessUnitService.NewBusinessUnitService(businessUnitRepo, transactor)

	scheduler := cron.NewScheduler()
	if err := cron.NewOutshiftJobs(outshiftSvc, cfg.Report.SnapshotInterval).RegisterJobs(scheduler); err != nil {
		slog.Error("Failed to register cron jobs", "error", err)
		os.Exit(1)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	outshiftHandler := appHTTP.NewOutshiftHandler(outshiftSvc, cfg.Report.Location)
	businessUnitHandler := appHTTP.NewBusinessUnitHandler(businessUnitSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Logger:         logger,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		},
		JWTService,
		outshiftHandler,
		businessUnitHandler,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", cfg.Report.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
