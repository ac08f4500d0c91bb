package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-api/internal/audit"
	"restaurant-api/internal/auth"
	"restaurant-api/internal/config"
	"restaurant-api/internal/httpapi"
	"restaurant-api/internal/notify"
	"restaurant-api/internal/password"
	"restaurant-api/internal/session"
	"restaurant-api/internal/users"
	"restaurant-api/migrations"
	"restaurant-api/pkg/logger"
	"restaurant-api/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	hasher, err := password.NewHasher(cfg.Auth.BcryptCost)
	if err != nil {
		log.Error("password hasher init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrations.Run(rootCtx, db); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	var ledger session.RotationLedger
	if cfg.Auth.EnforceRotation {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		ledger = session.NewRedisLedger(rdb)
	} else {
		log.Warn("refresh rotation not enforced; any unexpired refresh token is accepted")
	}

	var notifier notify.Notifier = notify.LogNotifier{Log: log}
	if cfg.Notify.RabbitMQURL != "" {
		n, err := notify.DialAMQP(cfg.Notify.RabbitMQURL, cfg.Notify.Queue)
		if err != nil {
			log.Error("rabbitmq init failed", "err", err)
			os.Exit(1)
		}
		defer n.Close()
		notifier = n
	}
	mailer := notify.NewDispatcher(notifier, log, cfg.Notify.Timeout)

	auditSvc := audit.NewService(audit.NewPostgresRepo(db), log)
	userRepo := users.NewPostgresRepository(db)

	h := httpapi.Handlers{
		Users: users.NewService(userRepo, hasher, mailer),
		Sessions: session.NewService(userRepo, hasher, authManager, session.Options{
			Ledger: ledger,
			Mailer: mailer,
			Audit:  auditSvc,
		}),
		Cookies: cfg.Cookie,
		Audit:   auditSvc,
		Ready: func(ctx context.Context) error {
			return utils.HealthCheck(ctx, db, 2*time.Second)
		},
	}

	r, err := newRouter(log, h, auth.RequireAccessToken(authManager))
	if err != nil {
		log.Error("router init failed", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}

	// Let in-flight mails finish before the broker connection closes.
	if err := mailer.Wait(shutdownCtx); err != nil {
		log.Warn("pending notifications dropped", "err", err)
	}
}
