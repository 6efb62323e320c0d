package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "time/tzdata"

	"bookwithbea/internal/config"
	"bookwithbea/internal/database"
	"bookwithbea/internal/modules/catalog"
	"bookwithbea/internal/modules/ledger"
	"bookwithbea/internal/modules/notification"
	jwtsvc "bookwithbea/internal/pkg/jwt"
	"bookwithbea/internal/pkg/logger"
	"bookwithbea/internal/repository"
	"bookwithbea/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.S().Fatalf("config: %v", err)
	}

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.DatabaseURL, database.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	if err := database.Migrate(db, repository.Models()...); err != nil {
		return err
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}

	schedule, err := ledger.NewSlotSchedule(cfg.OpenTime, cfg.CloseTime, cfg.SlotIncrement, cfg.ClosedWeekday)
	if err != nil {
		return err
	}
	l := ledger.New(repository.NewStore(db), loc, schedule, ledger.WithLogger(log.Named("ledger")))

	ctx := context.Background()
	if cfg.SlotHorizonDays > 0 {
		created, err := l.GenerateHorizon(ctx, cfg.SlotHorizonDays)
		if err != nil {
			return err
		}
		log.Info("slot horizon ready", zap.Int("days", cfg.SlotHorizonDays), zap.Int64("created", created))
	}

	notifiers := []notification.Notifier{notification.NewLogNotifier(log.Named("notify"))}
	if cfg.RedisAddr != "" {
		rdb := notification.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable at startup", zap.Error(err))
		}
		notifiers = append(notifiers, notification.NewRedisQueueNotifier(rdb, cfg.RedisQueueKey))
	}
	if cfg.SheetPath != "" {
		notifiers = append(notifiers, notification.NewSheetNotifier(cfg.SheetPath))
	}
	dispatcher := notification.NewDispatcher(cfg.NotifyTimeout, log.Named("notify"), notifiers...)

	router := server.NewRouter(server.Deps{
		Config:     cfg,
		Log:        log,
		DB:         db,
		Ledger:     l,
		Catalog:    cat,
		Dispatcher: dispatcher,
		Tokens:     jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		log.Warn("pending notifications dropped", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
