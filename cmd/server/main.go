package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"go.uber.org/zap"

	"github.com/formation-app/centre-server/auth"
	"github.com/formation-app/centre-server/config"
	"github.com/formation-app/centre-server/repository"
	"github.com/formation-app/centre-server/seed"
	"github.com/formation-app/centre-server/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, cleanup, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer cleanup()

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	repos := repository.NewManager(db)
	repos.MustValidate()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := seed.New(db, repos, logger).Run(ctx); err != nil {
		cancel()
		logger.Error("seed", "error", err)
		os.Exit(1)
	}
	cancel()

	srv, err := server.New(cfg, db, repos, server.Options{Logger: logger})
	if err != nil {
		logger.Error("server setup", "error", err)
		os.Exit(1)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	if err := srv.Listen(); err != nil {
		logger.Error("listen", "error", err)
		os.Exit(1)
	}
}

func newLogger(debug bool) (auth.Logger, func(), error) {
	var zl *zap.Logger
	var err error
	if debug {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = zl.Sync()
	}

	return zapAdapter{sugar: zl.Sugar()}, cleanup, nil
}

// zapAdapter bridges zap's sugared logger to the key value logging
// interface the rest of the code expects.
type zapAdapter struct {
	sugar *zap.SugaredLogger
}

func (z zapAdapter) Debug(msg string, args ...any) { z.sugar.Debugw(msg, args...) }
func (z zapAdapter) Info(msg string, args ...any)  { z.sugar.Infow(msg, args...) }
func (z zapAdapter) Warn(msg string, args ...any)  { z.sugar.Warnw(msg, args...) }
func (z zapAdapter) Error(msg string, args ...any) { z.sugar.Errorw(msg, args...) }
