package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"route_planner/internal/config"
	"route_planner/internal/geocoding"
	"route_planner/internal/logger"
	"route_planner/internal/mapview"
	"route_planner/internal/middleware"
	"route_planner/internal/persistence"
	"route_planner/internal/planner"
	"route_planner/internal/routes"
)

func main() {
	cfg := config.Load()

	// Initialize structured logging to file
	logOut := logger.Setup(logger.Options{File: cfg.LogFile, Stdout: cfg.LogStdout, Level: cfg.LogLevel})
	gin.SetMode(gin.ReleaseMode)

	store, closeStore, err := openStore(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open stop storage")
	}
	defer closeStore()

	hub := mapview.NewHub()
	defer hub.Close()

	p := planner.New(planner.Options{
		Geocoder:      geocoding.NewNominatimClient(cfg.GeocoderURL, cfg.GeocoderUserAgent, cfg.GeocoderTimeout),
		Persistence:   store,
		Sink:          hub,
		LookupTimeout: cfg.GeocoderTimeout,
	})
	p.LoadFromPersistence(context.Background())

	r := routes.SetupRouter(routes.Deps{
		Planner:   p,
		Hub:       hub,
		JWTSecret: cfg.JWTSecret,
		AccessLog: logOut,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           middleware.EnableCORS(cfg.CORSOrigins)(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{"addr": srv.Addr, "store": cfg.Store}).Info("Route planner listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Server stopped")
		}
	}()
	if cfg.JWTSecret == "" {
		logrus.Warn("JWT_SECRET is empty, API is unauthenticated")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Graceful shutdown failed")
	}
	p.Close()
}

// openStore picks the persistence backend and returns a matching closer.
func openStore(cfg config.Config) (persistence.Adapter, func(), error) {
	noop := func() {}
	switch cfg.Store {
	case config.StoreFile:
		return persistence.NewFileStore(cfg.DataFile), noop, nil

	case config.StoreSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, noop, err
		}
		s, err := persistence.NewSQLiteStore(context.Background(), cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				logrus.WithError(err).Warn("Closing SQLite store")
			}
		}, nil

	case config.StorePostgres:
		db, err := config.OpenPostgres(cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		s, err := persistence.NewGormStore(db)
		if err != nil {
			return nil, noop, err
		}
		return s, func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}, nil

	default:
		return nil, noop, fmt.Errorf("unknown PLANNER_STORE %q", cfg.Store)
	}
}
