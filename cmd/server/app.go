package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/hostel-seat-allocation/internal/config"
	"github.com/iliyamo/hostel-seat-allocation/internal/database"
	"github.com/iliyamo/hostel-seat-allocation/internal/handler"
	"github.com/iliyamo/hostel-seat-allocation/internal/logger"
	"github.com/iliyamo/hostel-seat-allocation/internal/middleware"
	"github.com/iliyamo/hostel-seat-allocation/internal/repository"
	"github.com/iliyamo/hostel-seat-allocation/internal/repository/memory"
	"github.com/iliyamo/hostel-seat-allocation/internal/router"
	"github.com/iliyamo/hostel-seat-allocation/internal/service"
)

// stores is the storage backend selected by STORE_DRIVER.
type stores struct {
	Hostels     repository.HostelStore
	Rooms       repository.RoomStore
	Boarders    repository.BoarderStore
	Admins      repository.AdminStore
	Allocations repository.AllocationStore
	db          *sql.DB
}

func (s *stores) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func openStores(cfg config.Config, log *zap.Logger) (*stores, error) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Warn("using in-memory store, data is lost on exit")
		m := memory.New()
		return &stores{Hostels: m, Rooms: m, Boarders: m, Admins: m, Allocations: m}, nil
	}
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	return &stores{
		Hostels:     repository.NewHostelRepo(db),
		Rooms:       repository.NewRoomRepo(db),
		Boarders:    repository.NewBoarderRepo(db),
		Admins:      repository.NewAdminRepo(db),
		Allocations: repository.NewAllocationRepo(db),
		db:          db,
	}, nil
}

func openDB(cfg config.Config) (*sql.DB, error) {
	db, err := database.Open(database.Options{
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		Name: cfg.DBName,
	})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// bootstrap loads configuration and builds the logger every command
// starts from.
func bootstrap(service string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, service)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, log, nil
}

func authConfig(cfg config.Config) service.AuthConfig {
	return service.AuthConfig{
		Secret:     cfg.JWTSecret,
		TTLMin:     cfg.AccessTTLMin,
		BcryptCost: cfg.BcryptCost,
	}
}

// newServer wires services, handlers and routes over st.  The memory
// store starts empty, so the configured admin is created first; without
// it no admin route could ever be reached.
func newServer(ctx context.Context, cfg config.Config, st *stores, rdb *redis.Client, publisher service.EventPublisher, log *zap.Logger) (*echo.Echo, error) {
	auth := service.NewAuthService(st.Admins, authConfig(cfg), log)
	if cfg.StoreDriver == config.DriverMemory {
		a, err := auth.CreateAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			return nil, fmt.Errorf("seed admin: %w", err)
		}
		log.Info("seeded admin", zap.String("username", a.Username))
	}

	e := router.New(log)
	router.RegisterRoutes(e, &handler.AuthHandler{Svc: auth, Log: log, SecureCookie: cfg.Env == "prod"})
	router.RegisterAdmin(e, router.Admin{
		Hostels:     &handler.HostelHandler{Svc: service.NewHostelService(st.Hostels, st.Rooms), Log: log},
		Rooms:       &handler.RoomHandler{Rooms: service.NewRoomRegistry(st.Hostels, st.Rooms), Log: log},
		Allocations: &handler.AllocationHandler{Svc: service.NewAllocationService(st.Allocations, st.Boarders, publisher, log), Log: log},
		Boarders:    &handler.BoarderHandler{Svc: service.NewBoarderService(st.Boarders), Log: log},
	}, router.AdminMiddleware{
		JWTSecret: cfg.JWTSecret,
		Role:      cfg.AdminRole,
		Admins:    auth,
		RateLimit: cfg.RateLimit,
		Cache:     middleware.NewResponseCache(cfg.Cache, rdb, log),
		Rdb:       rdb,
		Log:       log,
	})
	return e, nil
}
