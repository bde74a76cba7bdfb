package di

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"orb-service/cmd/api/infrastructure"
	"orb-service/internal/adapter/cache"
	"orb-service/internal/adapter/db/gormdb"
	ginhandler "orb-service/internal/adapter/gin/handler"
	"orb-service/internal/adapter/gin/router"
	"orb-service/internal/adapter/repository/cached"
	"orb-service/internal/adapter/session"
	"orb-service/internal/config"
	"orb-service/internal/soundingtable"
	"orb-service/internal/usecase/auth"
	"orb-service/internal/usecase/fuel"
	"orb-service/internal/usecase/hitch"
	"orb-service/internal/usecase/sounding"
	redisclient "orb-service/pkg/redis"
)

// Container holds all application dependencies. Each NewContainer call
// yields an independent instance.
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client
	Sessions    session.Store
	Tables      *soundingtable.Set

	AuthUC     auth.Usecase
	SoundingUC sounding.Usecase
	FuelUC     fuel.Usecase
	HitchUC    hitch.Usecase

	Handlers router.Handlers
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rdb, err := infrastructure.NewRedisClient(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	tables, err := soundingtable.LoadFile(cfg.App.SoundingTablesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load sounding tables: %w", err)
	}

	sessionTTL := time.Duration(cfg.App.SessionTTLSeconds) * time.Second
	var sessions session.Store
	if rdb != nil {
		sessions = session.NewRedisStore(rdb.Client, sessionTTL, l)
	} else {
		sessions = session.NewMemoryStore(sessionTTL)
	}

	userRepo := gormdb.NewUserRepo(db, l)
	hitchRepo := gormdb.NewHitchRepo(db, l)
	soundingRepo := gormdb.NewSoundingRepo(db, l)
	fuelRepo := gormdb.NewFuelTicketRepo(db, l)

	var authRepo auth.Repository = userRepo
	if rdb != nil {
		userCache := cache.NewRedisUserCache(
			rdb.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		authRepo = cached.NewUserRepository(userRepo, userCache, l)
	}

	authUC := auth.New(authRepo, sessions, l)
	hitchUC := hitch.New(hitchRepo, l)
	soundingUC := sounding.New(soundingRepo, hitchRepo, tables, l)
	fuelUC := fuel.New(fuelRepo, hitchRepo, l)

	handlers := router.Handlers{
		Page:     ginhandler.NewPageHandler(),
		Auth:     ginhandler.NewAuthHandler(authUC, cfg.App.SessionSecure, cfg.App.SessionTTLSeconds, l),
		Sounding: ginhandler.NewSoundingHandler(soundingUC, l),
		Fuel:     ginhandler.NewFuelHandler(fuelUC, l),
		Hitch:    ginhandler.NewHitchHandler(hitchUC, l),
	}

	return &Container{
		Config:      cfg,
		Logger:      l,
		DB:          db,
		RedisClient: rdb,
		Sessions:    sessions,
		Tables:      tables,
		AuthUC:      authUC,
		SoundingUC:  soundingUC,
		FuelUC:      fuelUC,
		HitchUC:     hitchUC,
		Handlers:    handlers,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
