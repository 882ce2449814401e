package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/config"
	"github.com/noah-isme/classroom-api/internal/database"
	"github.com/noah-isme/classroom-api/internal/handler"
	"github.com/noah-isme/classroom-api/internal/middleware"
	"github.com/noah-isme/classroom-api/internal/repository"
	"github.com/noah-isme/classroom-api/internal/router"
	"github.com/noah-isme/classroom-api/internal/scheduler"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/internal/utils"
	cloud "github.com/noah-isme/classroom-api/pkg/cloudinary"
	"github.com/noah-isme/classroom-api/pkg/idcode"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if cfg.AppEnv == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	logger = logger.With().Str("service", cfg.AppName).Logger()

	location, err := time.LoadLocation(cfg.StreakTimezone)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid streak timezone")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not set; chat cache and redis events disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to nats")
		}
		defer natsConn.Drain()
	}

	var avatars service.AvatarUploader
	if cfg.CloudinaryEnabled() {
		store, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create cloudinary client")
		}
		avatars = store
	} else {
		logger.Warn().Msg("cloudinary credentials not set; avatar uploads disabled")
	}

	validate := utils.NewValidator()
	encoder := idcode.NewEncoder(idcode.DefaultSize)
	events := service.NewEventBus(redisClient, natsConn, cfg.EventChannel, logger)
	tokens := service.NewTokenIssuer(service.TokenConfig{
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	})

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	codeRepo := repository.NewIdentifierCodeRepository(db)
	classRepo := repository.NewClassRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	chatRepo := repository.NewChatRepository(db)

	authService := service.NewAuthService(userRepo, encoder, tokens, validate, logger)
	accountService := service.NewAccountService(userRepo, classRepo, avatars, cfg.AvatarMaxSizeMB, validate, logger)
	codeService := service.NewCodeService(userRepo, codeRepo, encoder, logger)
	classService := service.NewClassService(classRepo, userRepo, validate, logger)
	goalService := service.NewGoalService(goalRepo, classRepo, validate, logger)
	taskService := service.NewTaskService(taskRepo, userRepo, events, location, validate, logger)
	streakService := service.NewStreakService(userRepo, taskRepo, profileRepo, events, location, logger)
	attendanceService := service.NewAttendanceService(attendanceRepo, userRepo, location, validate, logger)
	chatService := service.NewChatService(chatRepo, userRepo, redisClient, cfg.EventChannel, events, validate, logger)
	profileService := service.NewProfileService(userRepo, profileRepo, goalRepo, classRepo, logger)

	streakScheduler, err := scheduler.NewStreakScheduler(cfg.StreakResetSchedule, location, streakService, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to schedule streak reset")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.AvatarMaxSizeMB + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSAllowOrigins})
	var limiterStorage fiber.Storage
	if redisClient != nil {
		limiterStorage = middleware.NewRedisStorage(redisClient, cfg.EventChannel)
	}

	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		AccountHandler:    handler.NewAccountHandler(accountService, codeService, logger),
		ClassHandler:      handler.NewClassHandler(classService, logger),
		GoalHandler:       handler.NewGoalHandler(goalService, logger),
		TaskHandler:       handler.NewTaskHandler(taskService, streakService, logger),
		AttendanceHandler: handler.NewAttendanceHandler(attendanceService, logger),
		ChatHandler:       handler.NewChatHandler(chatService, logger),
		ProfileHandler:    handler.NewProfileHandler(profileService, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
		LimiterStorage:    limiterStorage,
		HealthProbes:      healthProbes(db, redisClient, natsConn),
	})

	streakScheduler.Start()

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, streakScheduler, logger)
}

func healthProbes(db *gorm.DB, redisClient *redis.Client, natsConn *nats.Conn) []handler.HealthProbe {
	probes := []handler.HealthProbe{{
		Name: "database",
		Check: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}
	if redisClient != nil {
		probes = append(probes, handler.HealthProbe{
			Name: "redis",
			Check: func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		})
	}
	if natsConn != nil {
		probes = append(probes, handler.HealthProbe{
			Name: "nats",
			Check: func(context.Context) error {
				if status := natsConn.Status(); status != nats.CONNECTED {
					return fmt.Errorf("connection %s", status)
				}
				return nil
			},
		})
	}
	return probes
}

func waitForShutdown(app *fiber.App, jobs *scheduler.StreakScheduler, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	jobs.Stop(ctx)
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
