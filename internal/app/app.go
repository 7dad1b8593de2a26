package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/filevault/filevault/internal/cache"
	"github.com/filevault/filevault/internal/config"
	"github.com/filevault/filevault/internal/db"
	"github.com/filevault/filevault/internal/queue"
	"github.com/filevault/filevault/internal/repository"
	"github.com/filevault/filevault/internal/service"
	"github.com/filevault/filevault/internal/storage"
)

type App struct {
	Cfg     *config.Config
	DB      *db.DB
	Redis   *redis.Client
	Queue   queue.Queue
	Storage storage.Storage

	UserRepository repository.UserRepository
	FileRepository repository.FileRepository

	AuthService  *service.AuthService
	UserService  *service.UserService
	FileService  *service.FileService
	EmailService *service.EmailService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.MongoURI(), cfg.DBDatabase)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize document store: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repository.EnsureUserIndexes(ctx, database); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	redisClient, err := cache.Init(cfg.RedisAddr())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	fileRepository := repository.NewFileRepository(database)
	sessionRepository := repository.NewSessionRepository(redisClient)

	// Shared infrastructure
	jobQueue := queue.NewRedisQueue(redisClient)
	blobStorage := storage.NewLocalStorage(cfg.FolderPath)

	// Services
	emailService := service.NewEmailService(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppName, cfg.IsDevelopment())
	authService := service.NewAuthService(userRepository, sessionRepository, cfg.SessionTTL)
	userService := service.NewUserService(userRepository, jobQueue)
	fileService := service.NewFileService(fileRepository, blobStorage, jobQueue)

	return &App{
		Cfg:     cfg,
		DB:      database,
		Redis:   redisClient,
		Queue:   jobQueue,
		Storage: blobStorage,

		UserRepository: userRepository,
		FileRepository: fileRepository,

		AuthService:  authService,
		UserService:  userService,
		FileService:  fileService,
		EmailService: emailService,
	}, nil
}

func (a *App) Close() error {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			return err
		}
	}
	if a.DB != nil {
		return a.DB.Close(context.Background())
	}
	return nil
}
