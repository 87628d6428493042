package di

import (
	"fmt"
	"log/slog"

	"github.com/GoArmGo/SocialApp/internal/adapter/imagekit"
	"github.com/GoArmGo/SocialApp/internal/adapter/storage/minio"
	"github.com/GoArmGo/SocialApp/internal/app"
	"github.com/GoArmGo/SocialApp/internal/auth"
	"github.com/GoArmGo/SocialApp/internal/config"
	"github.com/GoArmGo/SocialApp/internal/core/ports"
	"github.com/GoArmGo/SocialApp/internal/database/client"
	"github.com/GoArmGo/SocialApp/internal/database/postgres"
	"github.com/GoArmGo/SocialApp/internal/database/storage"
	"github.com/GoArmGo/SocialApp/internal/handler"
	"github.com/GoArmGo/SocialApp/internal/logger"
	"github.com/GoArmGo/SocialApp/internal/rabbitmq"
	"github.com/GoArmGo/SocialApp/internal/usecase"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp() (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	var closers []func() error
	fail := func(err error) (*app.App, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
		return nil, err
	}

	// 2. Сервис токенов: без ключа подписи сервер не стартует
	tokens, err := auth.NewTokenService([]byte(cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("init token service: %w", err)
	}
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	// 3. Хранилища
	userStorage, postStorage, closeDB, err := buildStorage(cfg, slogger)
	if err != nil {
		return nil, err
	}
	closers = append(closers, closeDB)

	// 4. Хостинг изображений
	fileStorage, err := buildFileStorage(cfg, slogger)
	if err != nil {
		return fail(err)
	}

	// 5. Очистка изображений: очередь RabbitMQ или синхронное удаление
	var (
		cleanupPublisher ports.ImageCleanupPublisher
		cleanupConsumer  ports.ImageCleanupConsumer
	)
	if cfg.RabbitMQ.RabbitMQURL != "" {
		rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() error {
			rabbitMQClient.Close()
			return nil
		})
		cleanupPublisher = rabbitMQClient
		cleanupConsumer = rabbitMQClient
	} else {
		slogger.Warn("RABBITMQ_URL is not set, images are removed synchronously")
		cleanupPublisher = usecase.NewDirectImageCleaner(fileStorage, slogger)
	}

	// 6. Бизнес-логика
	authUseCase := usecase.NewAuthUseCase(userStorage, hasher, tokens, slogger)
	postUseCase := usecase.NewPostUseCase(postStorage, fileStorage, cleanupPublisher, slogger)

	// 7. HTTP
	uploadLimiter := make(chan struct{}, cfg.UploadConcurrency)
	router := handler.NewRouter(
		handler.RouterConfig{
			CORSOrigin:     cfg.CORSOrigin,
			RequestTimeout: cfg.RequestTimeout,
		},
		handler.NewAuthHandler(authUseCase, slogger),
		handler.NewPostHandler(postUseCase, uploadLimiter, cfg.MaxUploadBytes, slogger),
		auth.NewAuthenticator(tokens, userStorage),
		slogger,
	)

	application := app.NewApp(
		cfg,
		slogger,
		router,
		cleanupConsumer,
		usecase.NewImageCleanupHandler(fileStorage, slogger),
		closers...,
	)

	slogger.Info("all dependencies initialized",
		"storage_driver", cfg.StorageDriver,
		"media_provider", cfg.MediaProvider,
		"cleanup_queue", cleanupConsumer != nil,
	)
	return application, nil
}

// buildStorage выбирает реализацию хранилищ по STORAGE_DRIVER
func buildStorage(cfg *config.Config, logger *slog.Logger) (ports.UserStorage, ports.PostStorage, func() error, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverGorm:
		db, err := postgres.Open(cfg, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("get sql.DB from gorm: %w", err)
		}
		return postgres.NewGormUserStorage(db, logger), postgres.NewGormPostStorage(db, logger), sqlDB.Close, nil

	default:
		dbClient, err := client.NewClient(cfg, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		return storage.NewUserStorage(dbClient.DB, logger), storage.NewPostgresStorage(dbClient.DB, logger), dbClient.Close, nil
	}
}

// buildFileStorage выбирает хостинг изображений по MEDIA_PROVIDER
func buildFileStorage(cfg *config.Config, logger *slog.Logger) (ports.FileStorage, error) {
	switch cfg.MediaProvider {
	case config.MediaProviderImageKit:
		return imagekit.NewClient(cfg, logger)
	default:
		return minio.NewMinioClient(cfg, logger)
	}
}
