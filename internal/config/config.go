package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Драйверы хранилища и провайдеры изображений
const (
	StorageDriverSQLX = "sqlx"
	StorageDriverGorm = "gorm"

	MediaProviderMinio    = "minio"
	MediaProviderImageKit = "imagekit"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL    string        `env:"DATABASE_URL,required"`
	ServerPort     string        `env:"SERVER_PORT"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	StorageDriver  string        `env:"STORAGE_DRIVER" envDefault:"sqlx"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Ключ подписи JWT читается один раз при старте
	JWTSecret  string `env:"JWT_SECRET,required"`
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"10"`

	CORSOrigin        string `env:"CORS_ORIGIN" envDefault:"http://localhost:5173"`
	UploadConcurrency int    `env:"UPLOAD_CONCURRENCY" envDefault:"5"`
	MaxUploadBytes    int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	MediaProvider string `env:"MEDIA_PROVIDER" envDefault:"minio"`

	// Настройки для MinIO
	MinioEndpoint        string `env:"MINIO_ENDPOINT"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME" envDefault:"post-images"`
	MinioRegion          string `env:"MINIO_REGION" envDefault:"us-east-1"`
	MinioPublicURL       string `env:"MINIO_PUBLIC_URL"`

	// Настройки для ImageKit
	ImageKit struct {
		PrivateKey string `env:"IMAGEKIT_PRIVATE_KEY"`
		UploadURL  string `env:"IMAGEKIT_UPLOAD_URL" envDefault:"https://upload.imagekit.io/api/v1/files/upload"`
		APIURL     string `env:"IMAGEKIT_API_URL" envDefault:"https://api.imagekit.io/v1"`
		Folder     string `env:"IMAGEKIT_FOLDER" envDefault:"/posts"`
	}

	// RabbitMQ опционален: без URL очистка изображений выполняется синхронно
	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"image_cleanup_queue"`
	}
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config from environment: %w", err)
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет значения, которые env не умеет проверить тегами
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}

	switch c.StorageDriver {
	case StorageDriverSQLX, StorageDriverGorm:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (use %q or %q)", c.StorageDriver, StorageDriverSQLX, StorageDriverGorm)
	}

	switch c.MediaProvider {
	case MediaProviderMinio, MediaProviderImageKit:
	default:
		return fmt.Errorf("unknown MEDIA_PROVIDER %q (use %q or %q)", c.MediaProvider, MediaProviderMinio, MediaProviderImageKit)
	}

	if c.UploadConcurrency <= 0 {
		return fmt.Errorf("UPLOAD_CONCURRENCY must be positive, got %d", c.UploadConcurrency)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	return nil
}
