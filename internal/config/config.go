// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Admin                   `yaml:"admin"`
	Payment                 `yaml:"payment"`
	Telegram                `yaml:"telegram"`
	RabbitMQ                `yaml:"rabbitmq"`
	CORS                    `yaml:"cors"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"720h"`
}

// Admin содержит общий для процесса код повышения прав до администратора.
type Admin struct {
	ElevationCode string `yaml:"elevation_code" env:"ADMIN_CODE"`
}

// Payment настройки платёжного провайдера (Stripe Checkout).
// Пустой APIKey означает, что оплата не настроена.
type Payment struct {
	StripeAPIKey  string        `yaml:"stripe_api_key" env:"STRIPE_API_KEY"`
	WebhookSecret string        `yaml:"webhook_secret" env:"STRIPE_WEBHOOK_SECRET"`
	AmountMinor   int64         `yaml:"amount_minor" env-default:"999"`
	Currency      string        `yaml:"currency" env-default:"gbp"`
	Timeout       time.Duration `yaml:"timeout" env-default:"10s"`
}

// Telegram настройки импорта постов из канала.
type Telegram struct {
	BotToken   string        `yaml:"bot_token" env:"TELEGRAM_BOT_TOKEN"`
	FetchLimit int           `yaml:"fetch_limit" env-default:"100"`
	Timeout    time.Duration `yaml:"timeout" env-default:"10s"`
}

// RabbitMQ настройки подключения к брокеру сообщений.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// CORS список разрешённых источников.
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ORIGINS" env-separator:"," env-default:"*"`
}

// MustLoad функция для загрузки конфига. Перед чтением YAML подхватывает .env, если он есть.
func MustLoad() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %s", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// Load читает конфиг из файла и переменных окружения.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file: %s - does not exist", configPath)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("jwt_secret_key is required")
	}
	return &cfg, nil
}

// PaymentConfigured сообщает, задан ли ключ платёжного провайдера.
func (c *Config) PaymentConfigured() bool {
	return c.StripeAPIKey != ""
}

// TelegramConfigured сообщает, задан ли токен бота.
func (c *Config) TelegramConfigured() bool {
	return c.BotToken != ""
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  MaxRetries: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n"+
			"Payment:\n"+
			"  Configured: %t\n"+
			"  Amount: %d %s\n"+
			"Telegram:\n"+
			"  Configured: %t\n"+
			"RabbitMQ:\n"+
			"  URL set: %t\n",
		c.Env,
		c.AddressRedis,
		c.DB,
		c.MaxRetries,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.TokenTTL,
		c.PaymentConfigured(),
		c.AmountMinor, c.Currency,
		c.TelegramConfigured(),
		c.RabbitMQURL != "",
	)
}
