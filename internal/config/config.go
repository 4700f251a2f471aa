package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Драйверы хранилища токена
const (
	TokenStoreRedis    = "redis"
	TokenStorePostgres = "postgres"
	TokenStoreFile     = "file"
	TokenStoreKeyring  = "keyring"
)

// DefaultTokenKey ключ, под которым клиент хранит bearer-токен
const DefaultTokenKey = "@notiolink/app_token"

type Config struct {
	App        AppConfig
	API        APIConfig
	TokenStore TokenStoreConfig
	DB         DBConfig
	Redis      RedisConfig
	RateLimit  RateLimitConfig
}

type AppConfig struct {
	Port     string
	LogLevel string
}

// APIConfig описывает бэкенд сокращателя ссылок
type APIConfig struct {
	BaseURL       string
	DetailBaseURL string
	// Password отправляется в POST /api/login. Это не секрет: он хранится у клиента.
	Password string
	Timeout  time.Duration
	// Ограничение исходящих запросов к бэкенду
	RequestsPerSecond float64
	BurstSize         int
}

type TokenStoreConfig struct {
	Driver string
	Key    string
	File   string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

var ErrUnknownTokenStore = errors.New("unknown token store driver")

// Load читает конфигурацию из .env (если файл есть) и переменных окружения
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile то же, что Load, но с явным путём к env-файлу
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	// Отсутствие файла не ошибка: всё можно задать через окружение
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		}
	}

	var cfg Config
	cfg.App.Port = v.GetString("APP_PORT")
	cfg.App.LogLevel = v.GetString("LOG_LEVEL")

	cfg.API.BaseURL = strings.TrimRight(v.GetString("API_BASE_URL"), "/")
	cfg.API.DetailBaseURL = strings.TrimRight(v.GetString("DETAIL_BASE_URL"), "/")
	if cfg.API.DetailBaseURL == "" {
		cfg.API.DetailBaseURL = cfg.API.BaseURL
	}
	cfg.API.Password = v.GetString("API_PASSWORD")
	cfg.API.Timeout = v.GetDuration("API_TIMEOUT")
	cfg.API.RequestsPerSecond = v.GetFloat64("API_RATE_LIMIT_RPS")
	cfg.API.BurstSize = v.GetInt("API_RATE_LIMIT_BURST")

	cfg.TokenStore.Driver = strings.ToLower(v.GetString("TOKEN_STORE_DRIVER"))
	cfg.TokenStore.Key = v.GetString("TOKEN_KEY")
	cfg.TokenStore.File = v.GetString("TOKEN_FILE")

	cfg.DB.Host = v.GetString("DB_HOST")
	cfg.DB.Port = v.GetString("DB_PORT")
	cfg.DB.User = v.GetString("DB_USER")
	cfg.DB.Password = v.GetString("DB_PASSWORD")
	cfg.DB.Name = v.GetString("DB_NAME")
	cfg.DB.SSLMode = v.GetString("DB_SSLMODE")
	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetString("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")

	// Rate limit config
	cfg.RateLimit.RequestsPerSecond = v.GetFloat64("RATE_LIMIT_RPS")
	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = 10
	}
	cfg.RateLimit.BurstSize = v.GetInt("RATE_LIMIT_BURST")
	if cfg.RateLimit.BurstSize == 0 {
		cfg.RateLimit.BurstSize = 20
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("API_BASE_URL", "http://localhost:8080")
	v.SetDefault("API_PASSWORD", "chow")
	v.SetDefault("API_TIMEOUT", 10*time.Second)
	v.SetDefault("API_RATE_LIMIT_RPS", 5)
	v.SetDefault("API_RATE_LIMIT_BURST", 10)
	v.SetDefault("TOKEN_STORE_DRIVER", TokenStoreRedis)
	v.SetDefault("TOKEN_KEY", DefaultTokenKey)
	v.SetDefault("TOKEN_FILE", defaultTokenFile())
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
}

func (c *Config) validate() error {
	switch c.TokenStore.Driver {
	case TokenStoreRedis, TokenStorePostgres, TokenStoreFile, TokenStoreKeyring:
	default:
		return ErrUnknownTokenStore
	}
	if c.API.BaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	return nil
}

// defaultTokenFile путь к файлу токена для CLI (~/.config/chowlink/token)
func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".chowlink_token"
	}
	return filepath.Join(dir, "chowlink", "token")
}
