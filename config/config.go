package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageDriverJSON     = "json"
	StorageDriverPostgres = "postgres"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Admin   AdminConfig
}

type AppConfig struct {
	Port       string
	Env        string
	APIPrefix  string
	LogLevel   string
	CORSOrigin string
}

// StorageConfig selects where collections live. The json driver keeps one
// file per collection under DataDir.
type StorageConfig struct {
	Driver      string
	DataDir     string
	SlotLockTTL time.Duration
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
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

// AdminConfig seeds the single admin account at startup. Admins cannot
// self-register.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

func LoadConfigFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 24 * time.Hour
	}

	slotLockTTL, err := time.ParseDuration(v.GetString("SLOT_LOCK_TTL"))
	if err != nil {
		slotLockTTL = 10 * time.Second
	}

	config := &Config{
		App: AppConfig{
			Port:       v.GetString("APP_PORT"),
			Env:        v.GetString("APP_ENV"),
			APIPrefix:  v.GetString("API_PREFIX"),
			LogLevel:   v.GetString("LOG_LEVEL"),
			CORSOrigin: v.GetString("CORS_ALLOW_ORIGIN"),
		},
		Storage: StorageConfig{
			Driver:      v.GetString("STORAGE_DRIVER"),
			DataDir:     v.GetString("DATA_DIR"),
			SlotLockTTL: slotLockTTL,
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
			Name:     v.GetString("ADMIN_NAME"),
		},
	}

	if config.Storage.Driver != StorageDriverJSON && config.Storage.Driver != StorageDriverPostgres {
		return nil, errors.New("STORAGE_DRIVER must be json or postgres")
	}
	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "5000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOW_ORIGIN", "*")
	v.SetDefault("STORAGE_DRIVER", StorageDriverJSON)
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("SLOT_LOCK_TTL", "10s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("JWT_ACCESS_EXPIRY", "24h")
	v.SetDefault("ADMIN_NAME", "Administrator")
}
