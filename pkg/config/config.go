package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port                    string
	Env                     string
	PostgresDSN             string
	MongoURI                string
	MongoDatabase           string
	RedisAddr               string
	JWTSecret               string
	JWTExpiry               time.Duration
	UnsplashAccessKey       string
	UnsplashBaseURL         string
	FirebaseCredentialsPath string
	RequestTimeout          time.Duration
	SearchCacheTTL          time.Duration
}

const devJWTSecret = "fotofolio-dev-secret"

// Load reads an optional .env file and config.yaml, then the environment.
// Environment variables win over both files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("ENV", "development")
	v.SetDefault("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=fotofolio port=5432 sslmode=disable")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "fotofolio")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRY", "720h")
	v.SetDefault("UNSPLASH_ACCESS_KEY", "")
	v.SetDefault("UNSPLASH_BASE_URL", "https://api.unsplash.com")
	v.SetDefault("FIREBASE_CREDENTIALS_PATH", "")
	v.SetDefault("REQUEST_TIMEOUT", "15s")
	v.SetDefault("SEARCH_CACHE_TTL", "5m")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{
		Port:                    v.GetString("PORT"),
		Env:                     v.GetString("ENV"),
		PostgresDSN:             v.GetString("POSTGRES_DSN"),
		MongoURI:                v.GetString("MONGO_URI"),
		MongoDatabase:           v.GetString("MONGO_DATABASE"),
		RedisAddr:               v.GetString("REDIS_ADDR"),
		JWTSecret:               v.GetString("JWT_SECRET"),
		JWTExpiry:               v.GetDuration("JWT_EXPIRY"),
		UnsplashAccessKey:       v.GetString("UNSPLASH_ACCESS_KEY"),
		UnsplashBaseURL:         v.GetString("UNSPLASH_BASE_URL"),
		FirebaseCredentialsPath: v.GetString("FIREBASE_CREDENTIALS_PATH"),
		RequestTimeout:          v.GetDuration("REQUEST_TIMEOUT"),
		SearchCacheTTL:          v.GetDuration("SEARCH_CACHE_TTL"),
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("JWT_SECRET must be set outside development")
		}
		cfg.JWTSecret = devJWTSecret
	}
	if cfg.JWTExpiry <= 0 {
		return nil, errors.New("JWT_EXPIRY must be a positive duration")
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "test"
}
