package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Token     TokenConfig
	Redis     RedisConfig
	Mail      MailConfig
	RabbitMQ  RabbitMQConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Debug       bool
	LogPath     string
	FrontendURL string // activation and reset links point here
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenConfig is the validity window of one-time email tokens.
type TokenConfig struct {
	ActivationTTL time.Duration
	ResetTTL      time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MailConfig struct {
	Driver        string // log | mailgun | queue
	MailgunDomain string
	MailgunAPIKey string
	Sender        string
	SupportEmail  string
}

type RabbitMQConfig struct {
	URL        string
	EmailQueue string
}

type RateLimitConfig struct {
	AuthPerMinute int
}

const (
	MinEmailTokenTTL = time.Hour
	MaxEmailTokenTTL = 24 * time.Hour
)

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "crowdfunding")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("FRONTEND_URL", "http://localhost:3000")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_ACCESS_TTL", "15m")
	viper.SetDefault("JWT_REFRESH_TTL", "168h")
	viper.SetDefault("ACTIVATION_TOKEN_TTL", "1h")
	viper.SetDefault("RESET_TOKEN_TTL", "1h")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("MAIL_DRIVER", "log")
	viper.SetDefault("MAIL_SENDER", "no-reply@localhost")
	viper.SetDefault("SUPPORT_EMAIL", "support@localhost")
	viper.SetDefault("RABBITMQ_EMAIL_QUEUE", "email_jobs")
	viper.SetDefault("RATE_LIMIT_AUTH_PER_MINUTE", 20)

	// .env is optional; real deployments use the environment
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:        viper.GetString("APP_NAME"),
			Port:        viper.GetString("PORT"),
			Debug:       viper.GetBool("DEBUG"),
			LogPath:     viper.GetString("LOG_PATH"),
			FrontendURL: viper.GetString("FRONTEND_URL"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:     viper.GetString("JWT_SECRET"),
			AccessTTL:  viper.GetDuration("JWT_ACCESS_TTL"),
			RefreshTTL: viper.GetDuration("JWT_REFRESH_TTL"),
		},
		Token: TokenConfig{
			ActivationTTL: ClampEmailTokenTTL(viper.GetDuration("ACTIVATION_TOKEN_TTL")),
			ResetTTL:      ClampEmailTokenTTL(viper.GetDuration("RESET_TOKEN_TTL")),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Mail: MailConfig{
			Driver:        viper.GetString("MAIL_DRIVER"),
			MailgunDomain: viper.GetString("MAILGUN_DOMAIN"),
			MailgunAPIKey: viper.GetString("MAILGUN_API_KEY"),
			Sender:        viper.GetString("MAIL_SENDER"),
			SupportEmail:  viper.GetString("SUPPORT_EMAIL"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:        viper.GetString("RABBITMQ_URL"),
			EmailQueue: viper.GetString("RABBITMQ_EMAIL_QUEUE"),
		},
		RateLimit: RateLimitConfig{
			AuthPerMinute: viper.GetInt("RATE_LIMIT_AUTH_PER_MINUTE"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}

// ClampEmailTokenTTL keeps activation/reset validity inside 1h..24h.
func ClampEmailTokenTTL(ttl time.Duration) time.Duration {
	if ttl < MinEmailTokenTTL {
		return MinEmailTokenTTL
	}
	if ttl > MaxEmailTokenTTL {
		return MaxEmailTokenTTL
	}
	return ttl
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
