package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	S3        S3Config        `mapstructure:"s3"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Promotion PromotionConfig `mapstructure:"promotion"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	GinMode string `mapstructure:"gin_mode"`
	// TrustedProxies lists the proxy IPs or CIDRs whose X-Forwarded-For is
	// believed. Empty means the client IP is the socket peer.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type DatabaseConfig struct {
	URI      string `mapstructure:"uri"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	// Transactions requires a replica set (Atlas always is one).
	Transactions bool `mapstructure:"transactions"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Enabled reports whether image storage is configured.
func (c S3Config) Enabled() bool {
	return c.BucketName != ""
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// PaymentConfig configures the Mercado Pago checkout used for payment intents.
type PaymentConfig struct {
	AccessToken string `mapstructure:"access_token"`
	Currency    string `mapstructure:"currency"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type PromotionConfig struct {
	DefaultSalary float64 `mapstructure:"default_salary"`
}

// MongoURI returns the database URI with the configured credentials
// applied. Credentials already present in the URI win.
func (c DatabaseConfig) MongoURI() (string, error) {
	if c.User == "" {
		return c.URI, nil
	}
	u, err := url.Parse(c.URI)
	if err != nil {
		return "", fmt.Errorf("parse database uri: %w", err)
	}
	if u.User == nil {
		u.User = url.UserPassword(c.User, c.Password)
	}
	return u.String(), nil
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Nested keys map to env vars, e.g. jwt.expiration -> JWT_EXPIRATION.
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// Names used by existing deployments.
	_ = v.BindEnv("database.user", "DATABASE_USER", "DB_USER")
	_ = v.BindEnv("database.password", "DATABASE_PASSWORD", "DB_PASS")
	_ = v.BindEnv("jwt.secret", "JWT_SECRET", "JWT_ACCESS_TOKEN")
	_ = v.BindEnv("payment.access_token", "PAYMENT_ACCESS_TOKEN", "MP_ACCESS_TOKEN")
	_ = v.BindEnv("port", "PORT")

	v.SetDefault("server.address", ":5000")
	v.SetDefault("server.gin_mode", "debug")
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "syncFitDb")
	v.SetDefault("database.transactions", true)
	// Unmarshal only sees keys Viper knows about, so empty defaults make
	// S3_* env vars visible.
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("payment.currency", "USD")
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("ratelimit.rps", 5)
	v.SetDefault("ratelimit.burst", 10)
	v.SetDefault("promotion.default_salary", 0)

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		// No config file; defaults and env vars only.
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}

	// PORT is the conventional override on hosting platforms.
	if port := v.GetString("port"); port != "" {
		config.Server.Address = ":" + strings.TrimPrefix(port, ":")
	}

	if config.JWT.Secret == "" {
		return config, errors.New("jwt.secret (JWT_SECRET or JWT_ACCESS_TOKEN) must be set")
	}
	return config, nil
}
