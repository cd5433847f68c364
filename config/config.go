package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/yeremiapane/restaurant-api/utils"
)

// Config is built once at startup and passed explicitly; nothing mutates it afterwards.
type Config struct {
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	RazorpayKeyID     string        `mapstructure:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret string        `mapstructure:"RAZORPAY_KEY_SECRET"`
	RazorpayBaseURL   string        `mapstructure:"RAZORPAY_BASE_URL"`
	GatewayTimeout    time.Duration `mapstructure:"GATEWAY_TIMEOUT"`

	DBDriver    string `mapstructure:"DB_DRIVER"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBPort      string `mapstructure:"DB_PORT"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPassword  string `mapstructure:"DB_PASSWORD"`
	DBName      string `mapstructure:"DB_NAME"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	UploadDir      string        `mapstructure:"UPLOAD_DIR"`
	MaxUploadMB    int64         `mapstructure:"MAX_UPLOAD_MB"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	CORSOrigin     string        `mapstructure:"CORS_ORIGIN"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int           `mapstructure:"REDIS_DB"`
	CatalogCacheTTL time.Duration `mapstructure:"CATALOG_CACHE_TTL"`

	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`
}

var defaults = map[string]interface{}{
	"PORT":                "5000",
	"GIN_MODE":            "debug",
	"JWT_SECRET":          "",
	"RAZORPAY_KEY_ID":     "",
	"RAZORPAY_KEY_SECRET": "",
	"RAZORPAY_BASE_URL":   "https://api.razorpay.com/v1",
	"GATEWAY_TIMEOUT":     "30s",
	"DB_DRIVER":           "mysql",
	"DB_HOST":             "localhost",
	"DB_PORT":             "3306",
	"DB_USER":             "root",
	"DB_PASSWORD":         "",
	"DB_NAME":             "restaurant",
	"DATABASE_URL":        "",
	"UPLOAD_DIR":          "uploads",
	"MAX_UPLOAD_MB":       5,
	"REQUEST_TIMEOUT":     "15s",
	"CORS_ORIGIN":         "*",
	"LOG_LEVEL":           "info",
	"LOG_FORMAT":          "text",
	"REDIS_ADDR":          "",
	"REDIS_PASSWORD":      "",
	"REDIS_DB":            0,
	"CATALOG_CACHE_TTL":   "60s",
	"KAFKA_BROKERS":       "",
	"KAFKA_TOPIC":         "restaurant-events",
}

// Load reads .env (optional) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Printf("Notice: .env file not found (%v), using system environment variables", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	switch strings.ToLower(c.DBDriver) {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.RazorpayKeyID == "" || c.RazorpayKeySecret == "" {
		utils.InfoLogger.Warn("RAZORPAY_KEY_ID / RAZORPAY_KEY_SECRET not set, payment routes will fail")
	}
	return nil
}

func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

func (c *Config) KafkaBrokerList() []string {
	if c.KafkaBrokers == "" {
		return nil
	}
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
