package utils

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Mongo    MongoConfig
	Order    OrderConfig
	Delivery DeliveryConfig
	CORS     CORSConfig
	Seed     SeedConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Driver   string // postgres | memory
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type RedisConfig struct {
	Addr          string
	Password      string
	PizzaCacheTTL time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type MongoConfig struct {
	URI      string
	Database string
}

type OrderConfig struct {
	TaxRate     float64
	DeliveryFee float64
}

type DeliveryConfig struct {
	Simulate      bool
	WebhookURL    string
	WebhookSecret string
	MinDelay      time.Duration
	MaxDelay      time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type SeedConfig struct {
	AdminPassword string
}

// LoadConfig reads .env (optional) and the process environment.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	return buildConfig(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "pizza-ordering")
	v.SetDefault("PORT", "5000")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("PIZZA_CACHE_TTL_SECONDS", 60)
	v.SetDefault("KAFKA_TOPIC", "pizza.orders")
	v.SetDefault("MONGO_DB", "pizza")
	v.SetDefault("ORDER_TAX_RATE", 0.10)
	v.SetDefault("ORDER_DELIVERY_FEE", 3.99)
	v.SetDefault("DELIVERY_SIMULATION", true)
	v.SetDefault("DELIVERY_MIN_DELAY_SECONDS", 5)
	v.SetDefault("DELIVERY_MAX_DELAY_SECONDS", 11)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("ADMIN_PASSWORD", "admin123")
}

func buildConfig(v *viper.Viper) *Config {
	port := v.GetString("PORT")

	webhookURL := v.GetString("DELIVERY_WEBHOOK_URL")
	if webhookURL == "" {
		webhookURL = "http://localhost:" + port + "/api/webhook/delivery-update"
	}

	return &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    port,
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		Redis: RedisConfig{
			Addr:          v.GetString("REDIS_ADDR"),
			Password:      v.GetString("REDIS_PASSWORD"),
			PizzaCacheTTL: time.Duration(v.GetInt("PIZZA_CACHE_TTL_SECONDS")) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: SplitCSV(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DB"),
		},
		Order: OrderConfig{
			TaxRate:     v.GetFloat64("ORDER_TAX_RATE"),
			DeliveryFee: v.GetFloat64("ORDER_DELIVERY_FEE"),
		},
		Delivery: DeliveryConfig{
			Simulate:      v.GetBool("DELIVERY_SIMULATION"),
			WebhookURL:    webhookURL,
			WebhookSecret: v.GetString("WEBHOOK_SECRET"),
			MinDelay:      time.Duration(v.GetInt("DELIVERY_MIN_DELAY_SECONDS")) * time.Second,
			MaxDelay:      time.Duration(v.GetInt("DELIVERY_MAX_DELAY_SECONDS")) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: SplitCSV(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Seed: SeedConfig{
			AdminPassword: v.GetString("ADMIN_PASSWORD"),
		},
	}
}

// SplitCSV splits a comma separated list and drops empty entries.
func SplitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
