package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Payment PaymentConfig
	Booking BookingConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Kolkata"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"1"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Kolkata"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"19800"` // 5.5*60*60
}

// Redis is optional: an empty address disables the server-side checkout cache
type RedisConfig struct {
	Addr             string        `envconfig:"REDIS_ADDR" default:""`
	Password         string        `envconfig:"REDIS_PASSWORD" default:""`
	DB               int           `envconfig:"REDIS_DB" default:"0"`
	CheckoutCacheTTL time.Duration `envconfig:"CHECKOUT_CACHE_TTL" default:"1h"`
}

type KafkaConfig struct {
	Brokers         string        `envconfig:"KAFKA_BROKERS" default:""`
	OutboxPollEvery time.Duration `envconfig:"OUTBOX_POLL_EVERY" default:"2s"`
	OutboxBatchSize int           `envconfig:"OUTBOX_BATCH_SIZE" default:"50"`
	OutboxMaxTries  int           `envconfig:"OUTBOX_MAX_TRIES" default:"10"`
}

type PaymentConfig struct {
	KeyID         string        `envconfig:"RAZORPAY_KEY_ID" required:"true"`
	KeySecret     string        `envconfig:"RAZORPAY_KEY_SECRET" required:"true"`
	WebhookSecret string        `envconfig:"RAZORPAY_WEBHOOK_SECRET" required:"true"`
	VerifyTimeout time.Duration `envconfig:"PAYMENT_VERIFY_TIMEOUT" default:"10s"`
}

type BookingConfig struct {
	StoreTimeout     time.Duration `envconfig:"STORE_TIMEOUT" default:"5s"`
	SlotBlockTTL     time.Duration `envconfig:"SLOT_BLOCK_TTL" default:"10m"`
	SlotBlockMaxTTL  time.Duration `envconfig:"SLOT_BLOCK_MAX_TTL" default:"30m"`
	LoungeTimeZone   string        `envconfig:"LOUNGE_TIMEZONE" default:"Asia/Kolkata"`
	PhoneCountryCode string        `envconfig:"PHONE_COUNTRY_CODE" default:"91"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

// Location falls back to UTC so a typo in LOUNGE_TIMEZONE never blocks startup
func (c BookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.LoungeTimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Kolkata",
			MaxConns: 10,
			MinConns: 1,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Kolkata",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 19800,
		},
		Kafka: KafkaConfig{
			OutboxPollEvery: 2 * time.Second,
			OutboxBatchSize: 50,
			OutboxMaxTries:  10,
		},
		Payment: PaymentConfig{
			KeyID:         "rzp_test_key",
			KeySecret:     "test_key_secret",
			WebhookSecret: "test_webhook_secret",
			VerifyTimeout: 5 * time.Second,
		},
		Booking: BookingConfig{
			StoreTimeout:     5 * time.Second,
			SlotBlockTTL:     10 * time.Minute,
			SlotBlockMaxTTL:  30 * time.Minute,
			LoungeTimeZone:   "Asia/Kolkata",
			PhoneCountryCode: "91",
		},
	}
}
