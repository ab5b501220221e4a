package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Birr"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"birr"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Receipt struct {
		BaseURL string `envconfig:"RECEIPT_BASE_URL" default:"https://apps.cbe.com.et:100/"`
		// AccountSuffix is appended to every transaction id when looking up a receipt.
		AccountSuffix  string        `envconfig:"RECEIVER_LAST_EIGHT"`
		ReceiverSuffix string        `envconfig:"RECEIVER_LAST_FOUR"`
		ReceiverName   string        `envconfig:"RECEIVER_NAME"`
		MinBytes       int           `envconfig:"RECEIPT_MIN_BYTES" default:"100"`
		InsecureTLS    bool          `envconfig:"RECEIPT_INSECURE_TLS" default:"true"`
		FetchTimeout   time.Duration `envconfig:"RECEIPT_FETCH_TIMEOUT" default:"30s"`
		Timezone       string        `envconfig:"RECEIPT_TIMEZONE" default:"Africa/Addis_Ababa"`
	}

	Limits struct {
		WithdrawMin decimal.Decimal `envconfig:"WITHDRAW_MIN" default:"25"`
		WithdrawMax decimal.Decimal `envconfig:"WITHDRAW_MAX" default:"1000"`
		TransferMin decimal.Decimal `envconfig:"TRANSFER_MIN" default:"10"`
		TransferMax decimal.Decimal `envconfig:"TRANSFER_MAX" default:"10000"`
	}

	Redis struct {
		Addr     string        `envconfig:"REDIS_ADDR"`
		Password string        `envconfig:"REDIS_PASSWORD"`
		DB       int           `envconfig:"REDIS_DB" default:"0"`
		ClaimTTL time.Duration `envconfig:"CLAIM_TTL" default:"2m"`
	}

	Kafka struct {
		Brokers []string `envconfig:"KAFKA_BROKERS"`
		Topic   string   `envconfig:"KAFKA_TOPIC" default:"ledger.events"`
	}

	Auth struct {
		JWTSecret string `envconfig:"JWT_SECRET"`
	}

	Chapa struct {
		Secret      string `envconfig:"CHAPA_SECRET"`
		BaseURL     string `envconfig:"CHAPA_BASE_URL" default:"https://api.chapa.co/v1"`
		CallbackURL string `envconfig:"CHAPA_CALLBACK_URL"`
		ReturnURL   string `envconfig:"CHAPA_RETURN_URL"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Location resolves the timezone receipts are rendered in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Receipt.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading receipt timezone %q: %w", c.Receipt.Timezone, err)
	}

	return loc, nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Receipt.AccountSuffix == "" || cfg.Receipt.ReceiverSuffix == "" || cfg.Receipt.ReceiverName == "" {
		return nil, fmt.Errorf("RECEIVER_LAST_EIGHT, RECEIVER_LAST_FOUR and RECEIVER_NAME are required")
	}

	return &cfg, nil
}
