package configs

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// =======================
// CONFIG
// =======================

type DBConfig struct {
	User             string        `env:"USER"`
	Password         string        `env:"PASSWORD"`
	Host             string        `env:"HOST" envDefault:"localhost"`
	Port             string        `env:"PORT" envDefault:"5432"`
	Name             string        `env:"NAME" envDefault:"madrasa"`
	SSLMode          string        `env:"SSLMODE" envDefault:"require"`
	StatementTimeout time.Duration `env:"STATEMENT_TIMEOUT" envDefault:"3s"`
	MaxOpenConns     int           `env:"MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns     int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	AutoMigrate      bool          `env:"AUTO_MIGRATE" envDefault:"false"`
	LogQueries       bool          `env:"LOG_QUERIES" envDefault:"false"`
}

type RetryConfig struct {
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	BaseDelay   time.Duration `env:"BASE_DELAY" envDefault:"1s"`
}

type MidtransConfig struct {
	ServerKey string `env:"SERVER_KEY"`
	UseProd   bool   `env:"USE_PROD" envDefault:"false"`
	Currency  string `env:"CURRENCY" envDefault:"IDR"`
}

type LogConfig struct {
	File       string `env:"FILE"`
	MaxSizeMB  int    `env:"MAX_SIZE_MB" envDefault:"50"`
	MaxBackups int    `env:"MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"MAX_AGE_DAYS" envDefault:"28"`
}

type GatewayEventConfig struct {
	Retention  time.Duration `env:"RETENTION" envDefault:"2160h"`
	ReaperCron string        `env:"REAPER_CRON" envDefault:"@every 6h"`
}

type Config struct {
	Port        string   `env:"PORT" envDefault:"3000"`
	AppEnv      string   `env:"APP_ENV" envDefault:"development"`
	PublicURL   string   `env:"PUBLIC_URL" envDefault:"http://localhost:3000"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
	JWTSecret   string   `env:"JWT_SECRET"`

	// IANA zone untuk mosque yang belum set timezone sendiri
	DefaultTimezone string `env:"DEFAULT_TIMEZONE" envDefault:"Europe/Paris"`
	RunSeeds        bool   `env:"RUN_SEEDS" envDefault:"false"`

	DB            DBConfig           `envPrefix:"DB_"`
	Retry         RetryConfig        `envPrefix:"DB_RETRY_"`
	Midtrans      MidtransConfig     `envPrefix:"MIDTRANS_"`
	Log           LogConfig          `envPrefix:"LOG_"`
	GatewayEvents GatewayEventConfig `envPrefix:"GATEWAY_EVENT_"`
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("[WARN] .env file not found, using system ENV")
		} else {
			log.Println("[INFO] .env file loaded")
		}
	} else {
		log.Println("[INFO] Running in Railway, using system ENV")
	}
}

// Load membaca .env (kalau ada) lalu parse ENV ke Config.
func Load() (Config, error) {
	LoadEnv()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.JWTSecret == "" {
		log.Println("[WARN] JWT_SECRET is not set!")
	}
	if cfg.Midtrans.ServerKey == "" {
		log.Println("[WARN] MIDTRANS_SERVER_KEY is not set, checkout + webhook disabled")
	}
	if _, err := time.LoadLocation(cfg.DefaultTimezone); err != nil {
		log.Printf("[WARN] DEFAULT_TIMEZONE %q invalid, falling back to UTC", cfg.DefaultTimezone)
		cfg.DefaultTimezone = "UTC"
	}
	return cfg, nil
}
