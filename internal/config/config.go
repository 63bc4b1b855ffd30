package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
)

// Config carries everything the process needs. It is loaded once in main and
// passed into constructors; nothing mutates it afterwards.
type Config struct {
	DBDriver   string `yaml:"db_driver"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`

	JWTSecret    string        `yaml:"jwt_secret"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
	TokenSkew    time.Duration `yaml:"token_skew"`

	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	MailFrom     string `yaml:"mail_from"`

	GinMode    string `yaml:"gin_mode"`
	ListenAddr string `yaml:"listen_addr"`
}

// Load builds the configuration from environment variables. If CONFIG_FILE is
// set, the YAML file is read first and the environment overrides it.
func Load() (*Config, error) {
	cfg := &Config{
		DBDriver:   "mysql",
		DBHost:     "localhost",
		DBPort:     "3306",
		DBUser:     "collabhub",
		DBPassword: "collabhub",
		DBName:     "collabhub",
		JWTSecret:  "change-me",
		TokenTTL:   24 * time.Hour,
		TokenSkew:  5 * time.Second,
		SMTPPort:   587,
		MailFrom:   "no-reply@collabhub.local",
		GinMode:    "debug",
		ListenAddr: ":8080",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	overlayEnv(cfg)
	return cfg, nil
}

func overlayEnv(cfg *Config) {
	setEnv(&cfg.DBDriver, "DB_DRIVER")
	setEnv(&cfg.DBHost, "DB_HOST")
	setEnv(&cfg.DBPort, "DB_PORT")
	setEnv(&cfg.DBUser, "DB_USER")
	setEnv(&cfg.DBPassword, "DB_PASSWORD")
	setEnv(&cfg.DBName, "DB_NAME")
	setEnv(&cfg.JWTSecret, "JWT_SECRET")
	setEnv(&cfg.SMTPHost, "SMTP_HOST")
	setEnv(&cfg.SMTPUser, "SMTP_USER")
	setEnv(&cfg.SMTPPassword, "SMTP_PASSWORD")
	setEnv(&cfg.MailFrom, "MAIL_FROM")
	setEnv(&cfg.GinMode, "GIN_MODE")
	setEnv(&cfg.ListenAddr, "LISTEN_ADDR")

	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.SMTPPort = port
		}
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenTTL = d
		}
	}
	if v := os.Getenv("TOKEN_SKEW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenSkew = d
		}
	}
}

func setEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// DSN renders the connection string for the configured driver.
func (c *Config) DSN() string {
	switch c.DBDriver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	}
}
