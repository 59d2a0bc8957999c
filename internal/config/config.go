package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MeiliConfig struct {
	URL          string `yaml:"url"`
	APIKey       string `yaml:"api_key"`
	ProductIndex string `yaml:"product_index"`
}

type TossConfig struct {
	ClientKey  string `yaml:"client_key"`
	SecretKey  string `yaml:"secret_key"`
	SuccessURL string `yaml:"success_url"`
	FailURL    string `yaml:"fail_url"`
	DryRun     bool   `yaml:"dry_run"`
}

type TelegramConfig struct {
	BotToken  string `yaml:"bot_token"`
	OpsChatID int64  `yaml:"ops_chat_id"`
	DryRun    bool   `yaml:"dry_run"`
}

type PwnedConfig struct {
	Enabled    bool `yaml:"enabled"`
	TimeoutSec int  `yaml:"timeout_sec"`
}

type SecurityConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Email    EmailConfig    `yaml:"email"`
	Meili    MeiliConfig    `yaml:"meilisearch"`
	Toss     TossConfig     `yaml:"toss"`
	Telegram TelegramConfig `yaml:"telegram"`
	Pwned    PwnedConfig    `yaml:"pwned"`
	Security SecurityConfig `yaml:"security"`
}

func LoadConfig() *Config {
	path := os.Getenv("BIJOU_CONFIG")
	if path == "" {
		path = "config/config.yaml"
	}
	f, err := os.Open(path)
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	if cfg.Meili.ProductIndex == "" {
		cfg.Meili.ProductIndex = "products"
	}
	if cfg.Pwned.TimeoutSec <= 0 {
		cfg.Pwned.TimeoutSec = 2
	}
	return &cfg
}
