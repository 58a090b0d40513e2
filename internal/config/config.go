package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Mail      MailConfig      `yaml:"mail"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Enrich    EnrichConfig    `yaml:"enrich"`
	Frontend  FrontendConfig  `yaml:"frontend"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

type JWTConfig struct {
	Secret      string `yaml:"secret"`
	ExpireHours int    `yaml:"expire_hours"`
}

// MailConfig 第三方邮件投递 API
type MailConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
	From     string `yaml:"from"`
}

// AnalyticsConfig 行为分析上报
type AnalyticsConfig struct {
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"api_key"`
	BufferSize int    `yaml:"buffer_size"`
}

// EnrichConfig 外部内容补全服务
type EnrichConfig struct {
	Endpoint string  `yaml:"endpoint"`
	APIKey   string  `yaml:"api_key"`
	RPS      float64 `yaml:"rps"`
}

type FrontendConfig struct {
	BaseURL string `yaml:"base_url"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxAge     int    `yaml:"max_age"`
	MaxBackups int    `yaml:"max_backups"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	// 首先尝试从 YAML 文件加载
	if data, err := os.ReadFile("configs/config.yaml"); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// 然后从环境变量覆盖
	cfg.overrideFromEnv()

	// 设置默认值
	cfg.setDefaults()

	return cfg, nil
}

func (c *Config) overrideFromEnv() {
	// Database
	if val := os.Getenv("DATABASE_URL"); val != "" {
		c.Database.URL = val
	}
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.Database.Port = port
		}
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.DBName = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.Server.Port = port
		}
	}
	if val := os.Getenv("GIN_MODE"); val != "" {
		c.Server.Mode = val
	}

	// Mail
	if val := os.Getenv("MAIL_ENDPOINT"); val != "" {
		c.Mail.Endpoint = val
	}
	if val := os.Getenv("MAIL_API_KEY"); val != "" {
		c.Mail.APIKey = val
	}
	if val := os.Getenv("MAIL_FROM"); val != "" {
		c.Mail.From = val
	}

	// Analytics
	if val := os.Getenv("ANALYTICS_ENDPOINT"); val != "" {
		c.Analytics.Endpoint = val
	}
	if val := os.Getenv("ANALYTICS_API_KEY"); val != "" {
		c.Analytics.APIKey = val
	}

	// Enrich
	if val := os.Getenv("ENRICH_ENDPOINT"); val != "" {
		c.Enrich.Endpoint = val
	}
	if val := os.Getenv("ENRICH_API_KEY"); val != "" {
		c.Enrich.APIKey = val
	}

	// Frontend
	if val := os.Getenv("FRONTEND_BASE_URL"); val != "" {
		c.Frontend.BaseURL = val
	}
}

func (c *Config) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "debug"
	}

	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.JWT.ExpireHours == 0 {
		c.JWT.ExpireHours = 24
	}

	if c.Mail.From == "" {
		c.Mail.From = "noreply@localhost"
	}

	if c.Analytics.BufferSize == 0 {
		c.Analytics.BufferSize = 256
	}

	if c.Enrich.RPS == 0 {
		c.Enrich.RPS = 2
	}

	if c.Frontend.BaseURL == "" {
		c.Frontend.BaseURL = "http://localhost:3000"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.File == "" {
		c.Log.File = "./logs/app.log"
	}
}

func (c *Config) GetDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.DBName, c.Database.SSLMode)
}
