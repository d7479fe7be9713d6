package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logger   LoggerConfig   `yaml:"logger"`
	Database DatabaseConfig `yaml:"database"`
	Comments CommentsConfig `yaml:"comments"`
	Client   ClientConfig   `yaml:"client"`
	Jobs     JobsConfig     `yaml:"jobs"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	BasePath        string        `yaml:"base_path"`
	Mode            string        `yaml:"mode"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"` // postgres | sqlite
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// CommentsConfig holds the thread limits shared by the store and the backend
type CommentsConfig struct {
	MaxDepth           int    `yaml:"max_depth"`
	MaxContentLength   int    `yaml:"max_content_length"`
	PageSize           int    `yaml:"page_size"`
	DeletedPlaceholder string `yaml:"deleted_placeholder"`
}

type ClientConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	UserID  string        `yaml:"user_id"`
	// Username is only used for the optimistic author of new comments
	Username string `yaml:"username"`
}

type JobsConfig struct {
	TombstoneCleanupCron string `yaml:"tombstone_cleanup_cron"`
}

// Default returns the configuration used when no file or environment is present
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			BasePath:        "/api",
			Mode:            "debug",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			DSN:             "file:comments.db?cache=shared",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
		},
		Comments: CommentsConfig{
			MaxDepth:           5,
			MaxContentLength:   1000,
			PageSize:           20,
			DeletedPlaceholder: "[This comment has been deleted]",
		},
		Client: ClientConfig{
			BaseURL: "http://localhost:8080/api",
			Timeout: 10 * time.Second,
		},
		Jobs: JobsConfig{
			TombstoneCleanupCron: "@every 10m",
		},
	}
}

// Load reads path when it exists and applies environment overrides on top
func Load(path string) (*Config, error) {
	cfg := Default()

	// Load from yaml file if exists
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Override with environment variables
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if basePath := os.Getenv("SERVER_BASE_PATH"); basePath != "" {
		cfg.Server.BasePath = basePath
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		cfg.Server.Mode = mode
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = strings.Split(origins, ",")
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.Logger.Level = logLevel
	}
	if driver := os.Getenv("DATABASE_DRIVER"); driver != "" {
		cfg.Database.Driver = driver
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if depth := os.Getenv("COMMENTS_MAX_DEPTH"); depth != "" {
		if d, err := strconv.Atoi(depth); err == nil {
			cfg.Comments.MaxDepth = d
		}
	}
	if size := os.Getenv("COMMENTS_PAGE_SIZE"); size != "" {
		if s, err := strconv.Atoi(size); err == nil {
			cfg.Comments.PageSize = s
		}
	}
	if baseURL := os.Getenv("COMMENT_API_URL"); baseURL != "" {
		cfg.Client.BaseURL = baseURL
	}
	if timeout := os.Getenv("COMMENT_API_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.Client.Timeout = d
		}
	}
	if userID := os.Getenv("COMMENT_USER_ID"); userID != "" {
		cfg.Client.UserID = userID
	}
	if username := os.Getenv("COMMENT_USERNAME"); username != "" {
		cfg.Client.Username = username
	}
	if spec := os.Getenv("TOMBSTONE_CLEANUP_CRON"); spec != "" {
		cfg.Jobs.TombstoneCleanupCron = spec
	}

	return cfg, nil
}
