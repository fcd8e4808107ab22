package internal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
)

const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageSQL    = "sql"
	StorageRedis  = "redis"

	AuditMemory = "memory"
	AuditGorm   = "gorm"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"http_server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Audit     AuditConfig     `mapstructure:"audit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	View      ViewConfig      `mapstructure:"view"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type StorageConfig struct {
	Driver  string             `mapstructure:"driver" validate:"required,oneof=memory file sql redis"`
	File    FileStorageConfig  `mapstructure:"file"`
	SQL     SQLStorageConfig   `mapstructure:"sql"`
	Redis   RedisStorageConfig `mapstructure:"redis"`
	Breaker BreakerConfig      `mapstructure:"breaker"`
}

type FileStorageConfig struct {
	Dir string `mapstructure:"dir"`
}

type SQLStorageConfig struct {
	Driver          string        `mapstructure:"driver" validate:"omitempty,oneof=pgx sqlite3"`
	Source          string        `mapstructure:"source"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisStorageConfig struct {
	Addr             string        `mapstructure:"addr"`
	Password         string        `mapstructure:"password"`
	DB               int           `mapstructure:"db" validate:"min=0"`
	Prefix           string        `mapstructure:"prefix"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
}

type BreakerConfig struct {
	Enabled             bool          `mapstructure:"enabled"`
	MaxRequests         uint32        `mapstructure:"max_requests"`
	Interval            time.Duration `mapstructure:"interval"`
	Timeout             time.Duration `mapstructure:"timeout"`
	ConsecutiveFailures uint32        `mapstructure:"consecutive_failures"`
}

type AuditConfig struct {
	Driver   string `mapstructure:"driver" validate:"required,oneof=memory gorm"`
	Capacity int    `mapstructure:"capacity" validate:"min=1"`
	Dialect  string `mapstructure:"dialect" validate:"omitempty,oneof=postgres sqlite"`
	Source   string `mapstructure:"source"`
}

type LoggingConfig struct {
	Env    string `mapstructure:"env" validate:"required,oneof=development production"`
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

type ViewConfig struct {
	Locale string `mapstructure:"locale" validate:"required"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps" validate:"min=0"`
	Burst   int     `mapstructure:"burst" validate:"min=0"`
}

// DefaultConfig runs the service against in-memory storage with no config file.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              8080,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			IdleTimeout:       60 * time.Second,
			WriteTimeout:      15 * time.Second,
			ShutdownTimeout:   30 * time.Second,
		},
		Storage: StorageConfig{
			Driver: StorageMemory,
			File:   FileStorageConfig{Dir: "data"},
			SQL: SQLStorageConfig{
				Driver:          "pgx",
				MaxOpenConns:    10,
				MaxIdleConns:    5,
				ConnMaxLifetime: 30 * time.Minute,
			},
			Redis: RedisStorageConfig{
				Addr:             "localhost:6379",
				Prefix:           "rbac",
				OperationTimeout: 2 * time.Second,
			},
			Breaker: BreakerConfig{
				Enabled:             true,
				MaxRequests:         1,
				Interval:            time.Minute,
				Timeout:             10 * time.Second,
				ConsecutiveFailures: 5,
			},
		},
		Audit: AuditConfig{
			Driver:   AuditMemory,
			Capacity: 500,
			Dialect:  "postgres",
		},
		Logging: LoggingConfig{
			Env:    "development",
			Level:  "info",
			Format: "text",
		},
		View: ViewConfig{Locale: "en"},
		RateLimit: RateLimitConfig{
			Enabled: false,
			RPS:     50,
			Burst:   100,
		},
	}
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("storage config: %v", err))
	}

	if err := c.Audit.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("audit config: %v", err))
	}

	if err := c.View.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("view config: %v", err))
	}

	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, "rate_limit config: rps and burst must be positive when enabled")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *StorageConfig) Validate() error {
	switch c.Driver {
	case StorageFile:
		if strings.TrimSpace(c.File.Dir) == "" {
			return errors.New("file.dir is required for the file driver")
		}
	case StorageSQL:
		if c.SQL.Source == "" {
			return errors.New("sql.source is required for the sql driver")
		}
		if c.SQL.MaxIdleConns > c.SQL.MaxOpenConns {
			return errors.New("sql.max_idle_conns cannot be greater than sql.max_open_conns")
		}
	case StorageRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required for the redis driver")
		}
	}
	return nil
}

func (c *AuditConfig) Validate() error {
	if c.Driver == AuditGorm && c.Source == "" {
		return errors.New("source is required for the gorm driver")
	}
	return nil
}

func (c *ViewConfig) Validate() error {
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	return nil
}
