package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/frahmantamala/rbac-admin/internal"
)

const envPrefix = "RBAC"

var (
	configPath string
	clearData  bool
)

var rootCmd = &cobra.Command{
	Use:   "rbac-admin",
	Short: "RBAC Admin",
	Long:  `Manage users, roles and role permissions.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, an optional config.yml under path, a .env file
// and RBAC_* environment variables, in increasing precedence.
func loadConfig(path string) (*internal.Config, error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, internal.DefaultConfig())

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so environment overrides work without a
// config file.
func setDefaults(v *viper.Viper, d *internal.Config) {
	v.SetDefault("http_server.port", d.Server.Port)
	v.SetDefault("http_server.read_header_timeout", d.Server.ReadHeaderTimeout)
	v.SetDefault("http_server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("http_server.idle_timeout", d.Server.IdleTimeout)
	v.SetDefault("http_server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("http_server.shutdown_timeout", d.Server.ShutdownTimeout)

	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.file.dir", d.Storage.File.Dir)
	v.SetDefault("storage.sql.driver", d.Storage.SQL.Driver)
	v.SetDefault("storage.sql.source", d.Storage.SQL.Source)
	v.SetDefault("storage.sql.max_open_conns", d.Storage.SQL.MaxOpenConns)
	v.SetDefault("storage.sql.max_idle_conns", d.Storage.SQL.MaxIdleConns)
	v.SetDefault("storage.sql.conn_max_lifetime", d.Storage.SQL.ConnMaxLifetime)
	v.SetDefault("storage.redis.addr", d.Storage.Redis.Addr)
	v.SetDefault("storage.redis.password", d.Storage.Redis.Password)
	v.SetDefault("storage.redis.db", d.Storage.Redis.DB)
	v.SetDefault("storage.redis.prefix", d.Storage.Redis.Prefix)
	v.SetDefault("storage.redis.operation_timeout", d.Storage.Redis.OperationTimeout)
	v.SetDefault("storage.breaker.enabled", d.Storage.Breaker.Enabled)
	v.SetDefault("storage.breaker.max_requests", d.Storage.Breaker.MaxRequests)
	v.SetDefault("storage.breaker.interval", d.Storage.Breaker.Interval)
	v.SetDefault("storage.breaker.timeout", d.Storage.Breaker.Timeout)
	v.SetDefault("storage.breaker.consecutive_failures", d.Storage.Breaker.ConsecutiveFailures)

	v.SetDefault("audit.driver", d.Audit.Driver)
	v.SetDefault("audit.capacity", d.Audit.Capacity)
	v.SetDefault("audit.dialect", d.Audit.Dialect)
	v.SetDefault("audit.source", d.Audit.Source)

	v.SetDefault("logging.env", d.Logging.Env)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("view.locale", d.View.Locale)

	v.SetDefault("rate_limit.enabled", d.RateLimit.Enabled)
	v.SetDefault("rate_limit.rps", d.RateLimit.RPS)
	v.SetDefault("rate_limit.burst", d.RateLimit.Burst)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory holding config.yml and .env")
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(auditCmd)
}
