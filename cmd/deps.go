package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/audit"
	auditPostgres "github.com/frahmantamala/rbac-admin/internal/audit/postgres"
	auditDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/audit"
	"github.com/frahmantamala/rbac-admin/internal/core/events"
	"github.com/frahmantamala/rbac-admin/internal/persistence"
	"github.com/frahmantamala/rbac-admin/internal/persistence/file"
	"github.com/frahmantamala/rbac-admin/internal/persistence/memory"
	"github.com/frahmantamala/rbac-admin/internal/persistence/redisstore"
	"github.com/frahmantamala/rbac-admin/internal/persistence/sqlstore"
	"github.com/frahmantamala/rbac-admin/internal/role"
	"github.com/frahmantamala/rbac-admin/internal/transport"
	"github.com/frahmantamala/rbac-admin/internal/transport/rest"
	"github.com/frahmantamala/rbac-admin/internal/user"
	"github.com/frahmantamala/rbac-admin/pkg/logger"
)

type Dependencies struct {
	Config  *internal.Config
	Logger  *slog.Logger
	Adapter persistence.Adapter
	Bus     *events.EventBus
	Users   *user.Service
	Roles   *role.Service
	Audit   *audit.Service
	API     *transport.Router
	Health  *rest.HealthHandler

	closers []func() error
}

// Close releases connections in reverse order of opening and waits for
// in-flight event handlers.
func (d *Dependencies) Close() error {
	if d.Bus != nil {
		d.Bus.Wait()
	}

	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Setup(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	lg := logger.LoggerWrapper()

	deps := &Dependencies{Config: cfg, Logger: lg}

	adapter, err := deps.openAdapter(ctx)
	if err != nil {
		_ = deps.Close()
		return nil, err
	}
	deps.Adapter = adapter

	auditRepo, err := deps.openAuditRepository()
	if err != nil {
		_ = deps.Close()
		return nil, err
	}

	deps.Bus = events.NewEventBus(lg)
	deps.Audit = audit.NewService(auditRepo, lg)
	deps.Audit.Register(deps.Bus)

	deps.Users = user.NewService(user.NewStore(adapter, lg), deps.Bus, cfg.View.Locale, lg)
	deps.Roles = role.NewService(role.NewStore(adapter, lg), deps.Bus, cfg.View.Locale, lg)

	if cfg.Storage.Driver == internal.StorageMemory {
		// nothing survives a restart, so start from the sample data
		if err := seedCollections(ctx, deps, true); err != nil {
			_ = deps.Close()
			return nil, err
		}
	}

	base := transport.NewBaseHandler(lg)
	deps.API = rest.NewAPIRouter(rest.Handlers{
		Users: user.NewHandler(base, deps.Users),
		Roles: role.NewHandler(base, deps.Roles),
		Audit: audit.NewHandler(base, deps.Audit),
	}, lg)

	pingers := map[string]persistence.Pinger{}
	if p, ok := adapter.(persistence.Pinger); ok {
		pingers["storage"] = p
	}
	deps.Health = rest.NewHealthHandler(base, pingers)

	return deps, nil
}

func (d *Dependencies) openAdapter(ctx context.Context) (persistence.Adapter, error) {
	cfg := d.Config.Storage

	var adapter persistence.Adapter
	switch cfg.Driver {
	case internal.StorageMemory:
		return memory.New(), nil

	case internal.StorageFile:
		return file.NewOS(cfg.File.Dir), nil

	case internal.StorageSQL:
		db, err := sqlstore.Open(cfg.SQL.Driver, cfg.SQL.Source, sqlstore.Options{
			MaxOpenConns:    cfg.SQL.MaxOpenConns,
			MaxIdleConns:    cfg.SQL.MaxIdleConns,
			ConnMaxLifetime: cfg.SQL.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, db.Close)

		st := sqlstore.New(db)
		if cfg.SQL.Driver == "sqlite3" {
			// embedded databases are never migrated with goose
			if err := st.EnsureSchema(ctx); err != nil {
				return nil, fmt.Errorf("failed to create collections table: %w", err)
			}
		}
		adapter = st

	case internal.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		d.closers = append(d.closers, client.Close)
		adapter = redisstore.New(client, cfg.Redis.Prefix, cfg.Redis.OperationTimeout)

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}

	if cfg.Breaker.Enabled {
		adapter = persistence.WithBreaker(adapter, persistence.BreakerSettings{
			Name:                "storage." + cfg.Driver,
			MaxRequests:         cfg.Breaker.MaxRequests,
			Interval:            cfg.Breaker.Interval,
			Timeout:             cfg.Breaker.Timeout,
			ConsecutiveFailures: cfg.Breaker.ConsecutiveFailures,
		}, d.Logger)
	}
	return adapter, nil
}

func (d *Dependencies) openAuditRepository() (audit.RepositoryAPI, error) {
	cfg := d.Config.Audit
	if cfg.Driver != internal.AuditGorm {
		return audit.NewMemoryRepository(cfg.Capacity), nil
	}

	dialector := postgres.Open(cfg.Source)
	if cfg.Dialect == "sqlite" {
		dialector = sqlite.Open(cfg.Source)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit connection pool: %w", err)
	}
	d.closers = append(d.closers, sqlDB.Close)

	if cfg.Dialect == "sqlite" {
		if err := db.AutoMigrate(&auditDatamodel.AuditLog{}); err != nil {
			return nil, fmt.Errorf("failed to migrate audit table: %w", err)
		}
	}

	return auditPostgres.NewAuditRepository(db), nil
}
