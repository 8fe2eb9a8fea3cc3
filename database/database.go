package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	_ "modernc.org/sqlite"

	"listkeeper/domain/lists"
	"listkeeper/logging"
)

// Driver identifies the storage engine behind a Database.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"   // embedded sqlite file (default)
	DriverPostgres Driver = "postgres" // PostgreSQL server
)

// MemoryPath selects a private in-memory sqlite database. Useful for tests.
const MemoryPath = ":memory:"

// Config holds database configuration
type Config struct {
	Driver          Driver        `env:"DB_DRIVER" envDefault:"sqlite"`
	Path            string        `env:"DB_PATH" envDefault:"./db/listkeeper.db"`
	DSN             string        `env:"DB_DSN"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"15m"`
	BusyTimeoutMs   int           `env:"DB_BUSY_TIMEOUT_MS" envDefault:"5000"`
	EnableWAL       bool          `env:"DB_ENABLE_WAL" envDefault:"true"`
	QueryTimeout    time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"5s"`

	// SlowStatementThreshold is how long a statement may take before it is
	// logged as a performance entry.
	SlowStatementThreshold time.Duration `env:"DB_SLOW_STATEMENT_THRESHOLD" envDefault:"250ms"`
}

// DefaultConfig returns the configuration used when nothing is set in the environment.
func DefaultConfig() Config {
	return Config{
		Driver:          DriverSQLite,
		Path:            "./db/listkeeper.db",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 15 * time.Minute,
		BusyTimeoutMs:   5000,
		EnableWAL:       true,
		QueryTimeout:    5 * time.Second,

		SlowStatementThreshold: 250 * time.Millisecond,
	}
}

// withDefaults fills zero values so a partially populated Config is usable.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Driver == "" {
		c.Driver = def.Driver
	}
	if c.Path == "" {
		c.Path = def.Path
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = def.MaxOpenConns
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = def.MaxIdleConns
	}
	if c.BusyTimeoutMs <= 0 {
		c.BusyTimeoutMs = def.BusyTimeoutMs
	}
	if c.QueryTimeout <= 0 {
		c.QueryTimeout = def.QueryTimeout
	}
	if c.SlowStatementThreshold <= 0 {
		c.SlowStatementThreshold = def.SlowStatementThreshold
	}
	return c
}

func (c Config) inMemory() bool {
	return c.Driver == DriverSQLite && c.Path == MemoryPath
}

// Option customises a Database at construction time.
type Option func(*Database)

// WithMetrics records statement timings and failures on m.
func WithMetrics(m *Metrics) Option {
	return func(d *Database) {
		d.metrics = m
	}
}

// Database wraps the SQL connection pools and provides managed access.
// Reads go through a pool, writes through a single serialized connection.
type Database struct {
	readDB       *sql.DB  // Connection pool for reads
	writeDB      *sql.DB  // Serialized connection for writes
	readQueries  *Queries // Queries using read connection
	writeQueries *Queries // Queries using write connection
	config       Config
	logger       *logging.Logger
	metrics      *Metrics

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// New opens the storage location described by config, verifies connectivity and
// applies pending migrations before returning. Every failure is reported as
// lists.ErrStorageUnavailable.
func New(config Config, logger *logging.Logger, opts ...Option) (*Database, error) {
	config = config.withDefaults()
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.WithComponent("database")

	driverName, dsn, err := resolveDriver(config)
	if err != nil {
		return nil, unavailable("open", err)
	}

	dbExists := false
	if config.Driver == DriverSQLite && !config.inMemory() {
		dbExists = checkDatabaseExists(config.Path)
		if err := ensureParentDir(config.Path); err != nil {
			return nil, unavailable("open", err)
		}
	}

	logger.Database("Opening database connections",
		"driver", config.Driver,
		"path", config.Path,
		"exists", dbExists,
		"read_max_open_conns", config.MaxOpenConns,
		"write_max_open_conns", 1)

	writeDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, unavailable("open write database", err)
	}

	// Single connection forces serialization of every mutation.
	writeDB.SetMaxOpenConns(1)
	writeDB.SetMaxIdleConns(1)
	if config.inMemory() {
		// The database lives and dies with its only connection.
		writeDB.SetConnMaxLifetime(0)
		writeDB.SetConnMaxIdleTime(0)
	} else {
		writeDB.SetConnMaxLifetime(config.ConnMaxLifetime)
		writeDB.SetConnMaxIdleTime(config.ConnMaxIdleTime)
	}

	readDB := writeDB
	if !config.inMemory() {
		readDB, err = sql.Open(driverName, dsn)
		if err != nil {
			writeDB.Close()
			return nil, unavailable("open read database", err)
		}
		readDB.SetMaxOpenConns(config.MaxOpenConns)
		readDB.SetMaxIdleConns(config.MaxIdleConns)
		readDB.SetConnMaxLifetime(config.ConnMaxLifetime)
		readDB.SetConnMaxIdleTime(config.ConnMaxIdleTime)
	}

	database := &Database{
		readDB:  readDB,
		writeDB: writeDB,
		config:  config,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(database)
	}
	database.readQueries = &Queries{db: readDB, pool: "read", owner: database}
	database.writeQueries = &Queries{db: writeDB, pool: "write", owner: database}

	if err := database.initialize(); err != nil {
		database.closeConnections()
		return nil, unavailable("initialize database", err)
	}

	// Schema setup runs synchronously, before any request can reach the store.
	if err := database.runMigrations(); err != nil {
		database.closeConnections()
		return nil, unavailable("run database migrations", err)
	}

	logger.Database("Database initialized successfully",
		"driver", config.Driver,
		"path", config.Path,
		"existed", dbExists,
		"wal_mode", config.EnableWAL && config.Driver == DriverSQLite,
		"read_connections", config.MaxOpenConns,
		"write_connections", 1)

	return database, nil
}

// resolveDriver maps the configured engine to a database/sql driver name and DSN.
func resolveDriver(config Config) (string, string, error) {
	switch config.Driver {
	case DriverSQLite:
		return "sqlite", buildSQLiteDSN(config), nil
	case DriverPostgres:
		if strings.TrimSpace(config.DSN) == "" {
			return "", "", errors.New("postgres driver requires DB_DSN")
		}
		return "pgx", config.DSN, nil
	default:
		return "", "", fmt.Errorf("unknown storage driver %q", config.Driver)
	}
}

// buildSQLiteDSN constructs the SQLite Data Source Name. Pragmas are passed in the
// DSN so every pooled connection gets them, not just the first one.
func buildSQLiteDSN(config Config) string {
	params := url.Values{}
	params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", config.BusyTimeoutMs))
	params.Add("_pragma", "foreign_keys(1)")
	if config.EnableWAL && !config.inMemory() {
		params.Add("_pragma", "journal_mode(WAL)")
		params.Add("_pragma", "synchronous(NORMAL)")
	}
	params.Set("_txlock", "immediate")

	if config.inMemory() {
		return "file::memory:?" + params.Encode()
	}
	return "file:" + config.Path + "?" + params.Encode()
}

// initialize verifies both pools can reach the storage location.
func (d *Database) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), d.config.QueryTimeout)
	defer cancel()

	if err := d.writeDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping write database: %w", err)
	}
	if d.readDB != d.writeDB {
		if err := d.readDB.PingContext(ctx); err != nil {
			return fmt.Errorf("failed to ping read database: %w", err)
		}
	}

	if d.config.Driver == DriverSQLite && d.config.EnableWAL && !d.config.inMemory() {
		var journalMode string
		if err := d.writeDB.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode); err != nil {
			return fmt.Errorf("failed to read journal mode: %w", err)
		}
		if journalMode != "wal" {
			d.logger.Warn("WAL mode not enabled", "journal_mode", journalMode)
		} else {
			d.logger.Database("WAL mode enabled", "journal_mode", journalMode)
		}
	}

	d.logPoolStats()
	return nil
}

// Driver reports the storage engine in use.
func (d *Database) Driver() Driver {
	return d.config.Driver
}

// ReadQueries returns the read-optimized queries interface
func (d *Database) ReadQueries() *Queries {
	return d.readQueries
}

// WriteQueries returns the write-serialized queries interface
func (d *Database) WriteQueries() *Queries {
	return d.writeQueries
}

// Close checkpoints the WAL (sqlite only) and closes both pools. It is safe to
// call more than once; later calls return the first result.
func (d *Database) Close() error {
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		d.logger.Database("Closing database connections")

		if d.config.Driver == DriverSQLite && d.config.EnableWAL && !d.config.inMemory() {
			d.logger.Info("checkpointing WAL...")
			if _, err := d.writeDB.Exec("PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
				d.logger.Warn("failed to checkpoint WAL", "error", err)
			}
		}
		d.closeErr = d.closeConnections()
	})
	return d.closeErr
}

func (d *Database) closeConnections() error {
	var errs []error
	if d.readDB != d.writeDB {
		if err := d.readDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("read connection: %w", err))
		}
	}
	if err := d.writeDB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("write connection: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to close connections: %w", errors.Join(errs...))
	}
	return nil
}

// Health checks database connectivity and returns pool statistics for both connections
func (d *Database) Health(ctx context.Context) (map[string]interface{}, error) {
	if d.closed.Load() {
		return nil, unavailable("health", errors.New("database closed"))
	}
	ctx, cancel := context.WithTimeout(ctx, d.config.QueryTimeout)
	defer cancel()

	if err := d.readDB.PingContext(ctx); err != nil {
		return nil, unavailable("health", fmt.Errorf("read database ping failed: %w", err))
	}
	if err := d.writeDB.PingContext(ctx); err != nil {
		return nil, unavailable("health", fmt.Errorf("write database ping failed: %w", err))
	}

	readStats := d.readDB.Stats()
	writeStats := d.writeDB.Stats()

	return map[string]interface{}{
		"driver": string(d.config.Driver),
		"read_pool": map[string]interface{}{
			"open_connections": readStats.OpenConnections,
			"in_use":           readStats.InUse,
			"idle":             readStats.Idle,
			"wait_count":       readStats.WaitCount,
			"wait_duration":    readStats.WaitDuration.String(),
			"max_open_conns":   readStats.MaxOpenConnections,
		},
		"write_pool": map[string]interface{}{
			"open_connections": writeStats.OpenConnections,
			"in_use":           writeStats.InUse,
			"idle":             writeStats.Idle,
			"wait_count":       writeStats.WaitCount,
			"wait_duration":    writeStats.WaitDuration.String(),
			"max_open_conns":   1,
		},
	}, nil
}

// logPoolStats logs current connection pool statistics for both connections
func (d *Database) logPoolStats() {
	readStats := d.readDB.Stats()
	writeStats := d.writeDB.Stats()

	d.logger.Database("Read connection pool stats",
		"open_connections", readStats.OpenConnections,
		"in_use", readStats.InUse,
		"idle", readStats.Idle)

	d.logger.Database("Write connection pool stats",
		"open_connections", writeStats.OpenConnections,
		"in_use", writeStats.InUse,
		"idle", writeStats.Idle)
}

// rebind rewrites ? placeholders into the driver's native form.
func (d *Database) rebind(query string) string {
	return Rebind(d.config.Driver, query)
}

// Rebind converts ? placeholders to $1..$n for postgres and leaves other
// drivers untouched. Statements must not contain literal question marks.
func Rebind(driver Driver, query string) string {
	if driver != DriverPostgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, lists.ErrStorageUnavailable, err)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("create database directory %s: %w", dir, err)
	}
	return nil
}

// checkDatabaseExists checks if the database file exists and is non-empty
func checkDatabaseExists(path string) bool {
	if abs, err := filepath.Abs(path); err == nil {
		if stat, err := os.Stat(abs); err == nil && stat.Size() > 0 {
			return true
		}
	}
	return false
}
