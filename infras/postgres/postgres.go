package postgres

//nolint:revive
import (
	"context"
	"dogwalking/config"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 20
	postgresConnMaxLifetime   = 30 * time.Minute
)

// Connection is the read/write pair. Transactions always run on Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(config *config.Config) *Connection {
	conn := &Connection{
		Read:  CreatePostgresReadConn(*config),
		Write: CreatePostgresWriteConn(*config),
	}

	if conn.Read == nil || conn.Write == nil {
		log.Fatal().Msg("Failed to establish postgres connections")
	}

	return conn
}

// Ping checks both pools, used by the health endpoint.
func (c *Connection) Ping(ctx context.Context) error {
	if err := c.Write.PingContext(ctx); err != nil {
		return fmt.Errorf("write pool: %w", err)
	}

	if err := c.Read.PingContext(ctx); err != nil {
		return fmt.Errorf("read pool: %w", err)
	}

	return nil
}

func (c *Connection) Close() error {
	return errors.Join(c.Read.Close(), c.Write.Close())
}

func getDBName(config config.Config, baseName string) string {
	if config.DB.Postgres.Prefix != "" {
		return config.DB.Postgres.Prefix + baseName
	}

	return baseName
}

// CreatePostgresWriteConn creates a database connection for write access.
func CreatePostgresWriteConn(config config.Config) *sqlx.DB {
	return CreatePostgresConnection(
		"write",
		Descriptor(
			config.DB.Postgres.Write.Username,
			config.DB.Postgres.Write.Password,
			config.DB.Postgres.Write.Host,
			config.DB.Postgres.Write.Port,
			getDBName(config, config.DB.Postgres.Write.Name),
			config.DB.Postgres.Write.SSLMode,
			config.DB.Postgres.Write.Timezone,
		),
		config.DB.Postgres.MaxRetry,
		config.DB.Postgres.RetryWaitTime,
	)
}

// CreatePostgresReadConn creates a database connection for read access.
func CreatePostgresReadConn(config config.Config) *sqlx.DB {
	return CreatePostgresConnection(
		"read",
		Descriptor(
			config.DB.Postgres.Read.Username,
			config.DB.Postgres.Read.Password,
			config.DB.Postgres.Read.Host,
			config.DB.Postgres.Read.Port,
			getDBName(config, config.DB.Postgres.Read.Name),
			config.DB.Postgres.Read.SSLMode,
			config.DB.Postgres.Read.Timezone,
		),
		config.DB.Postgres.MaxRetry,
		config.DB.Postgres.RetryWaitTime,
	)
}

// Descriptor builds a lib/pq connection URL.
func Descriptor(username, password, host, port, dbName, sslMode, timezone string) string {
	query := url.Values{}
	if sslMode != "" {
		query.Set("sslmode", sslMode)
	}

	if timezone != "" {
		query.Set("timezone", timezone)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(username, password),
		Host:     net.JoinHostPort(host, port),
		Path:     dbName,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// CreatePostgresConnection connects with retries and returns nil when every attempt failed.
func CreatePostgresConnection(name, descriptor string, maxRetry, waitTime int) *sqlx.DB {
	if maxRetry < 1 {
		maxRetry = 1
	}

	for retry := range maxRetry {
		sqlDB, err := sqlx.Connect("postgres", descriptor)
		if err == nil {
			log.
				Info().
				Str("name", name).
				Msg("Connected to database")
			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)
			sqlDB.SetConnMaxLifetime(postgresConnMaxLifetime)

			return sqlDB
		}

		log.
			Error().
			Err(err).
			Str("name", name).
			Int("attempt", retry+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitTime) * time.Second)
	}

	return nil
}
