package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/vysogota0399/transactions_api/internal/config"
	"github.com/vysogota0399/transactions_api/internal/logging"
)

type Storage struct {
	DB     *sql.DB
	Client string

	pool *pgxpool.Pool
	lg   *logging.ZapLogger
}

func NewStorage(lc fx.Lifecycle, cfg *config.Config, lg *logging.ZapLogger) (*Storage, error) {
	strg, err := Open(cfg, lg)
	if err != nil {
		return nil, err
	}

	lc.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := strg.Ping(ctx); err != nil {
					return err
				}

				return strg.RunMigration()
			},
			OnStop: func(ctx context.Context) error {
				return strg.Close()
			},
		},
	)

	return strg, nil
}

// Open connects to the database selected by DATABASE_CLIENT. Nothing is sent
// over the wire until the first query or Ping.
func Open(cfg *config.Config, lg *logging.ZapLogger) (*Storage, error) {
	switch cfg.DatabaseClient {
	case config.DatabaseClientPostgres:
		dbcfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("storage: parse database url error %w", err)
		}

		if cfg.DatabaseMaxConns > 0 {
			dbcfg.MaxConns = int32(cfg.DatabaseMaxConns)
		}

		dbpool, err := pgxpool.NewWithConfig(context.Background(), dbcfg)
		if err != nil {
			return nil, fmt.Errorf("storage: create pool error %w", err)
		}

		return &Storage{DB: stdlib.OpenDBFromPool(dbpool), Client: cfg.DatabaseClient, pool: dbpool, lg: lg}, nil
	case config.DatabaseClientSQLite:
		db, err := sql.Open("sqlite", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite error %w", err)
		}

		// sqlite serializes writers anyway; one connection also keeps
		// ":memory:" databases alive across queries
		db.SetMaxOpenConns(1)

		return &Storage{DB: db, Client: cfg.DatabaseClient, lg: lg}, nil
	default:
		return nil, fmt.Errorf("storage: unsupported database client %q", cfg.DatabaseClient)
	}
}

func (s *Storage) Ping(ctx context.Context) error {
	if err := s.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("storage: ping error %w", err)
	}

	return nil
}

func (s *Storage) Close() error {
	err := s.DB.Close()
	if s.pool != nil {
		s.pool.Close()
	}

	return err
}

func (s *Storage) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.DB.ExecContext(ctx, s.rebind(query), args...)
}

func (s *Storage) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.DB.QueryContext(ctx, s.rebind(query), args...)
}

func (s *Storage) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return s.DB.QueryRowContext(ctx, s.rebind(query), args...)
}

// rebind turns "?" placeholders into "$n" for postgres.
func (s *Storage) rebind(query string) string {
	if s.Client != config.DatabaseClientPostgres || !strings.Contains(query, "?") {
		return query
	}

	var (
		b strings.Builder
		n int
	)
	b.Grow(len(query) + 8)

	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)
			continue
		}

		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}

	return b.String()
}

//go:embed migrations/*.sql
var embedMigrations embed.FS

func (s *Storage) RunMigration() error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(logging.NewGooseLogger(s.lg))

	dialect := goose.DialectSQLite3
	if s.Client == config.DatabaseClientPostgres {
		dialect = goose.DialectPostgres
	}

	if err := goose.SetDialect(string(dialect)); err != nil {
		return err
	}

	if err := goose.Up(s.DB, "migrations"); err != nil {
		return fmt.Errorf("storage: run migrations error %w", err)
	}

	s.lg.DebugCtx(context.Background(), "migrations applied", zap.String("client", s.Client))

	return nil
}
