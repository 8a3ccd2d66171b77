package dictionary

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HiteshKholwal/Sign-Language-Project/pkg/sign"
)

// PostgresSource reads the dictionaries from two PostgreSQL tables with the
// same layout as [SQLiteSource]. All operations are safe for concurrent use.
type PostgresSource struct {
	pool        *pgxpool.Pool
	phraseTable string
	wordTable   string
}

var _ Source = (*PostgresSource)(nil)

// OpenPostgres creates a connection pool to the database at dsn, verifies
// it with a ping and creates both tables if they do not exist yet.
func OpenPostgres(ctx context.Context, dsn, phraseTable, wordTable string) (*PostgresSource, error) {
	if !ValidTableName(phraseTable) || !ValidTableName(wordTable) {
		return nil, fmt.Errorf("postgres source: invalid table name %q or %q", phraseTable, wordTable)
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres source: parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres source: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres source: ping: %w", err)
	}
	s := &PostgresSource{pool: pool, phraseTable: phraseTable, wordTable: wordTable}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres source: migrate: %w", err)
	}
	return s, nil
}

func (s *PostgresSource) migrate(ctx context.Context) error {
	for _, ddl := range []string{
		createTableDDL(s.phraseTable, PhraseColumn),
		createTableDDL(s.wordTable, WordColumn),
	} {
		if _, err := s.pool.Exec(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}

// Name implements [Source].
func (s *PostgresSource) Name() string { return "postgres" }

// Phrases implements [Source].
func (s *PostgresSource) Phrases(ctx context.Context) ([]sign.Entry, error) {
	return s.query(ctx, s.phraseTable, PhraseColumn)
}

// Words implements [Source].
func (s *PostgresSource) Words(ctx context.Context) ([]sign.Entry, error) {
	return s.query(ctx, s.wordTable, WordColumn)
}

func (s *PostgresSource) query(ctx context.Context, table, keyColumn string) ([]sign.Entry, error) {
	rows, err := s.pool.Query(ctx, selectQuery(table, keyColumn))
	if err != nil {
		return nil, fmt.Errorf("postgres source: query %s: %w", table, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (sign.Entry, error) {
		var key, asset *string
		if err := row.Scan(&key, &asset); err != nil {
			return sign.Entry{}, err
		}
		var e sign.Entry
		if key != nil {
			e.Key = *key
		}
		if asset != nil {
			e.AssetRef = *asset
		}
		return e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("postgres source: scan %s: %w", table, err)
	}
	return out, nil
}

// Ping verifies the pool can reach the database.
func (s *PostgresSource) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases all connections held by the pool.
func (s *PostgresSource) Close() error {
	s.pool.Close()
	return nil
}
