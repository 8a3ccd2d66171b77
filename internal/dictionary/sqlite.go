package dictionary

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/HiteshKholwal/Sign-Language-Project/pkg/sign"
)

// SQLiteSource reads the dictionaries from two tables of a SQLite database.
// The phrase table has columns (phrase, filename) and the word table
// (word, filename). NULL columns are read as empty strings.
type SQLiteSource struct {
	db          *sql.DB
	phraseTable string
	wordTable   string
}

var _ Source = (*SQLiteSource)(nil)

// OpenSQLite opens the database at path and creates both tables if they
// do not exist yet.
func OpenSQLite(ctx context.Context, path, phraseTable, wordTable string) (*SQLiteSource, error) {
	if !ValidTableName(phraseTable) || !ValidTableName(wordTable) {
		return nil, fmt.Errorf("sqlite source: invalid table name %q or %q", phraseTable, wordTable)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite source: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite source: ping: %w", err)
	}
	s := &SQLiteSource{db: db, phraseTable: phraseTable, wordTable: wordTable}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite source: migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteSource) migrate(ctx context.Context) error {
	for _, ddl := range []string{
		createTableDDL(s.phraseTable, PhraseColumn),
		createTableDDL(s.wordTable, WordColumn),
	} {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}

// Name implements [Source].
func (s *SQLiteSource) Name() string { return "sqlite" }

// Phrases implements [Source].
func (s *SQLiteSource) Phrases(ctx context.Context) ([]sign.Entry, error) {
	return s.query(ctx, s.phraseTable, PhraseColumn)
}

// Words implements [Source].
func (s *SQLiteSource) Words(ctx context.Context) ([]sign.Entry, error) {
	return s.query(ctx, s.wordTable, WordColumn)
}

// Insert adds rows to table. It is meant for seeding and tests.
func (s *SQLiteSource) Insert(ctx context.Context, table string, entries []sign.Entry) error {
	if table != s.phraseTable && table != s.wordTable {
		return fmt.Errorf("sqlite source: unknown table %q", table)
	}
	keyColumn := WordColumn
	if table == s.phraseTable {
		keyColumn = PhraseColumn
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite source: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	q := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (?, ?)", table, keyColumn, AssetColumn)
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, q, e.Key, e.AssetRef); err != nil {
			return fmt.Errorf("sqlite source: insert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite source: commit: %w", err)
	}
	return nil
}

func (s *SQLiteSource) query(ctx context.Context, table, keyColumn string) ([]sign.Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectQuery(table, keyColumn))
	if err != nil {
		return nil, fmt.Errorf("sqlite source: query %s: %w", table, err)
	}
	defer rows.Close()

	var out []sign.Entry
	for rows.Next() {
		var key, asset sql.NullString
		if err := rows.Scan(&key, &asset); err != nil {
			return nil, fmt.Errorf("sqlite source: scan %s: %w", table, err)
		}
		out = append(out, sign.Entry{Key: key.String, AssetRef: asset.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite source: rows %s: %w", table, err)
	}
	return out, nil
}

// Ping verifies the database is still reachable.
func (s *SQLiteSource) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
