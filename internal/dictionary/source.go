package dictionary

import (
	"context"
	"fmt"
	"regexp"

	"github.com/HiteshKholwal/Sign-Language-Project/pkg/sign"
)

// Column names of the tabular dictionary format.
const (
	PhraseColumn = "phrase"
	WordColumn   = "word"
	AssetColumn  = "filename"
)

// Source supplies raw dictionary rows. Rows may carry empty keys or asset
// references; [Store.Load] skips and counts them.
//
// Implementations must be safe for concurrent calls of Phrases and Words.
type Source interface {
	// Name identifies the source kind in logs and metrics.
	Name() string

	// Phrases returns every phrase row.
	Phrases(ctx context.Context) ([]sign.Entry, error)

	// Words returns every word row.
	Words(ctx context.Context) ([]sign.Entry, error)
}

// Snapshotter is implemented by sources that must serve both collections
// from one consistent read. [Loader] prefers Snapshot over separate Phrases
// and Words calls when it is available.
type Snapshotter interface {
	Snapshot(ctx context.Context) (phrases, words []sign.Entry, err error)
}

// StaticSource serves fixed in-memory rows.
type StaticSource struct {
	PhraseEntries []sign.Entry
	WordEntries   []sign.Entry
}

var _ Source = (*StaticSource)(nil)

// Name implements [Source].
func (s *StaticSource) Name() string { return "static" }

// Phrases implements [Source].
func (s *StaticSource) Phrases(ctx context.Context) ([]sign.Entry, error) {
	return append([]sign.Entry(nil), s.PhraseEntries...), ctx.Err()
}

// Words implements [Source].
func (s *StaticSource) Words(ctx context.Context) ([]sign.Entry, error) {
	return append([]sign.Entry(nil), s.WordEntries...), ctx.Err()
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidTableName reports whether name is usable as an unquoted SQL table
// name.
func ValidTableName(name string) bool {
	return identRe.MatchString(name)
}

func selectQuery(table, keyColumn string) string {
	return fmt.Sprintf("SELECT %s, %s FROM %s", keyColumn, AssetColumn, table)
}

func createTableDDL(table, keyColumn string) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    %s TEXT,
    %s TEXT
)`, table, keyColumn, AssetColumn)
}
