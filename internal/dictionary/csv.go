package dictionary

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/HiteshKholwal/Sign-Language-Project/pkg/sign"
)

// CSVSource reads the phrase and word dictionaries from two CSV files. A
// path ending in ".zst" is decompressed with zstd while reading.
type CSVSource struct {
	phrasesPath string
	wordsPath   string
}

var _ Source = (*CSVSource)(nil)

// NewCSVSource returns a source reading phrasesPath and wordsPath.
func NewCSVSource(phrasesPath, wordsPath string) *CSVSource {
	return &CSVSource{phrasesPath: phrasesPath, wordsPath: wordsPath}
}

// Name implements [Source].
func (c *CSVSource) Name() string { return "csv" }

// Paths returns the files the source reads, for watching.
func (c *CSVSource) Paths() []string {
	return []string{c.phrasesPath, c.wordsPath}
}

// Phrases implements [Source].
func (c *CSVSource) Phrases(ctx context.Context) ([]sign.Entry, error) {
	return readCSVFile(ctx, c.phrasesPath, PhraseColumn)
}

// Words implements [Source].
func (c *CSVSource) Words(ctx context.Context) ([]sign.Entry, error) {
	return readCSVFile(ctx, c.wordsPath, WordColumn)
}

func readCSVFile(ctx context.Context, path, keyColumn string) ([]sign.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rc, err := openMaybeCompressed(path)
	if err != nil {
		return nil, fmt.Errorf("dictionary: open %s: %w", filepath.Base(path), err)
	}
	defer rc.Close()

	entries, err := ReadCSV(rc, keyColumn)
	if err != nil {
		return nil, fmt.Errorf("dictionary: read %s: %w", filepath.Base(path), err)
	}
	return entries, nil
}

// ReadCSV parses a dictionary table: a header row followed by data rows.
// The key and asset columns are found by header name (keyColumn and
// "filename", case-insensitive); when either is missing the first two
// columns are used. Short rows yield entries with empty fields.
func ReadCSV(r io.Reader, keyColumn string) ([]sign.Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i, cell := range header {
		header[i] = cleanCell(cell)
	}
	keyIdx := findColumn(header, keyColumn)
	assetIdx := findColumn(header, AssetColumn)
	if keyIdx < 0 || assetIdx < 0 {
		keyIdx, assetIdx = 0, 1
	}

	var out []sign.Entry
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, sign.Entry{
			Key:      cell(row, keyIdx),
			AssetRef: cell(row, assetIdx),
		})
	}
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}

func findColumn(header []string, name string) int {
	for i, col := range header {
		if strings.EqualFold(col, name) {
			return i
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// openMaybeCompressed opens path, transparently decompressing ".zst" files.
func openMaybeCompressed(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(filepath.Ext(path), ".zst") {
		return f, nil
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &zstdFile{Decoder: dec, f: f}, nil
}

type zstdFile struct {
	*zstd.Decoder
	f *os.File
}

func (z *zstdFile) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}
