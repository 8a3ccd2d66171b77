package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/HiteshKholwal/Sign-Language-Project/internal/dictionary"
	"github.com/HiteshKholwal/Sign-Language-Project/pkg/provider/fuzzy/phonetic"
)

// Format is a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Defaults applied by [ApplyDefaults].
const (
	DefaultListenAddr       = ":8080"
	DefaultShutdownTimeout  = 10 * time.Second
	DefaultPhraseTable      = "sign_phrases"
	DefaultWordTable        = "sign_words"
	DefaultServiceName      = "signbridge"
	DefaultPhraseThreshold  = 0.4
	DefaultWordThreshold    = 0.5
	DefaultGestureThreshold = 0.7
	DefaultHistorySize      = 5
	DefaultPollInterval     = 300 * time.Millisecond

	DefaultBreakerMaxFailures  = 3
	DefaultBreakerResetTimeout = 30 * time.Second
)

// KnownSources lists the built-in dictionary source names. [Validate] warns
// about any other name, which may still be provided by a custom [Registry]
// factory.
var KnownSources = []string{SourceCSV, SourceSQLite, SourcePostgres}

// Load reads the configuration file at path and returns a validated [Config].
// Files ending in ".toml" are decoded as TOML, everything else as YAML.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// FormatFor returns the format implied by the extension of path.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// LoadFromReader decodes a config in the given format from r, applies
// defaults and validates the result. Unknown keys are rejected. Useful in
// tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader, format Format) (*Config, error) {
	cfg := &Config{}
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: decode yaml: %w", err)
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(cfg)
		if err != nil {
			return nil, fmt.Errorf("config: decode toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("config: decode toml: unknown keys: %s", strings.Join(keys, ", "))
		}
	default:
		return nil, fmt.Errorf("config: unsupported format %q", format)
	}

	ApplyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills every unset field of cfg with its default. Zero
// numeric values count as unset.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = DefaultListenAddr
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = LogInfo
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	applyDictionaryDefaults(&cfg.Dictionary)
	if cfg.Dictionary.BreakerMaxFailures == 0 {
		cfg.Dictionary.BreakerMaxFailures = DefaultBreakerMaxFailures
	}
	if cfg.Dictionary.BreakerResetTimeout == 0 {
		cfg.Dictionary.BreakerResetTimeout = DefaultBreakerResetTimeout
	}

	if cfg.Matching.PhraseThreshold == 0 {
		cfg.Matching.PhraseThreshold = DefaultPhraseThreshold
	}
	if cfg.Matching.WordThreshold == 0 {
		cfg.Matching.WordThreshold = DefaultWordThreshold
	}
	if cfg.Matching.Metric == "" {
		cfg.Matching.Metric = string(phonetic.MetricBlend)
	}

	if cfg.Gesture.Threshold == 0 {
		cfg.Gesture.Threshold = DefaultGestureThreshold
	}
	if cfg.Gesture.HistorySize == 0 {
		cfg.Gesture.HistorySize = DefaultHistorySize
	}
	if cfg.Gesture.PollInterval == 0 {
		cfg.Gesture.PollInterval = DefaultPollInterval
	}

	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = DefaultServiceName
	}
}

func applyDictionaryDefaults(d *DictionaryConfig) {
	if d.Source == "" {
		d.Source = SourceCSV
	}
	if d.PhraseTable == "" {
		d.PhraseTable = DefaultPhraseTable
	}
	if d.WordTable == "" {
		d.WordTable = DefaultWordTable
	}
	for i := range d.Fallbacks {
		applyDictionaryDefaults(&d.Fallbacks[i])
	}
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("server.shutdown_timeout %s must not be negative", cfg.Server.ShutdownTimeout))
	}
	if tls := cfg.Server.TLS; tls != nil && (tls.CertFile == "" || tls.KeyFile == "") {
		errs = append(errs, errors.New("server.tls requires both cert_file and key_file"))
	}

	// Dictionary
	errs = append(errs, validateDictionary("dictionary", cfg.Dictionary)...)
	if cfg.Dictionary.BreakerMaxFailures < 0 {
		errs = append(errs, fmt.Errorf("dictionary.breaker_max_failures %d must not be negative", cfg.Dictionary.BreakerMaxFailures))
	}
	if cfg.Dictionary.BreakerResetTimeout < 0 {
		errs = append(errs, fmt.Errorf("dictionary.breaker_reset_timeout %s must not be negative", cfg.Dictionary.BreakerResetTimeout))
	}

	// Matching
	m := cfg.Matching
	if m.PhraseThreshold <= 0 || m.PhraseThreshold > 1 {
		errs = append(errs, fmt.Errorf("matching.phrase_threshold %.2f is out of range (0, 1]", m.PhraseThreshold))
	}
	if m.WordThreshold <= 0 || m.WordThreshold > 1 {
		errs = append(errs, fmt.Errorf("matching.word_threshold %.2f is out of range (0, 1]", m.WordThreshold))
	}
	if m.PhraseThreshold > m.WordThreshold {
		slog.Warn("matching.phrase_threshold is looser than matching.word_threshold; whole-phrase matches will win more often than word matches",
			"phrase_threshold", m.PhraseThreshold,
			"word_threshold", m.WordThreshold,
		)
	}
	if _, err := phonetic.ParseMetric(m.Metric); err != nil {
		errs = append(errs, fmt.Errorf("matching.metric %q is invalid; valid values: blend, jarowinkler, levenshtein, damerau", m.Metric))
	}

	// Gesture
	g := cfg.Gesture
	if g.Threshold < 0 || g.Threshold >= 1 {
		errs = append(errs, fmt.Errorf("gesture.threshold %.2f is out of range [0, 1)", g.Threshold))
	}
	if g.HistorySize < 1 {
		errs = append(errs, fmt.Errorf("gesture.history_size %d must be at least 1", g.HistorySize))
	}
	if g.PollInterval < 0 {
		errs = append(errs, fmt.Errorf("gesture.poll_interval %s must be positive", g.PollInterval))
	}

	return errors.Join(errs...)
}

// validateDictionary checks one dictionary source block and its fallbacks.
func validateDictionary(prefix string, d DictionaryConfig) []error {
	var errs []error
	switch d.Source {
	case SourceCSV:
		if d.PhrasesPath == "" {
			errs = append(errs, errors.New(prefix + ".phrases_path is required for the csv source"))
		}
		if d.WordsPath == "" {
			errs = append(errs, errors.New(prefix + ".words_path is required for the csv source"))
		}
	case SourceSQLite:
		if d.SQLitePath == "" {
			errs = append(errs, errors.New(prefix + ".sqlite_path is required for the sqlite source"))
		}
	case SourcePostgres:
		if d.PostgresDSN == "" {
			errs = append(errs, errors.New(prefix + ".postgres_dsn is required for the postgres source"))
		}
	default:
		validateSourceName(d.Source)
	}
	if d.Source == SourceSQLite || d.Source == SourcePostgres {
		if !dictionary.ValidTableName(d.PhraseTable) {
			errs = append(errs, fmt.Errorf("%s.phrase_table %q is not a valid table name", prefix, d.PhraseTable))
		}
		if !dictionary.ValidTableName(d.WordTable) {
			errs = append(errs, fmt.Errorf("%s.word_table %q is not a valid table name", prefix, d.WordTable))
		}
	}
	if d.Watch && d.Source != SourceCSV {
		slog.Warn(prefix+".watch only applies to the csv source; ignoring", "source", d.Source)
	}
	for i, fb := range d.Fallbacks {
		errs = append(errs, validateDictionary(fmt.Sprintf("%s.fallbacks[%d]", prefix, i), fb)...)
	}
	return errs
}

// validateSourceName logs a warning if name is not a built-in source.
func validateSourceName(name string) {
	if slices.Contains(KnownSources, name) {
		return
	}
	slog.Warn("unknown dictionary source; it must be registered by a custom factory",
		"name", name,
		"known", KnownSources,
	)
}
