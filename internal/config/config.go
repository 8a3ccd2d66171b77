// Package config provides the configuration schema, loader, and dictionary
// source registry for the signbridge service.
package config

import "time"

// LogLevel controls log verbosity for the signbridge server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Built-in dictionary source names.
const (
	SourceCSV      = "csv"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
)

// Config is the root configuration structure for signbridge.
// It is typically loaded from a YAML or TOML file using [Load].
type Config struct {
	Server     ServerConfig     `yaml:"server" toml:"server"`
	Dictionary DictionaryConfig `yaml:"dictionary" toml:"dictionary"`
	Matching   MatchingConfig   `yaml:"matching" toml:"matching"`
	Gesture    GestureConfig    `yaml:"gesture" toml:"gesture"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" toml:"telemetry"`
}

// ServerConfig holds network and logging settings for the signbridge server.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr" toml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level" toml:"log_level"`

	// ShutdownTimeout bounds graceful shutdown. Default: 10s.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`

	// TLS configures TLS for the server. When nil, the server runs plain HTTP.
	TLS *TLSConfig `yaml:"tls" toml:"tls"`
}

// TLSConfig holds TLS certificate paths for enabling HTTPS.
type TLSConfig struct {
	// CertFile is the path to the PEM-encoded TLS certificate.
	CertFile string `yaml:"cert_file" toml:"cert_file"`

	// KeyFile is the path to the PEM-encoded TLS private key.
	KeyFile string `yaml:"key_file" toml:"key_file"`
}

// DictionaryConfig selects where the phrase and word dictionaries come from.
type DictionaryConfig struct {
	// Source names a factory in the [Registry]: csv, sqlite or postgres.
	Source string `yaml:"source" toml:"source"`

	// PhrasesPath and WordsPath are the CSV files for the csv source. A
	// ".zst" suffix marks a zstd-compressed file.
	PhrasesPath string `yaml:"phrases_path" toml:"phrases_path"`
	WordsPath   string `yaml:"words_path" toml:"words_path"`

	// Watch reloads the dictionary when the CSV files change.
	Watch bool `yaml:"watch" toml:"watch"`

	// SQLitePath is the database file for the sqlite source.
	SQLitePath string `yaml:"sqlite_path" toml:"sqlite_path"`

	// PostgresDSN is the connection string for the postgres source.
	PostgresDSN string `yaml:"postgres_dsn" toml:"postgres_dsn"`

	// PhraseTable and WordTable name the tables read by the database sources.
	PhraseTable string `yaml:"phrase_table" toml:"phrase_table"`
	WordTable   string `yaml:"word_table" toml:"word_table"`

	// Fallbacks are tried in order when this source fails. Each source sits
	// behind a circuit breaker tuned by the Breaker fields of the top-level
	// dictionary block. Only the top-level block's fallbacks are used.
	Fallbacks []DictionaryConfig `yaml:"fallbacks" toml:"fallbacks"`

	// BreakerMaxFailures is the number of consecutive failed loads after
	// which a source is skipped. Default: 3.
	BreakerMaxFailures int `yaml:"breaker_max_failures" toml:"breaker_max_failures"`

	// BreakerResetTimeout is how long a tripped source is skipped before it
	// is probed again. Default: 30s.
	BreakerResetTimeout time.Duration `yaml:"breaker_reset_timeout" toml:"breaker_reset_timeout"`
}

// MatchingConfig tunes fuzzy dictionary matching. A fuzzy candidate is
// accepted only when its score is strictly below the threshold.
type MatchingConfig struct {
	PhraseThreshold float64 `yaml:"phrase_threshold" toml:"phrase_threshold"`
	WordThreshold   float64 `yaml:"word_threshold" toml:"word_threshold"`

	// Metric selects the fuzzy scoring function: blend, jarowinkler,
	// levenshtein or damerau.
	Metric string `yaml:"metric" toml:"metric"`
}

// GestureConfig tunes the gesture aggregator.
type GestureConfig struct {
	// Threshold is the confidence an event must exceed to be accepted.
	Threshold float64 `yaml:"threshold" toml:"threshold"`

	// HistorySize is the number of distinct recent labels kept.
	HistorySize int `yaml:"history_size" toml:"history_size"`

	// PollInterval is the cadence at which a polled classifier is queried.
	PollInterval time.Duration `yaml:"poll_interval" toml:"poll_interval"`
}

// TelemetryConfig configures metrics and tracing.
type TelemetryConfig struct {
	// ServiceName is reported as the OpenTelemetry service name.
	ServiceName string `yaml:"service_name" toml:"service_name"`

	// DisableMetrics turns off the Prometheus exporter and /metrics.
	DisableMetrics bool `yaml:"disable_metrics" toml:"disable_metrics"`
}
