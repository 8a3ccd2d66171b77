package config

import "reflect"

// ConfigDiff describes what changed between two configs.
// The log level, the matching thresholds and the gesture threshold apply
// live; every other change is listed in RestartRequired.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	// MatchingChanged is set when a phrase or word threshold changed.
	MatchingChanged bool

	// GestureThresholdChanged is set when gesture.threshold changed.
	GestureThresholdChanged bool

	// RestartRequired names the changed settings that take effect only
	// after a restart (e.g. "dictionary", "matching.metric").
	RestartRequired []string
}

// Empty reports whether nothing changed.
func (d ConfigDiff) Empty() bool {
	return !d.LogLevelChanged && !d.Live() && len(d.RestartRequired) == 0
}

// Live reports whether the diff carries threshold changes that can be
// applied to a running service.
func (d ConfigDiff) Live() bool {
	return d.MatchingChanged || d.GestureThresholdChanged
}

// Diff compares old and new configs and returns what changed.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if !sameServer(old.Server, new.Server) {
		d.RestartRequired = append(d.RestartRequired, "server")
	}
	if !reflect.DeepEqual(old.Dictionary, new.Dictionary) {
		d.RestartRequired = append(d.RestartRequired, "dictionary")
	}

	om, nm := old.Matching, new.Matching
	d.MatchingChanged = om.PhraseThreshold != nm.PhraseThreshold || om.WordThreshold != nm.WordThreshold
	if om.Metric != nm.Metric {
		d.RestartRequired = append(d.RestartRequired, "matching.metric")
	}

	og, ng := old.Gesture, new.Gesture
	d.GestureThresholdChanged = og.Threshold != ng.Threshold
	if og.HistorySize != ng.HistorySize {
		d.RestartRequired = append(d.RestartRequired, "gesture.history_size")
	}
	if og.PollInterval != ng.PollInterval {
		d.RestartRequired = append(d.RestartRequired, "gesture.poll_interval")
	}

	if old.Telemetry != new.Telemetry {
		d.RestartRequired = append(d.RestartRequired, "telemetry")
	}
	return d
}

// sameServer compares server settings, ignoring the log level.
func sameServer(a, b ServerConfig) bool {
	if a.ListenAddr != b.ListenAddr || a.ShutdownTimeout != b.ShutdownTimeout {
		return false
	}
	switch {
	case a.TLS == nil && b.TLS == nil:
		return true
	case a.TLS == nil || b.TLS == nil:
		return false
	}
	return *a.TLS == *b.TLS
}
