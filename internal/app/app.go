// Package app wires the signbridge subsystems into a running application.
//
// The App struct owns the full lifecycle: New creates and connects all
// subsystems, Run loads the dictionary and serves HTTP until the context is
// cancelled, and Shutdown tears everything down in order.
//
// For testing, inject doubles via functional options (WithSource,
// WithClassifier, WithMetrics). When an option is not provided, New creates
// real implementations from the config.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/HiteshKholwal/Sign-Language-Project/internal/api"
	"github.com/HiteshKholwal/Sign-Language-Project/internal/config"
	"github.com/HiteshKholwal/Sign-Language-Project/internal/dictionary"
	"github.com/HiteshKholwal/Sign-Language-Project/internal/gesture"
	"github.com/HiteshKholwal/Sign-Language-Project/internal/health"
	"github.com/HiteshKholwal/Sign-Language-Project/internal/observe"
	"github.com/HiteshKholwal/Sign-Language-Project/internal/resilience"
	"github.com/HiteshKholwal/Sign-Language-Project/internal/simplify"
	"github.com/HiteshKholwal/Sign-Language-Project/internal/translate"
	"github.com/HiteshKholwal/Sign-Language-Project/pkg/provider/analyzer/english"
	"github.com/HiteshKholwal/Sign-Language-Project/pkg/provider/fuzzy/phonetic"
)

// App owns all subsystem lifetimes and serves the translation API.
type App struct {
	cfg      *config.Config
	registry *config.Registry
	metrics  *observe.Metrics
	tel      *observe.Telemetry

	// Subsystems, initialised in New and torn down in Shutdown.
	source     dictionary.Source
	store      *dictionary.Store
	loader     *dictionary.Loader
	watcher    *dictionary.Watcher
	simplifier *simplify.Simplifier
	resolver   *translate.Resolver
	pipeline   *translate.Pipeline
	gestures   *gesture.Session
	classifier gesture.Classifier

	handler http.Handler
	server  *http.Server

	mu        sync.Mutex
	addr      net.Addr
	listening chan struct{}

	// closers are called in order during Shutdown.
	closers []func() error

	// stopOnce guards the Shutdown path.
	stopOnce sync.Once
}

// Option is a functional option for New. Use these to inject test doubles.
type Option func(*App)

// WithRegistry sets the registry used to open the dictionary source.
// Default: [config.DefaultRegistry].
func WithRegistry(r *config.Registry) Option {
	return func(a *App) { a.registry = r }
}

// WithSource injects a dictionary source instead of creating one from config.
func WithSource(s dictionary.Source) Option {
	return func(a *App) { a.source = s }
}

// WithClassifier attaches a polled gesture classifier. Run polls it at
// gesture.poll_interval for as long as the app is running.
func WithClassifier(c gesture.Classifier) Option {
	return func(a *App) { a.classifier = c }
}

// WithMetrics injects a metrics recorder. When set, New does not initialise
// the OpenTelemetry providers and /metrics responds 404.
func WithMetrics(m *observe.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// ─── New ─────────────────────────────────────────────────────────────────────

// New creates an App by wiring all subsystems together. It opens the
// dictionary source but does not load it; loading starts in Run so that the
// HTTP server comes up immediately and reports not-ready until the first load
// completes.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{
		cfg:       cfg,
		listening: make(chan struct{}),
	}
	for _, o := range opts {
		o(a)
	}
	if a.registry == nil {
		a.registry = config.DefaultRegistry()
	}

	// ── 1. Telemetry ─────────────────────────────────────────────────────
	if err := a.initTelemetry(ctx); err != nil {
		return nil, fmt.Errorf("app: init telemetry: %w", err)
	}

	// ── 2. Dictionary ────────────────────────────────────────────────────
	if err := a.initDictionary(ctx); err != nil {
		a.closeAll()
		return nil, fmt.Errorf("app: init dictionary: %w", err)
	}

	// ── 3. Translation pipeline ──────────────────────────────────────────
	a.simplifier = simplify.New(english.New())
	a.resolver = translate.NewResolver(a.store,
		translate.WithPhraseThreshold(cfg.Matching.PhraseThreshold),
		translate.WithWordThreshold(cfg.Matching.WordThreshold),
		translate.WithMetrics(a.metrics),
	)
	a.pipeline = translate.NewPipeline(a.simplifier, a.resolver, translate.WithPipelineMetrics(a.metrics))

	// ── 4. Gestures ──────────────────────────────────────────────────────
	a.gestures = gesture.NewSession(
		gesture.WithThreshold(cfg.Gesture.Threshold),
		gesture.WithHistorySize(cfg.Gesture.HistorySize),
		gesture.WithMetrics(a.metrics),
	)

	// ── 5. HTTP ──────────────────────────────────────────────────────────
	a.initHTTP()

	return a, nil
}

// ─── Init helpers ────────────────────────────────────────────────────────────

// initTelemetry sets up the OpenTelemetry providers unless metrics were
// injected.
func (a *App) initTelemetry(ctx context.Context) error {
	if a.metrics != nil {
		return nil
	}
	tel, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    a.cfg.Telemetry.ServiceName,
		DisableMetrics: a.cfg.Telemetry.DisableMetrics,
	})
	if err != nil {
		return err
	}
	a.tel = tel
	a.closers = append(a.closers, func() error {
		return tel.Shutdown(context.Background())
	})

	m, err := observe.NewMetrics(otel.GetMeterProvider())
	if err != nil {
		return err
	}
	a.metrics = m
	return nil
}

// initDictionary opens the configured source, chained with its fallbacks,
// and builds the store and loader.
func (a *App) initDictionary(ctx context.Context) error {
	if a.source == nil {
		src, err := a.openSources(ctx)
		if err != nil {
			return err
		}
		a.source = src
	}
	if c, ok := a.source.(io.Closer); ok {
		a.closers = append(a.closers, c.Close)
	}

	metric, err := phonetic.ParseMetric(a.cfg.Matching.Metric)
	if err != nil {
		return err
	}
	a.store = dictionary.New(phonetic.New(phonetic.WithMetric(metric)))
	a.loader = dictionary.NewLoader(a.store, a.source, dictionary.WithMetrics(a.metrics))
	slog.Info("dictionary source opened", "source", a.source.Name(), "metric", metric)
	return nil
}

// openSources opens the primary dictionary source and every fallback. With
// fallbacks configured the result is a [resilience.FallbackSource].
func (a *App) openSources(ctx context.Context) (dictionary.Source, error) {
	dc := a.cfg.Dictionary
	primary, err := a.registry.CreateSource(ctx, dc)
	if err != nil {
		return nil, err
	}
	if len(dc.Fallbacks) == 0 {
		return primary, nil
	}

	fallbacks := make([]dictionary.Source, 0, len(dc.Fallbacks))
	for i, fc := range dc.Fallbacks {
		src, err := a.registry.CreateSource(ctx, fc)
		if err != nil {
			closeSources(append([]dictionary.Source{primary}, fallbacks...))
			return nil, fmt.Errorf("fallback %d: %w", i, err)
		}
		fallbacks = append(fallbacks, src)
	}
	return resilience.NewFallbackSource(resilience.BreakerConfig{
		MaxFailures:  dc.BreakerMaxFailures,
		ResetTimeout: dc.BreakerResetTimeout,
	}, primary, fallbacks...), nil
}

func closeSources(srcs []dictionary.Source) {
	for _, src := range srcs {
		if c, ok := src.(io.Closer); ok {
			if err := c.Close(); err != nil {
				slog.Warn("close dictionary source", "source", src.Name(), "err", err)
			}
		}
	}
}

// members returns the individual sources behind a.source.
func (a *App) members() []dictionary.Source {
	if fs, ok := a.source.(*resilience.FallbackSource); ok {
		return fs.Sources()
	}
	return []dictionary.Source{a.source}
}

// initHTTP builds the request mux: health probes, the JSON API and the
// Prometheus scrape endpoint.
func (a *App) initHTTP() {
	mux := http.NewServeMux()

	checkers := []health.Checker{health.Gate("dictionary", a.store.Ready)}
	for _, src := range a.members() {
		if p, ok := src.(health.Pinger); ok {
			checkers = append(checkers, health.Ping(src.Name(), p))
		}
	}
	health.New(checkers...).Register(mux)

	api.New(a.simplifier, a.pipeline, a.loader, a.gestures).Register(mux)

	metricsHandler := http.NotFoundHandler()
	if a.tel != nil {
		metricsHandler = a.tel.MetricsHandler
	}
	mux.Handle("GET /metrics", metricsHandler)

	a.handler = observe.Middleware(a.metrics)(mux)
}

// ─── Accessors ───────────────────────────────────────────────────────────────

// Handler returns the fully wrapped HTTP handler.
func (a *App) Handler() http.Handler { return a.handler }

// Store returns the dictionary store.
func (a *App) Store() *dictionary.Store { return a.store }

// Gestures returns the gesture session.
func (a *App) Gestures() *gesture.Session { return a.gestures }

// Resolver returns the sign resolver.
func (a *App) Resolver() *translate.Resolver { return a.resolver }

// ApplyConfig applies the live part of a reloaded configuration: matching
// thresholds and the gesture threshold. Sections listed in
// d.RestartRequired are logged and otherwise ignored.
func (a *App) ApplyConfig(d config.ConfigDiff, cfg *config.Config) {
	if d.MatchingChanged {
		a.resolver.SetThresholds(translate.Thresholds{
			Phrase: cfg.Matching.PhraseThreshold,
			Word:   cfg.Matching.WordThreshold,
		})
		slog.Info("matching thresholds applied",
			"phrase_threshold", cfg.Matching.PhraseThreshold,
			"word_threshold", cfg.Matching.WordThreshold)
	}
	if d.GestureThresholdChanged {
		a.gestures.SetThreshold(cfg.Gesture.Threshold)
		slog.Info("gesture threshold applied", "threshold", cfg.Gesture.Threshold)
	}
	if len(d.RestartRequired) > 0 {
		slog.Warn("config changes require a restart", "sections", d.RestartRequired)
	}
}

// Listening is closed once Run has bound the listen address.
func (a *App) Listening() <-chan struct{} { return a.listening }

// Addr returns the bound listen address, or nil before Run has started
// listening.
func (a *App) Addr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.addr
}

// Translate translates a single sentence, loading the dictionary first when
// it has not been loaded yet. It is used by the one-shot CLI mode.
func (a *App) Translate(ctx context.Context, text string) (translate.Translation, error) {
	if !a.store.Ready() {
		if _, err := a.loader.Load(ctx); err != nil {
			return translate.Translation{}, fmt.Errorf("app: %w", err)
		}
	}
	return a.pipeline.Translate(ctx, text)
}

// ─── Run ─────────────────────────────────────────────────────────────────────

// Run loads the dictionary in the background, starts the optional file
// watcher and gesture poller, and serves HTTP until ctx is cancelled. It
// returns ctx.Err() after a clean stop.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Server.ListenAddr)
	if err != nil {
		return fmt.Errorf("app: listen %s: %w", a.cfg.Server.ListenAddr, err)
	}
	a.server = &http.Server{
		Handler:     a.handler,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	a.mu.Lock()
	a.addr = ln.Addr()
	a.mu.Unlock()
	close(a.listening)
	slog.Info("listening", "addr", ln.Addr().String(), "tls", a.cfg.Server.TLS != nil)

	g, gctx := errgroup.WithContext(ctx)

	loaded := a.loader.LoadAsync(gctx)
	g.Go(func() error {
		if err := <-loaded; err != nil {
			slog.Warn("dictionary not loaded, lookups report not ready until a reload succeeds", "err", err)
		}
		return nil
	})

	if err := a.startWatcher(); err != nil {
		slog.Warn("dictionary watcher disabled", "err", err)
	}

	if a.classifier != nil {
		poller := gesture.NewPoller(a.gestures, a.classifier,
			gesture.WithPollInterval(a.cfg.Gesture.PollInterval))
		g.Go(func() error {
			// A busy or externally stopped source only ends polling; the
			// server keeps running.
			if err := poller.Run(gctx); err != nil {
				slog.Warn("gesture poller not running", "err", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		var err error
		if tls := a.cfg.Server.TLS; tls != nil {
			err = a.server.ServeTLS(ln, tls.CertFile, tls.KeyFile)
		} else {
			err = a.server.Serve(ln)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	return ctx.Err()
}

// startWatcher watches the dictionary files of every file backed source when
// dictionary.watch is set.
func (a *App) startWatcher() error {
	if !a.cfg.Dictionary.Watch {
		return nil
	}
	var paths []string
	for _, src := range a.members() {
		if files, ok := src.(interface{ Paths() []string }); ok {
			paths = append(paths, files.Paths()...)
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("source %q has no files to watch", a.source.Name())
	}
	w, err := dictionary.NewWatcher(a.loader, paths, dictionary.WithOnReload(func(st dictionary.LoadStats) {
		slog.Info("dictionary reloaded", "phrases", st.Phrases, "words", st.Words)
	}))
	if err != nil {
		return err
	}
	a.watcher = w
	a.closers = append(a.closers, func() error {
		w.Stop()
		return nil
	})
	return nil
}

// ─── Shutdown ────────────────────────────────────────────────────────────────

// Shutdown tears down all subsystems in init order. It respects the context
// deadline: if ctx expires before all closers finish, remaining closers are
// skipped and the context error is returned.
func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error
	a.stopOnce.Do(func() {
		slog.Info("shutting down", "closers", len(a.closers))

		if a.server != nil {
			if err := a.server.Shutdown(ctx); err != nil {
				slog.Warn("http shutdown error", "err", err)
			}
		}

		for i, closer := range a.closers {
			select {
			case <-ctx.Done():
				slog.Warn("shutdown deadline exceeded", "remaining", len(a.closers)-i)
				shutdownErr = ctx.Err()
				return
			default:
			}
			if err := closer(); err != nil {
				slog.Warn("closer error", "index", i, "err", err)
			}
		}

		slog.Info("shutdown complete")
	})
	return shutdownErr
}

// closeAll runs the registered closers after a failed New.
func (a *App) closeAll() {
	for _, closer := range a.closers {
		if err := closer(); err != nil {
			slog.Warn("closer error", "err", err)
		}
	}
}
