// Package appprofiles is a launcher plugin opening application profiles.
//
// Applications are declared by documents in a config directory; each one has a shorthand and a set of
// profiles discovered on disk. A query is a shorthand followed by a fragment of a profile name.
package appprofiles

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/leodido/appprofiles/catalog"
	internallaunch "github.com/leodido/appprofiles/internal/launch"
	"github.com/leodido/appprofiles/query"
	"go.uber.org/zap"
)

// Plugin is one launcher session.
//
// It serves the requests of a single launcher, one at a time.
type Plugin struct {
	root       string
	sink       Sink
	loader     *catalog.Loader
	loaderOpts []catalog.Option
	spawner    Spawner
	logger     *zap.Logger
	session    string
	policy     ReloadPolicy
	dups       DuplicatePolicy
	onReload   func(catalog.Catalog)

	catalog atomic.Pointer[catalog.Catalog]
	stale   atomic.Bool

	mu      sync.Mutex
	results []query.Result
	lastErr error
}

// PluginOption configures a Plugin.
type PluginOption func(*Plugin)

// WithLoaderOptions configures the catalog loader further.
func WithLoaderOptions(opts ...catalog.Option) PluginOption {
	return func(p *Plugin) {
		p.loaderOpts = append(p.loaderOpts, opts...)
	}
}

// WithSpawner sets how launch lines are started.
func WithSpawner(s Spawner) PluginOption {
	return func(p *Plugin) {
		p.spawner = s
	}
}

// WithLogger sets the logger; the session gets its own child.
func WithLogger(logger *zap.Logger) PluginOption {
	return func(p *Plugin) {
		p.logger = logger
	}
}

// WithReloadPolicy sets which catalog is served after a failed reload.
func WithReloadPolicy(policy ReloadPolicy) PluginOption {
	return func(p *Plugin) {
		p.policy = policy
	}
}

// WithDuplicatePolicy sets how the default loader handles documents reusing a shorthand.
func WithDuplicatePolicy(policy DuplicatePolicy) PluginOption {
	return func(p *Plugin) {
		p.dups = policy
	}
}

// WithReloadHook sets a function called with every catalog a successful reload installs.
func WithReloadHook(fn func(catalog.Catalog)) PluginOption {
	return func(p *Plugin) {
		p.onReload = fn
	}
}

// Options returns the plugin options the settings stand for.
func (s *Settings) Options() []PluginOption {
	return []PluginOption{
		WithReloadPolicy(s.OnReloadError),
		WithDuplicatePolicy(s.Duplicates),
	}
}

// New creates a session serving the catalog under root and answering to sink.
//
// The catalog is empty until the first Reload.
func New(root string, sink Sink, opts ...PluginOption) *Plugin {
	p := &Plugin{
		root:    root,
		sink:    sink,
		logger:  zap.NewNop(),
		session: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.logger = p.logger.With(zap.String("session", p.session))
	loaderOpts := []catalog.Option{
		catalog.WithLogger(p.logger),
		catalog.AllowDuplicateShorthands(p.dups == DuplicatesFirst),
	}
	p.loader = catalog.NewLoader(append(loaderOpts, p.loaderOpts...)...)
	if p.spawner == nil {
		p.spawner = internallaunch.New()
	}

	return p
}

// Session identifies the session in the logs.
func (p *Plugin) Session() string {
	return p.session
}

// Catalog returns the catalog currently served.
func (p *Plugin) Catalog() catalog.Catalog {
	if cat := p.catalog.Load(); cat != nil {
		return *cat
	}

	return catalog.Catalog{}
}

// LastError returns the error of the last reload, or nil when it succeeded.
func (p *Plugin) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.lastErr
}

// WatchPaths returns the directories whose changes make the catalog stale.
func (p *Plugin) WatchPaths() []string {
	return append([]string{filepath.Join(p.root, catalog.ConfigDirName)}, p.Catalog().Dirs()...)
}

// MarkStale makes the next search reload the catalog first.
//
// It is safe to call from any goroutine.
func (p *Plugin) MarkStale() {
	if !p.stale.Swap(true) {
		p.logger.Debug("catalog marked stale")
	}
}

// Reload loads the catalog again.
//
// On failure the reload policy decides whether the previous catalog is still served, and the error is returned.
func (p *Plugin) Reload(ctx context.Context) error {
	p.logger.Info("reloading")
	cat, err := p.loader.Load(ctx, p.root)

	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()

	if err != nil {
		p.logger.Error("reload failed", zap.Error(err), zap.Stringer("policy", p.policy))
		if p.policy == ReloadEmpty {
			empty := catalog.Catalog{}
			p.catalog.Store(&empty)
		}

		return err
	}

	p.catalog.Store(&cat)
	p.logger.Info("reloaded", zap.Int("apps", len(cat)))
	if p.onReload != nil {
		p.onReload(cat)
	}

	return nil
}

// Query returns the results for text against the current catalog.
func (p *Plugin) Query(text string) []query.Result {
	cat := p.Catalog()
	shorthand, fragment := query.Parse(text)
	p.logger.Debug("query", zap.String("text", text), zap.String("shorthand", shorthand), zap.String("fragment", fragment))

	if len(cat) == 0 {
		if err := p.LastError(); err != nil {
			return []query.Result{query.ErrorResult(query.EmptyCatalogMessage + ": " + err.Error())}
		}
	}

	return query.Search(cat, text)
}

// Search answers a query, numbering the rows from zero, and ends the result set.
//
// A stale catalog is reloaded first; a failed reload is handled by the reload policy.
func (p *Plugin) Search(ctx context.Context, text string) error {
	if p.stale.CompareAndSwap(true, false) {
		_ = p.Reload(ctx)
	}

	results := p.Query(text)
	p.mu.Lock()
	p.results = results
	p.mu.Unlock()

	for i, r := range results {
		if err := p.sink.Append(uint32(i), r.Name, r.Description, r.Icon); err != nil {
			return err
		}
	}

	return p.sink.Finished()
}

// activation reports what activating a row did.
type activation struct {
	result query.Result
	// found is false when the id is not a row of the last search
	found bool
	// spawned is true when the launch line was started
	spawned bool
	// filled is the query sent back to the launcher, if any
	filled string
	// err is the spawn failure, which is logged and not reported
	err error
}

// Activate acts on a row of the last search.
//
// Profile rows are launched and close the launcher; shorthand rows complete the query instead.
// Any other row, or an id not in the last search, only closes the launcher.
func (p *Plugin) Activate(_ context.Context, id uint32) error {
	_, err := p.activate(id)

	return err
}

func (p *Plugin) activate(id uint32) (activation, error) {
	p.mu.Lock()
	var act activation
	if int(id) < len(p.results) {
		act.result = p.results[id]
		act.found = true
	}
	p.mu.Unlock()

	if !act.found {
		p.logger.Debug("activate: no such row", zap.Uint32("id", id))

		return act, p.sink.Close()
	}

	switch act.result.Kind {
	case query.KindShorthand:
		act.filled = act.result.Launch + " "
		p.logger.Info("completing shorthand", zap.Uint32("id", id), zap.String("shorthand", act.result.Launch))

		return act, p.sink.Fill(act.filled)
	case query.KindProfile:
		p.logger.Info("launching", zap.Uint32("id", id), zap.String("line", act.result.Launch))
		if err := p.spawner.Spawn(act.result.Launch); err != nil {
			act.err = err
			p.logger.Error("couldn't launch", zap.Uint32("id", id), zap.Error(err))
		} else {
			act.spawned = true
		}
	default:
		p.logger.Debug("activate: nothing to launch", zap.Uint32("id", id), zap.Stringer("kind", act.result.Kind))
	}

	return act, p.sink.Close()
}

// Complete closes the launcher.
func (p *Plugin) Complete(_ context.Context, id uint32) error {
	p.logger.Debug("complete", zap.Uint32("id", id))

	return p.sink.Close()
}
