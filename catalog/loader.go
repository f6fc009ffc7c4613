package catalog

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	appprofileserrors "github.com/leodido/appprofiles/errors"
	internaltitlecase "github.com/leodido/appprofiles/internal/titlecase"
	"github.com/leodido/appprofiles/record"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ConfigDirName is the directory, relative to the loader root, holding the configuration documents.
const ConfigDirName = "config"

// DefaultOptDescription is the description of static entries that do not declare one.
const DefaultOptDescription = "optional"

// Loader builds catalogs from a directory of configuration documents.
type Loader struct {
	fs              afero.Fs
	home            func() (string, error)
	decoder         *record.Decoder
	logger          *zap.Logger
	allowDuplicates bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithFs sets the filesystem the loader reads from.
func WithFs(fs afero.Fs) Option {
	return func(l *Loader) {
		l.fs = fs
	}
}

// WithHomeDir sets how the home directory is resolved for "~/" prefixed profile directories.
func WithHomeDir(home func() (string, error)) Option {
	return func(l *Loader) {
		l.home = home
	}
}

// WithDecoder sets the record decoder.
func WithDecoder(d *record.Decoder) Option {
	return func(l *Loader) {
		l.decoder = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// AllowDuplicateShorthands makes the loader accept documents reusing a shorthand.
//
// Lookups then resolve to the first document in catalog order.
func AllowDuplicateShorthands(allow bool) Option {
	return func(l *Loader) {
		l.allowDuplicates = allow
	}
}

// NewLoader creates a Loader reading from the OS filesystem unless configured otherwise.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		fs:      afero.NewOsFs(),
		home:    os.UserHomeDir,
		decoder: record.NewDecoder(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load builds the catalog for the documents in the config directory under root.
//
// Documents are visited in filename order.
// Any failure aborts the whole load and no catalog is returned.
func (l *Loader) Load(ctx context.Context, root string) (Catalog, error) {
	configDir := filepath.Join(root, ConfigDirName)
	l.logger.Info("loading catalog", zap.String("dir", configDir))

	infos, err := afero.ReadDir(l.fs, configDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("config dir not found", zap.String("dir", configDir))

			return Catalog{}, nil
		}

		return nil, appprofileserrors.NewIOError("read config dir", configDir, err)
	}

	cat := Catalog{}
	seen := map[string]string{}
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		format, ok := record.FormatOf(info.Name())
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(configDir, info.Name())
		app, err := l.loadApp(ctx, path, format)
		if err != nil {
			return nil, err
		}

		key := strings.ToLower(app.Record.Shorthand)
		if first, dup := seen[key]; dup {
			if !l.allowDuplicates {
				return nil, appprofileserrors.NewDuplicateShorthandError(app.Record.Shorthand, first, path)
			}
			l.logger.Warn("shorthand shadowed", zap.String("shorthand", app.Record.Shorthand), zap.String("by", first), zap.String("document", path))
		} else {
			seen[key] = path
		}

		cat = append(cat, app)
	}

	l.logger.Info("loaded catalog", zap.Int("apps", len(cat)))

	return cat, nil
}

func (l *Loader) loadApp(ctx context.Context, path, format string) (*App, error) {
	l.logger.Info("loading document", zap.String("document", path))

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, appprofileserrors.NewIOError("read document", path, err)
	}

	rec, err := l.decoder.Decode(ctx, data, format)
	if err != nil {
		var decodeErr *appprofileserrors.DecodeError
		if errors.As(err, &decodeErr) {
			decodeErr.Path = path
		}

		return nil, err
	}

	app := &App{
		ID:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:   path,
		Record: rec,
	}

	s := &scanner{fs: l.fs, logger: l.logger, path: path, rec: rec}
	strategy := StrategyFor(rec)
	for _, dir := range rec.ProfileDirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		abs, err := l.expand(path, dir)
		if err != nil {
			return nil, err
		}
		app.Dirs = append(app.Dirs, abs)

		found, err := strategy.scan(s, abs)
		if err != nil {
			return nil, err
		}
		app.Entries = append(app.Entries, found...)
	}

	for _, opt := range rec.OptEntries {
		l.logger.Debug("adding static entry", zap.String("document", path), zap.String("name", opt.Name))
		app.Entries = append(app.Entries, staticEntry(rec, opt))
	}

	return app, nil
}

func staticEntry(rec *record.Record, opt record.OptEntry) Entry {
	desc := opt.Desc
	if desc == "" {
		desc = DefaultOptDescription
	}
	cmd := opt.Cmd
	if cmd == "" {
		cmd = rec.Cmd
	}

	return Entry{
		Name:        internaltitlecase.Title(opt.Name),
		Description: desc,
		Launch:      strings.TrimSpace(cmd + " " + opt.Args),
	}
}

// expand resolves a "~" or "~/" prefix against the home directory.
func (l *Loader) expand(path, dir string) (string, error) {
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}

	home, err := l.home()
	if err != nil {
		return "", appprofileserrors.NewNoHomeError(path, dir, err)
	}
	if home == "" {
		return "", appprofileserrors.NewNoHomeError(path, dir, nil)
	}

	return filepath.Join(home, strings.TrimPrefix(dir[1:], "/")), nil
}
