// Package internalcli builds the app-profiles command line.
package internalcli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/leodido/appprofiles"
	"github.com/leodido/appprofiles/catalog"
	internalprotocol "github.com/leodido/appprofiles/internal/protocol"
	internalwatch "github.com/leodido/appprofiles/internal/watch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// state is what the root command resolves before any subcommand runs.
type state struct {
	settings *appprofiles.Settings
	logger   *zap.Logger
}

// NewRootCmd creates the root command, which serves the launcher protocol on stdin and stdout.
func NewRootCmd(version string) (*cobra.Command, error) {
	st := &state{settings: appprofiles.DefaultSettings(), logger: zap.NewNop()}

	rootC := &cobra.Command{
		Use:           appprofiles.AppName,
		Short:         "Launcher plugin opening application profiles",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(c *cobra.Command, _ []string) error {
			return st.serve(c)
		},
	}

	settingsFile, err := appprofiles.SetupSettings(rootC)
	if err != nil {
		return nil, err
	}
	if err := st.settings.Attach(rootC); err != nil {
		return nil, err
	}

	rootC.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		v := viper.New()
		_, message, err := appprofiles.ReadSettings(v, *settingsFile)
		if err != nil {
			return err
		}
		if err := st.settings.Bind(v, c); err != nil {
			return err
		}
		if err := appprofiles.Unmarshal(c.Context(), v, st.settings); err != nil {
			return err
		}
		if appprofiles.IsDebugActive(c) {
			return appprofiles.UseDebug(c, c.ErrOrStderr(), v.ConfigFileUsed(), st.settings)
		}

		logger, err := appprofiles.NewLogger(st.settings)
		if err != nil {
			return err
		}
		st.logger = logger
		st.logger.Info(message,
			zap.String("command", c.Name()),
			zap.String("config-dir", st.settings.ConfigDir),
			zap.Stringer("on-reload-error", st.settings.OnReloadError),
			zap.Stringer("duplicates", st.settings.Duplicates),
			zap.Bool("watch", st.settings.Watch),
		)

		return nil
	}
	rootC.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		_ = st.logger.Sync()
	}

	rootC.AddCommand(st.queryCmd(), st.catalogCmd())
	if err := appprofiles.SetupDebug(rootC); err != nil {
		return nil, err
	}

	return rootC, nil
}

func (st *state) serve(c *cobra.Command) error {
	ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := internalprotocol.NewWriter(c.OutOrStdout())
	opts := append(st.settings.Options(), appprofiles.WithLogger(st.logger))

	var (
		p       *appprofiles.Plugin
		watcher *internalwatch.Watcher
	)
	if st.settings.Watch {
		cfg := internalwatch.DefaultConfig()
		cfg.Logger = st.logger
		var err error
		if watcher, err = internalwatch.New(cfg); err != nil {
			return err
		}
		defer func() { _ = watcher.Stop() }()
		opts = append(opts, appprofiles.WithReloadHook(func(catalog.Catalog) {
			if err := watcher.Sync(p.WatchPaths()); err != nil {
				st.logger.Warn("couldn't update watched directories", zap.Error(err))
			}
		}))
	}

	p = appprofiles.New(st.settings.ConfigDir, w, opts...)
	// A failed first load is served as an error row
	_ = p.Reload(ctx)

	if watcher != nil {
		if err := watcher.Sync(p.WatchPaths()); err != nil {
			st.logger.Warn("couldn't watch directories", zap.Error(err))
		}
		changes := watcher.Start()
		go func() {
			for {
				select {
				case <-changes:
					p.MarkStale()
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	return internalprotocol.Serve(ctx, c.InOrStdin(), w, p, st.logger)
}

// load builds a session over the configured catalog, failing when the catalog does not load.
func (st *state) load(ctx context.Context) (*appprofiles.Plugin, error) {
	opts := append(st.settings.Options(), appprofiles.WithLogger(st.logger))
	p := appprofiles.New(st.settings.ConfigDir, internalprotocol.NewWriter(io.Discard), opts...)
	if err := p.Reload(ctx); err != nil {
		return nil, err
	}

	return p, nil
}

func (st *state) queryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query [text...]",
		Short: "Prints the results the launcher would show for a query",
		Args:  cobra.ArbitraryArgs,
		RunE: func(c *cobra.Command, args []string) error {
			p, err := st.load(c.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(c.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION\tLAUNCH")
			for i, r := range p.Query(strings.Join(args, " ")) {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, r.Name, r.Description, r.Launch)
			}

			return tw.Flush()
		},
	}
}

type entryView struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Launch      string `yaml:"launch"`
}

type appView struct {
	ID        string      `yaml:"id"`
	Document  string      `yaml:"document"`
	Shorthand string      `yaml:"shorthand"`
	Icon      string      `yaml:"icon,omitempty"`
	Dirs      []string    `yaml:"dirs,omitempty"`
	Entries   []entryView `yaml:"entries"`
}

func view(cat catalog.Catalog) []appView {
	views := make([]appView, 0, len(cat))
	for _, app := range cat {
		v := appView{
			ID:        app.ID,
			Document:  app.Path,
			Shorthand: app.Record.Shorthand,
			Icon:      app.Record.Icon,
			Dirs:      app.Dirs,
			Entries:   make([]entryView, 0, len(app.Entries)),
		}
		for _, e := range app.Entries {
			v.Entries = append(v.Entries, entryView{Name: e.Name, Description: e.Description, Launch: e.Launch})
		}
		views = append(views, v)
	}

	return views
}

func (st *state) catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Prints the loaded catalog as YAML",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			p, err := st.load(c.Context())
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(c.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(view(p.Catalog())); err != nil {
				return fmt.Errorf("couldn't encode catalog: %w", err)
			}

			return enc.Close()
		},
	}
}
