package appprofiles

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	appprofileserrors "github.com/leodido/appprofiles/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/thediveo/enumflag/v2"
	"go.uber.org/zap/zapcore"
)

// ReloadPolicy decides which catalog is served after a failed reload.
type ReloadPolicy int

const (
	// ReloadKeep keeps serving the previous catalog.
	ReloadKeep ReloadPolicy = iota
	// ReloadEmpty serves an empty catalog.
	ReloadEmpty
)

var reloadPolicies = map[ReloadPolicy][]string{
	ReloadKeep:  {"keep"},
	ReloadEmpty: {"empty"},
}

func (p ReloadPolicy) String() string {
	if ids, ok := reloadPolicies[p]; ok {
		return ids[0]
	}

	return fmt.Sprintf("ReloadPolicy(%d)", int(p))
}

// DuplicatePolicy decides how documents reusing a shorthand are handled.
type DuplicatePolicy int

const (
	// DuplicatesError fails the load.
	DuplicatesError DuplicatePolicy = iota
	// DuplicatesFirst keeps every document and resolves the shorthand to the first one.
	DuplicatesFirst
)

var duplicatePolicies = map[DuplicatePolicy][]string{
	DuplicatesError: {"error"},
	DuplicatesFirst: {"first"},
}

func (p DuplicatePolicy) String() string {
	if ids, ok := duplicatePolicies[p]; ok {
		return ids[0]
	}

	return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
}

// Settings keys, which are also the flag names.
const (
	KeyConfigDir     = "config-dir"
	KeyLogDir        = "log-dir"
	KeyLogLevel      = "log-level"
	KeyOnReloadError = "on-reload-error"
	KeyDuplicates    = "duplicates"
	KeyWatch         = "watch"
)

// Settings configures the plugin itself, as opposed to the catalog documents.
type Settings struct {
	ConfigDir     string          `mapstructure:"config-dir" mod:"trim" validate:"required"`
	LogDir        string          `mapstructure:"log-dir" mod:"trim" validate:"required"`
	LogLevel      zapcore.Level   `mapstructure:"log-level" validate:"min=-1,max=5"`
	OnReloadError ReloadPolicy    `mapstructure:"on-reload-error" validate:"oneof=0 1"`
	Duplicates    DuplicatePolicy `mapstructure:"duplicates" validate:"oneof=0 1"`
	Watch         bool            `mapstructure:"watch"`
}

// ExecutableDir returns the directory of the running binary, or the working directory when it is unknown.
func ExecutableDir() string {
	exec, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exec); err == nil {
		exec = resolved
	}

	return filepath.Dir(exec)
}

// DefaultSettings reads the catalog next to the binary and logs into its log directory.
func DefaultSettings() *Settings {
	dir := ExecutableDir()

	return &Settings{
		ConfigDir: dir,
		LogDir:    filepath.Join(dir, "log"),
		LogLevel:  zapcore.InfoLevel,
	}
}

// Attach defines the settings flags as persistent flags of c.
func (s *Settings) Attach(c *cobra.Command) error {
	fs := c.PersistentFlags()
	fs.StringVar(&s.ConfigDir, KeyConfigDir, s.ConfigDir, "directory containing the config folder of application documents")
	fs.StringVar(&s.LogDir, KeyLogDir, s.LogDir, "directory of the log file")
	fs.Var(
		enumflag.New(&s.LogLevel, "zapcore.Level", logLevels, enumflag.EnumCaseInsensitive),
		KeyLogLevel,
		fmt.Sprintf("logging level {%s}", strings.Join(enumNames(logLevels), ",")),
	)
	fs.Var(
		enumflag.New(&s.OnReloadError, "policy", reloadPolicies, enumflag.EnumCaseInsensitive),
		KeyOnReloadError,
		fmt.Sprintf("catalog served after a failed reload {%s}", strings.Join(enumNames(reloadPolicies), ",")),
	)
	fs.Var(
		enumflag.New(&s.Duplicates, "policy", duplicatePolicies, enumflag.EnumCaseInsensitive),
		KeyDuplicates,
		fmt.Sprintf("handling of documents reusing a shorthand {%s}", strings.Join(enumNames(duplicatePolicies), ",")),
	)
	fs.BoolVar(&s.Watch, KeyWatch, s.Watch, "reload the catalog when documents or profile directories change")

	if err := c.MarkPersistentFlagDirname(KeyConfigDir); err != nil {
		return fmt.Errorf("couldn't set dirname completion: %w", err)
	}
	if err := c.MarkPersistentFlagDirname(KeyLogDir); err != nil {
		return fmt.Errorf("couldn't set dirname completion: %w", err)
	}

	return nil
}

var settingsKeys = []string{KeyConfigDir, KeyLogDir, KeyLogLevel, KeyOnReloadError, KeyDuplicates, KeyWatch}

// Bind makes v read the settings from the flags of c and from the environment.
//
// Flags other than the settings ones are left out of v.
func (s *Settings) Bind(v *viper.Viper, c *cobra.Command) error {
	var err error
	c.Flags().VisitAll(func(f *pflag.Flag) {
		if err != nil || !slices.Contains(settingsKeys, f.Name) {
			return
		}
		err = v.BindPFlag(f.Name, f)
	})
	if err != nil {
		return err
	}

	return bindEnv(v, settingsKeys...)
}

// Transform trims the settings.
func (s *Settings) Transform(ctx context.Context) error {
	return modifiers.New().Struct(ctx, s)
}

// Validate checks the settings.
func (s *Settings) Validate(_ context.Context) []error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []error{err}
	}
	errs := make([]error, 0, len(validationErrors))
	for _, e := range validationErrors {
		errs = append(errs, fmt.Errorf("field '%s': failed '%s' check on value '%v'", e.Namespace(), e.Tag(), e.Value()))
	}

	return errs
}

// Unmarshal decodes opts from v, then transforms and validates it when opts supports that.
func Unmarshal(ctx context.Context, v *viper.Viper, opts Options, hooks ...mapstructure.DecodeHookFunc) error {
	hooks = append(decodeHooks(), hooks...)
	if err := v.Unmarshal(opts, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(hooks...))); err != nil {
		return fmt.Errorf("couldn't decode settings: %w", err)
	}

	if o, ok := opts.(TransformableOptions); ok {
		if err := o.Transform(ctx); err != nil {
			return fmt.Errorf("couldn't transform settings: %w", err)
		}
	}

	if o, ok := opts.(ValidatableOptions); ok {
		if errs := o.Validate(ctx); len(errs) > 0 {
			return &appprofileserrors.ValidationError{ContextName: "settings", Errors: errs}
		}
	}

	return nil
}
