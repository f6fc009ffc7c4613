package appprofiles

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DebugFlag is the name of the flag printing the resolved settings instead of running the command.
const DebugFlag = "debug-settings"

// SetupDebug creates the --debug-settings persistent flag and makes every command a no-op while it is active.
//
// Works only for the root command, once its subcommands are added.
func SetupDebug(rootC *cobra.Command) error {
	if rootC.Parent() != nil {
		return fmt.Errorf("SetupDebug must be called on the root command")
	}

	rootC.PersistentFlags().Bool(DebugFlag, false, fmt.Sprintf("print the resolved settings to stderr and exit (env %s)", EnvVar(DebugFlag)))
	recursiveWrapC(rootC)

	return nil
}

func recursiveWrapC(c *cobra.Command) {
	if c.RunE != nil {
		originalRunE := c.RunE
		c.RunE = func(c *cobra.Command, args []string) error {
			if IsDebugActive(c) {
				return nil
			}

			return originalRunE(c, args)
		}
	}

	for _, sub := range c.Commands() {
		recursiveWrapC(sub)
	}
}

// IsDebugActive tells whether the debug flag is set for c, on the command line or in the environment.
func IsDebugActive(c *cobra.Command) bool {
	if f := c.Root().PersistentFlags().Lookup(DebugFlag); f != nil && f.Changed {
		active, _ := strconv.ParseBool(f.Value.String())

		return active
	}

	active, _ := strconv.ParseBool(os.Getenv(EnvVar(DebugFlag)))

	return active
}

// UseDebug writes the settings file in use and the resolved settings to w when the debug flag is active.
func UseDebug(c *cobra.Command, w io.Writer, settingsFile string, s *Settings) error {
	if !IsDebugActive(c) {
		return nil
	}

	if settingsFile == "" {
		settingsFile = "none"
	}
	fmt.Fprintf(w, "Settings file: %s\n", settingsFile)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{
		KeyConfigDir:     s.ConfigDir,
		KeyLogDir:        s.LogDir,
		KeyLogLevel:      s.LogLevel.String(),
		KeyOnReloadError: s.OnReloadError.String(),
		KeyDuplicates:    s.Duplicates.String(),
		KeyWatch:         s.Watch,
	}); err != nil {
		return fmt.Errorf("couldn't encode settings: %w", err)
	}

	return enc.Close()
}
