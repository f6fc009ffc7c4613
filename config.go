package appprofiles

import (
	"fmt"

	internalconfig "github.com/leodido/appprofiles/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// AppName names the binary, the settings directories, and the environment prefix.
const AppName = "app-profiles"

// SettingsFlag is the name of the flag selecting the settings file.
const SettingsFlag = "settings"

func settingsOptions() internalconfig.Options {
	return internalconfig.Options{
		AppName:    AppName,
		ConfigName: "settings",
		EnvVar:     EnvVar(SettingsFlag),
	}
}

// SetupSettings creates the --settings persistent flag on the root command.
//
// The returned pointer holds the flag value once the command line is parsed.
func SetupSettings(rootC *cobra.Command) (*string, error) {
	if rootC.Parent() != nil {
		return nil, fmt.Errorf("SetupSettings must be called on the root command")
	}

	file := ""
	rootC.PersistentFlags().StringVar(&file, SettingsFlag, file, internalconfig.Description(settingsOptions()))
	if err := rootC.MarkPersistentFlagFilename(SettingsFlag, internalconfig.Extensions...); err != nil {
		return nil, fmt.Errorf("couldn't set filename completion: %w", err)
	}

	return &file, nil
}

// ReadSettings reads the settings file into v.
//
// The file is the given one, else the one named by the APP_PROFILES_SETTINGS environment variable,
// else the first found in the executable directory, $HOME/.config/app-profiles, and /etc/app-profiles.
func ReadSettings(v *viper.Viper, file string) (inUse bool, message string, err error) {
	internalconfig.Setup(v, file, settingsOptions())

	return internalconfig.Read(v)
}
