package internalconfig

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// SearchPathType represents different search path strategies for the settings file
type SearchPathType int

const (
	// SearchPathExecutableDir represents {executable_dir}
	SearchPathExecutableDir SearchPathType = iota
	// SearchPathHomeConfig represents $HOME/.config/{app}
	SearchPathHomeConfig
	// SearchPathEtc represents /etc/{app}
	SearchPathEtc
	// SearchPathCustom represents the custom paths (must be provided in CustomPaths)
	SearchPathCustom
)

// DefaultSearchPaths lists the strategies in lookup order.
var DefaultSearchPaths = []SearchPathType{
	SearchPathExecutableDir,
	SearchPathHomeConfig,
	SearchPathEtc,
}

// Extensions are the settings file extensions viper is asked to try.
var Extensions = []string{"yaml", "yml", "json", "toml"}

// Options defines how the settings file is found
type Options struct {
	AppName     string           // For default paths
	ConfigName  string           // Settings file name without extension
	EnvVar      string           // Environment variable holding an explicit settings file path
	SearchPaths []SearchPathType // Search path strategies (defaults to DefaultSearchPaths)
	CustomPaths []string         // Custom search paths (when SearchPaths contains SearchPathCustom)
}

// Setup points v at the explicit settings file when given, or else at the search paths.
//
// An explicit file comes from the file argument first, then from the environment variable.
func Setup(v *viper.Viper, file string, opts Options) {
	if f := strings.TrimSpace(file); f != "" {
		v.SetConfigFile(f)

		return
	}

	if opts.EnvVar != "" {
		if f := strings.TrimSpace(os.Getenv(opts.EnvVar)); f != "" {
			v.SetConfigFile(f)

			return
		}
	}

	for _, searchPath := range SearchPaths(opts, false) {
		v.AddConfigPath(searchPath)
	}

	// Viper will automatically try the supported extensions
	v.SetConfigName(opts.ConfigName)
}

// Read reads the settings file v was set up with.
//
// A settings file missing from every search path is not an error.
func Read(v *viper.Viper) (inUse bool, message string, err error) {
	err = v.ReadInConfig()
	if err == nil {
		return true, fmt.Sprintf("using settings file: %s", v.ConfigFileUsed()), nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return false, "running without a settings file", nil
	}

	return false, "", fmt.Errorf("couldn't read settings file '%s': %w", v.ConfigFileUsed(), err)
}

// SearchPaths converts the search path strategies to directories.
//
// When mask is true it returns templates for descriptions (e.g., $HOME) instead of resolved paths.
func SearchPaths(opts Options, mask bool) []string {
	pathTypes := opts.SearchPaths
	if len(pathTypes) == 0 {
		pathTypes = DefaultSearchPaths
	}

	var paths []string
	customPathsUsed := false
	for _, pathType := range pathTypes {
		switch pathType {
		case SearchPathExecutableDir:
			if mask {
				paths = append(paths, "{executable_dir}")
			} else if exec, _ := os.Executable(); exec != "" {
				paths = append(paths, filepath.Dir(exec))
			}

		case SearchPathHomeConfig:
			if mask {
				paths = append(paths, path.Join("$HOME", ".config", opts.AppName))
			} else if home, _ := os.UserHomeDir(); home != "" {
				paths = append(paths, filepath.Join(home, ".config", opts.AppName))
			}

		case SearchPathEtc:
			paths = append(paths, path.Join("/etc", opts.AppName))

		case SearchPathCustom:
			// Add all custom paths at this position only once
			if customPathsUsed {
				continue
			}
			for _, customPath := range opts.CustomPaths {
				if mask {
					paths = append(paths, strings.ReplaceAll(customPath, "{APP}", opts.AppName))
				} else {
					paths = append(paths, expand(customPath, opts.AppName))
				}
			}
			customPathsUsed = true
		}
	}

	return paths
}

// expand resolves environment variables and the {APP} placeholder
func expand(searchPath, appName string) string {
	return strings.ReplaceAll(os.ExpandEnv(searchPath), "{APP}", appName)
}

// Description documents the settings flag with the search paths it falls back to.
func Description(opts Options) string {
	templatePaths := SearchPaths(opts, true)
	if len(templatePaths) == 0 {
		return "settings file"
	}

	return fmt.Sprintf("settings file (fallbacks to: {%s}/%s.{%s})", strings.Join(templatePaths, ","), opts.ConfigName, strings.Join(Extensions, ","))
}
