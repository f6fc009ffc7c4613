package appprofiles

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the plugin reads.
const EnvPrefix = "APP_PROFILES"

var (
	envSep = "_"
	envRep = strings.NewReplacer("-", envSep, ".", envSep)
)

// EnvVar returns the environment variable overriding the given settings key.
func EnvVar(key string) string {
	return EnvPrefix + envSep + envRep.Replace(strings.ToUpper(key))
}

func bindEnv(v *viper.Viper, keys ...string) error {
	for _, key := range keys {
		if err := v.BindEnv(key, EnvVar(key)); err != nil {
			return err
		}
	}

	return nil
}
