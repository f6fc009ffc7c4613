package record

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/go-viper/mapstructure/v2"
)

// StringToRegexpHookFunc compiles strings into *regexp.Regexp values.
func StringToRegexpHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(&regexp.Regexp{}) {
			return data, nil
		}

		re, err := regexp.Compile(data.(string))
		if err != nil {
			return nil, fmt.Errorf("invalid regex '%s': %w", data.(string), err)
		}

		return re, nil
	}
}
