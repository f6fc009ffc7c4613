package appprofiles

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap/zapcore"
)

var logLevels = map[zapcore.Level][]string{
	zapcore.DebugLevel:  {"debug"},
	zapcore.InfoLevel:   {"info"},
	zapcore.WarnLevel:   {"warn"},
	zapcore.ErrorLevel:  {"error"},
	zapcore.DPanicLevel: {"dpanic"},
	zapcore.PanicLevel:  {"panic"},
	zapcore.FatalLevel:  {"fatal"},
}

// decodeHooks are the hooks every settings unmarshal runs with.
func decodeHooks() []mapstructure.DecodeHookFunc {
	return []mapstructure.DecodeHookFunc{
		StringToZapcoreLevelHookFunc(),
		StringToEnumHookFunc(reloadPolicies),
		StringToEnumHookFunc(duplicatePolicies),
	}
}

func StringToZapcoreLevelHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(zapcore.DebugLevel) {
			return data, nil
		}

		level, err := zapcore.ParseLevel(data.(string))
		if err != nil {
			return nil, fmt.Errorf("invalid string for zapcore.Level '%s': %w", data.(string), err)
		}

		return level, nil
	}
}

// StringToEnumHookFunc decodes the case-insensitive identifiers of an enum into its values.
func StringToEnumHookFunc[E ~int](ids map[E][]string) mapstructure.DecodeHookFunc {
	var zero E
	target := reflect.TypeOf(zero)

	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != target {
			return data, nil
		}

		return parseEnum(ids, data.(string), target.Name())
	}
}

func parseEnum[E ~int](ids map[E][]string, s, typename string) (E, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for value, names := range ids {
		for _, name := range names {
			if name == needle {
				return value, nil
			}
		}
	}

	return 0, fmt.Errorf("invalid string for %s '%s': expected one of {%s}", typename, s, strings.Join(enumNames(ids), ","))
}

// enumNames lists the first identifier of every value, in value order.
func enumNames[E ~int | ~int8](ids map[E][]string) []string {
	keys := make([]int, 0, len(ids))
	for k := range ids {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)

	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, ids[E(k)][0])
	}

	return names
}
