package record

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// Record is one application definition as declared in a configuration document.
type Record struct {
	Shorthand       string         `mapstructure:"shorthand" mod:"trim" validate:"required"`
	Cmd             string         `mapstructure:"cmd" mod:"trim" validate:"required"`
	Args            string         `mapstructure:"args" mod:"trim"`
	ProfileDirs     []string       `mapstructure:"profile_dirs" validate:"dive,required"`
	ProfileFilename string         `mapstructure:"profile_filename" mod:"trim"`
	ProfileRegex    *regexp.Regexp `mapstructure:"profile_regex" mod:"-" validate:"-"`
	OptEntries      []OptEntry     `mapstructure:"opt_entries" mod:"dive" validate:"dive"`
	Icon            string         `mapstructure:"icon" mod:"trim"`
}

// OptEntry is a statically declared entry that is not derived from scanning.
type OptEntry struct {
	Name string `mapstructure:"name" mod:"trim" validate:"required"`
	Desc string `mapstructure:"desc" mod:"trim"`
	Cmd  string `mapstructure:"cmd" mod:"trim"`
	Args string `mapstructure:"args" mod:"trim"`
}

// requiredKeys must be present in every document, even when their value is empty.
var requiredKeys = []string{
	"shorthand",
	"cmd",
	"args",
	"profile_dirs",
	"profile_regex",
}

// ContentScan tells whether profiles come from the contents of ProfileFilename rather than from directory listings.
func (r *Record) ContentScan() bool {
	return r.ProfileFilename != ""
}

// CommandLine joins the command and its argument template.
func (r *Record) CommandLine() string {
	return r.Cmd + " " + r.Args
}

var formats = []string{"yaml", "yml", "json", "toml"}

// Formats returns the supported document formats, which double as file extensions.
func Formats() []string {
	return slices.Clone(formats)
}

// FormatOf returns the document format for the given path, matching its extension case-insensitively.
func FormatOf(path string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if slices.Contains(formats, ext) {
		return ext, true
	}

	return "", false
}
