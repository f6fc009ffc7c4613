// Package catalog holds the launchable applications declared by configuration documents and the loader that builds them.
package catalog

import (
	"strings"

	"github.com/leodido/appprofiles/record"
)

// Entry is one launchable profile of an application.
type Entry struct {
	Name string
	// Description is empty when the default description applies.
	Description string
	// Launch is the shell-splittable command line, opaque to everything but the spawner.
	Launch string
}

// App is one configured application together with the entries discovered for it.
type App struct {
	// ID is the base name of the configuration document without its extension.
	ID string
	// Path is the configuration document the app was decoded from.
	Path string
	// Dirs are the profile directories after home expansion, in declaration order.
	Dirs    []string
	Record  *record.Record
	Entries []Entry
}

// Catalog is the ordered list of configured applications.
//
// A Catalog is never mutated after Load returns it.
type Catalog []*App

// Lookup returns the first app whose shorthand equals the given one, ignoring case.
func (c Catalog) Lookup(shorthand string) (*App, bool) {
	for _, app := range c {
		if strings.EqualFold(app.Record.Shorthand, shorthand) {
			return app, true
		}
	}

	return nil, false
}

// Dirs returns every resolved profile directory of the catalog, in catalog order.
func (c Catalog) Dirs() []string {
	var dirs []string
	for _, app := range c {
		dirs = append(dirs, app.Dirs...)
	}

	return dirs
}
