// Package query matches launcher queries against a catalog.
//
// A query is a shorthand optionally followed by whitespace and a profile fragment, e.g. "ff work".
package query

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/leodido/appprofiles/catalog"
)

// Kind tells what a result stands for, and therefore what activating it does.
type Kind int

const (
	// KindProfile is a catalog entry; activating it spawns its launch line.
	KindProfile Kind = iota
	// KindUnknownProfile is the header preceding the full entry list of a recognized app.
	KindUnknownProfile
	// KindUnknownShorthand is the header preceding the list of known shorthands.
	KindUnknownShorthand
	// KindShorthand suggests one known shorthand; activating it completes the query.
	KindShorthand
	// KindError reports that nothing can be offered at all.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindProfile:
		return "profile"
	case KindUnknownProfile:
		return "unknown-profile"
	case KindUnknownShorthand:
		return "unknown-shorthand"
	case KindShorthand:
		return "shorthand"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is one row offered to the launcher.
type Result struct {
	Kind        Kind
	Name        string
	Description string
	Icon        string
	// Launch is the command line of KindProfile results and the shorthand of KindShorthand results.
	Launch string
}

// Fixed rows of the fallback result sets.
var (
	UnknownProfile = Result{
		Kind:        KindUnknownProfile,
		Name:        "Unknown profile - try one of the following",
		Description: "...or add a profile of that name.",
		Icon:        "dialog-error",
	}
	UnknownShorthand = Result{
		Kind:        KindUnknownShorthand,
		Name:        "Unknown shorthand - try one of the following",
		Description: "...or add/edit a document in the config folder",
		Icon:        "system-help-symbolic",
	}
)

// EmptyCatalogMessage is the description of the error row returned when the catalog has no apps.
const EmptyCatalogMessage = "no profiles"

// ErrorResult builds the row reporting an error to the launcher.
func ErrorResult(description string) Result {
	return Result{
		Kind:        KindError,
		Name:        "Error",
		Description: description,
	}
}

// Parse lower-cases the query and splits it at the first whitespace run into the shorthand and the profile fragment.
func Parse(raw string) (shorthand, fragment string) {
	normalized := strings.TrimSpace(strings.ToLower(raw))
	i := strings.IndexFunc(normalized, unicode.IsSpace)
	if i < 0 {
		return normalized, ""
	}

	return normalized[:i], strings.TrimSpace(normalized[i:])
}

// Search returns the results for the raw query, in catalog order.
//
// It never fails: when nothing matches it returns one of the fallback result sets.
func Search(cat catalog.Catalog, raw string) []Result {
	shorthand, fragment := Parse(raw)

	app, ok := cat.Lookup(shorthand)
	if !ok {
		return unknownShorthand(cat)
	}

	var results []Result
	for _, entry := range app.Entries {
		if strings.Contains(strings.ToLower(entry.Name), fragment) {
			results = append(results, profile(app, entry))
		}
	}
	if len(results) > 0 {
		return results
	}

	results = make([]Result, 0, len(app.Entries)+1)
	results = append(results, UnknownProfile)
	for _, entry := range app.Entries {
		results = append(results, profile(app, entry))
	}

	return results
}

func unknownShorthand(cat catalog.Catalog) []Result {
	if len(cat) == 0 {
		return []Result{ErrorResult(EmptyCatalogMessage)}
	}

	results := make([]Result, 0, len(cat)+1)
	results = append(results, UnknownShorthand)
	for _, app := range cat {
		results = append(results, Result{
			Kind:        KindShorthand,
			Name:        app.Record.Shorthand,
			Description: fmt.Sprintf("Try the shorthand for %s!", app.ID),
			Icon:        app.Record.Icon,
			Launch:      app.Record.Shorthand,
		})
	}

	return results
}

func profile(app *catalog.App, entry catalog.Entry) Result {
	return Result{
		Kind:        KindProfile,
		Name:        entry.Name,
		Description: Description(entry),
		Icon:        app.Record.Icon,
		Launch:      entry.Launch,
	}
}

// Description returns the entry description, or the default one when it is blank.
func Description(entry catalog.Entry) string {
	if strings.TrimSpace(entry.Description) == "" {
		return fmt.Sprintf("open %s in new window", entry.Name)
	}

	return entry.Description
}
