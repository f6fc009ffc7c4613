package query

import (
	"regexp"
	"testing"

	"github.com/leodido/appprofiles/catalog"
	"github.com/leodido/appprofiles/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func app(id, shorthand, icon string, entries ...catalog.Entry) *catalog.App {
	return &catalog.App{
		ID: id,
		Record: &record.Record{
			Shorthand:    shorthand,
			Cmd:          id,
			ProfileRegex: regexp.MustCompile(`(.*)`),
			Icon:         icon,
		},
		Entries: entries,
	}
}

func testCatalog() catalog.Catalog {
	return catalog.Catalog{
		app("firefox", "ff", "firefox",
			catalog.Entry{Name: "Work", Launch: "firefox -P 'work'"},
			catalog.Entry{Name: "Default Release", Launch: "firefox -P 'default-release'"},
			catalog.Entry{Name: "Private", Description: "optional", Launch: "firefox --private-window"},
		),
		app("code", "Code", "",
			catalog.Entry{Name: "Perles", Launch: "code  /work/perles.code-workspace"},
		),
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		raw       string
		shorthand string
		fragment  string
	}{
		{"ff", "ff", ""},
		{"FF Work", "ff", "work"},
		{"  ff   default release  ", "ff", "default release"},
		{"ff\twork", "ff", "work"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			shorthand, fragment := Parse(tt.raw)
			assert.Equal(t, tt.shorthand, shorthand)
			assert.Equal(t, tt.fragment, fragment)
		})
	}
}

func TestSearch_MatchingProfiles(t *testing.T) {
	results := Search(testCatalog(), "FF wor")

	require.Len(t, results, 1)
	assert.Equal(t, Result{
		Kind:        KindProfile,
		Name:        "Work",
		Description: "open Work in new window",
		Icon:        "firefox",
		Launch:      "firefox -P 'work'",
	}, results[0])
}

func TestSearch_EmptyFragmentListsAllInOrder(t *testing.T) {
	results := Search(testCatalog(), "ff")

	require.Len(t, results, 3)
	assert.Equal(t, "Work", results[0].Name)
	assert.Equal(t, "Default Release", results[1].Name)
	assert.Equal(t, "Private", results[2].Name)
	assert.Equal(t, "optional", results[2].Description)
}

func TestSearch_SubstringAcrossWords(t *testing.T) {
	results := Search(testCatalog(), "ff t rel")

	require.Len(t, results, 1)
	assert.Equal(t, "Default Release", results[0].Name)
}

func TestSearch_ShorthandIsCaseInsensitive(t *testing.T) {
	results := Search(testCatalog(), "code")

	require.Len(t, results, 1)
	assert.Equal(t, "Perles", results[0].Name)
	assert.Empty(t, results[0].Icon)
}

func TestSearch_UnknownProfile(t *testing.T) {
	results := Search(testCatalog(), "ff nope")

	require.Len(t, results, 4)
	assert.Equal(t, UnknownProfile, results[0])
	assert.Equal(t, "Work", results[1].Name)
	assert.Equal(t, "Default Release", results[2].Name)
	assert.Equal(t, "Private", results[3].Name)
	for _, r := range results[1:] {
		assert.Equal(t, KindProfile, r.Kind)
	}
}

func TestSearch_UnknownProfileOnAppWithoutEntries(t *testing.T) {
	results := Search(catalog.Catalog{app("empty", "e", "")}, "e x")

	assert.Equal(t, []Result{UnknownProfile}, results)
}

func TestSearch_UnknownShorthand(t *testing.T) {
	results := Search(testCatalog(), "zz work")

	require.Len(t, results, 3)
	assert.Equal(t, UnknownShorthand, results[0])
	assert.Equal(t, Result{
		Kind:        KindShorthand,
		Name:        "ff",
		Description: "Try the shorthand for firefox!",
		Icon:        "firefox",
		Launch:      "ff",
	}, results[1])
	assert.Equal(t, "Code", results[2].Name)
	assert.Equal(t, "Try the shorthand for code!", results[2].Description)
}

func TestSearch_EmptyQueryIsAnUnknownShorthand(t *testing.T) {
	results := Search(testCatalog(), "   ")

	assert.Equal(t, UnknownShorthand, results[0])
}

func TestSearch_EmptyCatalog(t *testing.T) {
	results := Search(catalog.Catalog{}, "ff")

	assert.Equal(t, []Result{ErrorResult(EmptyCatalogMessage)}, results)
	assert.Equal(t, KindError, results[0].Kind)
}

func TestSearch_FirstDuplicateShorthandWins(t *testing.T) {
	cat := catalog.Catalog{
		app("firefox", "ff", "", catalog.Entry{Name: "A", Launch: "a"}),
		app("floorp", "FF", "", catalog.Entry{Name: "B", Launch: "b"}),
	}

	results := Search(cat, "ff")

	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Launch)
}

func TestDescription(t *testing.T) {
	assert.Equal(t, "open Work in new window", Description(catalog.Entry{Name: "Work"}))
	assert.Equal(t, "open Work in new window", Description(catalog.Entry{Name: "Work", Description: "  "}))
	assert.Equal(t, "custom", Description(catalog.Entry{Name: "Work", Description: "custom"}))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "profile", KindProfile.String())
	assert.Equal(t, "unknown-profile", KindUnknownProfile.String())
	assert.Equal(t, "unknown-shorthand", KindUnknownShorthand.String())
	assert.Equal(t, "shorthand", KindShorthand.String())
	assert.Equal(t, "error", KindError.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

// genCatalog draws a catalog whose shorthands are distinct and whose entry names are distinct lower-case words of equal length.
func genCatalog(t *rapid.T, minApps int) catalog.Catalog {
	shorthands := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{2,4}`), minApps, 5, rapid.ID[string]).Draw(t, "shorthands")
	cat := catalog.Catalog{}
	for i, sh := range shorthands {
		names := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{6}`), 0, 6, rapid.ID[string]).Draw(t, "names")
		var entries []catalog.Entry
		for _, n := range names {
			entries = append(entries, catalog.Entry{Name: n, Launch: "cmd-" + sh + " " + n})
		}
		cat = append(cat, app("app"+string(rune('a'+i)), sh, "", entries...))
	}

	return cat
}

func TestSearch_Properties(t *testing.T) {
	t.Run("single profile match yields its launch line", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			cat := genCatalog(t, 1)
			target := cat[rapid.IntRange(0, len(cat)-1).Draw(t, "app")]
			if len(target.Entries) == 0 {
				return
			}
			entry := target.Entries[rapid.IntRange(0, len(target.Entries)-1).Draw(t, "entry")]

			results := Search(cat, target.Record.Shorthand+" "+entry.Name)

			if len(results) != 1 || results[0].Launch != entry.Launch {
				t.Fatalf("expected only %q, got %+v", entry.Launch, results)
			}
		})
	})

	t.Run("unknown shorthand lists every app after the header", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			cat := genCatalog(t, 1)
			unknown := rapid.StringMatching(`[0-9]{1,3}`).Draw(t, "unknown")

			results := Search(cat, unknown+" whatever")

			if len(results) != 1+len(cat) {
				t.Fatalf("expected %d results, got %d", 1+len(cat), len(results))
			}
			if results[0] != UnknownShorthand {
				t.Fatalf("expected header first, got %+v", results[0])
			}
			for i, a := range cat {
				if results[i+1].Name != a.Record.Shorthand {
					t.Fatalf("expected shorthand %q at %d, got %q", a.Record.Shorthand, i+1, results[i+1].Name)
				}
			}
		})
	})

	t.Run("unmatched fragment lists every entry after the header", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			cat := genCatalog(t, 1)
			target := cat[rapid.IntRange(0, len(cat)-1).Draw(t, "app")]

			results := Search(cat, target.Record.Shorthand+" 0")

			if len(results) != 1+len(target.Entries) {
				t.Fatalf("expected %d results, got %d", 1+len(target.Entries), len(results))
			}
			if results[0] != UnknownProfile {
				t.Fatalf("expected header first, got %+v", results[0])
			}
			for i, e := range target.Entries {
				if results[i+1].Launch != e.Launch {
					t.Fatalf("expected %q at %d, got %q", e.Launch, i+1, results[i+1].Launch)
				}
			}
		})
	})
}
