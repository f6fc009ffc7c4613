package appprofiles

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/leodido/appprofiles/catalog"
	appprofileserrors "github.com/leodido/appprofiles/errors"
	"github.com/leodido/appprofiles/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *appprofilesSuite) TestSearch_NumbersRowsFromZero() {
	p := s.loadedPlugin()

	require.NoError(s.T(), p.Search(context.Background(), "ff"))

	assert.Equal(s.T(), []string{
		"append 0 Work|open Work in new window|firefox",
		"append 1 Default Release|open Default Release in new window|firefox",
		"append 2 Private|optional|firefox",
		"finished",
	}, s.sink.lines)
}

func (s *appprofilesSuite) TestSearch_NumbersHeaderRows() {
	p := s.loadedPlugin()

	require.NoError(s.T(), p.Search(context.Background(), "zz"))

	assert.Equal(s.T(), []string{
		"append 0 Unknown shorthand - try one of the following|...or add/edit a document in the config folder|system-help-symbolic",
		"append 1 ff|Try the shorthand for firefox!|firefox",
		"finished",
	}, s.sink.lines)
}

func (s *appprofilesSuite) TestSearch_BeforeAnyReload() {
	p := s.newPlugin()

	require.NoError(s.T(), p.Search(context.Background(), "ff"))

	assert.Equal(s.T(), []string{"append 0 Error|no profiles|", "finished"}, s.sink.lines)
}

func (s *appprofilesSuite) TestSearch_SinkFailure() {
	p := s.loadedPlugin()
	s.sink.err = errors.New("broken pipe")

	err := p.Search(context.Background(), "ff")

	assert.EqualError(s.T(), err, "broken pipe")
	assert.Len(s.T(), s.sink.lines, 1)
}

func (s *appprofilesSuite) TestActivate_LaunchesProfile() {
	p := s.loadedPlugin()
	require.NoError(s.T(), p.Search(context.Background(), "ff def"))
	s.sink.reset()

	act, err := p.activate(0)

	require.NoError(s.T(), err)
	assert.True(s.T(), act.found)
	assert.True(s.T(), act.spawned)
	assert.Equal(s.T(), []string{"firefox -P 'default-release'"}, s.spawner.lines)
	assert.Equal(s.T(), []string{"close"}, s.sink.lines)
}

func (s *appprofilesSuite) TestActivate_StaticEntry() {
	p := s.loadedPlugin()
	require.NoError(s.T(), p.Search(context.Background(), "ff priv"))

	require.NoError(s.T(), p.Activate(context.Background(), 0))

	assert.Equal(s.T(), []string{"firefox --private-window"}, s.spawner.lines)
}

func (s *appprofilesSuite) TestActivate_UnknownIDOnlyCloses() {
	p := s.loadedPlugin()
	require.NoError(s.T(), p.Search(context.Background(), "ff"))
	s.sink.reset()

	act, err := p.activate(42)

	require.NoError(s.T(), err)
	assert.False(s.T(), act.found)
	assert.Empty(s.T(), s.spawner.lines)
	assert.Equal(s.T(), []string{"close"}, s.sink.lines)
}

func (s *appprofilesSuite) TestActivate_BeforeAnySearch() {
	p := s.loadedPlugin()

	require.NoError(s.T(), p.Activate(context.Background(), 0))

	assert.Empty(s.T(), s.spawner.lines)
	assert.Equal(s.T(), []string{"close"}, s.sink.lines)
}

func (s *appprofilesSuite) TestActivate_HeaderRowOnlyCloses() {
	p := s.loadedPlugin()
	require.NoError(s.T(), p.Search(context.Background(), "ff nope"))
	s.sink.reset()

	act, err := p.activate(0)

	require.NoError(s.T(), err)
	assert.True(s.T(), act.found)
	assert.Equal(s.T(), query.KindUnknownProfile, act.result.Kind)
	assert.False(s.T(), act.spawned)
	assert.Empty(s.T(), s.spawner.lines)
	assert.Equal(s.T(), []string{"close"}, s.sink.lines)
}

func (s *appprofilesSuite) TestActivate_FallbackProfileRowLaunches() {
	p := s.loadedPlugin()
	require.NoError(s.T(), p.Search(context.Background(), "ff nope"))

	require.NoError(s.T(), p.Activate(context.Background(), 1))

	assert.Equal(s.T(), []string{"firefox -P 'work'"}, s.spawner.lines)
}

func (s *appprofilesSuite) TestActivate_ShorthandRowFillsTheQuery() {
	p := s.loadedPlugin()
	require.NoError(s.T(), p.Search(context.Background(), "zz"))
	s.sink.reset()

	act, err := p.activate(1)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), "ff ", act.filled)
	assert.Empty(s.T(), s.spawner.lines)
	assert.Equal(s.T(), []string{"fill ff "}, s.sink.lines)
}

func (s *appprofilesSuite) TestActivate_SpawnFailureIsSwallowed() {
	s.spawner.err = appprofileserrors.NewSpawnError("firefox -P 'work'", errors.New("not found"))
	p := s.loadedPlugin()
	require.NoError(s.T(), p.Search(context.Background(), "ff work"))
	s.sink.reset()

	act, err := p.activate(0)

	require.NoError(s.T(), err)
	assert.False(s.T(), act.spawned)
	assert.ErrorIs(s.T(), act.err, appprofileserrors.ErrSpawn)
	assert.Equal(s.T(), []string{"close"}, s.sink.lines)
	assert.Equal(s.T(), 1, s.logs.FilterMessage("couldn't launch").Len())
}

func (s *appprofilesSuite) TestActivate_UsesTheLastSearch() {
	p := s.loadedPlugin()
	require.NoError(s.T(), p.Search(context.Background(), "ff work"))
	require.NoError(s.T(), p.Search(context.Background(), "ff def"))

	require.NoError(s.T(), p.Activate(context.Background(), 0))

	assert.Equal(s.T(), []string{"firefox -P 'default-release'"}, s.spawner.lines)
}

func (s *appprofilesSuite) TestComplete_Closes() {
	p := s.loadedPlugin()

	require.NoError(s.T(), p.Complete(context.Background(), 3))

	assert.Equal(s.T(), []string{"close"}, s.sink.lines)
}

func (s *appprofilesSuite) TestReload_MissingConfigDir() {
	require.NoError(s.T(), s.fs.RemoveAll(filepath.Join(testRoot, catalog.ConfigDirName)))
	p := s.loadedPlugin()

	require.NoError(s.T(), p.Search(context.Background(), "ff"))

	assert.Empty(s.T(), p.Catalog())
	assert.NoError(s.T(), p.LastError())
	assert.Equal(s.T(), []string{"append 0 Error|no profiles|", "finished"}, s.sink.lines)
}

func (s *appprofilesSuite) TestReload_FailureKeepsPreviousCatalog() {
	p := s.loadedPlugin()
	s.writeFile(filepath.Join(testRoot, catalog.ConfigDirName, "zz.yaml"), "shorthand: [\n")

	err := p.Reload(context.Background())

	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, appprofileserrors.ErrMalformed)
	assert.Equal(s.T(), err, p.LastError())
	require.Len(s.T(), p.Catalog(), 1)

	require.NoError(s.T(), p.Search(context.Background(), "ff work"))
	assert.Equal(s.T(), "append 0 Work|open Work in new window|firefox", s.sink.lines[0])
}

func (s *appprofilesSuite) TestReload_FailureWithEmptyPolicy() {
	p := s.loadedPlugin(WithReloadPolicy(ReloadEmpty))
	s.writeFile(filepath.Join(testRoot, catalog.ConfigDirName, "zz.yaml"), "shorthand: [\n")

	err := p.Reload(context.Background())
	require.Error(s.T(), err)
	require.NoError(s.T(), p.Search(context.Background(), "ff"))

	assert.Empty(s.T(), p.Catalog())
	assert.Equal(s.T(), []string{"append 0 Error|no profiles: " + err.Error() + "|", "finished"}, s.sink.lines)
}

func (s *appprofilesSuite) TestReload_SuccessClearsTheLastError() {
	p := s.loadedPlugin()
	bad := filepath.Join(testRoot, catalog.ConfigDirName, "zz.yaml")
	s.writeFile(bad, "shorthand: [\n")
	require.Error(s.T(), p.Reload(context.Background()))

	require.NoError(s.T(), s.fs.Remove(bad))
	require.NoError(s.T(), p.Reload(context.Background()))

	assert.NoError(s.T(), p.LastError())
}

func (s *appprofilesSuite) TestReload_Hook() {
	var seen []catalog.Catalog
	p := s.loadedPlugin(WithReloadHook(func(cat catalog.Catalog) {
		seen = append(seen, cat)
	}))

	require.Len(s.T(), seen, 1)
	assert.Equal(s.T(), p.Catalog(), seen[0])
}

func (s *appprofilesSuite) TestStaleCatalogReloadsOnSearch() {
	p := s.loadedPlugin()
	s.writeFile(filepath.Join(testRoot, catalog.ConfigDirName, "vscode.toml"), codeDoc)
	s.writeFile("/work/perles.code-workspace", "{}")

	require.NoError(s.T(), p.Search(context.Background(), "code"))
	assert.Equal(s.T(), "append 0 Unknown shorthand - try one of the following|...or add/edit a document in the config folder|system-help-symbolic", s.sink.lines[0])
	s.sink.reset()

	p.MarkStale()
	require.NoError(s.T(), p.Search(context.Background(), "code"))

	assert.Equal(s.T(), []string{"append 0 Perles|open Perles in new window|", "finished"}, s.sink.lines)
	require.NoError(s.T(), p.Activate(context.Background(), 0))
	assert.Equal(s.T(), []string{"code  /work/perles.code-workspace"}, s.spawner.lines)
}

func (s *appprofilesSuite) TestDuplicatePolicy() {
	s.writeFile(filepath.Join(testRoot, catalog.ConfigDirName, "zz-floorp.yaml"), firefoxDoc)

	err := s.newPlugin().Reload(context.Background())
	assert.ErrorIs(s.T(), err, appprofileserrors.ErrDuplicateShorthand)

	p := s.newPlugin(WithDuplicatePolicy(DuplicatesFirst))
	require.NoError(s.T(), p.Reload(context.Background()))
	assert.Len(s.T(), p.Catalog(), 2)
}

func (s *appprofilesSuite) TestSettingsOptions() {
	settings := &Settings{OnReloadError: ReloadEmpty, Duplicates: DuplicatesFirst}
	p := s.newPlugin(settings.Options()...)

	assert.Equal(s.T(), ReloadEmpty, p.policy)
	assert.Equal(s.T(), DuplicatesFirst, p.dups)
}

func (s *appprofilesSuite) TestWatchPaths() {
	p := s.loadedPlugin()

	assert.Equal(s.T(), []string{
		filepath.Join(testRoot, catalog.ConfigDirName),
		filepath.Join(testHome, ".mozilla/firefox"),
	}, p.WatchPaths())
}

func (s *appprofilesSuite) TestSessionLogger() {
	p := s.loadedPlugin()

	require.NotEmpty(s.T(), p.Session())
	reloaded := s.logs.FilterMessage("reloaded").All()
	require.Len(s.T(), reloaded, 1)
	assert.Equal(s.T(), p.Session(), reloaded[0].ContextMap()["session"])
	assert.NotEqual(s.T(), p.Session(), s.newPlugin().Session())
}
