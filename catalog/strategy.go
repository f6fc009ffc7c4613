package catalog

import (
	"path/filepath"
	"regexp"
	"strings"

	appprofileserrors "github.com/leodido/appprofiles/errors"
	internaltitlecase "github.com/leodido/appprofiles/internal/titlecase"
	"github.com/leodido/appprofiles/record"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Strategy is how the profiles of one profile directory are discovered.
//
// It is either ContentScan or DirectoryScan.
type Strategy interface {
	scan(s *scanner, dir string) ([]Entry, error)
}

// ContentScan extracts every match of the profile regex from the contents of Target, a file inside the profile directory.
type ContentScan struct {
	Target string
}

// DirectoryScan matches the profile regex against the names in the profile directory, non recursively.
type DirectoryScan struct{}

// StrategyFor selects the scan strategy declared by the given record.
func StrategyFor(rec *record.Record) Strategy {
	if rec.ContentScan() {
		return ContentScan{Target: rec.ProfileFilename}
	}

	return DirectoryScan{}
}

// scanner carries what the strategies share while scanning the profile directories of one document.
type scanner struct {
	fs     afero.Fs
	logger *zap.Logger
	path   string
	rec    *record.Record
}

func (c ContentScan) scan(s *scanner, dir string) ([]Entry, error) {
	target := filepath.Join(dir, c.Target)
	s.logger.Debug("scanning profile file", zap.String("file", target))

	data, err := afero.ReadFile(s.fs, target)
	if err != nil {
		return nil, appprofileserrors.NewIOError("read profile file", target, err)
	}
	text := string(data)

	var entries []Entry
	for _, m := range s.rec.ProfileRegex.FindAllStringSubmatchIndex(text, -1) {
		raw, err := captured(s.path, s.rec.ProfileRegex, text, m)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Name:   internaltitlecase.Title(raw),
			Launch: s.rec.CommandLine() + " '" + raw + "'",
		})
		s.logger.Debug("matched profile", zap.String("file", target), zap.String("profile", raw))
	}

	return entries, nil
}

func (DirectoryScan) scan(s *scanner, dir string) ([]Entry, error) {
	s.logger.Debug("scanning profile dir", zap.String("dir", dir))

	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, appprofileserrors.NewIOError("read profile dir", dir, err)
	}

	var entries []Entry
	for _, info := range infos {
		name := info.Name()
		m := s.rec.ProfileRegex.FindStringSubmatchIndex(name)
		if m == nil {
			continue
		}
		raw, err := captured(s.path, s.rec.ProfileRegex, name, m)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Name:   internaltitlecase.Title(raw),
			Launch: s.rec.CommandLine() + " " + strings.TrimSuffix(dir, "/") + "/" + name[m[0]:m[1]],
		})
		s.logger.Debug("matched profile", zap.String("dir", dir), zap.String("name", name), zap.String("profile", raw))
	}

	return entries, nil
}

// captured returns the text of capture group 1 for the match m over text, or fails when group 1 did not participate.
func captured(path string, re *regexp.Regexp, text string, m []int) (string, error) {
	if len(m) < 4 || m[2] < 0 {
		return "", appprofileserrors.NewMissingCaptureGroupError(path, re.String(), text[m[0]:m[1]])
	}

	return text[m[2]:m[3]], nil
}
