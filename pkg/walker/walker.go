// File: pkg/walker/walker.go
package walker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"projectdump/pkg/config"
	"projectdump/pkg/ignore"

	"go.uber.org/zap"
)

// Entry is one directory child as seen during a listing. Nothing is cached
// between traversals.
type Entry struct {
	Path      string
	Name      string
	IsDir     bool
	IsSymlink bool
}

// Hidden reports whether the entry name marks it as hidden.
func (e Entry) Hidden() bool { return isHiddenName(e.Name) }

// Walker applies the hidden, name-pattern, .gitignore and symlink rules of
// one Config to a tree. It is not safe for concurrent use with a rebuild of
// its ignore spec.
type Walker struct {
	cfg         config.Config
	spec        *ignore.Spec
	ignoreDirs  *NamePatterns
	ignoreFiles *NamePatterns
	logger      *zap.Logger
}

// New returns a walker for cfg. spec may be nil, in which case no
// .gitignore rules apply.
func New(cfg config.Config, spec *ignore.Spec, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{
		cfg:         cfg.Clone(),
		spec:        spec,
		ignoreDirs:  CompileNamePatterns(cfg.IgnoreDirs, logger),
		ignoreFiles: CompileNamePatterns(cfg.IgnoreFiles, logger),
		logger:      logger,
	}
}

// Config returns the walker's settings.
func (w *Walker) Config() config.Config { return w.cfg.Clone() }

// SkipDir reports whether a directory is excluded from listings and from
// recursive enumeration.
func (w *Walker) SkipDir(path string) bool {
	name := filepath.Base(path)
	if w.cfg.IgnoreHidden && isHiddenName(name) {
		return true
	}
	if w.ignoreDirs.Match(name) {
		return true
	}
	return w.spec != nil && w.spec.Ignored(path)
}

// SkipFile reports whether a file is excluded.
func (w *Walker) SkipFile(path string) bool {
	name := filepath.Base(path)
	if w.cfg.IgnoreHidden && isHiddenName(name) {
		return true
	}
	if w.ignoreFiles.Match(name) {
		return true
	}
	return w.spec != nil && w.spec.Ignored(path)
}

// ListEntries returns the non-skipped immediate children of dir, directories
// first when DirsFirstInTree is set, then by lower-cased name.
func (w *Walker) ListEntries(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory '%s': %w", dir, err)
	}

	var out []Entry
	for _, de := range dirEntries {
		e, ok := w.inspect(dir, de)
		if !ok {
			continue
		}
		if e.IsDir {
			if w.SkipDir(e.Path) {
				w.logger.Debug("Skipping directory", zap.String("directory", e.Path))
				continue
			}
		} else if w.SkipFile(e.Path) {
			w.logger.Debug("Skipping file", zap.String("filePath", e.Path))
			continue
		}
		out = append(out, e)
	}

	w.sortEntries(out)
	return out, nil
}

// inspect resolves the kind of one child. Symlinks are dropped unless
// FollowSymlinks is set; a followed link takes the kind of its target.
func (w *Walker) inspect(dir string, de os.DirEntry) (Entry, bool) {
	e := Entry{
		Path:      filepath.Join(dir, de.Name()),
		Name:      de.Name(),
		IsDir:     de.IsDir(),
		IsSymlink: de.Type()&os.ModeSymlink != 0,
	}
	if !e.IsSymlink {
		return e, true
	}
	if !w.cfg.FollowSymlinks {
		w.logger.Debug("Skipping symlink", zap.String("path", e.Path))
		return e, false
	}
	info, err := os.Stat(e.Path)
	if err != nil {
		w.logger.Warn("Skipping dangling symlink", zap.String("path", e.Path), zap.Error(err))
		return e, false
	}
	e.IsDir = info.IsDir()
	return e, true
}

func (w *Walker) sortEntries(entries []Entry) {
	rank := func(e Entry) int {
		if w.cfg.DirsFirstInTree && e.IsDir {
			return 0
		}
		return 1
	}
	sort.SliceStable(entries, func(i, j int) bool {
		ri, rj := rank(entries[i]), rank(entries[j])
		if ri != rj {
			return ri < rj
		}
		li, lj := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
		if li != lj {
			return li < lj
		}
		return entries[i].Name < entries[j].Name
	})
}

func isHiddenName(name string) bool {
	return strings.HasPrefix(name, ".")
}
