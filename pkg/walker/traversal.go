// File: pkg/walker/traversal.go
package walker

import (
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// IterFiles returns every non-skipped file under root. Skipped directories
// are pruned before descending. The result is sorted by the lower-cased,
// root-relative, forward-slash path.
func (w *Walker) IterFiles(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	w.logger.Debug("Starting file traversal", zap.String("root", absRoot))

	visited := map[string]struct{}{}
	w.markVisited(absRoot, visited)

	var files []string
	var walk func(dir string)
	walk = func(dir string) {
		entries, err := w.ListEntries(dir)
		if err != nil {
			w.logger.Warn("Error accessing directory during traversal", zap.String("directory", dir), zap.Error(err))
			return
		}
		for _, e := range entries {
			if !e.IsDir {
				files = append(files, e.Path)
				continue
			}
			if !w.markVisited(e.Path, visited) {
				w.logger.Debug("Skipping symlink loop during traversal", zap.String("directory", e.Path))
				continue
			}
			walk(e.Path)
		}
	}
	walk(absRoot)

	keys := make(map[string]string, len(files))
	for _, f := range files {
		keys[f] = RelPath(absRoot, f)
	}
	sort.SliceStable(files, func(i, j int) bool {
		ki, kj := keys[files[i]], keys[files[j]]
		li, lj := strings.ToLower(ki), strings.ToLower(kj)
		if li != lj {
			return li < lj
		}
		return ki < kj
	})

	w.logger.Debug("Completed file traversal", zap.String("root", absRoot), zap.Int("files", len(files)))
	return files, nil
}

// RelPath returns path relative to root with forward slashes, or path
// itself when no relative form exists.
func RelPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
