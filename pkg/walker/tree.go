// File: pkg/walker/tree.go
package walker

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Box-drawing pieces of the rendered tree.
const (
	treeBranch     = "├── "
	treeLastBranch = "└── "
	treeConnection = "│   "
	treeSpacing    = "    "

	// CollapsedMarker is the single child line shown under a collapsed directory.
	CollapsedMarker = "…"
)

// BuildTree renders root and its non-skipped descendants. The first line is
// the root's base name with a trailing slash. Directories in collapsed get
// one CollapsedMarker child instead of their contents; collapsing affects
// rendering only.
func (w *Walker) BuildTree(root string, collapsed PathSet) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}

	lines := []string{filepath.Base(absRoot) + "/"}
	visited := map[string]struct{}{}
	w.markVisited(absRoot, visited)
	lines = w.generateTreeRecursively(absRoot, "", collapsed, visited, lines)

	w.logger.Debug("Rendered tree", zap.String("root", absRoot), zap.Int("lines", len(lines)))
	return strings.Join(lines, "\n"), nil
}

// generateTreeRecursively appends the subtree of directory to lines.
// Unreadable directories render as empty.
func (w *Walker) generateTreeRecursively(directory, prefix string, collapsed PathSet, visited map[string]struct{}, lines []string) []string {
	entries, err := w.ListEntries(directory)
	if err != nil {
		w.logger.Warn("Failed to read directory for tree structure", zap.String("directory", directory), zap.Error(err))
		return lines
	}

	for i, entry := range entries {
		connector := treeBranch
		extension := treeConnection
		if i == len(entries)-1 {
			connector = treeLastBranch
			extension = treeSpacing
		}

		lines = append(lines, prefix+connector+entry.Name)
		if !entry.IsDir {
			continue
		}
		if collapsed.Has(entry.Path) {
			lines = append(lines, prefix+extension+CollapsedMarker)
			continue
		}
		if !w.markVisited(entry.Path, visited) {
			w.logger.Debug("Skipping symlink loop in tree", zap.String("directory", entry.Path))
			continue
		}
		lines = w.generateTreeRecursively(entry.Path, prefix+extension, collapsed, visited, lines)
	}
	return lines
}

// markVisited records the resolved location of dir and reports whether it
// was new. Without symlink following every directory is new.
func (w *Walker) markVisited(dir string, visited map[string]struct{}) bool {
	if !w.cfg.FollowSymlinks {
		return true
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		resolved = dir
	}
	if _, seen := visited[resolved]; seen {
		return false
	}
	visited[resolved] = struct{}{}
	return true
}
