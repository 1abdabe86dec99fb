// File: pkg/ignore/ignore.go
package ignore

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"go.uber.org/zap"
)

// FileName is the name of the per-directory ignore files collected by Build.
const FileName = ".gitignore"

// Matcher is the pattern-matching backend. Paths are root-relative, use
// forward slashes and carry a trailing slash for directories.
type Matcher interface {
	MatchesPath(path string) bool
}

// Compiler turns normalized pattern lines into a Matcher. A nil Compiler
// leaves the spec without a backend, and Ignored always reports false.
type Compiler func(lines []string) Matcher

// DefaultCompiler compiles gitwildmatch lines with go-git's gitignore
// matcher. Lines are already root-relative, so every pattern shares the
// root as its domain.
func DefaultCompiler(lines []string) Matcher {
	patterns := make([]gitignore.Pattern, 0, len(lines))
	for _, line := range lines {
		patterns = append(patterns, gitignore.ParsePattern(bangClassToCaret(line), nil))
	}
	return wildMatcher{m: gitignore.NewMatcher(patterns)}
}

// wildMatcher adapts a segment-based gitignore.Matcher to slash paths.
type wildMatcher struct {
	m gitignore.Matcher
}

func (w wildMatcher) MatchesPath(path string) bool {
	isDir := strings.HasSuffix(path, "/")
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return false
	}
	return w.m.Match(strings.Split(trimmed, "/"), isDir)
}

// bangClassToCaret rewrites the wildmatch class negation "[!...]" into the
// "[^...]" form understood by filepath.Match. Escaped brackets are kept.
func bangClassToCaret(pattern string) string {
	if !strings.Contains(pattern, "[!") {
		return pattern
	}
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == '\\' && i+1 < len(pattern) {
			b.WriteByte(c)
			b.WriteByte(pattern[i+1])
			i++
			continue
		}
		if c == '[' && i+1 < len(pattern) && pattern[i+1] == '!' {
			b.WriteString("[^")
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Snapshot maps every discovered ignore file to its modification time.
type Snapshot map[string]time.Time

// Equal reports whether both snapshots list the same files with the same times.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s) != len(other) {
		return false
	}
	for path, mt := range s {
		ot, ok := other[path]
		if !ok || !ot.Equal(mt) {
			return false
		}
	}
	return true
}

// Spec is the compiled set of .gitignore rules under one root. It is owned
// by a single scan session and must not be rebuilt while a scan reads it.
type Spec struct {
	root     string
	matcher  Matcher
	snapshot Snapshot
	patterns []string
	compile  Compiler
	logger   *zap.Logger
}

// New returns an empty spec that compiles patterns with DefaultCompiler.
func New(logger *zap.Logger) *Spec {
	return NewWithCompiler(DefaultCompiler, logger)
}

// NewWithCompiler returns an empty spec using the given backend.
func NewWithCompiler(compile Compiler, logger *zap.Logger) *Spec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Spec{
		snapshot: Snapshot{},
		compile:  compile,
		logger:   logger,
	}
}

// Root returns the root the spec was last built for.
func (s *Spec) Root() string { return s.root }

// Active reports whether a matcher is in place.
func (s *Spec) Active() bool { return s.matcher != nil }

// Patterns returns the normalized pattern lines behind the current matcher.
func (s *Spec) Patterns() []string { return append([]string(nil), s.patterns...) }

// Snapshot returns a copy of the modification-time snapshot.
func (s *Spec) Snapshot() Snapshot {
	out := make(Snapshot, len(s.snapshot))
	for k, v := range s.snapshot {
		out[k] = v
	}
	return out
}

// Build collects the ignore files under root and recompiles the matcher if
// the root changed or any ignore file was added, removed or modified since
// the previous build. It reports whether a recompile happened.
func (s *Spec) Build(root string) (bool, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false, err
	}

	files, err := collectIgnoreFiles(absRoot, s.logger)
	if err != nil {
		return false, err
	}

	current := make(Snapshot, len(files))
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			s.logger.Warn("Failed to stat ignore file", zap.String("filePath", f), zap.Error(err))
			continue
		}
		current[f] = info.ModTime()
	}

	if absRoot == s.root && current.Equal(s.snapshot) {
		s.logger.Debug("Ignore files unchanged, keeping compiled matcher",
			zap.String("root", absRoot), zap.Int("ignoreFiles", len(current)))
		return false, nil
	}

	var lines []string
	for _, f := range files {
		if _, ok := current[f]; !ok {
			continue
		}
		lines = append(lines, s.readPatterns(absRoot, f)...)
	}

	s.root = absRoot
	s.snapshot = current
	s.patterns = lines
	s.matcher = nil
	if len(lines) > 0 && s.compile != nil {
		s.matcher = s.compile(lines)
	}

	s.logger.Debug("Compiled ignore patterns",
		zap.String("root", absRoot),
		zap.Int("ignoreFiles", len(current)),
		zap.Int("patternCount", len(lines)))
	return true, nil
}

// Ignored reports whether path is excluded by the compiled rules. Paths
// outside the root are never ignored.
func (s *Spec) Ignored(path string) bool {
	if s.matcher == nil || s.root == "" {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(s.root, absPath)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return false
	}
	if info, err := os.Stat(absPath); err == nil && info.IsDir() && !strings.HasSuffix(rel, "/") {
		rel += "/"
	}
	return s.matcher.MatchesPath(rel)
}

// readPatterns parses one ignore file into root-relative pattern lines.
func (s *Spec) readPatterns(root, file string) []string {
	content, err := os.ReadFile(file)
	if err != nil {
		s.logger.Warn("Failed to read ignore file", zap.String("filePath", file), zap.Error(err))
		return nil
	}

	base := ""
	if dir := filepath.Dir(file); dir != root {
		if rel, err := filepath.Rel(root, dir); err == nil {
			base = filepath.ToSlash(rel)
		}
	}

	text := strings.ToValidUTF8(string(content), "")
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		if p, ok := parsePatternLine(raw, base); ok {
			out = append(out, p)
		}
	}
	return out
}

// parsePatternLine anchors one raw line to the directory of its ignore file.
// Rooted patterns keep a leading slash so the backend anchors them at the
// root; an unrooted pattern gets the directory prefix and, when that prefix
// is non-empty, is anchored there as well.
func parsePatternLine(raw, base string) (string, bool) {
	line := strings.TrimSpace(raw)

	// Ignore empty lines and comments.
	if line == "" || strings.HasPrefix(line, "#") {
		return "", false
	}

	negate := strings.HasPrefix(line, "!")
	if negate {
		line = line[1:]
	}

	rooted := strings.HasPrefix(line, "/")
	line = strings.TrimLeft(line, "/")
	if base != "" {
		line = base + "/" + line
	}
	line = normalizePattern(line)
	if line == "" {
		return "", false
	}
	if rooted {
		line = "/" + line
	}
	if negate {
		line = "!" + line
	}
	return line, true
}

// normalizePattern drops "." segments and keeps a trailing slash.
func normalizePattern(p string) string {
	trailing := strings.HasSuffix(p, "/")
	var segs []string
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." {
			continue
		}
		segs = append(segs, seg)
	}
	out := strings.Join(segs, "/")
	if trailing && out != "" {
		out += "/"
	}
	return out
}

// collectIgnoreFiles finds every ignore file under root, parents before
// children so that deeper rules are evaluated last and win.
func collectIgnoreFiles(root string, logger *zap.Logger) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Error accessing path while collecting ignore files", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && d.Name() == FileName && d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(files, func(i, j int) bool {
		di := strings.Count(files[i], string(os.PathSeparator))
		dj := strings.Count(files[j], string(os.PathSeparator))
		if di != dj {
			return di < dj
		}
		return files[i] < files[j]
	})
	return files, nil
}
