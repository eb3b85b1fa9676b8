// Package discovery finds the web sources to validate and detects their
// language from the file extension.
package discovery

import (
	"cmp"
	"io/fs"
	"os"
	pathpkg "path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/wharflab/reval/internal/rules"
)

// extensions maps lowercase file extensions to languages.
var extensions = map[string]rules.Language{
	".css":  rules.LanguageCSS,
	".html": rules.LanguageHTML,
	".htm":  rules.LanguageHTML,
	".js":   rules.LanguageJavaScript,
	".mjs":  rules.LanguageJavaScript,
	".cjs":  rules.LanguageJavaScript,
	".jsx":  rules.LanguageJavaScript,
	".ts":   rules.LanguageTypeScript,
	".mts":  rules.LanguageTypeScript,
	".cts":  rules.LanguageTypeScript,
	".tsx":  rules.LanguageTypeScript,
}

// DetectLanguage returns the language of path from its extension.
func DetectLanguage(path string) (rules.Language, bool) {
	lang, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// DiscoveredFile represents a source discovered during file discovery.
type DiscoveredFile struct {
	// Path is the path to the file.
	// For explicit file inputs, this preserves the original path (relative or absolute).
	// For discovered files (from directories/globs), this is an absolute path.
	Path string

	// ConfigRoot is the directory to use for config file discovery.
	ConfigRoot string

	// Language is detected from the extension, empty when unknown.
	Language rules.Language
}

// Options configures file discovery behavior.
type Options struct {
	// Patterns are the glob patterns to match in directories (default: DefaultPatterns()).
	Patterns []string

	// ExcludePatterns are glob patterns to exclude from results
	// (default: DefaultExcludePatterns()).
	ExcludePatterns []string
}

// DefaultPatterns returns one "*<ext>" pattern per known extension.
func DefaultPatterns() []string {
	patterns := make([]string, 0, len(extensions))
	for ext := range extensions {
		patterns = append(patterns, "*"+ext)
	}
	slices.Sort(patterns)
	return patterns
}

// DefaultExcludePatterns skips dependency and VCS directories.
func DefaultExcludePatterns() []string {
	return []string{"**/node_modules/**", "**/.git/**"}
}

// Discover finds sources matching the given inputs. Each input is a file,
// a directory searched recursively for Options.Patterns, or a doublestar
// glob. An explicit file is kept even when its language is unknown, so the
// caller can report it; directories and globs yield known languages only.
//
// Results are deduplicated by absolute path and sorted by path.
func Discover(inputs []string, opts Options) ([]DiscoveredFile, error) {
	if len(opts.Patterns) == 0 {
		opts.Patterns = DefaultPatterns()
	}
	if opts.ExcludePatterns == nil {
		opts.ExcludePatterns = DefaultExcludePatterns()
	}

	c := &collector{opts: opts, seen: make(map[string]struct{})}
	for _, input := range inputs {
		if err := c.input(input); err != nil {
			return nil, err
		}
	}
	slices.SortFunc(c.files, func(a, b DiscoveredFile) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return c.files, nil
}

// collector accumulates discovered files across inputs.
type collector struct {
	opts  Options
	seen  map[string]struct{}
	files []DiscoveredFile
}

func (c *collector) input(input string) error {
	// os.Stat rejects glob characters on Windows, so globs skip it.
	if strings.ContainsAny(input, "*?[]{") {
		return c.glob(input)
	}
	info, err := os.Stat(input)
	switch {
	case os.IsNotExist(err):
		return c.glob(input)
	case err != nil:
		return err
	case info.IsDir():
		return c.dir(input)
	default:
		return c.add(input, true)
	}
}

func (c *collector) dir(root string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	return filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		if !matchesAny(c.opts.Patterns, filepath.ToSlash(rel)) {
			return nil
		}
		return c.add(path, false)
	})
}

func (c *collector) glob(pattern string) error {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := c.add(m, false); err != nil {
			return err
		}
	}
	return nil
}

// add records path once. Explicit inputs keep the path as given and may
// have an unknown language; discovered ones are stored absolute.
func (c *collector) add(path string, explicit bool) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, dup := c.seen[abs]; dup || isExcluded(abs, c.opts.ExcludePatterns) {
		return nil
	}
	lang, known := DetectLanguage(abs)
	if !known && !explicit {
		return nil
	}
	c.seen[abs] = struct{}{}

	display := abs
	if explicit {
		display = path
	}
	c.files = append(c.files, DiscoveredFile{
		Path:       display,
		ConfigRoot: filepath.Dir(abs),
		Language:   lang,
	})
	return nil
}

// matchesAny reports whether a slash-separated relative path or its base
// name matches one of the patterns.
func matchesAny(patterns []string, rel string) bool {
	base := pathpkg.Base(rel)
	for _, p := range patterns {
		p = filepath.ToSlash(p)
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
	}
	return false
}

// isExcluded matches each pattern against the absolute path and against
// every suffix of it, so "vendor/*" excludes the direct children of any
// vendor directory and "*.min.js" excludes by file name. doublestar wants
// forward slashes on every platform.
func isExcluded(absPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	candidates := pathSuffixes(filepath.ToSlash(absPath))
	for _, p := range patterns {
		p = filepath.ToSlash(p)
		for _, cand := range candidates {
			if ok, _ := doublestar.Match(p, cand); ok {
				return true
			}
		}
	}
	return false
}

// pathSuffixes returns a slash path followed by each of its suffixes with
// leading components dropped: "/a/b/c.js" yields "/a/b/c.js", "a/b/c.js",
// "b/c.js" and "c.js". A Windows volume name is dropped from the suffixes.
func pathSuffixes(p string) []string {
	out := []string{p}
	trimmed := strings.TrimPrefix(p, filepath.ToSlash(filepath.VolumeName(p)))
	trimmed = strings.TrimLeft(trimmed, "/")
	for trimmed != "" {
		out = append(out, trimmed)
		i := strings.IndexByte(trimmed, '/')
		if i < 0 {
			break
		}
		trimmed = trimmed[i+1:]
	}
	return out
}
