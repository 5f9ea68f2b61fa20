// Package enumerate implements the file enumerator external interface
// (spec.md §6): it walks a base path and yields absolute file paths,
// honoring gitignore-style inclusion/exclusion patterns.
package enumerate

import (
	"os"
	"path/filepath"
	"sort"

	ignore "github.com/sabhiram/go-gitignore"

	"clonecraft/internal/logging"
)

// Enumerator implements astmodel.FileEnumerator.
type Enumerator struct {
	log *logging.Logger
}

// New builds an Enumerator. A nil logger is replaced with a no-op one.
func New(log *logging.Logger) *Enumerator {
	if log == nil {
		log = logging.NewNop()
	}
	return &Enumerator{log: log.For(logging.CategoryConfig)}
}

// Enumerate walks basePath and returns every regular file's absolute path
// not matched by excludes, restricted to includes when non-empty. Patterns
// use gitignore syntax (spec.md §6: "honoring inclusion/exclusion globs").
func (e *Enumerator) Enumerate(basePath string, includes, excludes []string) ([]string, error) {
	excludeMatcher, err := ignore.CompileIgnoreLines(excludes...)
	if err != nil {
		return nil, err
	}
	var includeMatcher *ignore.GitIgnore
	if len(includes) > 0 {
		includeMatcher, err = ignore.CompileIgnoreLines(includes...)
		if err != nil {
			return nil, err
		}
	}

	var paths []string
	walkErr := filepath.Walk(basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(basePath, path)
		if relErr != nil {
			rel = path
		}
		if excludeMatcher.MatchesPath(rel) {
			return nil
		}
		if includeMatcher != nil && !includeMatcher.MatchesPath(rel) {
			return nil
		}
		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			abs = path
		}
		paths = append(paths, abs)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Strings(paths)
	e.log.Debug("enumerated files")
	return paths, nil
}
