package astmodel

import "strings"

// DefaultIsTestFile is the default "test file" predicate (spec.md Open
// Questions): a "Test", "Tests" or "TestCase" file-name suffix (ignoring a
// .java/.kt extension), or a "test" or "tests" path segment. Hosts that
// need a different rule (build tags, a naming convention the suffix rule
// misses) implement CompilationUnit.IsTestFile themselves instead of
// calling this.
func DefaultIsTestFile(filePath string) bool {
	base := filePath
	if idx := strings.LastIndexAny(base, `/\`); idx >= 0 {
		base = base[idx+1:]
	}
	name := strings.TrimSuffix(strings.TrimSuffix(base, ".java"), ".kt")
	if strings.HasSuffix(name, "Test") || strings.HasSuffix(name, "Tests") || strings.HasSuffix(name, "TestCase") {
		return true
	}
	normalized := strings.ReplaceAll(filePath, `\`, "/")
	segments := strings.Split(normalized, "/")
	for _, seg := range segments {
		if seg == "test" || seg == "tests" {
			return true
		}
	}
	return false
}
