package enumerate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clonecraft/internal/enumerate"
)

func writeFile(t *testing.T, dir, rel string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestEnumerate_ExcludesMatchingPatterns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/Widget.java")
	writeFile(t, dir, "build/Widget.class")

	e := enumerate.New(nil)
	paths, err := e.Enumerate(dir, nil, []string{"build/**"})
	require.NoError(t, err)

	require.Len(t, paths, 1)
	assert.Contains(t, paths[0], "Widget.java")
}

func TestEnumerate_IncludesRestrictToPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/Widget.java")
	writeFile(t, dir, "src/readme.md")

	e := enumerate.New(nil)
	paths, err := e.Enumerate(dir, []string{"*.java", "**/*.java"}, nil)
	require.NoError(t, err)

	require.Len(t, paths, 1)
	assert.Contains(t, paths[0], "Widget.java")
}

func TestEnumerate_ReturnsSortedPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/b.java")
	writeFile(t, dir, "src/a.java")

	e := enumerate.New(nil)
	paths, err := e.Enumerate(dir, nil, nil)
	require.NoError(t, err)

	require.Len(t, paths, 2)
	assert.Contains(t, paths[0], "a.java")
	assert.Contains(t, paths[1], "b.java")
}
