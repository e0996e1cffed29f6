package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSeedText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capture.txt")
	require.NoError(t, os.WriteFile(path, []byte("\x1b[1;32mgreen\x1b[0m text\n"), 0o644))

	got, err := ReadSeedText(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "green text\n", got)

	got, err = ReadSeedText("-", strings.NewReader("\x1b[4mpiped\x1b[0m"))
	require.NoError(t, err)
	assert.Equal(t, "piped", got)

	got, err = ReadSeedText("", strings.NewReader("plain"))
	require.NoError(t, err)
	assert.Equal(t, "plain", got)

	_, err = ReadSeedText(filepath.Join(dir, "missing.txt"), nil)
	assert.ErrorContains(t, err, "reading seed text")
}

func TestFileHelpers(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	assert.False(t, FileExists(dir))
	require.NoError(t, EnsureDir(dir))
	assert.True(t, FileExists(dir))

	assert.Equal(t, "unknown", GetAbsolutePath(""))
	assert.Equal(t, dir, GetAbsolutePath(dir))
	assert.True(t, filepath.IsAbs(GetAbsolutePath("config.toml")))
}

func TestTOMLRoundTrip(t *testing.T) {
	type section struct {
		Name  string   `toml:"name"`
		Count int      `toml:"count"`
		On    bool     `toml:"on"`
		Keys  []string `toml:"keys"`
	}
	type doc struct {
		Section section `toml:"section"`
	}

	path := filepath.Join(t.TempDir(), "doc.toml")
	in := doc{Section: section{Name: "x", Count: 3, On: true, Keys: []string{"alt+v", "pgup"}}}
	require.NoError(t, SaveTOMLFile(in, path))

	var out doc
	require.NoError(t, LoadTOMLFile(path, &out))
	assert.Equal(t, in, out)

	data, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)
	sec, ok := ExtractSection(data, "section")
	require.True(t, ok)

	name, ok := ExtractValue[string](sec, "name")
	assert.True(t, ok)
	assert.Equal(t, "x", name)
	count, ok := ExtractInt64(sec, "count")
	assert.True(t, ok)
	assert.Equal(t, 3, count)
	on, ok := ExtractValue[bool](sec, "on")
	assert.True(t, ok)
	assert.True(t, on)
	keys, ok := ExtractStringSlice(sec, "keys")
	assert.True(t, ok)
	assert.Equal(t, []string{"alt+v", "pgup"}, keys)

	_, ok = ExtractInt64(sec, "name")
	assert.False(t, ok)
	_, ok = ExtractSection(data, "missing")
	assert.False(t, ok)
}

func TestParseTOMLWithRecoveryRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[section\nname = "), 0o644))

	var out map[string]any
	assert.Error(t, LoadTOMLFile(path, &out))
	_, err := ParseTOMLWithRecovery(path)
	assert.Error(t, err)
}

func TestGetLogPath(t *testing.T) {
	pr := &PathResolver{executableDir: t.TempDir(), homeDir: t.TempDir()}
	path := pr.GetLogPath("screencomp.log")
	assert.True(t, strings.HasSuffix(path, "screencomp.log"))
	assert.Contains(t, path, "screencomp")

	info := pr.GetRuntimeInfo()
	assert.Equal(t, pr.executableDir, info["executable_dir"])
	assert.NotEmpty(t, info["os"])
}
