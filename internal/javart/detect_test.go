package javart

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeJavaBinary(t *testing.T, dir, version string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake java binary is a shell script, unix-only")
	}
	path := filepath.Join(dir, "java")
	script := "#!/bin/sh\necho 'openjdk version \"" + version + "\" 2024-01-01' >&2\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestItoa(t *testing.T) {
	assert.Equal(t, "0", itoa(0))
	assert.Equal(t, "17", itoa(17))
	assert.Equal(t, "21", itoa(21))
}

func TestDoesMatch(t *testing.T) {
	assert.True(t, doesMatch("17.0.9", 17))
	assert.True(t, doesMatch("17", 17))
	assert.False(t, doesMatch("11.0.2", 17))
	assert.False(t, doesMatch("170.0.1", 17))
}

func TestCheckJavaMatches(t *testing.T) {
	bin := fakeJavaBinary(t, t.TempDir(), "17.0.9")
	inst, ok := CheckJava(context.Background(), bin, 17)
	require.True(t, ok)
	assert.Equal(t, "17.0.9", inst.Version)
	assert.Equal(t, bin, inst.Path)
}

func TestCheckJavaWrongVersion(t *testing.T) {
	bin := fakeJavaBinary(t, t.TempDir(), "11.0.2")
	_, ok := CheckJava(context.Background(), bin, 17)
	assert.False(t, ok)
}

func TestCheckJavaMissingBinary(t *testing.T) {
	_, ok := CheckJava(context.Background(), filepath.Join(t.TempDir(), "no-such-java"), 17)
	assert.False(t, ok)
}

func TestDetectFindsManagedInstall(t *testing.T) {
	javaRoot := t.TempDir()
	installDir := filepath.Join(javaRoot, "17", "bin")
	require.NoError(t, os.MkdirAll(installDir, 0o755))
	fakeJavaBinary(t, installDir, "17.0.9")

	inst, err := Detect(context.Background(), 17, javaRoot)
	require.NoError(t, err)
	assert.Equal(t, "17.0.9", inst.Version)
}

func TestDetectNoMatchReturnsErrNoJavaFound(t *testing.T) {
	_, err := Detect(context.Background(), 99, t.TempDir())
	assert.ErrorIs(t, err, ErrNoJavaFound)
}
