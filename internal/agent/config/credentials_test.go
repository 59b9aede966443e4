package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultPath_ReturnsPathInHomeDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	p, err := DefaultPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".shopctl", "credentials.json"), p)
}

func TestLoad_FileNotExists_ReturnsEmptyCredentials(t *testing.T) {
	creds, err := Load(filepath.Join(t.TempDir(), "no-such-file.json"))
	require.NoError(t, err)
	require.NotNil(t, creds)
	require.False(t, creds.LoggedIn())
}

func TestLoad_BadJSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(p, []byte("{not-json"), 0o600))

	_, err := Load(p)
	require.Error(t, err)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a", "credentials.json") // вложенная директория

	want := &Credentials{AccessToken: "access-1", RefreshToken: "refresh-1", Email: "ivan@example.com"}
	require.NoError(t, Save(p, want))

	got, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.True(t, got.LoggedIn())

	if runtime.GOOS != "windows" {
		st, err := os.Stat(p)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), st.Mode().Perm())
	}
}

func TestClear(t *testing.T) {
	p := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, Save(p, &Credentials{AccessToken: "a"}))

	require.NoError(t, Clear(p))
	_, err := os.Stat(p)
	require.ErrorIs(t, err, os.ErrNotExist)

	// повторно — не ошибка
	require.NoError(t, Clear(p))
}
