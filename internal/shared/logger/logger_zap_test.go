package logger_test

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-shop-api/internal/shared/logger"
)

func TestNew_CreatesLogFileAndWrites(t *testing.T) {
	dir := t.TempDir()

	l := logger.New(logger.Options{Dir: dir, File: "app.log"})
	l.Info("test message")
	_ = l.Sync()

	b, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)

	s := string(b)
	require.Regexp(t, `\btest message\b`, s)

	// формат времени: "HH:MM:SS DD.MM.YYYY"
	timeRe := regexp.MustCompile(`\b\d{2}:\d{2}:\d{2} \d{2}\.\d{2}\.\d{4}\b`)
	require.True(t, timeRe.MatchString(s), "expected custom time format, got: %q", s)
}

func TestHTTPLogger_LogRequest_WritesStructuredFields(t *testing.T) {
	dir := t.TempDir()

	l := logger.New(logger.Options{Dir: dir, File: "http.log", Format: "json"})
	l.LogRequest("POST", "/products", 201, 20, 158.5463)
	_ = l.Sync()

	b, err := os.ReadFile(filepath.Join(dir, "http.log"))
	require.NoError(t, err)
	s := string(b)

	for _, sub := range []string{
		`"msg":"HTTP request"`,
		`"method":"POST"`,
		`"uri":"/products"`,
		`"status":201`,
		`"response_size":20`,
		`"duration_ms"`,
	} {
		require.Contains(t, s, sub)
	}
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	dir := t.TempDir()

	l := logger.New(logger.Options{Dir: dir, File: "lvl.log", Level: "warn"})
	l.Info("hidden info")
	l.Warn("visible warn")
	_ = l.Sync()

	b, err := os.ReadFile(filepath.Join(dir, "lvl.log"))
	require.NoError(t, err)
	require.NotContains(t, string(b), "hidden info")
	require.Contains(t, string(b), "visible warn")
}
