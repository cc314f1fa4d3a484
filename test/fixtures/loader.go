package fixtures

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixturesDir returns the absolute path to the fixtures directory.
func fixturesDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}

// RecipientsPath returns the absolute path of a recipient list fixture.
func RecipientsPath(t *testing.T, filename string) string {
	t.Helper()
	path := filepath.Join(fixturesDir(), "recipients", filename)
	_, err := os.Stat(path)
	require.NoError(t, err, "missing recipient fixture: %s", filename)
	return path
}

// LoadRecipients loads a recipient list fixture as text.
func LoadRecipients(t *testing.T, filename string) string {
	t.Helper()
	data, err := os.ReadFile(RecipientsPath(t, filename))
	require.NoError(t, err, "failed to load recipient fixture: %s", filename)
	return string(data)
}

// ABIPath returns the absolute path of a fixture ABI JSON file.
func ABIPath(t *testing.T, filename string) string {
	t.Helper()
	path := filepath.Join(fixturesDir(), "abis", filename)
	_, err := os.Stat(path)
	require.NoError(t, err, "missing fixture ABI: %s", filename)
	return path
}
