package rotaug

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAngleLogAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "angles.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale\t-3\n"), 0644))

	l, err := OpenAngleLog(path)
	require.NoError(t, err)
	require.NoError(t, l.Append("a", 5))
	require.NoError(t, l.Append("b", -10))
	require.NoError(t, l.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "stale\t-3\na\t5\nb\t-10\n", string(raw))

	records, err := ReadAngleLog(path)
	require.NoError(t, err)
	require.Equal(t, []LogRecord{{"stale", -3}, {"a", 5}, {"b", -10}}, records)
}

func TestReadAngleLogMalformed(t *testing.T) {
	dir := t.TempDir()
	noTab := filepath.Join(dir, "notab.txt")
	require.NoError(t, os.WriteFile(noTab, []byte("a 5\n"), 0644))
	_, err := ReadAngleLog(noTab)
	require.ErrorIs(t, err, ErrMalformedLog)

	badAngle := filepath.Join(dir, "badangle.txt")
	require.NoError(t, os.WriteFile(badAngle, []byte("a\tfive\n"), 0644))
	_, err = ReadAngleLog(badAngle)
	require.ErrorIs(t, err, ErrMalformedLog)
}
