package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "prefs.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	s := openTemp(t)
	s.Set("currency", "EUR")

	var got string
	require.True(t, s.Get("currency", &got))
	require.Equal(t, "EUR", got)
}

func TestGet_MissingKeyKeepsDefault(t *testing.T) {
	t.Parallel()

	s := openTemp(t)
	got := "USD"
	require.False(t, s.Get("currency", &got))
	require.Equal(t, "USD", got)
}

func TestSet_Overwrites(t *testing.T) {
	t.Parallel()

	s := openTemp(t)
	s.Set("theme", "dark")
	s.Set("theme", "oled")

	var got string
	require.True(t, s.Get("theme", &got))
	require.Equal(t, "oled", got)
}

func TestRemove(t *testing.T) {
	t.Parallel()

	s := openTemp(t)
	s.Set("search", "bit")
	s.Remove("search")

	var got string
	require.False(t, s.Get("search", &got))
}

func TestStructuredValues(t *testing.T) {
	t.Parallel()

	type sortPref struct {
		Field     string `json:"field"`
		Direction string `json:"direction"`
	}

	s := openTemp(t)
	s.Set("sort", sortPref{Field: "price", Direction: "desc"})

	var got sortPref
	require.True(t, s.Get("sort", &got))
	require.Equal(t, sortPref{Field: "price", Direction: "desc"}, got)
}

func TestNilStoreNoOps(t *testing.T) {
	t.Parallel()

	var s *Store
	s.Set("k", "v")
	s.Remove("k")
	require.NoError(t, s.Close())

	var got string
	require.False(t, s.Get("k", &got))
}

func TestGet_CorruptValueKeepsDefault(t *testing.T) {
	t.Parallel()

	s := openTemp(t)
	_, err := s.db.Exec(`INSERT INTO preferences (key, value) VALUES (?, ?)`, prefix+"bad", "{not-json")
	require.NoError(t, err)

	got := 7
	require.False(t, s.Get("bad", &got))
	require.Equal(t, 7, got)
}
