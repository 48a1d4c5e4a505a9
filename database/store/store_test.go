package store

import (
	"cndash/utils/sets"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAlliance struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (a testAlliance) StoreKey() string { return a.ID }

func TestStorePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alliances.json")

	s, err := New[testAlliance](path)
	require.NoError(t, err)
	require.True(t, s.IsEmpty())

	s.Put(testAlliance{ID: "1", Name: "PersistentAlliance"})
	require.NoError(t, s.WriteSnapshot())

	reloaded, err := New[testAlliance](path)
	require.NoError(t, err)

	a, err := reloaded.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "PersistentAlliance", a.Name)
	assert.False(t, reloaded.UpdatedAt().IsZero())
}

func TestStoreReplaceDropsMissing(t *testing.T) {
	s, err := New[testAlliance](filepath.Join(t.TempDir(), "a.json"))
	require.NoError(t, err)

	s.Put(testAlliance{ID: "1"})
	s.Put(testAlliance{ID: "2"})
	s.Replace([]testAlliance{{ID: "2", Name: "kept"}, {ID: "3"}})

	assert.False(t, s.HasKey("1"))
	assert.Equal(t, 2, s.Count())

	got, err := s.Get("2")
	require.NoError(t, err)
	assert.Equal(t, "kept", got.Name)
}

func TestStoreValuesOrdered(t *testing.T) {
	s, err := New[testAlliance](filepath.Join(t.TempDir(), "a.json"))
	require.NoError(t, err)

	for _, id := range []string{"c", "a", "b"} {
		s.Put(testAlliance{ID: id})
	}

	ids := []string{}
	for _, v := range s.Values() {
		ids = append(ids, v.ID)
	}

	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestStoreQueries(t *testing.T) {
	s, err := New[testAlliance](filepath.Join(t.TempDir(), "a.json"))
	require.NoError(t, err)

	s.Put(testAlliance{ID: "1", Name: "Alpha"})
	s.Put(testAlliance{ID: "2", Name: "Beta"})
	s.Put(testAlliance{ID: "3", Name: "Alpine"})

	found, err := s.Find(func(a testAlliance) bool { return a.Name == "Beta" })
	require.NoError(t, err)
	assert.Equal(t, "2", found.ID)

	_, err = s.Find(func(a testAlliance) bool { return a.Name == "Gamma" })
	assert.Error(t, err)

	all := s.FindAll(func(a testAlliance) bool { return strings.HasPrefix(a.Name, "Al") })
	assert.Len(t, all, 2)

	many := s.GetFromSet(sets.FromSlice([]string{"3", "1", "missing"}))
	require.Len(t, many, 2)
	assert.Equal(t, "1", many[0].ID)
	assert.Equal(t, "3", many[1].ID)

	s.Delete("1")
	_, err = s.Get("1")
	assert.Error(t, err)
}

func TestStoreMissingFileIsEmpty(t *testing.T) {
	s, err := New[testAlliance](filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.True(t, s.IsEmpty())
	assert.True(t, s.UpdatedAt().IsZero())
}
