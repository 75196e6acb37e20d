package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGetOrCreate(t *testing.T) {
	r := NewRegistry()

	first, err := r.getOrCreate("s1", 8)
	require.NoError(t, err)
	second, err := r.getOrCreate("s1", 8)
	require.NoError(t, err)

	assert.Same(t, first, second, "same id must return the same session")
	assert.Equal(t, 1, r.Len())
}

func TestRegistryDeleteIdempotent(t *testing.T) {
	r := NewRegistry()
	_, err := r.getOrCreate("s1", 8)
	require.NoError(t, err)

	assert.True(t, r.Delete("s1"), "first delete reports existence")
	assert.False(t, r.Delete("s1"), "second delete reports absence")
	assert.False(t, r.Delete("never-existed"))
	assert.Equal(t, 0, r.Len())
}

func TestRegistryGetMissing(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Get("missing")
	assert.False(t, ok)
}

func TestRegistryListOrdered(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"charlie", "alpha", "bravo"} {
		_, err := r.getOrCreate(id, 8)
		require.NoError(t, err)
	}

	infos := r.List()
	require.Len(t, infos, 3)
	for i := 1; i < len(infos); i++ {
		prev, cur := infos[i-1], infos[i]
		ordered := prev.CreatedAt.Before(cur.CreatedAt) ||
			(prev.CreatedAt.Equal(cur.CreatedAt) && prev.ID < cur.ID)
		assert.True(t, ordered, "list out of order at %d: %s then %s", i, prev.ID, cur.ID)
	}
}

func TestRegistryClear(t *testing.T) {
	r := NewRegistry()
	_, err := r.getOrCreate("s1", 8)
	require.NoError(t, err)
	_, err = r.getOrCreate("s2", 8)
	require.NoError(t, err)

	r.Clear()
	assert.Equal(t, 0, r.Len())
	_, ok := r.Get("s1")
	assert.False(t, ok)
}

func TestRegistryInvalidDimension(t *testing.T) {
	r := NewRegistry()
	_, err := r.getOrCreate("s1", 0)
	assert.Error(t, err)
	assert.Equal(t, 0, r.Len(), "failed creation must not leave a session behind")
}
