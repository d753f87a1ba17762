package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/starchart/internal/state"
)

func newTestCache(t *testing.T, ttlDays int) *TagCache {
	t.Helper()
	m, err := state.OpenPath(state.MemoryPath)
	if err != nil {
		t.Fatalf("failed to open state: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return NewTagCache(m.DB(), ttlDays)
}

func TestTagCache_Tags(t *testing.T) {
	c := newTestCache(t, 7)

	tags, ok, err := c.GetTags("Radiohead")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, tags)

	require.NoError(t, c.SetTags("Radiohead", []string{"alternative", "rock", "electronic"}))

	tags, ok, err = c.GetTags("  radiohead ")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"alternative", "rock", "electronic"}, tags)
}

func TestTagCache_TagsReplace(t *testing.T) {
	c := newTestCache(t, 7)

	require.NoError(t, c.SetTags("Björk", []string{"electronic", "experimental", "icelandic"}))
	require.NoError(t, c.SetTags("Björk", []string{"art pop"}))

	tags, ok, err := c.GetTags("Björk")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"art pop"}, tags)
}

func TestTagCache_UntaggedIsHit(t *testing.T) {
	c := newTestCache(t, 7)

	require.NoError(t, c.SetTags("Nobody", nil))

	tags, ok, err := c.GetTags("Nobody")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, tags)
}

func TestTagCache_Expired(t *testing.T) {
	c := newTestCache(t, 7)
	c.now = func() time.Time { return time.Now().AddDate(0, 0, -10) }

	require.NoError(t, c.SetTags("Old", []string{"rock"}))
	require.NoError(t, c.SetListeners("Old", 1000))

	c.now = time.Now
	_, ok, err := c.GetTags("Old")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.GetListeners("Old")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTagCache_Listeners(t *testing.T) {
	c := newTestCache(t, 7)

	_, ok, err := c.GetListeners("Muse")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetListeners("Muse", 4_000_000))
	require.NoError(t, c.SetListeners("muse", 4_100_000))

	n, ok, err := c.GetListeners("MUSE")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(4_100_000), n)
}

func TestTagCache_CleanExpired(t *testing.T) {
	c := newTestCache(t, 7)

	c.now = func() time.Time { return time.Now().AddDate(0, 0, -30) }
	require.NoError(t, c.SetTags("Old", []string{"rock", "indie"}))
	require.NoError(t, c.SetListeners("Old", 10))

	c.now = time.Now
	require.NoError(t, c.SetTags("New", []string{"jazz"}))

	n, err := c.CleanExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, ok, err := c.GetTags("New")
	require.NoError(t, err)
	assert.True(t, ok)
}
