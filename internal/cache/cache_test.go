package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newClockedCache(start time.Time) (*Cache, *time.Time) {
	now := start
	c := New(true)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestStoreLookup(t *testing.T) {
	c, _ := newClockedCache(time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC))

	stored := c.Store("teams:2024:39", []byte(`{"a":1}`), time.Minute)
	got, ok := c.Lookup("teams:2024:39")
	require.True(t, ok)
	require.Equal(t, stored, got)
	require.JSONEq(t, `{"a":1}`, string(got.Data))

	_, ok = c.Lookup("teams:2023:39")
	require.False(t, ok)
	require.Equal(t, Stats{Enabled: true, Entries: 1, Active: 1, Hits: 1, Misses: 1}, c.Stats())
}

func TestExpiryAndPurge(t *testing.T) {
	c, now := newClockedCache(time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC))
	c.Store("short", []byte("x"), time.Minute)
	c.Store("long", []byte("y"), time.Hour)

	*now = now.Add(2 * time.Minute)
	_, ok := c.Lookup("short")
	require.False(t, ok)
	require.Equal(t, 1, c.Stats().Expired)

	require.Equal(t, 1, c.Purge())
	_, ok = c.Lookup("long")
	require.True(t, ok)
	require.Equal(t, 1, c.Stats().Entries)
}

func TestFlush(t *testing.T) {
	c := New(true)
	c.Store("a", []byte("1"), time.Minute)
	c.Store("b", []byte("2"), time.Minute)

	require.Equal(t, 2, c.Flush())
	_, ok := c.Lookup("a")
	require.False(t, ok)
	require.Zero(t, c.Stats().Entries)
}

func TestDisabledCache(t *testing.T) {
	c := New(false)
	e := c.Store("k", []byte("x"), time.Minute)
	require.Equal(t, ETag([]byte("x")), e.ETag)
	_, ok := c.Lookup("k")
	require.False(t, ok)
	require.Zero(t, c.Stats().Entries)
}

func TestETag(t *testing.T) {
	etag := ETag([]byte("payload"))
	require.Len(t, etag, 26)
	require.NotEqual(t, etag, ETag([]byte("payload2")))
	require.Equal(t, etag, ETag([]byte("payload")))
}

func TestMatches(t *testing.T) {
	etag := ETag([]byte("payload"))
	require.True(t, Matches(etag, etag))
	require.True(t, Matches("*", etag))
	require.True(t, Matches(`"other", `+etag, etag))
	require.True(t, Matches("W/"+etag, etag))
	require.False(t, Matches("", etag))
	require.False(t, Matches(`"other"`, etag))
}
