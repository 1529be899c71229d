package cache

import (
	"context"
	"testing"
	"time"

	"github.com/0xbe1/liquidated/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	a, err := Key(&upstream.Request{
		Query:     "query($a: Int, $b: Int) { tokens(first: $a, skip: $b) { id } }",
		Variables: map[string]interface{}{"a": 1, "b": 2},
	})
	require.NoError(t, err)
	b, err := Key(&upstream.Request{
		Query:     "query($a: Int, $b: Int) { tokens(first: $a, skip: $b) { id } }",
		Variables: map[string]interface{}{"b": 2, "a": 1},
	})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Key(&upstream.Request{
		Query:     "query($a: Int, $b: Int) { tokens(first: $a, skip: $b) { id } }",
		Variables: map[string]interface{}{"a": 1, "b": 3},
	})
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	d, err := Key(&upstream.Request{
		Query:         "query($a: Int, $b: Int) { tokens(first: $a, skip: $b) { id } }",
		OperationName: "Tokens",
		Variables:     map[string]interface{}{"a": 1, "b": 2},
	})
	require.NoError(t, err)
	assert.NotEqual(t, a, d)
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2, time.Minute)
	require.NoError(t, m.Set(ctx, "a", []byte("1")))
	require.NoError(t, m.Set(ctx, "b", []byte("2")))
	require.NoError(t, m.Set(ctx, "c", []byte("3")))

	_, ok, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok, "oldest entry is evicted")

	v, ok, err := m.Get(ctx, "c")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("3"), v)
	assert.Equal(t, 2, m.Len())
	require.NoError(t, m.Close())
	assert.Equal(t, 0, m.Len())
}

func TestMemoryExpires(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10, 20*time.Millisecond)
	require.NoError(t, m.Set(ctx, "a", []byte("1")))
	assert.Eventually(t, func() bool {
		_, ok, _ := m.Get(ctx, "a")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestFile(t *testing.T) {
	ctx := context.Background()
	f, err := NewFile(t.TempDir(), time.Minute)
	require.NoError(t, err)
	defer f.Close()

	now := time.Unix(1700000000, 0)
	f.now = func() time.Time { return now }

	require.NoError(t, f.Set(ctx, "k", []byte(`{"data":{}}`)))
	v, ok, err := f.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"data":{}}`, string(v))

	now = now.Add(2 * time.Minute)
	_, ok, err = f.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = f.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f, err := NewFile(dir, time.Hour)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, "k", []byte("v")))
	require.NoError(t, f.Close())

	f, err = NewFile(dir, time.Hour)
	require.NoError(t, err)
	defer f.Close()
	v, ok, err := f.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(v))
}

func TestNew(t *testing.T) {
	s, err := New(Options{Type: TypeNone})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = New(Options{Type: TypeMemory, TTL: time.Second})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = New(Options{Type: TypeRedis, TTL: time.Second, Redis: RedisOptions{Addr: "127.0.0.1:0"}})
	require.NoError(t, err)
	assert.IsType(t, &Redis{}, s)
	require.NoError(t, s.Close())

	_, err = New(Options{Type: TypeMemory})
	assert.Error(t, err)

	_, err = New(Options{Type: "memcached", TTL: time.Second})
	assert.Error(t, err)

	_, err = New(Options{Type: TypeFile, TTL: time.Second})
	assert.Error(t, err)
}
