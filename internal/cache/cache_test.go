package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/polytran/internal/cachekey"
)

func TestNew_DefaultSize(t *testing.T) {
	assert.Equal(t, DefaultSize, New(0).Size())
	assert.Equal(t, DefaultSize, New(-5).Size())
	assert.Equal(t, 3, New(3).Size())
}

func TestCache_GetPut(t *testing.T) {
	c := New(4)
	key := cachekey.Build("hello", "fr")

	_, ok := c.Get("google.translate", key)
	assert.False(t, ok)

	c.Put("google.translate", key, "bonjour")
	v, ok := c.Get("google.translate", key)
	require.True(t, ok)
	assert.Equal(t, "bonjour", v)

	_, ok = c.Get("google.spellcheck", key)
	assert.False(t, ok, "namespaces are independent")
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2)
	k1, k2, k3 := cachekey.Build("1"), cachekey.Build("2"), cachekey.Build("3")

	c.Put("ns", k1, 1)
	c.Put("ns", k2, 2)
	_, _ = c.Get("ns", k1) // k2 is now the oldest
	c.Put("ns", k3, 3)

	assert.Equal(t, 2, c.Len("ns"))
	_, ok := c.Get("ns", k2)
	assert.False(t, ok)
	_, ok = c.Get("ns", k1)
	assert.True(t, ok)
	_, ok = c.Get("ns", k3)
	assert.True(t, ok)
}

func TestCache_LastWriterWins(t *testing.T) {
	c := New(2)
	key := cachekey.Build("x")
	c.Put("ns", key, "a")
	c.Put("ns", key, "b")

	v, _ := c.Get("ns", key)
	assert.Equal(t, "b", v)
	assert.Equal(t, 1, c.Len("ns"))
}

func TestCache_Clear(t *testing.T) {
	c := New(8)
	c.Put("a", cachekey.Build("1"), 1)
	c.Put("b", cachekey.Build("2"), 2)

	c.Clear()

	assert.Equal(t, 0, c.Len("a"))
	assert.Equal(t, 0, c.Len("b"))
	assert.Equal(t, []string{"a", "b"}, c.Namespaces())
}

func TestCache_Concurrent(t *testing.T) {
	c := New(64)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			ns := fmt.Sprintf("ns%d", w%2)
			for i := 0; i < 500; i++ {
				key := cachekey.Build(i % 100)
				c.Put(ns, key, i)
				c.Get(ns, key)
			}
		}(w)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len("ns0"), 64)
	assert.LessOrEqual(t, c.Len("ns1"), 64)
}
