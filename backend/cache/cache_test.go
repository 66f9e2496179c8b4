package cache

import (
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	c, err := Open(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("Error opening cache: %v", err)
	}

	defer c.Close()

	_, found := c.Get("ipfs://missing")
	assert.False(t, found)

	assert.Nil(t, c.Put("ipfs://abc", []byte(`{"name":"a"}`)))
	data, found := c.Get("ipfs://abc")
	assert.True(t, found)
	assert.Equal(t, `{"name":"a"}`, string(data))

	assert.Nil(t, c.Delete("ipfs://abc"))
	_, found = c.Get("ipfs://abc")
	assert.False(t, found)

	c.RunGC()
}

func TestCacheExpiry(t *testing.T) {
	c, err := Open(t.TempDir(), time.Second)
	if err != nil {
		t.Fatalf("Error opening cache: %v", err)
	}

	defer c.Close()

	assert.Nil(t, c.Put("key", []byte("value")))
	time.Sleep(2 * time.Second)

	_, found := c.Get("key")
	assert.False(t, found)
}

func TestDisabledCache(t *testing.T) {
	c, err := Open("", time.Hour)
	assert.Nil(t, err)
	assert.Nil(t, c)

	assert.Nil(t, c.Put("key", []byte("value")))
	_, found := c.Get("key")
	assert.False(t, found)
	assert.Nil(t, c.Delete("key"))
	assert.Nil(t, c.Close())
	c.RunGC()
}
