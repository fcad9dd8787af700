package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyBuilders(t *testing.T) {
	assert.Equal(t, "properties:list:paginated:available:50",
		ListKey("properties", "paginated", "available", "50"))
	assert.Equal(t, "clients:detail:abc", DetailKey("clients", "abc"))
}

func TestKeyBuilders_SeparatorInValuesCannotCollide(t *testing.T) {
	// "lisbon:center" as one filter value must not produce the same key
	// as "lisbon" and "center" in adjacent positions.
	a := ListKey("properties", "paginated", "lisbon:center", "")
	b := ListKey("properties", "paginated", "lisbon", "center:")
	c := ListKey("properties", "paginated", "lisbon", "center", "")
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, b, c)

	// Escaped keys still live in the entity's list key-space.
	store := New(time.Minute, time.Minute)
	store.SetList(a, "page-a")
	store.InvalidateWrite("properties", "p1")
	_, ok := store.Get(a)
	assert.False(t, ok)
}

func TestGetSetRoundTrip(t *testing.T) {
	store := New(time.Minute, time.Minute)

	key := ListKey("properties", "all")
	_, ok := store.Get(key)
	assert.False(t, ok)

	store.SetList(key, []string{"a", "b"})
	value, ok := store.Get(key)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, value)
}

func TestListEntriesExpire(t *testing.T) {
	store := New(20*time.Millisecond, time.Minute)

	key := ListKey("properties", "all")
	store.SetList(key, "stale soon")

	time.Sleep(50 * time.Millisecond)
	_, ok := store.Get(key)
	assert.False(t, ok)
}

func TestInvalidateWrite_DropsListSpaceAndDetail(t *testing.T) {
	store := New(time.Minute, time.Minute)

	store.SetList(ListKey("properties", "all"), "list-a")
	store.SetList(ListKey("properties", "paginated", "available"), "list-b")
	store.SetDetail(DetailKey("properties", "p1"), "detail-p1")
	store.SetDetail(DetailKey("properties", "p2"), "detail-p2")
	store.SetList(ListKey("clients", "all"), "client-list")

	store.InvalidateWrite("properties", "p1")

	// Every property list key is gone, whatever its filters were.
	_, ok := store.Get(ListKey("properties", "all"))
	assert.False(t, ok)
	_, ok = store.Get(ListKey("properties", "paginated", "available"))
	assert.False(t, ok)

	// Only the written record's detail entry is dropped.
	_, ok = store.Get(DetailKey("properties", "p1"))
	assert.False(t, ok)
	_, ok = store.Get(DetailKey("properties", "p2"))
	assert.True(t, ok)

	// Other entities are untouched.
	_, ok = store.Get(ListKey("clients", "all"))
	assert.True(t, ok)
}

func TestFlush(t *testing.T) {
	store := New(time.Minute, time.Minute)
	store.SetList(ListKey("properties", "all"), "x")
	store.SetDetail(DetailKey("clients", "c1"), "y")

	store.Flush()

	_, ok := store.Get(ListKey("properties", "all"))
	assert.False(t, ok)
	_, ok = store.Get(DetailKey("clients", "c1"))
	assert.False(t, ok)
}
