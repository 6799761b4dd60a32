package challenge

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_StartsEmpty(t *testing.T) {
	store := NewStore()
	assert.Empty(t, store.Get())
}

func TestStore_LastWriteWins(t *testing.T) {
	store := NewStore()

	store.Set("tok-1")
	assert.Equal(t, "tok-1", store.Get())

	store.Set("tok-2")
	assert.Equal(t, "tok-2", store.Get())

	store.Clear()
	assert.Empty(t, store.Get())

	// A token set after a clear is valid again.
	store.Set("tok-3")
	assert.Equal(t, "tok-3", store.Get())
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	store := NewStore()
	store.Clear()
	store.Clear()
	assert.Empty(t, store.Get())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Set("tok")
		}()
		go func() {
			defer wg.Done()
			_ = store.Get()
		}()
	}
	wg.Wait()
	assert.Equal(t, "tok", store.Get())
}
