package server

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionRegistryBind(t *testing.T) {
	reg := NewSessionRegistry()

	assert.Empty(t, reg.Bind("admin", "s1"))
	assert.True(t, reg.Current("admin", "s1"))

	t.Run("second login supersedes the first", func(t *testing.T) {
		assert.Equal(t, "s1", reg.Bind("admin", "s2"))
		assert.False(t, reg.Current("admin", "s1"))
		assert.True(t, reg.Current("admin", "s2"))
	})

	t.Run("rebinding the same session is a no-op", func(t *testing.T) {
		assert.Empty(t, reg.Bind("admin", "s2"))
		assert.True(t, reg.Current("admin", "s2"))
	})

	t.Run("logins are independent", func(t *testing.T) {
		assert.Empty(t, reg.Bind("dupont", "s9"))
		assert.True(t, reg.Current("admin", "s2"))
		assert.True(t, reg.Current("dupont", "s9"))
	})
}

func TestSessionRegistryRelease(t *testing.T) {
	reg := NewSessionRegistry()
	reg.Bind("admin", "s1")

	t.Run("stale session cannot release the binding", func(t *testing.T) {
		reg.Bind("admin", "s2")
		reg.Release("admin", "s1")
		assert.True(t, reg.Current("admin", "s2"))
	})

	t.Run("owner releases the binding", func(t *testing.T) {
		reg.Release("admin", "s2")
		assert.False(t, reg.Current("admin", "s2"))
	})

	t.Run("unknown login is harmless", func(t *testing.T) {
		reg.Release("ghost", "s1")
	})
}

func TestSessionRegistryConcurrentBind(t *testing.T) {
	reg := NewSessionRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reg.Bind("admin", fmt.Sprintf("s%d", i))
		}(i)
	}
	wg.Wait()

	// exactly one winner remains bound
	winners := 0
	for i := 0; i < 32; i++ {
		if reg.Current("admin", fmt.Sprintf("s%d", i)) {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}
