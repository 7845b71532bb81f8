package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SameSessionSameStore(t *testing.T) {
	sut := NewRegistry()

	a := sut.Get("session-1")
	b := sut.Get("session-1")

	assert.Same(t, a, b)
}

func TestRegistry_SessionsAreIsolated(t *testing.T) {
	sut := NewRegistry()

	_, err := sut.Get("session-1").AddItem(laptop(), 1)
	require.NoError(t, err)

	other := sut.Get("session-2").Snapshot()
	assert.Empty(t, other.Items)
}

func TestRegistry_DropForgetsCart(t *testing.T) {
	sut := NewRegistry()
	_, err := sut.Get("session-1").AddItem(laptop(), 1)
	require.NoError(t, err)

	sut.Drop("session-1")

	state := sut.Get("session-1").Snapshot()
	assert.Empty(t, state.Items)
}
