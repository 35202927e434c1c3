package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestController_StateMachine(t *testing.T) {
	ctrl := NewController()

	assert.Equal(t, StateFree, ctrl.State("A"))

	ctrl.DragStart("A", 10, 20)
	assert.Equal(t, StateDragging, ctrl.State("A"))

	ctrl.DragMove("A", 15, 25)
	assert.Equal(t, StateDragging, ctrl.State("A"))

	ctrl.DragEnd("A")
	assert.Equal(t, StatePinned, ctrl.State("A"))

	// No event releases a pin except an explicit unpin.
	ctrl.DragMove("A", 99, 99)
	assert.Equal(t, StatePinned, ctrl.State("A"))

	ctrl.Unpin("A")
	assert.Equal(t, StateFree, ctrl.State("A"))
}

func TestController_MoveWithoutDragIgnored(t *testing.T) {
	ctrl := NewController()

	ctrl.DragMove("A", 10, 10)
	ctrl.DragEnd("A")

	assert.Equal(t, StateFree, ctrl.State("A"))
	assert.Empty(t, ctrl.staged)
}

func TestController_RedragPinnedNode(t *testing.T) {
	ctrl := NewController()

	ctrl.DragStart("A", 1, 1)
	ctrl.DragEnd("A")
	assert.Equal(t, StatePinned, ctrl.State("A"))

	ctrl.DragStart("A", 2, 2)
	assert.Equal(t, StateDragging, ctrl.State("A"))
}

func TestController_ApplyPinsNode(t *testing.T) {
	cache := NewPositionCache()
	engine := NewEngine(testConfig(), scenarioSnapshot(), cache)
	ctrl := NewController()

	ctrl.DragStart("A", 100, 150)
	reheat := ctrl.apply(engine, cache)
	assert.True(t, reheat, "pinning should request a reheat")

	node := engine.node("A")
	assert.True(t, node.Pinned)
	assert.Equal(t, 100.0, node.X)
	assert.Equal(t, 150.0, node.Y)

	entry, ok := cache.Get("A")
	assert.True(t, ok)
	assert.True(t, entry.Pinned)
	assert.Equal(t, 100.0, entry.FX)
}

func TestController_ApplyDropsVanishedNodes(t *testing.T) {
	cache := NewPositionCache()
	engine := NewEngine(testConfig(), scenarioSnapshot(), cache)
	ctrl := NewController()

	// Event for a node the snapshot no longer contains: silent no-op.
	ctrl.DragStart("GHOST", 5, 5)
	reheat := ctrl.apply(engine, cache)

	assert.False(t, reheat)
	assert.Equal(t, StateFree, ctrl.State("GHOST"))
	_, ok := cache.Get("GHOST")
	assert.False(t, ok)
}

func TestController_Prune(t *testing.T) {
	ctrl := NewController()
	ctrl.DragStart("A", 0, 0)
	ctrl.DragEnd("A")
	ctrl.DragStart("B", 0, 0)

	ctrl.prune(map[string]bool{"B": true})

	assert.Equal(t, StateFree, ctrl.State("A"))
	assert.Equal(t, StateDragging, ctrl.State("B"))
	for _, in := range ctrl.staged {
		assert.Equal(t, "B", in.id)
	}
}
