package layout

// DragState is the per-node interaction state.
type DragState int

const (
	// StateFree means the node moves under simulation forces only.
	StateFree DragState = iota
	// StateDragging means a pointer is actively moving the node.
	StateDragging
	// StatePinned means the node is frozen at user-chosen coordinates.
	StatePinned
)

type intentKind int

const (
	intentPin intentKind = iota
	intentMove
	intentRelease
	intentUnpin
)

type intent struct {
	kind intentKind
	id   string
	x, y float64
}

// Controller translates pointer events into pin state changes on the running
// simulation. Handlers never touch engine state directly: they stage intents
// which the session applies at the top of the next tick, keeping the engine
// single-writer per step. Pins are per-node and independent.
//
// A node released from a drag stays pinned so the user's manual arrangement
// survives subsequent ticks and data refreshes. Unpin is an explicit command.
type Controller struct {
	states map[string]DragState
	staged []intent
}

// NewController creates a controller with every node implicitly Free.
func NewController() *Controller {
	return &Controller{states: make(map[string]DragState)}
}

// State returns the interaction state for a node id.
func (c *Controller) State(id string) DragState {
	return c.states[id]
}

// DragStart captures the node at the pointer position and begins a drag.
// Starting a drag on an already-pinned node re-enters Dragging.
func (c *Controller) DragStart(id string, x, y float64) {
	if c.states[id] == StateDragging {
		return
	}
	c.states[id] = StateDragging
	c.staged = append(c.staged, intent{kind: intentPin, id: id, x: x, y: y})
}

// DragMove tracks the pointer. Ignored unless the node is mid-drag.
func (c *Controller) DragMove(id string, x, y float64) {
	if c.states[id] != StateDragging {
		return
	}
	c.staged = append(c.staged, intent{kind: intentMove, id: id, x: x, y: y})
}

// DragEnd freezes the node at the release point. The node remains pinned.
func (c *Controller) DragEnd(id string) {
	if c.states[id] != StateDragging {
		return
	}
	c.states[id] = StatePinned
	c.staged = append(c.staged, intent{kind: intentRelease, id: id})
}

// Unpin releases a pinned node back to force-driven movement.
func (c *Controller) Unpin(id string) {
	if c.states[id] == StateFree {
		return
	}
	c.states[id] = StateFree
	c.staged = append(c.staged, intent{kind: intentUnpin, id: id})
}

// prune drops interaction state for node ids absent from the live set. Called
// on snapshot replacement; it is the only path out of Pinned besides Unpin.
func (c *Controller) prune(live map[string]bool) {
	for id := range c.states {
		if !live[id] {
			delete(c.states, id)
		}
	}
	kept := c.staged[:0]
	for _, in := range c.staged {
		if live[in.id] {
			kept = append(kept, in)
		}
	}
	c.staged = kept
}

// apply drains staged intents into the engine and writes every transition
// through to the position cache. Intents for ids the engine no longer knows
// are dropped silently: pointer events race with snapshot changes that remove
// a node mid-drag. Reports whether the simulation should be reheated.
func (c *Controller) apply(engine *Engine, cache *PositionCache) bool {
	if len(c.staged) == 0 {
		return false
	}
	reheat := false
	for _, in := range c.staged {
		node := engine.node(in.id)
		if node == nil {
			delete(c.states, in.id)
			continue
		}
		switch in.kind {
		case intentPin, intentMove:
			node.Pinned = true
			node.FX, node.FY = in.x, in.y
			node.X, node.Y = in.x, in.y
			node.VX, node.VY = 0, 0
			reheat = true
		case intentRelease:
			// Freeze exactly where the last move left it.
			node.Pinned = true
			node.X, node.Y = node.FX, node.FY
			node.VX, node.VY = 0, 0
		case intentUnpin:
			node.Pinned = false
			reheat = true
		}
		cache.Put(node.ID, CachedPosition{
			X: node.X, Y: node.Y,
			Pinned: node.Pinned,
			FX:     node.FX, FY: node.FY,
		})
	}
	c.staged = c.staged[:0]
	return reheat
}
