package layout

import (
	"log/slog"
	"math"
	"math/rand"
)

// engineLink stores endpoint ids only. Endpoints are resolved through the
// node index every tick, never held as cached pointers, because the node set
// shifts between snapshots.
type engineLink struct {
	sourceID string
	targetID string
	weight   float64
}

// Engine is one iterative force simulation run. It owns its simulation state
// exclusively; the only state shared across runs is the PositionCache it
// writes through to. Not safe for concurrent use.
type Engine struct {
	cfg   Config
	cache *PositionCache

	nodes []*Node
	byID  map[string]int
	links []engineLink

	alpha   float64
	ticks   int
	dropped int
	healed  int

	rng *rand.Rand
}

// NewEngine builds a simulation from a snapshot. Nodes already present in the
// cache are seeded at their cached coordinates; new nodes are jittered around
// the canvas center so they never stack at a single point. Links referencing
// missing node ids are dropped and counted, not fatal.
func NewEngine(cfg Config, snapshot *Snapshot, cache *PositionCache) *Engine {
	cfg.normalize()
	e := &Engine{
		cfg:   cfg,
		cache: cache,
		byID:  make(map[string]int, len(snapshot.Nodes)),
		alpha: cfg.AlphaInitial,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
	}

	classes := Classify(snapshot)
	cx, cy := cfg.Width/2, cfg.Height/2

	for _, sn := range snapshot.Nodes {
		if _, dup := e.byID[sn.ID]; dup {
			continue
		}
		class := classes[sn.ID]
		node := &Node{
			ID:             sn.ID,
			DisplayName:    sn.DisplayName,
			Classification: class,
			Radius:         RadiusFor(class),
		}
		if cached, ok := cache.Get(sn.ID); ok {
			node.X, node.Y = cached.X, cached.Y
			node.Pinned = cached.Pinned
			node.FX, node.FY = cached.FX, cached.FY
		} else {
			node.X = cx + (e.rng.Float64()*2-1)*cfg.SeedJitter
			node.Y = cy + (e.rng.Float64()*2-1)*cfg.SeedJitter
			cache.Put(sn.ID, CachedPosition{X: node.X, Y: node.Y})
		}
		e.byID[sn.ID] = len(e.nodes)
		e.nodes = append(e.nodes, node)
	}

	for _, sl := range snapshot.Links {
		_, srcOK := e.byID[sl.SourceID]
		_, dstOK := e.byID[sl.TargetID]
		if !srcOK || !dstOK {
			e.dropped++
			slog.Warn("dropping link with unknown endpoint",
				"source", sl.SourceID, "target", sl.TargetID)
			continue
		}
		e.links = append(e.links, engineLink{
			sourceID: sl.SourceID,
			targetID: sl.TargetID,
			weight:   clamp01(math.Abs(sl.Weight)),
		})
	}

	return e
}

// Alpha returns the remaining simulation energy.
func (e *Engine) Alpha() float64 { return e.alpha }

// SetAlpha overrides the energy level. Used when a session carries energy over
// from a previous run with identical snapshot shape.
func (e *Engine) SetAlpha(alpha float64) { e.alpha = alpha }

// Reheat raises the energy to at least alpha without touching positions.
func (e *Engine) Reheat(alpha float64) {
	if alpha > e.alpha {
		e.alpha = alpha
	}
}

// Converged reports whether energy has decayed below the floor.
func (e *Engine) Converged() bool { return e.alpha < e.cfg.AlphaMin }

// Ticks returns the number of completed steps.
func (e *Engine) Ticks() int { return e.ticks }

// DroppedLinks returns how many snapshot links were discarded for referencing
// missing node ids.
func (e *Engine) DroppedLinks() int { return e.dropped }

// HealedNodes returns how many non-finite positions were reset since load.
func (e *Engine) HealedNodes() int { return e.healed }

// SetCanvas retargets the centering force. Positions are not reseeded.
func (e *Engine) SetCanvas(width, height float64) {
	if width > 0 {
		e.cfg.Width = width
	}
	if height > 0 {
		e.cfg.Height = height
	}
}

// node returns the working node for id, or nil.
func (e *Engine) node(id string) *Node {
	idx, ok := e.byID[id]
	if !ok {
		return nil
	}
	return e.nodes[idx]
}

// Tick advances the simulation one step and reports whether it is still hot.
// Force accumulation for all nodes completes before any position is
// committed, so the step is logically atomic. Every node's resulting position
// is written through to the position cache.
func (e *Engine) Tick() bool {
	if len(e.nodes) == 0 || e.alpha < e.cfg.AlphaMin {
		return false
	}

	n := len(e.nodes)
	fx := make([]float64, n)
	fy := make([]float64, n)

	// Repulsion between every pair, inverse to squared distance.
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := e.nodes[j].X - e.nodes[i].X
			dy := e.nodes[j].Y - e.nodes[i].Y
			d2 := dx*dx + dy*dy
			if d2 < 1e-6 {
				dx, dy = e.jiggle(), e.jiggle()
				d2 = dx*dx + dy*dy
			}
			d := math.Sqrt(d2)
			f := e.cfg.Repulsion * e.alpha / d2
			ux, uy := dx/d, dy/d
			fx[i] -= ux * f
			fy[i] -= uy * f
			fx[j] += ux * f
			fy[j] += uy * f
		}
	}

	// Link attraction: heavier links pull harder toward a shorter rest length.
	for _, link := range e.links {
		i := e.byID[link.sourceID]
		j := e.byID[link.targetID]
		src, dst := e.nodes[i], e.nodes[j]

		dx := dst.X - src.X
		dy := dst.Y - src.Y
		d := math.Hypot(dx, dy)
		if d < 1e-6 {
			dx, dy = e.jiggle(), e.jiggle()
			d = math.Hypot(dx, dy)
		}
		rest := e.cfg.LinkDistance * (1 - 0.5*link.weight)
		k := e.cfg.LinkStiffness * link.weight * e.alpha
		f := (d - rest) * k
		ux, uy := dx/d, dy/d
		fx[i] += ux * f
		fy[i] += uy * f
		fx[j] -= ux * f
		fy[j] -= uy * f
	}

	// Weak centering keeps unlinked nodes from drifting off-canvas.
	cx, cy := e.cfg.Width/2, e.cfg.Height/2
	for i, node := range e.nodes {
		if node.Pinned {
			continue
		}
		fx[i] += (cx - node.X) * e.cfg.CenterStrength * e.alpha
		fy[i] += (cy - node.Y) * e.cfg.CenterStrength * e.alpha
	}

	// Integrate. Pinned nodes are infinite-mass: they snap to their fixed
	// coordinates and carry no velocity.
	damping := 1 - e.cfg.VelocityDecay
	for i, node := range e.nodes {
		if node.Pinned {
			node.X, node.Y = node.FX, node.FY
			node.VX, node.VY = 0, 0
			continue
		}
		node.VX = (node.VX + fx[i]) * damping
		node.VY = (node.VY + fy[i]) * damping
		node.X += node.VX
		node.Y += node.VY
	}

	e.resolveCollisions()
	e.healNonFinite()

	for _, node := range e.nodes {
		e.cache.Put(node.ID, CachedPosition{
			X: node.X, Y: node.Y,
			Pinned: node.Pinned,
			FX:     node.FX, FY: node.FY,
		})
	}

	e.alpha *= 1 - e.cfg.AlphaDecay
	e.ticks++
	return e.alpha >= e.cfg.AlphaMin
}

// resolveCollisions pushes overlapping circles apart by positional
// correction. Penetration may persist a step; it is pushed out over
// subsequent steps rather than forbidden outright. Pinned nodes never move,
// the other party absorbs the full correction.
func (e *Engine) resolveCollisions() {
	const softness = 0.7

	n := len(e.nodes)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := e.nodes[i], e.nodes[j]
			if a.Pinned && b.Pinned {
				continue
			}
			minDist := a.Radius + b.Radius + e.cfg.CollisionMargin
			dx := b.X - a.X
			dy := b.Y - a.Y
			d := math.Hypot(dx, dy)
			if d >= minDist {
				continue
			}
			if d < 1e-6 {
				dx, dy = e.jiggle(), e.jiggle()
				d = math.Hypot(dx, dy)
			}
			overlap := (minDist - d) * softness
			ux, uy := dx/d, dy/d
			switch {
			case a.Pinned:
				b.X += ux * overlap
				b.Y += uy * overlap
			case b.Pinned:
				a.X -= ux * overlap
				a.Y -= uy * overlap
			default:
				a.X -= ux * overlap / 2
				a.Y -= uy * overlap / 2
				b.X += ux * overlap / 2
				b.Y += uy * overlap / 2
			}
		}
	}
}

// healNonFinite resets any node whose position or velocity blew up to the
// canvas center with zero velocity. Recoverable, reported as a warning only.
func (e *Engine) healNonFinite() {
	cx, cy := e.cfg.Width/2, e.cfg.Height/2
	for _, node := range e.nodes {
		if finite(node.X) && finite(node.Y) && finite(node.VX) && finite(node.VY) {
			continue
		}
		slog.Warn("resetting non-finite node position", "node", node.ID)
		node.X, node.Y = cx, cy
		node.VX, node.VY = 0, 0
		if node.Pinned && (!finite(node.FX) || !finite(node.FY)) {
			node.FX, node.FY = cx, cy
		}
		e.healed++
	}
}

// Frame renders the current simulation state for the sink. Link endpoints are
// resolved by id lookup; a frame never holds node pointers.
func (e *Engine) Frame() *Frame {
	frame := &Frame{
		Nodes:        make([]FrameNode, 0, len(e.nodes)),
		Links:        make([]FrameLink, 0, len(e.links)),
		DroppedLinks: e.dropped,
		Alpha:        e.alpha,
		Converged:    e.Converged(),
	}
	for _, node := range e.nodes {
		frame.Nodes = append(frame.Nodes, FrameNode{
			ID:             node.ID,
			X:              node.X,
			Y:              node.Y,
			Radius:         node.Radius,
			Classification: node.Classification,
		})
	}
	for _, link := range e.links {
		src := e.nodes[e.byID[link.sourceID]]
		dst := e.nodes[e.byID[link.targetID]]
		frame.Links = append(frame.Links, FrameLink{
			SourceID: link.sourceID,
			TargetID: link.targetID,
			X1:       src.X,
			Y1:       src.Y,
			X2:       dst.X,
			Y2:       dst.Y,
		})
	}
	return frame
}

// jiggle breaks exact-overlap ties with a tiny deterministic offset.
func (e *Engine) jiggle() float64 {
	return (e.rng.Float64() - 0.5) * 1e-3
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
