// Package layout implements the force-directed layout engine behind the
// correlation network view: node classification against the user's holdings,
// an iterative physics simulation with position caching across data refreshes,
// and the drag/pin interaction protocol.
package layout

import (
	"math"
	"time"
)

// Classification describes how a node relates to the anchor set.
type Classification string

const (
	// ClassAnchor marks a node the user currently holds.
	ClassAnchor Classification = "anchor"
	// ClassRelated marks a node linked to at least one anchor.
	ClassRelated Classification = "related"
	// ClassOther marks everything else.
	ClassOther Classification = "other"
)

// Node radii by classification. Design constants, not user input.
const (
	RadiusAnchor  = 30.0
	RadiusRelated = 20.0
	RadiusOther   = 10.0
)

// RadiusFor returns the display radius for a classification.
func RadiusFor(c Classification) float64 {
	switch c {
	case ClassAnchor:
		return RadiusAnchor
	case ClassRelated:
		return RadiusRelated
	default:
		return RadiusOther
	}
}

// SnapshotNode is one security in an adapter snapshot.
type SnapshotNode struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SnapshotLink is a pairwise correlation between two securities.
// Weight is the correlation strength, clamped to [0, 1] by the engine.
type SnapshotLink struct {
	SourceID string  `json:"source_id"`
	TargetID string  `json:"target_id"`
	Weight   float64 `json:"weight"`
}

// Snapshot is one immutable set of nodes, links and anchors supplied by the
// data adapter for a layout session. The engine never mutates it.
type Snapshot struct {
	Nodes     []SnapshotNode `json:"nodes"`
	Links     []SnapshotLink `json:"links"`
	AnchorIDs []string       `json:"anchor_ids"`
}

// Node is the engine's working state for one security.
type Node struct {
	ID             string
	DisplayName    string
	Classification Classification
	Radius         float64

	X, Y   float64
	VX, VY float64

	// Pinned nodes hold their fixed coordinates and are excluded from
	// force-driven updates. Other nodes still feel them.
	Pinned bool
	FX, FY float64
}

// FrameNode is one node's render state for a single tick.
type FrameNode struct {
	ID             string         `json:"id"`
	X              float64        `json:"x"`
	Y              float64        `json:"y"`
	Radius         float64        `json:"radius"`
	Classification Classification `json:"classification"`
}

// FrameLink is one link's endpoint coordinates for a single tick.
type FrameLink struct {
	SourceID string  `json:"source_id"`
	TargetID string  `json:"target_id"`
	X1       float64 `json:"x1"`
	Y1       float64 `json:"y1"`
	X2       float64 `json:"x2"`
	Y2       float64 `json:"y2"`
}

// Frame is the per-tick output consumed by a render sink.
type Frame struct {
	Nodes []FrameNode `json:"nodes"`
	Links []FrameLink `json:"links"`

	// DroppedLinks counts links that referenced missing node ids and were
	// discarded when the current snapshot was loaded.
	DroppedLinks int `json:"dropped_links"`
	// Alpha is the remaining simulation energy.
	Alpha float64 `json:"alpha"`
	// Converged reports whether alpha has decayed below its floor.
	Converged bool `json:"converged"`
}

// FrameSink consumes per-tick frames. The engine calls into it but does not
// own it; implementations must not retain the frame's slices across calls.
type FrameSink interface {
	Publish(frame *Frame)
}

// Config holds the tunable constants of one layout session.
type Config struct {
	// Width and Height are the canvas dimensions.
	Width  float64
	Height float64

	// AlphaInitial is the energy a fresh (or reshaped) simulation starts at.
	AlphaInitial float64
	// AlphaMin is the convergence floor; the simulation stops below it.
	AlphaMin float64
	// AlphaDecay is the per-tick geometric decay rate.
	AlphaDecay float64
	// AlphaDrag is the reheat level applied when a drag starts.
	AlphaDrag float64

	// VelocityDecay is the per-tick velocity damping rate in [0, 1).
	VelocityDecay float64

	// Repulsion is the pairwise push-apart strength (applied inversely to
	// squared distance).
	Repulsion float64
	// LinkDistance is the rest length of a zero-weight link; heavier links
	// target shorter separations.
	LinkDistance float64
	// LinkStiffness scales the spring constant of link attraction.
	LinkStiffness float64
	// CenterStrength is the weak pull toward the canvas center.
	CenterStrength float64
	// CollisionMargin is the extra clearance kept between node circles.
	CollisionMargin float64

	// SeedJitter is the radius of random placement around the canvas center
	// for nodes without a cached position.
	SeedJitter float64

	// MaxTicks caps a single run; remaining motion past it is accepted.
	MaxTicks int

	// Seed fixes the jitter RNG for reproducible layouts. Zero means seed
	// from the clock.
	Seed int64
}

// DefaultConfig returns the session defaults for a canvas of the given size.
func DefaultConfig(width, height float64) Config {
	return Config{
		Width:           width,
		Height:          height,
		AlphaInitial:    1.0,
		AlphaMin:        0.001,
		AlphaDecay:      1 - math.Pow(0.001, 1.0/300),
		AlphaDrag:       0.3,
		VelocityDecay:   0.4,
		Repulsion:       60,
		LinkDistance:    120,
		LinkStiffness:   0.9,
		CenterStrength:  0.03,
		CollisionMargin: 4,
		SeedJitter:      30,
		MaxTicks:        300,
		Seed:            0,
	}
}

func (c *Config) normalize() {
	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = 600
	}
	if c.AlphaInitial <= 0 {
		c.AlphaInitial = 1.0
	}
	if c.AlphaMin <= 0 {
		c.AlphaMin = 0.001
	}
	if c.AlphaDecay <= 0 || c.AlphaDecay >= 1 {
		c.AlphaDecay = 1 - math.Pow(0.001, 1.0/300)
	}
	if c.AlphaDrag <= 0 {
		c.AlphaDrag = 0.3
	}
	if c.VelocityDecay < 0 || c.VelocityDecay >= 1 {
		c.VelocityDecay = 0.4
	}
	if c.Repulsion <= 0 {
		c.Repulsion = 60
	}
	if c.LinkDistance <= 0 {
		c.LinkDistance = 120
	}
	if c.LinkStiffness <= 0 {
		c.LinkStiffness = 0.9
	}
	if c.CenterStrength <= 0 {
		c.CenterStrength = 0.03
	}
	if c.CollisionMargin < 0 {
		c.CollisionMargin = 4
	}
	if c.SeedJitter <= 0 {
		c.SeedJitter = 30
	}
	if c.MaxTicks <= 0 {
		c.MaxTicks = 300
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
