package layout

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"
)

// Session owns one view's layout state: the position cache that survives
// snapshot changes, the current engine run, and the interaction controller.
// All access is serialized through the session mutex; interaction handlers
// stage intents that the next tick applies.
type Session struct {
	ID string

	mu     sync.Mutex
	cfg    Config
	cache  *PositionCache
	engine *Engine
	ctrl   *Controller
	shape  string

	// stop/done track an in-flight Run loop so a new load can cancel it and
	// wait before reseeding (stop-before-start).
	stop context.CancelFunc
	done chan struct{}
}

// NewSession creates a session for a canvas of the configured size. No
// simulation exists until the first Load.
func NewSession(cfg Config) *Session {
	cfg.normalize()
	return &Session{
		ID:    shortuuid.New(),
		cfg:   cfg,
		cache: NewPositionCache(),
		ctrl:  NewController(),
	}
}

// Load replaces the simulation with a fresh run seeded from the given
// snapshot. Any in-flight Run loop is stopped first; two competing tick
// loops must never mutate the same node set. Cached positions of surviving
// nodes carry over exactly; entries for vanished nodes are evicted. A
// snapshot with identical shape keeps the previous energy level so a no-op
// re-render does not restart the layout.
func (s *Session) Load(snapshot *Snapshot) {
	s.interrupt()

	s.mu.Lock()
	defer s.mu.Unlock()

	live := make(map[string]bool, len(snapshot.Nodes))
	for _, node := range snapshot.Nodes {
		live[node.ID] = true
	}
	s.cache.Prune(live)
	s.ctrl.prune(live)

	var prevAlpha float64
	sig := shapeSignature(snapshot)
	if s.engine != nil && sig == s.shape {
		prevAlpha = s.engine.Alpha()
	}

	s.engine = NewEngine(s.cfg, snapshot, s.cache)
	if s.shape != "" && sig == s.shape {
		s.engine.SetAlpha(prevAlpha)
	}
	s.shape = sig
}

// Resize retargets the centering force for new canvas dimensions. Positions
// are kept; this is not a reseed.
func (s *Session) Resize(width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if width > 0 {
		s.cfg.Width = width
	}
	if height > 0 {
		s.cfg.Height = height
	}
	if s.engine != nil {
		s.engine.SetCanvas(width, height)
	}
}

// DragStart begins dragging a node at the pointer position. Unknown node ids
// are ignored: pointer events race with snapshot changes.
func (s *Session) DragStart(nodeID string, x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil || s.engine.node(nodeID) == nil {
		return
	}
	s.ctrl.DragStart(nodeID, x, y)
}

// DragMove updates the dragged node's fixed coordinates to the pointer.
func (s *Session) DragMove(nodeID string, x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil || s.engine.node(nodeID) == nil {
		return
	}
	s.ctrl.DragMove(nodeID, x, y)
}

// DragEnd freezes the node at the release point. It stays pinned.
func (s *Session) DragEnd(nodeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil || s.engine.node(nodeID) == nil {
		return
	}
	s.ctrl.DragEnd(nodeID)
}

// Unpin releases a pinned node back to force-driven movement.
func (s *Session) Unpin(nodeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil || s.engine.node(nodeID) == nil {
		return
	}
	s.ctrl.Unpin(nodeID)
}

// PinState returns the interaction state for a node.
func (s *Session) PinState(nodeID string) DragState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.State(nodeID)
}

// Step applies staged interaction intents and advances the simulation one
// tick. Returns the resulting frame and whether the simulation is still hot.
func (s *Session) Step() (*Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepLocked()
}

func (s *Session) stepLocked() (*Frame, bool) {
	if s.engine == nil {
		return &Frame{}, false
	}
	if s.ctrl.apply(s.engine, s.cache) {
		s.engine.Reheat(s.cfg.AlphaDrag)
	}
	hot := s.engine.Tick()
	return s.engine.Frame(), hot
}

// Advance runs up to n ticks, stopping early on convergence, and returns the
// final frame.
func (s *Session) Advance(n int) *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	frame, hot := s.stepLocked()
	for i := 1; i < n && hot; i++ {
		frame, hot = s.stepLocked()
	}
	return frame
}

// Frame renders the current state without advancing the simulation.
func (s *Session) Frame() *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return &Frame{}
	}
	return s.engine.Frame()
}

// DroppedLinks reports how many links of the current snapshot were discarded
// for referencing missing node ids.
func (s *Session) DroppedLinks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return 0
	}
	return s.engine.DroppedLinks()
}

// Run advances one step per interval, publishing every frame to the sink,
// until convergence, the tick cap, or context cancellation. Steps never block
// on I/O; between ticks control yields to the scheduler. Only one loop may
// run at a time.
func (s *Session) Run(ctx context.Context, sink FrameSink, interval time.Duration) error {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}

	s.mu.Lock()
	if s.engine == nil {
		s.mu.Unlock()
		return errors.New("no snapshot loaded")
	}
	if s.stop != nil {
		s.mu.Unlock()
		return errors.New("simulation loop already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.stop = cancel
	s.done = done
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.stop = nil
		s.done = nil
		s.mu.Unlock()
		close(done)
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for tick := 0; tick < s.cfg.MaxTicks; tick++ {
		select {
		case <-runCtx.Done():
			return nil
		case <-ticker.C:
		}
		frame, hot := s.Step()
		if sink != nil {
			sink.Publish(frame)
		}
		if !hot {
			return nil
		}
	}
	// Tick cap reached; remaining motion is accepted as good enough.
	return nil
}

// Close stops any in-flight simulation loop and discards the session state.
func (s *Session) Close() {
	s.interrupt()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine = nil
	s.cache = NewPositionCache()
	s.ctrl = NewController()
	s.shape = ""
}

// interrupt cancels a running loop and waits for it to exit.
func (s *Session) interrupt() {
	s.mu.Lock()
	stop := s.stop
	done := s.done
	s.mu.Unlock()
	if stop != nil {
		stop()
		<-done
	}
}

// shapeSignature fingerprints a snapshot's node and link sets. Two snapshots
// with the same signature represent identical data: loading one over the
// other must not restart the layout.
func shapeSignature(snapshot *Snapshot) string {
	nodeIDs := make([]string, 0, len(snapshot.Nodes))
	for _, node := range snapshot.Nodes {
		nodeIDs = append(nodeIDs, node.ID)
	}
	sort.Strings(nodeIDs)

	linkKeys := make([]string, 0, len(snapshot.Links))
	for _, link := range snapshot.Links {
		a, b := link.SourceID, link.TargetID
		if b < a {
			a, b = b, a
		}
		linkKeys = append(linkKeys, fmt.Sprintf("%s>%s@%.4f", a, b, link.Weight))
	}
	sort.Strings(linkKeys)

	anchors := append([]string(nil), snapshot.AnchorIDs...)
	sort.Strings(anchors)

	var sb strings.Builder
	sb.WriteString(strings.Join(nodeIDs, ","))
	sb.WriteByte('|')
	sb.WriteString(strings.Join(linkKeys, ","))
	sb.WriteByte('|')
	sb.WriteString(strings.Join(anchors, ","))
	return sb.String()
}
