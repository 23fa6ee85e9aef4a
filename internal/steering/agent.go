// Package steering moves agents along planned paths one tick at a time,
// turning away from other agents seen in a short vision cone.
package steering

import (
	"math"

	"github.com/vovakirdan/tilenav/internal/geom"
)

// Role tags an agent with the behaviour that picks its destinations.
type Role string

const (
	RolePlayer   Role = "player"
	RoleGuard    Role = "guard"
	RoleWanderer Role = "wanderer"
	RoleScripted Role = "scripted"
)

// State is the navigation state of an agent.
type State int

const (
	// SeekingPath means the agent has a destination but no usable path yet.
	SeekingPath State = iota
	// FollowingPath means the agent is walking its path.
	FollowingPath
	// Arrived means the agent is idle at (or without) a destination.
	Arrived
)

func (s State) String() string {
	switch s {
	case SeekingPath:
		return "seeking"
	case FollowingPath:
		return "following"
	case Arrived:
		return "arrived"
	}
	return "unknown"
}

// Facing is one of the four sprite directions.
type Facing int

const (
	Down Facing = iota
	Left
	Right
	Up
)

func (f Facing) String() string {
	switch f {
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	}
	return "unknown"
}

// Vec returns the unit vector of the facing direction.
func (f Facing) Vec() geom.Vec {
	switch f {
	case Left:
		return geom.V(-1, 0)
	case Right:
		return geom.V(1, 0)
	case Up:
		return geom.V(0, -1)
	}
	return geom.V(0, 1)
}

// facingOf returns the facing of a displacement along its dominant axis.
func facingOf(d geom.Vec) Facing {
	if math.Abs(d.X) >= math.Abs(d.Y) {
		if d.X < 0 {
			return Left
		}
		return Right
	}
	if d.Y < 0 {
		return Up
	}
	return Down
}

// Memory holds per-role bookkeeping written by behaviours.
type Memory struct {
	Route      []geom.Vec
	RouteIndex int
	Script     string
	TargetID   int
	TargetPos  geom.Vec
	NextThink  int
	Home       geom.Vec
	RestUntil  int
}

// Stats counts what happened to an agent over a run.
type Stats struct {
	Arrivals     int
	Plans        int
	Replans      int
	PlanFailures int
	BlockedMoves int
	Stalls       int
	Catches      int
}

// Agent is a moving entity. Pos is the centre of its W×H box.
type Agent struct {
	ID     int
	Role   Role
	Pos    geom.Vec
	W, H   float64
	Facing Facing

	Path        []geom.Vec
	Goal        geom.Vec
	Destination geom.Vec
	hasDest     bool

	Angle    float64
	Speed    float64
	State    State
	LastMove geom.Vec

	// Frame is the animation frame index; it advances every
	// Params.FrameEvery moving ticks.
	Frame      int
	frameTicks int

	lineBlocked bool

	// stillTicks counts consecutive FollowingPath ticks without movement.
	stillTicks int
	stalled    bool

	Mem   Memory
	Stats Stats
}

// NewAgent creates an idle agent centred on pos.
func NewAgent(id int, role Role, pos geom.Vec, w, h float64) *Agent {
	return &Agent{
		ID:     id,
		Role:   role,
		Pos:    pos,
		W:      w,
		H:      h,
		Facing: Down,
		State:  Arrived,
	}
}

// Box returns the agent's bounding box.
func (a *Agent) Box() geom.Rect {
	return geom.RectAround(a.Pos, a.W, a.H)
}

// Translate moves the agent by d.
func (a *Agent) Translate(d geom.Vec) {
	a.Pos = geom.Add(a.Pos, d)
}

// SetDestination drops the current path and starts planning toward p.
func (a *Agent) SetDestination(p geom.Vec) {
	a.Destination = p
	a.hasDest = true
	a.Path = nil
	a.State = SeekingPath
	a.stalled = false
	a.stillTicks = 0
}

// Stop drops the path and leaves the agent idle where it stands.
func (a *Agent) Stop() {
	a.Path = nil
	a.Goal = a.Pos
	a.State = Arrived
	a.stalled = false
	a.stillTicks = 0
	a.stand()
}

// HasDestination reports whether a destination was ever set.
func (a *Agent) HasDestination() bool {
	return a.hasDest
}

// Stalled reports whether the agent gave up its path after standing still
// for Params.StuckTicks ticks. It is cleared by SetDestination and Stop.
func (a *Agent) Stalled() bool {
	return a.stalled
}

// Idle reports whether the agent waits for a new destination.
func (a *Agent) Idle() bool {
	return a.State == Arrived
}
