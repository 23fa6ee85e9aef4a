package steering

import (
	"math/rand"

	"github.com/vovakirdan/tilenav/internal/collision"
	"github.com/vovakirdan/tilenav/internal/geom"
)

// Planner answers path and line-of-sight queries for one level.
// *navmesh.Navigator implements it.
type Planner interface {
	PlanPath(start, goal geom.Vec) ([]geom.Vec, error)
	LineBlocked(a, b geom.Vec) bool
}

// Context is the level state shared by every agent during a tick.
type Context struct {
	Nav      Planner
	Resolver *collision.Resolver
	Others   []*Agent
	Rand     *rand.Rand
	Params   Params
}

// Update advances the agent by one tick.
func (a *Agent) Update(ctx *Context) {
	switch a.State {
	case Arrived:
		a.stand()
		return
	case SeekingPath:
		if !a.plan(ctx) {
			a.stand()
			return
		}
		a.Stats.Plans++
		a.State = FollowingPath
		a.lineBlocked = ctx.Nav.LineBlocked(a.Pos, a.Destination)
		a.stillTicks = 0
	}
	a.follow(ctx)
}

// plan replaces the path. On failure the agent goes back to SeekingPath.
func (a *Agent) plan(ctx *Context) bool {
	path, err := ctx.Nav.PlanPath(a.Pos, a.Destination)
	if err != nil {
		a.Stats.PlanFailures++
		a.Path = nil
		a.State = SeekingPath
		return false
	}
	a.Path = path
	return true
}

func (a *Agent) follow(ctx *Context) {
	p := ctx.Params

	if geom.Dist(a.Pos, a.Destination) < p.ArriveTolerance {
		a.Path = nil
		a.Goal = a.Pos
		a.State = Arrived
		a.Stats.Arrivals++
		a.stand()
		return
	}

	blocked := ctx.Nav.LineBlocked(a.Pos, a.Destination)
	newlyBlocked := blocked && !a.lineBlocked
	a.lineBlocked = blocked
	if len(a.Path) == 0 || newlyBlocked {
		if !a.plan(ctx) {
			a.stand()
			return
		}
		a.Stats.Replans++
	}
	if len(a.Path) == 0 {
		// A plan that starts at the destination itself.
		a.Path = []geom.Vec{a.Destination}
	}

	for len(a.Path) > 1 && geom.Dist(a.Pos, a.Path[0]) < a.stepLength(p) {
		a.Path = a.Path[1:]
	}
	a.Goal = a.Path[0]

	heading := a.Facing.Vec()
	if !a.LastMove.IsZero() {
		heading = geom.Normalize(a.LastMove)
	}
	hits := castRays(a, heading, ctx.Others, p)
	a.Angle = nextAngle(a.Angle, hits, p, func() bool { return ctx.Rand.Intn(2) == 0 })

	a.Speed = p.Speed
	if hits.Any() {
		a.Speed = p.Speed / 2
	}

	toGoal := geom.Sub(a.Goal, a.Pos)
	step := min(a.Speed, geom.Len(toGoal))
	move := geom.Scale(geom.Rotate(geom.Normalize(toGoal), a.Angle), step)

	applied := move
	if ctx.Resolver != nil {
		applied = ctx.Resolver.Move(a, move.X, move.Y)
	} else {
		a.Translate(move)
	}
	if applied != move {
		a.Stats.BlockedMoves++
	}
	a.LastMove = applied
	a.animate(p)

	if !applied.IsZero() {
		a.stillTicks = 0
		return
	}
	a.stillTicks++
	if p.StuckTicks > 0 && a.stillTicks >= p.StuckTicks {
		// Replanning from here, or a new destination from the behaviour,
		// is the only way out of a corner the resolver keeps rejecting.
		a.stillTicks = 0
		a.stalled = true
		a.Path = nil
		a.Angle = 0
		a.State = SeekingPath
		a.Stats.Stalls++
	}
}

// stepLength is the distance under which a waypoint counts as reached.
func (a *Agent) stepLength(p Params) float64 {
	if a.Speed > 0 {
		return a.Speed
	}
	return p.Speed
}

func (a *Agent) stand() {
	a.LastMove = geom.Vec{}
	a.Speed = 0
	a.Frame = 0
	a.frameTicks = 0
}

func (a *Agent) animate(p Params) {
	if a.LastMove.IsZero() {
		a.Frame = 0
		a.frameTicks = 0
		return
	}
	a.Facing = facingOf(a.LastMove)

	a.frameTicks++
	if p.FrameEvery <= 0 || a.frameTicks < p.FrameEvery {
		return
	}
	a.frameTicks = 0
	if p.Frames > 0 {
		a.Frame = (a.Frame + 1) % p.Frames
	}
}
