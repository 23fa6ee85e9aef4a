package behavior

import (
	"math"

	"github.com/vovakirdan/tilenav/internal/geom"
	"github.com/vovakirdan/tilenav/internal/steering"
)

func init() {
	Register(steering.RolePlayer, func() Behavior { return player{} })
	Register(steering.RoleGuard, func() Behavior { return guard{} })
	Register(steering.RoleWanderer, func() Behavior { return wanderer{} })
	Register(steering.RoleScripted, func() Behavior { return &scripted{} })
}

// needsTarget reports whether a should be given a destination: it is idle,
// or it gave up on the current one.
func needsTarget(a *steering.Agent) bool {
	return a.Idle() || a.Stalled()
}

// player walks its route, looping back to the first point. A player that
// stalls moves on to the next point.
type player struct{}

func (player) Role() steering.Role { return steering.RolePlayer }

func (player) Think(_ *Context, a *steering.Agent) error {
	route := a.Mem.Route
	if !needsTarget(a) || len(route) == 0 {
		return nil
	}
	i := a.Mem.RouteIndex % len(route)
	a.Mem.RouteIndex = (i + 1) % len(route)
	a.SetDestination(route[i])
	return nil
}

// guard chases the nearest player. A catch is counted in the guard's stats,
// then the guard walks back to its post and ignores players for
// CatchCooldown ticks.
type guard struct{}

func (guard) Role() steering.Role { return steering.RoleGuard }

func (guard) Think(ctx *Context, a *steering.Agent) error {
	if ctx.Tick < a.Mem.RestUntil {
		if a.Stalled() {
			a.SetDestination(a.Mem.Home)
		}
		return nil
	}

	target := nearest(a, ctx.Agents, steering.RolePlayer)
	if target == nil {
		return nil
	}

	if geom.Dist(a.Pos, target.Pos) <= ctx.Params.CatchDistance {
		a.Stats.Catches++
		a.Mem.RestUntil = ctx.Tick + ctx.Params.CatchCooldown
		if a.Mem.Home.IsZero() {
			a.Stop()
		} else {
			a.SetDestination(a.Mem.Home)
		}
		return nil
	}

	if ctx.Tick < a.Mem.NextThink && !needsTarget(a) {
		return nil
	}
	a.Mem.NextThink = ctx.Tick + max(ctx.Params.GuardRepathTicks, 1)

	moved := geom.Dist(target.Pos, a.Mem.TargetPos) > ctx.TileSize
	if needsTarget(a) || target.ID != a.Mem.TargetID || moved {
		a.Mem.TargetID = target.ID
		a.Mem.TargetPos = target.Pos
		a.SetDestination(target.Pos)
	}
	return nil
}

// nearest returns the closest agent with the given role; ties go to the
// agent listed first.
func nearest(a *steering.Agent, agents []*steering.Agent, role steering.Role) *steering.Agent {
	var best *steering.Agent
	bestDist := math.Inf(1)
	for _, o := range agents {
		if o == a || o.Role != role {
			continue
		}
		if d := geom.Dist(a.Pos, o.Pos); d < bestDist {
			best, bestDist = o, d
		}
	}
	return best
}

// wanderer walks to random free tiles, picking another one when it stalls.
type wanderer struct{}

func (wanderer) Role() steering.Role { return steering.RoleWanderer }

func (wanderer) Think(ctx *Context, a *steering.Agent) error {
	if !needsTarget(a) || ctx.Grid == nil || ctx.Grid.W == 0 || ctx.Grid.H == 0 {
		return nil
	}
	for i := 0; i < max(ctx.Params.WanderTries, 1); i++ {
		x, y := ctx.Rand.Intn(ctx.Grid.W), ctx.Rand.Intn(ctx.Grid.H)
		if ctx.Grid.Wall(x, y) {
			continue
		}
		a.SetDestination(ctx.Grid.CellCenter(x, y, ctx.TileSize))
		return nil
	}
	return nil
}
