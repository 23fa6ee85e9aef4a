package world

import (
	"github.com/vovakirdan/tilenav/internal/geom"
	"github.com/vovakirdan/tilenav/internal/steering"
)

// AgentView is a copy of the observable state of one agent.
type AgentView struct {
	ID          int
	Role        steering.Role
	Pos         geom.Vec
	Facing      steering.Facing
	Frame       int
	State       steering.State
	Angle       float64
	Destination geom.Vec
	Path        []geom.Vec
	Stalled     bool
	Catches     int
}

// Snapshot is a copy of the world state after a tick.
type Snapshot struct {
	Tick   int
	Agents []AgentView
}

// Snapshot copies the current state. Later ticks do not change it.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{Tick: w.tick, Agents: make([]AgentView, len(w.agents))}
	for i, a := range w.agents {
		s.Agents[i] = AgentView{
			ID:          a.ID,
			Role:        a.Role,
			Pos:         a.Pos,
			Facing:      a.Facing,
			Frame:       a.Frame,
			State:       a.State,
			Angle:       a.Angle,
			Destination: a.Destination,
			Path:        append([]geom.Vec(nil), a.Path...),
			Stalled:     a.Stalled(),
			Catches:     a.Stats.Catches,
		}
	}
	return s
}

// Stats summarises a run.
type Stats struct {
	Ticks        int
	Agents       int
	Arrivals     int
	Plans        int
	Replans      int
	PlanFailures int
	BlockedMoves int
	Stalls       int
	Catches      int
}

// Stats sums the per-agent counters.
func (w *World) Stats() Stats {
	st := Stats{Ticks: w.tick, Agents: len(w.agents)}
	for _, a := range w.agents {
		st.Arrivals += a.Stats.Arrivals
		st.Plans += a.Stats.Plans
		st.Replans += a.Stats.Replans
		st.PlanFailures += a.Stats.PlanFailures
		st.BlockedMoves += a.Stats.BlockedMoves
		st.Stalls += a.Stats.Stalls
		st.Catches += a.Stats.Catches
	}
	return st
}
