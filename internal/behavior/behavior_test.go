package behavior_test

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/tilenav/internal/behavior"
	"github.com/vovakirdan/tilenav/internal/collision"
	"github.com/vovakirdan/tilenav/internal/geom"
	"github.com/vovakirdan/tilenav/internal/steering"
)

func newContext(agents ...*steering.Agent) *behavior.Context {
	return &behavior.Context{
		Agents: agents,
		Grid: geom.GridFromRows([][]int{
			{0, 0, 0, 0},
			{0, 1, 1, 0},
			{0, 0, 0, 0},
		}),
		TileSize: 10,
		Rand:     rand.New(rand.NewSource(42)),
		Params:   behavior.DefaultParams(),
	}
}

func TestRegistry(t *testing.T) {
	want := []steering.Role{steering.RoleGuard, steering.RolePlayer, steering.RoleScripted, steering.RoleWanderer}
	got := behavior.List()
	if len(got) != len(want) {
		t.Fatalf("List() = %v, expected %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %v, expected %v", i, got[i], want[i])
		}
		b, err := behavior.Create(want[i])
		if err != nil {
			t.Fatalf("Create(%q) error = %v", want[i], err)
		}
		if b.Role() != want[i] {
			t.Errorf("Create(%q).Role() = %q", want[i], b.Role())
		}
	}

	if _, err := behavior.Create("ghost"); err == nil {
		t.Error("expected error for unknown role")
	}
	if behavior.Exists("ghost") {
		t.Error("Exists(ghost) = true")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate role")
		}
	}()
	behavior.Register(steering.RolePlayer, nil)
}

func TestPlayerRouteLoops(t *testing.T) {
	a := steering.NewAgent(1, steering.RolePlayer, geom.V(5, 5), 4, 4)
	a.Mem.Route = []geom.Vec{geom.V(35, 5), geom.V(35, 25)}
	b, _ := behavior.Create(steering.RolePlayer)
	ctx := newContext(a)

	var dests []geom.Vec
	for i := 0; i < 3; i++ {
		if err := b.Think(ctx, a); err != nil {
			t.Fatalf("Think() error = %v", err)
		}
		dests = append(dests, a.Destination)

		// Busy agents keep their destination.
		_ = b.Think(ctx, a)
		if a.Destination != dests[i] {
			t.Fatalf("destination changed while walking")
		}
		a.Stop()
	}

	want := []geom.Vec{geom.V(35, 5), geom.V(35, 25), geom.V(35, 5)}
	for i := range want {
		if dests[i] != want[i] {
			t.Errorf("destinations = %v, expected %v", dests, want)
			break
		}
	}
}

func TestGuardChasesNearestPlayer(t *testing.T) {
	g := steering.NewAgent(1, steering.RoleGuard, geom.V(5, 5), 4, 4)
	far := steering.NewAgent(2, steering.RolePlayer, geom.V(35, 25), 4, 4)
	near := steering.NewAgent(3, steering.RolePlayer, geom.V(35, 5), 4, 4)
	b, _ := behavior.Create(steering.RoleGuard)
	ctx := newContext(g, far, near)

	if err := b.Think(ctx, g); err != nil {
		t.Fatalf("Think() error = %v", err)
	}
	if !g.HasDestination() || g.Destination != near.Pos {
		t.Fatalf("destination = %v, expected nearest player at %v", g.Destination, near.Pos)
	}

	// Before the repath interval a moved target is ignored.
	near.Pos = geom.V(35, 25)
	ctx.Tick = 1
	_ = b.Think(ctx, g)
	if g.Destination != geom.V(35, 5) {
		t.Errorf("guard re-targeted before the repath interval")
	}

	ctx.Tick = ctx.Params.GuardRepathTicks
	_ = b.Think(ctx, g)
	if g.Destination != geom.V(35, 25) {
		t.Errorf("destination = %v, expected moved target", g.Destination)
	}

	// Close enough: a catch. Without a post the guard stops.
	g.Pos = geom.V(30, 25)
	_ = b.Think(ctx, g)
	if !g.Idle() {
		t.Error("guard within catch distance should stop")
	}
	if g.Stats.Catches != 1 {
		t.Errorf("Catches = %d, expected 1", g.Stats.Catches)
	}
}

func TestGuardReturnsToPostAfterCatch(t *testing.T) {
	home := geom.V(5, 25)
	g := steering.NewAgent(1, steering.RoleGuard, geom.V(30, 5), 4, 4)
	g.Mem.Home = home
	p := steering.NewAgent(2, steering.RolePlayer, geom.V(35, 5), 4, 4)
	b, _ := behavior.Create(steering.RoleGuard)
	ctx := newContext(g, p)
	ctx.Tick = 10

	_ = b.Think(ctx, g)
	if g.Stats.Catches != 1 || g.Destination != home || g.State != steering.SeekingPath {
		t.Fatalf("catches = %d, dest = %v, state = %v, expected a catch and a walk home",
			g.Stats.Catches, g.Destination, g.State)
	}

	// Off duty: the player next to it is ignored, even once home.
	g.Stop()
	for tick := 11; tick < 10+ctx.Params.CatchCooldown; tick++ {
		ctx.Tick = tick
		_ = b.Think(ctx, g)
	}
	if g.Stats.Catches != 1 || !g.Idle() {
		t.Fatalf("catches = %d, idle = %v during cooldown", g.Stats.Catches, g.Idle())
	}

	// Back on duty.
	ctx.Tick = 10 + ctx.Params.CatchCooldown
	_ = b.Think(ctx, g)
	if g.Stats.Catches != 2 {
		t.Errorf("Catches = %d after cooldown, expected 2", g.Stats.Catches)
	}
}

// directPlanner plans straight lines through everything.
type directPlanner struct{}

func (directPlanner) PlanPath(_, goal geom.Vec) ([]geom.Vec, error) { return []geom.Vec{goal}, nil }
func (directPlanner) LineBlocked(_, _ geom.Vec) bool                { return false }

// stall walks a into a wall placed against its right side until it gives
// up its path.
func stall(t *testing.T, a *steering.Agent) {
	t.Helper()
	box := a.Box()
	ctx := &steering.Context{
		Nav: directPlanner{},
		Resolver: &collision.Resolver{
			Bounds: geom.NewRect(-1000, -1000, 2000, 2000),
			Walls:  []geom.Rect{geom.NewRect(box.Right(), box.Y-20, 10, box.H+40)},
		},
		Rand:   rand.New(rand.NewSource(1)),
		Params: steering.DefaultParams(),
	}
	for i := 0; i < 10*ctx.Params.StuckTicks && !a.Stalled(); i++ {
		a.Update(ctx)
	}
	if !a.Stalled() {
		t.Fatalf("agent at %v never stalled", a.Pos)
	}
}

func TestStalledAgentsGetNewTargets(t *testing.T) {
	t.Run("player skips to the next route point", func(t *testing.T) {
		a := steering.NewAgent(1, steering.RolePlayer, geom.V(5, 5), 4, 4)
		a.Mem.Route = []geom.Vec{geom.V(35, 5), geom.V(35, 25)}
		b, _ := behavior.Create(steering.RolePlayer)
		ctx := newContext(a)

		_ = b.Think(ctx, a)
		stall(t, a)
		_ = b.Think(ctx, a)
		if a.Destination != geom.V(35, 25) || a.Stalled() {
			t.Errorf("destination = %v, stalled = %v, expected the next route point", a.Destination, a.Stalled())
		}
	})

	t.Run("wanderer picks another tile", func(t *testing.T) {
		a := steering.NewAgent(1, steering.RoleWanderer, geom.V(5, 5), 4, 4)
		b, _ := behavior.Create(steering.RoleWanderer)
		ctx := newContext(a)

		_ = b.Think(ctx, a)
		a.SetDestination(geom.V(35, 5))
		stall(t, a)
		_ = b.Think(ctx, a)
		if a.Stalled() || a.State != steering.SeekingPath {
			t.Errorf("stalled = %v, state = %v, expected a fresh destination", a.Stalled(), a.State)
		}
	})

	t.Run("idle script stops the agent", func(t *testing.T) {
		a := steering.NewAgent(1, steering.RoleScripted, geom.V(5, 5), 4, 4)
		a.Mem.Script = "idle = true"
		b, _ := behavior.Create(steering.RoleScripted)

		a.SetDestination(geom.V(35, 5))
		stall(t, a)
		if err := b.Think(newContext(a), a); err != nil {
			t.Fatalf("Think() error = %v", err)
		}
		if !a.Idle() || a.Stalled() {
			t.Errorf("idle = %v, stalled = %v, expected a stopped agent", a.Idle(), a.Stalled())
		}
	})
}

func TestWandererPicksFreeTiles(t *testing.T) {
	a := steering.NewAgent(1, steering.RoleWanderer, geom.V(5, 5), 4, 4)
	b, _ := behavior.Create(steering.RoleWanderer)
	ctx := newContext(a)

	for i := 0; i < 20; i++ {
		if err := b.Think(ctx, a); err != nil {
			t.Fatalf("Think() error = %v", err)
		}
		if a.Idle() {
			t.Fatal("wanderer did not pick a destination")
		}
		x, y := ctx.Grid.CellAt(a.Destination, ctx.TileSize)
		if ctx.Grid.Wall(x, y) || !ctx.Grid.InBounds(x, y) {
			t.Fatalf("destination %v is not a free tile", a.Destination)
		}
		a.Stop()
	}
}

func TestWandererDeterministic(t *testing.T) {
	run := func() []geom.Vec {
		a := steering.NewAgent(1, steering.RoleWanderer, geom.V(5, 5), 4, 4)
		b, _ := behavior.Create(steering.RoleWanderer)
		ctx := newContext(a)
		var out []geom.Vec
		for i := 0; i < 5; i++ {
			_ = b.Think(ctx, a)
			out = append(out, a.Destination)
			a.Stop()
		}
		return out
	}

	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("runs differ: %v vs %v", first, second)
		}
	}
}

func TestScripted(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		expected geom.Vec
		idle     bool
	}{
		{
			name:     "offset from position",
			script:   "dest_x = pos_x + tile * 2\ndest_y = pos_y",
			expected: geom.V(25, 5),
		},
		{
			name:     "integer assignment",
			script:   "dest_x = 15\ndest_y = index * 10 + 5",
			expected: geom.V(15, 5),
		},
		{
			name:   "idle",
			script: "idle = tick < 100",
			idle:   true,
		},
		{
			name:     "stdlib import",
			script:   "math := import(\"math\")\ndest_x = math.abs(-35.0)\ndest_y = 25",
			expected: geom.V(35, 25),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := steering.NewAgent(1, steering.RoleScripted, geom.V(5, 5), 4, 4)
			a.Mem.Script = tc.script
			b, _ := behavior.Create(steering.RoleScripted)

			if err := b.Think(newContext(a), a); err != nil {
				t.Fatalf("Think() error = %v", err)
			}
			if tc.idle {
				if !a.Idle() {
					t.Error("expected agent to stay idle")
				}
				return
			}
			if a.Destination != tc.expected {
				t.Errorf("destination = %v, expected %v", a.Destination, tc.expected)
			}
		})
	}
}

func TestScriptedErrors(t *testing.T) {
	if err := behavior.CompileScript(""); err == nil {
		t.Error("expected error for empty script")
	}
	if err := behavior.CompileScript("dest_x = ("); err == nil {
		t.Error("expected compile error")
	}
	if err := behavior.CompileScript("dest_x = 1"); err != nil {
		t.Errorf("CompileScript() error = %v", err)
	}
}
