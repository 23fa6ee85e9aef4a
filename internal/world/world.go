// Package world holds the level context: the grid, walls and bounds read
// from a level, the navigation mesh built for it and the agents moving on
// it. A World advances one tick at a time and is not safe for concurrent
// use; several worlds may share one read-only mesh.
package world

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tilenav/internal/behavior"
	"github.com/vovakirdan/tilenav/internal/collision"
	"github.com/vovakirdan/tilenav/internal/config"
	"github.com/vovakirdan/tilenav/internal/geom"
	"github.com/vovakirdan/tilenav/internal/level"
	"github.com/vovakirdan/tilenav/internal/navmesh"
	"github.com/vovakirdan/tilenav/internal/steering"
)

// MeshCache stores built meshes between runs. *storage.Store implements it.
// LoadMesh returns nil without an error on a miss.
type MeshCache interface {
	LoadMesh(key string) (*navmesh.Mesh, error)
	SaveMesh(key, levelID string, m *navmesh.Mesh) error
}

// MeshSource tells where a world's mesh came from.
type MeshSource string

const (
	MeshBuilt  MeshSource = "built"
	MeshCached MeshSource = "cache"
	MeshShared MeshSource = "shared"
)

// World is one running level.
type World struct {
	lvl    level.Level
	cfg    config.Config
	grid   *geom.Grid
	walls  []geom.Rect
	bounds geom.Rect

	mesh       *navmesh.Mesh
	meshSource MeshSource
	nav        *navmesh.Navigator
	resolver   *collision.Resolver

	agents    []*steering.Agent
	behaviors []behavior.Behavior

	seed   int64
	rng    *rand.Rand
	tick   int
	logger *log.Logger
	cache  MeshCache
}

// Option configures a World.
type Option func(*World)

// WithSeed fixes the random seed. Without it the current time is used.
func WithSeed(seed int64) Option {
	return func(w *World) {
		w.seed = seed
	}
}

// WithLogger sets the logger used for cache and behaviour messages.
func WithLogger(logger *log.Logger) Option {
	return func(w *World) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithMeshCache looks the mesh up in cache before building it and stores
// freshly built meshes there.
func WithMeshCache(cache MeshCache) Option {
	return func(w *World) {
		w.cache = cache
	}
}

// WithMesh uses an already built mesh for the level. The mesh is only read.
func WithMesh(m *navmesh.Mesh) Option {
	return func(w *World) {
		if m != nil {
			w.mesh = m
			w.meshSource = MeshShared
		}
	}
}

// New creates a world for lvl. The mesh comes from WithMesh, the mesh cache
// or the builder, in that order.
func New(lvl level.Level, cfg config.Config, opts ...Option) (*World, error) {
	if err := lvl.Validate(); err != nil {
		return nil, err
	}

	w := &World{
		lvl:    lvl,
		cfg:    cfg,
		grid:   lvl.Grid(),
		walls:  lvl.WallRects(),
		bounds: lvl.Bounds(),
		seed:   time.Now().UnixNano(),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.rng = rand.New(rand.NewSource(w.seed))

	if w.mesh == nil {
		if err := w.loadMesh(); err != nil {
			return nil, err
		}
	}

	w.nav = &navmesh.Navigator{
		Mesh:      w.mesh,
		Grid:      w.grid,
		TileSize:  lvl.TileSize,
		Walls:     w.walls,
		Clearance: cfg.Mesh.Clearance,
	}
	w.resolver = &collision.Resolver{Bounds: w.bounds, Walls: w.walls}

	if err := w.spawn(); err != nil {
		return nil, err
	}

	w.logger.Debug("world ready",
		"level", lvl.ID,
		"seed", w.seed,
		"agents", len(w.agents),
		"nodes", w.mesh.Len(),
		"edges", w.mesh.EdgeCount(),
		"mesh", w.meshSource,
	)
	return w, nil
}

// MeshOptions returns the builder options used for lvl under cfg.
func MeshOptions(lvl level.Level, cfg config.Config) navmesh.Options {
	return navmesh.Options{
		Bounds:    lvl.Bounds(),
		Clearance: cfg.Mesh.Clearance,
		Epsilon:   cfg.Mesh.Epsilon,
		Seeds:     lvl.Seeds,
	}
}

// MeshKey identifies the mesh built for lvl under cfg. It changes whenever
// the level geometry or the mesh settings change.
func MeshKey(lvl level.Level, cfg config.Config) string {
	h := sha256.New()
	fmt.Fprintf(h, "mesh/v1\n%s\n%g\n%g\n", lvl.Hash(), cfg.Mesh.Clearance, cfg.Mesh.Epsilon)
	return hex.EncodeToString(h.Sum(nil))
}

// BuildMesh builds the mesh for lvl without any cache.
func BuildMesh(lvl level.Level, cfg config.Config) *navmesh.Mesh {
	return navmesh.Build(lvl.WallRects(), MeshOptions(lvl, cfg))
}

func (w *World) loadMesh() error {
	key := MeshKey(w.lvl, w.cfg)

	if w.cache != nil {
		m, err := w.cache.LoadMesh(key)
		if err != nil {
			w.logger.Warn("mesh cache read failed", "level", w.lvl.ID, "err", err)
		} else if m != nil {
			w.mesh = m
			w.meshSource = MeshCached
			return nil
		}
	}

	start := time.Now()
	w.mesh = BuildMesh(w.lvl, w.cfg)
	w.meshSource = MeshBuilt
	w.logger.Info("mesh built",
		"level", w.lvl.ID,
		"nodes", w.mesh.Len(),
		"edges", w.mesh.EdgeCount(),
		"took", time.Since(start).Round(time.Microsecond),
	)

	if w.cache != nil {
		if err := w.cache.SaveMesh(key, w.lvl.ID, w.mesh); err != nil {
			w.logger.Warn("mesh cache write failed", "level", w.lvl.ID, "err", err)
		}
	}
	return nil
}

func (w *World) spawn() error {
	size := w.cfg.Sim.AgentSize
	for i, spec := range w.lvl.Agents {
		b, err := behavior.Create(spec.Role)
		if err != nil {
			return fmt.Errorf("world: level %s agent %d: %w", w.lvl.ID, i, err)
		}

		a := steering.NewAgent(i, spec.Role, w.lvl.TileCenter(spec.At), size, size)
		a.Mem.Script = spec.Script
		a.Mem.Home = a.Pos
		for _, t := range spec.Route {
			a.Mem.Route = append(a.Mem.Route, w.lvl.TileCenter(t))
		}

		if !w.resolver.Valid(a) {
			return fmt.Errorf("world: level %s agent %d does not fit at %v", w.lvl.ID, i, spec.At)
		}
		w.agents = append(w.agents, a)
		w.behaviors = append(w.behaviors, b)
		w.resolver.Bodies = append(w.resolver.Bodies, a)
	}
	return nil
}

// Step advances the world by one tick: every behaviour thinks, then every
// agent steers, both in spawn order. Behaviour errors are logged and the
// agent keeps its previous intent.
func (w *World) Step() {
	w.tick++

	bctx := &behavior.Context{
		Tick:     w.tick,
		Agents:   w.agents,
		Grid:     w.grid,
		TileSize: w.lvl.TileSize,
		Rand:     w.rng,
		Params:   w.cfg.Roles.Params(),
	}
	for i, a := range w.agents {
		if err := w.behaviors[i].Think(bctx, a); err != nil {
			w.logger.Warn("behaviour failed", "tick", w.tick, "agent", a.ID, "role", a.Role, "err", err)
		}
	}

	sctx := &steering.Context{
		Nav:      w.nav,
		Resolver: w.resolver,
		Others:   w.agents,
		Rand:     w.rng,
		Params:   w.cfg.Steering.Params(),
	}
	for _, a := range w.agents {
		a.Update(sctx)
	}
}

// Run advances the world by n ticks.
func (w *World) Run(n int) {
	for i := 0; i < n; i++ {
		w.Step()
	}
}

// PlanPath returns the waypoints from start to goal, excluding start.
func (w *World) PlanPath(start, goal geom.Vec) ([]geom.Vec, error) {
	return w.nav.PlanPath(start, goal)
}

// Valid reports whether every agent currently holds a valid position.
func (w *World) Valid() bool {
	for _, a := range w.agents {
		if !w.resolver.Valid(a) {
			return false
		}
	}
	return true
}

// Level returns the level the world was created from.
func (w *World) Level() level.Level { return w.lvl }

// Config returns the configuration the world runs with.
func (w *World) Config() config.Config { return w.cfg }

// Grid returns the occupancy grid.
func (w *World) Grid() *geom.Grid { return w.grid }

// Walls returns the merged wall rectangles in pixels.
func (w *World) Walls() []geom.Rect { return w.walls }

// Bounds returns the level rectangle in pixels.
func (w *World) Bounds() geom.Rect { return w.bounds }

// TileSize returns the tile side in pixels.
func (w *World) TileSize() float64 { return w.lvl.TileSize }

// Mesh returns the shared read-only navigation mesh.
func (w *World) Mesh() *navmesh.Mesh { return w.mesh }

// MeshSource reports where the mesh came from.
func (w *World) MeshSource() MeshSource { return w.meshSource }

// Agents returns the agents in spawn order. Callers must not modify them.
func (w *World) Agents() []*steering.Agent { return w.agents }

// Tick returns the number of ticks run so far.
func (w *World) Tick() int { return w.tick }

// Seed returns the random seed.
func (w *World) Seed() int64 { return w.seed }
