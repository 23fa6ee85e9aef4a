// Package behavior maps agent roles to the strategies that choose their
// destinations. Roles register themselves in init() functions, so the world
// can look a strategy up by the role named in a level file.
package behavior

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/vovakirdan/tilenav/internal/geom"
	"github.com/vovakirdan/tilenav/internal/steering"
)

// Params tunes the built-in roles.
type Params struct {
	// GuardRepathTicks is how often a guard re-targets its quarry.
	GuardRepathTicks int
	// CatchDistance is how close a guard must get to catch its target.
	CatchDistance float64
	// WanderTries bounds the random free-tile search of a wanderer.
	WanderTries int
	// CatchCooldown is how many ticks a guard spends walking back to its
	// post after a catch before it chases again.
	CatchCooldown int
}

// DefaultParams returns the role parameters used without configuration.
func DefaultParams() Params {
	return Params{
		GuardRepathTicks: 15,
		CatchDistance:    12,
		WanderTries:      32,
		CatchCooldown:    150,
	}
}

// Context is the read-only level state a behaviour may consult.
type Context struct {
	Tick     int
	Agents   []*steering.Agent
	Grid     *geom.Grid
	TileSize float64
	Rand     *rand.Rand
	Params   Params
}

// Behavior decides what an agent wants before steering moves it.
// A behaviour instance belongs to exactly one agent.
type Behavior interface {
	// Role returns the role this behaviour implements.
	Role() steering.Role

	// Think runs once per tick before the agent's steering update.
	// It typically calls SetDestination or Stop on the agent.
	Think(ctx *Context, a *steering.Agent) error
}

// Factory creates a fresh behaviour for one agent.
type Factory func() Behavior

var (
	factories = make(map[steering.Role]Factory)
	mu        sync.RWMutex
)

// Register adds a role factory to the registry.
// Panics if the role is already registered.
func Register(role steering.Role, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[role]; exists {
		panic(fmt.Sprintf("behavior: role %q already registered", role))
	}
	factories[role] = f
}

// List returns every registered role, sorted.
func List() []steering.Role {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]steering.Role, 0, len(factories))
	for role := range factories {
		result = append(result, role)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i] < result[j]
	})
	return result
}

// Create instantiates the behaviour of a role.
func Create(role steering.Role) (Behavior, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[role]
	if !ok {
		return nil, fmt.Errorf("behavior: unknown role %q", role)
	}
	return f(), nil
}

// Exists checks if a role is registered.
func Exists(role steering.Role) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[role]
	return ok
}
