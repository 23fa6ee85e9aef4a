// Package config provides YAML-based configuration for mesh building,
// steering, role behaviours and the simulation loop.
package config

import (
	_ "embed"
	"fmt"
	"math"

	"github.com/vovakirdan/tilenav/internal/behavior"
	"github.com/vovakirdan/tilenav/internal/steering"
)

//go:embed defaults/tilenav.yaml
var defaultYAML []byte

// Config is the complete tilenav configuration.
type Config struct {
	Mesh     MeshConfig     `yaml:"mesh"`
	Steering SteeringConfig `yaml:"steering"`
	Roles    RolesConfig    `yaml:"roles"`
	Sim      SimConfig      `yaml:"sim"`
}

// MeshConfig defines navigation mesh construction.
type MeshConfig struct {
	Clearance float64 `yaml:"clearance"` // Pixels added around every wall
	Epsilon   float64 `yaml:"epsilon"`   // Pruning tolerance
}

// SteeringConfig defines agent movement. Angles are in degrees.
type SteeringConfig struct {
	Speed           float64 `yaml:"speed"`
	ArriveTolerance float64 `yaml:"arrive_tolerance"`
	RayLength       float64 `yaml:"ray_length"`
	ConeAngle       float64 `yaml:"cone_angle"`
	TurnUnit        float64 `yaml:"turn_unit"`
	MaxAngle        float64 `yaml:"max_angle"`
	Decay           float64 `yaml:"decay"`
	FrameEvery      int     `yaml:"frame_every"`
	Frames          int     `yaml:"frames"`
	StuckTicks      int     `yaml:"stuck_ticks"` // Motionless ticks before a path is dropped
}

// RolesConfig defines role behaviour parameters.
type RolesConfig struct {
	GuardRepathTicks int     `yaml:"guard_repath_ticks"`
	CatchDistance    float64 `yaml:"catch_distance"`
	WanderTries      int     `yaml:"wander_tries"`
	CatchCooldown    int     `yaml:"catch_cooldown"` // Ticks a guard stays off duty after a catch
}

// SimConfig defines the simulation loop.
type SimConfig struct {
	TickRate  int     `yaml:"tick_rate"`  // Ticks per second in the viewer
	AgentSize float64 `yaml:"agent_size"` // Agent box side in pixels
	MaxTicks  int     `yaml:"max_ticks"`  // Default length of a headless run
}

// Default returns the hard-coded configuration.
func Default() Config {
	return Config{
		Mesh: MeshConfig{
			Clearance: 10,
			Epsilon:   0.1,
		},
		Steering: SteeringConfig{
			Speed:           2,
			ArriveTolerance: 3,
			RayLength:       36,
			ConeAngle:       60,
			TurnUnit:        10,
			MaxAngle:        60,
			Decay:           2,
			FrameEvery:      4,
			Frames:          3,
			StuckTicks:      30,
		},
		Roles: RolesConfig{
			GuardRepathTicks: 15,
			CatchDistance:    22,
			WanderTries:      32,
			CatchCooldown:    150,
		},
		Sim: SimConfig{
			TickRate:  30,
			AgentSize: 16,
			MaxTicks:  3000,
		},
	}
}

// Params converts the steering section to radians.
func (s SteeringConfig) Params() steering.Params {
	return steering.Params{
		Speed:           s.Speed,
		ArriveTolerance: s.ArriveTolerance,
		RayLength:       s.RayLength,
		ConeAngle:       radians(s.ConeAngle),
		TurnUnit:        radians(s.TurnUnit),
		MaxAngle:        radians(s.MaxAngle),
		Decay:           radians(s.Decay),
		FrameEvery:      s.FrameEvery,
		Frames:          s.Frames,
		StuckTicks:      s.StuckTicks,
	}
}

// Params converts the roles section.
func (r RolesConfig) Params() behavior.Params {
	return behavior.Params{
		GuardRepathTicks: r.GuardRepathTicks,
		CatchDistance:    r.CatchDistance,
		WanderTries:      r.WanderTries,
		CatchCooldown:    r.CatchCooldown,
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Validate reports the first invalid value.
func (c Config) Validate() error {
	switch {
	case c.Mesh.Clearance < 0:
		return fmt.Errorf("config: mesh.clearance must not be negative")
	case c.Steering.Speed <= 0:
		return fmt.Errorf("config: steering.speed must be positive")
	case c.Steering.ArriveTolerance <= 0:
		return fmt.Errorf("config: steering.arrive_tolerance must be positive")
	case c.Steering.RayLength < 0:
		return fmt.Errorf("config: steering.ray_length must not be negative")
	case c.Steering.ConeAngle < 0 || c.Steering.ConeAngle > 180:
		return fmt.Errorf("config: steering.cone_angle must be within [0, 180]")
	case c.Steering.TurnUnit < 0 || c.Steering.MaxAngle < 0:
		return fmt.Errorf("config: steering angles must not be negative")
	case c.Steering.Decay <= 0:
		return fmt.Errorf("config: steering.decay must be positive")
	case c.Steering.FrameEvery <= 0 || c.Steering.Frames <= 0:
		return fmt.Errorf("config: steering.frame_every and frames must be positive")
	case c.Steering.StuckTicks < 0:
		return fmt.Errorf("config: steering.stuck_ticks must not be negative")
	case c.Roles.GuardRepathTicks <= 0:
		return fmt.Errorf("config: roles.guard_repath_ticks must be positive")
	case c.Roles.CatchCooldown < 0:
		return fmt.Errorf("config: roles.catch_cooldown must not be negative")
	case c.Sim.TickRate <= 0:
		return fmt.Errorf("config: sim.tick_rate must be positive")
	case c.Sim.AgentSize <= 0:
		return fmt.Errorf("config: sim.agent_size must be positive")
	case c.Sim.MaxTicks <= 0:
		return fmt.Errorf("config: sim.max_ticks must be positive")
	}
	return nil
}
