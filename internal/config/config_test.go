package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg, err := parse(defaultYAML)
	if err != nil {
		t.Fatalf("parse(embedded) error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded defaults differ from Default():\n%+v\n%+v", cfg, Default())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })

	// Nothing on disk: embedded defaults.
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, expected defaults", cfg)
	}

	// Local configs directory.
	if err := os.MkdirAll(filepath.Join(work, "configs"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(work, "configs", FileName), "mesh:\n  clearance: 7\n")
	cfg, _ = Load("")
	if cfg.Mesh.Clearance != 7 {
		t.Errorf("local config not used: clearance = %v", cfg.Mesh.Clearance)
	}
	if cfg.Steering.Speed != Default().Steering.Speed {
		t.Errorf("missing values should keep defaults, speed = %v", cfg.Steering.Speed)
	}

	// User config wins over local.
	if err := os.MkdirAll(filepath.Join(home, ".tilenav"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(home, ".tilenav", "config.yaml"), "mesh:\n  clearance: 5\n")
	cfg, _ = Load("")
	if cfg.Mesh.Clearance != 5 {
		t.Errorf("user config not used: clearance = %v", cfg.Mesh.Clearance)
	}

	// Invalid user config falls through to local.
	writeFile(t, filepath.Join(home, ".tilenav", "config.yaml"), "steering:\n  speed: -1\n")
	cfg, _ = Load("")
	if cfg.Mesh.Clearance != 7 {
		t.Errorf("invalid user config not skipped: clearance = %v", cfg.Mesh.Clearance)
	}

	// Custom path wins over everything.
	custom := filepath.Join(work, "custom.yaml")
	writeFile(t, custom, "sim:\n  tick_rate: 12\n")
	cfg, err = Load(custom)
	if err != nil {
		t.Fatalf("Load(custom) error = %v", err)
	}
	if cfg.Sim.TickRate != 12 || cfg.Mesh.Clearance != Default().Mesh.Clearance {
		t.Errorf("custom config = %+v", cfg)
	}
}

func TestLoadCustomErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing file", "", "failed to read"},
		{"bad yaml", "mesh: [", "failed to parse"},
		{"invalid value", "steering:\n  speed: 0\n", "steering.speed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tc.name, " ", "_")+".yaml")
			if tc.content != "" {
				writeFile(t, path, tc.content)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error = %v, expected it to mention %q", err, tc.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"negative clearance", func(c *Config) { c.Mesh.Clearance = -1 }, false},
		{"wide cone", func(c *Config) { c.Steering.ConeAngle = 200 }, false},
		{"zero decay", func(c *Config) { c.Steering.Decay = 0 }, false},
		{"zero frames", func(c *Config) { c.Steering.Frames = 0 }, false},
		{"zero repath", func(c *Config) { c.Roles.GuardRepathTicks = 0 }, false},
		{"negative stuck ticks", func(c *Config) { c.Steering.StuckTicks = -1 }, false},
		{"stall detection off", func(c *Config) { c.Steering.StuckTicks = 0 }, true},
		{"negative catch cooldown", func(c *Config) { c.Roles.CatchCooldown = -5 }, false},
		{"zero tick rate", func(c *Config) { c.Sim.TickRate = 0 }, false},
		{"zero agent size", func(c *Config) { c.Sim.AgentSize = 0 }, false},
		{"negative epsilon allowed", func(c *Config) { c.Mesh.Epsilon = -1 }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tc.valid {
				t.Errorf("Validate() = %v, expected valid=%v", err, tc.valid)
			}
		})
	}
}

func TestSteeringParams(t *testing.T) {
	p := Default().Steering.Params()
	if math.Abs(p.ConeAngle-math.Pi/3) > 1e-12 {
		t.Errorf("ConeAngle = %v, expected pi/3", p.ConeAngle)
	}
	if math.Abs(p.TurnUnit-math.Pi/18) > 1e-12 {
		t.Errorf("TurnUnit = %v, expected pi/18", p.TurnUnit)
	}
	if p.Speed != 2 || p.FrameEvery != 4 || p.StuckTicks != 30 {
		t.Errorf("params = %+v", p)
	}

	r := Default().Roles.Params()
	if r.GuardRepathTicks != 15 || r.WanderTries != 32 || r.CatchCooldown != 150 {
		t.Errorf("role params = %+v", r)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
