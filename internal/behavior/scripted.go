package behavior

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/vovakirdan/tilenav/internal/geom"
	"github.com/vovakirdan/tilenav/internal/steering"
)

// scripted asks a tengo script for the next destination whenever the agent
// is idle or stalled. The script reads pos_x, pos_y, tick, index, tile, cols
// and rows and either assigns dest_x and dest_y or sets idle = true.
type scripted struct {
	source   string
	compiled *tengo.Compiled
}

func (*scripted) Role() steering.Role { return steering.RoleScripted }

func (s *scripted) Think(ctx *Context, a *steering.Agent) error {
	if !needsTarget(a) {
		return nil
	}
	if s.compiled == nil || s.source != a.Mem.Script {
		if err := s.compile(a.Mem.Script); err != nil {
			return err
		}
	}

	cols, rows := 0, 0
	if ctx.Grid != nil {
		cols, rows = ctx.Grid.W, ctx.Grid.H
	}
	vars := map[string]any{
		"pos_x":  a.Pos.X,
		"pos_y":  a.Pos.Y,
		"tick":   ctx.Tick,
		"index":  a.Mem.RouteIndex,
		"tile":   ctx.TileSize,
		"cols":   cols,
		"rows":   rows,
		"dest_x": a.Pos.X,
		"dest_y": a.Pos.Y,
		"idle":   false,
	}
	for name, v := range vars {
		if err := s.compiled.Set(name, v); err != nil {
			return fmt.Errorf("behavior: script agent %d: set %s: %w", a.ID, name, err)
		}
	}
	if err := s.compiled.Run(); err != nil {
		return fmt.Errorf("behavior: script agent %d: %w", a.ID, err)
	}

	if s.compiled.Get("idle").Bool() {
		if a.Stalled() {
			a.Stop()
		}
		return nil
	}
	dest := geom.V(s.compiled.Get("dest_x").Float(), s.compiled.Get("dest_y").Float())
	a.Mem.RouteIndex++
	a.SetDestination(dest)
	return nil
}

func (s *scripted) compile(src string) error {
	if strings.TrimSpace(src) == "" {
		return fmt.Errorf("behavior: scripted role needs a script")
	}

	script := tengo.NewScript([]byte(src))
	for _, name := range []string{"pos_x", "pos_y", "tile", "dest_x", "dest_y"} {
		_ = script.Add(name, 0.0)
	}
	for _, name := range []string{"tick", "index", "cols", "rows"} {
		_ = script.Add(name, 0)
	}
	_ = script.Add("idle", false)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("behavior: compile script: %w", err)
	}
	s.source = src
	s.compiled = compiled
	return nil
}

// CompileScript reports whether src is a valid destination script.
func CompileScript(src string) error {
	return (&scripted{}).compile(src)
}
