package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/owe/sim/internal/entity"
)

// Engine wraps a single gopher-lua VM holding the effect scripts.
// Single-goroutine access only: effects run inside the world lock.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every script in scriptsDir.
// A missing directory yields an engine with no functions.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load effect scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory, in name order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

// Effect returns an entity effect backed by the global Lua function fn.
// The function receives (kind, state) and returns the new state table.
func (e *Engine) Effect(fn string) (LuaEffect, error) {
	if _, ok := e.vm.GetGlobal(fn).(*lua.LFunction); !ok {
		return LuaEffect{}, fmt.Errorf("lua function %q not defined", fn)
	}
	return LuaEffect{Fn: fn, engine: e}, nil
}

// LuaEffect is comparable: two effects naming the same function in the
// same engine are equal.
type LuaEffect struct {
	Fn     string
	engine *Engine
}

func (l LuaEffect) Apply(ent entity.Entity) entity.Entity {
	if l.engine == nil || entity.IsRoad(ent) {
		return ent
	}
	return l.engine.call(l.Fn, ent)
}

func (e *Engine) call(name string, ent entity.Entity) entity.Entity {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Error("lua effect function not found", zap.String("fn", name))
		return ent
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(ent.Type().String()), e.stateTable(ent)); err != nil {
		e.log.Error("lua effect error", zap.String("fn", name), zap.Error(err))
		return ent
	}

	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	t, ok := ret.(*lua.LTable)
	if !ok {
		// nil or non-table return leaves the entity as it was
		return ent
	}
	return readState(ent, t)
}

func (e *Engine) commoditiesTable(m map[string]int) *lua.LTable {
	t := e.vm.NewTable()
	for k, v := range m {
		t.RawSetString(k, lua.LNumber(v))
	}
	return t
}

// stateTable packs the fields scripts may read. Properties are included
// read-only; only state fields are read back.
func (e *Engine) stateTable(ent entity.Entity) *lua.LTable {
	t := e.vm.NewTable()
	if name, ok := ent.Name(); ok {
		t.RawSetString("name", lua.LString(name))
	}
	switch v := ent.(type) {
	case entity.Resource:
		t.RawSetString("current_amount", lua.LNumber(v.State.CurrentAmount))
		t.RawSetString("max_amount", lua.LNumber(v.Props.MaxAmount))
	case entity.Structure:
		t.RawSetString("current_employees", lua.LNumber(v.State.CurrentEmployees))
		t.RawSetString("max_employees", lua.LNumber(v.Props.MaxEmployees))
		t.RawSetString("structure_type", lua.LString(v.Props.StructureType.String()))
		t.RawSetString("damage", lua.LNumber(v.State.Risk.Damage))
		t.RawSetString("fire", lua.LNumber(v.State.Risk.Fire))
		t.RawSetString("commodities", e.commoditiesTable(v.State.Commodities))
	case entity.Walker:
		if v.State.CurrentLife != nil {
			t.RawSetString("current_life", lua.LNumber(*v.State.CurrentLife))
		}
		if v.Props.MaxLife != nil {
			t.RawSetString("max_life", lua.LNumber(*v.Props.MaxLife))
		}
		t.RawSetString("commodities", e.commoditiesTable(v.State.Commodities))
	}
	return t
}

func intField(t *lua.LTable, key string, cur int) int {
	if n, ok := t.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return cur
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func readCommodities(t *lua.LTable, cur map[string]int) map[string]int {
	ct, ok := t.RawGetString("commodities").(*lua.LTable)
	if !ok {
		return cur
	}
	out := make(map[string]int)
	ct.ForEach(func(k, v lua.LValue) {
		name, ok1 := k.(lua.LString)
		n, ok2 := v.(lua.LNumber)
		if ok1 && ok2 && n > 0 {
			out[string(name)] = int(n)
		}
	})
	return out
}

// readState writes the returned table back into ent, which is already a
// private copy.
func readState(ent entity.Entity, t *lua.LTable) entity.Entity {
	switch v := ent.(type) {
	case entity.Doodad:
		if s, ok := t.RawGetString("name").(lua.LString); ok {
			v.Props.Name = string(s)
		}
		return v
	case entity.Resource:
		v.State.CurrentAmount = clamp(intField(t, "current_amount", v.State.CurrentAmount), 0, v.Props.MaxAmount)
		return v
	case entity.Structure:
		v.State.CurrentEmployees = clamp(intField(t, "current_employees", v.State.CurrentEmployees), 0, v.Props.MaxEmployees)
		v.State.Risk.Damage = intField(t, "damage", v.State.Risk.Damage)
		v.State.Risk.Fire = intField(t, "fire", v.State.Risk.Fire)
		v.State.Commodities = readCommodities(t, v.State.Commodities)
		return v
	case entity.Walker:
		if n, ok := t.RawGetString("current_life").(lua.LNumber); ok {
			v.State.CurrentLife = entity.Int(max(0, int(n)))
		}
		v.State.Commodities = readCommodities(t, v.State.Commodities)
		return v
	}
	return ent
}
