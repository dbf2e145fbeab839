package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/spellgo/engine/internal/core/ecs"
	"github.com/spellgo/engine/internal/world"
)

// AssetPrefix is the asset-id prefix under which loaded scripts resolve.
const AssetPrefix = world.ScriptAssetPrefix

// Engine wraps a single gopher-lua VM running event-handler scripts.
// Single-goroutine access only (frame loop).
type Engine struct {
	vm      *lua.LState
	log     *zap.Logger
	scripts map[string]*Script

	mgr *world.Manager
	ctx *lua.LTable
}

// Script is a loaded handler table. It is the asset an eventHandlers
// component binds to.
type Script struct {
	name     string
	handlers *lua.LTable
	engine   *Engine
}

// NewEngine creates a Lua engine and loads every script below scriptsDir.
// A script is registered as "script:<path without .lua>".
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, scripts: make(map[string]*Script)}
	if scriptsDir == "" {
		return e, nil
	}
	if err := e.loadDir(scriptsDir, ""); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory and its subdirectories.
func (e *Engine) loadDir(dir, prefix string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := e.loadDir(path, prefix+entry.Name()+"/"); err != nil {
				return err
			}
			continue
		}
		if filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		fn, err := e.vm.LoadFile(path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		name := prefix + strings.TrimSuffix(entry.Name(), ".lua")
		if err := e.register(name, fn); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path), zap.String("asset", AssetPrefix+name))
	}
	return nil
}

// LoadString compiles source and registers it under "script:<name>",
// replacing an earlier script of that name.
func (e *Engine) LoadString(name, source string) (*Script, error) {
	fn, err := e.vm.LoadString(source)
	if err != nil {
		return nil, fmt.Errorf("compile script %s: %w", name, err)
	}
	if err := e.register(name, fn); err != nil {
		return nil, err
	}
	return e.scripts[name], nil
}

// register runs a compiled chunk; its returned table maps event ids to
// handler functions.
func (e *Engine) register(name string, fn *lua.LFunction) error {
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}); err != nil {
		return fmt.Errorf("run script %s: %w", name, err)
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return fmt.Errorf("script %s returned %s, want a handler table", name, ret.Type())
	}
	e.scripts[name] = &Script{name: name, handlers: tbl, engine: e}
	return nil
}

// Asset resolves "script:<name>" ids to loaded scripts.
func (e *Engine) Asset(id string) (any, bool) {
	name, ok := strings.CutPrefix(id, AssetPrefix)
	if !ok {
		return nil, false
	}
	s, ok := e.scripts[name]
	if !ok {
		return nil, false
	}
	return s, true
}

// Names returns the asset ids of all loaded scripts.
func (e *Engine) Names() []string {
	out := make([]string, 0, len(e.scripts))
	for name := range e.scripts {
		out = append(out, AssetPrefix+name)
	}
	return out
}

// Bind attaches the engine to the world its handlers act on and builds the
// ctx table passed to every handler.
func (e *Engine) Bind(m *world.Manager) {
	e.mgr = m
	e.ctx = e.newContext(m)
}

// Close releases the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// Handler implements world.EventScript.
func (s *Script) Handler(eventID string) (world.Handler, bool) {
	fn, ok := s.handlers.RawGetString(eventID).(*lua.LFunction)
	if !ok {
		return nil, false
	}
	return func(m *world.Manager, id ecs.EntityID, args ...any) {
		s.engine.call(s.name, eventID, fn, m, id, args)
	}, true
}

// Name returns the script name without the asset prefix.
func (s *Script) Name() string { return s.name }

func (e *Engine) call(script, eventID string, fn *lua.LFunction, m *world.Manager, id ecs.EntityID, args []any) {
	if e.mgr != m || e.ctx == nil {
		e.Bind(m)
	}
	params := make([]lua.LValue, 0, len(args)+2)
	params = append(params, e.ctx, lua.LString(id))
	for _, a := range args {
		params = append(params, toLua(e.vm, a))
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, params...); err != nil {
		e.log.Error("lua handler error",
			zap.String("script", script),
			zap.String("event", eventID),
			zap.String("entity", string(id)),
			zap.Error(err),
		)
	}
}
