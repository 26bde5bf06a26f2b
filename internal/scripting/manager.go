package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// GlobalSet is the reserved key for scripts loaded via LoadGlobal.
// CallHook falls back to this VM when the named set has no VM.
const GlobalSet = "__global__"

// BattlerInfo is a snapshot of a battler passed to Lua hooks as a table with
// fields id, name, hp, max_hp, alive and skills (an array of names).
type BattlerInfo struct {
	ID     string
	Name   string
	HP     int
	MaxHP  int
	Skills []string
}

// Manager owns one sandboxed LState per script set and exposes hook dispatch.
//
// Manager is safe for concurrent CallHook after all loads complete. Calls to
// the same set are serialized.
type Manager struct {
	mu      sync.Mutex
	states  map[string]*lua.LState
	cancels map[string]func()
	limits  map[string]int
	src     dice.Source
	logger  *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: src and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no VMs loaded.
func NewManager(src dice.Source, logger *zap.Logger) *Manager {
	if src == nil {
		panic("scripting: NewManager called with nil source")
	}
	if logger == nil {
		panic("scripting: NewManager called with nil logger")
	}
	return &Manager{
		states:  make(map[string]*lua.LState),
		cancels: make(map[string]func()),
		limits:  make(map[string]int),
		src:     src,
		logger:  logger,
	}
}

// LoadSet creates a sandboxed VM for set, registers the engine module, then
// executes every *.lua file in scriptDir in lexicographic order. Loading a set
// again replaces its VM.
//
// Precondition: set must be non-empty; scriptDir must be a readable directory.
// Postcondition: The VM is registered; returns error on Lua load failure.
func (m *Manager) LoadSet(set, scriptDir string, instLimit int) error {
	return m.loadInto(set, scriptDir, instLimit)
}

// LoadGlobal loads scriptDir into the GlobalSet VM.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(GlobalSet, scriptDir, instLimit)
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	m.closeLocked(key)
	m.states[key] = L
	m.cancels[key] = cancel
	m.limits[key] = instLimit
	m.mu.Unlock()

	m.logger.Info("scripting: loaded script set",
		zap.String("set", key),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

func (m *Manager) closeLocked(key string) {
	if old, ok := m.states[key]; ok {
		if cancel := m.cancels[key]; cancel != nil {
			cancel()
		}
		old.Close()
		delete(m.states, key)
		delete(m.cancels, key)
		delete(m.limits, key)
	}
}

// Has reports whether set, or the global fallback, has a VM.
func (m *Manager) Has(set string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.states[set]
	_, global := m.states[GlobalSet]
	return ok || global
}

// CallHook calls the named Lua global function in set's VM, falling back to
// the GlobalSet VM. Go arguments are converted with ToLua. Returns (LNil, nil)
// when the hook or VM is missing. Lua runtime errors are logged at Warn level
// and never propagated.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(set, hook string, args ...any) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := set
	L, ok := m.states[key]
	if !ok {
		key = GlobalSet
		L = m.states[key]
	}
	if L == nil {
		m.logger.Info("scripting: no VM for set",
			zap.String("set", set),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	largs := make([]lua.LValue, 0, len(args))
	for _, a := range args {
		v, err := ToLua(L, a)
		if err != nil {
			return lua.LNil, fmt.Errorf("scripting: hook %q: %w", hook, err)
		}
		largs = append(largs, v)
	}

	// Each call gets a fresh instruction budget.
	ctx, cancel := newCountingContext(normalizeLimit(m.limits[key]))
	defer cancel()
	L.SetContext(ctx)

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, largs...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("set", set),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.states {
		m.closeLocked(key)
	}
}

// ToLua converts a supported Go value into a Lua value owned by L.
//
// Supported: nil, bool, int, float64, string, BattlerInfo, []BattlerInfo,
// []string and lua.LValue.
func ToLua(L *lua.LState, v any) (lua.LValue, error) {
	switch x := v.(type) {
	case nil:
		return lua.LNil, nil
	case lua.LValue:
		return x, nil
	case bool:
		return lua.LBool(x), nil
	case int:
		return lua.LNumber(x), nil
	case float64:
		return lua.LNumber(x), nil
	case string:
		return lua.LString(x), nil
	case []string:
		t := L.NewTable()
		for _, s := range x {
			t.Append(lua.LString(s))
		}
		return t, nil
	case BattlerInfo:
		return battlerTable(L, x), nil
	case []BattlerInfo:
		t := L.NewTable()
		for _, b := range x {
			t.Append(battlerTable(L, b))
		}
		return t, nil
	default:
		return lua.LNil, fmt.Errorf("unsupported argument type %T", v)
	}
}

func battlerTable(L *lua.LState, b BattlerInfo) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("id", lua.LString(b.ID))
	t.RawSetString("name", lua.LString(b.Name))
	t.RawSetString("hp", lua.LNumber(b.HP))
	t.RawSetString("max_hp", lua.LNumber(b.MaxHP))
	t.RawSetString("alive", lua.LBool(b.HP > 0))
	skills := L.NewTable()
	for _, s := range b.Skills {
		skills.Append(lua.LString(s))
	}
	t.RawSetString("skills", skills)
	return t
}
