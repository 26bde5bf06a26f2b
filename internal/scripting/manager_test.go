package scripting_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

func newTestManager(t testing.TB) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	mgr := scripting.NewManager(dice.NewSeededSource(7), zap.New(core))
	t.Cleanup(mgr.Close)
	return mgr, logs
}

func writeTempLua(t testing.TB, filename, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(src), 0644))
	return dir
}

func TestManager_LoadSet_CallsHook(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `
		function add(a, b)
			return a + b
		end
	`)
	require.NoError(t, mgr.LoadSet("slime", dir, 0))
	ret, err := mgr.CallHook("slime", "add", 3, 4)
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(7), ret)
}

func TestManager_CallHook_BattlerTables(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "ai.lua", `
		function describe(self, party)
			return self.name .. ":" .. #self.skills .. ":" .. #party .. ":" .. tostring(party[2].alive)
		end
	`)
	require.NoError(t, mgr.LoadSet("slime", dir, 0))
	self := scripting.BattlerInfo{ID: "e", Name: "Slime", HP: 10, MaxHP: 10, Skills: []string{"Ooze", "Bounce"}}
	party := []scripting.BattlerInfo{{Name: "Hero", HP: 5}, {Name: "Mage", HP: 0}}
	ret, err := mgr.CallHook("slime", "describe", self, party)
	require.NoError(t, err)
	assert.Equal(t, lua.LString("Slime:2:2:false"), ret)
}

func TestManager_CallHook_UnsupportedArgument(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `function f(x) return x end`)
	require.NoError(t, mgr.LoadSet("s", dir, 0))
	_, err := mgr.CallHook("s", "f", struct{}{})
	assert.Error(t, err)
}

func TestManager_CallHook_MissingHook_NoOp(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "empty.lua", `-- no functions`)
	require.NoError(t, mgr.LoadSet("s", dir, 0))
	ret, err := mgr.CallHook("s", "nonexistent_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_CallHook_UnknownSet_LogsInfoReturnsNil(t *testing.T) {
	mgr, logs := newTestManager(t)
	assert.False(t, mgr.Has("nope"))
	ret, err := mgr.CallHook("nope", "some_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterMessage("scripting: no VM for set").Len())
}

func TestManager_CallHook_RuntimeError_WarnLogNoPanic(t *testing.T) {
	mgr, logs := newTestManager(t)
	dir := writeTempLua(t, "bad.lua", `
		function bad_hook()
			error("intentional error")
		end
	`)
	require.NoError(t, mgr.LoadSet("s", dir, 0))
	ret, err := mgr.CallHook("s", "bad_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestManager_CallHook_FreshBudgetPerCall(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "loop.lua", `
		function spin()
			local n = 0
			for i = 1, 20 do n = n + i end
			return n
		end
	`)
	require.NoError(t, mgr.LoadSet("s", dir, 1000))
	for range 50 {
		ret, err := mgr.CallHook("s", "spin")
		require.NoError(t, err)
		require.Equal(t, lua.LNumber(210), ret)
	}
}

func TestManager_CallHook_RunawayScriptStopped(t *testing.T) {
	mgr, logs := newTestManager(t)
	dir := writeTempLua(t, "loop.lua", `function forever() while true do end end`)
	require.NoError(t, mgr.LoadSet("s", dir, 100))
	ret, err := mgr.CallHook("s", "forever")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestManager_LoadGlobal_CallHookFallback(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "global.lua", `function global_hook() return 42 end`)
	require.NoError(t, mgr.LoadGlobal(dir, 0))
	assert.True(t, mgr.Has("anything"))
	ret, err := mgr.CallHook("unknown", "global_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(42), ret)
}

func TestManager_EngineRandom(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "rnd.lua", `
		function roll(n)
			local v = engine.random(n)
			engine.log("rolled " .. v)
			return v
		end
	`)
	require.NoError(t, mgr.LoadSet("s", dir, 0))
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(rt, "n")
		ret, err := mgr.CallHook("s", "roll", n)
		require.NoError(rt, err)
		v, ok := ret.(lua.LNumber)
		require.True(rt, ok)
		assert.GreaterOrEqual(rt, int(v), 1)
		assert.LessOrEqual(rt, int(v), n)
	})
}

func TestManager_LoadSet_InvalidLua_ReturnsError(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "bad.lua", `this is not valid lua @@@@`)
	assert.Error(t, mgr.LoadSet("bad", dir, 0))
	assert.Error(t, mgr.LoadSet("missing", filepath.Join(t.TempDir(), "nope"), 0))
}

func TestManager_LoadSet_MultipleFiles_OrderedByName(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`base_val = 10`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`function get_val() return base_val end`), 0644))
	require.NoError(t, mgr.LoadSet("ordered", dir, 0))
	ret, err := mgr.CallHook("ordered", "get_val")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(10), ret)
}

func TestProperty_CallHookConcurrentSameSet_NoRace(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `function add(a, b) return a + b end`)
	require.NoError(t, mgr.LoadSet("conc", dir, 0))

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 5 {
				ret, err := mgr.CallHook("conc", "add", 1, 2)
				assert.NoError(t, err)
				assert.Equal(t, lua.LNumber(3), ret)
			}
		}()
	}
	wg.Wait()
}

func TestNewManager_PanicsOnNilArguments(t *testing.T) {
	assert.Panics(t, func() { scripting.NewManager(nil, zap.NewNop()) })
	assert.Panics(t, func() { scripting.NewManager(dice.NewCryptoSource(), nil) })
}

func TestManager_Close_ReleasesSets(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "init.lua", `function get_x() return 1 end`)
	require.NoError(t, mgr.LoadSet("s", dir, 0))
	mgr.Close()
	ret, err := mgr.CallHook("s", "get_x")
	assert.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}
