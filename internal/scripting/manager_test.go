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
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/emberfall/internal/game/ai"
	"github.com/cory-johannsen/emberfall/internal/game/dice"
	"github.com/cory-johannsen/emberfall/internal/scripting"
)

var _ ai.ScriptCaller = (*scripting.Manager)(nil)

func newTestManager(t testing.TB) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	return scripting.NewManager(dice.NewLoggedRoller(dice.NewSeededSource(1), logger), logger), logs
}

func writeTempLua(t testing.TB, filename, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(src), 0644))
	return dir
}

func hasLevel(logs *observer.ObservedLogs, level zapcore.Level) bool {
	for _, e := range logs.All() {
		if e.Level == level {
			return true
		}
	}
	return false
}

func TestManager_LoadNamespace_CallsHook(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `
		function test_hook(a, b)
			return a + b
		end
	`)
	require.NoError(t, mgr.LoadNamespace("ai", dir, 0))
	ret, err := mgr.CallHook("ai", "test_hook", lua.LNumber(3), lua.LNumber(4))
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(7), ret)
	assert.Equal(t, []string{"ai"}, mgr.Namespaces())
}

func TestManager_LoadNamespace_RejectsEmptyName(t *testing.T) {
	mgr, _ := newTestManager(t)
	assert.Error(t, mgr.LoadNamespace("", t.TempDir(), 0))
}

func TestManager_CallHook_MissingHook_NoOp(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "empty.lua", `not_a_function = 5`)
	require.NoError(t, mgr.LoadNamespace("ai", dir, 0))

	for _, hook := range []string{"nonexistent_hook", "not_a_function"} {
		ret, err := mgr.CallHook("ai", hook)
		require.NoError(t, err)
		assert.Equal(t, lua.LNil, ret)
	}
}

func TestManager_CallHook_UnknownNamespace_LogsInfoReturnsNil(t *testing.T) {
	mgr, logs := newTestManager(t)
	ret, err := mgr.CallHook("no_such_namespace", "some_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.True(t, hasLevel(logs, zap.InfoLevel), "expected Info log for missing namespace")
}

func TestManager_CallHook_RuntimeError_WarnLogNoPanic(t *testing.T) {
	mgr, logs := newTestManager(t)
	dir := writeTempLua(t, "bad.lua", `
		function bad_hook()
			error("intentional error")
		end
	`)
	require.NoError(t, mgr.LoadNamespace("ai", dir, 0))
	ret, err := mgr.CallHook("ai", "bad_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.True(t, hasLevel(logs, zap.WarnLevel), "expected Warn log for Lua runtime error")
}

func TestManager_CallHook_RunawayHookIsStoppedAndVMStaysUsable(t *testing.T) {
	mgr, logs := newTestManager(t)
	dir := writeTempLua(t, "loop.lua", `
		function spin() while true do end end
		function ok() return true end
	`)
	require.NoError(t, mgr.LoadNamespace("ai", dir, 500))

	ret, err := mgr.CallHook("ai", "spin")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.True(t, hasLevel(logs, zap.WarnLevel))

	ret, err = mgr.CallHook("ai", "ok")
	require.NoError(t, err)
	assert.Equal(t, lua.LTrue, ret)
}

func TestManager_LoadGlobal_CallHookFallback(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "global.lua", `
		function global_hook()
			return 42
		end
	`)
	require.NoError(t, mgr.LoadGlobal(dir, 0))
	ret, err := mgr.CallHook("unknown", "global_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(42), ret)
}

func TestManager_LoadNamespace_EmptyDir_NoError(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadNamespace("empty", t.TempDir(), 0))
	ret, err := mgr.CallHook("empty", "anything")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_LoadNamespace_InvalidLua_ReturnsError(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "bad.lua", `this is not valid lua @@@@`)
	assert.Error(t, mgr.LoadNamespace("bad", dir, 0))
	assert.Empty(t, mgr.Namespaces())
}

func TestManager_LoadNamespace_MissingDir_ReturnsError(t *testing.T) {
	mgr, _ := newTestManager(t)
	assert.Error(t, mgr.LoadNamespace("ai", filepath.Join(t.TempDir(), "missing"), 0))
}

func TestManager_LoadNamespace_ReplacesPrevious(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadNamespace("ai", writeTempLua(t, "a.lua", `function v() return 1 end`), 0))
	require.NoError(t, mgr.LoadNamespace("ai", writeTempLua(t, "a.lua", `function v() return 2 end`), 0))
	ret, err := mgr.CallHook("ai", "v")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(2), ret)
}

func TestProperty_CallHookMissingNamespaceNeverPanics(t *testing.T) {
	mgr, _ := newTestManager(t)
	rapid.Check(t, func(rt *rapid.T) {
		ns := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "namespace")
		hook := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "hook")
		count := rapid.IntRange(1, 20).Draw(rt, "count")
		for i := 0; i < count; i++ {
			mgr.CallHook(ns, hook) //nolint:errcheck
		}
	})
}

func TestManager_CallHookConcurrentSameNamespace_NoRace(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `
		counter = 0
		function concurrent_hook(a, b)
			counter = counter + 1
			return a + b
		end
		function count() return counter end
	`)
	require.NoError(t, mgr.LoadNamespace("ai", dir, 0))

	const goroutines = 10
	const callsEach = 5
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < callsEach; j++ {
				ret, err := mgr.CallHook("ai", "concurrent_hook", lua.LNumber(1), lua.LNumber(2))
				assert.NoError(t, err)
				assert.Equal(t, lua.LNumber(3), ret)
			}
		}()
	}
	wg.Wait()

	ret, err := mgr.CallHook("ai", "count")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(goroutines*callsEach), ret)
}

func TestManager_LoadNamespace_MultipleFiles_OrderedByName(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`base_val = 10`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`
		function get_val() return base_val end
	`), 0644))
	require.NoError(t, mgr.LoadNamespace("ordered", dir, 0))
	ret, err := mgr.CallHook("ordered", "get_val")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(10), ret)
}

func TestNewManager_PanicsOnNilSource(t *testing.T) {
	assert.Panics(t, func() {
		scripting.NewManager(nil, zap.NewNop())
	})
}

func TestNewManager_PanicsOnNilLogger(t *testing.T) {
	assert.Panics(t, func() {
		scripting.NewManager(dice.NewSeededSource(1), nil)
	})
}

func TestManager_Close_ReleasesNamespaces(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "init.lua", `function get_x() return 1 end`)
	require.NoError(t, mgr.LoadNamespace("closing", dir, 0))
	mgr.Close()
	ret, err := mgr.CallHook("closing", "get_x")
	assert.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.Empty(t, mgr.Namespaces())
}
