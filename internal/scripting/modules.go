package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the engine.log and engine.dice tables into L.
// Log calls carry the namespace the VM was loaded for.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState, namespace string) {
	engine := L.NewTable()
	L.SetGlobal("engine", engine)

	logMod := L.NewTable()
	for name, level := range map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
	} {
		logFn := level
		L.SetField(logMod, name, L.NewFunction(func(L *lua.LState) int {
			logFn("lua: "+L.CheckString(1), zap.String("source", "lua"), zap.String("namespace", namespace))
			return 0
		}))
	}
	L.SetField(engine, "log", logMod)

	diceMod := L.NewTable()
	// engine.dice.chance(p) returns true with probability p.
	L.SetField(diceMod, "chance", L.NewFunction(func(L *lua.LState) int {
		p := float64(L.CheckNumber(1))
		L.Push(lua.LBool(m.src.Float64() < p))
		return 1
	}))
	// engine.dice.roll(n) returns an integer in [1, n].
	L.SetField(diceMod, "roll", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckInt(1)
		if n < 1 {
			L.ArgError(1, "sides must be >= 1")
			return 0
		}
		L.Push(lua.LNumber(m.src.Intn(n) + 1))
		return 1
	}))
	L.SetField(engine, "dice", diceMod)
}
