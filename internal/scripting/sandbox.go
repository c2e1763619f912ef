// Package scripting provides a sandboxed GopherLua execution environment for
// content scripts such as enemy decision predicates. It has no dependency on
// game rules; scripts see only the values passed to each hook.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the maximum number of Lua opcodes allowed per
// script execution when no override is configured.
const DefaultInstructionLimit = 100_000

// opBudget is a context that cancels itself once Done has been polled more
// times than it has budget for. GopherLua polls Done once per opcode.
type opBudget struct {
	context.Context
	cancel context.CancelFunc
	left   atomic.Int64
}

func (b *opBudget) Done() <-chan struct{} {
	if b.left.Add(-1) < 0 {
		b.cancel()
	}
	return b.Context.Done()
}

// NewSandboxedState creates a GopherLua LState with only the base, table,
// string and math libraries, and with dofile, loadfile, load,
// collectgarbage and require removed.
//
// Postcondition: Returns a non-nil LState with no instruction budget set.
// The caller owns the LState and must call L.Close() when done.
func NewSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// WithBudget runs fn with L limited to instLimit opcodes, then clears the limit.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: L carries no context after return.
func WithBudget(L *lua.LState, instLimit int, fn func() error) error {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	budget := &opBudget{}
	budget.Context, budget.cancel = context.WithCancel(context.Background())
	budget.left.Store(int64(instLimit))
	L.SetContext(budget)
	defer func() {
		L.RemoveContext()
		budget.cancel()
	}()
	return fn()
}
