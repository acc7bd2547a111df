//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

var (
	// one runtime per goroutine, so unrelated goroutines never share an active-effect stack
	runtimes sync.Map

	// runtimes made current by Lock on a goroutine, innermost last
	entered sync.Map
)

// GetRuntime returns the runtime the calling goroutine is operating on:
// the innermost runtime it holds, or else its own.
func GetRuntime() *Runtime {
	if r := currentRuntime(); r != nil {
		return r
	}

	gid := goid.Get()
	if r, ok := runtimes.Load(gid); ok {
		return r.(*Runtime)
	}

	r, _ := runtimes.LoadOrStore(gid, NewRuntime())
	return r.(*Runtime)
}

// currentRuntime returns the innermost runtime made current on the calling goroutine, or nil.
func currentRuntime() *Runtime {
	if v, ok := entered.Load(goid.Get()); ok {
		if stack := *v.(*[]*Runtime); len(stack) > 0 {
			return stack[len(stack)-1]
		}
	}

	return nil
}

// ReleaseRuntime forgets the calling goroutine's runtime.
// Objects and effects created on it keep working through their own reference.
func ReleaseRuntime() {
	runtimes.Delete(goid.Get())
}

func enterRuntime(r *Runtime) {
	v, _ := entered.LoadOrStore(goid.Get(), &[]*Runtime{})
	stack := v.(*[]*Runtime)
	*stack = append(*stack, r)
}

func leaveRuntime() {
	gid := goid.Get()

	v, ok := entered.Load(gid)
	if !ok {
		return
	}

	stack := v.(*[]*Runtime)
	(*stack)[len(*stack)-1] = nil
	*stack = (*stack)[:len(*stack)-1]

	if len(*stack) == 0 {
		entered.Delete(gid)
	}
}
