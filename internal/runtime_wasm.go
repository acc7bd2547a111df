//go:build wasm

package internal

import "sync"

// wasm is single threaded, one runtime serves every goroutine
var (
	once          sync.Once
	globalRuntime *Runtime
)

func GetRuntime() *Runtime {
	once.Do(func() {
		globalRuntime = NewRuntime()
	})

	return globalRuntime
}

func currentRuntime() *Runtime { return GetRuntime() }

func ReleaseRuntime() {}

func enterRuntime(*Runtime) {}

func leaveRuntime() {}
