package loader

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// ErrScript indicates a Lua script field failed to compile.
var ErrScript = errors.New("script compile failed")

// checkScript verifies that src compiles as a Lua chunk without running
// it.
func checkScript(src string) error {
	L := lua.NewState()
	defer L.Close()

	if _, err := L.LoadString(src); err != nil {
		return fmt.Errorf("%w: %v", ErrScript, err)
	}
	return nil
}

// stringScript compiles src and returns a computation that evaluates it
// per call, converting the chunk's return value to a string. Each call
// runs in a fresh Lua state; a runtime failure yields the empty string.
func stringScript(src string) (func() string, error) {
	if err := checkScript(src); err != nil {
		return nil, err
	}

	return func() string {
		L := lua.NewState()
		defer L.Close()

		if err := L.DoString(src); err != nil {
			return ""
		}
		return lua.LVAsString(L.Get(-1))
	}, nil
}

// boolScript compiles src into a computation returning a Lua truthiness
// result. A runtime failure yields false.
func boolScript(src string) (func() bool, error) {
	if err := checkScript(src); err != nil {
		return nil, err
	}

	return func() bool {
		L := lua.NewState()
		defer L.Close()

		if err := L.DoString(src); err != nil {
			return false
		}
		return lua.LVAsBool(L.Get(-1))
	}, nil
}

// listScript compiles src into a computation returning a string slice.
// The chunk is expected to return a table of strings; anything else
// yields nil.
func listScript(src string) (func() []string, error) {
	if err := checkScript(src); err != nil {
		return nil, err
	}

	return func() []string {
		L := lua.NewState()
		defer L.Close()

		if err := L.DoString(src); err != nil {
			return nil
		}

		table, ok := L.Get(-1).(*lua.LTable)
		if !ok {
			return nil
		}

		var out []string
		table.ForEach(func(_, v lua.LValue) {
			out = append(out, lua.LVAsString(v))
		})
		return out
	}, nil
}
