// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package scenario

import (
	"context"
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// entryPoint is the global function a controller script must define.
const entryPoint = "orders"

// safeLibraries are opened in every controller state. os, io, debug and
// package are never loaded.
var safeLibraries = []struct {
	name string
	fn   lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// unsafeBaseFunctions reach the filesystem or compile code at runtime.
var unsafeBaseFunctions = []string{"dofile", "loadfile", "loadstring", "load", "require"}

// UnitView is the read-only unit record handed to the controller.
type UnitView struct {
	Name     string
	Type     string
	State    string
	Health   int
	X, Y     float64
	Alive    bool
	Cooldown int
}

// Controller runs a Lua script that returns order lines each tick. It is
// not safe for concurrent use.
type Controller struct {
	state *lua.LState
}

// NewController loads script into a sandboxed state and checks that it
// defines orders(tick, units).
func NewController(ctx context.Context, script string) (*Controller, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	for _, lib := range safeLibraries {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, ErrScriptFailed("open "+lib.name, 0, err)
		}
	}
	for _, fn := range unsafeBaseFunctions {
		L.SetGlobal(fn, lua.LNil)
	}

	L.SetContext(ctx)
	err := L.DoString(script)
	L.RemoveContext()
	if err != nil {
		L.Close()
		return nil, ErrScriptFailed("load", 0, err)
	}
	if L.GetGlobal(entryPoint).Type() != lua.LTFunction {
		L.Close()
		return nil, ErrScriptFailed("load", 0, fmt.Errorf("script does not define %s(tick, units)", entryPoint))
	}
	return &Controller{state: L}, nil
}

// Reply is what one orders call returned. Lines come from the array part of
// the returned table, in index order. Rejected counts entries that were not
// strings or sat outside the array part.
type Reply struct {
	Lines    []string
	Rejected int
}

// Orders calls orders(tick, units). A nil return means no orders.
func (c *Controller) Orders(ctx context.Context, tick uint64, units []UnitView) (Reply, error) {
	c.state.SetContext(ctx)
	defer c.state.RemoveContext()

	if err := c.state.CallByParam(lua.P{
		Fn:      c.state.GetGlobal(entryPoint),
		NRet:    1,
		Protect: true,
	}, lua.LNumber(tick), c.unitsTable(units)); err != nil {
		return Reply{}, ErrScriptFailed("call", tick, err)
	}

	ret := c.state.Get(-1)
	c.state.Pop(1)

	switch v := ret.(type) {
	case *lua.LNilType:
		return Reply{}, nil
	case *lua.LTable:
		return readReply(v), nil
	default:
		return Reply{}, ErrScriptFailed("call", tick, errors.New("orders must return a table of strings or nil"))
	}
}

// readReply walks the sequence 1..#tbl. Keyed entries are only counted, since
// table iteration order is not stable between runs.
func readReply(tbl *lua.LTable) Reply {
	n := tbl.Len()
	reply := Reply{Lines: make([]string, 0, n)}
	for i := 1; i <= n; i++ {
		line, ok := tbl.RawGetInt(i).(lua.LString)
		if !ok {
			reply.Rejected++
			continue
		}
		reply.Lines = append(reply.Lines, string(line))
	}
	tbl.ForEach(func(key, _ lua.LValue) {
		if idx, ok := key.(lua.LNumber); ok {
			if i := int(idx); lua.LNumber(i) == idx && i >= 1 && i <= n {
				return
			}
		}
		reply.Rejected++
	})
	return reply
}

// Close releases the Lua state.
func (c *Controller) Close() {
	c.state.Close()
}

func (c *Controller) unitsTable(units []UnitView) *lua.LTable {
	tbl := c.state.CreateTable(len(units), 0)
	for _, u := range units {
		row := c.state.CreateTable(0, 8)
		row.RawSetString("name", lua.LString(u.Name))
		row.RawSetString("type", lua.LString(u.Type))
		row.RawSetString("state", lua.LString(u.State))
		row.RawSetString("health", lua.LNumber(u.Health))
		row.RawSetString("x", lua.LNumber(u.X))
		row.RawSetString("y", lua.LNumber(u.Y))
		row.RawSetString("alive", lua.LBool(u.Alive))
		row.RawSetString("cooldown", lua.LNumber(u.Cooldown))
		tbl.Append(row)
	}
	return tbl
}
