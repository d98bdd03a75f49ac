// Package handler implements the Canonical-ABI instruction handler: for
// each instruction in a function's trace, it mutates the operand stack and
// appends Go source text to the function body currently being built.
//
// The handler is direction-aware (§9): the same instruction name can
// require different Go for an import's host-function body than for an
// export's wrapper method, because the two sides disagree on which values
// already live in core-Wasm representation versus Go representation.
package handler

import (
	"fmt"

	"github.com/arcjet/gravity/internal/abi"
	"github.com/arcjet/gravity/internal/codegen/imports"
	"github.com/arcjet/gravity/internal/gotype"
	"github.com/arcjet/gravity/internal/operand"
)

// Ctx is the per-function state the handler reads and mutates while
// driving a trace: the operand stack (and its temp counter and emitted
// body), the direction, the Go expression that reaches the api.Module value
// in scope ("mod" for an import host function, "i.module" for an export
// method), the Go expression that reaches the user-supplied interface
// implementation an import host function dispatches to (e.g.
// "f.impl.Logging"), the file-wide required-imports set, and the ordered Go
// result types of the function currently being generated (used to render
// zero-value literals on early-return error paths).
type Ctx struct {
	*operand.Stack
	Direction abi.Direction
	Module    string
	Impl      string
	Realloc   string
	Imports   *imports.Set
	Results   []gotype.Type
}

// New creates a fresh per-function handler context. implExpr is unused for
// export methods (they never call OpCallInterface) and may be left empty.
// reallocExpr is the Go expression reaching the instance's cached
// cabi_realloc api.Function (e.g. "i.realloc"); it is unused for import host
// functions, which look cabi_realloc up by name on mod directly since they
// have no per-instance state to cache it in.
func New(fnName string, direction abi.Direction, moduleExpr, implExpr, reallocExpr string, req *imports.Set, results []gotype.Type) *Ctx {
	return &Ctx{
		Stack:     operand.New(fnName),
		Direction: direction,
		Module:    moduleExpr,
		Impl:      implExpr,
		Realloc:   reallocExpr,
		Imports:   req,
		Results:   results,
	}
}

// ReallocCall renders the Go expression that calls cabi_realloc with the
// given argument list already rendered as a comma-joined string. Export
// methods call through the instance's cached api.Function (retrieved once
// per instance, per §4.4); import host functions look it up on mod by name
// since a closure has no instance state of its own to cache it in.
func (c *Ctx) ReallocCall(args string) string {
	if c.Direction == abi.Export && c.Realloc != "" {
		return fmt.Sprintf("%s.Call(%s)", c.Realloc, args)
	}
	return fmt.Sprintf("%s.ExportedFunction(\"cabi_realloc\").Call(%s)", c.Module, args)
}

// zeroReturnList renders the comma-joined zero-value literals for an
// export's early-return path, with the last entry replaced by the supplied
// error expression.
func (c *Ctx) zeroReturnList(errExpr string) string {
	if len(c.Results) == 0 {
		return errExpr
	}
	parts := make([]string, 0, len(c.Results))
	for i, r := range c.Results {
		if i == len(c.Results)-1 {
			parts = append(parts, errExpr)
			continue
		}
		parts = append(parts, r.ZeroLiteral())
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}
