package handler

import (
	"fmt"
	"strings"

	"github.com/arcjet/gravity/internal/abi"
	"github.com/arcjet/gravity/internal/gotype"
	"github.com/arcjet/gravity/internal/gravityerr"
	"github.com/arcjet/gravity/internal/operand"
)

func castName(k gotype.Kind) string {
	switch k {
	case gotype.Byte:
		return "byte"
	case gotype.Uint32:
		return "uint32"
	case gotype.Uint64:
		return "uint64"
	case gotype.Float32:
		return "float32"
	case gotype.Float64:
		return "float64"
	case gotype.Bool:
		return "bool"
	case gotype.String:
		return "string"
	default:
		return "uint32"
	}
}

// failExpr renders the error-path statement for a failed memory operation:
// a panic for import host functions (no error channel to Wasm) or a
// zero-valued return plus errors.New(message) for export methods.
func failExpr(ctx *Ctx, message string) string {
	if ctx.Direction == abi.Import {
		return fmt.Sprintf("panic(%q)", message)
	}
	ctx.Imports.Add("errors")
	return fmt.Sprintf("return %s", ctx.zeroReturnList(fmt.Sprintf("errors.New(%q)", message)))
}

// Emit consumes instr's operands from ctx's stack and appends the Go
// source fragment implementing it, per §4.4.
func Emit(ctx *Ctx, instr abi.Instruction) error {
	switch instr.Op {
	case abi.OpLoadArg:
		return emitLoadArg(ctx, instr)
	case abi.OpNumCast:
		return emitNumCast(ctx, instr)
	case abi.OpBoolFromI32:
		return emitBoolFromI32(ctx)
	case abi.OpI32FromBool:
		return emitI32FromBool(ctx)
	case abi.OpStringLowerMemory:
		return emitStringLowerMemory(ctx)
	case abi.OpStringLiftMemory:
		return emitStringLiftMemory(ctx)
	case abi.OpListLowerMemory:
		return emitListLowerMemory(ctx, instr)
	case abi.OpListLiftMemory:
		return emitListLiftMemory(ctx, instr)
	case abi.OpRecordLower:
		return emitRecordLower(ctx, instr)
	case abi.OpRecordLift:
		return emitRecordLift(ctx, instr)
	case abi.OpEnumLower:
		return emitEnumLower(ctx, instr)
	case abi.OpEnumLift:
		return emitEnumLift(ctx, instr)
	case abi.OpOptionLower:
		return emitOptionLower(ctx, instr)
	case abi.OpOptionLift:
		return emitOptionLift(ctx, instr)
	case abi.OpResultLower:
		return emitResultLower(ctx, instr)
	case abi.OpResultLift:
		return emitResultLift(ctx, instr)
	case abi.OpCallWasm:
		return emitCallWasm(ctx, instr)
	case abi.OpCallInterface:
		return emitCallInterface(ctx, instr)
	case abi.OpPushLiteral:
		ctx.Push(operand.Lit(instr.LiteralExpr))
		return nil
	case abi.OpReturn:
		return emitReturn(ctx, instr)
	default:
		return fmt.Errorf("%w: unhandled instruction op %d", gravityerr.ErrInternal, instr.Op)
	}
}

// emitLoadArg pushes the named host-function core parameter(s) for one WIT
// parameter, so the lift instructions that the trace places right after it
// have an operand to pop.
func emitLoadArg(ctx *Ctx, instr abi.Instruction) error {
	if len(instr.ArgNames) == 1 {
		ctx.Push(operand.Var(instr.ArgNames[0]))
		return nil
	}
	ctx.Push(operand.Vars(instr.ArgNames...))
	return nil
}

// --- identity numeric / bool casts -----------------------------------------

func emitNumCast(ctx *Ctx, instr abi.Instruction) error {
	op, err := ctx.Pop()
	if err != nil {
		return err
	}
	ctx.Push(operand.LitF("%s(%s)", castName(instr.To), op.Ref()))
	return nil
}

func emitBoolFromI32(ctx *Ctx) error {
	op, err := ctx.Pop()
	if err != nil {
		return err
	}
	ctx.Push(operand.LitF("(%s != 0)", op.Ref()))
	return nil
}

func emitI32FromBool(ctx *Ctx) error {
	op, err := ctx.Pop()
	if err != nil {
		return err
	}
	tmp := ctx.NewTemp("value")
	ctx.Emit("var %s uint32", tmp)
	ctx.Emit("if %s {", op.Ref())
	ctx.Emit("\t%s = 1", tmp)
	ctx.Emit("}")
	ctx.Push(operand.Var(tmp))
	return nil
}

// --- strings ----------------------------------------------------------------

// coreAddrType is the Go numeric type ptr/len pairs are expressed in: for
// an export lowering a Go value to call into the guest, api.Function.Call
// takes []uint64, so the pair is produced directly as uint64 (CallWasm
// still wraps every argument in uint64(...), which is a no-op for these
// values). For an import returning a
// value to the guest, the pair must be the true core i32 (Go uint32)
// return type of the host function.
func coreAddrType(ctx *Ctx) string {
	if ctx.Direction == abi.Export {
		return "uint64"
	}
	return "uint32"
}

func emitStringLowerMemory(ctx *Ctx) error {
	ctx.Imports.Add("context")
	s, err := ctx.Pop()
	if err != nil {
		return err
	}
	addrTy := coreAddrType(ctx)
	if s.Kind == operand.Literal && s.Expr == `""` {
		ctx.Push(operand.Vars(fmt.Sprintf("%s(1)", addrTy), fmt.Sprintf("%s(0)", addrTy)))
		return nil
	}
	ptr := ctx.NewTemp("ptr")
	ln := ctx.NewTemp("len")
	res := ctx.NewTemp("raw")
	ctx.Emit("%s := %s(1)", ptr, addrTy)
	ctx.Emit("%s := %s(0)", ln, addrTy)
	ctx.Emit("if len(%s) > 0 {", s.Ref())
	ctx.Emit("\t%s, err := %s", res, ctx.ReallocCall(fmt.Sprintf("ctx, 0, 0, 1, uint64(len(%s))", s.Ref())))
	ctx.Emit("\tif err != nil {")
	ctx.Emit("\t\t%s", failExpr(ctx, "failed to allocate guest memory"))
	ctx.Emit("\t}")
	ctx.Emit("\t%s = %s(%s[0])", ptr, addrTy, res)
	ctx.Emit("\t%s = %s(len(%s))", ln, addrTy, s.Ref())
	ctx.Emit("\tif !%s.Memory().Write(uint32(%s), []byte(%s)) {", ctx.Module, ptr, s.Ref())
	ctx.Emit("\t\t%s", failExpr(ctx, "failed to write bytes to memory"))
	ctx.Emit("\t}")
	ctx.Emit("}")
	ctx.Push(operand.Vars(ptr, ln))
	return nil
}

func emitStringLiftMemory(ctx *Ctx) error {
	pair, err := ctx.Pop()
	if err != nil {
		return err
	}
	if pair.Kind != operand.Multi || len(pair.Names) != 2 {
		return fmt.Errorf("%w: StringLiftMemory expects a (ptr, len) operand", gravityerr.ErrInternal)
	}
	ptrExpr, lenExpr := pair.Names[0], pair.Names[1]
	buf := ctx.NewTemp("buf")
	ok := ctx.NewTemp("ok")
	str := ctx.NewTemp("str")
	ctx.Emit("%s, %s := %s.Memory().Read(uint32(%s), uint32(%s))", buf, ok, ctx.Module, ptrExpr, lenExpr)
	ctx.Emit("if !%s {", ok)
	ctx.Emit("\t%s", failExpr(ctx, "failed to read bytes from memory"))
	ctx.Emit("}")
	ctx.Emit("%s := string(%s)", str, buf)
	ctx.Push(operand.Var(str))
	return nil
}

// --- lists --------------------------------------------------------------

func elemStride(elem gotype.Type) int {
	switch elem.Kind {
	case gotype.Byte, gotype.Bool:
		return 1
	case gotype.Uint32, gotype.Float32:
		return 4
	case gotype.Uint64, gotype.Float64:
		return 8
	default:
		return 4
	}
}

func emitListLowerMemory(ctx *Ctx, instr abi.Instruction) error {
	l, err := ctx.Pop()
	if err != nil {
		return err
	}
	addrTy := coreAddrType(ctx)
	stride := elemStride(instr.Elem)
	ptr := ctx.NewTemp("ptr")
	ln := ctx.NewTemp("len")
	res := ctx.NewTemp("raw")
	ctx.Emit("%s := %s(1)", ptr, addrTy)
	ctx.Emit("%s := %s(0)", ln, addrTy)
	ctx.Emit("if len(%s) > 0 {", l.Ref())
	ctx.Emit("\t%s, err := %s", res, ctx.ReallocCall(fmt.Sprintf("ctx, 0, 0, %d, uint64(len(%s)*%d)", stride, l.Ref(), stride)))
	ctx.Emit("\tif err != nil {")
	ctx.Emit("\t\t%s", failExpr(ctx, "failed to allocate guest memory"))
	ctx.Emit("\t}")
	ctx.Emit("\t%s = %s(%s[0])", ptr, addrTy, res)
	ctx.Emit("\t%s = %s(len(%s))", ln, addrTy, l.Ref())
	ctx.Emit("\tbuf := make([]byte, 0, len(%s)*%d)", l.Ref(), stride)
	ctx.Emit("\tfor _, v := range %s {", l.Ref())
	emitListElemLower(ctx, instr.Elem, "\t\t")
	ctx.Emit("\t}")
	ctx.Emit("\tif !%s.Memory().Write(uint32(%s), buf) {", ctx.Module, ptr)
	ctx.Emit("\t\t%s", failExpr(ctx, "failed to write bytes to memory"))
	ctx.Emit("\t}")
	ctx.Emit("}")
	ctx.Push(operand.Vars(ptr, ln))
	return nil
}

// emitListElemLower appends the statements that encode one element v (from
// a `range` over the Go slice) into buf, matching the element's own width
// (elemStride) rather than always writing 4 bytes: a 1-byte element is
// copied directly, a float element goes through its IEEE-754 bit pattern,
// and everything else uses the little-endian encoding of its own width.
func emitListElemLower(ctx *Ctx, elem gotype.Type, indent string) {
	switch elem.Kind {
	case gotype.Byte:
		ctx.Emit("%sbuf = append(buf, byte(v))", indent)
	case gotype.Bool:
		ctx.Emit("%sif v {", indent)
		ctx.Emit("%s\tbuf = append(buf, 1)", indent)
		ctx.Emit("%s} else {", indent)
		ctx.Emit("%s\tbuf = append(buf, 0)", indent)
		ctx.Emit("%s}", indent)
	case gotype.Uint64:
		ctx.Emit("%sbuf = binary.LittleEndian.AppendUint64(buf, uint64(v))", indent)
		ctx.Imports.Add("encoding/binary")
	case gotype.Float32:
		ctx.Emit("%sbuf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))", indent)
		ctx.Imports.Add("encoding/binary")
		ctx.Imports.Add("math")
	case gotype.Float64:
		ctx.Emit("%sbuf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))", indent)
		ctx.Imports.Add("encoding/binary")
		ctx.Imports.Add("math")
	default:
		ctx.Emit("%sbuf = binary.LittleEndian.AppendUint32(buf, uint32(v))", indent)
		ctx.Imports.Add("encoding/binary")
	}
}

func emitListLiftMemory(ctx *Ctx, instr abi.Instruction) error {
	pair, err := ctx.Pop()
	if err != nil {
		return err
	}
	if pair.Kind != operand.Multi || len(pair.Names) != 2 {
		return fmt.Errorf("%w: ListLiftMemory expects a (ptr, len) operand", gravityerr.ErrInternal)
	}
	ptrExpr, lenExpr := pair.Names[0], pair.Names[1]
	stride := elemStride(instr.Elem)
	buf := ctx.NewTemp("buf")
	ok := ctx.NewTemp("ok")
	val := ctx.NewTemp("value")
	ctx.Emit("%s, %s := %s.Memory().Read(uint32(%s), uint32(%s)*%d)", buf, ok, ctx.Module, ptrExpr, lenExpr, stride)
	ctx.Emit("if !%s {", ok)
	ctx.Emit("\t%s", failExpr(ctx, "failed to read bytes from memory"))
	ctx.Emit("}")
	ctx.Emit("%s := make([]%s, %s)", val, instr.Elem.GoString(), lenExpr)
	ctx.Emit("for i := range %s {", val)
	emitListElemLift(ctx, instr.Elem, val, buf, stride, "\t")
	ctx.Emit("}")
	ctx.Push(operand.Var(val))
	return nil
}

// emitListElemLift appends the statement that decodes element i of buf back
// into val[i], matching the element's own width (stride) rather than
// always reading 4 bytes: a 1-byte element is copied directly, a float
// element goes through its IEEE-754 bit pattern, and everything else reads
// the little-endian encoding of its own width.
func emitListElemLift(ctx *Ctx, elem gotype.Type, val, buf string, stride int, indent string) {
	switch elem.Kind {
	case gotype.Byte:
		ctx.Emit("%s%s[i] = %s[i]", indent, val, buf)
	case gotype.Bool:
		ctx.Emit("%s%s[i] = %s[i] != 0", indent, val, buf)
	case gotype.Uint64:
		ctx.Emit("%s%s[i] = %s(binary.LittleEndian.Uint64(%s[i*%d:]))", indent, val, elem.GoString(), buf, stride)
		ctx.Imports.Add("encoding/binary")
	case gotype.Float32:
		ctx.Emit("%s%s[i] = math.Float32frombits(binary.LittleEndian.Uint32(%s[i*%d:]))", indent, val, buf, stride)
		ctx.Imports.Add("encoding/binary")
		ctx.Imports.Add("math")
	case gotype.Float64:
		ctx.Emit("%s%s[i] = math.Float64frombits(binary.LittleEndian.Uint64(%s[i*%d:]))", indent, val, buf, stride)
		ctx.Imports.Add("encoding/binary")
		ctx.Imports.Add("math")
	default:
		ctx.Emit("%s%s[i] = %s(binary.LittleEndian.Uint32(%s[i*%d:]))", indent, val, elem.GoString(), buf, stride)
		ctx.Imports.Add("encoding/binary")
	}
}

// --- records --------------------------------------------------------------
//
// A record's fields are siblings: converting field i must not disturb the
// not-yet-converted operands for fields i+1..n still waiting below it on
// the stack. A single linear pop/push cannot express that once a field's
// conversion leaves its result sitting on top, so RecordLower and
// RecordLift instead drive each field's own lower/lift instructions as an
// isolated push-then-immediately-drain step against the very same stack:
// push the field's raw value, run its instructions to completion, pop the
// one operand they leave behind, and only then move on to the next field.
// The stack's net effect across the whole record is one operand in and one
// operand out (the struct value in and the flattened field values out, or
// the reverse), with no sibling ever left stranded mid-conversion.

// emitRecordLower leaves exactly one operand behind for the record as a
// whole, like every other lower instruction: each field's own lower
// sequence is driven to completion and its result flattened into a single
// combined operand, so a record nested inside another record's field is
// indistinguishable, from the enclosing RecordLower's point of view, from a
// plain string or list field.
func emitRecordLower(ctx *Ctx, instr abi.Instruction) error {
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	var names []string
	for i, wf := range instr.WitFields {
		goName := instr.Type.Fields[i].GoName
		ctx.Push(operand.Lit(fmt.Sprintf("%s.%s", v.Ref(), goName)))
		sub, err := abi.ValueLowerInstrs(wf.Type)
		if err != nil {
			return err
		}
		for _, si := range sub {
			if err := Emit(ctx, si); err != nil {
				return err
			}
		}
		fieldResult, err := ctx.Pop()
		if err != nil {
			return err
		}
		if fieldResult.Kind == operand.Multi {
			names = append(names, fieldResult.Names...)
		} else {
			names = append(names, fieldResult.Ref())
		}
	}
	if len(names) == 1 {
		ctx.Push(operand.Lit(names[0]))
		return nil
	}
	ctx.Push(operand.Vars(names...))
	return nil
}

func emitRecordLift(ctx *Ctx, instr abi.Instruction) error {
	raw, err := ctx.Pop()
	if err != nil {
		return err
	}
	var refs []string
	if raw.Kind == operand.Multi {
		refs = raw.Names
	} else {
		refs = []string{raw.Ref()}
	}
	fieldResults := make([]operand.Operand, len(instr.WitFields))
	idx := 0
	for i, wf := range instr.WitFields {
		width := abi.CoreWidth(wf.Type)
		if idx+width > len(refs) {
			return fmt.Errorf("%w: record %s field %d needs %d core values, only %d remain", gravityerr.ErrInternal, instr.Type.Name, i, width, len(refs)-idx)
		}
		if width == 1 {
			ctx.Push(operand.Lit(refs[idx]))
		} else {
			ctx.Push(operand.Vars(refs[idx:idx+width]...))
		}
		idx += width
		sub, err := abi.ValueLiftInstrs(wf.Type)
		if err != nil {
			return err
		}
		for _, si := range sub {
			if err := Emit(ctx, si); err != nil {
				return err
			}
		}
		fieldResults[i], err = ctx.Pop()
		if err != nil {
			return err
		}
	}
	parts := make([]string, len(fieldResults))
	for i, f := range instr.Type.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.GoName, fieldResults[i].Ref())
	}
	tmp := ctx.NewTemp("value")
	joined := ""
	for i, p := range parts {
		if i > 0 {
			joined += ", "
		}
		joined += p
	}
	ctx.Emit("%s := %s{%s}", tmp, instr.Type.Name, joined)
	ctx.Push(operand.Var(tmp))
	return nil
}

// --- enums ------------------------------------------------------------------

func emitEnumLower(ctx *Ctx, instr abi.Instruction) error {
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	ctx.Push(operand.LitF("uint32(%s)", v.Ref()))
	return nil
}

func emitEnumLift(ctx *Ctx, instr abi.Instruction) error {
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	tmp := ctx.NewTemp("value")
	ctx.Emit("if %s >= %d {", v.Ref(), len(instr.Type.Variants))
	ctx.Emit("\t%s", failExpr(ctx, "invalid "+instr.Type.Name+" discriminant"))
	ctx.Emit("}")
	ctx.Emit("%s := %s(%s)", tmp, instr.Type.Name, v.Ref())
	ctx.Push(operand.Var(tmp))
	return nil
}

// --- option -----------------------------------------------------------------

// emitOptionLower lowers a Go *string into the Canonical ABI's (discriminant,
// ptr, len) triple. option<T> is only supported for T = string in the
// current floor (§6.3), so the payload lowering is folded directly into
// this instruction rather than delegated to a following StringLowerMemory
// step: the allocate-and-write sequence below only needs to run inside the
// "v != nil" branch, and the operand stack's flat instruction-at-a-time
// model has no way to nest a later instruction's emission inside an
// earlier one's if-block.
func emitOptionLower(ctx *Ctx, instr abi.Instruction) error {
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	ctx.Imports.Add("context")
	addrTy := coreAddrType(ctx)
	disc := ctx.NewTemp("value")
	ptr := ctx.NewTemp("ptr")
	ln := ctx.NewTemp("len")
	res := ctx.NewTemp("raw")
	ctx.Emit("%s := %s(0)", disc, addrTy)
	ctx.Emit("%s := %s(1)", ptr, addrTy)
	ctx.Emit("%s := %s(0)", ln, addrTy)
	ctx.Emit("if %s != nil {", v.Ref())
	ctx.Emit("\t%s = %s(1)", disc, addrTy)
	ctx.Emit("\tif len(*%s) > 0 {", v.Ref())
	ctx.Emit("\t\t%s, err := %s", res, ctx.ReallocCall(fmt.Sprintf("ctx, 0, 0, 1, uint64(len(*%s))", v.Ref())))
	ctx.Emit("\t\tif err != nil {")
	ctx.Emit("\t\t\t%s", failExpr(ctx, "failed to allocate guest memory"))
	ctx.Emit("\t\t}")
	ctx.Emit("\t\t%s = %s(%s[0])", ptr, addrTy, res)
	ctx.Emit("\t\t%s = %s(len(*%s))", ln, addrTy, v.Ref())
	ctx.Emit("\t\tif !%s.Memory().Write(uint32(%s), []byte(*%s)) {", ctx.Module, ptr, v.Ref())
	ctx.Emit("\t\t\t%s", failExpr(ctx, "failed to write bytes to memory"))
	ctx.Emit("\t\t}")
	ctx.Emit("\t}")
	ctx.Emit("}")
	ctx.Push(operand.Vars(disc, ptr, ln))
	return nil
}

// emitOptionLift mirrors emitOptionLower: it pops the whole (discriminant,
// ptr, len) triple as one operand, rather than relying on a preceding
// instruction to have already turned the payload into a Go string, since
// reading guest memory must not happen on the "none" branch.
func emitOptionLift(ctx *Ctx, instr abi.Instruction) error {
	raw, err := ctx.Pop()
	if err != nil {
		return err
	}
	var refs []string
	if raw.Kind == operand.Multi {
		refs = raw.Names
	} else {
		refs = []string{raw.Ref()}
	}
	if len(refs) != 3 {
		return fmt.Errorf("%w: OptionLift expects a (disc, ptr, len) operand, got %d values", gravityerr.ErrInternal, len(refs))
	}
	discExpr, ptrExpr, lenExpr := refs[0], refs[1], refs[2]
	tmp := ctx.NewTemp("value")
	buf := ctx.NewTemp("buf")
	ok := ctx.NewTemp("ok")
	ctx.Emit("var %s *%s", tmp, instr.Elem.GoString())
	ctx.Emit("switch %s {", discExpr)
	ctx.Emit("case 0:")
	ctx.Emit("case 1:")
	ctx.Emit("\t%s, %s := %s.Memory().Read(uint32(%s), uint32(%s))", buf, ok, ctx.Module, ptrExpr, lenExpr)
	ctx.Emit("\tif !%s {", ok)
	ctx.Emit("\t\t%s", failExpr(ctx, "failed to read bytes from memory"))
	ctx.Emit("\t}")
	ctx.Emit("\t%sVal := string(%s)", tmp, buf)
	ctx.Emit("\t%s = &%sVal", tmp, tmp)
	ctx.Emit("default:")
	ctx.Emit("\t%s", failExpr(ctx, "invalid option discriminant"))
	ctx.Emit("}")
	ctx.Push(operand.Var(tmp))
	return nil
}

// --- result -------------------------------------------------------------

// emitResultLower is not reached by any trace BuildImportTrace or
// BuildExportTrace currently constructs (import results reject result<_,
// string> outright, per §9's open question on non-string error payloads;
// export results are lifted, never lowered). It is kept for structural
// symmetry with emitResultLift and as the extension point a future
// result-typed import parameter would need.
func emitResultLower(ctx *Ctx, instr abi.Instruction) error {
	var errOp operand.Operand
	var okOp operand.Operand
	var err error
	if instr.OkType != nil {
		errOp, err = ctx.Pop()
		if err != nil {
			return err
		}
		okOp, err = ctx.Pop()
		if err != nil {
			return err
		}
	} else {
		errOp, err = ctx.Pop()
		if err != nil {
			return err
		}
	}
	addrTy := coreAddrType(ctx)
	disc := ctx.NewTemp("value")
	ctx.Emit("%s := %s(0)", disc, addrTy)
	ctx.Emit("if %s != nil {", errOp.Ref())
	ctx.Emit("\t%s = %s(1)", disc, addrTy)
	ctx.Emit("}")
	if instr.OkType != nil {
		ctx.Push(operand.Vars(disc, okOp.Ref(), errOp.Ref()))
		return nil
	}
	ctx.Push(operand.Vars(disc, errOp.Ref()))
	return nil
}

// emitResultLift pops the whole (discriminant, ptr, len) triple CallWasm
// left behind (or the bare discriminant for result<_, string>) as one
// operand: the ok and err arms of result<string, string> share the same
// memory region, so the payload bytes are read exactly once and then
// routed to the ok or err return value based on the discriminant.
func emitResultLift(ctx *Ctx, instr abi.Instruction) error {
	raw, err := ctx.Pop()
	if err != nil {
		return err
	}
	var refs []string
	if raw.Kind == operand.Multi {
		refs = raw.Names
	} else {
		refs = []string{raw.Ref()}
	}
	if len(refs) == 0 {
		return fmt.Errorf("%w: ResultLift expects at least a discriminant", gravityerr.ErrInternal)
	}
	discExpr := refs[0]
	errTmp := ctx.NewTemp("err")
	ctx.Imports.Add("errors")

	if instr.OkType == nil {
		ctx.Emit("var %s error", errTmp)
		ctx.Emit("if %s != 0 {", discExpr)
		ctx.Emit("\t%s = errors.New(\"wasm call failed\")", errTmp)
		ctx.Emit("}")
		ctx.Push(operand.Var(errTmp))
		return nil
	}

	if len(refs) != 3 {
		return fmt.Errorf("%w: ResultLift with a string payload expects (disc, ptr, len), got %d values", gravityerr.ErrInternal, len(refs))
	}
	ptrExpr, lenExpr := refs[1], refs[2]
	buf := ctx.NewTemp("buf")
	ok := ctx.NewTemp("ok")
	ctx.Emit("%s, %s := %s.Memory().Read(uint32(%s), uint32(%s))", buf, ok, ctx.Module, ptrExpr, lenExpr)
	ctx.Emit("if !%s {", ok)
	ctx.Emit("\t%s", failExpr(ctx, "failed to read bytes from memory"))
	ctx.Emit("}")
	payload := ctx.NewTemp("str")
	ctx.Emit("%s := string(%s)", payload, buf)
	okTmp := ctx.NewTemp("value")
	ctx.Emit("var %s string", okTmp)
	ctx.Emit("var %s error", errTmp)
	ctx.Emit("if %s != 0 {", discExpr)
	ctx.Emit("\t%s = errors.New(%s)", errTmp, payload)
	ctx.Emit("} else {")
	ctx.Emit("\t%s = %s", okTmp, payload)
	ctx.Emit("}")
	ctx.Push(operand.Var(okTmp))
	ctx.Push(operand.Var(errTmp))
	return nil
}

// --- control ----------------------------------------------------------------

func coreGoType(c abi.CoreType) string {
	switch c {
	case abi.CoreI32:
		return "uint32"
	case abi.CoreI64:
		return "uint64"
	case abi.CoreF32:
		return "float32"
	case abi.CoreF64:
		return "float64"
	default:
		return "uint64"
	}
}

// emitCallWasm drains every operand the param-lowering sequence left on the
// stack (one per WIT parameter; a record parameter leaves a single operand
// holding all of its fields — see the RecordLower/RecordLift comment above)
// and flattens
// each into its constituent core-Wasm argument(s): CoreParams counts
// flattened slots, but the stack holds one operand per value that may
// itself be a multi-slot Multi operand, so the two are walked separately.
func emitCallWasm(ctx *Ctx, instr abi.Instruction) error {
	ops, err := ctx.PopN(ctx.Len())
	if err != nil {
		return err
	}
	var args []string
	for _, op := range ops {
		if op.Kind == operand.Multi {
			for _, n := range op.Names {
				args = append(args, fmt.Sprintf("uint64(%s)", n))
			}
			continue
		}
		args = append(args, fmt.Sprintf("uint64(%s)", op.Ref()))
	}
	raw := ctx.NewTemp("raw")
	argList := "ctx"
	for _, a := range args {
		argList += ", " + a
	}
	ctx.Emit("%s, err := %s.ExportedFunction(%q).Call(%s)", raw, ctx.Module, instr.WasmFuncName, argList)
	ctx.Emit("if err != nil {")
	ctx.Emit("\t%s", failExpr(ctx, "call to "+instr.WasmFuncName+" failed"))
	ctx.Emit("}")
	if instr.PostReturnName != "" {
		ctx.Emit("defer func() {")
		ctx.Emit("\tif _, err := %s.ExportedFunction(%q).Call(ctx, %s...); err != nil {", ctx.Module, instr.PostReturnName, raw)
		ctx.Emit("\t\tpanic(err)")
		ctx.Emit("\t}")
		ctx.Emit("}()")
	}
	if len(instr.CoreResults) == 0 {
		return nil
	}
	if len(instr.CoreResults) == 1 {
		ctx.Push(operand.LitF("%s(%s[0])", coreGoType(instr.CoreResults[0]), raw))
		return nil
	}
	names := make([]string, len(instr.CoreResults))
	for i, c := range instr.CoreResults {
		names[i] = fmt.Sprintf("%s(%s[%d])", coreGoType(c), raw, i)
	}
	ctx.Push(operand.Vars(names...))
	return nil
}

func emitCallInterface(ctx *Ctx, instr abi.Instruction) error {
	n := len(instr.ParamTypes)
	ops, err := ctx.PopN(n)
	if err != nil {
		return err
	}
	args := make([]string, len(ops))
	for i, op := range ops {
		args[i] = op.Ref()
	}
	argList := "ctx"
	for _, a := range args {
		argList += ", " + a
	}
	call := fmt.Sprintf("%s.%s(%s)", ctx.Impl, instr.MethodName, argList)
	if instr.ResultType == nil {
		ctx.Emit("%s", call)
		return nil
	}
	tmp := ctx.NewTemp("value")
	ctx.Emit("%s := %s", tmp, call)
	ctx.Push(operand.Var(tmp))
	return nil
}

// emitReturn drains every operand left on the stack, in the order each was
// originally pushed, expanding Multi operands into their constituent names,
// and renders the function's terminal return statement. The preceding
// instructions in the trace are responsible for leaving the right number of
// values behind (a lift/lower sequence, OpCallInterface's bool/enum
// shortcut, and the implicit nil pushed for an export's error-free WIT
// result); Return itself only assembles what it finds.
func emitReturn(ctx *Ctx, instr abi.Instruction) error {
	ops, err := ctx.PopN(ctx.Len())
	if err != nil {
		return err
	}
	var refs []string
	for _, op := range ops {
		if op.Kind == operand.Multi {
			refs = append(refs, op.Names...)
		} else {
			refs = append(refs, op.Ref())
		}
	}
	if len(refs) != len(instr.Results) {
		return fmt.Errorf("%w: return needs %d values, found %d", gravityerr.ErrInternal, len(instr.Results), len(refs))
	}
	if len(refs) == 0 {
		ctx.Emit("return")
		return nil
	}
	ctx.Emit("return %s", strings.Join(refs, ", "))
	return nil
}
