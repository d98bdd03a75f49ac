package abi

// CoreWidth reports how many core-Wasm stack slots a value of the given WIT
// shape occupies once lowered. Scalars occupy one slot; string and list
// lower to a (ptr, len) pair; option<string> adds a discriminant ahead of
// its string payload; result<_, string> is a bare discriminant and
// result<string, string> a discriminant ahead of the string payload. A
// record's width is the sum of its fields', recursively, matching the way
// RecordLower/RecordLift flatten a struct onto the surrounding trace
// (§4.4's "records and enums").
func CoreWidth(t WitType) int {
	return len(CoreTypesOf(t))
}

// CoreTypesOf returns the ordered core-Wasm types a value of shape t
// flattens to. Import codegen uses this to derive a host function's core
// parameter list from its WIT parameters (§4.5's "one Go core-typed
// parameter per Wasm core parameter"), and to size an export's expected
// result arity against what its lift/lower instruction sequence leaves on
// the operand stack.
func CoreTypesOf(t WitType) []CoreType {
	switch t.Kind {
	case WitBool, WitU8, WitS8, WitU16, WitS16, WitU32, WitS32, WitEnum:
		return []CoreType{CoreI32}
	case WitU64, WitS64:
		return []CoreType{CoreI64}
	case WitF32:
		return []CoreType{CoreF32}
	case WitF64:
		return []CoreType{CoreF64}
	case WitString, WitList:
		return []CoreType{CoreI32, CoreI32}
	case WitOptionString:
		return []CoreType{CoreI32, CoreI32, CoreI32}
	case WitResultStringErr:
		return []CoreType{CoreI32, CoreI32, CoreI32}
	case WitResultErrOnly:
		return []CoreType{CoreI32}
	case WitRecord:
		var out []CoreType
		for _, f := range t.Fields {
			out = append(out, CoreTypesOf(f.Type)...)
		}
		return out
	default:
		return []CoreType{CoreI32}
	}
}

// HasHeapPayload reports whether a value of shape t is lifted from or
// lowered into guest-owned linear memory (directly, or through a record
// field), and therefore needs a cabi_post_* release once an export
// returning it has been fully read.
func HasHeapPayload(t WitType) bool {
	switch t.Kind {
	case WitString, WitList, WitOptionString, WitResultStringErr:
		return true
	case WitRecord:
		for _, f := range t.Fields {
			if HasHeapPayload(f.Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
