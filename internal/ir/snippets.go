package ir

import "fmt"

// Snippets are small, reusable compound statement sequences that
// factories splice into an instruction's action or p-code body. Each
// snippet that needs a local label takes an id suffix so multiple uses
// within the same instruction don't collide.

// PushVal emits the stack-push sequence for val: SP always moves by a
// full word regardless of the pushed value's own width, and the value
// is truncated to size at the store (the push-pop family always
// reserves one word per slot).
func PushVal(val *Expr, size int) Code {
	sp := Reg("SP")
	return NewCode(Line(
		Binary(sp, Copy, Binary(sp, Minus, Number(4))),
		Line(Binary(Ptr("ram", sp, size), Copy, Trunc(val, size)), nil),
	))
}

// PopVal emits the stack-pop sequence for val: load from [SP] truncated
// to size, then move SP by a full word.
func PopVal(val *Expr, size int) Code {
	sp := Reg("SP")
	return NewCode(Line(
		Binary(Trunc(val, size), Copy, Ptr("ram", sp, size)),
		Line(Binary(sp, Copy, Binary(sp, Plus, Number(4))), nil),
	))
}

// SaturatingAdd computes dst = a + b in a wider local, then clamps to
// [min,max] before narrowing into dst.
func SaturatingAdd(id string, dst, a, b *Expr, workSize int, min, max int64) Code {
	tmp := Var("tmp" + id)
	wide := Local(tmp, workSize)
	return NewCode(
		Binary(wide, Copy, Binary(a, Plus, b)),
		IfGoto(Binary(tmp, GTS, Number(max)), Label("sat_hi_"+id)),
		IfGoto(Binary(tmp, LTS, Number(min)), Label("sat_lo_"+id)),
		Binary(dst, Copy, tmp),
		Goto(Label("sat_done_"+id)),
		Line(Label("sat_hi_"+id), nil),
		Binary(dst, Copy, Number(max)),
		Goto(Label("sat_done_"+id)),
		Line(Label("sat_lo_"+id), nil),
		Binary(dst, Copy, Number(min)),
		Line(Label("sat_done_"+id), nil),
	)
}

// SaturatingSub mirrors SaturatingAdd for subtraction.
func SaturatingSub(id string, dst, a, b *Expr, workSize int, min, max int64) Code {
	tmp := Var("tmp" + id)
	wide := Local(tmp, workSize)
	return NewCode(
		Binary(wide, Copy, Binary(a, Minus, b)),
		IfGoto(Binary(tmp, GTS, Number(max)), Label("sat_hi_"+id)),
		IfGoto(Binary(tmp, LTS, Number(min)), Label("sat_lo_"+id)),
		Binary(dst, Copy, tmp),
		Goto(Label("sat_done_"+id)),
		Line(Label("sat_hi_"+id), nil),
		Binary(dst, Copy, Number(max)),
		Goto(Label("sat_done_"+id)),
		Line(Label("sat_lo_"+id), nil),
		Binary(dst, Copy, Number(min)),
		Line(Label("sat_done_"+id), nil),
	)
}

// Rounded adds a half-ULP bias before truncation, the common
// round-to-nearest idiom used by the fractional multiply-accumulate
// instructions.
func Rounded(v *Expr, halfUlp int64) *Expr {
	return Binary(v, Plus, Number(halfUlp))
}

// SaturatingTruncate assigns v to dst, clamping to [min,max] first.
func SaturatingTruncate(id string, dst, v *Expr, min, max int64) Code {
	return NewCode(
		IfGoto(Binary(v, GTS, Number(max)), Label("trunc_hi_"+id)),
		IfGoto(Binary(v, LTS, Number(min)), Label("trunc_lo_"+id)),
		Binary(dst, Copy, v),
		Goto(Label("trunc_done_"+id)),
		Line(Label("trunc_hi_"+id), nil),
		Binary(dst, Copy, Number(max)),
		Goto(Label("trunc_done_"+id)),
		Line(Label("trunc_lo_"+id), nil),
		Binary(dst, Copy, Number(min)),
		Line(Label("trunc_done_"+id), nil),
	)
}

// InvertedBranch emits `if (!cond) goto label; <body>` followed by the
// label, the standard idiom for guarding a conditional action with an
// inverted test rather than duplicating the fallthrough path.
func InvertedBranch(id string, cond *Expr, body Code) Code {
	skip := Label("skip_" + id)
	stmts := []*Expr{IfGoto(Unary(Not, Group(cond)), skip)}
	stmts = append(stmts, body.Stmts...)
	stmts = append(stmts, Line(skip, nil))
	return Code{Stmts: stmts}
}

// RuntimeShift emits a shift whose direction is decided at runtime from
// the sign of amount (non-negative shifts left, negative shifts right by
// -amount), matching the variable-shift ALU instructions. saturate is
// fixed when the snippet is built and selects the arithmetic `s<<` for
// the left shift instead of the logical `<<`.
func RuntimeShift(id string, dst, src, amount *Expr, saturate bool) Code {
	left := Label("shift_left_" + id)
	done := Label("shift_done_" + id)
	stmts := []*Expr{
		IfGoto(Binary(amount, GES, Number(0)), left),
		Binary(dst, Copy, Binary(src, RShift, Unary(Minus, amount))),
		Goto(done),
		Line(left, nil),
	}
	if saturate {
		stmts = append(stmts, Binary(dst, Copy, Binary(src, ALShift, amount)))
	} else {
		stmts = append(stmts, Binary(dst, Copy, Binary(src, LShift, amount)))
	}
	stmts = append(stmts, Line(done, nil))
	return Code{Stmts: stmts}
}

// RotateThroughCarry emits a rotate-left-through-carry sequence: the
// bit shifted out becomes the new carry, and the old carry is shifted
// into the vacated low bit.
func RotateThroughCarry(id string, dst, src, carry *Expr, width int) Code {
	tmp := Var("rot" + id)
	topBit := Binary(src, RShift, Number(int64(width-1)))
	return NewCode(
		Binary(tmp, Copy, Binary(topBit, BitAnd, Number(1))),
		Binary(dst, Copy, Binary(src, LShift, Number(1))),
		Binary(dst, Copy, Binary(dst, BitOr, carry)),
		Binary(carry, Copy, tmp),
	)
}

// SaturatingAbs computes the saturating absolute value of v, clamping
// the one value (minInt) whose negation would overflow.
func SaturatingAbs(id string, dst, v *Expr, minInt, maxInt int64) Code {
	neg := Label("abs_neg_" + id)
	done := Label("abs_done_" + id)
	return NewCode(
		IfGoto(Binary(v, LTS, Number(0)), neg),
		Binary(dst, Copy, v),
		Goto(done),
		Line(neg, nil),
		IfGoto(Binary(v, EQ, Number(minInt)), Label("abs_sat_"+id)),
		Binary(dst, Copy, Unary(Minus, v)),
		Goto(done),
		Line(Label("abs_sat_"+id), nil),
		Binary(dst, Copy, Number(maxInt)),
		Line(done, nil),
	)
}

// MinMax emits dst = (a < b) ? a : b (or the reverse for max).
func MinMax(id string, dst, a, b *Expr, wantMax bool) Code {
	op := LTS
	if wantMax {
		op = GTS
	}
	useA := Label(fmt.Sprintf("minmax_a_%s", id))
	done := Label(fmt.Sprintf("minmax_done_%s", id))
	return NewCode(
		IfGoto(Binary(a, op, b), useA),
		Binary(dst, Copy, b),
		Goto(done),
		Line(useA, nil),
		Binary(dst, Copy, a),
		Line(done, nil),
	)
}
