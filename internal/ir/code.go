package ir

import "sort"

// Code is an ordered list of statements making up an action block or a
// p-code body. Represented as a plain slice rather than the Line
// cons-list used internally by Expr, since action/pcode bodies are
// built incrementally by factories via append, not by structural
// recursion.
type Code struct {
	Stmts []*Expr
}

// NewCode builds a Code from zero or more statements in order.
func NewCode(stmts ...*Expr) Code {
	return Code{Stmts: append([]*Expr(nil), stmts...)}
}

// Append returns a new Code with additional statements appended. Pure:
// does not mutate the receiver's backing array.
func (c Code) Append(stmts ...*Expr) Code {
	out := make([]*Expr, 0, len(c.Stmts)+len(stmts))
	out = append(out, c.Stmts...)
	out = append(out, stmts...)
	return Code{Stmts: out}
}

// Empty reports whether the block has no statements.
func (c Code) Empty() bool {
	return len(c.Stmts) == 0
}

// Len is the number of statements.
func (c Code) Len() int {
	return len(c.Stmts)
}

// RenamePrefix returns a copy of c with every Field and Var identifier
// prefixed. Used when a sub-instruction is embedded as one slot of a
// larger composite instruction -- the 64-bit multi-issue bundle's
// renaming pass -- to keep each slot's field/local names disjoint
// within the combined instruction. Reg, Label, and macro ids are left
// untouched: they name architectural registers and p-code-ops, which
// are shared, not per-slot.
func (c Code) RenamePrefix(prefix string) Code {
	out := make([]*Expr, len(c.Stmts))
	for i, s := range c.Stmts {
		out[i] = renamePrefix(s, prefix)
	}
	return Code{Stmts: out}
}

func renamePrefix(e *Expr, prefix string) *Expr {
	if e == nil {
		return nil
	}
	cp := *e
	if e.Kind == KField || e.Kind == KVar {
		cp.ID = prefix + e.ID
	}
	cp.Current = renamePrefix(e.Current, prefix)
	cp.Next = renamePrefix(e.Next, prefix)
	cp.Inner = renamePrefix(e.Inner, prefix)
	cp.LHS = renamePrefix(e.LHS, prefix)
	cp.RHS = renamePrefix(e.RHS, prefix)
	cp.Addr = renamePrefix(e.Addr, prefix)
	cp.Cond = renamePrefix(e.Cond, prefix)
	cp.Goto = renamePrefix(e.Goto, prefix)
	if e.Params != nil {
		cp.Params = make([]*Expr, len(e.Params))
		for i, p := range e.Params {
			cp.Params[i] = renamePrefix(p, prefix)
		}
	}
	return &cp
}

// FieldIDs collects every Pattern field id referenced by a Field leaf
// anywhere in c, in first-occurrence order with duplicates removed.
// Used by the model-consistency checker to confirm every field an
// action or p-code body names is actually declared in its owning
// instruction's Pattern.
func FieldIDs(c Code) []string {
	seen := map[string]bool{}
	var out []string
	var walk func(e *Expr)
	walk = func(e *Expr) {
		if e == nil {
			return
		}
		if e.Kind == KField && !seen[e.ID] {
			seen[e.ID] = true
			out = append(out, e.ID)
		}
		walk(e.Current)
		walk(e.Next)
		walk(e.Inner)
		walk(e.LHS)
		walk(e.RHS)
		walk(e.Addr)
		walk(e.Cond)
		walk(e.Goto)
		for _, p := range e.Params {
			walk(p)
		}
	}
	for _, s := range c.Stmts {
		walk(s)
	}
	return out
}

// HoistSharedRegisters implements the multi-issue bundle's register-
// snapshot mechanism: any architectural register one slot writes and a
// different slot reads gets its read occurrences in the other slot
// replaced by a local snapshot (old_<reg>) taken before any slot runs,
// since the bundle's slots execute in parallel and a reader in another
// slot must see the pre-bundle value, not the writer's result. Returns
// the prelude (one "local old_<reg>:4 = <reg>;" statement per hoisted
// register, in sorted name order for determinism) and the slots with
// their reads rewritten.
func HoistSharedRegisters(slots []Code) (prelude Code, updated []Code) {
	writer := map[string]int{}
	for i, slot := range slots {
		for _, s := range slot.Stmts {
			if s.Kind == KBinary && s.Op == Copy && s.LHS != nil && s.LHS.Kind == KReg {
				if _, ok := writer[s.LHS.ID]; !ok {
					writer[s.LHS.ID] = i
				}
			}
		}
	}

	hoisted := map[string]bool{}
	updated = make([]Code, len(slots))
	for i, slot := range slots {
		stmts := make([]*Expr, len(slot.Stmts))
		for j, s := range slot.Stmts {
			stmts[j] = hoistStmt(s, i, writer, hoisted)
		}
		updated[i] = Code{Stmts: stmts}
	}

	names := make([]string, 0, len(hoisted))
	for reg := range hoisted {
		names = append(names, reg)
	}
	sort.Strings(names)
	preludeStmts := make([]*Expr, len(names))
	for i, reg := range names {
		preludeStmts[i] = Binary(Local(Var("old_"+reg), 4), Copy, Reg(reg))
	}
	return Code{Stmts: preludeStmts}, updated
}

// hoistStmt rewrites one top-level statement: a register write's own
// LHS is never rewritten (it is the canonical write, always faithful to
// the slot's own sequential semantics), but its RHS -- and every other
// statement in its slot -- has reads of a register written by a
// *different* slot substituted with that register's hoisted name.
func hoistStmt(e *Expr, slotIdx int, writer map[string]int, hoisted map[string]bool) *Expr {
	if e == nil {
		return nil
	}
	if e.Kind == KLine {
		cp := *e
		cp.Current = hoistStmt(e.Current, slotIdx, writer, hoisted)
		cp.Next = hoistStmt(e.Next, slotIdx, writer, hoisted)
		return &cp
	}
	if e.Kind == KBinary && e.Op == Copy && e.LHS != nil && e.LHS.Kind == KReg {
		cp := *e
		cp.RHS = hoistExpr(e.RHS, slotIdx, writer, hoisted)
		return &cp
	}
	return hoistExpr(e, slotIdx, writer, hoisted)
}

func hoistExpr(e *Expr, slotIdx int, writer map[string]int, hoisted map[string]bool) *Expr {
	if e == nil {
		return nil
	}
	if e.Kind == KReg {
		if w, ok := writer[e.ID]; ok && w != slotIdx {
			hoisted[e.ID] = true
			return &Expr{Kind: KVar, ID: "old_" + e.ID}
		}
		return e
	}
	cp := *e
	cp.Current = hoistExpr(e.Current, slotIdx, writer, hoisted)
	cp.Next = hoistExpr(e.Next, slotIdx, writer, hoisted)
	cp.Inner = hoistExpr(e.Inner, slotIdx, writer, hoisted)
	cp.LHS = hoistExpr(e.LHS, slotIdx, writer, hoisted)
	cp.RHS = hoistExpr(e.RHS, slotIdx, writer, hoisted)
	cp.Addr = hoistExpr(e.Addr, slotIdx, writer, hoisted)
	cp.Cond = hoistExpr(e.Cond, slotIdx, writer, hoisted)
	cp.Goto = hoistExpr(e.Goto, slotIdx, writer, hoisted)
	if e.Params != nil {
		cp.Params = make([]*Expr, len(e.Params))
		for i, p := range e.Params {
			cp.Params[i] = hoistExpr(p, slotIdx, writer, hoisted)
		}
	}
	return &cp
}
