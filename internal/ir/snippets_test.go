package ir_test

import (
	"strings"
	"testing"

	"github.com/blackfinplus/sleighgen/internal/bitpattern"
	"github.com/blackfinplus/sleighgen/internal/ir"
)

func renderSnippet(t *testing.T, code ir.Code) string {
	t.Helper()
	return ir.RenderCode(code, bitpattern.Pattern{}, "")
}

func TestSaturatingAddClampsThroughWiderLocal(t *testing.T) {
	code := ir.SaturatingAdd("X", ir.Var("r"), ir.Var("a"), ir.Var("b"),
		5, -0x80000000, 0x7fffffff)
	got := renderSnippet(t, code)

	for _, want := range []string{
		"local tmpX:5 = a + b;",
		"if (tmpX s> 0x7fffffff) goto <sat_hi_X>;",
		"if (tmpX s< -0x80000000) goto <sat_lo_X>;",
		"\n<sat_done_X>",
		"r = 0x7fffffff;",
		"r = -0x80000000;",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
}

func TestRuntimeShiftBranchesOnSign(t *testing.T) {
	code := ir.RuntimeShift("S", ir.Var("d"), ir.Var("s"), ir.Var("n"), false)
	got := renderSnippet(t, code)
	want := "\n\tif (n s>= 0x0) goto <shift_left_S>;" +
		"\n\td = s >> -n;" +
		"\n\tgoto <shift_done_S>;" +
		"\n<shift_left_S>" +
		"\n\td = s << n;" +
		"\n<shift_done_S>"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRuntimeShiftSaturatingUsesArithmeticLeftShift(t *testing.T) {
	code := ir.RuntimeShift("S", ir.Var("d"), ir.Var("s"), ir.Var("n"), true)
	got := renderSnippet(t, code)
	if !strings.Contains(got, "d = s s<< n;") {
		t.Fatalf("expected saturating left shift in:\n%s", got)
	}
}

func TestInvertedBranchGuardsBodyWithNegatedCondition(t *testing.T) {
	body := ir.NewCode(ir.Binary(ir.Var("x"), ir.Copy, ir.Number(1)))
	code := ir.InvertedBranch("B", ir.Binary(ir.Var("c"), ir.EQ, ir.Number(0)), body)
	got := renderSnippet(t, code)
	want := "\n\tif (!(c == 0x0)) goto <skip_B>;" +
		"\n\tx = 0x1;" +
		"\n<skip_B>"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestMinMaxSelectsComparator(t *testing.T) {
	min := renderSnippet(t, ir.MinMax("m", ir.Var("d"), ir.Var("a"), ir.Var("b"), false))
	if !strings.Contains(min, "if (a s< b) goto <minmax_a_m>;") {
		t.Fatalf("min comparator wrong in:\n%s", min)
	}
	max := renderSnippet(t, ir.MinMax("m", ir.Var("d"), ir.Var("a"), ir.Var("b"), true))
	if !strings.Contains(max, "if (a s> b) goto <minmax_a_m>;") {
		t.Fatalf("max comparator wrong in:\n%s", max)
	}
}

func TestSaturatingAbsHandlesMinIntOverflow(t *testing.T) {
	code := ir.SaturatingAbs("A", ir.Var("d"), ir.Var("v"), -0x8000, 0x7fff)
	got := renderSnippet(t, code)
	for _, want := range []string{
		"if (v s< 0x0) goto <abs_neg_A>;",
		"if (v == -0x8000) goto <abs_sat_A>;",
		"d = -v;",
		"d = 0x7fff;",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
}

// Label ids are salted with the caller-supplied suffix, so the same
// snippet inlined twice into one p-code body keeps its labels disjoint.
func TestSnippetLabelSalting(t *testing.T) {
	first := renderSnippet(t, ir.SaturatingTruncate("0", ir.Var("d"), ir.Var("v"), -0x80, 0x7f))
	second := renderSnippet(t, ir.SaturatingTruncate("1", ir.Var("d"), ir.Var("v"), -0x80, 0x7f))
	if strings.Contains(first, "<trunc_done_1>") || strings.Contains(second, "<trunc_done_0>") {
		t.Fatal("label suffixes leaked between snippet instances")
	}
}

func TestRotateThroughCarryShiftsCarryIntoLowBit(t *testing.T) {
	code := ir.RotateThroughCarry("R", ir.Var("d"), ir.Var("s"), ir.Reg("CC"), 32)
	got := renderSnippet(t, code)
	for _, want := range []string{
		"rotR = s >> 0x1f & 0x1;",
		"d = s << 0x1;",
		"d = d | CC;",
		"CC = rotR;",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
}
