package factory

import (
	"strings"
	"testing"
)

// TestLoopSetupActionComputesLoopBounds checks the LSETUP action block:
// the loop-bottom address is derived from the scaled end offset in the
// action section, and the p-code seeds the loop top/bottom/count
// registers from those same locals.
func TestLoopSetupActionComputesLoopBounds(t *testing.T) {
	fam := NewLoopSetup()
	fam.InitializeTokensAndVars()
	text := fam.Build()

	if !strings.Contains(text, "endImm = inst_start + lpsEoffUImm * 0x2;") {
		t.Fatalf("missing end-offset action in:\n%s", text)
	}
	if !strings.Contains(text, "startImm = inst_start + lpsSoffUImm * 0x2;") {
		t.Fatalf("missing start-offset action in:\n%s", text)
	}
	for _, want := range []string{
		"LT0 = startImm;", "LB0 = endImm;", "LC0 = lpsRegPReg;",
		"LT1 = startImm;", "LB1 = endImm;",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing p-code statement %q in:\n%s", want, text)
		}
	}
}

// TestLoopSetupCounterSelectDivide checks the divide_field carve of the
// single counter-select bit: one sibling binds the LC0/LC1 name table,
// the other fixes the same bit as a literal mask per loop identity.
func TestLoopSetupCounterSelectDivide(t *testing.T) {
	fam := NewLoopSetup()
	fam.InitializeTokensAndVars()
	head := fam.BuildHead()

	if !strings.Contains(head, "lpsCRegLC") {
		t.Fatalf("missing counter-select name token in:\n%s", head)
	}
	if !strings.Contains(head, "lpsCMsk") {
		t.Fatalf("missing counter-select mask token in:\n%s", head)
	}
	if !strings.Contains(head, "attach names lpsCRegLC [LC0 LC1];") {
		t.Fatalf("missing LC name attachment in:\n%s", head)
	}

	text := fam.Build()
	if !strings.Contains(text, "lpsCMsk=0x0") || !strings.Contains(text, "lpsCMsk=0x1") {
		t.Fatalf("expected both loop identities fixed via cMsk in:\n%s", text)
	}
}

// TestLoopSetupImmTripCountImmediate checks the immediate form: the
// 10-bit trip count reassembles from its high and low fragments in the
// action block and lands in the selected loop counter.
func TestLoopSetupImmTripCountImmediate(t *testing.T) {
	fam := NewLoopSetupImm()
	fam.InitializeTokensAndVars()
	text := fam.Build()

	if !strings.Contains(text, "lcImm = (lpiImmHUImm << 0x6) | lpiImmLUImm;") {
		t.Fatalf("missing trip-count reassembly in:\n%s", text)
	}
	for _, want := range []string{"LC0 = lcImm;", "LC1 = lcImm;", "LT0 = inst_next;"} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing p-code statement %q in:\n%s", want, text)
		}
	}
}
