package factory

import (
	"strings"
	"testing"
)

// TestMultiBundleFourVariants checks that the cross product of two
// narrow-slot candidates in both the A and B positions yields exactly
// four variants, each gated on the `m` bit in its wrapper clause with a
// delayslot(4) on the m=1 form.
func TestMultiBundleFourVariants(t *testing.T) {
	fam := NewMulti()
	fam.InitializeTokensAndVars()
	text := fam.Build()

	if got := fam.Len(); got != 4 {
		t.Fatalf("expected 4 bundle variants, got %d", got)
	}

	for _, want := range []string{"mltM=0x0", "mltM=0x1", "delayslot(4)"} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in:\n%s", want, text)
		}
	}
}

// TestMultiBundleSlotFieldsArePrefixed checks the "multify" renaming:
// the A and B slots' token names must not collide even though both
// slots may be built from the same underlying candidate (e.g. Nop16 in
// both positions).
func TestMultiBundleSlotFieldsArePrefixed(t *testing.T) {
	fam := NewMulti()
	fam.InitializeTokensAndVars()
	text := fam.BuildHead()

	if !strings.Contains(text, "mltAsig") {
		t.Fatalf("missing A-slot token in:\n%s", text)
	}
	if !strings.Contains(text, "mltBsig") {
		t.Fatalf("missing B-slot token in:\n%s", text)
	}
}

// TestMultiBundleReturnSlotEmitsPcode checks that a narrow slot with a
// non-empty p-code body (the RTS return) carries its renamed statement
// into the variant's rendered p-code block.
func TestMultiBundleReturnSlotEmitsPcode(t *testing.T) {
	fam := NewMulti()
	fam.InitializeTokensAndVars()
	text := fam.Build()

	if !strings.Contains(text, "return [RETS]") {
		t.Fatalf("expected a return-slot variant's p-code in:\n%s", text)
	}
	if !strings.Contains(text, "RTS") {
		t.Fatalf("expected RTS display text in:\n%s", text)
	}
}
