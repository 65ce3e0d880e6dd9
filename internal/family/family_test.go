package family_test

import (
	"strings"
	"testing"

	"github.com/blackfinplus/sleighgen/internal/bitpattern"
	"github.com/blackfinplus/sleighgen/internal/family"
)

type nopFactory struct{}

func (nopFactory) BuildInstructions(fam *family.FamilyBuilder) []family.InstructionBuilder {
	instr := family.NewInstruction(fam).Name("NOP").Display("NOP")
	return []family.InstructionBuilder{instr}
}

func newNOP16() *family.FamilyBuilder {
	fam := family.New16("NOP16", "16-bit Slot Nop", "nop", bitpattern.ProtoPattern{
		Fields: []bitpattern.ProtoField{
			bitpattern.NewProtoField("sig", bitpattern.NewMask(0x0000), 16),
		},
	})
	fam.AddInstructions(nopFactory{})
	fam.InitializeTokensAndVars()
	return fam
}

// TestNOP16LiteralDisplayConstructor checks that a constant-bits
// instruction with no operand placeholders synthesises a leading
// epsilon constructor carrying its literal display string.
func TestNOP16LiteralDisplayConstructor(t *testing.T) {
	fam := newNOP16()
	text := fam.Build()

	if !strings.Contains(text, `NOP16Desc00: "NOP" is epsilon {}`) {
		t.Fatalf("missing literal-display constructor in:\n%s", text)
	}
	if !strings.Contains(text, `NOP16:^"NOP" NOP16Desc00`) {
		t.Fatalf("missing main constructor line in:\n%s", text)
	}
	if !strings.Contains(text, "nopSig=0x0000") {
		t.Fatalf("missing refined mask field in:\n%s", text)
	}
	if !strings.Contains(text, "{}") {
		t.Fatalf("expected empty p-code block in:\n%s", text)
	}
}

func TestNOP16TokenTableDeclaresSigField(t *testing.T) {
	fam := newNOP16()
	text := fam.BuildHead()
	if !strings.Contains(text, "define token nopInstr16 (16)") {
		t.Fatalf("missing token table header in:\n%s", text)
	}
	if !strings.Contains(text, "nopSig") {
		t.Fatalf("missing sig token declaration in:\n%s", text)
	}
}

func TestFinalInstrWrapperClause(t *testing.T) {
	fam := newNOP16()
	text := fam.Build()
	if !strings.Contains(text, `:^NOP16 is NOP16 { build NOP16; }`) {
		t.Fatalf("missing base wrapper clause in:\n%s", text)
	}
}

type regFieldFactory struct{}

func (regFieldFactory) BuildInstructions(fam *family.FamilyBuilder) []family.InstructionBuilder {
	instr := family.NewInstruction(fam).
		SetFieldType("reg", bitpattern.NewVariable(bitpattern.DReg)).
		Name("Move").
		Display("MOVE {reg}")
	return []family.InstructionBuilder{instr}
}

func newRegFamily() *family.FamilyBuilder {
	fam := family.New16("RegFam", "register operand family", "rf", bitpattern.ProtoPattern{
		Fields: []bitpattern.ProtoField{
			bitpattern.NewProtoField("sig", bitpattern.NewMask(0x0000), 13),
			bitpattern.NewProtoField("reg", bitpattern.NewBlank(), 3),
		},
	})
	fam.AddInstructions(regFieldFactory{})
	fam.InitializeTokensAndVars()
	return fam
}

func TestAttachLineWidthDefaultsToEight(t *testing.T) {
	fam := newRegFamily()
	text := fam.BuildHead()
	if !strings.Contains(text, "attach variables rfRegDReg [R0 R1 R2 R3 R4 R5 R6 R7];") {
		t.Fatalf("expected a single-line attach with the default width in:\n%s", text)
	}
}

func TestAttachLineWidthOverrideWrapsRegisterList(t *testing.T) {
	fam := newRegFamily()
	fam.SetAttachLineWidth(4)
	text := fam.BuildHead()
	if !strings.Contains(text, "\tR0 R1 R2 R3\n\tR4 R5 R6 R7\n") {
		t.Fatalf("expected register list wrapped at width 4 in:\n%s", text)
	}
}

func TestAttachLineWidthIgnoresNonPositiveOverride(t *testing.T) {
	fam := newRegFamily()
	fam.SetAttachLineWidth(0)
	text := fam.BuildHead()
	if !strings.Contains(text, "attach variables rfRegDReg [R0 R1 R2 R3 R4 R5 R6 R7];") {
		t.Fatalf("expected default width retained in:\n%s", text)
	}
}

func TestMultiIssueWrapperEmitsBothDelaySlotVariants(t *testing.T) {
	fam := family.New32("Bundle64", "multi-issue bundle slot", "mb", [2]bitpattern.ProtoPattern{
		{Fields: []bitpattern.ProtoField{
			bitpattern.NewProtoField("m", bitpattern.NewBundleMarker(), 1),
			bitpattern.NewProtoField("sig", bitpattern.NewMask(0), 15),
		}},
		{Fields: []bitpattern.ProtoField{
			bitpattern.NewProtoField("rest", bitpattern.NewMask(0), 16),
		}},
	})
	fam.SetMulti(true)
	fam.AddInstructions(nopFactory{})
	fam.InitializeTokensAndVars()
	text := fam.Build()

	if !strings.Contains(text, "mbM=0x0") || !strings.Contains(text, "mbM=0x1") {
		t.Fatalf("expected both m-bit wrapper variants in:\n%s", text)
	}
	if !strings.Contains(text, "delayslot(4)") {
		t.Fatalf("expected delayslot(4) on the m=1 variant in:\n%s", text)
	}
}
