package factory

import (
	"fmt"

	"github.com/blackfinplus/sleighgen/internal/bitpattern"
	"github.com/blackfinplus/sleighgen/internal/family"
	"github.com/blackfinplus/sleighgen/internal/ir"
)

// NewMulti builds the 64-bit multi-issue bundle family: one 32-bit
// wide-slot instruction executing in parallel with two independent
// 16-bit narrow-slot instructions. The wide slot is fixed to NOP32
// (internal/factory/nop32.go); the narrow slots are drawn from {NOP16,
// ProgCtrl's RTS return}, giving four concrete variants, one per
// (A-slot, B-slot) pair -- a bounded cross product rather than every
// 32-bit family against every pair of 16-bit families. Every variant
// reserves word 0's top bit as the `m` bundle marker: the wide-slot
// pattern declares a 1-bit BundleMarker field ahead of NOP32's `sigH`,
// with `x3` narrowed from 11 to 10 bits to make room.
func NewMulti() *family.FamilyBuilder {
	fam := family.New64("Multi", "Multi-Issue Instruction Bundle", "mlt",
		wideSlotPattern())
	fam.SetMulti(true)
	fam.AddInstructions(multiFactory{})
	return fam
}

// bundleSlot16 describes one candidate 16-bit instruction usable as a
// narrow slot of a Multi bundle.
type bundleSlot16 struct {
	key     string
	proto   bitpattern.ProtoPattern
	display string
	pcode   ir.Code
}

func nop16BundleSlot() bundleSlot16 {
	return bundleSlot16{
		key: "Nop16",
		proto: bitpattern.ProtoPattern{Fields: []bitpattern.ProtoField{
			bitpattern.NewProtoField("sig", bitpattern.NewMask(0x0000), 16),
		}},
		display: "NOP",
	}
}

// returnRTSBundleSlot is ProgCtrl's Return factory narrowed to its RTS
// variant (internal/factory/progctrl16.go's returnFactory, reg index 0
// / 'S'): the representative non-trivial narrow slot used to exercise
// the bundle's register-hoisting mechanism's wiring (RETS is both read
// here and written by ProgCtrl's own Call variant, though Call is not
// one of the families bounded into this bundle's cross product).
// Field ids are prefixed "rts" (on top of the per-position "a"/"b" slot
// prefix materializeSlot applies) so they never collide with
// nop16BundleSlot's "sig" field: a bundle's two narrow-slot positions
// can each independently resolve to either candidate, and the token
// table's id->BitRange coherence invariant requires every occurrence of
// a given id across the whole family to agree on its range -- which a
// bare "sig" shared between a 16-bit-wide NOP field and an 8-bit-wide
// RTS sub-field would violate.
func returnRTSBundleSlot() bundleSlot16 {
	return bundleSlot16{
		key: "ReturnRTS",
		proto: bitpattern.ProtoPattern{Fields: []bitpattern.ProtoField{
			bitpattern.NewProtoField("rtssig", bitpattern.NewMask(0x00), 8),
			bitpattern.NewProtoField("rtsopc", bitpattern.NewMask(0x01), 4),
			bitpattern.NewProtoField("rtsreg", bitpattern.NewMask(0x0), 4),
		}},
		display: "RTS",
		pcode:   ir.NewCode(ir.Return(ir.Indirect(ir.Reg("RETS")))),
	}
}

func bundleSlotCandidates() []bundleSlot16 {
	return []bundleSlot16{nop16BundleSlot(), returnRTSBundleSlot()}
}

// wideSlotPattern is NOP32's base pattern (internal/factory/nop32.go)
// with a leading 1-bit `m` bundle marker and `x3` shortened to 10 bits,
// plus two reserved words. It returns fresh proto patterns on each call;
// buildMultiVariant materialises words 0 and 1 from it per variant.
func wideSlotPattern() [4]bitpattern.ProtoPattern {
	return [4]bitpattern.ProtoPattern{
		{Fields: []bitpattern.ProtoField{
			bitpattern.NewProtoField("m", bitpattern.NewBundleMarker(), 1),
			bitpattern.NewProtoField("sigH", bitpattern.NewMask(0x18), 5),
			bitpattern.NewProtoField("x3", bitpattern.NewMask(0x003), 10),
		}},
		{Fields: []bitpattern.ProtoField{
			bitpattern.NewProtoField("sigL", bitpattern.NewMask(0x1800), 16),
		}},
		{Fields: []bitpattern.ProtoField{
			bitpattern.NewProtoField("reserved", bitpattern.NewAny(), 16),
		}},
		{Fields: []bitpattern.ProtoField{
			bitpattern.NewProtoField("reserved", bitpattern.NewAny(), 16),
		}},
	}
}

// materializeSlot builds one 16-bit slot's fields, with every
// identifier prefixed so it stays unique within the bundle's combined
// 64-bit pattern.
func materializeSlot(proto bitpattern.ProtoPattern, prefix string) []bitpattern.Field {
	fields := bitpattern.FromWord(proto).Words()[0]
	out := make([]bitpattern.Field, len(fields))
	for i, f := range fields {
		nf := f
		nf.ID = prefix + f.ID
		out[i] = nf
	}
	return out
}

type multiFactory struct{}

func (multiFactory) BuildInstructions(fam *family.FamilyBuilder) []family.InstructionBuilder {
	slots := bundleSlotCandidates()

	var instrs []family.InstructionBuilder
	for _, a := range slots {
		for _, b := range slots {
			instrs = append(instrs, buildMultiVariant(fam, a, b))
		}
	}
	return instrs
}

func buildMultiVariant(fam *family.FamilyBuilder, a, b bundleSlot16) family.InstructionBuilder {
	wideWords := bitpattern.FromWord(wideSlotPattern()[0]).Words()[0]
	wideWord2 := bitpattern.FromWord(wideSlotPattern()[1]).Words()[0]

	aFields := materializeSlot(a.proto, "a")
	bFields := materializeSlot(b.proto, "b")

	pattern := bitpattern.FromFields([4][]bitpattern.Field{
		wideWords,
		wideWord2,
		aFields,
		bFields,
	})

	prelude, slotCodes := ir.HoistSharedRegisters([]ir.Code{a.pcode, b.pcode})
	aCode := slotCodes[0].RenamePrefix("a")
	bCode := slotCodes[1].RenamePrefix("b")

	instr := family.NewInstruction(fam).
		Name(fmt.Sprintf("%s%s", a.key, b.key)).
		Display(fmt.Sprintf("%s || %s", a.display, b.display)).
		SetPattern(pattern)

	for _, stmt := range prelude.Stmts {
		instr = instr.AddPcode(stmt)
	}
	for _, stmt := range aCode.Stmts {
		instr = instr.AddPcode(stmt)
	}
	for _, stmt := range bCode.Stmts {
		instr = instr.AddPcode(stmt)
	}

	return instr
}
