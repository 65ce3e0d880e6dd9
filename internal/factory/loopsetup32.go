package factory

import (
	"fmt"

	"github.com/blackfinplus/sleighgen/internal/bitpattern"
	"github.com/blackfinplus/sleighgen/internal/family"
	"github.com/blackfinplus/sleighgen/internal/ir"
)

// NewLoopSetup builds the LoopSetup family: the hardware zero-overhead
// loop setup forms (LSETUP/LSETUPZ/LSETUPLEZ) whose bottom/top bounds
// are PC-relative displacements and whose trip count is implicit,
// loaded from a P-register, or that register halved.
func NewLoopSetup() *family.FamilyBuilder {
	fam := family.New32("LoopSetup", "Virtually Zero Overhead Loop Mechanism", "lps",
		[2]bitpattern.ProtoPattern{
			{Fields: []bitpattern.ProtoField{
				bitpattern.NewProtoField("sig", bitpattern.NewMask(0x1c1), 9),
				bitpattern.NewProtoField("rop", bitpattern.NewBlank(), 2),
				bitpattern.NewProtoField("c", bitpattern.NewBlank(), 1),
				bitpattern.NewProtoField("soff", bitpattern.NewUImm(), 4),
			}},
			{Fields: []bitpattern.ProtoField{
				bitpattern.NewProtoField("imm", bitpattern.NewBlank(), 1),
				bitpattern.NewProtoField("reg", bitpattern.NewBlank(), 3),
				bitpattern.NewProtoField("lop", bitpattern.NewBlank(), 2),
				bitpattern.NewProtoField("eoff", bitpattern.NewUImm(), 10),
			}},
		})
	fam.AddInstructions(loopSetupFactory{})
	return fam
}

// NewLoopSetupImm builds the LoopSetupImm family: the same mechanism
// with the trip count supplied as a 10-bit immediate split across the
// top and bottom words.
func NewLoopSetupImm() *family.FamilyBuilder {
	fam := family.New32("LoopSetupImm", "Virtually Zero Overhead Loop Mechanism with Immediate Values", "lpi",
		[2]bitpattern.ProtoPattern{
			{Fields: []bitpattern.ProtoField{
				bitpattern.NewProtoField("sig", bitpattern.NewMask(0x1c1), 9),
				bitpattern.NewProtoField("rop", bitpattern.NewMask(0x2), 2),
				bitpattern.NewProtoField("c", bitpattern.NewBlank(), 1),
				bitpattern.NewProtoField("immH", bitpattern.NewUImm(), 4),
			}},
			{Fields: []bitpattern.ProtoField{
				bitpattern.NewProtoField("immL", bitpattern.NewUImm(), 6),
				bitpattern.NewProtoField("eoff", bitpattern.NewUImm(), 10),
			}},
		})
	fam.AddInstructions(loopSetupImmFactory{})
	return fam
}

// lop is the loop-form opcode: plain setup, or one of the two
// zero/non-positive trip-count short-circuit variants.
type lop int

const (
	lopSetup lop = iota
	lopSetupZ
	lopSetupLEZ
)

func (l lop) String() string {
	switch l {
	case lopSetupZ:
		return "LSETUPZ"
	case lopSetupLEZ:
		return "LSETUPLEZ"
	default:
		return "LSETUP"
	}
}

func (l lop) isDefault() bool { return l == lopSetup }

// rop is the trip-count source: none (implicit, set by a prior
// instruction), a P-register, or that register logically shifted
// right by one.
type rop int

const (
	ropNoLC rop = iota
	ropRegLC
	ropShftRegLC
)

func (r rop) display() string {
	switch r {
	case ropRegLC:
		return " = {reg}"
	case ropShftRegLC:
		return " = {reg} >> 1"
	default:
		return ""
	}
}

func (r rop) usesReg() bool { return r == ropRegLC || r == ropShftRegLC }

type loopSetupFactory struct{}

func loopDivideC(loopID bool) bitpattern.ProtoPattern {
	mask := uint16(0)
	if loopID {
		mask = 1
	}
	return bitpattern.ProtoPattern{Fields: []bitpattern.ProtoField{
		bitpattern.NewProtoField("cReg", bitpattern.NewVariable(bitpattern.LoopCounterSel), 1),
		bitpattern.NewProtoField("cMsk", bitpattern.NewMask(mask), 1),
	}}
}

func loopNames(loopID bool) (loopAct, lt, lb, lc string) {
	if loopID {
		return "loop1active", "LT1", "LB1", "LC1"
	}
	return "loop0active", "LT0", "LB0", "LC0"
}

func loopSetupBaseInstr(fam *family.FamilyBuilder, l lop, r rop, loopID bool) family.InstructionBuilder {
	loopAct, lt, lb, lc := loopNames(loopID)

	startImmPart := ""
	if l.isDefault() {
		startImmPart = "{$startImm}, "
	}
	display := fmt.Sprintf("%s ({$endImm}) %s{cReg}%s", l, startImmPart, r.display())

	instr := family.NewInstruction(fam).
		Name("LoopSetup").
		Display(display).
		SetFieldType("rop", bitpattern.NewMask(uint16(r))).
		SetFieldTypeOpt(r.usesReg(), "reg", bitpattern.NewVariable(bitpattern.PReg)).
		SetFieldType("lop", bitpattern.NewMask(uint16(l))).
		DivideField("c", loopDivideC(loopID)).
		AddAction(ir.Binary(ir.Var("endImm"), ir.Copy,
			ir.Binary(ir.Var("inst_start"), ir.Plus, ir.Binary(ir.Field("eoff"), ir.Mult, ir.Number(2))))).
		AddAction(ir.Binary(ir.Var(loopAct), ir.Copy, ir.Number(1))).
		AddAction(ir.Macro("globalset", ir.Var("endImm"), ir.Var(loopAct)))

	if l.isDefault() {
		instr = instr.AddAction(ir.Binary(ir.Var("startImm"), ir.Copy,
			ir.Binary(ir.Var("inst_start"), ir.Plus, ir.Binary(ir.Field("soff"), ir.Mult, ir.Number(2)))))
	} else {
		instr = instr.
			AddAction(ir.Binary(ir.Var("zloop"), ir.Copy, ir.Number(1))).
			AddAction(ir.Macro("globalset", ir.Var("endImm"), ir.Var("zloop")))
	}

	if l.isDefault() {
		instr = instr.AddPcode(ir.Binary(ir.Reg(lt), ir.Copy, ir.Var("startImm")))
	} else {
		instr = instr.AddPcode(ir.Binary(ir.Reg(lt), ir.Copy, ir.Var("inst_next")))
	}
	instr = instr.AddPcode(ir.Binary(ir.Reg(lb), ir.Copy, ir.Var("endImm")))

	switch r {
	case ropRegLC:
		instr = instr.AddPcode(ir.Binary(ir.Reg(lc), ir.Copy, ir.RegField("reg")))
	case ropShftRegLC:
		instr = instr.AddPcode(ir.Binary(ir.Reg(lc), ir.Copy, ir.Binary(ir.RegField("reg"), ir.RShift, ir.Number(1))))
	}

	switch l {
	case lopSetupZ:
		instr = instr.
			AddPcode(ir.IfGoto(ir.Binary(ir.Reg(lc), ir.GT, ir.Number(0)), ir.Label("end_setup"))).
			AddPcode(ir.Goto(ir.Indirect(ir.Size(ir.Var("endImm"), 4)))).
			AddPcode(ir.Label("end_setup"))
	case lopSetupLEZ:
		instr = instr.
			AddPcode(ir.IfGoto(ir.Binary(ir.Reg(lc), ir.GTS, ir.Number(0)), ir.Label("end_setup"))).
			AddPcode(ir.Binary(ir.Reg(lc), ir.Copy, ir.Number(0))).
			AddPcode(ir.Goto(ir.Indirect(ir.Size(ir.Var("endImm"), 4)))).
			AddPcode(ir.Label("end_setup"))
	}

	return instr
}

func (loopSetupFactory) BuildInstructions(fam *family.FamilyBuilder) []family.InstructionBuilder {
	var instrs []family.InstructionBuilder
	for _, r := range []rop{ropNoLC, ropRegLC, ropShftRegLC} {
		for _, loopID := range []bool{false, true} {
			instrs = append(instrs, loopSetupBaseInstr(fam, lopSetup, r, loopID))
		}
	}
	for _, l := range []lop{lopSetupZ, lopSetupLEZ} {
		for _, r := range []rop{ropRegLC, ropShftRegLC} {
			for _, loopID := range []bool{false, true} {
				instrs = append(instrs, loopSetupBaseInstr(fam, l, r, loopID))
			}
		}
	}
	return instrs
}

type loopSetupImmFactory struct{}

// loopSetupImmBaseInstr has no independent start-offset field (immH/immL
// occupy the bits the non-imm encoding spends on soff/reg/lop), so the
// loop top register takes the next instruction's address, the same
// fallback loopSetupBaseInstr uses for its Z/LEZ forms.
func loopSetupImmBaseInstr(fam *family.FamilyBuilder, loopID bool) family.InstructionBuilder {
	_, lt, lb, lc := loopNames(loopID)

	return family.NewInstruction(fam).
		Name("LoopSetup").
		Display("LSETUP ({$endImm}) {cReg} = {$lcImm}").
		DivideField("c", loopDivideC(loopID)).
		AddAction(ir.Binary(ir.Var("lcImm"), ir.Copy,
			ir.Binary(ir.Group(ir.Binary(ir.Field("immH"), ir.LShift, ir.Number(6))), ir.BitOr, ir.Field("immL")))).
		AddAction(ir.Binary(ir.Var("endImm"), ir.Copy,
			ir.Binary(ir.Var("inst_start"), ir.Plus, ir.Binary(ir.Field("eoff"), ir.Mult, ir.Number(2))))).
		AddAction(ir.Binary(ir.Var(loopNameActive(loopID)), ir.Copy, ir.Number(1))).
		AddAction(ir.Macro("globalset", ir.Var("endImm"), ir.Var(loopNameActive(loopID)))).
		AddPcode(ir.Binary(ir.Reg(lt), ir.Copy, ir.Var("inst_next"))).
		AddPcode(ir.Binary(ir.Reg(lb), ir.Copy, ir.Var("endImm"))).
		AddPcode(ir.Binary(ir.Reg(lc), ir.Copy, ir.Var("lcImm")))
}

func loopNameActive(loopID bool) string {
	if loopID {
		return "loop1active"
	}
	return "loop0active"
}

func (loopSetupImmFactory) BuildInstructions(fam *family.FamilyBuilder) []family.InstructionBuilder {
	return []family.InstructionBuilder{
		loopSetupImmBaseInstr(fam, false),
		loopSetupImmBaseInstr(fam, true),
	}
}
