// Package factory implements the concrete instruction-variant
// generators (one Go type per Blackfin+ mnemonic family) that populate
// a family.FamilyBuilder.
package factory

import (
	"fmt"
	"strings"

	"github.com/blackfinplus/sleighgen/internal/bitpattern"
	"github.com/blackfinplus/sleighgen/internal/family"
	"github.com/blackfinplus/sleighgen/internal/ir"
)

// imaskGlobal is the symbolic hardware interrupt-mask register
// referenced by IMaskFactory and SyncFactory.
const imaskGlobal = "IMASK"

// NewProgCtrl builds the Basic Program Sequencer Control Functions
// family: returns, sync/idle/exception modes, interrupt-mask moves,
// indirect jumps/calls, software exceptions, atomic test-and-set, and
// the combined STI+IDLE form.
func NewProgCtrl() *family.FamilyBuilder {
	fam := family.New16("ProgCtrl", "Basic Program Sequencer Control Functions", "pgc",
		bitpattern.ProtoPattern{Fields: []bitpattern.ProtoField{
			bitpattern.NewProtoField("sig", bitpattern.NewMask(0x00), 8),
			bitpattern.NewProtoField("opc", bitpattern.NewBlank(), 4),
			bitpattern.NewProtoField("reg", bitpattern.NewBlank(), 4),
		}})

	for _, op := range []string{"idle", "csync", "ssync", "emuexcpt", "raise", "excpt"} {
		fam.AddPcodeop(op)
	}

	fam.AddInstructions(returnFactory{})
	fam.AddInstructions(syncModeFactory{})
	fam.AddInstructions(imaskFactory{})
	fam.AddInstructions(jumpFactory{})
	fam.AddInstructions(callFactory{})
	fam.AddInstructions(raiseFactory{})
	fam.AddInstructions(testSetFactory{})
	fam.AddInstructions(syncFactory{})
	return fam
}

// regInstr splits the family's shared "reg" field into a fixed one-bit
// mask prefix (regH) and a three-bit residual (regL), the convention
// used by every ProgCtrl variant that operates on a register operand.
func regInstr(instr family.InstructionBuilder) family.InstructionBuilder {
	return instr.SplitField("reg", bitpattern.ProtoPattern{Fields: []bitpattern.ProtoField{
		bitpattern.NewProtoField("regH", bitpattern.NewMask(0x0), 1),
		bitpattern.NewProtoField("regL", bitpattern.NewBlank(), 3),
	}})
}

type returnFactory struct{}

func (returnFactory) BuildInstructions(fam *family.FamilyBuilder) []family.InstructionBuilder {
	var instrs []family.InstructionBuilder
	retregs := "SIXNE"
	for i, c := range retregs {
		instr := family.NewInstruction(fam).
			SetFieldType("opc", bitpattern.NewMask(0x01)).
			SetFieldType("reg", bitpattern.NewMask(uint16(i))).
			Name("Return").
			Display(fmt.Sprintf("RT%c", c)).
			AddPcode(ir.Return(ir.Indirect(ir.Reg("RET" + string(c)))))
		instrs = append(instrs, instr)
	}
	return instrs
}

type syncModeFactory struct{}

func (syncModeFactory) BuildInstructions(fam *family.FamilyBuilder) []family.InstructionBuilder {
	type variant struct {
		reg     uint16
		name    string
		pcodeop string
	}
	variants := []variant{
		{0x0, "Sync", "idle"},
		{0x3, "Sync", "csync"},
		{0x4, "Sync", "ssync"},
		{0x5, "Mode", "emuexcpt"},
	}
	instrs := make([]family.InstructionBuilder, 0, len(variants))
	for _, v := range variants {
		instrs = append(instrs, family.NewInstruction(fam).
			SetFieldType("opc", bitpattern.NewMask(0x02)).
			SetFieldType("reg", bitpattern.NewMask(v.reg)).
			Name(v.name).
			Display(strings.ToUpper(v.pcodeop)).
			AddPcode(ir.Macro(v.pcodeop)))
	}
	return instrs
}

type imaskFactory struct{}

func (imaskFactory) baseInstr(fam *family.FamilyBuilder) family.InstructionBuilder {
	return regInstr(family.NewInstruction(fam)).
		Name("IMaskMv").
		SetFieldType("regL", bitpattern.NewVariable(bitpattern.DReg)).
		AddPcode(ir.Binary(ir.Local(ir.Var(imaskGlobal+"Addr"), 4), ir.Copy, ir.Var(imaskGlobal)))
}

func (f imaskFactory) BuildInstructions(fam *family.FamilyBuilder) []family.InstructionBuilder {
	addr := ir.Var(imaskGlobal + "Addr")
	return []family.InstructionBuilder{
		f.baseInstr(fam).
			SetFieldType("opc", bitpattern.NewMask(0x3)).
			Display("CLI {regL}").
			AddPcode(ir.Binary(ir.RegField("regL"), ir.Copy, ir.Ptr("ram", addr, 4))).
			AddPcode(ir.Binary(ir.Ptr("ram", addr, 4), ir.Copy, ir.Number(0))),
		f.baseInstr(fam).
			SetFieldType("opc", bitpattern.NewMask(0x4)).
			Display("STI {regL}").
			AddPcode(ir.Binary(ir.Ptr("ram", addr, 4), ir.Copy, ir.RegField("regL"))),
	}
}

func gotoInstr(fam *family.FamilyBuilder) family.InstructionBuilder {
	return regInstr(family.NewInstruction(fam)).
		SetFieldType("regL", bitpattern.NewVariable(bitpattern.PReg))
}

type jumpFactory struct{}

func (jumpFactory) baseInstr(fam *family.FamilyBuilder, pc bool) family.InstructionBuilder {
	prefix := ""
	target := ir.RegField("regL")
	if pc {
		prefix = "PC + "
		target = ir.Binary(ir.RegField("regL"), ir.Plus, ir.Reg("PC"))
	}
	return gotoInstr(fam).
		Name("Jump").
		Display(fmt.Sprintf("JUMP (%s{regL})", prefix)).
		AddPcode(ir.Goto(ir.Indirect(target)))
}

func (f jumpFactory) BuildInstructions(fam *family.FamilyBuilder) []family.InstructionBuilder {
	return []family.InstructionBuilder{
		f.baseInstr(fam, false).SetFieldType("opc", bitpattern.NewMask(0x5)),
		f.baseInstr(fam, true).SetFieldType("opc", bitpattern.NewMask(0x8)),
	}
}

type callFactory struct{}

func (callFactory) baseInstr(fam *family.FamilyBuilder, pc bool) family.InstructionBuilder {
	prefix := ""
	target := ir.RegField("regL")
	if pc {
		prefix = "PC + "
		target = ir.Binary(ir.RegField("regL"), ir.Plus, ir.Reg("PC"))
	}
	return gotoInstr(fam).
		Name("Call").
		Display(fmt.Sprintf("CALL (%s{regL})", prefix)).
		AddPcode(ir.Binary(ir.Reg("RETS"), ir.Copy, ir.Var("inst_next"))).
		AddPcode(ir.Call(target))
}

func (f callFactory) BuildInstructions(fam *family.FamilyBuilder) []family.InstructionBuilder {
	return []family.InstructionBuilder{
		f.baseInstr(fam, false).SetFieldType("opc", bitpattern.NewMask(0x6)),
		f.baseInstr(fam, true).SetFieldType("opc", bitpattern.NewMask(0x7)),
	}
}

type raiseFactory struct{}

func (raiseFactory) baseInstr(fam *family.FamilyBuilder, opcMask uint16, op string) family.InstructionBuilder {
	return family.NewInstruction(fam).
		SetFieldType("reg", bitpattern.NewUImm()).
		SetFieldType("opc", bitpattern.NewMask(opcMask)).
		Name("Raise").
		Display(fmt.Sprintf("%s {reg}", strings.ToUpper(op))).
		AddPcode(ir.Macro(op, ir.Size(ir.Field("reg"), 1)))
}

func (f raiseFactory) BuildInstructions(fam *family.FamilyBuilder) []family.InstructionBuilder {
	return []family.InstructionBuilder{
		f.baseInstr(fam, 0x9, "raise"),
		f.baseInstr(fam, 0xa, "excpt"),
	}
}

type testSetFactory struct{}

func (testSetFactory) BuildInstructions(fam *family.FamilyBuilder) []family.InstructionBuilder {
	regL := ir.RegField("regL")
	testVal := ir.Var("testVal")
	instr := regInstr(family.NewInstruction(fam)).
		SetFieldType("regL", bitpattern.NewVariable(bitpattern.PReg)).
		SetFieldType("opc", bitpattern.NewMask(0xb)).
		Name("TestSet").
		Display("TESTSET ({regL})").
		AddPcode(ir.Binary(ir.Local(testVal, 1), ir.Copy, ir.Ptr("ram", regL, 1))).
		AddPcode(ir.Binary(ir.Reg("CC"), ir.Copy, ir.Number(0x0))).
		AddPcode(ir.IfGoto(ir.Binary(testVal, ir.NE, ir.Number(0x0)), ir.Label("is_set"))).
		AddPcode(ir.Binary(ir.Reg("CC"), ir.Copy, ir.Number(0x1))).
		AddPcode(ir.Label("is_set")).
		AddPcode(ir.Binary(ir.Ptr("ram", regL, 1), ir.Copy, ir.Binary(testVal, ir.BitOr, ir.Number(0x80))))
	return []family.InstructionBuilder{instr}
}

type syncFactory struct{}

func (syncFactory) BuildInstructions(fam *family.FamilyBuilder) []family.InstructionBuilder {
	addr := ir.Var(imaskGlobal + "Addr")
	instr := regInstr(family.NewInstruction(fam)).
		SetFieldType("regL", bitpattern.NewVariable(bitpattern.DReg)).
		SetFieldType("opc", bitpattern.NewMask(0xc)).
		Name("Sync").
		Display("STI IDLE {regL}").
		AddPcode(ir.Binary(ir.Local(addr, 4), ir.Copy, ir.Var(imaskGlobal))).
		AddPcode(ir.Binary(ir.Ptr("ram", addr, 4), ir.Copy, ir.RegField("regL"))).
		AddPcode(ir.Macro("idle"))
	return []family.InstructionBuilder{instr}
}
