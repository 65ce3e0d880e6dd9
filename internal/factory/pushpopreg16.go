package factory

import (
	"fmt"

	"github.com/blackfinplus/sleighgen/internal/bitpattern"
	"github.com/blackfinplus/sleighgen/internal/family"
	"github.com/blackfinplus/sleighgen/internal/ir"
)

// NewPushPopReg builds the PushPopReg family: move a single register (or
// accumulator slice) to or from the stack pointed to by SP, incrementing
// or decrementing SP by one word regardless of the operand's own width.
func NewPushPopReg() *family.FamilyBuilder {
	fam := family.New16("PushPopReg", "Push or Pop register, to and from the stack pointed to by SP", "ppr",
		bitpattern.ProtoPattern{Fields: []bitpattern.ProtoField{
			bitpattern.NewProtoField("sig", bitpattern.NewMask(0x002), 9),
			bitpattern.NewProtoField("w", bitpattern.NewBlank(), 1),
			bitpattern.NewProtoField("grp", bitpattern.NewBlank(), 3),
			bitpattern.NewProtoField("reg", bitpattern.NewBlank(), 3),
		}})
	fam.AddInstructions(pushPopFactory{})
	return fam
}

// ppInfo describes one operand slot in the PushPopReg family: either a
// single named architectural register with its own mask and width, or an
// entire register bank sharing one mask group.
type ppInfo struct {
	reg      string // set for a single named register
	size     int
	mask     uint16
	regSet   bitpattern.RegisterSet
	isRegSet bool
}

func ppReg(id string, size int, mask uint16) ppInfo {
	return ppInfo{reg: id, size: size, mask: mask}
}

func ppVar(rs bitpattern.RegisterSet) ppInfo {
	return ppInfo{regSet: rs, isRegSet: true}
}

type pushPopFactory struct{}

func (pushPopFactory) BuildInstructions(fam *family.FamilyBuilder) []family.InstructionBuilder {
	type slot struct {
		grp  uint16
		info ppInfo
	}
	slots := []slot{
		{0x0, ppVar(bitpattern.DReg)},
		{0x1, ppVar(bitpattern.PReg)},
		{0x2, ppVar(bitpattern.IReg)},
		{0x2, ppVar(bitpattern.MReg)},
		{0x3, ppVar(bitpattern.BReg)},
		{0x3, ppVar(bitpattern.LReg)},
		{0x4, ppReg("A0.X", 1, 0x0)},
		{0x4, ppReg("A0.W", 4, 0x1)},
		{0x4, ppReg("A1.X", 1, 0x2)},
		{0x4, ppReg("A1.W", 4, 0x3)},
		{0x4, ppReg("ASTAT", 4, 0x6)},
		{0x4, ppReg("RETS", 4, 0x7)},
		{0x6, ppVar(bitpattern.SyRg2)},
		{0x7, ppVar(bitpattern.SyRg3)},
	}

	var instrs []family.InstructionBuilder
	for _, s := range slots {
		instrs = append(instrs, pushPopInstr(fam, false, s.grp, s.info))
		instrs = append(instrs, pushPopInstr(fam, true, s.grp, s.info))
	}
	return instrs
}

func pushPopInstr(fam *family.FamilyBuilder, push bool, grp uint16, info ppInfo) family.InstructionBuilder {
	name := "Pop"
	w := uint16(0x0)
	if push {
		name = "Push"
		w = 0x1
	}

	instr := family.NewInstruction(fam).
		Name(name).
		SetFieldType("w", bitpattern.NewMask(w)).
		SetFieldType("grp", bitpattern.NewMask(grp))

	snippet := ir.PopVal
	if push {
		snippet = ir.PushVal
	}
	displayOf := func(val string) string {
		if push {
			return fmt.Sprintf("[--SP] = %s", val)
		}
		return fmt.Sprintf("%s = [SP++]", val)
	}

	if !info.isRegSet {
		instr = instr.
			SetFieldType("reg", bitpattern.NewMask(info.mask)).
			Display(displayOf(info.reg))
		return appendPcode(instr, snippet(ir.Reg(info.reg), info.size))
	}

	switch info.regSet {
	case bitpattern.IReg, bitpattern.MReg, bitpattern.BReg, bitpattern.LReg:
		regH := uint16(0x1)
		if info.regSet == bitpattern.IReg || info.regSet == bitpattern.BReg {
			regH = 0x0
		}
		instr = instr.
			SplitField("reg", bitpattern.ProtoPattern{Fields: []bitpattern.ProtoField{
				bitpattern.NewProtoField("regH", bitpattern.NewMask(regH), 1),
				bitpattern.NewProtoField("regL", bitpattern.NewVariable(info.regSet), 2),
			}}).
			Display(displayOf("{regL}"))
		return appendPcode(instr, snippet(ir.RegField("regL"), 4))
	default:
		instr = instr.
			SetFieldType("reg", bitpattern.NewVariable(info.regSet)).
			Display(displayOf("{reg}"))
		return appendPcode(instr, snippet(ir.RegField("reg"), 4))
	}
}

// appendPcode appends every statement of code to instr's p-code body, in
// order.
func appendPcode(instr family.InstructionBuilder, code ir.Code) family.InstructionBuilder {
	for _, stmt := range code.Stmts {
		instr = instr.AddPcode(stmt)
	}
	return instr
}
