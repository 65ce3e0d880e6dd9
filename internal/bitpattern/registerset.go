// Package bitpattern implements the instruction-encoding model: protofields,
// fields, bit ranges, and the multi-word Pattern with its refinement
// operations (set-type, split, divide).
package bitpattern

// AttachKind distinguishes a SLEIGH `attach variables` (token bound to an
// interchangeable register varnode) from `attach names` (token bound to a
// bare display string, used for labelled bit positions that are not
// uniform registers, such as accumulator parts or condition codes).
type AttachKind int

const (
	AttachVariables AttachKind = iota
	AttachNames
)

func (k AttachKind) String() string {
	if k == AttachNames {
		return "names"
	}
	return "variables"
}

// RegisterSet is the closed enumeration of named register banks a
// Variable field can bind to. Each bank fixes its display name, its
// attach kind, and the ordered list of register mnemonics it binds;
// some banks hold a sentinel "_" in slots with no architectural register.
type RegisterSet int

const (
	DReg RegisterSet = iota
	DRegL
	DRegH
	DRegByte
	DRegPair
	PReg
	IReg
	MReg
	BReg
	LReg
	SyRg2
	SyRg3
	AccumPart
	LoopCounterSel
	CondCode
)

// registerSetInfo holds the static data for a RegisterSet variant.
type registerSetInfo struct {
	name  string
	kind  AttachKind
	regs  []string
}

var registerSets = map[RegisterSet]registerSetInfo{
	DReg: {
		name: "DReg", kind: AttachVariables,
		regs: []string{"R0", "R1", "R2", "R3", "R4", "R5", "R6", "R7"},
	},
	DRegL: {
		name: "DRegL", kind: AttachVariables,
		regs: []string{"R0.L", "R1.L", "R2.L", "R3.L", "R4.L", "R5.L", "R6.L", "R7.L"},
	},
	DRegH: {
		name: "DRegH", kind: AttachVariables,
		regs: []string{"R0.H", "R1.H", "R2.H", "R3.H", "R4.H", "R5.H", "R6.H", "R7.H"},
	},
	DRegByte: {
		name: "DRegByte", kind: AttachVariables,
		regs: []string{"R0.B", "R1.B", "R2.B", "R3.B", "R4.B", "R5.B", "R6.B", "R7.B"},
	},
	DRegPair: {
		name: "DRegPair", kind: AttachVariables,
		regs: []string{"R1:0", "R3:2", "R5:4", "R7:6"},
	},
	PReg: {
		name: "PReg", kind: AttachVariables,
		regs: []string{"P0", "P1", "P2", "P3", "P4", "P5", "SP", "FP"},
	},
	IReg: {
		name: "IReg", kind: AttachVariables,
		regs: []string{"I0", "I1", "I2", "I3"},
	},
	MReg: {
		name: "MReg", kind: AttachVariables,
		regs: []string{"M0", "M1", "M2", "M3"},
	},
	BReg: {
		name: "BReg", kind: AttachVariables,
		regs: []string{"B0", "B1", "B2", "B3"},
	},
	LReg: {
		name: "LReg", kind: AttachVariables,
		regs: []string{"L0", "L1", "L2", "L3"},
	},
	SyRg2: {
		name: "SyRg2", kind: AttachVariables,
		regs: []string{"CYCLES", "CYCLES2", "USP", "SEQSTAT", "SYSCFG", "RETI", "RETX", "RETN"},
	},
	SyRg3: {
		name: "SyRg3", kind: AttachVariables,
		regs: []string{"RETE", "EMUDAT", "_", "_", "_", "_", "_", "_"},
	},
	AccumPart: {
		name: "AccumPart", kind: AttachNames,
		regs: []string{"A0.X", "A0.W", "A1.X", "A1.W", "_", "_", "ASTAT", "RETS"},
	},
	LoopCounterSel: {
		name: "LC", kind: AttachNames,
		regs: []string{"LC0", "LC1"},
	},
	CondCode: {
		name: "CC", kind: AttachNames,
		regs: []string{
			"AEQ", "ALT", "ALE", "AGT", "AGE", "ANEQ", "AF", "AT",
		},
	},
}

// Name is the RegisterSet's display name, used as a Field name suffix.
func (r RegisterSet) Name() string {
	return registerSets[r].name
}

// AttachKind reports whether this bank attaches as variables or names.
func (r RegisterSet) AttachKind() AttachKind {
	return registerSets[r].kind
}

// Regs returns the ordered list of mnemonics this bank binds. A slot may
// be the sentinel "_" when no architectural register occupies it.
func (r RegisterSet) Regs() []string {
	regs := registerSets[r].regs
	out := make([]string, len(regs))
	copy(out, regs)
	return out
}
