package factory

import (
	"github.com/blackfinplus/sleighgen/internal/bitpattern"
	"github.com/blackfinplus/sleighgen/internal/family"
)

// NewNOP16 builds the 16-bit slot nop family: a single all-zero word
// that fills the low slot of a multi-issue bundle when nothing else is
// issued there.
func NewNOP16() *family.FamilyBuilder {
	fam := family.New16("NOP16", "16-bit Slot Nop", "nop",
		bitpattern.ProtoPattern{Fields: []bitpattern.ProtoField{
			bitpattern.NewProtoField("sig", bitpattern.NewMask(0x0000), 16),
		}})
	fam.AddInstructions(nop16Factory{})
	return fam
}

type nop16Factory struct{}

func (nop16Factory) BuildInstructions(fam *family.FamilyBuilder) []family.InstructionBuilder {
	return []family.InstructionBuilder{
		family.NewInstruction(fam).Name("NOP").Display("NOP"),
	}
}
