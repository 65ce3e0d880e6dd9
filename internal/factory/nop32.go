package factory

import (
	"github.com/blackfinplus/sleighgen/internal/bitpattern"
	"github.com/blackfinplus/sleighgen/internal/family"
)

// NewNOP32 builds the 32-bit slot nop family: fills the wide slot of a
// multi-issue bundle when nothing else is issued there.
func NewNOP32() *family.FamilyBuilder {
	fam := family.New32("NOP32", "32-bit Slot Nop", "mnop",
		[2]bitpattern.ProtoPattern{
			{Fields: []bitpattern.ProtoField{
				bitpattern.NewProtoField("sigH", bitpattern.NewMask(0x18), 5),
				bitpattern.NewProtoField("x3", bitpattern.NewMask(0x003), 11),
			}},
			{Fields: []bitpattern.ProtoField{
				bitpattern.NewProtoField("sigL", bitpattern.NewMask(0x1800), 16),
			}},
		})
	fam.AddInstructions(nop32Factory{})
	return fam
}

type nop32Factory struct{}

func (nop32Factory) BuildInstructions(fam *family.FamilyBuilder) []family.InstructionBuilder {
	return []family.InstructionBuilder{
		family.NewInstruction(fam).Name("NOP32").Display("NOP"),
	}
}
