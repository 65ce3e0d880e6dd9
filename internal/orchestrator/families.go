package orchestrator

import (
	"github.com/blackfinplus/sleighgen/internal/factory"
	"github.com/blackfinplus/sleighgen/internal/family"
)

// Default returns the fixed family registry this port wires: the
// 16-bit, 32-bit, and 64-bit families built by internal/factory, in the
// order their output files are expected to appear.
func Default() *Model {
	return New([]Entry{
		{Width: Width16, Factory: func() *family.FamilyBuilder { return factory.NewNOP16() }},
		{Width: Width16, Factory: func() *family.FamilyBuilder { return factory.NewProgCtrl() }},
		{Width: Width16, Factory: func() *family.FamilyBuilder { return factory.NewPushPopReg() }},
		{Width: Width32, Factory: func() *family.FamilyBuilder { return factory.NewNOP32() }},
		{Width: Width32, Factory: func() *family.FamilyBuilder { return factory.NewLoopSetup() }},
		{Width: Width32, Factory: func() *family.FamilyBuilder { return factory.NewLoopSetupImm() }},
		{Width: Width64, Factory: func() *family.FamilyBuilder { return factory.NewMulti() }},
	})
}
