// Package orchestrator fixes the ordered list of instruction families
// per encoding width and drives their initialisation and emission. It
// is the thinnest layer in the core: it owns no rendering or model
// logic of its own, only the registry of which families exist and in
// which order their files are written.
package orchestrator

import "github.com/blackfinplus/sleighgen/internal/family"

// Width is an instruction encoding width, used to group families into
// the instr16/instr32/instr64 output directories.
type Width int

const (
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

// FamilyFactory builds one family's complete, instruction-populated
// FamilyBuilder.
type FamilyFactory func() *family.FamilyBuilder

// Entry pairs a family factory with the width bucket it belongs in.
type Entry struct {
	Width   Width
	Factory FamilyFactory
}

// Model is the ordered, width-bucketed registry of every family this
// run emits. Order within a width is significant only for output
// determinism (directory listings still sort by filename, but family
// construction itself is independent of registration order).
type Model struct {
	entries []Entry
}

// New builds a Model from an ordered list of entries.
func New(entries []Entry) *Model {
	return &Model{entries: append([]Entry(nil), entries...)}
}

// Family is one instantiated, token-initialised family ready for
// rendering, tagged with the width bucket it belongs in.
type Family struct {
	Width   Width
	Builder *family.FamilyBuilder
}

// Build instantiates every registered family, runs each one's factories
// (already wired into the FamilyFactory), and initialises its token and
// variable sets. Families are returned in registration order, grouped
// implicitly by Width.
func (m *Model) Build() []Family {
	out := make([]Family, 0, len(m.entries))
	for _, e := range m.entries {
		fam := e.Factory()
		fam.InitializeTokensAndVars()
		out = append(out, Family{Width: e.Width, Builder: fam})
	}
	return out
}

// BuildChecked is Build plus a model-consistency validation pass: every
// family's pattern tiling, field resolution, token coherence, and
// sibling-mask disjointness are checked before any family is handed to
// the renderer. The returned Reporter always holds every finding across
// every family; callers decide whether Reporter.HasErrors() should
// abort the run.
func (m *Model) BuildChecked() ([]Family, *family.Reporter) {
	families := m.Build()
	reporter := family.NewReporter()
	for _, f := range families {
		f.Builder.Validate(reporter)
	}
	return families, reporter
}
