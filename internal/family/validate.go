package family

import (
	"fmt"

	"github.com/blackfinplus/sleighgen/internal/bitpattern"
	"github.com/blackfinplus/sleighgen/internal/ir"
)

// Validate checks the core model-inconsistency invariants: pattern
// tiling, field resolution, token-BitRange coherence, and sibling-mask
// disjointness within each sub-family bucket. It reports every finding
// it can reach rather than stopping at the first one, matching the
// Reporter's batching design. Call after InitializeTokensAndVars.
func (f *FamilyBuilder) Validate(r *Reporter) {
	f.validateTiling(r)
	f.validateFieldResolution(r)
	f.validateTokenCoherence(r)
	f.validateMaskDisjointness(r)
}

func (f *FamilyBuilder) validateTiling(r *Reporter) {
	for _, id := range f.sortedIDs() {
		for _, instr := range f.instructions[id] {
			for wi := 0; wi < 4; wi++ {
				if len(instr.Pattern().Words()[wi]) == 0 {
					continue
				}
				if !instr.Pattern().TilesWord(wi) {
					r.AddError(NewModelError(f.name, instr.GetName(),
						fmt.Sprintf("word %d does not tile [0,15]", wi)))
				}
			}
		}
	}
}

func (f *FamilyBuilder) validateFieldResolution(r *Reporter) {
	for _, id := range f.sortedIDs() {
		for _, instr := range f.instructions[id] {
			for _, fid := range ir.FieldIDs(instr.Actions()) {
				if _, ok := instr.Pattern().GetField(fid); !ok {
					r.AddError(NewModelError(f.name, instr.GetName(),
						fmt.Sprintf("action references undeclared field %q", fid)))
				}
			}
			for _, fid := range ir.FieldIDs(instr.Pcodes()) {
				if _, ok := instr.Pattern().GetField(fid); !ok {
					r.AddError(NewModelError(f.name, instr.GetName(),
						fmt.Sprintf("p-code references undeclared field %q", fid)))
				}
			}
		}
	}
}

// validateTokenCoherence confirms that every occurrence of a given
// field id across every instruction in the family agrees on BitRange --
// the invariant InitializeTokensAndVars' de-duplication-by-struct-
// equality silently assumes rather than checks.
func (f *FamilyBuilder) validateTokenCoherence(r *Reporter) {
	seen := map[string]bitpattern.BitRange{}
	for _, id := range f.sortedIDs() {
		for _, instr := range f.instructions[id] {
			for _, fields := range instr.Pattern().Words() {
				for _, field := range fields {
					if field.IsBlank() {
						continue
					}
					want, ok := seen[field.ID]
					if !ok {
						seen[field.ID] = field.Range
						continue
					}
					if want != field.Range {
						r.AddError(NewModelError(f.name, instr.GetName(),
							fmt.Sprintf("field %q has inconsistent BitRange across instructions: %v vs %v",
								field.ID, want, field.Range)))
					}
				}
			}
		}
	}
}

// validateMaskDisjointness checks that any two instructions in the same
// sub-family bucket differ in at least one bit position that both fix
// through Mask fields (see masksDiffer).
// The family's multi-issue marker bit
// (`m`) is exempted, since bundle/multi families intentionally reuse
// it across both delay-slot variants.
func (f *FamilyBuilder) validateMaskDisjointness(r *Reporter) {
	for _, id := range f.sortedIDs() {
		instrs := f.instructions[id]
		for i := 0; i < len(instrs); i++ {
			for j := i + 1; j < len(instrs); j++ {
				if !masksDiffer(instrs[i], instrs[j], f.multi) {
					r.AddError(NewModelError(f.name,
						fmt.Sprintf("%s/%s", instrs[i].GetName(), instrs[j].GetName()),
						fmt.Sprintf("sub-family %q: encoding masks do not differ in any bit", id)))
				}
			}
		}
	}
}

// masksDiffer reports whether a and b are guaranteed distinguishable at
// the raw encoding level: some bit position, in some word, that both
// instructions fix via a Mask field, carries a different concrete value.
// This is computed bit-by-bit rather than by matching field ids, since
// two variants of the same family may legitimately tile a word's fixed
// bits into differently-named/shaped Mask fields (e.g. a composite
// family whose sibling variants embed heterogeneous sub-instructions);
// what makes them distinguishable is the underlying bit values, not
// whether they happen to share a field identifier.
func masksDiffer(a, b InstructionBuilder, multi bool) bool {
	aw, bw := a.Pattern().Words(), b.Pattern().Words()
	for wi := 0; wi < 4; wi++ {
		aFixed, aVal := fixedBits(aw[wi], multi)
		bFixed, bVal := fixedBits(bw[wi], multi)
		for bit := 0; bit < 16; bit++ {
			if aFixed[bit] && bFixed[bit] && aVal[bit] != bVal[bit] {
				return true
			}
		}
	}
	return false
}

// fixedBits expands a word's Mask fields into a per-bit (fixed, value)
// pair. The multi-issue marker bit (`m`) is never fixed: its
// BundleMarker type already fails the Mask check, and in a multi family
// a field with id `m` is skipped by id as well.
func fixedBits(fields []bitpattern.Field, multi bool) (fixed, val [16]bool) {
	for _, f := range fields {
		if f.Type.Kind != bitpattern.Mask {
			continue
		}
		if multi && f.ID == "m" {
			continue
		}
		for bit := f.Range.Start; bit <= f.Range.End; bit++ {
			bitIdx := bit - f.Range.Start
			fixed[bit] = true
			val[bit] = (f.Type.MaskVal>>uint(bitIdx))&1 == 1
		}
	}
	return fixed, val
}
