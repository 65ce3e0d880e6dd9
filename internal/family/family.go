package family

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blackfinplus/sleighgen/internal/bitpattern"
)

// Factory builds a set of InstructionBuilder variants against a family's
// base pattern and token prefix. Each concrete instruction group (one
// Blackfin+ mnemonic family) implements this once.
type Factory interface {
	BuildInstructions(fam *FamilyBuilder) []InstructionBuilder
}

// FamilyBuilder accumulates every instruction variant belonging to one
// SLEIGH instruction family (one encoding width, one description
// banner, one token-name prefix) and renders it to SLEIGH text.
// Instructions are bucketed by an optional sub-family id ("base" when
// unspecified) so a single family can emit several related constructor
// groups into separate output files while sharing one token/attach
// namespace.
type FamilyBuilder struct {
	name         string
	desc         string
	prefix       string
	basePattern  bitpattern.Pattern
	instructions map[string][]InstructionBuilder
	tokens       [4]map[bitpattern.Field]struct{}
	variables    map[bitpattern.Field]struct{}
	pcodeops     []string
	multi        bool
	attachWidth  int
}

// defaultAttachLineWidth is the number of registers per `attach` line
// when no override has been set (config.DefaultConfig's
// Render.RegistersPerAttachLine).
const defaultAttachLineWidth = 8

// SetAttachLineWidth overrides how many registers are listed per line
// of an `attach variables`/`attach names` declaration before wrapping,
// driven by the run's Render.RegistersPerAttachLine configuration. A
// non-positive value is ignored and the default of 8 is kept.
func (f *FamilyBuilder) SetAttachLineWidth(n int) {
	if n > 0 {
		f.attachWidth = n
	}
}

func (f *FamilyBuilder) attachLineWidth() int {
	if f.attachWidth > 0 {
		return f.attachWidth
	}
	return defaultAttachLineWidth
}

func newFamily(name, desc, prefix string, base bitpattern.Pattern) *FamilyBuilder {
	return &FamilyBuilder{
		name:         name,
		desc:         desc,
		prefix:       prefix,
		basePattern:  base,
		instructions: map[string][]InstructionBuilder{},
		tokens:       [4]map[bitpattern.Field]struct{}{{}, {}, {}, {}},
		variables:    map[bitpattern.Field]struct{}{},
	}
}

// New16 starts a single-word (16-bit) instruction family.
func New16(name, desc, prefix string, base bitpattern.ProtoPattern) *FamilyBuilder {
	return newFamily(name, desc, prefix, bitpattern.FromWord(base))
}

// New32 starts a two-word (32-bit) instruction family.
func New32(name, desc, prefix string, base [2]bitpattern.ProtoPattern) *FamilyBuilder {
	return newFamily(name, desc, prefix, bitpattern.FromWords2(base))
}

// New64 starts a four-word (64-bit) instruction family.
func New64(name, desc, prefix string, base [4]bitpattern.ProtoPattern) *FamilyBuilder {
	return newFamily(name, desc, prefix, bitpattern.FromWords4(base))
}

func (f *FamilyBuilder) Name() string { return f.name }

// Len is the total number of instruction variants across every
// sub-family bucket.
func (f *FamilyBuilder) Len() int {
	total := 0
	for _, instrs := range f.instructions {
		total += len(instrs)
	}
	return total
}

// SubFam is the number of distinct sub-family buckets.
func (f *FamilyBuilder) SubFam() int { return len(f.instructions) }

// SetMulti marks this family as a 64-bit multi-issue bundle slot,
// reserving the `m` bit and switching the wrapper clause to its
// dual-constructor form (one per parallel-issue marker value).
func (f *FamilyBuilder) SetMulti(multi bool) { f.multi = multi }

func (f *FamilyBuilder) AddPcodeop(op string) {
	f.pcodeops = append(f.pcodeops, op)
}

// AddInstructions runs factory against this family's base pattern and
// appends its output to the default ("base") sub-family bucket.
func (f *FamilyBuilder) AddInstructions(factory Factory) {
	f.AddNamedInstructions("base", factory)
}

// AddNamedInstructions runs factory and appends its output to a named
// sub-family bucket, used when one family emits more than one related
// constructor group (e.g. push vs. pop variants sharing one token set).
func (f *FamilyBuilder) AddNamedInstructions(id string, factory Factory) {
	if _, ok := f.instructions[id]; !ok {
		f.instructions[id] = nil
	}
	built := factory.BuildInstructions(f)
	f.instructions[id] = append(f.instructions[id], built...)
}

func (f *FamilyBuilder) sortedIDs() []string {
	ids := make([]string, 0, len(f.instructions))
	for id := range f.instructions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// InitializeTokensAndVars scans every instruction variant's pattern (in
// sub-family-id order, then declaration order within each bucket) and
// populates the per-word token sets and the attach-variable set. Blank
// fields are skipped, except the multi-issue marker bit `m`, which is
// the one field allowed to remain Blank all the way to render time.
func (f *FamilyBuilder) InitializeTokensAndVars() {
	for _, id := range f.sortedIDs() {
		for _, instr := range f.instructions[id] {
			for wi, fields := range instr.Pattern().Words() {
				for _, field := range fields {
					if field.IsBlank() {
						if f.multi && field.ID == "m" {
							f.tokens[wi][field] = struct{}{}
						}
						continue
					}
					if field.IsVar() {
						f.variables[field] = struct{}{}
					}
					f.tokens[wi][field] = struct{}{}
				}
			}
		}
	}
}

func (f *FamilyBuilder) buildDesc() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s (%s)\n", f.desc, f.name)
	sb.WriteString("##\n")

	const sep = "## +---+---+---+---|---+---+---+---|---+---+---+---|---+---+---+---+\n"

	for _, word := range f.basePattern.Words() {
		if len(word) == 0 {
			continue
		}
		sb.WriteString(sep)
		sb.WriteString("## ")
		for _, field := range word {
			if strings.HasPrefix(field.ID, "sig") || strings.HasPrefix(field.ID, "mask") {
				if field.Type.Kind == bitpattern.Mask {
					for _, bit := range bitpattern.MaskBinary(field.Type.MaskVal, field.Range.Len()) {
						fmt.Fprintf(&sb, "| %c ", bit)
					}
				}
			} else {
				width := 4*field.Range.Len() - 1
				fmt.Fprintf(&sb, "|%s", centerDots(field.ID, width))
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(sep)
	return sb.String()
}

// centerDots centers s within width columns, padding with '.' on both
// sides (matches the original banner's `{:.^width}` formatting).
func centerDots(s string, width int) string {
	if len(s) >= width {
		return s
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(".", left) + s + strings.Repeat(".", right)
}

func (f *FamilyBuilder) buildTokens() string {
	var sb strings.Builder
	for i := 0; i < 4; i++ {
		if len(f.tokens[i]) == 0 {
			continue
		}
		toks := make([]bitpattern.Field, 0, len(f.tokens[i]))
		for t := range f.tokens[i] {
			toks = append(toks, t)
		}
		sort.Slice(toks, func(a, b int) bool { return toks[a].Less(toks[b]) })
		for l, r := 0, len(toks)-1; l < r; l, r = l+1, r-1 {
			toks[l], toks[r] = toks[r], toks[l]
		}

		fmt.Fprintf(&sb, "define token %sInstr%d (16)\n", f.prefix, (i+1)*16)
		// The token set merges by (id, type, range), so one field id
		// refined to several mask values contributes several entries;
		// they all render to the same declaration line, emitted once.
		seen := map[string]bool{}
		for _, tok := range toks {
			name := tok.TokenName(f.prefix)
			key := fmt.Sprintf("%s/%d/%d", name, tok.Range.Start, tok.Range.End)
			if seen[key] {
				continue
			}
			seen[key] = true
			signed := ""
			if tok.Type.IsSigned() {
				signed = "signed"
			}
			fmt.Fprintf(&sb, "\t%-16s = (%2d,%2d) %s\n",
				name, tok.Range.Start, tok.Range.End, signed)
		}
		sb.WriteString(";\n\n")
	}
	return sb.String()
}

func (f *FamilyBuilder) buildVariables() string {
	vars := make([]bitpattern.Field, 0, len(f.variables))
	for v := range f.variables {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(a, b int) bool {
		if !vars[a].Type.Equal(vars[b].Type) {
			return vars[a].Type.Less(vars[b].Type)
		}
		return vars[a].Less(vars[b])
	})

	var sb strings.Builder
	for _, v := range vars {
		if v.Type.Kind != bitpattern.Variable {
			continue
		}
		regs := v.Type.RegSet.Regs()
		width := f.attachLineWidth()
		var regList string
		if len(regs) <= width {
			regList = strings.Join(regs, " ")
		} else {
			var chunks []string
			for i := 0; i < len(regs); i += width {
				end := i + width
				if end > len(regs) {
					end = len(regs)
				}
				chunks = append(chunks, "\t"+strings.Join(regs[i:end], " "))
			}
			regList = "\n" + strings.Join(chunks, "\n") + "\n"
		}
		fmt.Fprintf(&sb, "attach %s %s [%s];\n",
			v.Type.RegSet.AttachKind(), v.TokenName(f.prefix), regList)
	}
	return sb.String()
}

func (f *FamilyBuilder) buildPcodeops() string {
	var sb strings.Builder
	for _, op := range f.pcodeops {
		fmt.Fprintf(&sb, "define pcodeop %s;\n", op)
	}
	return sb.String()
}

func (f *FamilyBuilder) buildInstructions(id string) string {
	var sb strings.Builder
	count := 0
	for _, instr := range f.instructions[id] {
		literalDesc := fmt.Sprintf("%sDesc%02X", f.name, count)
		built, altDisp := instr.Build(literalDesc)
		if altDisp {
			fmt.Fprintf(&sb, "%s: \"%s\" is epsilon {}\n", literalDesc, instr.GetDisplay())
		}
		if id == "base" {
			fmt.Fprintf(&sb, "%s%s\n\n", f.name, built)
		} else {
			fmt.Fprintf(&sb, "%s%s%s\n\n", f.name, id, built)
		}
		count++
	}
	return sb.String()
}

func (f *FamilyBuilder) buildAllInstructions() string {
	var sb strings.Builder
	for _, id := range f.sortedIDs() {
		sb.WriteString(f.buildInstructions(id))
	}
	return sb.String()
}

func (f *FamilyBuilder) buildIDFinalInstr(id string) string {
	ifam := f.name
	if f.multi {
		var sb strings.Builder
		fmt.Fprintf(&sb, ":^%s%s is %sM=0x0 ... & %s%s { build %s%s; }\n",
			ifam, id, f.prefix, ifam, id, ifam, id)
		fmt.Fprintf(&sb, ":^%s%s is %sM=0x1 ... & %s%s { build %s%s; delayslot(4); }\n",
			ifam, id, f.prefix, ifam, id, ifam, id)
		return sb.String()
	}
	return fmt.Sprintf(":^%s%s is %s%s { build %s%s; }\n", ifam, id, ifam, id, ifam, id)
}

func (f *FamilyBuilder) buildFinalInstr(id string) string {
	if id == "base" {
		return f.buildIDFinalInstr("")
	}
	return f.buildIDFinalInstr(id)
}

func (f *FamilyBuilder) buildAllFinalInstrs() string {
	var sb strings.Builder
	for _, id := range f.sortedIDs() {
		sb.WriteString(f.buildFinalInstr(id))
	}
	return sb.String()
}

// BuildHead renders the description banner, token tables, attach
// tables, and pcodeop declarations -- the part of a family's output
// that does not depend on sub-family bucketing.
func (f *FamilyBuilder) BuildHead() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", f.buildDesc())
	fmt.Fprintf(&sb, "### Tokens ###\n\n%s\n", f.buildTokens())
	if len(f.variables) != 0 {
		fmt.Fprintf(&sb, "### Variables ###\n\n%s\n\n", f.buildVariables())
	}
	if len(f.pcodeops) != 0 {
		fmt.Fprintf(&sb, "### Operations ###\n\n%s\n\n", f.buildPcodeops())
	}
	return sb.String()
}

// Build renders the complete family: head plus every sub-family's
// instruction constructors and wrapper clauses, in one block.
func (f *FamilyBuilder) Build() string {
	var sb strings.Builder
	sb.WriteString(f.BuildHead())
	fmt.Fprintf(&sb, "### Instructions ###\n\n%s\n\n%s",
		f.buildAllInstructions(), f.buildAllFinalInstrs())
	return sb.String()
}

// NamedSection pairs a sub-family id with its rendered instruction text.
type NamedSection struct {
	ID   string
	Text string
}

// BuildIDInstrs renders each sub-family bucket as its own section,
// letting the emitter lay sub-families out as separate files while
// BuildHead's token/attach declarations are written once per family.
func (f *FamilyBuilder) BuildIDInstrs() []NamedSection {
	sections := make([]NamedSection, 0, len(f.instructions))
	for _, id := range f.sortedIDs() {
		sections = append(sections, NamedSection{
			ID: id,
			Text: fmt.Sprintf("### Instructions for %s: %s ###\n\n%s\n\n%s",
				f.Name(), id, f.buildInstructions(id), f.buildFinalInstr(id)),
		})
	}
	return sections
}
