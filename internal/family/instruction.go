// Package family builds per-family SLEIGH text (description banner,
// token/attach tables, pcodeops, instruction constructors, and wrapper
// clause) from a base bit pattern plus instruction variants contributed
// by factories.
package family

import (
	"fmt"
	"strings"

	"github.com/blackfinplus/sleighgen/internal/bitpattern"
	"github.com/blackfinplus/sleighgen/internal/ir"
)

// InstructionBuilder accumulates one instruction variant's pattern,
// display template, and action/p-code bodies. All setters return a new
// value; nothing is mutated in place, so factories can branch a
// partially built variant into several siblings safely.
type InstructionBuilder struct {
	pattern bitpattern.Pattern
	prefix  string
	name    string
	display string
	actions ir.Code
	pcodes  ir.Code
}

// NewInstruction seeds a builder from its owning family's base pattern
// and token prefix.
func NewInstruction(fam *FamilyBuilder) InstructionBuilder {
	return InstructionBuilder{pattern: fam.basePattern, prefix: fam.prefix}
}

func (b InstructionBuilder) SetPattern(p bitpattern.Pattern) InstructionBuilder {
	b.pattern = p
	return b
}

func (b InstructionBuilder) Pattern() bitpattern.Pattern { return b.pattern }

func (b InstructionBuilder) Name(name string) InstructionBuilder {
	b.name = name
	return b
}

func (b InstructionBuilder) GetName() string { return b.name }

func (b InstructionBuilder) Display(display string) InstructionBuilder {
	b.display = display
	return b
}

func (b InstructionBuilder) GetDisplay() string { return b.display }

func (b InstructionBuilder) AddAction(action *ir.Expr) InstructionBuilder {
	b.actions = b.actions.Append(action)
	return b
}

func (b InstructionBuilder) AddActionOpt(action *ir.Expr) InstructionBuilder {
	if action != nil {
		b.actions = b.actions.Append(action)
	}
	return b
}

func (b InstructionBuilder) Actions() ir.Code { return b.actions }

func (b InstructionBuilder) SetActions(c ir.Code) InstructionBuilder {
	b.actions = c
	return b
}

func (b InstructionBuilder) AddPcode(p *ir.Expr) InstructionBuilder {
	b.pcodes = b.pcodes.Append(p)
	return b
}

func (b InstructionBuilder) AddPcodeOpt(p *ir.Expr) InstructionBuilder {
	if p != nil {
		b.pcodes = b.pcodes.Append(p)
	}
	return b
}

func (b InstructionBuilder) Pcodes() ir.Code { return b.pcodes }

func (b InstructionBuilder) SetPcodes(c ir.Code) InstructionBuilder {
	b.pcodes = c
	return b
}

func (b InstructionBuilder) SetFieldType(id string, ftype bitpattern.FieldType) InstructionBuilder {
	b.pattern = b.pattern.SetFieldType(id, ftype)
	return b
}

func (b InstructionBuilder) SetFieldTypeOpt(cond bool, id string, ftype bitpattern.FieldType) InstructionBuilder {
	if cond {
		b.pattern = b.pattern.SetFieldType(id, ftype)
	}
	return b
}

func (b InstructionBuilder) SplitField(id string, split bitpattern.ProtoPattern) InstructionBuilder {
	b.pattern = b.pattern.SplitField(id, split)
	return b
}

func (b InstructionBuilder) DivideField(id string, div bitpattern.ProtoPattern) InstructionBuilder {
	b.pattern = b.pattern.DivideField(id, div)
	return b
}

func (b InstructionBuilder) buildName() string {
	return fmt.Sprintf(":^\"%s\"", b.name)
}

// buildPattern renders the `is ...` clause: one ` & `-joined field list
// per non-empty word, joined across words by `\n\t ; `. When alt is set
// (the instruction's display carries no operand placeholders) the
// clause is additionally gated on the synthetic literal-display
// constructor so the instruction remains uniquely selectable.
func (b InstructionBuilder) buildPattern(alt bool, altDisplay string) string {
	patternStr := "\n\tis "
	if alt {
		patternStr += altDisplay + " & "
	}

	for _, word := range b.pattern.Words() {
		if len(word) == 0 {
			continue
		}
		wordStr := ""
		for _, field := range word {
			if field.IsBlank() {
				continue
			}
			wordStr += field.TokenName(b.prefix)
			if field.Type.Kind == bitpattern.Mask {
				wordStr += "=" + bitpattern.MaskHex(field.Type.MaskVal, field.Range.Len())
			}
			wordStr += " & "
		}
		if wordStr == "" {
			continue
		}
		patternStr += wordStr[:len(wordStr)-3]
		patternStr += "\n\t ; "
	}
	patternStr = strings.TrimSuffix(patternStr, "\n\t ; ")
	return patternStr
}

func (b InstructionBuilder) buildAction() string {
	if b.actions.Empty() {
		return ""
	}
	return fmt.Sprintf("\n[%s\n]", ir.RenderCode(b.actions, b.pattern, b.prefix))
}

func (b InstructionBuilder) buildPcode() string {
	if b.pcodes.Empty() {
		return "{}"
	}
	nl := " "
	if b.actions.Empty() {
		nl = "\n"
	}
	return fmt.Sprintf("%s{%s\n}", nl, ir.RenderCode(b.pcodes, b.pattern, b.prefix))
}

// Build renders the full constructor line for this variant. altDisplay
// is the owning family's synthesised literal-display-token name
// (e.g. "NopDesc00") for this variant's position; it is only used -- and
// only emitted as a separate epsilon constructor by the caller -- when
// the display template carries no operand placeholders at all. The
// returned bool reports whether that literal-display form was used.
func (b InstructionBuilder) Build(altDisplay string) (string, bool) {
	display, varCount := displayFormat(b.display, b.pattern, b.prefix)
	emptyDisplay := display == ""
	noVars := varCount == 0
	alt := noVars && !emptyDisplay

	shown := display
	if alt {
		shown = altDisplay
	}

	return fmt.Sprintf("%s %s%s%s%s",
		b.buildName(),
		shown,
		b.buildPattern(alt, altDisplay),
		b.buildAction(),
		b.buildPcode(),
	), alt
}
