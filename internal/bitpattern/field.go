package bitpattern

import (
	"fmt"
	"strings"
)

// BitRange is an inclusive [Start, End] bit index range within a 16-bit
// word, LSB = 0. Invariant: Start <= End < 16.
type BitRange struct {
	Start int
	End   int
}

// Len is the number of bits the range spans.
func (r BitRange) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// ProtoField is a declarative field awaiting bit-range assignment:
// identifier, type, width. Order-dependent within a ProtoPattern.
type ProtoField struct {
	ID    string
	Type  FieldType
	Width int
}

func NewProtoField(id string, ftype FieldType, width int) ProtoField {
	return ProtoField{ID: id, Type: ftype, Width: width}
}

// ProtoPattern is an ordered list of ProtoFields making up one 16-bit
// word. Its widths must sum to exactly 16 once materialised by
// Pattern.From.
type ProtoPattern struct {
	Fields []ProtoField
}

// Len sums the declared widths.
func (p ProtoPattern) Len() int {
	total := 0
	for _, f := range p.Fields {
		total += f.Width
	}
	return total
}

// Field is a materialised field: identifier, FieldType, BitRange.
type Field struct {
	ID    string
	Type  FieldType
	Range BitRange
}

// IsBlank reports whether this field still awaits refinement. A
// BundleMarker field counts as blank too: its mask literal is supplied
// by the wrapper clause at render time, not by variant construction, so
// it must never appear in a per-variant `is` clause.
func (f Field) IsBlank() bool {
	return f.Type.Kind == Blank || f.Type.Kind == BundleMarker
}

// IsVar reports whether this field is bound to a register bank.
func (f Field) IsVar() bool {
	return f.Type.Kind == Variable
}

// IsMask reports a fixed-bits field, including the `sig`/`mask`-prefixed
// identifiers that are always treated as masks regardless of refinement.
func (f Field) IsMask() bool {
	if f.Type.Kind == Mask {
		return true
	}
	return strings.HasPrefix(f.ID, "sig") || strings.HasPrefix(f.ID, "mask")
}

// Name is the capitalised identifier plus a type-dependent suffix, used
// as the human-legible core of a token name.
func (f Field) Name() string {
	return capitalize(f.ID) + f.Type.suffix()
}

// TokenName prefixes Name with the family's short prefix; this is the
// source of truth used to cross-reference pattern, tokens, attachments
// and p-code.
func (f Field) TokenName(prefix string) string {
	return prefix + f.Name()
}

// Equal is structural equality on (ID, FieldType, BitRange), comparing
// FieldTypes with FieldType.Equal.
func (f Field) Equal(o Field) bool {
	return f.ID == o.ID && f.Type.Equal(o.Type) && f.Range == o.Range
}

// Less implements the field total order used to stabilise token-table
// output: by BitRange.End then length ascending, then by id descending,
// then by FieldType descending. The trailing RegSet/MaskVal tiebreakers
// make the order total over distinct fields, so sorting is
// reproducible run to run.
func (f Field) Less(o Field) bool {
	if f.Range.End != o.Range.End {
		return f.Range.End < o.Range.End
	}
	if f.Range.Len() != o.Range.Len() {
		return f.Range.Len() < o.Range.Len()
	}
	if f.ID != o.ID {
		// "descending" by id
		return f.ID > o.ID
	}
	if f.Type.rank() != o.Type.rank() {
		return f.Type.rank() > o.Type.rank()
	}
	if f.Type.RegSet != o.Type.RegSet {
		return f.Type.RegSet < o.Type.RegSet
	}
	return f.Type.MaskVal < o.Type.MaskVal
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// MaskHex renders a Mask value as lowercase, zero-padded hex with a `0x`
// prefix; the digit count is ceil(width/4).
func MaskHex(val uint16, width int) string {
	digits := (width + 3) / 4
	return fmt.Sprintf("0x%0*x", digits, val)
}

// MaskBinary renders a Mask value as a fixed-width binary string, used by
// the family description banner (one bit per character cell).
func MaskBinary(val uint16, width int) string {
	s := fmt.Sprintf("%b", val)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}
