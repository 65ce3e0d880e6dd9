package bitpattern

// Pattern is a fixed-length array of four per-word field lists, indexed
// 0..3 for instruction word positions. A 16-bit instruction uses only
// index 0; a 32-bit instruction uses 0..1; a 64-bit instruction uses
// 0..3. All refinement operations are pure: they return a new Pattern
// and never mutate the receiver.
type Pattern struct {
	words [4][]Field
}

// Words returns the four per-word field lists. The returned slices are
// copies; mutating them does not affect the Pattern.
func (p Pattern) Words() [4][]Field {
	var out [4][]Field
	for i, w := range p.words {
		out[i] = append([]Field(nil), w...)
	}
	return out
}

// FromWord materialises a single 16-bit word's worth of Pattern from a
// ProtoPattern. ProtoFields are declared MSB-first, the way encoding
// diagrams read; BitRanges are assigned scanning from the rightmost
// (LSB) field upward, so the last declared field lands at bit 0.
func FromWord(proto ProtoPattern) Pattern {
	return Pattern{words: [4][]Field{materialise(proto), nil, nil, nil}}
}

// FromWords2 materialises a two-word (32-bit) Pattern, one ProtoPattern
// per word, word index == array slot.
func FromWords2(protos [2]ProtoPattern) Pattern {
	var p Pattern
	for i, proto := range protos {
		p.words[i] = materialise(proto)
	}
	return p
}

// FromWords4 materialises a four-word (64-bit) Pattern.
func FromWords4(protos [4]ProtoPattern) Pattern {
	var p Pattern
	for i, proto := range protos {
		p.words[i] = materialise(proto)
	}
	return p
}

func materialise(proto ProtoPattern) []Field {
	fields := make([]Field, len(proto.Fields))
	start := 0
	for i := len(proto.Fields) - 1; i >= 0; i-- {
		pf := proto.Fields[i]
		fields[i] = Field{
			ID:    pf.ID,
			Type:  pf.Type,
			Range: BitRange{Start: start, End: start + pf.Width - 1},
		}
		start += pf.Width
	}
	return fields
}

// FromFields constructs a Pattern directly from already-materialised
// per-word field lists, skipping ProtoPattern assignment. Used when
// composing a larger pattern out of sub-patterns built independently --
// e.g. embedding two already-materialised 16-bit instruction slots
// into words 2 and 3 of a 64-bit multi-issue bundle. Each word's fields
// must already tile [0,15]; callers are responsible for that, same as
// ProtoPattern-based construction.
func FromFields(words [4][]Field) Pattern {
	var p Pattern
	for i, w := range words {
		p.words[i] = append([]Field(nil), w...)
	}
	return p
}

func (p Pattern) indexOf(id string) (word, idx int, ok bool) {
	for wi, fields := range p.words {
		for fi, f := range fields {
			if f.ID == id {
				return wi, fi, true
			}
		}
	}
	return 0, 0, false
}

// GetField looks up a field by identifier.
func (p Pattern) GetField(id string) (Field, bool) {
	wi, fi, ok := p.indexOf(id)
	if !ok {
		return Field{}, false
	}
	return p.words[wi][fi], true
}

// SetFieldType replaces the type of an existing field, preserving its
// BitRange and identifier. Identity (a no-op copy) if the id is not
// found; nothing reports the miss here, and the renderer prints an
// unresolved Field reference as its raw id. FamilyBuilder.Validate's
// field-resolution check flags it when an action or p-code body
// references that id.
func (p Pattern) SetFieldType(id string, ftype FieldType) Pattern {
	out := p.clone()
	wi, fi, ok := out.indexOf(id)
	if !ok {
		return out
	}
	out.words[wi][fi].Type = ftype
	return out
}

// SplitField replaces one field by several subfields whose sizes must
// sum to the original width; used to carve a partially-fixed field into
// a mask prefix and a residual subfield. A width mismatch is a no-op
// that returns the pattern unchanged: the original field stays in place,
// the word still tiles, and no warning is reported.
func (p Pattern) SplitField(id string, split ProtoPattern) Pattern {
	out := p.clone()
	wi, fi, ok := out.indexOf(id)
	if !ok {
		return out
	}
	field := out.words[wi][fi]
	if field.Range.Len() != split.Len() {
		return out
	}

	// Subfields follow the same MSB-first declaration convention as
	// ProtoPattern construction: the last declared subfield takes the
	// replaced field's lowest bits.
	replacement := make([]Field, len(split.Fields))
	start := field.Range.Start
	for i := len(split.Fields) - 1; i >= 0; i-- {
		pf := split.Fields[i]
		replacement[i] = Field{
			ID:    pf.ID,
			Type:  pf.Type,
			Range: BitRange{Start: start, End: start + pf.Width - 1},
		}
		start += pf.Width
	}

	word := out.words[wi]
	merged := make([]Field, 0, len(word)+len(replacement)-1)
	merged = append(merged, word[:fi]...)
	merged = append(merged, replacement...)
	merged = append(merged, word[fi+1:]...)
	out.words[wi] = merged
	return out
}

// DivideField replaces one field by several same-width siblings
// occupying the same bit range but carrying independent register-set
// bindings -- used when one slot is simultaneously read as two
// different banks (e.g. a loop-counter-select bit read both as the
// symbolic LC0/LC1 name and as the literal mask bit fixed in the
// variant's own encoding pattern). Each new field must have the exact
// width of the replaced field; a mismatch is a no-op that returns the
// pattern unchanged, as in SplitField.
func (p Pattern) DivideField(id string, div ProtoPattern) Pattern {
	out := p.clone()
	wi, fi, ok := out.indexOf(id)
	if !ok {
		return out
	}
	field := out.words[wi][fi]
	for _, pf := range div.Fields {
		if pf.Width != field.Range.Len() {
			return out
		}
	}

	replacement := make([]Field, 0, len(div.Fields))
	for _, pf := range div.Fields {
		replacement = append(replacement, Field{
			ID:    pf.ID,
			Type:  pf.Type,
			Range: field.Range,
		})
	}

	word := out.words[wi]
	merged := make([]Field, 0, len(word)+len(replacement)-1)
	merged = append(merged, word[:fi]...)
	merged = append(merged, replacement...)
	merged = append(merged, word[fi+1:]...)
	out.words[wi] = merged
	return out
}

func (p Pattern) clone() Pattern {
	var out Pattern
	for i, w := range p.words {
		out.words[i] = append([]Field(nil), w...)
	}
	return out
}

// TilesWord reports whether word i's fields are a disjoint partition of
// [0,15]: pairwise disjoint, covering every bit. divide_field's sibling
// fields (same BitRange, different id) are the one permitted exception
// to disjointness and are treated as a single tile.
func (p Pattern) TilesWord(i int) bool {
	fields := p.words[i]
	if len(fields) == 0 {
		return true
	}
	covered := make([]bool, 16)
	seen := map[BitRange]bool{}
	for _, f := range fields {
		if seen[f.Range] {
			continue // divide_field siblings share a range
		}
		seen[f.Range] = true
		if f.Range.Start < 0 || f.Range.End > 15 || f.Range.Start > f.Range.End {
			return false
		}
		for b := f.Range.Start; b <= f.Range.End; b++ {
			if covered[b] {
				return false
			}
			covered[b] = true
		}
	}
	for _, c := range covered {
		if !c {
			return false
		}
	}
	return true
}

// HasBlank reports whether any field in the pattern is still Blank.
// A BundleMarker field counts as blank here too (see Field.IsBlank).
func (p Pattern) HasBlank() bool {
	for _, w := range p.words {
		for _, f := range w {
			if f.IsBlank() {
				return true
			}
		}
	}
	return false
}
