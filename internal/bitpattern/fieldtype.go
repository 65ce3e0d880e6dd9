package bitpattern

// FieldKind tags the closed set of FieldType variants. Represented as a
// sealed discriminated struct rather than an interface hierarchy so the
// renderer can exhaustively switch on it.
type FieldKind int

const (
	// Blank marks a field still awaiting refinement via SetFieldType,
	// SplitField, or DivideField.
	Blank FieldKind = iota
	// Mask is a fixed-bits literal belonging to this encoding.
	Mask
	// UImmVal is an unsigned immediate operand.
	UImmVal
	// SImmVal is a signed immediate operand.
	SImmVal
	// Any marks don't-care bits that still tile the pattern but carry
	// no semantic meaning of their own.
	Any
	// Variable binds a symbolic register field to a RegisterSet.
	Variable
	// BundleMarker is the reserved `m` bit of a multi-issue family; it
	// is the one FieldType that may reach the renderer still logically
	// blank (its mask literal is supplied at wrapper-clause time, not
	// at variant-construction time). See FamilyBuilder.SetMulti.
	BundleMarker
)

// FieldType is the sum type describing what an encoding bit range means.
type FieldType struct {
	Kind    FieldKind
	MaskVal uint16      // valid when Kind == Mask
	RegSet  RegisterSet // valid when Kind == Variable
}

func NewBlank() FieldType                  { return FieldType{Kind: Blank} }
func NewMask(v uint16) FieldType           { return FieldType{Kind: Mask, MaskVal: v} }
func NewUImm() FieldType                   { return FieldType{Kind: UImmVal} }
func NewSImm() FieldType                   { return FieldType{Kind: SImmVal} }
func NewAny() FieldType                    { return FieldType{Kind: Any} }
func NewVariable(rs RegisterSet) FieldType { return FieldType{Kind: Variable, RegSet: rs} }
func NewBundleMarker() FieldType           { return FieldType{Kind: BundleMarker} }

// Equal reports structural equality: Kind, plus MaskVal for Mask and
// RegSet for Variable. The attach-variable table sort uses it to group
// fields of the same type.
func (f FieldType) Equal(o FieldType) bool {
	if f.Kind != o.Kind {
		return false
	}
	switch f.Kind {
	case Mask:
		return f.MaskVal == o.MaskVal
	case Variable:
		return f.RegSet == o.RegSet
	default:
		return true
	}
}

// IsSigned reports whether this field type renders a `signed` token
// qualifier.
func (f FieldType) IsSigned() bool {
	return f.Kind == SImmVal
}

// suffix is the token-name suffix contributed by this field's type.
func (f FieldType) suffix() string {
	switch f.Kind {
	case UImmVal:
		return "UImm"
	case SImmVal:
		return "SImm"
	case Variable:
		return f.RegSet.Name()
	default:
		return ""
	}
}

// rank orders FieldType for the "by FieldType descending" step of the
// Field total order; Field.Less breaks remaining ties by RegSet, then
// MaskVal.
func (f FieldType) rank() int {
	return int(f.Kind)
}

// Less orders FieldType by Kind, then by RegSet for Variable fields;
// used to stabilise the attach-variable table's declaration order.
func (f FieldType) Less(o FieldType) bool {
	if f.Kind != o.Kind {
		return f.Kind < o.Kind
	}
	return f.RegSet < o.RegSet
}
