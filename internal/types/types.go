package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type (void).
const NoTypeID TypeID = 0

// Kind enumerates the kinds of types of the script language.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindStr
	KindBool
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindInt:
		return "int"
	case KindStr:
		return "str"
	case KindBool:
		return "bool"
	case KindStruct:
		return "struct"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor. Payload indexes StructInfo for struct types.
type Type struct {
	Kind    Kind
	Payload uint32
}

// Primitive reports whether values of the kind fit in a single slot and can
// be used as operands directly.
func (k Kind) Primitive() bool {
	return k == KindInt || k == KindStr || k == KindBool
}
