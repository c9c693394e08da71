package ast

import (
	"acsc/internal/source"
	"acsc/internal/types"
)

// NodeKind tags an expression tree node.
type NodeKind uint8

const (
	NodeInvalid NodeKind = iota
	NodeLiteral
	NodeBoolean
	NodeStringUsage
	NodeNameUsage
	NodeUnary
	NodeBinary
	NodeAssign
	NodeSubscript
	NodeCall
	NodeAccess
	NodeParen
	NodeRegionHost
	NodeRegionUpmost
	NodeFormatItem
	NodeFormatBlockUsage
	// NodeExpr is a call argument; Payload holds the ExprID.
	NodeExpr
)

var nodeKindNames = [...]string{
	NodeInvalid:          "invalid",
	NodeLiteral:          "literal",
	NodeBoolean:          "boolean",
	NodeStringUsage:      "string",
	NodeNameUsage:        "name",
	NodeUnary:            "unary",
	NodeBinary:           "binary",
	NodeAssign:           "assign",
	NodeSubscript:        "subscript",
	NodeCall:             "call",
	NodeAccess:           "access",
	NodeParen:            "paren",
	NodeRegionHost:       "region",
	NodeRegionUpmost:     "upmost",
	NodeFormatItem:       "format-item",
	NodeFormatBlockUsage: "msgbuild",
	NodeExpr:             "expr",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "unknown"
}

type Node struct {
	Kind    NodeKind
	Span    source.Span
	Payload PayloadID
}

// Expr wraps the root of an expression tree. Folded, Value and Type are
// filled in by the semantic checker after a successful analysis.
type Expr struct {
	Root     NodeID
	Span     source.Span
	Analyzed bool
	Folded   bool
	Value    int32
	Type     types.TypeID
}

type UnaryOp uint8

const (
	UnaryMinus UnaryOp = iota
	UnaryPlus
	UnaryLogNot
	UnaryBitNot
	UnaryPreInc
	UnaryPreDec
	UnaryPostInc
	UnaryPostDec
)

// Mutating reports whether the operator writes to its operand.
func (op UnaryOp) Mutating() bool {
	return op >= UnaryPreInc
}

// Decrement reports whether the operator is one of the -- forms.
func (op UnaryOp) Decrement() bool {
	return op == UnaryPreDec || op == UnaryPostDec
}

type BinaryOp uint8

const (
	BinaryAdd BinaryOp = iota
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryMod
	BinaryShiftLeft
	BinaryShiftRight
	BinaryBitAnd
	BinaryBitOr
	BinaryBitXor
	BinaryLogAnd
	BinaryLogOr
	BinaryEq
	BinaryNotEq
	BinaryLess
	BinaryLessEq
	BinaryGreater
	BinaryGreaterEq
)

// Logical reports whether the operator yields a bool.
func (op BinaryOp) Logical() bool {
	return op >= BinaryLogAnd
}

type AssignOp uint8

const (
	AssignPlain AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
	AssignShiftLeft
	AssignShiftRight
	AssignBitAnd
	AssignBitOr
	AssignBitXor
)

// FormatCast is the one-letter conversion of a format item, e.g. `d:` or `s:`.
type FormatCast uint8

const (
	CastBinary  FormatCast = iota // b
	CastChar                      // c
	CastDecimal                   // d, i
	CastFixed                     // f
	CastKey                       // k
	CastLocal                     // l
	CastName                      // n
	CastString                    // s
	CastHex                       // x
	CastArray                     // a
)

// FormatCastByLetter maps the cast letter to its kind.
var FormatCastByLetter = map[string]FormatCast{
	"b": CastBinary,
	"c": CastChar,
	"d": CastDecimal,
	"i": CastDecimal,
	"f": CastFixed,
	"k": CastKey,
	"l": CastLocal,
	"n": CastName,
	"s": CastString,
	"x": CastHex,
	"a": CastArray,
}

type LiteralData struct{ Value int32 }

type BooleanData struct{ Value bool }

type StringData struct {
	Value source.StringID
	Index int32 // position in the string table
}

// NameData is a name usage. Name is the case-folded key used for lookup,
// Text is the spelling written in the source. Lib is the library whose
// source contains the usage; its hidden names are searched first.
type NameData struct {
	Name source.StringID
	Text source.StringID
	Lib  LibID
}

type UnaryData struct {
	Op      UnaryOp
	Operand NodeID
}

type BinaryData struct {
	Op          BinaryOp
	Left, Right NodeID
}

type AssignData struct {
	Op          AssignOp
	Left, Right NodeID
}

type SubscriptData struct {
	Left  NodeID
	Index ExprID
}

// CallData lists arguments in source order: format items or a msgbuild
// usage first, then NodeExpr arguments.
type CallData struct {
	Callee NodeID
	Args   []NodeID
}

// AccessData is `left::name` (Region) or `left.name`.
type AccessData struct {
	Left   NodeID
	Name   source.StringID
	Text   source.StringID
	Region bool
}

type ParenData struct{ Inside NodeID }

// FormatItemData is one `cast: value` item. Items of a free format list
// statement are chained through Next; items inside a call are not.
type FormatItemData struct {
	Cast   FormatCast
	Value  ExprID
	Offset ExprID // only for CastArray
	Length ExprID
	Next   NodeID
}
