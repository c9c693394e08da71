package ast

import (
	"acsc/internal/source"
)

// Nodes owns every expression tree of a compilation.
type Nodes struct {
	Arena       *Arena[Node]
	Exprs       *Arena[Expr]
	Literals    *Arena[LiteralData]
	Booleans    *Arena[BooleanData]
	Strings     *Arena[StringData]
	Names       *Arena[NameData]
	Unaries     *Arena[UnaryData]
	Binaries    *Arena[BinaryData]
	Assigns     *Arena[AssignData]
	Subscripts  *Arena[SubscriptData]
	Calls       *Arena[CallData]
	Accesses    *Arena[AccessData]
	Parens      *Arena[ParenData]
	FormatItems *Arena[FormatItemData]

	stringIndex map[source.StringID]int32
}

// NewNodes creates the arenas with capHint slots each (256 when zero).
func NewNodes(capHint uint) *Nodes {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Nodes{
		Arena:       NewArena[Node](capHint),
		Exprs:       NewArena[Expr](capHint),
		Literals:    NewArena[LiteralData](capHint),
		Booleans:    NewArena[BooleanData](capHint / 8),
		Strings:     NewArena[StringData](capHint / 4),
		Names:       NewArena[NameData](capHint),
		Unaries:     NewArena[UnaryData](capHint / 4),
		Binaries:    NewArena[BinaryData](capHint),
		Assigns:     NewArena[AssignData](capHint / 4),
		Subscripts:  NewArena[SubscriptData](capHint / 4),
		Calls:       NewArena[CallData](capHint / 2),
		Accesses:    NewArena[AccessData](capHint / 8),
		Parens:      NewArena[ParenData](capHint / 4),
		FormatItems: NewArena[FormatItemData](capHint / 4),
		stringIndex: make(map[source.StringID]int32),
	}
}

func (n *Nodes) new(kind NodeKind, span source.Span, payload uint32) NodeID {
	return NodeID(n.Arena.Allocate(Node{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

// Get returns the node with the given ID.
func (n *Nodes) Get(id NodeID) *Node {
	return n.Arena.Get(uint32(id))
}

func (n *Nodes) payload(id NodeID, kind NodeKind) (uint32, bool) {
	node := n.Get(id)
	if node == nil || node.Kind != kind {
		return 0, false
	}
	return uint32(node.Payload), true
}

// NewExpr wraps root into an expression.
func (n *Nodes) NewExpr(span source.Span, root NodeID) ExprID {
	return ExprID(n.Exprs.Allocate(Expr{Root: root, Span: span}))
}

// Expr returns the expression with the given ID.
func (n *Nodes) Expr(id ExprID) *Expr {
	return n.Exprs.Get(uint32(id))
}

func (n *Nodes) NewLiteral(span source.Span, value int32) NodeID {
	return n.new(NodeLiteral, span, n.Literals.Allocate(LiteralData{Value: value}))
}

func (n *Nodes) Literal(id NodeID) (*LiteralData, bool) {
	p, ok := n.payload(id, NodeLiteral)
	return n.Literals.Get(p), ok
}

func (n *Nodes) NewBoolean(span source.Span, value bool) NodeID {
	return n.new(NodeBoolean, span, n.Booleans.Allocate(BooleanData{Value: value}))
}

func (n *Nodes) Boolean(id NodeID) (*BooleanData, bool) {
	p, ok := n.payload(id, NodeBoolean)
	return n.Booleans.Get(p), ok
}

// NewString creates a string usage. Equal strings share one string table index.
func (n *Nodes) NewString(span source.Span, value source.StringID) NodeID {
	index, ok := n.stringIndex[value]
	if !ok {
		index = int32(len(n.stringIndex)) // #nosec G115 -- bounded by arena size
		n.stringIndex[value] = index
	}
	return n.new(NodeStringUsage, span, n.Strings.Allocate(StringData{Value: value, Index: index}))
}

func (n *Nodes) String(id NodeID) (*StringData, bool) {
	p, ok := n.payload(id, NodeStringUsage)
	return n.Strings.Get(p), ok
}

// StringCount returns the size of the string table.
func (n *Nodes) StringCount() int {
	return len(n.stringIndex)
}

func (n *Nodes) NewName(span source.Span, name, text source.StringID, lib LibID) NodeID {
	return n.new(NodeNameUsage, span, n.Names.Allocate(NameData{Name: name, Text: text, Lib: lib}))
}

func (n *Nodes) Name(id NodeID) (*NameData, bool) {
	p, ok := n.payload(id, NodeNameUsage)
	return n.Names.Get(p), ok
}

func (n *Nodes) NewUnary(span source.Span, op UnaryOp, operand NodeID) NodeID {
	return n.new(NodeUnary, span, n.Unaries.Allocate(UnaryData{Op: op, Operand: operand}))
}

func (n *Nodes) Unary(id NodeID) (*UnaryData, bool) {
	p, ok := n.payload(id, NodeUnary)
	return n.Unaries.Get(p), ok
}

func (n *Nodes) NewBinary(span source.Span, op BinaryOp, left, right NodeID) NodeID {
	return n.new(NodeBinary, span, n.Binaries.Allocate(BinaryData{Op: op, Left: left, Right: right}))
}

func (n *Nodes) Binary(id NodeID) (*BinaryData, bool) {
	p, ok := n.payload(id, NodeBinary)
	return n.Binaries.Get(p), ok
}

func (n *Nodes) NewAssign(span source.Span, op AssignOp, left, right NodeID) NodeID {
	return n.new(NodeAssign, span, n.Assigns.Allocate(AssignData{Op: op, Left: left, Right: right}))
}

func (n *Nodes) Assign(id NodeID) (*AssignData, bool) {
	p, ok := n.payload(id, NodeAssign)
	return n.Assigns.Get(p), ok
}

func (n *Nodes) NewSubscript(span source.Span, left NodeID, index ExprID) NodeID {
	return n.new(NodeSubscript, span, n.Subscripts.Allocate(SubscriptData{Left: left, Index: index}))
}

func (n *Nodes) Subscript(id NodeID) (*SubscriptData, bool) {
	p, ok := n.payload(id, NodeSubscript)
	return n.Subscripts.Get(p), ok
}

func (n *Nodes) NewCall(span source.Span, callee NodeID, args []NodeID) NodeID {
	return n.new(NodeCall, span, n.Calls.Allocate(CallData{Callee: callee, Args: append([]NodeID(nil), args...)}))
}

func (n *Nodes) Call(id NodeID) (*CallData, bool) {
	p, ok := n.payload(id, NodeCall)
	return n.Calls.Get(p), ok
}

func (n *Nodes) NewAccess(span source.Span, left NodeID, name, text source.StringID, region bool) NodeID {
	return n.new(NodeAccess, span, n.Accesses.Allocate(AccessData{Left: left, Name: name, Text: text, Region: region}))
}

func (n *Nodes) Access(id NodeID) (*AccessData, bool) {
	p, ok := n.payload(id, NodeAccess)
	return n.Accesses.Get(p), ok
}

func (n *Nodes) NewParen(span source.Span, inside NodeID) NodeID {
	return n.new(NodeParen, span, n.Parens.Allocate(ParenData{Inside: inside}))
}

func (n *Nodes) Paren(id NodeID) (*ParenData, bool) {
	p, ok := n.payload(id, NodeParen)
	return n.Parens.Get(p), ok
}

func (n *Nodes) NewRegionHost(span source.Span) NodeID {
	return n.new(NodeRegionHost, span, 0)
}

func (n *Nodes) NewRegionUpmost(span source.Span) NodeID {
	return n.new(NodeRegionUpmost, span, 0)
}

func (n *Nodes) NewFormatItem(span source.Span, data FormatItemData) NodeID {
	return n.new(NodeFormatItem, span, n.FormatItems.Allocate(data))
}

func (n *Nodes) FormatItem(id NodeID) (*FormatItemData, bool) {
	p, ok := n.payload(id, NodeFormatItem)
	return n.FormatItems.Get(p), ok
}

func (n *Nodes) NewFormatBlockUsage(span source.Span) NodeID {
	return n.new(NodeFormatBlockUsage, span, 0)
}

// NewExprArg wraps an ordinary call argument.
func (n *Nodes) NewExprArg(expr ExprID) NodeID {
	return n.new(NodeExpr, n.Expr(expr).Span, uint32(expr))
}

// ExprArg returns the expression of a NodeExpr argument.
func (n *Nodes) ExprArg(id NodeID) (ExprID, bool) {
	p, ok := n.payload(id, NodeExpr)
	return ExprID(p), ok
}
