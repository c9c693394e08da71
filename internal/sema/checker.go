package sema

import (
	"acsc/internal/ast"
	"acsc/internal/diag"
	"acsc/internal/source"
	"acsc/internal/symbols"
	"acsc/internal/trace"
	"acsc/internal/types"
)

// Result stores what analysis attaches to the tree. Node-keyed maps are
// side tables: the arena nodes themselves stay immutable.
type Result struct {
	// Calls maps a call node to its resolved callee.
	Calls map[ast.NodeID]*symbols.Func
	// Names maps a name usage to the object it resolved to.
	Names map[ast.NodeID]symbols.Object
	// Members maps a `::` or `.` access to its right-hand object.
	Members map[ast.NodeID]symbols.Object
	// NestedCalls holds the codegen records of calls to nested functions.
	NestedCalls map[ast.NodeID]*NestedCall
	// FormatBlocks maps each msgbuild usage to the block it renders.
	FormatBlocks map[ast.NodeID]*ast.BlockStmt
	Scripts      []*Script
	// HasString is set when any analysed expression uses a string literal.
	HasString bool
	// Passes counts the declaration passes the resolve loop needed.
	Passes int
}

// NestedCall is filled in by code generation; analysis only creates it.
type NestedCall struct {
	Func     *symbols.Func
	ID       int
	EnterPos int
	LeavePos int
}

type Script struct {
	Number int32
	Decl   *ast.ScriptDecl
	Lib    ast.LibID
	Params []*symbols.Param
}

func newResult() *Result {
	return &Result{
		Calls:        make(map[ast.NodeID]*symbols.Func),
		Names:        make(map[ast.NodeID]symbols.Object),
		Members:      make(map[ast.NodeID]symbols.Object),
		NestedCalls:  make(map[ast.NodeID]*NestedCall),
		FormatBlocks: make(map[ast.NodeID]*ast.BlockStmt),
	}
}

// Checker analyses expressions against the symbol table. It is used by the
// declaration and statement passes of Check, and can be driven directly.
type Checker struct {
	nodes    *ast.Nodes
	table    *symbols.Table
	strs     *source.Interner
	typs     *types.Interner
	builtins types.Builtins
	reporter diag.Reporter
	result   *Result
	tracer   trace.Tracer

	region *symbols.Region // регион, в котором ищутся имена
	lib    ast.LibID
	fn     *symbols.Func // nil вне тела функции
	scopes []*scope

	tasks         []pending
	imports       []*importTask
	funcs         []*funcTask
	scripts       []*scriptTask
	scriptNumbers map[int32]*ast.ScriptDecl
}

// NewChecker creates a checker whose lookups start in the upmost region.
func NewChecker(nodes *ast.Nodes, table *symbols.Table, reporter diag.Reporter) *Checker {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Checker{
		nodes:    nodes,
		table:    table,
		strs:     table.Strings,
		typs:     table.Types,
		builtins: table.Types.Builtins(),
		reporter: reporter,
		result:   newResult(),
		tracer:   trace.Nop,
		region:   table.Upmost,

		scriptNumbers: make(map[int32]*ast.ScriptDecl),
	}
}

// Result returns the side tables filled so far.
func (c *Checker) Result() *Result { return c.result }

// Region returns the region names are currently looked up in.
func (c *Checker) Region() *symbols.Region { return c.region }

// SetRegion changes the lookup region and the library of the code being
// analysed. It returns the previous region.
func (c *Checker) SetRegion(region *symbols.Region, lib ast.LibID) *symbols.Region {
	prev := c.region
	c.region = region
	c.lib = lib
	return prev
}

// ExprTest is the context of one expression analysis.
type ExprTest struct {
	StmtTest *StmtTest
	// FormatBlock is the block a msgbuild usage may refer to.
	FormatBlock       *ast.BlockStmt
	FormatBlockUsages []ast.NodeID
	ResultRequired    bool
	// UndefErr turns a reference to an unresolved name into a fatal error.
	// Without it the test stops and sets Unresolved.
	UndefErr           bool
	AcceptArray        bool
	SuggestParenAssign bool
	HasString          bool
	Unresolved         bool
	Span               source.Span
}

func NewExprTest(stmt *StmtTest, block *ast.BlockStmt, resultRequired, undefErr, suggestParenAssign bool) *ExprTest {
	return &ExprTest{
		StmtTest:           stmt,
		FormatBlock:        block,
		ResultRequired:     resultRequired,
		UndefErr:           undefErr,
		SuggestParenAssign: suggestParenAssign,
	}
}

// StmtTest is the statement context an expression is nested in.
type StmtTest struct {
	Parent      *StmtTest
	FormatBlock *ast.BlockStmt
	InLoop      bool
}

// inFormatBlock returns the nearest enclosing format block.
func (s *StmtTest) inFormatBlock() *ast.BlockStmt {
	for ; s != nil; s = s.Parent {
		if s.FormatBlock != nil {
			return s.FormatBlock
		}
	}
	return nil
}

func (s *StmtTest) inLoop() bool {
	for ; s != nil; s = s.Parent {
		if s.InLoop {
			return true
		}
	}
	return false
}

// operand is the judgment about one subexpression.
type operand struct {
	fn     *symbols.Func
	dim    *symbols.Dim
	region *symbols.Region
	typ    types.TypeID
	value  int32

	complete   bool
	usable     bool
	assignable bool
	folded     bool
	inParen    bool
}

func (op *operand) setValue(typ types.TypeID, value int32) {
	op.typ = typ
	op.value = value
	op.folded = true
	op.complete = true
	op.usable = true
}

func (op *operand) setPrimitive(typ types.TypeID) {
	op.typ = typ
	op.complete = true
	op.usable = true
	op.assignable = true
}

func boolValue(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func (c *Checker) text(id source.StringID) string {
	s, _ := c.strs.Lookup(id)
	return s
}
