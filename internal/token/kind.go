package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	IntLit
	CharLit
	StringLit

	KwImport   // import
	KwRegion   // region
	KwUpmost   // upmost
	KwConst    // const
	KwStatic   // static
	KwFunction // function
	KwScript   // script
	KwStruct   // struct
	KwInt      // int
	KwStr      // str
	KwBool     // bool
	KwVoid     // void
	KwIf       // if
	KwElse     // else
	KwWhile    // while
	KwUntil    // until
	KwDo       // do
	KwFor      // for
	KwReturn   // return
	KwBreak    // break
	KwContinue // continue
	KwAlias    // alias
	KwBuildMsg // buildmsg
	KwMsgBuild // msgbuild
	KwTrue     // true
	KwFalse    // false

	HashLibrary // #library

	Plus          // +
	Minus         // -
	Star          // *
	Slash         // /
	Percent       // %
	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	AmpAssign     // &=
	PipeAssign    // |=
	CaretAssign   // ^=
	ShlAssign     // <<=
	ShrAssign     // >>=
	PlusPlus      // ++
	MinusMinus    // --
	EqEq          // ==
	Bang          // !
	BangEq        // !=
	Lt            // <
	LtEq          // <=
	Gt            // >
	GtEq          // >=
	Shl           // <<
	Shr           // >>
	Amp           // &
	Pipe          // |
	Caret         // ^
	Tilde         // ~
	AndAnd        // &&
	OrOr          // ||
	Colon         // :
	ColonColon    // ::
	Semicolon     // ;
	Comma         // ,
	Dot           // .
	LParen        // (
	RParen        // )
	LBrace        // {
	RBrace        // }
	LBracket      // [
	RBracket      // ]
)

var kindNames = [...]string{
	Invalid:       "invalid",
	EOF:           "end of file",
	Ident:         "identifier",
	IntLit:        "integer",
	CharLit:       "character",
	StringLit:     "string",
	KwImport:      "import",
	KwRegion:      "region",
	KwUpmost:      "upmost",
	KwConst:       "const",
	KwStatic:      "static",
	KwFunction:    "function",
	KwScript:      "script",
	KwStruct:      "struct",
	KwInt:         "int",
	KwStr:         "str",
	KwBool:        "bool",
	KwVoid:        "void",
	KwIf:          "if",
	KwElse:        "else",
	KwWhile:       "while",
	KwUntil:       "until",
	KwDo:          "do",
	KwFor:         "for",
	KwReturn:      "return",
	KwBreak:       "break",
	KwContinue:    "continue",
	KwAlias:       "alias",
	KwBuildMsg:    "buildmsg",
	KwMsgBuild:    "msgbuild",
	KwTrue:        "true",
	KwFalse:       "false",
	HashLibrary:   "#library",
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	Percent:       "%",
	Assign:        "=",
	PlusAssign:    "+=",
	MinusAssign:   "-=",
	StarAssign:    "*=",
	SlashAssign:   "/=",
	PercentAssign: "%=",
	AmpAssign:     "&=",
	PipeAssign:    "|=",
	CaretAssign:   "^=",
	ShlAssign:     "<<=",
	ShrAssign:     ">>=",
	PlusPlus:      "++",
	MinusMinus:    "--",
	EqEq:          "==",
	Bang:          "!",
	BangEq:        "!=",
	Lt:            "<",
	LtEq:          "<=",
	Gt:            ">",
	GtEq:          ">=",
	Shl:           "<<",
	Shr:           ">>",
	Amp:           "&",
	Pipe:          "|",
	Caret:         "^",
	Tilde:         "~",
	AndAnd:        "&&",
	OrOr:          "||",
	Colon:         ":",
	ColonColon:    "::",
	Semicolon:     ";",
	Comma:         ",",
	Dot:           ".",
	LParen:        "(",
	RParen:        ")",
	LBrace:        "{",
	RBrace:        "}",
	LBracket:      "[",
	RBracket:      "]",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}
