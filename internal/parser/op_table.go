package parser

import (
	"acsc/internal/ast"
	"acsc/internal/token"
)

// Таблица приоритетов для бинарных операторов. Чем больше число, тем выше приоритет.
const (
	precAssignment     = 1  // = += -= *= /= %= <<= >>= &= |= ^=
	precLogicalOr      = 2  // ||
	precLogicalAnd     = 3  // &&
	precBitwiseOr      = 4  // |
	precBitwiseXor     = 5  // ^
	precBitwiseAnd     = 6  // &
	precEquality       = 7  // == !=
	precComparison     = 8  // < <= > >=
	precShift          = 9  // << >>
	precAdditive       = 10 // + -
	precMultiplicative = 11 // * / %
)

// binaryPrec возвращает приоритет и ассоциативность оператора, -1 если это не бинарный оператор.
func binaryPrec(kind token.Kind) (prec int, rightAssoc bool) {
	switch kind {
	case token.Assign, token.PlusAssign, token.MinusAssign, token.StarAssign, token.SlashAssign,
		token.PercentAssign, token.ShlAssign, token.ShrAssign, token.AmpAssign, token.PipeAssign,
		token.CaretAssign:
		return precAssignment, true
	case token.OrOr:
		return precLogicalOr, false
	case token.AndAnd:
		return precLogicalAnd, false
	case token.Pipe:
		return precBitwiseOr, false
	case token.Caret:
		return precBitwiseXor, false
	case token.Amp:
		return precBitwiseAnd, false
	case token.EqEq, token.BangEq:
		return precEquality, false
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison, false
	case token.Shl, token.Shr:
		return precShift, false
	case token.Plus, token.Minus:
		return precAdditive, false
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative, false
	default:
		return -1, false
	}
}

var binaryOps = map[token.Kind]ast.BinaryOp{
	token.Plus:    ast.BinaryAdd,
	token.Minus:   ast.BinarySub,
	token.Star:    ast.BinaryMul,
	token.Slash:   ast.BinaryDiv,
	token.Percent: ast.BinaryMod,
	token.Shl:     ast.BinaryShiftLeft,
	token.Shr:     ast.BinaryShiftRight,
	token.Amp:     ast.BinaryBitAnd,
	token.Pipe:    ast.BinaryBitOr,
	token.Caret:   ast.BinaryBitXor,
	token.AndAnd:  ast.BinaryLogAnd,
	token.OrOr:    ast.BinaryLogOr,
	token.EqEq:    ast.BinaryEq,
	token.BangEq:  ast.BinaryNotEq,
	token.Lt:      ast.BinaryLess,
	token.LtEq:    ast.BinaryLessEq,
	token.Gt:      ast.BinaryGreater,
	token.GtEq:    ast.BinaryGreaterEq,
}

var assignOps = map[token.Kind]ast.AssignOp{
	token.Assign:        ast.AssignPlain,
	token.PlusAssign:    ast.AssignAdd,
	token.MinusAssign:   ast.AssignSub,
	token.StarAssign:    ast.AssignMul,
	token.SlashAssign:   ast.AssignDiv,
	token.PercentAssign: ast.AssignMod,
	token.ShlAssign:     ast.AssignShiftLeft,
	token.ShrAssign:     ast.AssignShiftRight,
	token.AmpAssign:     ast.AssignBitAnd,
	token.PipeAssign:    ast.AssignBitOr,
	token.CaretAssign:   ast.AssignBitXor,
}

var prefixOps = map[token.Kind]ast.UnaryOp{
	token.Minus:      ast.UnaryMinus,
	token.Plus:       ast.UnaryPlus,
	token.Bang:       ast.UnaryLogNot,
	token.Tilde:      ast.UnaryBitNot,
	token.PlusPlus:   ast.UnaryPreInc,
	token.MinusMinus: ast.UnaryPreDec,
}
