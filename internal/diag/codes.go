package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscape                Code = 1005
	LexBadCharLiteral           Code = 1006

	// Синтаксические
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectSemicolon    Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectExpression   Code = 2004
	SynExpectType         Code = 2005
	SynUnclosedParen      Code = 2006
	SynUnclosedBrace      Code = 2007
	SynUnclosedBracket    Code = 2008
	SynBadFormatItem      Code = 2009
	SynBadLibraryName     Code = 2010
	SynUnexpectedTopLevel Code = 2011
	SynFormatItemPosition Code = 2012

	// Семантические: выражения
	SemaInfo                   Code = 3000
	SemaExprIncomplete         Code = 3001
	SemaExprNoValue            Code = 3002
	SemaUndefined              Code = 3003
	SemaNotFound               Code = 3004
	SemaAmbiguousName          Code = 3005
	SemaNotIncrementable       Code = 3006
	SemaUnaryNotValue          Code = 3007
	SemaNotArray               Code = 3008
	SemaIndexOutOfBounds       Code = 3009
	SemaNotFunction            Code = 3010
	SemaAspecFromScript        Code = 3011
	SemaLatentCall             Code = 3012
	SemaNotEnoughArgs          Code = 3013
	SemaTooManyArgs            Code = 3014
	SemaFormatItemToNonFormat  Code = 3015
	SemaFormatBlockToNonFormat Code = 3016
	SemaMissingFormatArg       Code = 3017
	SemaMissingFormatBlock     Code = 3018
	SemaArgNotArray            Code = 3019
	SemaArgArrayDims           Code = 3020
	SemaBinaryNotValue         Code = 3021
	SemaDivisionByZero         Code = 3022
	SemaAssignNotParenthesized Code = 3023
	SemaCannotAssign           Code = 3024
	SemaAssignRightNotValue    Code = 3025
	SemaNotRegion              Code = 3026
	SemaNotFoundInRegion       Code = 3027
	SemaRightUndefined         Code = 3028
	SemaNotStruct              Code = 3029
	SemaNotMember              Code = 3030
	SemaAliasCycle             Code = 3031
	SemaMixedFormatArgs        Code = 3032

	// Семантические: объявления и инструкции
	SemaDuplicateName      Code = 3040
	SemaNotConstant        Code = 3041
	SemaBadDimension       Code = 3042
	SemaTypeMismatch       Code = 3043
	SemaReturnValue        Code = 3044
	SemaMissingReturnValue Code = 3045
	SemaBreakOutsideLoop   Code = 3046
	SemaContinueOutsideLp  Code = 3047
	SemaDuplicateScript    Code = 3048
	SemaScriptParams       Code = 3049
	SemaUnusedVar          Code = 3050
	SemaNotStructType      Code = 3051
	SemaImportNotRegion    Code = 3052
	SemaBadScriptNumber    Code = 3053
	SemaDefaultParamOrder  Code = 3054
	SemaInitializerShape   Code = 3055
	SemaFormatOutsideBlock Code = 3056

	// Ввод-вывод
	IOLoadFileError Code = 4001
	IOImportCycle   Code = 4002
	IOImportMissing Code = 4003

	// Проект и кеш
	ProjInfo         Code = 5000
	ProjCacheCorrupt Code = 5001
	ProjCacheWrite   Code = 5002
	ProjBadConfig    Code = 5003
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Bad number",
	LexBadEscape:                "Bad escape sequence",
	LexBadCharLiteral:           "Bad character literal",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectSemicolon:          "Expect semicolon",
	SynExpectIdentifier:         "Expect identifier",
	SynExpectExpression:         "Expect expression",
	SynExpectType:               "Expect type",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynUnclosedBrace:            "Unclosed brace",
	SynUnclosedBracket:          "Unclosed bracket",
	SynBadFormatItem:            "Bad format item",
	SynBadLibraryName:           "Bad library name",
	SynUnexpectedTopLevel:       "Unexpected top level",
	SynFormatItemPosition:       "Format item after ordinary argument",
	SemaInfo:                    "Semantic information",
	SemaExprIncomplete:          "Expression incomplete",
	SemaExprNoValue:             "Expression does not produce a value",
	SemaUndefined:               "Name used before it is defined",
	SemaNotFound:                "Name not found",
	SemaAmbiguousName:           "Ambiguous name",
	SemaNotIncrementable:        "Operand cannot be incremented or decremented",
	SemaUnaryNotValue:           "Operand of unary operation not a value",
	SemaNotArray:                "Operand not an array",
	SemaIndexOutOfBounds:        "Array index out of bounds",
	SemaNotFunction:             "Operand not a function",
	SemaAspecFromScript:         "Action special not callable from script",
	SemaLatentCall:              "Latent function in function or format block",
	SemaNotEnoughArgs:           "Not enough arguments",
	SemaTooManyArgs:             "Too many arguments",
	SemaFormatItemToNonFormat:   "Format item passed to non-format function",
	SemaFormatBlockToNonFormat:  "Format block passed to non-format function",
	SemaMissingFormatArg:        "Missing format argument",
	SemaMissingFormatBlock:      "Missing format block",
	SemaArgNotArray:             "Argument not an array",
	SemaArgArrayDims:            "Array argument not of single dimension",
	SemaBinaryNotValue:          "Operand of binary operation not a value",
	SemaDivisionByZero:          "Division by zero",
	SemaAssignNotParenthesized:  "Assignment not in parentheses",
	SemaCannotAssign:            "Cannot assign to operand",
	SemaAssignRightNotValue:     "Right side of assignment not a value",
	SemaNotRegion:               "Operand not a region",
	SemaNotFoundInRegion:        "Name not found in region",
	SemaRightUndefined:          "Right operand undefined",
	SemaNotStruct:               "Operand not of struct type",
	SemaNotMember:               "Not a struct member",
	SemaAliasCycle:              "Alias cycle",
	SemaMixedFormatArgs:         "Format-block mixed with other arguments",
	SemaDuplicateName:           "Duplicate name",
	SemaNotConstant:             "Expression not constant",
	SemaBadDimension:            "Bad array dimension",
	SemaTypeMismatch:            "Type mismatch",
	SemaReturnValue:             "Return value in void function",
	SemaMissingReturnValue:      "Missing return value",
	SemaBreakOutsideLoop:        "Break outside loop",
	SemaContinueOutsideLp:       "Continue outside loop",
	SemaDuplicateScript:         "Duplicate script number",
	SemaScriptParams:            "Too many script parameters",
	SemaUnusedVar:               "Unused variable",
	SemaNotStructType:           "Not a struct type",
	SemaImportNotRegion:         "Imported path not a region",
	SemaBadScriptNumber:         "Bad script number",
	SemaDefaultParamOrder:       "Parameter without default after optional parameter",
	SemaInitializerShape:        "Initializer does not match declaration",
	SemaFormatOutsideBlock:      "Format item outside format block",
	IOLoadFileError:             "File load error",
	IOImportCycle:               "Import cycle",
	IOImportMissing:             "Imported file not found",
	ProjInfo:                    "Project information",
	ProjCacheCorrupt:            "Corrupt cache entry",
	ProjCacheWrite:              "Cache write failed",
	ProjBadConfig:               "Bad project configuration",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	if desc, ok := codeDescription[c]; ok {
		return desc
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
