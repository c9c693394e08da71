package token

var keywords = map[string]Kind{
	"import":   KwImport,
	"region":   KwRegion,
	"upmost":   KwUpmost,
	"const":    KwConst,
	"static":   KwStatic,
	"function": KwFunction,
	"script":   KwScript,
	"struct":   KwStruct,
	"int":      KwInt,
	"str":      KwStr,
	"bool":     KwBool,
	"void":     KwVoid,
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"until":    KwUntil,
	"do":       KwDo,
	"for":      KwFor,
	"return":   KwReturn,
	"break":    KwBreak,
	"continue": KwContinue,
	"alias":    KwAlias,
	"buildmsg": KwBuildMsg,
	"msgbuild": KwMsgBuild,
	"true":     KwTrue,
	"false":    KwFalse,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// folded must already be case-folded: keywords are case-insensitive.
func LookupKeyword(folded string) (Kind, bool) {
	k, ok := keywords[folded]
	return k, ok
}
