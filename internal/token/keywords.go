package token

var keywords = map[string]Kind{
	"pragma":      KwPragma,
	"contract":    KwContract,
	"interface":   KwInterface,
	"abstract":    KwAbstract,
	"is":          KwIs,
	"function":    KwFunction,
	"constructor": KwConstructor,
	"returns":     KwReturns,
	"return":      KwReturn,
	"if":          KwIf,
	"else":        KwElse,
	"while":       KwWhile,
	"break":       KwBreak,
	"continue":    KwContinue,
	"new":         KwNew,
	"mapping":     KwMapping,
	"public":      KwPublic,
	"private":     KwPrivate,
	"internal":    KwInternal,
	"external":    KwExternal,
	"view":        KwView,
	"pure":        KwPure,
	"payable":     KwPayable,
	"constant":    KwConstant,
	"virtual":     KwVirtual,
	"override":    KwOverride,
	"true":        KwTrue,
	"false":       KwFalse,
	"this":        KwThis,
}

// LookupKeyword returns the keyword kind for text, or Ident.
func LookupKeyword(text string) Kind {
	if k, ok := keywords[text]; ok {
		return k
	}
	return Ident
}

// elementary type names are lexed as identifiers; the parser consults this set.
var elementaryTypes = map[string]bool{
	"uint":    true,
	"uint256": true,
	"int":     true,
	"int256":  true,
	"bool":    true,
	"address": true,
	"string":  true,
	"bytes32": true,
}

// IsElementaryTypeName reports whether the identifier names a builtin type.
func IsElementaryTypeName(text string) bool {
	return elementaryTypes[text]
}
