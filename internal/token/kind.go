package token

// Kind enumerates lexical token categories of the contract language.
type Kind uint8

const (
	EOF Kind = iota
	Invalid

	Ident
	Number
	HexNumber
	StringLit

	// пунктуация и операторы
	LParen
	RParen
	LBrace
	RBrace
	Semicolon
	Comma
	Dot
	FatArrow // =>
	Assign
	PlusAssign
	MinusAssign
	Plus
	Minus
	Star
	Slash
	Percent
	Bang
	Lt
	Gt
	LtEq
	GtEq
	EqEq
	BangEq
	AndAnd
	OrOr

	// ключевые слова
	KwPragma
	KwContract
	KwInterface
	KwAbstract
	KwIs
	KwFunction
	KwConstructor
	KwReturns
	KwReturn
	KwIf
	KwElse
	KwWhile
	KwBreak
	KwContinue
	KwNew
	KwMapping
	KwPublic
	KwPrivate
	KwInternal
	KwExternal
	KwView
	KwPure
	KwPayable
	KwConstant
	KwVirtual
	KwOverride
	KwTrue
	KwFalse
	KwThis
)

var kindNames = map[Kind]string{
	EOF:         "EOF",
	Invalid:     "invalid",
	Ident:       "identifier",
	Number:      "number",
	HexNumber:   "hex number",
	StringLit:   "string",
	LParen:      "'('",
	RParen:      "')'",
	LBrace:      "'{'",
	RBrace:      "'}'",
	Semicolon:   "';'",
	Comma:       "','",
	Dot:         "'.'",
	FatArrow:    "'=>'",
	Assign:      "'='",
	PlusAssign:  "'+='",
	MinusAssign: "'-='",
	Plus:        "'+'",
	Minus:       "'-'",
	Star:        "'*'",
	Slash:       "'/'",
	Percent:     "'%'",
	Bang:        "'!'",
	Lt:          "'<'",
	Gt:          "'>'",
	LtEq:        "'<='",
	GtEq:        "'>='",
	EqEq:        "'=='",
	BangEq:      "'!='",
	AndAnd:      "'&&'",
	OrOr:        "'||'",

	KwPragma:      "'pragma'",
	KwContract:    "'contract'",
	KwInterface:   "'interface'",
	KwAbstract:    "'abstract'",
	KwIs:          "'is'",
	KwFunction:    "'function'",
	KwConstructor: "'constructor'",
	KwReturns:     "'returns'",
	KwReturn:      "'return'",
	KwIf:          "'if'",
	KwElse:        "'else'",
	KwWhile:       "'while'",
	KwBreak:       "'break'",
	KwContinue:    "'continue'",
	KwNew:         "'new'",
	KwMapping:     "'mapping'",
	KwPublic:      "'public'",
	KwPrivate:     "'private'",
	KwInternal:    "'internal'",
	KwExternal:    "'external'",
	KwView:        "'view'",
	KwPure:        "'pure'",
	KwPayable:     "'payable'",
	KwConstant:    "'constant'",
	KwVirtual:     "'virtual'",
	KwOverride:    "'override'",
	KwTrue:        "'true'",
	KwFalse:       "'false'",
	KwThis:        "'this'",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}
