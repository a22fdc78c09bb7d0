package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// Парсерные
	SynUnexpectedToken  Code = 2001
	SynExpectSemicolon  Code = 2002
	SynExpectIdentifier Code = 2003
	SynUnclosedParen    Code = 2004
	SynUnclosedBrace    Code = 2005
	SynExpectTypeName   Code = 2006
	SynExpectExpression Code = 2007

	// Пост-парсерные синтаксические проверки
	SynPragmaPosition        Code = 2101
	SynDuplicatePragma       Code = 2102
	SynMissingPragma         Code = 2103
	SynBreakOutsideLoop      Code = 2104
	SynContinueOutsideLoop   Code = 2105
	SynMultipleConstructors  Code = 2106
	SynConstructorReturns    Code = 2107
	SynConstructorMutability Code = 2108
	SynInterfaceConstructor  Code = 2109
	SynInterfaceStateVar     Code = 2110
	SynInterfaceFunctionBody Code = 2111
	SynFreeFunctionBody      Code = 2112
	SynFreeFunctionPayable   Code = 2113

	// Регистрация и разрешение имён
	DeclDuplicateName        Code = 3001
	DeclUndeclaredIdentifier Code = 3002
	DeclMissingSourceUnit    Code = 3003
	DeclHomonymShadowing     Code = 3004
	DeclInheritanceCycle     Code = 3005
	DeclLinearizationFailed  Code = 3006
	DeclBaseNotContract      Code = 3007

	// Типы объявлений
	DeclNotAType          Code = 3101
	DeclMappingLocation   Code = 3102
	DeclMappingConstant   Code = 3103
	DeclMappingInitial    Code = 3104
	DeclMappingKey        Code = 3105
	DeclStateVarGetterArg Code = 3106

	// Докстроки
	DocUnknownTag       Code = 4001
	DocMalformedTag     Code = 4002
	DocParamUnknown     Code = 4003
	DocReturnCount      Code = 4004
	DocInheritdocTarget Code = 4005
	DocTagNotAllowed    Code = 4006

	// Межконтрактные проверки
	ContractMissingOverride   Code = 5001
	ContractMissingVirtual    Code = 5002
	ContractOverrideMismatch  Code = 5003
	ContractDuplicateFunction Code = 5004
	ContractNotAbstract       Code = 5005
	ContractInterfaceBase     Code = 5006
	ContractOverrideNothing   Code = 5007

	// Типизация выражений и операторов
	TypeOperandMismatch     Code = 6001
	TypeCondNotBool         Code = 6002
	TypeAssignMismatch      Code = 6003
	TypeNotAssignable       Code = 6004
	TypeConstantAssign      Code = 6005
	TypeArgumentCount       Code = 6006
	TypeArgumentMismatch    Code = 6007
	TypeNoOverloadMatch     Code = 6008
	TypeAmbiguousCall       Code = 6009
	TypeNotCallable         Code = 6010
	TypeMemberUnknown       Code = 6011
	TypeMemberNotVisible    Code = 6012
	TypeReturnArity         Code = 6013
	TypeReturnMismatch      Code = 6014
	TypeNewNotConstructible Code = 6015
	TypeLiteralTooLarge     Code = 6016
	TypeUnaryOperand        Code = 6017
	TypeVoidValue           Code = 6018

	// Пост-типовые проверки
	PostConstantUninitialized Code = 7001
	PostConstantNotConstant   Code = 7002
	PostViewWrite             Code = 7003
	PostPureStateAccess       Code = 7004
	PostSignatureCollision    Code = 7005

	// Внутренние сбои компилятора
	ICEPanic Code = 9001
)

// ID возвращает стабильный строковый идентификатор кода.
func (c Code) ID() string {
	return fmt.Sprintf("SOL%04d", uint16(c))
}

func (c Code) String() string {
	return c.ID()
}

// Kind maps a code to the error-type label used by the diagnostics query
// (`<kind>: <message>`), mirroring the classic frontend taxonomy.
func (c Code) Kind() string {
	switch {
	case c >= 1000 && c < 2100:
		return "ParserError"
	case c >= 2100 && c < 3000:
		return "SyntaxError"
	case c >= 3000 && c < 4000:
		return "DeclarationError"
	case c >= 4000 && c < 5000:
		return "DocstringParsingError"
	case c >= 5000 && c < 8000:
		return "TypeError"
	case c >= 9000:
		return "InternalCompilerError"
	default:
		return "Error"
	}
}
