package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	SemErrNoProduction          = newSemanticError("a grammar needs at least one production")
	SemErrUnknownSymbol         = newSemanticError("undefined nonterminal")
	SemErrDuplicatePlaceholder  = newSemanticError("duplicate placeholder name")
	SemErrDuplicateOutputField  = newSemanticError("duplicate output field name")
	SemErrUnknownPlaceholderRef = newSemanticError("an output spec references an undeclared placeholder")
	SemErrBuiltinChildCapture   = newSemanticError("a child capture needs a user-defined nonterminal, not a built-in type")
	SemErrReservedTypeName      = newSemanticError("a built-in type name cannot be a production name")
)
