package core

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// Error kinds
// =============================================================================

// ErrorKind classifies an Error into the taxonomy callers branch on.
type ErrorKind int

// Error kinds.
const (
	// KindValidation covers every structural or semantic rule violation.
	KindValidation ErrorKind = iota
	// KindDeclarationNotFound is returned by type lookups when the namespace
	// exists but holds no declaration with the requested name.
	KindDeclarationNotFound
	// KindNamespaceNotFound is returned by type lookups when no model is
	// registered for the namespace.
	KindNamespaceNotFound
	// KindParse is returned when a wire document cannot be decoded.
	KindParse
)

// String returns the human-readable kind label used as the message prefix.
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation error"
	case KindDeclarationNotFound:
		return "declaration not found"
	case KindNamespaceNotFound:
		return "namespace not found"
	case KindParse:
		return "parse error"
	default:
		return "error"
	}
}

// Sentinel errors for errors.Is matching against an Error's kind.
var (
	ErrValidation          = errors.New("validation error")
	ErrDeclarationNotFound = errors.New("declaration not found")
	ErrNamespaceNotFound   = errors.New("namespace not found")
	ErrParse               = errors.New("parse error")
)

// ErrorCode identifies the rule that produced a validation error.
type ErrorCode string

// Error codes.
const (
	CodeInvalidNamespace     ErrorCode = "invalid-namespace"
	CodeInvalidIdentifier    ErrorCode = "invalid-identifier"
	CodeDuplicateDeclaration ErrorCode = "duplicate-declaration"
	CodeDuplicateProperty    ErrorCode = "duplicate-property"
	CodeDuplicateEnumValue   ErrorCode = "duplicate-enum-value"
	CodeDuplicateNamespace   ErrorCode = "duplicate-namespace"
	CodeReservedPropertyName ErrorCode = "reserved-property-name"
	CodeInvalidMapKey        ErrorCode = "invalid-map-key"
	CodeInvalidMapValue      ErrorCode = "invalid-map-value"
	CodeInvalidRegex         ErrorCode = "invalid-regex"
	CodeInvalidBounds        ErrorCode = "invalid-bounds"
	CodeInvalidLength        ErrorCode = "invalid-length"
	CodeInvalidValidator     ErrorCode = "invalid-validator"
	CodeInvalidDecorator     ErrorCode = "invalid-decorator"
	CodeInvalidImport        ErrorCode = "invalid-import"
	CodeInvalidVersion       ErrorCode = "invalid-version"
	CodeMissingNamespace     ErrorCode = "missing-namespace"
	CodeInvalidSuperType     ErrorCode = "invalid-supertype"
	CodeUnresolvedType       ErrorCode = "unresolved-type"
	CodeCircularInheritance  ErrorCode = "circular-inheritance"
	CodeNotFound             ErrorCode = "not-found"
	CodeMalformedDocument    ErrorCode = "malformed-document"
	CodeUnknownClass         ErrorCode = "unknown-class"
)

// =============================================================================
// Error
// =============================================================================

// Error is the single error type returned by the validation core.
// Context fields are optional; Message already names them for display.
type Error struct {
	Kind        ErrorKind
	Code        ErrorCode
	Message     string
	Namespace   string
	Declaration string
	Property    string
	Value       string
	Location    *Range
	Err         error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if ctx := e.context(); len(ctx) > 0 {
		b.WriteString(" [")
		b.WriteString(strings.Join(ctx, ", "))
		b.WriteString("]")
	}
	if e.Location != nil {
		b.WriteString(" (at ")
		b.WriteString(e.Location.String())
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// context lists the namespace, declaration and property the message does
// not already name.
func (e *Error) context() []string {
	var parts []string
	add := func(label, v string) {
		if v != "" && !mentions(e.Message, v) {
			parts = append(parts, label+" "+v)
		}
	}
	add("namespace", e.Namespace)
	add("declaration", e.Declaration)
	add("property", e.Property)
	return parts
}

// mentions reports whether name occurs in msg as a whole token.
func mentions(msg, name string) bool {
	for i := 0; ; {
		j := strings.Index(msg[i:], name)
		if j < 0 {
			return false
		}
		start, end := i+j, i+j+len(name)
		if (start == 0 || !isNameByte(msg[start-1])) && (end == len(msg) || !isNameByte(msg[end])) {
			return true
		}
		i = start + 1
	}
}

func isNameByte(c byte) bool {
	return c == '_' || c == '$' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrDeclarationNotFound:
		return e.Kind == KindDeclarationNotFound
	case ErrNamespaceNotFound:
		return e.Kind == KindNamespaceNotFound
	case ErrParse:
		return e.Kind == KindParse
	}
	return false
}

// WithNamespace records the namespace the error refers to.
func (e *Error) WithNamespace(namespace string) *Error {
	e.Namespace = namespace
	return e
}

// WithDeclaration records the declaration the error refers to.
func (e *Error) WithDeclaration(name string) *Error {
	e.Declaration = name
	return e
}

// WithProperty records the property the error refers to.
func (e *Error) WithProperty(name string) *Error {
	e.Property = name
	return e
}

// WithValue records the offending value.
func (e *Error) WithValue(value string) *Error {
	e.Value = value
	return e
}

// WithLocation attaches a source range. A nil range is ignored.
func (e *Error) WithLocation(loc *Range) *Error {
	if loc != nil {
		e.Location = loc
	}
	return e
}

// Wrap records the underlying cause.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// NewValidationError creates a validation error for the given rule.
func NewValidationError(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewParseError creates an error for an undecodable wire document.
func NewParseError(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Kind:    KindParse,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// NamespaceNotFound creates a lookup error for an unregistered namespace.
func NamespaceNotFound(namespace string) *Error {
	return &Error{
		Kind:      KindNamespaceNotFound,
		Code:      CodeNotFound,
		Message:   fmt.Sprintf("could not find namespace %s", namespace),
		Namespace: namespace,
		Value:     namespace,
	}
}

// DeclarationNotFound creates a lookup error for a missing declaration.
func DeclarationNotFound(namespace, name string) *Error {
	return &Error{
		Kind:        KindDeclarationNotFound,
		Code:        CodeNotFound,
		Message:     fmt.Sprintf("could not find type %s.%s", namespace, name),
		Namespace:   namespace,
		Declaration: name,
		Value:       name,
	}
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the error code of the first *Error in err's chain,
// or the empty code when there is none.
func CodeOf(err error) ErrorCode {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return ""
}
