package core

import "strings"

// IsValidIdentifier reports whether s is a valid declaration, property or
// enumerant name: an ASCII letter followed by ASCII letters, digits or '_'.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isASCIILetter(c):
		case i > 0 && (isASCIIDigit(c) || c == '_'):
		default:
			return false
		}
	}
	return true
}

// IsValidNamespace reports whether s is a non-empty, dot-separated sequence
// of valid identifiers.
func IsValidNamespace(s string) bool {
	if s == "" {
		return false
	}
	for _, segment := range strings.Split(s, ".") {
		if !IsValidIdentifier(segment) {
			return false
		}
	}
	return true
}

// FullyQualifiedName joins a namespace and a declaration name.
// It fails with a validation error naming whichever part is invalid.
func FullyQualifiedName(namespace, name string) (string, error) {
	if !IsValidNamespace(namespace) {
		return "", NewValidationError(CodeInvalidNamespace, "invalid namespace %q", namespace).
			WithNamespace(namespace).
			WithValue(namespace)
	}
	if !IsValidIdentifier(name) {
		return "", NewValidationError(CodeInvalidIdentifier, "invalid type name %q", name).
			WithNamespace(namespace).
			WithValue(name)
	}
	return namespace + "." + name, nil
}

// SplitFullyQualifiedName splits "org.acme.Person" into ("org.acme", "Person").
// It returns false when there is no namespace part.
func SplitFullyQualifiedName(fqn string) (namespace, name string, ok bool) {
	i := strings.LastIndexByte(fqn, '.')
	if i <= 0 || i == len(fqn)-1 {
		return "", "", false
	}
	return fqn[:i], fqn[i+1:], true
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isASCIIDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
