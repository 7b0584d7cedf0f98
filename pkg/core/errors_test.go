package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesKind(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"validation", NewValidationError(CodeInvalidIdentifier, "bad"), ErrValidation, true},
		{"validation is not parse", NewValidationError(CodeInvalidIdentifier, "bad"), ErrParse, false},
		{"namespace not found", NamespaceNotFound("org.foo"), ErrNamespaceNotFound, true},
		{"declaration not found", DeclarationNotFound("org.foo", "Bar"), ErrDeclarationNotFound, true},
		{"declaration is not namespace", DeclarationNotFound("org.foo", "Bar"), ErrNamespaceNotFound, false},
		{"parse", NewParseError(CodeUnknownClass, "bad"), ErrParse, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestError_WrappedCause(t *testing.T) {
	cause := DeclarationNotFound("org.foo", "Address")
	err := NewValidationError(CodeUnresolvedType, "unresolved type org.foo.Address").
		WithDeclaration("Person").
		WithProperty("address").
		Wrap(cause)

	wrapped := fmt.Errorf("validate: %w", err)

	assert.True(t, errors.Is(wrapped, ErrValidation))
	assert.True(t, errors.Is(wrapped, ErrDeclarationNotFound))

	e, ok := AsError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeUnresolvedType, e.Code)
	assert.Equal(t, "Person", e.Declaration)
	assert.Equal(t, "address", e.Property)
	assert.Contains(t, err.Error(), "could not find type org.foo.Address")
}

func TestError_MessageIncludesLocation(t *testing.T) {
	src := "model.cto"
	loc := &Range{
		Start:  Position{Line: 3, Column: 5},
		End:    Position{Line: 3, Column: 12},
		Source: &src,
	}

	err := NewValidationError(CodeDuplicateProperty, "duplicate property name: name in concept Person").
		WithLocation(loc)

	assert.Equal(t,
		"validation error: duplicate property name: name in concept Person (at model.cto:3:5-3:12)",
		err.Error())
}

func TestError_WithLocationIgnoresNil(t *testing.T) {
	err := NewValidationError(CodeInvalidIdentifier, "bad").WithLocation(nil)
	assert.Nil(t, err.Location)
	assert.Equal(t, "validation error: bad", err.Error())
}

func TestCodeOf_NonCoreError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}

func TestDomainValidator(t *testing.T) {
	t.Run("ordered bounds", func(t *testing.T) {
		v := &IntegerDomainValidator{Lower: Ptr[int32](0), Upper: Ptr[int32](100)}
		assert.False(t, v.Inverted())
		assert.Equal(t, "[0, 100]", v.String())
		assert.Equal(t, "concerto.metamodel@1.0.0.IntegerDomainValidator", v.Class())
	})

	t.Run("inverted bounds", func(t *testing.T) {
		v := &IntegerDomainValidator{Lower: Ptr[int32](100), Upper: Ptr[int32](0)}
		assert.True(t, v.Inverted())
	})

	t.Run("open bound is never inverted", func(t *testing.T) {
		v := &DoubleDomainValidator{Lower: Ptr(5.5)}
		assert.False(t, v.Inverted())
		assert.Equal(t, "[5.5, +inf]", v.String())
		lower, upper := v.Bounds()
		assert.Equal(t, 5.5, lower)
		assert.Nil(t, upper)
	})

	t.Run("long class", func(t *testing.T) {
		v := &LongDomainValidator{}
		assert.Equal(t, "concerto.metamodel@1.0.0.LongDomainValidator", v.Class())
	})
}

func TestSeverity_TextRoundTrip(t *testing.T) {
	for _, s := range []Severity{SeverityError, SeverityWarning, SeverityInfo, SeverityHint} {
		text, err := s.MarshalText()
		require.NoError(t, err)

		var got Severity
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, s, got)
	}

	var s Severity
	assert.Error(t, s.UnmarshalText([]byte("fatal")))
	assert.True(t, SeverityError.AtLeast(SeverityWarning))
	assert.False(t, SeverityHint.AtLeast(SeverityWarning))
}

func TestError_ContextFields(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "all fields",
			err: NewValidationError(CodeReservedPropertyName, "property names starting with $ are reserved for system use").
				WithNamespace("org.p").WithDeclaration("P").WithProperty("$class"),
			want: "validation error: property names starting with $ are reserved for system use [namespace org.p, declaration P, property $class]",
		},
		{
			name: "named in message",
			err: NewValidationError(CodeDuplicateProperty, "duplicate property name: name in concept Person").
				WithDeclaration("Person").WithProperty("name"),
			want: "validation error: duplicate property name: name in concept Person",
		},
		{
			name: "short name inside a word",
			err:  NewValidationError(CodeInvalidIdentifier, "bad value").WithDeclaration("a"),
			want: "validation error: bad value [declaration a]",
		},
		{
			name: "before location",
			err: NewValidationError(CodeInvalidIdentifier, "bad").
				WithNamespace("org.x").
				WithLocation(&Range{Start: Position{Line: 1, Column: 2}, End: Position{Line: 1, Column: 4}}),
			want: "validation error: bad [namespace org.x] (at 1:2-1:4)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}
