// Package message defines the capability surface the router and the field
// handlers need from schema-defined message types: a full type name, an
// accessor table over the top-level fields, construction by type name and a
// JSON codec.
package message

// Message is a schema-defined request or response message.
type Message interface {
	// MessageName returns the full dotted type name, e.g. "buildapi.Chroot".
	MessageName() string
	// Fields returns the accessor table for the message's top-level fields,
	// in declaration order.
	Fields() []Field
}

// Field is one entry of a message's accessor table.
//
// Type is the declared full type name for message-typed fields and a scalar
// kind ("string", "bool", "int32", "repeated <type>") otherwise. Get returns
// nil when a message-typed field is unset. Set(nil) clears the field.
type Field struct {
	Name string
	Type string
	Get  func() any
	Set  func(any)
}

// Message returns the field's value as a Message, or nil when the field is
// unset or not message-typed.
func (f Field) Message() Message {
	if f.Get == nil {
		return nil
	}
	m, _ := f.Get().(Message)
	return m
}

// Clear resets the field to its zero value.
func (f Field) Clear() {
	if f.Set != nil {
		f.Set(nil)
	}
}

// MessageField builds a Field over a pointer-typed message field of a struct.
func MessageField[M Message](name, typeName string, p *M) Field {
	return Field{
		Name: name,
		Type: typeName,
		Get: func() any {
			var zero M
			if any(*p) == any(zero) {
				return nil
			}
			return *p
		},
		Set: func(v any) {
			if v == nil {
				var zero M
				*p = zero
				return
			}
			*p = v.(M)
		},
	}
}

// ScalarField builds a Field over a non-message struct field.
func ScalarField[T any](name, kind string, p *T) Field {
	return Field{
		Name: name,
		Type: kind,
		Get:  func() any { return *p },
		Set: func(v any) {
			if v == nil {
				var zero T
				*p = zero
				return
			}
			*p = v.(T)
		},
	}
}

// FieldsOfType returns the top-level fields of m whose declared type is
// typeName, in declaration order.
func FieldsOfType(m Message, typeName string) []Field {
	if m == nil {
		return nil
	}
	var out []Field
	for _, f := range m.Fields() {
		if f.Type == typeName {
			out = append(out, f)
		}
	}
	return out
}
