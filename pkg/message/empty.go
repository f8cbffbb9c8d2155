package message

// EmptyType is the full name of the canonical no-payload marker type.
const EmptyType = "buildapi.Empty"

// Empty is the no-payload marker message. A method whose input type is
// Empty receives no input; a method whose output type is Empty produces none.
type Empty struct{}

// MessageName implements Message.
func (*Empty) MessageName() string { return EmptyType }

// Fields implements Message.
func (*Empty) Fields() []Field { return nil }

// IsEmpty reports whether typeName names the no-payload marker type.
func IsEmpty(typeName string) bool {
	return typeName == EmptyType
}
