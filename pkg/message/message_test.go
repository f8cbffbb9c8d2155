package message

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const messageTestPrefix = "message:message_test"

type testInner struct {
	Value string `json:"value,omitempty"`
}

func (*testInner) MessageName() string { return "test.Inner" }

func (m *testInner) Fields() []Field {
	return []Field{ScalarField("value", "string", &m.Value)}
}

type testOuter struct {
	Name   string     `json:"name,omitempty"`
	First  *testInner `json:"first,omitempty"`
	Second *testInner `json:"second,omitempty"`
	Ok     bool       `json:"ok,omitempty"`
}

func (*testOuter) MessageName() string { return "test.Outer" }

func (m *testOuter) Fields() []Field {
	return []Field{
		ScalarField("name", "string", &m.Name),
		MessageField("first", "test.Inner", &m.First),
		MessageField("second", "test.Inner", &m.Second),
		ScalarField("ok", "bool", &m.Ok),
	}
}

func TestFieldsOfType(t *testing.T) {
	m := &testOuter{First: &testInner{Value: "a"}}

	fields := FieldsOfType(m, "test.Inner")
	if len(fields) != 2 {
		t.Fatalf("%s - expected 2 inner fields, got %d", messageTestPrefix, len(fields))
	}
	if fields[0].Name != "first" || fields[1].Name != "second" {
		t.Errorf("%s - unexpected field order: %s, %s", messageTestPrefix, fields[0].Name, fields[1].Name)
	}
	if got := fields[0].Message(); got == nil {
		t.Errorf("%s - expected first field to hold a message", messageTestPrefix)
	}
	if got := fields[1].Message(); got != nil {
		t.Errorf("%s - expected unset second field to return nil, got %#v", messageTestPrefix, got)
	}
	if FieldsOfType(nil, "test.Inner") != nil {
		t.Errorf("%s - expected nil fields for nil message", messageTestPrefix)
	}
}

func TestMessageField_SetAndClear(t *testing.T) {
	m := &testOuter{}
	f := FieldsOfType(m, "test.Inner")[1]

	f.Set(&testInner{Value: "b"})
	if m.Second == nil || m.Second.Value != "b" {
		t.Fatalf("%s - Set did not write through, got %#v", messageTestPrefix, m.Second)
	}

	f.Clear()
	if m.Second != nil {
		t.Errorf("%s - Clear left %#v", messageTestPrefix, m.Second)
	}
}

func TestScalarField_SetAndClear(t *testing.T) {
	m := &testOuter{Name: "x"}
	f := m.Fields()[0]

	if f.Get() != "x" {
		t.Errorf("%s - Get = %v, want x", messageTestPrefix, f.Get())
	}
	f.Set("y")
	if m.Name != "y" {
		t.Errorf("%s - Name = %q, want y", messageTestPrefix, m.Name)
	}
	f.Clear()
	if m.Name != "" {
		t.Errorf("%s - Name = %q after Clear, want empty", messageTestPrefix, m.Name)
	}
	if f.Message() != nil {
		t.Errorf("%s - scalar field should not expose a message", messageTestPrefix)
	}
}

func TestTypeRegistry(t *testing.T) {
	r := NewTypeRegistry()
	if !r.Has(EmptyType) {
		t.Fatalf("%s - registry should know the Empty marker", messageTestPrefix)
	}

	r.Register(func() Message { return &testOuter{} })
	m, err := r.New("test.Outer")
	if err != nil {
		t.Fatalf("%s - unexpected error: %v", messageTestPrefix, err)
	}
	if _, ok := m.(*testOuter); !ok {
		t.Errorf("%s - New returned %T", messageTestPrefix, m)
	}

	m2, _ := r.New("test.Outer")
	if m == m2 {
		t.Errorf("%s - New must return a fresh instance per call", messageTestPrefix)
	}

	_, err = r.New("test.Missing")
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("%s - expected ErrUnknownType, got %v", messageTestPrefix, err)
	}

	want := []string{EmptyType, "test.Outer"}
	if diff := cmp.Diff(want, r.Names()); diff != "" {
		t.Errorf("%s - Names mismatch (-want +got):\n%s", messageTestPrefix, diff)
	}
}

func TestIsEmpty(t *testing.T) {
	if !IsEmpty(EmptyType) {
		t.Errorf("%s - IsEmpty(%q) = false", messageTestPrefix, EmptyType)
	}
	if IsEmpty("test.Outer") {
		t.Errorf("%s - IsEmpty(test.Outer) = true", messageTestPrefix)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    *testOuter
		wantErr bool
	}{
		{
			name: "known fields",
			data: `{"name":"x","first":{"value":"v"},"ok":true}`,
			want: &testOuter{Name: "x", First: &testInner{Value: "v"}, Ok: true},
		},
		{
			name: "unknown fields are dropped",
			data: `{"name":"x","extra":{"deep":[1,2,3]},"first":{"value":"v","other":1}}`,
			want: &testOuter{Name: "x", First: &testInner{Value: "v"}},
		},
		{
			name: "empty input keeps defaults",
			data: "",
			want: &testOuter{},
		},
		{
			name: "whitespace input keeps defaults",
			data: " \n\t",
			want: &testOuter{},
		},
		{
			name:    "malformed",
			data:    `{"name":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := &testOuter{}
			err := Decode([]byte(tt.data), got)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("%s - expected error but got nil", messageTestPrefix)
				}
				var syntaxErr *json.SyntaxError
				var typeErr *json.UnmarshalTypeError
				if !errors.As(err, &syntaxErr) && !errors.As(err, &typeErr) {
					t.Errorf("%s - expected the raw json error to be wrapped, got %v", messageTestPrefix, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("%s - unexpected error: %v", messageTestPrefix, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("%s - Decode mismatch (-want +got):\n%s", messageTestPrefix, diff)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	data, err := Encode(&testOuter{Name: "x", Ok: true})
	if err != nil {
		t.Fatalf("%s - unexpected error: %v", messageTestPrefix, err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("%s - output is not JSON: %v", messageTestPrefix, err)
	}
	if decoded["name"] != "x" || decoded["ok"] != true {
		t.Errorf("%s - unexpected output %s", messageTestPrefix, data)
	}
	if _, ok := decoded["first"]; ok {
		t.Errorf("%s - unset message field should be omitted, got %s", messageTestPrefix, data)
	}
}
