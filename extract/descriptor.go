package extract

import (
	"github.com/wippyai/gargoyle/signature"
)

// ClassDescriptor is the reflective shape of one class. Superclass is empty
// only for the root class and for interfaces. Methods and fields keep the
// order the runtime reports, which is declaration order in practice but not
// guaranteed across runtimes.
type ClassDescriptor struct {
	Name       string             `json:"name" jsonschema:"description=Canonical class name"`
	Superclass string             `json:"superclass,omitempty"`
	Interfaces []string           `json:"interfaces"`
	Methods    []MethodDescriptor `json:"methods"`
	Fields     []FieldDescriptor  `json:"fields"`
	Modifiers  Modifiers          `json:"modifiers"`
}

// MethodDescriptor describes a declared method, constructors included.
type MethodDescriptor struct {
	Name       string              `json:"name"`
	Parameters []signature.TypeRef `json:"accepts"`
	ReturnType signature.TypeRef   `json:"returns"`
	Modifiers  Modifiers           `json:"modifiers"`
}

// FieldDescriptor describes a declared field.
type FieldDescriptor struct {
	Name      string            `json:"name"`
	Type      signature.TypeRef `json:"type"`
	Modifiers Modifiers         `json:"modifiers"`
}

// Method returns the first declared method with the given name.
func (d *ClassDescriptor) Method(name string) (MethodDescriptor, bool) {
	for _, m := range d.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return MethodDescriptor{}, false
}

// Field returns the declared field with the given name.
func (d *ClassDescriptor) Field(name string) (FieldDescriptor, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// Signature re-encodes the method's descriptor.
func (m MethodDescriptor) Signature() string {
	return signature.EncodeMethod(m.Parameters, m.ReturnType)
}
