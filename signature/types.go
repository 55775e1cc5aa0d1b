package signature

import "strings"

// TypeRef is a decoded type: a Primitive, a ClassRef or an ArrayOf.
type TypeRef interface {
	// String renders the type in source style, e.g. "int[][]".
	String() string
	isTypeRef()
}

// Primitive is a primitive type identified by its one-letter code.
type Primitive struct {
	Code byte
}

// ClassRef is a reference type. Name is always canonical (dotted).
type ClassRef struct {
	Name string
}

// ArrayOf is an array of Elem.
type ArrayOf struct {
	Elem TypeRef
}

func (Primitive) isTypeRef() {}
func (ClassRef) isTypeRef()  {}
func (ArrayOf) isTypeRef()   {}

// Primitive codes.
const (
	Byte    byte = 'B'
	Char    byte = 'C'
	Double  byte = 'D'
	Float   byte = 'F'
	Int     byte = 'I'
	Long    byte = 'J'
	Short   byte = 'S'
	Boolean byte = 'Z'
	Void    byte = 'V'
)

var primitiveNames = map[byte]string{
	Byte:    "byte",
	Char:    "char",
	Double:  "double",
	Float:   "float",
	Int:     "int",
	Long:    "long",
	Short:   "short",
	Boolean: "boolean",
	Void:    "void",
}

// IsPrimitiveCode reports whether c is one of the eight value-type codes.
// Void is not a value type and is excluded.
func IsPrimitiveCode(c byte) bool {
	switch c {
	case Byte, Char, Double, Float, Int, Long, Short, Boolean:
		return true
	}
	return false
}

// Name returns the source-level keyword for the primitive ("int", "void").
func (p Primitive) Name() string {
	if n, ok := primitiveNames[p.Code]; ok {
		return n
	}
	return string(p.Code)
}

func (p Primitive) String() string { return p.Name() }

func (c ClassRef) String() string { return c.Name }

func (a ArrayOf) String() string {
	var b strings.Builder
	b.WriteString(Leaf(a).String())
	for range Depth(a) {
		b.WriteString("[]")
	}
	return b.String()
}

// Depth returns the array nesting depth of t (0 for non-arrays).
func Depth(t TypeRef) int {
	n := 0
	for {
		a, ok := t.(ArrayOf)
		if !ok {
			return n
		}
		n++
		t = a.Elem
	}
}

// Leaf returns the innermost element type of t.
func Leaf(t TypeRef) TypeRef {
	for {
		a, ok := t.(ArrayOf)
		if !ok {
			return t
		}
		t = a.Elem
	}
}

// IsVoid reports whether t is the void return type.
func IsVoid(t TypeRef) bool {
	p, ok := t.(Primitive)
	return ok && p.Code == Void
}

// MarshalText renders the type in source style so descriptors encode as
// plain strings.
func (p Primitive) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (c ClassRef) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (a ArrayOf) MarshalText() ([]byte, error) { return []byte(a.String()), nil }
