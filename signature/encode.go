package signature

import (
	"strings"

	"github.com/wippyai/gargoyle/classname"
)

// Encode renders t back into signature form. Class names go through
// classname.ToInternal, so nested classes only round-trip for
// conventionally named classes.
func Encode(t TypeRef) string {
	var b strings.Builder
	encodeTo(&b, t)
	return b.String()
}

// EncodeMethod renders a method signature from its parts.
func EncodeMethod(params []TypeRef, ret TypeRef) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range params {
		encodeTo(&b, p)
	}
	b.WriteByte(')')
	encodeTo(&b, ret)
	return b.String()
}

func encodeTo(b *strings.Builder, t TypeRef) {
	switch v := t.(type) {
	case Primitive:
		b.WriteByte(v.Code)
	case ClassRef:
		b.WriteByte('L')
		b.WriteString(classname.ToInternal(v.Name))
		b.WriteByte(';')
	case ArrayOf:
		b.WriteByte('[')
		encodeTo(b, v.Elem)
	}
}
