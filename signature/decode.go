// Package signature decodes the runtime's type-signature grammar.
//
// A field signature is zero or more '[' array markers followed by a
// primitive code (one of B C D F I J S Z) or L<internal-name>;. A method
// signature is '(' followed by zero or more field signatures, ')' and a
// return signature, which may also be V.
//
//	DecodeField("[[I")                  // ArrayOf{ArrayOf{Primitive{'I'}}}
//	DecodeField("Ljava/lang/String;")   // ClassRef{"java.lang.String"}
//	DecodeMethod("(ILjava/lang/Object;)V")
//
// Class names in the result are canonical. Decoding either returns a complete
// result or an error; nothing is returned on failure.
package signature

import (
	"github.com/wippyai/gargoyle/classname"
	"github.com/wippyai/gargoyle/errors"
)

// DecodeField decodes a field signature.
func DecodeField(sig string) (TypeRef, error) {
	if sig == "" {
		return nil, errors.Signature(sig, sig, "empty signature")
	}
	t, pos, err := decodeType(sig, 0, false)
	if err != nil {
		return nil, err
	}
	if pos != len(sig) {
		return nil, errors.Signature(sig, sig[pos:], "trailing characters")
	}
	return t, nil
}

// DecodeMethod decodes a method signature into its parameter types and
// return type.
func DecodeMethod(sig string) ([]TypeRef, TypeRef, error) {
	if len(sig) == 0 || sig[0] != '(' {
		return nil, nil, errors.Signature(sig, sig, "missing '('")
	}

	params := make([]TypeRef, 0, 4)
	pos := 1
	for {
		if pos >= len(sig) {
			return nil, nil, errors.Signature(sig, sig, "missing ')'")
		}
		if sig[pos] == ')' {
			pos++
			break
		}
		t, next, err := decodeType(sig, pos, false)
		if err != nil {
			return nil, nil, err
		}
		params = append(params, t)
		pos = next
	}

	if pos >= len(sig) {
		return nil, nil, errors.Signature(sig, sig[pos-1:], "missing return type")
	}
	ret, pos, err := decodeType(sig, pos, true)
	if err != nil {
		return nil, nil, err
	}
	if pos != len(sig) {
		return nil, nil, errors.Signature(sig, sig[pos:], "trailing characters")
	}
	return params, ret, nil
}

// decodeType decodes one type starting at pos and returns the position just
// past it. The array depth is counted per call, so it resets for each type.
func decodeType(sig string, pos int, allowVoid bool) (TypeRef, int, error) {
	start := pos
	depth := 0
	for pos < len(sig) && sig[pos] == '[' {
		depth++
		pos++
	}
	if pos >= len(sig) {
		return nil, pos, errors.Signature(sig, sig[start:], "truncated array marker")
	}

	var leaf TypeRef
	c := sig[pos]
	switch {
	case IsPrimitiveCode(c):
		leaf = Primitive{Code: c}
		pos++
	case c == Void && allowVoid && depth == 0:
		leaf = Primitive{Code: Void}
		pos++
	case c == 'L':
		end := -1
		for i := pos + 1; i < len(sig); i++ {
			if sig[i] == ';' {
				end = i
				break
			}
			if sig[i] == '(' || sig[i] == ')' {
				break
			}
		}
		if end < 0 {
			return nil, pos, errors.Signature(sig, sig[pos:], "missing ';' terminator")
		}
		if end == pos+1 {
			return nil, pos, errors.Signature(sig, sig[pos:end+1], "empty class name")
		}
		leaf = ClassRef{Name: classname.ToCanonical(sig[pos+1 : end])}
		pos = end + 1
	default:
		return nil, pos, errors.Signature(sig, sig[start:pos+1], "unknown type code")
	}

	t := leaf
	for range depth {
		t = ArrayOf{Elem: t}
	}
	return t, pos, nil
}
