// Package classname converts class names between the runtime's internal
// encoding and the canonical dotted encoding.
//
// Internal names use '/' between package segments and '$' between an outer
// class and a nested class:
//
//	java/lang/Object
//	com/x/Outer$Inner
//
// Canonical names use '.' for both. Going from internal to canonical is total
// and unambiguous. The reverse direction is not: the package/class boundary is
// not recoverable from a dotted name alone, so ToInternal assumes the
// conventional style (lower-case package segments, upper-case class names) and
// starts the nested-class chain at the first segment beginning with an ASCII
// upper-case letter. Names outside that convention (upper-case packages,
// lower-case class names) are mapped incorrectly; pass them in internal form
// when correctness matters.
package classname

import "strings"

// ToInternal converts a dotted class name to internal form. Names that contain
// no '.' are returned unchanged, so internal names pass through.
//
//	ToInternal("java.lang.Object")  // "java/lang/Object"
//	ToInternal("com.x.Outer.Inner") // "com/x/Outer$Inner"
func ToInternal(name string) string {
	if !strings.Contains(name, ".") {
		return name
	}

	out := []byte(name)
	pastClass := false
	for i := 0; i < len(out); i++ {
		if out[i] != '.' {
			continue
		}
		if pastClass {
			out[i] = '$'
			continue
		}
		out[i] = '/'
		if i+1 < len(out) && isUpper(out[i+1]) {
			pastClass = true
		}
	}
	return string(out)
}

// ToCanonical converts an internal class name to dotted form by replacing
// every '/' and '$' with '.'.
func ToCanonical(name string) string {
	if !strings.ContainsAny(name, "/$") {
		return name
	}
	out := []byte(name)
	for i, c := range out {
		if c == '/' || c == '$' {
			out[i] = '.'
		}
	}
	return string(out)
}

// IsInternal reports whether name is spelled in internal form, i.e. it uses
// '/' separators and no '.'.
func IsInternal(name string) bool {
	return strings.Contains(name, "/") && !strings.Contains(name, ".")
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}
