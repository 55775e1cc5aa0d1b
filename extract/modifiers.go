package extract

import (
	"strings"

	"github.com/wippyai/gargoyle/classfile"
)

// Modifier is a named access or property flag.
type Modifier string

const (
	Public       Modifier = "public"
	Private      Modifier = "private"
	Protected    Modifier = "protected"
	Static       Modifier = "static"
	Final        Modifier = "final"
	Synchronized Modifier = "synchronized"
	Volatile     Modifier = "volatile"
	Bridge       Modifier = "bridge"
	Transient    Modifier = "transient"
	Varargs      Modifier = "varargs"
	Native       Modifier = "native"
	Interface    Modifier = "interface"
	Abstract     Modifier = "abstract"
	Strict       Modifier = "strict"
	Synthetic    Modifier = "synthetic"
	Annotation   Modifier = "annotation"
	Enum         Modifier = "enum"
	Super        Modifier = "super"
)

// Modifiers is an ordered modifier set.
type Modifiers []Modifier

// Has reports whether m contains x.
func (m Modifiers) Has(x Modifier) bool {
	for _, v := range m {
		if v == x {
			return true
		}
	}
	return false
}

func (m Modifiers) String() string {
	parts := make([]string, len(m))
	for i, v := range m {
		parts[i] = string(v)
	}
	return strings.Join(parts, " ")
}

type flagCheck struct {
	bit uint16
	mod Modifier
}

// The same bit means different things per context (0x0020 is super on a
// class and synchronized on a method), so each context has its own fixed
// check sequence. Output order follows the sequence.
var (
	classChecks = []flagCheck{
		{classfile.AccPublic, Public},
		{classfile.AccFinal, Final},
		{classfile.AccSuper, Super},
		{classfile.AccInterface, Interface},
		{classfile.AccAbstract, Abstract},
		{classfile.AccSynthetic, Synthetic},
		{classfile.AccAnnotation, Annotation},
		{classfile.AccEnum, Enum},
	}

	methodChecks = []flagCheck{
		{classfile.AccPublic, Public},
		{classfile.AccPrivate, Private},
		{classfile.AccProtected, Protected},
		{classfile.AccStatic, Static},
		{classfile.AccFinal, Final},
		{classfile.AccSynchronized, Synchronized},
		{classfile.AccBridge, Bridge},
		{classfile.AccVarargs, Varargs},
		{classfile.AccNative, Native},
		{classfile.AccAbstract, Abstract},
		{classfile.AccStrict, Strict},
		{classfile.AccSynthetic, Synthetic},
	}

	fieldChecks = []flagCheck{
		{classfile.AccPublic, Public},
		{classfile.AccPrivate, Private},
		{classfile.AccProtected, Protected},
		{classfile.AccStatic, Static},
		{classfile.AccFinal, Final},
		{classfile.AccVolatile, Volatile},
		{classfile.AccTransient, Transient},
		{classfile.AccSynthetic, Synthetic},
		{classfile.AccEnum, Enum},
	}
)

func mapFlags(checks []flagCheck, bits int32) Modifiers {
	out := Modifiers{}
	for _, c := range checks {
		if uint16(bits)&c.bit != 0 {
			out = append(out, c.mod)
		}
	}
	return out
}

// ClassModifiers maps class access bits.
func ClassModifiers(bits int32) Modifiers { return mapFlags(classChecks, bits) }

// MethodModifiers maps method access bits.
func MethodModifiers(bits int32) Modifiers { return mapFlags(methodChecks, bits) }

// FieldModifiers maps field access bits.
func FieldModifiers(bits int32) Modifiers { return mapFlags(fieldChecks, bits) }
