package extract

import (
	"testing"

	"github.com/wippyai/gargoyle/classfile"
)

func TestModifiers_SharedBits(t *testing.T) {
	tests := []struct {
		name string
		fn   func(int32) Modifiers
		bits int32
		want string
	}{
		{"class super", ClassModifiers, classfile.AccPublic | classfile.AccSuper, "public super"},
		{"method synchronized", MethodModifiers, classfile.AccPublic | classfile.AccSynchronized, "public synchronized"},
		{"method bridge", MethodModifiers, classfile.AccBridge, "bridge"},
		{"field volatile", FieldModifiers, classfile.AccVolatile, "volatile"},
		{"method varargs", MethodModifiers, classfile.AccVarargs, "varargs"},
		{"field transient", FieldModifiers, classfile.AccTransient, "transient"},
		{"class annotation", ClassModifiers, classfile.AccPublic | classfile.AccInterface | classfile.AccAbstract | classfile.AccAnnotation, "public interface abstract annotation"},
		{"field enum", FieldModifiers, classfile.AccPublic | classfile.AccStatic | classfile.AccFinal | classfile.AccEnum, "public static final enum"},
		{"class enum", ClassModifiers, classfile.AccFinal | classfile.AccEnum | classfile.AccSynthetic, "final synthetic enum"},
		{"method order", MethodModifiers, classfile.AccSynthetic | classfile.AccStrict | classfile.AccAbstract | classfile.AccPrivate, "private abstract strict synthetic"},
		{"none", FieldModifiers, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(tt.bits)
			if got.String() != tt.want {
				t.Errorf("got %q, want %q", got.String(), tt.want)
			}
			if got == nil {
				t.Error("modifiers must be non-nil")
			}
		})
	}
}

func TestModifiers_IgnoresUnknownBits(t *testing.T) {
	// Class modifiers never report member-only flags.
	got := ClassModifiers(classfile.AccPrivate | classfile.AccStatic | classfile.AccModule)
	if len(got) != 0 {
		t.Fatalf("got %v, want none", got)
	}
	if !MethodModifiers(classfile.AccNative).Has(Native) {
		t.Fatal("expected native")
	}
}
