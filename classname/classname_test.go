package classname

import "testing"

func TestToInternal(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"java.lang.Object", "java/lang/Object"},
		{"com.x.Outer.Inner", "com/x/Outer$Inner"},
		{"com.x.Outer.Inner.Deep", "com/x/Outer$Inner$Deep"},
		{"java.util.Map.Entry", "java/util/Map$Entry"},
		{"Hello", "Hello"},
		{"java/lang/String", "java/lang/String"},
		{"com/x/Outer$Inner", "com/x/Outer$Inner"},
		{"", ""},
		{"a.b.c", "a/b/c"},
		{"trailing.", "trailing/"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ToInternal(tt.input)
			if result != tt.expected {
				t.Errorf("ToInternal(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestToCanonical(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"java/lang/Object", "java.lang.Object"},
		{"com/x/Outer$Inner", "com.x.Outer.Inner"},
		{"Outer$1", "Outer.1"},
		{"java.lang.Object", "java.lang.Object"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ToCanonical(tt.input)
			if result != tt.expected {
				t.Errorf("ToCanonical(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCanonicalRoundtrip(t *testing.T) {
	names := []string{
		"java.lang.Object",
		"java.lang.String",
		"java.util.Map.Entry",
		"com.example.deep.pkg.Outer.Inner.Innermost",
		"org.acme.Server",
		"Hello",
	}
	for _, name := range names {
		internal := ToInternal(name)
		back := ToCanonical(internal)
		if back != name {
			t.Errorf("roundtrip failed: %q -> %q -> %q", name, internal, back)
		}
	}
}

func TestToInternal_UnconventionalNames(t *testing.T) {
	// Upper-case package segments are taken as the start of the class chain.
	// This is the documented limitation, pinned here so a change is deliberate.
	got := ToInternal("com.Acme.util.Helper")
	if got != "com/Acme$util$Helper" {
		t.Errorf("ToInternal = %q", got)
	}
	if ToCanonical(got) != "com.Acme.util.Helper" {
		t.Error("canonical form should still round-trip textually")
	}
}

func TestIsInternal(t *testing.T) {
	if !IsInternal("java/lang/Object") {
		t.Error("java/lang/Object should be internal")
	}
	if IsInternal("java.lang.Object") {
		t.Error("java.lang.Object should not be internal")
	}
	if IsInternal("Hello") {
		t.Error("unqualified name is ambiguous, reported as not internal")
	}
}
