package host

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/gargoyle/config"
	"github.com/wippyai/gargoyle/errors"
	"github.com/wippyai/gargoyle/memvm"
)

func startModule(t *testing.T) *Module {
	t.Helper()
	m := NewModule(&memvm.Launcher{Stderr: &bytes.Buffer{}})
	v, err := m.Start(context.Background(), config.Default())
	require.NoError(t, err)
	require.Equal(t, T, v)
	t.Cleanup(func() {
		if m.IsRunning() == T {
			_, _ = m.Stop(context.Background())
		}
	})
	return m
}

func requireSignal(t *testing.T, err error, symbol string) *Signal {
	t.Helper()
	var sig *Signal
	require.ErrorAs(t, err, &sig)
	require.Equal(t, symbol, sig.Symbol.Name())
	return sig
}

func TestModule_Lifecycle(t *testing.T) {
	m := NewModule(&memvm.Launcher{})
	assert.Equal(t, Nil, m.IsRunning())
	assert.Equal(t, Nil, m.Version())

	_, err := m.Start(context.Background(), config.Default())
	require.NoError(t, err)
	assert.Equal(t, T, m.IsRunning())
	assert.Equal(t, String("21"), m.Version())

	_, err = m.Start(context.Background(), config.Default())
	sig := requireSignal(t, err, "error")
	assert.ErrorIs(t, sig, errors.ErrAlreadyRunning)

	v, err := m.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, T, v)
	assert.Equal(t, Nil, m.IsRunning())

	_, err = m.Start(context.Background(), config.Default())
	assert.ErrorIs(t, err, errors.ErrRestartForbidden)
}

func TestModule_NotRunning(t *testing.T) {
	m := NewModule(&memvm.Launcher{})

	_, err := m.FindClass(String("java.lang.String"))
	sig := requireSignal(t, err, "error")
	assert.ErrorIs(t, sig, errors.ErrNotRunning)
	assert.Contains(t, sig.Error(), "runtime not running")
}

func TestModule_FindClass(t *testing.T) {
	m := startModule(t)

	cls, err := m.FindClass(String("java.lang.String"))
	require.NoError(t, err)
	require.IsType(t, &UserPtr{}, cls)

	name, err := m.ClassName(cls)
	require.NoError(t, err)
	assert.Same(t, m.Interner().Intern("java.lang.String"), name)

	super, err := m.Superclass(cls)
	require.NoError(t, err)
	assert.Same(t, m.Interner().Intern("java.lang.Object"), super)

	obj, err := m.FindClass(String("java.lang.Object"))
	require.NoError(t, err)
	super, err = m.Superclass(obj)
	require.NoError(t, err)
	assert.Equal(t, Nil, super)

	kind, err := m.ObjectClass(cls)
	require.NoError(t, err)
	assert.Equal(t, "java.lang.Class", kind.(*Symbol).Name())
	assert.Equal(t, "#<user-ptr java.lang.Class>", Print(cls))
}

func TestModule_WrongType(t *testing.T) {
	m := startModule(t)
	in := m.Interner()

	calls := map[string]func() (Value, error){
		"FindClass symbol": func() (Value, error) { return m.FindClass(in.Intern("java.lang.String")) },
		"NewString int":    func() (Value, error) { return m.NewString(Int(3)) },
		"ClassName string": func() (Value, error) { return m.ClassName(String("java.lang.String")) },
		"NewInstance nil":  func() (Value, error) { return m.NewInstance(Nil) },
		"Structure int":    func() (Value, error) { return m.ClassStructure(Int(1)) },
		"Display cons":     func() (Value, error) { return m.ToDisplayString(Pair(T, T)) },
		"Release string":   func() (Value, error) { return m.Release(String("x")) },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			_, err := call()
			sig := requireSignal(t, err, "wrong-type-argument")
			assert.ErrorIs(t, sig, errors.ErrWrongType)

			data, ok := Slice(sig.Data)
			require.True(t, ok)
			require.Len(t, data, 3)
			assert.True(t, strings.HasPrefix(string(data[0].(String)), "expected "))
		})
	}
}

func TestModule_ClassHandleRequired(t *testing.T) {
	m := startModule(t)

	str, err := m.NewString(String("hello"))
	require.NoError(t, err)

	_, err = m.ClassName(str)
	sig := requireSignal(t, err, "wrong-type-argument")
	data, _ := Slice(sig.Data)
	assert.Equal(t, "java.lang.String", Print(data[2]))
}

func TestModule_Objects(t *testing.T) {
	m := startModule(t)

	str, err := m.NewString(String("hello world"))
	require.NoError(t, err)
	text, err := m.ToDisplayString(str)
	require.NoError(t, err)
	assert.Equal(t, String("hello world"), text)

	cls, err := m.FindClass(String("java/lang/Object"))
	require.NoError(t, err)
	obj, err := m.NewInstance(cls)
	require.NoError(t, err)
	text, err = m.ToDisplayString(obj)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(text.(String)), "java.lang.Object@"))

	_, err = m.Release(obj)
	require.NoError(t, err)
	_, err = m.Release(obj)
	require.NoError(t, err)
	_, err = m.ToDisplayString(obj)
	assert.ErrorIs(t, err, errors.ErrReleased)
}

func TestModule_JavaException(t *testing.T) {
	m := startModule(t)

	cls, err := m.FindClass(String("java.lang.Comparable"))
	require.NoError(t, err)

	_, err = m.NewInstance(cls)
	sig := requireSignal(t, err, "java-exception")
	assert.ErrorIs(t, sig, errors.ErrRuntimeException)

	ptr, ok := sig.Data.(*UserPtr)
	require.True(t, ok)
	kind, err := m.ObjectClass(ptr)
	require.NoError(t, err)
	assert.Equal(t, "java.lang.NoSuchMethodError", kind.(*Symbol).Name())

	text, err := m.ToDisplayString(ptr)
	require.NoError(t, err)
	assert.Contains(t, string(text.(String)), "java.lang.NoSuchMethodError")
}

func TestModule_ClassNotFound(t *testing.T) {
	m := startModule(t)

	_, err := m.FindClass(String("com.example.Nope"))
	sig := requireSignal(t, err, "error")
	assert.ErrorIs(t, sig, errors.ErrClassNotFound)

	_, err = m.ClassStructure(m.Interner().Intern("com.example.Nope"))
	assert.True(t, stderrors.Is(err, errors.ErrClassNotFound))
}

func TestModule_ClassStructure(t *testing.T) {
	m := startModule(t)
	in := m.Interner()

	desc, err := m.ClassStructure(in.Intern("java.lang.String"))
	require.NoError(t, err)

	name, ok := Assq(in.Intern("name"), desc)
	require.True(t, ok)
	assert.Same(t, in.Intern("java.lang.String"), name)

	super, ok := Assq(in.Intern("superclass"), desc)
	require.True(t, ok)
	assert.Same(t, in.Intern("java.lang.Object"), super)

	ifaces, ok := Assq(in.Intern("interfaces"), desc)
	require.True(t, ok)
	assert.Equal(t, "(java.io.Serializable java.lang.Comparable java.lang.CharSequence)", Print(ifaces))

	mods, ok := Assq(in.Intern("modifiers"), desc)
	require.True(t, ok)
	assert.Equal(t, "(public final super)", Print(mods))

	fields, ok := Assq(in.Intern("fields"), desc)
	require.True(t, ok)
	entries, ok := Slice(fields)
	require.True(t, ok)
	require.NotEmpty(t, entries)
	assert.Equal(t, "((name . value) (type array primitive . byte) (modifiers private final))", Print(entries[0]))

	methods, ok := Assq(in.Intern("methods"), desc)
	require.True(t, ok)
	entries, ok = Slice(methods)
	require.True(t, ok)

	var format Value
	for _, e := range entries {
		if n, _ := Assq(in.Intern("name"), e); n == in.Intern("format") {
			format = e
		}
	}
	require.NotNil(t, format)
	assert.Equal(t,
		"((name . format) (returns . java.lang.String) (accepts java.lang.String (array . java.lang.Object)) (modifiers public static varargs))",
		Print(format))

	ctor, _ := Assq(in.Intern("accepts"), entries[0])
	assert.Equal(t, Nil, ctor)
}

func TestModule_ClassStructureVariants(t *testing.T) {
	m := startModule(t)
	in := m.Interner()

	desc, err := m.ClassStructure(String("java/lang/Object"))
	require.NoError(t, err)
	super, _ := Assq(in.Intern("superclass"), desc)
	assert.Equal(t, Nil, super)
	fields, _ := Assq(in.Intern("fields"), desc)
	assert.Equal(t, Nil, fields)

	cls, err := m.FindClass(String("java.lang.Throwable"))
	require.NoError(t, err)
	desc, err = m.ClassStructure(cls)
	require.NoError(t, err)
	name, _ := Assq(in.Intern("name"), desc)
	assert.Same(t, in.Intern("java.lang.Throwable"), name)
}

func TestModule_AfterStop(t *testing.T) {
	m := startModule(t)

	cls, err := m.FindClass(String("java.lang.String"))
	require.NoError(t, err)
	_, err = m.Stop(context.Background())
	require.NoError(t, err)

	_, err = m.ClassName(cls)
	assert.ErrorIs(t, err, errors.ErrNotRunning)
	_, err = m.Stop(context.Background())
	assert.ErrorIs(t, err, errors.ErrNotRunning)
}
