package bridge

import (
	"bytes"
	"context"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/gargoyle/classfile"
	"github.com/wippyai/gargoyle/config"
	"github.com/wippyai/gargoyle/control"
	"github.com/wippyai/gargoyle/errors"
	"github.com/wippyai/gargoyle/jvm"
	"github.com/wippyai/gargoyle/memvm"
	"github.com/wippyai/gargoyle/resource"
)

type fixture struct {
	rt     *control.Runtime
	s      *control.Session
	vm     *memvm.VM
	stderr *bytes.Buffer

	created map[jvm.Ref]int
	dropped map[jvm.Ref]int
}

func start(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		stderr:  &bytes.Buffer{},
		created: map[jvm.Ref]int{},
		dropped: map[jvm.Ref]int{},
	}
	f.rt = control.New(&memvm.Launcher{
		Stderr:   f.stderr,
		OnLaunch: func(vm *memvm.VM) { f.vm = vm },
	})

	s, err := f.rt.Start(context.Background(), config.Default())
	require.NoError(t, err)
	f.s = s
	f.vm.ObserveGlobals(resource.ObserverFunc(func(e resource.Event) {
		switch e.Type {
		case resource.EventCreated:
			f.created[memvm.EventRef(e)]++
		case resource.EventDropped:
			f.dropped[memvm.EventRef(e)]++
		}
	}))

	t.Cleanup(func() {
		if f.rt.IsRunning() {
			_ = f.rt.Stop(context.Background())
		}
	})
	return f
}

func (f *fixture) assertNoLocals(t *testing.T) {
	t.Helper()
	assert.Zero(t, f.vm.Stats().LocalRefs, "local references leaked")
}

func TestFindClass(t *testing.T) {
	f := start(t)

	for _, name := range []string{"java.lang.String", "java/lang/String"} {
		cls, err := FindClass(f.s, name)
		require.NoError(t, err, name)
		assert.Equal(t, ClassClass, ClassOf(cls))

		got, err := ClassName(f.s, cls)
		require.NoError(t, err)
		assert.Equal(t, "java.lang.String", got)
		cls.Release()
	}
	f.assertNoLocals(t)
	assert.Zero(t, f.vm.Stats().GlobalRefs)
}

func TestFindClass_NotFound(t *testing.T) {
	f := start(t)

	_, err := FindClass(f.s, "com.example.Missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrClassNotFound)

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "com.example.Missing", e.Class)
	assert.Contains(t, err.Error(), "NoClassDefFoundError")

	env, err := f.s.Env()
	require.NoError(t, err)
	assert.False(t, env.ExceptionCheck())
	f.assertNoLocals(t)
	assert.Zero(t, f.vm.Stats().GlobalRefs)

	_, err = FindClass(f.s, "")
	assert.Error(t, err)

	// The exception text is carried verbatim, verbs included.
	_, err = FindClass(f.s, "com.example.Missing%d")
	require.ErrorIs(t, err, errors.ErrClassNotFound)
	assert.Contains(t, err.Error(), "com/example/Missing%d")
	assert.NotContains(t, err.Error(), "%!d")
}

func TestWrap_IndependentHandles(t *testing.T) {
	f := start(t)
	env, err := f.s.Env()
	require.NoError(t, err)

	local := env.NewStringUTF("shared")
	a, err := Wrap(f.s, local, 0)
	require.NoError(t, err)
	b, err := Wrap(f.s, local, 0)
	require.NoError(t, err)
	env.DeleteLocalRef(local)

	ra, err := Unwrap(a)
	require.NoError(t, err)
	rb, err := Unwrap(b)
	require.NoError(t, err)
	assert.NotEqual(t, ra, rb)
	assert.NotEqual(t, local, ra)
	assert.True(t, memvm.IsGlobal(ra))
	assert.True(t, env.IsSameObject(ra, rb))
	assert.Equal(t, "java.lang.String", a.ClassName())

	a.Release()
	a.Release()
	b.Release()

	assert.Equal(t, 1, f.created[ra])
	assert.Equal(t, 1, f.dropped[ra])
	assert.Equal(t, 1, f.created[rb])
	assert.Equal(t, 1, f.dropped[rb])
	assert.True(t, a.Released())

	_, err = Unwrap(a)
	assert.ErrorIs(t, err, errors.ErrReleased)
	f.assertNoLocals(t)
}

func TestWrap_KnownClass(t *testing.T) {
	f := start(t)
	env, _ := f.s.Env()

	cls := env.FindClass("java/lang/String")
	str := env.NewStringUTF("x")
	o, err := Wrap(f.s, str, cls)
	require.NoError(t, err)
	assert.Equal(t, "java.lang.String", o.ClassName())

	// Caller keeps ownership of both locals.
	_, ok := f.vm.Object(cls)
	assert.True(t, ok)
	env.DeleteLocalRef(cls)
	env.DeleteLocalRef(str)
	o.Release()

	_, err = Wrap(f.s, 0, 0)
	assert.Error(t, err)
	f.assertNoLocals(t)
}

func TestTransient(t *testing.T) {
	f := start(t)
	env, _ := f.s.Env()

	str := env.NewStringUTF("temp")
	o, err := Transient(f.s, str)
	require.NoError(t, err)
	assert.True(t, o.Transient())
	assert.Equal(t, "java.lang.String", o.ClassName())

	text, err := ToDisplayString(f.s, o)
	require.NoError(t, err)
	assert.Equal(t, "temp", text)

	o.Release()
	assert.Empty(t, f.created)
	assert.Empty(t, f.dropped)
	env.DeleteLocalRef(str)
}

func TestNewInstanceAndDisplay(t *testing.T) {
	f := start(t)

	cls, err := FindClass(f.s, "java.lang.Object")
	require.NoError(t, err)
	defer cls.Release()

	obj, err := NewInstance(f.s, cls)
	require.NoError(t, err)
	defer obj.Release()
	assert.Equal(t, "java.lang.Object", obj.ClassName())

	text, err := ToDisplayString(f.s, obj)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "java.lang.Object@"), text)

	clsText, err := ToDisplayString(f.s, cls)
	require.NoError(t, err)
	assert.Equal(t, "class java.lang.Object", clsText)
	f.assertNoLocals(t)
}

func TestNewInstance_RuntimeException(t *testing.T) {
	f := start(t)

	iface, err := FindClass(f.s, "java.lang.Comparable")
	require.NoError(t, err)
	defer iface.Release()

	_, err = NewInstance(f.s, iface)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrRuntimeException)

	var rex *RuntimeException
	require.ErrorAs(t, err, &rex)
	assert.Equal(t, "java.lang.NoSuchMethodError", rex.Throwable.ClassName())
	assert.Contains(t, rex.Message, "java.lang.Comparable.<init>()V")
	assert.Contains(t, f.stderr.String(), "Exception in thread \"main\" java.lang.NoSuchMethodError")

	text, err := ToDisplayString(f.s, rex.Throwable)
	require.NoError(t, err)
	assert.Equal(t, rex.Message, text)

	env, _ := f.s.Env()
	assert.False(t, env.ExceptionCheck())
	rex.Release()
	f.assertNoLocals(t)
	assert.Equal(t, 1, f.vm.Stats().GlobalRefs, "only the class handle is left")
}

func TestNewInstance_Abstract(t *testing.T) {
	f := start(t)

	data, err := classfile.NewBuilder("com/example/Shape", "java/lang/Object", classfile.AccPublic|classfile.AccAbstract|classfile.AccSuper).
		AddMethod(classfile.AccPublic, "<init>", "()V").
		Build().Encode()
	require.NoError(t, err)
	_, err = f.vm.DefineClass(data)
	require.NoError(t, err)

	cls, err := FindClass(f.s, "com.example.Shape")
	require.NoError(t, err)
	defer cls.Release()

	_, err = NewInstance(f.s, cls)
	var rex *RuntimeException
	require.ErrorAs(t, err, &rex)
	defer rex.Release()
	assert.Equal(t, "java.lang.InstantiationException", rex.Throwable.ClassName())
	assert.Equal(t, "java.lang.InstantiationException: com.example.Shape", rex.Message)
}

func TestNewInstance_WrongType(t *testing.T) {
	f := start(t)

	str, err := NewString(f.s, "not a class")
	require.NoError(t, err)
	defer str.Release()

	_, err = NewInstance(f.s, str)
	assert.ErrorIs(t, err, errors.ErrWrongType)
	_, err = ClassName(f.s, str)
	assert.ErrorIs(t, err, errors.ErrWrongType)
	_, _, err = Superclass(f.s, str)
	assert.ErrorIs(t, err, errors.ErrWrongType)
	_, err = NewInstance(f.s, nil)
	assert.ErrorIs(t, err, errors.ErrWrongType)
}

func TestNewString(t *testing.T) {
	f := start(t)

	for _, text := range []string{"", "hello", "ünïcødé ✓"} {
		o, err := NewString(f.s, text)
		require.NoError(t, err)
		got, err := ToDisplayString(f.s, o)
		require.NoError(t, err)
		assert.Equal(t, text, got)
		o.Release()
	}
	f.assertNoLocals(t)
	assert.Zero(t, f.vm.Stats().GlobalRefs)
}

func TestSuperclass(t *testing.T) {
	f := start(t)

	tests := []struct {
		class string
		super string
		ok    bool
	}{
		{"java.lang.String", "java.lang.Object", true},
		{"java.lang.NullPointerException", "java.lang.RuntimeException", true},
		{"java.lang.Object", "", false},
		{"java.lang.CharSequence", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			cls, err := FindClass(f.s, tt.class)
			require.NoError(t, err)
			defer cls.Release()

			super, ok, err := Superclass(f.s, cls)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.super, super)
		})
	}
	f.assertNoLocals(t)
}

func TestCheck(t *testing.T) {
	f := start(t)
	assert.NoError(t, Check(f.s))

	_, ok := Discard(f.s)
	assert.False(t, ok)

	env, _ := f.s.Env()
	env.FindClass("no/Such")
	msg, ok := Discard(f.s)
	assert.True(t, ok)
	assert.Equal(t, "java.lang.NoClassDefFoundError: no/Such", msg)
	assert.False(t, env.ExceptionCheck())
	assert.Empty(t, f.created)
	f.assertNoLocals(t)
}

func TestCleanupQueuesRelease(t *testing.T) {
	f := start(t)

	var ref jvm.Ref
	func() {
		o, err := NewString(f.s, "garbage")
		require.NoError(t, err)
		ref, err = Unwrap(o)
		require.NoError(t, err)
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		return f.s.Pending() == 1
	}, 5*time.Second, 10*time.Millisecond)

	// Queued, not yet deleted: deletion happens on the primary context.
	assert.Zero(t, f.dropped[ref])

	cls, err := FindClass(f.s, "java.lang.Object")
	require.NoError(t, err)
	defer cls.Release()
	assert.Equal(t, 1, f.dropped[ref])
	assert.Equal(t, 0, f.s.Pending())
}

func TestReleasedHandleIsNotQueued(t *testing.T) {
	f := start(t)

	var ref jvm.Ref
	func() {
		o, err := NewString(f.s, "released")
		require.NoError(t, err)
		ref, _ = Unwrap(o)
		o.Release()
	}()

	for i := 0; i < 5; i++ {
		runtime.GC()
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, 0, f.s.Pending())
	assert.Equal(t, 1, f.dropped[ref])
}

func TestAfterStop(t *testing.T) {
	f := start(t)

	o, err := NewString(f.s, "x")
	require.NoError(t, err)
	require.NoError(t, f.rt.Stop(context.Background()))

	_, err = Unwrap(o)
	assert.ErrorIs(t, err, errors.ErrNotRunning)
	_, err = FindClass(f.s, "java.lang.Object")
	assert.ErrorIs(t, err, errors.ErrNotRunning)
	_, err = NewString(f.s, "y")
	assert.ErrorIs(t, err, errors.ErrNotRunning)
	assert.ErrorIs(t, Check(f.s), errors.ErrNotRunning)

	// Release after stop is harmless.
	o.Release()
	assert.True(t, o.Released())
}

func TestOps_HandleCollectedDuringCall(t *testing.T) {
	f := start(t)

	find := func(name string) *Object {
		cls, err := FindClass(f.s, name)
		require.NoError(t, err)
		return cls
	}

	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				runtime.GC()
			}
		}
	}()
	defer func() {
		close(done)
		wg.Wait()
	}()

	// Each handle is unreachable as soon as the call receives it, so its
	// release may be queued and drained while the call still uses the ref.
	for i := 0; i < 2000; i++ {
		name, err := ClassName(f.s, find("java.lang.String"))
		require.NoError(t, err)
		require.Equal(t, "java.lang.String", name)

		super, ok, err := Superclass(f.s, find("java.lang.String"))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "java.lang.Object", super)

		o, err := NewInstance(f.s, find("java.lang.Object"))
		require.NoError(t, err)
		text, err := ToDisplayString(f.s, o)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(text, "java.lang.Object@"), text)
	}
	f.assertNoLocals(t)
}
