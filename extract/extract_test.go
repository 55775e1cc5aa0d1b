package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/gargoyle/bridge"
	"github.com/wippyai/gargoyle/classfile"
	"github.com/wippyai/gargoyle/config"
	"github.com/wippyai/gargoyle/control"
	"github.com/wippyai/gargoyle/errors"
	"github.com/wippyai/gargoyle/jvm"
	"github.com/wippyai/gargoyle/memvm"
	"github.com/wippyai/gargoyle/signature"
)

func start(t *testing.T) (*control.Session, *memvm.VM) {
	t.Helper()
	var vm *memvm.VM
	rt := control.New(&memvm.Launcher{
		Stderr:   &bytes.Buffer{},
		OnLaunch: func(v *memvm.VM) { vm = v },
	})
	s, err := rt.Start(context.Background(), config.Default())
	require.NoError(t, err)
	t.Cleanup(func() {
		if rt.IsRunning() {
			_ = rt.Stop(context.Background())
		}
	})
	return s, vm
}

func define(t *testing.T, vm *memvm.VM, cf *classfile.ClassFile) {
	t.Helper()
	data, err := cf.Encode()
	require.NoError(t, err)
	_, err = vm.DefineClass(data)
	require.NoError(t, err)
}

func TestExtract_String(t *testing.T) {
	s, vm := start(t)

	d, err := Extract(s, "java.lang.String")
	require.NoError(t, err)

	assert.Equal(t, "java.lang.String", d.Name)
	assert.Equal(t, "java.lang.Object", d.Superclass)
	assert.Equal(t, []string{
		"java.io.Serializable",
		"java.lang.Comparable",
		"java.lang.CharSequence",
	}, d.Interfaces)
	assert.Equal(t, Modifiers{Public, Final, Super}, d.Modifiers)

	m, ok := d.Method("<init>")
	require.True(t, ok)
	assert.Empty(t, m.Parameters)
	assert.True(t, signature.IsVoid(m.ReturnType))

	m, ok = d.Method("format")
	require.True(t, ok)
	assert.Equal(t, Modifiers{Public, Static, Varargs}, m.Modifiers)
	assert.Equal(t, []signature.TypeRef{
		signature.ClassRef{Name: "java.lang.String"},
		signature.ArrayOf{Elem: signature.ClassRef{Name: "java.lang.Object"}},
	}, m.Parameters)
	assert.Equal(t, signature.ClassRef{Name: "java.lang.String"}, m.ReturnType)

	var bridges int
	for _, m := range d.Methods {
		if m.Name == "compareTo" && m.Modifiers.Has(Bridge) {
			bridges++
			assert.Equal(t, Modifiers{Public, Bridge, Synthetic}, m.Modifiers)
			assert.Equal(t, "(Ljava/lang/Object;)I", m.Signature())
		}
	}
	assert.Equal(t, 1, bridges)

	f, ok := d.Field("serialVersionUID")
	require.True(t, ok)
	assert.Equal(t, signature.Primitive{Code: signature.Long}, f.Type)
	assert.Equal(t, Modifiers{Private, Static, Final}, f.Modifiers)

	f, ok = d.Field("value")
	require.True(t, ok)
	assert.Equal(t, "byte[]", f.Type.String())

	assert.Zero(t, vm.Stats().LocalRefs, "local references leaked")
}

func TestExtract_InternalName(t *testing.T) {
	s, _ := start(t)

	dotted, err := Extract(s, "java.lang.String")
	require.NoError(t, err)
	internal, err := Extract(s, "java/lang/String")
	require.NoError(t, err)
	assert.Equal(t, dotted, internal)
}

func TestExtract_Object(t *testing.T) {
	s, _ := start(t)

	d, err := Extract(s, "java.lang.Object")
	require.NoError(t, err)
	assert.Empty(t, d.Superclass)
	assert.NotNil(t, d.Fields)
	assert.Empty(t, d.Fields)
	assert.NotNil(t, d.Interfaces)
	assert.Empty(t, d.Interfaces)
	assert.NotEmpty(t, d.Methods)
}

func TestExtract_Interface(t *testing.T) {
	s, _ := start(t)

	d, err := Extract(s, "java.lang.Comparable")
	require.NoError(t, err)
	assert.Empty(t, d.Superclass)
	assert.Equal(t, Modifiers{Public, Interface, Abstract}, d.Modifiers)

	m, ok := d.Method("compareTo")
	require.True(t, ok)
	assert.Equal(t, Modifiers{Public, Abstract}, m.Modifiers)
}

func TestExtract_NotFound(t *testing.T) {
	s, vm := start(t)

	_, err := Extract(s, "com.example.Missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrClassNotFound)

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "com.example.Missing", e.Class)

	env, err := s.Env()
	require.NoError(t, err)
	assert.False(t, env.ExceptionCheck(), "exception left pending")
	assert.Zero(t, vm.Stats().LocalRefs)

	_, err = Extract(s, "com.example.Missing%s")
	require.ErrorIs(t, err, errors.ErrClassNotFound)
	assert.Contains(t, err.Error(), "com/example/Missing%s")
	assert.NotContains(t, err.Error(), "%!s")
}

func TestExtract_EmptyName(t *testing.T) {
	s, _ := start(t)

	_, err := Extract(s, "")
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindInvalidInput, e.Kind)
}

func TestExtract_UserClass(t *testing.T) {
	s, vm := start(t)
	define(t, vm, classfile.NewBuilder("com/example/Point", "java/lang/Object", classfile.AccPublic|classfile.AccSuper).
		AddInterface("java/io/Serializable").
		AddField(classfile.AccPrivate|classfile.AccVolatile, "x", "I").
		AddField(classfile.AccProtected|classfile.AccTransient, "cache", "[[D").
		AddMethod(classfile.AccPublic, "<init>", "()V").
		AddMethod(classfile.AccPublic|classfile.AccSynchronized, "move", "(IJ)V").
		AddMethod(classfile.AccPrivate|classfile.AccNative|classfile.AccStrict, "peer", "()Lcom/example/Point;").
		Build())

	d, err := Extract(s, "com.example.Point")
	require.NoError(t, err)
	assert.Equal(t, "java.lang.Object", d.Superclass)
	assert.Equal(t, []string{"java.io.Serializable"}, d.Interfaces)

	names := make([]string, len(d.Methods))
	for i, m := range d.Methods {
		names[i] = m.Name
	}
	assert.Equal(t, []string{"<init>", "move", "peer"}, names)

	assert.Equal(t, Modifiers{Public, Synchronized}, d.Methods[1].Modifiers)
	assert.Equal(t, []signature.TypeRef{
		signature.Primitive{Code: signature.Int},
		signature.Primitive{Code: signature.Long},
	}, d.Methods[1].Parameters)
	assert.Equal(t, Modifiers{Private, Native, Strict}, d.Methods[2].Modifiers)

	assert.Equal(t, Modifiers{Private, Volatile}, d.Fields[0].Modifiers)
	assert.Equal(t, Modifiers{Protected, Transient}, d.Fields[1].Modifiers)
	assert.Equal(t, 2, signature.Depth(d.Fields[1].Type))

	assert.Zero(t, vm.Stats().LocalRefs)
}

func TestExtract_MalformedDescriptor(t *testing.T) {
	s, vm := start(t)
	define(t, vm, classfile.NewBuilder("com/example/Broken", "java/lang/Object", classfile.AccPublic|classfile.AccSuper).
		AddMethod(classfile.AccPublic, "ok", "()V").
		AddMethod(classfile.AccPublic, "bad", "(Q)V").
		Build())

	d, err := Extract(s, "com.example.Broken")
	require.Error(t, err)
	assert.Nil(t, d)
	assert.ErrorIs(t, err, errors.ErrSignature)

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "com.example.Broken", e.Class)
	assert.Equal(t, []string{"methods", "bad"}, e.Path)

	assert.Zero(t, vm.Stats().LocalRefs, "aborted extraction leaked locals")
}

func TestExtractRef(t *testing.T) {
	s, vm := start(t)
	env, err := s.Env()
	require.NoError(t, err)

	cls := env.FindClass("java/lang/Class")
	require.NotZero(t, cls)
	defer env.DeleteLocalRef(cls)

	d, err := ExtractRef(s, cls)
	require.NoError(t, err)
	assert.Equal(t, "java.lang.Class", d.Name)
	assert.Equal(t, 1, vm.Stats().LocalRefs, "caller's reference must survive")

	_, err = ExtractRef(s, 0)
	assert.Error(t, err)
}

func TestExtractRef_NotAClass(t *testing.T) {
	s, _ := start(t)
	env, err := s.Env()
	require.NoError(t, err)

	str := env.NewStringUTF("hello")
	defer env.DeleteLocalRef(str)

	_, err = ExtractRef(s, str)
	assert.ErrorIs(t, err, errors.ErrIntrospection)

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, jvm.ErrInvalidClass, e.Value)
}

func TestExtractHandle(t *testing.T) {
	s, _ := start(t)

	cls, err := bridge.FindClass(s, "java.lang.Throwable")
	require.NoError(t, err)
	defer cls.Release()

	d, err := ExtractHandle(s, cls)
	require.NoError(t, err)
	assert.Equal(t, "java.lang.Throwable", d.Name)
	f, ok := d.Field("cause")
	require.True(t, ok)
	assert.Equal(t, signature.ClassRef{Name: "java.lang.Throwable"}, f.Type)

	str, err := bridge.NewString(s, "x")
	require.NoError(t, err)
	defer str.Release()
	_, err = ExtractHandle(s, str)
	assert.ErrorIs(t, err, errors.ErrWrongType)

	cls.Release()
	_, err = ExtractHandle(s, cls)
	assert.ErrorIs(t, err, errors.ErrReleased)
}

func TestExtract_AfterStop(t *testing.T) {
	rt := control.New(&memvm.Launcher{Stderr: &bytes.Buffer{}})
	s, err := rt.Start(context.Background(), config.Default())
	require.NoError(t, err)
	require.NoError(t, rt.Stop(context.Background()))

	_, err = Extract(s, "java.lang.String")
	assert.ErrorIs(t, err, errors.ErrNotRunning)
}

func TestDescriptor_JSON(t *testing.T) {
	s, _ := start(t)

	d, err := Extract(s, "java.lang.String")
	require.NoError(t, err)

	data, err := json.Marshal(d)
	require.NoError(t, err)

	var raw struct {
		Name    string `json:"name"`
		Methods []struct {
			Name      string   `json:"name"`
			Accepts   []string `json:"accepts"`
			Returns   string   `json:"returns"`
			Modifiers []string `json:"modifiers"`
		} `json:"methods"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "java.lang.String", raw.Name)

	var found bool
	for _, m := range raw.Methods {
		if m.Name == "format" {
			found = true
			assert.Equal(t, []string{"java.lang.String", "java.lang.Object[]"}, m.Accepts)
			assert.Equal(t, "java.lang.String", m.Returns)
			assert.Equal(t, []string{"public", "static", "varargs"}, m.Modifiers)
		}
	}
	assert.True(t, found)
}

type noMethodsInspector struct {
	jvm.Inspector
}

func (noMethodsInspector) GetClassMethods(jvm.Ref) ([]jvm.MethodID, jvm.ErrorCode) {
	return nil, jvm.ErrClassNotPrepared
}

type noMethodsVM struct {
	jvm.VM
}

func (v noMethodsVM) Inspector() jvm.Inspector {
	return noMethodsInspector{Inspector: v.VM.Inspector()}
}

type noMethodsLauncher struct {
	inner memvm.Launcher
}

func (l *noMethodsLauncher) Launch(ctx context.Context, args jvm.InitArgs) (jvm.VM, int, error) {
	vm, code, err := l.inner.Launch(ctx, args)
	if err != nil {
		return nil, code, err
	}
	return noMethodsVM{VM: vm}, code, nil
}

func TestExtract_IntrospectionFailureReleasesLocals(t *testing.T) {
	var vm *memvm.VM
	rt := control.New(&noMethodsLauncher{inner: memvm.Launcher{
		Stderr:   &bytes.Buffer{},
		OnLaunch: func(v *memvm.VM) { vm = v },
	}})
	s, err := rt.Start(context.Background(), config.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Stop(context.Background()) })

	// String has interfaces, so their refs are held when the method walk fails.
	_, err = Extract(s, "java.lang.String")
	require.ErrorIs(t, err, errors.ErrIntrospection)

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "java.lang.String", e.Class)
	assert.Equal(t, jvm.ErrClassNotPrepared, e.Value)
	assert.Contains(t, e.Detail, "GetClassMethods")
	assert.Equal(t, 0, vm.Stats().LocalRefs)
}

func TestExtractHandle_CollectedDuringCall(t *testing.T) {
	s, vm := start(t)

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

	for i := 0; i < 500; i++ {
		cls, err := bridge.FindClass(s, "java.lang.Object")
		require.NoError(t, err)
		d, err := ExtractHandle(s, cls)
		require.NoError(t, err)
		require.Equal(t, "java.lang.Object", d.Name)
	}
	assert.Equal(t, 0, vm.Stats().LocalRefs)
}
