package bridge

import (
	"runtime"

	"github.com/wippyai/gargoyle/classname"
	"github.com/wippyai/gargoyle/control"
	"github.com/wippyai/gargoyle/errors"
	"github.com/wippyai/gargoyle/jvm"
)

// ClassClass is the canonical class name of class handles.
const ClassClass = "java.lang.Class"

// FindClass loads a class by dotted or internal name and returns a handle
// to its class object.
func FindClass(s *control.Session, name string) (*Object, error) {
	env, err := enter(s)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errors.InvalidInput(errors.PhaseLookup, "empty class name")
	}

	internal := classname.ToInternal(name)
	ref := env.FindClass(internal)
	if ref == 0 {
		var cause error
		if msg, ok := Discard(s); ok {
			cause = errors.New(errors.PhaseLookup, errors.KindRuntimeException).Detail("%s", msg).Build()
		}
		return nil, errors.ClassNotFound(classname.ToCanonical(internal), cause)
	}
	defer env.DeleteLocalRef(ref)

	return wrap(s, env, ref, 0)
}

// classRef unwraps a handle that must denote a class.
func classRef(cls *Object) (jvm.Ref, error) {
	ref, err := Unwrap(cls)
	if err != nil {
		return 0, err
	}
	if cls.class != ClassClass {
		return 0, errors.WrongType("class handle", cls.class)
	}
	return ref, nil
}

// ClassName returns the canonical name of the class cls denotes.
func ClassName(s *control.Session, cls *Object) (string, error) {
	if _, err := enter(s); err != nil {
		return "", err
	}
	ref, err := classRef(cls)
	if err != nil {
		return "", err
	}
	defer runtime.KeepAlive(cls)
	return classRefName(s, ref)
}

// Superclass returns the canonical name of the superclass of the class cls
// denotes. It reports false for the root class and for interfaces.
func Superclass(s *control.Session, cls *Object) (string, bool, error) {
	env, err := enter(s)
	if err != nil {
		return "", false, err
	}
	ref, err := classRef(cls)
	if err != nil {
		return "", false, err
	}
	defer runtime.KeepAlive(cls)

	super := env.GetSuperclass(ref)
	if err := Check(s); err != nil {
		return "", false, err
	}
	if super == 0 {
		return "", false, nil
	}
	defer env.DeleteLocalRef(super)

	name, err := classRefName(s, super)
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

// NewInstance creates an object of the class cls denotes with its
// no-argument constructor.
func NewInstance(s *control.Session, cls *Object) (*Object, error) {
	env, err := enter(s)
	if err != nil {
		return nil, err
	}
	ref, err := classRef(cls)
	if err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(cls)

	ctor := env.GetMethodID(ref, jvm.ConstructorName, jvm.ConstructorSig)
	if err := Check(s); err != nil {
		return nil, err
	}
	obj := env.NewObject(ref, ctor)
	if err := Check(s); err != nil {
		return nil, err
	}
	if obj == 0 {
		return nil, errors.New(errors.PhaseBridge, errors.KindInvalidData).
			Detail("constructor returned null").
			Build()
	}
	defer env.DeleteLocalRef(obj)

	return wrap(s, env, obj, 0)
}

// NewString creates a runtime string.
func NewString(s *control.Session, text string) (*Object, error) {
	env, err := enter(s)
	if err != nil {
		return nil, err
	}

	str := env.NewStringUTF(text)
	if err := Check(s); err != nil {
		return nil, err
	}
	if str == 0 {
		return nil, errors.New(errors.PhaseBridge, errors.KindInvalidData).
			Detail("string not created").
			Build()
	}
	defer env.DeleteLocalRef(str)

	return wrap(s, env, str, 0)
}

// ToDisplayString calls toString on o.
func ToDisplayString(s *control.Session, o *Object) (string, error) {
	env, err := enter(s)
	if err != nil {
		return "", err
	}
	ref, err := Unwrap(o)
	if err != nil {
		return "", err
	}
	defer runtime.KeepAlive(o)

	objClass := env.FindClass(jvm.ClassObject)
	if err := Check(s); err != nil {
		return "", err
	}
	defer env.DeleteLocalRef(objClass)

	mid := env.GetMethodID(objClass, jvm.ToStringName, jvm.ToStringSig)
	if err := Check(s); err != nil {
		return "", err
	}

	str := env.CallObjectMethod(ref, mid)
	if err := Check(s); err != nil {
		return "", err
	}
	if str == 0 {
		return "null", nil
	}
	defer env.DeleteLocalRef(str)

	text, ok := env.GetStringUTFChars(str)
	if err := Check(s); err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New(errors.PhaseBridge, errors.KindInvalidData).
			Class(o.class).
			Detail("toString did not return a string").
			Build()
	}
	return text, nil
}
