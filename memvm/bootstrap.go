package memvm

import (
	"bytes"

	"github.com/wippyai/gargoyle/classfile"
	"github.com/wippyai/gargoyle/errors"
)

const (
	classObject               = "java/lang/Object"
	classString               = "java/lang/String"
	classClass                = "java/lang/Class"
	classThrowable            = "java/lang/Throwable"
	classNoClassDefFound      = "java/lang/NoClassDefFoundError"
	classNoSuchMethod         = "java/lang/NoSuchMethodError"
	classInstantiation        = "java/lang/InstantiationException"
	classNullPointer          = "java/lang/NullPointerException"
	classIllegalArgument      = "java/lang/IllegalArgumentException"
	classUnsupportedOperation = "java/lang/UnsupportedOperationException"
)

type coreClasses struct {
	object    *Class
	string    *Class
	class     *Class
	throwable *Class
}

const (
	pub      = classfile.AccPublic
	pubSuper = classfile.AccPublic | classfile.AccSuper
	pubIface = classfile.AccPublic | classfile.AccInterface | classfile.AccAbstract
	pubAbst  = classfile.AccPublic | classfile.AccAbstract
	pubFinal = classfile.AccPublic | classfile.AccFinal
	pubNat   = classfile.AccPublic | classfile.AccNative
)

const (
	descToString = "()Ljava/lang/String;"
	descVoid     = "()V"
	descMsgCtor  = "(Ljava/lang/String;)V"
)

// bootstrapClasses returns the core class shapes in dependency order.
func bootstrapClasses() []*classfile.ClassFile {
	classes := []*classfile.ClassFile{
		classfile.NewBuilder(classObject, "", pubSuper).
			AddMethod(pub, "<init>", descVoid).
			AddMethod(pubFinal|classfile.AccNative, "getClass", "()Ljava/lang/Class;").
			AddMethod(pubNat, "hashCode", "()I").
			AddMethod(pub, "equals", "(Ljava/lang/Object;)Z").
			AddMethod(classfile.AccProtected|classfile.AccNative, "clone", "()Ljava/lang/Object;").
			AddMethod(pub, "toString", descToString).
			AddMethod(pubFinal|classfile.AccNative, "notify", descVoid).
			AddMethod(pubFinal|classfile.AccNative, "notifyAll", descVoid).
			AddMethod(pubFinal, "wait", descVoid).
			Build(),

		classfile.NewBuilder("java/io/Serializable", classObject, pubIface).Build(),

		classfile.NewBuilder("java/lang/Comparable", classObject, pubIface).
			AddMethod(pubAbst, "compareTo", "(Ljava/lang/Object;)I").
			Build(),

		classfile.NewBuilder("java/lang/CharSequence", classObject, pubIface).
			AddMethod(pubAbst, "length", "()I").
			AddMethod(pubAbst, "charAt", "(I)C").
			AddMethod(pubAbst, "toString", descToString).
			Build(),

		classfile.NewBuilder(classString, classObject, pubFinal|classfile.AccSuper).
			AddInterface("java/io/Serializable").
			AddInterface("java/lang/Comparable").
			AddInterface("java/lang/CharSequence").
			AddField(classfile.AccPrivate|classfile.AccFinal, "value", "[B").
			AddField(classfile.AccPrivate|classfile.AccFinal, "coder", "B").
			AddField(classfile.AccPrivate, "hash", "I").
			AddField(classfile.AccPrivate|classfile.AccStatic|classfile.AccFinal, "serialVersionUID", "J").
			AddMethod(pub, "<init>", descVoid).
			AddMethod(pub, "<init>", descMsgCtor).
			AddMethod(pub, "<init>", "([C)V").
			AddMethod(pub, "length", "()I").
			AddMethod(pub, "isEmpty", "()Z").
			AddMethod(pub, "charAt", "(I)C").
			AddMethod(pub, "equals", "(Ljava/lang/Object;)Z").
			AddMethod(pub, "hashCode", "()I").
			AddMethod(pub, "compareTo", "(Ljava/lang/String;)I").
			AddMethod(pub|classfile.AccBridge|classfile.AccSynthetic, "compareTo", "(Ljava/lang/Object;)I").
			AddMethod(pub, "toString", descToString).
			AddMethod(pub|classfile.AccStatic|classfile.AccVarargs, "format", "(Ljava/lang/String;[Ljava/lang/Object;)Ljava/lang/String;").
			AddMethod(pub|classfile.AccStatic, "valueOf", "(I)Ljava/lang/String;").
			AddMethod(pubNat, "intern", descToString).
			Build(),

		classfile.NewBuilder(classClass, classObject, pubFinal|classfile.AccSuper).
			AddInterface("java/io/Serializable").
			AddField(classfile.AccPrivate|classfile.AccTransient, "name", "Ljava/lang/String;").
			AddMethod(classfile.AccPrivate, "<init>", descVoid).
			AddMethod(pub, "getName", descToString).
			AddMethod(pubNat, "getSuperclass", "()Ljava/lang/Class;").
			AddMethod(pubNat, "isInterface", "()Z").
			AddMethod(pub, "toString", descToString).
			AddMethod(pub|classfile.AccStatic, "forName", "(Ljava/lang/String;)Ljava/lang/Class;").
			Build(),

		classfile.NewBuilder(classThrowable, classObject, pubSuper).
			AddInterface("java/io/Serializable").
			AddField(classfile.AccPrivate|classfile.AccTransient, "detailMessage", "Ljava/lang/String;").
			AddField(classfile.AccPrivate, "cause", "Ljava/lang/Throwable;").
			AddMethod(pub, "<init>", descVoid).
			AddMethod(pub, "<init>", descMsgCtor).
			AddMethod(pub, "getMessage", descToString).
			AddMethod(pub|classfile.AccSynchronized, "getCause", "()Ljava/lang/Throwable;").
			AddMethod(pub, "toString", descToString).
			AddMethod(pub, "printStackTrace", descVoid).
			Build(),
	}

	for _, t := range []struct{ name, super string }{
		{"java/lang/Exception", classThrowable},
		{"java/lang/Error", classThrowable},
		{"java/lang/RuntimeException", "java/lang/Exception"},
		{"java/lang/ReflectiveOperationException", "java/lang/Exception"},
		{"java/lang/ClassNotFoundException", "java/lang/ReflectiveOperationException"},
		{classInstantiation, "java/lang/ReflectiveOperationException"},
		{"java/lang/LinkageError", "java/lang/Error"},
		{classNoClassDefFound, "java/lang/LinkageError"},
		{"java/lang/IncompatibleClassChangeError", "java/lang/LinkageError"},
		{classNoSuchMethod, "java/lang/IncompatibleClassChangeError"},
		{classNullPointer, "java/lang/RuntimeException"},
		{classIllegalArgument, "java/lang/RuntimeException"},
		{classUnsupportedOperation, "java/lang/RuntimeException"},
	} {
		classes = append(classes, classfile.NewBuilder(t.name, t.super, pubSuper).
			AddMethod(pub, "<init>", descVoid).
			AddMethod(pub, "<init>", descMsgCtor).
			Build())
	}
	return classes
}

// bootstrap defines the core classes. Each goes through encode and parse
// so it takes the same path as a class read from the classpath.
func (vm *VM) bootstrap() error {
	for _, cf := range bootstrapClasses() {
		data, err := cf.Encode()
		if err != nil {
			return err
		}
		parsed, err := classfile.Parse(bytes.NewReader(data))
		if err != nil {
			return err
		}
		name, err := parsed.ClassName()
		if err != nil {
			return err
		}
		if _, err := vm.define(name, parsed, "bootstrap"); err != nil {
			return err
		}
	}

	vm.core = coreClasses{
		object:    vm.classes[classObject],
		string:    vm.classes[classString],
		class:     vm.classes[classClass],
		throwable: vm.classes[classThrowable],
	}
	if vm.core.object == nil || vm.core.string == nil || vm.core.class == nil || vm.core.throwable == nil {
		return errors.Load("bootstrap core classes", nil)
	}
	return nil
}
