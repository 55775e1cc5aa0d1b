package memvm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/gargoyle/classfile"
	"github.com/wippyai/gargoyle/jvm"
	"github.com/wippyai/gargoyle/signature"
)

type env struct {
	vm *VM
}

var _ jvm.Env = (*env)(nil)

// enter locks the VM for one call. It reports false once the VM is gone.
func (e *env) enter(op string) bool {
	e.vm.mu.Lock()
	if e.vm.destroyed {
		e.vm.mu.Unlock()
		e.vm.logger.Error("call on destroyed vm", zap.String("op", op))
		return false
	}
	if e.vm.verboseJNI {
		e.vm.logger.Debug("jni call", zap.String("op", op))
	}
	return true
}

func (e *env) leave() {
	e.vm.mu.Unlock()
}

func (e *env) GetVersion() int32 {
	return jvm.Version21
}

func (e *env) FindClass(name string) jvm.Ref {
	if !e.enter("FindClass") {
		return 0
	}
	defer e.leave()
	vm := e.vm

	if name == "" || strings.ContainsRune(name, '.') {
		vm.throw(classNoClassDefFound, name)
		return 0
	}
	c, err := vm.load(name)
	if err != nil {
		vm.logger.Debug("class load failed", zap.String("class", name), zap.Error(err))
		vm.throwf(classNoClassDefFound, "%s (%v)", name, err)
		return 0
	}
	if c == nil {
		vm.throw(classNoClassDefFound, name)
		return 0
	}
	return vm.newLocal(vm.mirrorOf(c))
}

func (e *env) GetSuperclass(class jvm.Ref) jvm.Ref {
	if !e.enter("GetSuperclass") {
		return 0
	}
	defer e.leave()
	vm := e.vm

	c := vm.classObject("GetSuperclass", class)
	if c == nil || c.Super == nil || c.IsInterface() {
		return 0
	}
	return vm.newLocal(vm.mirrorOf(c.Super))
}

func (e *env) GetObjectClass(obj jvm.Ref) jvm.Ref {
	if !e.enter("GetObjectClass") {
		return 0
	}
	defer e.leave()
	vm := e.vm

	o := vm.object("GetObjectClass", obj)
	if o == nil {
		return 0
	}
	return vm.newLocal(vm.mirrorOf(o.class))
}

func (e *env) IsSameObject(a, b jvm.Ref) bool {
	if !e.enter("IsSameObject") {
		return false
	}
	defer e.leave()

	oa, okA := e.vm.deref(a)
	ob, okB := e.vm.deref(b)
	return okA && okB && oa == ob
}

func (e *env) NewGlobalRef(ref jvm.Ref) jvm.Ref {
	if !e.enter("NewGlobalRef") {
		return 0
	}
	defer e.leave()

	o, ok := e.vm.deref(ref)
	if !ok {
		e.vm.misuse("NewGlobalRef", ref)
		return 0
	}
	return e.vm.newGlobal(o)
}

func (e *env) DeleteGlobalRef(ref jvm.Ref) {
	if !e.enter("DeleteGlobalRef") {
		return
	}
	defer e.leave()
	e.vm.deleteRef("DeleteGlobalRef", ref, refGlobal)
}

func (e *env) DeleteLocalRef(ref jvm.Ref) {
	if !e.enter("DeleteLocalRef") {
		return
	}
	defer e.leave()
	e.vm.deleteRef("DeleteLocalRef", ref, refLocal)
}

func (e *env) EnsureLocalCapacity(capacity int32) int32 {
	if !e.enter("EnsureLocalCapacity") {
		return jvm.ErrUnknown
	}
	defer e.leave()

	if capacity < 0 {
		return jvm.ErrInval
	}
	if need := e.vm.locals.Len() + int(capacity); need > e.vm.capacity {
		e.vm.capacity = need
	}
	return jvm.OK
}

func (e *env) GetMethodID(class jvm.Ref, name, sig string) jvm.MethodID {
	if !e.enter("GetMethodID") {
		return 0
	}
	defer e.leave()
	vm := e.vm

	c := vm.classObject("GetMethodID", class)
	if c == nil {
		return 0
	}
	if _, _, err := signature.DecodeMethod(sig); err != nil {
		vm.throwf(classNoSuchMethod, "%s: bad signature %s", name, sig)
		return 0
	}

	var m *Method
	if name == jvm.ConstructorName {
		m = c.DeclaredMethod(name, sig)
	} else {
		m = c.LookupMethod(name, sig)
	}
	if m == nil {
		vm.throwf(classNoSuchMethod, "%s.%s%s", c.BinaryName(), name, sig)
		return 0
	}
	return m.ID
}

func (e *env) NewObject(class jvm.Ref, ctor jvm.MethodID) jvm.Ref {
	if !e.enter("NewObject") {
		return 0
	}
	defer e.leave()
	vm := e.vm

	c := vm.classObject("NewObject", class)
	if c == nil {
		return 0
	}
	if c.IsInterface() || c.IsAbstract() {
		vm.throw(classInstantiation, c.BinaryName())
		return 0
	}
	m := vm.method(ctor)
	if m == nil || m.Name != jvm.ConstructorName || m.Class != c {
		vm.throwf(classNoSuchMethod, "%s.%s", c.BinaryName(), jvm.ConstructorName)
		return 0
	}
	if m.Descriptor != jvm.ConstructorSig {
		vm.throwf(classUnsupportedOperation, "constructor %s%s takes arguments", c.BinaryName(), m.Descriptor)
		return 0
	}
	if c == vm.core.class {
		vm.throw(classIllegalArgument, "cannot instantiate java.lang.Class")
		return 0
	}
	return vm.newLocal(vm.alloc(c))
}

func (e *env) CallObjectMethod(obj jvm.Ref, method jvm.MethodID) jvm.Ref {
	if !e.enter("CallObjectMethod") {
		return 0
	}
	defer e.leave()
	vm := e.vm

	o := vm.object("CallObjectMethod", obj)
	if o == nil {
		return 0
	}
	m := vm.method(method)
	if m == nil {
		vm.misuse("CallObjectMethod", obj)
		return 0
	}
	if !o.class.IsSubclassOf(m.Class) {
		vm.throwf(classIllegalArgument, "%s is not an instance of %s", o.class.BinaryName(), m.Class.BinaryName())
		return 0
	}

	// Dispatch on the receiver's class so overrides win.
	target := o.class.LookupMethod(m.Name, m.Descriptor)
	if target == nil {
		target = m
	}
	result, ok := vm.invoke(o, target)
	if !ok {
		return 0
	}
	return vm.newLocal(result)
}

// invoke runs an intrinsic. Method bodies are never interpreted.
func (vm *VM) invoke(o *Object, m *Method) (*Object, bool) {
	switch m.Name + m.Descriptor {
	case jvm.ToStringName + jvm.ToStringSig:
		return vm.newString(vm.display(o)), true
	case "getClass()Ljava/lang/Class;":
		return vm.mirrorOf(o.class), true
	case "getName" + jvm.ToStringSig:
		if o.mirror != nil {
			return vm.newString(o.mirror.BinaryName()), true
		}
	case "getSuperclass()Ljava/lang/Class;":
		if o.mirror != nil {
			if o.mirror.Super == nil || o.mirror.IsInterface() {
				return nil, true
			}
			return vm.mirrorOf(o.mirror.Super), true
		}
	case "getMessage" + jvm.ToStringSig:
		if o.class.IsSubclassOf(vm.core.throwable) {
			if !o.hasMsg {
				return nil, true
			}
			return vm.newString(o.text), true
		}
	case "intern" + jvm.ToStringSig:
		if o.class == vm.core.string {
			return o, true
		}
	}

	if m.Access&classfile.AccAbstract != 0 {
		vm.throwf(classUnsupportedOperation, "abstract method %s.%s%s", m.Class.BinaryName(), m.Name, m.Descriptor)
		return nil, false
	}
	vm.throwf(classUnsupportedOperation, "%s.%s%s is not executable", m.Class.BinaryName(), m.Name, m.Descriptor)
	return nil, false
}

func (vm *VM) newString(s string) *Object {
	o := vm.alloc(vm.core.string)
	o.text = s
	return o
}

func (e *env) NewStringUTF(s string) jvm.Ref {
	if !e.enter("NewStringUTF") {
		return 0
	}
	defer e.leave()
	return e.vm.newLocal(e.vm.newString(s))
}

func (e *env) GetStringUTFChars(str jvm.Ref) (string, bool) {
	if !e.enter("GetStringUTFChars") {
		return "", false
	}
	defer e.leave()

	o := e.vm.object("GetStringUTFChars", str)
	if o == nil || o.class != e.vm.core.string {
		return "", false
	}
	return o.text, true
}

func (e *env) ExceptionOccurred() jvm.Ref {
	if !e.enter("ExceptionOccurred") {
		return 0
	}
	defer e.leave()
	return e.vm.newLocal(e.vm.pending)
}

func (e *env) ExceptionCheck() bool {
	if !e.enter("ExceptionCheck") {
		return false
	}
	defer e.leave()
	return e.vm.pending != nil
}

// ExceptionDescribe prints the pending exception and clears it.
func (e *env) ExceptionDescribe() {
	if !e.enter("ExceptionDescribe") {
		return
	}
	defer e.leave()

	vm := e.vm
	if vm.pending == nil {
		return
	}
	fmt.Fprintf(vm.stderr, "Exception in thread \"main\" %s\n", vm.display(vm.pending))
	vm.pending = nil
}

func (e *env) ExceptionClear() {
	if !e.enter("ExceptionClear") {
		return
	}
	defer e.leave()
	e.vm.pending = nil
}
