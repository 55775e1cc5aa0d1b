package memvm

import (
	"go.uber.org/zap"

	"github.com/wippyai/gargoyle/jvm"
	"github.com/wippyai/gargoyle/resource"
)

// A reference is a table handle shifted left one bit; the low bit selects
// the global table.
const (
	refLocal  = 0
	refGlobal = 1
)

const (
	localTable  = "local"
	globalTable = "global"
)

func encodeRef(h resource.Handle, kind uintptr) jvm.Ref {
	return jvm.Ref(uintptr(h)<<1 | kind)
}

func decodeRef(ref jvm.Ref) (resource.Handle, uintptr) {
	return resource.Handle(uintptr(ref) >> 1), uintptr(ref) & 1
}

// EventRef returns the reference a table event refers to.
func EventRef(e resource.Event) jvm.Ref {
	if e.Table == globalTable {
		return encodeRef(e.Handle, refGlobal)
	}
	return encodeRef(e.Handle, refLocal)
}

// IsGlobal reports whether ref is a global reference.
func IsGlobal(ref jvm.Ref) bool {
	_, kind := decodeRef(ref)
	return ref != 0 && kind == refGlobal
}

func (vm *VM) newLocal(o *Object) jvm.Ref {
	if o == nil {
		return 0
	}
	h, err := vm.locals.Insert(o)
	if err != nil {
		vm.logger.Error("local reference table", zap.Error(err))
		return 0
	}
	if vm.checkJNI {
		if n := vm.locals.Len(); n > vm.capacity {
			vm.logger.Warn("JNI local refs exceed capacity",
				zap.Int("refs", n),
				zap.Int("capacity", vm.capacity))
		}
	}
	return encodeRef(h, refLocal)
}

func (vm *VM) newGlobal(o *Object) jvm.Ref {
	if o == nil {
		return 0
	}
	h, err := vm.globals.Insert(o)
	if err != nil {
		vm.logger.Error("global reference table", zap.Error(err))
		return 0
	}
	return encodeRef(h, refGlobal)
}

// deref resolves a reference of either kind. Null resolves to (nil, true).
func (vm *VM) deref(ref jvm.Ref) (*Object, bool) {
	if ref == 0 {
		return nil, true
	}
	h, kind := decodeRef(ref)
	if kind == refGlobal {
		return vm.globals.Get(h)
	}
	return vm.locals.Get(h)
}

// object resolves a non-null reference, raising NullPointerException for
// null and reporting invalid references.
func (vm *VM) object(op string, ref jvm.Ref) *Object {
	o, ok := vm.deref(ref)
	if !ok {
		vm.misuse(op, ref)
		return nil
	}
	if o == nil {
		vm.throw(classNullPointer, "")
		return nil
	}
	return o
}

// classObject resolves a reference that must denote a java.lang.Class.
func (vm *VM) classObject(op string, ref jvm.Ref) *Class {
	o := vm.object(op, ref)
	if o == nil {
		return nil
	}
	if o.mirror == nil {
		vm.throw(classIllegalArgument, op+": not a class reference")
		return nil
	}
	return o.mirror
}

func (vm *VM) deleteRef(op string, ref jvm.Ref, want uintptr) {
	if ref == 0 {
		return
	}
	h, kind := decodeRef(ref)
	if kind != want {
		vm.misuse(op, ref)
		return
	}
	table := vm.locals
	if kind == refGlobal {
		table = vm.globals
	}
	if _, ok := table.Remove(h); !ok {
		vm.misuse(op, ref)
	}
}

// misuse handles an invalid or stale reference. Without -Xcheck:jni it is
// silently ignored.
func (vm *VM) misuse(op string, ref jvm.Ref) {
	if !vm.checkJNI {
		return
	}
	vm.logger.Error("JNI reference misuse",
		zap.String("op", op),
		zap.Uintptr("ref", uintptr(ref)))
	vm.throw(classIllegalArgument, op+": invalid reference")
}
