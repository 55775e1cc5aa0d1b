package memvm

import (
	"go.uber.org/zap"

	"github.com/wippyai/gargoyle/jvm"
)

type inspector struct {
	vm *VM
}

var _ jvm.Inspector = (*inspector)(nil)

func (in *inspector) enter() (jvm.ErrorCode, bool) {
	in.vm.mu.Lock()
	if in.vm.destroyed {
		in.vm.mu.Unlock()
		return jvm.ErrWrongPhase, false
	}
	return jvm.ErrNone, true
}

func (in *inspector) leave() {
	in.vm.mu.Unlock()
}

func (in *inspector) class(ref jvm.Ref) (*Class, jvm.ErrorCode) {
	if ref == 0 {
		return nil, jvm.ErrInvalidClass
	}
	o, ok := in.vm.deref(ref)
	if !ok {
		return nil, jvm.ErrInvalidObject
	}
	if o.mirror == nil {
		return nil, jvm.ErrInvalidClass
	}
	return o.mirror, jvm.ErrNone
}

func (in *inspector) GetClassSignature(class jvm.Ref) (string, jvm.ErrorCode) {
	if code, ok := in.enter(); !ok {
		return "", code
	}
	defer in.leave()

	c, code := in.class(class)
	if code != jvm.ErrNone {
		return "", code
	}
	return c.Signature(), jvm.ErrNone
}

func (in *inspector) GetClassModifiers(class jvm.Ref) (int32, jvm.ErrorCode) {
	if code, ok := in.enter(); !ok {
		return 0, code
	}
	defer in.leave()

	c, code := in.class(class)
	if code != jvm.ErrNone {
		return 0, code
	}
	return int32(c.Access), jvm.ErrNone
}

func (in *inspector) GetImplementedInterfaces(class jvm.Ref) ([]jvm.Ref, jvm.ErrorCode) {
	if code, ok := in.enter(); !ok {
		return nil, code
	}
	defer in.leave()

	c, code := in.class(class)
	if code != jvm.ErrNone {
		return nil, code
	}
	refs := make([]jvm.Ref, 0, len(c.Interfaces))
	for _, iface := range c.Interfaces {
		ref := in.vm.newLocal(in.vm.mirrorOf(iface))
		if ref == 0 {
			for _, r := range refs {
				in.vm.deleteRef("GetImplementedInterfaces", r, refLocal)
			}
			return nil, jvm.ErrOutOfMemory
		}
		refs = append(refs, ref)
	}
	return refs, jvm.ErrNone
}

func (in *inspector) GetClassMethods(class jvm.Ref) ([]jvm.MethodID, jvm.ErrorCode) {
	if code, ok := in.enter(); !ok {
		return nil, code
	}
	defer in.leave()

	c, code := in.class(class)
	if code != jvm.ErrNone {
		return nil, code
	}
	ids := make([]jvm.MethodID, len(c.Methods))
	for i, m := range c.Methods {
		ids[i] = m.ID
	}
	return ids, jvm.ErrNone
}

func (in *inspector) GetClassFields(class jvm.Ref) ([]jvm.FieldID, jvm.ErrorCode) {
	if code, ok := in.enter(); !ok {
		return nil, code
	}
	defer in.leave()

	c, code := in.class(class)
	if code != jvm.ErrNone {
		return nil, code
	}
	ids := make([]jvm.FieldID, len(c.Fields))
	for i, f := range c.Fields {
		ids[i] = f.ID
	}
	return ids, jvm.ErrNone
}

func (in *inspector) GetMethodName(method jvm.MethodID) (string, string, jvm.ErrorCode) {
	if code, ok := in.enter(); !ok {
		return "", "", code
	}
	defer in.leave()

	m := in.vm.method(method)
	if m == nil {
		return "", "", jvm.ErrInvalidMethodID
	}
	return m.Name, m.Descriptor, jvm.ErrNone
}

func (in *inspector) GetMethodModifiers(method jvm.MethodID) (int32, jvm.ErrorCode) {
	if code, ok := in.enter(); !ok {
		return 0, code
	}
	defer in.leave()

	m := in.vm.method(method)
	if m == nil {
		return 0, jvm.ErrInvalidMethodID
	}
	return int32(m.Access), jvm.ErrNone
}

func (in *inspector) fieldOf(class jvm.Ref, field jvm.FieldID) (*Field, jvm.ErrorCode) {
	c, code := in.class(class)
	if code != jvm.ErrNone {
		return nil, code
	}
	f := in.vm.field(field)
	if f == nil || f.Class != c {
		in.vm.logger.Debug("field not declared by class",
			zap.String("class", c.BinaryName()),
			zap.Uintptr("field", uintptr(field)))
		return nil, jvm.ErrInvalidFieldID
	}
	return f, jvm.ErrNone
}

func (in *inspector) GetFieldName(class jvm.Ref, field jvm.FieldID) (string, string, jvm.ErrorCode) {
	if code, ok := in.enter(); !ok {
		return "", "", code
	}
	defer in.leave()

	f, code := in.fieldOf(class, field)
	if code != jvm.ErrNone {
		return "", "", code
	}
	return f.Name, f.Descriptor, jvm.ErrNone
}

func (in *inspector) GetFieldModifiers(class jvm.Ref, field jvm.FieldID) (int32, jvm.ErrorCode) {
	if code, ok := in.enter(); !ok {
		return 0, code
	}
	defer in.leave()

	f, code := in.fieldOf(class, field)
	if code != jvm.ErrNone {
		return 0, code
	}
	return int32(f.Access), jvm.ErrNone
}
