package memvm

import (
	"strconv"
)

// Object is a heap value. Strings carry their text; throwables carry
// their detail message; class mirrors point at the class they describe.
type Object struct {
	class  *Class
	mirror *Class
	fields []any
	text   string
	hasMsg bool
	id     uint32
}

// Class returns the object's runtime class.
func (o *Object) Class() *Class {
	return o.class
}

// Mirrored returns the class a java.lang.Class instance describes.
func (o *Object) Mirrored() *Class {
	return o.mirror
}

// Text returns a string's value or a throwable's detail message.
func (o *Object) Text() string {
	return o.text
}

// Field returns the value of an instance field slot.
func (o *Object) Field(f *Field) any {
	if f.slot < 0 || f.slot >= len(o.fields) {
		return nil
	}
	return o.fields[f.slot]
}

// IdentityHash returns the object's identity hash code.
func (o *Object) IdentityHash() uint32 {
	return o.id
}

func (vm *VM) alloc(class *Class) *Object {
	vm.nextID++
	return &Object{
		class:  class,
		fields: make([]any, class.slots),
		id:     vm.nextID*0x9e3779b1 | 1,
	}
}

// display renders what toString returns for the intrinsic classes.
func (vm *VM) display(o *Object) string {
	switch {
	case o.class == vm.core.string:
		return o.text
	case o.mirror != nil:
		if o.mirror.IsInterface() {
			return "interface " + o.mirror.BinaryName()
		}
		return "class " + o.mirror.BinaryName()
	case o.class.IsSubclassOf(vm.core.throwable):
		if o.hasMsg {
			return o.class.BinaryName() + ": " + o.text
		}
		return o.class.BinaryName()
	}
	return o.class.BinaryName() + "@" + strconv.FormatUint(uint64(o.id), 16)
}
