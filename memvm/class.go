package memvm

import (
	"strings"

	"github.com/wippyai/gargoyle/classfile"
	"github.com/wippyai/gargoyle/jvm"
)

// Class is a loaded class. Its members keep declaration order.
type Class struct {
	Name       string
	Super      *Class
	Interfaces []*Class
	Methods    []*Method
	Fields     []*Field
	Access     uint16

	mirror *Object
	slots  int
}

// Method is a declared method. ID is stable for the VM's lifetime.
type Method struct {
	Class      *Class
	Name       string
	Descriptor string
	ID         jvm.MethodID
	Access     uint16
}

// Field is a declared field. Instance fields own a slot in every object.
type Field struct {
	Class      *Class
	Name       string
	Descriptor string
	ID         jvm.FieldID
	Access     uint16
	slot       int
}

func (c *Class) IsInterface() bool {
	return c.Access&classfile.AccInterface != 0
}

func (c *Class) IsAbstract() bool {
	return c.Access&classfile.AccAbstract != 0
}

// BinaryName returns the dotted name Java uses in messages ("a.b.C$D").
func (c *Class) BinaryName() string {
	return strings.ReplaceAll(c.Name, "/", ".")
}

// Signature returns the class type descriptor ("La/b/C;").
func (c *Class) Signature() string {
	if strings.HasPrefix(c.Name, "[") {
		return c.Name
	}
	return "L" + c.Name + ";"
}

// IsSubclassOf reports whether c is other or inherits from it through the
// superclass chain or any superinterface.
func (c *Class) IsSubclassOf(other *Class) bool {
	if c == nil || other == nil {
		return false
	}
	if c == other {
		return true
	}
	for _, iface := range c.Interfaces {
		if iface.IsSubclassOf(other) {
			return true
		}
	}
	return c.Super.IsSubclassOf(other)
}

// DeclaredMethod finds a method declared directly on c.
func (c *Class) DeclaredMethod(name, descriptor string) *Method {
	for _, m := range c.Methods {
		if m.Name == name && m.Descriptor == descriptor {
			return m
		}
	}
	return nil
}

// LookupMethod resolves an instance method through the superclass chain.
func (c *Class) LookupMethod(name, descriptor string) *Method {
	for k := c; k != nil; k = k.Super {
		if m := k.DeclaredMethod(name, descriptor); m != nil && m.Access&classfile.AccStatic == 0 {
			return m
		}
	}
	for k := c; k != nil; k = k.Super {
		for _, iface := range k.Interfaces {
			if m := iface.LookupMethod(name, descriptor); m != nil {
				return m
			}
		}
	}
	return nil
}

// DeclaredField finds a field declared directly on c.
func (c *Class) DeclaredField(name string) *Field {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}
