package host

import (
	"github.com/wippyai/gargoyle/extract"
	"github.com/wippyai/gargoyle/signature"
)

// describe renders a class descriptor as an alist:
//
//	((name . java.lang.String)
//	 (superclass . java.lang.Object)
//	 (interfaces java.io.Serializable ...)
//	 (methods ((name . length) (returns primitive . int) (accepts) (modifiers public)) ...)
//	 (fields ((name . value) (type array primitive . byte) (modifiers private final)) ...)
//	 (modifiers public final super))
func (m *Module) describe(d *extract.ClassDescriptor) Value {
	var super Value = Nil
	if d.Superclass != "" {
		super = m.syms.Intern(d.Superclass)
	}

	ifaces := make([]Value, len(d.Interfaces))
	for i, name := range d.Interfaces {
		ifaces[i] = m.syms.Intern(name)
	}

	methods := make([]Value, len(d.Methods))
	for i, md := range d.Methods {
		params := make([]Value, len(md.Parameters))
		for j, p := range md.Parameters {
			params[j] = m.typeValue(p)
		}
		methods[i] = Alist(
			m.entry("name", m.syms.Intern(md.Name)),
			m.entry("returns", m.typeValue(md.ReturnType)),
			m.entry("accepts", List(params...)),
			m.entry("modifiers", m.modifiers(md.Modifiers)),
		)
	}

	fields := make([]Value, len(d.Fields))
	for i, fd := range d.Fields {
		fields[i] = Alist(
			m.entry("name", m.syms.Intern(fd.Name)),
			m.entry("type", m.typeValue(fd.Type)),
			m.entry("modifiers", m.modifiers(fd.Modifiers)),
		)
	}

	return Alist(
		m.entry("name", m.syms.Intern(d.Name)),
		m.entry("superclass", super),
		m.entry("interfaces", List(ifaces...)),
		m.entry("methods", List(methods...)),
		m.entry("fields", List(fields...)),
		m.entry("modifiers", m.modifiers(d.Modifiers)),
	)
}

func (m *Module) entry(key string, v Value) *Cons {
	return Pair(m.syms.Intern(key), v)
}

// typeValue tags a type: class names are bare symbols, primitives are
// (primitive . name) and arrays are (array . element).
func (m *Module) typeValue(t signature.TypeRef) Value {
	switch x := t.(type) {
	case signature.ClassRef:
		return m.syms.Intern(x.Name)
	case signature.Primitive:
		return Pair(m.syms.Intern("primitive"), m.syms.Intern(x.Name()))
	case signature.ArrayOf:
		return Pair(m.syms.Intern("array"), m.typeValue(x.Elem))
	}
	return Nil
}

func (m *Module) modifiers(mods extract.Modifiers) Value {
	vals := make([]Value, len(mods))
	for i, mod := range mods {
		vals[i] = m.syms.Intern(string(mod))
	}
	return List(vals...)
}
