package classfile

// Access flags. The same bit carries different meanings depending on whether
// it is read from a class, a method or a field.
const (
	AccPublic       = 0x0001 // class, field, method
	AccPrivate      = 0x0002 // field, method
	AccProtected    = 0x0004 // field, method
	AccStatic       = 0x0008 // field, method
	AccFinal        = 0x0010 // class, field, method
	AccSuper        = 0x0020 // class
	AccSynchronized = 0x0020 // method
	AccVolatile     = 0x0040 // field
	AccBridge       = 0x0040 // method
	AccTransient    = 0x0080 // field
	AccVarargs      = 0x0080 // method
	AccNative       = 0x0100 // method
	AccInterface    = 0x0200 // class
	AccAbstract     = 0x0400 // class, method
	AccStrict       = 0x0800 // method
	AccSynthetic    = 0x1000 // class, field, method
	AccAnnotation   = 0x2000 // class
	AccEnum         = 0x4000 // class, field
	AccModule       = 0x8000 // class
)

// ClassFile represents a parsed .class file.
type ClassFile struct {
	ConstantPool []Constant
	Interfaces   []uint16
	Fields       []Member
	Methods      []Member
	Attributes   []Attribute
	MinorVersion uint16
	MajorVersion uint16
	AccessFlags  uint16
	ThisClass    uint16
	SuperClass   uint16
}

// Member is a field_info or method_info entry.
type Member struct {
	Name        string
	Descriptor  string
	Attributes  []Attribute
	AccessFlags uint16
	NameIndex   uint16
	DescIndex   uint16
}

// Attribute is a raw attribute; the bridge never interprets attribute bodies.
type Attribute struct {
	Name      string
	Data      []byte
	NameIndex uint16
}

// ClassName returns the internal name of this class.
func (cf *ClassFile) ClassName() (string, error) {
	return GetClassName(cf.ConstantPool, cf.ThisClass)
}

// SuperClassName returns the internal name of the super class, or "" for the
// root of the hierarchy (super_class == 0).
func (cf *ClassFile) SuperClassName() (string, error) {
	if cf.SuperClass == 0 {
		return "", nil
	}
	return GetClassName(cf.ConstantPool, cf.SuperClass)
}

// InterfaceNames returns the internal names of the direct superinterfaces in
// declaration order.
func (cf *ClassFile) InterfaceNames() ([]string, error) {
	names := make([]string, 0, len(cf.Interfaces))
	for _, idx := range cf.Interfaces {
		name, err := GetClassName(cf.ConstantPool, idx)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// FindMethod finds a method by name and descriptor.
func (cf *ClassFile) FindMethod(name, descriptor string) *Member {
	for i := range cf.Methods {
		if cf.Methods[i].Name == name && cf.Methods[i].Descriptor == descriptor {
			return &cf.Methods[i]
		}
	}
	return nil
}

// FindField finds a field by name.
func (cf *ClassFile) FindField(name string) *Member {
	for i := range cf.Fields {
		if cf.Fields[i].Name == name {
			return &cf.Fields[i]
		}
	}
	return nil
}
