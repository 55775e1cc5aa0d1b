package classfile

// Builder assembles a ClassFile with a deduplicated constant pool. It is
// enough to describe class shapes (hierarchy, members, flags); method bodies
// are never emitted.
//
//	b := classfile.NewBuilder("com/x/Point", "java/lang/Object", AccPublic|AccSuper)
//	b.AddField(AccPrivate, "x", "I")
//	b.AddMethod(AccPublic, "<init>", "()V")
//	cf := b.Build()
type Builder struct {
	cf      *ClassFile
	utf8s   map[string]uint16
	classes map[string]uint16
}

// Java 8 class file version, the oldest format that carries every flag used
// here.
const (
	DefaultMajorVersion = 52
	DefaultMinorVersion = 0
)

// NewBuilder starts a class. super may be "" for the root class.
func NewBuilder(name, super string, access uint16) *Builder {
	b := &Builder{
		cf: &ClassFile{
			ConstantPool: []Constant{nil},
			MajorVersion: DefaultMajorVersion,
			MinorVersion: DefaultMinorVersion,
			AccessFlags:  access,
		},
		utf8s:   make(map[string]uint16),
		classes: make(map[string]uint16),
	}
	b.cf.ThisClass = b.classRef(name)
	if super != "" {
		b.cf.SuperClass = b.classRef(super)
	}
	return b
}

// AddInterface records a direct superinterface.
func (b *Builder) AddInterface(name string) *Builder {
	b.cf.Interfaces = append(b.cf.Interfaces, b.classRef(name))
	return b
}

// AddField declares a field.
func (b *Builder) AddField(access uint16, name, descriptor string) *Builder {
	b.cf.Fields = append(b.cf.Fields, b.member(access, name, descriptor))
	return b
}

// AddMethod declares a method.
func (b *Builder) AddMethod(access uint16, name, descriptor string) *Builder {
	b.cf.Methods = append(b.cf.Methods, b.member(access, name, descriptor))
	return b
}

// Build returns the assembled class file. The builder must not be reused.
func (b *Builder) Build() *ClassFile {
	return b.cf
}

func (b *Builder) member(access uint16, name, descriptor string) Member {
	return Member{
		Name:        name,
		Descriptor:  descriptor,
		AccessFlags: access,
		NameIndex:   b.utf8(name),
		DescIndex:   b.utf8(descriptor),
	}
}

func (b *Builder) utf8(s string) uint16 {
	if idx, ok := b.utf8s[s]; ok {
		return idx
	}
	idx := b.add(&ConstantUtf8{Value: s})
	b.utf8s[s] = idx
	return idx
}

func (b *Builder) classRef(name string) uint16 {
	if idx, ok := b.classes[name]; ok {
		return idx
	}
	nameIdx := b.utf8(name)
	idx := b.add(&ConstantClass{NameIndex: nameIdx})
	b.classes[name] = idx
	return idx
}

func (b *Builder) add(c Constant) uint16 {
	b.cf.ConstantPool = append(b.cf.ConstantPool, c)
	return uint16(len(b.cf.ConstantPool) - 1)
}
