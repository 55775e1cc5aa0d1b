package classfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Magic is the class file signature.
const Magic = 0xCAFEBABE

// ParseFile opens and parses a .class file from the given path.
func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(bufio.NewReader(f))
}

// Parse reads a .class file from the given reader and returns a ClassFile.
func Parse(r io.Reader) (*ClassFile, error) {
	cf := &ClassFile{}

	var magic uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return nil, fmt.Errorf("reading magic number: %w", err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("invalid magic number: 0x%X (expected 0xCAFEBABE)", magic)
	}

	if err := readU16s(r, "version", &cf.MinorVersion, &cf.MajorVersion); err != nil {
		return nil, err
	}

	var cpCount uint16
	if err := readU16s(r, "constant pool count", &cpCount); err != nil {
		return nil, err
	}
	pool, err := parseConstantPool(r, cpCount)
	if err != nil {
		return nil, fmt.Errorf("parsing constant pool: %w", err)
	}
	cf.ConstantPool = pool

	if err := readU16s(r, "class header", &cf.AccessFlags, &cf.ThisClass, &cf.SuperClass); err != nil {
		return nil, err
	}

	var interfacesCount uint16
	if err := readU16s(r, "interfaces count", &interfacesCount); err != nil {
		return nil, err
	}
	cf.Interfaces = make([]uint16, interfacesCount)
	for i := range cf.Interfaces {
		if err := readU16s(r, fmt.Sprintf("interface %d", i), &cf.Interfaces[i]); err != nil {
			return nil, err
		}
	}

	cf.Fields, err = parseMembers(r, pool, "field")
	if err != nil {
		return nil, fmt.Errorf("parsing fields: %w", err)
	}

	cf.Methods, err = parseMembers(r, pool, "method")
	if err != nil {
		return nil, fmt.Errorf("parsing methods: %w", err)
	}

	var attrCount uint16
	if err := readU16s(r, "class attributes count", &attrCount); err != nil {
		return nil, err
	}
	cf.Attributes, err = parseAttributes(r, pool, attrCount)
	if err != nil {
		return nil, fmt.Errorf("parsing class attributes: %w", err)
	}

	return cf, nil
}

func readU16s(r io.Reader, what string, dst ...*uint16) error {
	for _, d := range dst {
		if err := binary.Read(r, binary.BigEndian, d); err != nil {
			return fmt.Errorf("reading %s: %w", what, err)
		}
	}
	return nil
}

// parseConstantPool reads count-1 entries. The returned slice is 1-indexed:
// index 0 is nil, as is the slot following a Long or Double.
func parseConstantPool(r io.Reader, count uint16) ([]Constant, error) {
	if count == 0 {
		return nil, fmt.Errorf("constant pool count must be at least 1")
	}
	pool := make([]Constant, count)

	for i := uint16(1); i < count; i++ {
		var tag uint8
		if err := binary.Read(r, binary.BigEndian, &tag); err != nil {
			return nil, fmt.Errorf("reading tag at index %d: %w", i, err)
		}

		c, err := parseConstant(r, tag)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		pool[i] = c
		if wide(c) {
			i++
		}
	}

	return pool, nil
}

func parseConstant(r io.Reader, tag uint8) (Constant, error) {
	switch tag {
	case TagUtf8:
		var length uint16
		if err := binary.Read(r, binary.BigEndian, &length); err != nil {
			return nil, fmt.Errorf("reading Utf8 length: %w", err)
		}
		buf := make([]byte, length)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("reading Utf8 bytes: %w", err)
		}
		return &ConstantUtf8{Value: string(buf)}, nil

	case TagInteger:
		c := &ConstantInteger{}
		return c, binary.Read(r, binary.BigEndian, &c.Value)

	case TagFloat:
		c := &ConstantFloat{}
		return c, binary.Read(r, binary.BigEndian, &c.Bits)

	case TagLong:
		c := &ConstantLong{}
		return c, binary.Read(r, binary.BigEndian, &c.Value)

	case TagDouble:
		c := &ConstantDouble{}
		return c, binary.Read(r, binary.BigEndian, &c.Bits)

	case TagClass:
		c := &ConstantClass{}
		return c, readU16s(r, "Class", &c.NameIndex)

	case TagString:
		c := &ConstantString{}
		return c, readU16s(r, "String", &c.StringIndex)

	case TagFieldref, TagMethodref, TagInterfaceMethodref:
		c := &ConstantRef{RefTag: tag}
		return c, readU16s(r, "member ref", &c.ClassIndex, &c.NameAndTypeIndex)

	case TagNameAndType:
		c := &ConstantNameAndType{}
		return c, readU16s(r, "NameAndType", &c.NameIndex, &c.DescriptorIndex)

	case TagMethodHandle:
		c := &ConstantMethodHandle{}
		if err := binary.Read(r, binary.BigEndian, &c.ReferenceKind); err != nil {
			return nil, fmt.Errorf("reading MethodHandle kind: %w", err)
		}
		return c, readU16s(r, "MethodHandle", &c.ReferenceIndex)

	case TagMethodType:
		c := &ConstantMethodType{}
		return c, readU16s(r, "MethodType", &c.DescriptorIndex)

	case TagDynamic, TagInvokeDynamic:
		c := &ConstantDynamic{DynTag: tag}
		return c, readU16s(r, "Dynamic", &c.BootstrapMethodAttrIndex, &c.NameAndTypeIndex)

	case TagModule, TagPackage:
		c := &ConstantNamed{NameTag: tag}
		return c, readU16s(r, "Module/Package", &c.NameIndex)
	}

	return nil, fmt.Errorf("unknown constant pool tag %d", tag)
}

func parseMembers(r io.Reader, pool []Constant, kind string) ([]Member, error) {
	var count uint16
	if err := readU16s(r, kind+" count", &count); err != nil {
		return nil, err
	}

	members := make([]Member, count)
	for i := range members {
		m := &members[i]
		var attrCount uint16
		if err := readU16s(r, fmt.Sprintf("%s %d header", kind, i), &m.AccessFlags, &m.NameIndex, &m.DescIndex, &attrCount); err != nil {
			return nil, err
		}

		var err error
		if m.Name, err = GetUtf8(pool, m.NameIndex); err != nil {
			return nil, fmt.Errorf("resolving %s %d name: %w", kind, i, err)
		}
		if m.Descriptor, err = GetUtf8(pool, m.DescIndex); err != nil {
			return nil, fmt.Errorf("resolving %s %d descriptor: %w", kind, i, err)
		}
		if m.Attributes, err = parseAttributes(r, pool, attrCount); err != nil {
			return nil, fmt.Errorf("parsing %s %d attributes: %w", kind, i, err)
		}
	}
	return members, nil
}

func parseAttributes(r io.Reader, pool []Constant, count uint16) ([]Attribute, error) {
	attrs := make([]Attribute, count)
	for i := range attrs {
		a := &attrs[i]
		if err := readU16s(r, fmt.Sprintf("attribute %d name index", i), &a.NameIndex); err != nil {
			return nil, err
		}
		var length uint32
		if err := binary.Read(r, binary.BigEndian, &length); err != nil {
			return nil, fmt.Errorf("reading attribute %d length: %w", i, err)
		}
		a.Data = make([]byte, length)
		if _, err := io.ReadFull(r, a.Data); err != nil {
			return nil, fmt.Errorf("reading attribute %d data: %w", i, err)
		}

		name, err := GetUtf8(pool, a.NameIndex)
		if err != nil {
			return nil, fmt.Errorf("resolving attribute %d name: %w", i, err)
		}
		a.Name = name
	}
	return attrs, nil
}
