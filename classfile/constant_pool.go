package classfile

import (
	"fmt"
)

// Constant pool tags
const (
	TagUtf8               = 1
	TagInteger            = 3
	TagFloat              = 4
	TagLong               = 5
	TagDouble             = 6
	TagClass              = 7
	TagString             = 8
	TagFieldref           = 9
	TagMethodref          = 10
	TagInterfaceMethodref = 11
	TagNameAndType        = 12
	TagMethodHandle       = 15
	TagMethodType         = 16
	TagDynamic            = 17
	TagInvokeDynamic      = 18
	TagModule             = 19
	TagPackage            = 20
)

// Constant is implemented by all constant pool entry types.
type Constant interface {
	Tag() uint8
}

type ConstantUtf8 struct {
	Value string
}

type ConstantInteger struct {
	Value int32
}

type ConstantFloat struct {
	Bits uint32
}

type ConstantLong struct {
	Value int64
}

type ConstantDouble struct {
	Bits uint64
}

type ConstantClass struct {
	NameIndex uint16
}

type ConstantString struct {
	StringIndex uint16
}

// ConstantRef covers Fieldref, Methodref and InterfaceMethodref, which share
// a layout.
type ConstantRef struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
	RefTag           uint8
}

type ConstantNameAndType struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

type ConstantMethodHandle struct {
	ReferenceIndex uint16
	ReferenceKind  uint8
}

type ConstantMethodType struct {
	DescriptorIndex uint16
}

// ConstantDynamic covers Dynamic and InvokeDynamic.
type ConstantDynamic struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
	DynTag                   uint8
}

// ConstantNamed covers Module and Package, which hold a single name index.
type ConstantNamed struct {
	NameIndex uint16
	NameTag   uint8
}

func (*ConstantUtf8) Tag() uint8         { return TagUtf8 }
func (*ConstantInteger) Tag() uint8      { return TagInteger }
func (*ConstantFloat) Tag() uint8        { return TagFloat }
func (*ConstantLong) Tag() uint8         { return TagLong }
func (*ConstantDouble) Tag() uint8       { return TagDouble }
func (*ConstantClass) Tag() uint8        { return TagClass }
func (*ConstantString) Tag() uint8       { return TagString }
func (c *ConstantRef) Tag() uint8        { return c.RefTag }
func (*ConstantNameAndType) Tag() uint8  { return TagNameAndType }
func (*ConstantMethodHandle) Tag() uint8 { return TagMethodHandle }
func (*ConstantMethodType) Tag() uint8   { return TagMethodType }
func (c *ConstantDynamic) Tag() uint8    { return c.DynTag }
func (c *ConstantNamed) Tag() uint8      { return c.NameTag }

// wide reports whether the constant occupies two pool slots.
func wide(c Constant) bool {
	t := c.Tag()
	return t == TagLong || t == TagDouble
}

// GetUtf8 returns the Utf8 string at the given constant pool index.
func GetUtf8(pool []Constant, index uint16) (string, error) {
	if int(index) >= len(pool) || pool[index] == nil {
		return "", fmt.Errorf("invalid constant pool index %d", index)
	}
	utf8, ok := pool[index].(*ConstantUtf8)
	if !ok {
		return "", fmt.Errorf("constant pool index %d is not Utf8 (tag=%d)", index, pool[index].Tag())
	}
	return utf8.Value, nil
}

// GetClassName returns the class name referenced by a CONSTANT_Class entry.
func GetClassName(pool []Constant, classIndex uint16) (string, error) {
	if int(classIndex) >= len(pool) || pool[classIndex] == nil {
		return "", fmt.Errorf("invalid constant pool index %d", classIndex)
	}
	class, ok := pool[classIndex].(*ConstantClass)
	if !ok {
		return "", fmt.Errorf("constant pool index %d is not Class (tag=%d)", classIndex, pool[classIndex].Tag())
	}
	return GetUtf8(pool, class.NameIndex)
}
