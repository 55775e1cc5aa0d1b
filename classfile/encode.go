package classfile

import (
	"encoding/binary"
	"fmt"
	"math"
)

// writer appends big-endian values to a byte slice
type writer struct {
	buf []byte
}

func (w *writer) u8(v uint8)   { w.buf = append(w.buf, v) }
func (w *writer) u16(v uint16) { w.buf = binary.BigEndian.AppendUint16(w.buf, v) }
func (w *writer) u32(v uint32) { w.buf = binary.BigEndian.AppendUint32(w.buf, v) }
func (w *writer) u64(v uint64) { w.buf = binary.BigEndian.AppendUint64(w.buf, v) }

// Encode encodes the class file to its binary format.
func (cf *ClassFile) Encode() ([]byte, error) {
	if len(cf.ConstantPool) == 0 || len(cf.ConstantPool) > math.MaxUint16 {
		return nil, fmt.Errorf("constant pool size %d out of range", len(cf.ConstantPool))
	}

	w := &writer{buf: make([]byte, 0, 256)}
	w.u32(Magic)
	w.u16(cf.MinorVersion)
	w.u16(cf.MajorVersion)

	w.u16(uint16(len(cf.ConstantPool)))
	for i := 1; i < len(cf.ConstantPool); i++ {
		c := cf.ConstantPool[i]
		if c == nil {
			return nil, fmt.Errorf("constant pool index %d is empty", i)
		}
		if err := writeConstant(w, c); err != nil {
			return nil, fmt.Errorf("constant pool index %d: %w", i, err)
		}
		if wide(c) {
			i++
		}
	}

	w.u16(cf.AccessFlags)
	w.u16(cf.ThisClass)
	w.u16(cf.SuperClass)

	w.u16(uint16(len(cf.Interfaces)))
	for _, idx := range cf.Interfaces {
		w.u16(idx)
	}

	for _, members := range [][]Member{cf.Fields, cf.Methods} {
		w.u16(uint16(len(members)))
		for _, m := range members {
			w.u16(m.AccessFlags)
			w.u16(m.NameIndex)
			w.u16(m.DescIndex)
			writeAttributes(w, m.Attributes)
		}
	}

	writeAttributes(w, cf.Attributes)
	return w.buf, nil
}

func writeConstant(w *writer, c Constant) error {
	w.u8(c.Tag())
	switch v := c.(type) {
	case *ConstantUtf8:
		if len(v.Value) > math.MaxUint16 {
			return fmt.Errorf("Utf8 constant too long: %d bytes", len(v.Value))
		}
		w.u16(uint16(len(v.Value)))
		w.buf = append(w.buf, v.Value...)
	case *ConstantInteger:
		w.u32(uint32(v.Value))
	case *ConstantFloat:
		w.u32(v.Bits)
	case *ConstantLong:
		w.u64(uint64(v.Value))
	case *ConstantDouble:
		w.u64(v.Bits)
	case *ConstantClass:
		w.u16(v.NameIndex)
	case *ConstantString:
		w.u16(v.StringIndex)
	case *ConstantRef:
		w.u16(v.ClassIndex)
		w.u16(v.NameAndTypeIndex)
	case *ConstantNameAndType:
		w.u16(v.NameIndex)
		w.u16(v.DescriptorIndex)
	case *ConstantMethodHandle:
		w.u8(v.ReferenceKind)
		w.u16(v.ReferenceIndex)
	case *ConstantMethodType:
		w.u16(v.DescriptorIndex)
	case *ConstantDynamic:
		w.u16(v.BootstrapMethodAttrIndex)
		w.u16(v.NameAndTypeIndex)
	case *ConstantNamed:
		w.u16(v.NameIndex)
	default:
		return fmt.Errorf("unsupported constant type %T", c)
	}
	return nil
}

func writeAttributes(w *writer, attrs []Attribute) {
	w.u16(uint16(len(attrs)))
	for _, a := range attrs {
		w.u16(a.NameIndex)
		w.u32(uint32(len(a.Data)))
		w.buf = append(w.buf, a.Data...)
	}
}
