package classfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Encoder writes class files in the layout Decoder reads.
type Encoder struct {
	w io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) Encode(cf *ClassFile) error {
	data, err := cf.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = e.w.Write(data)
	return err
}

func (cf *ClassFile) MarshalBinary() ([]byte, error) {
	buf := AppendHeader(nil, cf.Header())
	buf, err := AppendConstantPool(buf, cf.ConstantPool)
	if err != nil {
		return nil, err
	}
	buf = be.AppendUint16(buf, uint16(cf.AccessFlags))
	buf = be.AppendUint16(buf, cf.ThisClass)
	buf = be.AppendUint16(buf, cf.SuperClass)
	if buf, err = appendU2List(buf, cf.Interfaces); err != nil {
		return nil, err
	}

	if len(cf.Fields) > math.MaxUint16 {
		return nil, fmt.Errorf("too many fields: %d", len(cf.Fields))
	}
	buf = be.AppendUint16(buf, uint16(len(cf.Fields)))
	for i := range cf.Fields {
		if buf, err = appendMember(buf, (*memberInfo)(&cf.Fields[i])); err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
	}

	if len(cf.Methods) > math.MaxUint16 {
		return nil, fmt.Errorf("too many methods: %d", len(cf.Methods))
	}
	buf = be.AppendUint16(buf, uint16(len(cf.Methods)))
	for i := range cf.Methods {
		if buf, err = appendMember(buf, (*memberInfo)(&cf.Methods[i])); err != nil {
			return nil, fmt.Errorf("method %d: %w", i, err)
		}
	}

	return AppendAttributes(buf, cf.Attributes)
}

var be = binary.BigEndian

// AppendHeader appends the magic, both versions and the pool count.
func AppendHeader(dst []byte, h Header) []byte {
	dst = be.AppendUint32(dst, h.Magic)
	dst = be.AppendUint16(dst, h.MinorVersion)
	dst = be.AppendUint16(dst, h.MajorVersion)
	return be.AppendUint16(dst, h.ConstantPoolCount)
}

// AppendConstantPool appends the entries of cp, not its count. Every nil
// slot must directly follow a Long or Double, and every Long or Double
// must be followed by one. A pool whose count would not fit in a u2 is
// rejected.
func AppendConstantPool(dst []byte, cp ConstantPool) ([]byte, error) {
	if len(cp) > MaxPoolSlots {
		return nil, fmt.Errorf("constant pool too large: %d slots (max %d)", len(cp), MaxPoolSlots)
	}
	var err error
	for i := 0; i < len(cp); i++ {
		e := cp[i]
		if e == nil {
			return nil, fmt.Errorf("constant pool index %d: unusable slot without a preceding Long or Double", i+1)
		}
		if dst, err = AppendConstant(dst, e); err != nil {
			return nil, fmt.Errorf("constant pool index %d: %w", i+1, err)
		}
		if e.Tag().Slots() == 2 {
			if i+1 >= len(cp) || cp[i+1] != nil {
				return nil, fmt.Errorf("constant pool index %d: %s must be followed by an unusable slot", i+1, e.Tag())
			}
			i++
		}
	}
	return dst, nil
}

// AppendConstant appends the tag byte and fixed layout of one entry.
func AppendConstant(dst []byte, e ConstantPoolEntry) ([]byte, error) {
	dst = append(dst, byte(e.Tag()))
	switch c := e.(type) {
	case *ConstantUtf8Info:
		if len(c.Bytes) > math.MaxUint16 {
			return nil, fmt.Errorf("utf8 constant too long: %d bytes", len(c.Bytes))
		}
		dst = be.AppendUint16(dst, uint16(len(c.Bytes)))
		return append(dst, c.Bytes...), nil
	case *ConstantIntegerInfo:
		return be.AppendUint32(dst, uint32(c.Value)), nil
	case *ConstantFloatInfo:
		return be.AppendUint32(dst, math.Float32bits(c.Value)), nil
	case *ConstantLongInfo:
		return be.AppendUint64(dst, uint64(c.Value)), nil
	case *ConstantDoubleInfo:
		return be.AppendUint64(dst, math.Float64bits(c.Value)), nil
	case *ConstantClassInfo:
		return be.AppendUint16(dst, c.NameIndex), nil
	case *ConstantStringInfo:
		return be.AppendUint16(dst, c.StringIndex), nil
	case *ConstantFieldrefInfo:
		return appendU2s(dst, c.ClassIndex, c.NameAndTypeIndex), nil
	case *ConstantMethodrefInfo:
		return appendU2s(dst, c.ClassIndex, c.NameAndTypeIndex), nil
	case *ConstantInterfaceMethodrefInfo:
		return appendU2s(dst, c.ClassIndex, c.NameAndTypeIndex), nil
	case *ConstantNameAndTypeInfo:
		return appendU2s(dst, c.NameIndex, c.DescriptorIndex), nil
	case *ConstantMethodHandleInfo:
		dst = append(dst, byte(c.ReferenceKind))
		return be.AppendUint16(dst, c.ReferenceIndex), nil
	case *ConstantMethodTypeInfo:
		return be.AppendUint16(dst, c.DescriptorIndex), nil
	case *ConstantDynamicInfo:
		return appendU2s(dst, c.BootstrapMethodAttrIndex, c.NameAndTypeIndex), nil
	case *ConstantInvokeDynamicInfo:
		return appendU2s(dst, c.BootstrapMethodAttrIndex, c.NameAndTypeIndex), nil
	case *ConstantModuleInfo:
		return be.AppendUint16(dst, c.NameIndex), nil
	case *ConstantPackageInfo:
		return be.AppendUint16(dst, c.NameIndex), nil
	}
	return nil, fmt.Errorf("unsupported constant %T", e)
}

func AppendAttributes(dst []byte, attrs []AttributeInfo) ([]byte, error) {
	if len(attrs) > math.MaxUint16 {
		return nil, fmt.Errorf("too many attributes: %d", len(attrs))
	}
	dst = be.AppendUint16(dst, uint16(len(attrs)))
	for _, a := range attrs {
		if uint64(len(a.Info)) > math.MaxUint32 {
			return nil, fmt.Errorf("attribute %d too long: %d bytes", a.NameIndex, len(a.Info))
		}
		dst = be.AppendUint16(dst, a.NameIndex)
		dst = be.AppendUint32(dst, uint32(len(a.Info)))
		dst = append(dst, a.Info...)
	}
	return dst, nil
}

func appendMember(dst []byte, m *memberInfo) ([]byte, error) {
	dst = appendU2s(dst, uint16(m.AccessFlags), m.NameIndex, m.DescriptorIndex)
	return AppendAttributes(dst, m.Attributes)
}

func appendU2List(dst []byte, list []uint16) ([]byte, error) {
	if len(list) > math.MaxUint16 {
		return nil, fmt.Errorf("list too long: %d entries", len(list))
	}
	dst = be.AppendUint16(dst, uint16(len(list)))
	return appendU2s(dst, list...), nil
}

func appendU2s(dst []byte, vs ...uint16) []byte {
	for _, v := range vs {
		dst = be.AppendUint16(dst, v)
	}
	return dst
}
