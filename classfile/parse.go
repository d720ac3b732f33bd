package classfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// Decoder reads one class file front to back. The stages must be called
// in order: ReadHeader, ReadConstantPool, ReadBody. Decode runs all three.
type Decoder struct {
	r *reader
}

// NewDecoder returns a Decoder reading from rd. Every read asks rd for
// exactly the bytes the format needs, so after ReadConstantPool rd is
// positioned at the access flags. When rd reports its remaining length
// (as *bytes.Reader and *strings.Reader do), declared lengths are checked
// against it before any allocation.
func NewDecoder(rd io.Reader) *Decoder {
	size := int64(-1)
	if l, ok := rd.(interface{ Len() int }); ok {
		size = int64(l.Len())
	}
	return &Decoder{r: newReader(rd, size)}
}

// Offset is the number of bytes consumed so far.
func (d *Decoder) Offset() int64 { return d.r.off }

func ParseFile(path string) (*ClassFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read class file: %w", err)
	}
	return ParseBytes(data)
}

func ParseBytes(data []byte) (*ClassFile, error) {
	return NewDecoder(bytes.NewReader(data)).Decode()
}

// Parse decodes a whole class file from rd, which must end with it.
// Unsized readers are buffered since the input is consumed to EOF anyway.
func Parse(rd io.Reader) (*ClassFile, error) {
	_, sized := rd.(interface{ Len() int })
	if _, ok := rd.(io.ByteReader); !sized && !ok {
		rd = bufio.NewReader(rd)
	}
	return NewDecoder(rd).Decode()
}

// Decode reads a complete class file and requires the input to end
// right after the class attributes.
func (d *Decoder) Decode() (*ClassFile, error) {
	h, err := d.ReadHeader()
	if err != nil {
		return nil, err
	}

	cp, err := d.ReadConstantPool(h.ConstantPoolCount)
	if err != nil {
		return nil, err
	}

	cf := &ClassFile{
		MinorVersion: h.MinorVersion,
		MajorVersion: h.MajorVersion,
		ConstantPool: cp,
	}
	if err := d.ReadBody(cf); err != nil {
		return nil, err
	}
	if err := d.r.expectEOF(); err != nil {
		return nil, err
	}
	return cf, nil
}

// ReadBody reads everything after the constant pool into cf.
func (d *Decoder) ReadBody(cf *ClassFile) error {
	r := d.r

	flags, err := r.readU2()
	if err != nil {
		return err
	}
	cf.AccessFlags = AccessFlags(flags)
	if cf.ThisClass, cf.SuperClass, err = r.readU2Pair(); err != nil {
		return err
	}

	if cf.Interfaces, err = readU2List(r); err != nil {
		return err
	}

	fieldsCount, err := r.readU2()
	if err != nil {
		return err
	}
	cf.Fields = make([]FieldInfo, fieldsCount)
	for i := range cf.Fields {
		if err := readMember(r, (*memberInfo)(&cf.Fields[i])); err != nil {
			return err
		}
	}

	methodsCount, err := r.readU2()
	if err != nil {
		return err
	}
	cf.Methods = make([]MethodInfo, methodsCount)
	for i := range cf.Methods {
		if err := readMember(r, (*memberInfo)(&cf.Methods[i])); err != nil {
			return err
		}
	}

	cf.Attributes, err = readAttributes(r)
	return err
}

// memberInfo is the layout shared by field_info and method_info.
type memberInfo struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []AttributeInfo
}

func readMember(r *reader, m *memberInfo) error {
	flags, err := r.readU2()
	if err != nil {
		return err
	}
	m.AccessFlags = AccessFlags(flags)
	if m.NameIndex, m.DescriptorIndex, err = r.readU2Pair(); err != nil {
		return err
	}
	m.Attributes, err = readAttributes(r)
	return err
}

func readAttributes(r *reader) ([]AttributeInfo, error) {
	count, err := r.readU2()
	if err != nil {
		return nil, err
	}
	attrs := make([]AttributeInfo, count)
	for i := range attrs {
		var length uint32
		if attrs[i].NameIndex, err = r.readU2(); err != nil {
			return nil, err
		}
		if length, err = r.readU4(); err != nil {
			return nil, err
		}
		if attrs[i].Info, err = r.readBytes(int64(length)); err != nil {
			return nil, err
		}
	}
	return attrs, nil
}

func readU2List(r *reader) ([]uint16, error) {
	count, err := r.readU2()
	if err != nil {
		return nil, err
	}
	list := make([]uint16, count)
	for i := range list {
		if list[i], err = r.readU2(); err != nil {
			return nil, err
		}
	}
	return list, nil
}
