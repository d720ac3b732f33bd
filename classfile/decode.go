package classfile

import (
	"errors"
	"math"
)

// ReadConstantPool decodes the pool entries for a declared
// constant_pool_count. The returned pool has count-1 slots; a count of 0 or
// 1 yields an empty pool and consumes nothing.
//
// A Long or Double at index n also claims index n+1, which must exist:
// one whose second slot would fall at index count is a SlotOverflow error.
func (d *Decoder) ReadConstantPool(count uint16) (ConstantPool, error) {
	if count <= 1 {
		return ConstantPool{}, nil
	}

	cp := make(ConstantPool, count-1)
	ordinal := 0
	for index := uint16(1); index < count; index++ {
		at := d.r.off
		entry, err := readConstant(d.r)
		if err != nil {
			return nil, annotate(err, index, ordinal)
		}
		cp[index-1] = entry
		ordinal++

		if entry.Tag().Slots() == 2 {
			if index+1 >= count {
				return nil, &FormatError{
					Kind:    SlotOverflow,
					Offset:  at,
					Tag:     uint8(entry.Tag()),
					Index:   index,
					Ordinal: ordinal - 1,
				}
			}
			index++
		}
	}
	return cp, nil
}

// annotate attaches the pool position to a FormatError raised while
// decoding one entry.
func annotate(err error, index uint16, ordinal int) error {
	var fe *FormatError
	if errors.As(err, &fe) {
		fe.Index = index
		fe.Ordinal = ordinal
	}
	return err
}

func readConstant(r *reader) (ConstantPoolEntry, error) {
	at := r.off
	b, err := r.readU1()
	if err != nil {
		return nil, err
	}
	tag := ConstantTag(b)

	entry, err := readConstantBody(r, tag, at)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Tag = b
		}
		return nil, err
	}
	return entry, nil
}

// readConstantBody reads the fixed layout that follows tag; at is the
// offset of the tag byte.
func readConstantBody(r *reader, tag ConstantTag, at int64) (ConstantPoolEntry, error) {
	switch tag {
	case ConstantUtf8:
		length, err := r.readU2()
		if err != nil {
			return nil, err
		}
		bytes, err := r.readBytes(int64(length))
		if err != nil {
			return nil, err
		}
		return &ConstantUtf8Info{Bytes: bytes}, nil

	case ConstantInteger:
		v, err := r.readU4()
		if err != nil {
			return nil, err
		}
		return &ConstantIntegerInfo{Value: int32(v)}, nil

	case ConstantFloat:
		v, err := r.readU4()
		if err != nil {
			return nil, err
		}
		return &ConstantFloatInfo{Value: math.Float32frombits(v)}, nil

	case ConstantLong:
		v, err := r.readU8()
		if err != nil {
			return nil, err
		}
		return &ConstantLongInfo{Value: int64(v)}, nil

	case ConstantDouble:
		v, err := r.readU8()
		if err != nil {
			return nil, err
		}
		return &ConstantDoubleInfo{Value: math.Float64frombits(v)}, nil

	case ConstantClass:
		nameIndex, err := r.readU2()
		if err != nil {
			return nil, err
		}
		return &ConstantClassInfo{NameIndex: nameIndex}, nil

	case ConstantString:
		stringIndex, err := r.readU2()
		if err != nil {
			return nil, err
		}
		return &ConstantStringInfo{StringIndex: stringIndex}, nil

	case ConstantFieldref:
		classIndex, natIndex, err := r.readU2Pair()
		if err != nil {
			return nil, err
		}
		return &ConstantFieldrefInfo{ClassIndex: classIndex, NameAndTypeIndex: natIndex}, nil

	case ConstantMethodref:
		classIndex, natIndex, err := r.readU2Pair()
		if err != nil {
			return nil, err
		}
		return &ConstantMethodrefInfo{ClassIndex: classIndex, NameAndTypeIndex: natIndex}, nil

	case ConstantInterfaceMethodref:
		classIndex, natIndex, err := r.readU2Pair()
		if err != nil {
			return nil, err
		}
		return &ConstantInterfaceMethodrefInfo{ClassIndex: classIndex, NameAndTypeIndex: natIndex}, nil

	case ConstantNameAndType:
		nameIndex, descriptorIndex, err := r.readU2Pair()
		if err != nil {
			return nil, err
		}
		return &ConstantNameAndTypeInfo{NameIndex: nameIndex, DescriptorIndex: descriptorIndex}, nil

	case ConstantMethodHandle:
		kind, err := r.readU1()
		if err != nil {
			return nil, err
		}
		referenceIndex, err := r.readU2()
		if err != nil {
			return nil, err
		}
		return &ConstantMethodHandleInfo{
			ReferenceKind:  MethodHandleKind(kind),
			ReferenceIndex: referenceIndex,
		}, nil

	case ConstantMethodType:
		descriptorIndex, err := r.readU2()
		if err != nil {
			return nil, err
		}
		return &ConstantMethodTypeInfo{DescriptorIndex: descriptorIndex}, nil

	case ConstantDynamic:
		bsmIndex, natIndex, err := r.readU2Pair()
		if err != nil {
			return nil, err
		}
		return &ConstantDynamicInfo{BootstrapMethodAttrIndex: bsmIndex, NameAndTypeIndex: natIndex}, nil

	case ConstantInvokeDynamic:
		bsmIndex, natIndex, err := r.readU2Pair()
		if err != nil {
			return nil, err
		}
		return &ConstantInvokeDynamicInfo{BootstrapMethodAttrIndex: bsmIndex, NameAndTypeIndex: natIndex}, nil

	case ConstantModule:
		nameIndex, err := r.readU2()
		if err != nil {
			return nil, err
		}
		return &ConstantModuleInfo{NameIndex: nameIndex}, nil

	case ConstantPackage:
		nameIndex, err := r.readU2()
		if err != nil {
			return nil, err
		}
		return &ConstantPackageInfo{NameIndex: nameIndex}, nil
	}
	return nil, &FormatError{Kind: UnknownTag, Offset: at}
}
