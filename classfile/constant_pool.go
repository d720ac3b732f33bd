package classfile

import (
	"iter"
	"math"
)

// ConstantPoolEntry is one of the *Constant...Info types below.
type ConstantPoolEntry interface {
	Tag() ConstantTag
}

// ConstantUtf8Info holds the raw modified UTF-8 bytes of the entry.
type ConstantUtf8Info struct {
	Bytes []byte
}

func (c *ConstantUtf8Info) Tag() ConstantTag { return ConstantUtf8 }

// String decodes the modified UTF-8 bytes.
func (c *ConstantUtf8Info) String() string { return DecodeModifiedUTF8(c.Bytes) }

type ConstantIntegerInfo struct {
	Value int32
}

func (c *ConstantIntegerInfo) Tag() ConstantTag { return ConstantInteger }

type ConstantFloatInfo struct {
	Value float32
}

func (c *ConstantFloatInfo) Tag() ConstantTag { return ConstantFloat }

type ConstantLongInfo struct {
	Value int64
}

func (c *ConstantLongInfo) Tag() ConstantTag { return ConstantLong }

type ConstantDoubleInfo struct {
	Value float64
}

func (c *ConstantDoubleInfo) Tag() ConstantTag { return ConstantDouble }

type ConstantClassInfo struct {
	NameIndex uint16
}

func (c *ConstantClassInfo) Tag() ConstantTag { return ConstantClass }

type ConstantStringInfo struct {
	StringIndex uint16
}

func (c *ConstantStringInfo) Tag() ConstantTag { return ConstantString }

type ConstantFieldrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantFieldrefInfo) Tag() ConstantTag { return ConstantFieldref }

type ConstantMethodrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantMethodrefInfo) Tag() ConstantTag { return ConstantMethodref }

type ConstantInterfaceMethodrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantInterfaceMethodrefInfo) Tag() ConstantTag { return ConstantInterfaceMethodref }

type ConstantNameAndTypeInfo struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (c *ConstantNameAndTypeInfo) Tag() ConstantTag { return ConstantNameAndType }

type ConstantMethodHandleInfo struct {
	ReferenceKind  MethodHandleKind
	ReferenceIndex uint16
}

func (c *ConstantMethodHandleInfo) Tag() ConstantTag { return ConstantMethodHandle }

type ConstantMethodTypeInfo struct {
	DescriptorIndex uint16
}

func (c *ConstantMethodTypeInfo) Tag() ConstantTag { return ConstantMethodType }

type ConstantDynamicInfo struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (c *ConstantDynamicInfo) Tag() ConstantTag { return ConstantDynamic }

type ConstantInvokeDynamicInfo struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (c *ConstantInvokeDynamicInfo) Tag() ConstantTag { return ConstantInvokeDynamic }

type ConstantModuleInfo struct {
	NameIndex uint16
}

func (c *ConstantModuleInfo) Tag() ConstantTag { return ConstantModule }

type ConstantPackageInfo struct {
	NameIndex uint16
}

func (c *ConstantPackageInfo) Tag() ConstantTag { return ConstantPackage }

// ConstantPool is the slot table of a class file: element i holds pool
// index i+1, so its length is constant_pool_count-1. The slot following
// a Long or Double is nil and unusable.
type ConstantPool []ConstantPoolEntry

// MaxPoolSlots is the most slots a pool can hold, since
// constant_pool_count is a u2 counting one past the last slot.
const MaxPoolSlots = math.MaxUint16 - 1

// Count is the constant_pool_count this pool encodes to. It is only
// meaningful when len(cp) <= MaxPoolSlots.
func (cp ConstantPool) Count() uint16 {
	return uint16(len(cp) + 1)
}

// Get returns the entry at the 1-based pool index.
func (cp ConstantPool) Get(index uint16) (ConstantPoolEntry, bool) {
	if index == 0 || int(index) > len(cp) {
		return nil, false
	}
	e := cp[index-1]
	return e, e != nil
}

// IsUnusable reports whether index is the second slot of a Long or Double.
func (cp ConstantPool) IsUnusable(index uint16) bool {
	return index != 0 && int(index) <= len(cp) && cp[index-1] == nil
}

// All yields the pool index and entry of every logical entry in order.
func (cp ConstantPool) All() iter.Seq2[uint16, ConstantPoolEntry] {
	return func(yield func(uint16, ConstantPoolEntry) bool) {
		for i, e := range cp {
			if e == nil {
				continue
			}
			if !yield(uint16(i+1), e) {
				return
			}
		}
	}
}

// Entries returns the logical entries in order, without unusable slots.
func (cp ConstantPool) Entries() []ConstantPoolEntry {
	entries := make([]ConstantPoolEntry, 0, len(cp))
	for _, e := range cp.All() {
		entries = append(entries, e)
	}
	return entries
}

func lookup[T ConstantPoolEntry](cp ConstantPool, index uint16) (T, bool) {
	var zero T
	e, ok := cp.Get(index)
	if !ok {
		return zero, false
	}
	t, ok := e.(T)
	return t, ok
}

func (cp ConstantPool) GetUtf8(index uint16) string {
	if entry, ok := lookup[*ConstantUtf8Info](cp, index); ok {
		return entry.String()
	}
	return ""
}

func (cp ConstantPool) GetClassName(index uint16) string {
	if entry, ok := lookup[*ConstantClassInfo](cp, index); ok {
		return cp.GetUtf8(entry.NameIndex)
	}
	return ""
}

func (cp ConstantPool) GetNameAndType(index uint16) (name, descriptor string) {
	if entry, ok := lookup[*ConstantNameAndTypeInfo](cp, index); ok {
		return cp.GetUtf8(entry.NameIndex), cp.GetUtf8(entry.DescriptorIndex)
	}
	return "", ""
}

func (cp ConstantPool) GetString(index uint16) string {
	if entry, ok := lookup[*ConstantStringInfo](cp, index); ok {
		return cp.GetUtf8(entry.StringIndex)
	}
	return ""
}

func (cp ConstantPool) GetModuleName(index uint16) string {
	if entry, ok := lookup[*ConstantModuleInfo](cp, index); ok {
		return cp.GetUtf8(entry.NameIndex)
	}
	return ""
}

func (cp ConstantPool) GetPackageName(index uint16) string {
	if entry, ok := lookup[*ConstantPackageInfo](cp, index); ok {
		return cp.GetUtf8(entry.NameIndex)
	}
	return ""
}

func (cp ConstantPool) GetInteger(index uint16) (int32, bool) {
	if entry, ok := lookup[*ConstantIntegerInfo](cp, index); ok {
		return entry.Value, true
	}
	return 0, false
}

func (cp ConstantPool) GetLong(index uint16) (int64, bool) {
	if entry, ok := lookup[*ConstantLongInfo](cp, index); ok {
		return entry.Value, true
	}
	return 0, false
}

func (cp ConstantPool) GetFloat(index uint16) (float32, bool) {
	if entry, ok := lookup[*ConstantFloatInfo](cp, index); ok {
		return entry.Value, true
	}
	return 0, false
}

func (cp ConstantPool) GetDouble(index uint16) (float64, bool) {
	if entry, ok := lookup[*ConstantDoubleInfo](cp, index); ok {
		return entry.Value, true
	}
	return 0, false
}

func (cp ConstantPool) member(classIndex, natIndex uint16) (className, name, descriptor string) {
	className = cp.GetClassName(classIndex)
	name, descriptor = cp.GetNameAndType(natIndex)
	return
}

func (cp ConstantPool) GetFieldref(index uint16) (className, name, descriptor string) {
	if entry, ok := lookup[*ConstantFieldrefInfo](cp, index); ok {
		return cp.member(entry.ClassIndex, entry.NameAndTypeIndex)
	}
	return "", "", ""
}

func (cp ConstantPool) GetMethodref(index uint16) (className, name, descriptor string) {
	if entry, ok := lookup[*ConstantMethodrefInfo](cp, index); ok {
		return cp.member(entry.ClassIndex, entry.NameAndTypeIndex)
	}
	return "", "", ""
}

func (cp ConstantPool) GetInterfaceMethodref(index uint16) (className, name, descriptor string) {
	if entry, ok := lookup[*ConstantInterfaceMethodrefInfo](cp, index); ok {
		return cp.member(entry.ClassIndex, entry.NameAndTypeIndex)
	}
	return "", "", ""
}

func (cp ConstantPool) GetMethodHandle(index uint16) *ConstantMethodHandleInfo {
	entry, _ := lookup[*ConstantMethodHandleInfo](cp, index)
	return entry
}

func (cp ConstantPool) GetMethodType(index uint16) string {
	if entry, ok := lookup[*ConstantMethodTypeInfo](cp, index); ok {
		return cp.GetUtf8(entry.DescriptorIndex)
	}
	return ""
}

func (cp ConstantPool) GetDynamic(index uint16) *ConstantDynamicInfo {
	entry, _ := lookup[*ConstantDynamicInfo](cp, index)
	return entry
}

func (cp ConstantPool) GetInvokeDynamic(index uint16) *ConstantInvokeDynamicInfo {
	entry, _ := lookup[*ConstantInvokeDynamicInfo](cp, index)
	return entry
}
