package classfile

import (
	"encoding/binary"
	"io"
	"testing"
)

// poolBuilder appends entries and returns their pool index, leaving the
// unusable slot after Long and Double.
type poolBuilder struct {
	cp ConstantPool
}

func (b *poolBuilder) add(e ConstantPoolEntry) uint16 {
	b.cp = append(b.cp, e)
	index := uint16(len(b.cp))
	if e.Tag().Slots() == 2 {
		b.cp = append(b.cp, nil)
	}
	return index
}

func (b *poolBuilder) utf8(s string) uint16 {
	return b.add(&ConstantUtf8Info{Bytes: EncodeModifiedUTF8(s)})
}

func (b *poolBuilder) class(name string) uint16 {
	return b.add(&ConstantClassInfo{NameIndex: b.utf8(name)})
}

func (b *poolBuilder) nat(name, descriptor string) uint16 {
	return b.add(&ConstantNameAndTypeInfo{NameIndex: b.utf8(name), DescriptorIndex: b.utf8(descriptor)})
}

func codeInfo(maxStack, maxLocals uint16, code []byte) []byte {
	var buf []byte
	buf = binary.BigEndian.AppendUint16(buf, maxStack)
	buf = binary.BigEndian.AppendUint16(buf, maxLocals)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(code)))
	buf = append(buf, code...)
	buf = binary.BigEndian.AppendUint16(buf, 0)
	return binary.BigEndian.AppendUint16(buf, 0)
}

func u2s(vs ...uint16) []byte {
	return appendU2s(nil, vs...)
}

// sampleClass models:
//
//	public class com/example/Greeter implements java/lang/Runnable {
//	    public static final int ANSWER = 42;
//	    private String name;
//	    public <init>()V
//	    public run()V
//	    public greet(Ljava/lang/String;)Ljava/lang/String; throws java/io/IOException
//	}
func sampleClass(t *testing.T) *ClassFile {
	t.Helper()
	var b poolBuilder

	this := b.class("com/example/Greeter")
	super := b.class("java/lang/Object")
	runnable := b.class("java/lang/Runnable")
	ioException := b.class("java/io/IOException")
	answer := b.add(&ConstantIntegerInfo{Value: 42})
	b.add(&ConstantLongInfo{Value: -1 << 40})
	b.add(&ConstantDoubleInfo{Value: 2.5})
	b.add(&ConstantFloatInfo{Value: 1.25})
	b.add(&ConstantStringInfo{StringIndex: b.utf8("hello, world")})
	objectInit := b.add(&ConstantMethodrefInfo{ClassIndex: super, NameAndTypeIndex: b.nat("<init>", "()V")})
	b.add(&ConstantFieldrefInfo{ClassIndex: this, NameAndTypeIndex: b.nat("name", "Ljava/lang/String;")})
	b.add(&ConstantInterfaceMethodrefInfo{ClassIndex: runnable, NameAndTypeIndex: b.nat("run", "()V")})
	handle := b.add(&ConstantMethodHandleInfo{ReferenceKind: RefInvokeStatic, ReferenceIndex: objectInit})
	b.add(&ConstantMethodTypeInfo{DescriptorIndex: b.utf8("()Ljava/lang/Runnable;")})
	b.add(&ConstantInvokeDynamicInfo{BootstrapMethodAttrIndex: 0, NameAndTypeIndex: b.nat("run", "()Ljava/lang/Runnable;")})

	constantValue := b.utf8(AttrConstantValue)
	code := b.utf8(AttrCode)
	exceptions := b.utf8(AttrExceptions)
	sourceFile := b.utf8(AttrSourceFile)
	bootstrap := b.utf8(AttrBootstrapMethods)
	sourceName := b.utf8("Greeter.java")

	field := func(flags AccessFlags, name, desc string, attrs ...AttributeInfo) FieldInfo {
		return FieldInfo{AccessFlags: flags, NameIndex: b.utf8(name), DescriptorIndex: b.utf8(desc), Attributes: attrs}
	}
	method := func(flags AccessFlags, name, desc string, attrs ...AttributeInfo) MethodInfo {
		return MethodInfo{AccessFlags: flags, NameIndex: b.utf8(name), DescriptorIndex: b.utf8(desc), Attributes: attrs}
	}

	cf := &ClassFile{
		MinorVersion: 0,
		MajorVersion: 52,
		AccessFlags:  AccPublic | AccSuper,
		ThisClass:    this,
		SuperClass:   super,
		Interfaces:   []uint16{runnable},
		Fields: []FieldInfo{
			field(AccPublic|AccStatic|AccFinal, "ANSWER", "I", AttributeInfo{NameIndex: constantValue, Info: u2s(answer)}),
			field(AccPrivate, "name", "Ljava/lang/String;"),
		},
		Methods: []MethodInfo{
			method(AccPublic, "<init>", "()V",
				AttributeInfo{NameIndex: code, Info: codeInfo(1, 1, []byte{0x2A, 0xB7, 0x00, byte(objectInit), 0xB1})}),
			method(AccPublic, "run", "()V",
				AttributeInfo{NameIndex: code, Info: codeInfo(0, 1, []byte{0xB1})}),
			method(AccPublic|AccAbstract, "greet", "(Ljava/lang/String;)Ljava/lang/String;",
				AttributeInfo{NameIndex: exceptions, Info: u2s(1, ioException)}),
		},
		Attributes: []AttributeInfo{
			{NameIndex: sourceFile, Info: u2s(sourceName)},
			{NameIndex: bootstrap, Info: u2s(1, handle, 0)},
		},
	}
	cf.ConstantPool = b.cp
	return cf
}

func marshal(t *testing.T, cf *ClassFile) []byte {
	t.Helper()
	data, err := cf.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	return data
}

// header returns a class file prologue declaring count.
func header(count uint16) []byte {
	return AppendHeader(nil, Header{Magic: Magic, MajorVersion: 52, ConstantPoolCount: count})
}

// countingReader exposes only Read, so the decoder cannot learn its size
// or read it a byte at a time.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
