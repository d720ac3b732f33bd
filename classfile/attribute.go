package classfile

import (
	"bytes"
	"fmt"
)

const (
	AttrCode             = "Code"
	AttrConstantValue    = "ConstantValue"
	AttrSourceFile       = "SourceFile"
	AttrSignature        = "Signature"
	AttrExceptions       = "Exceptions"
	AttrBootstrapMethods = "BootstrapMethods"
	AttrLineNumberTable  = "LineNumberTable"
	AttrInnerClasses     = "InnerClasses"
)

// AttributeInfo keeps an attribute body undecoded. The typed accessors
// decode it on demand; offsets in their errors are relative to Info.
type AttributeInfo struct {
	NameIndex uint16
	Info      []byte
}

func (a *AttributeInfo) Name(cp ConstantPool) string {
	return cp.GetUtf8(a.NameIndex)
}

type CodeAttribute struct {
	MaxStack       uint16
	MaxLocals      uint16
	Code           []byte
	ExceptionTable []ExceptionTableEntry
	Attributes     []AttributeInfo
}

type ExceptionTableEntry struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16
}

type BootstrapMethod struct {
	MethodRef uint16
	Arguments []uint16
}

type LineNumberEntry struct {
	StartPC    uint16
	LineNumber uint16
}

// InnerClass is one InnerClasses entry. OuterClassInfo and InnerName are
// zero for local and anonymous classes.
type InnerClass struct {
	InnerClassInfo uint16
	OuterClassInfo uint16
	InnerName      uint16
	AccessFlags    AccessFlags
}

func findAttribute(cp ConstantPool, attrs []AttributeInfo, name string) *AttributeInfo {
	for i := range attrs {
		if attrs[i].Name(cp) == name {
			return &attrs[i]
		}
	}
	return nil
}

// decode runs fn over the attribute body and requires it to consume
// the body exactly.
func (a *AttributeInfo) decode(fn func(r *reader) error) error {
	r := newReader(bytes.NewReader(a.Info), int64(len(a.Info)))
	if err := fn(r); err != nil {
		return err
	}
	return r.expectEOF()
}

func (a *AttributeInfo) singleIndex() (uint16, error) {
	var index uint16
	err := a.decode(func(r *reader) (err error) {
		index, err = r.readU2()
		return err
	})
	return index, err
}

// ConstantValue returns the constantvalue_index of a ConstantValue attribute.
func (a *AttributeInfo) ConstantValue() (uint16, error) { return a.singleIndex() }

// SourceFile returns the sourcefile_index of a SourceFile attribute.
func (a *AttributeInfo) SourceFile() (uint16, error) { return a.singleIndex() }

// Signature returns the signature_index of a Signature attribute.
func (a *AttributeInfo) Signature() (uint16, error) { return a.singleIndex() }

func (a *AttributeInfo) Exceptions() ([]uint16, error) {
	var list []uint16
	err := a.decode(func(r *reader) (err error) {
		list, err = readU2List(r)
		return err
	})
	return list, err
}

func (a *AttributeInfo) Code() (*CodeAttribute, error) {
	code := &CodeAttribute{}
	err := a.decode(func(r *reader) error {
		var err error
		if code.MaxStack, code.MaxLocals, err = r.readU2Pair(); err != nil {
			return err
		}
		length, err := r.readU4()
		if err != nil {
			return err
		}
		if code.Code, err = r.readBytes(int64(length)); err != nil {
			return err
		}
		count, err := r.readU2()
		if err != nil {
			return err
		}
		code.ExceptionTable = make([]ExceptionTableEntry, count)
		for i := range code.ExceptionTable {
			e := &code.ExceptionTable[i]
			if e.StartPC, e.EndPC, err = r.readU2Pair(); err != nil {
				return err
			}
			if e.HandlerPC, e.CatchType, err = r.readU2Pair(); err != nil {
				return err
			}
		}
		code.Attributes, err = readAttributes(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return code, nil
}

func (a *AttributeInfo) BootstrapMethods() ([]BootstrapMethod, error) {
	var methods []BootstrapMethod
	err := a.decode(func(r *reader) error {
		count, err := r.readU2()
		if err != nil {
			return err
		}
		methods = make([]BootstrapMethod, count)
		for i := range methods {
			if methods[i].MethodRef, err = r.readU2(); err != nil {
				return err
			}
			if methods[i].Arguments, err = readU2List(r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return methods, nil
}

func (a *AttributeInfo) LineNumberTable() ([]LineNumberEntry, error) {
	var lines []LineNumberEntry
	err := a.decode(func(r *reader) error {
		count, err := r.readU2()
		if err != nil {
			return err
		}
		lines = make([]LineNumberEntry, count)
		for i := range lines {
			if lines[i].StartPC, lines[i].LineNumber, err = r.readU2Pair(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (a *AttributeInfo) InnerClasses() ([]InnerClass, error) {
	var classes []InnerClass
	err := a.decode(func(r *reader) error {
		count, err := r.readU2()
		if err != nil {
			return err
		}
		classes = make([]InnerClass, count)
		for i := range classes {
			c := &classes[i]
			if c.InnerClassInfo, c.OuterClassInfo, err = r.readU2Pair(); err != nil {
				return err
			}
			var flags uint16
			if c.InnerName, flags, err = r.readU2Pair(); err != nil {
				return err
			}
			c.AccessFlags = AccessFlags(flags)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return classes, nil
}

// LineNumbers concatenates every LineNumberTable attached to the code.
// A method without debug info has none.
func (c *CodeAttribute) LineNumbers(cp ConstantPool) ([]LineNumberEntry, error) {
	var lines []LineNumberEntry
	for i := range c.Attributes {
		if c.Attributes[i].Name(cp) != AttrLineNumberTable {
			continue
		}
		table, err := c.Attributes[i].LineNumberTable()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", AttrLineNumberTable, err)
		}
		lines = append(lines, table...)
	}
	return lines, nil
}
