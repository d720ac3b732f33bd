package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/TheDevMinerTV/oxidized-java/classfile"
)

// ref is one named index field of a constant, in layout order.
type ref struct {
	Name  string
	Index uint16
}

// constantView is the encoder-neutral description of one pool entry.
type constantView struct {
	Index   uint16
	Tag     classfile.ConstantTag
	Value   string
	Refs    []ref
	Comment string
}

func describeConstant(cp classfile.ConstantPool, index uint16, e classfile.ConstantPoolEntry) constantView {
	v := constantView{Index: index, Tag: e.Tag()}
	switch c := e.(type) {
	case *classfile.ConstantUtf8Info:
		v.Value = quote(c.String())
	case *classfile.ConstantIntegerInfo:
		v.Value = strconv.FormatInt(int64(c.Value), 10)
	case *classfile.ConstantFloatInfo:
		v.Value = strconv.FormatFloat(float64(c.Value), 'g', -1, 32) + "f"
	case *classfile.ConstantLongInfo:
		v.Value = strconv.FormatInt(c.Value, 10) + "l"
	case *classfile.ConstantDoubleInfo:
		v.Value = strconv.FormatFloat(c.Value, 'g', -1, 64) + "d"
	case *classfile.ConstantClassInfo:
		v.Refs = []ref{{"name_index", c.NameIndex}}
		v.Comment = cp.GetUtf8(c.NameIndex)
	case *classfile.ConstantStringInfo:
		v.Refs = []ref{{"string_index", c.StringIndex}}
		v.Comment = quote(cp.GetUtf8(c.StringIndex))
	case *classfile.ConstantFieldrefInfo:
		v.Refs = memberRefs(c.ClassIndex, c.NameAndTypeIndex)
		v.Comment = memberComment(cp.GetFieldref(index))
	case *classfile.ConstantMethodrefInfo:
		v.Refs = memberRefs(c.ClassIndex, c.NameAndTypeIndex)
		v.Comment = memberComment(cp.GetMethodref(index))
	case *classfile.ConstantInterfaceMethodrefInfo:
		v.Refs = memberRefs(c.ClassIndex, c.NameAndTypeIndex)
		v.Comment = memberComment(cp.GetInterfaceMethodref(index))
	case *classfile.ConstantNameAndTypeInfo:
		v.Refs = []ref{{"name_index", c.NameIndex}, {"descriptor_index", c.DescriptorIndex}}
		v.Comment = natComment(cp.GetNameAndType(index))
	case *classfile.ConstantMethodHandleInfo:
		v.Value = c.ReferenceKind.String()
		v.Refs = []ref{{"reference_index", c.ReferenceIndex}}
	case *classfile.ConstantMethodTypeInfo:
		v.Refs = []ref{{"descriptor_index", c.DescriptorIndex}}
		v.Comment = cp.GetMethodType(index)
	case *classfile.ConstantDynamicInfo:
		v.Refs = dynamicRefs(c.BootstrapMethodAttrIndex, c.NameAndTypeIndex)
		v.Comment = natComment(cp.GetNameAndType(c.NameAndTypeIndex))
	case *classfile.ConstantInvokeDynamicInfo:
		v.Refs = dynamicRefs(c.BootstrapMethodAttrIndex, c.NameAndTypeIndex)
		v.Comment = natComment(cp.GetNameAndType(c.NameAndTypeIndex))
	case *classfile.ConstantModuleInfo:
		v.Refs = []ref{{"name_index", c.NameIndex}}
		v.Comment = cp.GetModuleName(index)
	case *classfile.ConstantPackageInfo:
		v.Refs = []ref{{"name_index", c.NameIndex}}
		v.Comment = cp.GetPackageName(index)
	}
	return v
}

func memberRefs(classIndex, natIndex uint16) []ref {
	return []ref{{"class_index", classIndex}, {"name_and_type_index", natIndex}}
}

func dynamicRefs(bsmIndex, natIndex uint16) []ref {
	return []ref{{"bootstrap_method_attr_index", bsmIndex}, {"name_and_type_index", natIndex}}
}

func memberComment(className, name, descriptor string) string {
	if className == "" && name == "" {
		return ""
	}
	return className + "." + natComment(name, descriptor)
}

func natComment(name, descriptor string) string {
	if name == "" && descriptor == "" {
		return ""
	}
	return name + ":" + descriptor
}

// quote escapes control characters without adding surrounding quotes.
func quote(s string) string {
	q := strconv.Quote(s)
	return q[1 : len(q)-1]
}

func refsString(refs []ref) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = "#" + strconv.Itoa(int(r.Index))
	}
	return strings.Join(parts, ":")
}

// fieldDecl renders a field as Java source, e.g. "int ANSWER". It is
// empty when the descriptor does not parse.
func fieldDecl(name, descriptor string) string {
	ft, err := classfile.ParseFieldDescriptor(descriptor)
	if err != nil {
		return ""
	}
	return ft.String() + " " + name
}

func methodDecl(name, descriptor string) string {
	md, err := classfile.ParseMethodDescriptor(descriptor)
	if err != nil {
		return ""
	}
	params := make([]string, len(md.Parameters))
	for i, p := range md.Parameters {
		params[i] = p.String()
	}
	ret := "void"
	if md.Return != nil {
		ret = md.Return.String()
	}
	return ret + " " + name + "(" + strings.Join(params, ", ") + ")"
}

// argsSize is the local variable slots a method's arguments take,
// including the receiver, or -1 for a malformed descriptor.
func argsSize(m *classfile.MethodInfo, cp classfile.ConstantPool) int {
	md, err := classfile.ParseMethodDescriptor(m.Descriptor(cp))
	if err != nil {
		return -1
	}
	n := md.ArgSlots()
	if !m.IsStatic() {
		n++
	}
	return n
}

// methodCode decodes a method's Code attribute and its line numbers.
// Code is nil for abstract and native methods.
func methodCode(m *classfile.MethodInfo, cp classfile.ConstantPool) (*classfile.CodeAttribute, []classfile.LineNumberEntry, error) {
	code, err := m.GetCodeAttribute(cp)
	if err != nil {
		return nil, nil, fmt.Errorf("method %s: %w", m.Name(cp), err)
	}
	if code == nil {
		return nil, nil, nil
	}
	lines, err := code.LineNumbers(cp)
	if err != nil {
		return nil, nil, fmt.Errorf("method %s: %w", m.Name(cp), err)
	}
	return code, lines, nil
}

func innerClasses(cf *classfile.ClassFile) ([]classfile.InnerClass, error) {
	classes, err := cf.InnerClasses()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", classfile.AttrInnerClasses, err)
	}
	return classes, nil
}

// innerComment names an inner class relative to its outer class, e.g.
// "Entry of java/util/Map".
func innerComment(cp classfile.ConstantPool, c classfile.InnerClass) string {
	name := cp.GetUtf8(c.InnerName)
	if name == "" {
		return "anonymous"
	}
	if outer := cp.GetClassName(c.OuterClassInfo); outer != "" {
		return name + " of " + outer
	}
	return name
}

func classKind(cf *classfile.ClassFile) string {
	switch {
	case cf.IsAnnotation():
		return "annotation"
	case cf.IsEnum():
		return "enum"
	case cf.IsInterface():
		return "interface"
	case cf.IsModule():
		return "module"
	default:
		return "class"
	}
}
