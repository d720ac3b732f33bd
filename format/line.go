package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/TheDevMinerTV/oxidized-java/classfile"
)

// LineEncoder writes a javap-like text dump. Methods with debug info are
// followed by "line N: pc" rows.
type LineEncoder struct {
	w     io.Writer
	class *classfile.ClassFile
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(cf *classfile.ClassFile) error {
	e.class = cf
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	cf := e.class
	cp := cf.ConstantPool
	h := cf.Header()

	fmt.Fprintf(&sb, "%s %s\n", classKind(cf), orIndex(cf.ClassName(), cf.ThisClass))
	fmt.Fprintf(&sb, "  minor version: %d\n", h.MinorVersion)
	fmt.Fprintf(&sb, "  major version: %d (Java %s)\n", h.MajorVersion, h.JavaVersion())
	fmt.Fprintf(&sb, "  flags: %s\n", cf.AccessFlags.Describe(cf.AccessFlags.ClassNames()))
	fmt.Fprintf(&sb, "  this_class: #%d%s\n", cf.ThisClass, comment(cf.ClassName()))
	fmt.Fprintf(&sb, "  super_class: #%d%s\n", cf.SuperClass, comment(cf.SuperClassName()))
	fmt.Fprintf(&sb, "  interfaces: %d, fields: %d, methods: %d, attributes: %d\n",
		len(cf.Interfaces), len(cf.Fields), len(cf.Methods), len(cf.Attributes))
	if src := cf.SourceFileName(); src != "" {
		fmt.Fprintf(&sb, "  source file: %s\n", src)
	}

	WritePool(&sb, cp)

	for i, idx := range cf.Interfaces {
		fmt.Fprintf(&sb, "interface %d: #%d%s\n", i, idx, comment(cp.GetClassName(idx)))
	}
	for i := range cf.Fields {
		f := &cf.Fields[i]
		fmt.Fprintf(&sb, "field %s %s %s%s\n",
			f.Name(cp), f.Descriptor(cp), f.AccessFlags.Describe(f.AccessFlags.FieldNames()),
			comment(fieldDecl(f.Name(cp), f.Descriptor(cp))))
	}
	for i := range cf.Methods {
		m := &cf.Methods[i]
		fmt.Fprintf(&sb, "method %s%s %s", m.Name(cp), m.Descriptor(cp), m.AccessFlags.Describe(m.AccessFlags.MethodNames()))
		code, lines, err := methodCode(m, cp)
		if err != nil {
			return nil, err
		}
		if n := argsSize(m, cp); n >= 0 {
			fmt.Fprintf(&sb, " args=%d", n)
		}
		if code != nil {
			fmt.Fprintf(&sb, " stack=%d locals=%d code=%d", code.MaxStack, code.MaxLocals, len(code.Code))
		}
		sb.WriteString(comment(methodDecl(m.Name(cp), m.Descriptor(cp))))
		sb.WriteString("\n")
		for _, l := range lines {
			fmt.Fprintf(&sb, "  line %d: %d\n", l.LineNumber, l.StartPC)
		}
	}
	inner, err := innerClasses(cf)
	if err != nil {
		return nil, err
	}
	for _, c := range inner {
		fmt.Fprintf(&sb, "inner class %s %s // %s\n",
			orIndex(cp.GetClassName(c.InnerClassInfo), c.InnerClassInfo),
			c.AccessFlags.Describe(c.AccessFlags.InnerClassNames()), innerComment(cp, c))
	}
	for _, a := range cf.Attributes {
		fmt.Fprintf(&sb, "attribute %s length=%d\n", orIndex(a.Name(cp), a.NameIndex), len(a.Info))
	}
	return []byte(sb.String()), nil
}

// WritePool writes the constant pool section of the dump: one line per
// logical entry, unusable slots skipped.
func WritePool(w io.Writer, cp classfile.ConstantPool) {
	fmt.Fprintf(w, "Constant pool (count %d):\n", cp.Count())
	for index, e := range cp.All() {
		v := describeConstant(cp, index, e)
		arg := v.Value
		if len(v.Refs) > 0 {
			arg = strings.TrimSpace(refsString(v.Refs) + " " + v.Value)
		}
		line := fmt.Sprintf("  %6s = %-18s %-14s%s", fmt.Sprintf("#%d", index), v.Tag, arg, comment(v.Comment))
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func comment(s string) string {
	if s == "" {
		return ""
	}
	return " // " + s
}

func orIndex(name string, index uint16) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("#%d", index)
}
