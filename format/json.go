package format

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/TheDevMinerTV/oxidized-java/classfile"
)

type JSONEncoder struct {
	w     io.Writer
	class *classfile.ClassFile
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(cf *classfile.ClassFile) error {
	e.class = cf
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data, err := e.buildClassData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

type jsonClassFile struct {
	Name              string          `json:"name,omitempty"`
	Kind              string          `json:"kind"`
	Version           jsonVersion     `json:"version"`
	ConstantPoolCount uint16          `json:"constantPoolCount"`
	ConstantPool      []jsonConstant  `json:"constantPool"`
	AccessFlags       jsonFlags       `json:"accessFlags"`
	ThisClass         uint16          `json:"thisClass"`
	SuperClass        uint16          `json:"superClass"`
	SuperClassName    string          `json:"superClassName,omitempty"`
	Interfaces        []string        `json:"interfaces,omitempty"`
	SourceFile        string          `json:"sourceFile,omitempty"`
	Fields            []jsonMember    `json:"fields,omitempty"`
	Methods           []jsonMember    `json:"methods,omitempty"`
	InnerClasses      []jsonInner     `json:"innerClasses,omitempty"`
	Attributes        []jsonAttribute `json:"attributes,omitempty"`
}

type jsonVersion struct {
	Major uint16 `json:"major"`
	Minor uint16 `json:"minor"`
	Java  string `json:"java"`
}

type jsonConstant struct {
	Index    uint16            `json:"index"`
	Tag      uint8             `json:"tag"`
	Kind     string            `json:"kind"`
	Value    string            `json:"value,omitempty"`
	Refs     map[string]uint16 `json:"refs,omitempty"`
	Resolved string            `json:"resolved,omitempty"`
}

type jsonFlags struct {
	Value uint16   `json:"value"`
	Names []string `json:"names,omitempty"`
}

type jsonMember struct {
	Name        string          `json:"name"`
	Descriptor  string          `json:"descriptor"`
	Flags       jsonFlags       `json:"accessFlags"`
	Declaration string          `json:"declaration,omitempty"`
	Code        *jsonCode       `json:"code,omitempty"`
	Attributes  []jsonAttribute `json:"attributes,omitempty"`
}

type jsonCode struct {
	MaxStack          uint16           `json:"maxStack"`
	MaxLocals         uint16           `json:"maxLocals"`
	Length            int              `json:"length"`
	ExceptionHandlers int              `json:"exceptionHandlers"`
	LineNumbers       []jsonLineNumber `json:"lineNumbers,omitempty"`
}

type jsonLineNumber struct {
	Line uint16 `json:"line"`
	PC   uint16 `json:"pc"`
}

type jsonInner struct {
	Name    string    `json:"name"`
	Outer   string    `json:"outer,omitempty"`
	Simple  string    `json:"simpleName,omitempty"`
	Flags   jsonFlags `json:"accessFlags"`
	Comment string    `json:"comment"`
}

type jsonAttribute struct {
	Name   string `json:"name"`
	Length int    `json:"length"`
}

func (e *JSONEncoder) buildClassData() (jsonClassFile, error) {
	cf := e.class
	cp := cf.ConstantPool
	h := cf.Header()

	data := jsonClassFile{
		Name: cf.ClassName(),
		Kind: classKind(cf),
		Version: jsonVersion{
			Major: h.MajorVersion,
			Minor: h.MinorVersion,
			Java:  h.JavaVersion(),
		},
		ConstantPoolCount: h.ConstantPoolCount,
		ConstantPool:      buildPool(cp),
		AccessFlags:       jsonFlags{uint16(cf.AccessFlags), cf.AccessFlags.ClassNames()},
		ThisClass:         cf.ThisClass,
		SuperClass:        cf.SuperClass,
		SuperClassName:    cf.SuperClassName(),
		SourceFile:        cf.SourceFileName(),
		Attributes:        buildAttributes(cp, cf.Attributes),
	}
	if len(cf.Interfaces) > 0 {
		data.Interfaces = cf.InterfaceNames()
	}
	for i := range cf.Fields {
		f := &cf.Fields[i]
		data.Fields = append(data.Fields, jsonMember{
			Name:        f.Name(cp),
			Descriptor:  f.Descriptor(cp),
			Flags:       jsonFlags{uint16(f.AccessFlags), f.AccessFlags.FieldNames()},
			Declaration: fieldDecl(f.Name(cp), f.Descriptor(cp)),
			Attributes:  buildAttributes(cp, f.Attributes),
		})
	}
	for i := range cf.Methods {
		m := &cf.Methods[i]
		code, lines, err := methodCode(m, cp)
		if err != nil {
			return jsonClassFile{}, err
		}
		data.Methods = append(data.Methods, jsonMember{
			Name:        m.Name(cp),
			Descriptor:  m.Descriptor(cp),
			Flags:       jsonFlags{uint16(m.AccessFlags), m.AccessFlags.MethodNames()},
			Declaration: methodDecl(m.Name(cp), m.Descriptor(cp)),
			Code:        buildCode(code, lines),
			Attributes:  buildAttributes(cp, m.Attributes),
		})
	}
	inner, err := innerClasses(cf)
	if err != nil {
		return jsonClassFile{}, err
	}
	for _, c := range inner {
		data.InnerClasses = append(data.InnerClasses, jsonInner{
			Name:    cp.GetClassName(c.InnerClassInfo),
			Outer:   cp.GetClassName(c.OuterClassInfo),
			Simple:  cp.GetUtf8(c.InnerName),
			Flags:   jsonFlags{uint16(c.AccessFlags), c.AccessFlags.InnerClassNames()},
			Comment: innerComment(cp, c),
		})
	}
	return data, nil
}

func buildCode(code *classfile.CodeAttribute, lines []classfile.LineNumberEntry) *jsonCode {
	if code == nil {
		return nil
	}
	out := &jsonCode{
		MaxStack:          code.MaxStack,
		MaxLocals:         code.MaxLocals,
		Length:            len(code.Code),
		ExceptionHandlers: len(code.ExceptionTable),
	}
	for _, l := range lines {
		out.LineNumbers = append(out.LineNumbers, jsonLineNumber{Line: l.LineNumber, PC: l.StartPC})
	}
	return out
}

func buildPool(cp classfile.ConstantPool) []jsonConstant {
	pool := make([]jsonConstant, 0, len(cp))
	for index, e := range cp.All() {
		v := describeConstant(cp, index, e)
		c := jsonConstant{
			Index:    v.Index,
			Tag:      uint8(v.Tag),
			Kind:     v.Tag.String(),
			Value:    v.Value,
			Resolved: v.Comment,
		}
		if s, ok := e.(*classfile.ConstantUtf8Info); ok {
			c.Value = s.String()
		}
		if len(v.Refs) > 0 {
			c.Refs = make(map[string]uint16, len(v.Refs))
			for _, r := range v.Refs {
				c.Refs[r.Name] = r.Index
			}
		}
		pool = append(pool, c)
	}
	return pool
}

func buildAttributes(cp classfile.ConstantPool, attrs []classfile.AttributeInfo) []jsonAttribute {
	var out []jsonAttribute
	for i := range attrs {
		out = append(out, jsonAttribute{Name: attrs[i].Name(cp), Length: len(attrs[i].Info)})
	}
	return out
}
