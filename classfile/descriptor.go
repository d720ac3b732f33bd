package classfile

import (
	"errors"
	"fmt"
	"strings"
)

var ErrBadDescriptor = errors.New("malformed descriptor")

var baseTypes = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
}

// FieldType is a parsed field descriptor. Base is one of the primitive
// descriptor characters, or 'L' with ClassName in internal form.
type FieldType struct {
	Base       byte
	ClassName  string
	Dimensions int
}

// String renders the type as Java source, e.g. "java.lang.String[][]".
func (ft FieldType) String() string {
	var sb strings.Builder
	if ft.Base == 'L' {
		sb.WriteString(InternalToSourceName(ft.ClassName))
	} else {
		sb.WriteString(baseTypes[ft.Base])
	}
	for range ft.Dimensions {
		sb.WriteString("[]")
	}
	return sb.String()
}

func (ft FieldType) IsArray() bool     { return ft.Dimensions > 0 }
func (ft FieldType) IsPrimitive() bool { return ft.Base != 'L' && ft.Dimensions == 0 }

// Slots is the number of local variable slots a value of this type takes.
func (ft FieldType) Slots() int {
	if ft.Dimensions == 0 && (ft.Base == 'J' || ft.Base == 'D') {
		return 2
	}
	return 1
}

// MethodDescriptor is a parsed method descriptor. Return is nil for void.
type MethodDescriptor struct {
	Parameters []FieldType
	Return     *FieldType
}

// String renders the descriptor as "(int, java.lang.String) void".
func (md MethodDescriptor) String() string {
	params := make([]string, len(md.Parameters))
	for i, p := range md.Parameters {
		params[i] = p.String()
	}
	ret := "void"
	if md.Return != nil {
		ret = md.Return.String()
	}
	return "(" + strings.Join(params, ", ") + ") " + ret
}

// ArgSlots is the number of local variable slots the parameters take,
// not counting the receiver of an instance method.
func (md MethodDescriptor) ArgSlots() int {
	n := 0
	for _, p := range md.Parameters {
		n += p.Slots()
	}
	return n
}

func ParseFieldDescriptor(desc string) (FieldType, error) {
	ft, n, err := parseFieldType(desc, 0)
	if err != nil {
		return FieldType{}, err
	}
	if n != len(desc) {
		return FieldType{}, fmt.Errorf("%w %q: trailing characters", ErrBadDescriptor, desc)
	}
	return ft, nil
}

func ParseMethodDescriptor(desc string) (MethodDescriptor, error) {
	if !strings.HasPrefix(desc, "(") {
		return MethodDescriptor{}, fmt.Errorf("%w %q: missing '('", ErrBadDescriptor, desc)
	}

	var md MethodDescriptor
	i := 1
	for i < len(desc) && desc[i] != ')' {
		ft, n, err := parseFieldType(desc, i)
		if err != nil {
			return MethodDescriptor{}, err
		}
		md.Parameters = append(md.Parameters, ft)
		i += n
	}
	if i >= len(desc) {
		return MethodDescriptor{}, fmt.Errorf("%w %q: missing ')'", ErrBadDescriptor, desc)
	}
	i++

	if desc[i:] == "V" {
		return md, nil
	}
	ret, err := ParseFieldDescriptor(desc[i:])
	if err != nil {
		return MethodDescriptor{}, fmt.Errorf("%w %q: bad return type", ErrBadDescriptor, desc)
	}
	md.Return = &ret
	return md, nil
}

// parseFieldType parses one field type starting at desc[start] and
// returns it with the number of characters consumed.
func parseFieldType(desc string, start int) (FieldType, int, error) {
	var ft FieldType
	i := start
	for i < len(desc) && desc[i] == '[' {
		ft.Dimensions++
		i++
	}
	if ft.Dimensions > 255 {
		return FieldType{}, 0, fmt.Errorf("%w %q: more than 255 array dimensions", ErrBadDescriptor, desc)
	}
	if i >= len(desc) {
		return FieldType{}, 0, fmt.Errorf("%w %q: unexpected end", ErrBadDescriptor, desc)
	}

	c := desc[i]
	if _, ok := baseTypes[c]; ok {
		ft.Base = c
		return ft, i - start + 1, nil
	}
	if c != 'L' {
		return FieldType{}, 0, fmt.Errorf("%w %q: unexpected %q at %d", ErrBadDescriptor, desc, c, i)
	}
	end := strings.IndexByte(desc[i:], ';')
	if end <= 1 {
		return FieldType{}, 0, fmt.Errorf("%w %q: unterminated class name at %d", ErrBadDescriptor, desc, i)
	}
	ft.Base = 'L'
	ft.ClassName = desc[i+1 : i+end]
	return ft, i - start + end + 1, nil
}

func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}
