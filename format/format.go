package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/TheDevMinerTV/oxidized-java/classfile"
)

// Encoder renders a decoded class file. Both formats decode the same
// attributes strictly: Code with its LineNumberTable entries, and the
// class's InnerClasses. When one of those is malformed, Encode returns
// the decoding error and writes nothing. Other attributes are reported
// by name and length only, and an unreadable SourceFile is omitted.
type Encoder interface {
	encoding.TextMarshaler
	Encode(cf *classfile.ClassFile) error
}

// Names lists the formats accepted by New.
var Names = []string{"line", "json"}

// New returns the encoder registered under name, writing to w.
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "line":
		return NewLineEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s (expected line or json)", name)
}
