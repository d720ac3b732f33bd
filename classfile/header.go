package classfile

import "fmt"

// Header is the fixed ten byte prologue of a class file.
type Header struct {
	Magic             uint32
	MinorVersion      uint16
	MajorVersion      uint16
	ConstantPoolCount uint16
}

// JavaVersion names the platform release that introduced MajorVersion.
func (h Header) JavaVersion() string {
	switch {
	case h.MajorVersion < 45:
		return "unknown"
	case h.MajorVersion <= 48:
		return fmt.Sprintf("1.%d", h.MajorVersion-44)
	default:
		return fmt.Sprintf("%d", h.MajorVersion-44)
	}
}

// ReadHeader reads and validates the prologue. On a magic mismatch nothing
// past the first four bytes is consumed.
func (d *Decoder) ReadHeader() (Header, error) {
	magic, err := d.r.readU4()
	if err != nil {
		return Header{}, err
	}
	if magic != Magic {
		return Header{}, &FormatError{Kind: InvalidMagic, Offset: 0, Magic: magic}
	}

	h := Header{Magic: magic}
	if h.MinorVersion, err = d.r.readU2(); err != nil {
		return Header{}, err
	}
	if h.MajorVersion, err = d.r.readU2(); err != nil {
		return Header{}, err
	}
	if h.ConstantPoolCount, err = d.r.readU2(); err != nil {
		return Header{}, err
	}
	return h, nil
}
