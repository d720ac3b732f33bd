package classfile

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a FormatError.
type ErrorKind uint8

const (
	InvalidMagic ErrorKind = iota + 1
	TruncatedInput
	UnknownTag
	SlotOverflow
	TrailingData
)

var (
	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrTruncatedInput = errors.New("truncated input")
	ErrUnknownTag     = errors.New("unknown constant pool tag")
	ErrSlotOverflow   = errors.New("double-width constant overflows constant pool")
	ErrTrailingData   = errors.New("trailing data after class file")
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidMagic:
		return "invalid-magic"
	case TruncatedInput:
		return "truncated-input"
	case UnknownTag:
		return "unknown-tag"
	case SlotOverflow:
		return "slot-overflow"
	case TrailingData:
		return "trailing-data"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k ErrorKind) sentinel() error {
	switch k {
	case InvalidMagic:
		return ErrInvalidMagic
	case TruncatedInput:
		return ErrTruncatedInput
	case UnknownTag:
		return ErrUnknownTag
	case SlotOverflow:
		return ErrSlotOverflow
	case TrailingData:
		return ErrTrailingData
	}
	return nil
}

// FormatError reports a structurally malformed class file. Offset is the
// byte offset of the read that failed. Tag, Index and Ordinal
// are set for constant pool failures: Index is the 1-based pool index and
// Ordinal the number of logical entries decoded before the failing one.
type FormatError struct {
	Kind    ErrorKind
	Offset  int64
	Tag     uint8
	Index   uint16
	Ordinal int
	Magic   uint32
	Err     error
}

func (e *FormatError) Error() string {
	switch e.Kind {
	case InvalidMagic:
		return fmt.Sprintf("%v: 0x%08X (expected 0x%08X)", ErrInvalidMagic, e.Magic, uint32(Magic))
	case UnknownTag:
		return fmt.Sprintf("%v %d at index %d (entry %d, offset %d)", ErrUnknownTag, e.Tag, e.Index, e.Ordinal, e.Offset)
	case SlotOverflow:
		return fmt.Sprintf("%v: tag %d at index %d (offset %d)", ErrSlotOverflow, e.Tag, e.Index, e.Offset)
	}
	msg := fmt.Sprintf("%s at offset %d", e.Kind, e.Offset)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is makes errors.Is match the sentinel for the error's kind.
func (e *FormatError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// KindOf returns the kind of the first FormatError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var fe *FormatError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
