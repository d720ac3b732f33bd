package classfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// smallRead is the largest length read into a single up-front allocation
// when the input size is unknown. Longer reads grow with the data actually
// delivered so a forged u4 length cannot force a huge allocation.
const smallRead = 1 << 16

// reader is a forward-only big-endian cursor. Every read either returns
// the full value or an error; nothing is defaulted.
type reader struct {
	r     io.Reader
	off   int64
	limit int64
}

func newReader(rd io.Reader, size int64) *reader {
	return &reader{r: rd, limit: size}
}

func (r *reader) sized() bool { return r.limit >= 0 }

func (r *reader) fail(at int64, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &FormatError{Kind: TruncatedInput, Offset: at, Err: io.ErrUnexpectedEOF}
	}
	return fmt.Errorf("read at offset %d: %w", at, err)
}

func (r *reader) fill(buf []byte) error {
	at := r.off
	if r.sized() && at+int64(len(buf)) > r.limit {
		return r.fail(at, io.ErrUnexpectedEOF)
	}
	n, err := io.ReadFull(r.r, buf)
	r.off += int64(n)
	if err != nil {
		return r.fail(at, err)
	}
	return nil
}

func (r *reader) readU1() (uint8, error) {
	var buf [1]byte
	if err := r.fill(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (r *reader) readU2() (uint16, error) {
	var buf [2]byte
	if err := r.fill(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func (r *reader) readU4() (uint32, error) {
	var buf [4]byte
	if err := r.fill(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func (r *reader) readU8() (uint64, error) {
	var buf [8]byte
	if err := r.fill(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

// readU2Pair reads the two-index layout shared by the ref, name-and-type
// and dynamic constants.
func (r *reader) readU2Pair() (uint16, uint16, error) {
	a, err := r.readU2()
	if err != nil {
		return 0, 0, err
	}
	b, err := r.readU2()
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func (r *reader) readBytes(n int64) ([]byte, error) {
	at := r.off
	if r.sized() && at+n > r.limit {
		return nil, r.fail(at, io.ErrUnexpectedEOF)
	}
	if r.sized() || n <= smallRead {
		buf := make([]byte, n)
		if err := r.fill(buf); err != nil {
			return nil, err
		}
		return buf, nil
	}
	buf, err := io.ReadAll(io.LimitReader(r.r, n))
	r.off += int64(len(buf))
	if err != nil {
		return nil, r.fail(at, err)
	}
	if int64(len(buf)) < n {
		return nil, r.fail(at, io.ErrUnexpectedEOF)
	}
	return buf, nil
}

// expectEOF succeeds only when the input has been fully consumed.
func (r *reader) expectEOF() error {
	at := r.off
	if r.sized() {
		if at < r.limit {
			return &FormatError{Kind: TrailingData, Offset: at}
		}
		return nil
	}
	var buf [1]byte
	n, err := io.ReadFull(r.r, buf[:])
	if n > 0 {
		return &FormatError{Kind: TrailingData, Offset: at}
	}
	if errors.Is(err, io.EOF) {
		return nil
	}
	return r.fail(at, err)
}
