package iso2709

import (
	"bufio"
	"errors"
	"io"

	"github.com/theoremus-urban-solutions/marc2xml/marc"
)

// Reader reads consecutive transmission records from a stream.
type Reader struct {
	r      *bufio.Reader
	offset int64
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next record, or io.EOF when the input is exhausted.
// Errors from the underlying reader are returned as is. After a
// *FormatError the Reader has skipped past the bad record, so callers may
// keep calling Next.
func (r *Reader) Next() (*marc.Record, error) {
	if err := r.skipLineBreaks(); err != nil {
		return nil, err
	}
	start := r.offset

	head := make([]byte, marc.LeaderLength)
	n, err := io.ReadFull(r.r, head)
	r.offset += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, err
		}
		return nil, formatErr(start, "truncated leader (%d bytes)", n)
	}

	length, ok := parseDigits(head[0:5])
	if !ok || length < marc.LeaderLength+2 {
		r.resync()
		return nil, formatErr(start, "invalid record length %q", head[0:5])
	}

	data := make([]byte, length)
	copy(data, head)
	n, err = io.ReadFull(r.r, data[marc.LeaderLength:])
	r.offset += int64(n)
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return nil, formatErr(start, "truncated record: want %d bytes, got %d", length, marc.LeaderLength+n)
	}
	if err != nil {
		return nil, err
	}
	if data[length-1] != RecordTerminator {
		r.resync()
	}
	return parseAt(data, start)
}

// skipLineBreaks drops CR/LF some exporters put between records.
func (r *Reader) skipLineBreaks() error {
	for {
		b, err := r.r.ReadByte()
		if err != nil {
			return err
		}
		if b != '\n' && b != '\r' {
			return r.r.UnreadByte()
		}
		r.offset++
	}
}

// resync advances past the next record terminator.
func (r *Reader) resync() {
	skipped, _ := r.r.ReadBytes(RecordTerminator)
	r.offset += int64(len(skipped))
}
