package internal

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/theoremus-urban-solutions/marc2xml/charset"
	"github.com/theoremus-urban-solutions/marc2xml/config"
	"github.com/theoremus-urban-solutions/marc2xml/iso2709"
	"github.com/theoremus-urban-solutions/marc2xml/marc"
	"github.com/theoremus-urban-solutions/marc2xml/marcjson"
	"github.com/theoremus-urban-solutions/marc2xml/marcxml"
)

// Sink receives converted records. Close finishes the document.
type Sink interface {
	Write(rec *marc.Record) error
	Records() int
	Close() error
}

type jsonlSink struct {
	*marcjson.Writer
	buf    *bufio.Writer
	closed bool
}

// Write flushes each line so a downstream reader sees records as they
// are converted. Like marcxml.Writer, it refuses records after Close.
func (s *jsonlSink) Write(rec *marc.Record) error {
	if s.closed {
		return &marcxml.UsageError{Reason: "write after close"}
	}
	if err := s.Writer.Write(rec); err != nil {
		return err
	}
	return s.buf.Flush()
}

// Close flushes pending output. Calling it again does nothing.
func (s *jsonlSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.buf.Flush()
}

// NewSink returns the writer selected by out.Format.
func NewSink(out config.OutputConfig, conv charset.Converter, w io.Writer) (Sink, error) {
	if out.Format == config.FormatJSONL {
		buf := bufio.NewWriter(w)
		return &jsonlSink{Writer: marcjson.NewWriter(buf, conv), buf: buf}, nil
	}
	xw, err := marcxml.NewWriter(marcxml.Options{
		Output:    w,
		Pretty:    out.Pretty,
		Indent:    out.Indent,
		Converter: conv,
	})
	if err != nil {
		return nil, err
	}
	return xw, nil
}

// Skippable reports whether err concerns a single record rather than the
// input or output as a whole.
func Skippable(err error) bool {
	return errors.Is(err, iso2709.ErrFormat) ||
		errors.Is(err, marcxml.ErrStructural) ||
		errors.Is(err, charset.ErrConversion)
}

// RecordError is a failure attributed to the n-th record of the input,
// counting from 1.
type RecordError struct {
	N   int
	Err error
}

func (e *RecordError) Error() string { return fmt.Sprintf("record %d: %v", e.N, e.Err) }

func (e *RecordError) Unwrap() error { return e.Err }

// Stats summarizes a Convert call.
type Stats struct {
	Records int
	Skipped int
}

// Convert reads ISO 2709 records from r into sink and closes it. When
// skip is non-nil, records failing with a Skippable error are passed to it
// and left out; otherwise the first failure is returned as a *RecordError.
// The sink is not closed after a failure.
func Convert(r io.Reader, sink Sink, skip func(*RecordError)) (Stats, error) {
	var stats Stats
	reader := iso2709.NewReader(r)
	for n := 1; ; n++ {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err == nil {
			err = sink.Write(rec)
		}
		if err == nil {
			continue
		}
		rerr := &RecordError{N: n, Err: err}
		if skip == nil || !Skippable(err) {
			stats.Records = sink.Records()
			return stats, rerr
		}
		skip(rerr)
		stats.Skipped++
	}
	stats.Records = sink.Records()
	return stats, sink.Close()
}
