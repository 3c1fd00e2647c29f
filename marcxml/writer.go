package marcxml

import (
	"io"

	"github.com/beevik/etree"

	"github.com/theoremus-urban-solutions/marc2xml/charset"
	"github.com/theoremus-urban-solutions/marc2xml/marc"
)

// DefaultIndent is used by pretty stream output when Options.Indent is empty.
const DefaultIndent = "  "

// Options configures a Writer. Exactly one of Output and Document is set.
type Options struct {
	// Output receives streamed XML.
	Output io.Writer
	// Document receives the tree. It must not have a root element yet.
	Document *etree.Document

	// Pretty indents stream output. Ignored for Document.
	Pretty bool
	// Indent is the per-level indentation for Pretty output.
	Indent string

	// Converter is applied to control field values and subfield data.
	// Nil means charset.Identity.
	Converter charset.Converter
	// Normalize composes converted text into NFC. It has no effect with
	// the identity converter.
	Normalize bool
}

type state int

const (
	stateInitialized state = iota
	stateStreaming
	stateClosed
)

// renderer consumes events for one output mode.
type renderer interface {
	emit(ev Event) error
	flush() error
}

// Writer serializes records into a single MARC21-XML collection.
type Writer struct {
	out     renderer
	conv    charset.Converter
	state   state
	records int
}

// NewWriter validates opts and returns a Writer in its initial state.
func NewWriter(opts Options) (*Writer, error) {
	switch {
	case opts.Output != nil && opts.Document != nil:
		return nil, &UsageError{Reason: "both an output stream and a document are configured"}
	case opts.Output == nil && opts.Document == nil:
		return nil, &UsageError{Reason: "no output stream or document configured"}
	}

	conv := opts.Converter
	if conv == nil {
		conv = charset.Identity
	}
	if opts.Normalize {
		conv = charset.WithNormalization(conv)
	}

	w := &Writer{conv: conv}
	if opts.Output != nil {
		indent := opts.Indent
		if indent == "" {
			indent = DefaultIndent
		}
		w.out = newStreamRenderer(opts.Output, opts.Pretty, indent)
		return w, nil
	}
	if opts.Document.Root() != nil {
		return nil, &UsageError{Reason: "document already has a root element"}
	}
	w.out = newTreeRenderer(opts.Document)
	return w, nil
}

// Write serializes one record. The collection element is opened on the
// first successful call. If rec is rejected nothing is emitted for it and
// the Writer stays usable.
func (w *Writer) Write(rec *marc.Record) error {
	if w.state == stateClosed {
		return &UsageError{Reason: "write after close"}
	}
	events, err := RecordEvents(rec, w.conv)
	if err != nil {
		return err
	}
	if w.state == stateInitialized {
		if err := w.out.emit(collectionStart()); err != nil {
			return err
		}
		w.state = stateStreaming
	}
	for _, ev := range events {
		if err := w.out.emit(ev); err != nil {
			return err
		}
	}
	w.records++
	return w.out.flush()
}

// Close ends the collection and flushes the destination. A collection with
// no records is still emitted. Calling Close again does nothing.
func (w *Writer) Close() error {
	if w.state == stateClosed {
		return nil
	}
	opened := w.state == stateStreaming
	w.state = stateClosed
	if !opened {
		if err := w.out.emit(collectionStart()); err != nil {
			return err
		}
	}
	if err := w.out.emit(end(ElemCollection)); err != nil {
		return err
	}
	return w.out.flush()
}

// Records returns how many records have been written.
func (w *Writer) Records() int { return w.records }
