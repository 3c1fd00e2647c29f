package marcxml

import (
	"bufio"
	"io"
	"strings"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&apos;",
)

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}

// streamRenderer writes events as escaped XML text.
type streamRenderer struct {
	w      *bufio.Writer
	pretty bool
	indent string

	// hasChild[i] tells whether the element open at depth i has
	// child elements, which decides where closing tags go.
	hasChild []bool
}

func newStreamRenderer(w io.Writer, pretty bool, indent string) *streamRenderer {
	return &streamRenderer{w: bufio.NewWriter(w), pretty: pretty, indent: indent}
}

func (s *streamRenderer) emit(ev Event) error {
	depth := len(s.hasChild)
	switch ev.Kind {
	case StartElement:
		if depth == 0 {
			s.w.WriteString(xmlDeclaration)
		} else {
			s.hasChild[depth-1] = true
			s.newline(depth)
		}
		s.w.WriteByte('<')
		s.w.WriteString(ev.Name)
		for _, a := range ev.Attrs {
			s.w.WriteByte(' ')
			s.w.WriteString(a.Name)
			s.w.WriteString(`="`)
			s.w.WriteString(xmlEscape(a.Value))
			s.w.WriteByte('"')
		}
		s.w.WriteByte('>')
		s.hasChild = append(s.hasChild, false)

	case Text:
		s.w.WriteString(xmlEscape(ev.Text))

	case EndElement:
		depth--
		if s.hasChild[depth] {
			s.newline(depth)
		}
		s.hasChild = s.hasChild[:depth]
		s.w.WriteString("</")
		s.w.WriteString(ev.Name)
		s.w.WriteByte('>')
		if depth == 0 && s.pretty {
			s.w.WriteByte('\n')
		}
	}
	// bufio keeps the first write error and reports it from Flush.
	return nil
}

func (s *streamRenderer) newline(depth int) {
	if !s.pretty {
		return
	}
	s.w.WriteByte('\n')
	s.w.WriteString(strings.Repeat(s.indent, depth))
}

func (s *streamRenderer) flush() error {
	return s.w.Flush()
}
