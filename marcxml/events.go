package marcxml

import (
	"fmt"

	"github.com/theoremus-urban-solutions/marc2xml/charset"
	"github.com/theoremus-urban-solutions/marc2xml/marc"
)

// Namespace is the MARC21-XML (slim) namespace carried by the root element.
const Namespace = "http://www.loc.gov/MARC21/slim"

// Element names of the MARC21-XML vocabulary.
const (
	ElemCollection   = "collection"
	ElemRecord       = "record"
	ElemLeader       = "leader"
	ElemControlField = "controlfield"
	ElemDataField    = "datafield"
	ElemSubfield     = "subfield"
)

// EventKind discriminates Event.
type EventKind int

const (
	StartElement EventKind = iota // Name and Attrs are set.
	EndElement                    // Name is set.
	Text                          // Text is set, unescaped.
)

// Attr is an attribute of a start element.
type Attr struct {
	Name  string
	Value string
}

// Event is one step in building the XML output. Attributes travel with
// their start element.
type Event struct {
	Kind  EventKind
	Name  string
	Attrs []Attr
	Text  string
}

func start(name string, attrs ...Attr) Event {
	for i := range attrs {
		attrs[i].Value = xmlSafe(attrs[i].Value)
	}
	return Event{Kind: StartElement, Name: name, Attrs: attrs}
}

func end(name string) Event { return Event{Kind: EndElement, Name: name} }

func collectionStart() Event {
	return start(ElemCollection, Attr{Name: "xmlns", Value: Namespace})
}

// appendElement appends a text-only element. Empty text yields no Text event.
func appendElement(events []Event, name, text string, attrs ...Attr) []Event {
	text = xmlSafe(text)
	events = append(events, start(name, attrs...))
	if text != "" {
		events = append(events, Event{Kind: Text, Text: text})
	}
	return append(events, end(name))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// RecordEvents validates rec and returns the events for one record element.
// Control field values and subfield data are converted with conv (nil means
// charset.Identity); the leader must be 24 ASCII bytes and is copied
// without conversion. Characters XML cannot carry are replaced with U+FFFD
// in all text and attribute values. Nothing is returned on error, so
// callers never see a partial record.
func RecordEvents(rec *marc.Record, conv charset.Converter) ([]Event, error) {
	if rec == nil {
		return nil, recordError("nil record")
	}
	if conv == nil {
		conv = charset.Identity
	}
	if rec.Leader == "" {
		return nil, recordError("missing leader")
	}
	if !isASCII(rec.Leader) {
		return nil, recordError("leader must be ASCII")
	}
	if len(rec.Leader) != marc.LeaderLength {
		return nil, recordError("leader must be %d characters, got %d", marc.LeaderLength, len(rec.Leader))
	}

	events := make([]Event, 0, 5+6*len(rec.Fields))
	events = append(events, start(ElemRecord))
	events = appendElement(events, ElemLeader, rec.Leader)

	for i, field := range rec.Fields {
		switch f := field.(type) {
		case *marc.ControlField:
			if f == nil {
				return nil, fieldError(i, "", "nil control field")
			}
			if len(f.Tag) != 3 {
				return nil, fieldError(i, f.Tag, "tag must be 3 characters")
			}
			value, err := conv.Convert(f.Value)
			if err != nil {
				return nil, fmt.Errorf("marcxml: field %d (%s): %w", i, f.Tag, err)
			}
			events = appendElement(events, ElemControlField, value, Attr{Name: "tag", Value: f.Tag})

		case *marc.DataField:
			if f == nil {
				return nil, fieldError(i, "", "nil data field")
			}
			if len(f.Tag) != 3 {
				return nil, fieldError(i, f.Tag, "tag must be 3 characters")
			}
			if !f.HasIndicators() {
				return nil, fieldError(i, f.Tag, "data field has no indicators set")
			}
			events = append(events, start(ElemDataField,
				Attr{Name: "tag", Value: f.Tag},
				Attr{Name: "ind1", Value: string([]byte{f.Ind1})},
				Attr{Name: "ind2", Value: string([]byte{f.Ind2})},
			))
			for _, sf := range f.Subfields {
				if sf.Code == 0 {
					return nil, fieldError(i, f.Tag, "subfield has no code")
				}
				data, err := conv.Convert(sf.Data)
				if err != nil {
					return nil, fmt.Errorf("marcxml: field %d (%s) subfield %c: %w", i, f.Tag, sf.Code, err)
				}
				events = appendElement(events, ElemSubfield, data, Attr{Name: "code", Value: string([]byte{sf.Code})})
			}
			events = append(events, end(ElemDataField))

		case nil:
			return nil, fieldError(i, "", "nil field")

		default:
			return nil, fieldError(i, field.GetTag(), "unsupported field type %T", field)
		}
	}

	return append(events, end(ElemRecord)), nil
}
