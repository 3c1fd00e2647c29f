package marcjson

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/theoremus-urban-solutions/marc2xml/charset"
	"github.com/theoremus-urban-solutions/marc2xml/marc"
	"github.com/theoremus-urban-solutions/marc2xml/marcxml"
)

// Record is the MARC-in-JSON shape of one record. Each entry of Fields has
// a single key, the tag; control fields map to a string and data fields
// to a *DataField.
type Record struct {
	Leader string           `json:"leader"`
	Fields []map[string]any `json:"fields"`
}

// DataField is the MARC-in-JSON shape of a data field.
type DataField struct {
	Ind1      string              `json:"ind1"`
	Ind2      string              `json:"ind2"`
	Subfields []map[string]string `json:"subfields"`
}

// FromEvents assembles a Record from the events of a single record.
func FromEvents(events []marcxml.Event) (*Record, error) {
	out := &Record{Fields: []map[string]any{}}
	var (
		elem  string
		attr  string
		df    *DataField
		text  string
		depth int
	)
	for _, ev := range events {
		switch ev.Kind {
		case marcxml.StartElement:
			depth++
			elem, text = ev.Name, ""
			switch ev.Name {
			case marcxml.ElemControlField:
				attr = attrValue(ev.Attrs, "tag")
			case marcxml.ElemSubfield:
				attr = attrValue(ev.Attrs, "code")
			case marcxml.ElemDataField:
				df = &DataField{
					Ind1:      attrValue(ev.Attrs, "ind1"),
					Ind2:      attrValue(ev.Attrs, "ind2"),
					Subfields: []map[string]string{},
				}
				out.Fields = append(out.Fields, map[string]any{attrValue(ev.Attrs, "tag"): df})
			}

		case marcxml.Text:
			text += ev.Text

		case marcxml.EndElement:
			depth--
			switch ev.Name {
			case marcxml.ElemLeader:
				out.Leader = text
			case marcxml.ElemControlField:
				out.Fields = append(out.Fields, map[string]any{attr: text})
			case marcxml.ElemSubfield:
				if df == nil {
					return nil, fmt.Errorf("marcjson: subfield outside a data field")
				}
				df.Subfields = append(df.Subfields, map[string]string{attr: text})
			case marcxml.ElemDataField:
				df = nil
			}
			elem = ""
		}
	}
	if depth != 0 || elem != "" {
		return nil, fmt.Errorf("marcjson: unbalanced event sequence")
	}
	return out, nil
}

func attrValue(attrs []marcxml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// Marshal converts rec with conv and returns its MARC-in-JSON encoding.
func Marshal(rec *marc.Record, conv charset.Converter) ([]byte, error) {
	events, err := marcxml.RecordEvents(rec, conv)
	if err != nil {
		return nil, err
	}
	obj, err := FromEvents(events)
	if err != nil {
		return nil, err
	}
	return json.Marshal(obj)
}

// Writer streams records as JSON lines.
type Writer struct {
	enc     *json.Encoder
	conv    charset.Converter
	records int
}

// NewWriter returns a Writer that converts text with conv (nil means
// charset.Identity).
func NewWriter(w io.Writer, conv charset.Converter) *Writer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Writer{enc: enc, conv: conv}
}

// Write emits rec as one line. A rejected record produces no output.
func (w *Writer) Write(rec *marc.Record) error {
	events, err := marcxml.RecordEvents(rec, w.conv)
	if err != nil {
		return err
	}
	obj, err := FromEvents(events)
	if err != nil {
		return err
	}
	if err := w.enc.Encode(obj); err != nil {
		return err
	}
	w.records++
	return nil
}

// Records returns how many records have been written.
func (w *Writer) Records() int { return w.records }
