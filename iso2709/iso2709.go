package iso2709

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/theoremus-urban-solutions/marc2xml/marc"
)

// Structural bytes of the transmission format.
const (
	SubfieldDelimiter = 0x1F
	FieldTerminator   = 0x1E
	RecordTerminator  = 0x1D
)

const (
	dirEntryLength = 12
	maxRecordLen   = 99999
	maxFieldLen    = 9999
)

// ErrFormat matches every *FormatError via errors.Is.
var ErrFormat = errors.New("iso2709: malformed record")

// FormatError reports malformed transmission data. Offset is the byte
// position of the record in the input stream.
type FormatError struct {
	Offset int64
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("iso2709: record at offset %d: %s", e.Offset, e.Reason)
}

// Is reports whether target is ErrFormat.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

func formatErr(offset int64, format string, args ...any) error {
	return &FormatError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}

// parseDigits reads an unsigned decimal number made only of ASCII digits.
// Signs and spaces are rejected.
func parseDigits(b []byte) (int, bool) {
	if len(b) == 0 {
		return 0, false
	}
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// Parse decodes one complete transmission record, terminator included.
func Parse(data []byte) (*marc.Record, error) {
	return parseAt(data, 0)
}

func parseAt(data []byte, offset int64) (*marc.Record, error) {
	if len(data) < marc.LeaderLength+2 {
		return nil, formatErr(offset, "record too short (%d bytes)", len(data))
	}
	if data[len(data)-1] != RecordTerminator {
		return nil, formatErr(offset, "missing record terminator")
	}
	leader := string(data[:marc.LeaderLength])
	base, ok := parseDigits(data[12:17])
	if !ok || base <= marc.LeaderLength || base > len(data)-1 {
		return nil, formatErr(offset, "invalid base address %q", leader[12:17])
	}
	if data[base-1] != FieldTerminator {
		return nil, formatErr(offset, "directory not terminated")
	}
	dir := data[marc.LeaderLength : base-1]
	if len(dir)%dirEntryLength != 0 {
		return nil, formatErr(offset, "directory length %d is not a multiple of %d", len(dir), dirEntryLength)
	}

	rec := &marc.Record{Leader: leader, Fields: make([]marc.VariableField, 0, len(dir)/dirEntryLength)}
	fields := data[base : len(data)-1]
	for k := 0; k < len(dir); k += dirEntryLength {
		entry := dir[k : k+dirEntryLength]
		tag := string(entry[0:3])
		flen, ok1 := parseDigits(entry[3:7])
		start, ok2 := parseDigits(entry[7:12])
		if !ok1 || !ok2 {
			return nil, formatErr(offset, "invalid directory entry %q", entry)
		}
		if start+flen > len(fields) || flen < 1 {
			return nil, formatErr(offset, "field %s out of bounds", tag)
		}
		field := bytes.TrimSuffix(fields[start:start+flen], []byte{FieldTerminator})

		if marc.IsControlTag(tag) {
			rec.Fields = append(rec.Fields, marc.NewControlField(tag, string(field)))
			continue
		}
		df, err := parseDataField(tag, field)
		if err != nil {
			return nil, formatErr(offset, "%v", err)
		}
		rec.Fields = append(rec.Fields, df)
	}
	return rec, nil
}

func parseDataField(tag string, field []byte) (*marc.DataField, error) {
	if len(field) < 2 {
		return nil, fmt.Errorf("field %s has no indicators", tag)
	}
	df := &marc.DataField{Tag: tag, Ind1: field[0], Ind2: field[1]}
	for i, seg := range bytes.Split(field[2:], []byte{SubfieldDelimiter}) {
		if i == 0 {
			// Anything before the first delimiter is not a subfield.
			continue
		}
		if len(seg) == 0 {
			continue
		}
		df.Subfields = append(df.Subfields, marc.Subfield{Code: seg[0], Data: string(seg[1:])})
	}
	return df, nil
}

// Encode serializes rec in transmission format. The record length and
// base address in the leader are recomputed; the rest of the leader is
// kept.
func Encode(rec *marc.Record) ([]byte, error) {
	if len(rec.Leader) != marc.LeaderLength {
		return nil, fmt.Errorf("iso2709: leader must be %d bytes, got %d", marc.LeaderLength, len(rec.Leader))
	}
	var dir, body bytes.Buffer
	for _, f := range rec.Fields {
		var data []byte
		switch f := f.(type) {
		case *marc.ControlField:
			data = append([]byte(f.Value), FieldTerminator)
		case *marc.DataField:
			if !f.HasIndicators() {
				return nil, fmt.Errorf("iso2709: field %s has no indicators", f.Tag)
			}
			data = append(data, f.Ind1, f.Ind2)
			for _, sf := range f.Subfields {
				data = append(data, SubfieldDelimiter, sf.Code)
				data = append(data, sf.Data...)
			}
			data = append(data, FieldTerminator)
		default:
			return nil, fmt.Errorf("iso2709: unsupported field type %T", f)
		}
		tag := f.GetTag()
		if len(tag) != 3 {
			return nil, fmt.Errorf("iso2709: invalid tag %q", tag)
		}
		if len(data) > maxFieldLen {
			return nil, fmt.Errorf("iso2709: field %s is %d bytes, over the %d limit", tag, len(data), maxFieldLen)
		}
		fmt.Fprintf(&dir, "%s%04d%05d", tag, len(data), body.Len())
		body.Write(data)
	}
	dir.WriteByte(FieldTerminator)

	base := marc.LeaderLength + dir.Len()
	total := base + body.Len() + 1
	if total > maxRecordLen {
		return nil, fmt.Errorf("iso2709: record is %d bytes, over the %d limit", total, maxRecordLen)
	}

	out := make([]byte, 0, total)
	leader := []byte(rec.Leader)
	copy(leader[0:5], fmt.Sprintf("%05d", total))
	copy(leader[12:17], fmt.Sprintf("%05d", base))
	out = append(out, leader...)
	out = append(out, dir.Bytes()...)
	out = append(out, body.Bytes()...)
	return append(out, RecordTerminator), nil
}
