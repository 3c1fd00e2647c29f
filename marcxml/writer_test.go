package marcxml

import (
	"bufio"
	"bytes"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/marc2xml/charset"
	"github.com/theoremus-urban-solutions/marc2xml/marc"
)

func parseStream(t *testing.T, b []byte) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(b))
	require.NotNil(t, doc.Root())
	return doc.Root()
}

func TestWriter_StreamPretty(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(Options{Output: &buf, Pretty: true})
	require.NoError(t, err)
	require.NoError(t, w.Write(summerlandRecord()))
	require.NoError(t, w.Close())

	out := buf.String()
	require.True(t, strings.HasPrefix(out, xmlDeclaration+`<collection xmlns="http://www.loc.gov/MARC21/slim">`+"\n  <record>\n"))
	require.Contains(t, out, "\n    <leader>00714cam a2200205 a 4500</leader>\n")
	require.Contains(t, out, "\n    <controlfield tag=\"001\">12883376</controlfield>\n")
	require.Contains(t, out, "\n    <datafield tag=\"245\" ind1=\"1\" ind2=\"0\">\n      <subfield code=\"a\">Summerland /</subfield>\n      <subfield code=\"c\">Michael Chabon.</subfield>\n    </datafield>\n")
	require.True(t, strings.HasSuffix(out, "\n  </record>\n</collection>\n"))

	t.Logf("✓ pretty stream output (%d bytes)", len(out))
}

func TestWriter_StreamCompact(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(Options{Output: &buf})
	require.NoError(t, err)
	rec := &marc.Record{
		Leader: "00000nam  2200000 a 4500",
		Fields: []marc.VariableField{
			marc.NewControlField("001", "x1"),
			marc.NewDataField("245", '0', '0', sf('a', "Title")),
		},
	}
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())

	want := xmlDeclaration +
		`<collection xmlns="http://www.loc.gov/MARC21/slim"><record>` +
		`<leader>00000nam  2200000 a 4500</leader>` +
		`<controlfield tag="001">x1</controlfield>` +
		`<datafield tag="245" ind1="0" ind2="0"><subfield code="a">Title</subfield></datafield>` +
		`</record></collection>`
	require.Equal(t, want, buf.String())
}

func TestWriter_IndicatorlessFieldIsRejected(t *testing.T) {
	rec := summerlandRecord()
	rec.Fields = append(rec.Fields, &marc.DataField{
		Tag:       "911",
		Subfields: []marc.Subfield{sf('a', "HAZMARC - INDICATORLESS FIELD DETECTED - MOPP LEVEL 4")},
	})

	var buf bytes.Buffer
	w, err := NewWriter(Options{Output: &buf, Pretty: true})
	require.NoError(t, err)

	err = w.Write(rec)
	var se *StructuralError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "911", se.Tag)
	require.Equal(t, len(rec.Fields)-1, se.Field)
	require.ErrorIs(t, err, ErrStructural)
	require.Zero(t, buf.Len(), "rejected record must not produce output")

	// The same record with indicators set goes through.
	bad := rec.Fields[len(rec.Fields)-1].(*marc.DataField)
	bad.Ind1, bad.Ind2 = ' ', ' '
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())

	root := parseStream(t, buf.Bytes())
	records := root.SelectElements(ElemRecord)
	require.Len(t, records, 1)
	require.Len(t, records[0].SelectElements(ElemLeader), 1)
}

func TestWriter_FailedWriteLeavesNoPartialOutput(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(Options{Output: &buf})
	require.NoError(t, err)
	require.NoError(t, w.Write(numberedRecord(0)))
	before := buf.Len()

	rec := numberedRecord(1)
	rec.Fields = append(rec.Fields, &marc.DataField{Tag: "999", Ind1: '1'})
	require.ErrorIs(t, w.Write(rec), ErrStructural)
	require.Equal(t, before, buf.Len())

	require.NoError(t, w.Write(numberedRecord(2)))
	require.NoError(t, w.Close())
	require.Equal(t, 2, w.Records())

	records := parseStream(t, buf.Bytes()).SelectElements(ElemRecord)
	require.Len(t, records, 2)
	require.Equal(t, "rec-2", records[1].SelectElement(ElemControlField).Text())
}

func TestWriter_StructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		rec  *marc.Record
	}{
		{"nil record", nil},
		{"missing leader", &marc.Record{}},
		{"short leader", &marc.Record{Leader: "00714cam"}},
		{"long leader", &marc.Record{Leader: "00714cam a2200205 a 4500 extra"}},
		{"non-ASCII leader of 24 bytes", &marc.Record{Leader: "00714cam a2200205 a 45\u00e9"}},
		{"non-ASCII leader of 24 characters", &marc.Record{Leader: "00714cam a2200205 a 450\u00e9"}},
		{"bad control tag", &marc.Record{Leader: "00714cam a2200205 a 4500", Fields: []marc.VariableField{marc.NewControlField("1", "x")}}},
		{"bad data tag", &marc.Record{Leader: "00714cam a2200205 a 4500", Fields: []marc.VariableField{marc.NewDataField("24", '1', '0')}}},
		{"missing ind2", &marc.Record{Leader: "00714cam a2200205 a 4500", Fields: []marc.VariableField{marc.NewDataField("245", '1', 0)}}},
		{"subfield without code", &marc.Record{Leader: "00714cam a2200205 a 4500", Fields: []marc.VariableField{marc.NewDataField("245", '1', '0', sf(0, "x"))}}},
		{"nil field", &marc.Record{Leader: "00714cam a2200205 a 4500", Fields: []marc.VariableField{nil}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(Options{Output: &buf})
			require.NoError(t, err)
			require.ErrorIs(t, w.Write(tt.rec), ErrStructural)
			require.Zero(t, buf.Len())
		})
	}
}

func TestWriter_CollectionOfN(t *testing.T) {
	const n = 5
	var buf bytes.Buffer
	w, err := NewWriter(Options{Output: &buf, Pretty: true})
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, w.Write(numberedRecord(i)))
	}
	require.NoError(t, w.Close())

	root := parseStream(t, buf.Bytes())
	require.Equal(t, ElemCollection, root.Tag)
	require.Len(t, root.ChildElements(), n)
	for i, rec := range root.ChildElements() {
		require.Equal(t, ElemRecord, rec.Tag)
		require.Equal(t, "rec-"+string(rune('0'+i)), rec.SelectElement(ElemControlField).Text())
	}
	require.Equal(t, 1, strings.Count(buf.String(), "<collection"))
}

func TestWriter_EmptyCollection(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(Options{Output: &buf})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	root := parseStream(t, buf.Bytes())
	require.Equal(t, ElemCollection, root.Tag)
	require.Empty(t, root.ChildElements())
}

func TestWriter_UsageErrors(t *testing.T) {
	_, err := NewWriter(Options{Output: &bytes.Buffer{}, Document: etree.NewDocument()})
	var ue *UsageError
	require.ErrorAs(t, err, &ue)

	_, err = NewWriter(Options{})
	require.ErrorIs(t, err, ErrUsage)

	doc := etree.NewDocument()
	doc.CreateElement("existing")
	_, err = NewWriter(Options{Document: doc})
	require.ErrorIs(t, err, ErrUsage)

	var buf bytes.Buffer
	w, err := NewWriter(Options{Output: &buf})
	require.NoError(t, err)
	require.NoError(t, w.Write(summerlandRecord()))
	require.NoError(t, w.Close())
	closed := buf.String()

	require.ErrorIs(t, w.Write(summerlandRecord()), ErrUsage)
	require.NoError(t, w.Close(), "second close is a no-op")
	require.Equal(t, closed, buf.String())
}

func TestWriter_Escaping(t *testing.T) {
	raw := `Tom & Jerry <1940> "cat" 'mouse'`
	rec := &marc.Record{
		Leader: "00000nam  2200000 a 4500",
		Fields: []marc.VariableField{marc.NewDataField("245", '0', '0', sf('a', raw))},
	}

	var buf bytes.Buffer
	w, err := NewWriter(Options{Output: &buf})
	require.NoError(t, err)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())
	require.Contains(t, buf.String(), `Tom &amp; Jerry &lt;1940&gt; &quot;cat&quot; &apos;mouse&apos;`)

	doc := etree.NewDocument()
	tw, err := NewWriter(Options{Document: doc})
	require.NoError(t, err)
	require.NoError(t, tw.Write(rec))
	require.NoError(t, tw.Close())
	got := doc.FindElement("//subfield").Text()
	require.Equal(t, raw, got, "tree text must not be pre-escaped")
}

// upperConverter counts calls so tests can see what gets converted.
type upperConverter struct{ calls *int }

func (u upperConverter) Convert(raw string) (string, error) {
	*u.calls++
	return strings.ToUpper(raw), nil
}

func TestWriter_LeaderIsNotConverted(t *testing.T) {
	calls := 0
	doc := etree.NewDocument()
	w, err := NewWriter(Options{Document: doc, Converter: upperConverter{&calls}})
	require.NoError(t, err)

	rec := summerlandRecord()
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())

	want := len(rec.ControlFields())
	for _, df := range rec.DataFields() {
		want += len(df.Subfields)
	}
	require.Equal(t, want, calls)
	require.Equal(t, rec.Leader, doc.FindElement("//leader").Text())
	require.Equal(t, "SUMMERLAND /", doc.FindElement("//datafield[@tag='245']/subfield[@code='a']").Text())
}

func TestWriter_ConversionErrorAbortsRecord(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(Options{Output: &buf, Converter: charset.MARC8{Fallback: charset.FallbackStrict}})
	require.NoError(t, err)

	rec := diacriticsRecord()
	rec.Fields = append(rec.Fields, marc.NewDataField("246", '3', ' ', sf('a', "bad \xAF byte")))
	err = w.Write(rec)
	var ce *charset.ConversionError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, 4, ce.Offset)
	require.False(t, errors.Is(err, ErrStructural))
	require.Zero(t, buf.Len())

	require.NoError(t, w.Write(diacriticsRecord()))
	require.NoError(t, w.Close())
}

var diacriticLine = regexp.MustCompile(`^[ ]*<subfield code="a">This is a test of diacritics.*`)

// diacriticParts returns the comma-separated phrases of the diacritics note.
func diacriticParts(t *testing.T, out []byte) []string {
	t.Helper()
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if diacriticLine.MatchString(line) {
			line = strings.TrimSuffix(strings.TrimSpace(line), "</subfield>")
			return strings.Split(line, ", ")[1:]
		}
	}
	t.Fatal("diacritics note not found in output")
	return nil
}

func TestWriter_MARC8Decomposed(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(Options{Output: &buf, Pretty: true, Converter: charset.MARC8{}})
	require.NoError(t, err)
	require.NoError(t, w.Write(diacriticsRecord()))
	require.NoError(t, w.Close())

	parts := diacriticParts(t, buf.Bytes())
	require.Len(t, parts, len(diacriticPhrases))
	for i, p := range diacriticPhrases {
		require.Equal(t, p.decomposed, parts[i])
	}
}

func TestWriter_MARC8Normalized(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(Options{Output: &buf, Pretty: true, Converter: charset.MARC8{}, Normalize: true})
	require.NoError(t, err)
	require.NoError(t, w.Write(diacriticsRecord()))
	require.NoError(t, w.Close())

	parts := diacriticParts(t, buf.Bytes())
	require.Len(t, parts, len(diacriticPhrases))
	for i, p := range diacriticPhrases {
		require.Equal(t, p.composed, parts[i])
	}
	t.Logf("✓ %d normalized diacritic phrases", len(parts))
}

func TestWriter_TreeOutput(t *testing.T) {
	doc := etree.NewDocument()
	w, err := NewWriter(Options{Document: doc, Converter: charset.MARC8{}, Pretty: true})
	require.NoError(t, err)
	require.NoError(t, w.Write(summerlandRecord()))
	require.NoError(t, w.Close())

	root := doc.Root()
	require.Equal(t, ElemCollection, root.Tag)
	require.Equal(t, Namespace, root.SelectAttrValue("xmlns", ""))

	children := root.ChildElements()
	require.Len(t, children, 1)
	require.Equal(t, ElemRecord, children[0].Tag)
	require.Len(t, children[0].SelectElements(ElemLeader), 1)
	require.Equal(t, ElemLeader, children[0].ChildElements()[0].Tag)
}
