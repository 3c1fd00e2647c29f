package marcxml

import (
	"strings"

	"github.com/theoremus-urban-solutions/marc2xml/marc"
)

func sf(code byte, data string) marc.Subfield { return marc.Subfield{Code: code, Data: data} }

func summerlandRecord() *marc.Record {
	return &marc.Record{
		Leader: "00714cam a2200205 a 4500",
		Fields: []marc.VariableField{
			marc.NewControlField("001", "12883376"),
			marc.NewControlField("005", "20030616111422.0"),
			marc.NewControlField("008", "020805s2002    nyu    j      000 1 eng  "),
			marc.NewDataField("020", ' ', ' ', sf('a', "0786808772")),
			marc.NewDataField("020", ' ', ' ', sf('a', "0786816155 (pbk.)")),
			marc.NewDataField("040", ' ', ' ', sf('a', "DLC"), sf('c', "DLC"), sf('d', "DLC")),
			marc.NewDataField("100", '1', ' ', sf('a', "Chabon, Michael.")),
			marc.NewDataField("245", '1', '0', sf('a', "Summerland /"), sf('c', "Michael Chabon.")),
			marc.NewDataField("250", ' ', ' ', sf('a', "1st ed.")),
			marc.NewDataField("260", ' ', ' ', sf('a', "New York :"), sf('b', "Miramax Books/Hyperion Books for Children,"), sf('c', "c2002.")),
			marc.NewDataField("300", ' ', ' ', sf('a', "500 p. ;"), sf('c', "22 cm.")),
			marc.NewDataField("520", ' ', ' ', sf('a', "Ethan Feld, the worst baseball player in the history of the game, finds himself recruited by a 100-year-old scout to help a band of fairies triumph over an ancient enemy.")),
			marc.NewDataField("650", ' ', '1', sf('a', "Fantasy.")),
			marc.NewDataField("650", ' ', '1', sf('a', "Baseball"), sf('v', "Fiction.")),
			marc.NewDataField("650", ' ', '1', sf('a', "Magic"), sf('v', "Fiction.")),
		},
	}
}

// diacriticPhrases are MARC-8 phrases with their expected decomposed and
// composed renderings.
var diacriticPhrases = []struct {
	marc8, decomposed, composed string
}{
	{"the tilde in ma\xE4nana", "the tilde in man\u0303ana", "the tilde in ma\u00F1ana"},
	{"the grave accent in tr\xE1es", "the grave accent in tre\u0300s", "the grave accent in tr\u00E8s"},
	{"the acute accent in d\xE2esir\xE2ee", "the acute accent in de\u0301sire\u0301e", "the acute accent in d\u00E9sir\u00E9e"},
	{"the circumflex in c\xE3ote", "the circumflex in co\u0302te", "the circumflex in c\u00F4te"},
	{"the macron in T\xE5okyo", "the macron in To\u0304kyo", "the macron in T\u014Dkyo"},
	{"the breve in russki\xE6i", "the breve in russkii\u0306", "the breve in russki\u012D"},
	{"the dot above in \xE7zaba", "the dot above in z\u0307aba", "the dot above in \u017Caba"},
	{"the dieresis (umlaut) in L\xE8owenbr\xE8au", "the dieresis (umlaut) in Lo\u0308wenbra\u0308u", "the dieresis (umlaut) in L\u00F6wenbr\u00E4u"},
}

func diacriticsRecord() *marc.Record {
	parts := make([]string, 0, len(diacriticPhrases))
	for _, p := range diacriticPhrases {
		parts = append(parts, p.marc8)
	}
	return &marc.Record{
		Leader: "00759cam  2200229 a 4500",
		Fields: []marc.VariableField{
			marc.NewControlField("001", "brk-diacritics"),
			marc.NewDataField("245", '0', '0', sf('a', "Diacritics test record")),
			marc.NewDataField("500", ' ', ' ', sf('a', "This is a test of diacritics, "+strings.Join(parts, ", "))),
		},
	}
}

func numberedRecord(n int) *marc.Record {
	rec := summerlandRecord()
	rec.Fields[0] = marc.NewControlField("001", "rec-"+string(rune('0'+n)))
	return rec
}
