package charset

// graphicSet identifies a MARC-8 graphic character set that can be
// designated into G0 or G1.
type graphicSet int

const (
	setBasicLatin graphicSet = iota
	setANSEL
	setGreekSymbols
	setSubscripts
	setSuperscripts
	// setUnsupported is any set MARC-8 defines that has no table here
	// (Hebrew, Cyrillic, Arabic, Greek, CJK). Its bytes are unmappable.
	setUnsupported
)

func (s graphicSet) String() string {
	switch s {
	case setBasicLatin:
		return "basic-latin"
	case setANSEL:
		return "ansel"
	case setGreekSymbols:
		return "greek-symbols"
	case setSubscripts:
		return "subscripts"
	case setSuperscripts:
		return "superscripts"
	}
	return "unsupported"
}

// Final bytes of MARC-8 designation escape sequences.
const (
	finalBasicLatin   = 'B'
	finalANSEL        = 'E'
	finalGreekSymbols = 'g'
	finalSubscripts   = 'b'
	finalSuperscripts = 'p'
	finalBasicASCII   = 's' // technique 1 only
)

// anselSpacing maps ANSEL G1 bytes to spacing characters.
var anselSpacing = map[byte]rune{
	0xA1: 0x0141, // LATIN CAPITAL LETTER L WITH STROKE
	0xA2: 0x00D8, // LATIN CAPITAL LETTER O WITH STROKE
	0xA3: 0x0110, // LATIN CAPITAL LETTER D WITH STROKE
	0xA4: 0x00DE, // LATIN CAPITAL LETTER THORN
	0xA5: 0x00C6, // LATIN CAPITAL LETTER AE
	0xA6: 0x0152, // LATIN CAPITAL LIGATURE OE
	0xA7: 0x02B9, // MODIFIER LETTER PRIME
	0xA8: 0x00B7, // MIDDLE DOT
	0xA9: 0x266D, // MUSIC FLAT SIGN
	0xAA: 0x00AE, // REGISTERED SIGN
	0xAB: 0x00B1, // PLUS-MINUS SIGN
	0xAC: 0x01A0, // LATIN CAPITAL LETTER O WITH HORN
	0xAD: 0x01AF, // LATIN CAPITAL LETTER U WITH HORN
	0xAE: 0x02BC, // MODIFIER LETTER APOSTROPHE (alif)
	0xB0: 0x02BB, // MODIFIER LETTER TURNED COMMA (ayn)
	0xB1: 0x0142, // LATIN SMALL LETTER L WITH STROKE
	0xB2: 0x00F8, // LATIN SMALL LETTER O WITH STROKE
	0xB3: 0x0111, // LATIN SMALL LETTER D WITH STROKE
	0xB4: 0x00FE, // LATIN SMALL LETTER THORN
	0xB5: 0x00E6, // LATIN SMALL LETTER AE
	0xB6: 0x0153, // LATIN SMALL LIGATURE OE
	0xB7: 0x02BA, // MODIFIER LETTER DOUBLE PRIME
	0xB8: 0x0131, // LATIN SMALL LETTER DOTLESS I
	0xB9: 0x00A3, // POUND SIGN
	0xBA: 0x00F0, // LATIN SMALL LETTER ETH
	0xBC: 0x01A1, // LATIN SMALL LETTER O WITH HORN
	0xBD: 0x01B0, // LATIN SMALL LETTER U WITH HORN
	0xC0: 0x00B0, // DEGREE SIGN
	0xC1: 0x2113, // SCRIPT SMALL L
	0xC2: 0x2117, // SOUND RECORDING COPYRIGHT
	0xC3: 0x00A9, // COPYRIGHT SIGN
	0xC4: 0x266F, // MUSIC SHARP SIGN
	0xC5: 0x00BF, // INVERTED QUESTION MARK
	0xC6: 0x00A1, // INVERTED EXCLAMATION MARK
	0xC7: 0x00DF, // LATIN SMALL LETTER SHARP S
	0xC8: 0x20AC, // EURO SIGN
}

// anselCombining maps ANSEL G1 bytes to combining diacritics. Every entry
// precedes its base character in MARC-8.
var anselCombining = map[byte]rune{
	0xE0: 0x0309, // hook above
	0xE1: 0x0300, // grave
	0xE2: 0x0301, // acute
	0xE3: 0x0302, // circumflex
	0xE4: 0x0303, // tilde
	0xE5: 0x0304, // macron
	0xE6: 0x0306, // breve
	0xE7: 0x0307, // dot above
	0xE8: 0x0308, // diaeresis
	0xE9: 0x030C, // caron
	0xEA: 0x030A, // ring above
	0xEB: 0xFE20, // ligature, left half
	0xEC: 0xFE21, // ligature, right half
	0xED: 0x0315, // comma above right
	0xEE: 0x030B, // double acute
	0xEF: 0x0310, // candrabindu
	0xF0: 0x0327, // cedilla
	0xF1: 0x0328, // ogonek
	0xF2: 0x0323, // dot below
	0xF3: 0x0324, // diaeresis below
	0xF4: 0x0325, // ring below
	0xF5: 0x0333, // double low line
	0xF6: 0x0332, // low line
	0xF7: 0x0326, // comma below
	0xF8: 0x031C, // left half ring below
	0xF9: 0x032E, // breve below
	0xFA: 0xFE22, // double tilde, left half
	0xFB: 0xFE23, // double tilde, right half
	0xFE: 0x0313, // comma above
}

// greekSymbols is the MARC-8 Greek symbol set (ESC g).
var greekSymbols = map[byte]rune{
	0x61: 0x03B1, // alpha
	0x62: 0x03B2, // beta
	0x63: 0x03B3, // gamma
}

// subscripts is the MARC-8 subscript set (ESC b).
var subscripts = map[byte]rune{
	0x28: 0x208D,
	0x29: 0x208E,
	0x2B: 0x208A,
	0x2D: 0x208B,
	0x30: 0x2080,
	0x31: 0x2081,
	0x32: 0x2082,
	0x33: 0x2083,
	0x34: 0x2084,
	0x35: 0x2085,
	0x36: 0x2086,
	0x37: 0x2087,
	0x38: 0x2088,
	0x39: 0x2089,
}

// superscripts is the MARC-8 superscript set (ESC p).
var superscripts = map[byte]rune{
	0x28: 0x207D,
	0x29: 0x207E,
	0x2B: 0x207A,
	0x2D: 0x207B,
	0x30: 0x2070,
	0x31: 0x00B9,
	0x32: 0x00B2,
	0x33: 0x00B3,
	0x34: 0x2074,
	0x35: 0x2075,
	0x36: 0x2076,
	0x37: 0x2077,
	0x38: 0x2078,
	0x39: 0x2079,
}

// c1Controls are the C1 bytes MARC21 gives a meaning to.
var c1Controls = map[byte]rune{
	0x88: 0x0098, // non-sort begin
	0x89: 0x009C, // non-sort end
	0x8D: 0x200D, // zero width joiner
	0x8E: 0x200C, // zero width non-joiner
}

// lookup maps a position in the 0x21-0x7E range of set to a code point.
// combining is true for ANSEL diacritics.
func (s graphicSet) lookup(pos byte) (r rune, combining bool, ok bool) {
	switch s {
	case setBasicLatin:
		return rune(pos), false, true
	case setANSEL:
		if r, ok := anselCombining[pos|0x80]; ok {
			return r, true, true
		}
		r, ok := anselSpacing[pos|0x80]
		return r, false, ok
	case setGreekSymbols:
		r, ok := greekSymbols[pos]
		return r, false, ok
	case setSubscripts:
		r, ok := subscripts[pos]
		return r, false, ok
	case setSuperscripts:
		r, ok := superscripts[pos]
		return r, false, ok
	}
	return 0, false, false
}

// setForFinal returns the set designated by an escape sequence final byte.
// ok is false when the byte cannot end a designation.
func setForFinal(f byte) (graphicSet, bool) {
	switch f {
	case finalBasicLatin:
		return setBasicLatin, true
	case finalANSEL:
		return setANSEL, true
	case finalGreekSymbols:
		return setGreekSymbols, true
	case finalSubscripts:
		return setSubscripts, true
	case finalSuperscripts:
		return setSuperscripts, true
	}
	if f >= 0x30 && f <= 0x7E {
		return setUnsupported, true
	}
	return 0, false
}
