package charset

const esc = 0x1B

// MaxStackedMarks bounds how many combining marks may precede one base
// character. MARC-8 data rarely stacks more than three.
const MaxStackedMarks = 16

// cjkWidth is the byte width of a character in the MARC-8 EACC set.
const cjkWidth = 3

// decoder holds the state of a single Decode call.
type decoder struct {
	g0, g1   graphicSet
	g0Wide   bool
	fallback Fallback

	marks [MaxStackedMarks]rune
	n     int
}

// Decode converts MARC-8 text into Unicode code points. Combining marks are
// moved after the base character that follows them; marks left at the end
// of the input are emitted on their own.
func Decode(raw string, fb Fallback) ([]rune, error) {
	d := decoder{g0: setBasicLatin, g1: setANSEL, fallback: fb}
	out := make([]rune, 0, len(raw))
	var err error

	for i := 0; i < len(raw); {
		b := raw[i]
		switch {
		case b == esc:
			if next, ok := d.escape(raw, i); ok {
				i = next
				continue
			}
			if out, err = d.unmappable(out, raw[i:i+1], i, "malformed escape sequence"); err != nil {
				return nil, err
			}
			i++

		case b <= 0x20 || b == 0x7F:
			out = d.base(out, rune(b))
			i++

		case b < 0x7F:
			if d.g0Wide {
				w := min(cjkWidth, len(raw)-i)
				if out, err = d.unmappable(out, raw[i:i+w], i, "unsupported multibyte character set"); err != nil {
					return nil, err
				}
				i += w
				continue
			}
			if out, err = d.graphic(out, d.g0, b, b, i); err != nil {
				return nil, err
			}
			i++

		case b >= 0xA1 && b <= 0xFE:
			if out, err = d.graphic(out, d.g1, b, b&0x7F, i); err != nil {
				return nil, err
			}
			i++

		default:
			if r, ok := c1Controls[b]; ok {
				out = d.base(out, r)
			} else if out, err = d.unmappable(out, raw[i:i+1], i, "unmappable byte"); err != nil {
				return nil, err
			}
			i++
		}
	}

	return d.flush(out), nil
}

// graphic resolves byte b of a 94-character set; pos is its position
// within the set (0x21-0x7E).
func (d *decoder) graphic(out []rune, set graphicSet, b, pos byte, offset int) ([]rune, error) {
	r, combining, ok := set.lookup(pos)
	if !ok {
		return d.unmappable(out, string([]byte{b}), offset, "unmappable byte in "+set.String())
	}
	if combining {
		if d.n == MaxStackedMarks {
			return nil, &ConversionError{Offset: offset, Byte: b, Reason: "too many stacked combining marks"}
		}
		d.marks[d.n] = r
		d.n++
		return out, nil
	}
	return d.base(out, r), nil
}

// base emits a base character followed by any pending marks.
func (d *decoder) base(out []rune, r rune) []rune {
	out = append(out, r)
	return d.flush(out)
}

func (d *decoder) flush(out []rune) []rune {
	out = append(out, d.marks[:d.n]...)
	d.n = 0
	return out
}

// unmappable applies the fallback policy to seq, which starts at offset.
func (d *decoder) unmappable(out []rune, seq string, offset int, reason string) ([]rune, error) {
	switch d.fallback {
	case FallbackStrict:
		return nil, &ConversionError{Offset: offset, Byte: seq[0], Reason: reason}
	case FallbackPassthrough:
		for i := 0; i < len(seq); i++ {
			out = d.base(out, rune(seq[i]))
		}
		return out, nil
	}
	return d.base(out, ReplacementChar), nil
}

// escape applies the designation escape sequence starting at raw[i] and
// returns the index just past it. ok is false if the sequence is malformed
// or truncated; the decoder state is left untouched in that case.
func (d *decoder) escape(raw string, i int) (next int, ok bool) {
	j := i + 1
	if j >= len(raw) {
		return i, false
	}

	// Technique 1: ESC F switches G0 directly.
	switch raw[j] {
	case finalGreekSymbols, finalSubscripts, finalSuperscripts:
		set, _ := setForFinal(raw[j])
		d.g0, d.g0Wide = set, false
		return j + 1, true
	case finalBasicASCII:
		d.g0, d.g0Wide = setBasicLatin, false
		return j + 1, true
	}

	wide := false
	if raw[j] == '$' {
		wide = true
		j++
		if j >= len(raw) {
			return i, false
		}
	}

	toG1 := false
	switch raw[j] {
	case '(', ',':
		j++
	case ')', '-':
		toG1 = true
		j++
	default:
		// ESC $ F designates a multibyte set into G0.
		if !wide {
			return i, false
		}
	}
	if j < len(raw) && raw[j] == '!' {
		j++
	}
	if j >= len(raw) {
		return i, false
	}
	set, ok := setForFinal(raw[j])
	if !ok {
		return i, false
	}
	if wide {
		set = setUnsupported
	}

	if toG1 {
		d.g1 = set
	} else {
		d.g0, d.g0Wide = set, wide
	}
	return j + 1, true
}
