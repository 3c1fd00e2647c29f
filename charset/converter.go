package charset

import (
	"fmt"
	"strings"
)

// Converter turns the raw text of one control field or subfield into
// Unicode. Implementations must not keep state between calls.
type Converter interface {
	Convert(raw string) (string, error)
}

type identity struct{}

func (identity) Convert(raw string) (string, error) { return raw, nil }

func (identity) String() string { return StrategyIdentity }

// Identity returns its input unchanged.
var Identity Converter = identity{}

// MARC8 decodes MARC-8 text.
type MARC8 struct {
	Fallback Fallback
}

// Convert decodes raw as MARC-8.
func (m MARC8) Convert(raw string) (string, error) {
	if isPlainASCII(raw) {
		return raw, nil
	}
	runes, err := Decode(raw, m.Fallback)
	if err != nil {
		return "", err
	}
	return string(runes), nil
}

func (m MARC8) String() string { return StrategyMARC8 + "/" + m.Fallback.String() }

// Normalized composes the output of Inner into NFC.
type Normalized struct {
	Inner Converter
}

// Convert runs Inner and normalizes its result.
func (n Normalized) Convert(raw string) (string, error) {
	s, err := n.Inner.Convert(raw)
	if err != nil {
		return "", err
	}
	return Normalize(s), nil
}

func (n Normalized) String() string { return fmt.Sprintf("%v+nfc", n.Inner) }

// WithNormalization wraps c so its output is NFC. Identity and nil are
// returned as Identity: normalization only applies to decoded legacy text.
func WithNormalization(c Converter) Converter {
	switch v := c.(type) {
	case nil:
		return Identity
	case identity:
		return v
	case Normalized:
		return v
	}
	return Normalized{Inner: c}
}

// Strategy names accepted by New.
const (
	StrategyIdentity = "identity"
	StrategyMARC8    = "marc8"
)

// New builds a converter by strategy name. The empty name selects identity.
func New(name string, fb Fallback, normalize bool) (Converter, error) {
	var c Converter
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyIdentity:
		c = Identity
	case StrategyMARC8, "ansel":
		c = MARC8{Fallback: fb}
	default:
		return nil, fmt.Errorf("charset: unknown converter %q (want %s|%s)", name, StrategyIdentity, StrategyMARC8)
	}
	if normalize {
		c = WithNormalization(c)
	}
	return c, nil
}

// isPlainASCII reports whether s has no escapes and no bytes above 0x7E,
// in which case MARC-8 and Unicode agree byte for byte.
func isPlainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == esc || s[i] > 0x7E {
			return false
		}
	}
	return true
}
