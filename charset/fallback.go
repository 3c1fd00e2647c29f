package charset

import (
	"fmt"
	"strings"
)

// Fallback controls what the decoder does with a byte that has no mapping.
type Fallback int

const (
	FallbackReplace     Fallback = iota // Emit U+FFFD and keep going.
	FallbackStrict                      // Fail with a *ConversionError.
	FallbackPassthrough                 // Emit the code point equal to the byte value.
)

// ReplacementChar is emitted for unmappable bytes under FallbackReplace.
const ReplacementChar = '\uFFFD'

func (f Fallback) String() string {
	switch f {
	case FallbackReplace:
		return "replace"
	case FallbackStrict:
		return "strict"
	case FallbackPassthrough:
		return "passthrough"
	}
	return fmt.Sprintf("Fallback(%d)", int(f))
}

// ParseFallback resolves a fallback by name. The empty string selects
// FallbackReplace.
func ParseFallback(name string) (Fallback, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "replace":
		return FallbackReplace, nil
	case "strict":
		return FallbackStrict, nil
	case "passthrough":
		return FallbackPassthrough, nil
	}
	return 0, fmt.Errorf("charset: unknown fallback %q (want strict|replace|passthrough)", name)
}
