// Package charset converts MARC-8 text into Unicode.
//
// MARC-8 is the legacy character encoding used by MARC21 records. Its default
// graphic sets are Basic Latin (ASCII) in G0 and ANSEL extended Latin in G1.
// ANSEL writes a combining diacritic before the letter it modifies; Unicode
// wants it after. Decode walks the input once, holds diacritics on a small
// stack and releases them after the next base character.
//
// # Converters
//
// The serializers take a Converter so conversion stays out of the rendering
// code:
//
//	conv, _ := charset.New("marc8", charset.FallbackReplace, true)
//	s, err := conv.Convert(raw)
//
// Identity is the default and returns text unchanged. MARC8 runs the decoder.
// WithNormalization adds Unicode canonical composition (NFC) on top.
//
// # Unmappable bytes
//
// Bytes with no mapping in the current graphic set are handled per Fallback:
// FallbackStrict fails with a *ConversionError, FallbackReplace emits U+FFFD
// and FallbackPassthrough emits the code point equal to the byte value.
//
// Lookup tables are package-level and never written after init, so
// converters can be shared freely between goroutines.
package charset
