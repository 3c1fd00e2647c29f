// Package marc holds the read-only record model shared by the reader, the
// character-set converters and the serializers.
//
// A Record is produced upstream (see package iso2709) and only read by the
// rest of the module. Nothing in this module mutates a Record it was handed.
package marc
