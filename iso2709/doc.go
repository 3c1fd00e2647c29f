// Package iso2709 reads and writes MARC records in their ISO 2709
// transmission format.
//
// A transmission record is a 24-byte leader, a directory of 12-byte
// entries (tag, field length, field offset) closed by a field terminator,
// the field data, and a record terminator. Data fields start with two
// indicator bytes followed by subfields, each introduced by the subfield
// delimiter and a one-byte code.
//
// Field text is returned exactly as stored; character set conversion is
// left to package charset.
package iso2709
