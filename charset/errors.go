package charset

import (
	"errors"
	"fmt"
)

// ErrConversion matches every *ConversionError via errors.Is.
var ErrConversion = errors.New("charset: conversion error")

// ConversionError reports a byte sequence the decoder could not turn into
// Unicode. Offset is the byte position in the converted value.
type ConversionError struct {
	Offset int
	Byte   byte
	Reason string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("charset: %s at offset %d (0x%02X)", e.Reason, e.Offset, e.Byte)
}

// Is reports whether target is ErrConversion.
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}
