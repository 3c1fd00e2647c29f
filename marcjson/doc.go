// Package marcjson renders records as MARC-in-JSON, one object per line.
//
// Records go through marcxml.RecordEvents, so validation and character set
// conversion are exactly those of the XML writer.
package marcjson
