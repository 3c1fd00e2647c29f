// Package server exposes record conversion over HTTP.
//
// Clients POST ISO 2709 data and receive MARC21-XML or MARC-in-JSON lines.
// Query parameters override the converter and output settings of the
// configuration for that request.
package server
