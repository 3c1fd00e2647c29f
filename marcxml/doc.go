// Package marcxml serializes MARC records as MARC21-XML.
//
// A Writer validates each record, converts its text through a
// charset.Converter and turns it into a flat list of Events. The same list
// drives both output modes:
//
//   - stream: escaped XML written to an io.Writer, optionally indented
//   - tree:   an in-memory *etree.Document
//
// Usage:
//
//	w, err := marcxml.NewWriter(marcxml.Options{
//	    Output:    os.Stdout,
//	    Pretty:    true,
//	    Converter: charset.MARC8{},
//	    Normalize: true,
//	})
//	for _, rec := range records {
//	    if err := w.Write(rec); err != nil {
//	        // the record was not emitted; w is still usable
//	    }
//	}
//	err = w.Close()
//
// The first Write opens the collection element; Close ends it. A Write
// that fails validation or conversion emits nothing and leaves the Writer
// usable for the next record. Writes after Close fail with a *UsageError;
// a second Close is a no-op.
//
// A Writer is not safe for concurrent use. Separate Writers share no state.
package marcxml
