package server

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/theoremus-urban-solutions/marc2xml/config"
	"github.com/theoremus-urban-solutions/marc2xml/internal"
)

const headerSkipped = "X-Records-Skipped"

var contentTypes = map[string]string{
	config.FormatXML:   "application/xml; charset=utf-8",
	config.FormatJSONL: "application/x-ndjson",
}

type errorPayload struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
		Record  int    `json:"record,omitempty"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	var e errorPayload
	e.Error.Status = status
	e.Error.Message = err.Error()
	var rerr *internal.RecordError
	if errors.As(err, &rerr) {
		e.Error.Record = rerr.N
	}
	b, _ := json.Marshal(e)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

// handleConvert converts the request body. The whole response is built
// before anything is sent, so a failing record yields an error payload
// rather than a truncated document.
func (s *Server) handleConvert(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := parseRequestOptions(s.cfg, format, r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		conv, err := opts.cfg.Converter.Build()
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		var buf bytes.Buffer
		sink, err := internal.NewSink(opts.cfg.Output, conv, &buf)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		var skip func(*internal.RecordError)
		if opts.cont {
			skip = func(rerr *internal.RecordError) {
				log.Printf("[%s] %s: %v", requestID(r.Context()), r.URL.Path, rerr)
			}
		}
		body := http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
		stats, err := internal.Convert(body, sink, skip)
		if err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.As(err, &tooLarge):
				writeError(w, http.StatusRequestEntityTooLarge, err)
			case internal.Skippable(err):
				writeError(w, http.StatusUnprocessableEntity, err)
			default:
				writeError(w, http.StatusInternalServerError, err)
			}
			return
		}
		s.converted.Add(int64(stats.Records))
		s.skipped.Add(int64(stats.Skipped))

		w.Header().Set("Content-Type", contentTypes[format])
		w.Header().Set(headerSkipped, strconv.Itoa(stats.Skipped))
		_, _ = w.Write(buf.Bytes())
	}
}
