package server

import (
	"net/http"

	"github.com/goccy/go-json"
)

type healthResponse struct {
	Status           string `json:"status"`
	ConvertedRecords int64  `json:"converted_records"`
	SkippedRecords   int64  `json:"skipped_records"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := healthResponse{
		Status:           "ok",
		ConvertedRecords: s.converted.Load(),
		SkippedRecords:   s.skipped.Load(),
	}
	_ = json.NewEncoder(w).Encode(resp)
}
