package web

import (
	"encoding/json"
	"net/http"

	"github.com/greencart/greencart/internal/domain"
)

// maxReportItems bounds the item list a single report request may carry.
const maxReportItems = 100

type reportRequest struct {
	Items   []string               `json:"items"`
	Profile domain.ShoppingProfile `json:"profile"`
}

// handleGenerateReport produces a sustainability report for the submitted
// session. Generation failures are part of the response body, not an HTTP
// error: the result is always renderable data.
func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) > maxReportItems {
		s.writeError(w, http.StatusBadRequest, "too many items")
		return
	}

	result := s.session.GenerateReport(r.Context(), req.Items, req.Profile)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.session.PreviousReports(r.Context())
	if err != nil {
		s.logger.Error("list reports failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	if reports == nil {
		reports = []*domain.SavedReport{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}
