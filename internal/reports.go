package internal

import (
	"net/http"
	"time"

	"asset-tracking-api/pkg/reporter"
)

// statsReport returns the statistics report as JSON, computed against the
// request time.
func (s *Server) statsReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.Assets.Statistics(r.Context(), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// statsWorkbook streams the statistics report as an Excel workbook.
func (s *Server) statsWorkbook(w http.ResponseWriter, r *http.Request) {
	rep, err := s.Assets.Statistics(r.Context(), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="statistics.xlsx"`)
	if err := reporter.Write(rep, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
