package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fairwaycup/matchplay/services"
)

type ExportHandler struct {
	exportService services.ExportService
}

func NewExportHandler(exportService services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func (h *ExportHandler) DownloadResults(w http.ResponseWriter, r *http.Request) {
	data, err := h.exportService.ResultsCSV(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeCSV(w, r, services.ExportResults, data)
}

func (h *ExportHandler) DownloadField(w http.ResponseWriter, r *http.Request) {
	data, err := h.exportService.FieldCSV(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeCSV(w, r, services.ExportField, data)
}

// Archive renders the named export and uploads it to object storage.
func (h *ExportHandler) Archive(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	result, err := h.exportService.Archive(r.Context(), kind)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"archive": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func writeCSV(w http.ResponseWriter, r *http.Request, name string, data []byte) {
	filename := fmt.Sprintf("%s-%s.csv", name, time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(data); err != nil {
		serverErrorResponse(w, r, err)
	}
}
