package rest

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type exportRequest struct {
	Fields []string `json:"fields"`
}

func (h *Handler) exportAgreements(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON body"})
		return
	}

	exportID, err := h.exporter.StartAgreementsExport(r.Context(), req.Fields)
	if err != nil {
		log.Printf("[HTTP] start agreements export error: %v", err)
		writeEmpty(w, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"export_id": exportID})
}

func (h *Handler) listExports(w http.ResponseWriter, r *http.Request) {
	exports, err := h.exportList.GetExports(r.Context())
	if err != nil {
		log.Printf("[HTTP] list exports error: %v", err)
		writeEmpty(w, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, exports)
}

func (h *Handler) getExport(w http.ResponseWriter, r *http.Request) {
	exportID := chi.URLParam(r, "export_id")
	if exportID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "export_id is required"})
		return
	}

	export, err := h.exportList.GetExport(r.Context(), "exports:"+exportID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "export not found"})
		return
	}

	writeJSON(w, http.StatusOK, export)
}
