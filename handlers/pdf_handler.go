package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"transporterp/services"
)

type PDFHandler struct {
	Service *services.PrintService
}

// GenerateSlips streams the slip sheet PDF for a trip.
func (h *PDFHandler) GenerateSlips(w http.ResponseWriter, r *http.Request) {
	var req services.PrintRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, "Invalid request payload", err)
		return
	}

	pdfBytes, sheet, err := h.Service.Generate(r.Context(), req)
	if err != nil {
		writeError(w, r, err, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="slip_%s.pdf"`, sheet.TripCode))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdfBytes)
}
