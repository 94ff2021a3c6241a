package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"transporterp/models"
	"transporterp/services"
	"transporterp/utils"
)

const maxPODBytes = 10 << 20

// PODStorage uploads POD documents and returns their public URL.
type PODStorage interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Delete(ctx context.Context, fileURL string) error
}

type TripHandler struct {
	Service *services.TripService
	Storage PODStorage
}

// ------------------------ CRUD ------------------------

func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var in services.TripInput
	if err := decodeJSON(w, r, &in); err != nil {
		badRequest(w, "Invalid request payload", err)
		return
	}

	trip, err := h.Service.CreateTrip(r.Context(), &in)
	if err != nil {
		writeError(w, r, err, "Failed to create trip")
		return
	}
	writeJSON(w, http.StatusCreated, ApiResponse{Success: true, Message: "Trip created", Data: trip})
}

func (h *TripHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.TripFilter{Deleted: q.Get("deleted") == "true"}

	own, err := optionalBool(q.Get("own"))
	if err != nil {
		badRequest(w, "Invalid own filter", err)
		return
	}
	filter.Own = own

	trips, err := h.Service.ListTrips(r.Context(), filter)
	if err != nil {
		writeError(w, r, err, "Failed to fetch trips")
		return
	}
	if trips == nil {
		trips = []*models.Trip{}
	}
	writeData(w, http.StatusOK, trips)
}

func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid trip id", nil)
		return
	}
	trip, err := h.Service.GetTrip(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Failed to fetch trip")
		return
	}
	writeData(w, http.StatusOK, trip)
}

func (h *TripHandler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid trip id", nil)
		return
	}
	var in services.TripInput
	if err := decodeJSON(w, r, &in); err != nil {
		badRequest(w, "Invalid request payload", err)
		return
	}

	trip, err := h.Service.UpdateTrip(r.Context(), id, &in)
	if err != nil {
		writeError(w, r, err, "Failed to update trip")
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Trip updated", Data: trip})
}

// ------------------------ Lifecycle ------------------------

func (h *TripHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid trip id", nil)
		return
	}
	trip, err := h.Service.SoftDeleteTrip(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Failed to delete trip")
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Trip moved to trash", Data: trip})
}

func (h *TripHandler) RestoreTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid trip id", nil)
		return
	}
	trip, err := h.Service.RestoreTrip(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Failed to restore trip")
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Trip restored", Data: trip})
}

func (h *TripHandler) PermanentDeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid trip id", nil)
		return
	}
	if err := h.Service.PermanentDeleteTrip(r.Context(), id); err != nil {
		writeError(w, r, err, "Failed to permanently delete trip")
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Trip permanently deleted"})
}

// ------------------------ POD ------------------------

// UploadPOD accepts a JSON body with one or more URLs, or a multipart form
// whose "pod" file is stored first.
func (h *TripHandler) UploadPOD(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid trip id", nil)
		return
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		h.uploadPODFile(w, r, id)
		return
	}

	var payload models.PODPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		badRequest(w, "Invalid request payload", err)
		return
	}
	trip, err := h.Service.UploadPOD(r.Context(), id, payload.URLs)
	if err != nil {
		writeError(w, r, err, "Failed to upload POD")
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "POD uploaded", Data: trip})
}

func (h *TripHandler) uploadPODFile(w http.ResponseWriter, r *http.Request, id int64) {
	if h.Storage == nil {
		writeJSON(w, http.StatusServiceUnavailable, ApiResponse{Success: false, Message: "File storage is not configured"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPODBytes+(1<<20))
	if err := r.ParseMultipartForm(maxPODBytes); err != nil {
		badRequest(w, "Invalid multipart form", err)
		return
	}
	file, header, err := r.FormFile("pod")
	if err != nil {
		badRequest(w, "Missing pod file", err)
		return
	}
	defer file.Close()

	body, err := io.ReadAll(io.LimitReader(file, maxPODBytes+1))
	if err != nil {
		badRequest(w, "Failed to read pod file", err)
		return
	}
	if len(body) > maxPODBytes {
		badRequest(w, fmt.Sprintf("POD file exceeds %d bytes", maxPODBytes), nil)
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}

	url, err := h.Storage.Upload(r.Context(), utils.PODObjectKey(id, header.Filename), body, contentType)
	if err != nil {
		writeError(w, r, err, "Failed to store POD file")
		return
	}

	trip, err := h.Service.UploadPOD(r.Context(), id, []string{url})
	if err != nil {
		if derr := h.Storage.Delete(context.WithoutCancel(r.Context()), url); derr != nil {
			slog.Warn("orphan POD object not removed", "url", url, "error", derr)
		}
		writeError(w, r, err, "Failed to upload POD")
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "POD uploaded", Data: trip})
}

// PODFile redirects to the latest POD document of the trip.
func (h *TripHandler) PODFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid trip id", nil)
		return
	}
	url, err := h.Service.LatestPOD(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "POD not found")
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// ------------------------ Printing ------------------------

type printMetadataRequest struct {
	Types []models.SlipType `json:"types"`
}

func (h *TripHandler) PrintMetadata(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid trip id", nil)
		return
	}
	var req printMetadataRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, "Invalid request payload", err)
		return
	}

	nums, err := h.Service.AllocateSlipNumbers(r.Context(), id, req.Types)
	if err != nil {
		writeError(w, r, err, "Failed to allocate slip numbers")
		return
	}
	writeData(w, http.StatusOK, nums)
}

// optionalBool parses a tri-state query flag; empty means unset.
func optionalBool(s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("%q is not a boolean", s)
	}
	return &b, nil
}
