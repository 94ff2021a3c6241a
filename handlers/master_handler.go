package handlers

import (
	"net/http"
	"strings"

	"transporterp/models"
	"transporterp/repository"
)

type MasterHandler struct {
	Repo repository.MasterRepository
}

func (h *MasterHandler) SearchParties(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repo.SearchParties(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, r, err, "Failed to fetch parties")
		return
	}
	if list == nil {
		list = []*models.Party{}
	}
	writeData(w, http.StatusOK, list)
}

func (h *MasterHandler) GetParty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid party id", nil)
		return
	}
	p, err := h.Repo.GetParty(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Party not found")
		return
	}
	writeData(w, http.StatusOK, p)
}

func (h *MasterHandler) SearchMotorOwners(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repo.SearchMotorOwners(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, r, err, "Failed to fetch motor owners")
		return
	}
	if list == nil {
		list = []*models.MotorOwner{}
	}
	writeData(w, http.StatusOK, list)
}

func (h *MasterHandler) GetMotorOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid motor owner id", nil)
		return
	}
	o, err := h.Repo.GetMotorOwner(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Motor owner not found")
		return
	}
	writeData(w, http.StatusOK, o)
}

func (h *MasterHandler) ListOwnVehicles(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repo.ListOwnVehicles(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to fetch own vehicles")
		return
	}
	if list == nil {
		list = []string{}
	}
	writeData(w, http.StatusOK, list)
}

func (h *MasterHandler) AddOwnVehicle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		VehicleNumber string `json:"vehicle_number"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		badRequest(w, "Invalid request payload", err)
		return
	}
	if strings.TrimSpace(body.VehicleNumber) == "" {
		badRequest(w, "vehicle_number is required", nil)
		return
	}

	v, err := h.Repo.AddOwnVehicle(r.Context(), body.VehicleNumber)
	if err != nil {
		writeError(w, r, err, "Failed to add own vehicle")
		return
	}
	writeJSON(w, http.StatusCreated, ApiResponse{Success: true, Message: "Own vehicle added", Data: v})
}
