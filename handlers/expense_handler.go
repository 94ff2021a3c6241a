package handlers

import (
	"net/http"

	"transporterp/models"
	"transporterp/repository"
	"transporterp/services"
)

type ExpenseHandler struct {
	Repo repository.ExpenseRepository
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repo.ListExpenses(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to fetch expenses")
		return
	}
	if list == nil {
		list = []*models.Expense{}
	}
	writeData(w, http.StatusOK, list)
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ExpenseInput
	if err := decodeJSON(w, r, &in); err != nil {
		badRequest(w, "Invalid request payload", err)
		return
	}
	e, err := in.ToExpense()
	if err != nil {
		writeError(w, r, err, "Invalid expense")
		return
	}
	if err := h.Repo.CreateExpense(r.Context(), e); err != nil {
		writeError(w, r, err, "Failed to create expense")
		return
	}
	writeJSON(w, http.StatusCreated, ApiResponse{Success: true, Message: "Expense created", Data: e})
}

func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "invalid expense id", nil)
		return
	}
	var in services.ExpenseInput
	if err := decodeJSON(w, r, &in); err != nil {
		badRequest(w, "Invalid request payload", err)
		return
	}
	e, err := in.ToExpense()
	if err != nil {
		writeError(w, r, err, "Invalid expense")
		return
	}
	e.ID = id
	if err := h.Repo.UpdateExpense(r.Context(), e); err != nil {
		writeError(w, r, err, "Failed to update expense")
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Expense updated", Data: e})
}
