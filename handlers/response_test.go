package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"transporterp/services"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&services.ValidationError{Field: "party_name", Message: "is required"}, http.StatusBadRequest},
		{fmt.Errorf("trip 4: %w", services.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: lock timeout", services.ErrConflict), http.StatusConflict},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/trips/1", nil)
	writeError(rec, req, fmt.Errorf("trip 1: %w", services.ErrNotFound), "Failed to fetch trip")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Failed to fetch trip","error":"trip 1: record not found"}`, rec.Body.String())
}

func TestRecoverWrapper(t *testing.T) {
	h := RecoverWrapper(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("nil map write")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	abort := RecoverWrapper(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		abort.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestOptionalBool(t *testing.T) {
	v, err := optionalBool("")
	assert.NoError(t, err)
	assert.Nil(t, v)

	v, err = optionalBool("false")
	assert.NoError(t, err)
	if assert.NotNil(t, v) {
		assert.False(t, *v)
	}

	_, err = optionalBool("yes please")
	assert.Error(t, err)
}
