package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccess_KeepsEmptyListData(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusOK, "ok", []string{})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"message":"ok","data":[]}`, rec.Body.String())
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name     string
		write    func(w http.ResponseWriter)
		wantCode int
		wantBody string
	}{
		{"conflict", func(w http.ResponseWriter) { Conflict(w, "Time slot already booked") }, http.StatusConflict, `{"success":false,"message":"Time slot already booked"}`},
		{"not found default", func(w http.ResponseWriter) { NotFound(w, "") }, http.StatusNotFound, `{"success":false,"message":"Resource not found"}`},
		{"validation", func(w http.ResponseWriter) { ValidationError(w, map[string]string{"date": "date is required"}) }, http.StatusBadRequest, `{"success":false,"message":"Validation failed","error":{"date":"date is required"}}`},
		{"internal default", func(w http.ResponseWriter) { InternalServerError(w, "") }, http.StatusInternalServerError, `{"success":false,"message":"Internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
