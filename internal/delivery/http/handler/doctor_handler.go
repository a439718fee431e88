package handler

import (
	"encoding/json"
	"net/http"

	"ayursetu-backend/internal/delivery/dto"
	"ayursetu-backend/internal/domain/entity"
	"ayursetu-backend/internal/usecase"
	"ayursetu-backend/pkg/response"
	"ayursetu-backend/pkg/validator"

	"github.com/gorilla/mux"
)

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
	validator     *validator.CustomValidator
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
		validator:     validator,
	}
}

// GetAllDoctors lists doctors, optionally filtered by ?department= and ?q=.
func (h *DoctorHandler) GetAllDoctors(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := &entity.DoctorFilter{
		Department: query.Get("department"),
		Query:      query.Get("q"),
	}

	doctors, err := h.doctorUsecase.GetAllDoctors(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctor, err := h.doctorUsecase.GetDoctor(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if err == usecase.ErrDoctorNotFound {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.InternalServerError(w, "Failed to get doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

func (h *DoctorHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.doctorUsecase.GetAvailableSlots(r.Context(), mux.Vars(r)["id"], r.URL.Query().Get("date"))
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrDateRequired:
			response.BadRequest(w, err.Error())
		case usecase.ErrInvalidDate:
			response.BadRequest(w, "Invalid date")
		default:
			response.InternalServerError(w, "Failed to get available slots")
		}
		return
	}

	response.Success(w, http.StatusOK, "Available slots retrieved successfully", slots)
}

func (h *DoctorHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.UpdateDoctor(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrInvalidFee:
			response.BadRequest(w, err.Error())
		case usecase.ErrUnauthenticated:
			response.Unauthorized(w, "User not found in context")
		case usecase.ErrForbidden:
			response.Forbidden(w, "You can only update your own profile")
		default:
			response.InternalServerError(w, "Failed to update doctor")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor updated successfully", doctor)
}

func (h *DoctorHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.UpdateSchedule(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrInvalidSchedule, usecase.ErrInvalidWorkingDay:
			response.BadRequest(w, err.Error())
		case usecase.ErrUnauthenticated:
			response.Unauthorized(w, "User not found in context")
		case usecase.ErrForbidden:
			response.Forbidden(w, "You can only update your own schedule")
		default:
			response.InternalServerError(w, "Failed to update schedule")
		}
		return
	}

	response.Success(w, http.StatusOK, "Schedule updated successfully", doctor)
}
