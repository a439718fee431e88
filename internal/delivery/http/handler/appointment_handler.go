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

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// GetAllAppointments lists appointments, optionally filtered by ?patientId=
// and ?doctorId=.
func (h *AppointmentHandler) GetAllAppointments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := &entity.AppointmentFilter{
		PatientID: query.Get("patientId"),
		DoctorID:  query.Get("doctorId"),
	}

	appointments, err := h.appointmentUsecase.GetAllAppointments(r.Context(), filter)
	if err != nil {
		if !writeAppointmentAccessError(w, err) {
			response.InternalServerError(w, "Failed to get appointments")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if err == usecase.ErrAppointmentNotFound {
			response.NotFound(w, "Appointment not found")
			return
		}
		if !writeAppointmentAccessError(w, err) {
			response.InternalServerError(w, "Failed to get appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) GetDoctorAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentUsecase.GetDoctorAppointments(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if err == usecase.ErrDoctorNotFound {
			response.NotFound(w, "Doctor not found")
			return
		}
		if !writeAppointmentAccessError(w, err) {
			response.InternalServerError(w, "Failed to get appointments")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		if h.validator.HasTag(err, "required") {
			response.Error(w, http.StatusBadRequest, "Missing required appointment fields", h.validator.FormatValidationErrors(err))
			return
		}
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.CreateAppointment(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentDoctorNotFound:
			response.BadRequest(w, "Doctor not found")
		case usecase.ErrInvalidDate:
			response.BadRequest(w, "Invalid date")
		case usecase.ErrInvalidTime, usecase.ErrInvalidFee:
			response.BadRequest(w, err.Error())
		case usecase.ErrSlotConflict:
			response.Conflict(w, "Time slot already booked")
		default:
			if !writeAppointmentAccessError(w, err) {
				response.InternalServerError(w, "Failed to create appointment")
			}
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

func (h *AppointmentHandler) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		if req.Status == "" {
			response.BadRequest(w, "status required")
			return
		}
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.UpdateAppointmentStatus(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrStatusRequired, usecase.ErrInvalidStatus:
			response.BadRequest(w, err.Error())
		case usecase.ErrSlotConflict:
			response.Conflict(w, "Time slot already booked")
		default:
			if !writeAppointmentAccessError(w, err) {
				response.InternalServerError(w, "Failed to update appointment")
			}
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}

func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	err := h.appointmentUsecase.DeleteAppointment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if err == usecase.ErrAppointmentNotFound {
			response.NotFound(w, "Appointment not found")
			return
		}
		if !writeAppointmentAccessError(w, err) {
			response.InternalServerError(w, "Failed to delete appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment deleted successfully", nil)
}

// writeAppointmentAccessError answers 401 or 403 and reports whether err was
// one of the access errors.
func writeAppointmentAccessError(w http.ResponseWriter, err error) bool {
	switch err {
	case usecase.ErrUnauthenticated:
		response.Unauthorized(w, "User not found in context")
	case usecase.ErrForbidden:
		response.Forbidden(w, "You can only access your own appointments")
	default:
		return false
	}
	return true
}
