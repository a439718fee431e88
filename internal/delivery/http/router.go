package http

import (
	"net/http"

	"ayursetu-backend/internal/delivery/http/handler"
	"ayursetu-backend/internal/delivery/http/middleware"
	"ayursetu-backend/pkg/response"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	apiPrefix          string
	authHandler        *handler.AuthHandler
	doctorHandler      *handler.DoctorHandler
	appointmentHandler *handler.AppointmentHandler
	patientHandler     *handler.PatientHandler
	analyticsHandler   *handler.AnalyticsHandler
	auditLogHandler    *handler.AuditLogHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	loggingMiddleware  *middleware.LoggingMiddleware
}

func NewRouter(
	apiPrefix string,
	authHandler *handler.AuthHandler,
	doctorHandler *handler.DoctorHandler,
	appointmentHandler *handler.AppointmentHandler,
	patientHandler *handler.PatientHandler,
	analyticsHandler *handler.AnalyticsHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		apiPrefix:          apiPrefix,
		authHandler:        authHandler,
		doctorHandler:      doctorHandler,
		appointmentHandler: appointmentHandler,
		patientHandler:     patientHandler,
		analyticsHandler:   analyticsHandler,
		auditLogHandler:    auditLogHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
		loggingMiddleware:  loggingMiddleware,
	}
}

// Setup registers every route. CORS and request logging wrap the whole
// router so preflight requests and unmatched paths pass through them too.
func (r *Router) Setup() http.Handler {
	r.router.HandleFunc("/healthz", r.healthCheck).Methods(http.MethodGet)

	api := r.router.PathPrefix(r.apiPrefix).Subrouter()

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.Me).Methods(http.MethodGet)

	// Doctor directory (public)
	doctors := api.PathPrefix("/doctors").Subrouter()
	doctors.HandleFunc("", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	doctors.HandleFunc("/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	doctors.HandleFunc("/{id}/slots", r.doctorHandler.GetAvailableSlots).Methods(http.MethodGet)

	// Doctor management (admin or the doctor)
	doctorStaff := api.PathPrefix("/doctors").Subrouter()
	doctorStaff.Use(r.authMiddleware.Authenticate)
	doctorStaff.Use(middleware.RequireAdminOrDoctor)
	doctorStaff.HandleFunc("/{id}", r.doctorHandler.UpdateDoctor).Methods(http.MethodPatch)
	doctorStaff.HandleFunc("/{id}/schedule", r.doctorHandler.UpdateSchedule).Methods(http.MethodPut)
	doctorStaff.HandleFunc("/{id}/appointments", r.appointmentHandler.GetDoctorAppointments).Methods(http.MethodGet)

	// Appointments (authenticated)
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.HandleFunc("", r.appointmentHandler.GetAllAppointments).Methods(http.MethodGet)
	appointments.HandleFunc("", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	appointments.HandleFunc("/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", r.appointmentHandler.DeleteAppointment).Methods(http.MethodDelete)
	appointments.HandleFunc("/{id}/status", r.appointmentHandler.UpdateAppointmentStatus).Methods(http.MethodPatch)

	// Patient list (admin or doctor)
	patientStaff := api.PathPrefix("/patients").Subrouter()
	patientStaff.Use(r.authMiddleware.Authenticate)
	patientStaff.Use(middleware.RequireAdminOrDoctor)
	patientStaff.HandleFunc("", r.patientHandler.GetAllPatients).Methods(http.MethodGet)

	// Patient records (authenticated, patients limited to their own)
	patients := api.PathPrefix("/patients").Subrouter()
	patients.Use(r.authMiddleware.Authenticate)
	patients.HandleFunc("/{id}", r.patientHandler.GetPatient).Methods(http.MethodGet)
	patients.HandleFunc("/{id}", r.patientHandler.UpdatePatient).Methods(http.MethodPatch)

	// Admin routes
	admin := api.NewRoute().Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/analytics", r.analyticsHandler.GetAnalytics).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	r.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r.corsMiddleware.Handle(r.loggingMiddleware.Handle(r.router))
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
