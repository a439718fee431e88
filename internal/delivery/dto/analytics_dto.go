package dto

type AnalyticsResponse struct {
	TotalDoctors             int            `json:"totalDoctors"`
	TotalPatients            int64          `json:"totalPatients"`
	TotalAppointments        int            `json:"totalAppointments"`
	AppointmentsByStatus     map[string]int `json:"appointmentsByStatus"`
	AppointmentsByDepartment map[string]int `json:"appointmentsByDepartment"`
}
