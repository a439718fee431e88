package entity

import "time"

// AuditLog represents a system audit trail entry
type AuditLog struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(64);index" json:"userId,omitempty"`
	Action    string    `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  JSON      `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Common audit actions
const (
	AuditActionUserLogin          = "user.login"
	AuditActionUserLogout         = "user.logout"
	AuditActionUserRegister       = "user.register"
	AuditActionAppointmentCreate  = "appointment.create"
	AuditActionAppointmentStatus  = "appointment.status"
	AuditActionAppointmentDelete  = "appointment.delete"
	AuditActionDoctorUpdate       = "doctor.update"
	AuditActionDoctorScheduleSave = "doctor.schedule"
	AuditActionPatientUpdate      = "patient.update"
)
