package entity

import "time"

type EmergencyContact struct {
	Name     string `gorm:"type:varchar(255)" json:"name,omitempty"`
	Phone    string `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Relation string `gorm:"type:varchar(50)" json:"relation,omitempty"`
}

// Patient is created at registration or, minimally, on first booking.
type Patient struct {
	ID               string           `gorm:"type:varchar(64);primaryKey" json:"id"`
	UserID           string           `gorm:"type:varchar(64);index" json:"userId,omitempty"`
	Name             string           `gorm:"type:varchar(255);not null" json:"name"`
	Email            string           `gorm:"type:varchar(255)" json:"email"`
	Phone            string           `gorm:"type:varchar(50)" json:"phone"`
	Age              *int             `json:"age,omitempty"`
	Gender           string           `gorm:"type:varchar(20)" json:"gender,omitempty"`
	Address          string           `gorm:"type:text" json:"address,omitempty"`
	MedicalHistory   StringList       `gorm:"type:jsonb" json:"medicalHistory"`
	Allergies        StringList       `gorm:"type:jsonb" json:"allergies"`
	EmergencyContact EmergencyContact `gorm:"embedded;embeddedPrefix:emergency_contact_" json:"emergencyContact"`
	Appointments     StringList       `gorm:"type:jsonb" json:"appointments"`
	CreatedAt        time.Time        `json:"createdAt"`
}

func (Patient) TableName() string {
	return "patients"
}
