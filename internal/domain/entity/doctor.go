package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Defaults applied when a doctor record carries no schedule of its own.
const (
	DefaultWorkingStart = "09:00"
	DefaultWorkingEnd   = "17:00"
	DefaultSlotMinutes  = 30
	DoctorStatusActive  = "Available"
)

// DefaultWorkingDays is the schedule given to newly registered doctors.
var DefaultWorkingDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}

// WorkingHours holds "HH:MM" 24-hour local times.
type WorkingHours struct {
	Start string `gorm:"type:varchar(5)" json:"start"`
	End   string `gorm:"type:varchar(5)" json:"end"`
}

// Doctor is a bookable practitioner. Appointments is a denormalized list of
// appointment ids kept in step by the booking and delete flows.
type Doctor struct {
	ID              string          `gorm:"type:varchar(64);primaryKey" json:"id"`
	UserID          string          `gorm:"type:varchar(64);index" json:"userId,omitempty"`
	Name            string          `gorm:"type:varchar(255);not null" json:"name"`
	Email           string          `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone           string          `gorm:"type:varchar(50)" json:"phone"`
	Bio             string          `gorm:"type:text" json:"bio"`
	Department      string          `gorm:"type:varchar(100);index" json:"department"`
	Specialization  string          `gorm:"type:varchar(100);index" json:"specialization"`
	Qualifications  StringList      `gorm:"type:jsonb" json:"qualifications"`
	WorkingDays     StringList      `gorm:"type:jsonb" json:"workingDays"`
	WorkingHours    WorkingHours    `gorm:"embedded;embeddedPrefix:working_hours_" json:"workingHours"`
	SlotMinutes     int             `gorm:"not null;default:30" json:"slotMinutes"`
	ConsultationFee decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"consultationFee"`
	Appointments    StringList      `gorm:"type:jsonb" json:"appointments"`
	Status          string          `gorm:"type:varchar(50)" json:"status,omitempty"`
	Rating          float64         `json:"rating,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func (Doctor) TableName() string {
	return "doctors"
}
