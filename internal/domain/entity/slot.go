package entity

// Slot is one fixed-width bookable interval of a doctor's working day.
type Slot struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
}
