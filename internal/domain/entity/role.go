package entity

// Role names. These are the only roles the system knows about.
const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// IsSelfRegistrable reports whether role may be chosen at sign-up.
func IsSelfRegistrable(role string) bool {
	return role == RoleDoctor || role == RolePatient
}
