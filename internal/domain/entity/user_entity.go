package entity

import (
	"time"
)

// Role is the account type chosen at registration. It never changes afterwards.
type Role string

const (
	RolePatient Role = "patient"
	RoleWorker  Role = "worker"
)

// Gender is one of the values accepted at registration.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// User is the aggregate root for the credential store.
// PasswordHash holds a bcrypt digest, never the plaintext.
//
// IsApproved is true from creation for patients. Workers start unapproved
// and only an admin may flip the flag.
type User struct {
	ID           string
	Name         string
	Age          int
	Gender       Gender
	PhoneNumber  string
	CNIC         string
	Email        string
	PasswordHash string
	Role         Role
	IsApproved   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// InitialApproval returns the approval state a new account of the given role starts with.
func InitialApproval(r Role) bool {
	return r == RolePatient
}

// CanLogin reports whether the approval gate lets this user authenticate.
func (u *User) CanLogin() bool {
	return u.Role != RoleWorker || u.IsApproved
}
