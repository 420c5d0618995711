package employee

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Employee is the identity record this core reads but never mutates.
type Employee struct {
	ID       string
	FullName string
	Gender   Gender
	HireDate time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
