package leave

import "github.com/Basel-Alghamdi/HRMS/internal/domain/employee"

// Policy holds the per-type request rules.
type Policy struct {
	// Default yearly entitlement in working days, used when provisioning.
	DefaultEntitlement int

	// MaxDaysPerRequest caps the working days of a single request.
	// Zero means no cap.
	MaxDaysPerRequest int

	// AttachmentAfterDays requires a supporting document once the computed
	// working days exceed this value. Zero means never required.
	AttachmentAfterDays int

	// Gender restricts eligibility. Empty means any.
	Gender employee.Gender
}

var policies = map[Type]Policy{
	TypeAnnual:      {DefaultEntitlement: 21},
	TypeSick:        {DefaultEntitlement: 30, AttachmentAfterDays: 2},
	TypeUnpaid:      {DefaultEntitlement: 0},
	TypeMaternity:   {DefaultEntitlement: 70, MaxDaysPerRequest: 70, Gender: employee.GenderFemale},
	TypePaternity:   {DefaultEntitlement: 3, MaxDaysPerRequest: 3, Gender: employee.GenderMale},
	TypeHajj:        {DefaultEntitlement: 15, MaxDaysPerRequest: 15},
	TypeEmergency:   {DefaultEntitlement: 5, MaxDaysPerRequest: 5},
	TypeMarriage:    {DefaultEntitlement: 5, MaxDaysPerRequest: 5},
	TypeBereavement: {DefaultEntitlement: 3, MaxDaysPerRequest: 3},
}

// PolicyFor returns the policy for a leave type.
func PolicyFor(t Type) (Policy, bool) {
	p, ok := policies[t]
	return p, ok
}

// Types lists every known leave type.
func Types() []Type {
	return []Type{
		TypeAnnual, TypeSick, TypeUnpaid, TypeMaternity, TypePaternity,
		TypeHajj, TypeEmergency, TypeMarriage, TypeBereavement,
	}
}

// AttachmentRequired reports whether a request of this type and length needs
// a supporting document.
func (p Policy) AttachmentRequired(days int) bool {
	return p.AttachmentAfterDays > 0 && days > p.AttachmentAfterDays
}

// AllowsGender reports whether an employee of the given gender may request
// this leave type.
func (p Policy) AllowsGender(g employee.Gender) bool {
	return p.Gender == "" || p.Gender == g
}
