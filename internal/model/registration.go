package model

// Registration is the join fact linking one User to one Sport: "this student
// is signed up for this sport." The (UserID, SportID) pair is the composite
// primary key in the database, so a student can never hold two rows for the
// same sport. There are no other attributes.
type Registration struct {
	UserID  string `json:"userId"  db:"user_id"`
	SportID string `json:"sportId" db:"sport_id"`
}

// RegistrationRecord is one row of the admin report.
//
// The report is a LEFT JOIN from registrations out to users and sports, so a
// registration whose user or sport row has gone missing still appears — with
// nil fields — rather than being silently dropped. Pointer fields model the
// nullable columns.
type RegistrationRecord struct {
	StudentID *string `json:"studentId"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Sport     *string `json:"sport"`
}
