package models

import "time"

// GymAttendance is one member visit. A checkout equal to the zero time marks
// an open visit; the login flow closes stale open visits at check-in + 1h.
type GymAttendance struct {
	AttendanceID int64     `json:"attendance_id" db:"attendance_id"`
	MemberID     int64     `json:"member_id" db:"member_id"`
	Date         time.Time `json:"date" db:"date"`
	CheckIn      time.Time `json:"check_in" db:"check_in"`
	CheckOut     time.Time `json:"check_out" db:"check_out"`
	MemberName   *string   `json:"member_name,omitempty"` // joined for listings
}

// IsOpen reports whether the visit has no real checkout yet.
func (a GymAttendance) IsOpen() bool {
	return a.CheckOut.IsZero()
}
