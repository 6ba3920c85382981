package models

import "time"

// GymClass is a scheduled class led by an instructor.
type GymClass struct {
	ClassID        int64     `json:"class_id" db:"class_id"`
	ClassName      string    `json:"class_name" db:"class_name"`
	InstructorID   int64     `json:"instructor_id" db:"instructor_id"`
	Date           time.Time `json:"date" db:"date"`
	Time           string    `json:"time" db:"time"` // "HH:MM:SS" time of day
	Capacity       int       `json:"capacity" db:"capacity"`
	Category       string    `json:"category" db:"category"`
	InstructorName *string   `json:"instructor_name,omitempty"` // joined for listings
	EnrolledCount  *int      `json:"enrolled_count,omitempty"`  // joined for availability
}

// GymClassAttendance records one member's enrollment in one class.
// The (class_id, member_id) pair is unique.
type GymClassAttendance struct {
	ClassID  int64 `json:"class_id" db:"class_id"`
	MemberID int64 `json:"member_id" db:"member_id"`
}

// CalendarEvent is a class rendered for a calendar view.
type CalendarEvent struct {
	ID    int64     `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Color string    `json:"color"`
}
