package models

// EventType classifies an extracted calendar event.
type EventType string

const (
	EventTypeExam       EventType = "Exam"
	EventTypeAssignment EventType = "Assignment"
	EventTypeClass      EventType = "Class"
	EventTypeDeadline   EventType = "Deadline"
	EventTypeHoliday    EventType = "Holiday"
	EventTypeEvent      EventType = "Event"
)

// Event is a calendar-style entry extracted from a syllabus.
// Date and Time are free-form; extraction collaborators use differing formats.
type Event struct {
	Title    string    `json:"title" msgpack:"title"`
	Type     EventType `json:"type" msgpack:"type"`
	Date     string    `json:"date" msgpack:"date"`
	Time     string    `json:"time" msgpack:"time"`
	Location string    `json:"location,omitempty" msgpack:"location,omitempty"`
	Note     string    `json:"note,omitempty" msgpack:"note,omitempty"`
}
