package extract

import (
	"context"

	"github.com/sylly/backend/internal/models"
)

// Mock never runs a collaborator and always returns SampleEvents.
type Mock struct{}

// NewMock creates the placeholder extractor.
func NewMock() *Mock {
	return &Mock{}
}

// Extract returns the fixed sample events.
func (m *Mock) Extract(ctx context.Context, path string) ([]models.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return SampleEvents(), nil
}

// SampleEvents is the fixed demo result of the upload endpoint.
func SampleEvents() []models.Event {
	return []models.Event{
		{
			Title:    "Midterm Exam",
			Type:     models.EventTypeExam,
			Date:     "2023-11-15",
			Time:     "14:00 - 16:00",
			Location: "Classroom 302",
		},
		{
			Title:    "Programming Assignment",
			Type:     models.EventTypeAssignment,
			Date:     "2023-11-20",
			Time:     "23:59 Deadline",
			Location: "Online Submission",
		},
		{
			Title:    "Data Structures Lecture",
			Type:     models.EventTypeClass,
			Date:     "Every Monday, Wednesday",
			Time:     "09:00 - 10:30",
			Location: "Hall A",
		},
	}
}

// DetailEvents is the placeholder list shown by the file details view until
// per-file results are kept.
func DetailEvents() []models.Event {
	return []models.Event{
		{
			Title:    "Lecture 1: Introduction to Algorithms",
			Type:     models.EventTypeClass,
			Date:     "2025-02-03",
			Time:     "10:00-11:15 AM",
			Location: "Room 302",
			Note:     "Bring printed syllabus.",
		},
		{
			Title:    "Homework 1 Due",
			Type:     models.EventTypeAssignment,
			Date:     "2025-02-07",
			Time:     "11:59 PM",
			Location: "Canvas",
			Note:     "Covers Chapters 1-2.",
		},
		{
			Title:    "Midterm Exam",
			Type:     models.EventTypeExam,
			Date:     "2025-03-01",
			Time:     "2:00-3:30 PM",
			Location: "Main Hall 101",
			Note:     "Closed-book, calculators allowed.",
		},
	}
}
