// Package calendar renders extracted events as an iCalendar document.
package calendar

import (
	"io"
	"regexp"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/sylly/backend/internal/models"
)

// ProdID identifies the producer in every exported calendar.
const ProdID = "-//Sylly//Syllabus Parser//EN"

var (
	isoDate     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	compactDate = regexp.MustCompile(`^\d{8}$`)
)

// Encoder writes VCALENDAR documents with one all-day VEVENT per dated event.
type Encoder struct {
	Now    func() time.Time
	NewUID func() string
}

// NewEncoder creates an Encoder stamping events with the current time and
// random UIDs.
func NewEncoder() *Encoder {
	return &Encoder{
		Now:    time.Now,
		NewUID: func() string { return uuid.NewString() + "@sylly" },
	}
}

// Encode writes events to w and returns how many became VEVENTs. Events
// without a calendar date (YYYY-MM-DD or YYYYMMDD) are skipped.
func (e *Encoder) Encode(w io.Writer, events []models.Event) (int, error) {
	cal := ics.NewCalendar()
	cal.SetProductId(ProdID)
	cal.SetCalscale("GREGORIAN")

	stamp := e.Now().UTC()
	written := 0
	for _, ev := range events {
		day, ok := dateOf(ev.Date)
		if !ok {
			continue
		}

		vevent := cal.AddEvent(e.NewUID())
		vevent.SetDtStampTime(stamp)
		vevent.SetSummary(ev.Title)
		vevent.SetAllDayStartAt(day)
		if ev.Type != "" {
			vevent.SetProperty(ics.ComponentPropertyCategories, ics.ToText(string(ev.Type)))
		}
		if ev.Location != "" {
			vevent.SetLocation(ev.Location)
		}
		if desc := description(ev); desc != "" {
			vevent.SetDescription(desc)
		}
		written++
	}

	if err := cal.SerializeTo(w); err != nil {
		return 0, err
	}
	return written, nil
}

// DateValue converts an event date to the iCalendar DATE form YYYYMMDD.
func DateValue(date string) (string, bool) {
	day, ok := dateOf(date)
	if !ok {
		return "", false
	}
	return day.Format("20060102"), true
}

func dateOf(date string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	if m := isoDate.FindStringSubmatch(date); m != nil {
		date = m[1] + m[2] + m[3]
	} else if !compactDate.MatchString(date) {
		return time.Time{}, false
	}
	day, err := time.Parse("20060102", date)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

func description(ev models.Event) string {
	var parts []string
	if ev.Time != "" {
		parts = append(parts, "Time: "+ev.Time)
	}
	if ev.Note != "" {
		parts = append(parts, ev.Note)
	}
	return strings.Join(parts, "\n")
}
