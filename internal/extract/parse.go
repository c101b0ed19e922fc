package extract

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/sylly/backend/internal/models"
)

// rawEvent accepts both the documented event shape and the field names used
// by older collaborators ({"event": ..., "date": "YYYYMMDD"}).
type rawEvent struct {
	Title       string `json:"title"`
	Event       string `json:"event"`
	Type        string `json:"type"`
	EventType   string `json:"event_type"`
	Date        string `json:"date"`
	StartDate   string `json:"start_date"`
	Time        string `json:"time"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Location    string `json:"location"`
	Note        string `json:"note"`
	Description string `json:"description"`
}

type payload struct {
	Error  json.RawMessage `json:"error"`
	Events []rawEvent      `json:"events"`
}

// Parse decodes collaborator output: either {"events": [...]}, {"error": "..."}
// or a bare JSON array of events.
func Parse(output []byte) ([]models.Event, error) {
	trimmed := bytes.TrimSpace(output)
	if len(trimmed) == 0 {
		return nil, noOutput(nil)
	}

	raw := string(trimmed)
	if !json.Valid(trimmed) {
		return nil, badOutput(raw, nil)
	}

	var events []rawEvent
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &events); err != nil {
			return nil, badOutput(raw, err)
		}
	case '{':
		var p payload
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return nil, badOutput(raw, err)
		}
		if len(p.Error) > 0 && string(p.Error) != "null" {
			return nil, reported(errorText(p.Error))
		}
		events = p.Events
	default:
		return nil, badOutput(raw, nil)
	}

	return normalize(events), nil
}

func errorText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "unknown error"
		}
		return s
	}
	return string(raw)
}

var compactDate = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)

func normalize(raws []rawEvent) []models.Event {
	events := make([]models.Event, 0, len(raws))
	for _, r := range raws {
		title := firstNonEmpty(r.Title, r.Event)
		date := firstNonEmpty(r.Date, r.StartDate)
		if title == "" && date == "" {
			continue
		}
		if title == "" {
			title = "Untitled"
		}

		date = strings.TrimSpace(date)
		if m := compactDate.FindStringSubmatch(date); m != nil {
			date = m[1] + "-" + m[2] + "-" + m[3]
		}

		tm := r.Time
		if tm == "" && r.StartTime != "" {
			tm = r.StartTime
			if r.EndTime != "" {
				tm += " - " + r.EndTime
			}
		}

		events = append(events, models.Event{
			Title:    title,
			Type:     classify(firstNonEmpty(r.Type, r.EventType), title),
			Date:     date,
			Time:     tm,
			Location: r.Location,
			Note:     firstNonEmpty(r.Note, r.Description),
		})
	}
	return events
}

var typeKeywords = []struct {
	kind  models.EventType
	words []string
}{
	{models.EventTypeHoliday, []string{"holiday", "no class", "break"}},
	{models.EventTypeAssignment, []string{"assignment", "homework", "project", "essay", "lab report"}},
	{models.EventTypeExam, []string{"exam", "midterm", "final", "quiz"}},
	{models.EventTypeDeadline, []string{"due", "deadline", "submission"}},
	{models.EventTypeClass, []string{"lecture", "class", "lab", "seminar", "tutorial"}},
}

// classify maps a declared type onto the known kinds, inferring one from the
// title when nothing was declared.
func classify(declared, title string) models.EventType {
	if declared != "" {
		for _, k := range []models.EventType{
			models.EventTypeExam, models.EventTypeAssignment, models.EventTypeClass,
			models.EventTypeDeadline, models.EventTypeHoliday, models.EventTypeEvent,
		} {
			if strings.EqualFold(declared, string(k)) {
				return k
			}
		}
		if strings.EqualFold(declared, "lecture") {
			return models.EventTypeClass
		}
		r := []rune(declared)
		return models.EventType(strings.ToUpper(string(r[0])) + string(r[1:]))
	}

	lower := strings.ToLower(title)
	for _, tk := range typeKeywords {
		for _, w := range tk.words {
			if strings.Contains(lower, w) {
				return tk.kind
			}
		}
	}
	return models.EventTypeEvent
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
