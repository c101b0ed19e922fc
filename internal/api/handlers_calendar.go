// handlers_calendar.go - iCalendar export handler
package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sylly/backend/internal/calendar"
	"github.com/sylly/backend/internal/models"
)

// CalendarFileName is the attachment name of exported calendars.
const CalendarFileName = "Calendar.ics"

type exportCalendarRequest struct {
	Events []models.Event `json:"events"`
}

// CalendarHandlerImpl implements the CalendarHandler interface
type CalendarHandlerImpl struct {
	encoder *calendar.Encoder
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(encoder *calendar.Encoder) CalendarHandler {
	if encoder == nil {
		encoder = calendar.NewEncoder()
	}
	return &CalendarHandlerImpl{encoder: encoder}
}

// HandleExportCalendar turns a JSON list of events into a downloadable .ics file
func (h *CalendarHandlerImpl) HandleExportCalendar(c echo.Context) error {
	var req exportCalendarRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("Invalid request body", err)
	}

	var buf bytes.Buffer
	n, err := h.encoder.Encode(&buf, req.Events)
	if err != nil {
		return NewInternalError("Failed to build calendar", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+CalendarFileName+`"`)
	c.Response().Header().Set("X-Event-Count", strconv.Itoa(n))
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}
