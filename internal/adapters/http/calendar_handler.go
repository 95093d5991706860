package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/harmonysync/backend/internal/application/services"
	"github.com/harmonysync/backend/internal/infrastructure/logger"
)

// CalendarHandler exposes the read-through calendar endpoint.
type CalendarHandler struct {
	calendarService *services.CalendarService
	logger          *logger.Logger
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(calendarService *services.CalendarService, logger *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
		logger:          logger,
	}
}

// Events returns the next 30 days of primary-calendar events, start and end
// rewritten into the fixed timezone.
func (h *CalendarHandler) Events(c echo.Context) error {
	events, err := h.calendarService.UpcomingEvents(c.Request().Context())
	if err != nil {
		h.logger.Error("Fetching calendar events failed", "error", err)
		return err
	}

	return c.JSON(http.StatusOK, events)
}
