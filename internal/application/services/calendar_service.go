package services

import (
	"context"
	"time"

	google "github.com/harmonysync/backend/internal/google"
	"github.com/harmonysync/backend/internal/infrastructure/logger"
)

// calendarWindow is how far ahead the event listing looks.
const calendarWindow = 30 * 24 * time.Hour

// CalendarService reads the authenticated user's primary calendar.
type CalendarService struct {
	auth   *AuthService
	logger *logger.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewCalendarService creates a new calendar service
func NewCalendarService(auth *AuthService, loc *time.Location, logger *logger.Logger) *CalendarService {
	return &CalendarService{
		auth:   auth,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

// WithClock overrides the service clock. Tests use it to pin the window.
func (s *CalendarService) WithClock(now func() time.Time) *CalendarService {
	s.now = now
	return s
}

// UpcomingEvents returns the next 30 days of events with start/end rewritten
// into the fixed timezone.
func (s *CalendarService) UpcomingEvents(ctx context.Context) ([]google.Event, error) {
	ts, err := s.auth.TokenSource(ctx)
	if err != nil {
		return nil, err
	}

	client, err := google.NewCalendarClient(ctx, ts, s.loc)
	if err != nil {
		return nil, err
	}

	from := s.now().In(s.loc)
	to := from.Add(calendarWindow)

	events, err := client.ListUpcoming(ctx, from, to)
	s.logger.LogUpstreamCall("calendar", "events.list", err)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Fetched calendar events", "count", len(events))
	return events, nil
}
