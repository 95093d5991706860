package google

import (
	"context"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/harmonysync/backend/internal/domain/entities"
	"github.com/harmonysync/backend/internal/timeutil"
)

// CalendarClient wraps the Google Calendar service for one authenticated user.
type CalendarClient struct {
	svc *calendar.Service
	loc *time.Location
}

// NewCalendarClient creates a Calendar client using the given token source.
func NewCalendarClient(ctx context.Context, ts oauth2.TokenSource, loc *time.Location) (*CalendarClient, error) {
	svc, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, entities.NewUpstreamError("create calendar service", err)
	}

	return &CalendarClient{svc: svc, loc: loc}, nil
}

// ListUpcoming returns the primary calendar's events between from and to,
// expanded to single instances and ordered by start time, with start/end
// normalized into the fixed timezone.
func (c *CalendarClient) ListUpcoming(ctx context.Context, from, to time.Time) ([]Event, error) {
	result, err := c.svc.Events.List("primary").
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, entities.NewUpstreamError("list calendar events", err)
	}

	events := make([]Event, 0, len(result.Items))
	for _, item := range result.Items {
		ev := Event{
			ID:          item.Id,
			Summary:     item.Summary,
			Description: item.Description,
			Location:    item.Location,
			HTMLLink:    item.HtmlLink,
		}

		ev.Start, err = c.normalize(item.Start)
		if err != nil {
			return nil, err
		}
		ev.End, err = c.normalize(item.End)
		if err != nil {
			return nil, err
		}

		events = append(events, ev)
	}

	return events, nil
}

func (c *CalendarClient) normalize(edt *calendar.EventDateTime) (EventTime, error) {
	if edt == nil {
		return EventTime{}, nil
	}

	if edt.DateTime != "" {
		t, err := timeutil.NormalizeISO(edt.DateTime, c.loc)
		if err != nil {
			return EventTime{}, entities.NewUpstreamError("normalize event time", err)
		}
		return EventTime{DateTime: t.Format(time.RFC3339)}, nil
	}

	if edt.Date != "" {
		// All-day events carry a bare date; there is no instant to shift.
		d, err := timeutil.NormalizeDate(edt.Date)
		if err != nil {
			return EventTime{}, entities.NewUpstreamError("normalize event date", err)
		}
		return EventTime{Date: d}, nil
	}

	return EventTime{}, nil
}
