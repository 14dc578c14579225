// Package calendar mirrors due tasks into Google Calendar.
package calendar

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendarapi "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/dmarkhas/tasklane-server/internal/config"
	"github.com/dmarkhas/tasklane-server/internal/logger"
	"github.com/dmarkhas/tasklane-server/internal/model"
)

var _ model.Calendar = (*Google)(nil)

// Google inserts events into a single calendar using an offline OAuth
// refresh token. When credentials are not configured the client is
// disabled and CreateEvent is a no-op.
type Google struct {
	service    *calendarapi.Service
	calendarID string
	timezone   string
	logger     *logger.Logger
}

func NewGoogle(ctx context.Context, cfg config.Calendar, logger *logger.Logger) (*Google, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		logger.Info("google calendar credentials not set, mirroring disabled")
		return &Google{calendarID: cfg.CalendarID, timezone: cfg.Timezone, logger: logger}, nil
	}

	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{calendarapi.CalendarEventsScope},
	}
	ts := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	service, err := calendarapi.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &Google{
		service:    service,
		calendarID: cfg.CalendarID,
		timezone:   cfg.Timezone,
		logger:     logger,
	}, nil
}

// CreateEvent inserts one event for a due task. A date-only due date
// becomes an all-day event; a timestamp becomes a zero-length timed one.
func (g *Google) CreateEvent(ctx context.Context, title, dueDate, notes string) error {
	if g.service == nil {
		return nil
	}

	inserted, err := g.service.Events.Insert(g.calendarID, g.buildEvent(title, dueDate, notes)).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to insert calendar event: %w", err)
	}

	g.logger.Info("calendar event created", "event_id", inserted.Id)
	return nil
}

// buildEvent shapes the calendar event. Timed events carry the configured
// time zone because the due date string has no UTC offset.
func (g *Google) buildEvent(title, dueDate, notes string) *calendarapi.Event {
	event := &calendarapi.Event{
		Summary:     "Todo: " + title,
		Description: notes,
	}
	if strings.Contains(dueDate, "T") {
		event.Start = &calendarapi.EventDateTime{DateTime: dueDate, TimeZone: g.timezone}
		event.End = &calendarapi.EventDateTime{DateTime: dueDate, TimeZone: g.timezone}
	} else {
		event.Start = &calendarapi.EventDateTime{Date: dueDate}
		event.End = &calendarapi.EventDateTime{Date: dueDate}
	}
	return event
}
