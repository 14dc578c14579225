package calendar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarkhas/tasklane-server/internal/config"
	"github.com/dmarkhas/tasklane-server/internal/testutil"
)

func newDisabledGoogle(t *testing.T) *Google {
	t.Helper()

	g, err := NewGoogle(context.Background(), config.Calendar{
		CalendarID: "primary",
		Timezone:   "Europe/Berlin",
	}, testutil.MakeNoopLogger())
	require.NoError(t, err)
	return g
}

func TestGoogle_Disabled_CreateEventIsNoop(t *testing.T) {
	g := newDisabledGoogle(t)

	require.NoError(t, g.CreateEvent(context.Background(), "file taxes", "2026-04-15", ""))
}

func TestGoogle_BuildEvent_AllDay(t *testing.T) {
	g := newDisabledGoogle(t)

	event := g.buildEvent("file taxes", "2026-04-15", "bring receipts")

	assert.Equal(t, "Todo: file taxes", event.Summary)
	assert.Equal(t, "bring receipts", event.Description)
	assert.Equal(t, "2026-04-15", event.Start.Date)
	assert.Equal(t, "2026-04-15", event.End.Date)
	assert.Empty(t, event.Start.DateTime)
}

func TestGoogle_BuildEvent_TimedCarriesTimezone(t *testing.T) {
	// A dateTime with no UTC offset must come with an explicit time
	// zone or the insert is rejected.
	g := newDisabledGoogle(t)

	event := g.buildEvent("dentist", "2026-09-01T10:00:00", "")

	assert.Equal(t, "2026-09-01T10:00:00", event.Start.DateTime)
	assert.Equal(t, "Europe/Berlin", event.Start.TimeZone)
	assert.Equal(t, "2026-09-01T10:00:00", event.End.DateTime)
	assert.Equal(t, "Europe/Berlin", event.End.TimeZone)
	assert.Empty(t, event.Start.Date)
}
