package planner

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func TestConvertTo24Hour(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12:00 AM", "00:00"},
		{"12:30 PM", "12:30"},
		{"9:05 AM", "09:05"},
		{"1:15 PM", "13:15"},
		{"11:59 PM", "23:59"},
		{"09:00 am", "09:00"},
		{"9:00AM", "09:00"},
		{" 6:45 PM ", "18:45"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ConvertTo24Hour(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertTo24Hour_Invalid(t *testing.T) {
	for _, in := range []string{"", "9:00", "9 AM", "13:00 PM", "0:30 AM", "9:60 AM", "9:5 AM", "noon", "9:00 XM"} {
		t.Run(in, func(t *testing.T) {
			_, err := ConvertTo24Hour(in)
			assert.ErrorIs(t, err, errBadClock)
		})
	}
}

func TestBuildItems(t *testing.T) {
	doc := types.ItineraryDocument{
		Days: []types.DayPlan{{
			Date: "2025-06-01",
			Activities: []types.ActivityPlan{{
				Time:        "9:00 AM - 10:30 AM",
				Activity:    "Breakfast at Manteigaria",
				Location:    "Chiado",
				Description: "Custard tarts",
			}},
		}},
	}

	items, skipped := BuildItems(doc)
	require.Empty(t, skipped)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, types.ItemTypeActivity, item.Type)
	assert.Equal(t, "Breakfast at Manteigaria", item.Title)
	require.NotNil(t, item.Location)
	assert.Equal(t, "Chiado", *item.Location)
	require.NotNil(t, item.Start)
	require.NotNil(t, item.End)
	assert.Equal(t, "2025-06-01T09:00:00", item.Start.Format(types.LocalDateTimeLayout))
	assert.Equal(t, "2025-06-01T10:30:00", item.End.Format(types.LocalDateTimeLayout))
	assert.Equal(t, time.UTC, item.Start.Location())
}

func TestBuildItems_SkipsMalformedActivities(t *testing.T) {
	doc := types.ItineraryDocument{
		Days: []types.DayPlan{
			{
				Date: "2025-06-01",
				Activities: []types.ActivityPlan{
					{Time: "9:00 AM to 10:00 AM", Activity: "No separator"},
					{Time: "13:00 PM - 2:00 PM", Activity: "Bad start"},
					{Time: "12:00 PM - 1:30 PM", Activity: "Lunch", Description: "  "},
					{Time: "3:00 PM - 25:00 PM", Activity: "Bad end"},
				},
			},
			{
				Date:       "2025-02-30",
				Activities: []types.ActivityPlan{{Time: "9:00 AM - 10:00 AM", Activity: "Impossible day"}},
			},
		},
	}

	items, skipped := BuildItems(doc)
	require.Len(t, items, 1)
	assert.Equal(t, "Lunch", items[0].Title)
	assert.Nil(t, items[0].Description)
	assert.Equal(t, "2025-06-01T13:30:00", items[0].End.Format(types.LocalDateTimeLayout))

	require.Len(t, skipped, 4)
	assert.ErrorIs(t, skipped[0], errNoRangeSeparator)
	assert.ErrorIs(t, skipped[1], errBadClock)
	assert.ErrorIs(t, skipped[2], errBadClock)
	assert.Equal(t, "2025-02-30", skipped[3].Date)

	var timeErr *types.ActivityTimeError
	assert.True(t, errors.As(skipped[1], &timeErr))
	assert.Equal(t, "13:00 PM - 2:00 PM", timeErr.Time)
}

func TestBuildItems_EmptyTitleGetsPlaceholder(t *testing.T) {
	items, skipped := BuildItems(types.ItineraryDocument{Days: []types.DayPlan{{
		Date:       "2025-06-02",
		Activities: []types.ActivityPlan{{Time: "10:00 AM - 11:00 AM"}},
	}}})
	require.Empty(t, skipped)
	require.Len(t, items, 1)
	assert.Equal(t, "Activity", items[0].Title)
}
