package planner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tripItem "github.com/FACorreiaa/go-trip-planner/internal/api/trip_item"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const timeRangeSeparator = " - "

var (
	errNoRangeSeparator = errors.New(`time range has no " - " separator`)
	errBadClock         = errors.New(`time must look like "H:MM AM" or "H:MM PM"`)
)

// ConvertTo24Hour turns "H:MM AM/PM" into "HH:MM". The hour must be between 1
// and 12; "0:30 AM" and "13:00 PM" are rejected. The hour "12" counts as zero
// before the PM offset is added, so "12:00 AM" is "00:00" and "12:30 PM" is
// "12:30".
func ConvertTo24Hour(clock string) (string, error) {
	clock = strings.TrimSpace(clock)
	hm, modifier, ok := strings.Cut(clock, " ")
	if !ok && len(clock) > 2 {
		hm, modifier = clock[:len(clock)-2], clock[len(clock)-2:]
	}
	modifier = strings.ToUpper(strings.TrimSpace(modifier))
	if modifier != "AM" && modifier != "PM" {
		return "", errBadClock
	}

	hours, minutes, ok := strings.Cut(strings.TrimSpace(hm), ":")
	if !ok || len(minutes) != 2 {
		return "", errBadClock
	}
	h, err := strconv.Atoi(hours)
	if err != nil || h < 1 || h > 12 {
		return "", errBadClock
	}
	m, err := strconv.Atoi(minutes)
	if err != nil || m < 0 || m > 59 {
		return "", errBadClock
	}

	if h == 12 {
		h = 0
	}
	if modifier == "PM" {
		h += 12
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

// composeDateTime joins a YYYY-MM-DD date and an "H:MM AM/PM" time and checks
// the result is a real wall-clock instant.
func composeDateTime(date, clock string) (time.Time, error) {
	hhmm, err := ConvertTo24Hour(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(types.LocalDateTimeLayout, strings.TrimSpace(date)+"T"+hhmm+":00")
}

// BuildItems converts every activity with a usable date and time range into an
// item. Activities that cannot be converted are returned as ActivityTimeErrors
// and do not affect the others.
func BuildItems(doc types.ItineraryDocument) ([]tripItem.ItemParams, []*types.ActivityTimeError) {
	var items []tripItem.ItemParams
	var skipped []*types.ActivityTimeError

	for _, day := range doc.Days {
		for _, act := range day.Activities {
			item, err := buildItem(day.Date, act)
			if err != nil {
				skipped = append(skipped, &types.ActivityTimeError{Date: day.Date, Time: act.Time, Err: err})
				continue
			}
			items = append(items, item)
		}
	}
	return items, skipped
}

func buildItem(date string, act types.ActivityPlan) (tripItem.ItemParams, error) {
	startClock, endClock, ok := strings.Cut(act.Time, timeRangeSeparator)
	if !ok {
		return tripItem.ItemParams{}, errNoRangeSeparator
	}
	start, err := composeDateTime(date, startClock)
	if err != nil {
		return tripItem.ItemParams{}, fmt.Errorf("start: %w", err)
	}
	end, err := composeDateTime(date, endClock)
	if err != nil {
		return tripItem.ItemParams{}, fmt.Errorf("end: %w", err)
	}

	title := strings.TrimSpace(act.Activity)
	if title == "" {
		title = "Activity"
	}
	return tripItem.ItemParams{
		Type:        types.ItemTypeActivity,
		Title:       title,
		Description: optional(act.Description),
		Location:    optional(act.Location),
		Start:       &start,
		End:         &end,
	}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
