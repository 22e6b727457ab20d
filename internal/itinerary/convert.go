package itinerary

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/CodexForgeBR/tripfix/internal/jsonvalue"
)

// DecodeLLM converts a parsed value into an ItineraryLLM. It does not
// validate; run Validate first for a full violation list.
func DecodeLLM(v jsonvalue.Value) (ItineraryLLM, error) {
	var it ItineraryLLM
	if v.Kind() != jsonvalue.KindObject {
		return it, fmt.Errorf("decode itinerary: expected object, got %s", v.Kind())
	}
	if err := jsonvalue.Into(v, &it); err != nil {
		return it, fmt.Errorf("decode itinerary: %w", err)
	}
	return it, nil
}

type convertOptions struct {
	now   func() time.Time
	newID func() string
}

// Option customizes ToApp.
type Option func(*convertOptions)

// WithClock sets the clock used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(o *convertOptions) { o.now = now }
}

// WithIDSource sets the generator for time slot IDs.
func WithIDSource(newID func() string) Option {
	return func(o *convertOptions) { o.newID = newID }
}

// ToApp converts an LLM itinerary into the app shape. Every field carries
// over; each time slot gets a fresh UUID and GeneratedAt is stamped in UTC.
func ToApp(it ItineraryLLM, opts ...Option) ItineraryApp {
	o := convertOptions{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}

	app := ItineraryApp{
		Title:       it.Title,
		Destination: it.Destination,
		Summary:     it.Summary,
		StartDate:   it.StartDate,
		Currency:    it.Currency,
		GeneratedAt: o.now().UTC().Format(time.RFC3339),
	}
	if it.Days != nil {
		app.Days = make([]DayApp, len(it.Days))
	}
	for i, d := range it.Days {
		day := DayApp{DayNumber: d.Day, Date: d.Date, Title: d.Theme}
		if d.Activities != nil {
			day.TimeSlots = make([]TimeSlot, len(d.Activities))
		}
		for j, a := range d.Activities {
			day.TimeSlots[j] = TimeSlot{
				ID:              o.newID(),
				StartTime:       a.Time,
				Title:           a.Name,
				Description:     a.Description,
				Notes:           a.Notes,
				DurationMinutes: a.DurationMinutes,
				EstimatedCost:   a.Cost,
				Category:        a.Category,
				Location: Place{
					Name:    a.Location.Name,
					Address: a.Location.Address,
					Coordinates: Coordinates{
						Latitude:  a.Location.Lat,
						Longitude: a.Location.Lng,
					},
				},
			}
			if a.Transport != nil {
				day.TimeSlots[j].Transport = &TransportApp{
					Mode:            a.Transport.Mode,
					DurationMinutes: a.Transport.DurationMinutes,
					Cost:            a.Transport.Cost,
				}
			}
		}
		app.Days[i] = day
	}
	return app
}

// FromApp is the inverse of ToApp. Slot IDs and GeneratedAt have no LLM
// counterpart and are dropped.
func FromApp(app ItineraryApp) ItineraryLLM {
	it := ItineraryLLM{
		Title:       app.Title,
		Destination: app.Destination,
		Summary:     app.Summary,
		StartDate:   app.StartDate,
		Currency:    app.Currency,
	}
	if app.Days != nil {
		it.Days = make([]DayLLM, len(app.Days))
	}
	for i, d := range app.Days {
		day := DayLLM{Day: d.DayNumber, Date: d.Date, Theme: d.Title}
		if d.TimeSlots != nil {
			day.Activities = make([]ActivityLLM, len(d.TimeSlots))
		}
		for j, s := range d.TimeSlots {
			day.Activities[j] = ActivityLLM{
				Time:            s.StartTime,
				Name:            s.Title,
				Description:     s.Description,
				Notes:           s.Notes,
				DurationMinutes: s.DurationMinutes,
				Cost:            s.EstimatedCost,
				Category:        s.Category,
				Location: LocationLLM{
					Name:    s.Location.Name,
					Address: s.Location.Address,
					Lat:     s.Location.Coordinates.Latitude,
					Lng:     s.Location.Coordinates.Longitude,
				},
			}
			if s.Transport != nil {
				day.Activities[j].Transport = &TransportLLM{
					Mode:            s.Transport.Mode,
					DurationMinutes: s.Transport.DurationMinutes,
					Cost:            s.Transport.Cost,
				}
			}
		}
		it.Days[i] = day
	}
	return it
}
