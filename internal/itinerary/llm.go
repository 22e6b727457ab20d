// Package itinerary defines the two itinerary record shapes, their schemas,
// the permissive normalization applied before validation, and the lossless
// conversion between them.
//
// ItineraryLLM is what the model is asked to produce. Its schema is strict
// about substance: free-text fields carry minimum word counts and times must
// be HH:MM. ItineraryApp is the normalized shape consumed by rendering code.
package itinerary

// ItineraryLLM is a multi-day travel plan as produced by the model.
type ItineraryLLM struct {
	Title       string   `json:"title" jsonschema:"required,minLength=1"`
	Destination string   `json:"destination" jsonschema:"required,minLength=1"`
	Summary     string   `json:"summary,omitempty" jsonschema_extras:"minWords=15"`
	StartDate   string   `json:"startDate,omitempty" jsonschema:"format=date"`
	Currency    string   `json:"currency,omitempty" jsonschema:"pattern=^[A-Z]{3}$"`
	Days        []DayLLM `json:"days" jsonschema:"required,minItems=1"`
}

// DayLLM is one day of an ItineraryLLM.
type DayLLM struct {
	Day        int           `json:"day" jsonschema:"required,minimum=1"`
	Date       string        `json:"date,omitempty" jsonschema:"format=date"`
	Theme      string        `json:"theme,omitempty" jsonschema_extras:"minWords=3"`
	Activities []ActivityLLM `json:"activities" jsonschema:"required,minItems=1"`
}

// ActivityLLM is a timed activity within a day.
type ActivityLLM struct {
	Time            string        `json:"time" jsonschema:"required,pattern=^([01][0-9]|2[0-3]):[0-5][0-9]$"`
	Name            string        `json:"name" jsonschema:"required,minLength=1"`
	Description     string        `json:"description" jsonschema:"required" jsonschema_extras:"minWords=12"`
	Notes           string        `json:"notes,omitempty" jsonschema_extras:"minWords=40"`
	DurationMinutes int           `json:"durationMinutes" jsonschema:"required,minimum=1"`
	Cost            float64       `json:"cost" jsonschema:"minimum=0"`
	Category        string        `json:"category" jsonschema:"required,enum=sightseeing,enum=food,enum=culture,enum=nature,enum=shopping,enum=nightlife,enum=transport,enum=lodging,enum=other"`
	Location        LocationLLM   `json:"location" jsonschema:"required"`
	Transport       *TransportLLM `json:"transport,omitempty"`
}

// LocationLLM places an activity on the map.
type LocationLLM struct {
	Name    string  `json:"name" jsonschema:"required,minLength=1"`
	Address string  `json:"address,omitempty"`
	Lat     float64 `json:"lat" jsonschema:"required,minimum=-90,maximum=90"`
	Lng     float64 `json:"lng" jsonschema:"required,minimum=-180,maximum=180"`
}

// TransportLLM describes how to reach an activity from the previous one.
type TransportLLM struct {
	Mode            string  `json:"mode" jsonschema:"required,enum=walk,enum=transit,enum=taxi,enum=car,enum=bike,enum=ferry,enum=train,enum=flight"`
	DurationMinutes int     `json:"durationMinutes,omitempty" jsonschema:"minimum=0"`
	Cost            float64 `json:"cost,omitempty" jsonschema:"minimum=0"`
}
