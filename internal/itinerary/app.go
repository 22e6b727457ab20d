package itinerary

// ItineraryApp is the normalized itinerary consumed by rendering code.
type ItineraryApp struct {
	Title       string   `json:"title" jsonschema:"required"`
	Destination string   `json:"destination" jsonschema:"required"`
	Summary     string   `json:"summary,omitempty"`
	StartDate   string   `json:"startDate,omitempty" jsonschema:"format=date"`
	Currency    string   `json:"currency,omitempty"`
	GeneratedAt string   `json:"generatedAt" jsonschema:"required,format=date-time"`
	Days        []DayApp `json:"days" jsonschema:"required"`
}

// DayApp is one day of an ItineraryApp.
type DayApp struct {
	DayNumber int        `json:"dayNumber" jsonschema:"required,minimum=1"`
	Date      string     `json:"date,omitempty" jsonschema:"format=date"`
	Title     string     `json:"title,omitempty"`
	TimeSlots []TimeSlot `json:"timeSlots" jsonschema:"required"`
}

// TimeSlot is a scheduled activity.
type TimeSlot struct {
	ID              string        `json:"id" jsonschema:"required,format=uuid"`
	StartTime       string        `json:"startTime" jsonschema:"required,pattern=^[0-9]?[0-9]:[0-5][0-9]$"`
	Title           string        `json:"title" jsonschema:"required"`
	Description     string        `json:"description,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	DurationMinutes int           `json:"durationMinutes" jsonschema:"minimum=0"`
	EstimatedCost   float64       `json:"estimatedCost" jsonschema:"minimum=0"`
	Category        string        `json:"category,omitempty"`
	Location        Place         `json:"location" jsonschema:"required"`
	Transport       *TransportApp `json:"transport,omitempty"`
}

// Place is a named location with coordinates.
type Place struct {
	Name        string      `json:"name" jsonschema:"required"`
	Address     string      `json:"address,omitempty"`
	Coordinates Coordinates `json:"coordinates" jsonschema:"required"`
}

// Coordinates is a WGS84 position.
type Coordinates struct {
	Latitude  float64 `json:"latitude" jsonschema:"required,minimum=-90,maximum=90"`
	Longitude float64 `json:"longitude" jsonschema:"required,minimum=-180,maximum=180"`
}

// TransportApp describes the leg leading to a time slot.
type TransportApp struct {
	Mode            string  `json:"mode" jsonschema:"required"`
	DurationMinutes int     `json:"durationMinutes,omitempty"`
	Cost            float64 `json:"cost,omitempty"`
}
