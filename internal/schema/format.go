package schema

import (
	"net/mail"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// formatMatches checks the string formats itineraries use. Unknown formats
// are annotations only and always pass.
func formatMatches(format, value string) bool {
	switch format {
	case "date-time":
		_, err := time.Parse(time.RFC3339, value)
		return err == nil
	case "date":
		_, err := time.Parse(time.DateOnly, value)
		return err == nil
	case "time":
		for _, layout := range []string{"15:04:05Z07:00", time.TimeOnly} {
			if _, err := time.Parse(layout, value); err == nil {
				return true
			}
		}
		return false
	case "email":
		addr, err := mail.ParseAddress(value)
		return err == nil && addr.Address == value
	case "uri":
		u, err := url.ParseRequestURI(value)
		return err == nil && u.Scheme != ""
	case "uuid":
		_, err := uuid.Parse(value)
		return err == nil && len(value) == 36
	default:
		return true
	}
}
