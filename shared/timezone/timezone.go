// Package timezone renders instants in the configured application zone.
// Storage and arithmetic stay in UTC; only presentation goes through here.
package timezone

import (
	"dogwalking/config"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var location = sync.OnceValue(func() *time.Location {
	name := config.Get().App.Timezone
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, falling back to UTC")

		return time.UTC
	}

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")

	return loc
})

func GetLocation() *time.Location {
	return location()
}

func Now() time.Time {
	return time.Now().In(location())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(location())
}

// Parse reads value as wall time in the application zone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, location())
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// FormatPtr formats t, or returns empty for nil.
func FormatPtr(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}

	return Format(*t, layout)
}

// StartOfMonth truncates t to midnight of the first day of its month in the application zone.
func StartOfMonth(t time.Time) time.Time {
	local := ToAppTime(t)

	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, local.Location())
}
