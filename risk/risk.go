package risk

import (
	"strings"

	"safestreet-service/models"
)

// DefaultThreshold is the report count at which a location/day is flagged as
// should-avoid.
const DefaultThreshold = 3

// Key identifies one bucket of the risk model: a lowercased location name and
// a full English weekday name.
type Key struct {
	Location string
	Day      string
}

// Model counts historical reports per location and weekday. Keys never
// observed have an implicit count of zero.
type Model map[Key]int

// Build aggregates the full report history into a fresh model. The result is
// independent of the input order.
func Build(reports []models.HazardReport) Model {
	model := make(Model, len(reports))
	for _, r := range reports {
		model[Key{Location: strings.ToLower(r.LocationName), Day: r.DayOfWeek}]++
	}
	return model
}

// Predict evaluates the decision rule for a location and day against the
// model: should-avoid when the bucket count reaches the threshold. Returns the
// flag and the raw count.
func Predict(location, day string, model Model, threshold int) (bool, int) {
	score := model[Key{Location: strings.ToLower(location), Day: day}]
	return score >= threshold, score
}
