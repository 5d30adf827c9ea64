package models

import (
	"strings"
	"time"
)

// TimestampLayout is the creation-time format used on the wire and in the
// report store, second precision.
const TimestampLayout = "2006-01-02 15:04:05"

// HazardReport represents a single accessibility-hazard observation at a
// location. Reports are immutable once created.
type HazardReport struct {
	Timestamp     string `json:"timestamp"`
	DayOfWeek     string `json:"day"`
	LocationName  string `json:"location_name"`
	HazardType    string `json:"hazard_type"`
	Accessibility int    `json:"accessibility"`
	UserType      string `json:"user_type"`
	Temporary     bool   `json:"temporary"`
	Description   string `json:"description"`
	MediaURL      string `json:"media_url,omitempty"`
}

// ReportArgs is the submission payload for POST /api/report. Temporary is a
// pointer so that an absent field defaults to true instead of false.
type ReportArgs struct {
	LocationName  string `json:"location_name"`
	HazardType    string `json:"hazard_type"`
	Accessibility int    `json:"accessibility"`
	UserType      string `json:"user_type"`
	Temporary     *bool  `json:"temporary"`
	Description   string `json:"description"`
	MediaURL      string `json:"media_url"`
}

// NewHazardReport validates the submission and stamps a new report at the
// given creation time. The day of week is derived once here and stored on the
// report, never recomputed later.
func NewHazardReport(args ReportArgs, now time.Time) (*HazardReport, error) {
	if args.LocationName == "" {
		return nil, NewValidationError("location_name is required")
	}
	if args.HazardType == "" {
		return nil, NewValidationError("hazard_type is required")
	}
	if args.UserType == "" {
		return nil, NewValidationError("user_type is required")
	}
	if args.Accessibility < 1 || args.Accessibility > 5 {
		return nil, NewValidationError("accessibility must be between 1 and 5")
	}

	temporary := true
	if args.Temporary != nil {
		temporary = *args.Temporary
	}

	return &HazardReport{
		Timestamp:     now.Format(TimestampLayout),
		DayOfWeek:     now.Weekday().String(),
		LocationName:  args.LocationName,
		HazardType:    strings.ToLower(args.HazardType),
		Accessibility: args.Accessibility,
		UserType:      strings.ToLower(args.UserType),
		Temporary:     temporary,
		Description:   args.Description,
		MediaURL:      args.MediaURL,
	}, nil
}

// Prediction is the response payload for GET /api/predict.
type Prediction struct {
	Location    string `json:"location"`
	Day         string `json:"day"`
	Score       int    `json:"score"`
	ShouldAvoid bool   `json:"should_avoid"`
}

// SubmitResponse is the success envelope for POST /api/report.
type SubmitResponse struct {
	Status string        `json:"status"`
	Report *HazardReport `json:"report"`
}

// HazardsResponse is the success envelope for GET /api/hazards.
type HazardsResponse struct {
	Hazards []HazardReport `json:"hazards"`
}

// BroadcastMessage represents a message sent to WebSocket clients
type BroadcastMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status           string `json:"status"`
	Service          string `json:"service"`
	Timestamp        string `json:"timestamp"`
	ConnectedClients int    `json:"connected_clients"`
	ReportsFile      string `json:"reports_file"`
}
